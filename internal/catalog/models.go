// Package catalog holds the product domain types consumed by the
// pricing, discount, stock and availability components. Persistence
// of these records is owned by the surrounding storage layer.
package catalog

import (
	"time"

	"github.com/VanilleBid/weekly-saleor/internal/price"
	"github.com/VanilleBid/weekly-saleor/internal/stock"
)

// Category groups products. Categories form a tree via ParentID.
type Category struct {
	ID       int64
	Name     string
	Slug     string
	ParentID int64
}

// ProductType describes structural properties shared by products.
type ProductType struct {
	ID               int64
	Name             string
	HasVariants      bool
	ShippingRequired bool
}

// Product is a sellable item owning zero or more variants.
type Product struct {
	ID          int64
	Name        string
	Description string
	Type        ProductType
	CategoryID  int64
	Price       price.Price
	Published   bool
	AvailableOn *time.Time
	Variants    []ProductVariant
}

// ProductVariant is a concrete purchasable unit of a product. It owns
// its stock records, one per location.
type ProductVariant struct {
	ID            int64
	SKU           string
	Name          string
	PriceOverride *price.Price
	Stocks        []stock.Record
}

// Price returns the variant's own price when overridden, otherwise
// the owning product's price.
func (v *ProductVariant) Price(p *Product) price.Price {
	if v.PriceOverride != nil {
		return *v.PriceOverride
	}
	return p.Price
}

// InStock reports whether any stock record has sellable quantity.
func (v *ProductVariant) InStock() bool {
	for i := range v.Stocks {
		if v.Stocks[i].QuantityAvailable() > 0 {
			return true
		}
	}
	return false
}

// CheckQuantity verifies the requested quantity against the variant's
// combined stock.
func (v *ProductVariant) CheckQuantity(requested int) error {
	return stock.CheckQuantity(v.SKU, v.Stocks, requested)
}

// SelectStockRecord picks the cheapest stock record able to cover
// quantity, or nil.
func (v *ProductVariant) SelectStockRecord(quantity int) *stock.Record {
	return stock.SelectRecord(v.Stocks, quantity)
}

// CostPrice returns the cost price of the preferred stock record, or
// nil when the variant carries no usable stock.
func (v *ProductVariant) CostPrice() *price.Price {
	rec := v.SelectStockRecord(1)
	if rec == nil {
		return nil
	}
	return rec.CostPrice
}

// InStock reports whether any variant has sellable stock.
func (p *Product) InStock() bool {
	for i := range p.Variants {
		if p.Variants[i].InStock() {
			return true
		}
	}
	return false
}

// AvailableAt reports whether the product's availability window has
// opened as of now. A nil AvailableOn means always available.
func (p *Product) AvailableAt(now time.Time) bool {
	if p.AvailableOn == nil {
		return true
	}
	return !p.AvailableOn.After(now)
}

// Purchasable combines publication state and the availability window,
// mirroring the storefront listing filter.
func (p *Product) Purchasable(now time.Time) bool {
	return p.Published && p.AvailableAt(now)
}

// Address is the subset of a postal address the tax resolver needs.
type Address struct {
	Name       string
	Street     string
	City       string
	PostalCode string
	Country    string
}

// ShippingMethod is a selected delivery option for a checkout.
type ShippingMethod struct {
	Name        string
	Price       price.Price
	CountryCode string
}
