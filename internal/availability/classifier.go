// Package availability derives purchasability status for products and
// variants from publication state and stock. Status is computed fresh
// on every call; nothing is persisted.
package availability

import (
	"time"

	"github.com/VanilleBid/weekly-saleor/internal/catalog"
)

// ProductStatus is the availability state of a whole product.
type ProductStatus string

const (
	ProductNotPublished     ProductStatus = "not-published"
	ProductVariantsMissing  ProductStatus = "variants-missing"
	ProductNotCarried       ProductStatus = "not-carried"
	ProductOutOfStock       ProductStatus = "out-of-stock"
	ProductLowStock         ProductStatus = "low-stock"
	ProductNotYetAvailable  ProductStatus = "not-yet-available"
	ProductReadyForPurchase ProductStatus = "ready-for-purchase"
)

// VariantStatus is the availability state of a single variant.
type VariantStatus string

const (
	VariantNotCarried VariantStatus = "not-carried"
	VariantOutOfStock VariantStatus = "out-of-stock"
	VariantAvailable  VariantStatus = "available"
)

// Classifier evaluates availability ladders. The clock is injectable
// so the future-availability override is testable.
type Classifier struct {
	Now func() time.Time
}

func (c Classifier) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// ProductStatus walks the product availability ladder. A future
// available_on date overrides every other state and is checked last.
func (c Classifier) ProductStatus(p *catalog.Product) ProductStatus {
	status := c.productLadder(p)
	if p.AvailableOn != nil && p.AvailableOn.After(c.now()) {
		return ProductNotYetAvailable
	}
	return status
}

func (c Classifier) productLadder(p *catalog.Product) ProductStatus {
	if !p.Published {
		return ProductNotPublished
	}
	if p.Type.HasVariants && len(p.Variants) == 0 {
		return ProductVariantsMissing
	}
	carried := false
	allEmpty := true
	anyEmpty := false
	for i := range p.Variants {
		for j := range p.Variants[i].Stocks {
			carried = true
			if p.Variants[i].Stocks[j].QuantityAvailable() > 0 {
				allEmpty = false
			} else {
				anyEmpty = true
			}
		}
	}
	switch {
	case !carried:
		return ProductNotCarried
	case allEmpty:
		return ProductOutOfStock
	case anyEmpty:
		return ProductLowStock
	}
	return ProductReadyForPurchase
}

// VariantStatus walks the per-variant ladder over its own stock.
func (c Classifier) VariantStatus(v *catalog.ProductVariant) VariantStatus {
	if len(v.Stocks) == 0 {
		return VariantNotCarried
	}
	for i := range v.Stocks {
		if v.Stocks[i].QuantityAvailable() > 0 {
			return VariantAvailable
		}
	}
	return VariantOutOfStock
}
