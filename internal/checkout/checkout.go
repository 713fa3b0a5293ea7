// Package checkout orchestrates quoting and order placement on top of
// the tax, discount and stock components.
package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/VanilleBid/weekly-saleor/internal/catalog"
	"github.com/VanilleBid/weekly-saleor/internal/discount"
	"github.com/VanilleBid/weekly-saleor/internal/price"
)

// Line is one cart line of a checkout.
type Line struct {
	Product  *catalog.Product
	Variant  *catalog.ProductVariant
	Quantity int
}

// Checkout is the aggregate handed to the pricing pipeline. Sales are
// the automatic discounts active at evaluation time; voucher
// resolution happens in the service.
type Checkout struct {
	ID              int64
	CustomerID      int64
	Currency        string
	Lines           []Line
	BillingAddress  *catalog.Address
	ShippingAddress *catalog.Address
	ShippingMethod  *catalog.ShippingMethod
	VoucherCode     string
	Sales           []discount.Sale
}

// UnitPrice returns the sale-adjusted unit price for a line.
func (c *Checkout) UnitPrice(l Line) price.Price {
	unit := l.Variant.Price(l.Product)
	return discount.CalculateDiscountedPrice(l.Product, unit, c.Sales, c.CustomerID)
}

// GetSubtotal sums the sale-adjusted line totals.
func (c *Checkout) GetSubtotal() price.Price {
	subtotal := decimal.Zero
	for _, l := range c.Lines {
		unit := c.UnitPrice(l)
		subtotal = subtotal.Add(unit.Gross.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return price.New(subtotal, c.Currency)
}

// IsShippingRequired reports whether any line's product type needs
// physical delivery.
func (c *Checkout) IsShippingRequired() bool {
	for _, l := range c.Lines {
		if l.Product.Type.ShippingRequired {
			return true
		}
	}
	return false
}

// GetShippingMethod returns the selected shipping method, if any.
func (c *Checkout) GetShippingMethod() *catalog.ShippingMethod {
	return c.ShippingMethod
}

// CartID identifies the underlying cart for line resolvers.
func (c *Checkout) CartID() int64 {
	return c.ID
}
