// Package pricing aggregates checkout totals from line items, a
// discount, a tax rate and a shipping cost.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/VanilleBid/weekly-saleor/internal/price"
)

// Item describes a line item used for totals calculation.
type Item struct {
	Qty       int
	UnitPrice decimal.Decimal
}

// Summary aggregates computed pricing components.
type Summary struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// Compute calculates checkout totals. The discount is capped at the
// subtotal; tax applies to the discounted subtotal plus shipping.
func Compute(items []Item, discount decimal.Decimal, taxRate float64, shipping decimal.Decimal) Summary {
	subtotal := decimal.Zero
	for _, it := range items {
		if it.Qty <= 0 {
			continue
		}
		subtotal = subtotal.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Qty))))
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	taxable := subtotal.Sub(discount).Add(shipping)
	tax := price.Round(taxable.Mul(decimal.NewFromFloat(taxRate)))
	total := taxable.Add(tax)
	return Summary{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Shipping: shipping,
		Total:    total,
	}
}
