package discount

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/VanilleBid/weekly-saleor/internal/catalog"
	"github.com/VanilleBid/weekly-saleor/internal/price"
)

// Checkout is the view of a checkout the engine needs. The concrete
// aggregate lives in the checkout package.
type Checkout interface {
	GetSubtotal() price.Price
	IsShippingRequired() bool
	GetShippingMethod() *catalog.ShippingMethod
	CartID() int64
}

// VariantPrice is one eligible (variant, price) pair supplied by the
// line resolver for product and category vouchers.
type VariantPrice struct {
	VariantID int64
	Price     price.Price
}

// LineResolver supplies eligible cart lines. ProductPrices filters by
// an optional product id (zero means every line), CategoryPrices by
// category membership.
type LineResolver interface {
	ProductPrices(ctx context.Context, cartID, productID int64) ([]VariantPrice, error)
	CategoryPrices(ctx context.Context, cartID, categoryID int64) ([]VariantPrice, error)
}

// Engine evaluates vouchers against checkouts. Configuration is fixed
// at construction.
type Engine struct {
	Lines    LineResolver
	Currency string
}

// CheckoutDiscount computes the discount a voucher grants to the
// checkout, or a NotApplicable error explaining why it cannot be used.
func (e *Engine) CheckoutDiscount(ctx context.Context, v *Voucher, chk Checkout) (Discount, error) {
	switch v.Type {
	case VoucherValue:
		return e.valueDiscount(v, chk)
	case VoucherShipping:
		return e.shippingDiscount(v, chk)
	case VoucherProduct:
		return e.lineDiscount(ctx, v, chk, e.productPrices)
	case VoucherCategory:
		return e.lineDiscount(ctx, v, chk, e.categoryPrices)
	}
	return Discount{}, fmt.Errorf("discount: unknown voucher type %q", v.Type)
}

func (e *Engine) valueDiscount(v *Voucher, chk Checkout) (Discount, error) {
	subtotal := chk.GetSubtotal()
	if err := validateLimit(subtotal, v.Limit); err != nil {
		return Discount{}, err
	}
	var amount decimal.Decimal
	if v.ValueType == Percentage {
		amount = price.Percent(subtotal.Gross, v.Value)
	} else {
		amount = v.Value
	}
	return Discount{Name: v.Name, Amount: price.New(amount, subtotal.Currency)}, nil
}

func (e *Engine) shippingDiscount(v *Voucher, chk Checkout) (Discount, error) {
	if !chk.IsShippingRequired() {
		return Discount{}, notApplicable("Your order does not require shipping.")
	}
	method := chk.GetShippingMethod()
	if method == nil {
		return Discount{}, notApplicable("Please select a shipping method first.")
	}
	if v.ApplyTo != "" && v.ApplyTo != method.CountryCode {
		return Discount{}, notApplicable(fmt.Sprintf(
			"This offer is only valid in %s.", countryName(v.ApplyTo)))
	}
	if err := validateLimit(chk.GetSubtotal(), v.Limit); err != nil {
		return Discount{}, err
	}
	shipping := method.Price.Gross
	var amount decimal.Decimal
	if v.ValueType == Percentage {
		amount = price.Percent(shipping, v.Value)
	} else {
		amount = price.Min(v.Value, shipping)
	}
	return Discount{Name: v.Name, Amount: price.New(amount, method.Price.Currency)}, nil
}

type priceLoader func(ctx context.Context, v *Voucher, cartID int64) ([]VariantPrice, error)

func (e *Engine) productPrices(ctx context.Context, v *Voucher, cartID int64) ([]VariantPrice, error) {
	return e.Lines.ProductPrices(ctx, cartID, v.ProductID)
}

func (e *Engine) categoryPrices(ctx context.Context, v *Voucher, cartID int64) ([]VariantPrice, error) {
	return e.Lines.CategoryPrices(ctx, cartID, v.CategoryID)
}

func (e *Engine) lineDiscount(ctx context.Context, v *Voucher, chk Checkout, load priceLoader) (Discount, error) {
	lines, err := load(ctx, v, chk.CartID())
	if err != nil {
		return Discount{}, err
	}
	if len(lines) == 0 {
		return Discount{}, notApplicable("This offer is only valid for selected items.")
	}
	currency := lines[0].Price.Currency
	prices := make([]decimal.Decimal, 0, len(lines))
	for _, line := range lines {
		prices = append(prices, line.Price.Gross)
	}
	var amount decimal.Decimal
	switch {
	case v.ValueType == Percentage:
		total := decimal.Zero
		for _, p := range prices {
			total = total.Add(p)
		}
		amount = price.Percent(total, v.Value)
	case v.ApplyTo == ApplyToAllProducts:
		for _, p := range prices {
			amount = amount.Add(price.Min(v.Value, p))
		}
	default:
		amount = spreadFixed(v.Value, prices)
	}
	return Discount{Name: v.Name, Amount: price.New(amount, currency)}, nil
}

// spreadFixed consumes a fixed discount budget across lines in
// ascending price order. No single line is discounted below zero and
// the total never exceeds the budget.
func spreadFixed(budget decimal.Decimal, prices []decimal.Decimal) decimal.Decimal {
	sorted := make([]decimal.Decimal, len(prices))
	copy(sorted, prices)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	total := decimal.Zero
	remaining := budget
	for _, p := range sorted {
		if !remaining.IsPositive() {
			break
		}
		cut := price.Min(remaining, p)
		total = total.Add(cut)
		remaining = remaining.Sub(cut)
	}
	return total
}

func validateLimit(subtotal price.Price, limit *price.Price) error {
	if limit == nil || !subtotal.Gross.LessThan(limit.Gross) {
		return nil
	}
	return &NotApplicable{
		Reason: fmt.Sprintf("This offer is only valid for orders over %s.", limit),
		Limit:  limit,
	}
}

// countryName resolves the display name used in shipping voucher
// rejection messages, falling back to the raw code.
func countryName(code string) string {
	names := map[string]string{
		"DE": "Germany",
		"FR": "France",
		"GB": "United Kingdom",
		"HR": "Croatia",
		"PL": "Poland",
		"US": "United States of America",
	}
	if name, ok := names[code]; ok {
		return name
	}
	return code
}
