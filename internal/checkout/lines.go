package checkout

import (
	"context"

	"github.com/VanilleBid/weekly-saleor/internal/discount"
)

// LinesResolver serves the discount engine from the in-memory cart
// lines. Prices are expanded per unit so a fixed budget spreads over
// individual items, not whole lines.
type LinesResolver struct {
	Checkout *Checkout
}

// ProductPrices returns unit prices of lines matching the product id.
// Zero matches every line.
func (r LinesResolver) ProductPrices(_ context.Context, _ int64, productID int64) ([]discount.VariantPrice, error) {
	return r.prices(func(l Line) bool {
		return productID == 0 || l.Product.ID == productID
	}), nil
}

// CategoryPrices returns unit prices of lines whose product belongs to
// the category.
func (r LinesResolver) CategoryPrices(_ context.Context, _ int64, categoryID int64) ([]discount.VariantPrice, error) {
	return r.prices(func(l Line) bool {
		return l.Product.CategoryID == categoryID
	}), nil
}

func (r LinesResolver) prices(match func(Line) bool) []discount.VariantPrice {
	var out []discount.VariantPrice
	for _, l := range r.Checkout.Lines {
		if !match(l) {
			continue
		}
		unit := r.Checkout.UnitPrice(l)
		for i := 0; i < l.Quantity; i++ {
			out = append(out, discount.VariantPrice{VariantID: l.Variant.ID, Price: unit})
		}
	}
	return out
}
