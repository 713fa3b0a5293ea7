package checkout

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/VanilleBid/weekly-saleor/internal/catalog"
	"github.com/VanilleBid/weekly-saleor/internal/discount"
	"github.com/VanilleBid/weekly-saleor/internal/price"
	"github.com/VanilleBid/weekly-saleor/internal/stock"
)

func eur(s string) price.Price {
	return price.New(decimal.RequireFromString(s), "EUR")
}

func physicalProduct(id int64, unit string) *catalog.Product {
	return &catalog.Product{
		ID:         id,
		Name:       "Tee",
		CategoryID: 1,
		Type:       catalog.ProductType{HasVariants: true, ShippingRequired: true},
		Price:      eur(unit),
		Published:  true,
	}
}

func stockedVariant(id int64, sku string, qty int) *catalog.ProductVariant {
	return &catalog.ProductVariant{
		ID:     id,
		SKU:    sku,
		Stocks: []stock.Record{{ID: id * 100, VariantID: id, Location: "main", Quantity: qty}},
	}
}

func TestUnitPriceAppliesBestSale(t *testing.T) {
	p := physicalProduct(1, "10.00")
	v := stockedVariant(1, "TEE-S", 5)
	chk := &Checkout{
		Currency: "EUR",
		Lines:    []Line{{Product: p, Variant: v, Quantity: 1}},
		Sales: []discount.Sale{
			{ID: 1, Type: discount.Fixed, Value: decimal.NewFromInt(2)},
			{ID: 2, Type: discount.Percentage, Value: decimal.NewFromInt(50)},
		},
	}

	unit := chk.UnitPrice(chk.Lines[0])
	require.True(t, unit.Gross.Equal(decimal.NewFromInt(5)))
}

func TestUnitPricePrefersVariantOverride(t *testing.T) {
	p := physicalProduct(1, "10.00")
	v := stockedVariant(1, "TEE-S", 5)
	override := eur("7.50")
	v.PriceOverride = &override

	chk := &Checkout{Currency: "EUR", Lines: []Line{{Product: p, Variant: v, Quantity: 1}}}
	unit := chk.UnitPrice(chk.Lines[0])
	require.True(t, unit.Gross.Equal(decimal.RequireFromString("7.50")))
}

func TestGetSubtotalSumsSaleAdjustedLines(t *testing.T) {
	p := physicalProduct(1, "10.00")
	chk := &Checkout{
		Currency: "EUR",
		Lines: []Line{
			{Product: p, Variant: stockedVariant(1, "TEE-S", 5), Quantity: 2},
			{Product: p, Variant: stockedVariant(2, "TEE-M", 5), Quantity: 1},
		},
		Sales: []discount.Sale{{ID: 1, Type: discount.Fixed, Value: decimal.NewFromInt(1)}},
	}

	// Unit drops to 9, three units total.
	subtotal := chk.GetSubtotal()
	require.True(t, subtotal.Gross.Equal(decimal.NewFromInt(27)))
	require.Equal(t, "EUR", subtotal.Currency)
}

func TestIsShippingRequired(t *testing.T) {
	physical := physicalProduct(1, "10.00")
	digital := &catalog.Product{ID: 2, Price: eur("5.00"), Published: true}

	chk := &Checkout{Lines: []Line{{Product: digital, Variant: stockedVariant(1, "EBOOK", 5), Quantity: 1}}}
	require.False(t, chk.IsShippingRequired())

	chk.Lines = append(chk.Lines, Line{Product: physical, Variant: stockedVariant(2, "TEE-S", 5), Quantity: 1})
	require.True(t, chk.IsShippingRequired())
}

func TestLinesResolverExpandsQuantities(t *testing.T) {
	p := physicalProduct(1, "10.00")
	chk := &Checkout{
		Currency: "EUR",
		Lines:    []Line{{Product: p, Variant: stockedVariant(1, "TEE-S", 5), Quantity: 3}},
	}

	resolver := LinesResolver{Checkout: chk}
	prices, err := resolver.ProductPrices(context.Background(), chk.ID, 0)
	require.NoError(t, err)
	require.Len(t, prices, 3)
	for _, vp := range prices {
		require.True(t, vp.Price.Gross.Equal(decimal.NewFromInt(10)))
	}
}

func TestLinesResolverFiltersByProductAndCategory(t *testing.T) {
	shirt := physicalProduct(1, "10.00")
	mug := physicalProduct(2, "4.00")
	mug.CategoryID = 9

	chk := &Checkout{
		Currency: "EUR",
		Lines: []Line{
			{Product: shirt, Variant: stockedVariant(1, "TEE-S", 5), Quantity: 1},
			{Product: mug, Variant: stockedVariant(2, "MUG", 5), Quantity: 2},
		},
	}
	resolver := LinesResolver{Checkout: chk}

	byProduct, err := resolver.ProductPrices(context.Background(), chk.ID, 2)
	require.NoError(t, err)
	require.Len(t, byProduct, 2)

	byCategory, err := resolver.CategoryPrices(context.Background(), chk.ID, 9)
	require.NoError(t, err)
	require.Len(t, byCategory, 2)

	none, err := resolver.CategoryPrices(context.Background(), chk.ID, 77)
	require.NoError(t, err)
	require.Empty(t, none)
}
