package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/VanilleBid/weekly-saleor/internal/catalog"
	"github.com/VanilleBid/weekly-saleor/internal/stock"
)

var testClock = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newClassifier() Classifier {
	return Classifier{Now: func() time.Time { return testClock }}
}

func variantWithStock(quantities ...int) catalog.ProductVariant {
	v := catalog.ProductVariant{SKU: "SKU-1"}
	for _, q := range quantities {
		v.Stocks = append(v.Stocks, stock.Record{Quantity: q})
	}
	return v
}

func TestProductStatusLadder(t *testing.T) {
	c := newClassifier()

	tests := []struct {
		name    string
		product catalog.Product
		want    ProductStatus
	}{
		{
			name:    "not published",
			product: catalog.Product{Published: false},
			want:    ProductNotPublished,
		},
		{
			name: "variants missing",
			product: catalog.Product{
				Published: true,
				Type:      catalog.ProductType{HasVariants: true},
			},
			want: ProductVariantsMissing,
		},
		{
			name: "not carried",
			product: catalog.Product{
				Published: true,
				Variants:  []catalog.ProductVariant{{SKU: "SKU-1"}},
			},
			want: ProductNotCarried,
		},
		{
			name: "out of stock",
			product: catalog.Product{
				Published: true,
				Variants:  []catalog.ProductVariant{variantWithStock(0, 0)},
			},
			want: ProductOutOfStock,
		},
		{
			name: "low stock when some locations are empty",
			product: catalog.Product{
				Published: true,
				Variants:  []catalog.ProductVariant{variantWithStock(5, 0)},
			},
			want: ProductLowStock,
		},
		{
			name: "ready for purchase",
			product: catalog.Product{
				Published: true,
				Variants:  []catalog.ProductVariant{variantWithStock(5, 3)},
			},
			want: ProductReadyForPurchase,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, c.ProductStatus(&tc.product))
		})
	}
}

func TestProductStatusFutureAvailabilityOverridesEverything(t *testing.T) {
	c := newClassifier()
	future := testClock.Add(48 * time.Hour)

	p := catalog.Product{
		Published:   true,
		AvailableOn: &future,
		Variants:    []catalog.ProductVariant{variantWithStock(5)},
	}
	require.Equal(t, ProductNotYetAvailable, c.ProductStatus(&p))

	// Even an unpublished product reports the launch date first.
	p.Published = false
	require.Equal(t, ProductNotYetAvailable, c.ProductStatus(&p))
}

func TestProductStatusPastAvailabilityDoesNotOverride(t *testing.T) {
	c := newClassifier()
	past := testClock.Add(-48 * time.Hour)

	p := catalog.Product{
		Published:   true,
		AvailableOn: &past,
		Variants:    []catalog.ProductVariant{variantWithStock(5)},
	}
	require.Equal(t, ProductReadyForPurchase, c.ProductStatus(&p))
}

func TestVariantStatusLadder(t *testing.T) {
	c := newClassifier()

	v := catalog.ProductVariant{}
	require.Equal(t, VariantNotCarried, c.VariantStatus(&v))

	v = variantWithStock(0, 0)
	require.Equal(t, VariantOutOfStock, c.VariantStatus(&v))

	v = variantWithStock(0, 3)
	require.Equal(t, VariantAvailable, c.VariantStatus(&v))
}

func TestVariantStatusAllocationConsumesAvailability(t *testing.T) {
	c := newClassifier()

	v := catalog.ProductVariant{
		Stocks: []stock.Record{{Quantity: 4, QuantityAllocated: 4}},
	}
	require.Equal(t, VariantOutOfStock, c.VariantStatus(&v))
}
