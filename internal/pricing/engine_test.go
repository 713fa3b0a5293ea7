package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeBasics(t *testing.T) {
	items := []Item{
		{Qty: 2, UnitPrice: d("10.00")},
		{Qty: 1, UnitPrice: d("5.50")},
	}

	sum := Compute(items, decimal.Zero, 0.20, d("4.00"))
	require.True(t, sum.Subtotal.Equal(d("25.50")))
	require.True(t, sum.Discount.IsZero())
	require.True(t, sum.Shipping.Equal(d("4.00")))
	require.True(t, sum.Tax.Equal(d("5.90")))
	require.True(t, sum.Total.Equal(d("35.40")))
}

func TestComputeTaxAppliesToDiscountedSubtotalPlusShipping(t *testing.T) {
	items := []Item{{Qty: 1, UnitPrice: d("100.00")}}

	sum := Compute(items, d("20.00"), 0.19, d("10.00"))
	require.True(t, sum.Tax.Equal(d("17.10")))
	require.True(t, sum.Total.Equal(d("107.10")))
}

func TestComputeDiscountCappedAtSubtotal(t *testing.T) {
	items := []Item{{Qty: 1, UnitPrice: d("10.00")}}

	sum := Compute(items, d("50.00"), 0, decimal.Zero)
	require.True(t, sum.Discount.Equal(d("10.00")))
	require.True(t, sum.Total.IsZero())
}

func TestComputeNegativeDiscountIgnored(t *testing.T) {
	items := []Item{{Qty: 1, UnitPrice: d("10.00")}}

	sum := Compute(items, d("-5.00"), 0, decimal.Zero)
	require.True(t, sum.Discount.IsZero())
	require.True(t, sum.Total.Equal(d("10.00")))
}

func TestComputeSkipsNonPositiveQuantities(t *testing.T) {
	items := []Item{
		{Qty: 0, UnitPrice: d("10.00")},
		{Qty: -2, UnitPrice: d("10.00")},
		{Qty: 1, UnitPrice: d("3.00")},
	}

	sum := Compute(items, decimal.Zero, 0, decimal.Zero)
	require.True(t, sum.Subtotal.Equal(d("3.00")))
}

func TestComputeRoundsTaxToBankersHalf(t *testing.T) {
	items := []Item{{Qty: 1, UnitPrice: d("10.25")}}

	// 10.25 * 0.10 = 1.025, banker's rounding gives 1.02.
	sum := Compute(items, decimal.Zero, 0.10, decimal.Zero)
	require.True(t, sum.Tax.Equal(d("1.02")))
	require.True(t, sum.Total.Equal(d("11.27")))
}
