package discount

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/VanilleBid/weekly-saleor/internal/catalog"
	"github.com/VanilleBid/weekly-saleor/internal/price"
)

type fakeCheckout struct {
	subtotal price.Price
	shipping bool
	method   *catalog.ShippingMethod
}

func (f *fakeCheckout) GetSubtotal() price.Price                   { return f.subtotal }
func (f *fakeCheckout) IsShippingRequired() bool                   { return f.shipping }
func (f *fakeCheckout) GetShippingMethod() *catalog.ShippingMethod { return f.method }
func (f *fakeCheckout) CartID() int64                              { return 1 }

type fakeLines struct {
	prices []VariantPrice
	err    error
}

func (f *fakeLines) ProductPrices(ctx context.Context, cartID, productID int64) ([]VariantPrice, error) {
	return f.prices, f.err
}

func (f *fakeLines) CategoryPrices(ctx context.Context, cartID, categoryID int64) ([]VariantPrice, error) {
	return f.prices, f.err
}

func eur(s string) price.Price {
	return price.New(decimal.RequireFromString(s), "EUR")
}

func linePrices(amounts ...string) []VariantPrice {
	out := make([]VariantPrice, 0, len(amounts))
	for i, a := range amounts {
		out = append(out, VariantPrice{VariantID: int64(i + 1), Price: eur(a)})
	}
	return out
}

func TestValueVoucher(t *testing.T) {
	engine := &Engine{Currency: "EUR"}
	chk := &fakeCheckout{subtotal: eur("100.00")}

	t.Run("fixed", func(t *testing.T) {
		v := &Voucher{Type: VoucherValue, ValueType: Fixed, Value: decimal.NewFromInt(10)}
		d, err := engine.CheckoutDiscount(context.Background(), v, chk)
		require.NoError(t, err)
		require.Equal(t, "10", d.Amount.Gross.String())
	})

	t.Run("percentage", func(t *testing.T) {
		v := &Voucher{Type: VoucherValue, ValueType: Percentage, Value: decimal.NewFromInt(10)}
		d, err := engine.CheckoutDiscount(context.Background(), v, chk)
		require.NoError(t, err)
		require.True(t, d.Amount.Gross.Equal(decimal.NewFromInt(10)))
	})
}

func TestValueVoucherBelowMinimum(t *testing.T) {
	engine := &Engine{Currency: "EUR"}
	chk := &fakeCheckout{subtotal: eur("50.00")}
	limit := eur("100.00")
	v := &Voucher{Type: VoucherValue, ValueType: Fixed, Value: decimal.NewFromInt(10), Limit: &limit}

	_, err := engine.CheckoutDiscount(context.Background(), v, chk)
	var na *NotApplicable
	require.ErrorAs(t, err, &na)
	require.Equal(t, "This offer is only valid for orders over €100.00.", na.Reason)
	require.NotNil(t, na.Limit)
	require.True(t, na.Limit.Gross.Equal(limit.Gross))
}

func TestValueVoucherLimitExactlyMet(t *testing.T) {
	engine := &Engine{Currency: "EUR"}
	chk := &fakeCheckout{subtotal: eur("100.00")}
	limit := eur("100.00")
	v := &Voucher{Type: VoucherValue, ValueType: Fixed, Value: decimal.NewFromInt(10), Limit: &limit}

	_, err := engine.CheckoutDiscount(context.Background(), v, chk)
	require.NoError(t, err)
}

func TestShippingVoucher(t *testing.T) {
	engine := &Engine{Currency: "EUR"}
	method := &catalog.ShippingMethod{Name: "DHL", Price: eur("10.00"), CountryCode: "US"}

	t.Run("shipping not required", func(t *testing.T) {
		chk := &fakeCheckout{subtotal: eur("100.00"), shipping: false}
		v := &Voucher{Type: VoucherShipping, ValueType: Fixed, Value: decimal.NewFromInt(10)}
		_, err := engine.CheckoutDiscount(context.Background(), v, chk)
		var na *NotApplicable
		require.ErrorAs(t, err, &na)
		require.Equal(t, "Your order does not require shipping.", na.Reason)
	})

	t.Run("no shipping method selected", func(t *testing.T) {
		chk := &fakeCheckout{subtotal: eur("100.00"), shipping: true}
		v := &Voucher{Type: VoucherShipping, ValueType: Fixed, Value: decimal.NewFromInt(10)}
		_, err := engine.CheckoutDiscount(context.Background(), v, chk)
		var na *NotApplicable
		require.ErrorAs(t, err, &na)
		require.Equal(t, "Please select a shipping method first.", na.Reason)
	})

	t.Run("wrong country", func(t *testing.T) {
		chk := &fakeCheckout{subtotal: eur("100.00"), shipping: true, method: method}
		v := &Voucher{Type: VoucherShipping, ValueType: Fixed, Value: decimal.NewFromInt(10), ApplyTo: "GB"}
		_, err := engine.CheckoutDiscount(context.Background(), v, chk)
		var na *NotApplicable
		require.ErrorAs(t, err, &na)
		require.Equal(t, "This offer is only valid in United Kingdom.", na.Reason)
	})

	t.Run("matching country", func(t *testing.T) {
		chk := &fakeCheckout{subtotal: eur("100.00"), shipping: true, method: method}
		v := &Voucher{Type: VoucherShipping, ValueType: Fixed, Value: decimal.NewFromInt(10), ApplyTo: "US"}
		d, err := engine.CheckoutDiscount(context.Background(), v, chk)
		require.NoError(t, err)
		require.True(t, d.Amount.Gross.Equal(decimal.NewFromInt(10)))
	})

	t.Run("fixed capped at shipping cost", func(t *testing.T) {
		chk := &fakeCheckout{subtotal: eur("100.00"), shipping: true, method: method}
		v := &Voucher{Type: VoucherShipping, ValueType: Fixed, Value: decimal.NewFromInt(25)}
		d, err := engine.CheckoutDiscount(context.Background(), v, chk)
		require.NoError(t, err)
		require.True(t, d.Amount.Gross.Equal(decimal.NewFromInt(10)))
	})

	t.Run("percentage of shipping", func(t *testing.T) {
		chk := &fakeCheckout{subtotal: eur("100.00"), shipping: true, method: method}
		v := &Voucher{Type: VoucherShipping, ValueType: Percentage, Value: decimal.NewFromInt(50)}
		d, err := engine.CheckoutDiscount(context.Background(), v, chk)
		require.NoError(t, err)
		require.True(t, d.Amount.Gross.Equal(decimal.NewFromInt(5)))
	})
}

func TestProductVoucherSpreadsFixedBudget(t *testing.T) {
	chk := &fakeCheckout{subtotal: eur("100.00")}

	tests := []struct {
		name   string
		prices []string
		value  int64
		want   string
	}{
		{"budget covered by lines", []string{"5.00", "5.00"}, 10, "10"},
		{"budget exceeds line prices", []string{"2.00", "3.00"}, 10, "5"},
		{"cheapest lines consumed first", []string{"8.00", "2.00"}, 5, "5"},
		{"single line capped", []string{"3.00"}, 10, "3"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			engine := &Engine{Currency: "EUR", Lines: &fakeLines{prices: linePrices(tc.prices...)}}
			v := &Voucher{Type: VoucherProduct, ValueType: Fixed, Value: decimal.NewFromInt(tc.value), ApplyTo: ApplyToOneProduct}
			d, err := engine.CheckoutDiscount(context.Background(), v, chk)
			require.NoError(t, err)
			require.Equal(t, tc.want, d.Amount.Gross.String())
		})
	}
}

func TestProductVoucherAllProducts(t *testing.T) {
	chk := &fakeCheckout{subtotal: eur("100.00")}
	engine := &Engine{Currency: "EUR", Lines: &fakeLines{prices: linePrices("2.00", "8.00", "20.00")}}
	v := &Voucher{Type: VoucherProduct, ValueType: Fixed, Value: decimal.NewFromInt(5), ApplyTo: ApplyToAllProducts}

	// min(5,2) + min(5,8) + min(5,20) = 12
	d, err := engine.CheckoutDiscount(context.Background(), v, chk)
	require.NoError(t, err)
	require.Equal(t, "12", d.Amount.Gross.String())
}

func TestProductVoucherPercentage(t *testing.T) {
	chk := &fakeCheckout{subtotal: eur("100.00")}
	engine := &Engine{Currency: "EUR", Lines: &fakeLines{prices: linePrices("10.00", "30.00")}}
	v := &Voucher{Type: VoucherProduct, ValueType: Percentage, Value: decimal.NewFromInt(25)}

	d, err := engine.CheckoutDiscount(context.Background(), v, chk)
	require.NoError(t, err)
	require.True(t, d.Amount.Gross.Equal(decimal.NewFromInt(10)))
}

func TestProductVoucherNoEligibleItems(t *testing.T) {
	chk := &fakeCheckout{subtotal: eur("100.00")}
	engine := &Engine{Currency: "EUR", Lines: &fakeLines{}}
	v := &Voucher{Type: VoucherProduct, ValueType: Fixed, Value: decimal.NewFromInt(5)}

	_, err := engine.CheckoutDiscount(context.Background(), v, chk)
	var na *NotApplicable
	require.ErrorAs(t, err, &na)
	require.Equal(t, "This offer is only valid for selected items.", na.Reason)
}

func TestCategoryVoucherUsesCategoryLines(t *testing.T) {
	chk := &fakeCheckout{subtotal: eur("100.00")}
	engine := &Engine{Currency: "EUR", Lines: &fakeLines{prices: linePrices("4.00", "6.00")}}
	v := &Voucher{Type: VoucherCategory, ValueType: Percentage, Value: decimal.NewFromInt(50), CategoryID: 7}

	d, err := engine.CheckoutDiscount(context.Background(), v, chk)
	require.NoError(t, err)
	require.True(t, d.Amount.Gross.Equal(decimal.NewFromInt(5)))
}

func TestUnknownVoucherType(t *testing.T) {
	engine := &Engine{Currency: "EUR"}
	chk := &fakeCheckout{subtotal: eur("100.00")}
	v := &Voucher{Type: VoucherType("mystery")}

	_, err := engine.CheckoutDiscount(context.Background(), v, chk)
	require.Error(t, err)
}
