package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/VanilleBid/weekly-saleor/internal/catalog"
	"github.com/VanilleBid/weekly-saleor/internal/price"
)

func newResolver() *Resolver {
	return NewResolver(Config{
		Rates:           DefaultRates(),
		DefaultCountry:  "FR",
		FallbackRate:    0.20,
		DefaultCurrency: "EUR",
	})
}

func TestRateLadder(t *testing.T) {
	r := newResolver()

	require.Equal(t, 0.19, r.Rate("DE"))
	require.Equal(t, 0.23, r.Rate("pl"))

	// AT is not in the table and neither is the default country FR,
	// so the fallback applies.
	require.Equal(t, 0.20, r.Rate("AT"))
	require.Equal(t, 0.20, r.Rate(""))
	require.Equal(t, 0.20, r.Rate("XX"))
}

func TestResolveAmount(t *testing.T) {
	r := newResolver()

	p, rate := r.ResolveAmount("DE", decimal.NewFromInt(100))
	require.Equal(t, 0.19, rate)
	require.Equal(t, "EUR", p.Currency)
	require.True(t, p.Net.Equal(decimal.NewFromInt(100)))
	require.True(t, p.Gross.Equal(decimal.NewFromInt(119)))
}

func TestResolveKeepsCurrencyAndUsesGrossAsNet(t *testing.T) {
	r := newResolver()

	in := price.FromInt(50, "GBP")
	out, rate := r.Resolve("GB", in)
	require.Equal(t, 0.20, rate)
	require.Equal(t, "GBP", out.Currency)
	require.True(t, out.Net.Equal(decimal.NewFromInt(50)))
	require.True(t, out.Gross.Equal(decimal.NewFromInt(60)))
}

func TestResolveRoundsGross(t *testing.T) {
	r := newResolver()

	p, _ := r.ResolveAmount("DE", decimal.RequireFromString("10.01"))
	// 10.01 * 1.19 is 11.9119, rounded to 11.91.
	require.True(t, p.Gross.Equal(decimal.RequireFromString("11.91")))
}

func TestCountryForCheckout(t *testing.T) {
	billing := &catalog.Address{Country: "DE"}
	shipping := &catalog.Address{Country: "PL"}

	require.Equal(t, "GB", CountryForCheckout("gb", billing, shipping, false))
	require.Equal(t, "DE", CountryForCheckout("", billing, shipping, false))
	require.Equal(t, "PL", CountryForCheckout("", billing, shipping, true))
	require.Equal(t, "DE", CountryForCheckout("", billing, nil, true))
	require.Equal(t, "PL", CountryForCheckout("", nil, shipping, false))
	require.Equal(t, "", CountryForCheckout("", nil, nil, false))
}
