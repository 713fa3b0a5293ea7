// Package tax maps country codes to VAT rates and produces taxed
// prices. Resolution never fails: unknown countries fall back to the
// default country's rate and finally to a hard fallback rate.
package tax

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/VanilleBid/weekly-saleor/internal/catalog"
	"github.com/VanilleBid/weekly-saleor/internal/price"
)

// Rates maps ISO 3166-1 alpha-2 country codes to tax rates in [0, 1].
type Rates map[string]float64

// DefaultRates returns the built-in VAT table.
func DefaultRates() Rates {
	return Rates{
		"BE": 0.21,
		"BG": 0.20,
		"CZ": 0.21,
		"DE": 0.19,
		"DK": 0.25,
		"EE": 0.20,
		"ES": 0.21,
		"FI": 0.24,
		"GB": 0.20,
		"GR": 0.24,
		"HR": 0.25,
		"HU": 0.27,
		"IE": 0.23,
		"IT": 0.22,
		"LT": 0.21,
		"LU": 0.17,
		"LV": 0.21,
		"NL": 0.21,
		"PL": 0.23,
		"PT": 0.23,
		"RO": 0.19,
		"SE": 0.25,
		"SI": 0.22,
		"SK": 0.20,
	}
}

// Config carries the resolver settings. All fields are read once at
// construction; the resolver itself is immutable.
type Config struct {
	Rates           Rates
	DefaultCountry  string
	FallbackRate    float64
	DefaultCurrency string
}

// Resolver resolves country codes to rates and applies them to prices.
type Resolver struct {
	rates           Rates
	defaultCountry  string
	fallbackRate    float64
	defaultCurrency string
}

// NewResolver builds a resolver from the given configuration.
func NewResolver(cfg Config) *Resolver {
	rates := cfg.Rates
	if rates == nil {
		rates = DefaultRates()
	}
	return &Resolver{
		rates:           rates,
		defaultCountry:  strings.ToUpper(strings.TrimSpace(cfg.DefaultCountry)),
		fallbackRate:    cfg.FallbackRate,
		defaultCurrency: cfg.DefaultCurrency,
	}
}

// Rate looks up the tax rate for a country code. A missing or unknown
// code resolves to the default country's rate, and to the fallback
// rate when the default country is not in the table either.
func (r *Resolver) Rate(countryCode string) float64 {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	if rate, ok := r.rates[code]; ok && rate > 0 {
		return rate
	}
	if rate, ok := r.rates[r.defaultCountry]; ok && rate > 0 {
		return rate
	}
	return r.fallbackRate
}

// ResolveAmount taxes a plain decimal amount. The returned price uses
// the configured default currency with the input amount as net.
func (r *Resolver) ResolveAmount(countryCode string, amount decimal.Decimal) (price.Price, float64) {
	rate := r.Rate(countryCode)
	return price.Price{
		Net:      amount,
		Gross:    taxed(amount, rate),
		Currency: r.defaultCurrency,
	}, rate
}

// Resolve taxes a price. The result keeps the input currency and uses
// the input gross amount as net.
func (r *Resolver) Resolve(countryCode string, p price.Price) (price.Price, float64) {
	rate := r.Rate(countryCode)
	return price.Price{
		Net:      p.Gross,
		Gross:    taxed(p.Gross, rate),
		Currency: p.Currency,
	}, rate
}

func taxed(amount decimal.Decimal, rate float64) decimal.Decimal {
	factor := decimal.NewFromFloat(1 + rate)
	return price.Round(amount.Mul(factor))
}

// CountryForCheckout derives the tax country for a checkout. An
// explicit request-supplied code always wins. Otherwise the shipping
// address is consulted first when preferShipping is set, falling back
// to billing, and the other way round when it is not. Returns the
// empty string when no country can be derived.
func CountryForCheckout(requestCountry string, billing, shipping *catalog.Address, preferShipping bool) string {
	if code := strings.ToUpper(strings.TrimSpace(requestCountry)); code != "" {
		return code
	}
	first, second := billing, shipping
	if preferShipping {
		first, second = shipping, billing
	}
	if first != nil && first.Country != "" {
		return strings.ToUpper(first.Country)
	}
	if second != nil && second.Country != "" {
		return strings.ToUpper(second.Country)
	}
	return ""
}
