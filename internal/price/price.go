// Package price holds the monetary value type shared by the pricing,
// discount and tax components. Amounts are decimal; every percentage
// computation is rounded to the currency minor unit with banker's
// rounding so repeated calculations stay consistent.
package price

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MinorUnits is the number of decimal places kept after rounding.
const MinorUnits = 2

// Price is a value type carrying a net and gross amount in a single
// currency. The currency is fixed at construction.
type Price struct {
	Net      decimal.Decimal
	Gross    decimal.Decimal
	Currency string
}

// New returns a price whose net and gross both equal amount.
func New(amount decimal.Decimal, currency string) Price {
	return Price{Net: amount, Gross: amount, Currency: currency}
}

// FromFloat builds a price from a float amount. Intended for tests and
// fixtures; production paths should construct decimals directly.
func FromFloat(amount float64, currency string) Price {
	return New(decimal.NewFromFloat(amount), currency)
}

// FromInt builds a price from a whole amount.
func FromInt(amount int64, currency string) Price {
	return New(decimal.NewFromInt(amount), currency)
}

// Zero returns the zero price in the given currency.
func Zero(currency string) Price {
	return New(decimal.Zero, currency)
}

// IsZero reports whether the gross amount is zero.
func (p Price) IsZero() bool {
	return p.Gross.IsZero()
}

// Equal reports whether both amounts and the currency match.
func (p Price) Equal(o Price) bool {
	return p.Currency == o.Currency && p.Net.Equal(o.Net) && p.Gross.Equal(o.Gross)
}

// Add sums two prices. The currencies must match.
func (p Price) Add(o Price) (Price, error) {
	if p.Currency != o.Currency {
		return Price{}, fmt.Errorf("price: currency mismatch: %s vs %s", p.Currency, o.Currency)
	}
	return Price{
		Net:      p.Net.Add(o.Net),
		Gross:    p.Gross.Add(o.Gross),
		Currency: p.Currency,
	}, nil
}

// SubAmount subtracts amount from both net and gross, flooring at zero.
func (p Price) SubAmount(amount decimal.Decimal) Price {
	net := p.Net.Sub(amount)
	if net.IsNegative() {
		net = decimal.Zero
	}
	gross := p.Gross.Sub(amount)
	if gross.IsNegative() {
		gross = decimal.Zero
	}
	return Price{Net: net, Gross: gross, Currency: p.Currency}
}

// String renders the gross amount with a currency symbol when one is
// known, e.g. "$5.00" or "12.30 PLN".
func (p Price) String() string {
	amount := p.Gross.StringFixed(MinorUnits)
	if symbol, ok := currencySymbols[p.Currency]; ok {
		return symbol + amount
	}
	return amount + " " + p.Currency
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// Round applies the uniform rounding policy: banker's rounding to the
// currency minor unit.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(MinorUnits)
}

// Percent returns pct percent of amount, rounded per policy.
func Percent(amount, pct decimal.Decimal) decimal.Decimal {
	return Round(amount.Mul(pct).Div(decimal.NewFromInt(100)))
}

// Min returns the smaller of two decimals.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
