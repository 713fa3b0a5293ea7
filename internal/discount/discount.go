// Package discount implements automatic sales and code-based vouchers.
// The discount taxonomy is closed: every sale or voucher carries an
// explicit type tag and evaluation dispatches exhaustively on it.
package discount

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/VanilleBid/weekly-saleor/internal/price"
)

// ValueType says how a discount value is interpreted.
type ValueType string

const (
	Fixed      ValueType = "fixed"
	Percentage ValueType = "percentage"
)

// VoucherType selects the voucher evaluation strategy.
type VoucherType string

const (
	VoucherValue    VoucherType = "value"
	VoucherShipping VoucherType = "shipping"
	VoucherProduct  VoucherType = "product"
	VoucherCategory VoucherType = "category"
)

// ApplyTo values for product and category vouchers.
const (
	ApplyToOneProduct  = "ONE_PRODUCT"
	ApplyToAllProducts = "ALL_PRODUCTS"
)

// ErrUsageLimitReached is returned when a voucher's usage counter has
// hit its configured limit.
var ErrUsageLimitReached = errors.New("discount: voucher usage limit reached")

// NotApplicable reports that a voucher or sale cannot be used. It
// carries a user-facing reason and, when a minimum order value was the
// cause, the limit for display.
type NotApplicable struct {
	Reason string
	Limit  *price.Price
}

func (e *NotApplicable) Error() string { return e.Reason }

func notApplicable(reason string) error {
	return &NotApplicable{Reason: reason}
}

// Discount is the outcome of a successful evaluation.
type Discount struct {
	Name   string
	Amount price.Price
}

// Sale is an automatic discount managed by staff. Empty scoping sets
// widen the sale: no products and no categories means every product,
// no customers means every customer.
type Sale struct {
	ID          int64
	Name        string
	Type        ValueType
	Value       decimal.Decimal
	ProductIDs  []int64
	CategoryIDs []int64
	CustomerIDs []int64
}

// Voucher is a code-based discount. ApplyTo is overloaded the way the
// dashboard stores it: a country code for shipping vouchers, an
// ApplyTo* constant for product and category vouchers.
type Voucher struct {
	ID         int64
	Code       string
	Name       string
	Type       VoucherType
	ValueType  ValueType
	Value      decimal.Decimal
	Limit      *price.Price
	UsageLimit *int
	Used       int
	StartDate  *time.Time
	EndDate    *time.Time
	ApplyTo    string
	ProductID  int64
	CategoryID int64
}

// ActiveOn reports whether the voucher's validity window covers d.
// Both bounds are optional and inclusive.
func (v *Voucher) ActiveOn(d time.Time) bool {
	if v.StartDate != nil && v.StartDate.After(d) {
		return false
	}
	if v.EndDate != nil && v.EndDate.Before(d) {
		return false
	}
	return true
}

// FilterActive keeps the vouchers active on the given date.
func FilterActive(vouchers []Voucher, d time.Time) []Voucher {
	out := make([]Voucher, 0, len(vouchers))
	for _, v := range vouchers {
		if v.ActiveOn(d) {
			out = append(out, v)
		}
	}
	return out
}

// IncreaseUsage bumps the usage counter, refusing once the limit is
// reached. Called exactly once per order placement.
func (v *Voucher) IncreaseUsage() error {
	if v.UsageLimit != nil && v.Used >= *v.UsageLimit {
		return ErrUsageLimitReached
	}
	v.Used++
	return nil
}

// DecreaseUsage releases one use, flooring at zero. Called exactly
// once per order cancellation.
func (v *Voucher) DecreaseUsage() {
	if v.Used > 0 {
		v.Used--
	}
}
