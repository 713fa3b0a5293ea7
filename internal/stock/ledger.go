// Package stock implements the stock ledger: per-location stock
// records with allocation bookkeeping. The quantity_allocated <=
// quantity invariant is enforced on every mutation; callers that need
// the total picture across locations use CheckQuantity first.
package stock

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/VanilleBid/weekly-saleor/internal/price"
)

// ErrInvalidQuantity is returned when a mutation is requested with a
// non-positive quantity.
var ErrInvalidQuantity = errors.New("stock: quantity must be positive")

// ErrOverAllocation is returned when an allocation would push the
// allocated quantity above the on-hand quantity.
var ErrOverAllocation = errors.New("stock: allocation exceeds available quantity")

// ErrUnderAllocation is returned when a deallocation or decrease asks
// for more than is currently allocated.
var ErrUnderAllocation = errors.New("stock: quantity exceeds allocated amount")

// InsufficientStock reports that a requested quantity cannot be
// satisfied by the variant's combined stock.
type InsufficientStock struct {
	Variant   string
	Requested int
	Available int
}

func (e InsufficientStock) Error() string {
	return fmt.Sprintf("insufficient stock for variant %s: requested %d, available %d",
		e.Variant, e.Requested, e.Available)
}

// Record is a single stock row for one variant at one location.
type Record struct {
	ID                int64
	VariantID         int64
	Location          string
	Quantity          int
	QuantityAllocated int
	CostPrice         *price.Price

	// Lead time bounds in days; zero means unknown.
	MinDays int
	MaxDays int
}

// QuantityAvailable is the derived sellable quantity. It is computed,
// never stored.
func (r *Record) QuantityAvailable() int {
	if avail := r.Quantity - r.QuantityAllocated; avail > 0 {
		return avail
	}
	return 0
}

// Allocate reserves qty units against the record. Unlike the
// historical behaviour this rejects allocations that would break the
// quantity_allocated <= quantity invariant instead of relying on the
// caller's pre-check.
func Allocate(r *Record, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if r.QuantityAllocated+qty > r.Quantity {
		return ErrOverAllocation
	}
	r.QuantityAllocated += qty
	return nil
}

// Deallocate releases qty previously allocated units.
func Deallocate(r *Record, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if qty > r.QuantityAllocated {
		return ErrUnderAllocation
	}
	r.QuantityAllocated -= qty
	return nil
}

// Increase restocks the record with qty units.
func Increase(r *Record, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	r.Quantity += qty
	return nil
}

// Decrease fulfils qty allocated units, removing them from both the
// on-hand and allocated pools.
func Decrease(r *Record, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if qty > r.QuantityAllocated {
		return ErrUnderAllocation
	}
	if qty > r.Quantity {
		return ErrUnderAllocation
	}
	r.Quantity -= qty
	r.QuantityAllocated -= qty
	return nil
}

// TotalAvailable sums the available quantity across stock records.
func TotalAvailable(records []Record) int {
	total := 0
	for i := range records {
		total += records[i].QuantityAvailable()
	}
	return total
}

// CheckQuantity verifies that requested units can be satisfied by the
// combined stock of the named variant.
func CheckQuantity(variant string, records []Record, requested int) error {
	available := TotalAvailable(records)
	if requested > available {
		return InsufficientStock{Variant: variant, Requested: requested, Available: available}
	}
	return nil
}

// SelectRecord picks the stock record with the lowest cost price among
// those able to cover quantity. A missing cost price sorts as zero.
// Returns nil when no record qualifies.
func SelectRecord(records []Record, quantity int) *Record {
	eligible := make([]*Record, 0, len(records))
	for i := range records {
		if records[i].QuantityAvailable() >= quantity {
			eligible = append(eligible, &records[i])
		}
	}
	if len(eligible) == 0 {
		return nil
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return costOf(eligible[i]).LessThan(costOf(eligible[j]))
	})
	return eligible[0]
}

func costOf(r *Record) decimal.Decimal {
	if r.CostPrice == nil {
		return decimal.Zero
	}
	return r.CostPrice.Gross
}
