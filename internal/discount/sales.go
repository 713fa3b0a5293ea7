package discount

import (
	"github.com/VanilleBid/weekly-saleor/internal/catalog"
	"github.com/VanilleBid/weekly-saleor/internal/price"
)

// AppliesTo reports whether the sale covers the product for the given
// customer. Customer zero means an anonymous shopper.
func (s *Sale) AppliesTo(p *catalog.Product, customerID int64) bool {
	if len(s.CustomerIDs) > 0 && !containsID(s.CustomerIDs, customerID) {
		return false
	}
	if len(s.ProductIDs) == 0 && len(s.CategoryIDs) == 0 {
		return true
	}
	if containsID(s.ProductIDs, p.ID) {
		return true
	}
	return containsID(s.CategoryIDs, p.CategoryID)
}

// Modifier computes the sale's discount against the given unit price,
// failing NotApplicable when the sale does not cover the product.
// Callers treat NotApplicable as "no discount".
func (s *Sale) Modifier(p *catalog.Product, unit price.Price, customerID int64) (Discount, error) {
	if !s.AppliesTo(p, customerID) {
		return Discount{}, notApplicable("Discount not applicable for this product")
	}
	var amount = s.Value
	if s.Type == Percentage {
		amount = price.Percent(unit.Gross, s.Value)
	} else {
		amount = price.Min(s.Value, unit.Gross)
	}
	return Discount{Name: s.Name, Amount: price.New(amount, unit.Currency)}, nil
}

// ModifierForProduct evaluates the sale against the product's own
// price.
func (s *Sale) ModifierForProduct(p *catalog.Product, customerID int64) (Discount, error) {
	return s.Modifier(p, p.Price, customerID)
}

// CalculateDiscountedPrice applies the best applicable sale to the
// unit price. The sale yielding the largest discount amount wins;
// ties break deterministically toward the lowest sale id. The input
// price is returned unchanged when no sale applies.
func CalculateDiscountedPrice(p *catalog.Product, unit price.Price, sales []Sale, customerID int64) price.Price {
	var (
		best    Discount
		bestID  int64
		applied bool
	)
	for i := range sales {
		d, err := sales[i].Modifier(p, unit, customerID)
		if err != nil {
			continue
		}
		if !applied ||
			d.Amount.Gross.GreaterThan(best.Amount.Gross) ||
			(d.Amount.Gross.Equal(best.Amount.Gross) && sales[i].ID < bestID) {
			best = d
			bestID = sales[i].ID
			applied = true
		}
	}
	if !applied {
		return unit
	}
	return unit.SubAmount(best.Amount.Gross)
}

func containsID(ids []int64, id int64) bool {
	for _, el := range ids {
		if el == id {
			return true
		}
	}
	return false
}
