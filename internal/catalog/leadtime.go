package catalog

import "fmt"

// LeadTime is the delivery estimate derived from the stock records of
// a product's variants. Zero bounds mean no estimate is known.
type LeadTime struct {
	From int
	To   int
}

// LeadTimeRange aggregates the min/max day bounds across all stock
// records of all variants. The lower bound is the smallest declared
// minimum; the upper bound the largest declared maximum.
func (p *Product) LeadTimeRange() LeadTime {
	var mins, maxs []int
	for i := range p.Variants {
		for j := range p.Variants[i].Stocks {
			rec := &p.Variants[i].Stocks[j]
			if rec.MinDays > 0 {
				mins = append(mins, rec.MinDays)
			}
			if rec.MaxDays > 0 {
				maxs = append(maxs, rec.MaxDays)
			}
		}
	}
	var lt LeadTime
	for _, m := range mins {
		if lt.From == 0 || m < lt.From {
			lt.From = m
		}
	}
	for _, m := range maxs {
		if m > lt.To {
			lt.To = m
		}
	}
	return lt
}

// String renders the estimate the way product pages show it, e.g.
// "12 to 14 days" or "1 days". Empty when no bounds are known.
func (lt LeadTime) String() string {
	from := lt.From
	if from == 0 {
		from = lt.To
	}
	if from == 0 {
		return ""
	}
	if lt.To != 0 && lt.To != from {
		return fmt.Sprintf("%d to %d days", from, lt.To)
	}
	return fmt.Sprintf("%d days", from)
}
