package fiscal

import (
	"github.com/avergnaud/patrimonia/api/internal/models"
)

// DepreciationInput carries the per-property facts the depreciation
// calculator works from. Land is excluded from the building base
// through LandFraction.
type DepreciationInput struct {
	AcquisitionPrice float64
	LandFraction     float64
	FurnishingValue  float64
	EquipmentValue   float64
	WorksValue       float64
	AcquisitionYear  int
}

// ComponentDepreciation is the annual charge attributed to one
// component class.
type ComponentDepreciation struct {
	Kind   models.ComponentKind `json:"kind"`
	Amount float64              `json:"amount"`
}

// componentBase returns the depreciable base for a component class.
func componentBase(in DepreciationInput, kind models.ComponentKind) float64 {
	switch kind {
	case models.ComponentBuilding:
		return in.AcquisitionPrice * (1 - in.LandFraction)
	case models.ComponentFurniture:
		return in.FurnishingValue
	case models.ComponentEquipment:
		return in.EquipmentValue
	case models.ComponentWorks:
		return in.WorksValue
	}
	return 0
}

// AnnualDepreciation computes the depreciation charge per component for
// the target year under the given rule table. A component contributes
// zero once the holding period exceeds its horizon, and the charge is
// capped at the remaining base so it can never go negative.
func AnnualDepreciation(in DepreciationInput, rules []models.ComponentRule, year int) []ComponentDepreciation {
	yearsElapsed := year - in.AcquisitionYear
	out := make([]ComponentDepreciation, 0, len(rules))

	for _, rule := range rules {
		base := componentBase(in, rule.Kind)
		amount := 0.0

		if base > 0 && yearsElapsed >= 0 && yearsElapsed < rule.HorizonYears {
			annual := base * rule.Rate
			remaining := base - annual*float64(yearsElapsed)
			if remaining < annual {
				annual = remaining
			}
			if annual > 0 {
				amount = annual
			}
		}

		out = append(out, ComponentDepreciation{Kind: rule.Kind, Amount: amount})
	}

	return out
}

// TotalDepreciation sums a component breakdown.
func TotalDepreciation(components []ComponentDepreciation) float64 {
	var total float64
	for _, c := range components {
		total += c.Amount
	}
	return total
}

// CapDepreciation limits a component breakdown to the given ceiling,
// consuming components in table order. This implements the LMNP rule
// that depreciation must not create or deepen an operating deficit:
// the ceiling is max(0, operating result).
func CapDepreciation(components []ComponentDepreciation, ceiling float64) []ComponentDepreciation {
	if ceiling < 0 {
		ceiling = 0
	}
	out := make([]ComponentDepreciation, 0, len(components))
	remaining := ceiling
	for _, c := range components {
		applied := c.Amount
		if applied > remaining {
			applied = remaining
		}
		remaining -= applied
		out = append(out, ComponentDepreciation{Kind: c.Kind, Amount: applied})
	}
	return out
}

// DepreciationInputFromProperty derives the calculator input from a
// property record, attributing capex transaction history to the works
// component.
func DepreciationInputFromProperty(p models.Property, txs []models.Transaction) DepreciationInput {
	var works float64
	for _, tx := range txs {
		if tx.PropertyID == p.ID && tx.Type == models.TransactionCapex {
			if tx.Amount < 0 {
				works -= tx.Amount
			} else {
				works += tx.Amount
			}
		}
	}
	return DepreciationInput{
		AcquisitionPrice: p.AcquisitionPrice,
		LandFraction:     p.LandFraction,
		FurnishingValue:  p.FurnishingValue,
		WorksValue:       works,
		AcquisitionYear:  p.AcquisitionDate.Year(),
	}
}
