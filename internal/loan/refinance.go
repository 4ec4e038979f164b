package loan

import (
	"math"
)

// Refinancing is only recommended when the closing costs are recovered
// within this many months.
const maxBreakevenMonths = 60

// RefinancingInput describes a candidate refinancing of an existing
// loan position.
type RefinancingInput struct {
	CurrentBalance      float64 `json:"current_balance"`
	CurrentAnnualRate   float64 `json:"current_annual_rate"`
	RemainingTermMonths int     `json:"remaining_term_months"`
	NewAnnualRate       float64 `json:"new_annual_rate"`
	NewTermMonths       int     `json:"new_term_months"`
	ClosingCosts        float64 `json:"closing_costs"`
	DiscountRate        float64 `json:"discount_rate"`
}

// RefinancingAnalysis compares the current loan against the refinanced
// one. BreakevenMonths is nil when there are no monthly savings: the
// closing costs are never recovered, which is "infinite breakeven",
// not zero.
type RefinancingAnalysis struct {
	CurrentMonthlyPayment float64  `json:"current_monthly_payment"`
	NewMonthlyPayment     float64  `json:"new_monthly_payment"`
	MonthlySavings        float64  `json:"monthly_savings"`
	CurrentTotalInterest  float64  `json:"current_total_interest"`
	NewTotalInterest      float64  `json:"new_total_interest"`
	BreakevenMonths       *float64 `json:"breakeven_months"`
	NPV                   float64  `json:"npv"`
	Recommended           bool     `json:"recommended"`
}

// AnalyzeRefinancing computes the refinancing economics: payment and
// total-interest deltas, the breakeven month for the closing costs, and
// the net present value of the savings stream at the discount rate.
// Refinancing is recommended iff the NPV is positive and breakeven
// falls within 60 months (boundary inclusive).
func AnalyzeRefinancing(in RefinancingInput) RefinancingAnalysis {
	currentPayment := MonthlyPayment(in.CurrentBalance, in.CurrentAnnualRate, in.RemainingTermMonths)
	newPayment := MonthlyPayment(in.CurrentBalance, in.NewAnnualRate, in.NewTermMonths)
	savings := currentPayment - newPayment

	analysis := RefinancingAnalysis{
		CurrentMonthlyPayment: currentPayment,
		NewMonthlyPayment:     newPayment,
		MonthlySavings:        savings,
		CurrentTotalInterest:  TotalInterest(in.CurrentBalance, in.CurrentAnnualRate, in.RemainingTermMonths),
		NewTotalInterest:      TotalInterest(in.CurrentBalance, in.NewAnnualRate, in.NewTermMonths),
		BreakevenMonths:       breakevenMonths(in.ClosingCosts, savings),
		NPV:                   savingsNPV(savings, in.NewTermMonths, in.DiscountRate) - in.ClosingCosts,
	}

	analysis.Recommended = analysis.NPV > 0 &&
		analysis.BreakevenMonths != nil &&
		*analysis.BreakevenMonths <= maxBreakevenMonths
	return analysis
}

// breakevenMonths is the number of months of savings needed to recover
// the closing costs, nil when savings are non-positive.
func breakevenMonths(closingCosts, monthlySavings float64) *float64 {
	if monthlySavings <= 0 {
		return nil
	}
	months := closingCosts / monthlySavings
	return &months
}

// savingsNPV discounts the monthly savings stream over the given
// horizon at the annual discount rate.
func savingsNPV(monthlySavings float64, months int, annualDiscountRate float64) float64 {
	if months <= 0 {
		return 0
	}
	monthlyRate := annualDiscountRate / 12
	if monthlyRate == 0 {
		return monthlySavings * float64(months)
	}
	// Annuity present-value factor: (1 - (1+r)^-n) / r.
	factor := (1 - math.Pow(1+monthlyRate, -float64(months))) / monthlyRate
	return monthlySavings * factor
}
