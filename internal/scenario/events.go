package scenario

import (
	"math"
	"sort"

	"github.com/avergnaud/patrimonia/api/internal/loan"
	"github.com/avergnaud/patrimonia/api/internal/models"
)

// YearProjection is one year of the projection working array. OneTime
// carries the net one-time cash effects of that year (disposal
// proceeds positive, closing and renovation costs negative); recurring
// fields describe the steady state from that year on.
type YearProjection struct {
	Year               int     `json:"year"`
	PropertyValue      float64 `json:"property_value"`
	Debt               float64 `json:"debt"`
	Income             float64 `json:"income"`
	Expenses           float64 `json:"expenses"`
	FinancingCost      float64 `json:"financing_cost"`
	OneTime            float64 `json:"one_time"`
	CashFlow           float64 `json:"cash_flow"`
	CumulativeCashFlow float64 `json:"cumulative_cash_flow"`
	NetWorth           float64 `json:"net_worth"`
	ROI                float64 `json:"roi"`
}

// eventTransform mutates the working array from the trigger index
// forward. Each event type is one transform; transforms are composed
// left-to-right in event-date order over an array local to the run.
type eventTransform func(years []YearProjection, from int, assumptions models.GrowthAssumptions) []YearProjection

// applyEvents sorts the events chronologically and applies each one
// whose trigger year falls inside the horizon. Events dated before the
// base year apply from index zero.
func applyEvents(years []YearProjection, scn models.Scenario) []YearProjection {
	events := make([]models.ScenarioEvent, len(scn.Events))
	copy(events, scn.Events)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})

	for _, ev := range events {
		from := ev.Date.Year() - scn.BaseYear
		if from >= len(years) {
			continue
		}
		if from < 0 {
			from = 0
		}
		if transform := transformFor(ev); transform != nil {
			years = transform(years, from, scn.Assumptions)
		}
	}
	return years
}

// transformFor builds the transform for an event, nil when the payload
// matching the event type is missing.
func transformFor(ev models.ScenarioEvent) eventTransform {
	switch ev.Type {
	case models.EventAcquisition:
		if ev.Acquisition != nil {
			return acquisitionTransform(*ev.Acquisition)
		}
	case models.EventDisposal:
		if ev.Disposal != nil {
			return disposalTransform(*ev.Disposal)
		}
	case models.EventRentIncrease:
		if ev.RentIncrease != nil {
			return rentIncreaseTransform(*ev.RentIncrease)
		}
	case models.EventRefinancing:
		if ev.Refinancing != nil {
			return refinancingTransform(*ev.Refinancing)
		}
	case models.EventRenovation:
		if ev.Renovation != nil {
			return renovationTransform(*ev.Renovation)
		}
	case models.EventMarketAdjustment:
		if ev.MarketAdjustment != nil {
			return marketAdjustmentTransform(*ev.MarketAdjustment)
		}
	}
	return nil
}

// acquisitionTransform adds the purchased property's value, debt,
// income, expenses and financing cost from the trigger year onward.
// Value appreciates and income escalates for years since acquisition;
// the new loan amortizes on its own schedule. The down payment leaves
// as a one-time outflow in the trigger year.
func acquisitionTransform(p models.AcquisitionPayload) eventTransform {
	return func(years []YearProjection, from int, a models.GrowthAssumptions) []YearProjection {
		years[from].OneTime -= p.DownPayment
		for i := from; i < len(years); i++ {
			elapsed := i - from
			balance := loan.RemainingBalance(p.LoanPrincipal, p.LoanAnnualRate, p.LoanTermMonths, elapsed*12)

			years[i].PropertyValue += p.Price * math.Pow(1+a.AppreciationRate, float64(elapsed))
			years[i].Debt += balance
			years[i].Income += p.MonthlyRent * 12 * math.Pow(1+a.RentGrowthRate, float64(elapsed))
			years[i].Expenses += p.AnnualExpenses * math.Pow(1+a.ExpenseInflationRate, float64(elapsed))
			years[i].FinancingCost += balance * p.LoanAnnualRate
		}
		return years
	}
}

// disposalTransform injects the net proceeds once in the trigger year
// and removes the property's recurring contributions from the trigger
// year forward, escalated the same way the baseline grew them.
func disposalTransform(p models.DisposalPayload) eventTransform {
	return func(years []YearProjection, from int, a models.GrowthAssumptions) []YearProjection {
		years[from].OneTime += p.NetProceeds
		for i := from; i < len(years); i++ {
			elapsed := i - from
			years[i].PropertyValue -= p.PropertyValue * math.Pow(1+a.AppreciationRate, float64(elapsed))
			years[i].Debt -= p.RemainingDebt
			years[i].Income -= p.AnnualIncome * math.Pow(1+a.RentGrowthRate, float64(elapsed))
			years[i].Expenses -= p.AnnualExpenses * math.Pow(1+a.ExpenseInflationRate, float64(elapsed))
			years[i].FinancingCost -= p.FinancingCost

			if years[i].PropertyValue < 0 {
				years[i].PropertyValue = 0
			}
			if years[i].Debt < 0 {
				years[i].Debt = 0
			}
			if years[i].Income < 0 {
				years[i].Income = 0
			}
			if years[i].Expenses < 0 {
				years[i].Expenses = 0
			}
			if years[i].FinancingCost < 0 {
				years[i].FinancingCost = 0
			}
		}
		return years
	}
}

// rentIncreaseTransform boosts income proportionally from the trigger
// year onward.
func rentIncreaseTransform(p models.RentIncreasePayload) eventTransform {
	return func(years []YearProjection, from int, _ models.GrowthAssumptions) []YearProjection {
		for i := from; i < len(years); i++ {
			years[i].Income *= 1 + p.Percent
		}
		return years
	}
}

// refinancingTransform books the closing costs once and lowers the
// financing cost by the rate delta on the refinanced balance from the
// trigger year onward.
func refinancingTransform(p models.RefinancingPayload) eventTransform {
	return func(years []YearProjection, from int, _ models.GrowthAssumptions) []YearProjection {
		years[from].OneTime -= p.ClosingCosts
		saving := p.RateDelta * p.Balance
		for i := from; i < len(years); i++ {
			years[i].FinancingCost -= saving
			if years[i].FinancingCost < 0 {
				years[i].FinancingCost = 0
			}
		}
		return years
	}
}

// renovationTransform books the works cost once and applies a permanent
// value and rent uplift from the trigger year onward.
func renovationTransform(p models.RenovationPayload) eventTransform {
	return func(years []YearProjection, from int, _ models.GrowthAssumptions) []YearProjection {
		years[from].OneTime -= p.Cost
		for i := from; i < len(years); i++ {
			years[i].PropertyValue += p.ValueUplift
			years[i].Income += p.AnnualRentUplift
		}
		return years
	}
}

// marketAdjustmentTransform shifts value and rent by a percentage from
// the trigger year onward.
func marketAdjustmentTransform(p models.MarketAdjustmentPayload) eventTransform {
	return func(years []YearProjection, from int, _ models.GrowthAssumptions) []YearProjection {
		for i := from; i < len(years); i++ {
			years[i].PropertyValue *= 1 + p.ValueShiftPercent
			years[i].Income *= 1 + p.RentShiftPercent
		}
		return years
	}
}
