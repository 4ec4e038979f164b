// Package scenario projects a portfolio over a multi-year horizon,
// applies discrete life-cycle events to the yearly array and solves
// the resulting cash-flow series for its internal rate of return.
// Each run works on an array local to the invocation; concurrent runs
// share nothing.
package scenario

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/avergnaud/patrimonia/api/internal/kpi"
	"github.com/avergnaud/patrimonia/api/internal/loan"
	"github.com/avergnaud/patrimonia/api/internal/models"
)

// Sensitivity band growth-rate shifts, in absolute points.
const (
	optimisticAppreciationShift = 0.015
	optimisticRentShift         = 0.01
)

// SummaryMetrics condenses a whole projection run. IRRConverged is
// false when the solver exhausted both methods; IRR is then a 0
// sentinel that callers must read as undetermined.
type SummaryMetrics struct {
	InitialNetWorth float64 `json:"initial_net_worth"`
	FinalNetWorth   float64 `json:"final_net_worth"`
	TotalCashFlow   float64 `json:"total_cash_flow"`
	ROI             float64 `json:"roi"`
	IRR             float64 `json:"irr"`
	IRRConverged    bool    `json:"irr_converged"`
}

// SensitivityBand brackets the expected outcome with optimistic and
// pessimistic growth assumptions.
type SensitivityBand struct {
	Optimistic  SummaryMetrics `json:"optimistic"`
	Expected    SummaryMetrics `json:"expected"`
	Pessimistic SummaryMetrics `json:"pessimistic"`
}

// Results is the outcome of one simulation run.
type Results struct {
	RunID        string           `json:"run_id"`
	ScenarioName string           `json:"scenario_name"`
	BaseYear     int              `json:"base_year"`
	Years        []YearProjection `json:"years"`
	Summary      SummaryMetrics   `json:"summary"`
	Sensitivity  SensitivityBand  `json:"sensitivity"`
}

// Run projects the portfolio snapshot over the scenario horizon:
// baseline extrapolation, chronological event application, a single
// recompute pass for cash flows and net worth, then IRR. The three
// sensitivity variants rerun the same events under shifted growth
// rates.
func Run(properties []models.Property, loans []models.Loan, txs []models.Transaction, scn models.Scenario) Results {
	expectedYears, expected := project(properties, loans, txs, scn)

	optimistic := scn
	optimistic.Assumptions.AppreciationRate += optimisticAppreciationShift
	optimistic.Assumptions.RentGrowthRate += optimisticRentShift
	_, optimisticSummary := project(properties, loans, txs, optimistic)

	pessimistic := scn
	pessimistic.Assumptions.AppreciationRate -= optimisticAppreciationShift
	pessimistic.Assumptions.RentGrowthRate -= optimisticRentShift
	_, pessimisticSummary := project(properties, loans, txs, pessimistic)

	return Results{
		RunID:        uuid.New().String(),
		ScenarioName: scn.Name,
		BaseYear:     scn.BaseYear,
		Years:        expectedYears,
		Summary:      expected,
		Sensitivity: SensitivityBand{
			Optimistic:  optimisticSummary,
			Expected:    expected,
			Pessimistic: pessimisticSummary,
		},
	}
}

// project runs one projection variant end to end.
func project(properties []models.Property, loans []models.Loan, txs []models.Transaction, scn models.Scenario) ([]YearProjection, SummaryMetrics) {
	years := baseline(properties, loans, txs, scn)
	years = applyEvents(years, scn)
	summary := recompute(years)
	return years, summary
}

// baseline extrapolates the current portfolio metrics forward: value,
// income and expenses compound at their independent growth rates while
// debt follows each loan's amortization.
func baseline(properties []models.Property, loans []models.Loan, txs []models.Transaction, scn models.Scenario) []YearProjection {
	horizon := scn.HorizonYears
	if horizon <= 0 {
		return nil
	}

	snapshot := kpi.ComputePortfolioKPI(properties, loans, txs, scn.BaseYear)
	years := make([]YearProjection, horizon)

	asOf := time.Date(scn.BaseYear, time.January, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < horizon; i++ {
		growth := float64(i)
		debt, interest := projectedDebt(loans, asOf, i)

		years[i] = YearProjection{
			Year:          scn.BaseYear + i,
			PropertyValue: snapshot.TotalValue * math.Pow(1+scn.Assumptions.AppreciationRate, growth),
			Debt:          debt,
			Income:        snapshot.TotalRentalIncome * math.Pow(1+scn.Assumptions.RentGrowthRate, growth),
			Expenses:      snapshot.TotalOperatingExpenses * math.Pow(1+scn.Assumptions.ExpenseInflationRate, growth),
			FinancingCost: interest,
		}
	}

	return years
}

// projectedDebt sums each loan's closed-form remaining balance
// yearsAhead years past the as-of date, plus the approximate interest
// charge on that balance.
func projectedDebt(loans []models.Loan, asOf time.Time, yearsAhead int) (balance, interest float64) {
	for _, l := range loans {
		completed := l.PaymentsCompleted(asOf) + yearsAhead*12
		b := loan.RemainingBalance(l.Principal, l.AnnualRate, l.TermMonths, completed)
		balance += b
		interest += b * l.AnnualRate
	}
	return balance, interest
}

// recompute runs the single post-event pass: cash flow, cumulative
// cash flow, net worth and ROI per year (ROI relative to year-0 net
// worth), then the IRR of the whole series.
func recompute(years []YearProjection) SummaryMetrics {
	if len(years) == 0 {
		return SummaryMetrics{}
	}

	var cumulative float64
	for i := range years {
		y := &years[i]
		y.CashFlow = y.Income - y.Expenses - y.FinancingCost + y.OneTime
		cumulative += y.CashFlow
		y.CumulativeCashFlow = cumulative
		y.NetWorth = y.PropertyValue - y.Debt + y.CumulativeCashFlow
	}

	initialNetWorth := years[0].PropertyValue - years[0].Debt
	for i := range years {
		if initialNetWorth != 0 {
			years[i].ROI = (years[i].NetWorth - initialNetWorth) / initialNetWorth
		}
	}

	last := years[len(years)-1]
	summary := SummaryMetrics{
		InitialNetWorth: initialNetWorth,
		FinalNetWorth:   last.NetWorth,
		TotalCashFlow:   cumulative,
	}
	if initialNetWorth != 0 {
		summary.ROI = (last.NetWorth - initialNetWorth) / initialNetWorth
	}

	// Cash-flow series for the IRR: the initial equity leaves at time
	// zero, yearly cash flows follow, and the terminal equity returns
	// with the last flow.
	flows := make([]float64, len(years)+1)
	flows[0] = -initialNetWorth
	for i, y := range years {
		flows[i+1] = y.CashFlow
	}
	flows[len(years)] += last.PropertyValue - last.Debt

	summary.IRR, summary.IRRConverged = IRR(flows)
	return summary
}
