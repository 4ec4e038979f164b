// Package comparator scores and ranks the portfolio's properties on
// financial, risk and location axes and emits buy/hold/sell/improve
// recommendations. All inputs to the scoring are deterministic, so the
// ranking is reproducible run to run.
package comparator

import (
	"math"
	"sort"

	"github.com/avergnaud/patrimonia/api/internal/kpi"
	"github.com/avergnaud/patrimonia/api/internal/models"
	"github.com/avergnaud/patrimonia/api/internal/scenario"
)

// Composite weights and assumed market benchmarks.
const (
	financialWeight = 0.5
	riskWeight      = 0.3
	locationWeight  = 0.2

	benchmarkGrossYield  = 0.055
	benchmarkPricePerSqm = 3500.0

	simplifiedIRRYears        = 5
	simplifiedIRRAppreciation = 0.02
	simplifiedIRRRentGrowth   = 0.01
)

// Recommendation thresholds.
const (
	sellOverallBelow      = 40.0
	holdOverallFrom       = 60.0
	holdCashFlowAbove     = 200.0
	improveLocationFrom   = 70.0
	improveFinancialBelow = 50.0
)

// Metrics are the per-property sub-metrics feeding the composite
// scores.
type Metrics struct {
	GrossYield         float64 `json:"gross_yield"`
	NetYield           float64 `json:"net_yield"`
	CapRate            float64 `json:"cap_rate"`
	CashOnCash         float64 `json:"cash_on_cash"`
	SimplifiedIRR      float64 `json:"simplified_irr"`
	AnnualCashFlow     float64 `json:"annual_cash_flow"`
	AnnualIncome       float64 `json:"annual_income"`
	CapitalGainPercent float64 `json:"capital_gain_percent"`
	PricePerSqm        float64 `json:"price_per_sqm"`
	RentPerSqm         float64 `json:"rent_per_sqm"`
	ExpenseRatio       float64 `json:"expense_ratio"`
	LTV                float64 `json:"ltv"`
	EquityShare        float64 `json:"equity_share"`
	Volatility         float64 `json:"volatility"`
	VacancyRisk        float64 `json:"vacancy_risk"`
	Liquidity          float64 `json:"liquidity"`
	LocationGrowth     float64 `json:"location_growth"`
	LocationDemand     float64 `json:"location_demand"`
	YieldVsBenchmark   float64 `json:"yield_vs_benchmark"`
	PriceVsBenchmark   float64 `json:"price_vs_benchmark"`
}

// PropertyScore is one property's metrics, composite scores and
// deviation from the portfolio mean.
type PropertyScore struct {
	PropertyID        int64   `json:"property_id"`
	Name              string  `json:"name"`
	City              string  `json:"city"`
	Metrics           Metrics `json:"metrics"`
	FinancialScore    float64 `json:"financial_score"`
	RiskScore         float64 `json:"risk_score"`
	LocationScore     float64 `json:"location_score"`
	OverallScore      float64 `json:"overall_score"`
	DeviationFromMean float64 `json:"deviation_from_mean"`
}

// Action is a comparator recommendation verb.
type Action string

const (
	ActionSell    Action = "sell"
	ActionHold    Action = "hold"
	ActionImprove Action = "improve"
)

// Priority orders recommendations for the caller.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Recommendation is one suggested action on one property.
type Recommendation struct {
	PropertyID            int64    `json:"property_id"`
	Action                Action   `json:"action"`
	Priority              Priority `json:"priority"`
	EstimatedAnnualImpact float64  `json:"estimated_annual_impact"`
	Reason                string   `json:"reason"`
}

// Report is the full comparison output: scores sorted by overall score
// descending, the best performer per axis, and the recommendation
// list.
type Report struct {
	Scores          []PropertyScore  `json:"scores"`
	BestOverall     int64            `json:"best_overall"`
	BestFinancial   int64            `json:"best_financial"`
	BestRisk        int64            `json:"best_risk"`
	BestLocation    int64            `json:"best_location"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Compare scores every property, ranks them and derives the
// recommendation list.
func Compare(properties []models.Property, loans []models.Loan, txs []models.Transaction, year int) Report {
	scores := make([]PropertyScore, 0, len(properties))
	for _, p := range properties {
		scores = append(scores, scoreProperty(p, loans, txs, year))
	}

	var meanOverall float64
	if len(scores) > 0 {
		for _, s := range scores {
			meanOverall += s.OverallScore
		}
		meanOverall /= float64(len(scores))
	}
	for i := range scores {
		scores[i].DeviationFromMean = scores[i].OverallScore - meanOverall
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].OverallScore > scores[j].OverallScore
	})

	report := Report{Scores: scores}
	report.BestOverall = bestBy(scores, func(s PropertyScore) float64 { return s.OverallScore })
	report.BestFinancial = bestBy(scores, func(s PropertyScore) float64 { return s.FinancialScore })
	report.BestRisk = bestBy(scores, func(s PropertyScore) float64 { return s.RiskScore })
	report.BestLocation = bestBy(scores, func(s PropertyScore) float64 { return s.LocationScore })
	report.Recommendations = recommend(scores)
	return report
}

// bestBy returns the property ID maximizing the axis, stable on ties
// because scores are already ordered.
func bestBy(scores []PropertyScore, axis func(PropertyScore) float64) int64 {
	var bestID int64
	best := math.Inf(-1)
	for _, s := range scores {
		if v := axis(s); v > best {
			best = v
			bestID = s.PropertyID
		}
	}
	return bestID
}

// scoreProperty computes the sub-metrics and composite scores for one
// property.
func scoreProperty(p models.Property, loans []models.Loan, txs []models.Transaction, year int) PropertyScore {
	pk := kpi.ComputePropertyKPI(p, loans, txs, year)
	profile := profileFor(p.City, p.PropertyType)

	m := Metrics{
		GrossYield:         pk.GrossYield,
		NetYield:           pk.NetYield,
		CapRate:            safeDiv(pk.NetOperatingIncome, p.CurrentValue),
		AnnualCashFlow:     pk.AnnualCashFlow,
		AnnualIncome:       pk.AnnualRentalIncome,
		CapitalGainPercent: pk.CapitalGainPercent,
		ExpenseRatio:       safeDiv(pk.AnnualOperatingExpenses, pk.AnnualRentalIncome),
		LTV:                pk.LTV,
		EquityShare:        1 - pk.LTV,
		Volatility:         profile.Volatility,
		VacancyRisk:        profile.Vacancy,
		Liquidity:          profile.Liquidity,
		LocationGrowth:     profile.GrowthScore,
		LocationDemand:     profile.DemandScore,
		YieldVsBenchmark:   pk.GrossYield - benchmarkGrossYield,
	}
	if p.SurfaceArea > 0 {
		m.PricePerSqm = p.CurrentValue / p.SurfaceArea
		m.RentPerSqm = p.MonthlyRent / p.SurfaceArea
		m.PriceVsBenchmark = m.PricePerSqm - benchmarkPricePerSqm
	}

	equity := p.CurrentValue - pk.TotalDebt
	m.CashOnCash = safeDiv(pk.AnnualCashFlow, equity)
	m.SimplifiedIRR = simplifiedIRR(p.CurrentValue, pk.TotalDebt, pk.AnnualCashFlow)

	score := PropertyScore{
		PropertyID: p.ID,
		Name:       p.Name,
		City:       p.City,
		Metrics:    m,
	}
	score.FinancialScore = financialScore(m)
	score.RiskScore = riskScore(m)
	score.LocationScore = locationScore(m)
	score.OverallScore = financialWeight*score.FinancialScore +
		riskWeight*score.RiskScore +
		locationWeight*score.LocationScore
	return score
}

// simplifiedIRR runs a fixed 5-year hold: equity out at time zero,
// slowly growing cash flows, and a terminal sale at modest
// appreciation with the debt repaid at its current balance.
func simplifiedIRR(value, debt, annualCashFlow float64) float64 {
	equity := value - debt
	if equity <= 0 {
		return 0
	}

	flows := make([]float64, simplifiedIRRYears+1)
	flows[0] = -equity
	for i := 1; i <= simplifiedIRRYears; i++ {
		flows[i] = annualCashFlow * math.Pow(1+simplifiedIRRRentGrowth, float64(i-1))
	}
	terminal := value*math.Pow(1+simplifiedIRRAppreciation, simplifiedIRRYears) - debt
	flows[simplifiedIRRYears] += terminal

	irr, ok := scenario.IRR(flows)
	if !ok {
		return 0
	}
	return irr
}

// financialScore maps yield, cash-on-cash, IRR and unrealized gain to
// a 0-100 score.
func financialScore(m Metrics) float64 {
	return 100 * (0.35*clamp01(m.GrossYield/0.08) +
		0.25*clamp01(m.CashOnCash/0.10) +
		0.25*clamp01(m.SimplifiedIRR/0.10) +
		0.15*clamp01(m.CapitalGainPercent/0.50))
}

// riskScore maps volatility, vacancy, liquidity and leverage to a
// 0-100 score where higher is safer.
func riskScore(m Metrics) float64 {
	return 100 * (0.35*(1-clamp01(m.Volatility/0.25)) +
		0.25*(1-clamp01(m.VacancyRisk/0.15)) +
		0.20*clamp01(m.Liquidity) +
		0.20*(1-clamp01(m.LTV)))
}

// locationScore maps the city growth and demand proxies plus entry
// price attractiveness to a 0-100 score.
func locationScore(m Metrics) float64 {
	priceAttractiveness := 1.0
	if m.PricePerSqm > 0 {
		priceAttractiveness = clamp01(benchmarkPricePerSqm / m.PricePerSqm)
	}
	return 0.4*m.LocationGrowth + 0.4*m.LocationDemand + 0.2*100*priceAttractiveness
}

// recommend derives the action list from the scored properties:
// sell weak money-losers, hold strong earners, improve well-located
// financial underperformers.
func recommend(scores []PropertyScore) []Recommendation {
	var out []Recommendation
	for _, s := range scores {
		switch {
		case s.OverallScore < sellOverallBelow && s.Metrics.AnnualCashFlow < 0:
			out = append(out, Recommendation{
				PropertyID:            s.PropertyID,
				Action:                ActionSell,
				Priority:              PriorityHigh,
				EstimatedAnnualImpact: -s.Metrics.AnnualCashFlow,
				Reason:                "weak overall score with negative cash flow",
			})
		case s.LocationScore > improveLocationFrom && s.FinancialScore < improveFinancialBelow:
			out = append(out, Recommendation{
				PropertyID:            s.PropertyID,
				Action:                ActionImprove,
				Priority:              PriorityMedium,
				EstimatedAnnualImpact: s.Metrics.AnnualIncome * 0.10,
				Reason:                "strong location underexploited financially",
			})
		case s.OverallScore >= holdOverallFrom && s.Metrics.AnnualCashFlow > holdCashFlowAbove:
			out = append(out, Recommendation{
				PropertyID:            s.PropertyID,
				Action:                ActionHold,
				Priority:              PriorityLow,
				EstimatedAnnualImpact: s.Metrics.AnnualCashFlow,
				Reason:                "healthy score and positive cash flow",
			})
		}
	}
	return out
}

func safeDiv(numerator, denominator float64) float64 {
	if denominator <= 0 {
		return 0
	}
	return numerator / denominator
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
