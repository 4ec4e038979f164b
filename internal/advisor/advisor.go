// Package advisor ranks the candidate tax regimes for a property set
// and emits restructuring suggestions. Comparisons run every candidate
// regime over the same snapshot with synthetic default-settings
// entities; nothing here mutates the inputs.
package advisor

import (
	"sort"
	"time"

	"github.com/avergnaud/patrimonia/api/internal/fiscal"
	"github.com/avergnaud/patrimonia/api/internal/models"
)

// Overall score weights and the static per-regime flexibility scores.
const (
	taxWeight         = 0.4
	flexibilityWeight = 0.3
	exitWeight        = 0.3
)

var flexibilityScores = map[models.Regime]float64{
	models.RegimePersonal: 0.8,
	models.RegimeLMNP:     0.6,
	models.RegimeSCIIS:    0.4,
}

// RegimeComparison is the scored outcome of running one candidate
// regime over the property set.
type RegimeComparison struct {
	Regime              models.Regime `json:"regime"`
	AnnualTaxBurden     float64       `json:"annual_tax_burden"`
	EffectiveRate       float64       `json:"effective_rate"`
	CashFlowImpact      float64       `json:"cash_flow_impact"`
	DepreciationBenefit float64       `json:"depreciation_benefit"`
	FlexibilityScore    float64       `json:"flexibility_score"`
	ExitTaxEstimate     float64       `json:"exit_tax_estimate"`
	OverallScore        float64       `json:"overall_score"`
}

// SuggestionType tags an optimization suggestion.
type SuggestionType string

const (
	SuggestionRegimeChange      SuggestionType = "regime_change"
	SuggestionDepreciation      SuggestionType = "depreciation_optimization"
	SuggestionTransactionTiming SuggestionType = "transaction_timing"
	SuggestionRestructuring     SuggestionType = "entity_restructuring"
)

// EffortLevel tags the implementation effort of a suggestion.
type EffortLevel string

const (
	EffortLow    EffortLevel = "low"
	EffortMedium EffortLevel = "medium"
	EffortHigh   EffortLevel = "high"
)

// suggestion priority weights by type.
var priorityWeights = map[SuggestionType]float64{
	SuggestionRegimeChange:      1.0,
	SuggestionDepreciation:      0.8,
	SuggestionRestructuring:     0.7,
	SuggestionTransactionTiming: 0.6,
}

// OptimizationSuggestion is one ranked restructuring action with its
// estimated annual saving.
type OptimizationSuggestion struct {
	Type                  SuggestionType `json:"type"`
	Title                 string         `json:"title"`
	Description           string         `json:"description"`
	EstimatedAnnualSaving float64        `json:"estimated_annual_saving"`
	Effort                EffortLevel    `json:"effort"`
	PriorityWeight        float64        `json:"priority_weight"`
}

// Report bundles the ranked comparisons and suggestions for one entity.
type Report struct {
	CurrentRegime models.Regime            `json:"current_regime"`
	Year          int                      `json:"year"`
	Comparisons   []RegimeComparison       `json:"comparisons"`
	Suggestions   []OptimizationSuggestion `json:"suggestions"`
}

// Advise runs the full comparison for the entity's property set and
// derives the suggestion list from the ranking.
func Advise(entity models.LegalEntity, properties []models.Property, txs []models.Transaction, year int) Report {
	comparisons := CompareRegimes(properties, txs, year)
	suggestions := Suggest(entity, properties, comparisons)
	return Report{
		CurrentRegime: entity.Regime,
		Year:          year,
		Comparisons:   comparisons,
		Suggestions:   suggestions,
	}
}

// CompareRegimes runs each candidate regime with default settings over
// the same snapshot, scores them and returns the ranking sorted by
// overall score descending.
func CompareRegimes(properties []models.Property, txs []models.Transaction, year int) []RegimeComparison {
	personal := models.DefaultPersonalSettings()
	lmnp := models.DefaultLMNPSettings()
	sciis := models.DefaultSCIISSettings()

	exitDate := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	comparisons := []RegimeComparison{
		buildComparison(models.RegimePersonal,
			fiscal.CalculatePersonal(properties, txs, personal, year),
			privateExitTax(properties, exitDate)),
		buildComparison(models.RegimeLMNP,
			fiscal.CalculateLMNP(properties, txs, lmnp, year),
			privateExitTax(properties, exitDate)),
		buildComparison(models.RegimeSCIIS,
			fiscal.CalculateSCIIS(properties, txs, sciis, year, 0),
			corporateExitTax(properties, exitDate, sciis)),
	}

	score(comparisons)

	sort.SliceStable(comparisons, func(i, j int) bool {
		return comparisons[i].OverallScore > comparisons[j].OverallScore
	})
	return comparisons
}

// buildComparison derives the comparison figures from a regime result.
// The LMNP result reports no direct tax, so its burden is estimated by
// taxing the positive taxable result at the default personal marginal
// and social rates, the aggregation it actually feeds.
func buildComparison(regime models.Regime, result fiscal.TaxResult, exitTax float64) RegimeComparison {
	burden := result.TaxDue
	if regime == models.RegimeLMNP {
		personal := models.DefaultPersonalSettings()
		if result.TaxableResult > 0 {
			burden = result.TaxableResult * (personal.MarginalTaxRate + personal.SocialChargesRate)
		} else {
			burden = 0
		}
	}

	effective := 0.0
	if result.GrossIncome > 0 {
		effective = burden / result.GrossIncome
	}

	return RegimeComparison{
		Regime:              regime,
		AnnualTaxBurden:     burden,
		EffectiveRate:       effective,
		CashFlowImpact:      result.GrossIncome - result.DeductibleExpenses - burden,
		DepreciationBenefit: result.DepreciationTotal,
		FlexibilityScore:    flexibilityScores[regime],
		ExitTaxEstimate:     exitTax,
	}
}

// score fills in the overall score: 0.4 x normalized tax burden +
// 0.3 x flexibility + 0.3 x normalized exit cost, where normalization
// maps the cheapest candidate to 1 and the most expensive to 0.
func score(comparisons []RegimeComparison) {
	var maxTax, maxExit float64
	for _, c := range comparisons {
		if c.AnnualTaxBurden > maxTax {
			maxTax = c.AnnualTaxBurden
		}
		if c.ExitTaxEstimate > maxExit {
			maxExit = c.ExitTaxEstimate
		}
	}
	for i := range comparisons {
		c := &comparisons[i]
		c.OverallScore = taxWeight*normalizeCost(c.AnnualTaxBurden, maxTax) +
			flexibilityWeight*c.FlexibilityScore +
			exitWeight*normalizeCost(c.ExitTaxEstimate, maxExit)
	}
}

// normalizeCost maps a cost to [0,1] with 1 for the cheapest.
func normalizeCost(cost, maxCost float64) float64 {
	if maxCost <= 0 {
		return 1
	}
	return 1 - cost/maxCost
}

// privateExitTax estimates the disposal tax if every property were
// sold today at its current value under the private regime.
func privateExitTax(properties []models.Property, at time.Time) float64 {
	var total float64
	for _, p := range properties {
		sale := fiscal.SaleInput{SalePrice: p.CurrentValue, SaleDate: at}
		total += fiscal.CalculatePrivateCapitalGains(p, sale).TotalTax
	}
	return total
}

// corporateExitTax estimates the disposal tax if every property were
// sold today at its current value under the corporate regime, with no
// depreciation history attached.
func corporateExitTax(properties []models.Property, at time.Time, settings models.SCIISSettings) float64 {
	var total float64
	for _, p := range properties {
		sale := fiscal.SaleInput{SalePrice: p.CurrentValue, SaleDate: at}
		total += fiscal.CalculateCorporateCapitalGains(p, sale, 0, settings).TotalTax
	}
	return total
}
