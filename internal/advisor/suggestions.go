package advisor

import (
	"fmt"
	"sort"

	"github.com/avergnaud/patrimonia/api/internal/fiscal"
	"github.com/avergnaud/patrimonia/api/internal/models"
)

// Suggestion thresholds.
const (
	minRegimeChangeSaving  = 100.0
	restructuringMinAssets = 3
)

// Suggest derives ranked restructuring actions from the regime ranking
// and the entity's current situation. Suggestions are sorted by
// priority weight x estimated saving, descending.
func Suggest(entity models.LegalEntity, properties []models.Property, comparisons []RegimeComparison) []OptimizationSuggestion {
	var suggestions []OptimizationSuggestion

	current, best := findCurrentAndBest(entity.Regime, comparisons)

	if best != nil && current != nil && best.Regime != current.Regime {
		saving := current.AnnualTaxBurden - best.AnnualTaxBurden
		if saving >= minRegimeChangeSaving {
			suggestions = append(suggestions, OptimizationSuggestion{
				Type:  SuggestionRegimeChange,
				Title: fmt.Sprintf("Switch from %s to %s", current.Regime, best.Regime),
				Description: fmt.Sprintf(
					"Holding these assets under %s would lower the annual tax burden from %.0f to %.0f. A regime change means creating a new entity and transferring the assets.",
					best.Regime, current.AnnualTaxBurden, best.AnnualTaxBurden),
				EstimatedAnnualSaving: saving,
				Effort:                EffortHigh,
				PriorityWeight:        priorityWeights[SuggestionRegimeChange],
			})
		}
	}

	if s := depreciationSuggestion(entity, properties); s != nil {
		suggestions = append(suggestions, *s)
	}

	if s := timingSuggestion(entity, comparisons); s != nil {
		suggestions = append(suggestions, *s)
	}

	if entity.Regime == models.RegimePersonal && len(properties) >= restructuringMinAssets {
		saving := 0.0
		if current != nil && best != nil {
			saving = current.AnnualTaxBurden - best.AnnualTaxBurden
			if saving < 0 {
				saving = 0
			}
		}
		suggestions = append(suggestions, OptimizationSuggestion{
			Type:  SuggestionRestructuring,
			Title: "Consolidate holdings into a dedicated entity",
			Description: fmt.Sprintf(
				"%d properties held personally; a dedicated holding entity opens component depreciation and deficit carryforward.",
				len(properties)),
			EstimatedAnnualSaving: saving,
			Effort:                EffortHigh,
			PriorityWeight:        priorityWeights[SuggestionRestructuring],
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].PriorityWeight*suggestions[i].EstimatedAnnualSaving >
			suggestions[j].PriorityWeight*suggestions[j].EstimatedAnnualSaving
	})
	return suggestions
}

// findCurrentAndBest locates the entity's regime and the top-ranked
// regime inside the comparison list.
func findCurrentAndBest(regime models.Regime, comparisons []RegimeComparison) (current, best *RegimeComparison) {
	for i := range comparisons {
		if comparisons[i].Regime == regime {
			current = &comparisons[i]
		}
	}
	if len(comparisons) > 0 {
		best = &comparisons[0]
	}
	return current, best
}

// depreciationSuggestion fires when a personal-regime entity leaves
// component depreciation unused: neither sub-regime of the personal
// calculator depreciates anything.
func depreciationSuggestion(entity models.LegalEntity, properties []models.Property) *OptimizationSuggestion {
	if entity.Regime != models.RegimePersonal || len(properties) == 0 {
		return nil
	}

	rules := models.DefaultLMNPSettings().Components
	var potential float64
	for _, p := range properties {
		in := fiscal.DepreciationInputFromProperty(p, nil)
		year := p.AcquisitionDate.Year() + 1
		potential += fiscal.TotalDepreciation(fiscal.AnnualDepreciation(in, rules, year))
	}
	if potential <= 0 {
		return nil
	}

	personal := models.DefaultPersonalSettings()
	saving := potential * (personal.MarginalTaxRate + personal.SocialChargesRate)

	return &OptimizationSuggestion{
		Type:  SuggestionDepreciation,
		Title: "Activate component depreciation",
		Description: fmt.Sprintf(
			"Roughly %.0f of annual depreciation is available under a furnished-rental election and currently unused.",
			potential),
		EstimatedAnnualSaving: saving,
		Effort:                EffortLow,
		PriorityWeight:        priorityWeights[SuggestionDepreciation],
	}
}

// timingSuggestion fires for corporate entities whose taxable result
// crosses the reduced-rate threshold: deductible spending pulled into
// the current year keeps the excess inside the reduced bracket.
func timingSuggestion(entity models.LegalEntity, comparisons []RegimeComparison) *OptimizationSuggestion {
	if entity.Regime != models.RegimeSCIIS || entity.SCIIS == nil {
		return nil
	}

	var corporate *RegimeComparison
	for i := range comparisons {
		if comparisons[i].Regime == models.RegimeSCIIS {
			corporate = &comparisons[i]
		}
	}
	if corporate == nil {
		return nil
	}

	settings := entity.SCIIS
	// Reconstruct the taxable result from the burden under the
	// two-bracket schedule.
	if corporate.AnnualTaxBurden <= settings.ReducedThreshold*settings.ReducedRate {
		return nil
	}
	excessTax := corporate.AnnualTaxBurden - settings.ReducedThreshold*settings.ReducedRate
	excess := excessTax / settings.StandardRate
	saving := excess * (settings.StandardRate - settings.ReducedRate)

	return &OptimizationSuggestion{
		Type:  SuggestionTransactionTiming,
		Title: "Shift deductible spending into the current year",
		Description: fmt.Sprintf(
			"About %.0f of taxable result is taxed at the standard rate; advancing planned deductible works or charges keeps it in the reduced bracket.",
			excess),
		EstimatedAnnualSaving: saving,
		Effort:                EffortMedium,
		PriorityWeight:        priorityWeights[SuggestionTransactionTiming],
	}
}
