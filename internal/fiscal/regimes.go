package fiscal

import (
	"math"

	"github.com/avergnaud/patrimonia/api/internal/models"
)

// SubRegime identifies which personal sub-regime was selected for a
// property.
type SubRegime string

const (
	SubRegimeMicro SubRegime = "micro"
	SubRegimeReel  SubRegime = "reel"
)

// PropertySubRegime records the sub-regime chosen for one property
// under the personal calculator and the outcome of that choice.
type PropertySubRegime struct {
	PropertyID    int64     `json:"property_id"`
	SubRegime     SubRegime `json:"sub_regime"`
	TaxableIncome float64   `json:"taxable_income"`
	TaxDue        float64   `json:"tax_due"`
}

// TaxResult is the annual taxable-result and tax-due figure for one
// entity under one regime. Regenerated on every call, never mutated.
type TaxResult struct {
	Regime              models.Regime           `json:"regime"`
	Year                int                     `json:"year"`
	GrossIncome         float64                 `json:"gross_income"`
	DeductibleExpenses  float64                 `json:"deductible_expenses"`
	DepreciationTotal   float64                 `json:"depreciation_total"`
	DepreciationDetail  []ComponentDepreciation `json:"depreciation_detail,omitempty"`
	TaxableResult       float64                 `json:"taxable_result"`
	TaxDue              float64                 `json:"tax_due"`
	EffectiveRate       float64                 `json:"effective_rate"`
	DeficitCarryforward float64                 `json:"deficit_carryforward,omitempty"`
	PersonalDetail      []PropertySubRegime     `json:"personal_detail,omitempty"`
}

// classify splits a year's transactions into gross rental income and
// deductible operating expenses. Amounts flagged non-deductible never
// count toward deductions, whatever their sign.
func classify(txs []models.Transaction, year int) (income, deductible float64) {
	for _, tx := range txs {
		if !tx.InYear(year) {
			continue
		}
		switch {
		case tx.IsIncome():
			income += math.Abs(tx.Amount)
		case tx.IsExpense() && tx.TaxDeductible:
			deductible += math.Abs(tx.Amount)
		}
	}
	return income, deductible
}

// effectiveRate is tax due relative to gross income, zero when there is
// no income to relate it to.
func effectiveRate(taxDue, grossIncome float64) float64 {
	if grossIncome <= 0 {
		return 0
	}
	return taxDue / grossIncome
}

// CalculateLMNP computes the annual result under the furnished-rental
// regime. Depreciation is capped so it cannot push the operating result
// below zero. Tax due is reported as zero: the LMNP result feeds the
// owner's personal income aggregation outside this engine.
func CalculateLMNP(properties []models.Property, txs []models.Transaction, settings models.LMNPSettings, year int) TaxResult {
	income, deductible := classify(txs, year)
	operatingResult := income - deductible

	var full []ComponentDepreciation
	for _, p := range properties {
		in := DepreciationInputFromProperty(p, txs)
		full = append(full, AnnualDepreciation(in, settings.Components, year)...)
	}
	applied := CapDepreciation(full, math.Max(0, operatingResult))
	depTotal := TotalDepreciation(applied)

	taxable := operatingResult - depTotal

	return TaxResult{
		Regime:             models.RegimeLMNP,
		Year:               year,
		GrossIncome:        income,
		DeductibleExpenses: deductible,
		DepreciationTotal:  depTotal,
		DepreciationDetail: applied,
		TaxableResult:      taxable,
		TaxDue:             0,
		EffectiveRate:      0,
	}
}

// CalculateSCIIS computes the annual corporate result. Depreciation is
// uncapped; a negative taxable result becomes a deficit carried forward
// without time limit. Tax applies the two-bracket schedule only to a
// positive result after imputing the prior carryforward.
func CalculateSCIIS(properties []models.Property, txs []models.Transaction, settings models.SCIISSettings, year int, carryforward float64) TaxResult {
	income, deductible := classify(txs, year)

	var detail []ComponentDepreciation
	for _, p := range properties {
		in := DepreciationInputFromProperty(p, txs)
		detail = append(detail, AnnualDepreciation(in, settings.Components, year)...)
	}
	depTotal := TotalDepreciation(detail)

	taxable := income - deductible - depTotal

	// Prior deficits reduce a positive result first.
	if carryforward > 0 && taxable > 0 {
		used := math.Min(carryforward, taxable)
		taxable -= used
		carryforward -= used
	}

	var taxDue float64
	newCarryforward := carryforward
	if taxable > 0 {
		taxDue = corporateTax(taxable, settings)
	} else if taxable < 0 {
		newCarryforward = carryforward - taxable
	}

	return TaxResult{
		Regime:              models.RegimeSCIIS,
		Year:                year,
		GrossIncome:         income,
		DeductibleExpenses:  deductible,
		DepreciationTotal:   depTotal,
		DepreciationDetail:  detail,
		TaxableResult:       taxable,
		TaxDue:              taxDue,
		EffectiveRate:       effectiveRate(taxDue, income),
		DeficitCarryforward: newCarryforward,
	}
}

// corporateTax applies the reduced rate up to the threshold and the
// standard rate above it.
func corporateTax(taxable float64, settings models.SCIISSettings) float64 {
	if taxable <= settings.ReducedThreshold {
		return taxable * settings.ReducedRate
	}
	return settings.ReducedThreshold*settings.ReducedRate +
		(taxable-settings.ReducedThreshold)*settings.StandardRate
}

// CalculatePersonal computes the annual result under the unincorporated
// personal regime. For each property it compares the flat-allowance
// micro sub-regime (only selectable below the income ceiling) against
// the real-expense sub-regime, keeps whichever taxes less, and reports
// the choice. Equal outcomes keep micro, so repeated runs on identical
// inputs always select the same sub-regime.
func CalculatePersonal(properties []models.Property, txs []models.Transaction, settings models.PersonalSettings, year int) TaxResult {
	combinedRate := settings.MarginalTaxRate + settings.SocialChargesRate

	var result TaxResult
	result.Regime = models.RegimePersonal
	result.Year = year

	for _, p := range properties {
		propTxs := models.FilterTransactions(txs, p.ID, year)
		income, deductible := classify(propTxs, year)
		result.GrossIncome += income

		reelTaxable := math.Max(0, income-deductible)
		reelTax := reelTaxable * combinedRate

		chosen := PropertySubRegime{
			PropertyID:    p.ID,
			SubRegime:     SubRegimeReel,
			TaxableIncome: reelTaxable,
			TaxDue:        reelTax,
		}
		deducted := deductible

		if income <= settings.MicroIncomeCeiling {
			microTaxable := income * (1 - settings.MicroAllowanceRate)
			microTax := microTaxable * combinedRate
			if microTax <= reelTax {
				chosen = PropertySubRegime{
					PropertyID:    p.ID,
					SubRegime:     SubRegimeMicro,
					TaxableIncome: microTaxable,
					TaxDue:        microTax,
				}
				deducted = income * settings.MicroAllowanceRate
			}
		}

		result.DeductibleExpenses += deducted
		result.TaxableResult += chosen.TaxableIncome
		result.TaxDue += chosen.TaxDue
		result.PersonalDetail = append(result.PersonalDetail, chosen)
	}

	result.EffectiveRate = effectiveRate(result.TaxDue, result.GrossIncome)
	return result
}
