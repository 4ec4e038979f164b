package fiscal

import (
	"math"
	"time"

	"github.com/avergnaud/patrimonia/api/internal/models"
)

// Private capital-gains parameters: flat rates, allowance schedules and
// the progressive surcharge on large gains.
const (
	incomeTaxRate     = 0.19
	socialChargesRate = 0.172

	allowanceGraceYears = 5

	// Income-tax allowance: 6%/yr for years 6-21, 4% in year 22,
	// full exemption from 22 years held.
	irAllowancePerYear  = 0.06
	irAllowanceFinal    = 0.04
	irExemptionYears    = 22

	// Social-charges allowance: 1.65%/yr years 6-21, 1.60% in year
	// 22, then 9%/yr until full exemption at 30 years.
	socialAllowancePerYear = 0.0165
	socialAllowanceYear22  = 0.016
	socialAllowanceLate    = 0.09
	socialExemptionYears   = 30

	surchargeThreshold = 50000
)

// surchargeBrackets taxes the slice of taxable gain falling in each
// band.
var surchargeBrackets = []struct {
	upTo float64
	rate float64
}{
	{100000, 0.02},
	{150000, 0.03},
	{200000, 0.04},
	{250000, 0.05},
	{math.Inf(1), 0.06},
}

// SaleInput describes a disposal event.
type SaleInput struct {
	SalePrice float64   `json:"sale_price"`
	SaleCosts float64   `json:"sale_costs"`
	SaleDate  time.Time `json:"sale_date"`
}

// CapitalGainsResult is the regime-specific taxation of a disposal.
type CapitalGainsResult struct {
	Regime                 models.Regime `json:"regime"`
	GrossGain              float64       `json:"gross_gain"`
	YearsHeld              int           `json:"years_held"`
	IncomeTaxAllowanceRate float64       `json:"income_tax_allowance_rate"`
	SocialAllowanceRate    float64       `json:"social_allowance_rate"`
	TaxableGainIncomeTax   float64       `json:"taxable_gain_income_tax"`
	TaxableGainSocial      float64       `json:"taxable_gain_social"`
	IncomeTaxDue           float64       `json:"income_tax_due"`
	SocialChargesDue       float64       `json:"social_charges_due"`
	Surcharge              float64       `json:"surcharge"`
	TotalTax               float64       `json:"total_tax"`
	NetProceeds            float64       `json:"net_proceeds"`
}

// incomeTaxAllowance returns the holding-period allowance rate applied
// to the income-tax base, capped at full exemption.
func incomeTaxAllowance(yearsHeld int) float64 {
	if yearsHeld >= irExemptionYears {
		return 1
	}
	if yearsHeld <= allowanceGraceYears {
		return 0
	}
	rate := float64(yearsHeld-allowanceGraceYears) * irAllowancePerYear
	return math.Min(rate, 1)
}

// socialAllowance returns the holding-period allowance rate applied to
// the social-charges base, capped at full exemption.
func socialAllowance(yearsHeld int) float64 {
	if yearsHeld >= socialExemptionYears {
		return 1
	}
	if yearsHeld <= allowanceGraceYears {
		return 0
	}
	rate := float64(min(yearsHeld, irExemptionYears-1)-allowanceGraceYears) * socialAllowancePerYear
	if yearsHeld >= irExemptionYears {
		rate += socialAllowanceYear22
		rate += float64(yearsHeld-irExemptionYears) * socialAllowanceLate
	}
	return math.Min(rate, 1)
}

// surcharge applies the progressive rate table to the taxable gain
// above the threshold, per bracket slice.
func surcharge(taxableGain float64) float64 {
	if taxableGain <= surchargeThreshold {
		return 0
	}
	var total float64
	lower := float64(surchargeThreshold)
	for _, b := range surchargeBrackets {
		if taxableGain <= lower {
			break
		}
		upper := math.Min(taxableGain, b.upTo)
		total += (upper - lower) * b.rate
		lower = b.upTo
	}
	return total
}

// CalculatePrivateCapitalGains computes disposal taxation for a
// property held privately (LMNP or personal regime): flat income-tax
// and social-charges rates on gains reduced by two independent
// holding-period allowance schedules, plus the surcharge on large
// gains.
func CalculatePrivateCapitalGains(p models.Property, sale SaleInput) CapitalGainsResult {
	grossGain := sale.SalePrice - p.AcquisitionPrice - p.AcquisitionCosts - sale.SaleCosts
	yearsHeld := p.YearsHeld(sale.SaleDate)

	result := CapitalGainsResult{
		Regime:                 models.RegimeLMNP,
		GrossGain:              grossGain,
		YearsHeld:              yearsHeld,
		IncomeTaxAllowanceRate: incomeTaxAllowance(yearsHeld),
		SocialAllowanceRate:    socialAllowance(yearsHeld),
	}

	if grossGain > 0 {
		result.TaxableGainIncomeTax = grossGain * (1 - result.IncomeTaxAllowanceRate)
		result.TaxableGainSocial = grossGain * (1 - result.SocialAllowanceRate)
		result.IncomeTaxDue = result.TaxableGainIncomeTax * incomeTaxRate
		result.SocialChargesDue = result.TaxableGainSocial * socialChargesRate
		result.Surcharge = surcharge(result.TaxableGainIncomeTax)
	}

	result.TotalTax = result.IncomeTaxDue + result.SocialChargesDue + result.Surcharge
	result.NetProceeds = sale.SalePrice - sale.SaleCosts - result.TotalTax
	return result
}

// CalculateCorporateCapitalGains computes disposal taxation under the
// corporate regime: the gain is measured against book value
// (acquisition cost less accumulated depreciation) and taxed at the
// standard corporate rate with no holding-period allowance. Pass zero
// accumulated depreciation when the history is unavailable.
func CalculateCorporateCapitalGains(p models.Property, sale SaleInput, accumulatedDepreciation float64, settings models.SCIISSettings) CapitalGainsResult {
	bookValue := p.AcquisitionPrice + p.AcquisitionCosts - accumulatedDepreciation
	if bookValue < 0 {
		bookValue = 0
	}
	grossGain := sale.SalePrice - sale.SaleCosts - bookValue

	result := CapitalGainsResult{
		Regime:    models.RegimeSCIIS,
		GrossGain: grossGain,
		YearsHeld: p.YearsHeld(sale.SaleDate),
	}

	if grossGain > 0 {
		result.TaxableGainIncomeTax = grossGain
		result.IncomeTaxDue = grossGain * settings.StandardRate
	}

	result.TotalTax = result.IncomeTaxDue
	result.NetProceeds = sale.SalePrice - sale.SaleCosts - result.TotalTax
	return result
}
