// Package kpi computes property- and portfolio-level financial ratios
// as pure reductions over property, loan and transaction snapshots.
// It is regime-agnostic: no tax rule enters these figures.
package kpi

import (
	"math"

	"github.com/avergnaud/patrimonia/api/internal/models"
)

// PropertyKPI holds the financial ratios for one property. DSCR is nil
// when annual debt service is zero: the ratio is undefined there, not
// zero.
type PropertyKPI struct {
	PropertyID              int64    `json:"property_id"`
	CurrentValue            float64  `json:"current_value"`
	AcquisitionPrice        float64  `json:"acquisition_price"`
	TotalDebt               float64  `json:"total_debt"`
	AnnualRentalIncome      float64  `json:"annual_rental_income"`
	AnnualOperatingExpenses float64  `json:"annual_operating_expenses"`
	NetOperatingIncome      float64  `json:"net_operating_income"`
	AnnualDebtService       float64  `json:"annual_debt_service"`
	AnnualCashFlow          float64  `json:"annual_cash_flow"`
	LTV                     float64  `json:"ltv"`
	DSCR                    *float64 `json:"dscr"`
	GrossYield              float64  `json:"gross_yield"`
	NetYield                float64  `json:"net_yield"`
	CapitalGainPercent      float64  `json:"capital_gain_percent"`
}

// PortfolioKPI aggregates property KPIs. Totals are the entity-wise sum
// of the property figures and ratios are recomputed from those sums, so
// portfolio debt always equals the sum of property debts.
type PortfolioKPI struct {
	PropertyCount           int           `json:"property_count"`
	TotalValue              float64       `json:"total_value"`
	TotalAcquisitionPrice   float64       `json:"total_acquisition_price"`
	TotalDebt               float64       `json:"total_debt"`
	TotalRentalIncome       float64       `json:"total_rental_income"`
	TotalOperatingExpenses  float64       `json:"total_operating_expenses"`
	NetOperatingIncome      float64       `json:"net_operating_income"`
	TotalDebtService        float64       `json:"total_debt_service"`
	AnnualCashFlow          float64       `json:"annual_cash_flow"`
	LTV                     float64       `json:"ltv"`
	DSCR                    *float64      `json:"dscr"`
	GrossYield              float64       `json:"gross_yield"`
	NetYield                float64       `json:"net_yield"`
	CapitalGainPercent      float64       `json:"capital_gain_percent"`
	WeightedAverageLoanRate float64       `json:"weighted_average_loan_rate"`
	Properties              []PropertyKPI `json:"properties"`
}

// ratio divides safely, clamping to zero when the denominator is not
// positive.
func ratio(numerator, denominator float64) float64 {
	if denominator <= 0 {
		return 0
	}
	return numerator / denominator
}

// ComputePropertyKPI reduces one property's loans and the given year's
// transactions to its financial ratios.
func ComputePropertyKPI(p models.Property, loans []models.Loan, txs []models.Transaction, year int) PropertyKPI {
	out := PropertyKPI{
		PropertyID:       p.ID,
		CurrentValue:     p.CurrentValue,
		AcquisitionPrice: p.AcquisitionPrice,
	}

	for _, l := range loans {
		if l.PropertyID != p.ID {
			continue
		}
		out.TotalDebt += l.CurrentBalance
		out.AnnualDebtService += l.AnnualDebtService()
	}

	for _, tx := range models.FilterTransactions(txs, p.ID, year) {
		switch {
		case tx.IsIncome():
			out.AnnualRentalIncome += math.Abs(tx.Amount)
		case tx.IsExpense():
			out.AnnualOperatingExpenses += math.Abs(tx.Amount)
		}
	}

	out.NetOperatingIncome = out.AnnualRentalIncome - out.AnnualOperatingExpenses
	out.AnnualCashFlow = out.NetOperatingIncome - out.AnnualDebtService
	out.LTV = ratio(out.TotalDebt, p.CurrentValue)
	out.GrossYield = ratio(out.AnnualRentalIncome, p.CurrentValue)
	out.NetYield = ratio(out.NetOperatingIncome, p.CurrentValue)
	out.CapitalGainPercent = ratio(p.CurrentValue-p.AcquisitionPrice, p.AcquisitionPrice)

	if out.AnnualDebtService > 0 {
		dscr := out.NetOperatingIncome / out.AnnualDebtService
		out.DSCR = &dscr
	}

	return out
}

// ComputePortfolioKPI aggregates per-property KPIs for the whole
// snapshot and recomputes the portfolio ratios from the summed totals.
func ComputePortfolioKPI(properties []models.Property, loans []models.Loan, txs []models.Transaction, year int) PortfolioKPI {
	out := PortfolioKPI{
		PropertyCount: len(properties),
		Properties:    make([]PropertyKPI, 0, len(properties)),
	}

	for _, p := range properties {
		pk := ComputePropertyKPI(p, loans, txs, year)
		out.Properties = append(out.Properties, pk)

		out.TotalValue += pk.CurrentValue
		out.TotalAcquisitionPrice += pk.AcquisitionPrice
		out.TotalDebt += pk.TotalDebt
		out.TotalRentalIncome += pk.AnnualRentalIncome
		out.TotalOperatingExpenses += pk.AnnualOperatingExpenses
		out.TotalDebtService += pk.AnnualDebtService
	}

	out.NetOperatingIncome = out.TotalRentalIncome - out.TotalOperatingExpenses
	out.AnnualCashFlow = out.NetOperatingIncome - out.TotalDebtService
	out.LTV = ratio(out.TotalDebt, out.TotalValue)
	out.GrossYield = ratio(out.TotalRentalIncome, out.TotalValue)
	out.NetYield = ratio(out.NetOperatingIncome, out.TotalValue)
	out.CapitalGainPercent = ratio(out.TotalValue-out.TotalAcquisitionPrice, out.TotalAcquisitionPrice)
	out.WeightedAverageLoanRate = weightedAverageRate(loans)

	if out.TotalDebtService > 0 {
		dscr := out.NetOperatingIncome / out.TotalDebtService
		out.DSCR = &dscr
	}

	return out
}

// weightedAverageRate averages the annual rate of active loans weighted
// by current balance.
func weightedAverageRate(loans []models.Loan) float64 {
	var weighted, totalBalance float64
	for _, l := range loans {
		if l.CurrentBalance <= 0 {
			continue
		}
		weighted += l.AnnualRate * l.CurrentBalance
		totalBalance += l.CurrentBalance
	}
	return ratio(weighted, totalBalance)
}
