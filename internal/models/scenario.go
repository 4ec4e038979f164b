package models

import (
	"time"
)

// EventType identifies a scenario life-cycle event.
type EventType string

const (
	EventAcquisition      EventType = "acquisition"
	EventDisposal         EventType = "disposal"
	EventRentIncrease     EventType = "rent_increase"
	EventRefinancing      EventType = "refinancing"
	EventRenovation       EventType = "renovation"
	EventMarketAdjustment EventType = "market_adjustment"
)

// AcquisitionPayload describes a property purchase added to the
// projection: recurring value, debt, income and expenses from the
// trigger year onward.
type AcquisitionPayload struct {
	Price          float64 `json:"price"`
	DownPayment    float64 `json:"down_payment"`
	LoanPrincipal  float64 `json:"loan_principal"`
	LoanAnnualRate float64 `json:"loan_annual_rate"`
	LoanTermMonths int     `json:"loan_term_months"`
	MonthlyRent    float64 `json:"monthly_rent"`
	AnnualExpenses float64 `json:"annual_expenses"`
}

// DisposalPayload describes a sale: a one-time net-proceeds injection
// in the trigger year and removal of the property's recurring
// contributions thereafter.
type DisposalPayload struct {
	NetProceeds    float64 `json:"net_proceeds"`
	PropertyValue  float64 `json:"property_value"`
	RemainingDebt  float64 `json:"remaining_debt"`
	AnnualIncome   float64 `json:"annual_income"`
	AnnualExpenses float64 `json:"annual_expenses"`
	FinancingCost  float64 `json:"financing_cost"`
}

// RentIncreasePayload boosts projected income proportionally from the
// trigger year onward.
type RentIncreasePayload struct {
	Percent float64 `json:"percent"`
}

// RefinancingPayload applies a one-time closing cost in the trigger
// year and lowers the ongoing financing cost by the rate delta applied
// to the refinanced balance.
type RefinancingPayload struct {
	Balance      float64 `json:"balance"`
	RateDelta    float64 `json:"rate_delta"`
	ClosingCosts float64 `json:"closing_costs"`
}

// RenovationPayload applies a one-time cost in the trigger year and a
// permanent value and rent uplift thereafter.
type RenovationPayload struct {
	Cost             float64 `json:"cost"`
	ValueUplift      float64 `json:"value_uplift"`
	AnnualRentUplift float64 `json:"annual_rent_uplift"`
}

// MarketAdjustmentPayload shifts projected value and rent by a
// percentage from the trigger year onward.
type MarketAdjustmentPayload struct {
	ValueShiftPercent float64 `json:"value_shift_percent"`
	RentShiftPercent  float64 `json:"rent_shift_percent"`
}

// ScenarioEvent is a dated life-cycle action applied to a projection.
// Exactly one payload matching the type is expected to be set; events
// with a missing payload are skipped by the engine.
type ScenarioEvent struct {
	Type             EventType                `json:"type"`
	Date             time.Time                `json:"date"`
	Acquisition      *AcquisitionPayload      `json:"acquisition,omitempty"`
	Disposal         *DisposalPayload         `json:"disposal,omitempty"`
	RentIncrease     *RentIncreasePayload     `json:"rent_increase,omitempty"`
	Refinancing      *RefinancingPayload      `json:"refinancing,omitempty"`
	Renovation       *RenovationPayload       `json:"renovation,omitempty"`
	MarketAdjustment *MarketAdjustmentPayload `json:"market_adjustment,omitempty"`
}

// GrowthAssumptions are the independent annual rates used to
// extrapolate the baseline projection.
type GrowthAssumptions struct {
	AppreciationRate     float64 `json:"appreciation_rate"`
	RentGrowthRate       float64 `json:"rent_growth_rate"`
	ExpenseInflationRate float64 `json:"expense_inflation_rate"`
	DiscountRate         float64 `json:"discount_rate"`
}

// Scenario is a named multi-year projection request over the current
// portfolio. It is the one record the engine itself constructs and
// works on during simulation.
type Scenario struct {
	Name         string            `json:"name"`
	BaseYear     int               `json:"base_year"`
	HorizonYears int               `json:"horizon_years"`
	Assumptions  GrowthAssumptions `json:"assumptions"`
	Events       []ScenarioEvent   `json:"events"`
}
