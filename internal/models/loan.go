package models

import (
	"time"
)

// Loan represents a mortgage attached to exactly one property.
// Balance amortizes monotonically down to zero at term.
type Loan struct {
	ID             int64     `json:"id"`
	PropertyID     int64     `json:"property_id"`
	Principal      float64   `json:"principal"`
	AnnualRate     float64   `json:"annual_rate"`
	TermMonths     int       `json:"term_months"`
	StartDate      time.Time `json:"start_date"`
	CurrentBalance float64   `json:"current_balance"`
	MonthlyPayment float64   `json:"monthly_payment"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PaymentsCompleted returns how many monthly payments have elapsed
// between the loan start date and the given date, capped to the term.
func (l *Loan) PaymentsCompleted(at time.Time) int {
	if at.Before(l.StartDate) {
		return 0
	}
	months := (at.Year()-l.StartDate.Year())*12 + int(at.Month()) - int(l.StartDate.Month())
	if months > l.TermMonths {
		return l.TermMonths
	}
	if months < 0 {
		return 0
	}
	return months
}

// RemainingTermMonths returns the number of payments left as of the
// given date.
func (l *Loan) RemainingTermMonths(at time.Time) int {
	return l.TermMonths - l.PaymentsCompleted(at)
}

// AnnualDebtService returns the yearly cash outflow for the loan.
func (l *Loan) AnnualDebtService() float64 {
	return l.MonthlyPayment * 12
}
