package loan

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// ScheduleEntry is one monthly row of an amortization schedule.
// Monetary fields are rounded to cents; the final row absorbs the
// accumulated rounding so the balance lands exactly on zero.
type ScheduleEntry struct {
	Period              int             `json:"period"`
	DueDate             time.Time       `json:"due_date"`
	Principal           decimal.Decimal `json:"principal"`
	Interest            decimal.Decimal `json:"interest"`
	Total               decimal.Decimal `json:"total"`
	RemainingBalance    decimal.Decimal `json:"remaining_balance"`
	CumulativePrincipal decimal.Decimal `json:"cumulative_principal"`
	CumulativeInterest  decimal.Decimal `json:"cumulative_interest"`
}

// MonthlyPayment computes the fixed annuity payment
// P * r * (1+r)^n / ((1+r)^n - 1), degenerating to an even split when
// the rate is zero. Non-positive inputs yield zero.
func MonthlyPayment(principal, annualRate float64, termMonths int) float64 {
	if principal <= 0 || termMonths <= 0 {
		return 0
	}
	monthlyRate := annualRate / 12
	if monthlyRate == 0 {
		return principal / float64(termMonths)
	}
	factor := math.Pow(1+monthlyRate, float64(termMonths))
	return principal * monthlyRate * factor / (factor - 1)
}

// AmortizationSchedule produces one entry per month with the
// principal/interest split, running balance and cumulative totals.
// The power term is computed in float64 and monetary arithmetic is done
// in decimal, rounded to cents.
func AmortizationSchedule(principal, annualRate float64, termMonths int, startDate time.Time) []ScheduleEntry {
	if principal <= 0 || termMonths <= 0 {
		return nil
	}

	monthlyRate := annualRate / 12
	payment := decimal.NewFromFloat(MonthlyPayment(principal, annualRate, termMonths)).Round(2)
	monthlyRateDec := decimal.NewFromFloat(monthlyRate)

	schedule := make([]ScheduleEntry, 0, termMonths)
	remaining := decimal.NewFromFloat(principal)
	cumPrincipal := decimal.Zero
	cumInterest := decimal.Zero

	for period := 1; period <= termMonths; period++ {
		interest := remaining.Mul(monthlyRateDec).Round(2)
		principalPart := payment.Sub(interest)

		// Final month: the principal payment is forced to the
		// remaining balance to absorb rounding.
		if period == termMonths {
			principalPart = remaining
		}

		remaining = remaining.Sub(principalPart)
		if remaining.LessThan(decimal.Zero) {
			remaining = decimal.Zero
		}

		cumPrincipal = cumPrincipal.Add(principalPart)
		cumInterest = cumInterest.Add(interest)

		schedule = append(schedule, ScheduleEntry{
			Period:              period,
			DueDate:             startDate.AddDate(0, period, 0),
			Principal:           principalPart,
			Interest:            interest,
			Total:               principalPart.Add(interest),
			RemainingBalance:    remaining,
			CumulativePrincipal: cumPrincipal,
			CumulativeInterest:  cumInterest,
		})
	}

	return schedule
}

// RemainingBalance computes the closed-form balance after the given
// number of completed payments, without generating the schedule:
// B_k = P(1+r)^k - M((1+r)^k - 1)/r. A loan with paymentsCompleted at
// or past the term is fully paid off, not an error.
func RemainingBalance(principal, annualRate float64, termMonths, paymentsCompleted int) float64 {
	if principal <= 0 || termMonths <= 0 {
		return 0
	}
	if paymentsCompleted >= termMonths {
		return 0
	}
	if paymentsCompleted <= 0 {
		return principal
	}

	monthlyRate := annualRate / 12
	payment := MonthlyPayment(principal, annualRate, termMonths)
	k := float64(paymentsCompleted)

	if monthlyRate == 0 {
		return principal - payment*k
	}

	growth := math.Pow(1+monthlyRate, k)
	balance := principal*growth - payment*(growth-1)/monthlyRate
	if balance < 0 {
		return 0
	}
	return balance
}

// TotalInterest returns the interest paid over the whole term at the
// fixed annuity payment.
func TotalInterest(principal, annualRate float64, termMonths int) float64 {
	if principal <= 0 || termMonths <= 0 {
		return 0
	}
	return MonthlyPayment(principal, annualRate, termMonths)*float64(termMonths) - principal
}
