package loan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyPayment(t *testing.T) {
	t.Run("standard annuity", func(t *testing.T) {
		// 100000 at 6% over 30 years: the textbook 599.55.
		payment := MonthlyPayment(100000, 0.06, 360)
		assert.InDelta(t, 599.55, payment, 0.01)
	})

	t.Run("zero rate splits evenly", func(t *testing.T) {
		assert.InDelta(t, 1000.0, MonthlyPayment(100000, 0, 100), 1e-9)
	})

	t.Run("degenerate inputs yield zero", func(t *testing.T) {
		assert.Zero(t, MonthlyPayment(0, 0.03, 240))
		assert.Zero(t, MonthlyPayment(100000, 0.03, 0))
		assert.Zero(t, MonthlyPayment(-5, 0.03, 240))
	})
}

func TestAmortizationSchedule(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	schedule := AmortizationSchedule(200000, 0.035, 240, start)

	require.Len(t, schedule, 240)

	first := schedule[0]
	assert.Equal(t, 1, first.Period)
	assert.Equal(t, start.AddDate(0, 1, 0), first.DueDate)
	// First-month interest: 200000 x 0.035/12.
	assert.Equal(t, "583.33", first.Interest.StringFixed(2))

	last := schedule[239]
	assert.True(t, last.RemainingBalance.IsZero(), "balance must land exactly on zero")
	// The final row absorbs rounding so cumulative principal equals the
	// borrowed amount to the cent.
	assert.Equal(t, "200000.00", last.CumulativePrincipal.StringFixed(2))

	// Balance decreases monotonically.
	for i := 1; i < len(schedule); i++ {
		assert.True(t, schedule[i].RemainingBalance.LessThanOrEqual(schedule[i-1].RemainingBalance),
			"balance increased at period %d", schedule[i].Period)
	}
}

func TestAmortizationSchedule_EmptyOnDegenerateInputs(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.Nil(t, AmortizationSchedule(0, 0.03, 240, start))
	assert.Nil(t, AmortizationSchedule(100000, 0.03, 0, start))
}

func TestRemainingBalance(t *testing.T) {
	t.Run("boundaries", func(t *testing.T) {
		assert.Equal(t, 100000.0, RemainingBalance(100000, 0.04, 240, 0))
		assert.Zero(t, RemainingBalance(100000, 0.04, 240, 240))
		assert.Zero(t, RemainingBalance(100000, 0.04, 240, 300))
	})

	t.Run("zero rate amortizes linearly", func(t *testing.T) {
		assert.InDelta(t, 600.0, RemainingBalance(1200, 0, 12, 6), 1e-9)
	})

	t.Run("closed form matches the schedule", func(t *testing.T) {
		principal, rate, term := 150000.0, 0.042, 300
		start := time.Date(2020, time.June, 1, 0, 0, 0, 0, time.UTC)
		schedule := AmortizationSchedule(principal, rate, term, start)

		for _, k := range []int{12, 60, 150, 299} {
			fromSchedule := schedule[k-1].RemainingBalance.InexactFloat64()
			closedForm := RemainingBalance(principal, rate, term, k)
			assert.InDelta(t, fromSchedule, closedForm, 1.0, "after %d payments", k)
		}
	})
}

func TestTotalInterest(t *testing.T) {
	// 100000 at 6% over 30 years: 360 x 599.55 - 100000.
	total := TotalInterest(100000, 0.06, 360)
	assert.InDelta(t, 115838.19, total, 1.0)

	assert.Zero(t, TotalInterest(0, 0.06, 360))
	assert.Zero(t, TotalInterest(100000, 0, 100))
}
