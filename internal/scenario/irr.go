package scenario

import (
	"math"
)

// IRR solver parameters: Newton-Raphson from a 10% guess with a
// bounded bisection fallback for pathological series.
const (
	irrInitialGuess  = 0.10
	irrMaxIterations = 100
	irrTolerance     = 0.0001

	bisectionLow  = -0.99
	bisectionHigh = 10.0
)

// npv evaluates the net present value of the cash-flow series at the
// given rate, with flows[0] at time zero.
func npv(flows []float64, rate float64) float64 {
	var total float64
	for i, cf := range flows {
		total += cf / math.Pow(1+rate, float64(i))
	}
	return total
}

// npvDerivative evaluates d(NPV)/d(rate).
func npvDerivative(flows []float64, rate float64) float64 {
	var total float64
	for i, cf := range flows {
		if i == 0 {
			continue
		}
		total -= float64(i) * cf / math.Pow(1+rate, float64(i+1))
	}
	return total
}

// IRR solves for the internal rate of return of the cash-flow series.
// Newton-Raphson runs first; when it fails to converge (or diverges out
// of range) a bisection bounded to [-99%, 1000%] takes over, provided
// the NPV changes sign across that bracket. The second return value is
// false when neither method converges; callers must treat the zero rate
// as undetermined, not as an actual 0% return. Degenerate series (all
// flows the same sign) never converge.
func IRR(flows []float64) (float64, bool) {
	if len(flows) < 2 {
		return 0, false
	}

	rate := irrInitialGuess
	for i := 0; i < irrMaxIterations; i++ {
		value := npv(flows, rate)
		derivative := npvDerivative(flows, rate)
		if derivative == 0 {
			break
		}
		next := rate - value/derivative
		if next <= -1 {
			// Out of the domain of (1+r)^n; hand over to bisection.
			break
		}
		if math.Abs(next-rate) < irrTolerance {
			return next, true
		}
		rate = next
	}

	return bisectIRR(flows)
}

// bisectIRR finds a sign change of the NPV across the bounded rate
// range and halves the bracket until the rate converges.
func bisectIRR(flows []float64) (float64, bool) {
	low, high := bisectionLow, bisectionHigh
	npvLow := npv(flows, low)
	npvHigh := npv(flows, high)

	if npvLow*npvHigh > 0 {
		return 0, false
	}

	for i := 0; i < irrMaxIterations; i++ {
		mid := (low + high) / 2
		npvMid := npv(flows, mid)

		if high-low < irrTolerance {
			return mid, true
		}

		if npvLow*npvMid <= 0 {
			high = mid
		} else {
			low = mid
			npvLow = npvMid
		}
	}

	return 0, false
}
