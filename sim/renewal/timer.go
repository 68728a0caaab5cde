package renewal

import (
	"math"

	"github.com/stinet-sim/stinet-sim/sim/params"
)

// Never is the sentinel returned once a person will start no further
// relationships in their sexual career. Callers must test for it before doing
// day arithmetic.
const Never = math.MaxInt32

// Timer yields, for one person, the non-decreasing sequence of ages (in days
// since birth) at which that person starts a new relationship. It runs the
// stationary process at unit pace and inverts the integrated age-rate curve
// to warp each cumulative arrival onto the person's career.
type Timer struct {
	process   *Process
	curve     AgeRateCurve
	onsetDays float64
	stopDays  float64

	totalStatTime float64
}

// NewTimer wires a (typically Generator-spawned) process to the fitted curve.
func NewTimer(pf params.PartnerFormation, process *Process) *Timer {
	return &Timer{
		process:   process,
		curve:     NewAgeRateCurve(pf),
		onsetDays: pf.SexualOnsetDays(),
		stopDays:  pf.SexualStopDays(),
	}
}

// Next returns the age in whole days (truncated) at which the next
// relationship starts, or Never. Calling repeatedly may yield the same day
// more than once; that is how multiple same-day relationships arise.
func (t *Timer) Next() int {
	gap := t.process.NextArrival()
	if gap < 0 {
		panic("renewal: stationary process produced a negative arrival")
	}
	t.totalStatTime += gap

	age := t.invert(t.totalStatTime)
	if age < 0 {
		return Never
	}
	return int(age)
}

// f is the Newton-Raphson objective: the integrated age-rate curve from onset
// to the guess, minus the stationary time converted to unit pace, is zero at
// the warped arrival age.
func (t *Timer) f(guess, statTime float64) float64 {
	return t.curve.Primitive(guess) - t.curve.Primitive(t.onsetDays) -
		statTime*t.process.AverageRate()
}

// invert solves f(age) = 0 for the given cumulative stationary time. Returns
// -1 when the solution would fall at or beyond the end of the career.
func (t *Timer) invert(statTime float64) float64 {
	estimate := t.onsetDays + (t.stopDays-t.onsetDays)/2

	correction := math.MaxFloat64
	for math.Abs(correction) > 0.1 {
		previous := estimate
		estimate -= t.f(estimate, statTime) / t.curve.Rate(estimate)

		// Clamp away from the career bounds to keep the iteration stable:
		// the rate can vanish at the endpoints.
		if estimate >= t.stopDays-1 {
			estimate = t.stopDays - 1
		}
		if estimate <= t.onsetDays+1 {
			estimate = t.onsetDays + 1
		}
		correction = estimate - previous
	}

	if estimate >= t.stopDays-1 {
		return -1 // no more relationships this lifetime
	}
	return estimate
}
