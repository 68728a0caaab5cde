package hazard

import "math/rand"

// NoArrival is returned when the process never fires: the accumulated area
// under the layer runs out with a final rate of zero.
const NoArrival = -1

// NextArrival samples the first arrival time of an inhomogeneous Poisson
// process whose intensity is the given layer, measured from time 0. Breakpoints
// at x <= 0 contribute no area; they only set the rate active at 0.
//
// The draw inverts the integrated intensity: take E ~ Exp(1), then walk the
// step function left to right subtracting rate*width per interval until E is
// exhausted, and interpolate inside the final interval.
func NextArrival(l Layer, rng *rand.Rand) float64 {
	l.Validate()

	remaining := rng.ExpFloat64()
	t := 0.0
	rate := l[0].Y

	for _, c := range l {
		if c.X <= 0 {
			rate = c.Y
			continue
		}

		remaining -= (c.X - t) * rate
		if remaining < 0 {
			// Overshot: the arrival lies inside the interval ending here.
			remaining += (c.X - t) * rate
			break
		}
		t = c.X
		rate = c.Y
	}

	if rate == 0 {
		return NoArrival
	}
	return t + remaining/rate
}
