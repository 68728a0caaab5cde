package duration

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// association blends two uniform [0,1] values into one uniform [0,1] value
// with a controllable rank correlation, and without assuming anything about
// the marginal distributions behind the inputs (the blend happens entirely in
// percentile space).
//
// Each input is sent through the standard normal quantile, combined as a
// weighted sum renormalized to unit variance, and mapped back through the
// normal CDF. A weight vector of (0,1) reproduces the second input exactly;
// equal weights give an intermediate correlation with both.
type association struct {
	weights []float64
	norm    float64 // sqrt of the sum of squared weights
}

func newAssociation(weights []float64) association {
	sum := 0.0
	for _, w := range weights {
		if w < 0 {
			panic("duration: association weights must be non-negative")
		}
		sum += w * w
	}
	if sum == 0 {
		panic("duration: association needs at least one positive weight")
	}
	return association{weights: weights, norm: math.Sqrt(sum)}
}

// Combine maps the uniform inputs to one uniform output. Inputs are clamped
// away from 0 and 1 where the normal quantile diverges.
func (a association) Combine(values ...float64) float64 {
	if len(values) != len(a.weights) {
		panic("duration: association called with the wrong number of values")
	}
	const eps = 1e-12
	z := 0.0
	for i, v := range values {
		v = math.Min(math.Max(v, eps), 1-eps)
		z += a.weights[i] * distuv.UnitNormal.Quantile(v)
	}
	return distuv.UnitNormal.CDF(z / a.norm)
}
