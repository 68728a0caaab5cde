// Package duration decides how long a relation lasts. The duration is coupled
// to the time until the person's next relation: under full monogamy a short
// gap forces a short relation, under full concurrency the two are
// independent.
package duration

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/stinet-sim/stinet-sim/sim/params"
)

// Sampler turns an inter-relation time into a relation duration in days.
//
// Pipeline: estimate the percentile of the inter-relation time against all
// previously seen ones, blend that percentile with a fresh uniform draw using
// the monogamy weight, and push the blended percentile through the inverse
// CDF of the configured gamma distribution.
type Sampler struct {
	quantiles quantileTracker
	blend     association
	gamma     distuv.Gamma
	rng       *rand.Rand
}

// NewSampler validates the duration parameters and builds the sampler. The
// gamma is parameterized by mean and variance, which requires variance <=
// mean^2 for a positive-shape distribution.
func NewSampler(rd params.RelationDuration, seed int64) *Sampler {
	if rd.Distribution != "gamma" {
		panic("duration: only the gamma duration distribution is supported")
	}
	if rd.Variance > rd.Mean*rd.Mean {
		panic("duration: variance must not exceed mean^2")
	}
	if rd.Monogamy < 0 || rd.Monogamy > 1 {
		panic("duration: monogamy must lie in [0, 1]")
	}
	return &Sampler{
		blend: newAssociation([]float64{1 - rd.Monogamy, rd.Monogamy}),
		gamma: distuv.Gamma{
			Alpha: rd.Mean * rd.Mean / rd.Variance, // shape
			Beta:  rd.Mean / rd.Variance,           // rate = 1/scale
		},
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Sample returns the duration in whole days for a relation whose owner waits
// interRelationTime days for the one after it. Durations are truncated, so 0
// is possible; rounding up instead would underrepresent the shortest bin.
func (s *Sampler) Sample(interRelationTime int) int {
	lower, upper := s.quantiles.LowerUpper(interRelationTime)

	// Duplicate values map to a percentile range; pick inside it at random
	// when the range is wide enough to matter.
	percentile := lower
	if upper-lower > 0.001 {
		percentile = lower + (upper-lower)*s.rng.Float64()
	}

	blended := s.blend.Combine(s.rng.Float64(), percentile)
	return int(s.gamma.Quantile(blended))
}
