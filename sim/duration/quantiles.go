package duration

import "sort"

// maxQuantileSamples caps the tracker's database: beyond this the empirical
// distribution is considered settled and new values no longer update it.
const maxQuantileSamples = 100000

// quantileTracker is an online empirical-percentile estimator. Feed it values
// one by one and it reports, for each, the estimated fraction of all previous
// values lying below it. The first calls are necessarily inaccurate.
type quantileTracker struct {
	samples []int // kept sorted
}

// LowerUpper returns conservative lower and upper percentile bounds for value
// and records it. Two bounds are needed because of duplicates: in
// {0,0,0,0,1}, a new 0 could rank anywhere among the existing zeros.
//
// With n samples there are n+1 insertion positions; position k maps to
// percentile (k+0.5)/(n+1) so that neither 0 nor 1 is ever reported.
func (q *quantileTracker) LowerUpper(value int) (float64, float64) {
	positions := float64(len(q.samples) + 1)
	lo := sort.SearchInts(q.samples, value)
	hi := sort.Search(len(q.samples), func(i int) bool { return q.samples[i] > value })

	lower := (float64(lo) + 0.5) / positions
	upper := (float64(hi) + 0.5) / positions

	if len(q.samples) < maxQuantileSamples {
		q.samples = append(q.samples, 0)
		copy(q.samples[hi+1:], q.samples[hi:])
		q.samples[hi] = value
	}
	return lower, upper
}
