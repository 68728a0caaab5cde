package matchmaking

// RobustnessController bounds the priority backlog. If a group keeps failing
// to match, its priority queue grows without limit and priority scheduling
// starts to dominate, which is bad for both speed and accuracy. The
// controller tracks a decayed average of each group's excess over a target
// priority/normal ratio and advises removing that average, spread over time.
//
// In a well-specified run the advised removals stay under 0.1% of requests;
// anything more means the implied group sizes or the choice matrix are off.
type RobustnessController struct {
	nGroups   int
	goalRatio float64   // priority queue may hold up to this fraction of normal
	excessAvg []float64 // decayed average excess per group
	carry     []float64 // fractional removals carried to future days
	weight    taperingWeight
	nUpdates  int
}

// NewRobustnessController builds a controller for the given group count and
// priority/normal goal ratio.
func NewRobustnessController(nGroups int, goalRatio float64) *RobustnessController {
	return &RobustnessController{
		nGroups:   nGroups,
		goalRatio: goalRatio,
		excessAvg: make([]float64, nGroups),
		carry:     make([]float64, nGroups),
		weight:    taperingWeight{floor: 0.01},
	}
}

// Advise folds today's queue sizes into the running excess averages and
// returns how many requests to drop from each group's priority queue. The
// advice is bounded so at least 10 requests always remain, and fractional
// remainders accumulate toward future days.
func (r *RobustnessController) Advise(normal, priority []int) []int {
	r.nUpdates++
	w := r.weight.Weight(r.nUpdates)
	advice := make([]int, r.nGroups)
	for i := 0; i < r.nGroups; i++ {
		excess := float64(priority[i]) - float64(normal[i])*r.goalRatio
		if excess < 0 {
			excess = 0
		}
		r.excessAvg[i] = w*excess + (1-w)*r.excessAvg[i]

		r.carry[i] += r.excessAvg[i] / 1000
		advice[i] = int(r.carry[i])
		if advice[i] > priority[i]-10 {
			advice[i] = priority[i] - 10
			if advice[i] < 0 {
				advice[i] = 0
			}
		}
		r.carry[i] -= float64(advice[i])
	}
	return advice
}
