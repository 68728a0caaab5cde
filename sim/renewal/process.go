// Package renewal produces the times at which a person starts new
// relationships. A stationary auto-induced arrival process supplies unit
// arrivals; an age-dependent rate curve warps them onto the person's sexual
// career.
package renewal

import (
	"math"
	"math/rand"
)

// Process is a stationary auto-induced arrival process: a renewal process
// whose instantaneous rate is a weighted blend of a constant mean and two
// exponentially decayed running means of its own past arrivals (a short and a
// long history kernel). Each inter-arrival is exponential at the rate in
// force when it begins.
type Process struct {
	average    float64 // long-run mean rate (arrivals per day)
	wAverage   float64
	wShort     float64
	wLong      float64
	shortDecay float64 // per day
	longDecay  float64 // per day

	shortHist float64 // decayed running arrival-rate estimate, short kernel
	longHist  float64 // same, long kernel

	rng *rand.Rand
}

// NewProcess builds a process and warms its history with prearrivals draws so
// that it is approximately stationary from the first observed arrival.
// Weights must sum to 1.
func NewProcess(average, wAverage, wShort, wLong, shortDecay, longDecay float64,
	prearrivals int, seed int64) *Process {
	if math.Abs(wAverage+wShort+wLong-1) > 1e-9 {
		panic("renewal: stationary process weights must sum to 1")
	}
	if average <= 0 {
		panic("renewal: stationary process average rate must be positive")
	}
	p := &Process{
		average:    average,
		wAverage:   wAverage,
		wShort:     wShort,
		wLong:      wLong,
		shortDecay: shortDecay,
		longDecay:  longDecay,
		// Start both kernels at the stationary mean so the warm-up only
		// has to mix in realized history.
		shortHist: average,
		longHist:  average,
		rng:       rand.New(rand.NewSource(seed)),
	}
	for i := 0; i < prearrivals; i++ {
		p.NextArrival()
	}
	return p
}

// AverageRate returns the configured long-run mean rate.
func (p *Process) AverageRate() float64 {
	return p.average
}

// NextArrival returns the next inter-arrival time in days. The sequence of
// cumulative sums is lazy, infinite and non-decreasing.
func (p *Process) NextArrival() float64 {
	rate := p.wAverage*p.average + p.wShort*p.shortHist + p.wLong*p.longHist
	dt := p.rng.ExpFloat64() / rate
	// Register the arrival that opened this gap, then decay both history
	// kernels over the gap. Each arrival contributes its decay rate, but
	// only from the gap after its own on, so an arrival never raises the
	// rate of the gap it opens.
	p.shortHist = (p.shortHist + p.shortDecay) * math.Exp(-p.shortDecay*dt)
	p.longHist = (p.longHist + p.longDecay) * math.Exp(-p.longDecay*dt)
	return dt
}

// Generator stamps out independent processes that share one warm-up. Warming
// a process takes prearrivals exponential draws; doing that per person would
// dominate populate time, so the generator warms a single prototype and every
// Spawn copies the prototype's history with a freshly seeded RNG.
type Generator struct {
	proto *Process
}

// NewGenerator warms the shared prototype.
func NewGenerator(average, wAverage, wShort, wLong, shortDecay, longDecay float64,
	prearrivals int, seed int64) *Generator {
	return &Generator{
		proto: NewProcess(average, wAverage, wShort, wLong, shortDecay, longDecay,
			prearrivals, seed),
	}
}

// Spawn returns a new process carrying the warmed history and its own RNG.
func (g *Generator) Spawn(seed int64) *Process {
	clone := *g.proto
	clone.rng = rand.New(rand.NewSource(seed))
	return &clone
}
