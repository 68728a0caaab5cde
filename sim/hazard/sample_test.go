package hazard

import (
	"math"
	"math/rand"
	"testing"
)

func TestNextArrival_ConstantRate_MatchesExponentialMean(t *testing.T) {
	// GIVEN a constant rate lambda
	const lambda = 0.25
	layer := Layer{{0, lambda}}
	rng := rand.New(rand.NewSource(7))

	// WHEN drawing many arrivals
	const n = 1000000
	sum := 0.0
	for i := 0; i < n; i++ {
		v := NextArrival(layer, rng)
		if v < 0 {
			t.Fatalf("constant positive rate returned no arrival")
		}
		sum += v
	}

	// THEN the empirical mean approaches 1/lambda within 1%
	mean := sum / n
	if math.Abs(mean-1/lambda) > 0.01/lambda {
		t.Errorf("mean arrival: got %v, want %v within 1%%", mean, 1/lambda)
	}
}

func TestNextArrival_ZeroRate_NeverFires(t *testing.T) {
	// GIVEN a rate of zero everywhere
	layer := Layer{{0, 0}}
	rng := rand.New(rand.NewSource(1))

	// THEN every draw reports no arrival
	for i := 0; i < 100; i++ {
		if got := NextArrival(layer, rng); got != NoArrival {
			t.Fatalf("zero layer: got %v, want %v", got, NoArrival)
		}
	}
}

func TestNextArrival_TruncatedRate_InWindowOrNever(t *testing.T) {
	// GIVEN rate 2 on [0,10] and 0 after
	layer := Layer{{0, 2}, {10, 0}}
	rng := rand.New(rand.NewSource(99))

	// WHEN drawing many arrivals
	misses := 0
	const n = 200000
	for i := 0; i < n; i++ {
		v := NextArrival(layer, rng)
		if v == NoArrival {
			misses++
			continue
		}
		// THEN every arrival lands inside the active window
		if v < 0 || v > 10 {
			t.Fatalf("arrival outside [0,10]: %v", v)
		}
	}

	// AND the no-arrival probability is exp(-20), effectively zero here
	if misses > 1 {
		t.Errorf("%d misses, want about exp(-20) of %d", misses, n)
	}
}

func TestNextArrival_NegativeCoordinatesOnlySetTheRate(t *testing.T) {
	// GIVEN history before t=0 that ends at rate 1
	layer := Layer{{-100, 50}, {-1, 1}}
	rng := rand.New(rand.NewSource(3))

	// WHEN drawing many arrivals
	const n = 200000
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += NextArrival(layer, rng)
	}

	// THEN the x<=0 area contributed nothing: the mean matches rate 1
	mean := sum / n
	if math.Abs(mean-1) > 0.02 {
		t.Errorf("mean arrival: got %v, want 1 (pre-zero area must not count)", mean)
	}
}
