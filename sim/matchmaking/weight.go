package matchmaking

// taperingWeight yields the mixing weight for the n-th update of a running
// estimate. Early updates behave like a plain running average (weight 1/n),
// so the estimate converges fast from nothing; once 1/n drops below the
// configured floor the weight stays there, keeping the estimate responsive to
// slow drift forever after.
type taperingWeight struct {
	floor float64
}

// Weight returns the weight for update number n (1-based).
func (w taperingWeight) Weight(n int) float64 {
	if n < 1 {
		panic("matchmaking: tapering weight updates are counted from 1")
	}
	running := 1.0 / float64(n)
	if running > w.floor {
		return running
	}
	return w.floor
}
