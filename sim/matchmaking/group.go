package matchmaking

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/stinet-sim/stinet-sim/sim/params"
)

// ageDimension buckets people by age and models age preference as a normal
// distribution centered on a person's own age with a configured standard
// deviation.
type ageDimension struct {
	lower []float64 // group lower bounds, excluding (except the first group's)
	upper []float64 // group upper bounds, including
	pref  distuv.Normal
}

func newAgeDimension(groups []params.AgeGroup, sd float64) ageDimension {
	d := ageDimension{pref: distuv.Normal{Mu: 0, Sigma: sd}}
	for i, g := range groups {
		if g.Lower >= g.Upper {
			panic("matchmaking: age group with non-ascending bounds")
		}
		if i > 0 && g.Lower != groups[i-1].Upper {
			panic("matchmaking: age groups must be contiguous and ascending")
		}
		d.lower = append(d.lower, g.Lower)
		d.upper = append(d.upper, g.Upper)
	}
	return d
}

func (d ageDimension) Count() int { return len(d.upper) }

func (d ageDimension) GroupOf(ageYears float64) int {
	if ageYears < d.lower[0] || ageYears > d.upper[len(d.upper)-1] {
		panic("matchmaking: age outside every age group")
	}
	return sort.SearchFloat64s(d.upper, ageYears)
}

func (d ageDimension) Name(group int) string {
	return fmt.Sprintf("%g-%g", d.lower[group], d.upper[group])
}

// probBetween is the chance that a preference centered on mean lands inside
// (lower, upper].
func (d ageDimension) probBetween(mean, lower, upper float64) float64 {
	return d.pref.CDF(upper-mean) - d.pref.CDF(lower-mean)
}

// PreferenceMatrix estimates, per age group pair (i, j), the probability that
// an unconstrained person from group i most prefers a partner from group j.
// Sampling representative ages across group i and integrating the normal
// density over group j is more faithful than collapsing each group to its
// midpoint. Rows are renormalized to absorb preference mass falling outside
// the modeled age range.
func (d ageDimension) PreferenceMatrix() [][]float64 {
	n := d.Count()
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}

	lower := d.lower[0]
	upper := d.upper[n-1]
	samples := 100 * n
	step := (upper - lower) / float64(samples)

	for age := lower + step; age < upper; age += step {
		from := d.GroupOf(age)
		for to := 0; to < n; to++ {
			matrix[from][to] += d.probBetween(age, d.lower[to], d.upper[to])
		}
	}

	for _, row := range matrix {
		sum := 0.0
		for _, cell := range row {
			sum += cell
		}
		for j := range row {
			row[j] /= sum
		}
	}
	return matrix
}

// durationDimension buckets requested durations into integer ranges; the
// preference is exact, matching only within the same group.
type durationDimension struct {
	lower []int
	upper []int // including
}

func newDurationDimension(groups []params.DurationGroup) durationDimension {
	var d durationDimension
	for i, g := range groups {
		if g.Lower > g.Upper {
			panic("matchmaking: duration group with non-ascending bounds")
		}
		if i > 0 && g.Lower != groups[i-1].Upper+1 {
			panic("matchmaking: duration groups must be contiguous and ascending")
		}
		d.lower = append(d.lower, g.Lower)
		d.upper = append(d.upper, g.Upper)
	}
	return d
}

func (d durationDimension) Count() int { return len(d.upper) }

func (d durationDimension) GroupOf(days int) int {
	if days < d.lower[0] || days > d.upper[len(d.upper)-1] {
		panic("matchmaking: duration outside every duration group")
	}
	return sort.SearchInts(d.upper, days)
}

func (d durationDimension) Name(group int) string {
	return fmt.Sprintf("%d-%d", d.lower[group], d.upper[group])
}

func (d durationDimension) PreferenceMatrix() [][]float64 {
	n := d.Count()
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		matrix[i][i] = 1
	}
	return matrix
}

// GroupHandler maps (age, requested duration) to a flat group index and
// combines the per-dimension preferences, assumed independent, into the joint
// preference matrix.
type GroupHandler struct {
	age      ageDimension
	duration durationDimension
}

func NewGroupHandler(mm params.Matchmaking) *GroupHandler {
	return &GroupHandler{
		age:      newAgeDimension(mm.AgeGroups, mm.AgeGroupPreferenceSD),
		duration: newDurationDimension(mm.DurationGroups),
	}
}

// Count returns the total number of joint groups.
func (h *GroupHandler) Count() int {
	return h.age.Count() * h.duration.Count()
}

// GroupOf flattens the two dimension indices: age-major, duration-minor.
func (h *GroupHandler) GroupOf(ageYears float64, durationDays int) int {
	return h.age.GroupOf(ageYears)*h.duration.Count() + h.duration.GroupOf(durationDays)
}

// Name describes a joint group, for reports and debugging.
func (h *GroupHandler) Name(group int) string {
	return "Age group: " + h.age.Name(group/h.duration.Count()) +
		" Duration group: " + h.duration.Name(group%h.duration.Count())
}

// PreferenceMatrix is the Kronecker product of the age and duration
// preference matrices. Every row sums to 1.
func (h *GroupHandler) PreferenceMatrix() [][]float64 {
	agePref := h.age.PreferenceMatrix()
	durPref := h.duration.PreferenceMatrix()
	nDur := h.duration.Count()
	n := h.Count()

	matrix := make([][]float64, n)
	for from := 0; from < n; from++ {
		matrix[from] = make([]float64, n)
		for to := 0; to < n; to++ {
			matrix[from][to] = agePref[from/nDur][to/nDur] * durPref[from%nDur][to%nDur]
		}
	}
	return matrix
}
