package matchmaking

import (
	"fmt"
	"math"

	"github.com/stinet-sim/stinet-sim/sim/params"
)

// PartnerChoiceMatrix turns the preference matrix (what people would like)
// into the partner-choice matrix (what the population actually allows): a
// row-stochastic matrix C with column mass consistent with the running group
// proportions, sum_i pi_i*C[i][j] = pi_j for every j. Everyone who gets a
// relation gets it with someone, and nobody can be matched more often than
// their group exists.
type PartnerChoiceMatrix struct {
	preference [][]float64
	nGroups    int

	proportions     []float64 // running estimate pi of group shares
	proportionsUsed []float64 // pi as of the last solve
	weight          taperingWeight
	iterations      int
	tolerance       float64

	nUpdates int
	nSolves  int
}

// NewPartnerChoiceMatrix checks the preference matrix and prepares the
// solver. Every preference row must sum to 1, and no column may be all zero:
// a group nobody prefers cannot be balanced against its population share.
func NewPartnerChoiceMatrix(preference [][]float64, mm params.Matchmaking) *PartnerChoiceMatrix {
	n := len(preference)
	for _, row := range preference {
		sum := 0.0
		for _, cell := range row {
			sum += cell
		}
		if sum < 0.999 || sum > 1.001 {
			panic("matchmaking: preference matrix row does not sum to 1")
		}
	}
	for column := 0; column < n; column++ {
		sum := 0.0
		for row := 0; row < n; row++ {
			sum += preference[row][column]
		}
		if sum == 0 {
			panic("matchmaking: preference matrix has a group nobody prefers")
		}
	}
	return &PartnerChoiceMatrix{
		preference:      preference,
		nGroups:         n,
		proportions:     make([]float64, n),
		proportionsUsed: make([]float64, n),
		weight:          taperingWeight{floor: mm.WeightNewDatabaseUpdate},
		iterations:      mm.NRelationMatrixIterations,
		tolerance:       mm.GroupEstimateErrorTolerance,
	}
}

// Update mixes today's observed group counts into the running proportion
// estimate with the tapering weight. A day with no requests leaves the
// estimate untouched.
func (m *PartnerChoiceMatrix) Update(countPerGroup []int) {
	m.nUpdates++

	total := 0
	for _, c := range countPerGroup {
		total += c
	}
	if total == 0 {
		return
	}

	w := m.weight.Weight(m.nUpdates)
	for i := 0; i < m.nGroups; i++ {
		observed := float64(countPerGroup[i]) / float64(total)
		m.proportions[i] = w*observed + (1-w)*m.proportions[i]
	}
}

// Proportion returns the current estimate for one group.
func (m *PartnerChoiceMatrix) Proportion(group int) float64 {
	return m.proportions[group]
}

// Stale reports whether the proportions have drifted more than the tolerance
// since the last solve, i.e. whether Solve would return a materially new
// matrix. Solving is expensive; callers use this to skip it.
func (m *PartnerChoiceMatrix) Stale() bool {
	worst := 0.0
	for i := range m.proportions {
		drift := math.Abs(m.proportions[i] - m.proportionsUsed[i])
		if drift > worst {
			worst = drift
		}
	}
	return worst > m.tolerance
}

// Solve computes the partner-choice matrix for the current proportions by
// iterative proportional fitting: rescale every column to its target mass,
// then every row back to 1, a fixed number of rounds. The result then gets a
// finishing pass that exploits same-sex matching (any group can absorb
// leftover demand in-group) to make the column masses exact.
func (m *PartnerChoiceMatrix) Solve() [][]float64 {
	copy(m.proportionsUsed, m.proportions)
	m.nSolves++

	n := m.nGroups
	c := make([][]float64, n)
	for i := range c {
		c[i] = append([]float64(nil), m.preference[i]...)
	}

	for iter := 0; iter < m.iterations; iter++ {
		for column := 0; column < n; column++ {
			columnMass := 0.0
			for row := 0; row < n; row++ {
				columnMass += m.proportions[row] * c[row][column]
			}
			if columnMass == 0 || m.proportions[column] == 0 {
				continue
			}
			rescale := m.proportions[column] / columnMass
			for row := 0; row < n; row++ {
				c[row][column] *= rescale
			}
		}
		for row := 0; row < n; row++ {
			rowSum := 0.0
			for column := 0; column < n; column++ {
				rowSum += c[row][column]
			}
			for column := 0; column < n; column++ {
				c[row][column] /= rowSum
			}
		}
	}

	return m.finish(c)
}

// finish enforces exact column masses. Convert C to a full relation-share
// matrix (share of all relations between i and j), cap the total so no group
// is overscheduled, then pad each diagonal so row i sums to pi_i again; the
// diagonal is always available because the population is single-sex. Finally
// renormalize rows back to a row-stochastic matrix.
func (m *PartnerChoiceMatrix) finish(c [][]float64) [][]float64 {
	n := m.nGroups
	pi := m.proportions

	full := make([][]float64, n)
	rowLoad := make([]float64, n) // row total relative to the group size
	for i := 0; i < n; i++ {
		full[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			if i == j {
				full[i][i] = pi[i] * c[i][i]
			} else {
				// The smaller side binds; an empty group must not
				// drag relations in through the other side's wishes.
				full[i][j] = math.Min(pi[i]*c[i][j], pi[j]*c[j][i])
			}
			rowLoad[i] += full[i][j] / pi[i]
		}
		if pi[i] == 0 {
			rowLoad[i] = 0
		}
	}

	worst := 0.0
	for _, load := range rowLoad {
		if load > worst {
			worst = load
		}
	}
	if worst > 0 {
		for i := range full {
			for j := range full[i] {
				full[i][j] /= worst
			}
		}
	}

	for i := 0; i < n; i++ {
		rowSum := 0.0
		for _, cell := range full[i] {
			rowSum += cell
		}
		full[i][i] += pi[i] - rowSum
	}

	for i := 0; i < n; i++ {
		rowSum := 0.0
		for _, cell := range full[i] {
			rowSum += cell
		}
		if rowSum == 0 {
			// An empty group still needs a well-formed row.
			for j := range full[i] {
				full[i][j] = 0
			}
			full[i][i] = 1
			continue
		}
		for j := range full[i] {
			full[i][j] /= rowSum
		}
	}
	return full
}

// Report summarizes solver activity. Solving is the expensive part; the solve
// count should stay low relative to updates.
func (m *PartnerChoiceMatrix) Report() string {
	return "PartnerChoiceMatrix report:\n" +
		fmt.Sprintf("Groups updated: %d\n", m.nUpdates) +
		fmt.Sprintf("PartnerMatrix updated: %d\n", m.nSolves)
}
