package matchmaking

import (
	"math"
	"testing"
)

func solvedChoiceMatrix(t *testing.T, counts []int) (*PartnerChoiceMatrix, [][]float64) {
	t.Helper()
	h := NewGroupHandler(testMatchmakingParams())
	m := NewPartnerChoiceMatrix(h.PreferenceMatrix(), testMatchmakingParams())
	m.Update(counts)
	return m, m.Solve()
}

func TestPartnerChoiceMatrix_RowsStochasticAndColumnMassConsistent(t *testing.T) {
	// GIVEN uneven group counts
	counts := []int{40, 10, 5, 25, 80, 3, 9, 14, 60}
	m, c := solvedChoiceMatrix(t, counts)

	n := len(c)
	for i := 0; i < n; i++ {
		rowSum := 0.0
		for j := 0; j < n; j++ {
			rowSum += c[i][j]
		}
		// THEN every row sums to 1
		if math.Abs(rowSum-1) > 1e-3 {
			t.Errorf("row %d sums to %v, want 1", i, rowSum)
		}
	}
	for j := 0; j < n; j++ {
		mass := 0.0
		for i := 0; i < n; i++ {
			mass += m.Proportion(i) * c[i][j]
		}
		// AND the column mass equals the group's proportion
		if math.Abs(mass-m.Proportion(j)) > 1e-3 {
			t.Errorf("column %d mass %v, want %v", j, mass, m.Proportion(j))
		}
	}
}

func TestPartnerChoiceMatrix_EmptyGroupStaysWellFormed(t *testing.T) {
	// GIVEN a group with nobody in it
	counts := []int{40, 0, 5, 25, 80, 0, 9, 14, 60}
	_, c := solvedChoiceMatrix(t, counts)

	for i, row := range c {
		sum := 0.0
		for _, cell := range row {
			sum += cell
			if math.IsNaN(cell) || math.IsInf(cell, 0) {
				t.Fatalf("cell [%d] is %v", i, cell)
			}
		}
		if math.Abs(sum-1) > 1e-3 {
			t.Errorf("row %d sums to %v, want 1", i, sum)
		}
	}
}

func TestPartnerChoiceMatrix_StaleTracksDrift(t *testing.T) {
	h := NewGroupHandler(testMatchmakingParams())
	m := NewPartnerChoiceMatrix(h.PreferenceMatrix(), testMatchmakingParams())

	// Freshly constructed: proportions are all zero, nothing to re-solve.
	if m.Stale() {
		t.Error("new matrix reported stale before any update")
	}

	// A first update moves the proportions well past the tolerance.
	m.Update([]int{40, 10, 5, 25, 80, 3, 9, 14, 60})
	if !m.Stale() {
		t.Error("matrix not stale after a large proportion move")
	}

	// Solving records the proportions; identical updates mixed in with the
	// tapering weight barely move them afterwards.
	m.Solve()
	if m.Stale() {
		t.Error("matrix stale immediately after solving")
	}
	m.Update([]int{40, 10, 5, 25, 80, 3, 9, 14, 60})
	if m.Stale() {
		t.Error("matrix stale after an update that repeats the solved proportions")
	}
}

func TestPartnerChoiceMatrix_EmptyUpdateIsIgnored(t *testing.T) {
	h := NewGroupHandler(testMatchmakingParams())
	m := NewPartnerChoiceMatrix(h.PreferenceMatrix(), testMatchmakingParams())
	m.Update([]int{40, 10, 5, 25, 80, 3, 9, 14, 60})
	before := make([]float64, 9)
	for i := range before {
		before[i] = m.Proportion(i)
	}

	// A day with zero requests must leave the estimate untouched.
	m.Update(make([]int, 9))
	for i := range before {
		if m.Proportion(i) != before[i] {
			t.Fatalf("proportion %d moved on an empty update", i)
		}
	}
}

func TestPartnerChoiceMatrix_RejectsBadPreferences(t *testing.T) {
	// Rows that do not sum to 1 violate the constructor contract.
	defer func() {
		if recover() == nil {
			t.Error("expected panic for a non-stochastic preference row")
		}
	}()
	NewPartnerChoiceMatrix([][]float64{{0.5, 0.1}, {0.5, 0.5}}, testMatchmakingParams())
}

func TestTaperingWeight_RunningAverageThenFloor(t *testing.T) {
	w := taperingWeight{floor: 0.01}

	tests := []struct {
		n    int
		want float64
	}{
		{1, 1},
		{2, 0.5},
		{10, 0.1},
		{100, 0.01},
		{1000, 0.01}, // floored
		{100000, 0.01},
	}
	for _, tt := range tests {
		if got := w.Weight(tt.n); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Weight(%d): got %v, want %v", tt.n, got, tt.want)
		}
	}
}
