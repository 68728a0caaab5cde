package matchmaking

import (
	"math"
	"testing"
)

// uniformChoice builds an n-group row-stochastic matrix with equal cells.
func uniformChoice(n int) [][]float64 {
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		for j := range matrix[i] {
			matrix[i][j] = 1 / float64(n)
		}
	}
	return matrix
}

func TestLinkHandler_AddConservesHalfAPersonPerLink(t *testing.T) {
	// GIVEN a handler over 4 groups with uniform preferences
	h := NewLinkHandler(uniformChoice(4))
	h.SortByLinks()

	// WHEN crediting an arbitrary population
	people := []int{10, 0, 7, 3}
	h.Add(people)

	// THEN the total credit equals half the people added: every person is
	// half of one expected relation
	total := 0.0
	for _, l := range h.links {
		if l.credit != impossible {
			total += l.credit
		}
	}
	if math.Abs(total-10) > 1e-9 {
		t.Errorf("total credit: got %v, want 10", total)
	}
}

func TestLinkHandler_RemovePersonUndoesAdd(t *testing.T) {
	h := NewLinkHandler(uniformChoice(3))
	h.SortByLinks()

	h.Add([]int{0, 1, 0})
	h.RemovePerson(1)

	for _, l := range h.links {
		if l.credit != impossible && math.Abs(l.credit) > 1e-12 {
			t.Errorf("link %v credit %v after add+remove, want 0", l.pair, l.credit)
		}
	}
}

func TestLinkHandler_ZeroPreferenceLinksAreImpossible(t *testing.T) {
	// GIVEN a choice matrix where groups 0 and 1 never mix
	matrix := [][]float64{
		{1, 0, 0},
		{0, 0.5, 0.5},
		{0, 0.5, 0.5},
	}
	h := NewLinkHandler(matrix)
	h.SortByLinks()
	h.Add([]int{100, 100, 100})

	// THEN the 0-1 link stays pinned at the impossible credit
	h.SortByValue()
	h.PointToTop()
	for h.PointsToAcceptableLink() {
		if h.Get() == NewGroupPair(0, 1) {
			t.Fatal("impossible link became schedulable")
		}
		h.Next()
	}
}

func TestLinkHandler_CursorWalksDescendingCredit(t *testing.T) {
	h := NewLinkHandler(uniformChoice(3))
	h.SortByLinks()
	h.Add([]int{12, 6, 0})

	h.SortByValue()
	h.PointToTop()
	previous := math.Inf(1)
	for h.PointsToAcceptableLink() {
		credit := h.links[h.cursor].credit
		if credit > previous {
			t.Fatalf("cursor went uphill: %v after %v", credit, previous)
		}
		previous = credit
		h.Next()
	}
}

func TestLinkHandler_RemoveBubblesDown(t *testing.T) {
	// GIVEN a value-sorted list with a clear top link
	h := NewLinkHandler(uniformChoice(3))
	h.SortByLinks()
	h.Add([]int{12, 6, 0})
	h.SortByValue()
	h.PointToTop()

	// WHEN removing several matches from the top position
	for i := 0; i < 3 && h.PointsToPositiveLink(); i++ {
		h.Remove()
	}

	// THEN the list is still sorted descending
	for i := 1; i < len(h.links); i++ {
		if h.links[i-1].credit < h.links[i].credit {
			t.Fatalf("list unsorted after Remove at %d", i)
		}
	}
}

func TestLinkHandler_StateDiscipline(t *testing.T) {
	h := NewLinkHandler(uniformChoice(2))

	// Add before SortByLinks must panic: the position formula relies on
	// the pair ordering.
	defer func() {
		if recover() == nil {
			t.Error("expected panic for Add in the unsorted state")
		}
	}()
	h.Add([]int{1, 1})
}

func TestGroupPair_Normalizes(t *testing.T) {
	if NewGroupPair(5, 2) != (GroupPair{2, 5}) {
		t.Errorf("NewGroupPair(5,2) = %v, want {2 5}", NewGroupPair(5, 2))
	}
	if NewGroupPair(2, 5) != NewGroupPair(5, 2) {
		t.Error("pair order leaked into identity")
	}
}
