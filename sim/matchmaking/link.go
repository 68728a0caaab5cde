package matchmaking

import (
	"fmt"
	"math"
	"sort"
)

// GroupPair is an unordered pair of group indices; a link between group 3 and
// group 1 is the same link as between 1 and 3.
type GroupPair struct {
	Lo, Hi int
}

// NewGroupPair normalizes the order.
func NewGroupPair(a, b int) GroupPair {
	if a > b {
		return GroupPair{b, a}
	}
	return GroupPair{a, b}
}

// sortState tracks which ordering the link list currently carries. Operations
// declare which state they need; callers switch explicitly so that the list
// is sorted only when the ordering actually changes use.
type sortState int

const (
	unsorted sortState = iota
	sortedByLinks
	sortedByValue
)

// impossible marks links between groups that never prefer each other; they
// must never be scheduled, whatever the backlog.
const impossible = -math.MaxFloat64

// acceptableThreshold is the credit floor for priority-mode scheduling. Links
// may temporarily overrun their expected match count while clearing priority
// backlog; a finite floor keeps genuinely unstable links detectable instead
// of letting them sink forever.
const acceptableThreshold = -50

type link struct {
	pair   GroupPair
	credit float64 // expected cumulative matches minus executed matches
}

// LinkHandler keeps a running credit per link: how many more matches this
// link is owed, given the people added per group and the partner-choice
// matrix. A ranked cursor walks links in descending credit order so the
// matchmaker can serve the most-starved links first.
type LinkHandler struct {
	nGroups int
	choice  [][]float64
	links   []link
	state   sortState
	cursor  int

	nSortsByLinks int
	nSortsByValue int
}

// NewLinkHandler seeds the link list from the preference matrix: one link per
// unordered group pair, zero-preference pairs pinned at the impossible
// credit. The list starts unsorted.
func NewLinkHandler(preference [][]float64) *LinkHandler {
	n := len(preference)
	if n == 0 {
		panic("matchmaking: link handler needs a non-empty choice matrix")
	}
	h := &LinkHandler{
		nGroups: n,
		choice:  preference,
	}
	for hi := 0; hi < n; hi++ {
		for lo := 0; lo <= hi; lo++ {
			l := link{pair: GroupPair{lo, hi}}
			// Zero preference is symmetric, checking one side suffices.
			if preference[hi][lo] == 0 {
				l.credit = impossible
			}
			h.links = append(h.links, l)
		}
	}
	return h
}

// UpdateChoiceMatrix swaps in a freshly solved partner-choice matrix.
func (h *LinkHandler) UpdateChoiceMatrix(choice [][]float64) {
	h.choice = choice
}

// SortByLinks orders the list by group pair so that per-pair credits can be
// addressed in constant time via positionOf.
func (h *LinkHandler) SortByLinks() {
	h.nSortsByLinks++
	sort.Slice(h.links, func(i, j int) bool {
		if h.links[i].pair.Lo != h.links[j].pair.Lo {
			return h.links[i].pair.Lo < h.links[j].pair.Lo
		}
		return h.links[i].pair.Hi < h.links[j].pair.Hi
	})
	h.state = sortedByLinks
}

// SortByValue orders the list by descending credit for cursor traversal.
func (h *LinkHandler) SortByValue() {
	h.nSortsByValue++
	sort.SliceStable(h.links, func(i, j int) bool {
		return h.links[i].credit > h.links[j].credit
	})
	h.state = sortedByValue
}

// positionOf computes the index of pair {a,b} in the pair-sorted list: pairs
// are laid out lower-major, so the offset closes over the triangle above the
// lower index.
func (h *LinkHandler) positionOf(a, b int) int {
	if a > b {
		a, b = b, a
	}
	return a*(2*h.nGroups-a-1)/2 + b
}

// Add credits every link for the expected matches generated by the given
// number of people per group. Each relation is shared between two people, so
// each person contributes half a match to a link.
func (h *LinkHandler) Add(peoplePerGroup []int) {
	if h.state != sortedByLinks {
		panic("matchmaking: link handler Add requires the pair-sorted state")
	}
	if len(peoplePerGroup) != h.nGroups {
		panic("matchmaking: link handler Add with wrong group count")
	}
	for from := 0; from < h.nGroups; from++ {
		for to := 0; to < h.nGroups; to++ {
			h.links[h.positionOf(from, to)].credit +=
				0.5 * float64(peoplePerGroup[from]) * h.choice[from][to]
		}
	}
}

// RemovePerson undoes one person's worth of expected matches for a group.
func (h *LinkHandler) RemovePerson(group int) {
	if h.state != sortedByLinks {
		panic("matchmaking: link handler RemovePerson requires the pair-sorted state")
	}
	for to := 0; to < h.nGroups; to++ {
		h.links[h.positionOf(group, to)].credit -= 0.5 * h.choice[group][to]
	}
}

// PointToTop resets the cursor to the highest-credit link.
func (h *LinkHandler) PointToTop() {
	h.cursor = 0
}

// Next advances the cursor one link down.
func (h *LinkHandler) Next() {
	h.cursor++
}

// Get returns the link under the cursor.
func (h *LinkHandler) Get() GroupPair {
	return h.links[h.cursor].pair
}

// PointsToPositiveLink reports whether the cursor is on a link that is still
// owed matches.
func (h *LinkHandler) PointsToPositiveLink() bool {
	return h.cursor < len(h.links) && h.links[h.cursor].credit > 0
}

// PointsToAcceptableLink reports whether the cursor is on a link that may
// still be scheduled in priority mode.
func (h *LinkHandler) PointsToAcceptableLink() bool {
	return h.cursor < len(h.links) && h.links[h.cursor].credit > acceptableThreshold
}

// Remove records one executed match on the cursor's link and bubbles it down
// to its new rank. Only the changed element can be out of order, so a partial
// bubble pass restores the descending sort.
func (h *LinkHandler) Remove() {
	if h.state != sortedByValue {
		panic("matchmaking: link handler Remove requires the value-sorted state")
	}
	if !h.PointsToAcceptableLink() {
		panic("matchmaking: link handler Remove on an unschedulable link")
	}
	h.links[h.cursor].credit--

	at := h.cursor
	for at+1 < len(h.links) && h.links[at+1].credit > h.links[at].credit {
		h.links[at], h.links[at+1] = h.links[at+1], h.links[at]
		at++
	}
}

// Report summarizes the credit ledger and sorting activity.
func (h *LinkHandler) Report() string {
	highest := impossible
	lowest := math.MaxFloat64
	total := 0.0
	for _, l := range h.links {
		if l.credit != impossible {
			total += l.credit
			if l.credit < lowest {
				lowest = l.credit
			}
		}
		if l.credit > highest {
			highest = l.credit
		}
	}
	return "Linkhandler report. Current status:\n" +
		fmt.Sprintf("Highest value: %f\n", highest) +
		fmt.Sprintf("Lowest value: %f\n", lowest) +
		fmt.Sprintf("Total value: %f\n", total) +
		fmt.Sprintf("Times sorted by links: %d\n", h.nSortsByLinks) +
		fmt.Sprintf("Times sorted by value: %d\n", h.nSortsByValue)
}
