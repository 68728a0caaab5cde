// Package matchmaking pairs relation requests into relations, one batch per
// simulation day, while preserving individual preference distributions and
// the demographic proportions of the requesting population.
package matchmaking

import (
	"fmt"
	"math/rand"

	"github.com/stinet-sim/stinet-sim/sim/params"
)

// Match is a pair of requests the matchmaker decided to join.
type Match struct {
	First, Second RelationRequest
}

// Matchmaker orchestrates the daily matching round. Requests arrive into
// per-group normal queues; whatever is not matched on its first day moves to
// the priority queues and gets one preferential second day before being
// dropped.
type Matchmaker struct {
	groups     *GroupHandler
	choice     *PartnerChoiceMatrix
	links      *LinkHandler
	robustness *RobustnessController
	rng        *rand.Rand

	normal    [][]RelationRequest // per-group, arrived today
	priority  [][]RelationRequest // per-group, one day old
	nNormal   []int
	nPriority []int

	nReceived           int
	nScheduledFirstDay  int
	nScheduledSecondDay int
	nDroppedFirstDay    int // removed on robustness advice
	nDroppedSecondDay   int // unmatched after the priority day
}

// priorityBacklogGoal is the target ratio of priority to normal queue size
// fed to the robustness controller.
const priorityBacklogGoal = 0.8

// New builds the matchmaker and its supporting structures from the group
// definitions.
func New(mm params.Matchmaking, seed int64) *Matchmaker {
	groups := NewGroupHandler(mm)
	n := groups.Count()
	return &Matchmaker{
		groups:     groups,
		choice:     NewPartnerChoiceMatrix(groups.PreferenceMatrix(), mm),
		links:      NewLinkHandler(groups.PreferenceMatrix()),
		robustness: NewRobustnessController(n, priorityBacklogGoal),
		rng:        rand.New(rand.NewSource(seed)),
		normal:     make([][]RelationRequest, n),
		priority:   make([][]RelationRequest, n),
		nNormal:    make([]int, n),
		nPriority:  make([]int, n),
	}
}

// AddRelationRequest queues a request under the group derived from the
// requester's age and the requested duration.
func (m *Matchmaker) AddRelationRequest(rr RelationRequest, ageYears float64) {
	m.nReceived++
	group := m.groups.GroupOf(ageYears, rr.DurationInDays)
	m.normal[group] = append(m.normal[group], rr)
	m.nNormal[group]++
}

// Get runs one daily matching round and returns the matches formed.
//
//  1. Shuffle every queue so arrival order carries no weight.
//  2. Refresh the proportion estimate; re-solve the choice matrix on drift.
//  3. Apply robustness advice: drop from overgrown priority queues.
//  4. Credit the link handler with today's arrivals.
//  5. Priority pass, then non-priority pass over the ranked links.
//  6. Drop what is still unmatched after its priority day.
//  7. Today's unmatched arrivals become tomorrow's priority queues.
func (m *Matchmaker) Get() []Match {
	var matches []Match

	for _, queue := range m.normal {
		m.rng.Shuffle(len(queue), func(i, j int) {
			queue[i], queue[j] = queue[j], queue[i]
		})
	}
	for _, queue := range m.priority {
		m.rng.Shuffle(len(queue), func(i, j int) {
			queue[i], queue[j] = queue[j], queue[i]
		})
	}

	m.choice.Update(m.nNormal)
	if m.choice.Stale() {
		m.links.UpdateChoiceMatrix(m.choice.Solve())
	}

	advice := m.robustness.Advise(m.nNormal, m.nPriority)
	m.links.SortByLinks()
	for group, drop := range advice {
		for i := 0; i < drop; i++ {
			m.nDroppedFirstDay++
			m.nPriority[group]--
			m.priority[group] = m.priority[group][:len(m.priority[group])-1]
			m.links.RemovePerson(group)
		}
	}

	m.links.Add(m.nNormal)

	m.links.SortByValue()
	m.links.PointToTop()
	for m.links.PointsToAcceptableLink() {
		pair := m.links.Get()
		if m.priorityMatchPossible(pair) {
			matches = append(matches, m.takeMatch(pair))
		} else {
			m.links.Next()
		}
	}

	m.links.PointToTop()
	for m.links.PointsToPositiveLink() {
		pair := m.links.Get()
		if m.normalMatchPossible(pair) {
			matches = append(matches, m.takeMatch(pair))
		} else {
			m.links.Next()
		}
	}

	for group := range m.priority {
		for range m.priority[group] {
			// Rare enough that re-sorting inside the loop is cheaper
			// than sorting up front on every round.
			m.links.SortByLinks()
			m.nDroppedSecondDay++
			m.links.RemovePerson(group)
		}
		m.priority[group] = m.priority[group][:0]
		m.nPriority[group] = 0
	}

	m.normal, m.priority = m.priority, m.normal
	m.nNormal, m.nPriority = m.nPriority, m.nNormal

	return matches
}

// priorityMatchPossible reports whether the link can be served with at least
// one participant taken from a priority queue.
func (m *Matchmaker) priorityMatchPossible(pair GroupPair) bool {
	a, b := pair.Lo, pair.Hi
	if a == b {
		return m.nPriority[a] > 1 || (m.nPriority[a] > 0 && m.nNormal[a] > 0)
	}
	return (m.nPriority[a] > 0 && m.nPriority[b]+m.nNormal[b] > 0) ||
		(m.nPriority[b] > 0 && m.nPriority[a]+m.nNormal[a] > 0)
}

// normalMatchPossible reports whether the link can be served from the normal
// queues alone. The priority pass has already drained every combination
// involving priority participants.
func (m *Matchmaker) normalMatchPossible(pair GroupPair) bool {
	a, b := pair.Lo, pair.Hi
	if a == b {
		return m.nNormal[a] > 1
	}
	return m.nNormal[a] > 0 && m.nNormal[b] > 0
}

// takeMatch pops one participant per side, preferring the priority queue
// whenever it has anyone, records the executed match on the link, and
// returns the pair.
func (m *Matchmaker) takeMatch(pair GroupPair) Match {
	m.links.Remove()
	return Match{
		First:  m.takeFromGroup(pair.Lo),
		Second: m.takeFromGroup(pair.Hi),
	}
}

func (m *Matchmaker) takeFromGroup(group int) RelationRequest {
	if m.nPriority[group] > 0 {
		last := len(m.priority[group]) - 1
		rr := m.priority[group][last]
		m.priority[group] = m.priority[group][:last]
		m.nPriority[group]--
		m.nScheduledSecondDay++
		return rr
	}
	last := len(m.normal[group]) - 1
	rr := m.normal[group][last]
	m.normal[group] = m.normal[group][:last]
	m.nNormal[group]--
	m.nScheduledFirstDay++
	return rr
}

// Report summarizes matchmaking throughput plus the supporting link-handler
// and partner-choice-matrix reports.
func (m *Matchmaker) Report() string {
	s := "Start of logreport of MatchMaker\n" +
		fmt.Sprintf("Total relation request received: %d\n", m.nReceived) +
		fmt.Sprintf("Total number of relation requests dropped after day 1 (should be very low %%): %d\n",
			m.nDroppedFirstDay) +
		fmt.Sprintf("Total number of relation requests dropped after day 2 (should be low %%): %d\n",
			m.nDroppedSecondDay) +
		fmt.Sprintf("Total number of relations scheduled on first day: %d\n", m.nScheduledFirstDay) +
		fmt.Sprintf("Total number of relations scheduled on second day: %d\n", m.nScheduledSecondDay)
	s += "\nLinkhandler supports MatchMaker.\n" + m.links.Report()
	s += "\nPartnerChoiceMatrix supports MatchMaker.\n" + m.choice.Report()
	return s
}
