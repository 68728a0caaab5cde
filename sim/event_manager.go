package sim

import (
	"container/heap"
	"sort"
)

// eventHeap orders events by (due day, priority class, insertion order).
// Removal by notification is lazy: removed events stay in the heap as
// tombstones and are skipped at pop time, which keeps the notification scans
// simple and makes mutation during notification safe.
type eventHeap []*Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].Due != h[j].Due {
		return h[i].Due < h[j].Due
	}
	if h[i].Priority != h[j].Priority {
		return h[i].Priority < h[j].Priority
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(*Event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// EventManager owns every pending event: a min-priority queue plus the two
// tag-indexed notification channels used to invalidate or cancel events ahead
// of their due day.
type EventManager struct {
	events  eventHeap
	nextSeq uint64
}

// NewEventManager returns an empty manager.
func NewEventManager() *EventManager {
	return &EventManager{}
}

// Add enqueues an event. Insertion order is the final tie-breaker, so events
// added during execution of their own (day, priority) class run after
// everything already queued there.
func (em *EventManager) Add(ev *Event) {
	ev.seq = em.nextSeq
	em.nextSeq++
	heap.Push(&em.events, ev)
}

// Len returns the number of pending (non-tombstoned) events.
func (em *EventManager) Len() int {
	n := 0
	for _, ev := range em.events {
		if !ev.removed {
			n++
		}
	}
	return n
}

// ExecuteAll pops and fires every event due at exactly (day, priority),
// including events scheduled into that slot while it is being drained. An
// event surviving in the queue with an earlier slot means the scheduler
// skipped it, which is a contract violation.
func (em *EventManager) ExecuteAll(st *State, day int, priority PriorityClass) {
	for len(em.events) > 0 {
		head := em.events[0]
		if head.removed {
			heap.Pop(&em.events)
			continue
		}
		if head.Due < day || (head.Due == day && head.Priority < priority) {
			panic("sim: event scheduled in the past was never executed")
		}
		if head.Due != day || head.Priority != priority {
			break
		}
		heap.Pop(&em.events)
		head.execute(st)
	}
}

// matches collects the pending events subscribed to the given channel tag, in
// insertion order, so notification delivery is deterministic.
func (em *EventManager) matches(channel, tag int) []*Event {
	var matched []*Event
	for _, ev := range em.events {
		if ev.removed {
			continue
		}
		if (channel == 1 && ev.PersonTag == tag) ||
			(channel == 2 && ev.RelationTag == tag) {
			matched = append(matched, ev)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq < matched[j].seq })
	return matched
}

// NotifyChannel1 tells every event subscribed to the person that something
// happened to them; events answering true are removed. The match set is
// snapshotted first, so handlers may freely add new events.
func (em *EventManager) NotifyChannel1(st *State, personID, code int) {
	for _, ev := range em.matches(1, personID) {
		if ev.notify(st, 1, personID, code) {
			ev.removed = true
		}
	}
}

// NotifyChannel2 is NotifyChannel1 for relation subscriptions.
func (em *EventManager) NotifyChannel2(st *State, relationID, code int) {
	for _, ev := range em.matches(2, relationID) {
		if ev.notify(st, 2, relationID, code) {
			ev.removed = true
		}
	}
}
