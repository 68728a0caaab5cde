package sim

import "github.com/sirupsen/logrus"

// PriorityClass fixes the within-day execution order of events. Events due on
// the same day run class by class in this order, and the class is the
// tie-breaker inside the event queue.
type PriorityClass int

const (
	PriorityDeath PriorityClass = iota
	PriorityBirths
	PriorityRelationStart
	PriorityMatchmaking
	PriorityRelationEnd
	PriorityHIVTransmission
	PriorityGNTransmission
	PriorityGNNaturalCure

	priorityFirst = PriorityDeath
	priorityLast  = PriorityGNNaturalCure
)

// Person-channel codes: what happened to the person a channel-1 notification
// is about.
const (
	PersonDied = iota
	PersonGNCured
)

// Relation-channel codes: what happened to the relation a channel-2
// notification is about.
const (
	RelationEndDueToDeath = iota
	CancelHIVTransmission
	CancelGNTransmission
)

// NoTag marks an event as not listening on a notification channel.
const NoTag = -1

// EventKind selects an event's behavior; events are tagged variants rather
// than an interface hierarchy so the queue can scan and cancel them without
// indirection.
type EventKind int

const (
	KindDeath EventKind = iota
	KindBirths
	KindStartRelation
	KindEndRelation
	KindMatchmaking
	KindHIVTransmission
	KindGNTransmission
	KindGNNaturalCure
)

func (k EventKind) String() string {
	switch k {
	case KindDeath:
		return "Death"
	case KindBirths:
		return "Births"
	case KindStartRelation:
		return "StartRelation"
	case KindEndRelation:
		return "EndRelation"
	case KindMatchmaking:
		return "Matchmaking"
	case KindHIVTransmission:
		return "HIVTransmission"
	case KindGNTransmission:
		return "GNTransmission"
	case KindGNNaturalCure:
		return "GNNaturalCure"
	}
	return "Unknown"
}

// Event is one pending occurrence. Events carry plain identifiers only and
// receive the state at execution time; they never retain references into it.
//
// PersonTag and RelationTag subscribe the event to the two notification
// channels: "something happened to person P" and "something happened to
// relation R". A notify decides whether the event should be removed.
type Event struct {
	Kind        EventKind
	Due         int // simulation day
	Priority    PriorityClass
	PersonTag   int // channel-1 subscription, NoTag when not listening
	RelationTag int // channel-2 subscription, NoTag when not listening

	PersonID   int // subject person (death, relation start, infections, cure)
	RelationID int // subject relation (relation end, transmissions)

	seq     uint64 // insertion order, the final queue tie-breaker
	removed bool
}

func newDeathEvent(personID, day int) *Event {
	return &Event{Kind: KindDeath, Due: day, Priority: PriorityDeath,
		PersonTag: NoTag, RelationTag: NoTag, PersonID: personID}
}

func newBirthsEvent(day int) *Event {
	return &Event{Kind: KindBirths, Due: day, Priority: PriorityBirths,
		PersonTag: NoTag, RelationTag: NoTag}
}

func newStartRelationEvent(personID, day int) *Event {
	return &Event{Kind: KindStartRelation, Due: day, Priority: PriorityRelationStart,
		PersonTag: personID, RelationTag: NoTag, PersonID: personID}
}

func newEndRelationEvent(relationID, day int) *Event {
	return &Event{Kind: KindEndRelation, Due: day, Priority: PriorityRelationEnd,
		PersonTag: NoTag, RelationTag: relationID, RelationID: relationID}
}

func newMatchmakingEvent(day int) *Event {
	return &Event{Kind: KindMatchmaking, Due: day, Priority: PriorityMatchmaking,
		PersonTag: NoTag, RelationTag: NoTag}
}

func newHIVTransmissionEvent(relationID, personToInfectID, day int) *Event {
	return &Event{Kind: KindHIVTransmission, Due: day, Priority: PriorityHIVTransmission,
		PersonTag: NoTag, RelationTag: relationID,
		RelationID: relationID, PersonID: personToInfectID}
}

func newGNTransmissionEvent(relationID, personToInfectID, day int) *Event {
	return &Event{Kind: KindGNTransmission, Due: day, Priority: PriorityGNTransmission,
		PersonTag: NoTag, RelationTag: relationID,
		RelationID: relationID, PersonID: personToInfectID}
}

func newGNNaturalCureEvent(personID, day int) *Event {
	return &Event{Kind: KindGNNaturalCure, Due: day, Priority: PriorityGNNaturalCure,
		PersonTag: personID, RelationTag: NoTag, PersonID: personID}
}

// execute fires the event against the state.
func (ev *Event) execute(st *State) {
	logrus.Debugf("[day %07d] Executing %s", st.Time, ev.Kind)
	switch ev.Kind {
	case KindDeath:
		executeDeath(st, ev)
	case KindBirths:
		executeBirths(st, ev)
	case KindStartRelation:
		executeStartRelation(st, ev)
	case KindEndRelation:
		executeEndRelation(st, ev)
	case KindMatchmaking:
		executeMatchmaking(st, ev)
	case KindHIVTransmission:
		executeHIVTransmission(st, ev)
	case KindGNTransmission:
		executeGNTransmission(st, ev)
	case KindGNNaturalCure:
		executeGNNaturalCure(st, ev)
	}
}

// notify delivers a channel notification to this event and reports whether
// the event should be removed from the queue.
//
// Transmission events refuse cancellation while their own priority class is
// executing: an event must never remove itself (or a sibling in the same
// class and day) from under the running dispatch loop.
func (ev *Event) notify(st *State, channel, tag, code int) bool {
	switch ev.Kind {
	case KindStartRelation:
		return channel == 1 && tag == ev.PersonTag && code == PersonDied

	case KindEndRelation:
		if channel == 2 && tag == ev.RelationTag && code == RelationEndDueToDeath {
			// End the relation right now; removal from the queue is on
			// us because the dispatch loop is not the caller here.
			executeEndRelation(st, ev)
			return true
		}
		return false

	case KindHIVTransmission:
		if channel != 2 || tag != ev.RelationTag {
			return false
		}
		if code == RelationEndDueToDeath {
			return true
		}
		return code == CancelHIVTransmission && st.CurrentPriority != PriorityHIVTransmission

	case KindGNTransmission:
		if channel != 2 || tag != ev.RelationTag {
			return false
		}
		if code == RelationEndDueToDeath {
			return true
		}
		return code == CancelGNTransmission && st.CurrentPriority != PriorityGNTransmission

	case KindGNNaturalCure:
		// A GN_CURED notification is always a consequence of this very
		// event executing, so only death removes the cure.
		return channel == 1 && tag == ev.PersonTag && code == PersonDied
	}
	return false
}
