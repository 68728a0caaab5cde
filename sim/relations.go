package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/stinet-sim/stinet-sim/sim/matchmaking"
)

// addRelationRequest samples a duration for the gap until this person's next
// relation and hands the wish to the matchmaker.
func addRelationRequest(st *State, personID, interRelationTime int) {
	durationDays := st.Durations.Sample(interRelationTime)
	rr := matchmaking.RelationRequest{PersonID: personID, DurationInDays: durationDays}
	st.Matchmaker.AddRelationRequest(rr, st.AgeYears(st.Persons.Get(personID)))
}

// executeStartRelation fires when a person's next relationship is due: file a
// relation request, drain any further arrivals that land on this same day,
// and schedule the event for the following arrival. The event dies with the
// person via the person channel.
func executeStartRelation(st *State, ev *Event) {
	person := st.Persons.Get(ev.PersonID)

	next := person.NextRelationTime()
	addRelationRequest(st, ev.PersonID, next-st.Time)

	for next == st.Time {
		next = person.NextRelationTime()
		addRelationRequest(st, ev.PersonID, next-st.Time)
	}

	// A timer that ran dry parks the event beyond any horizon; death
	// cleans it up.
	st.Events.Add(newStartRelationEvent(ev.PersonID, next))
}

// executeMatchmaking runs the daily matching round, turns every match into a
// live relation, and reschedules itself for tomorrow.
func executeMatchmaking(st *State, ev *Event) {
	matches := st.Matchmaker.Get()
	logrus.Debugf("[day %07d] Matchmaker returned %d matches", st.Time, len(matches))
	for _, match := range matches {
		addRelation(st, match)
	}
	st.Events.Add(newMatchmakingEvent(ev.Due + 1))
}

// addRelation makes a match official: create and store the relation, schedule
// its end, and arm the transmission clocks for both pathogens. The two
// requests may want different durations; a coin flip picks one.
func addRelation(st *State, match matchmaking.Match) {
	duration := match.First.DurationInDays
	if st.RNG.Float64() < 0.5 {
		duration = match.Second.DurationInDays
	}

	r := &Relation{
		ID:        st.nextRelationID,
		Person1ID: match.First.PersonID,
		Person2ID: match.Second.PersonID,
		TimeStart: st.Time,
		TimeEnd:   st.Time + duration,
	}
	st.nextRelationID++
	st.Relations.Insert(r)

	st.Events.Add(newEndRelationEvent(r.ID, r.TimeEnd))
	updateHIVTransmissionEvent(st, r)
	updateGNTransmissionEvent(st, r)
}

// executeEndRelation retires a relation. It runs either from the queue at the
// scheduled end day or early through a channel-2 END_DUE_TO_DEATH
// notification.
func executeEndRelation(st *State, ev *Event) {
	st.Relations.Remove(ev.RelationID)
}
