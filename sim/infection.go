package sim

import (
	"github.com/stinet-sim/stinet-sim/sim/transmission"
)

// updateHIVTransmissionEvent recomputes when HIV crosses the given relation.
// Any previously scheduled HIV transmission for the relation is cancelled
// through channel 2 (transmission is prescheduled, so replacing the event
// loses no accuracy), and a new one is scheduled only for a serodiscordant
// pair whose sampled time falls inside the relation.
func updateHIVTransmissionEvent(st *State, r *Relation) {
	st.Events.NotifyChannel2(st, r.ID, CancelHIVTransmission)

	p1 := st.Persons.Get(r.Person1ID)
	p2 := st.Persons.Get(r.Person2ID)
	if p1.HIV.Infected == p2.HIV.Infected {
		return
	}

	infected, susceptible := p1, p2
	if p2.HIV.Infected {
		infected, susceptible = p2, p1
	}
	fromNow := st.Transmission.HIVTransmissionTime(
		infected.HIV.TSinceInfection(st.Time),
		infected.Gonorrhea.Infected,
		susceptible.Gonorrhea.Infected,
	)

	scheduleTransmission(st, r, susceptible.ID, fromNow,
		PriorityHIVTransmission, newHIVTransmissionEvent)
}

// updateGNTransmissionEvent is the gonorrhea mirror of the HIV update.
func updateGNTransmissionEvent(st *State, r *Relation) {
	st.Events.NotifyChannel2(st, r.ID, CancelGNTransmission)

	p1 := st.Persons.Get(r.Person1ID)
	p2 := st.Persons.Get(r.Person2ID)
	if p1.Gonorrhea.Infected == p2.Gonorrhea.Infected {
		return
	}

	susceptibleID := p1.ID
	if p1.Gonorrhea.Infected {
		susceptibleID = p2.ID
	}
	fromNow := st.Transmission.GNTransmissionTime()

	scheduleTransmission(st, r, susceptibleID, fromNow,
		PriorityGNTransmission, newGNTransmissionEvent)
}

// scheduleTransmission converts a sampled offset into a queued transmission
// event. No event is scheduled when the pathogen never crosses or would
// cross only after the relation ends. When the day's own transmission class
// has already run (or is running), the event moves to the next day so it is
// never scheduled into an already-drained slot.
func scheduleTransmission(st *State, r *Relation, personToInfectID int, fromNow float64,
	class PriorityClass, newEvent func(relationID, personID, day int) *Event) {

	if fromNow == transmission.NoTransmission {
		return
	}
	if float64(st.Time)+fromNow > float64(r.TimeEnd) {
		return
	}

	justInfectedMod := 0
	if st.CurrentPriority >= class {
		justInfectedMod = 1
	}
	day := st.Time + int(fromNow) + justInfectedMod
	if day < st.Time {
		panic("sim: transmission event scheduled in the past")
	}
	st.Events.Add(newEvent(r.ID, personToInfectID, day))
}

// executeHIVTransmission infects the target unless another relation got there
// first. The stale-event case exists because cancellations are refused while
// the transmission class itself is executing, so one person can be scheduled
// for infection twice on one day by different partners.
func executeHIVTransmission(st *State, ev *Event) {
	person := st.Persons.Get(ev.PersonID)
	if !person.HIV.Infected {
		HIVInfectPerson(st, person)
	}
}

// executeGNTransmission is the gonorrhea mirror of the HIV execution.
func executeGNTransmission(st *State, ev *Event) {
	person := st.Persons.Get(ev.PersonID)
	if !person.Gonorrhea.Infected {
		GNInfectPerson(st, person)
	}
}

// HIVInfectPerson flips the person's HIV status and re-arms the HIV clock on
// every relation they are in. Exported because epidemics are seeded through
// the same path the simulation uses internally.
func HIVInfectPerson(st *State, person *Person) {
	person.HIV.Infected = true
	person.HIV.TInfected = st.Time

	for _, r := range st.Relations.OfPerson(person.ID) {
		updateHIVTransmissionEvent(st, r)
	}
}

// GNInfectPerson flips the person's gonorrhea status (symptomatic by coin
// weight), re-arms both pathogen clocks on every relation (gonorrhea raises
// HIV infectivity), and schedules the natural cure.
func GNInfectPerson(st *State, person *Person) {
	symptomatic := st.RNG.Float64() < st.Params.Gonorrhea.ProbabilitySymptomatic
	person.Gonorrhea.Infect(st.Time, symptomatic)

	for _, r := range st.Relations.OfPerson(person.ID) {
		updateGNTransmissionEvent(st, r)
		updateHIVTransmissionEvent(st, r)
	}

	addCureEvent(st, person)
}

// addCureEvent schedules the natural gonorrhea cure; symptomatic infections
// clear faster.
func addCureEvent(st *State, person *Person) {
	gn := st.Params.Gonorrhea
	untilCure := gn.NaturalCureAsymptomatic
	if person.Gonorrhea.Symptomatic {
		untilCure = gn.NaturalCureSymptomatic
	}
	st.Events.Add(newGNNaturalCureEvent(person.ID, st.Time+untilCure))
}

// executeGNNaturalCure clears the infection.
func executeGNNaturalCure(st *State, ev *Event) {
	if !st.Persons.Get(ev.PersonID).Gonorrhea.Infected {
		panic("sim: natural cure fired for a person without gonorrhea")
	}
	cureGN(st, ev.PersonID)
}

// cureGN cures the person, announces it on the person channel, and re-arms
// both pathogen clocks on every relation: transmission can now flow toward
// this person again, and their partners' HIV infectivity drops.
func cureGN(st *State, personID int) {
	st.Persons.Get(personID).Gonorrhea.Cure()

	st.Events.NotifyChannel1(st, personID, PersonGNCured)

	for _, r := range st.Relations.OfPerson(personID) {
		updateGNTransmissionEvent(st, r)
		updateHIVTransmissionEvent(st, r)
	}
}
