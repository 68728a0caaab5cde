package sim

import "github.com/sirupsen/logrus"

// Populate creates the initial population: a homogeneous age mix between
// sexual onset and stop, preseeded by giving everyone a negative day of
// birth. Each person gets a death event at the fixed death age and their
// first relationship-start event.
func Populate(st *State) {
	if st.Persons.Size() != 0 {
		panic("sim: populate called on a non-empty population")
	}
	if st.Time != 0 {
		panic("sim: populate called after day 0")
	}

	pf := st.Params.PartnerFormation
	onsetDays := int(pf.SexualOnsetDays())
	stopDays := int(pf.SexualStopDays())
	rng := st.Seeds.NewRand()

	for i := 0; i < st.Params.Demographics.InitialPopulation; i++ {
		age := onsetDays + rng.Intn(stopDays-onsetDays+1)
		p := st.NewPerson(-age)

		// Fast-forward the timer past everything that would have
		// happened before day 0.
		tNext := p.NextRelationTime()
		for tNext <= st.Time {
			tNext = p.NextRelationTime()
		}

		st.Persons.Insert(p)
		addDeathEvent(st, p.ID)
		st.Events.Add(newStartRelationEvent(p.ID, tNext))
	}
	logrus.Infof("Populated %d persons", st.Persons.Size())
}

// births tops the population back up to the configured size. Births here
// mean entering the sexually active population: a newborn is already at
// sexual onset. The count is deterministic to keep runs easy to analyze.
func births(st *State) {
	required := st.Params.Demographics.InitialPopulation - st.Persons.Size()
	onsetDays := int(st.Params.PartnerFormation.SexualOnsetDays())

	for i := 0; i < required; i++ {
		p := st.NewPerson(st.Time - onsetDays)
		tFirst := p.NextRelationTime()
		st.Persons.Insert(p)
		addDeathEvent(st, p.ID)
		st.Events.Add(newStartRelationEvent(p.ID, tFirst))
	}
}

// addDeathEvent schedules the person's death at the configured death age
// (the end of the sexual career).
func addDeathEvent(st *State, personID int) {
	dayOfBirth := st.Persons.Get(personID).DayOfBirth
	stopDays := int(st.Params.PartnerFormation.SexualStopDays())
	st.Events.Add(newDeathEvent(personID, dayOfBirth+stopDays))
}

// executeBirths runs the daily birth top-up and reschedules itself for
// tomorrow.
func executeBirths(st *State, ev *Event) {
	births(st)
	st.Events.Add(newBirthsEvent(ev.Due + 1))
}

// executeDeath removes a person. Interested events learn of it first so they
// can unsubscribe, then every relation of the person is terminated through
// the relation channel, and only then does the person leave the store so the
// notified handlers could still read them.
func executeDeath(st *State, ev *Event) {
	st.Events.NotifyChannel1(st, ev.PersonID, PersonDied)

	for _, relationID := range st.Relations.IDsOfPerson(ev.PersonID) {
		st.Events.NotifyChannel2(st, relationID, RelationEndDueToDeath)
	}

	st.Persons.Erase(ev.PersonID)
}
