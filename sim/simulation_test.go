package sim

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stinet-sim/stinet-sim/sim/params"
)

// testPack shrinks the default pack to test scale: a small population and a
// short stationary warm-up.
func testPack(population, hivSeeded, gnSeeded int) *params.Pack {
	pack := params.Default()
	pack.Demographics.InitialPopulation = population
	pack.Demographics.InitialHIVInfected = hivSeeded
	pack.Demographics.InitialGNInfected = gnSeeded
	pack.PartnerFormation.StatProcessPrearrival = 20000
	return pack
}

func TestSimulation_ZeroTransmissionRates_NoNewInfections(t *testing.T) {
	// GIVEN a small population with both transmission rates at zero
	pack := testPack(100, 10, 10)
	pack.HIV.BaseRate = 0
	pack.Gonorrhea.BaseRate = 0
	s := NewSimulation(pack, 1, io.Discard)

	// WHEN simulating a year
	s.Run(365)
	st := s.State()

	// THEN the population is topped back up to its target every day
	if st.Persons.Size() != 100 {
		t.Errorf("population: got %d, want 100", st.Persons.Size())
	}

	// AND nobody was infected after day 0: every infection is a seed
	for _, p := range st.Persons.All() {
		if p.HIV.Infected && p.HIV.TInfected != 0 {
			t.Errorf("person %d caught HIV on day %d with rate 0", p.ID, p.HIV.TInfected)
		}
		if p.Gonorrhea.Infected && p.Gonorrhea.TInfected != 0 {
			t.Errorf("person %d caught gonorrhea on day %d with rate 0", p.ID, p.Gonorrhea.TInfected)
		}
	}

	// AND no transmission event is pending anywhere
	for _, ev := range st.Events.events {
		if ev.removed {
			continue
		}
		if ev.Kind == KindHIVTransmission || ev.Kind == KindGNTransmission {
			t.Errorf("pending %s event with zero rates", ev.Kind)
		}
	}

	// Seeded gonorrhea has naturally cured by now (longest cure is 200 days).
	for _, p := range st.Persons.All() {
		if p.Gonorrhea.Infected {
			t.Errorf("person %d still has gonorrhea after every cure was due", p.ID)
		}
	}
}

func TestSimulation_EpidemicSmoke(t *testing.T) {
	// GIVEN the default rates on a small seeded population
	pack := testPack(300, 50, 50)
	var out bytes.Buffer
	s := NewSimulation(pack, 1, &out)

	// WHEN simulating two years
	s.Run(730)
	st := s.State()

	// THEN the population holds its target
	if st.Persons.Size() != 300 {
		t.Errorf("population: got %d, want 300", st.Persons.Size())
	}

	// AND HIV is still present (it has no cure; seeds at worst aged out)
	nHIV := 0
	for _, p := range st.Persons.All() {
		if p.HIV.Infected {
			nHIV++
		}
	}
	if nHIV == 0 {
		t.Error("HIV disappeared from a seeded population")
	}

	// AND the yearly summaries were written
	report := out.String()
	if !strings.Contains(report, "Started with seed: 1") {
		t.Error("missing the seed banner")
	}
	if strings.Count(report, "Start of logreport of MatchMaker") != 2 {
		t.Errorf("want 2 yearly matchmaker reports, got %d",
			strings.Count(report, "Start of logreport of MatchMaker"))
	}
	if !strings.Contains(report, "N_hiv_positive: ") {
		t.Error("missing the export-results block")
	}
}

func TestSimulation_SameSeedSameOutput(t *testing.T) {
	run := func(seed int64) string {
		var out bytes.Buffer
		s := NewSimulation(testPack(80, 5, 5), seed, &out)
		s.Run(400)
		return out.String()
	}

	if run(7) != run(7) {
		t.Error("identical seeds produced different runs")
	}
	if run(7) == run(8) {
		t.Error("different seeds produced identical runs")
	}
}

func TestEndRelationInvalidation_DeathEndsTheRelationEarly(t *testing.T) {
	// GIVEN two persons in a relation ending at day 100, one dying at day 50
	st := NewState(testPack(0, 0, 0), 1, io.Discard)
	p1 := st.NewPerson(-20 * 365)
	p2 := st.NewPerson(-25 * 365)
	st.Persons.Insert(p1)
	st.Persons.Insert(p2)

	r := &Relation{ID: 77, Person1ID: p1.ID, Person2ID: p2.ID, TimeStart: 0, TimeEnd: 100}
	st.Relations.Insert(r)
	endEv := newEndRelationEvent(77, 100)
	st.Events.Add(endEv)
	st.Events.Add(newDeathEvent(p1.ID, 50))

	// WHEN driving the scheduler through day 50
	runDays := func(from, to int) {
		for day := from; day < to; day++ {
			for p := priorityFirst; p <= priorityLast; p++ {
				st.Time = day
				st.CurrentPriority = p
				st.Events.ExecuteAll(st, day, p)
			}
		}
	}
	runDays(0, 51)

	// THEN the death notification executed the end-relation early and
	// removed it from the queue
	if st.Relations.Get(77) != nil {
		t.Error("relation survived its partner's death")
	}
	if !endEv.removed {
		t.Error("end-relation event still pending after early execution")
	}
	if st.Persons.Size() != 1 {
		t.Errorf("population after death: got %d, want 1", st.Persons.Size())
	}

	// AND day 100 passes without any end-relation firing for it
	runDays(51, 101)
	if st.Events.Len() != 0 {
		t.Errorf("pending events after the horizon: got %d, want 0", st.Events.Len())
	}
}

func TestState_SeededInfectionReschedulesTransmission(t *testing.T) {
	// GIVEN a serodiscordant relation
	st := NewState(testPack(0, 0, 0), 3, io.Discard)
	p1 := st.NewPerson(-20 * 365)
	p2 := st.NewPerson(-25 * 365)
	st.Persons.Insert(p1)
	st.Persons.Insert(p2)
	r := &Relation{ID: 1, Person1ID: p1.ID, Person2ID: p2.ID, TimeStart: 0, TimeEnd: 100000}
	st.Relations.Insert(r)
	st.Events.Add(newEndRelationEvent(1, 100000))

	// WHEN one partner becomes HIV positive
	HIVInfectPerson(st, p1)

	// THEN a transmission event toward the susceptible partner is pending
	found := false
	for _, ev := range st.Events.events {
		if !ev.removed && ev.Kind == KindHIVTransmission {
			found = true
			if ev.PersonID != p2.ID {
				t.Errorf("transmission targets person %d, want %d", ev.PersonID, p2.ID)
			}
			if ev.Due < st.Time {
				t.Errorf("transmission scheduled in the past: day %d", ev.Due)
			}
		}
	}
	// The draw can legitimately land beyond the relation end, but with a
	// 100000-day relation at default rates that is vanishingly unlikely.
	if !found {
		t.Error("no HIV transmission scheduled for a discordant relation")
	}

	// AND infecting the susceptible partner cancels it again (concordant)
	HIVInfectPerson(st, p2)
	for _, ev := range st.Events.events {
		if !ev.removed && ev.Kind == KindHIVTransmission {
			t.Error("transmission event survived both partners being positive")
		}
	}
}
