// sim/simulation.go
package sim

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/stinet-sim/stinet-sim/sim/params"
)

// Simulation is the control room: it owns the state and drives the day /
// priority-class double loop until the requested horizon.
type Simulation struct {
	state *State
}

// NewSimulation builds a ready-to-run simulation from a validated parameter
// pack, a master seed and the sink for the yearly summaries.
func NewSimulation(pack *params.Pack, seed int64, out io.Writer) *Simulation {
	return &Simulation{state: NewState(pack, seed, out)}
}

// State exposes the owned state; used by reports and tests.
func (s *Simulation) State() *State {
	return s.state
}

// Run initializes the population, seeds the epidemics, and executes days
// [0, days). Within a day every priority class is drained in its fixed
// order; the state's time and current priority are set around each drain so
// executing code can never disagree with the scheduler about where it is.
func (s *Simulation) Run(days int) {
	st := s.state

	Populate(st)

	persons := st.Persons.All()
	nHIV := st.Params.Demographics.InitialHIVInfected
	nGN := st.Params.Demographics.InitialGNInfected
	if nHIV+nGN > len(persons) {
		panic("sim: more seeded infections than persons")
	}
	for _, p := range persons[:nHIV] {
		HIVInfectPerson(st, p)
	}
	for _, p := range persons[nHIV : nHIV+nGN] {
		GNInfectPerson(st, p)
	}

	st.Events.Add(newBirthsEvent(0))
	st.Events.Add(newMatchmakingEvent(0))

	fmt.Fprintf(st.Out, "Started with seed: %d\n\n", st.Seeds.Seed())
	logrus.Infof("Simulation started: seed=%d population=%d days=%d",
		st.Seeds.Seed(), st.Persons.Size(), days)

	for t := 0; t < days; t++ {
		for p := priorityFirst; p <= priorityLast; p++ {
			st.Time = t
			st.CurrentPriority = p
			st.Events.ExecuteAll(st, t, p)
		}

		if t%365 == 0 {
			fmt.Fprint(st.Out, st.Matchmaker.Report())
			fmt.Fprint(st.Out, ExportResults(st))
		}
	}
	logrus.Infof("[day %07d] Simulation ended", st.Time)
}
