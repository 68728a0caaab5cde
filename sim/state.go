package sim

import (
	"io"
	"math/rand"

	"github.com/stinet-sim/stinet-sim/sim/duration"
	"github.com/stinet-sim/stinet-sim/sim/matchmaking"
	"github.com/stinet-sim/stinet-sim/sim/params"
	"github.com/stinet-sim/stinet-sim/sim/renewal"
	"github.com/stinet-sim/stinet-sim/sim/transmission"
)

// State bundles everything that determines the system at a point in time:
// population, relations, pending events, the supporting engines and their RNG
// streams. It is owned by the Simulation and passed by reference into event
// execution; events themselves never hold on to it.
//
// Construction note: subsystems are seeded in a fixed construction order off
// one seed generator, so a fixed master seed reproduces a run exactly.
type State struct {
	Time            int
	CurrentPriority PriorityClass

	Params    *params.Pack
	Persons   *PersonStore
	Relations *RelationStore
	Events    *EventManager

	Seeds        *SeedGenerator
	RNG          *rand.Rand // shared draws: duration coin flip, symptomatic flag
	ProcessGen   *renewal.Generator
	Durations    *duration.Sampler
	Matchmaker   *matchmaking.Matchmaker
	Transmission *transmission.Engine

	// Out receives the yearly plain-text summaries.
	Out io.Writer

	nextPersonID   int
	nextRelationID int
}

// NewState wires a fresh state for the given pack and master seed.
func NewState(pack *params.Pack, seed int64, out io.Writer) *State {
	pack.Validate()
	seeds := NewSeedGenerator(seed)
	pf := pack.PartnerFormation

	st := &State{
		Params:    pack,
		Persons:   NewPersonStore(),
		Relations: NewRelationStore(),
		Events:    NewEventManager(),
		Seeds:     seeds,
		Out:       out,
	}
	st.ProcessGen = renewal.NewGenerator(
		pf.DailyAverageRate(),
		pf.WeightAverage, pf.WeightShortHistory, pf.WeightLongHistory,
		pf.ShortDecayRateDays, pf.LongDecayRateDays,
		pf.StatProcessPrearrival,
		seeds.Next(),
	)
	st.Durations = duration.NewSampler(pack.RelationDuration, seeds.Next())
	st.RNG = seeds.NewRand()
	st.Matchmaker = matchmaking.New(pack.Matchmaking, seeds.Next())
	st.Transmission = transmission.NewEngine(
		pack.SexualBehavior, pack.HIV, pack.Gonorrhea, seeds.Next())
	return st
}

// NewPerson creates a person born on the given day, with a unique id and a
// personal relationship timer spawned off the shared warmed process.
func (st *State) NewPerson(dayOfBirth int) *Person {
	p := &Person{
		ID:         st.nextPersonID,
		DayOfBirth: dayOfBirth,
		HIV:        HIVStatus{TInfected: -1},
		Gonorrhea:  GonorrheaStatus{TInfected: -1},
	}
	st.nextPersonID++
	p.timer = renewal.NewTimer(st.Params.PartnerFormation, st.ProcessGen.Spawn(st.Seeds.Next()))
	return p
}

// AgeYears returns a person's age in years at the current simulation time.
func (st *State) AgeYears(p *Person) float64 {
	return float64(st.Time-p.DayOfBirth) / params.DaysPerYear
}
