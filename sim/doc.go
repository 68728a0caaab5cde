// Package sim provides the core discrete-event simulation engine: an
// individual-based model of STI spread over a dynamic sexual network.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - state.go: the State bundle every event executes against
//   - event.go: the event variants, priority classes and notification rules
//   - simulation.go: the day / priority-class double loop
//
// # Architecture
//
// The sim package owns the entities (persons, relations), the event queue and
// the orchestration; the quantitative machinery lives in sub-packages:
//   - sim/params/: the parameter pack (YAML-loadable, validated)
//   - sim/renewal/: when a person starts their next relationship
//   - sim/duration/: how long a relation lasts
//   - sim/matchmaking/: who is paired with whom, day by day
//   - sim/hazard/: piecewise-constant rate layers and Poisson sampling
//   - sim/transmission/: pathogen transmission times over those layers
//
// Events carry plain identifiers and receive the state by reference at
// execution time. Cross-cutting concerns (a death invalidating pending
// events, a re-sampled transmission replacing a scheduled one) run over two
// notification channels keyed by person id and relation id.
package sim
