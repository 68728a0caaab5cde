// Package transmission computes the time until the next infection event
// inside a relation. Pathogen-specific infectivity profiles and the shared
// sexual-contact rate are expressed as hazard layers; their product drives an
// inhomogeneous Poisson draw.
//
// The engine deliberately knows nothing about persons or relations: callers
// pass plain infection facts (time since infection, co-infection flags) and
// get back a time offset in days, or hazard.NoArrival.
package transmission

import (
	"math/rand"

	"github.com/stinet-sim/stinet-sim/sim/hazard"
	"github.com/stinet-sim/stinet-sim/sim/params"
)

// NoTransmission mirrors hazard.NoArrival for callers of this package.
const NoTransmission = hazard.NoArrival

// Engine composes the behavior and pathogen layers and samples transmission
// times. One engine serves the whole simulation; it owns its RNG.
type Engine struct {
	behavior     hazard.Layer // constant unprotected-contact rate
	hivBase      hazard.Layer // infectivity since infection, scaled by base rate
	gnBase       hazard.Layer
	posHasGNMult float64
	negHasGNMult float64
	rng          *rand.Rand
}

// NewEngine precomputes the static layers from the parameter pack.
func NewEngine(sb params.SexualBehavior, hiv params.HIV, gn params.Gonorrhea, seed int64) *Engine {
	e := &Engine{
		posHasGNMult: hiv.PosHasGonorrheaMultiplier,
		negHasGNMult: hiv.NegHasGonorrheaMultiplier,
		rng:          rand.New(rand.NewSource(seed)),
	}

	// Unprotected contact happens at the sex frequency times the share of
	// contacts without a condom.
	uaiRate := (1 - sb.CondomUse) * sb.SexFrequency
	e.behavior = hazard.Layer{{X: 0, Y: uaiRate}}

	for _, period := range hiv.InfectivityOverTime {
		e.hivBase = append(e.hivBase, hazard.Coord{X: period.Start, Y: period.Multiplier * hiv.BaseRate})
	}
	e.hivBase.Validate()

	e.gnBase = hazard.Layer{{X: 0, Y: gn.BaseRate}}
	return e
}

// HIVLayer builds the per-contact HIV transmission profile for a
// serodiscordant pair: the staged infectivity profile shifted so x=0 is now
// (the infected partner is tSinceInfection days in), scaled up when either
// side carries gonorrhea.
func (e *Engine) HIVLayer(tSinceInfection int, infectedHasGN, susceptibleHasGN bool) hazard.Layer {
	if tSinceInfection < 0 {
		panic("transmission: negative time since HIV infection")
	}
	layer := e.hivBase.Clone()

	multiplier := 1.0
	if infectedHasGN {
		multiplier *= e.posHasGNMult
	}
	if susceptibleHasGN {
		multiplier *= e.negHasGNMult
	}
	for i := range layer {
		layer[i].Y *= multiplier
	}

	layer.MoveForward(-float64(tSinceInfection))
	return layer
}

// HIVTransmissionTime samples the days from now until HIV crosses the
// relation, or NoTransmission.
func (e *Engine) HIVTransmissionTime(tSinceInfection int, infectedHasGN, susceptibleHasGN bool) float64 {
	return e.sample(e.HIVLayer(tSinceInfection, infectedHasGN, susceptibleHasGN))
}

// GNTransmissionTime samples the days from now until gonorrhea crosses the
// relation, or NoTransmission. The gonorrhea profile is flat, so no shifting
// is needed.
func (e *Engine) GNTransmissionTime() float64 {
	return e.sample(e.gnBase)
}

// sample multiplies a pathogen layer with the contact layer and draws the
// next arrival of the resulting inhomogeneous process.
func (e *Engine) sample(pathogen hazard.Layer) float64 {
	total := hazard.Multiply(e.behavior, pathogen)
	return hazard.NextArrival(total, e.rng)
}
