// Package params holds the parameter pack: every tunable that determines the
// inner workings of the model in one YAML-loadable struct tree.
//
// Convention: the pack is written in YEARS where that is the natural unit for
// a reader (ages, sexual career bounds, partners per year); the model itself
// always runs in DAYS. Conversion happens at ingestion through the *Days
// accessors, never at call sites.
package params

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// DaysPerYear is the fixed conversion applied to every year-typed parameter.
const DaysPerYear = 365

// Demographics controls population size and epidemic seeding.
type Demographics struct {
	// InitialPopulation is the constant target size of the sexually active
	// population. Daily births top the population back up to this number.
	InitialPopulation int `yaml:"initial_population"`
	// InitialHIVInfected persons are seeded with HIV at start.
	InitialHIVInfected int `yaml:"initial_hiv_infected"`
	// InitialGNInfected persons are seeded with gonorrhea at start.
	InitialGNInfected int `yaml:"initial_gn_infected"`
}

// PartnerFormation parameterizes when people start new relationships: the
// stationary arrival process and the age-dependent rate curve it is warped by.
type PartnerFormation struct {
	// StatProcessAverage is the long-run mean arrival rate in partners per
	// YEAR; the process itself runs on a per-day rate.
	StatProcessAverage    float64 `yaml:"stat_process_average"`
	StatProcessPrearrival int     `yaml:"stat_process_n_prearrivals"`
	WeightAverage         float64 `yaml:"stat_process_weight_average"`
	WeightShortHistory    float64 `yaml:"stat_process_weight_short_history"`
	WeightLongHistory     float64 `yaml:"stat_process_weight_long_history"`
	ShortDecayRateDays    float64 `yaml:"stat_process_short_decay_rate_days"`
	LongDecayRateDays     float64 `yaml:"stat_process_long_decay_rate_days"`

	// SexualOnset and SexualStop bound the sexual career, in years since
	// birth. Death happens at SexualStop.
	SexualOnset float64 `yaml:"sexual_onset"`
	SexualStop  float64 `yaml:"sexual_stop"`

	// AverageLifetimePartners scales the age-rate curve so that it
	// integrates to this total over the sexual career.
	AverageLifetimePartners float64 `yaml:"average_total_lifetime_n_partners"`
	// Skew moves the peak of the age-rate curve: 0.5 symmetric, below 0.5
	// an early peak, above 0.5 a late peak.
	Skew float64 `yaml:"rate_given_age_formula_skew"`
	// AgeEffectStrength blends the fitted curve with a constant rate:
	// 1 fully age-dependent, 0 a flat rate.
	AgeEffectStrength float64 `yaml:"age_effect_strength"`
}

// SexualOnsetDays returns the onset in simulation days.
func (p PartnerFormation) SexualOnsetDays() float64 {
	return p.SexualOnset * DaysPerYear
}

// SexualStopDays returns the stop (= death age) in simulation days.
func (p PartnerFormation) SexualStopDays() float64 {
	return p.SexualStop * DaysPerYear
}

// DailyAverageRate converts the yearly stationary-process mean to per-day.
func (p PartnerFormation) DailyAverageRate() float64 {
	return p.StatProcessAverage / DaysPerYear
}

// RelationDuration parameterizes how long relations last.
type RelationDuration struct {
	Distribution string  `yaml:"distribution"`
	Mean         float64 `yaml:"mean"`     // days
	Variance     float64 `yaml:"variance"` // days^2
	// Monogamy couples duration to the time until the next relation:
	// 1 fully monogamous (short gap -> short relation), 0 fully concurrent.
	Monogamy float64 `yaml:"monogamy"`
}

// AgeGroup is a contiguous age interval in years, upper bound including.
type AgeGroup struct {
	Lower float64 `yaml:"lower"`
	Upper float64 `yaml:"upper"`
}

// DurationGroup is a contiguous integer range of requested durations in days,
// both bounds including.
type DurationGroup struct {
	Lower int `yaml:"lower"`
	Upper int `yaml:"upper"`
}

// Matchmaking parameterizes the daily partner-assignment engine.
type Matchmaking struct {
	AgeGroups            []AgeGroup `yaml:"age_groups"`
	AgeGroupPreferenceSD float64    `yaml:"age_group_preference_sd"`

	// Matches only form within the same duration group.
	DurationGroups []DurationGroup `yaml:"duration_groups"`

	// WeightNewDatabaseUpdate is the floor of the tapering weight used for
	// the running group-proportion estimate. Lower is better and slower.
	WeightNewDatabaseUpdate float64 `yaml:"weight_new_database_update"`
	// NRelationMatrixIterations bounds the partner-choice matrix solver.
	NRelationMatrixIterations int `yaml:"n_relation_matrix_iterations"`
	// GroupEstimateErrorTolerance is the proportion drift that triggers a
	// re-solve of the partner-choice matrix.
	GroupEstimateErrorTolerance float64 `yaml:"group_estimate_error_tolerance"`
}

// SexualBehavior holds the parameters of the shared sexual-contact layer.
type SexualBehavior struct {
	SexFrequency float64 `yaml:"sex_frequency"` // times per day
	CondomUse    float64 `yaml:"condom_use"`    // fraction of the time
}

// InfectivityPeriod scales the base transmission rate from day Start (since
// infection) onward, until the next period starts.
type InfectivityPeriod struct {
	Start      float64 `yaml:"start"` // days since infection
	Multiplier float64 `yaml:"multiplier"`
}

// HIV holds the HIV transmission parameters.
type HIV struct {
	BaseRate float64 `yaml:"base_rate"` // per unprotected contact
	// InfectivityOverTime is the staged infectivity profile (acute /
	// chronic / late), as multipliers on BaseRate by time since infection.
	InfectivityOverTime []InfectivityPeriod `yaml:"infectivity_over_time"`
	// Co-infection multipliers when either side has gonorrhea.
	PosHasGonorrheaMultiplier float64 `yaml:"hiv_pos_has_gonorrhea_multiplier"`
	NegHasGonorrheaMultiplier float64 `yaml:"hiv_neg_has_gonorrhea_multiplier"`
}

// Gonorrhea holds the gonorrhea transmission and natural-cure parameters.
type Gonorrhea struct {
	BaseRate                float64 `yaml:"base_rate"`
	ProbabilitySymptomatic  float64 `yaml:"probability_symptomatic"`
	NaturalCureSymptomatic  int     `yaml:"natural_cure_symptomatic"`  // days
	NaturalCureAsymptomatic int     `yaml:"natural_cure_asymptomatic"` // days
}

// Pack aggregates every parameter group. Immutable after construction.
type Pack struct {
	Demographics     Demographics     `yaml:"demographics"`
	PartnerFormation PartnerFormation `yaml:"partner_formation"`
	RelationDuration RelationDuration `yaml:"relation_duration"`
	Matchmaking      Matchmaking      `yaml:"matchmaking"`
	SexualBehavior   SexualBehavior   `yaml:"sexual_behavior"`
	HIV              HIV              `yaml:"hiv"`
	Gonorrhea        Gonorrhea        `yaml:"gonorrhea"`
}

// Default returns the pack with the fitted defaults.
func Default() *Pack {
	return &Pack{
		Demographics: Demographics{
			InitialPopulation:  23800,
			InitialHIVInfected: 500,
			InitialGNInfected:  500,
		},
		PartnerFormation: PartnerFormation{
			StatProcessAverage:    16,
			StatProcessPrearrival: 1000000,
			WeightAverage:         0.5,
			WeightShortHistory:    0.5,
			WeightLongHistory:     0,
			ShortDecayRateDays:    1.0 / 30.0,
			LongDecayRateDays:     1.0 / 3650.0,

			SexualOnset: 15,
			SexualStop:  80,

			AverageLifetimePartners: 300,
			Skew:                    0.5,
			AgeEffectStrength:       1,
		},
		RelationDuration: RelationDuration{
			Distribution: "gamma",
			Mean:         20,
			Variance:     40,
			Monogamy:     0.5,
		},
		Matchmaking: Matchmaking{
			AgeGroups: []AgeGroup{
				{15, 20}, {20, 25}, {25, 30}, {30, 35}, {35, 40},
				{40, 45}, {45, 50}, {50, 55}, {55, 60}, {60, 65},
				{65, 70}, {70, 75}, {75, 80},
			},
			AgeGroupPreferenceSD: 12,
			DurationGroups: []DurationGroup{
				{0, 0}, {1, 1}, {2, 3}, {4, 7}, {8, 15}, {16, 31},
				{32, 61}, {62, 183}, {184, 365}, {366, 730},
				{731, 1825}, {1826, 3560}, {3561, math.MaxInt32},
			},
			WeightNewDatabaseUpdate:     0.001,
			NRelationMatrixIterations:   50,
			GroupEstimateErrorTolerance: 0.001,
		},
		SexualBehavior: SexualBehavior{
			SexFrequency: 1.0 / 3.0,
			CondomUse:    0.6,
		},
		HIV: HIV{
			BaseRate: 0.005,
			InfectivityOverTime: []InfectivityPeriod{
				{0, 5},
				{400, 0.9},
				{3650, 1.1},
			},
			PosHasGonorrheaMultiplier: 1.5,
			NegHasGonorrheaMultiplier: 1.5,
		},
		Gonorrhea: Gonorrhea{
			BaseRate:                0.30,
			ProbabilitySymptomatic:  0.6,
			NaturalCureSymptomatic:  45,
			NaturalCureAsymptomatic: 200,
		},
	}
}

// Load reads YAML overrides from path on top of the defaults.
func Load(path string) (*Pack, error) {
	pack := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read parameter pack: %w", err)
	}
	if err := yaml.Unmarshal(data, pack); err != nil {
		return nil, fmt.Errorf("parse parameter pack: %w", err)
	}
	pack.Validate()
	return pack, nil
}

// Validate panics on the first violated parameter contract. The model is
// fully self-contained, so a bad pack is a programmer error, not an
// environmental fault.
func (p *Pack) Validate() {
	pf := p.PartnerFormation
	if pf.SexualOnset >= pf.SexualStop {
		panic("params: sexual_onset must be below sexual_stop")
	}
	wsum := pf.WeightAverage + pf.WeightShortHistory + pf.WeightLongHistory
	if math.Abs(wsum-1) > 1e-9 {
		panic("params: stationary process weights must sum to 1")
	}
	if pf.Skew < 0.01 || pf.Skew > 0.99 {
		// The curve fit degenerates at the boundaries.
		panic("params: rate_given_age_formula_skew must lie in [0.01, 0.99]")
	}
	if pf.AgeEffectStrength < 0 || pf.AgeEffectStrength > 1 {
		panic("params: age_effect_strength must lie in [0, 1]")
	}

	rd := p.RelationDuration
	if rd.Distribution != "gamma" {
		panic("params: relation_duration.distribution must be \"gamma\"")
	}
	if rd.Variance > rd.Mean*rd.Mean {
		panic("params: relation_duration variance must not exceed mean^2")
	}
	if rd.Monogamy < 0 || rd.Monogamy > 1 {
		panic("params: relation_duration.monogamy must lie in [0, 1]")
	}

	mm := p.Matchmaking
	if len(mm.AgeGroups) == 0 || len(mm.DurationGroups) == 0 {
		panic("params: matchmaking needs at least one age and duration group")
	}
	for i, g := range mm.AgeGroups {
		if g.Lower >= g.Upper {
			panic("params: age group with non-ascending bounds")
		}
		if i > 0 && g.Lower != mm.AgeGroups[i-1].Upper {
			panic("params: age groups must be contiguous")
		}
	}
	for i, g := range mm.DurationGroups {
		if g.Lower > g.Upper {
			panic("params: duration group with non-ascending bounds")
		}
		if i > 0 && g.Lower != mm.DurationGroups[i-1].Upper+1 {
			panic("params: duration groups must be contiguous")
		}
	}
	if mm.DurationGroups[0].Lower != 0 {
		panic("params: duration groups must start at 0")
	}

	sb := p.SexualBehavior
	if sb.CondomUse < 0 || sb.CondomUse > 1 {
		panic("params: sexual_behavior.condom_use must lie in [0, 1]")
	}

	if len(p.HIV.InfectivityOverTime) == 0 {
		panic("params: hiv.infectivity_over_time needs at least one period")
	}
	for i, period := range p.HIV.InfectivityOverTime {
		if i > 0 && period.Start <= p.HIV.InfectivityOverTime[i-1].Start {
			panic("params: hiv.infectivity_over_time must have ascending starts")
		}
	}

	gn := p.Gonorrhea
	if gn.ProbabilitySymptomatic < 0 || gn.ProbabilitySymptomatic > 1 {
		panic("params: gonorrhea.probability_symptomatic must lie in [0, 1]")
	}
}
