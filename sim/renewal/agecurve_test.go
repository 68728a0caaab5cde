package renewal

import (
	"math"
	"testing"

	"github.com/stinet-sim/stinet-sim/sim/params"
)

func formation(skew, strength float64) params.PartnerFormation {
	return params.PartnerFormation{
		StatProcessAverage:      16,
		WeightAverage:           1,
		SexualOnset:             15,
		SexualStop:              80,
		AverageLifetimePartners: 300,
		Skew:                    skew,
		AgeEffectStrength:       strength,
	}
}

func TestAgeRateCurve_IntegratesToLifetimePartners(t *testing.T) {
	tests := []struct {
		name     string
		skew     float64
		strength float64
	}{
		{"symmetric full age effect", 0.5, 1},
		{"early peak", 0.2, 1},
		{"late peak", 0.8, 1},
		{"no age effect", 0.5, 0},
		{"half age effect", 0.35, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf := formation(tt.skew, tt.strength)
			curve := NewAgeRateCurve(pf)

			total := curve.Primitive(pf.SexualStopDays()) - curve.Primitive(pf.SexualOnsetDays())
			if math.Abs(total-300) > 0.001*300 {
				t.Errorf("integral over the career: got %v, want 300 within 0.1%%", total)
			}
		})
	}
}

func TestAgeRateCurve_ConstantWhenAgeEffectOff(t *testing.T) {
	// GIVEN age effect strength 0
	pf := formation(0.5, 0)
	curve := NewAgeRateCurve(pf)

	// THEN the rate is flat across the career
	r0 := curve.Rate(pf.SexualOnsetDays())
	for age := pf.SexualOnsetDays(); age <= pf.SexualStopDays(); age += 1000 {
		if math.Abs(curve.Rate(age)-r0) > 1e-9 {
			t.Fatalf("rate at age %v: got %v, want constant %v", age, curve.Rate(age), r0)
		}
	}
}

func TestAgeRateCurve_SkewMovesThePeak(t *testing.T) {
	// GIVEN an early-peak and a late-peak curve
	early := NewAgeRateCurve(formation(0.2, 1))
	late := NewAgeRateCurve(formation(0.8, 1))

	peakOf := func(c AgeRateCurve) float64 {
		best, bestRate := 0.0, math.Inf(-1)
		for age := 15.0 * 365; age <= 80*365; age += 10 {
			if r := c.Rate(age); r > bestRate {
				best, bestRate = age, r
			}
		}
		return best
	}

	// THEN the early-skew peak comes before the late-skew peak
	if peakOf(early) >= peakOf(late) {
		t.Errorf("early peak at %v not before late peak at %v", peakOf(early), peakOf(late))
	}
}

func TestAgeRateCurve_RejectsBoundarySkew(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for skew outside [0.01, 0.99]")
		}
	}()
	NewAgeRateCurve(formation(0.0, 1))
}

func TestAgeRateCurve_DerivativeMatchesRate(t *testing.T) {
	curve := NewAgeRateCurve(formation(0.4, 1))

	// Finite-difference check of both calculus helpers at a few ages.
	const h = 1e-3
	for _, age := range []float64{6000, 12000, 20000, 27000} {
		wantRate := (curve.Primitive(age+h) - curve.Primitive(age-h)) / (2 * h)
		if math.Abs(curve.Rate(age)-wantRate) > 1e-4 {
			t.Errorf("rate at %v: got %v, want primitive slope %v", age, curve.Rate(age), wantRate)
		}
		wantDeriv := (curve.Rate(age+h) - curve.Rate(age-h)) / (2 * h)
		if math.Abs(curve.Derivative(age)-wantDeriv) > 1e-4 {
			t.Errorf("derivative at %v: got %v, want rate slope %v", age, curve.Derivative(age), wantDeriv)
		}
	}
}
