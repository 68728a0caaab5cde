package renewal

import "github.com/stinet-sim/stinet-sim/sim/params"

// AgeRateCurve is the cubic polynomial r(t) giving the rate of acquiring new
// relationships as a function of days alive, fitted on [onset, stop] so that
// it integrates to the configured lifetime partner total. The skew parameter
// moves the peak of the shape; the age-effect strength blends the shape with
// a constant rate of equal mass.
type AgeRateCurve struct {
	a, b, c, d float64
}

// NewAgeRateCurve fits the coefficients from the partner-formation
// parameters. Skew must lie inside [0.01, 0.99]: the fit degenerates at the
// boundaries (the shape polynomial loses its area).
func NewAgeRateCurve(pf params.PartnerFormation) AgeRateCurve {
	if pf.Skew < 0.01 || pf.Skew > 0.99 {
		panic("renewal: age-rate curve skew must lie in [0.01, 0.99]")
	}

	b := pf.SexualOnsetDays()
	e := pf.SexualStopDays()
	// The shape polynomial below peaks early for a large s, so it is fed the
	// mirrored skew: a configured skew below 0.5 gives the early peak.
	s := 1 - pf.Skew
	p := 1.0 / (e - b)

	// Fit the shape first, rescaled to an average rate of 1 over [b, e].
	aShape := p * p * p * (2*s - 1) * 12
	bShape := p * p * (3*b*p - 6*b*s*p + 1 - 3*s) * 12
	cShape := p * (6*b*b*s*p*p - 3*b*b*p*p + 6*b*s*p - 2*b*p + s) * 12
	dShape := (b*b*b*p*p*p - 2*b*b*b*s*p*p*p + b*b*p*p - 3*b*b*p*p*s - b*s*p) * 12

	// Blend the shape with a constant of equal average rate: w=1 keeps the
	// full age dependence, w=0 flattens it out entirely.
	w := pf.AgeEffectStrength
	aBlend := w * aShape
	bBlend := w * bShape
	cBlend := w * cShape
	dBlend := w*dShape + (1 - w)

	// Scale from average rate 1 (total mass e-b) to the desired lifetime
	// partner total.
	scale := pf.AverageLifetimePartners / (e - b)
	return AgeRateCurve{
		a: aBlend * scale,
		b: bBlend * scale,
		c: cBlend * scale,
		d: dBlend * scale,
	}
}

// Rate returns r(x) for an age of x days.
func (f AgeRateCurve) Rate(x float64) float64 {
	return f.a*x*x*x + f.b*x*x + f.c*x + f.d
}

// Primitive returns the antiderivative R(x) with R(0)=0.
func (f AgeRateCurve) Primitive(x float64) float64 {
	return f.a/4*x*x*x*x + f.b/3*x*x*x + f.c/2*x*x + f.d*x
}

// Derivative returns r'(x).
func (f AgeRateCurve) Derivative(x float64) float64 {
	return 3*f.a*x*x + 2*f.b*x + f.c
}
