// Package twobody solves the two-body problem: universal variable propagation of
// Keplerian orbits, conversions between state vectors and classical orbital elements,
// Lambert's boundary value problem and impulsive Hohmann and bi-elliptic transfers.
//
// Distances are in km, velocities in km/s, times in seconds and angles in radians.
package twobody

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// parabolicαε is the |α·r0| under which the parabolic initial guess is used.
const parabolicαε = 1e-6

// Propagate is the same as PropagatePrecise with the default tolerance and iteration budget.
func Propagate(s StateVector, μ, Δt float64) (StateVector, error) {
	return PropagatePrecise(s, μ, Δt, DefaultTolerance, DefaultMaxIterations)
}

// PropagatePrecise advances a state vector by Δt seconds (which may be negative)
// with the universal variable formulation of Kepler's equation, which covers
// circular, elliptic, parabolic and hyperbolic orbits alike.
// A zero Δt returns the input state unchanged.
func PropagatePrecise(s StateVector, μ, Δt, tol float64, maxIter int) (StateVector, error) {
	if !(μ > 0) {
		return StateVector{}, invalidArgf("gravitational parameter μ=%g must be positive", μ)
	}
	r0 := r3.Norm(s.R)
	if r0 < positionε {
		return StateVector{}, &DegenerateOrbitError{Reason: "position vector is at the focus"}
	}
	if Δt == 0 {
		return s, nil
	}
	v0 := r3.Norm(s.V)
	vr0 := r3.Dot(s.R, s.V) / r0
	α := 2/r0 - v0*v0/μ

	χ, err := SolveKeplerUniversal(universalGuess(s, r0, α, μ, Δt), r0, vr0, α, μ, Δt, tol, maxIter)
	if err != nil {
		return StateVector{}, err
	}

	// Lagrange coefficients. g uses the time actually reached at χ so that
	// f·ġ - ḟ·g = 1 holds to round-off, whatever the residual.
	sμ := math.Sqrt(μ)
	χ2 := χ * χ
	z := α * χ2
	c2, c3 := Stumpff(z)
	t, _ := universalTime(χ, r0, vr0, α, μ)
	f := 1 - χ2/r0*c2
	g := t - χ2*χ/sμ*c3
	R := r3.Add(r3.Scale(f, s.R), r3.Scale(g, s.V))
	r := r3.Norm(R)
	fDot := sμ / (r * r0) * χ * (z*c3 - 1)
	gDot := 1 - χ2/r*c2
	V := r3.Add(r3.Scale(fDot, s.R), r3.Scale(gDot, s.V))
	return StateVector{R: R, V: V}, nil
}

// universalGuess returns the initial universal anomaly guess, from Vallado's KEPLER algorithm.
func universalGuess(s StateVector, r0, α, μ, Δt float64) (χ0 float64) {
	sμ := math.Sqrt(μ)
	switch {
	case α*r0 > parabolicαε:
		χ0 = sμ * Δt * α
	case α*r0 < -parabolicαε:
		a := 1 / α
		sΔt := sign(Δt)
		χ0 = sΔt * math.Sqrt(-a) * math.Log((-2*μ*α*Δt)/(r3.Dot(s.R, s.V)+sΔt*math.Sqrt(-μ*a)*(1-r0*α)))
	default:
		p := math.Pow(r3.Norm(s.H()), 2) / μ
		ŝ := 0.5 * math.Atan(1/(3*math.Sqrt(μ/(p*p*p))*Δt))
		w := math.Atan(math.Cbrt(math.Tan(ŝ)))
		χ0 = math.Sqrt(p) * 2 / math.Tan(2*w)
	}
	if math.IsNaN(χ0) || math.IsInf(χ0, 0) {
		// First order guess.
		χ0 = sμ * Δt / r0
	}
	return
}
