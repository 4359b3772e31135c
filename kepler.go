package twobody

import "math"

const (
	// DefaultTolerance is the relative time of flight tolerance of the iterative solvers.
	DefaultTolerance = 1e-8
	// DefaultMaxIterations bounds every Newton iteration.
	DefaultMaxIterations = 100
	// χResolution is the relative Newton step under which χ cannot be refined in float64.
	χResolution = 4 * 2.220446049250313e-16
)

// universalTime returns the time of flight (seconds) reached at universal
// anomaly χ, and its derivative dt/dχ = r(χ)/√μ.
func universalTime(χ, r0, vr0, α, μ float64) (t, dtdχ float64) {
	sμ := math.Sqrt(μ)
	χ2 := χ * χ
	z := α * χ2
	c2, c3 := Stumpff(z)
	σ0 := r0 * vr0 / sμ
	t = (σ0*χ2*c2 + (1-α*r0)*χ2*χ*c3 + r0*χ) / sμ
	r := χ2*c2 + σ0*χ*(1-z*c3) + r0*(1-z*c2)
	dtdχ = r / sμ
	return
}

// SolveKeplerUniversal solves the universal Kepler equation for the universal
// anomaly χ reached after Δt seconds, starting from the guess χ0.
// r0 is the initial radius, vr0 the initial radial velocity and α = 2/r0 - v0²/μ
// the reciprocal of the semi-major axis, so elliptic, parabolic and hyperbolic
// motion all go through the same Stumpff based equation.
// The iteration stops when the time residual is below tol·max(1, |Δt|) seconds.
func SolveKeplerUniversal(χ0, r0, vr0, α, μ, Δt, tol float64, maxIter int) (float64, error) {
	if μ <= 0 {
		return 0, invalidArgf("gravitational parameter μ=%g must be positive", μ)
	}
	if r0 <= 0 {
		return 0, invalidArgf("initial radius r0=%g must be positive", r0)
	}
	if tol <= 0 || maxIter < 1 {
		return 0, invalidArgf("tolerance %g and iteration budget %d must be positive", tol, maxIter)
	}
	χ := χ0
	residual := math.NaN()
	threshold := tol * math.Max(1, math.Abs(Δt))
	// t(χ) increases monotonically, so every iterate tightens a bracket on the root
	// and Newton steps leaving the bracket fall back to bisection.
	lo, hi := math.Inf(-1), math.Inf(1)
	for iter := 1; iter <= maxIter; iter++ {
		t, dtdχ := universalTime(χ, r0, vr0, α, μ)
		residual = t - Δt
		if math.IsNaN(residual) {
			return χ, &ConvergenceError{Op: "kepler", Iterations: iter, Last: χ, Residual: residual}
		}
		if math.Abs(residual) < threshold {
			return χ, nil
		}
		if residual < 0 {
			lo = χ
		} else {
			hi = χ
		}
		next := χ - residual/dtdχ
		if math.IsNaN(next) || math.IsInf(next, 0) || next <= lo || next >= hi {
			if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
				return χ, &ConvergenceError{Op: "kepler", Iterations: iter, Last: χ, Residual: residual}
			}
			next = (lo + hi) / 2
		}
		if math.Abs(next-χ) <= χResolution*math.Max(1, math.Abs(χ)) {
			return next, nil
		}
		χ = next
	}
	return χ, &ConvergenceError{Op: "kepler", Iterations: maxIter, Last: χ, Residual: residual}
}
