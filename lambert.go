package twobody

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Direction defines the direction of motion of a Lambert transfer.
type Direction uint8

const (
	// ShortWay is the transfer with a transfer angle below π. It is the default.
	ShortWay Direction = iota
	// LongWay is the transfer with a transfer angle above π.
	LongWay
	// Prograde picks the short or long way so that the motion is about +Z.
	Prograde
	// Retrograde picks the short or long way so that the motion is about -Z.
	Retrograde
)

func (d Direction) String() string {
	switch d {
	case ShortWay:
		return "short"
	case LongWay:
		return "long"
	case Prograde:
		return "prograde"
	case Retrograde:
		return "retrograde"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// ParseDirection returns the direction named by s (short, long, prograde or retrograde).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "short", "shortway", "short-way":
		return ShortWay, nil
	case "long", "longway", "long-way":
		return LongWay, nil
	case "prograde":
		return Prograde, nil
	case "retrograde":
		return Retrograde, nil
	}
	return ShortWay, invalidArgf("unknown transfer direction %q", s)
}

// Branch selects one of the two solutions of a multi-revolution Lambert problem.
type Branch uint8

const (
	// LeftBranch is the solution below the minimum time of flight point, the high energy one.
	LeftBranch Branch = iota
	// RightBranch is the solution above the minimum time of flight point.
	RightBranch
)

func (b Branch) String() string {
	switch b {
	case LeftBranch:
		return "left branch"
	case RightBranch:
		return "right branch"
	default:
		return fmt.Sprintf("Branch(%d)", uint8(b))
	}
}

// ParseBranch returns the branch named by s (left or right).
func ParseBranch(s string) (Branch, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "left", "left branch":
		return LeftBranch, nil
	case "right", "right branch":
		return RightBranch, nil
	}
	return LeftBranch, invalidArgf("unknown Lambert branch %q", s)
}

// Transfer describes which Lambert solution is requested.
// The zero value is the short way with zero revolutions.
// Branch is only read when Revolutions is positive.
type Transfer struct {
	Direction   Direction
	Revolutions uint
	Branch      Branch
}

func (t Transfer) String() string {
	if t.Revolutions == 0 {
		return fmt.Sprintf("%s way, 0 rev", t.Direction)
	}
	return fmt.Sprintf("%s way, %d rev, %s", t.Direction, t.Revolutions, t.Branch)
}

const (
	lambertε = 1e-10 // 1 ± cos Δν under which the transfer plane is undefined
	// lambertψEdge keeps √ψ away from the multiples of 2π where c2 vanishes.
	lambertψEdge = 1e-5
	// lambertψParabolic is the |ψ| under which dt/dψ uses its parabolic limit.
	lambertψParabolic = 1e-6
	lambertMaxExpand  = 60
	lambertGoldenIter = 200
)

// Lambert is the same as PreciseLambert with the default tolerance and iteration budget.
func Lambert(Ri, Rf r3.Vec, Δt, μ float64, t Transfer) (Vi, Vf r3.Vec, err error) {
	return PreciseLambert(Ri, Rf, Δt, μ, t, DefaultTolerance, DefaultMaxIterations)
}

// PreciseLambert solves Lambert's problem: it returns the initial and final velocities
// of the conic which goes from Ri to Rf in Δt seconds about a body of gravitational
// parameter μ.
// It uses the universal variable formulation from Vallado (algorithm 58), where the
// Newton iteration on ψ is kept within a bisection bracket. For multi-revolution
// transfers, the ψ interval of the requested revolution count is split at its minimum
// time of flight, found by golden-section search, and the branch picks the side.
func PreciseLambert(Ri, Rf r3.Vec, Δt, μ float64, t Transfer, tol float64, maxIter int) (Vi, Vf r3.Vec, err error) {
	if !(μ > 0) {
		err = invalidArgf("gravitational parameter μ=%g must be positive", μ)
		return
	}
	if !(Δt > 0) || math.IsInf(Δt, 0) {
		err = invalidArgf("time of flight Δt=%g must be positive", Δt)
		return
	}
	if t.Direction > Retrograde {
		err = invalidArgf("unknown transfer direction %s", t.Direction)
		return
	}
	if t.Branch > RightBranch {
		err = invalidArgf("unknown Lambert branch %s", t.Branch)
		return
	}
	if tol <= 0 || maxIter < 1 {
		err = invalidArgf("tolerance %g and iteration budget %d must be positive", tol, maxIter)
		return
	}
	rI := r3.Norm(Ri)
	rF := r3.Norm(Rf)
	if rI < positionε || rF < positionε {
		err = &DegenerateOrbitError{Reason: "Lambert end point is at the focus"}
		return
	}

	cosΔν := clampUnit(r3.Dot(Ri, Rf) / (rI * rF))
	if 1+cosΔν < lambertε || 1-cosΔν < lambertε {
		err = &DegenerateGeometryError{TransferAngle: math.Acos(cosΔν)}
		return
	}
	dm := 1.0
	switch t.Direction {
	case LongWay:
		dm = -1
	case Prograde:
		if r3.Cross(Ri, Rf).Z < 0 {
			dm = -1
		}
	case Retrograde:
		if r3.Cross(Ri, Rf).Z >= 0 {
			dm = -1
		}
	}

	p := lambertProblem{rI: rI, rF: rF, A: dm * math.Sqrt(rI*rF*(1+cosΔν)), sμ: math.Sqrt(μ)}
	var ψ float64
	if t.Revolutions == 0 {
		ψ, err = p.solveDirect(Δt, tol, maxIter)
	} else {
		ψ, err = p.solveMultiRev(Δt, t.Revolutions, t.Branch, tol, maxIter)
	}
	if err != nil {
		return
	}

	c2, c3 := Stumpff(ψ)
	y := p.y(ψ, c2, c3)
	f := 1 - y/rI
	g := p.A * math.Sqrt(y/μ)
	gDot := 1 - y/rF
	if g == 0 || math.IsNaN(g) {
		err = &DegenerateOrbitError{Reason: "Lambert solution has a null Lagrange g coefficient"}
		return
	}
	Vi = r3.Scale(1/g, r3.Sub(Rf, r3.Scale(f, Ri)))
	Vf = r3.Scale(1/g, r3.Sub(r3.Scale(gDot, Rf), Ri))
	return
}

// lambertProblem holds the geometry of a Lambert problem, A being signed by the direction of motion.
type lambertProblem struct {
	rI, rF, A, sμ float64
}

func (p lambertProblem) y(ψ, c2, c3 float64) float64 {
	return p.rI + p.rF + p.A*(ψ*c3-1)/math.Sqrt(c2)
}

// tof returns the time of flight at ψ. A negative y is not reachable and counts as a zero time of flight.
func (p lambertProblem) tof(ψ float64) float64 {
	c2, c3 := Stumpff(ψ)
	y := p.y(ψ, c2, c3)
	if y < 0 {
		return 0
	}
	χ := math.Sqrt(y / c2)
	return (χ*χ*χ*c3 + p.A*math.Sqrt(y)) / p.sμ
}

// dtof returns dt/dψ, from Curtis (eq. 5.43).
func (p lambertProblem) dtof(ψ float64) float64 {
	c2, c3 := Stumpff(ψ)
	y := p.y(ψ, c2, c3)
	var dF float64
	if math.Abs(ψ) < lambertψParabolic {
		dF = math.Sqrt2/40*math.Pow(y, 1.5) + p.A/8*(math.Sqrt(y)+p.A*math.Sqrt(1/(2*y)))
	} else {
		dF = math.Pow(y/c2, 1.5)*((c2-3*c3/(2*c2))/(2*ψ)+3*c3*c3/(4*c2)) +
			p.A/8*(3*c3/c2*math.Sqrt(y)+p.A*math.Sqrt(c2/y))
	}
	return dF / p.sμ
}

// solveDirect solves the zero revolution problem, where the time of flight increases with ψ.
func (p lambertProblem) solveDirect(Δt, tol float64, maxIter int) (float64, error) {
	hi := math.Pow(twoPi-lambertψEdge, 2)
	if tHi := p.tof(hi); !(tHi > Δt) {
		return 0, &NoSolutionError{MinTimeOfFlight: math.NaN()}
	}
	lo := -4 * math.Pi
	for i := 0; ; i++ {
		tLo := p.tof(lo)
		if math.IsNaN(tLo) || i == lambertMaxExpand {
			// Hyperbolic long way transfers are bounded below.
			return 0, &NoSolutionError{MinTimeOfFlight: math.NaN()}
		}
		if tLo < Δt {
			break
		}
		hi = lo
		lo *= 2
	}
	ψ0 := 0.
	if ψ0 <= lo || ψ0 >= hi {
		ψ0 = (lo + hi) / 2
	}
	return p.newton(ψ0, lo, hi, Δt, true, tol, maxIter)
}

// solveMultiRev solves the problem for n complete revolutions on the requested branch.
func (p lambertProblem) solveMultiRev(Δt float64, n uint, b Branch, tol float64, maxIter int) (float64, error) {
	lo := math.Pow(twoPi*float64(n)+lambertψEdge, 2)
	hi := math.Pow(twoPi*float64(n+1)-lambertψEdge, 2)
	ψmin := p.minTOF(lo, hi)
	tmin := p.tof(ψmin)
	if Δt < tmin {
		return 0, &NoSolutionError{Revolutions: n, Branch: b, MinTimeOfFlight: tmin}
	}
	if b == LeftBranch {
		if !(p.tof(lo) > Δt) {
			return 0, &NoSolutionError{Revolutions: n, Branch: b, MinTimeOfFlight: math.NaN()}
		}
		return p.newton((lo+ψmin)/2, lo, ψmin, Δt, false, tol, maxIter)
	}
	if !(p.tof(hi) > Δt) {
		return 0, &NoSolutionError{Revolutions: n, Branch: b, MinTimeOfFlight: math.NaN()}
	}
	return p.newton((ψmin+hi)/2, ψmin, hi, Δt, true, tol, maxIter)
}

// minTOF returns the ψ of minimum time of flight within [lo, hi] by golden-section search.
func (p lambertProblem) minTOF(lo, hi float64) float64 {
	const invφ = 0.6180339887498949
	a, b := lo, hi
	c := b - invφ*(b-a)
	d := a + invφ*(b-a)
	tc, td := p.tof(c), p.tof(d)
	for i := 0; i < lambertGoldenIter && b-a > χResolution*b; i++ {
		if tc < td {
			b, d, td = d, c, tc
			c = b - invφ*(b-a)
			tc = p.tof(c)
		} else {
			a, c, tc = c, d, td
			d = a + invφ*(b-a)
			td = p.tof(d)
		}
	}
	return (a + b) / 2
}

// newton finds the ψ in (lo, hi) where the time of flight is Δt. Newton steps which leave the
// bracket fall back to bisection.
func (p lambertProblem) newton(ψ, lo, hi, Δt float64, increasing bool, tol float64, maxIter int) (float64, error) {
	threshold := tol * math.Max(1, Δt)
	residual := math.NaN()
	for iter := 1; iter <= maxIter; iter++ {
		residual = p.tof(ψ) - Δt
		if math.Abs(residual) < threshold {
			return ψ, nil
		}
		if (residual < 0) == increasing {
			lo = ψ
		} else {
			hi = ψ
		}
		next := ψ - residual/p.dtof(ψ)
		if math.IsNaN(next) || next <= lo || next >= hi {
			next = (lo + hi) / 2
		}
		if math.Abs(next-ψ) <= χResolution*math.Max(1, math.Abs(ψ)) {
			return next, nil
		}
		ψ = next
	}
	return ψ, &ConvergenceError{Op: "lambert", Iterations: maxIter, Last: ψ, Residual: residual}
}
