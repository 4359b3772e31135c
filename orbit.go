package twobody

import (
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	eccentricityε = 1e-10 // circular below this eccentricity
	angleε        = 1e-10 // equatorial below this sine of inclination
	parabolicε    = 1e-10 // parabolic when |e-1| is below this
	rectilinearε  = 1e-12 // |h| relative to r·v under which there is no orbital plane
)

// StateVector is a Cartesian position (km) and velocity (km/s) in an inertial frame.
type StateVector struct {
	R, V r3.Vec
}

// Energyξ returns the specific mechanical energy ξ.
func (s StateVector) Energyξ(μ float64) float64 {
	v := r3.Norm(s.V)
	return v*v/2 - μ/r3.Norm(s.R)
}

// H returns the orbital angular momentum vector.
func (s StateVector) H() r3.Vec {
	return r3.Cross(s.R, s.V)
}

// HNorm returns the norm of orbital angular momentum.
func (s StateVector) HNorm() float64 {
	return r3.Norm(s.H())
}

func (s StateVector) String() string {
	return fmt.Sprintf("R=[%.6f %.6f %.6f] V=[%.9f %.9f %.9f]", s.R.X, s.R.Y, s.R.Z, s.V.X, s.V.Y, s.V.Z)
}

// OrbitalElements are the classical orbital elements. Angles are in radians.
//
// Degenerate orbits follow these conventions:
//   - equatorial: RAAN is 0 and ArgPeriapsis is the longitude of periapsis;
//   - circular: ArgPeriapsis is 0 and TrueAnomaly is the argument of latitude;
//   - circular and equatorial: RAAN and ArgPeriapsis are 0 and TrueAnomaly is the true longitude;
//   - parabolic: A is +Inf and P carries the size of the orbit.
type OrbitalElements struct {
	A            float64 // semi-major axis (km), negative for hyperbolic orbits
	E            float64 // eccentricity
	I            float64 // inclination in [0, π]
	RAAN         float64 // right ascension of the ascending node Ω in [0, 2π)
	ArgPeriapsis float64 // argument of periapsis ω in [0, 2π)
	TrueAnomaly  float64 // true anomaly ν in [0, 2π)
	P            float64 // semi-latus rectum (km), used in place of a(1-e²) when positive
}

// IsParabolic returns whether these elements describe a parabola.
func (oe OrbitalElements) IsParabolic() bool {
	return math.IsInf(oe.A, 0) || math.Abs(oe.E-1) < parabolicε
}

// SemiLatusRectum returns p: P when it is set, as StateToElements always does, else a(1-e²).
// Near e = 1, a comes from a cancelling difference and a(1-e²) loses its digits, while P does not.
func (oe OrbitalElements) SemiLatusRectum() float64 {
	if oe.P > 0 || oe.IsParabolic() {
		return oe.P
	}
	return oe.A * (1 - oe.E*oe.E)
}

// Energyξ returns the specific mechanical energy ξ.
func (oe OrbitalElements) Energyξ(μ float64) float64 {
	if oe.IsParabolic() {
		return 0
	}
	return -μ / (2 * oe.A)
}

// Periapsis returns the periapsis radius.
func (oe OrbitalElements) Periapsis() float64 {
	return oe.SemiLatusRectum() / (1 + oe.E)
}

// Apoapsis returns the apoapsis radius, which is infinite for open orbits.
func (oe OrbitalElements) Apoapsis() float64 {
	if oe.E >= 1 || oe.IsParabolic() {
		return math.Inf(1)
	}
	return oe.SemiLatusRectum() / (1 - oe.E)
}

// Period returns the period of this orbit, or zero for open orbits.
// Periods beyond the range of time.Duration (about 292 years) saturate at its maximum.
func (oe OrbitalElements) Period(μ float64) time.Duration {
	if oe.E >= 1 || oe.IsParabolic() {
		return 0
	}
	return durationOf(twoPi * math.Sqrt(math.Pow(oe.A, 3)/μ))
}

// Tildeω returns the longitude of periapsis.
func (oe OrbitalElements) Tildeω() float64 {
	return NormalizeAngle(oe.ArgPeriapsis + oe.RAAN)
}

// TrueLongλ returns the true longitude.
func (oe OrbitalElements) TrueLongλ() float64 {
	return NormalizeAngle(oe.ArgPeriapsis + oe.RAAN + oe.TrueAnomaly)
}

// ArgLatitudeU returns the argument of latitude.
func (oe OrbitalElements) ArgLatitudeU() float64 {
	return NormalizeAngle(oe.TrueAnomaly + oe.ArgPeriapsis)
}

func (oe OrbitalElements) circular() bool {
	return oe.E < eccentricityε
}

func (oe OrbitalElements) equatorial() bool {
	return math.Sin(oe.I) < angleε
}

// String implements the stringer interface (hence the value receiver)
func (oe OrbitalElements) String() string {
	size := fmt.Sprintf("a=%.1f", oe.A)
	if oe.IsParabolic() {
		size = fmt.Sprintf("p=%.1f", oe.P)
	}
	if oe.circular() {
		if !oe.equatorial() {
			return fmt.Sprintf("%s e=%.4f i=%.3f Ω=%.3f u=%.3f", size, oe.E, oe.I/deg2rad, Rad2deg(oe.RAAN), Rad2deg(oe.ArgLatitudeU()))
		}
		return fmt.Sprintf("%s e=%.4f i=%.3f λ=%.3f", size, oe.E, oe.I/deg2rad, Rad2deg(oe.TrueLongλ()))
	}
	return fmt.Sprintf("%s e=%.4f i=%.3f Ω=%.3f ω=%.3f ν=%.3f", size, oe.E, oe.I/deg2rad, Rad2deg(oe.RAAN), Rad2deg(oe.ArgPeriapsis), Rad2deg(oe.TrueAnomaly))
}

// Equals returns whether two sets of elements describe the same orbit, free of the true anomaly.
// The size is compared relatively, the eccentricity and angles absolutely. The angles which
// are undefined for circular or equatorial orbits are compared through their combinations.
// Use StrictlyEquals to also check the true anomaly.
func (oe OrbitalElements) Equals(o1 OrbitalElements, tol float64) (bool, error) {
	if oe.IsParabolic() != o1.IsParabolic() {
		return false, errors.New("only one orbit is parabolic")
	}
	if !scalar.EqualWithinRel(oe.SemiLatusRectum(), o1.SemiLatusRectum(), tol) {
		return false, errors.New("semi-latus rectum invalid")
	}
	if !scalar.EqualWithinAbs(oe.E, o1.E, tol) {
		return false, errors.New("eccentricity invalid")
	}
	if !scalar.EqualWithinAbs(oe.I, o1.I, tol) {
		return false, errors.New("inclination invalid")
	}
	switch {
	case oe.circular() && oe.equatorial():
	case oe.equatorial():
		if !anglesEqual(oe.inertialLongitude(oe.ArgPeriapsis), o1.inertialLongitude(o1.ArgPeriapsis), tol) {
			return false, errors.New("longitude of periapsis invalid")
		}
	case oe.circular():
		if !anglesEqual(oe.RAAN, o1.RAAN, tol) {
			return false, errors.New("RAAN invalid")
		}
	default:
		if !anglesEqual(oe.RAAN, o1.RAAN, tol) {
			return false, errors.New("RAAN invalid")
		}
		if !anglesEqual(oe.ArgPeriapsis, o1.ArgPeriapsis, tol) {
			return false, errors.New("argument of periapsis invalid")
		}
	}
	return true, nil
}

// StrictlyEquals returns whether two sets of elements are identical, true anomaly included.
func (oe OrbitalElements) StrictlyEquals(o1 OrbitalElements, tol float64) (bool, error) {
	if ok, err := oe.Equals(o1, tol); !ok {
		return false, err
	}
	switch {
	case oe.circular() && oe.equatorial():
		if !anglesEqual(oe.inertialLongitude(oe.ArgLatitudeU()), o1.inertialLongitude(o1.ArgLatitudeU()), tol) {
			return false, errors.New("true longitude invalid")
		}
	case oe.circular():
		if !anglesEqual(oe.ArgLatitudeU(), o1.ArgLatitudeU(), tol) {
			return false, errors.New("argument of latitude invalid")
		}
	default:
		if !anglesEqual(oe.TrueAnomaly, o1.TrueAnomaly, tol) {
			return false, errors.New("true anomaly invalid")
		}
	}
	return true, nil
}

// inertialLongitude returns the longitude from the inertial X axis of the in-plane angle θ
// measured from the node, about the angular momentum. Only meaningful for equatorial orbits.
func (oe OrbitalElements) inertialLongitude(θ float64) float64 {
	if math.Cos(oe.I) < 0 {
		return NormalizeAngle(θ - oe.RAAN)
	}
	return NormalizeAngle(θ + oe.RAAN)
}

// anglesEqual returns whether two angles in radians are equal modulo 2π.
func anglesEqual(a, b, tol float64) bool {
	diff := math.Abs(NormalizeAngle(a) - NormalizeAngle(b))
	return diff < tol || math.Abs(diff-twoPi) < tol
}

// StateToElements returns the classical orbital elements of a state vector.
// From Vallado's RV2COE, page 113, with every angle computed through atan2.
func StateToElements(s StateVector, μ float64) (OrbitalElements, error) {
	if !(μ > 0) {
		return OrbitalElements{}, invalidArgf("gravitational parameter μ=%g must be positive", μ)
	}
	r := r3.Norm(s.R)
	if r < positionε {
		return OrbitalElements{}, &DegenerateOrbitError{Reason: "position vector is at the focus"}
	}
	v := r3.Norm(s.V)
	hVec := r3.Cross(s.R, s.V)
	h := r3.Norm(hVec)
	if h <= rectilinearε*r*v || h == 0 {
		return OrbitalElements{}, &DegenerateOrbitError{Reason: "rectilinear motion has no orbital plane"}
	}
	ĥ := unit(hVec)
	nVec := r3.Cross(r3.Vec{Z: 1}, hVec)
	eVec := r3.Sub(r3.Scale(1/μ, r3.Cross(s.V, hVec)), r3.Scale(1/r, s.R))
	e := r3.Norm(eVec)

	oe := OrbitalElements{E: e, P: h * h / μ}
	if math.Abs(e-1) < parabolicε {
		oe.A = math.Inf(1)
	} else {
		oe.A = 1 / (2/r - v*v/μ)
	}
	oe.I = math.Atan2(math.Hypot(hVec.X, hVec.Y), hVec.Z)

	equatorial := r3.Norm(nVec) < angleε*h
	circular := e < eccentricityε
	xHat := r3.Vec{X: 1}
	switch {
	case circular && equatorial:
		// True longitude from the inertial X axis.
		oe.TrueAnomaly = angleBetween(xHat, s.R, ĥ)
	case equatorial:
		// Longitude of periapsis in place of ω.
		oe.ArgPeriapsis = angleBetween(xHat, eVec, ĥ)
		oe.TrueAnomaly = angleBetween(eVec, s.R, ĥ)
	case circular:
		// Argument of latitude in place of ν.
		oe.RAAN = NormalizeAngle(math.Atan2(nVec.Y, nVec.X))
		oe.TrueAnomaly = angleBetween(nVec, s.R, ĥ)
	default:
		oe.RAAN = NormalizeAngle(math.Atan2(nVec.Y, nVec.X))
		oe.ArgPeriapsis = angleBetween(nVec, eVec, ĥ)
		oe.TrueAnomaly = angleBetween(eVec, s.R, ĥ)
	}
	return oe, nil
}

// ElementsToState returns the state vector of a set of classical orbital elements,
// via the perifocal frame and the R3(-Ω)·R1(-i)·R3(-ω) rotation.
func ElementsToState(oe OrbitalElements, μ float64) (StateVector, error) {
	if !(μ > 0) {
		return StateVector{}, invalidArgf("gravitational parameter μ=%g must be positive", μ)
	}
	if !(oe.E >= 0) {
		return StateVector{}, invalidArgf("eccentricity e=%g must be non negative", oe.E)
	}
	p := oe.SemiLatusRectum()
	if !(p > 0) || math.IsInf(p, 0) {
		return StateVector{}, invalidArgf("semi-latus rectum p=%g must be positive and finite (a=%g e=%g)", p, oe.A, oe.E)
	}
	sinν, cosν := math.Sincos(oe.TrueAnomaly)
	denom := 1 + oe.E*cosν
	if denom <= 0 {
		return StateVector{}, invalidArgf("true anomaly ν=%g is beyond the asymptote of an e=%g orbit", oe.TrueAnomaly, oe.E)
	}
	r := p / denom
	sμp := math.Sqrt(μ / p)
	R := r3.Vec{X: r * cosν, Y: r * sinν}
	V := r3.Vec{X: -sμp * sinν, Y: sμp * (oe.E + cosν)}
	return StateVector{
		R: PQW2ECI(oe.I, oe.ArgPeriapsis, oe.RAAN, R),
		V: PQW2ECI(oe.I, oe.ArgPeriapsis, oe.RAAN, V),
	}, nil
}
