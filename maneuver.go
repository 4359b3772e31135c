package twobody

import (
	"math"
	"time"
)

// Hohmann computes a Hohmann transfer between the coplanar circular orbits of radii rI and rF.
// It returns the first and second impulses, the semi-major axis of the transfer ellipse and the
// time of flight. The impulses are positive along the velocity, so both are negative when rF < rI.
func Hohmann(μ, rI, rF float64) (Δva, Δvb, aTransfer float64, tof time.Duration, err error) {
	if err = checkManeuver(μ, rI, rF); err != nil {
		return
	}
	aTransfer = 0.5 * (rI + rF)
	Δva = visViva(μ, rI, aTransfer) - math.Sqrt(μ/rI)
	Δvb = math.Sqrt(μ/rF) - visViva(μ, rF, aTransfer)
	tof = halfPeriod(μ, aTransfer)
	return
}

// Bielliptic computes a bi-elliptic transfer from the circular orbit of radius rI to the one of
// radius rF, via the intermediate apoapsis rB. It returns the three impulses, the semi-major axes
// of both transfer ellipses and the time of flight on each of them.
// When rB equals rF, the first two impulses are those of the Hohmann transfer and Δvc is zero.
func Bielliptic(μ, rI, rB, rF float64) (Δva, Δvb, Δvc, a1, a2 float64, tof1, tof2 time.Duration, err error) {
	if err = checkManeuver(μ, rI, rB, rF); err != nil {
		return
	}
	a1 = 0.5 * (rI + rB)
	a2 = 0.5 * (rB + rF)
	Δva = visViva(μ, rI, a1) - math.Sqrt(μ/rI)
	Δvb = visViva(μ, rB, a2) - visViva(μ, rB, a1)
	Δvc = math.Sqrt(μ/rF) - visViva(μ, rF, a2)
	tof1 = halfPeriod(μ, a1)
	tof2 = halfPeriod(μ, a2)
	return
}

// Radii2ae returns the semi major axis and the eccentricty from the radii.
func Radii2ae(rA, rP float64) (a, e float64, err error) {
	if !(rP > 0) {
		return 0, 0, invalidArgf("periapsis radius %g must be positive", rP)
	}
	if rA < rP {
		return 0, 0, invalidArgf("periapsis %g cannot be greater than apoapsis %g", rP, rA)
	}
	a = (rP + rA) / 2
	e = (rA - rP) / (rA + rP)
	return
}

// visViva returns the speed at radius r on an orbit of semi-major axis a.
func visViva(μ, r, a float64) float64 {
	return math.Sqrt(2*μ/r - μ/a)
}

// halfPeriod saturates like OrbitalElements.Period.
func halfPeriod(μ, a float64) time.Duration {
	return durationOf(math.Pi * math.Sqrt(a*a*a/μ))
}

func checkManeuver(μ float64, radii ...float64) error {
	if !(μ > 0) {
		return invalidArgf("gravitational parameter μ=%g must be positive", μ)
	}
	for _, r := range radii {
		if !(r > 0) || math.IsInf(r, 0) {
			return invalidArgf("radius %g must be positive and finite", r)
		}
	}
	return nil
}
