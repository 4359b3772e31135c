package twobody

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	deg2rad = math.Pi / 180
	twoPi   = 2 * math.Pi
	// positionε is the norm under which a position vector is considered to be at the focus (km).
	positionε = 1e-9
)

// NormalizeAngle returns θ wrapped into [0, 2π).
func NormalizeAngle(θ float64) float64 {
	θ = math.Mod(θ, twoPi)
	if θ < 0 {
		θ += twoPi
	}
	if θ >= twoPi {
		// -tiny + 2π rounds up to 2π.
		θ = 0
	}
	return θ
}

// Deg2rad converts degrees to radians, and enforces only positive numbers.
func Deg2rad(a float64) float64 {
	return NormalizeAngle(a * deg2rad)
}

// Rad2deg converts radians to degrees, and enforces only positive numbers.
func Rad2deg(a float64) float64 {
	d := NormalizeAngle(a) / deg2rad
	if d >= 360 {
		d = 0
	}
	return d
}

// unit returns the unit vector of a given vector, or the nil vector if its norm is zero.
func unit(a r3.Vec) r3.Vec {
	n := r3.Norm(a)
	if n == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/n, a)
}

// sign returns the sign of a given number.
func sign(v float64) float64 {
	if scalar.EqualWithinAbs(v, 0, 1e-12) {
		return 1
	}
	return v / math.Abs(v)
}

// clampUnit restricts a cosine computed from rounded vectors to [-1, 1].
func clampUnit(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}

// angleBetween returns the angle from a to b about the axis n, in [0, 2π).
func angleBetween(a, b, n r3.Vec) float64 {
	return NormalizeAngle(math.Atan2(r3.Dot(n, r3.Cross(a, b)), r3.Dot(a, b)))
}

// durationOf converts seconds to a time.Duration, saturated at the largest representable duration.
func durationOf(seconds float64) time.Duration {
	if ns := seconds * float64(time.Second); ns < float64(math.MaxInt64) {
		return time.Duration(ns)
	}
	return time.Duration(math.MaxInt64)
}
