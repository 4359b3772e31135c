package twobody

import "math"

const (
	// stumpffSeriesBand is the |z| under which the power series replaces the closed forms,
	// which lose digits to cancellation near z = 0.
	stumpffSeriesBand = 0.1
	stumpffMaxTerms   = 20
)

// Stumpff returns the Stumpff functions c2(z) and c3(z).
// z > 0 is elliptic, z < 0 is hyperbolic and z = 0 is parabolic.
func Stumpff(z float64) (c2, c3 float64) {
	switch {
	case z > stumpffSeriesBand:
		sz := math.Sqrt(z)
		ssz, csz := math.Sincos(sz)
		c2 = (1 - csz) / z
		c3 = (sz - ssz) / (z * sz)
	case z < -stumpffSeriesBand:
		sz := math.Sqrt(-z)
		c2 = (1 - math.Cosh(sz)) / z
		c3 = (math.Sinh(sz) - sz) / (-z * sz)
	default:
		c2, c3 = stumpffSeries(z)
	}
	return
}

// StumpffC2 returns c2(z) = (1 - cos √z) / z.
func StumpffC2(z float64) float64 {
	c2, _ := Stumpff(z)
	return c2
}

// StumpffC3 returns c3(z) = (√z - sin √z) / √z³.
func StumpffC3(z float64) float64 {
	_, c3 := Stumpff(z)
	return c3
}

// stumpffSeries sums c2 = Σ (-z)^k/(2k+2)! and c3 = Σ (-z)^k/(2k+3)!.
func stumpffSeries(z float64) (c2, c3 float64) {
	t2, t3 := 1/2., 1/6.
	for k := 0; k < stumpffMaxTerms; k++ {
		if c2+t2 == c2 && c3+t3 == c3 {
			break
		}
		c2 += t2
		c3 += t3
		t2 *= -z / float64((2*k+3)*(2*k+4))
		t3 *= -z / float64((2*k+4)*(2*k+5))
	}
	return
}
