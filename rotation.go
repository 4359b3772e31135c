package twobody

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Rot313Vec rotates a vector by the 3-1-3 Euler angles θ1, θ2, θ3.
func Rot313Vec(θ1, θ2, θ3 float64, v r3.Vec) r3.Vec {
	return MxV33(R3R1R3(θ1, θ2, θ3), v)
}

// R3R1R3 performs a 3-1-3 Euler parameter rotation, i.e. R3(θ3)·R1(θ2)·R3(θ1).
// From Schaub and Junkins.
func R3R1R3(θ1, θ2, θ3 float64) *mat.Dense {
	sθ1, cθ1 := math.Sincos(θ1)
	sθ2, cθ2 := math.Sincos(θ2)
	sθ3, cθ3 := math.Sincos(θ3)
	return mat.NewDense(3, 3, []float64{cθ3*cθ1 - sθ3*cθ2*sθ1, cθ3*sθ1 + sθ3*cθ2*cθ1, sθ3 * sθ2,
		-sθ3*cθ1 - cθ3*cθ2*sθ1, -sθ3*sθ1 + cθ3*cθ2*cθ1, cθ3 * sθ2,
		sθ2 * sθ1, -sθ2 * cθ1, cθ2})
}

// R1 rotation about the 1st axis.
func R1(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R2 rotation about the 2nd axis. Unused by the conversions here, it completes R1 and R3
// for callers composing their own frame rotations.
func R2(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{c, 0, -s, 0, 1, 0, s, 0, c})
}

// R3 rotation about the 3rd axis.
func R3(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// MxV33 multiplies a 3x3 matrix with a vector. Note that there is no dimension check!
func MxV33(m mat.Matrix, v r3.Vec) r3.Vec {
	var rVec mat.VecDense
	rVec.MulVec(m, mat.NewVecDense(3, []float64{v.X, v.Y, v.Z}))
	return r3.Vec{X: rVec.AtVec(0), Y: rVec.AtVec(1), Z: rVec.AtVec(2)}
}

// PQW2ECI converts a perifocal vector to the inertial frame: R3(-Ω)·R1(-i)·R3(-ω)·v.
func PQW2ECI(i, ω, Ω float64, v r3.Vec) r3.Vec {
	var m mat.Dense
	m.Product(R3(-Ω), R1(-i), R3(-ω))
	return MxV33(&m, v)
}

// ECI2PQW converts an inertial vector to the perifocal frame. It is the inverse of
// PQW2ECI, for callers working in the perifocal frame.
func ECI2PQW(i, ω, Ω float64, v r3.Vec) r3.Vec {
	return Rot313Vec(Ω, i, ω, v)
}
