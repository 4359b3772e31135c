package twobody

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestR1R2R3(t *testing.T) {
	x := math.Pi / 3.0
	s, c := math.Sincos(x)
	r1 := R1(x)
	r2 := R2(x)
	r3 := R3(x)
	// Test items equal to 1.
	if r1.At(0, 0) != r2.At(1, 1) || r1.At(0, 0) != r3.At(2, 2) || r3.At(2, 2) != 1 {
		t.Fatal("expected R1.At(0, 0) = R2.At(1, 1) = R3.At(2, 2) = 1\n")
	}
	// Test items equal to 0.
	if r1.At(0, 1) != r1.At(0, 2) || r1.At(1, 0) != r1.At(2, 0) || r1.At(0, 1) != 0 {
		t.Fatal("misplaced zeros in R1\n")
	}
	if r2.At(0, 1) != r2.At(1, 2) || r2.At(1, 0) != r2.At(1, 2) || r2.At(1, 2) != 0 {
		t.Fatal("misplaced zeros in R2\n")
	}
	if r3.At(2, 0) != r3.At(2, 1) || r3.At(0, 2) != r3.At(1, 2) || r3.At(1, 2) != 0 {
		t.Fatal("misplaced zeros in R3\n")
	}
	// Test R1.
	if r1.At(1, 1) != r1.At(2, 2) || r1.At(2, 2) != c {
		t.Fatal("expected R1 cosines misplaced\n")
	}
	if r1.At(2, 1) != -r1.At(1, 2) || r1.At(1, 2) != s {
		t.Fatal("expected R1 sines misplaced\n")
	}
	// Test R2.
	if r2.At(0, 0) != r2.At(2, 2) || r2.At(2, 2) != c {
		t.Fatal("expected R2 cosines misplaced\n")
	}
	if r2.At(2, 0) != -r2.At(0, 2) || r2.At(2, 0) != s {
		t.Fatal("expected R2 sines misplaced\n")
	}
	// Test R3.
	if r3.At(1, 1) != r3.At(0, 0) || r3.At(0, 0) != c {
		t.Fatal("expected R3 cosines misplaced\n")
	}
	if r3.At(0, 1) != -r3.At(1, 0) || r3.At(0, 1) != s {
		t.Fatal("expected R3 sines misplaced\n")
	}
}

func TestRot313(t *testing.T) {
	var R1R3, R3R1R3m mat.Dense
	θ1 := math.Pi / 17
	θ2 := math.Pi / 16
	θ3 := math.Pi / 15
	R1R3.Mul(R1(θ2), R3(θ1))
	R3R1R3m.Mul(R3(θ3), &R1R3)
	if !mat.EqualApprox(&R3R1R3m, R3R1R3(θ1, θ2, θ3), 1e-15) {
		t.Logf("\n%v", mat.Formatted(&R3R1R3m))
		t.Logf("\n%v", mat.Formatted(R3R1R3(θ1, θ2, θ3)))
		t.Fatal("failed")
	}
	v := r3.Vec{X: 1, Y: -2, Z: 3}
	assertVec(t, "Rot313Vec", Rot313Vec(θ1, θ2, θ3, v), MxV33(&R3R1R3m, v), 1e-14)
}

func TestPQW2ECI(t *testing.T) {
	// From Vallado, example 2-6.
	i := Deg2rad(87.87)
	ω := Deg2rad(53.38)
	Ω := Deg2rad(227.89)
	Rp := PQW2ECI(i, ω, Ω, r3.Vec{X: -466.7639, Y: 11447.0219})
	assertVec(t, "R", Rp, r3.Vec{X: 6525.368103709379, Y: 6861.531814548294, Z: 6449.118636407358}, 1e-8)
	Vp := PQW2ECI(i, ω, Ω, r3.Vec{X: -5.996222, Y: 4.753601})
	assertVec(t, "V", Vp, r3.Vec{X: 4.902278620687254, Y: 5.533139558121602, Z: -1.9757104281719946}, 1e-12)
	// And back.
	assertVec(t, "R in PQW", ECI2PQW(i, ω, Ω, Rp), r3.Vec{X: -466.7639, Y: 11447.0219}, 1e-8)

	// The elementary rotations compose into the transposed 3-1-3 rotation.
	v := r3.Vec{X: 7000, Y: -1200, Z: 300}
	for _, θ := range [][3]float64{{0, 0, 0}, {math.Pi, 0.3, 5.9}, {0.1, 2.5, -1}, {1.2, math.Pi / 2, 3}} {
		exp := MxV33(R3R1R3(θ[2], θ[0], θ[1]).T(), v)
		assertVec(t, "PQW2ECI", PQW2ECI(θ[0], θ[1], θ[2], v), exp, 1e-9)
		assertVec(t, "ECI2PQW", ECI2PQW(θ[0], θ[1], θ[2], exp), v, 1e-9)
	}
}
