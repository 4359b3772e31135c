package twobody

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

// vectorsEqual returns whether both vectors are equal, component wise, within an absolute tolerance.
func vectorsEqual(a, b r3.Vec, tol float64) bool {
	return scalar.EqualWithinAbs(a.X, b.X, tol) && scalar.EqualWithinAbs(a.Y, b.Y, tol) && scalar.EqualWithinAbs(a.Z, b.Z, tol)
}

// assertVec logs both vectors and fails the test if they differ.
func assertVec(t *testing.T, name string, got, exp r3.Vec, tol float64) {
	t.Helper()
	if !vectorsEqual(got, exp, tol) {
		t.Logf("\nGot %+v\nExp %+v\n", got, exp)
		t.Fatalf("incorrect %s computed", name)
	}
}

const (
	μEarth = 3.986004418e5
	μSun   = 1.32712440017987e11
)
