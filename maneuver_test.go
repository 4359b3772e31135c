package twobody

import (
	"math"
	"testing"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestHohmannVallado(t *testing.T) {
	// From Vallado, example 6-1: LEO to GEO.
	rI, rF := 6569.4781, 42159.48557
	Δva, Δvb, a, tof, err := Hohmann(μEarth, rI, rF)
	if err != nil {
		t.Fatalf("err %s", err)
	}
	if !scalar.EqualWithinAbs(Δva, 2.457038, 1e-6) || !scalar.EqualWithinAbs(Δvb, 1.478187, 1e-6) {
		t.Fatalf("Δva=%f Δvb=%f", Δva, Δvb)
	}
	if !scalar.EqualWithinAbs(a, 24364.48184, 1e-5) {
		t.Fatalf("aTransfer=%f", a)
	}
	if exp := 18924.166 * float64(time.Second); !scalar.EqualWithinAbs(float64(tof), exp, float64(time.Millisecond)) {
		t.Fatalf("tof=%s", tof)
	}
	// Going down is the same transfer flown backward.
	Δva2, Δvb2, _, tof2, err := Hohmann(μEarth, rF, rI)
	if err != nil {
		t.Fatalf("err %s", err)
	}
	if !scalar.EqualWithinAbs(Δva2, -Δvb, 1e-12) || !scalar.EqualWithinAbs(Δvb2, -Δva, 1e-12) || tof2 != tof {
		t.Fatalf("descending transfer Δva=%f Δvb=%f tof=%s", Δva2, Δvb2, tof2)
	}
}

func TestBielliptic(t *testing.T) {
	// From Vallado, example 6-2.
	Δva, Δvb, Δvc, a1, a2, tof1, tof2, err := Bielliptic(μEarth, 6569.4781, 503873, 376310)
	if err != nil {
		t.Fatalf("err %s", err)
	}
	if !scalar.EqualWithinAbs(Δva, 3.156233, 2e-3) || !scalar.EqualWithinAbs(Δvb, 0.677797, 3e-3) || !scalar.EqualWithinAbs(Δvc, -0.070825, 2e-3) {
		t.Fatalf("Δva=%f Δvb=%f Δvc=%f", Δva, Δvb, Δvc)
	}
	if !scalar.EqualWithinRel(a1, (6569.4781+503873)/2, 1e-15) || !scalar.EqualWithinRel(a2, (503873+376310)/2., 1e-15) {
		t.Fatalf("a1=%f a2=%f", a1, a2)
	}
	if total := (tof1 + tof2).Hours(); !scalar.EqualWithinAbs(total, 581.76, 0.1) {
		t.Fatalf("total time of flight %f h", total)
	}
}

func TestBiellipticIsHohmann(t *testing.T) {
	rI, rF := 7000., 105000.
	hΔva, hΔvb, hA, hTOF, err := Hohmann(μEarth, rI, rF)
	if err != nil {
		t.Fatalf("err %s", err)
	}
	Δva, Δvb, Δvc, a1, _, tof1, tof2, err := Bielliptic(μEarth, rI, rF, rF)
	if err != nil {
		t.Fatalf("err %s", err)
	}
	if !scalar.EqualWithinAbs(Δva, hΔva, 1e-12) || !scalar.EqualWithinAbs(Δvb, hΔvb, 1e-12) || !scalar.EqualWithinAbs(Δvc, 0, 1e-12) {
		t.Fatalf("bi-elliptic (%f, %f, %f) differs from Hohmann (%f, %f)", Δva, Δvb, Δvc, hΔva, hΔvb)
	}
	if a1 != hA || tof1 != hTOF {
		t.Fatalf("first ellipse a=%f tof=%s differs from Hohmann a=%f tof=%s", a1, tof1, hA, hTOF)
	}
	if exp := time.Duration(math.Pi * math.Sqrt(rF*rF*rF/μEarth) * float64(time.Second)); tof2 != exp {
		t.Fatalf("second half period %s instead of %s", tof2, exp)
	}
}

func TestManeuverErrors(t *testing.T) {
	if _, _, _, _, err := Hohmann(0, 7000, 42000); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected an invalid argument for μ=0, got %v", err)
	}
	if _, _, _, _, err := Hohmann(μEarth, -7000, 42000); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected an invalid argument for a negative radius, got %v", err)
	}
	if _, _, _, _, _, _, _, err := Bielliptic(μEarth, 7000, 0, 42000); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected an invalid argument for a null radius, got %v", err)
	}
}

func TestRadii2ae(t *testing.T) {
	a, e, err := Radii2ae(4, 2)
	if err != nil {
		t.Fatalf("err %s", err)
	}
	if !scalar.EqualWithinAbs(a, 3.0, 1e-12) {
		t.Fatalf("a=%f instead of 3.0", a)
	}
	if !scalar.EqualWithinAbs(e, 1/3.0, 1e-12) {
		t.Fatalf("e=%f instead of 1/3", e)
	}
	if _, _, err := Radii2ae(1, 2); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected an invalid argument, got %v", err)
	}
}

func TestManeuverLongTransfer(t *testing.T) {
	// A transfer of about 1760 years does not fit in a time.Duration.
	Δva, _, aT, tof, err := Hohmann(μEarth, 7000, 1e9)
	if err != nil {
		t.Fatalf("err %s", err)
	}
	if tof != time.Duration(math.MaxInt64) {
		t.Fatalf("tof=%s should saturate", tof)
	}
	if !(Δva > 0) || aT != 0.5*(7000+1e9) {
		t.Fatalf("Δva=%f a=%f", Δva, aT)
	}
	_, _, _, _, _, tof1, tof2, err := Bielliptic(μEarth, 7000, 2e9, 1e9)
	if err != nil {
		t.Fatalf("err %s", err)
	}
	if tof1 != time.Duration(math.MaxInt64) || tof2 != time.Duration(math.MaxInt64) {
		t.Fatalf("tof1=%s tof2=%s should saturate", tof1, tof2)
	}
}
