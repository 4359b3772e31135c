package twobody

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// ErrInvalidArgument is wrapped by every error caused by an input outside the
// domain of an operation (non positive μ, non positive Lambert time of flight, etc.).
var ErrInvalidArgument = errors.New("twobody: invalid argument")

func invalidArgf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}

// ConvergenceError is returned when an iterative solve exhausts its iteration
// budget without meeting its tolerance. Last is the last iterate and Residual
// the corresponding time of flight residual in seconds.
type ConvergenceError struct {
	Op         string
	Iterations int
	Last       float64
	Residual   float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("twobody: %s did not converge after %d iterations (last=%g residual=%gs)", e.Op, e.Iterations, e.Last, e.Residual)
}

// DegenerateOrbitError is returned when the geometry makes the operation
// physically undefined, e.g. a body located at the focus.
type DegenerateOrbitError struct {
	Reason string
}

func (e *DegenerateOrbitError) Error() string {
	return "twobody: degenerate orbit: " + e.Reason
}

// DegenerateGeometryError is returned by the Lambert solver when the transfer
// angle is π and the transfer plane is undefined.
type DegenerateGeometryError struct {
	TransferAngle float64 // radians
}

func (e *DegenerateGeometryError) Error() string {
	return fmt.Sprintf("twobody: degenerate Lambert geometry: transfer angle %.9f deg leaves the transfer plane undefined", e.TransferAngle/deg2rad)
}

// NoSolutionError is returned when the requested Lambert branch has no real
// solution. MinTimeOfFlight is the smallest reachable time of flight (seconds)
// on that revolution count, or NaN when it could not be determined.
type NoSolutionError struct {
	Revolutions     uint
	Branch          Branch
	MinTimeOfFlight float64
}

func (e *NoSolutionError) Error() string {
	if math.IsNaN(e.MinTimeOfFlight) {
		return fmt.Sprintf("twobody: no Lambert solution for %d revolution(s) on the %s", e.Revolutions, e.Branch)
	}
	return fmt.Sprintf("twobody: no Lambert solution for %d revolution(s) on the %s (minimum time of flight %.3fs)", e.Revolutions, e.Branch, e.MinTimeOfFlight)
}
