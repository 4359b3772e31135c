// Package batch solves many independent two-body problems in parallel.
package batch

import (
	"fmt"

	"github.com/astrodyn/twobody"
	"gonum.org/v1/gonum/spatial/r3"
)

// Job kinds.
const (
	KindPropagate = "propagate"
	KindLambert   = "lambert"
	KindElements  = "rv2coe"
)

// Job is one independent solve.
type Job interface {
	// Kind returns the kind of solve, used as metrics label.
	Kind() string
	// Label identifies the job in logs.
	Label() string
	// Solve runs the job with the given solver tolerance and iteration budget.
	Solve(tol float64, maxIter int) (Output, error)
}

// Output holds the result of a job. Only the fields of the job kind are set.
type Output struct {
	State    twobody.StateVector     // propagate
	Vi, Vf   r3.Vec                  // lambert
	Elements twobody.OrbitalElements // rv2coe
}

// PropagateJob propagates a state vector by Δt seconds.
type PropagateJob struct {
	Name  string
	State twobody.StateVector
	Mu    float64
	Dt    float64
}

// Kind implements the Job interface.
func (j PropagateJob) Kind() string { return KindPropagate }

// Label implements the Job interface.
func (j PropagateJob) Label() string { return label(j.Name, j.Kind()) }

// Solve implements the Job interface.
func (j PropagateJob) Solve(tol float64, maxIter int) (Output, error) {
	s, err := twobody.PropagatePrecise(j.State, j.Mu, j.Dt, tol, maxIter)
	return Output{State: s}, err
}

// LambertJob solves Lambert's problem from Ri to Rf in Δt seconds.
type LambertJob struct {
	Name     string
	Ri, Rf   r3.Vec
	Mu       float64
	Dt       float64
	Transfer twobody.Transfer
}

// Kind implements the Job interface.
func (j LambertJob) Kind() string { return KindLambert }

// Label implements the Job interface.
func (j LambertJob) Label() string { return label(j.Name, j.Kind()) }

// Solve implements the Job interface.
func (j LambertJob) Solve(tol float64, maxIter int) (Output, error) {
	Vi, Vf, err := twobody.PreciseLambert(j.Ri, j.Rf, j.Dt, j.Mu, j.Transfer, tol, maxIter)
	return Output{Vi: Vi, Vf: Vf}, err
}

// ElementsJob converts a state vector to its classical orbital elements.
type ElementsJob struct {
	Name  string
	State twobody.StateVector
	Mu    float64
}

// Kind implements the Job interface.
func (j ElementsJob) Kind() string { return KindElements }

// Label implements the Job interface.
func (j ElementsJob) Label() string { return label(j.Name, j.Kind()) }

// Solve implements the Job interface. The conversion is direct, so tol and maxIter are unused.
func (j ElementsJob) Solve(_ float64, _ int) (Output, error) {
	oe, err := twobody.StateToElements(j.State, j.Mu)
	return Output{Elements: oe}, err
}

func label(name, kind string) string {
	if name == "" {
		return kind
	}
	return fmt.Sprintf("%s/%s", kind, name)
}
