package batch

import (
	"io"
	"strings"

	"github.com/astrodyn/twobody"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// File is the YAML layout of a batch job file.
type File struct {
	Jobs []JobSpec `yaml:"jobs"`
}

// JobSpec is one job of a job file. The gravitational parameter is either given
// directly with mu (km³/s²) or through the name of a body.
type JobSpec struct {
	Name        string    `yaml:"name"`
	Kind        string    `yaml:"kind"`
	Body        string    `yaml:"body,omitempty"`
	Mu          float64   `yaml:"mu,omitempty"`
	R           []float64 `yaml:"r,omitempty"`
	V           []float64 `yaml:"v,omitempty"`
	Ri          []float64 `yaml:"ri,omitempty"`
	Rf          []float64 `yaml:"rf,omitempty"`
	Dt          float64   `yaml:"dt,omitempty"`
	Direction   string    `yaml:"direction,omitempty"`
	Revolutions uint      `yaml:"revolutions,omitempty"`
	Branch      string    `yaml:"branch,omitempty"`
}

// LoadJobs reads a YAML job file. resolveMu returns the gravitational parameter of a body name.
func LoadJobs(r io.Reader, resolveMu func(string) (float64, error)) ([]Job, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Wrap(err, "could not decode job file")
	}
	jobs := make([]Job, 0, len(f.Jobs))
	for i, spec := range f.Jobs {
		job, err := spec.job(resolveMu)
		if err != nil {
			return nil, errors.Wrapf(err, "job #%d (%s)", i, spec.Name)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (s JobSpec) job(resolveMu func(string) (float64, error)) (Job, error) {
	μ := s.Mu
	if s.Body != "" {
		if s.Mu != 0 {
			return nil, errors.New("body and mu are mutually exclusive")
		}
		var err error
		if μ, err = resolveMu(s.Body); err != nil {
			return nil, err
		}
	}
	switch strings.ToLower(s.Kind) {
	case KindPropagate:
		st, err := stateOf(s.R, s.V)
		if err != nil {
			return nil, err
		}
		return PropagateJob{Name: s.Name, State: st, Mu: μ, Dt: s.Dt}, nil
	case KindLambert:
		Ri, err := vecOf("ri", s.Ri)
		if err != nil {
			return nil, err
		}
		Rf, err := vecOf("rf", s.Rf)
		if err != nil {
			return nil, err
		}
		t := twobody.Transfer{Revolutions: s.Revolutions}
		if t.Direction, err = twobody.ParseDirection(s.Direction); err != nil {
			return nil, err
		}
		if t.Branch, err = twobody.ParseBranch(s.Branch); err != nil {
			return nil, err
		}
		return LambertJob{Name: s.Name, Ri: Ri, Rf: Rf, Mu: μ, Dt: s.Dt, Transfer: t}, nil
	case KindElements:
		st, err := stateOf(s.R, s.V)
		if err != nil {
			return nil, err
		}
		return ElementsJob{Name: s.Name, State: st, Mu: μ}, nil
	default:
		return nil, errors.Errorf("unknown job kind %q", s.Kind)
	}
}

func stateOf(r, v []float64) (twobody.StateVector, error) {
	R, err := vecOf("r", r)
	if err != nil {
		return twobody.StateVector{}, err
	}
	V, err := vecOf("v", v)
	if err != nil {
		return twobody.StateVector{}, err
	}
	return twobody.StateVector{R: R, V: V}, nil
}

func vecOf(name string, c []float64) (r3.Vec, error) {
	if len(c) != 3 {
		return r3.Vec{}, errors.Errorf("%s must have 3 components, got %d", name, len(c))
	}
	return r3.Vec{X: c[0], Y: c[1], Z: c[2]}, nil
}
