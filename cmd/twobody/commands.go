package main

import (
	"math"
	"strconv"
	"time"

	"github.com/astrodyn/twobody"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

type stateOut struct {
	R [3]float64 `yaml:"r,flow"`
	V [3]float64 `yaml:"v,flow"`
}

func newStateOut(s twobody.StateVector) *stateOut {
	return &stateOut{R: vecOut(s.R), V: vecOut(s.V)}
}

func vecOut(v r3.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// elementsOut reports the orbital elements with angles in degrees.
type elementsOut struct {
	A            float64 `yaml:"a"`
	E            float64 `yaml:"e"`
	P            float64 `yaml:"p"`
	I            float64 `yaml:"i"`
	RAAN         float64 `yaml:"raan"`
	ArgPeriapsis float64 `yaml:"argp"`
	TrueAnomaly  float64 `yaml:"nu"`
	Energy       float64 `yaml:"energy"`
	Period       float64 `yaml:"period,omitempty"`
}

func newElementsOut(oe twobody.OrbitalElements, μ float64) *elementsOut {
	out := &elementsOut{
		A:            oe.A,
		E:            oe.E,
		P:            oe.SemiLatusRectum(),
		I:            twobody.Rad2deg(oe.I),
		RAAN:         twobody.Rad2deg(oe.RAAN),
		ArgPeriapsis: twobody.Rad2deg(oe.ArgPeriapsis),
		TrueAnomaly:  twobody.Rad2deg(oe.TrueAnomaly),
		Energy:       oe.Energyξ(μ),
	}
	if oe.Period(μ) > 0 {
		out.Period = 2 * halfPeriod(μ, oe.A)
	}
	return out
}

// halfPeriod returns the time in seconds spent on half of an ellipse of semi-major axis a.
// Unlike time.Duration, it does not saturate past 292 years.
func halfPeriod(μ, a float64) float64 {
	return math.Pi * math.Sqrt(a*a*a/μ)
}

// maxDurationSeconds stays below the largest time.Duration.
const maxDurationSeconds = 9e9

// humanDuration formats a time in seconds, in whole hours past the range of time.Duration.
func humanDuration(seconds float64) string {
	if seconds < maxDurationSeconds {
		return time.Duration(seconds * float64(time.Second)).Round(time.Second).String()
	}
	return strconv.FormatFloat(seconds/3600, 'f', 0, 64) + "h"
}

func (a *app) emit(v interface{}) error {
	enc := yaml.NewEncoder(a.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "could not write output")
	}
	return enc.Close()
}

// floatFlags reads float64 flags, in order.
func floatFlags(cmd *cobra.Command, names ...string) ([]float64, error) {
	vals := make([]float64, len(names))
	for i, name := range names {
		v, err := cmd.Flags().GetFloat64(name)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func addBodyFlags(cmd *cobra.Command) {
	cmd.Flags().String("body", "earth", "central body")
	cmd.Flags().Float64("mu", 0, "gravitational parameter in km³/s², overrides --body")
}

func centralMu(cmd *cobra.Command) (float64, error) {
	if cmd.Flags().Changed("mu") {
		return cmd.Flags().GetFloat64("mu")
	}
	name, err := cmd.Flags().GetString("body")
	if err != nil {
		return 0, err
	}
	return bodyMu(name)
}

func vecFlag(cmd *cobra.Command, name string) (r3.Vec, error) {
	c, err := cmd.Flags().GetFloat64Slice(name)
	if err != nil {
		return r3.Vec{}, err
	}
	if len(c) != 3 {
		return r3.Vec{}, errors.Errorf("--%s needs three components, got %d", name, len(c))
	}
	return r3.Vec{X: c[0], Y: c[1], Z: c[2]}, nil
}

func stateFlags(cmd *cobra.Command) (twobody.StateVector, error) {
	R, err := vecFlag(cmd, "r")
	if err != nil {
		return twobody.StateVector{}, err
	}
	V, err := vecFlag(cmd, "v")
	if err != nil {
		return twobody.StateVector{}, err
	}
	return twobody.StateVector{R: R, V: V}, nil
}

// epochFlag returns the arrival epoch Δt after --epoch, or nil when no epoch is set.
func epochFlag(cmd *cobra.Command, Δt float64) (*epochOut, error) {
	s, err := cmd.Flags().GetString("epoch")
	if err != nil || s == "" {
		return nil, err
	}
	dt, err := parseEpoch(s)
	if err != nil {
		return nil, err
	}
	arr := arrival(dt, Δt)
	return &arr, nil
}

func (a *app) propagateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "propagate",
		Short: "Propagate a state vector by a time of flight",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			μ, err := centralMu(cmd)
			if err != nil {
				return err
			}
			s, err := stateFlags(cmd)
			if err != nil {
				return err
			}
			Δt, err := cmd.Flags().GetFloat64("dt")
			if err != nil {
				return err
			}
			arr, err := epochFlag(cmd, Δt)
			if err != nil {
				return err
			}
			final, err := twobody.PropagatePrecise(s, μ, Δt, a.settings.Tolerance, a.settings.MaxIterations)
			if err != nil {
				return errors.Wrap(err, "propagate")
			}
			return a.emit(struct {
				State   *stateOut `yaml:"state"`
				Dt      float64   `yaml:"dt"`
				Arrival *epochOut `yaml:"arrival,omitempty"`
			}{newStateOut(final), Δt, arr})
		},
	}
	addBodyFlags(cmd)
	cmd.Flags().Float64Slice("r", nil, "position x,y,z in km")
	cmd.Flags().Float64Slice("v", nil, "velocity x,y,z in km/s")
	cmd.Flags().Float64("dt", 0, "time of flight in seconds, may be negative")
	cmd.Flags().String("epoch", "", "initial epoch as a Julian date or an RFC3339 time")
	return cmd
}

func (a *app) lambertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lambert",
		Short: "Solve Lambert's problem between two positions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			μ, err := centralMu(cmd)
			if err != nil {
				return err
			}
			Ri, err := vecFlag(cmd, "ri")
			if err != nil {
				return err
			}
			Rf, err := vecFlag(cmd, "rf")
			if err != nil {
				return err
			}
			var t twobody.Transfer
			dir, err := cmd.Flags().GetString("direction")
			if err != nil {
				return err
			}
			if t.Direction, err = twobody.ParseDirection(dir); err != nil {
				return err
			}
			br, err := cmd.Flags().GetString("branch")
			if err != nil {
				return err
			}
			if t.Branch, err = twobody.ParseBranch(br); err != nil {
				return err
			}
			if t.Revolutions, err = cmd.Flags().GetUint("revolutions"); err != nil {
				return err
			}
			Δt, err := cmd.Flags().GetFloat64("dt")
			if err != nil {
				return err
			}
			arr, err := epochFlag(cmd, Δt)
			if err != nil {
				return err
			}
			Vi, Vf, err := twobody.PreciseLambert(Ri, Rf, Δt, μ, t, a.settings.Tolerance, a.settings.MaxIterations)
			if err != nil {
				return errors.Wrapf(err, "lambert (%s)", t)
			}
			return a.emit(struct {
				Transfer string     `yaml:"transfer"`
				Vi       [3]float64 `yaml:"vi,flow"`
				Vf       [3]float64 `yaml:"vf,flow"`
				Dt       float64    `yaml:"dt"`
				Arrival  *epochOut  `yaml:"arrival,omitempty"`
			}{t.String(), vecOut(Vi), vecOut(Vf), Δt, arr})
		},
	}
	addBodyFlags(cmd)
	cmd.Flags().Float64Slice("ri", nil, "initial position x,y,z in km")
	cmd.Flags().Float64Slice("rf", nil, "final position x,y,z in km")
	cmd.Flags().Float64("dt", 0, "time of flight in seconds")
	cmd.Flags().String("direction", "short", "short, long, prograde or retrograde")
	cmd.Flags().Uint("revolutions", 0, "number of complete revolutions")
	cmd.Flags().String("branch", "left", "multi-revolution branch: left or right")
	cmd.Flags().String("epoch", "", "departure epoch as a Julian date or an RFC3339 time")
	return cmd
}

func (a *app) rv2coeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rv2coe",
		Short: "Convert a state vector to classical orbital elements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			μ, err := centralMu(cmd)
			if err != nil {
				return err
			}
			s, err := stateFlags(cmd)
			if err != nil {
				return err
			}
			oe, err := twobody.StateToElements(s, μ)
			if err != nil {
				return errors.Wrap(err, "rv2coe")
			}
			return a.emit(newElementsOut(oe, μ))
		},
	}
	addBodyFlags(cmd)
	cmd.Flags().Float64Slice("r", nil, "position x,y,z in km")
	cmd.Flags().Float64Slice("v", nil, "velocity x,y,z in km/s")
	return cmd
}

func (a *app) coe2rvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coe2rv",
		Short: "Convert classical orbital elements to a state vector",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			μ, err := centralMu(cmd)
			if err != nil {
				return err
			}
			c, err := floatFlags(cmd, "a", "e", "i", "raan", "argp", "nu", "p")
			if err != nil {
				return err
			}
			oe := twobody.OrbitalElements{
				A:            c[0],
				E:            c[1],
				I:            twobody.Deg2rad(c[2]),
				RAAN:         twobody.Deg2rad(c[3]),
				ArgPeriapsis: twobody.Deg2rad(c[4]),
				TrueAnomaly:  twobody.Deg2rad(c[5]),
				P:            c[6],
			}
			if f := cmd.Flags(); f.Changed("p") && !f.Changed("a") {
				oe.A = math.Inf(1)
			}
			s, err := twobody.ElementsToState(oe, μ)
			if err != nil {
				return errors.Wrap(err, "coe2rv")
			}
			return a.emit(struct {
				State *stateOut `yaml:"state"`
			}{newStateOut(s)})
		},
	}
	addBodyFlags(cmd)
	cmd.Flags().Float64("a", 0, "semi-major axis in km, negative for hyperbolic orbits")
	cmd.Flags().Float64("e", 0, "eccentricity")
	cmd.Flags().Float64("p", 0, "semi-latus rectum in km, used in place of a(1-e²) when set")
	cmd.Flags().Float64("i", 0, "inclination in degrees")
	cmd.Flags().Float64("raan", 0, "right ascension of the ascending node in degrees")
	cmd.Flags().Float64("argp", 0, "argument of periapsis in degrees")
	cmd.Flags().Float64("nu", 0, "true anomaly in degrees")
	return cmd
}

func (a *app) hohmannCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hohmann",
		Short: "Size a Hohmann transfer between two circular orbits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			μ, err := centralMu(cmd)
			if err != nil {
				return err
			}
			r, err := floatFlags(cmd, "ri", "rf")
			if err != nil {
				return err
			}
			Δva, Δvb, aT, _, err := twobody.Hohmann(μ, r[0], r[1])
			if err != nil {
				return errors.Wrap(err, "hohmann")
			}
			tof := halfPeriod(μ, aT)
			return a.emit(struct {
				DVa   float64 `yaml:"dva"`
				DVb   float64 `yaml:"dvb"`
				Total float64 `yaml:"dv_total"`
				A     float64 `yaml:"a_transfer"`
				TOF   float64 `yaml:"tof"`
				Human string  `yaml:"tof_human"`
			}{Δva, Δvb, math.Abs(Δva) + math.Abs(Δvb), aT, tof, humanDuration(tof)})
		},
	}
	addBodyFlags(cmd)
	cmd.Flags().Float64("ri", 0, "initial orbit radius in km")
	cmd.Flags().Float64("rf", 0, "final orbit radius in km")
	return cmd
}

func (a *app) biellipticCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bielliptic",
		Short: "Size a bi-elliptic transfer between two circular orbits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			μ, err := centralMu(cmd)
			if err != nil {
				return err
			}
			r, err := floatFlags(cmd, "ri", "rb", "rf")
			if err != nil {
				return err
			}
			Δva, Δvb, Δvc, a1, a2, _, _, err := twobody.Bielliptic(μ, r[0], r[1], r[2])
			if err != nil {
				return errors.Wrap(err, "bielliptic")
			}
			tof := halfPeriod(μ, a1) + halfPeriod(μ, a2)
			return a.emit(struct {
				DVa   float64 `yaml:"dva"`
				DVb   float64 `yaml:"dvb"`
				DVc   float64 `yaml:"dvc"`
				Total float64 `yaml:"dv_total"`
				A1    float64 `yaml:"a1"`
				A2    float64 `yaml:"a2"`
				TOF   float64 `yaml:"tof"`
				Human string  `yaml:"tof_human"`
			}{Δva, Δvb, Δvc, math.Abs(Δva) + math.Abs(Δvb) + math.Abs(Δvc), a1, a2,
				tof, humanDuration(tof)})
		},
	}
	addBodyFlags(cmd)
	cmd.Flags().Float64("ri", 0, "initial orbit radius in km")
	cmd.Flags().Float64("rb", 0, "intermediate apoapsis radius in km")
	cmd.Flags().Float64("rf", 0, "final orbit radius in km")
	return cmd
}

func (a *app) bodiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bodies",
		Short: "List the known central bodies and their gravitational parameter",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.emit(bodies)
		},
	}
}
