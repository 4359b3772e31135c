// Command twobody propagates Keplerian orbits, solves Lambert's problem and sizes
// impulsive transfers from the command line. Results are written as YAML.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/astrodyn/twobody"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type app struct {
	v        *viper.Viper
	cfgFile  string
	out      io.Writer
	errOut   io.Writer
	logger   log.Logger
	settings settings
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{v: newViper(), out: out, errOut: errOut, logger: log.NewNopLogger()}
	root := &cobra.Command{
		Use:   "twobody",
		Short: "Two-body orbital mechanics toolbox",
		Long: `twobody propagates Keplerian orbits with the universal variable formulation,
converts between state vectors and orbital elements, solves Lambert's problem
(including multi-revolution transfers) and sizes Hohmann and bi-elliptic transfers.

Distances are in km, velocities in km/s, times in seconds and angles in degrees.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is $"+configDirEnv+"/conf.toml)")
	pf.Float64("tolerance", twobody.DefaultTolerance, "relative time of flight tolerance of the solvers")
	pf.Int("max-iterations", twobody.DefaultMaxIterations, "iteration budget of the solvers")
	pf.String("log-level", "info", "log level: debug, info, warn, error or none")
	for key, flag := range map[string]string{
		keyTolerance: "tolerance",
		keyMaxIter:   "max-iterations",
		keyLogLevel:  "log-level",
	} {
		cobra.CheckErr(a.v.BindPFlag(key, pf.Lookup(flag)))
	}

	root.AddCommand(
		a.propagateCmd(),
		a.lambertCmd(),
		a.rv2coeCmd(),
		a.coe2rvCmd(),
		a.hohmannCmd(),
		a.biellipticCmd(),
		a.batchCmd(),
		a.bodiesCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := readConfig(a.v, a.cfgFile); err != nil {
		return err
	}
	s, err := loadSettings(a.v)
	if err != nil {
		return err
	}
	a.settings = s
	if a.logger, err = newLogger(a.errOut, s.LogLevel); err != nil {
		return err
	}
	level.Debug(a.logger).Log("msg", "configuration loaded", "file", a.v.ConfigFileUsed(),
		"cmd", cmd.Name(), "tolerance", s.Tolerance, "max_iterations", s.MaxIterations)
	return nil
}

// newLogger returns a logfmt logger writing to w which only lets through the entries
// at or above lvl.
func newLogger(w io.Writer, lvl string) (log.Logger, error) {
	var allow level.Option
	switch strings.ToLower(lvl) {
	case "debug":
		allow = level.AllowDebug()
	case "", "info":
		allow = level.AllowInfo()
	case "warn", "warning":
		allow = level.AllowWarn()
	case "error":
		allow = level.AllowError()
	case "none":
		allow = level.AllowNone()
	default:
		return nil, errors.Errorf("unknown log level %q", lvl)
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = level.NewFilter(logger, allow)
	return log.With(logger, "ts", log.DefaultTimestampUTC), nil
}
