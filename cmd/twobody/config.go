package main

import (
	"os"
	"runtime"
	"strings"

	"github.com/astrodyn/twobody"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	configDirEnv = "TWOBODY_CONFIG"
	envPrefix    = "TWOBODY"

	keyTolerance   = "solver.tolerance"
	keyMaxIter     = "solver.max_iterations"
	keyWorkers     = "batch.workers"
	keyLogLevel    = "log.level"
	keyMetricsAddr = "metrics.addr"
)

// settings is the configuration shared by all the commands.
type settings struct {
	Tolerance     float64
	MaxIterations int
	Workers       int
	LogLevel      string
	MetricsAddr   string
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(keyTolerance, twobody.DefaultTolerance)
	v.SetDefault(keyMaxIter, twobody.DefaultMaxIterations)
	v.SetDefault(keyWorkers, runtime.NumCPU())
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyMetricsAddr, "")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// readConfig loads the config file if one is set, either explicitly or as conf.{toml,yaml}
// in the $TWOBODY_CONFIG directory. Having no config file at all is fine.
func readConfig(v *viper.Viper, file string) error {
	switch dir := os.Getenv(configDirEnv); {
	case file != "":
		v.SetConfigFile(file)
	case dir != "":
		v.SetConfigName("conf")
		v.AddConfigPath(dir)
	default:
		return nil
	}
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrap(err, "could not read configuration")
	}
	return nil
}

func loadSettings(v *viper.Viper) (settings, error) {
	s := settings{
		Tolerance:     v.GetFloat64(keyTolerance),
		MaxIterations: v.GetInt(keyMaxIter),
		Workers:       v.GetInt(keyWorkers),
		LogLevel:      strings.ToLower(v.GetString(keyLogLevel)),
		MetricsAddr:   v.GetString(keyMetricsAddr),
	}
	if !(s.Tolerance > 0) {
		return s, errors.Errorf("%s must be positive, got %g", keyTolerance, s.Tolerance)
	}
	if s.MaxIterations < 1 {
		return s, errors.Errorf("%s must be positive, got %d", keyMaxIter, s.MaxIterations)
	}
	if s.Workers < 1 {
		return s, errors.Errorf("%s must be positive, got %d", keyWorkers, s.Workers)
	}
	return s, nil
}
