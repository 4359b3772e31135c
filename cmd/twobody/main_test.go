package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/astrodyn/twobody"
	"github.com/go-kit/log/level"
)

// run executes the command line with a clean configuration environment.
func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv(configDirEnv, "")
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestSettingsDefaults(t *testing.T) {
	t.Setenv(configDirEnv, "")
	v := newViper()
	if err := readConfig(v, ""); err != nil {
		t.Fatalf("err %s", err)
	}
	s, err := loadSettings(v)
	if err != nil {
		t.Fatalf("err %s", err)
	}
	exp := settings{
		Tolerance:     twobody.DefaultTolerance,
		MaxIterations: twobody.DefaultMaxIterations,
		Workers:       runtime.NumCPU(),
		LogLevel:      "info",
	}
	if s != exp {
		t.Fatalf("got %+v\nexp %+v", s, exp)
	}
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	conf := `[solver]
tolerance = 1e-10
max_iterations = 50

[log]
level = "DEBUG"

[metrics]
addr = "localhost:9464"
`
	if err := os.WriteFile(filepath.Join(dir, "conf.toml"), []byte(conf), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(configDirEnv, dir)
	t.Setenv("TWOBODY_BATCH_WORKERS", "3")
	v := newViper()
	if err := readConfig(v, ""); err != nil {
		t.Fatalf("err %s", err)
	}
	s, err := loadSettings(v)
	if err != nil {
		t.Fatalf("err %s", err)
	}
	exp := settings{Tolerance: 1e-10, MaxIterations: 50, Workers: 3, LogLevel: "debug", MetricsAddr: "localhost:9464"}
	if s != exp {
		t.Fatalf("got %+v\nexp %+v", s, exp)
	}

	// An explicit file wins over the directory.
	file := filepath.Join(t.TempDir(), "other.yaml")
	if err := os.WriteFile(file, []byte("solver:\n  max_iterations: 7\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	v = newViper()
	if err := readConfig(v, file); err != nil {
		t.Fatalf("err %s", err)
	}
	if s, err = loadSettings(v); err != nil || s.MaxIterations != 7 || s.Tolerance != twobody.DefaultTolerance {
		t.Fatalf("got %+v (err %v)", s, err)
	}

	if err := readConfig(newViper(), filepath.Join(dir, "missing.toml")); err == nil {
		t.Fatal("missing config file should fail")
	}
}

func TestSettingsInvalid(t *testing.T) {
	for key, val := range map[string]interface{}{
		keyTolerance: -1e-8,
		keyMaxIter:   0,
		keyWorkers:   -2,
	} {
		v := newViper()
		v.Set(key, val)
		if _, err := loadSettings(v); err == nil || !strings.Contains(err.Error(), key) {
			t.Fatalf("%s=%v: expected an error naming the key, got %v", key, val, err)
		}
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "warn")
	if err != nil {
		t.Fatalf("err %s", err)
	}
	level.Info(logger).Log("msg", "hidden")
	level.Warn(logger).Log("msg", "shown")
	if got := buf.String(); strings.Contains(got, "hidden") || !strings.Contains(got, "level=warn") || !strings.Contains(got, "msg=shown") {
		t.Fatalf("unexpected log output %q", got)
	}
	if _, err := newLogger(&buf, "verbose"); err == nil {
		t.Fatal("unknown level should fail")
	}
}

func TestRootFlags(t *testing.T) {
	if _, _, err := run(t, "bodies", "--log-level=chatty"); err == nil {
		t.Fatal("unknown log level should fail")
	}
	if _, _, err := run(t, "bodies", "--max-iterations=0"); err == nil {
		t.Fatal("null iteration budget should fail")
	}
	if _, _, err := run(t, "bodies", "--config", filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("missing config file should fail")
	}
	_, stderr, err := run(t, "bodies", "--log-level=debug")
	if err != nil {
		t.Fatalf("err %s", err)
	}
	if !strings.Contains(stderr, "configuration loaded") {
		t.Fatalf("expected a debug entry, got %q", stderr)
	}
}
