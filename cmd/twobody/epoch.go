package main

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/soniakeys/meeus/v3/julian"
)

// parseEpoch reads either a Julian date or an RFC3339 time.
func parseEpoch(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if jd, err := strconv.ParseFloat(s, 64); err == nil {
		if !(jd > 0) || math.IsInf(jd, 0) {
			return time.Time{}, errors.Errorf("Julian date %s must be positive", s)
		}
		return julian.JDToTime(jd), nil
	}
	dt, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errors.Errorf("epoch %q is neither a Julian date nor an RFC3339 time", s)
	}
	return dt.UTC(), nil
}

// epochOut is how epochs are reported.
type epochOut struct {
	UTC string  `yaml:"utc"`
	JD  float64 `yaml:"jd"`
}

// arrival returns the epoch Δt seconds after dt.
func arrival(dt time.Time, Δt float64) epochOut {
	arr := dt.Add(time.Duration(Δt * float64(time.Second)))
	return epochOut{UTC: arr.UTC().Format(time.RFC3339Nano), JD: julian.TimeToJD(arr)}
}
