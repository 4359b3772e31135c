package main

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// bodies maps the central body names to their gravitational parameter in km³/s².
var bodies = map[string]float64{
	"sun":     1.32712440017987e11,
	"mercury": 2.2032e4,
	"venus":   3.24858599e5,
	"earth":   3.98600433e5,
	"moon":    4.902800066e3,
	"mars":    4.28283100e4,
	"jupiter": 1.266865361e8,
	"saturn":  3.7931208e7,
	"uranus":  5.7939513e6,
	"neptune": 6.836529e6,
	"pluto":   9e2,
}

// bodyMu returns the gravitational parameter of the named body.
func bodyMu(name string) (float64, error) {
	μ, ok := bodies[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, errors.Errorf("undefined body '%s' (known: %s)", name, strings.Join(bodyNames(), ", "))
	}
	return μ, nil
}

func bodyNames() []string {
	names := make([]string, 0, len(bodies))
	for name := range bodies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
