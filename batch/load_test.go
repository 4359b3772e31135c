package batch

import (
	"strings"
	"testing"

	"github.com/astrodyn/twobody"
	"github.com/pkg/errors"
)

func resolveEarth(name string) (float64, error) {
	if name == "earth" {
		return μEarth, nil
	}
	return 0, errors.Errorf("unknown body %q", name)
}

const jobFile = `
jobs:
  - name: vallado
    kind: propagate
    body: earth
    r: [1131.340, -2282.343, 6672.423]
    v: [-5.64305, 4.30333, 2.42879]
    dt: 2400
  - name: transfer
    kind: lambert
    mu: 398600.4418
    ri: [15945.34, 0, 0]
    rf: [12214.83899, 10249.46731, 0]
    dt: 4560
    direction: long
    revolutions: 1
    branch: right
  - kind: rv2coe
    body: earth
    r: [6524.834, 6862.875, 6448.296]
    v: [4.901327, 5.533756, -1.976341]
`

func TestLoadJobs(t *testing.T) {
	jobs, err := LoadJobs(strings.NewReader(jobFile), resolveEarth)
	if err != nil {
		t.Fatalf("err %s", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("%d jobs", len(jobs))
	}
	p, ok := jobs[0].(PropagateJob)
	if !ok || p.Mu != μEarth || p.Dt != 2400 || p.State != valladoState {
		t.Fatalf("unexpected propagate job %+v", jobs[0])
	}
	l, ok := jobs[1].(LambertJob)
	if !ok || l.Transfer != (twobody.Transfer{Direction: twobody.LongWay, Revolutions: 1, Branch: twobody.RightBranch}) {
		t.Fatalf("unexpected lambert job %+v", jobs[1])
	}
	if jobs[2].Label() != "rv2coe" {
		t.Fatalf("unexpected label %s", jobs[2].Label())
	}
	if jobs[1].Label() != "lambert/transfer" {
		t.Fatalf("unexpected label %s", jobs[1].Label())
	}
}

func TestLoadJobsErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"unknown kind":   "jobs:\n  - kind: fly\n    mu: 1\n",
		"short vector":   "jobs:\n  - kind: propagate\n    mu: 1\n    r: [1, 2]\n    v: [1, 2, 3]\n",
		"unknown body":   "jobs:\n  - kind: rv2coe\n    body: vulcan\n    r: [1, 2, 3]\n    v: [1, 2, 3]\n",
		"body and mu":    "jobs:\n  - kind: rv2coe\n    body: earth\n    mu: 1\n    r: [1, 2, 3]\n    v: [1, 2, 3]\n",
		"bad direction":  "jobs:\n  - kind: lambert\n    mu: 1\n    ri: [1, 0, 0]\n    rf: [0, 1, 0]\n    dt: 1\n    direction: up\n",
		"unknown field":  "jobs:\n  - kind: propagate\n    speed: 3\n",
		"not a job file": "- 1\n- 2\n",
	} {
		if _, err := LoadJobs(strings.NewReader(doc), resolveEarth); err == nil {
			t.Fatalf("[%s] expected an error", name)
		}
	}
}
