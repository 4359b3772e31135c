package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveSolve(t *testing.T) {
	before := testutil.ToFloat64(solvesTotal.WithLabelValues("lambert", OutcomeNoSolution))
	ObserveSolve("lambert", OutcomeNoSolution, 3*time.Millisecond)
	ObserveSolve("lambert", OutcomeNoSolution, time.Millisecond)
	if got := testutil.ToFloat64(solvesTotal.WithLabelValues("lambert", OutcomeNoSolution)) - before; got != 2 {
		t.Errorf("lambert no_solution counter increased by %f, want 2", got)
	}
	if n := testutil.CollectAndCount(solveDurationSeconds, "twobody_solve_duration_seconds"); n < 1 {
		t.Errorf("expected at least one duration series, got %d", n)
	}
}

func TestJobStarted(t *testing.T) {
	base := testutil.ToFloat64(jobsInFlight)
	done1 := JobStarted()
	done2 := JobStarted()
	if got := testutil.ToFloat64(jobsInFlight) - base; got != 2 {
		t.Errorf("in flight = %f, want 2", got)
	}
	done1()
	done2()
	if got := testutil.ToFloat64(jobsInFlight) - base; got != 0 {
		t.Errorf("in flight = %f after completion, want 0", got)
	}
}

func TestHandler(t *testing.T) {
	ObserveSolve("propagate", OutcomeOK, time.Microsecond)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `twobody_solves_total{kind="propagate",outcome="ok"}`) {
		t.Errorf("solve counter missing from the exposition")
	}
}
