package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels of a solve.
const (
	OutcomeOK              = "ok"
	OutcomeInvalidArgument = "invalid_argument"
	OutcomeConvergence     = "convergence"
	OutcomeDegenerate      = "degenerate"
	OutcomeNoSolution      = "no_solution"
	OutcomeCanceled        = "canceled"
	OutcomeError           = "error"
)

var (
	solvesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "twobody_solves_total",
			Help: "Total number of two-body solves by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	solveDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "twobody_solve_duration_seconds",
			Help:    "Two-body solve duration in seconds.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		},
		[]string{"kind"},
	)

	jobsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "twobody_batch_jobs_in_flight",
			Help: "Number of batch jobs currently being solved.",
		},
	)
)

func init() {
	prometheus.MustRegister(solvesTotal)
	prometheus.MustRegister(solveDurationSeconds)
	prometheus.MustRegister(jobsInFlight)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveSolve records one solve of the given kind (propagate, lambert, elements) and its outcome.
func ObserveSolve(kind, outcome string, d time.Duration) {
	solvesTotal.WithLabelValues(kind, outcome).Inc()
	solveDurationSeconds.WithLabelValues(kind).Observe(d.Seconds())
}

// JobStarted marks a batch job as in flight. The returned function marks it done.
func JobStarted() (done func()) {
	jobsInFlight.Inc()
	return jobsInFlight.Dec
}
