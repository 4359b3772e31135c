package batch

import (
	"context"
	"runtime"
	"time"

	"github.com/astrodyn/twobody"
	"github.com/astrodyn/twobody/internal/metrics"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one job. Err is set when the job failed or was never started.
type Result struct {
	Job      Job
	Output   Output
	Err      error
	Duration time.Duration
}

// Runner solves jobs on a bounded number of goroutines.
type Runner struct {
	workers int
	tol     float64
	maxIter int
	logger  log.Logger
}

// NewRunner returns a runner with the given parallelism, solver tolerance and iteration budget.
// Non positive values select runtime.NumCPU() workers and the library defaults.
func NewRunner(workers int, tol float64, maxIter int, logger log.Logger) *Runner {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if tol <= 0 {
		tol = twobody.DefaultTolerance
	}
	if maxIter < 1 {
		maxIter = twobody.DefaultMaxIterations
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Runner{workers: workers, tol: tol, maxIter: maxIter, logger: log.With(logger, "subsys", "batch")}
}

// Run solves all jobs and returns their results in the order of the jobs.
// A failed job never stops the others. Once ctx is done, jobs which have not started
// report ctx.Err() and the running ones finish.
func (r *Runner) Run(ctx context.Context, jobs []Job) []Result {
	start := time.Now()
	results := make([]Result, len(jobs))
	var g errgroup.Group
	g.SetLimit(r.workers)
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			results[i] = r.skip(job, err)
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = r.skip(job, err)
				return nil
			}
			results[i] = r.solve(job)
			return nil
		})
	}
	g.Wait() // jobs never return errors, they are recorded in their result

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	level.Info(r.logger).Log("status", "finished", "jobs", len(jobs), "failed", failed, "workers", r.workers, "duration", time.Since(start))
	return results
}

func (r *Runner) solve(job Job) Result {
	done := metrics.JobStarted()
	defer done()
	start := time.Now()
	out, err := job.Solve(r.tol, r.maxIter)
	res := Result{Job: job, Output: out, Err: err, Duration: time.Since(start)}
	metrics.ObserveSolve(job.Kind(), Classify(err), res.Duration)
	if err != nil {
		level.Warn(r.logger).Log("job", job.Label(), "op", job.Kind(), "err", err)
	} else {
		level.Debug(r.logger).Log("job", job.Label(), "op", job.Kind(), "duration", res.Duration)
	}
	return res
}

func (r *Runner) skip(job Job, err error) Result {
	metrics.ObserveSolve(job.Kind(), metrics.OutcomeCanceled, 0)
	return Result{Job: job, Err: err}
}

// Classify returns the metrics outcome label of a solve error.
func Classify(err error) string {
	var (
		cErr *twobody.ConvergenceError
		dErr *twobody.DegenerateOrbitError
		gErr *twobody.DegenerateGeometryError
		nErr *twobody.NoSolutionError
	)
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, twobody.ErrInvalidArgument):
		return metrics.OutcomeInvalidArgument
	case errors.As(err, &cErr):
		return metrics.OutcomeConvergence
	case errors.As(err, &dErr), errors.As(err, &gErr):
		return metrics.OutcomeDegenerate
	case errors.As(err, &nErr):
		return metrics.OutcomeNoSolution
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeError
	}
}
