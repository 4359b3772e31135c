package main

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/astrodyn/twobody/batch"
	"github.com/astrodyn/twobody/internal/metrics"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type resultOut struct {
	Job      string       `yaml:"job"`
	State    *stateOut    `yaml:"state,omitempty"`
	Vi       *[3]float64  `yaml:"vi,omitempty,flow"`
	Vf       *[3]float64  `yaml:"vf,omitempty,flow"`
	Elements *elementsOut `yaml:"elements,omitempty"`
	Error    string       `yaml:"error,omitempty"`
	Duration string       `yaml:"duration"`
}

func newResultOut(r batch.Result) resultOut {
	out := resultOut{Job: r.Job.Label(), Duration: r.Duration.String()}
	if r.Err != nil {
		out.Error = r.Err.Error()
		return out
	}
	switch j := r.Job.(type) {
	case batch.PropagateJob:
		out.State = newStateOut(r.Output.State)
	case batch.LambertJob:
		vi, vf := vecOut(r.Output.Vi), vecOut(r.Output.Vf)
		out.Vi, out.Vf = &vi, &vf
	case batch.ElementsJob:
		out.Elements = newElementsOut(r.Output.Elements, j.Mu)
	}
	return out
}

func (a *app) batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Solve the jobs of a YAML job file concurrently",
		Long: `batch reads a YAML job file ("-" for stdin) listing propagate, lambert and rv2coe
jobs, solves them on a bounded worker pool and writes one result per job, in order.
A failed job does not stop the others, but makes the command exit with an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return errors.Wrap(err, "could not open job file")
				}
				defer f.Close()
				in = f
			}
			jobs, err := batch.LoadJobs(in, bodyMu)
			if err != nil {
				return err
			}
			if addr := a.settings.MetricsAddr; addr != "" {
				srv := a.serveMetrics(addr)
				defer srv.Close()
			}
			runner := batch.NewRunner(a.settings.Workers, a.settings.Tolerance, a.settings.MaxIterations, a.logger)
			results := runner.Run(cmd.Context(), jobs)
			out := make([]resultOut, len(results))
			failed := 0
			for i, r := range results {
				out[i] = newResultOut(r)
				if r.Err != nil {
					failed++
				}
			}
			if err := a.emit(struct {
				Results []resultOut `yaml:"results"`
			}{out}); err != nil {
				return err
			}
			if failed > 0 {
				return errors.Errorf("%d of %d jobs failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().Int("workers", 0, "number of concurrent solves (default is the number of CPUs)")
	cmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address while the batch runs")
	cobra.CheckErr(a.v.BindPFlag(keyWorkers, cmd.Flags().Lookup("workers")))
	cobra.CheckErr(a.v.BindPFlag(keyMetricsAddr, cmd.Flags().Lookup("metrics-addr")))
	return cmd
}

func (a *app) serveMetrics(addr string) *http.Server {
	srv := &http.Server{Addr: addr, Handler: metrics.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			level.Error(a.logger).Log("msg", "metrics server failed", "addr", addr, "err", err)
		}
	}()
	level.Info(a.logger).Log("msg", "serving metrics", "addr", addr)
	return srv
}
