package main

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/born-ml/aad/internal/catalog"
	"github.com/born-ml/aad/internal/risk"
	"github.com/born-ml/aad/internal/telemetry"
)

// benchTolerance bounds the adjoint versus bump disagreement reported by bench.
var benchTolerance = risk.Tolerance{Abs: 1e-5, Rel: 1e-5}

func newBenchCmd(a *app) *cobra.Command {
	var (
		dim       int
		reps      int
		workers   int
		scenarios int
		metrics   bool
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time adjoint gradients against bump-and-revalue on an n-dimensional Rosenbrock function",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := cmd.Flags()
			if f.Changed("dim") {
				a.cfg.Bench.Dim = dim
			}
			if f.Changed("reps") {
				a.cfg.Bench.Reps = reps
			}
			if f.Changed("workers") {
				a.cfg.Bench.Workers = workers
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			if a.cfg.Bench.Dim < 2 {
				return fmt.Errorf("bench: dim must be >= 2, got %d", a.cfg.Bench.Dim)
			}

			reg := prometheus.NewRegistry()
			collector := telemetry.NewTapeCollector()
			reg.MustRegister(collector)
			rc := a.cfg.Risk(a.log)
			rc.Metrics = telemetry.NewMetrics(reg)
			rc.Collector = collector

			n, r := a.cfg.Bench.Dim, a.cfg.Bench.Reps
			x := make([]float64, n)
			for i := range x {
				x[i] = 0.5 + 0.01*float64(i%17)
			}

			e := risk.NewEngine(rc)
			defer e.Close()
			var adj risk.Sensitivities
			start := time.Now()
			for i := 0; i < r; i++ {
				s, err := e.Gradient(catalog.Rosenbrock, x)
				if err != nil {
					return err
				}
				adj = s
			}
			adjTime := time.Since(start) / time.Duration(r)
			collector.Update("bench", e.Tape().Stats())

			var bumped risk.Sensitivities
			start = time.Now()
			for i := 0; i < r; i++ {
				s, err := risk.Bump(catalog.Rosenbrock, x, rc)
				if err != nil {
					return err
				}
				bumped = s
			}
			bumpTime := time.Since(start) / time.Duration(r)

			mism := risk.Compare(adj, bumped, benchTolerance)
			rc.Metrics.ObserveMismatches(len(mism))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dimension:   %d\n", n)
			fmt.Fprintf(out, "value:       %.10g\n", adj.Value)
			fmt.Fprintf(out, "adjoint:     %v/op (%d statements)\n", adjTime, e.Tape().NumStatements())
			fmt.Fprintf(out, "bump:        %v/op (%d workers)\n", bumpTime, rc.Parallel.Workers(2*n))
			fmt.Fprintf(out, "speed-up:    %.1fx\n", float64(bumpTime)/float64(max(adjTime, 1)))
			fmt.Fprintf(out, "mismatches:  %d\n", len(mism))

			if scenarios > 0 {
				sc := make([][]float64, scenarios)
				for i := range sc {
					s := make([]float64, n)
					for j := range s {
						s[j] = x[j] + 0.001*float64(i)
					}
					sc[i] = s
				}
				start = time.Now()
				if _, err := risk.RunScenarios(cmd.Context(), catalog.Rosenbrock, sc, rc); err != nil {
					return err
				}
				fmt.Fprintf(out, "scenarios:   %d in %v\n", scenarios, time.Since(start))
			}

			a.log.Info("bench done", "dim", n, "reps", r, "adjoint", adjTime, "bump", bumpTime)
			if metrics {
				fmt.Fprintln(out)
				if err := telemetry.WriteText(out, reg); err != nil {
					return err
				}
			}
			if len(mism) > 0 {
				return fmt.Errorf("bench: %d components disagree with bumping", len(mism))
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&dim, "dim", 50, "number of inputs")
	f.IntVar(&reps, "reps", 100, "repetitions per method")
	f.IntVar(&workers, "workers", 1, "bumping and scenario workers")
	f.IntVar(&scenarios, "scenarios", 0, "also run this many gradient scenarios concurrently")
	f.BoolVar(&metrics, "metrics", false, "print prometheus metrics after the run")
	return cmd
}
