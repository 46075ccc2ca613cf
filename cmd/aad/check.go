package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/born-ml/aad/internal/catalog"
	"github.com/born-ml/aad/internal/risk"
)

var errCheckFailed = errors.New("gradient check failed")

func newCheckCmd(a *app) *cobra.Command {
	var (
		name string
		step float64
		tol  float64
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compare adjoint gradients with finite differences for every catalog case",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("step") {
				step = a.cfg.Check.Step
			}
			if !cmd.Flags().Changed("tol") {
				tol = a.cfg.Check.Tolerance
			}

			cases := catalog.Cases()
			if name != "" {
				c, ok := catalog.Lookup(name)
				if !ok {
					return fmt.Errorf("unknown case %q", name)
				}
				cases = []catalog.Case{c}
			}

			rc := risk.DefaultConfig()
			rc.Tape = a.cfg.Tape.AAD(a.log)
			rc.Logger = a.log
			e := risk.NewEngine(rc)
			defer e.Close()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CASE\tINPUTS\tMAX ERROR\tSTATUS")
			failed := 0
			for _, c := range cases {
				r, err := catalog.Check(e, c, step, tol)
				if err != nil {
					return err
				}
				status := "ok"
				if !r.OK {
					status = "FAIL"
					failed++
					a.log.Warn("gradient mismatch", "case", r.Name, "adjoint", r.Adjoint, "finite", r.Finite)
				}
				fmt.Fprintf(tw, "%s\t%d\t%.3g\t%s\n", r.Name, len(r.Adjoint), r.MaxError, status)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			a.log.Info("check done", "cases", len(cases), "failed", failed, "step", step, "tol", tol)
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d cases", errCheckFailed, failed, len(cases))
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "case", "", "run a single case")
	f.Float64Var(&step, "step", 1e-6, "finite-difference step")
	f.Float64Var(&tol, "tol", 1e-6, "absolute or relative tolerance")
	return cmd
}
