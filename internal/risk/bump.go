package risk

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/born-ml/aad/internal/aad"
	"github.com/born-ml/aad/internal/parallel"
)

// Bump returns f(x) and a finite-difference gradient. Every evaluation runs on
// unbound values, so f is plain arithmetic here and may be called concurrently.
func Bump(f Func, x []float64, cfg Config) (Sensitivities, error) {
	if len(x) == 0 {
		return Sensitivities{}, ErrNoInputs
	}
	start := time.Now()

	base, err := evaluate(f, aad.NewReals(x))
	if err != nil {
		return Sensitivities{}, err
	}

	sides := 1
	if cfg.Central {
		sides = 2
	}
	// shifted[i][0] is f at x[i]+h, shifted[i][1] at x[i]-h.
	shifted := make([][2]float64, len(x))
	steps := make([]float64, len(x))
	for i, v := range x {
		steps[i] = cfg.BumpStep * math.Max(1, math.Abs(v))
	}

	parallel.ForBatch(len(x), sides, func(i, side int) {
		in := aad.NewReals(x)
		h := steps[i]
		if side == 1 {
			h = -h
		}
		in[i].SetValue(x[i] + h)
		shifted[i][side] = f(in).Value()
	}, cfg.Parallel)

	grad := make([]float64, len(x))
	for i := range x {
		if cfg.Central {
			grad[i] = (shifted[i][0] - shifted[i][1]) / (2 * steps[i])
		} else {
			grad[i] = (shifted[i][0] - base.Value()) / steps[i]
		}
	}

	cfg.Metrics.ObserveBump(time.Since(start), 1+sides*len(x))
	return Sensitivities{Value: base.Value(), Gradient: grad}, nil
}

// Tolerance bounds the accepted difference between two sensitivities: a pair
// matches if it is within Abs absolutely or Rel relatively.
type Tolerance struct {
	Abs float64
	Rel float64
}

// Mismatch is a component outside tolerance. Index -1 denotes the value.
type Mismatch struct {
	Index   int
	Adjoint float64
	Bumped  float64
}

// Compare pairs each component of a with the same component of b and returns
// those outside tol. Gradients of different lengths compare up to the shorter
// one and report every extra component.
func Compare(a, b Sensitivities, tol Tolerance) []Mismatch {
	var out []Mismatch
	if !scalar.EqualWithinAbsOrRel(a.Value, b.Value, tol.Abs, tol.Rel) {
		out = append(out, Mismatch{Index: -1, Adjoint: a.Value, Bumped: b.Value})
	}
	n := max(len(a.Gradient), len(b.Gradient))
	for i := 0; i < n; i++ {
		av, bv := at(a.Gradient, i), at(b.Gradient, i)
		if i >= len(a.Gradient) || i >= len(b.Gradient) || !scalar.EqualWithinAbsOrRel(av, bv, tol.Abs, tol.Rel) {
			out = append(out, Mismatch{Index: i, Adjoint: av, Bumped: bv})
		}
	}
	return out
}

func at(v []float64, i int) float64 {
	if i < len(v) {
		return v[i]
	}
	return math.NaN()
}
