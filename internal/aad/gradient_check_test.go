package aad_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/born-ml/aad/internal/aad"
)

// Gradient checking compares adjoints with central finite differences of the
// primal computed through the same constructors on unbound values.

var fdSettings = &fd.Settings{Formula: fd.Central, Step: 1e-6}

const gradTol = 1e-6

type unaryCase struct {
	name string
	f    func(aad.Operand) *aad.Expr
	x    float64
}

type binaryCase struct {
	name string
	f    func(a, b aad.Operand) *aad.Expr
	a, b float64
}

var unaryCases = []unaryCase{
	{"neg", aad.Neg, 0.7},
	{"abs/pos", aad.Abs, 0.7},
	{"abs/neg", aad.Abs, -0.7},
	{"sqrt", aad.Sqrt, 2.3},
	{"cbrt", aad.Cbrt, -1.9},
	{"exp", aad.Exp, 0.4},
	{"exp2", aad.Exp2, 1.3},
	{"expm1", aad.Expm1, -0.2},
	{"log", aad.Log, 1.7},
	{"log10", aad.Log10, 3.1},
	{"log2", aad.Log2, 0.6},
	{"log1p", aad.Log1p, 0.25},
	{"sin", aad.Sin, 0.9},
	{"cos", aad.Cos, 0.9},
	{"tan", aad.Tan, 0.5},
	{"asin", aad.Asin, 0.3},
	{"acos", aad.Acos, -0.2},
	{"atan", aad.Atan, 1.4},
	{"sinh", aad.Sinh, 0.8},
	{"cosh", aad.Cosh, -0.8},
	{"tanh", aad.Tanh, 0.6},
	{"asinh", aad.Asinh, 1.1},
	{"acosh", aad.Acosh, 1.8},
	{"atanh", aad.Atanh, 0.4},
	{"erf", aad.Erf, 0.35},
	{"erfc", aad.Erfc, 0.35},
	{"erfinv", aad.Erfinv, 0.3},
	{"erfcinv", aad.Erfcinv, 0.7},
	{"gamma", aad.Gamma, 1.6},
	{"lgamma", aad.Lgamma, 2.7},
	{"square", aad.Square, -1.3},
	{"inv", aad.Inv, 0.9},
	{"powf", func(x aad.Operand) *aad.Expr { return aad.PowF(x, 2.5) }, 1.3},
	{"normcdf", aad.NormCdf, -0.6},
	{"normpdf", aad.NormPdf, 0.9},
	{"norminv", aad.NormInv, 0.3},
	{"gammap", func(x aad.Operand) *aad.Expr { return aad.GammaP(2.5, x) }, 1.7},
	{"gammaq", func(x aad.Operand) *aad.Expr { return aad.GammaQ(2.5, x) }, 1.7},
	{"regincbeta", func(x aad.Operand) *aad.Expr { return aad.RegIncBeta(2, 3, x) }, 0.35},
	{"polynomial", func(x aad.Operand) *aad.Expr {
		return aad.EvaluatePolynomial([]float64{0.5, -1, 0.25, 2}, x)
	}, 0.6},
}

var binaryCases = []binaryCase{
	{"add", aad.Add, 1.2, -0.7},
	{"sub", aad.Sub, 1.2, -0.7},
	{"mul", aad.Mul, 1.2, -0.7},
	{"div", aad.Div, 1.2, -0.7},
	{"pow", aad.Pow, 1.7, 2.3},
	{"atan2", aad.Atan2, 0.7, 1.3},
	{"hypot", aad.Hypot, 0.8, 1.5},
	{"max/a", aad.Max, 1.2, 0.4},
	{"max/b", aad.Max, 0.4, 1.2},
	{"min/a", aad.Min, 0.4, 1.2},
	{"min/b", aad.Min, 1.2, 0.4},
	{"fmod", aad.Fmod, 5.3, 1.7},
	{"beta", aad.Beta, 1.5, 2.5},
}

func TestGradientCheck_Unary(t *testing.T) {
	for _, tc := range unaryCases {
		t.Run(tc.name, func(t *testing.T) {
			tape := aad.NewTape()
			x := aad.NewReal(tc.x)
			require.NoError(t, tape.RegisterInput(&x))
			tape.NewRecording()

			y := tc.f(x).Real()
			aad.SetDerivative(y, 1)
			require.NoError(t, tape.ComputeAdjoints())

			primal := func(v float64) float64 { return tc.f(aad.Float(v)).Value() }
			want := fd.Derivative(primal, tc.x, fdSettings)
			got := aad.Derivative(x)
			assert.Equal(t, primal(tc.x), y.Value())
			assert.True(t, scalar.EqualWithinAbsOrRel(got, want, gradTol, gradTol),
				"%s'(%v): aad=%v fd=%v", tc.name, tc.x, got, want)
		})
	}
}

func TestGradientCheck_Binary(t *testing.T) {
	for _, tc := range binaryCases {
		t.Run(tc.name, func(t *testing.T) {
			tape := aad.NewTape()
			a, b := aad.NewReal(tc.a), aad.NewReal(tc.b)
			require.NoError(t, tape.RegisterInput(&a))
			require.NoError(t, tape.RegisterInput(&b))
			tape.NewRecording()

			y := tc.f(a, b).Real()
			aad.SetDerivative(y, 1)
			require.NoError(t, tape.ComputeAdjoints())

			primal := func(v []float64) float64 { return tc.f(aad.Float(v[0]), aad.Float(v[1])).Value() }
			want := fd.Gradient(nil, primal, []float64{tc.a, tc.b}, fdSettings)
			got := []float64{aad.Derivative(a), aad.Derivative(b)}
			for i := range want {
				assert.True(t, scalar.EqualWithinAbsOrRel(got[i], want[i], gradTol, gradTol),
					"%s: ∂/∂x%d aad=%v fd=%v", tc.name, i, got[i], want[i])
			}
		})
	}
}

// Eager methods on Real must agree with the deferred constructors.
func TestGradientCheck_EagerMatchesDeferred(t *testing.T) {
	eager := []struct {
		name  string
		eager func(aad.Real) aad.Real
		expr  func(aad.Operand) *aad.Expr
	}{
		{"neg", aad.Real.Neg, aad.Neg},
		{"abs", aad.Real.Abs, aad.Abs},
		{"sqrt", aad.Real.Sqrt, aad.Sqrt},
		{"exp", aad.Real.Exp, aad.Exp},
		{"log", aad.Real.Log, aad.Log},
		{"sin", aad.Real.Sin, aad.Sin},
		{"cos", aad.Real.Cos, aad.Cos},
		{"tan", aad.Real.Tan, aad.Tan},
		{"tanh", aad.Real.Tanh, aad.Tanh},
		{"erf", aad.Real.Erf, aad.Erf},
		{"erfc", aad.Real.Erfc, aad.Erfc},
		{"square", aad.Real.Square, aad.Square},
		{"inv", aad.Real.Inv, aad.Inv},
		{"normcdf", aad.Real.NormCdf, aad.NormCdf},
	}
	for _, tc := range eager {
		t.Run(tc.name, func(t *testing.T) {
			tape := aad.NewTape()
			x := aad.NewReal(0.45)
			require.NoError(t, tape.RegisterInput(&x))
			tape.NewRecording()

			y1 := tc.eager(x)
			y2 := tc.expr(x).Real()
			assert.Equal(t, y1.Value(), y2.Value())

			aad.SetDerivative(y1, 1)
			require.NoError(t, tape.ComputeAdjoints())
			d1 := aad.Derivative(x)

			tape.ClearDerivatives()
			aad.SetDerivative(y2, 1)
			require.NoError(t, tape.ComputeAdjoints())
			assert.Equal(t, d1, aad.Derivative(x))
		})
	}
}

func TestGradientCheck_Composite(t *testing.T) {
	// A Black-Scholes style call price in five inputs.
	price := func(in []aad.Real) aad.Real {
		s, k, v, r, tm := in[0], in[1], in[2], in[3], in[4]
		sd := aad.Mul(v, aad.Sqrt(tm)).Real()
		d1 := aad.Div(aad.Add(aad.Log(aad.Div(s, k)), aad.Mul(aad.Add(r, aad.Mul(aad.Float(0.5), aad.Square(v))), tm)), sd).Real()
		d2 := d1.Sub(sd)
		df := aad.Exp(aad.Neg(aad.Mul(r, tm)))
		return aad.Sub(aad.Mul(s, aad.NormCdf(d1)), aad.Mul(aad.Mul(k, df), aad.NormCdf(d2))).Real()
	}
	point := []float64{100, 95, 0.2, 0.03, 1.5}

	tape := aad.NewTape()
	in := aad.NewReals(point)
	require.NoError(t, tape.RegisterInputs(in))
	tape.NewRecording()
	y := price(in)
	aad.SetDerivative(y, 1)
	require.NoError(t, tape.ComputeAdjoints())

	primal := func(v []float64) float64 { return price(aad.NewReals(v)).Value() }
	want := fd.Gradient(nil, primal, point, &fd.Settings{Formula: fd.Central, Step: 1e-5})
	for i, x := range in {
		got := aad.Derivative(x)
		assert.True(t, scalar.EqualWithinAbsOrRel(got, want[i], 1e-5, 1e-5),
			"input %d: aad=%v fd=%v", i, got, want[i])
	}
}
