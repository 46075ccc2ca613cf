// Package catalog holds named differentiation cases that together exercise
// every operator of the engine, and checks them against finite differences.
package catalog

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/born-ml/aad/internal/aad"
	"github.com/born-ml/aad/internal/risk"
)

// Case is a differentiable function with an evaluation point.
type Case struct {
	Name  string
	Ops   []aad.Op // Operators the case records.
	Point []float64
	F     risk.Func
}

func unary(op aad.Op, x float64, f func(aad.Operand) *aad.Expr) Case {
	return Case{
		Name:  op.String(),
		Ops:   []aad.Op{op},
		Point: []float64{x},
		F:     func(in []aad.Real) aad.Real { return f(in[0]).Real() },
	}
}

func binary(op aad.Op, a, b float64, f func(a, b aad.Operand) *aad.Expr) Case {
	return Case{
		Name:  op.String(),
		Ops:   []aad.Op{op},
		Point: []float64{a, b},
		F:     func(in []aad.Real) aad.Real { return f(in[0], in[1]).Real() },
	}
}

var cases = []Case{
	binary(aad.OpAdd, 1.2, -0.7, aad.Add),
	binary(aad.OpSub, 1.2, -0.7, aad.Sub),
	binary(aad.OpMul, 1.2, -0.7, aad.Mul),
	binary(aad.OpDiv, 1.2, -0.7, aad.Div),
	binary(aad.OpPow, 1.7, 2.3, aad.Pow),
	binary(aad.OpAtan2, 0.7, 1.3, aad.Atan2),
	binary(aad.OpHypot, 0.8, 1.5, aad.Hypot),
	binary(aad.OpMax, 1.2, 0.4, aad.Max),
	binary(aad.OpMin, 1.2, 0.4, aad.Min),
	binary(aad.OpFmod, 5.3, 1.7, aad.Fmod),
	binary(aad.OpBeta, 1.5, 2.5, aad.Beta),

	unary(aad.OpNeg, 0.7, aad.Neg),
	unary(aad.OpAbs, -0.7, aad.Abs),
	unary(aad.OpSqrt, 2.3, aad.Sqrt),
	unary(aad.OpCbrt, -1.9, aad.Cbrt),
	unary(aad.OpExp, 0.4, aad.Exp),
	unary(aad.OpExp2, 1.3, aad.Exp2),
	unary(aad.OpExpm1, -0.2, aad.Expm1),
	unary(aad.OpLog, 1.7, aad.Log),
	unary(aad.OpLog10, 3.1, aad.Log10),
	unary(aad.OpLog2, 0.6, aad.Log2),
	unary(aad.OpLog1p, 0.25, aad.Log1p),
	unary(aad.OpSin, 0.9, aad.Sin),
	unary(aad.OpCos, 0.9, aad.Cos),
	unary(aad.OpTan, 0.5, aad.Tan),
	unary(aad.OpAsin, 0.3, aad.Asin),
	unary(aad.OpAcos, -0.2, aad.Acos),
	unary(aad.OpAtan, 1.4, aad.Atan),
	unary(aad.OpSinh, 0.8, aad.Sinh),
	unary(aad.OpCosh, -0.8, aad.Cosh),
	unary(aad.OpTanh, 0.6, aad.Tanh),
	unary(aad.OpAsinh, 1.1, aad.Asinh),
	unary(aad.OpAcosh, 1.8, aad.Acosh),
	unary(aad.OpAtanh, 0.4, aad.Atanh),
	unary(aad.OpErf, 0.35, aad.Erf),
	unary(aad.OpErfc, 0.35, aad.Erfc),
	unary(aad.OpErfinv, 0.3, aad.Erfinv),
	unary(aad.OpErfcinv, 0.7, aad.Erfcinv),
	unary(aad.OpGamma, 1.6, aad.Gamma),
	unary(aad.OpLgamma, 2.7, aad.Lgamma),
	unary(aad.OpSquare, -1.3, aad.Square),
	unary(aad.OpInv, 0.9, aad.Inv),
	unary(aad.OpPowF, 1.3, func(x aad.Operand) *aad.Expr { return aad.PowF(x, 2.5) }),
	unary(aad.OpNormCdf, -0.6, aad.NormCdf),
	unary(aad.OpNormPdf, 0.9, aad.NormPdf),
	unary(aad.OpNormInv, 0.3, aad.NormInv),
	unary(aad.OpGammaP, 1.7, func(x aad.Operand) *aad.Expr { return aad.GammaP(2.5, x) }),
	unary(aad.OpGammaQ, 1.7, func(x aad.Operand) *aad.Expr { return aad.GammaQ(2.5, x) }),
	unary(aad.OpRegIncBeta, 0.35, func(x aad.Operand) *aad.Expr { return aad.RegIncBeta(2, 3, x) }),
	unary(aad.OpPolynomial, 0.6, func(x aad.Operand) *aad.Expr {
		return aad.EvaluatePolynomial([]float64{0.5, -1, 0.25, 2}, x)
	}),

	{
		Name:  "black-scholes",
		Ops:   []aad.Op{aad.OpMul, aad.OpSqrt, aad.OpDiv, aad.OpAdd, aad.OpLog, aad.OpSquare, aad.OpSub, aad.OpExp, aad.OpNeg, aad.OpNormCdf},
		Point: []float64{100, 95, 0.2, 0.03, 1.5},
		F:     BlackScholes,
	},
	{
		Name:  "rosenbrock",
		Ops:   []aad.Op{aad.OpSub, aad.OpSquare, aad.OpMul, aad.OpAdd},
		Point: []float64{-1.2, 1, 0.8, 1.3, -0.4},
		F:     Rosenbrock,
	},
}

// Cases returns every case, sorted by name.
func Cases() []Case {
	out := append([]Case(nil), cases...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns the case with the given name.
func Lookup(name string) (Case, bool) {
	for _, c := range cases {
		if c.Name == name {
			return c, true
		}
	}
	return Case{}, false
}

// Covered reports which operators the catalog exercises.
func Covered() map[aad.Op]bool {
	m := make(map[aad.Op]bool)
	for _, c := range cases {
		for _, op := range c.Ops {
			m[op] = true
		}
	}
	return m
}

// BlackScholes prices a European call from spot, strike, volatility, rate and expiry.
func BlackScholes(in []aad.Real) aad.Real {
	s, k, v, r, t := in[0], in[1], in[2], in[3], in[4]
	sd := aad.Mul(v, aad.Sqrt(t)).Real()
	d1 := aad.Div(
		aad.Add(aad.Log(aad.Div(s, k)), aad.Mul(aad.Add(r, aad.Mul(aad.Float(0.5), aad.Square(v))), t)),
		sd,
	).Real()
	d2 := d1.Sub(sd)
	df := aad.Exp(aad.Neg(aad.Mul(r, t)))
	return aad.Sub(aad.Mul(s, aad.NormCdf(d1)), aad.Mul(aad.Mul(k, df), aad.NormCdf(d2))).Real()
}

// Rosenbrock is Σ 100(x[i+1] - x[i]²)² + (1 - x[i])² over any dimension >= 2.
func Rosenbrock(in []aad.Real) aad.Real {
	var acc aad.Real
	for i := 0; i+1 < len(in); i++ {
		a := aad.Sub(in[i+1], aad.Square(in[i]))
		b := aad.Sub(aad.Float(1), in[i])
		acc = acc.Add(aad.Add(aad.Mul(aad.Float(100), aad.Square(a)), aad.Square(b)))
	}
	return acc
}

// Result is the outcome of checking one case.
type Result struct {
	Name     string
	Value    float64
	Adjoint  []float64
	Finite   []float64
	MaxError float64 // Largest |adjoint - finite| over components.
	OK       bool
}

// Check compares the adjoint gradient of c with central finite differences of
// step h. A component passes if it is within tol absolutely or relatively.
func Check(e *risk.Engine, c Case, h, tol float64) (Result, error) {
	s, err := e.Gradient(c.F, c.Point)
	if err != nil {
		return Result{}, fmt.Errorf("check %s: %w", c.Name, err)
	}
	primal := func(x []float64) float64 { return c.F(aad.NewReals(x)).Value() }
	want := fd.Gradient(nil, primal, c.Point, &fd.Settings{Formula: fd.Central, Step: h})

	res := Result{Name: c.Name, Value: s.Value, Adjoint: s.Gradient, Finite: want, OK: true}
	for i := range want {
		res.MaxError = math.Max(res.MaxError, math.Abs(s.Gradient[i]-want[i]))
		if !scalar.EqualWithinAbsOrRel(s.Gradient[i], want[i], tol, tol) {
			res.OK = false
		}
	}
	return res, nil
}

// CheckAll runs Check over every case.
func CheckAll(e *risk.Engine, h, tol float64) ([]Result, error) {
	all := Cases()
	out := make([]Result, 0, len(all))
	for _, c := range all {
		r, err := Check(e, c, h, tol)
		if err != nil {
			return out, err
		}
		out = append(out, r)
	}
	return out, nil
}
