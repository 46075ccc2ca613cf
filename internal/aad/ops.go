package aad

import (
	"math"

	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat/distuv"
)

// Op tags a recorded or deferred operation.
type Op uint8

// Binary operations.
const (
	OpInvalid Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpPow
	OpAtan2
	OpHypot
	OpMax
	OpMin
	OpFmod
	OpBeta

	// Unary operations.
	OpNeg
	OpAbs
	OpSqrt
	OpCbrt
	OpExp
	OpExp2
	OpExpm1
	OpLog
	OpLog10
	OpLog2
	OpLog1p
	OpSin
	OpCos
	OpTan
	OpAsin
	OpAcos
	OpAtan
	OpSinh
	OpCosh
	OpTanh
	OpAsinh
	OpAcosh
	OpAtanh
	OpErf
	OpErfc
	OpErfinv
	OpErfcinv
	OpGamma
	OpLgamma
	OpSquare
	OpInv
	OpPowF
	OpNormCdf
	OpNormPdf
	OpNormInv
	OpGammaP
	OpGammaQ
	OpRegIncBeta
	OpPolynomial

	numOps
)

var opNames = [numOps]string{
	OpInvalid:    "invalid",
	OpAdd:        "add",
	OpSub:        "sub",
	OpMul:        "mul",
	OpDiv:        "div",
	OpPow:        "pow",
	OpAtan2:      "atan2",
	OpHypot:      "hypot",
	OpMax:        "max",
	OpMin:        "min",
	OpFmod:       "fmod",
	OpBeta:       "beta",
	OpNeg:        "neg",
	OpAbs:        "abs",
	OpSqrt:       "sqrt",
	OpCbrt:       "cbrt",
	OpExp:        "exp",
	OpExp2:       "exp2",
	OpExpm1:      "expm1",
	OpLog:        "log",
	OpLog10:      "log10",
	OpLog2:       "log2",
	OpLog1p:      "log1p",
	OpSin:        "sin",
	OpCos:        "cos",
	OpTan:        "tan",
	OpAsin:       "asin",
	OpAcos:       "acos",
	OpAtan:       "atan",
	OpSinh:       "sinh",
	OpCosh:       "cosh",
	OpTanh:       "tanh",
	OpAsinh:      "asinh",
	OpAcosh:      "acosh",
	OpAtanh:      "atanh",
	OpErf:        "erf",
	OpErfc:       "erfc",
	OpErfinv:     "erfinv",
	OpErfcinv:    "erfcinv",
	OpGamma:      "gamma",
	OpLgamma:     "lgamma",
	OpSquare:     "square",
	OpInv:        "inv",
	OpPowF:       "powf",
	OpNormCdf:    "normcdf",
	OpNormPdf:    "normpdf",
	OpNormInv:    "norminv",
	OpGammaP:     "gammap",
	OpGammaQ:     "gammaq",
	OpRegIncBeta: "regincbeta",
	OpPolynomial: "polynomial",
}

// String returns the operation name.
func (op Op) String() string {
	if op >= numOps {
		return "invalid"
	}
	return opNames[op]
}

// Arity returns 2 for binary operations, 1 for unary ones and 0 for OpInvalid.
func (op Op) Arity() int {
	switch {
	case op == OpInvalid || op >= numOps:
		return 0
	case op <= OpBeta:
		return 2
	default:
		return 1
	}
}

// Ops returns every valid operation tag.
func Ops() []Op {
	out := make([]Op, 0, numOps-1)
	for op := OpInvalid + 1; op < numOps; op++ {
		out = append(out, op)
	}
	return out
}

// params carries constant parameters of parameterised unary operations
// (the exponent of powf, a of gammap, a and b of regincbeta).
type params [2]float64

// binaryRule returns f(a, b) with ∂f/∂a and ∂f/∂b evaluated at (a, b).
type binaryRule func(a, b float64) (v, da, db float64)

// unaryRule returns f(x) with f'(x).
type unaryRule func(x float64, p params) (v, d float64)

const (
	twoOverSqrtPi = 2 / math.SqrtPi
	sqrtPiOverTwo = math.SqrtPi / 2
	oneThird      = 1.0 / 3.0
)

var binaryRules = [numOps]binaryRule{
	OpAdd: func(a, b float64) (float64, float64, float64) { return a + b, 1, 1 },
	OpSub: func(a, b float64) (float64, float64, float64) { return a - b, 1, -1 },
	OpMul: func(a, b float64) (float64, float64, float64) { return a * b, b, a },
	OpDiv: func(a, b float64) (float64, float64, float64) {
		inv := 1 / b
		return a * inv, inv, -a * inv * inv
	},
	OpPow: func(a, b float64) (float64, float64, float64) {
		v := math.Pow(a, b)
		da := b * math.Pow(a, b-1)
		if b == 0 {
			da = 0
		}
		db := 0.0
		if a != 0 {
			db = v * math.Log(a)
		}
		return v, da, db
	},
	OpAtan2: func(y, x float64) (float64, float64, float64) {
		r2 := x*x + y*y
		return math.Atan2(y, x), x / r2, -y / r2
	},
	OpHypot: func(a, b float64) (float64, float64, float64) {
		h := math.Hypot(a, b)
		return h, a / h, b / h
	},
	OpMax: func(a, b float64) (float64, float64, float64) {
		if a >= b || math.IsNaN(a) {
			return math.Max(a, b), 1, 0
		}
		return math.Max(a, b), 0, 1
	},
	OpMin: func(a, b float64) (float64, float64, float64) {
		if a <= b || math.IsNaN(a) {
			return math.Min(a, b), 1, 0
		}
		return math.Min(a, b), 0, 1
	},
	OpFmod: func(a, b float64) (float64, float64, float64) {
		return math.Mod(a, b), 1, -math.Trunc(a / b)
	},
	OpBeta: func(a, b float64) (float64, float64, float64) {
		if !(a > 0 && b > 0) {
			return math.NaN(), math.NaN(), math.NaN()
		}
		v := mathext.Beta(a, b)
		psiAB := mathext.Digamma(a + b)
		return v, v * (mathext.Digamma(a) - psiAB), v * (mathext.Digamma(b) - psiAB)
	},
}

var unaryRules = [numOps]unaryRule{
	OpNeg: func(x float64, _ params) (float64, float64) { return -x, -1 },
	OpAbs: func(x float64, _ params) (float64, float64) {
		switch {
		case x > 0:
			return x, 1
		case x < 0:
			return -x, -1
		case x == 0:
			return 0, 0
		}
		return math.NaN(), math.NaN()
	},
	OpSqrt: func(x float64, _ params) (float64, float64) {
		s := math.Sqrt(x)
		return s, 0.5 / s
	},
	OpCbrt: func(x float64, _ params) (float64, float64) {
		c := math.Cbrt(x)
		return c, oneThird / (c * c)
	},
	OpExp: func(x float64, _ params) (float64, float64) {
		e := math.Exp(x)
		return e, e
	},
	OpExp2: func(x float64, _ params) (float64, float64) {
		e := math.Exp2(x)
		return e, math.Ln2 * e
	},
	OpExpm1: func(x float64, _ params) (float64, float64) { return math.Expm1(x), math.Exp(x) },
	OpLog:   func(x float64, _ params) (float64, float64) { return math.Log(x), 1 / x },
	OpLog10: func(x float64, _ params) (float64, float64) { return math.Log10(x), 1 / (x * math.Ln10) },
	OpLog2:  func(x float64, _ params) (float64, float64) { return math.Log2(x), 1 / (x * math.Ln2) },
	OpLog1p: func(x float64, _ params) (float64, float64) { return math.Log1p(x), 1 / (1 + x) },
	OpSin:   func(x float64, _ params) (float64, float64) { return math.Sin(x), math.Cos(x) },
	OpCos:   func(x float64, _ params) (float64, float64) { return math.Cos(x), -math.Sin(x) },
	OpTan: func(x float64, _ params) (float64, float64) {
		t := math.Tan(x)
		return t, 1 + t*t
	},
	OpAsin: func(x float64, _ params) (float64, float64) { return math.Asin(x), 1 / math.Sqrt(1-x*x) },
	OpAcos: func(x float64, _ params) (float64, float64) { return math.Acos(x), -1 / math.Sqrt(1-x*x) },
	OpAtan: func(x float64, _ params) (float64, float64) { return math.Atan(x), 1 / (1 + x*x) },
	OpSinh: func(x float64, _ params) (float64, float64) { return math.Sinh(x), math.Cosh(x) },
	OpCosh: func(x float64, _ params) (float64, float64) { return math.Cosh(x), math.Sinh(x) },
	OpTanh: func(x float64, _ params) (float64, float64) {
		t := math.Tanh(x)
		return t, 1 - t*t
	},
	OpAsinh: func(x float64, _ params) (float64, float64) { return math.Asinh(x), 1 / math.Sqrt(x*x+1) },
	OpAcosh: func(x float64, _ params) (float64, float64) { return math.Acosh(x), 1 / math.Sqrt(x*x-1) },
	OpAtanh: func(x float64, _ params) (float64, float64) { return math.Atanh(x), 1 / (1 - x*x) },
	OpErf: func(x float64, _ params) (float64, float64) {
		return math.Erf(x), twoOverSqrtPi * math.Exp(-x*x)
	},
	OpErfc: func(x float64, _ params) (float64, float64) {
		return math.Erfc(x), -twoOverSqrtPi * math.Exp(-x*x)
	},
	OpErfinv: func(x float64, _ params) (float64, float64) {
		y := math.Erfinv(x)
		return y, sqrtPiOverTwo * math.Exp(y*y)
	},
	OpErfcinv: func(x float64, _ params) (float64, float64) {
		y := math.Erfcinv(x)
		return y, -sqrtPiOverTwo * math.Exp(y*y)
	},
	OpGamma: func(x float64, _ params) (float64, float64) {
		g := math.Gamma(x)
		return g, g * mathext.Digamma(x)
	},
	OpLgamma: func(x float64, _ params) (float64, float64) {
		lg, _ := math.Lgamma(x)
		return lg, mathext.Digamma(x)
	},
	OpSquare: func(x float64, _ params) (float64, float64) { return x * x, 2 * x },
	OpInv: func(x float64, _ params) (float64, float64) {
		inv := 1 / x
		return inv, -inv * inv
	},
	OpPowF: func(x float64, p params) (float64, float64) {
		c := p[0]
		if c == 0 {
			return math.Pow(x, 0), 0
		}
		return math.Pow(x, c), c * math.Pow(x, c-1)
	},
	OpNormCdf: func(x float64, _ params) (float64, float64) {
		return distuv.UnitNormal.CDF(x), distuv.UnitNormal.Prob(x)
	},
	OpNormPdf: func(x float64, _ params) (float64, float64) {
		v := distuv.UnitNormal.Prob(x)
		return v, -x * v
	},
	OpNormInv: func(x float64, _ params) (float64, float64) {
		if !(x >= 0 && x <= 1) {
			return math.NaN(), math.NaN()
		}
		q := distuv.UnitNormal.Quantile(x)
		return q, 1 / distuv.UnitNormal.Prob(q)
	},
	OpGammaP: func(x float64, p params) (float64, float64) {
		a := p[0]
		if !(a > 0 && x >= 0) {
			return math.NaN(), math.NaN()
		}
		return mathext.GammaIncReg(a, x), gammaIncDensity(a, x)
	},
	OpGammaQ: func(x float64, p params) (float64, float64) {
		a := p[0]
		if !(a > 0 && x >= 0) {
			return math.NaN(), math.NaN()
		}
		return mathext.GammaIncRegComp(a, x), -gammaIncDensity(a, x)
	},
	OpRegIncBeta: func(x float64, p params) (float64, float64) {
		a, b := p[0], p[1]
		if !(a > 0 && b > 0 && x >= 0 && x <= 1) {
			return math.NaN(), math.NaN()
		}
		d := math.Exp((a-1)*math.Log(x) + (b-1)*math.Log1p(-x) - mathext.Lbeta(a, b))
		return mathext.RegIncBeta(a, b, x), d
	},
}

// gammaIncDensity is ∂P(a, x)/∂x = x^(a-1) e^(-x) / Γ(a).
func gammaIncDensity(a, x float64) float64 {
	lg, _ := math.Lgamma(a)
	return math.Exp((a-1)*math.Log(x) - x - lg)
}
