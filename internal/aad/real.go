package aad

import (
	"fmt"
	"math"
)

// Real is an active scalar: a primal value plus an optional binding to a tape slot.
//
// The zero Real is the constant 0. A Real becomes active when it is registered as a
// tape input or produced by an operation recorded on a tape. Copies share the slot.
// Converting a Real to float64 always goes through Value (or NumericCast), so
// derivative information is never dropped implicitly.
type Real struct {
	val  float64
	tape *Tape
	slot int
	gen  uint64
}

// NewReal creates an unbound value.
func NewReal(v float64) Real {
	return Real{val: v}
}

// NewReals creates unbound values from a slice of numbers.
func NewReals(vs []float64) []Real {
	out := make([]Real, len(vs))
	for i, v := range vs {
		out[i] = Real{val: v}
	}
	return out
}

// Value returns the primal value.
func (x Real) Value() float64 {
	return x.val
}

// SetValue replaces the primal value and keeps the tape binding.
// Used to revalue registered inputs between recordings.
func (x *Real) SetValue(v float64) {
	x.val = v
}

// IsActive reports whether x is bound to a tape.
func (x Real) IsActive() bool {
	return x.tape != nil
}

// Slot returns the tape slot of x, or -1 if x is unbound.
func (x Real) Slot() int {
	if x.tape == nil {
		return -1
	}
	return x.slot
}

// Tape returns the tape x is bound to, or nil.
func (x Real) Tape() *Tape {
	return x.tape
}

// Format formats the primal value like a float64.
func (x Real) Format(f fmt.State, verb rune) {
	fmt.Fprintf(f, fmt.FormatString(f, verb), x.val)
}

// String returns the primal formatted with %g.
func (x Real) String() string {
	return fmt.Sprintf("%g", x.val)
}

func (x Real) accumulate(w float64, acc *accumulator) {
	if x.tape != nil {
		acc.add(x, w)
	}
}

// apply1 evaluates a unary rule and records one statement when needed.
func (x Real) apply1(op Op, p params) Real {
	v, d := unaryRules[op](x.val, p)
	t := x.recorder(op)
	if t == nil {
		return Real{val: v}
	}
	r := t.result(v)
	t.ops.push1(r.slot, x.slot, d)
	return r
}

// apply2 evaluates a binary rule on two reals.
func apply2(op Op, a, b Real) Real {
	v, da, db := binaryRules[op](a.val, b.val)
	t := recorder2(op, a, b)
	if t == nil {
		return Real{val: v}
	}
	r := t.result(v)
	switch {
	case a.tape == nil:
		t.ops.push1(r.slot, b.slot, db)
	case b.tape == nil:
		t.ops.push1(r.slot, a.slot, da)
	default:
		t.ops.push2(r.slot, a.slot, da, b.slot, db)
	}
	return r
}

// binary applies op to x and any operand, recording a single statement.
func binary(op Op, x Real, y Operand) Real {
	switch y := y.(type) {
	case Real:
		return apply2(op, x, y)
	case Float:
		return apply2(op, x, Real{val: float64(y)})
	}
	return newBinary(op, x, y).Real()
}

// Add returns x + y.
func (x Real) Add(y Operand) Real { return binary(OpAdd, x, y) }

// Sub returns x - y.
func (x Real) Sub(y Operand) Real { return binary(OpSub, x, y) }

// Mul returns x * y.
func (x Real) Mul(y Operand) Real { return binary(OpMul, x, y) }

// Div returns x / y.
func (x Real) Div(y Operand) Real { return binary(OpDiv, x, y) }

// Pow returns x**y.
func (x Real) Pow(y Operand) Real { return binary(OpPow, x, y) }

// Max returns the larger of x and y; the derivative follows the chosen operand.
func (x Real) Max(y Operand) Real { return binary(OpMax, x, y) }

// Min returns the smaller of x and y; the derivative follows the chosen operand.
func (x Real) Min(y Operand) Real { return binary(OpMin, x, y) }

// Neg returns -x.
func (x Real) Neg() Real { return x.apply1(OpNeg, params{}) }

// Abs returns |x|.
func (x Real) Abs() Real { return x.apply1(OpAbs, params{}) }

// Sqrt returns the square root of x.
func (x Real) Sqrt() Real { return x.apply1(OpSqrt, params{}) }

// Exp returns e**x.
func (x Real) Exp() Real { return x.apply1(OpExp, params{}) }

// Log returns the natural logarithm of x.
func (x Real) Log() Real { return x.apply1(OpLog, params{}) }

// Sin returns the sine of x.
func (x Real) Sin() Real { return x.apply1(OpSin, params{}) }

// Cos returns the cosine of x.
func (x Real) Cos() Real { return x.apply1(OpCos, params{}) }

// Tan returns the tangent of x.
func (x Real) Tan() Real { return x.apply1(OpTan, params{}) }

// Tanh returns the hyperbolic tangent of x.
func (x Real) Tanh() Real { return x.apply1(OpTanh, params{}) }

// Erf returns the error function of x.
func (x Real) Erf() Real { return x.apply1(OpErf, params{}) }

// Erfc returns the complementary error function of x.
func (x Real) Erfc() Real { return x.apply1(OpErfc, params{}) }

// Square returns x*x.
func (x Real) Square() Real { return x.apply1(OpSquare, params{}) }

// Inv returns 1/x.
func (x Real) Inv() Real { return x.apply1(OpInv, params{}) }

// PowF returns x**c for a constant exponent.
func (x Real) PowF(c float64) Real { return x.apply1(OpPowF, params{c}) }

// NormCdf returns the standard normal cumulative distribution at x.
func (x Real) NormCdf() Real { return x.apply1(OpNormCdf, params{}) }

// AddAssign sets x = x + y.
func (x *Real) AddAssign(y Operand) { *x = x.Add(y) }

// SubAssign sets x = x - y.
func (x *Real) SubAssign(y Operand) { *x = x.Sub(y) }

// MulAssign sets x = x * y.
func (x *Real) MulAssign(y Operand) { *x = x.Mul(y) }

// DivAssign sets x = x / y.
func (x *Real) DivAssign(y Operand) { *x = x.Div(y) }

// Less reports x < y on primal values.
func (x Real) Less(y Operand) bool { return x.val < y.Value() }

// LessEqual reports x <= y on primal values.
func (x Real) LessEqual(y Operand) bool { return x.val <= y.Value() }

// Greater reports x > y on primal values.
func (x Real) Greater(y Operand) bool { return x.val > y.Value() }

// GreaterEqual reports x >= y on primal values.
func (x Real) GreaterEqual(y Operand) bool { return x.val >= y.Value() }

// Equal reports x == y on primal values.
func (x Real) Equal(y Operand) bool { return x.val == y.Value() }

// NotEqual reports x != y on primal values.
func (x Real) NotEqual(y Operand) bool { return x.val != y.Value() }

// Cmp compares primal values: -1 if a < b, +1 if a > b, 0 otherwise (NaN included).
func Cmp(a, b Operand) int {
	av, bv := a.Value(), b.Value()
	switch {
	case av < bv:
		return -1
	case av > bv:
		return 1
	}
	return 0
}

// IsNaN reports whether the primal of x is NaN.
func IsNaN(x Operand) bool { return math.IsNaN(x.Value()) }

// IsInf reports whether the primal of x is an infinity of the given sign (see math.IsInf).
func IsInf(x Operand, sign int) bool { return math.IsInf(x.Value(), sign) }

// IsFinite reports whether the primal of x is neither NaN nor an infinity.
func IsFinite(x Operand) bool {
	v := x.Value()
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Signbit reports whether the primal of x is negative or negative zero.
func Signbit(x Operand) bool { return math.Signbit(x.Value()) }
