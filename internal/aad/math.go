package aad

// Deferred constructors. Each returns an *Expr that records nothing until Real
// is called on it (or on an expression containing it).

// Add returns a + b.
func Add(a, b Operand) *Expr { return newBinary(OpAdd, a, b) }

// Sub returns a - b.
func Sub(a, b Operand) *Expr { return newBinary(OpSub, a, b) }

// Mul returns a * b.
func Mul(a, b Operand) *Expr { return newBinary(OpMul, a, b) }

// Div returns a / b.
func Div(a, b Operand) *Expr { return newBinary(OpDiv, a, b) }

// Pow returns a**b.
func Pow(a, b Operand) *Expr { return newBinary(OpPow, a, b) }

// Atan2 returns the arc tangent of y/x using the signs of both.
func Atan2(y, x Operand) *Expr { return newBinary(OpAtan2, y, x) }

// Hypot returns sqrt(a*a + b*b).
func Hypot(a, b Operand) *Expr { return newBinary(OpHypot, a, b) }

// Max returns the larger operand; the derivative follows the chosen one.
func Max(a, b Operand) *Expr { return newBinary(OpMax, a, b) }

// Min returns the smaller operand; the derivative follows the chosen one.
func Min(a, b Operand) *Expr { return newBinary(OpMin, a, b) }

// Fmod returns the floating-point remainder of a/b (see math.Mod).
func Fmod(a, b Operand) *Expr { return newBinary(OpFmod, a, b) }

// Beta returns the complete beta function B(a, b).
func Beta(a, b Operand) *Expr { return newBinary(OpBeta, a, b) }

// Neg returns -x.
func Neg(x Operand) *Expr { return newUnary(OpNeg, x, params{}) }

// Abs returns |x|. The derivative at 0 is 0.
func Abs(x Operand) *Expr { return newUnary(OpAbs, x, params{}) }

// Sqrt returns the square root of x.
func Sqrt(x Operand) *Expr { return newUnary(OpSqrt, x, params{}) }

// Cbrt returns the cube root of x.
func Cbrt(x Operand) *Expr { return newUnary(OpCbrt, x, params{}) }

// Exp returns e**x.
func Exp(x Operand) *Expr { return newUnary(OpExp, x, params{}) }

// Exp2 returns 2**x.
func Exp2(x Operand) *Expr { return newUnary(OpExp2, x, params{}) }

// Expm1 returns e**x - 1.
func Expm1(x Operand) *Expr { return newUnary(OpExpm1, x, params{}) }

// Log returns the natural logarithm of x.
func Log(x Operand) *Expr { return newUnary(OpLog, x, params{}) }

// Log10 returns the decimal logarithm of x.
func Log10(x Operand) *Expr { return newUnary(OpLog10, x, params{}) }

// Log2 returns the binary logarithm of x.
func Log2(x Operand) *Expr { return newUnary(OpLog2, x, params{}) }

// Log1p returns the natural logarithm of 1 + x.
func Log1p(x Operand) *Expr { return newUnary(OpLog1p, x, params{}) }

// Sin returns the sine of x.
func Sin(x Operand) *Expr { return newUnary(OpSin, x, params{}) }

// Cos returns the cosine of x.
func Cos(x Operand) *Expr { return newUnary(OpCos, x, params{}) }

// Tan returns the tangent of x.
func Tan(x Operand) *Expr { return newUnary(OpTan, x, params{}) }

// Asin returns the arcsine of x.
func Asin(x Operand) *Expr { return newUnary(OpAsin, x, params{}) }

// Acos returns the arccosine of x.
func Acos(x Operand) *Expr { return newUnary(OpAcos, x, params{}) }

// Atan returns the arctangent of x.
func Atan(x Operand) *Expr { return newUnary(OpAtan, x, params{}) }

// Sinh returns the hyperbolic sine of x.
func Sinh(x Operand) *Expr { return newUnary(OpSinh, x, params{}) }

// Cosh returns the hyperbolic cosine of x.
func Cosh(x Operand) *Expr { return newUnary(OpCosh, x, params{}) }

// Tanh returns the hyperbolic tangent of x.
func Tanh(x Operand) *Expr { return newUnary(OpTanh, x, params{}) }

// Asinh returns the inverse hyperbolic sine of x.
func Asinh(x Operand) *Expr { return newUnary(OpAsinh, x, params{}) }

// Acosh returns the inverse hyperbolic cosine of x.
func Acosh(x Operand) *Expr { return newUnary(OpAcosh, x, params{}) }

// Atanh returns the inverse hyperbolic tangent of x.
func Atanh(x Operand) *Expr { return newUnary(OpAtanh, x, params{}) }

// Square returns x*x.
func Square(x Operand) *Expr { return newUnary(OpSquare, x, params{}) }

// Inv returns 1/x.
func Inv(x Operand) *Expr { return newUnary(OpInv, x, params{}) }

// PowF returns x**c for a constant exponent c.
func PowF(x Operand, c float64) *Expr { return newUnary(OpPowF, x, params{c}) }

// Sum returns the sum of xs as one expression tree; Sum() is the constant 0.
func Sum(xs ...Operand) *Expr {
	switch len(xs) {
	case 0:
		return newBinary(OpAdd, Float(0), Float(0))
	case 1:
		return newBinary(OpAdd, xs[0], Float(0))
	}
	acc := newBinary(OpAdd, xs[0], xs[1])
	for _, x := range xs[2:] {
		acc = newBinary(OpAdd, acc, x)
	}
	return acc
}

// Dot returns Σ w[i]*x[i] for constant weights. It panics if the lengths differ.
func Dot(w []float64, x []Real) *Expr {
	if len(w) != len(x) {
		panic("aad: dot: length mismatch")
	}
	terms := make([]Operand, len(x))
	for i := range x {
		terms[i] = newBinary(OpMul, Float(w[i]), x[i])
	}
	return Sum(terms...)
}
