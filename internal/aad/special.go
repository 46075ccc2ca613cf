package aad

// Erf returns the error function of x.
func Erf(x Operand) *Expr { return newUnary(OpErf, x, params{}) }

// Erfc returns the complementary error function of x.
func Erfc(x Operand) *Expr { return newUnary(OpErfc, x, params{}) }

// Erfinv returns the inverse error function of x.
func Erfinv(x Operand) *Expr { return newUnary(OpErfinv, x, params{}) }

// Erfcinv returns the inverse of Erfc.
func Erfcinv(x Operand) *Expr { return newUnary(OpErfcinv, x, params{}) }

// Gamma returns Γ(x). Its derivative is Γ(x)ψ(x).
func Gamma(x Operand) *Expr { return newUnary(OpGamma, x, params{}) }

// Lgamma returns log|Γ(x)|. Its derivative is ψ(x).
func Lgamma(x Operand) *Expr { return newUnary(OpLgamma, x, params{}) }

// NormCdf returns the standard normal cumulative distribution Φ(x).
func NormCdf(x Operand) *Expr { return newUnary(OpNormCdf, x, params{}) }

// NormPdf returns the standard normal density φ(x).
func NormPdf(x Operand) *Expr { return newUnary(OpNormPdf, x, params{}) }

// NormInv returns Φ⁻¹(p). It is NaN outside [0, 1].
func NormInv(p Operand) *Expr { return newUnary(OpNormInv, p, params{}) }

// GammaP returns the regularized lower incomplete gamma function P(a, x),
// differentiable in x. It is NaN for a <= 0 or x < 0.
func GammaP(a float64, x Operand) *Expr { return newUnary(OpGammaP, x, params{a}) }

// GammaQ returns 1 - P(a, x), differentiable in x.
func GammaQ(a float64, x Operand) *Expr { return newUnary(OpGammaQ, x, params{a}) }

// RegIncBeta returns the regularized incomplete beta function I_x(a, b),
// differentiable in x. It is NaN outside a, b > 0 and 0 <= x <= 1.
func RegIncBeta(a, b float64, x Operand) *Expr { return newUnary(OpRegIncBeta, x, params{a, b}) }

// EvaluatePolynomial returns c[0] + c[1]*x + ... + c[n-1]*x**(n-1) as a single
// node, with the derivative evaluated alongside by Horner's rule.
func EvaluatePolynomial(c []float64, x Operand) *Expr {
	xv := x.Value()
	var v, d float64
	for i := len(c) - 1; i >= 0; i-- {
		d = d*xv + v
		v = v*xv + c[i]
	}
	return &Expr{op: OpPolynomial, val: v, a: x, da: d}
}

// Squared returns x*x. An expression argument is materialised first, the way
// generic code expecting a concrete active value would see it.
func Squared(x Operand) Real {
	r := ToReal(x)
	return r.Square()
}
