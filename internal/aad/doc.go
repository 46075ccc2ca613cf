// Package aad implements adjoint (reverse-mode) algorithmic differentiation of
// scalar code.
//
// Architecture:
//   - Real: active value carrying a primal and a tape slot
//   - Expr: deferred unary/binary node; a whole tree is recorded as one statement
//   - Tape: append-only statement log with concrete local partials
//   - AdjointStore: slot → ∂output/∂slot, filled by the backward sweep
//
// Usage:
//
//	tape := aad.NewTape()
//	x := aad.NewReal(2)
//	_ = tape.RegisterInput(&x)
//	tape.NewRecording()
//	y := aad.Mul(x, aad.Sin(x)).Real() // one statement for x*sin(x)
//	aad.SetDerivative(y, 1)
//	_ = tape.ComputeAdjoints()
//	fmt.Println(aad.Derivative(x)) // sin(2) + 2cos(2)
//
// Operations on values that are not bound to a recording tape evaluate as
// plain float64 arithmetic. NaN and Inf flow through primals and adjoints
// unchanged; only tape misuse is reported, as *TapeError.
package aad
