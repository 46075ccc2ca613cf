// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package aad provides adjoint (reverse-mode) algorithmic differentiation of
// scalar code.
//
// Values of type Real record the operations applied to them on a Tape. One
// backward sweep over the tape yields the derivative of an output with respect
// to every registered input.
//
// Example:
//
//	import "github.com/born-ml/aad/aad"
//
//	func main() {
//	    tape := aad.NewTape()
//	    x, y := aad.NewReal(3), aad.NewReal(4)
//	    _ = tape.RegisterInput(&x)
//	    _ = tape.RegisterInput(&y)
//	    tape.NewRecording()
//
//	    z := aad.Add(aad.Mul(x, x), aad.Mul(y, y)).Real() // 25
//	    aad.SetDerivative(z, 1)
//	    _ = tape.ComputeAdjoints()
//
//	    fmt.Println(aad.Derivative(x), aad.Derivative(y)) // 6 8
//	}
package aad

import (
	"github.com/born-ml/aad/internal/aad"
)

// Real is an active scalar value.
type Real = aad.Real

// Operand is a Real, a Float or an *Expr.
type Operand = aad.Operand

// Float is a plain number used as an Operand.
type Float = aad.Float

// Expr is a deferred expression node recorded as one statement by Real.
type Expr = aad.Expr

// Tape records operations and propagates adjoints.
type Tape = aad.Tape

// Config pre-sizes tape buffers and selects the logger.
type Config = aad.Config

// Stats is a snapshot of tape sizes.
type Stats = aad.Stats

// AdjointStore maps slots to adjoints.
type AdjointStore = aad.AdjointStore

// TapeError reports misuse of a tape or of a value bound to one.
type TapeError = aad.TapeError

// Op tags an operation.
type Op = aad.Op

// FPClass is the floating-point category of a value.
type FPClass = aad.FPClass

// TypeTraits classifies a type for generic numeric code.
type TypeTraits = aad.TypeTraits

// Numeric is the set of plain Go number types.
type Numeric = aad.Numeric

// Number is the set accepted by Value and Derivative.
type Number = aad.Number

// Misuse errors, matched with errors.Is.
var (
	ErrTapeClosed    = aad.ErrTapeClosed
	ErrStaleValue    = aad.ErrStaleValue
	ErrTapeMismatch  = aad.ErrTapeMismatch
	ErrNotRegistered = aad.ErrNotRegistered
	ErrNoRecording   = aad.ErrNoRecording
	ErrNilValue      = aad.ErrNilValue
)

// Floating-point categories.
const (
	FPZero      = aad.FPZero
	FPSubnormal = aad.FPSubnormal
	FPNormal    = aad.FPNormal
	FPInfinite  = aad.FPInfinite
	FPNaN       = aad.FPNaN
)

// NewTape creates a tape with DefaultConfig.
func NewTape() *Tape {
	return aad.NewTape()
}

// NewTapeWithConfig creates a tape with pre-sized buffers.
func NewTapeWithConfig(cfg Config) *Tape {
	return aad.NewTapeWithConfig(cfg)
}

// DefaultConfig returns the default tape configuration.
func DefaultConfig() Config {
	return aad.DefaultConfig()
}

// NewReal creates an unbound value.
func NewReal(v float64) Real {
	return aad.NewReal(v)
}

// NewReals creates unbound values.
func NewReals(vs []float64) []Real {
	return aad.NewReals(vs)
}

// NewAdjointStore creates an empty adjoint store.
func NewAdjointStore(capacity int) *AdjointStore {
	return aad.NewAdjointStore(capacity)
}

// Ops returns every valid operation tag.
func Ops() []Op {
	return aad.Ops()
}

// Value returns the primal of x.
func Value[T Number](x T) float64 {
	return aad.Value(x)
}

// Derivative returns the adjoint of x after a sweep; plain numbers give 0.
func Derivative[T Number](x T) float64 {
	return aad.Derivative(x)
}

// SetDerivative seeds the adjoint of x.
func SetDerivative(x Real, d float64) {
	aad.SetDerivative(x, d)
}

// Promote turns a plain number into an Operand.
func Promote[T Numeric](x T) Float {
	return aad.Promote(x)
}

// NumericCast extracts the primal of x converted to T.
func NumericCast[T Numeric](x Operand) T {
	return aad.NumericCast[T](x)
}

// ToReal converts any operand to a Real.
func ToReal(x Operand) Real {
	return aad.ToReal(x)
}

// Traits classifies T.
func Traits[T any]() TypeTraits {
	return aad.Traits[T]()
}

// IsConvertible reports whether a From converts to a To without losing derivatives.
func IsConvertible[From, To any]() bool {
	return aad.IsConvertible[From, To]()
}
