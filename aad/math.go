// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package aad

import (
	"github.com/born-ml/aad/internal/aad"
)

// Deferred math. Every function returns an *Expr; call Real on the outermost
// one to record the whole tree as a single statement.
var (
	Add   = aad.Add
	Sub   = aad.Sub
	Mul   = aad.Mul
	Div   = aad.Div
	Pow   = aad.Pow
	Atan2 = aad.Atan2
	Hypot = aad.Hypot
	Max   = aad.Max
	Min   = aad.Min
	Fmod  = aad.Fmod
	Beta  = aad.Beta

	Neg    = aad.Neg
	Abs    = aad.Abs
	Sqrt   = aad.Sqrt
	Cbrt   = aad.Cbrt
	Exp    = aad.Exp
	Exp2   = aad.Exp2
	Expm1  = aad.Expm1
	Log    = aad.Log
	Log10  = aad.Log10
	Log2   = aad.Log2
	Log1p  = aad.Log1p
	Sin    = aad.Sin
	Cos    = aad.Cos
	Tan    = aad.Tan
	Asin   = aad.Asin
	Acos   = aad.Acos
	Atan   = aad.Atan
	Sinh   = aad.Sinh
	Cosh   = aad.Cosh
	Tanh   = aad.Tanh
	Asinh  = aad.Asinh
	Acosh  = aad.Acosh
	Atanh  = aad.Atanh
	Square = aad.Square
	Inv    = aad.Inv
	PowF   = aad.PowF
	Sum    = aad.Sum
	Dot    = aad.Dot

	Erf                = aad.Erf
	Erfc               = aad.Erfc
	Erfinv             = aad.Erfinv
	Erfcinv            = aad.Erfcinv
	Gamma              = aad.Gamma
	Lgamma             = aad.Lgamma
	NormCdf            = aad.NormCdf
	NormPdf            = aad.NormPdf
	NormInv            = aad.NormInv
	GammaP             = aad.GammaP
	GammaQ             = aad.GammaQ
	RegIncBeta         = aad.RegIncBeta
	EvaluatePolynomial = aad.EvaluatePolynomial
	Squared            = aad.Squared
)

// Rounding and classification work on primal values and return plain results.
var (
	Trunc       = aad.Trunc
	Floor       = aad.Floor
	Ceil        = aad.Ceil
	Round       = aad.Round
	RoundToEven = aad.RoundToEven
	ITrunc      = aad.ITrunc
	IRound      = aad.IRound
	LLTrunc     = aad.LLTrunc
	LLRound     = aad.LLRound
	FPClassify  = aad.FPClassify

	Cmp      = aad.Cmp
	IsNaN    = aad.IsNaN
	IsInf    = aad.IsInf
	IsFinite = aad.IsFinite
	Signbit  = aad.Signbit
)
