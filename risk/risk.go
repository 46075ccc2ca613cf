// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package risk computes sensitivities of valuations with the AAD engine and
// validates them against bump-and-revalue.
//
// Example:
//
//	e := risk.NewEngine(risk.DefaultConfig())
//	defer e.Close()
//	s, err := e.Gradient(price, []float64{100, 95, 0.2, 0.03, 1.5})
//	bumped, _ := risk.Bump(price, []float64{100, 95, 0.2, 0.03, 1.5}, risk.DefaultConfig())
//	fmt.Println(risk.Compare(s, bumped, risk.Tolerance{Abs: 1e-6, Rel: 1e-6}))
package risk

import (
	"context"

	"github.com/born-ml/aad/internal/risk"
)

// Func is a scalar valuation of the inputs.
type Func = risk.Func

// VecFunc is a vector-valued valuation of the inputs.
type VecFunc = risk.VecFunc

// Sensitivities holds a value and its gradient.
type Sensitivities = risk.Sensitivities

// Config controls engines and bumping.
type Config = risk.Config

// Engine computes adjoint sensitivities on a tape it owns.
type Engine = risk.Engine

// Session revalues one model repeatedly without re-registering inputs.
type Session = risk.Session

// Tolerance bounds accepted differences.
type Tolerance = risk.Tolerance

// Mismatch is a component outside tolerance.
type Mismatch = risk.Mismatch

// Input errors.
var (
	ErrDimension = risk.ErrDimension
	ErrNoInputs  = risk.ErrNoInputs
)

// DefaultConfig returns central differences with a 1e-6 relative bump.
func DefaultConfig() Config {
	return risk.DefaultConfig()
}

// NewEngine creates an engine with its own tape.
func NewEngine(cfg Config) *Engine {
	return risk.NewEngine(cfg)
}

// Bump returns f(x) and a finite-difference gradient.
func Bump(f Func, x []float64, cfg Config) (Sensitivities, error) {
	return risk.Bump(f, x, cfg)
}

// Compare returns the components of a and b outside tol.
func Compare(a, b Sensitivities, tol Tolerance) []Mismatch {
	return risk.Compare(a, b, tol)
}

// RunScenarios computes gradients of f at every scenario concurrently, one tape per worker.
func RunScenarios(ctx context.Context, f Func, scenarios [][]float64, cfg Config) ([]Sensitivities, error) {
	return risk.RunScenarios(ctx, f, scenarios, cfg)
}
