// Package risk drives the AAD engine the way a pricing library does: register
// market inputs, record one valuation, sweep, and read back sensitivities.
// It also provides bump-and-revalue sensitivities to validate against.
package risk

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/born-ml/aad/internal/aad"
	"github.com/born-ml/aad/internal/parallel"
	"github.com/born-ml/aad/internal/telemetry"
)

// Func is a scalar valuation of the inputs. It must not retain x.
type Func func(x []aad.Real) aad.Real

// VecFunc is a vector-valued valuation of the inputs.
type VecFunc func(x []aad.Real) []aad.Real

// Sensitivities holds a value and its gradient with respect to the inputs.
type Sensitivities struct {
	Value    float64
	Gradient []float64
}

var (
	// ErrDimension indicates an input vector of the wrong length.
	ErrDimension = errors.New("risk: input dimension mismatch")

	// ErrNoInputs indicates an empty input vector.
	ErrNoInputs = errors.New("risk: no inputs")
)

// Config controls engines and bumping.
type Config struct {
	Tape     aad.Config
	Parallel parallel.Config

	// BumpStep is the relative bump size; input i moves by BumpStep*max(1, |x[i]|).
	BumpStep float64
	// Central selects central differences instead of forward ones.
	Central bool

	Metrics   *telemetry.Metrics       // Optional.
	Collector *telemetry.TapeCollector // Optional; fed by RunScenarios.
	Logger    *slog.Logger
}

// DefaultConfig returns central differences with a 1e-6 relative bump.
func DefaultConfig() Config {
	return Config{
		Tape:     aad.DefaultConfig(),
		Parallel: parallel.DefaultConfig(),
		BumpStep: 1e-6,
		Central:  true,
	}
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c Config) tapeConfig() aad.Config {
	tc := c.Tape
	if tc.Logger == nil {
		tc.Logger = c.Logger
	}
	return tc
}

// evaluate calls f and turns tape misuse inside it into an error.
func evaluate[T any](f func([]aad.Real) T, x []aad.Real) (y T, err error) {
	defer func() {
		if r := recover(); r != nil {
			te, ok := r.(*aad.TapeError)
			if !ok {
				panic(r)
			}
			err = fmt.Errorf("risk: valuation: %w", te)
		}
	}()
	return f(x), nil
}
