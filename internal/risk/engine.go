package risk

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/born-ml/aad/internal/aad"
)

// Engine computes adjoint sensitivities on a tape it owns.
// An Engine must be used by one goroutine at a time.
type Engine struct {
	cfg  Config
	tape *aad.Tape
	log  *slog.Logger
}

// NewEngine creates an engine with its own tape.
func NewEngine(cfg Config) *Engine {
	t := aad.NewTapeWithConfig(cfg.tapeConfig())
	return &Engine{
		cfg:  cfg,
		tape: t,
		log:  cfg.logger().With("tape", t.ID().String()),
	}
}

// Tape returns the engine's tape.
func (e *Engine) Tape() *aad.Tape {
	return e.tape
}

// Close releases the tape.
func (e *Engine) Close() {
	e.tape.Close()
}

// Gradient returns f(x) and ∇f(x) from one recording and one sweep.
//
// Steps: clear the tape, register x as inputs, record f, register and seed the
// result, sweep, read the input adjoints.
func (e *Engine) Gradient(f Func, x []float64) (Sensitivities, error) {
	if len(x) == 0 {
		return Sensitivities{}, ErrNoInputs
	}
	start := time.Now()
	t := e.tape

	t.ClearAll()
	in := aad.NewReals(x)
	if err := t.RegisterInputs(in); err != nil {
		return Sensitivities{}, e.fail(err)
	}
	t.NewRecording()

	y, err := evaluate(f, in)
	if err != nil {
		return Sensitivities{}, e.fail(err)
	}
	s, err := e.sweep(y, in)
	if err != nil {
		return Sensitivities{}, e.fail(err)
	}

	e.cfg.Metrics.ObserveAdjoint(time.Since(start), t.Stats(), 1)
	e.log.Debug("gradient", "inputs", len(x), "statements", t.NumStatements(), "elapsed", time.Since(start))
	return s, nil
}

// sweep seeds y, computes adjoints and collects the gradient over in.
func (e *Engine) sweep(y aad.Real, in []aad.Real) (Sensitivities, error) {
	t := e.tape
	if err := t.RegisterOutput(&y); err != nil {
		return Sensitivities{}, err
	}
	if err := t.SetDerivative(y, 1); err != nil {
		return Sensitivities{}, err
	}
	if err := t.ComputeAdjoints(); err != nil {
		return Sensitivities{}, err
	}
	grad := make([]float64, len(in))
	for i, x := range in {
		d, err := t.Derivative(x)
		if err != nil {
			return Sensitivities{}, err
		}
		grad[i] = d
	}
	return Sensitivities{Value: y.Value(), Gradient: grad}, nil
}

// Jacobian returns the values of f(x) and J[i][j] = ∂f_i/∂x_j from one
// recording swept once per output.
func (e *Engine) Jacobian(f VecFunc, x []float64) ([]float64, [][]float64, error) {
	if len(x) == 0 {
		return nil, nil, ErrNoInputs
	}
	start := time.Now()
	t := e.tape

	t.ClearAll()
	in := aad.NewReals(x)
	if err := t.RegisterInputs(in); err != nil {
		return nil, nil, e.fail(err)
	}
	t.NewRecording()

	out, err := evaluate(f, in)
	if err != nil {
		return nil, nil, e.fail(err)
	}
	if err := t.RegisterOutputs(out); err != nil {
		return nil, nil, e.fail(err)
	}
	jac, err := t.Jacobian(out, in)
	if err != nil {
		return nil, nil, e.fail(err)
	}
	values := make([]float64, len(out))
	for i, y := range out {
		values[i] = y.Value()
	}

	e.cfg.Metrics.ObserveAdjoint(time.Since(start), t.Stats(), len(out))
	return values, jac, nil
}

func (e *Engine) fail(err error) error {
	e.cfg.Metrics.ObserveFailure()
	e.log.Warn("adjoint run failed", "err", err)
	return err
}

// Session keeps inputs registered across valuations so that each Revalue only
// starts a new recording. Use it for repeated valuations of one model.
type Session struct {
	e  *Engine
	f  Func
	in []aad.Real
}

// NewSession clears the engine's tape and registers len(x) inputs for f.
func (e *Engine) NewSession(f Func, x []float64) (*Session, error) {
	if len(x) == 0 {
		return nil, ErrNoInputs
	}
	e.tape.ClearAll()
	in := aad.NewReals(x)
	if err := e.tape.RegisterInputs(in); err != nil {
		return nil, err
	}
	return &Session{e: e, f: f, in: in}, nil
}

// Inputs returns the registered inputs. Their values are those of the last Revalue.
func (s *Session) Inputs() []aad.Real {
	return s.in
}

// Revalue sets the input values to x, records f again and sweeps.
func (s *Session) Revalue(x []float64) (Sensitivities, error) {
	if len(x) != len(s.in) {
		return Sensitivities{}, fmt.Errorf("%w: got %d, want %d", ErrDimension, len(x), len(s.in))
	}
	start := time.Now()
	for i, v := range x {
		s.in[i].SetValue(v)
	}
	t := s.e.tape
	t.NewRecording()

	y, err := evaluate(s.f, s.in)
	if err != nil {
		return Sensitivities{}, s.e.fail(err)
	}
	res, err := s.e.sweep(y, s.in)
	if err != nil {
		return Sensitivities{}, s.e.fail(err)
	}
	s.e.cfg.Metrics.ObserveAdjoint(time.Since(start), t.Stats(), 1)
	return res, nil
}
