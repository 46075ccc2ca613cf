package aad

import (
	"log/slog"

	"github.com/google/uuid"
)

// Tape records operations on active values and propagates adjoints backwards.
//
// Usage:
//
//	tape := aad.NewTape()
//	x, y := aad.NewReal(3), aad.NewReal(4)
//	_ = tape.RegisterInput(&x)
//	_ = tape.RegisterInput(&y)
//	tape.NewRecording()
//	z := x.Mul(x).Add(y.Mul(y))
//	_ = tape.RegisterOutput(&z)
//	_ = tape.SetDerivative(z, 1)
//	_ = tape.ComputeAdjoints()
//	dx, _ := tape.Derivative(x) // 6
//
// A tape must be driven by one goroutine at a time. Parallel valuations use
// one tape per goroutine; values of different tapes must never be mixed.
type Tape struct {
	id  uuid.UUID
	cfg Config
	log *slog.Logger

	ops statementLog
	adj *AdjointStore

	slots    int   // Next free slot.
	mark     int   // First slot of the current recording.
	inputEnd int   // One past the highest input slot.
	inputs   []int // Registered input slots.
	outputs  []int // Registered output slots of the current recording.

	// Generation stamps. Inputs carry inputGen (changed by ClearAll);
	// recorded values carry recGen (changed by ClearAll and NewRecording).
	gen      uint64
	inputGen uint64
	recGen   uint64

	recording bool
	started   bool // A recording exists since the last ClearAll.
	closed    bool
	sweeps    int
}

// NewTape creates a tape with DefaultConfig.
func NewTape() *Tape {
	return NewTapeWithConfig(DefaultConfig())
}

// NewTapeWithConfig creates a tape with pre-sized buffers.
// The tape is idle until NewRecording (or StartRecording) is called.
func NewTapeWithConfig(cfg Config) *Tape {
	t := &Tape{
		id:  uuid.New(),
		cfg: cfg,
		ops: newStatementLog(cfg.StatementCapacity, cfg.OperandCapacity),
		adj: NewAdjointStore(cfg.SlotCapacity),
	}
	t.log = cfg.logger().With("tape", t.id.String())
	t.bumpInputGen()
	return t
}

// ID returns the tape identifier.
func (t *Tape) ID() uuid.UUID {
	return t.id
}

func (t *Tape) bumpInputGen() {
	t.gen++
	t.inputGen = t.gen
	t.gen++
	t.recGen = t.gen
}

// RegisterInput binds x to a fresh input slot.
// A value that already is a live input of this tape is left unchanged.
// Inputs survive NewRecording and are dropped by ClearAll.
func (t *Tape) RegisterInput(x *Real) error {
	if x == nil {
		return tapeError("register input", t, -1, ErrNilValue)
	}
	if t.closed {
		return tapeError("register input", t, -1, ErrTapeClosed)
	}
	if x.tape == t && x.gen == t.inputGen {
		return nil
	}
	slot := t.newSlot()
	*x = Real{val: x.val, tape: t, slot: slot, gen: t.inputGen}
	t.inputs = append(t.inputs, slot)
	t.inputEnd = slot + 1
	return nil
}

// RegisterInputs binds every element of xs in place.
func (t *Tape) RegisterInputs(xs []Real) error {
	for i := range xs {
		if err := t.RegisterInput(&xs[i]); err != nil {
			return err
		}
	}
	return nil
}

// NewRecording empties the statement log, keeps registered inputs, zeroes all
// adjoints and starts recording. Values computed in earlier recordings become stale.
func (t *Tape) NewRecording() {
	if t.closed {
		panic(tapeError("new recording", t, -1, ErrTapeClosed))
	}
	t.ops.reset()
	t.outputs = t.outputs[:0]
	t.mark = t.inputEnd
	t.slots = t.mark
	t.adj.Truncate(t.mark)
	t.adj.Reset()
	t.gen++
	t.recGen = t.gen
	t.started = true
	t.recording = true
	t.log.Debug("new recording", "inputs", len(t.inputs), "slots", t.slots)
}

// StartRecording resumes recording without truncating the log.
func (t *Tape) StartRecording() {
	if t.closed {
		panic(tapeError("start recording", t, -1, ErrTapeClosed))
	}
	t.started = true
	t.recording = true
}

// StopRecording pauses recording. Operations on bound values then evaluate
// as plain arithmetic and return constants.
func (t *Tape) StopRecording() {
	t.recording = false
}

// IsRecording returns true if the tape is currently recording operations.
func (t *Tape) IsRecording() bool {
	return t.recording
}

// RegisterOutput marks x as a sweep target. An unbound x gets a fresh slot so
// that it can be seeded.
func (t *Tape) RegisterOutput(x *Real) error {
	if x == nil {
		return tapeError("register output", t, -1, ErrNilValue)
	}
	if t.closed {
		return tapeError("register output", t, -1, ErrTapeClosed)
	}
	if x.tape == nil {
		*x = t.result(x.val)
	} else if err := t.check("register output", *x); err != nil {
		return err
	}
	t.outputs = append(t.outputs, x.slot)
	return nil
}

// RegisterOutputs marks every element of xs as a sweep target.
func (t *Tape) RegisterOutputs(xs []Real) error {
	for i := range xs {
		if err := t.RegisterOutput(&xs[i]); err != nil {
			return err
		}
	}
	return nil
}

// Outputs returns the slots registered as outputs in the current recording.
func (t *Tape) Outputs() []int {
	out := make([]int, len(t.outputs))
	copy(out, t.outputs)
	return out
}

// Inputs returns the registered input slots.
func (t *Tape) Inputs() []int {
	out := make([]int, len(t.inputs))
	copy(out, t.inputs)
	return out
}

// ClearAll resets the tape completely, including registered inputs.
// Every value bound to the tape becomes stale; buffers keep their capacity.
func (t *Tape) ClearAll() {
	if t.closed {
		return
	}
	t.ops.reset()
	t.adj.Truncate(0)
	t.inputs = t.inputs[:0]
	t.outputs = t.outputs[:0]
	t.slots, t.mark, t.inputEnd = 0, 0, 0
	t.started = false
	t.recording = false
	t.bumpInputGen()
	t.log.Debug("clear all")
}

// Close releases the tape buffers. Any later use of the tape or its values fails
// with ErrTapeClosed.
func (t *Tape) Close() {
	if t.closed {
		return
	}
	t.closed = true
	t.recording = false
	t.ops = statementLog{}
	t.adj = NewAdjointStore(0)
	t.inputs, t.outputs = nil, nil
	t.log.Debug("closed", "sweeps", t.sweeps)
}

// NumStatements returns the number of recorded statements.
func (t *Tape) NumStatements() int {
	return len(t.ops.stmts)
}

// NumOperands returns the number of recorded (slot, partial) pairs.
func (t *Tape) NumOperands() int {
	return len(t.ops.operands)
}

// NumSlots returns the number of allocated slots.
func (t *Tape) NumSlots() int {
	return t.slots
}

// NumInputs returns the number of registered inputs.
func (t *Tape) NumInputs() int {
	return len(t.inputs)
}

// Stats is a snapshot of tape sizes.
type Stats struct {
	Statements int
	Operands   int
	Slots      int
	Inputs     int
	Outputs    int
	Sweeps     int
	Bytes      int // Approximate buffer memory, capacity included.
	Recording  bool
}

// Stats returns current tape sizes.
func (t *Tape) Stats() Stats {
	return Stats{
		Statements: len(t.ops.stmts),
		Operands:   len(t.ops.operands),
		Slots:      t.slots,
		Inputs:     len(t.inputs),
		Outputs:    len(t.outputs),
		Sweeps:     t.sweeps,
		Bytes:      cap(t.ops.stmts)*16 + cap(t.ops.operands)*16 + cap(t.adj.v)*8,
		Recording:  t.recording,
	}
}

func (t *Tape) newSlot() int {
	s := t.slots
	t.slots++
	return s
}

// result allocates the slot of a recorded value.
func (t *Tape) result(v float64) Real {
	return Real{val: v, tape: t, slot: t.newSlot(), gen: t.recGen}
}

// check reports whether x may be used with t.
func (t *Tape) check(op string, x Real) *TapeError {
	switch {
	case x.tape == nil:
		return tapeError(op, t, -1, ErrNotRegistered)
	case x.tape != t:
		return tapeError(op, t, x.slot, ErrTapeMismatch)
	case t.closed:
		return tapeError(op, t, x.slot, ErrTapeClosed)
	case x.gen != t.inputGen && x.gen != t.recGen:
		return tapeError(op, t, x.slot, ErrStaleValue)
	}
	return nil
}

// recorder returns the tape that must record an operation on x, or nil when the
// result is a constant. Misuse panics.
func (x Real) recorder(op Op) *Tape {
	t := x.tape
	if t == nil {
		return nil
	}
	if err := t.check(op.String(), x); err != nil {
		panic(err)
	}
	if !t.recording {
		return nil
	}
	return t
}

// recorder2 is recorder for two operands.
func recorder2(op Op, a, b Real) *Tape {
	switch {
	case a.tape == nil:
		return b.recorder(op)
	case b.tape == nil:
		return a.recorder(op)
	case a.tape != b.tape:
		panic(tapeError(op.String(), a.tape, b.slot, ErrTapeMismatch))
	}
	if err := b.tape.check(op.String(), b); err != nil {
		panic(err)
	}
	return a.recorder(op)
}
