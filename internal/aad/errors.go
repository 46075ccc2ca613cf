package aad

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Tape misuse errors.
//
// ErrNoRecording and ErrNotRegistered signal use before initialization;
// ErrTapeClosed and ErrStaleValue signal use after invalidation.
var (
	ErrTapeClosed    = errors.New("tape is closed")
	ErrStaleValue    = errors.New("value belongs to an invalidated recording")
	ErrTapeMismatch  = errors.New("operands are bound to different tapes")
	ErrNotRegistered = errors.New("value is not registered on a tape")
	ErrNoRecording   = errors.New("no recording started (call NewRecording first)")
	ErrNilValue      = errors.New("nil value")
)

// TapeError describes a tape lifecycle violation.
//
// Arithmetic cannot return errors, so operators panic with a *TapeError;
// lifecycle methods return one.
type TapeError struct {
	Op   string    // Operation that detected the violation (e.g. "mul", "derivative")
	Tape uuid.UUID // Tape involved, zero if none
	Slot int       // Slot involved, -1 if none
	Err  error     // One of the Err* sentinels
}

// Error implements the error interface.
func (e *TapeError) Error() string {
	if e.Tape == uuid.Nil {
		return fmt.Sprintf("aad: %s: %v", e.Op, e.Err)
	}
	if e.Slot < 0 {
		return fmt.Sprintf("aad: %s: tape %s: %v", e.Op, e.Tape, e.Err)
	}
	return fmt.Sprintf("aad: %s: tape %s slot %d: %v", e.Op, e.Tape, e.Slot, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *TapeError) Unwrap() error {
	return e.Err
}

func tapeError(op string, t *Tape, slot int, err error) *TapeError {
	te := &TapeError{Op: op, Slot: slot, Err: err}
	if t != nil {
		te.Tape = t.id
	}
	return te
}
