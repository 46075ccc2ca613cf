package aad

// SetDerivative seeds the adjoint of x, typically 1 for a scalar output.
func (t *Tape) SetDerivative(x Real, d float64) error {
	if err := t.check("set derivative", x); err != nil {
		return err
	}
	t.adj.Set(x.slot, d)
	return nil
}

// Derivative returns the adjoint accumulated for x by the last sweep.
func (t *Tape) Derivative(x Real) (float64, error) {
	if err := t.check("derivative", x); err != nil {
		return 0, err
	}
	return t.adj.At(x.slot), nil
}

// ComputeAdjoints propagates the seeded adjoints backwards through the
// current recording.
//
// Algorithm:
//  1. Walk statements in strict reverse order of recording
//  2. Read the adjoint of the statement result
//  3. Add result adjoint * partial into every operand adjoint
//
// A statement is visited only after every later statement, so its result
// adjoint is complete when it is read. Adjoints accumulate across calls;
// use ClearDerivatives before sweeping a different seed.
func (t *Tape) ComputeAdjoints() error {
	if t.closed {
		return tapeError("compute adjoints", t, -1, ErrTapeClosed)
	}
	if !t.started {
		return tapeError("compute adjoints", t, -1, ErrNoRecording)
	}

	t.adj.Ensure(t.slots)
	adj := t.adj.v
	stmts := t.ops.stmts
	operands := t.ops.operands

	for i := len(stmts) - 1; i >= 0; i-- {
		st := stmts[i]
		a := adj[st.lhs]
		if a == 0 {
			continue
		}
		begin := 0
		if i > 0 {
			begin = stmts[i-1].end
		}
		for _, o := range operands[begin:st.end] {
			adj[o.slot] += a * o.partial
		}
	}

	t.sweeps++
	t.log.Debug("adjoints computed",
		"statements", len(stmts),
		"operands", len(operands),
		"slots", t.slots,
	)
	return nil
}

// ClearDerivatives zeroes every adjoint without touching the recording, so a
// different seed can be swept over the same log.
func (t *Tape) ClearDerivatives() {
	t.adj.Reset()
}

// Adjoints returns a copy of the adjoint store indexed by slot.
func (t *Tape) Adjoints() []float64 {
	t.adj.Ensure(t.slots)
	return t.adj.Snapshot()
}

// Jacobian returns J[i][j] = ∂outputs[i]/∂inputs[j] using one sweep per output
// over the current recording. Adjoints of the last row remain in the store.
func (t *Tape) Jacobian(outputs, inputs []Real) ([][]float64, error) {
	for _, x := range inputs {
		if err := t.check("jacobian", x); err != nil {
			return nil, err
		}
	}
	jac := make([][]float64, len(outputs))
	for i, y := range outputs {
		t.ClearDerivatives()
		if err := t.SetDerivative(y, 1); err != nil {
			return nil, err
		}
		if err := t.ComputeAdjoints(); err != nil {
			return nil, err
		}
		row := make([]float64, len(inputs))
		for j, x := range inputs {
			row[j] = t.adj.At(x.slot)
		}
		jac[i] = row
	}
	return jac, nil
}
