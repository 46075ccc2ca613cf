package aad

// Operand is anything that can take part in an active computation: a Real,
// a Float constant or a deferred *Expr.
//
// The set is closed; generic code written against Operand treats expressions
// as drop-in stand-ins for Real.
type Operand interface {
	// Value returns the primal value without recording anything.
	Value() float64

	// accumulate adds w * ∂self/∂leaf for every tape-bound leaf below self.
	accumulate(w float64, acc *accumulator)
}

// Float is a plain number used as an Operand. It never carries derivatives.
type Float float64

// Value returns the number.
func (f Float) Value() float64 { return float64(f) }

func (Float) accumulate(float64, *accumulator) {}

// accumulator collects the net partials of a fused expression, one operand
// per distinct slot.
type accumulator struct {
	op     Op
	tape   *Tape
	leaves []operand
	buf    [8]operand
	index  map[int]int // slot -> position in leaves, built once leaves grow
}

func (a *accumulator) add(x Real, w float64) {
	if a.tape == nil {
		a.tape = x.tape
	} else if a.tape != x.tape {
		panic(tapeError(a.op.String(), a.tape, x.slot, ErrTapeMismatch))
	}
	if err := x.tape.check(a.op.String(), x); err != nil {
		panic(err)
	}
	if i, ok := a.find(x.slot); ok {
		a.leaves[i].partial += w
		return
	}
	if a.index != nil {
		a.index[x.slot] = len(a.leaves)
	}
	a.leaves = append(a.leaves, operand{slot: x.slot, partial: w})
}

func (a *accumulator) find(slot int) (int, bool) {
	if a.index == nil {
		if len(a.leaves) < 16 {
			for i := range a.leaves {
				if a.leaves[i].slot == slot {
					return i, true
				}
			}
			return 0, false
		}
		a.index = make(map[int]int, 2*len(a.leaves))
		for i, l := range a.leaves {
			a.index[l.slot] = i
		}
	}
	i, ok := a.index[slot]
	return i, ok
}

// Expr is a deferred unary or binary operation over operands.
//
// The primal and the local partials are computed when the node is built.
// Real materialises the whole graph as ONE recorded statement whose operands are
// the distinct tape-bound leaves and whose partials are the chain-rule sums over
// every path. Materialisation is memoised: once recorded, the result is stored on
// the node and later calls return it without recording again.
type Expr struct {
	op     Op
	val    float64
	a, b   Operand // b is nil for unary nodes
	da, db float64
	res    *Real

	// scratch state of the materialisation in progress
	weight float64
	queued bool
}

func newUnary(op Op, x Operand, p params) *Expr {
	v, d := unaryRules[op](x.Value(), p)
	return &Expr{op: op, val: v, a: x, da: d}
}

func newBinary(op Op, a, b Operand) *Expr {
	v, da, db := binaryRules[op](a.Value(), b.Value())
	return &Expr{op: op, val: v, a: a, b: b, da: da, db: db}
}

// Value returns the primal value of the expression.
func (e *Expr) Value() float64 {
	return e.val
}

// Op returns the operation tag of the root node.
func (e *Expr) Op() Op {
	return e.op
}

// Partials returns the local partial derivatives of the root node.
// The second one is zero for unary nodes.
func (e *Expr) Partials() (float64, float64) {
	return e.da, e.db
}

// Materialized reports whether e has been fixed to a single value by Real.
func (e *Expr) Materialized() bool {
	return e.res != nil
}

func (e *Expr) accumulate(w float64, acc *accumulator) {
	if e.res != nil {
		e.res.accumulate(w, acc)
		return
	}
	e.materialize(w, acc)
}

// materialize pushes w from e down to the leaves, visiting every distinct
// unmaterialised node once regardless of how many paths reach it.
func (e *Expr) materialize(w float64, acc *accumulator) {
	order := e.collect(nil)
	defer func() {
		for _, n := range order {
			n.weight, n.queued = 0, false
		}
	}()
	e.weight = w
	for i := len(order) - 1; i >= 0; i-- {
		n := order[i]
		n.propagate(n.a, n.da, acc)
		if n.b != nil {
			n.propagate(n.b, n.db, acc)
		}
	}
}

// collect appends the unmaterialised nodes below e in topological order,
// children first.
func (e *Expr) collect(order []*Expr) []*Expr {
	e.queued = true
	for _, c := range [2]Operand{e.a, e.b} {
		if ce, ok := c.(*Expr); ok && ce.res == nil && !ce.queued {
			order = ce.collect(order)
		}
	}
	return append(order, e)
}

func (e *Expr) propagate(child Operand, d float64, acc *accumulator) {
	// A zero weight stays zero so that an unused branch with an infinite
	// partial does not turn into NaN; the sweep skips zero adjoints the same way.
	var w float64
	if e.weight != 0 {
		w = e.weight * d
	}
	if ce, ok := child.(*Expr); ok && ce.res == nil {
		ce.weight += w
		return
	}
	child.accumulate(w, acc)
}

// Real evaluates e into an active value, recording a single statement when the
// leaves' tape is recording. Repeated calls return the same value.
//
// While the leaves' tape is not recording the result is a passive value and e
// is left unmaterialised, so later expressions built on e still differentiate
// through it once recording resumes.
func (e *Expr) Real() Real {
	if e.res != nil {
		return *e.res
	}
	acc := accumulator{op: e.op}
	acc.leaves = acc.buf[:0]
	e.materialize(1, &acc)

	r := Real{val: e.val}
	if t := acc.tape; t != nil {
		if !t.recording {
			return r
		}
		if len(acc.leaves) > 0 {
			r = t.result(e.val)
			t.ops.push(r.slot, acc.leaves...)
		}
	}
	e.res = &r
	return r
}

// Add returns e + y.
func (e *Expr) Add(y Operand) *Expr { return newBinary(OpAdd, e, y) }

// Sub returns e - y.
func (e *Expr) Sub(y Operand) *Expr { return newBinary(OpSub, e, y) }

// Mul returns e * y.
func (e *Expr) Mul(y Operand) *Expr { return newBinary(OpMul, e, y) }

// Div returns e / y.
func (e *Expr) Div(y Operand) *Expr { return newBinary(OpDiv, e, y) }

// Neg returns -e.
func (e *Expr) Neg() *Expr { return newUnary(OpNeg, e, params{}) }
