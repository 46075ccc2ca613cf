package aad

// operand is one (slot, ∂lhs/∂slot) pair of a recorded statement.
type operand struct {
	slot    int
	partial float64
}

// statement records lhs = f(operands[prev.end:end]).
// Operands of statement i start where statement i-1 ended.
type statement struct {
	lhs int
	end int
}

// statementLog is the append-only operation log of a tape.
// Both slices keep their capacity across recordings.
type statementLog struct {
	stmts    []statement
	operands []operand
}

func newStatementLog(stmtCap, operandCap int) statementLog {
	return statementLog{
		stmts:    make([]statement, 0, stmtCap),
		operands: make([]operand, 0, operandCap),
	}
}

func (l *statementLog) push(lhs int, ops ...operand) {
	l.operands = append(l.operands, ops...)
	l.stmts = append(l.stmts, statement{lhs: lhs, end: len(l.operands)})
}

func (l *statementLog) push1(lhs, slot int, partial float64) {
	l.operands = append(l.operands, operand{slot: slot, partial: partial})
	l.stmts = append(l.stmts, statement{lhs: lhs, end: len(l.operands)})
}

func (l *statementLog) push2(lhs, slotA int, partialA float64, slotB int, partialB float64) {
	l.operands = append(l.operands,
		operand{slot: slotA, partial: partialA},
		operand{slot: slotB, partial: partialB},
	)
	l.stmts = append(l.stmts, statement{lhs: lhs, end: len(l.operands)})
}

func (l *statementLog) reset() {
	l.stmts = l.stmts[:0]
	l.operands = l.operands[:0]
}

// AdjointStore maps slot indices to accumulated adjoints.
// Slots beyond Len read as zero.
type AdjointStore struct {
	v []float64
}

// NewAdjointStore creates an empty store with the given capacity.
func NewAdjointStore(capacity int) *AdjointStore {
	return &AdjointStore{v: make([]float64, 0, capacity)}
}

// Len returns the number of slots held.
func (s *AdjointStore) Len() int {
	return len(s.v)
}

// Ensure grows the store to at least n slots, zero-filling new ones.
func (s *AdjointStore) Ensure(n int) {
	if n <= len(s.v) {
		return
	}
	if n <= cap(s.v) {
		old := len(s.v)
		s.v = s.v[:n]
		clear(s.v[old:])
		return
	}
	grown := make([]float64, n, max(n, 2*cap(s.v)))
	copy(grown, s.v)
	s.v = grown
}

// At returns the adjoint of slot i.
func (s *AdjointStore) At(i int) float64 {
	if i < 0 || i >= len(s.v) {
		return 0
	}
	return s.v[i]
}

// Set overwrites the adjoint of slot i.
func (s *AdjointStore) Set(i int, d float64) {
	s.Ensure(i + 1)
	s.v[i] = d
}

// Add accumulates d into the adjoint of slot i.
func (s *AdjointStore) Add(i int, d float64) {
	s.Ensure(i + 1)
	s.v[i] += d
}

// Reset zeroes every adjoint, keeping the length.
func (s *AdjointStore) Reset() {
	clear(s.v)
}

// Truncate drops all slots at index n and above.
func (s *AdjointStore) Truncate(n int) {
	if n < len(s.v) {
		s.v = s.v[:n]
	}
}

// Snapshot returns a copy of all adjoints.
func (s *AdjointStore) Snapshot() []float64 {
	out := make([]float64, len(s.v))
	copy(out, s.v)
	return out
}
