package telemetry

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/aad/internal/aad"
)

func newTestMetrics(t *testing.T) (*Metrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewMetrics(reg), reg
}

func TestMetrics_ObserveAdjoint(t *testing.T) {
	m, _ := newTestMetrics(t)

	m.ObserveAdjoint(3*time.Millisecond, aad.Stats{Statements: 10, Operands: 18}, 1)
	m.ObserveAdjoint(time.Millisecond, aad.Stats{Statements: 4, Operands: 6}, 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Valuations.WithLabelValues(ModeAdjoint)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Sweeps))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Statements), "one unlabelled histogram")
}

func TestMetrics_ObserveBump(t *testing.T) {
	m, _ := newTestMetrics(t)

	m.ObserveBump(time.Millisecond, 11)
	m.ObserveMismatches(0)
	m.ObserveMismatches(2)
	m.ObserveFailure()

	assert.Equal(t, 11.0, testutil.ToFloat64(m.Valuations.WithLabelValues(ModeBump)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Mismatches))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Failures))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAdjoint(time.Second, aad.Stats{}, 1)
		m.ObserveBump(time.Second, 3)
		m.ObserveMismatches(1)
		m.ObserveFailure()
	})
}

func TestTapeCollector(t *testing.T) {
	c := NewTapeCollector()
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(c))

	c.Update("worker-0", aad.Stats{Statements: 5, Operands: 9, Slots: 7, Bytes: 512})
	c.Update("worker-1", aad.Stats{Statements: 1, Operands: 1, Slots: 2, Bytes: 64})
	assert.Equal(t, 8, testutil.CollectAndCount(c))

	expected := `
# HELP aad_tape_live_statements Statements in the current recording
# TYPE aad_tape_live_statements gauge
aad_tape_live_statements{tape="worker-0"} 5
aad_tape_live_statements{tape="worker-1"} 1
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected), "aad_tape_live_statements"))

	c.Remove("worker-1")
	assert.Equal(t, 4, testutil.CollectAndCount(c))
}

func TestWriteText(t *testing.T) {
	m, reg := newTestMetrics(t)
	m.ObserveFailure()

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, reg))
	assert.Contains(t, buf.String(), "aad_failures_total 1")
	assert.Contains(t, buf.String(), "# TYPE aad_tape_sweeps_total counter")
}
