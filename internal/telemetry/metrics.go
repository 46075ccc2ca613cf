// Package telemetry exposes prometheus metrics for gradient and bumping runs.
package telemetry

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"github.com/born-ml/aad/internal/aad"
)

const namespace = "aad"

// Valuation modes used as the "mode" label.
const (
	ModeAdjoint = "adjoint"
	ModeBump    = "bump"
)

// Metrics groups the counters and histograms of valuation runs.
// A nil *Metrics records nothing.
type Metrics struct {
	Valuations *prometheus.CounterVec   // mode
	Duration   *prometheus.HistogramVec // mode
	Sweeps     prometheus.Counter
	Statements prometheus.Histogram
	Operands   prometheus.Histogram
	Mismatches prometheus.Counter
	Failures   prometheus.Counter
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	sizeBuckets := prometheus.ExponentialBuckets(1, 4, 12)
	return &Metrics{
		Valuations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "valuations_total",
			Help:      "Function evaluations by mode",
		}, []string{"mode"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a full sensitivity run by mode",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 14),
		}, []string{"mode"}),
		Sweeps: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tape",
			Name:      "sweeps_total",
			Help:      "Backward sweeps computed",
		}),
		Statements: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "tape",
			Name:      "statements",
			Help:      "Statements per recording",
			Buckets:   sizeBuckets,
		}),
		Operands: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "tape",
			Name:      "operands",
			Help:      "Operands per recording",
			Buckets:   sizeBuckets,
		}),
		Mismatches: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mismatches_total",
			Help:      "Gradient components outside tolerance",
		}),
		Failures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Runs that returned an error",
		}),
	}
}

// ObserveAdjoint records one recorded-and-swept valuation.
func (m *Metrics) ObserveAdjoint(d time.Duration, st aad.Stats, sweeps int) {
	if m == nil {
		return
	}
	m.Valuations.WithLabelValues(ModeAdjoint).Inc()
	m.Duration.WithLabelValues(ModeAdjoint).Observe(d.Seconds())
	m.Sweeps.Add(float64(sweeps))
	m.Statements.Observe(float64(st.Statements))
	m.Operands.Observe(float64(st.Operands))
}

// ObserveBump records a bump-and-revalue run of evals plain evaluations.
func (m *Metrics) ObserveBump(d time.Duration, evals int) {
	if m == nil {
		return
	}
	m.Valuations.WithLabelValues(ModeBump).Add(float64(evals))
	m.Duration.WithLabelValues(ModeBump).Observe(d.Seconds())
}

// ObserveMismatches adds n out-of-tolerance components.
func (m *Metrics) ObserveMismatches(n int) {
	if m == nil || n == 0 {
		return
	}
	m.Mismatches.Add(float64(n))
}

// ObserveFailure counts a failed run.
func (m *Metrics) ObserveFailure() {
	if m == nil {
		return
	}
	m.Failures.Inc()
}

// WriteText writes everything g gathers in the prometheus text format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
