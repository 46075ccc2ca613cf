package telemetry

import (
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/born-ml/aad/internal/aad"
)

// TapeCollector exports the last reported size of named tapes as gauges.
//
// Tapes are driven by one goroutine each, so the collector never reads a tape
// directly: owners push snapshots with Update and scrapes read the copies.
type TapeCollector struct {
	mu    sync.Mutex
	stats map[string]aad.Stats

	statements *prometheus.Desc
	operands   *prometheus.Desc
	slots      *prometheus.Desc
	bytes      *prometheus.Desc
}

var _ prometheus.Collector = (*TapeCollector)(nil)

// NewTapeCollector creates an empty collector.
func NewTapeCollector() *TapeCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "tape", name), help, []string{"tape"}, nil)
	}
	return &TapeCollector{
		stats:      make(map[string]aad.Stats),
		statements: desc("live_statements", "Statements in the current recording"),
		operands:   desc("live_operands", "Operands in the current recording"),
		slots:      desc("live_slots", "Allocated slots"),
		bytes:      desc("buffer_bytes", "Approximate buffer memory"),
	}
}

// Update stores the latest snapshot for the named tape.
func (c *TapeCollector) Update(name string, st aad.Stats) {
	c.mu.Lock()
	c.stats[name] = st
	c.mu.Unlock()
}

// Remove drops the named tape.
func (c *TapeCollector) Remove(name string) {
	c.mu.Lock()
	delete(c.stats, name)
	c.mu.Unlock()
}

// Describe implements prometheus.Collector.
func (c *TapeCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.statements
	ch <- c.operands
	ch <- c.slots
	ch <- c.bytes
}

// Collect implements prometheus.Collector.
func (c *TapeCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	names := make([]string, 0, len(c.stats))
	for name := range c.stats {
		names = append(names, name)
	}
	sort.Strings(names)
	snap := make([]aad.Stats, len(names))
	for i, name := range names {
		snap[i] = c.stats[name]
	}
	c.mu.Unlock()

	for i, name := range names {
		st := snap[i]
		ch <- prometheus.MustNewConstMetric(c.statements, prometheus.GaugeValue, float64(st.Statements), name)
		ch <- prometheus.MustNewConstMetric(c.operands, prometheus.GaugeValue, float64(st.Operands), name)
		ch <- prometheus.MustNewConstMetric(c.slots, prometheus.GaugeValue, float64(st.Slots), name)
		ch <- prometheus.MustNewConstMetric(c.bytes, prometheus.GaugeValue, float64(st.Bytes), name)
	}
}
