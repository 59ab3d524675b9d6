// Package metrics counts what happened during an import. Collectors live on a
// private registry; there is no HTTP endpoint, the registry is written to a
// node_exporter textfile when configured.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is safe for concurrent use. A nil *Metrics discards everything.
type Metrics struct {
	registry *prometheus.Registry

	filesDecoded   prometheus.Counter
	filesFailed    prometheus.Counter
	linesRejected  *prometheus.CounterVec
	deltasClamped  prometheus.Counter
	orphans        *prometheus.CounterVec
	ambiguous      prometheus.Counter
	mapsScored     *prometheus.CounterVec
	decodeDuration prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		filesDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "etstats", Name: "files_decoded_total",
			Help: "Round stats files decoded successfully.",
		}),
		filesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "etstats", Name: "files_failed_total",
			Help: "Round stats files rejected as a whole.",
		}),
		linesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "etstats", Name: "lines_rejected_total",
			Help: "Player lines rejected while decoding, by error kind.",
		}, []string{"kind"}),
		deltasClamped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "etstats", Name: "deltas_clamped_total",
			Help: "Round 2 deltas with at least one field clamped to zero.",
		}),
		orphans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "etstats", Name: "orphaned_rounds_total",
			Help: "Round files without a matching partner, by round.",
		}, []string{"round"}),
		ambiguous: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "etstats", Name: "ambiguous_rosters_total",
			Help: "Sessions whose rosters could not be resolved.",
		}),
		mapsScored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "etstats", Name: "maps_scored_total",
			Help: "Maps scored, by outcome.",
		}, []string{"outcome"}),
		decodeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "etstats", Name: "decode_duration_seconds",
			Help:    "Time spent decoding a single file.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
	}
	m.registry.MustRegister(m.filesDecoded, m.filesFailed, m.linesRejected, m.deltasClamped,
		m.orphans, m.ambiguous, m.mapsScored, m.decodeDuration)
	return m
}

func (m *Metrics) FileDecoded(seconds float64) {
	if m == nil {
		return
	}
	m.filesDecoded.Inc()
	m.decodeDuration.Observe(seconds)
}

func (m *Metrics) FileFailed() {
	if m != nil {
		m.filesFailed.Inc()
	}
}

func (m *Metrics) LineRejected(kind string) {
	if m != nil {
		m.linesRejected.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) DeltasClamped(n int) {
	if m != nil && n > 0 {
		m.deltasClamped.Add(float64(n))
	}
}

func (m *Metrics) Orphan(round int) {
	if m != nil {
		m.orphans.WithLabelValues(fmt.Sprintf("%d", round)).Inc()
	}
}

func (m *Metrics) AmbiguousRoster() {
	if m != nil {
		m.ambiguous.Inc()
	}
}

func (m *Metrics) MapScored(outcome string) {
	if m != nil {
		m.mapsScored.WithLabelValues(outcome).Inc()
	}
}

// WriteTextfile writes every collector to path in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
