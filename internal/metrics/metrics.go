package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Set holds the Prometheus metrics for the acquisition pipeline. A nil *Set
// is valid everywhere: every recording method no-ops, so tests and one-shot
// commands can skip registration entirely.
type Set struct {
	SourceAttempts  *prometheus.CounterVec
	SourceFailures  *prometheus.CounterVec
	SourceSuccesses *prometheus.CounterVec
	FallbackDepth   prometheus.Gauge
	CycleDuration   prometheus.Histogram
	HistoryLookups  *prometheus.CounterVec
	SnapshotSize    prometheus.Gauge
}

func NewSet(reg prometheus.Registerer) *Set {
	s := &Set{
		SourceAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tokenwatch_source_attempts_total",
				Help: "Fetch attempts per token source",
			},
			[]string{"source"},
		),
		SourceFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tokenwatch_source_failures_total",
				Help: "Failed fetches per token source and error code",
			},
			[]string{"source", "code"},
		),
		SourceSuccesses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tokenwatch_source_successes_total",
				Help: "Successful fetches per token source",
			},
			[]string{"source"},
		),
		FallbackDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "tokenwatch_fallback_depth",
				Help: "Chain position of the source that served the last cycle (0 = primary)",
			},
		),
		CycleDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tokenwatch_cycle_duration_seconds",
				Help:    "Duration of one full fetch cycle including enrichment",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
		),
		HistoryLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tokenwatch_history_lookups_total",
				Help: "Per-asset history lookups by outcome",
			},
			[]string{"result"},
		),
		SnapshotSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "tokenwatch_snapshot_tokens",
				Help: "Token count in the most recent snapshot",
			},
		),
	}

	reg.MustRegister(
		s.SourceAttempts, s.SourceFailures, s.SourceSuccesses,
		s.FallbackDepth, s.CycleDuration, s.HistoryLookups, s.SnapshotSize,
	)
	return s
}

func (s *Set) Attempt(source string) {
	if s == nil {
		return
	}
	s.SourceAttempts.WithLabelValues(source).Inc()
}

func (s *Set) Failure(source, code string) {
	if s == nil {
		return
	}
	s.SourceFailures.WithLabelValues(source, code).Inc()
}

func (s *Set) Success(source string, depth int) {
	if s == nil {
		return
	}
	s.SourceSuccesses.WithLabelValues(source).Inc()
	s.FallbackDepth.Set(float64(depth))
}

func (s *Set) ObserveCycle(seconds float64) {
	if s == nil {
		return
	}
	s.CycleDuration.Observe(seconds)
}

func (s *Set) HistoryResult(result string, n int) {
	if s == nil || n <= 0 {
		return
	}
	s.HistoryLookups.WithLabelValues(result).Add(float64(n))
}

func (s *Set) SetSnapshotSize(n int) {
	if s == nil {
		return
	}
	s.SnapshotSize.Set(float64(n))
}
