// Package metrics provides observability for the gate module.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the gate module's Prometheus metrics. All helper methods are
// nil-safe so callers can run without metrics wired.
type Metrics struct {
	// Check outcomes by class: authorized, denied, invalid_input, failed.
	ChecksTotal *prometheus.CounterVec

	// Decision-cache short circuits.
	CacheHits prometheus.Counter

	// Triggered rules by rule type.
	RulesTriggered *prometheus.CounterVec

	// Alerts handed to the notifier.
	AlertsSent prometheus.Counter

	// Steam sub-call latencies by source.
	SignalLatency *prometheus.HistogramVec

	// Full check latency including signal collection.
	CheckLatency prometheus.Histogram
}

// New creates and registers all gate metrics.
func New() *Metrics {
	return &Metrics{
		ChecksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "steamgate_gate_checks_total",
			Help: "Total authorization checks by outcome",
		}, []string{"outcome"}),

		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "steamgate_gate_cache_hits_total",
			Help: "Total checks answered from the decision cache",
		}),

		RulesTriggered: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "steamgate_gate_rules_triggered_total",
			Help: "Total rule triggers by rule type",
		}, []string{"rule"}),

		AlertsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "steamgate_gate_alerts_sent_total",
			Help: "Total alerts handed to the notifier",
		}),

		SignalLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "steamgate_gate_signal_duration_seconds",
			Help:    "Duration of steam api sub-calls by source",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"source"}), // source: "summary", "owned_games", "bans"

		CheckLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "steamgate_gate_check_duration_seconds",
			Help:    "Duration of full authorization checks including signal collection",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// IncrementCheck records a check outcome.
func (m *Metrics) IncrementCheck(outcome string) {
	if m != nil {
		m.ChecksTotal.WithLabelValues(outcome).Inc()
	}
}

// IncrementCacheHit records a decision-cache short circuit.
func (m *Metrics) IncrementCacheHit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

// IncrementRuleTriggered records one rule trigger.
func (m *Metrics) IncrementRuleTriggered(rule string) {
	if m != nil {
		m.RulesTriggered.WithLabelValues(rule).Inc()
	}
}

// IncrementAlertSent records an alert handoff.
func (m *Metrics) IncrementAlertSent() {
	if m != nil {
		m.AlertsSent.Inc()
	}
}

// ObserveSignalLatency records the duration of one steam sub-call.
func (m *Metrics) ObserveSignalLatency(source string, d time.Duration) {
	if m != nil {
		m.SignalLatency.WithLabelValues(source).Observe(d.Seconds())
	}
}

// ObserveCheckLatency records the total check duration.
func (m *Metrics) ObserveCheckLatency(d time.Duration) {
	if m != nil {
		m.CheckLatency.Observe(d.Seconds())
	}
}
