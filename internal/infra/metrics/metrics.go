// Package metrics defines the Prometheus instrumentation for Vocable.
// All collectors are registered on the default registry via promauto and
// served by the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestCount counts HTTP requests by method, route pattern and status.
	RequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vocable_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration observes HTTP request duration by method and route pattern.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "vocable_request_duration_seconds",
			Help: "HTTP request duration in seconds",
		},
		[]string{"method", "endpoint"},
	)

	// CompletionLatency observes one provider attempt, labelled by the config
	// slot that served it and whether the attempt succeeded.
	CompletionLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vocable_completion_latency_seconds",
			Help:    "Provider completion attempt latency in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"slot", "outcome"},
	)

	// CompletionFailovers counts completions that fell through to the fallback slot.
	CompletionFailovers = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vocable_completion_failovers_total",
			Help: "Completions that failed over from primary to fallback",
		},
	)

	// CompletionErrors counts terminal completion failures by error kind.
	CompletionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vocable_completion_errors_total",
			Help: "Completions that failed on both provider slots, by error kind",
		},
		[]string{"kind"},
	)

	// SuggestionYield counts suggestions returned to clients by source tier.
	SuggestionYield = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vocable_suggestion_yield_total",
			Help: "Suggestions returned, by source tier",
		},
		[]string{"source"},
	)

	// HistoryEvents counts utterance events accepted by the ingestion endpoint.
	HistoryEvents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vocable_history_events_total",
			Help: "Utterance events accepted for history indexing",
		},
	)

	// ConfigReplacements counts successful AI routing config replacements.
	ConfigReplacements = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vocable_config_replacements_total",
			Help: "Successful AI routing configuration replacements",
		},
	)
)

// RegisterDroppedEventsGauge exposes the event bus drop counter as a gauge.
// Call once at startup; duplicate registration panics.
func RegisterDroppedEventsGauge(read func() uint64) prometheus.GaugeFunc {
	return promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "vocable_history_events_dropped",
			Help: "Utterance events discarded because the history consumer lagged",
		},
		func() float64 { return float64(read()) },
	)
}
