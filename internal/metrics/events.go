package metrics

import "github.com/prometheus/client_golang/prometheus"

// Event pipeline Prometheus metrics.
var (
	EventsProcessedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "querykit",
			Name:      "events_processed_total",
			Help:      "Events persisted by the background worker",
		},
	)

	EventsDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "querykit",
			Name:      "events_dropped_total",
			Help:      "Events dropped because the ingestion queue was full",
		},
	)

	EventQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "querykit",
			Name:      "event_queue_depth",
			Help:      "Events currently waiting in the ingestion queue",
		},
	)
)

var eventMetricsRegistered bool

// RegisterEventMetrics registers Prometheus event metrics. Must be called once from main.
func RegisterEventMetrics() {
	if eventMetricsRegistered {
		return
	}
	prometheus.MustRegister(EventsProcessedTotal)
	prometheus.MustRegister(EventsDroppedTotal)
	prometheus.MustRegister(EventQueueDepth)
	eventMetricsRegistered = true
}
