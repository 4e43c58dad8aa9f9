package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "querykit",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"status"},
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "querykit",
			Name:      "search_duration_seconds",
			Help:      "End-to-end search pipeline duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	SearchCandidatesFiltered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "querykit",
			Name:      "search_candidates_filtered_total",
			Help:      "Candidates rejected by post-retrieval filtering",
		},
	)

	SearchConflictsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "querykit",
			Name:      "search_filter_conflicts_total",
			Help:      "Queries whose merged price bounds conflicted",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchCandidatesFiltered)
	prometheus.MustRegister(SearchConflictsTotal)
	searchMetricsRegistered = true
}
