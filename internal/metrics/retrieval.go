package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval Prometheus metrics.
var (
	RetrievalDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "courserag",
			Name:      "retrieval_duration_seconds",
			Help:      "End-to-end retrieval duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"strategy"},
	)

	RetrievalRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "courserag",
			Name:      "retrieval_requests_total",
			Help:      "Total retrieval requests",
		},
		[]string{"strategy", "status"},
	)

	RetrievalCandidates = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "courserag",
			Name:      "retrieval_candidates",
			Help:      "Candidates returned per leg before fusion",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
		[]string{"leg"},
	)

	RetrievalResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "courserag",
			Name:      "retrieval_results",
			Help:      "Results returned after filtering and truncation",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)
)

var retrievalMetricsRegistered bool

// RegisterRetrievalMetrics registers retrieval metrics. Must be called once from main.
func RegisterRetrievalMetrics() {
	if retrievalMetricsRegistered {
		return
	}
	prometheus.MustRegister(RetrievalDuration)
	prometheus.MustRegister(RetrievalRequestsTotal)
	prometheus.MustRegister(RetrievalCandidates)
	prometheus.MustRegister(RetrievalResults)
	retrievalMetricsRegistered = true
}
