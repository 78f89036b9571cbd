package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Search outcomes.
const (
	OutcomeOK           = "ok"
	OutcomeEmpty        = "empty"
	OutcomeSyntaxError  = "syntax_error"
	OutcomeBackendError = "backend_error"
	OutcomeError        = "error"
)

// Search and index maintenance Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memedex",
			Name:      "search_requests_total",
			Help:      "Total number of search requests by outcome",
		},
		[]string{"dialect", "outcome"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "memedex",
			Name:      "search_duration_seconds",
			Help:      "Search duration in seconds, parse to hydration",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"dialect"},
	)

	SearchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "memedex",
			Name:      "search_results",
			Help:      "Number of results returned per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 200, 500, 1000},
		},
		[]string{"dialect"},
	)

	MutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memedex",
			Name:      "mutations_total",
			Help:      "Total record mutations (with index maintenance) by operation and status",
		},
		[]string{"op", "status"}, // op: create/update/delete; status: ok/not_found/index_error/error
	)
)

var registerSearchOnce sync.Once

// RegisterSearchMetrics registers search and mutation metrics on the default registry.
func RegisterSearchMetrics() {
	registerSearchOnce.Do(func() {
		prometheus.MustRegister(SearchRequestsTotal, SearchDuration, SearchResults, MutationsTotal)
	})
}
