package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Language model Prometheus metrics.
var (
	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "archsearch",
			Name:      "llm_requests_total",
			Help:      "Total number of chat completion requests",
		},
		[]string{"deployment", "status"},
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "archsearch",
			Name:      "llm_request_duration_seconds",
			Help:      "Chat completion request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"deployment"},
	)

	LLMTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "archsearch",
			Name:      "llm_tokens_total",
			Help:      "Total chat completion tokens consumed",
		},
		[]string{"deployment", "type"},
	)

	LLMErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "archsearch",
			Name:      "llm_errors_total",
			Help:      "Total chat completion errors",
		},
		[]string{"deployment", "error_type"},
	)
)

// Search service Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "archsearch",
			Name:      "search_requests_total",
			Help:      "Total number of search service calls",
		},
		[]string{"operation", "status"},
	)

	SearchRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "archsearch",
			Name:      "search_request_duration_seconds",
			Help:      "Search service call duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)
)

// Categorization Prometheus metrics.
var (
	CategorizationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "archsearch",
			Name:      "categorizations_total",
			Help:      "Category resolutions by tier (llm, cache, keyword)",
		},
		[]string{"tier"},
	)

	CategoryCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "archsearch",
			Name:      "category_cache_total",
			Help:      "Category cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var registerOnce sync.Once

// Register registers the pipeline metrics with the default registry. Safe to call repeatedly.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			LLMRequestsTotal,
			LLMRequestDuration,
			LLMTokensTotal,
			LLMErrorsTotal,
			SearchRequestsTotal,
			SearchRequestDuration,
			CategorizationsTotal,
			CategoryCacheTotal,
			httpRequestDuration,
			httpRequestsTotal,
			httpInFlight,
		)
	})
}

// ObserveSearch records one search service call.
func ObserveSearch(operation string, seconds float64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	SearchRequestsTotal.WithLabelValues(operation, status).Inc()
	SearchRequestDuration.WithLabelValues(operation).Observe(seconds)
}
