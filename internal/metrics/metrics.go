package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resource_hub_http_requests_total",
		Help: "Number of HTTP requests by method, path and status.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "resource_hub_http_request_duration_seconds",
		Help:    "HTTP request latency by method and path.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "resource_hub_cache_hits_total",
		Help: "Tag cache hits.",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "resource_hub_cache_misses_total",
		Help: "Tag cache misses.",
	})

	ViewIncrements = promauto.NewCounter(prometheus.CounterOpts{
		Name: "resource_hub_view_increments_total",
		Help: "Resource view counter increments.",
	})

	NotifyFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "resource_hub_indexer_notify_failures_total",
		Help: "Failed fire-and-forget indexer notifications.",
	})
)
