package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Proxy metrics for production monitoring
var (
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cineseek_cache_hits_total",
			Help: "Disk cache hits per logical operation",
		},
		[]string{"operation"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cineseek_cache_misses_total",
			Help: "Disk cache misses per logical operation",
		},
		[]string{"operation"},
	)

	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cineseek_upstream_requests_total",
			Help: "Upstream OMDb calls by final outcome",
		},
		[]string{"outcome"}, // ok / not_found / error
	)

	UpstreamRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cineseek_upstream_retries_total",
			Help: "Upstream attempts beyond the first, across all calls",
		},
	)

	UpstreamDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cineseek_upstream_duration_seconds",
			Help:    "Upstream call duration including retries",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
	)
)
