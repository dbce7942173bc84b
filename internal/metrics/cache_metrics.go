package metrics

import "github.com/prometheus/client_golang/prometheus"

// Cache counter vectors
var (
	CacheRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_requests_total",
		Help:      "Total number of memo cache lookups by result",
	}, []string{"result"})
	CacheInvalidationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_invalidations_total",
		Help:      "Total number of cache entries removed by prefix invalidation",
	})
)

// Cache gauges
var (
	CacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_hit_ratio",
		Help:      "Memo cache hit ratio since the last clear",
	})
	CacheItems = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_items",
		Help:      "Number of entries held by the memo cache",
	})
)

// RecordCacheHit records a memo cache hit.
func RecordCacheHit() {
	CacheRequestsTotal.WithLabelValues("hit").Inc()
}

// RecordCacheMiss records a memo cache miss.
func RecordCacheMiss() {
	CacheRequestsTotal.WithLabelValues("miss").Inc()
}

// RecordCacheInvalidation records entries removed by an invalidation.
func RecordCacheInvalidation(removed int) {
	CacheInvalidationsTotal.Add(float64(removed))
}

// UpdateCacheStats updates the hit ratio and size gauges.
func UpdateCacheStats(ratio float64, items int) {
	CacheHitRatio.Set(ratio)
	CacheItems.Set(float64(items))
}
