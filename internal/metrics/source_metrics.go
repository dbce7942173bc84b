package metrics

import "github.com/prometheus/client_golang/prometheus"

// Round source metrics
var (
	RoundFetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "round_fetches_total",
		Help:      "Total number of round data fetches by source and status",
	}, []string{"source", "status"})
	RoundFetchLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "round_fetch_latency_seconds",
		Help:      "Latency of round data fetches in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})
	CircuitBreakerTripsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of round source circuit breaker trips",
	})
)

// RecordRoundFetch records a round data fetch.
// status should be one of: "success", "cached", "failure"
func RecordRoundFetch(source, status string, durationSeconds float64) {
	RoundFetchesTotal.WithLabelValues(source, status).Inc()
	if status != "cached" {
		RoundFetchLatency.WithLabelValues(source).Observe(durationSeconds)
	}
}

// RecordCircuitBreakerTrip records a circuit breaker trip event.
func RecordCircuitBreakerTrip() {
	CircuitBreakerTripsTotal.Inc()
}
