// Package metrics provides the centralized Prometheus metrics registry for the calculator.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "foodclub"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	CalculationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "calculations_total",
		Help:      "Total number of round calculations by model and status",
	}, []string{"model", "status"})
	SanitizedValuesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sanitized_values_total",
		Help:      "Total number of input values clamped or ignored by field",
	}, []string{"field"})
	SimulationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "simulations_total",
		Help:      "Total number of Monte Carlo simulations run",
	})
)

// Gauge metrics
var (
	CurrentRound = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "current_round",
		Help:      "Most recently calculated round number",
	})
	ActiveBets = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_bets",
		Help:      "Number of active bet lines in the last calculation",
	})
	ExpectedReturn = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "expected_return_ratio",
		Help:      "Summed expected ratio of the active bet set",
	})
)

// Histogram metrics
var (
	CalculationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "calculation_duration_seconds",
		Help:      "Duration of calculation stages in seconds",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	}, []string{"stage"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register calculation metrics
		registry.MustRegister(CalculationsTotal)
		registry.MustRegister(SanitizedValuesTotal)
		registry.MustRegister(SimulationsTotal)
		registry.MustRegister(CurrentRound)
		registry.MustRegister(ActiveBets)
		registry.MustRegister(ExpectedReturn)
		registry.MustRegister(CalculationDuration)

		// Register cache metrics
		registry.MustRegister(CacheRequestsTotal)
		registry.MustRegister(CacheInvalidationsTotal)
		registry.MustRegister(CacheHitRatio)
		registry.MustRegister(CacheItems)

		// Register round source metrics
		registry.MustRegister(RoundFetchesTotal)
		registry.MustRegister(RoundFetchLatency)
		registry.MustRegister(CircuitBreakerTripsTotal)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// WriteTextfile writes the registry in the node-exporter textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, GetRegistry())
}

// RecordCalculation records a finished calculation.
// status should be one of: "success", "not_calculated"
func RecordCalculation(model, status string, durationSeconds float64) {
	CalculationsTotal.WithLabelValues(model, status).Inc()
	CalculationDuration.WithLabelValues("total").Observe(durationSeconds)
}

// RecordStage records the duration of one calculation stage.
// stage should be one of: "probs", "bets", "payout", "all"
func RecordStage(stage string, durationSeconds float64) {
	CalculationDuration.WithLabelValues(stage).Observe(durationSeconds)
}

// RecordSanitized records an input value clamped or ignored.
func RecordSanitized(field string) {
	SanitizedValuesTotal.WithLabelValues(field).Inc()
}

// RecordSimulation records a Monte Carlo run.
func RecordSimulation() {
	SimulationsTotal.Inc()
}

// UpdateRound updates the current round gauge.
func UpdateRound(round int) {
	CurrentRound.Set(float64(round))
}

// UpdateActiveBets updates the active bets gauge.
func UpdateActiveBets(count int) {
	ActiveBets.Set(float64(count))
}

// UpdateExpectedReturn updates the expected return gauge.
func UpdateExpectedReturn(ratio float64) {
	ExpectedReturn.Set(ratio)
}
