// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storageOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flipbook_storage_operations_total",
		Help: "Key-value store operations by backend, operation and outcome",
	}, []string{"backend", "op", "outcome"}) // outcome=ok|not_found|error

	storageLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "flipbook_storage_operation_duration_seconds",
		Help:    "Key-value store operation latency",
		Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
	}, []string{"backend", "op"})

	configReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flipbook_config_reloads_total",
		Help: "Configuration hot reloads by outcome",
	}, []string{"outcome"}) // outcome=success|failure

	configValidationErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flipbook_config_validation_errors_total",
		Help: "Total number of configuration validation errors",
	})
)

// RecordStorageOp records the outcome and latency of one store call.
func RecordStorageOp(backend, op, outcome string, d time.Duration) {
	storageOps.WithLabelValues(backend, op, outcome).Inc()
	storageLatency.WithLabelValues(backend, op).Observe(d.Seconds())
}

func IncConfigReload(outcome string) { configReloads.WithLabelValues(outcome).Inc() }
func IncConfigValidationError()      { configValidationErrors.Inc() }

var (
	breakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "flipbook_circuit_breaker_state",
		Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
	}, []string{"name"})

	breakerTrips = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flipbook_circuit_breaker_trips_total",
		Help: "Circuit breaker transitions to open by reason",
	}, []string{"name", "reason"})
)

// SetCircuitBreakerState publishes the named breaker's state.
func SetCircuitBreakerState(name, state string) {
	v := 0.0
	switch state {
	case "half-open":
		v = 1
	case "open":
		v = 2
	}
	breakerState.WithLabelValues(name).Set(v)
}

func RecordCircuitBreakerTrip(name, reason string) {
	breakerTrips.WithLabelValues(name, reason).Inc()
}
