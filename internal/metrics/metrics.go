// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package metrics

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

var (
	// Client request metrics
	ClientRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocore_client_requests_total",
			Help: "Total number of requests issued to the Geocore API",
		},
		[]string{"method", "service", "status"},
	)

	ClientRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geocore_client_request_duration_seconds",
			Help:    "Geocore API request latency in seconds",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "service"},
	)

	ClientRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "geocore_client_requests_in_flight",
			Help: "Number of Geocore API requests currently in flight",
		},
	)

	// EnvelopeFailures counts responses that did not map to a success value.
	EnvelopeFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocore_client_envelope_failures_total",
			Help: "Total number of failed Geocore responses by error kind",
		},
		[]string{"kind"},
	)

	// ListFallbacks counts list responses whose result was not an array.
	ListFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocore_client_list_fallbacks_total",
			Help: "Total number of list responses that were not JSON arrays",
		},
		[]string{"service", "strict"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "geocore_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocore_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "geocore_circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocore_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Rate limiter metrics
	RateLimiterWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "geocore_client_rate_limiter_wait_seconds",
			Help:    "Time spent waiting on the client-side rate limiter",
			Buckets: []float64{.001, .01, .05, .1, .5, 1, 5},
		},
	)

	// Token cache metrics
	TokenCacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocore_token_cache_operations_total",
			Help: "Total number of token cache operations",
		},
		[]string{"operation", "result"},
	)
)

// RecordClientRequest records a completed Geocore API request.
// statusCode 0 means the request never produced an HTTP response.
func RecordClientRequest(method, service string, statusCode int, duration time.Duration) {
	status := "transport_error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	ClientRequestsTotal.WithLabelValues(method, service, status).Inc()
	ClientRequestDuration.WithLabelValues(method, service).Observe(duration.Seconds())
}

// TrackInFlight increments or decrements the in-flight request gauge.
func TrackInFlight(inc bool) {
	if inc {
		ClientRequestsInFlight.Inc()
	} else {
		ClientRequestsInFlight.Dec()
	}
}

// RecordEnvelopeFailure records a failed response by error kind.
func RecordEnvelopeFailure(kind string) {
	EnvelopeFailures.WithLabelValues(kind).Inc()
}

// RecordListFallback records a list response whose result was not an array.
func RecordListFallback(service string, strict bool) {
	ListFallbacks.WithLabelValues(service, strconv.FormatBool(strict)).Inc()
}

// RecordTokenCache records a token cache operation.
func RecordTokenCache(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	TokenCacheOperations.WithLabelValues(operation, result).Inc()
}

// WriteText gathers every registered metric and writes it to w in the
// Prometheus text exposition format.
func WriteText(w io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
