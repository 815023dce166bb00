// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package geocore

import (
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/geocore-go/internal/logging"
	"github.com/tomtom215/geocore-go/internal/metrics"
)

// BreakerSettings configures the client-side circuit breaker.
// Zero values fall back to the defaults noted on each field.
type BreakerSettings struct {
	// Name labels log lines and metrics. Default: "geocore-api"
	Name string

	// MaxRequests is the number of probes allowed while half-open. Default: 3
	MaxRequests uint32

	// Interval resets the counts while closed. Default: 1m
	Interval time.Duration

	// Timeout is how long the breaker stays open. Default: 2m
	Timeout time.Duration

	// MinRequests must be reached before FailureRatio is evaluated. Default: 10
	MinRequests uint32

	// FailureRatio opens the breaker. Default: 0.6
	FailureRatio float64
}

// circuitBreaker wraps HTTP exchanges. Only transport failures and 5xx
// responses count as failures; 403 and error envelopes are the server
// working as intended.
type circuitBreaker struct {
	cb   *gobreaker.CircuitBreaker[*rawResponse]
	name string
}

func newCircuitBreaker(s BreakerSettings) *circuitBreaker {
	if s.Name == "" {
		s.Name = "geocore-api"
	}
	if s.MaxRequests == 0 {
		s.MaxRequests = 3
	}
	if s.Interval == 0 {
		s.Interval = time.Minute
	}
	if s.Timeout == 0 {
		s.Timeout = 2 * time.Minute
	}
	if s.MinRequests == 0 {
		s.MinRequests = 10
	}
	if s.FailureRatio <= 0 {
		s.FailureRatio = 0.6
	}

	metrics.CircuitBreakerState.WithLabelValues(s.Name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(s.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[*rawResponse](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= s.FailureRatio
			if shouldTrip {
				logging.Warn().Str("breaker", s.Name).Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},

		IsSuccessful: isBreakerSuccess,
	})

	return &circuitBreaker{cb: cb, name: s.Name}
}

// isBreakerSuccess reports whether err leaves the upstream looking healthy.
func isBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	var gerr *Error
	if !errors.As(err, &gerr) {
		return false
	}
	switch gerr.Kind {
	case KindTransport:
		return false
	case KindInvalidServerResponse:
		return gerr.StatusCode < 500
	default:
		return true
	}
}

// execute runs fn under the breaker. Rejections surface as transport errors.
func (b *circuitBreaker) execute(fn func() (*rawResponse, error)) (*rawResponse, error) {
	result, err := b.cb.Execute(fn)

	switch {
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		logging.Warn().Err(err).Str("breaker", b.name).Msg("[CIRCUIT BREAKER] Request rejected")
		return nil, transportError(fmt.Errorf("circuit breaker %s: %w", b.name, err))
	case !isBreakerSuccess(err):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(b.cb.Counts().ConsecutiveFailures))
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	}
	return result, err
}

// State returns the breaker state as "closed", "half-open" or "open".
func (b *circuitBreaker) State() string {
	return stateToString(b.cb.State())
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// BreakerState returns the circuit breaker state, or "disabled".
func (c *Client) BreakerState() string {
	if c.breaker == nil {
		return "disabled"
	}
	return c.breaker.State()
}
