// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

/*
Package metrics provides Prometheus instrumentation for the Geocore client.

All collectors are registered with the default registry via promauto, so an
application embedding the client can expose them on its own /metrics
handler. The CLI can dump them after a command with --metrics.

# Available Metrics

Client Metrics:
  - geocore_client_requests_total: requests issued (counter)
    Labels: method, service, status
  - geocore_client_request_duration_seconds: request latency (histogram)
    Labels: method, service
  - geocore_client_requests_in_flight: requests in flight (gauge)
  - geocore_client_envelope_failures_total: failed responses (counter)
    Labels: kind
  - geocore_client_list_fallbacks_total: non-array list results (counter)
    Labels: service, strict
  - geocore_client_rate_limiter_wait_seconds: limiter wait time (histogram)

Circuit Breaker Metrics:
  - geocore_circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - geocore_circuit_breaker_requests_total: by result (counter)
  - geocore_circuit_breaker_consecutive_failures (gauge)
  - geocore_circuit_breaker_state_transitions_total (counter)

Token Cache Metrics:
  - geocore_token_cache_operations_total: by operation and result (counter)

The service label is the first path segment of the request ("places",
"users", "objs"), which keeps its cardinality bounded.
*/
package metrics
