// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package geocore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/geocore-go/internal/config"
	"github.com/tomtom215/geocore-go/internal/geocoretest"
	"github.com/tomtom215/geocore-go/internal/metrics"
)

func testBreaker(name string) Option {
	return WithCircuitBreaker(BreakerSettings{
		Name:         name,
		MaxRequests:  1,
		Timeout:      time.Minute,
		MinRequests:  2,
		FailureRatio: 0.5,
	})
}

func TestCircuitBreaker_OpensOnServerFailures(t *testing.T) {
	t.Parallel()

	name := "test-breaker-open"
	c, hits := newFixedClient(t, 500, `{}`, testBreaker(name))
	ctx := context.Background()

	if got := c.BreakerState(); got != "closed" {
		t.Fatalf("initial state = %q", got)
	}
	for i := 0; i < 2; i++ {
		_, err := c.Places().All(ctx)
		requireKind(t, err, ErrInvalidServerResponse)
	}

	_, err := c.Places().All(ctx)
	requireKind(t, err, ErrTransport)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected the cause to be ErrOpenState, got %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("server hit %d times, want 2", hits.Load())
	}
	if got := c.BreakerState(); got != "open" {
		t.Errorf("state = %q, want open", got)
	}

	if got := testutil.ToFloat64(metrics.CircuitBreakerRequests.WithLabelValues(name, "rejected")); got != 1 {
		t.Errorf("rejected = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues(name)); got != 2 {
		t.Errorf("state gauge = %v, want 2", got)
	}
}

func TestCircuitBreaker_IgnoresApplicationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"forbidden", 403, `denied`, ErrUnauthorizedAccess},
		{"error envelope", 200, `{"status":"error","code":"Request.0004"}`, ErrServerError},
		{"not found", 404, ``, ErrInvalidServerResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, hits := newFixedClient(t, tt.status, tt.body, testBreaker("test-breaker-"+tt.name))
			for i := 0; i < 5; i++ {
				_, err := c.Places().WithID("PLA-1").Get(context.Background())
				requireKind(t, err, tt.want)
			}
			if hits.Load() != 5 {
				t.Errorf("server hit %d times, want 5", hits.Load())
			}
			if got := c.BreakerState(); got != "closed" {
				t.Errorf("state = %q, want closed", got)
			}
		})
	}
}

func TestIsBreakerSuccess(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want bool
	}{
		{nil, true},
		{errors.New("plain"), false},
		{transportError(errors.New("dial")), false},
		{invalidResponse(502, "bad gateway", nil), false},
		{invalidResponse(404, "not found", nil), true},
		{invalidResponse(200, "no status", nil), true},
		{unauthorized("denied"), true},
		{serverError("X", "failed"), true},
		{fmt.Errorf("wrapped: %w", transportError(errors.New("reset"))), false},
	}
	for _, tt := range tests {
		if got := isBreakerSuccess(tt.err); got != tt.want {
			t.Errorf("isBreakerSuccess(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestBreakerState_Disabled(t *testing.T) {
	t.Parallel()

	if got := New().BreakerState(); got != "disabled" {
		t.Errorf("BreakerState() = %q, want disabled", got)
	}
}

func TestRateLimit_HonoursContext(t *testing.T) {
	t.Parallel()

	c, hits := newFixedClient(t, 200, `{"status":"success","result":[]}`, WithRateLimit(0.001, 1))

	if _, err := c.Tags().All(context.Background()); err != nil {
		t.Fatalf("first call error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Tags().All(ctx)
	requireKind(t, err, ErrTransport)
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	srv := geocoretest.New(t)
	cfg := &config.Config{
		Geocore: config.GeocoreConfig{
			BaseURL:     srv.URL + "/",
			ProjectID:   geocoretest.ProjectID,
			UserAgent:   "geocore-config-test",
			Timeout:     5 * time.Second,
			StrictLists: true,
		},
		Breaker: config.BreakerConfig{
			Enabled:      true,
			MaxRequests:  1,
			Interval:     time.Minute,
			Timeout:      time.Minute,
			MinRequests:  10,
			FailureRatio: 0.6,
		},
		RateLimit: config.RateLimitConfig{Enabled: true, RequestsPerSecond: 100, Burst: 10},
	}

	c := NewFromConfig(cfg)
	if c.BaseURL() != srv.URL || c.ProjectID() != geocoretest.ProjectID {
		t.Errorf("BaseURL() = %q, ProjectID() = %q", c.BaseURL(), c.ProjectID())
	}
	if c.BreakerState() != "closed" {
		t.Errorf("BreakerState() = %q", c.BreakerState())
	}
	if c.httpClient.Timeout != 5*time.Second || !c.strictLists || c.limiter == nil {
		t.Errorf("client = timeout %v, strict %v, limiter %v", c.httpClient.Timeout, c.strictLists, c.limiter)
	}

	if _, err := c.Login(context.Background(), geocoretest.UserID, geocoretest.Password); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if got := srv.LastRequest().Header.Get("User-Agent"); got != "geocore-config-test" {
		t.Errorf("User-Agent = %q", got)
	}
}

func TestClient_ConcurrentUse(t *testing.T) {
	t.Parallel()

	c, srv := newAuthedClient(t)
	srv.Seed("tags", geocoretest.Record{"name": "shared"})
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			tags, err := c.Tags().All(ctx)
			if err == nil && len(tags) != 1 {
				err = fmt.Errorf("got %d tags", len(tags))
			}
			errs <- err
		}()
		go func() {
			defer wg.Done()
			c.SetToken(geocoretest.UserID, srv.IssueToken(geocoretest.UserID))
			errs <- nil
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Error(err)
		}
	}
}
