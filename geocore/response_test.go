// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package geocore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/geocore-go/internal/metrics"
)

func TestEnvelopeMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		want       error
		wantCode   string
		wantMsg    string
		wantStatus int
	}{
		{name: "success", status: 200, body: `{"status":"success","result":{"id":"PLA-1","sid":7}}`},
		{
			name: "server error with string code", status: 200,
			body: `{"status":"error","code":"Auth.0001","message":"bad credentials"}`,
			want: ErrServerError, wantCode: "Auth.0001", wantMsg: "bad credentials", wantStatus: 200,
		},
		{
			name: "server error with numeric code", status: 200,
			body: `{"status":"failure","code":404,"message":"missing"}`,
			want: ErrServerError, wantCode: "404", wantMsg: "missing", wantStatus: 200,
		},
		{name: "missing status", status: 200, body: `{"result":{"id":"PLA-1"}}`, want: ErrInvalidServerResponse, wantStatus: 200},
		{name: "empty body", status: 200, body: ``, want: ErrInvalidServerResponse, wantStatus: 200},
		{name: "malformed JSON", status: 200, body: `{"status":`, want: ErrInvalidServerResponse, wantStatus: 200},
		{name: "result of the wrong shape", status: 200, body: `{"status":"success","result":"nope"}`, want: ErrInvalidServerResponse, wantStatus: 200},
		{name: "forbidden", status: 403, body: `denied`, want: ErrUnauthorizedAccess, wantStatus: 403},
		{name: "not found", status: 404, body: `{}`, want: ErrInvalidServerResponse, wantStatus: 404},
		{name: "server failure", status: 502, body: `{"status":"success","result":{}}`, want: ErrInvalidServerResponse, wantStatus: 502},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, hits := newFixedClient(t, tt.status, tt.body)
			place, err := c.Places().WithID("PLA-1").Get(context.Background())

			if hits.Load() != 1 {
				t.Errorf("server hit %d times, want exactly 1", hits.Load())
			}
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Get() error = %v", err)
				}
				if place.ID != "PLA-1" || Deref(place.SID) != 7 {
					t.Errorf("place = %+v", place)
				}
				return
			}

			gerr := requireKind(t, err, tt.want)
			if gerr.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", gerr.Code, tt.wantCode)
			}
			if tt.wantMsg != "" && gerr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", gerr.Message, tt.wantMsg)
			}
			if gerr.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", gerr.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(WithLogger(zerolog.Nop())).Setup(url, "PRO-TEST")
	_, err := c.Places().All(context.Background())
	requireKind(t, err, ErrTransport)
}

func TestContextCancellation(t *testing.T) {
	t.Parallel()

	c, _ := newFixedClient(t, 200, `{"status":"success","result":[]}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Places().All(ctx)
	requireKind(t, err, ErrTransport)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected the cause to be context.Canceled, got %v", err)
	}
}

func TestListResults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantLen int
	}{
		{"array", `{"status":"success","result":[{"id":"EVE-1"},{"id":"EVE-2"}]}`, 2},
		{"empty array", `{"status":"success","result":[]}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, _ := newFixedClient(t, 200, tt.body)
			events, err := c.Events().All(context.Background())
			if err != nil {
				t.Fatalf("All() error = %v", err)
			}
			if len(events) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(events), tt.wantLen)
			}
		})
	}
}

// The fallback tests read global counters, so they do not run in parallel.

func TestListFallback_Lenient(t *testing.T) {
	counter := metrics.ListFallbacks.WithLabelValues("items", "false")
	before := testutil.ToFloat64(counter)

	c, _ := newFixedClient(t, 200, `{"status":"success","result":{"id":"ITE-1"}}`)
	items, err := c.Items().All(context.Background())
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("items = %v, want empty non-nil slice", items)
	}
	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Errorf("list fallbacks = %v, want %v", got, before+1)
	}
}

func TestListFallback_Strict(t *testing.T) {
	counter := metrics.ListFallbacks.WithLabelValues("items", "true")
	before := testutil.ToFloat64(counter)

	c, _ := newFixedClient(t, 200, `{"status":"success","result":null}`, WithStrictLists(true))
	_, err := c.Items().All(context.Background())
	requireKind(t, err, ErrInvalidServerResponse)

	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Errorf("list fallbacks = %v, want %v", got, before+1)
	}
}

func TestRequestMetrics(t *testing.T) {
	ok := metrics.ClientRequestsTotal.WithLabelValues("GET", "tags", "200")
	forbidden := metrics.ClientRequestsTotal.WithLabelValues("GET", "tags", "403")
	envelope := metrics.EnvelopeFailures.WithLabelValues("server_error")
	unauthorized := metrics.EnvelopeFailures.WithLabelValues(KindUnauthorizedAccess.String())
	transport := metrics.EnvelopeFailures.WithLabelValues(KindTransport.String())
	okBefore, forbiddenBefore, envBefore := testutil.ToFloat64(ok), testutil.ToFloat64(forbidden), testutil.ToFloat64(envelope)
	unauthorizedBefore, transportBefore := testutil.ToFloat64(unauthorized), testutil.ToFloat64(transport)

	c, srv := newAuthedClient(t)
	if _, err := c.Tags().All(context.Background()); err != nil {
		t.Fatalf("All() error = %v", err)
	}
	c.ClearToken()
	if _, err := c.Tags().All(context.Background()); !errors.Is(err, ErrUnauthorizedAccess) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	srv.Stub(http.MethodGet, "/tags/TAG-9", 200, `{"status":"error","code":"X"}`)
	c.SetToken("USE-TEST-alice", srv.IssueToken("USE-TEST-alice"))
	if _, err := c.Tags().WithID("TAG-9").Get(context.Background()); !errors.Is(err, ErrServerError) {
		t.Fatalf("expected server error, got %v", err)
	}

	if got := testutil.ToFloat64(ok); got != okBefore+2 {
		t.Errorf("200 requests = %v, want %v", got, okBefore+2)
	}
	if got := testutil.ToFloat64(forbidden); got != forbiddenBefore+1 {
		t.Errorf("403 requests = %v, want %v", got, forbiddenBefore+1)
	}
	if got := testutil.ToFloat64(envelope); got != envBefore+1 {
		t.Errorf("envelope failures = %v, want %v", got, envBefore+1)
	}

	// A 403 and a dead server are not envelope failures.
	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()
	dead := New(WithLogger(zerolog.Nop())).Setup(closed.URL, "PRO-TEST")
	if _, err := dead.Tags().All(context.Background()); !errors.Is(err, ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if got := testutil.ToFloat64(unauthorized); got != unauthorizedBefore {
		t.Errorf("unauthorized envelope failures = %v, want %v", got, unauthorizedBefore)
	}
	if got := testutil.ToFloat64(transport); got != transportBefore {
		t.Errorf("transport envelope failures = %v, want %v", got, transportBefore)
	}
}

func TestRawCode(t *testing.T) {
	t.Parallel()

	for raw, want := range map[string]string{
		``:      "",
		`null`:  "",
		`"E.1"`: "E.1",
		`42`:    "42",
		` 7 `:   "7",
	} {
		if got := rawCode([]byte(raw)); got != want {
			t.Errorf("rawCode(%q) = %q, want %q", raw, got, want)
		}
	}
}
