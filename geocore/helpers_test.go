// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package geocore

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/geocore-go/internal/geocoretest"
)

// newFakeClient returns a client pointed at a fresh fake API, not logged in.
func newFakeClient(t *testing.T, opts ...Option) (*Client, *geocoretest.Server) {
	t.Helper()
	srv := geocoretest.New(t)
	opts = append([]Option{WithLogger(zerolog.Nop())}, opts...)
	return New(opts...).Setup(srv.URL, geocoretest.ProjectID), srv
}

// newAuthedClient returns a client holding a valid token for the default user.
func newAuthedClient(t *testing.T, opts ...Option) (*Client, *geocoretest.Server) {
	t.Helper()
	c, srv := newFakeClient(t, opts...)
	c.SetToken(geocoretest.UserID, srv.IssueToken(geocoretest.UserID))
	return c, srv
}

// fixedServer answers every request with status and body and counts hits.
func fixedServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newFixedClient(t *testing.T, status int, body string, opts ...Option) (*Client, *atomic.Int64) {
	t.Helper()
	srv, hits := fixedServer(t, status, body)
	opts = append([]Option{WithLogger(zerolog.Nop())}, opts...)
	return New(opts...).Setup(srv.URL, geocoretest.ProjectID), hits
}

func requireKind(t *testing.T, err error, want error) *Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got nil", want)
	}
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *geocore.Error, got %T", err)
	}
	return gerr
}

func requireNoRequests(t *testing.T, srv *geocoretest.Server) {
	t.Helper()
	if n := len(srv.Requests()); n != 0 {
		t.Fatalf("expected no requests, server received %d", n)
	}
}
