// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package geocore

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestBuildHTTPRequest_Placement(t *testing.T) {
	t.Parallel()

	type entity struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name      string
		req       request
		wantQuery string
		wantBody  string
		wantCType string
	}{
		{
			name:      "GET params in query",
			req:       request{method: http.MethodGet, path: "/places/search/nearest", params: Params{"lon": 2, "lat": 1.5}},
			wantQuery: "lat=1.5&lon=2",
		},
		{
			name:      "DELETE params in query",
			req:       request{method: http.MethodDelete, path: "/places/PLA-1", params: Params{"force": true}},
			wantQuery: "force=true",
		},
		{
			name:      "POST params only become the body",
			req:       request{method: http.MethodPost, path: "/auth", params: Params{"id": "u"}},
			wantBody:  `{"id":"u"}`,
			wantCType: "application/json",
		},
		{
			name:      "POST params with body go to query",
			req:       request{method: http.MethodPost, path: "/places", params: Params{"tag_ids": "TAG-1"}, body: entity{Name: "x"}},
			wantQuery: "tag_ids=TAG-1",
			wantBody:  `{"name":"x"}`,
			wantCType: "application/json",
		},
		{
			name: "POST with neither",
			req:  request{method: http.MethodPost, path: "/places"},
		},
		{
			name:      "raw body keeps its content type",
			req:       request{method: http.MethodPost, path: "/objs/X/bins/k", raw: []byte("abc"), contentType: "text/plain", params: Params{"a": "b"}},
			wantQuery: "a=b",
			wantBody:  "abc",
			wantCType: "text/plain",
		},
	}

	c := New().Setup("https://api.example.com/", "PRO-TEST")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req, err := c.buildHTTPRequest(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("buildHTTPRequest() error = %v", err)
			}
			if req.URL.RawQuery != tt.wantQuery {
				t.Errorf("query = %q, want %q", req.URL.RawQuery, tt.wantQuery)
			}
			body, _ := io.ReadAll(req.Body)
			if string(body) != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
			if got := req.Header.Get("Content-Type"); got != tt.wantCType {
				t.Errorf("Content-Type = %q, want %q", got, tt.wantCType)
			}
			if got := req.Header.Get("Accept"); got != "application/json" {
				t.Errorf("Accept = %q", got)
			}
		})
	}
}

func TestBuildHTTPRequest_URLJoin(t *testing.T) {
	t.Parallel()

	c := New().Setup("https://api.example.com/v1/", "PRO-TEST")
	req, err := c.buildHTTPRequest(context.Background(), request{method: http.MethodGet, path: "/places/PLA-1"})
	if err != nil {
		t.Fatal(err)
	}
	if got := req.URL.String(); got != "https://api.example.com/v1/places/PLA-1" {
		t.Errorf("URL = %q", got)
	}
}

func TestBuildHTTPRequest_TokenHeader(t *testing.T) {
	t.Parallel()

	c := New(WithUserAgent("geocore-test/1.0")).Setup("https://api.example.com", "PRO-TEST")

	req, err := c.buildHTTPRequest(context.Background(), request{method: http.MethodGet, path: "/places"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := req.Header[AccessTokenHeader]; ok {
		t.Error("token header sent before login")
	}
	if got := req.Header.Get("User-Agent"); got != "geocore-test/1.0" {
		t.Errorf("User-Agent = %q", got)
	}

	c.SetToken("USE-TEST-alice", "tok-1")
	req, _ = c.buildHTTPRequest(context.Background(), request{method: http.MethodGet, path: "/places"})
	if got := req.Header.Get(AccessTokenHeader); got != "tok-1" {
		t.Errorf("token header = %q, want tok-1", got)
	}

	req, _ = c.buildHTTPRequest(context.Background(), request{method: http.MethodPost, path: "/auth", noAuth: true})
	if _, ok := req.Header[AccessTokenHeader]; ok {
		t.Error("token header sent on an unauthenticated request")
	}
}

func TestBuildHTTPRequest_NoBaseURL(t *testing.T) {
	t.Parallel()

	_, err := New().buildHTTPRequest(context.Background(), request{method: http.MethodGet, path: "/places"})
	requireKind(t, err, ErrInvalidState)
}

func TestServiceLabel(t *testing.T) {
	t.Parallel()

	for path, want := range map[string]string{
		"/places/PLA-1/events": "places",
		"auth":                 "auth",
		"/":                    "root",
	} {
		if got := serviceLabel(path); got != want {
			t.Errorf("serviceLabel(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestLogin_SendsCredentialsWithoutToken(t *testing.T) {
	t.Parallel()

	c, srv := newFakeClient(t)
	c.SetToken("someone", "stale-token")

	token, err := c.Login(context.Background(), "USE-TEST-alice", "ecila-TSET-ESU")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token == "" || c.Token() != token {
		t.Errorf("token = %q, client token = %q", token, c.Token())
	}
	if c.UserID() != "USE-TEST-alice" {
		t.Errorf("UserID() = %q", c.UserID())
	}

	req := srv.LastRequest()
	if req.Method != http.MethodPost || req.Path != "/auth" {
		t.Fatalf("request = %s %s", req.Method, req.Path)
	}
	if got := req.Header.Get(AccessTokenHeader); got != "" {
		t.Errorf("login sent token %q", got)
	}
	var body map[string]string
	if err := json.Unmarshal(req.Body, &body); err != nil {
		t.Fatalf("login body: %v", err)
	}
	want := map[string]string{"id": "USE-TEST-alice", "password": "ecila-TSET-ESU", "project_id": "PRO-TEST"}
	for k, v := range want {
		if body[k] != v {
			t.Errorf("body[%s] = %q, want %q", k, body[k], v)
		}
	}
}

func TestTimeout_SurvivesHTTPClientOption(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts func(hc *http.Client) []Option
		want time.Duration
	}{
		{"timeout first", func(hc *http.Client) []Option { return []Option{WithTimeout(2 * time.Second), WithHTTPClient(hc)} }, 2 * time.Second},
		{"timeout last", func(hc *http.Client) []Option { return []Option{WithHTTPClient(hc), WithTimeout(3 * time.Second)} }, 3 * time.Second},
		{"no timeout keeps the caller's", func(hc *http.Client) []Option { return []Option{WithHTTPClient(hc)} }, 7 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			hc := &http.Client{Timeout: 7 * time.Second}
			c := New(tt.opts(hc)...)
			if got := c.httpClient.Timeout; got != tt.want {
				t.Errorf("Timeout = %v, want %v", got, tt.want)
			}
			if hc.Timeout != 7*time.Second {
				t.Errorf("caller's client modified: Timeout = %v", hc.Timeout)
			}
		})
	}

	if got := New().httpClient.Timeout; got != 30*time.Second {
		t.Errorf("default Timeout = %v", got)
	}
}
