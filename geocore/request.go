// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package geocore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/geocore-go/internal/logging"
	"github.com/tomtom215/geocore-go/internal/metrics"
)

// maxResponseBodySize caps how much of a response is read into memory.
const maxResponseBodySize = 32 << 20

// request describes one API call before it is turned into an *http.Request.
type request struct {
	method string
	path   string
	params Params

	// body is JSON-encoded as the request body when set.
	body any

	// raw, when set, is sent verbatim with contentType instead of JSON.
	raw         []byte
	contentType string

	noAuth bool
}

// rawResponse is what survives the HTTP exchange: status and full body.
type rawResponse struct {
	statusCode int
	body       []byte
}

// buildHTTPRequest applies the header and parameter placement policy.
//
// GET, HEAD and DELETE put params in the query string. POST and PUT send
// params as the JSON body, unless a body is also supplied, in which case
// params move to the query string and the body is encoded separately.
func (c *Client) buildHTTPRequest(ctx context.Context, r request) (*http.Request, error) {
	fullURL, err := c.ResolvePath(r.path)
	if err != nil {
		return nil, err
	}

	var (
		query   string
		payload []byte
		ctype   string
	)

	switch r.method {
	case http.MethodGet, http.MethodHead, http.MethodDelete:
		query = encodeQuery(r.params)
	default:
		switch {
		case r.raw != nil:
			query = encodeQuery(r.params)
			payload, ctype = r.raw, r.contentType
		case r.body != nil:
			query = encodeQuery(r.params)
			if payload, err = json.Marshal(r.body); err != nil {
				return nil, invalidParameter(fmt.Sprintf("encode request body: %v", err))
			}
			ctype = "application/json"
		case len(r.params) > 0:
			if payload, err = json.Marshal(r.params); err != nil {
				return nil, invalidParameter(fmt.Sprintf("encode request parameters: %v", err))
			}
			ctype = "application/json"
		}
	}

	if query != "" {
		fullURL += "?" + query
	}

	var bodyReader io.Reader = http.NoBody
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, fullURL, bodyReader)
	if err != nil {
		return nil, invalidParameter(fmt.Sprintf("create request: %v", err))
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if ctype != "" {
		req.Header.Set("Content-Type", ctype)
	}
	if !r.noAuth {
		if token := c.Token(); token != "" {
			req.Header.Set(AccessTokenHeader, token)
		}
	}

	return req, nil
}

// execute sends r and returns the raw response, mapping HTTP-level
// failures (transport, 403, non-200) to *Error. Exactly one HTTP request is
// made; there are no retries.
func (c *Client) execute(ctx context.Context, r request) (*rawResponse, error) {
	if logging.RequestIDFromContext(ctx) == "" {
		ctx = logging.ContextWithRequestID(ctx, logging.GenerateRequestID())
	}
	log := logging.Ctx(ctx, c.logger)

	req, err := c.buildHTTPRequest(ctx, r)
	if err != nil {
		return nil, err
	}

	if c.limiter != nil {
		waitStart := time.Now()
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, transportError(fmt.Errorf("rate limiter: %w", err))
		}
		metrics.RateLimiterWait.Observe(time.Since(waitStart).Seconds())
	}

	service := serviceLabel(r.path)
	start := time.Now()
	metrics.TrackInFlight(true)
	defer metrics.TrackInFlight(false)

	var resp *rawResponse
	if c.breaker != nil {
		resp, err = c.breaker.execute(func() (*rawResponse, error) {
			return c.exchange(req)
		})
	} else {
		resp, err = c.exchange(req)
	}

	statusCode := 0
	if resp != nil {
		statusCode = resp.statusCode
	}
	metrics.RecordClientRequest(r.method, service, statusCode, time.Since(start))

	log.Debug().
		Str("method", r.method).
		Str("path", r.path).
		Int("status", statusCode).
		Dur("duration", time.Since(start)).
		Msg("Geocore request")

	if err != nil {
		log.Warn().Err(err).Str("method", r.method).Str("path", r.path).Msg("Geocore request failed")
		return resp, err
	}
	return resp, nil
}

// exchange performs the HTTP round trip and classifies the status code.
// The response is returned even when the status is an error so callers can
// log it.
func (c *Client) exchange(req *http.Request) (*rawResponse, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, transportError(fmt.Errorf("read response body: %w", err))
	}

	raw := &rawResponse{statusCode: resp.StatusCode, body: body}
	switch resp.StatusCode {
	case http.StatusOK:
		return raw, nil
	case http.StatusForbidden:
		return raw, unauthorized(bodySnippet(body))
	default:
		return raw, invalidResponse(resp.StatusCode, "unexpected HTTP status", nil)
	}
}

// bodySnippet returns a short printable prefix of an error body.
func bodySnippet(body []byte) string {
	const limit = 256
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "... (truncated)"
	}
	return s
}

// serviceLabel returns the first path segment, e.g. "places" for
// "/places/PLA-1/events".
func serviceLabel(path string) string {
	path = strings.TrimLeft(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "root"
	}
	return path
}
