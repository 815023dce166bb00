// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package geocore

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/geocore-go/internal/metrics"
)

// envelope is the {status, result} wrapper around every API response.
type envelope struct {
	Status  *string         `json:"status"`
	Code    json.RawMessage `json:"code"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// decodeEnvelope unwraps a 200 response body and returns the raw result.
func decodeEnvelope(body []byte) (json.RawMessage, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, invalidResponse(http.StatusOK, "empty response body", nil)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, invalidResponse(http.StatusOK, "malformed JSON envelope", err)
	}

	switch {
	case env.Status == nil:
		return nil, invalidResponse(http.StatusOK, "envelope has no status", nil)
	case *env.Status != "success":
		msg := env.Message
		if msg == "" {
			msg = *env.Status
		}
		return nil, serverError(rawCode(env.Code), msg)
	}
	return env.Result, nil
}

// rawCode renders the envelope code whether the server sent a string or a number.
func rawCode(raw json.RawMessage) string {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// call runs r and returns the unwrapped result.
func (c *Client) call(ctx context.Context, r request) (json.RawMessage, error) {
	resp, err := c.execute(ctx, r)
	if err != nil {
		return nil, err
	}
	result, err := decodeEnvelope(resp.body)
	if err != nil {
		metrics.RecordEnvelopeFailure(kindOf(err).String())
		return nil, err
	}
	return result, nil
}

// fetchOne decodes the result into a single T.
func fetchOne[T any](ctx context.Context, c *Client, r request) (*T, error) {
	result, err := c.call(ctx, r)
	if err != nil {
		return nil, err
	}
	return decodeResult[T](result)
}

func decodeResult[T any](result json.RawMessage) (*T, error) {
	var out T
	if len(result) == 0 || bytes.Equal(result, []byte("null")) {
		return &out, nil
	}
	if err := unmarshalLenient(result, &out); err != nil {
		return nil, invalidResponse(http.StatusOK, "result does not match the expected entity", err)
	}
	return &out, nil
}

// fetchList decodes the result into a slice of T. A non-array result yields
// an empty list, or InvalidServerResponse when the client is strict.
func fetchList[T any](ctx context.Context, c *Client, r request) ([]*T, error) {
	result, err := c.call(ctx, r)
	if err != nil {
		return nil, err
	}
	return decodeList[T](c, r.path, result)
}

func decodeList[T any](c *Client, path string, result json.RawMessage) ([]*T, error) {
	trimmed := bytes.TrimSpace(result)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		metrics.RecordListFallback(serviceLabel(path), c.strictLists)
		if c.strictLists {
			return nil, invalidResponse(http.StatusOK, "expected a JSON array result", nil)
		}
		c.logger.Warn().Str("path", path).Msg("List result is not an array, returning empty list")
		return []*T{}, nil
	}

	out := []*T{}
	if err := unmarshalLenient(trimmed, &out); err != nil {
		return nil, invalidResponse(http.StatusOK, "result array does not match the expected entity", err)
	}
	return out, nil
}
