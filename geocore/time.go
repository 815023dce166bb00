// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package geocore

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

// TimeLayout is the textual timestamp format used across the Geocore API.
// Timestamps are always UTC.
const TimeLayout = "2006/01/02 15:04:05"

// Time is a timestamp that encodes as a TimeLayout string.
type Time struct {
	time.Time
}

// NewTime returns a *Time for use in entity fields.
func NewTime(t time.Time) *Time {
	return &Time{Time: t.UTC()}
}

// ParseTime parses a TimeLayout string, falling back to RFC 3339.
func ParseTime(s string) (Time, error) {
	if t, err := time.ParseInLocation(TimeLayout, s, time.UTC); err == nil {
		return Time{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Time{}, fmt.Errorf("parse geocore time %q: %w", s, err)
	}
	return Time{Time: t.UTC()}, nil
}

// String formats the time with TimeLayout.
func (t Time) String() string {
	return t.UTC().Format(TimeLayout)
}

// MarshalJSON implements json.Marshaler.
func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.String())), nil
}

// UnmarshalJSON implements json.Unmarshaler. It accepts a TimeLayout or
// RFC 3339 string, or Unix milliseconds. null leaves t unchanged.
func (t *Time) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if ms, err := strconv.ParseInt(string(data), 10, 64); err == nil {
		*t = Time{Time: FromUnixMillis(ms)}
		return nil
	}
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("geocore time must be a string or Unix milliseconds: %w", err)
	}
	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// UnixMillis converts t to Unix milliseconds, the numeric form used by
// feeds and checkins.
func UnixMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromUnixMillis converts Unix milliseconds to a UTC time.Time.
func FromUnixMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
