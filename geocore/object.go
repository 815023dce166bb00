// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package geocore

import (
	"github.com/goccy/go-json"
)

// Object is the base record shared by every Geocore entity.
//
// Optional fields are pointers, so a field the server did not send stays
// nil and is omitted again on save.
type Object struct {
	// SID is the internal numeric id assigned by the server. An Object
	// without one is unsaved.
	SID         *int64             `json:"sid,omitempty"`
	ID          string             `json:"id,omitempty"`
	Name        *string            `json:"name,omitempty"`
	Description *string            `json:"description,omitempty"`
	CreateTime  *Time              `json:"createTime,omitempty"`
	UpdateTime  *Time              `json:"updateTime,omitempty"`
	Upvotes     *int64             `json:"upvotes,omitempty"`
	Downvotes   *int64             `json:"downvotes,omitempty"`
	CustomData  map[string]*string `json:"customData,omitempty"`
	JSONData    json.RawMessage    `json:"jsonData,omitempty"`
}

// Entity is implemented by every type embedding Object.
type Entity interface {
	object() *Object
}

func (o *Object) object() *Object {
	return o
}

// IsSaved reports whether the server has assigned an internal id.
func (o *Object) IsSaved() bool {
	return o.SID != nil
}

// SetCustomData sets a custom data value. A nil value is kept as an
// explicit null, which the server treats as removal.
func (o *Object) SetCustomData(key string, value *string) {
	if o.CustomData == nil {
		o.CustomData = make(map[string]*string)
	}
	o.CustomData[key] = value
}

// CustomValue returns the custom data value for key and whether it is set.
func (o *Object) CustomValue(key string) (string, bool) {
	v, ok := o.CustomData[key]
	if !ok || v == nil {
		return "", false
	}
	return *v, true
}

// Point is a WGS84 coordinate. Either coordinate may be absent in what
// the server sends.
type Point struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// NewPoint returns a point with both coordinates set.
func NewPoint(latitude, longitude float64) *Point {
	return &Point{Latitude: &latitude, Longitude: &longitude}
}

// BinaryDataInfo describes a binary attachment stored under an object.
type BinaryDataInfo struct {
	Key           string `json:"key,omitempty"`
	URL           string `json:"url,omitempty"`
	ContentLength *int64 `json:"contentLength,omitempty"`
	ContentType   string `json:"contentType,omitempty"`
	LastModified  *Time  `json:"lastModified,omitempty"`
}

// String returns a pointer to s, for optional entity fields.
func String(s string) *string {
	return &s
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 {
	return &v
}

// Float64 returns a pointer to v.
func Float64(v float64) *float64 {
	return &v
}

// Deref returns *p, or the zero value when p is nil.
func Deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
