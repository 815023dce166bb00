// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package geocore

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/geocore-go/internal/validation"
)

const placeService = "/places"

// Place is a located, taggable entity.
type Place struct {
	Taggable
	ShortName        *string  `json:"shortName,omitempty"`
	ShortDescription *string  `json:"shortDescription,omitempty"`
	Point            *Point   `json:"point,omitempty"`
	DistanceLimit    *float64 `json:"distanceLimit,omitempty"`
}

// PlaceCheckin records a user being at a place.
//
// The API expects numbers as strings on write and sends them back as
// numbers, so the JSON methods are asymmetric.
type PlaceCheckin struct {
	UserID    string
	PlaceID   string
	Timestamp *int64 // Unix milliseconds
	Latitude  *float64
	Longitude *float64
	Accuracy  *float64
}

type checkinWire struct {
	UserID    string   `json:"userId,omitempty"`
	PlaceID   string   `json:"placeId,omitempty"`
	Timestamp *int64   `json:"timestamp,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
}

// MarshalJSON writes numeric fields as decimal strings. Latitude and
// longitude are written only as a pair.
func (pc PlaceCheckin) MarshalJSON() ([]byte, error) {
	out := map[string]string{}
	if pc.UserID != "" {
		out["userId"] = pc.UserID
	}
	if pc.PlaceID != "" {
		out["placeId"] = pc.PlaceID
	}
	if pc.Timestamp != nil {
		out["timestamp"] = strconv.FormatInt(*pc.Timestamp, 10)
	}
	if pc.Latitude != nil && pc.Longitude != nil {
		out["latitude"] = strconv.FormatFloat(*pc.Latitude, 'f', -1, 64)
		out["longitude"] = strconv.FormatFloat(*pc.Longitude, 'f', -1, 64)
	}
	if pc.Accuracy != nil {
		out["accuracy"] = strconv.FormatFloat(*pc.Accuracy, 'f', -1, 64)
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the numeric form the server returns. Values of the
// wrong type are left unset.
func (pc *PlaceCheckin) UnmarshalJSON(data []byte) error {
	var w checkinWire
	if err := unmarshalLenient(data, &w); err != nil {
		return err
	}
	*pc = PlaceCheckin(w)
	return nil
}

// Time returns the checkin timestamp, or the zero time.
func (pc *PlaceCheckin) Time() time.Time {
	if pc.Timestamp == nil {
		return time.Time{}
	}
	return FromUnixMillis(*pc.Timestamp)
}

// PlaceQuery reads places, including geo searches.
type PlaceQuery struct {
	taggableQuery[*PlaceQuery]

	lat, lon                       *float64
	radius                         *float64
	minLat, minLon, maxLat, maxLon *float64
}

// Places starts a place query.
func (c *Client) Places() *PlaceQuery {
	q := &PlaceQuery{}
	q.init(c, q)
	return q
}

// WithCenter sets the center of a geo search.
func (q *PlaceQuery) WithCenter(latitude, longitude float64) *PlaceQuery {
	q.lat, q.lon = &latitude, &longitude
	return q
}

// WithRadius sets the circle radius in meters.
func (q *PlaceQuery) WithRadius(meters float64) *PlaceQuery {
	q.radius = &meters
	return q
}

// WithRectangle sets the bounding rectangle of a geo search.
func (q *PlaceQuery) WithRectangle(minLatitude, minLongitude, maxLatitude, maxLongitude float64) *PlaceQuery {
	q.minLat, q.minLon = &minLatitude, &minLongitude
	q.maxLat, q.maxLon = &maxLatitude, &maxLongitude
	return q
}

// Get fetches the place with the configured id.
func (q *PlaceQuery) Get(ctx context.Context) (*Place, error) {
	if q.id == "" {
		return nil, invalidParameter("expecting id")
	}
	return get[Place](ctx, q.client, q.buildPath(placeService), q.params())
}

// All lists places matching the filters.
func (q *PlaceQuery) All(ctx context.Context) ([]*Place, error) {
	return list[Place](ctx, q.client, placeService, q.params())
}

// Events lists the events held at the place.
func (q *PlaceQuery) Events(ctx context.Context) ([]*Event, error) {
	path, err := q.buildSubPath(placeService, "events")
	if err != nil {
		return nil, err
	}
	return list[Event](ctx, q.client, path, q.params())
}

// EventRelationships lists the place-event relationships of the place.
func (q *PlaceQuery) EventRelationships(ctx context.Context) ([]*PlaceEvent, error) {
	path, err := q.buildSubPath(placeService, "events/relationships")
	if err != nil {
		return nil, err
	}
	return list[PlaceEvent](ctx, q.client, path, q.params())
}

type centerArgs struct {
	Latitude  *float64 `validate:"required,latitude"`
	Longitude *float64 `validate:"required,longitude"`
	Radius    *float64 `validate:"omitempty,gt=0"`
}

type circleArgs struct {
	Latitude  *float64 `validate:"required,latitude"`
	Longitude *float64 `validate:"required,longitude"`
	Radius    *float64 `validate:"required,gt=0"`
}

type rectArgs struct {
	MinLatitude  *float64 `validate:"required,latitude"`
	MinLongitude *float64 `validate:"required,longitude"`
	MaxLatitude  *float64 `validate:"required,latitude"`
	MaxLongitude *float64 `validate:"required,longitude"`
}

func validateArgs(args any) error {
	if verr := validation.ValidateStruct(args); verr != nil {
		return invalidParameter(verr.Error())
	}
	return nil
}

// centerParams also carries the radius when one is set; the server then
// limits the search to it.
func (q *PlaceQuery) centerParams() (Params, error) {
	if err := validateArgs(&centerArgs{Latitude: q.lat, Longitude: q.lon, Radius: q.radius}); err != nil {
		return nil, err
	}
	p := q.params()
	p["lat"] = *q.lat
	p["lon"] = *q.lon
	if q.radius != nil {
		p["radius"] = *q.radius
	}
	return p, nil
}

func (q *PlaceQuery) circleParams() (Params, error) {
	if err := validateArgs(&circleArgs{Latitude: q.lat, Longitude: q.lon, Radius: q.radius}); err != nil {
		return nil, err
	}
	p := q.params()
	p["lat"] = *q.lat
	p["lon"] = *q.lon
	p["radius"] = *q.radius
	return p, nil
}

func (q *PlaceQuery) rectParams() (Params, error) {
	if err := validateArgs(&rectArgs{
		MinLatitude:  q.minLat,
		MinLongitude: q.minLon,
		MaxLatitude:  q.maxLat,
		MaxLongitude: q.maxLon,
	}); err != nil {
		return nil, err
	}
	if *q.minLat > *q.maxLat || *q.minLon > *q.maxLon {
		return nil, invalidParameter(fmt.Sprintf("rectangle min (%g, %g) exceeds max (%g, %g)",
			*q.minLat, *q.minLon, *q.maxLat, *q.maxLon))
	}
	p := q.params()
	p["min_lat"] = *q.minLat
	p["min_lon"] = *q.minLon
	p["max_lat"] = *q.maxLat
	p["max_lon"] = *q.maxLon
	return p, nil
}

func (q *PlaceQuery) search(ctx context.Context, kind string, params Params, err error) ([]*Place, error) {
	if err != nil {
		return nil, err
	}
	return list[Place](ctx, q.client, placeService+"/search/"+kind, params)
}

// Nearest lists the places nearest to the center.
func (q *PlaceQuery) Nearest(ctx context.Context) ([]*Place, error) {
	p, err := q.centerParams()
	return q.search(ctx, "nearest", p, err)
}

// SmallestBounds lists the places whose bounds are the smallest that
// contain the center.
func (q *PlaceQuery) SmallestBounds(ctx context.Context) ([]*Place, error) {
	p, err := q.centerParams()
	return q.search(ctx, "smallestbounds", p, err)
}

// WithinCircle lists places inside the circle.
func (q *PlaceQuery) WithinCircle(ctx context.Context) ([]*Place, error) {
	p, err := q.circleParams()
	return q.search(ctx, "within/circle", p, err)
}

// IntersectsCircle lists places whose bounds intersect the circle.
func (q *PlaceQuery) IntersectsCircle(ctx context.Context) ([]*Place, error) {
	p, err := q.circleParams()
	return q.search(ctx, "intersects/circle", p, err)
}

// WithinRectangle lists places inside the rectangle.
func (q *PlaceQuery) WithinRectangle(ctx context.Context) ([]*Place, error) {
	p, err := q.rectParams()
	return q.search(ctx, "within/rect", p, err)
}

// IntersectsRectangle lists places whose bounds intersect the rectangle.
func (q *PlaceQuery) IntersectsRectangle(ctx context.Context) ([]*Place, error) {
	p, err := q.rectParams()
	return q.search(ctx, "intersects/rect", p, err)
}

// PlaceOperation saves, deletes and checks in to places.
type PlaceOperation struct {
	taggableOperation[*PlaceOperation]
}

// PlaceOperation starts a place operation.
func (c *Client) PlaceOperation() *PlaceOperation {
	o := &PlaceOperation{}
	o.init(c, o)
	return o
}

// Save creates or updates the place.
func (o *PlaceOperation) Save(ctx context.Context, place *Place) (*Place, error) {
	return save[Place](ctx, o.client, placeService, place, nil, &o.tags)
}

// Delete removes the place.
func (o *PlaceOperation) Delete(ctx context.Context, place *Place) (*Place, error) {
	return remove[Place](ctx, o.client, placeService, place)
}

// Checkin records the logged-in user at the place with zero accuracy.
func (o *PlaceOperation) Checkin(ctx context.Context, place *Place, latitude, longitude float64) (*PlaceCheckin, error) {
	return o.CheckinAt(ctx, place, latitude, longitude, 0, time.Now())
}

// CheckinAt records a checkin with an explicit accuracy and time.
func (o *PlaceOperation) CheckinAt(ctx context.Context, place *Place, latitude, longitude, accuracy float64, at time.Time) (*PlaceCheckin, error) {
	if place == nil || place.ID == "" {
		return nil, invalidParameter("expecting id")
	}
	if err := validateArgs(&centerArgs{Latitude: &latitude, Longitude: &longitude}); err != nil {
		return nil, err
	}
	ts := UnixMillis(at)
	checkin := PlaceCheckin{
		UserID:    o.client.UserID(),
		PlaceID:   place.ID,
		Timestamp: &ts,
		Latitude:  &latitude,
		Longitude: &longitude,
		Accuracy:  &accuracy,
	}
	return fetchOne[PlaceCheckin](ctx, o.client, request{
		method: http.MethodPost,
		path:   joinPath(placeService, place.ID, "checkins"),
		body:   checkin,
	})
}
