// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package geocore

import (
	"context"
	"time"
)

const eventService = "/events"

// Event is a taggable entity with an optional time window.
type Event struct {
	Taggable
	TimeStart *Time `json:"timeStart,omitempty"`
	TimeEnd   *Time `json:"timeEnd,omitempty"`
}

// IsOpen reports whether now falls within [TimeStart, TimeEnd]. An event
// missing either bound is never open.
func (e *Event) IsOpen(now time.Time) bool {
	if e.TimeStart == nil || e.TimeEnd == nil {
		return false
	}
	return !now.Before(e.TimeStart.Time) && !now.After(e.TimeEnd.Time)
}

// EventQuery reads events.
type EventQuery struct {
	taggableQuery[*EventQuery]
}

// Events starts an event query.
func (c *Client) Events() *EventQuery {
	q := &EventQuery{}
	q.init(c, q)
	return q
}

// Get fetches the event with the configured id.
func (q *EventQuery) Get(ctx context.Context) (*Event, error) {
	if q.id == "" {
		return nil, invalidParameter("expecting id")
	}
	return get[Event](ctx, q.client, q.buildPath(eventService), q.params())
}

// All lists events matching the filters.
func (q *EventQuery) All(ctx context.Context) ([]*Event, error) {
	return list[Event](ctx, q.client, eventService, q.params())
}

// Places lists the places hosting the event.
func (q *EventQuery) Places(ctx context.Context) ([]*Place, error) {
	path, err := q.buildSubPath(eventService, "places")
	if err != nil {
		return nil, err
	}
	return list[Place](ctx, q.client, path, q.params())
}

// PlaceRelationships lists the place-event relationships of the event.
func (q *EventQuery) PlaceRelationships(ctx context.Context) ([]*PlaceEvent, error) {
	path, err := q.buildSubPath(eventService, "places/relationships")
	if err != nil {
		return nil, err
	}
	return list[PlaceEvent](ctx, q.client, path, q.params())
}

// EventOperation saves and deletes events.
type EventOperation struct {
	taggableOperation[*EventOperation]
}

// EventOperation starts an event operation.
func (c *Client) EventOperation() *EventOperation {
	o := &EventOperation{}
	o.init(c, o)
	return o
}

// Save creates or updates the event.
func (o *EventOperation) Save(ctx context.Context, event *Event) (*Event, error) {
	return save[Event](ctx, o.client, eventService, event, nil, &o.tags)
}

// Delete removes the event.
func (o *EventOperation) Delete(ctx context.Context, event *Event) (*Event, error) {
	return remove[Event](ctx, o.client, eventService, event)
}
