// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package geocore

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Builders are single-use and not safe for concurrent mutation. Each chain
// method mutates the builder and returns it; nothing touches the network
// until a terminal method (Get, All, Save, Delete, ...) runs.
//
// The levels compose by embedding. B is the concrete builder type, so
// chain methods declared on a lower level still return the outer builder.

// base carries the client handle and target id.
type base[B any] struct {
	self   B
	client *Client
	id     string
}

func (b *base[B]) init(c *Client, self B) {
	b.client = c
	b.self = self
}

// WithID targets a single resource.
func (b *base[B]) WithID(id string) B {
	b.id = id
	return b.self
}

// ID returns the targeted id, or "".
func (b *base[B]) ID() string {
	return b.id
}

// buildPath returns service/{id} when an id is set, else service.
func (b *base[B]) buildPath(service string) string {
	if b.id == "" {
		return service
	}
	return joinPath(service, b.id)
}

// buildSubPath returns service/{id}/sub and fails without an id.
func (b *base[B]) buildSubPath(service, sub string) (string, error) {
	if b.id == "" {
		return "", invalidParameter("expecting id")
	}
	return joinPath(service, b.id) + "/" + strings.TrimLeft(sub, "/"), nil
}

// joinPath appends each segment to service, escaped so ids and keys can
// never add path levels or a query string.
func joinPath(service string, segments ...string) string {
	var sb strings.Builder
	sb.WriteString(service)
	for _, seg := range segments {
		sb.WriteByte('/')
		sb.WriteString(url.PathEscape(seg))
	}
	return sb.String()
}

// objectQuery holds the filters every entity query accepts.
type objectQuery[Q any] struct {
	base[Q]
	page          int
	num           int
	fromDate      *time.Time
	toDate        *time.Time
	recentCreated bool
	recentUpdated bool
	customData    map[string]string
}

// Page selects a result page, starting at 1.
func (q *objectQuery[Q]) Page(page int) Q {
	q.page = page
	return q.self
}

// NumberPerPage sets the page size.
func (q *objectQuery[Q]) NumberPerPage(num int) Q {
	q.num = num
	return q.self
}

// CreatedAfter limits results to entities created at or after t.
func (q *objectQuery[Q]) CreatedAfter(t time.Time) Q {
	q.fromDate = &t
	return q.self
}

// CreatedBefore limits results to entities created before t.
func (q *objectQuery[Q]) CreatedBefore(t time.Time) Q {
	q.toDate = &t
	return q.self
}

// OrderByRecentlyCreated sorts newest first by creation time.
func (q *objectQuery[Q]) OrderByRecentlyCreated() Q {
	q.recentCreated = true
	return q.self
}

// OrderByRecentlyUpdated sorts newest first by update time.
func (q *objectQuery[Q]) OrderByRecentlyUpdated() Q {
	q.recentUpdated = true
	return q.self
}

// WhereCustomData filters on a custom data value.
func (q *objectQuery[Q]) WhereCustomData(key, value string) Q {
	if q.customData == nil {
		q.customData = make(map[string]string)
	}
	q.customData[key] = value
	return q.self
}

func (q *objectQuery[Q]) params() Params {
	p := Params{}
	p.setInt("page", q.page)
	p.setInt("num", q.num)
	if q.fromDate != nil {
		p["from_date"] = NewTime(*q.fromDate).String()
	}
	if q.toDate != nil {
		p["to_date"] = NewTime(*q.toDate).String()
	}
	if q.recentCreated {
		p["recent_created"] = true
	}
	if q.recentUpdated {
		p["recent_updated"] = true
	}
	if len(q.customData) > 0 {
		p["custom_data"] = q.customData
	}
	return p
}

// taggableQuery adds tag filters.
type taggableQuery[Q any] struct {
	objectQuery[Q]
	tagIDs     []string
	tagNames   []string
	tagDetails bool
}

// WithTagIDs filters by tag ids.
func (q *taggableQuery[Q]) WithTagIDs(ids ...string) Q {
	q.tagIDs = ids
	return q.self
}

// WithTagNames filters by tag names.
func (q *taggableQuery[Q]) WithTagNames(names ...string) Q {
	q.tagNames = names
	return q.self
}

// WithTagDetails asks the server to embed full tag records.
func (q *taggableQuery[Q]) WithTagDetails() Q {
	q.tagDetails = true
	return q.self
}

func (q *taggableQuery[Q]) params() Params {
	p := q.objectQuery.params()
	p.set("tag_ids", strings.Join(q.tagIDs, ","))
	p.set("tag_names", strings.Join(q.tagNames, ","))
	if q.tagDetails {
		p["tag_detail"] = "true"
	}
	return p
}

// objectOperation saves and deletes entities of one service.
type objectOperation[O any] struct {
	base[O]
}

// taggableOperation adds tag changes applied on save.
type taggableOperation[O any] struct {
	objectOperation[O]
	tags tagChanges
}

// Tag queues tags to add on save. Strings starting with "TAG-" are ids.
func (o *taggableOperation[O]) Tag(idsOrNames ...string) O {
	o.tags.tag(idsOrNames)
	return o.self
}

// Untag queues tags to remove on save.
func (o *taggableOperation[O]) Untag(idsOrNames ...string) O {
	o.tags.untag(idsOrNames)
	return o.self
}

func (o *taggableOperation[O]) params() Params {
	return o.tags.params()
}

// get fetches one T from service/{id}.
func get[T any](ctx context.Context, c *Client, path string, params Params) (*T, error) {
	return fetchOne[T](ctx, c, request{method: http.MethodGet, path: path, params: params})
}

// list fetches a []*T.
func list[T any](ctx context.Context, c *Client, path string, params Params) ([]*T, error) {
	return fetchList[T](ctx, c, request{method: http.MethodGet, path: path, params: params})
}

// entityPtr constrains PT to a pointer to T that is an Entity.
type entityPtr[T any] interface {
	*T
	Entity
}

// save creates the entity at service, or updates service/{id} when the
// entity already has an internal id. Pending tag changes on the entity and
// on ops go out as query parameters and are cleared on success.
func save[T any, PT entityPtr[T]](ctx context.Context, c *Client, service string, entity PT, extra Params, ops *tagChanges) (PT, error) {
	if entity == nil {
		return nil, invalidParameter("expecting entity")
	}
	obj := entity.object()

	path := service
	if obj.IsSaved() {
		if obj.ID == "" {
			return nil, invalidParameter("saved entity has no id")
		}
		path = joinPath(service, obj.ID)
	}

	changes := &tagChanges{}
	te, taggable := any(entity).(TaggableEntity)
	if taggable {
		changes.merge(&te.taggable().pending)
	}
	if ops != nil {
		changes.merge(ops)
	}

	params := Params{}
	params.merge(extra)
	params.merge(changes.params())

	saved, err := fetchOne[T](ctx, c, request{
		method: http.MethodPost,
		path:   path,
		params: params,
		body:   entity,
	})
	if err != nil {
		return nil, err
	}

	if taggable {
		te.taggable().pending.reset()
	}
	if ops != nil {
		ops.reset()
	}
	return saved, nil
}

// remove deletes service/{id}. Unsaved entities fail without any I/O.
func remove[T any, PT entityPtr[T]](ctx context.Context, c *Client, service string, entity PT) (PT, error) {
	if entity == nil {
		return nil, invalidParameter("expecting entity")
	}
	obj := entity.object()
	if !obj.IsSaved() || obj.ID == "" {
		return nil, invalidParameter("entity is not saved")
	}
	return fetchOne[T](ctx, c, request{method: http.MethodDelete, path: joinPath(service, obj.ID)})
}
