// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package geocore

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// entityTypes maps id prefixes to the fully-qualified entity type names
// the feed endpoints expect.
var entityTypes = []struct {
	prefix string
	name   string
}{
	{"PRO", "jp.geocore.entity.Project"},
	{"USE", "jp.geocore.entity.User"},
	{"GRO", "jp.geocore.entity.Group"},
	{"PLA", "jp.geocore.entity.Place"},
	{"EVE", "jp.geocore.entity.Event"},
	{"ITE", "jp.geocore.entity.Item"},
	{"TAG", "jp.geocore.entity.Tag"},
}

// Feed is an activity entry attached to an object.
type Feed struct {
	// ID is the id of the object the feed belongs to.
	ID        string         `json:"id,omitempty"`
	Type      string         `json:"type,omitempty"`
	Timestamp *int64         `json:"timestamp,omitempty"`
	Content   map[string]any `json:"objContent,omitempty"`
}

// Time returns the feed timestamp, or the zero time.
func (f *Feed) Time() time.Time {
	if f.Timestamp == nil {
		return time.Time{}
	}
	return FromUnixMillis(*f.Timestamp)
}

// ResolveType returns the explicit type, or the type implied by the id
// prefix, or "" when neither is known.
func (f *Feed) ResolveType() string {
	if f.Type != "" {
		return f.Type
	}
	for _, et := range entityTypes {
		if strings.HasPrefix(f.ID, et.prefix) {
			return et.name
		}
	}
	return ""
}

// feedBase holds the type and id specifier shared by feed reads and writes.
type feedBase[B any] struct {
	base[B]
	typ  string
	spec string
}

// WithType sets the entity type of the feed owner.
func (f *feedBase[B]) WithType(typ string) B {
	f.typ = typ
	return f.self
}

// WithIDSpecifier narrows the feed to one id specifier.
func (f *feedBase[B]) WithIDSpecifier(spec string) B {
	f.spec = spec
	return f.self
}

func (f *feedBase[B]) params() Params {
	p := Params{}
	p.set("type", f.typ)
	p.set("spec", f.spec)
	return p
}

// FeedQuery reads the feed of an object.
type FeedQuery struct {
	feedBase[*FeedQuery]
	earliest, latest *int64
	start, end       *int64
	page, num        int
}

// Feeds starts a feed query.
func (c *Client) Feeds() *FeedQuery {
	q := &FeedQuery{}
	q.init(c, q)
	return q
}

func millis(t time.Time) *int64 {
	ms := UnixMillis(t)
	return &ms
}

// NotEarlierThan returns entries at or after t.
func (q *FeedQuery) NotEarlierThan(t time.Time) *FeedQuery {
	q.earliest = millis(t)
	return q
}

// EarlierThan returns entries before t.
func (q *FeedQuery) EarlierThan(t time.Time) *FeedQuery {
	q.latest = millis(t)
	return q
}

// StartingAt sets the start of a window; it only applies together with EndingAt.
func (q *FeedQuery) StartingAt(t time.Time) *FeedQuery {
	q.start = millis(t)
	return q
}

// EndingAt sets the end of a window; it only applies together with StartingAt.
func (q *FeedQuery) EndingAt(t time.Time) *FeedQuery {
	q.end = millis(t)
	return q
}

func (q *FeedQuery) Page(page int) *FeedQuery {
	q.page = page
	return q
}

func (q *FeedQuery) NumberPerPage(num int) *FeedQuery {
	q.num = num
	return q
}

// params picks one timestamp window: a full start/end pair wins, then the
// earliest bound, then the latest bound.
func (q *FeedQuery) params() Params {
	p := q.feedBase.params()
	switch {
	case q.start != nil && q.end != nil:
		p["from_timestamp"] = strconv.FormatInt(*q.start, 10)
		p["to_timestamp"] = strconv.FormatInt(*q.end, 10)
	case q.earliest != nil:
		p["from_timestamp"] = strconv.FormatInt(*q.earliest, 10)
	case q.latest != nil:
		p["to_timestamp"] = strconv.FormatInt(*q.latest, 10)
	}
	p.setInt("page", q.page)
	p.setInt("num", q.num)
	return p
}

// All lists feed entries of the object.
func (q *FeedQuery) All(ctx context.Context) ([]*Feed, error) {
	path, err := q.buildSubPath(objectService, "feed")
	if err != nil {
		return nil, err
	}
	return list[Feed](ctx, q.client, path, q.params())
}

// FeedOperation posts to the feed of an object.
type FeedOperation struct {
	feedBase[*FeedOperation]
	content map[string]any
}

// FeedOperation starts a feed operation.
func (c *Client) FeedOperation() *FeedOperation {
	o := &FeedOperation{}
	o.init(c, o)
	return o
}

// WithContent sets the entry content, sent as the request body.
func (o *FeedOperation) WithContent(content map[string]any) *FeedOperation {
	o.content = content
	return o
}

// Post publishes the entry. Both an id and content are required.
func (o *FeedOperation) Post(ctx context.Context) (*Feed, error) {
	if o.id == "" || o.content == nil {
		return nil, invalidParameter("expecting id, content")
	}
	return fetchOne[Feed](ctx, o.client, request{
		method: http.MethodPost,
		path:   joinPath(objectService, o.id, "feed"),
		params: o.params(),
		body:   o.content,
	})
}

// PostFeed publishes feed to the object named by feed.ID, deriving the
// type from the id when it is not set.
func (c *Client) PostFeed(ctx context.Context, feed *Feed) (*Feed, error) {
	if feed == nil || feed.ID == "" || feed.Content == nil {
		return nil, invalidParameter("expecting id, content")
	}
	op := c.FeedOperation().WithID(feed.ID).WithContent(feed.Content)
	if typ := feed.ResolveType(); typ != "" {
		op.WithType(typ)
	}
	return op.Post(ctx)
}
