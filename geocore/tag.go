// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package geocore

import "context"

const tagService = "/tags"

// TagQuery reads tags.
type TagQuery struct {
	objectQuery[*TagQuery]
}

// Tags starts a tag query.
func (c *Client) Tags() *TagQuery {
	q := &TagQuery{}
	q.init(c, q)
	return q
}

func (q *TagQuery) Get(ctx context.Context) (*Tag, error) {
	if q.id == "" {
		return nil, invalidParameter("expecting id")
	}
	return get[Tag](ctx, q.client, q.buildPath(tagService), q.params())
}

func (q *TagQuery) All(ctx context.Context) ([]*Tag, error) {
	return list[Tag](ctx, q.client, tagService, q.params())
}

// TagOperation saves and deletes tags.
type TagOperation struct {
	objectOperation[*TagOperation]
}

// TagOperation starts a tag operation.
func (c *Client) TagOperation() *TagOperation {
	o := &TagOperation{}
	o.init(c, o)
	return o
}

func (o *TagOperation) Save(ctx context.Context, tag *Tag) (*Tag, error) {
	return save[Tag](ctx, o.client, tagService, tag, nil, nil)
}

func (o *TagOperation) Delete(ctx context.Context, tag *Tag) (*Tag, error) {
	return remove[Tag](ctx, o.client, tagService, tag)
}
