// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package geocore

import "context"

const itemService = "/items"

// ItemType says whether an item is used up when redeemed.
type ItemType string

const (
	ItemTypeNonConsumable ItemType = "NON_CONSUMABLE"
	ItemTypeConsumable    ItemType = "CONSUMABLE"
)

// Item is a taggable, optionally time-limited entity.
type Item struct {
	Taggable
	ShortName        *string   `json:"shortName,omitempty"`
	ShortDescription *string   `json:"shortDescription,omitempty"`
	Type             *ItemType `json:"type,omitempty"`
	ValidTimeStart   *Time     `json:"validTimeStart,omitempty"`
	ValidTimeEnd     *Time     `json:"validTimeEnd,omitempty"`
}

// ItemQuery reads items.
type ItemQuery struct {
	taggableQuery[*ItemQuery]
}

// Items starts an item query.
func (c *Client) Items() *ItemQuery {
	q := &ItemQuery{}
	q.init(c, q)
	return q
}

func (q *ItemQuery) Get(ctx context.Context) (*Item, error) {
	if q.id == "" {
		return nil, invalidParameter("expecting id")
	}
	return get[Item](ctx, q.client, q.buildPath(itemService), q.params())
}

func (q *ItemQuery) All(ctx context.Context) ([]*Item, error) {
	return list[Item](ctx, q.client, itemService, q.params())
}

// ItemOperation saves and deletes items.
type ItemOperation struct {
	taggableOperation[*ItemOperation]
}

// ItemOperation starts an item operation.
func (c *Client) ItemOperation() *ItemOperation {
	o := &ItemOperation{}
	o.init(c, o)
	return o
}

func (o *ItemOperation) Save(ctx context.Context, item *Item) (*Item, error) {
	return save[Item](ctx, o.client, itemService, item, nil, &o.tags)
}

func (o *ItemOperation) Delete(ctx context.Context, item *Item) (*Item, error) {
	return remove[Item](ctx, o.client, itemService, item)
}
