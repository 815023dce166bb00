// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package geocore

import (
	"context"
	"net/http"
)

// RelationshipType qualifies a relationship between two entities.
type RelationshipType string

const (
	RelationshipCreator     RelationshipType = "CREATOR"
	RelationshipOwner       RelationshipType = "OWNER"
	RelationshipManager     RelationshipType = "MANAGER"
	RelationshipOrganizer   RelationshipType = "ORGANIZER"
	RelationshipPerformer   RelationshipType = "PERFORMER"
	RelationshipParticipant RelationshipType = "PARTICIPANT"
	RelationshipAttendant   RelationshipType = "ATTENDANT"
	RelationshipStaff       RelationshipType = "STAFF"
	RelationshipCustomer    RelationshipType = "CUSTOMER"
	RelationshipMember      RelationshipType = "MEMBER"
	RelationshipFollower    RelationshipType = "FOLLOWER"
	RelationshipWatcher     RelationshipType = "WATCHER"
)

// Relationship holds the fields shared by every relationship record.
type Relationship struct {
	CustomData map[string]*string `json:"customData,omitempty"`
	CreateTime *Time              `json:"createTime,omitempty"`
	UpdateTime *Time              `json:"updateTime,omitempty"`
}

// UserEvent links a user to an event.
type UserEvent struct {
	PK struct {
		User         *User            `json:"user,omitempty"`
		Event        *Event           `json:"event,omitempty"`
		Relationship RelationshipType `json:"relationship,omitempty"`
	} `json:"pk"`
	Relationship
}

// UserPlace links a user to a place.
type UserPlace struct {
	PK struct {
		User         *User            `json:"user,omitempty"`
		Place        *Place           `json:"place,omitempty"`
		Relationship RelationshipType `json:"relationship,omitempty"`
	} `json:"pk"`
	Relationship
}

// UserItem links a user to an item, with a held amount.
type UserItem struct {
	PK struct {
		User         *User            `json:"user,omitempty"`
		Item         *Item            `json:"item,omitempty"`
		Relationship RelationshipType `json:"relationship,omitempty"`
	} `json:"pk"`
	Relationship
	Amount *int64 `json:"amount,omitempty"`
}

// PlaceEvent links a place to an event held there.
type PlaceEvent struct {
	PK struct {
		Place *Place `json:"place,omitempty"`
		Event *Event `json:"event,omitempty"`
	} `json:"pk"`
	Relationship
}

// relationshipOperation writes /users/{uid}/{kind}/{oid}[/{type}].
type relationshipOperation[O any, R any] struct {
	self       O
	client     *Client
	kind       string
	userID     string
	objectID   string
	relType    RelationshipType
	customData map[string]*string
	extra      Params
}

func (o *relationshipOperation[O, R]) init(c *Client, self O, kind string) {
	o.client = c
	o.self = self
	o.kind = kind
}

// WithUser sets the user side of the relationship.
func (o *relationshipOperation[O, R]) WithUser(userID string) O {
	o.userID = userID
	return o.self
}

// WithRelationship sets the relationship type saved by Save.
func (o *relationshipOperation[O, R]) WithRelationship(rel RelationshipType) O {
	o.relType = rel
	return o.self
}

// WithCustomData sets a custom data value sent as the request body.
func (o *relationshipOperation[O, R]) WithCustomData(key, value string) O {
	if o.customData == nil {
		o.customData = make(map[string]*string)
	}
	o.customData[key] = &value
	return o.self
}

func (o *relationshipOperation[O, R]) path(rel RelationshipType) (string, error) {
	if o.userID == "" || o.objectID == "" {
		return "", invalidParameter("expecting user id, object id")
	}
	if rel != "" {
		return joinPath(userService, o.userID, o.kind, o.objectID, string(rel)), nil
	}
	return joinPath(userService, o.userID, o.kind, o.objectID), nil
}

// Save creates or updates the relationship.
func (o *relationshipOperation[O, R]) Save(ctx context.Context) (*R, error) {
	path, err := o.path(o.relType)
	if err != nil {
		return nil, err
	}
	r := request{method: http.MethodPost, path: path, params: o.extra}
	if o.customData != nil {
		r.body = o.customData
	}
	return fetchOne[R](ctx, o.client, r)
}

// Delete removes the relationship regardless of its type.
func (o *relationshipOperation[O, R]) Delete(ctx context.Context) (*R, error) {
	path, err := o.path("")
	if err != nil {
		return nil, err
	}
	return fetchOne[R](ctx, o.client, request{method: http.MethodDelete, path: path})
}

// LeaveAs removes only the relationship of type rel.
func (o *relationshipOperation[O, R]) LeaveAs(ctx context.Context, rel RelationshipType) (*R, error) {
	if rel == "" {
		return nil, invalidParameter("expecting relationship type")
	}
	path, err := o.path(rel)
	if err != nil {
		return nil, err
	}
	return fetchOne[R](ctx, o.client, request{method: http.MethodDelete, path: path})
}

// UserEventOperation manages a user-event relationship.
type UserEventOperation struct {
	relationshipOperation[*UserEventOperation, UserEvent]
}

// UserEventOperation starts a user-event relationship operation.
func (c *Client) UserEventOperation() *UserEventOperation {
	o := &UserEventOperation{}
	o.init(c, o, "events")
	return o
}

// WithEvent sets the event side of the relationship.
func (o *UserEventOperation) WithEvent(eventID string) *UserEventOperation {
	o.objectID = eventID
	return o
}

// UserPlaceOperation manages a user-place relationship.
type UserPlaceOperation struct {
	relationshipOperation[*UserPlaceOperation, UserPlace]
}

// UserPlaceOperation starts a user-place relationship operation.
func (c *Client) UserPlaceOperation() *UserPlaceOperation {
	o := &UserPlaceOperation{}
	o.init(c, o, "places")
	return o
}

// WithPlace sets the place side of the relationship.
func (o *UserPlaceOperation) WithPlace(placeID string) *UserPlaceOperation {
	o.objectID = placeID
	return o
}

// UserItemOperation manages a user-item relationship.
type UserItemOperation struct {
	relationshipOperation[*UserItemOperation, UserItem]
}

// UserItemOperation starts a user-item relationship operation.
func (c *Client) UserItemOperation() *UserItemOperation {
	o := &UserItemOperation{}
	o.init(c, o, "items")
	return o
}

// WithItem sets the item side of the relationship.
func (o *UserItemOperation) WithItem(itemID string) *UserItemOperation {
	o.objectID = itemID
	return o
}

// WithAmount sets the held amount, sent as the amount parameter on save.
func (o *UserItemOperation) WithAmount(amount int64) *UserItemOperation {
	if o.extra == nil {
		o.extra = Params{}
	}
	o.extra["amount"] = amount
	return o
}
