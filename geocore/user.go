// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package geocore

import (
	"context"
	"net/http"
	"strings"
)

const (
	userService     = "/users"
	registerService = "/register"
)

// User is a Geocore account.
type User struct {
	Taggable
	Email *string `json:"email,omitempty"`

	// Password is sent on save and register; the server never returns it.
	Password *string `json:"password,omitempty"`

	LastLocationTime *Time  `json:"lastLocationTime,omitempty"`
	LastLocation     *Point `json:"lastLocation,omitempty"`
}

// DefaultUserID derives a user id from the project id, following the
// USE-{project suffix}-{suffix} pattern for ids starting with "PRO".
// Other project ids return suffix unchanged.
func DefaultUserID(projectID, suffix string) string {
	if strings.HasPrefix(projectID, "PRO") {
		return "USE" + projectID[3:] + "-" + suffix
	}
	return suffix
}

// DefaultUser builds a user named name with derived credentials: the id
// from DefaultUserID, email name@geocore.jp and the reversed id as the
// password.
func DefaultUser(projectID, name string) *User {
	id := DefaultUserID(projectID, name)
	u := &User{
		Email:    String(name + "@geocore.jp"),
		Password: String(reverse(id)),
	}
	u.ID = id
	u.Name = String(name)
	return u
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

// UserQuery reads users and their relationships.
type UserQuery struct {
	taggableQuery[*UserQuery]
}

// Users starts a user query.
func (c *Client) Users() *UserQuery {
	q := &UserQuery{}
	q.init(c, q)
	return q
}

// Get fetches the user with the configured id.
func (q *UserQuery) Get(ctx context.Context) (*User, error) {
	if q.id == "" {
		return nil, invalidParameter("expecting id")
	}
	return get[User](ctx, q.client, q.buildPath(userService), q.params())
}

// EventRelationships lists the user's relationships to events.
func (q *UserQuery) EventRelationships(ctx context.Context) ([]*UserEvent, error) {
	path, err := q.buildSubPath(userService, "events")
	if err != nil {
		return nil, err
	}
	return list[UserEvent](ctx, q.client, path, q.params())
}

// PlaceRelationships lists the user's relationships to places.
func (q *UserQuery) PlaceRelationships(ctx context.Context) ([]*UserPlace, error) {
	path, err := q.buildSubPath(userService, "places")
	if err != nil {
		return nil, err
	}
	return list[UserPlace](ctx, q.client, path, q.params())
}

// ItemRelationships lists the user's relationships to items.
func (q *UserQuery) ItemRelationships(ctx context.Context) ([]*UserItem, error) {
	path, err := q.buildSubPath(userService, "items")
	if err != nil {
		return nil, err
	}
	return list[UserItem](ctx, q.client, path, q.params())
}

// UserOperation saves, deletes and registers users.
type UserOperation struct {
	taggableOperation[*UserOperation]
	groupIDs []string
}

// UserOperation starts a user operation.
func (c *Client) UserOperation() *UserOperation {
	o := &UserOperation{}
	o.init(c, o)
	return o
}

// AddToGroups joins the user to groups on the next Register or Save.
func (o *UserOperation) AddToGroups(groupIDs ...string) *UserOperation {
	o.groupIDs = append(o.groupIDs, groupIDs...)
	return o
}

func (o *UserOperation) params() Params {
	p := o.taggableOperation.params()
	p.set("group_ids", strings.Join(o.groupIDs, ","))
	return p
}

// Register creates the account through the unauthenticated /register
// endpoint.
func (o *UserOperation) Register(ctx context.Context, user *User) (*User, error) {
	if user == nil {
		return nil, invalidParameter("expecting user")
	}
	return fetchOne[User](ctx, o.client, request{
		method: http.MethodPost,
		path:   o.buildPath(registerService),
		params: o.params(),
		body:   user,
		noAuth: true,
	})
}

// Save creates or updates the user.
func (o *UserOperation) Save(ctx context.Context, user *User) (*User, error) {
	var extra Params
	if len(o.groupIDs) > 0 {
		extra = Params{"group_ids": strings.Join(o.groupIDs, ",")}
	}
	return save[User](ctx, o.client, userService, user, extra, &o.tags)
}

// Delete removes the user.
func (o *UserOperation) Delete(ctx context.Context, user *User) (*User, error) {
	return remove[User](ctx, o.client, userService, user)
}
