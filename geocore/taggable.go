// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package geocore

import "strings"

// TagIDPrefix marks a tag id; any other string passed to Tag is a tag name.
const TagIDPrefix = "TAG-"

// TagType distinguishes system tags from user tags.
type TagType string

const (
	TagTypeSystem TagType = "SYSTEM_TAG"
	TagTypeUser   TagType = "USER_TAG"
)

// Tag is a classification label attached to taggable entities.
type Tag struct {
	Object
	Type TagType `json:"type,omitempty"`
}

// tagChanges holds tag additions and removals waiting for the next save.
type tagChanges struct {
	addIDs   []string
	addNames []string
	delIDs   []string
	delNames []string
}

func classifyTags(idsOrNames []string, ids, names *[]string) {
	for _, v := range idsOrNames {
		if strings.HasPrefix(v, TagIDPrefix) {
			*ids = append(*ids, v)
		} else {
			*names = append(*names, v)
		}
	}
}

func (tc *tagChanges) tag(idsOrNames []string) {
	classifyTags(idsOrNames, &tc.addIDs, &tc.addNames)
}

func (tc *tagChanges) untag(idsOrNames []string) {
	classifyTags(idsOrNames, &tc.delIDs, &tc.delNames)
}

func (tc *tagChanges) empty() bool {
	return len(tc.addIDs) == 0 && len(tc.addNames) == 0 && len(tc.delIDs) == 0 && len(tc.delNames) == 0
}

// params renders the pending changes as comma-joined request parameters.
func (tc *tagChanges) params() Params {
	p := Params{}
	p.set("tag_ids", strings.Join(tc.addIDs, ","))
	p.set("tag_names", strings.Join(tc.addNames, ","))
	p.set("del_tag_ids", strings.Join(tc.delIDs, ","))
	p.set("del_tag_names", strings.Join(tc.delNames, ","))
	return p
}

func (tc *tagChanges) merge(other *tagChanges) {
	tc.addIDs = append(tc.addIDs, other.addIDs...)
	tc.addNames = append(tc.addNames, other.addNames...)
	tc.delIDs = append(tc.delIDs, other.delIDs...)
	tc.delNames = append(tc.delNames, other.delNames...)
}

func (tc *tagChanges) reset() {
	*tc = tagChanges{}
}

// Taggable is an Object that can carry tags.
type Taggable struct {
	Object

	// Tags is populated by the server.
	Tags []*Tag `json:"tags,omitempty"`

	pending tagChanges
}

// TaggableEntity is implemented by every type embedding Taggable.
type TaggableEntity interface {
	Entity
	taggable() *Taggable
}

func (t *Taggable) taggable() *Taggable {
	return t
}

// Tag queues tags to add on the next save. Strings starting with "TAG-"
// are tag ids, anything else is a tag name.
func (t *Taggable) Tag(idsOrNames ...string) {
	t.pending.tag(idsOrNames)
}

// Untag queues tags to remove on the next save.
func (t *Taggable) Untag(idsOrNames ...string) {
	t.pending.untag(idsOrNames)
}

// PendingTagParams returns the parameters the next save will send.
func (t *Taggable) PendingTagParams() Params {
	return t.pending.params()
}

// HasTag reports whether a server-provided tag matches idOrName.
func (t *Taggable) HasTag(idOrName string) bool {
	for _, tag := range t.Tags {
		if tag == nil {
			continue
		}
		if tag.ID == idOrName || Deref(tag.Name) == idOrName {
			return true
		}
	}
	return false
}
