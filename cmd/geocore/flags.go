// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/geocore-go/geocore"
)

// listQuery is implemented by every taggable query builder.
type listQuery[Q any] interface {
	Page(page int) Q
	NumberPerPage(num int) Q
	WithTagIDs(ids ...string) Q
	WithTagNames(names ...string) Q
}

// listFlags are the paging and tag filters shared by list commands.
type listFlags struct {
	page     int
	num      int
	tagIDs   []string
	tagNames []string
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.page, "page", 0, "Result page, starting at 1")
	cmd.Flags().IntVar(&f.num, "num", 0, "Results per page")
	cmd.Flags().StringSliceVar(&f.tagIDs, "tag-id", nil, "Filter by tag id (repeatable)")
	cmd.Flags().StringSliceVar(&f.tagNames, "tag", nil, "Filter by tag name (repeatable)")
}

func applyList[Q listQuery[Q]](q Q, f *listFlags) Q {
	q.Page(f.page)
	q.NumberPerPage(f.num)
	if len(f.tagIDs) > 0 {
		q.WithTagIDs(f.tagIDs...)
	}
	if len(f.tagNames) > 0 {
		q.WithTagNames(f.tagNames...)
	}
	return q
}

// tagArgs splits --tag values into a Tag call on the entity.
func tagArgs(t *geocore.Taggable, tags []string) {
	if len(tags) > 0 {
		t.Tag(tags...)
	}
}

// parseInstant accepts Unix milliseconds or any layout geocore.ParseTime
// understands.
func parseInstant(s string) (time.Time, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return geocore.FromUnixMillis(ms), nil
	}
	t, err := geocore.ParseTime(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: want Unix milliseconds, RFC 3339 or 2006/01/02 15:04:05", s)
	}
	return t.Time, nil
}

// parsePairs turns key=value arguments into a map.
func parsePairs(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid pair %q, want key=value", p)
		}
		out[k] = v
	}
	return out, nil
}
