// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/geocore-go/geocore"
)

func feedCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Read and post object feeds",
	}
	cmd.AddCommand(feedListCmd(a))
	cmd.AddCommand(feedPostCmd(a))
	return cmd
}

func feedListCmd(a *app) *cobra.Command {
	var (
		since, until string
		typ, spec    string
		page, num    int
	)
	cmd := &cobra.Command{
		Use:   "list <object-id>",
		Short: "List feed entries of an object",
		Long: `List feed entries of an object.

--since is inclusive and --until is exclusive. Both accept Unix
milliseconds, RFC 3339 or "2006/01/02 15:04:05".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authenticate(cmd.Context()); err != nil {
				return err
			}
			q := a.client.Feeds().WithID(args[0]).Page(page).NumberPerPage(num)
			if typ != "" {
				q.WithType(typ)
			}
			if spec != "" {
				q.WithIDSpecifier(spec)
			}
			switch {
			case since != "" && until != "":
				from, err := parseInstant(since)
				if err != nil {
					return err
				}
				to, err := parseInstant(until)
				if err != nil {
					return err
				}
				q.StartingAt(from).EndingAt(to)
			case since != "":
				from, err := parseInstant(since)
				if err != nil {
					return err
				}
				q.NotEarlierThan(from)
			case until != "":
				to, err := parseInstant(until)
				if err != nil {
					return err
				}
				q.EarlierThan(to)
			}

			feeds, err := q.All(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(feeds)
		},
	}
	cmd.Flags().StringVar(&since, "since", "", "Earliest timestamp")
	cmd.Flags().StringVar(&until, "until", "", "Latest timestamp")
	cmd.Flags().StringVar(&typ, "type", "", "Entity type of the feed owner")
	cmd.Flags().StringVar(&spec, "spec", "", "Id specifier")
	cmd.Flags().IntVar(&page, "page", 0, "Result page, starting at 1")
	cmd.Flags().IntVar(&num, "num", 0, "Results per page")
	return cmd
}

func feedPostCmd(a *app) *cobra.Command {
	var typ string
	cmd := &cobra.Command{
		Use:   "post <object-id> <json-content>",
		Short: "Post a feed entry to an object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var content map[string]any
			if err := json.Unmarshal([]byte(args[1]), &content); err != nil {
				return fmt.Errorf("content must be a JSON object: %w", err)
			}
			if content == nil {
				content = map[string]any{}
			}
			if err := a.authenticate(cmd.Context()); err != nil {
				return err
			}
			feed, err := a.client.PostFeed(cmd.Context(), &geocore.Feed{ID: args[0], Type: typ, Content: content})
			if err != nil {
				return err
			}
			return a.render(feed)
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "Entity type (default: derived from the id prefix)")
	return cmd
}
