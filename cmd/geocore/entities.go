// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tomtom215/geocore-go/geocore"
)

// getCmd builds "<noun> get <id>" for any fetcher.
func getCmd[T any](a *app, short string, fetch func(ctx context.Context, c *geocore.Client, id string) (T, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authenticate(cmd.Context()); err != nil {
				return err
			}
			v, err := fetch(cmd.Context(), a.client, args[0])
			if err != nil {
				return err
			}
			return a.render(v)
		},
	}
}

func eventsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Read events",
	}
	cmd.AddCommand(getCmd(a, "Show one event", func(ctx context.Context, c *geocore.Client, id string) (*geocore.Event, error) {
		return c.Events().WithID(id).Get(ctx)
	}))

	var f listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authenticate(cmd.Context()); err != nil {
				return err
			}
			events, err := applyList(a.client.Events(), &f).All(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(events)
		},
	}
	f.register(list)
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "places <id>",
		Short: "List places hosting an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authenticate(cmd.Context()); err != nil {
				return err
			}
			places, err := a.client.Events().WithID(args[0]).Places(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(places)
		},
	})
	return cmd
}

func itemsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Read items",
	}
	cmd.AddCommand(getCmd(a, "Show one item", func(ctx context.Context, c *geocore.Client, id string) (*geocore.Item, error) {
		return c.Items().WithID(id).Get(ctx)
	}))

	var f listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authenticate(cmd.Context()); err != nil {
				return err
			}
			items, err := applyList(a.client.Items(), &f).All(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(items)
		},
	}
	f.register(list)
	cmd.AddCommand(list)
	return cmd
}

func tagsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Read tags",
	}
	cmd.AddCommand(getCmd(a, "Show one tag", func(ctx context.Context, c *geocore.Client, id string) (*geocore.Tag, error) {
		return c.Tags().WithID(id).Get(ctx)
	}))

	var page, num int
	list := &cobra.Command{
		Use:   "list",
		Short: "List tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authenticate(cmd.Context()); err != nil {
				return err
			}
			tags, err := a.client.Tags().Page(page).NumberPerPage(num).All(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(tags)
		},
	}
	list.Flags().IntVar(&page, "page", 0, "Result page, starting at 1")
	list.Flags().IntVar(&num, "num", 0, "Results per page")
	cmd.AddCommand(list)
	return cmd
}
