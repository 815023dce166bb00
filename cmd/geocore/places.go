// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/geocore-go/geocore"
)

func placesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "places",
		Short: "Read, search and save places",
	}
	cmd.AddCommand(placesGetCmd(a))
	cmd.AddCommand(placesListCmd(a))
	cmd.AddCommand(placesEventsCmd(a))
	cmd.AddCommand(placesSearchCmd(a, "nearest", "Places nearest to a point"))
	cmd.AddCommand(placesSearchCmd(a, "bounds", "Places whose distance limit covers a point"))
	cmd.AddCommand(placesSearchCmd(a, "within", "Places inside a circle or rectangle"))
	cmd.AddCommand(placesSearchCmd(a, "intersects", "Places overlapping a circle or rectangle"))
	cmd.AddCommand(placesSaveCmd(a))
	cmd.AddCommand(placesDeleteCmd(a))
	return cmd
}

func placesGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authenticate(cmd.Context()); err != nil {
				return err
			}
			place, err := a.client.Places().WithID(args[0]).Get(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(place)
		},
	}
}

func placesListCmd(a *app) *cobra.Command {
	var f listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List places",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authenticate(cmd.Context()); err != nil {
				return err
			}
			places, err := applyList(a.client.Places(), &f).All(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(places)
		},
	}
	f.register(cmd)
	return cmd
}

func placesEventsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "events <id>",
		Short: "List events held at a place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authenticate(cmd.Context()); err != nil {
				return err
			}
			events, err := a.client.Places().WithID(args[0]).Events(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(events)
		},
	}
}

// geoFlags holds the search geometry. A rectangle is used when --rect is
// set, a circle otherwise.
type geoFlags struct {
	lat, lon float64
	radius   float64
	rect     []float64
}

func placesSearchCmd(a *app, kind, short string) *cobra.Command {
	var (
		g geoFlags
		f listFlags
	)
	cmd := &cobra.Command{
		Use:   kind,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authenticate(cmd.Context()); err != nil {
				return err
			}
			q := applyList(a.client.Places(), &f)
			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
				q.WithCenter(g.lat, g.lon)
			}
			if g.radius != 0 {
				q.WithRadius(g.radius)
			}
			if len(g.rect) > 0 {
				if len(g.rect) != 4 {
					return errors.New("--rect needs min_lat,min_lon,max_lat,max_lon")
				}
				q.WithRectangle(g.rect[0], g.rect[1], g.rect[2], g.rect[3])
			}

			var (
				places []*geocore.Place
				err    error
			)
			rect := len(g.rect) > 0
			switch {
			case kind == "nearest":
				places, err = q.Nearest(cmd.Context())
			case kind == "bounds":
				places, err = q.SmallestBounds(cmd.Context())
			case kind == "within" && rect:
				places, err = q.WithinRectangle(cmd.Context())
			case kind == "within":
				places, err = q.WithinCircle(cmd.Context())
			case kind == "intersects" && rect:
				places, err = q.IntersectsRectangle(cmd.Context())
			default:
				places, err = q.IntersectsCircle(cmd.Context())
			}
			if err != nil {
				return err
			}
			return a.render(places)
		},
	}
	cmd.Flags().Float64Var(&g.lat, "lat", 0, "Center latitude")
	cmd.Flags().Float64Var(&g.lon, "lon", 0, "Center longitude")
	if kind == "within" || kind == "intersects" {
		cmd.Flags().Float64Var(&g.radius, "radius", 0, "Circle radius in meters")
		cmd.Flags().Float64SliceVar(&g.rect, "rect", nil, "Rectangle as min_lat,min_lon,max_lat,max_lon")
	}
	f.register(cmd)
	return cmd
}

func placesSaveCmd(a *app) *cobra.Command {
	var (
		id, name, shortName string
		lat, lon, limit     float64
		tags, untags        []string
	)
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create a place, or update it with --id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.authenticate(ctx); err != nil {
				return err
			}

			place := &geocore.Place{}
			if id != "" {
				existing, err := a.client.Places().WithID(id).Get(ctx)
				if err != nil {
					return err
				}
				place = existing
			}
			if cmd.Flags().Changed("name") {
				place.Name = geocore.String(name)
			}
			if cmd.Flags().Changed("short-name") {
				place.ShortName = geocore.String(shortName)
			}
			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
				place.Point = geocore.NewPoint(lat, lon)
			}
			if cmd.Flags().Changed("distance-limit") {
				place.DistanceLimit = geocore.Float64(limit)
			}
			tagArgs(&place.Taggable, tags)
			if len(untags) > 0 {
				place.Untag(untags...)
			}

			saved, err := a.client.PlaceOperation().Save(ctx, place)
			if err != nil {
				return err
			}
			return a.render(saved)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Place id to update")
	cmd.Flags().StringVar(&name, "name", "", "Name")
	cmd.Flags().StringVar(&shortName, "short-name", "", "Short name")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude")
	cmd.Flags().Float64Var(&limit, "distance-limit", 0, "Distance limit in meters")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag id or name to add (repeatable)")
	cmd.Flags().StringSliceVar(&untags, "untag", nil, "Tag id or name to remove (repeatable)")
	return cmd
}

func placesDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.authenticate(ctx); err != nil {
				return err
			}
			place, err := a.client.Places().WithID(args[0]).Get(ctx)
			if err != nil {
				return err
			}
			deleted, err := a.client.PlaceOperation().Delete(ctx, place)
			if err != nil {
				return err
			}
			return a.render(deleted)
		},
	}
}

func checkinCmd(a *app) *cobra.Command {
	var (
		lat, lon, accuracy float64
		at                 string
	)
	cmd := &cobra.Command{
		Use:   "checkin <place-id>",
		Short: "Check the logged-in user in at a place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.authenticate(ctx); err != nil {
				return err
			}
			when := time.Now()
			if at != "" {
				t, err := parseInstant(at)
				if err != nil {
					return err
				}
				when = t
			}
			place := &geocore.Place{}
			place.ID = args[0]
			checkin, err := a.client.PlaceOperation().CheckinAt(ctx, place, lat, lon, accuracy, when)
			if err != nil {
				return fmt.Errorf("checkin at %s: %w", args[0], err)
			}
			return a.render(checkin)
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude")
	cmd.Flags().Float64Var(&accuracy, "accuracy", 0, "Accuracy in meters")
	cmd.Flags().StringVar(&at, "at", "", "Checkin time (default: now)")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}
