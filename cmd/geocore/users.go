// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/geocore-go/geocore"
)

func usersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Register users and manage their relationships",
	}
	cmd.AddCommand(getCmd(a, "Show one user", func(ctx context.Context, c *geocore.Client, id string) (*geocore.User, error) {
		return c.Users().WithID(id).Get(ctx)
	}))
	cmd.AddCommand(usersRegisterCmd(a))
	cmd.AddCommand(usersRelationshipsCmd(a))
	cmd.AddCommand(usersJoinCmd(a))
	cmd.AddCommand(usersLeaveCmd(a))
	return cmd
}

func usersRegisterCmd(a *app) *cobra.Command {
	var (
		groups   []string
		email    string
		password string
		login    bool
	)
	cmd := &cobra.Command{
		Use:   "register <name>",
		Short: "Register a user with the default id, email and password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.connect(); err != nil {
				return err
			}
			user := geocore.DefaultUser(a.cfg.Geocore.ProjectID, args[0])
			if email != "" {
				user.Email = geocore.String(email)
			}
			if password != "" {
				user.Password = geocore.String(password)
			}
			pw := geocore.Deref(user.Password)

			registered, err := a.client.UserOperation().AddToGroups(groups...).Register(ctx, user)
			if err != nil {
				return err
			}
			if login {
				if err := a.login(ctx, registered.ID, pw); err != nil {
					return fmt.Errorf("registered %s but login failed: %w", registered.ID, err)
				}
			}
			return a.render(registered)
		},
	}
	cmd.Flags().StringSliceVar(&groups, "group", nil, "Group id to join (repeatable)")
	cmd.Flags().StringVar(&email, "email", "", "Email (default: <name>@geocore.jp)")
	cmd.Flags().StringVar(&password, "password", "", "Password (default: derived from the user id)")
	cmd.Flags().BoolVar(&login, "login", false, "Log in as the new user afterwards")
	return cmd
}

func usersRelationshipsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "relationships <user-id> <events|places|items>",
		Short:     "List a user's relationships of one kind",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"events", "places", "items"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.authenticate(ctx); err != nil {
				return err
			}
			q := a.client.Users().WithID(args[0])
			switch args[1] {
			case "events":
				rels, err := q.EventRelationships(ctx)
				if err != nil {
					return err
				}
				return a.render(rels)
			case "places":
				rels, err := q.PlaceRelationships(ctx)
				if err != nil {
					return err
				}
				return a.render(rels)
			case "items":
				rels, err := q.ItemRelationships(ctx)
				if err != nil {
					return err
				}
				return a.render(rels)
			default:
				return fmt.Errorf("unknown relationship kind %q, want events, places or items", args[1])
			}
		},
	}
}

// relationFlags describe one user relationship.
type relationFlags struct {
	user   string
	as     string
	data   []string
	amount int64
}

func (f *relationFlags) userID(a *app) string {
	if f.user != "" {
		return f.user
	}
	return a.client.UserID()
}

func usersJoinCmd(a *app) *cobra.Command {
	var f relationFlags
	cmd := &cobra.Command{
		Use:   "join <event|place|item> <id>",
		Short: "Create or update a relationship between a user and an object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.authenticate(ctx); err != nil {
				return err
			}
			data, err := parsePairs(f.data)
			if err != nil {
				return err
			}
			rel := geocore.RelationshipType(f.as)
			uid := f.userID(a)

			switch args[0] {
			case "event":
				op := a.client.UserEventOperation().WithUser(uid).WithEvent(args[1]).WithRelationship(rel)
				for k, v := range data {
					op.WithCustomData(k, v)
				}
				res, err := op.Save(ctx)
				if err != nil {
					return err
				}
				return a.render(res)
			case "place":
				op := a.client.UserPlaceOperation().WithUser(uid).WithPlace(args[1]).WithRelationship(rel)
				for k, v := range data {
					op.WithCustomData(k, v)
				}
				res, err := op.Save(ctx)
				if err != nil {
					return err
				}
				return a.render(res)
			case "item":
				op := a.client.UserItemOperation().WithUser(uid).WithItem(args[1]).WithRelationship(rel)
				if cmd.Flags().Changed("amount") {
					op.WithAmount(f.amount)
				}
				for k, v := range data {
					op.WithCustomData(k, v)
				}
				res, err := op.Save(ctx)
				if err != nil {
					return err
				}
				return a.render(res)
			default:
				return fmt.Errorf("unknown object kind %q, want event, place or item", args[0])
			}
		},
	}
	cmd.Flags().StringVar(&f.user, "user", "", "User id (default: the logged-in user)")
	cmd.Flags().StringVar(&f.as, "as", "", "Relationship type, e.g. ORGANIZER or OWNER")
	cmd.Flags().StringSliceVar(&f.data, "data", nil, "Custom data as key=value (repeatable)")
	cmd.Flags().Int64Var(&f.amount, "amount", 0, "Held amount (items only)")
	return cmd
}

func usersLeaveCmd(a *app) *cobra.Command {
	var f relationFlags
	cmd := &cobra.Command{
		Use:   "leave <event|place|item> <id>",
		Short: "Remove a relationship, or only the one given by --as",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.authenticate(ctx); err != nil {
				return err
			}
			rel := geocore.RelationshipType(f.as)
			uid := f.userID(a)

			switch args[0] {
			case "event":
				op := a.client.UserEventOperation().WithUser(uid).WithEvent(args[1])
				return renderLeave(ctx, a, rel, op.Delete, op.LeaveAs)
			case "place":
				op := a.client.UserPlaceOperation().WithUser(uid).WithPlace(args[1])
				return renderLeave(ctx, a, rel, op.Delete, op.LeaveAs)
			case "item":
				op := a.client.UserItemOperation().WithUser(uid).WithItem(args[1])
				return renderLeave(ctx, a, rel, op.Delete, op.LeaveAs)
			default:
				return fmt.Errorf("unknown object kind %q, want event, place or item", args[0])
			}
		},
	}
	cmd.Flags().StringVar(&f.user, "user", "", "User id (default: the logged-in user)")
	cmd.Flags().StringVar(&f.as, "as", "", "Only remove this relationship type")
	return cmd
}

func renderLeave[R any](
	ctx context.Context,
	a *app,
	rel geocore.RelationshipType,
	remove func(context.Context) (*R, error),
	leaveAs func(context.Context, geocore.RelationshipType) (*R, error),
) error {
	var (
		res *R
		err error
	)
	if rel == "" {
		res, err = remove(ctx)
	} else {
		res, err = leaveAs(ctx, rel)
	}
	if err != nil {
		return err
	}
	return a.render(res)
}
