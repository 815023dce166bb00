// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tomtom215/geocore-go/geocore"
)

func objectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "object",
		Aliases: []string{"obj"},
		Short:   "Read any object by id and manage its binaries",
	}
	cmd.AddCommand(getCmd(a, "Show any object by id", func(ctx context.Context, c *geocore.Client, id string) (*geocore.Object, error) {
		return c.Objects().WithID(id).Get(ctx)
	}))
	cmd.AddCommand(objectBinsCmd(a))
	cmd.AddCommand(objectBinCmd(a))
	cmd.AddCommand(objectUploadCmd(a))
	cmd.AddCommand(objectDeleteBinCmd(a))
	return cmd
}

func objectBinsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bins <id>",
		Short: "List binary keys of an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authenticate(cmd.Context()); err != nil {
				return err
			}
			keys, err := a.client.Objects().WithID(args[0]).Binaries(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(keys)
		},
	}
}

func objectBinCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bin <id> <key>",
		Short: "Show binary metadata, including its download URL",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authenticate(cmd.Context()); err != nil {
				return err
			}
			info, err := a.client.Objects().WithID(args[0]).Binary(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			return a.render(info)
		},
	}
}

// savedObject returns a handle that binary operations accept for id.
func savedObject(ctx context.Context, c *geocore.Client, id string) (*geocore.Object, error) {
	return c.Objects().WithID(id).Get(ctx)
}

func objectUploadCmd(a *app) *cobra.Command {
	var contentType string
	cmd := &cobra.Command{
		Use:   "upload <id> <key> <file>",
		Short: "Upload a file as a binary of an object",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.authenticate(ctx); err != nil {
				return err
			}
			obj, err := savedObject(ctx, a.client, args[0])
			if err != nil {
				return err
			}

			f, err := os.Open(args[2])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[2], err)
			}
			defer f.Close()

			ct := contentType
			if ct == "" {
				ct = mime.TypeByExtension(filepath.Ext(args[2]))
			}
			info, err := a.client.UploadBinary(ctx, obj, args[1], ct, f)
			if err != nil {
				return err
			}
			return a.render(info)
		},
	}
	cmd.Flags().StringVar(&contentType, "content-type", "", "Content type (default: from the file extension)")
	return cmd
}

func objectDeleteBinCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-bin <id> <key>",
		Short: "Delete a binary of an object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.authenticate(ctx); err != nil {
				return err
			}
			obj, err := savedObject(ctx, a.client, args[0])
			if err != nil {
				return err
			}
			if err := a.client.DeleteBinary(ctx, obj, args[1]); err != nil {
				return err
			}
			return a.render(map[string]string{"id": args[0], "deleted": args[1]})
		},
	}
}
