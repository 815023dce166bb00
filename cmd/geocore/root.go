// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tomtom215/geocore-go/internal/logging"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "geocore",
		Short:         "Command line client for the Geocore geospatial API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default: $GEOCORE_CONFIG or ./geocore.yaml)")
	flags.StringVarP(&a.output, "output", "o", "json", "Output format: json or yaml")
	flags.BoolVar(&a.metrics, "metrics", false, "Print client metrics to stderr on exit")
	flags.BoolVar(&a.noCache, "no-cache", false, "Do not read or write the token cache")

	root.AddCommand(loginCmd(a))
	root.AddCommand(logoutCmd(a))
	root.AddCommand(objectCmd(a))
	root.AddCommand(placesCmd(a))
	root.AddCommand(checkinCmd(a))
	root.AddCommand(eventsCmd(a))
	root.AddCommand(itemsCmd(a))
	root.AddCommand(tagsCmd(a))
	root.AddCommand(usersCmd(a))
	root.AddCommand(feedCmd(a))
	root.AddCommand(versionCmd())
	return root
}

// execute runs the CLI with args and releases every resource it opened.
// When the server rejects a cached token, the command runs once more and
// logs in with the configured credentials.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Every request of one invocation shares a correlation id in the logs.
	ctx = logging.ContextWithCorrelationID(ctx, logging.GenerateCorrelationID())

	err := runOnce(ctx, args, stdout, stderr, true)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return err
}

func runOnce(ctx context.Context, args []string, stdout, stderr io.Writer, mayRetry bool) error {
	a := &app{stdout: stdout, stderr: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	retry := mayRetry && err != nil && a.dropStaleToken(err)
	if cerr := a.close(); cerr != nil && err == nil {
		err = cerr
	}
	if retry {
		return runOnce(ctx, args, stdout, stderr, false)
	}
	return err
}
