// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

// Package main is the geocore command line client.
//
// Configuration is loaded via Koanf v2 (highest priority wins):
//   - Environment variables (GEOCORE_BASE_URL, GEOCORE_PROJECT_ID, ...)
//   - Config file (--config, GEOCORE_CONFIG, ./geocore.yaml)
//   - Built-in defaults
//
// Access tokens are cached in BadgerDB between runs, so a single
// "geocore login" is enough until the token expires. Results are printed to
// stdout as JSON or YAML; logs go to stderr.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}
