// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

// Package logging provides the zerolog-based global logger shared by the
// geocore client and the geocore CLI.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "debug", Format: "json"})
//	logging.Info().Str("project", id).Msg("logged in")
//
// Every API request gets a request id; a CLI invocation gets a correlation
// id. Both travel through context.Context and are attached with Ctx:
//
//	ctx = logging.ContextWithRequestID(ctx, logging.GenerateRequestID())
//	logging.Ctx(ctx, logger).Debug().Msg("request sent")
//
// # Configuration
//
// The CLI maps these settings from its config file or environment:
//   - LOG_LEVEL: trace, debug, info, warn, error, disabled (default: warn)
//   - LOG_FORMAT: json, console (default: console)
//   - LOG_CALLER: include caller info (default: false)
//
// Always terminate log chains with .Msg() or .Send(); an unterminated event
// is never written.
package logging
