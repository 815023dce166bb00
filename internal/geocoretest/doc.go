// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

/*
Package geocoretest provides an in-memory Geocore API for tests.

The server is routed with chi and speaks the same envelope the real API
does: {"status": "success", "result": ...} on success and
{"status": "error", "code": ..., "message": ...} on failure. Every route
except /auth and /register requires a valid Geocore-Access-Token header
and answers 403 otherwise.

Usage:

	srv := geocoretest.New(t)
	client := geocore.New().Setup(srv.URL, geocoretest.ProjectID)
	if _, err := client.Login(ctx, geocoretest.UserID, geocoretest.Password); err != nil {
	    t.Fatal(err)
	}

Stub forces a status and raw body for one method and path, which is how
tests exercise malformed envelopes and 5xx responses. Requests records
everything received so tests can assert on the wire form.
*/
package geocoretest
