// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

/*
Package geocore is a client for the Geocore geospatial REST API.

# Session

A Client holds the API base URL, the project id and, after Login, the
access token sent as the Geocore-Access-Token header on every request.
It is safe for concurrent use.

	client := geocore.New(geocore.WithTimeout(10 * time.Second)).
	    Setup("https://api.geocore.jp", "PRO-MYPROJECT")
	if _, err := client.Login(ctx, "USE-MYPROJECT-alice", password); err != nil {
	    return err
	}

# Builders

Queries and operations are fluent builders. Chain methods only record
parameters; the terminal method (Get, All, Save, Delete, Nearest, ...)
issues exactly one request.

	places, err := client.Places().
	    WithCenter(35.6812, 139.7671).
	    WithRadius(500).
	    WithTagNames("cafe").
	    WithinCircle(ctx)

	place.Tag("TAG-MYPROJECT-1", "coffee")
	saved, err := client.PlaceOperation().Save(ctx, place)

Parameters for GET and DELETE go to the query string. POST sends them as
the JSON body, unless an entity body is also sent, in which case they move
to the query string.

# Responses

Every response is an envelope:

	{"status": "success", "result": ...}

A status other than "success" becomes an *Error of KindServerError
carrying the envelope code and message. HTTP 403 becomes
KindUnauthorizedAccess; any other non-200 status, an empty body, or a
missing status becomes KindInvalidServerResponse. Use errors.Is with the
Err* sentinels, or errors.As to reach the code and HTTP status.

List terminals that receive a non-array result return an empty slice by
default. WithStrictLists turns that case into KindInvalidServerResponse.

# Resilience

WithRateLimit spaces requests client-side and WithCircuitBreaker fails
fast once the API keeps failing. Neither retries: a rejected request
surfaces as KindTransport.
*/
package geocore
