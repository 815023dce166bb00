// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

/*
Package tokencache persists Geocore access tokens between CLI runs.

Tokens are stored in an embedded BadgerDB keyed by project and user. Each
project also remembers the user that logged in last, so commands can reuse
a session without naming the user again.

Entries expire after the configured TTL. Expiry is enforced twice: BadgerDB
drops the key on its own schedule, and Load rejects entries older than the
TTL even before that happens.

	store, err := tokencache.Open(cfg.TokenCache.Path, cfg.TokenCache.TTL)
	if err != nil {
		return err
	}
	defer store.Close()

	entry, err := store.Load(projectID, "")
	if errors.Is(err, tokencache.ErrNotFound) {
		// log in again
	}
*/
package tokencache
