// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/tomtom215/geocore-go/geocore"
	"github.com/tomtom215/geocore-go/internal/config"
	"github.com/tomtom215/geocore-go/internal/logging"
	"github.com/tomtom215/geocore-go/internal/metrics"
	"github.com/tomtom215/geocore-go/internal/tokencache"
)

// app holds the state shared by every command of one invocation.
type app struct {
	configPath string
	output     string
	metrics    bool
	noCache    bool

	stdout io.Writer
	stderr io.Writer

	cfg    *config.Config
	client *geocore.Client
	cache  *tokencache.Store

	// restoredUser is set when the token came from the cache.
	restoredUser string
}

// connect loads the configuration and builds the client. A cached token
// for the configured (or last) user is restored when available.
func (a *app) connect() error {
	if a.client != nil {
		return nil
	}
	if a.output != "json" && a.output != "yaml" {
		return fmt.Errorf("unsupported output format %q, want json or yaml", a.output)
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
		Output: a.stderr,
	})
	if err := cfg.RequireConnection(); err != nil {
		return err
	}

	a.cfg = cfg
	a.client = geocore.NewFromConfig(cfg)

	if !cfg.TokenCache.Enabled || a.noCache {
		return nil
	}
	store, err := tokencache.Open(cfg.TokenCache.Path, cfg.TokenCache.TTL)
	if err != nil {
		// A broken cache only costs a login.
		logging.Warn().Err(err).Str("path", cfg.TokenCache.Path).Msg("Token cache unavailable")
		return nil
	}
	a.cache = store

	entry, err := store.Load(cfg.Geocore.ProjectID, cfg.Geocore.UserID)
	switch {
	case err == nil:
		a.client.SetToken(entry.UserID, entry.Token)
		a.restoredUser = entry.UserID
		logging.Debug().Str("user_id", entry.UserID).Msg("Restored cached token")
	case !errors.Is(err, tokencache.ErrNotFound):
		logging.Warn().Err(err).Msg("Failed to read token cache")
	}
	return nil
}

// authenticate connects and makes sure a token is held, logging in with
// the configured credentials when nothing is cached.
func (a *app) authenticate(ctx context.Context) error {
	if err := a.connect(); err != nil {
		return err
	}
	if a.client.Token() != "" {
		return nil
	}
	if a.cfg.Geocore.UserID == "" || a.cfg.Geocore.Password == "" {
		return errors.New("not logged in: run geocore login or set GEOCORE_USER_ID and GEOCORE_PASSWORD")
	}
	return a.login(ctx, a.cfg.Geocore.UserID, a.cfg.Geocore.Password)
}

// dropStaleToken forgets a cached token the server rejected. It reports
// whether the command can run again, which needs configured credentials.
func (a *app) dropStaleToken(err error) bool {
	if a.restoredUser == "" || !errors.Is(err, geocore.ErrUnauthorizedAccess) {
		return false
	}
	if a.cache != nil {
		if derr := a.cache.Delete(a.cfg.Geocore.ProjectID, a.restoredUser); derr != nil {
			logging.Warn().Err(derr).Msg("Failed to remove rejected token from cache")
		}
	}
	a.client.ClearToken()
	logging.Warn().Str("user_id", a.restoredUser).Msg("Cached token rejected by the server")
	a.restoredUser = ""
	return a.cfg.Geocore.UserID != "" && a.cfg.Geocore.Password != ""
}

func (a *app) login(ctx context.Context, userID, password string) error {
	token, err := a.client.Login(ctx, userID, password)
	if err != nil {
		return err
	}
	if a.cache != nil {
		err := a.cache.Save(tokencache.Entry{
			ProjectID: a.cfg.Geocore.ProjectID,
			UserID:    userID,
			Token:     token,
		})
		if err != nil {
			logging.Warn().Err(err).Msg("Failed to cache token")
		}
	}
	return nil
}

// render prints v in the selected output format.
func (a *app) render(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if a.output != "yaml" {
		_, err = fmt.Fprintf(a.stdout, "%s\n", data)
		return err
	}

	// Going through JSON keeps the field names of the json tags.
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	enc := yaml.NewEncoder(a.stdout)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func (a *app) close() error {
	var errs []error
	if a.metrics {
		if err := metrics.WriteText(a.stderr); err != nil {
			errs = append(errs, err)
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			errs = append(errs, err)
		}
		a.cache = nil
	}
	return errors.Join(errs...)
}
