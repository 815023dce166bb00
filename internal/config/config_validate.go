// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/geocore-go/internal/validation"
)

// ErrNotConfigured is returned by RequireConnection when the endpoint or
// project is missing.
var ErrNotConfigured = errors.New("geocore endpoint not configured")

// Validate checks field ranges and formats.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if c.Geocore.BaseURL != "" && !strings.HasPrefix(c.Geocore.BaseURL, "http://") &&
		!strings.HasPrefix(c.Geocore.BaseURL, "https://") {
		return fmt.Errorf("GEOCORE_BASE_URL must use http or https, got %q", c.Geocore.BaseURL)
	}

	if c.TokenCache.Enabled && c.TokenCache.Path == "" {
		return fmt.Errorf("GEOCORE_TOKEN_CACHE_DIR is required when the token cache is enabled")
	}

	return nil
}

// RequireConnection reports whether enough is configured to talk to the API.
func (c *Config) RequireConnection() error {
	var missing []string
	if c.Geocore.BaseURL == "" {
		missing = append(missing, "GEOCORE_BASE_URL")
	}
	if c.Geocore.ProjectID == "" {
		missing = append(missing, "GEOCORE_PROJECT_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: set %s", ErrNotConfigured, strings.Join(missing, " and "))
	}
	return nil
}
