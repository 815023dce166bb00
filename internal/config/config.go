// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds all settings for the geocore CLI and for clients built with
// geocore.NewFromConfig.
type Config struct {
	Geocore    GeocoreConfig    `koanf:"geocore"`
	Breaker    BreakerConfig    `koanf:"breaker"`
	RateLimit  RateLimitConfig  `koanf:"rate_limit"`
	TokenCache TokenCacheConfig `koanf:"token_cache"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// GeocoreConfig describes the API endpoint and credentials.
type GeocoreConfig struct {
	BaseURL   string `koanf:"base_url" validate:"omitempty,url"`
	ProjectID string `koanf:"project_id" validate:"omitempty,geocoreid"`
	UserID    string `koanf:"user_id"`
	Password  string `koanf:"password"`
	UserAgent string `koanf:"user_agent"`

	// Timeout bounds a single HTTP exchange.
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// StrictLists turns a non-array list result into an error instead of
	// an empty list.
	StrictLists bool `koanf:"strict_lists"`
}

// BreakerConfig configures the optional client-side circuit breaker.
type BreakerConfig struct {
	Enabled      bool          `koanf:"enabled"`
	MaxRequests  uint32        `koanf:"max_requests" validate:"gte=1"`
	Interval     time.Duration `koanf:"interval" validate:"gte=0"`
	Timeout      time.Duration `koanf:"timeout" validate:"gt=0"`
	MinRequests  uint32        `koanf:"min_requests" validate:"gte=1"`
	FailureRatio float64       `koanf:"failure_ratio" validate:"gt=0,lte=1"`
}

// RateLimitConfig configures the optional client-side rate limiter.
type RateLimitConfig struct {
	Enabled           bool    `koanf:"enabled"`
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"gt=0"`
	Burst             int     `koanf:"burst" validate:"gte=1"`
}

// TokenCacheConfig controls where the CLI persists access tokens.
type TokenCacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	Path    string        `koanf:"path"`
	TTL     time.Duration `koanf:"ttl" validate:"gte=0"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn warning error disabled off"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// defaultTokenCachePath returns the per-user cache directory for tokens.
func defaultTokenCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".geocore-tokens"
	}
	return filepath.Join(dir, "geocore", "tokens")
}
