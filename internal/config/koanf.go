// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config files searched, in order of priority.
var DefaultConfigPaths = []string{
	"geocore.yaml",
	"geocore.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "GEOCORE_CONFIG"

func defaultConfig() *Config {
	return &Config{
		Geocore: GeocoreConfig{
			Timeout:   30 * time.Second,
			UserAgent: "geocore-go",
		},
		Breaker: BreakerConfig{
			Enabled:      false,
			MaxRequests:  3,               // concurrent probes in half-open state
			Interval:     time.Minute,     // reset counts after 1 minute closed
			Timeout:      2 * time.Minute, // open -> half-open
			MinRequests:  10,
			FailureRatio: 0.6,
		},
		RateLimit: RateLimitConfig{
			Enabled:           false,
			RequestsPerSecond: 10,
			Burst:             5,
		},
		TokenCache: TokenCacheConfig{
			Enabled: true,
			Path:    defaultTokenCachePath(),
			TTL:     24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load builds the configuration from layered sources:
//  1. Defaults
//  2. Config file: explicitPath if set, else GEOCORE_CONFIG, else the
//     first of DefaultConfigPaths and the user config dir that exists
//  3. Environment variables
//
// The result is validated before it is returned.
func Load(explicitPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := explicitPath
	if configPath == "" {
		configPath = findConfigFile()
	} else if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("config file %s: %w", configPath, err)
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// GEOCORE_BASE_URL -> geocore.base_url
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	paths := DefaultConfigPaths
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths[:len(paths):len(paths)], filepath.Join(dir, "geocore", "config.yaml"))
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var envMappings = map[string]string{
	"geocore_base_url":     "geocore.base_url",
	"geocore_project_id":   "geocore.project_id",
	"geocore_user_id":      "geocore.user_id",
	"geocore_password":     "geocore.password",
	"geocore_user_agent":   "geocore.user_agent",
	"geocore_timeout":      "geocore.timeout",
	"geocore_strict_lists": "geocore.strict_lists",

	"geocore_breaker_enabled":       "breaker.enabled",
	"geocore_breaker_max_requests":  "breaker.max_requests",
	"geocore_breaker_interval":      "breaker.interval",
	"geocore_breaker_timeout":       "breaker.timeout",
	"geocore_breaker_min_requests":  "breaker.min_requests",
	"geocore_breaker_failure_ratio": "breaker.failure_ratio",

	"geocore_rate_limit_enabled": "rate_limit.enabled",
	"geocore_rate_limit_rps":     "rate_limit.requests_per_second",
	"geocore_rate_limit_burst":   "rate_limit.burst",

	"geocore_token_cache":     "token_cache.enabled",
	"geocore_token_cache_dir": "token_cache.path",
	"geocore_token_cache_ttl": "token_cache.ttl",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps environment variable names to koanf paths.
// Unmapped variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
