// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Geocore.BaseURL != "" {
		t.Errorf("Geocore.BaseURL should be empty by default, got %q", cfg.Geocore.BaseURL)
	}
	if cfg.Geocore.Timeout != 30*time.Second {
		t.Errorf("Geocore.Timeout = %v, want 30s", cfg.Geocore.Timeout)
	}
	if cfg.Geocore.StrictLists {
		t.Error("Geocore.StrictLists should be false by default")
	}
	if cfg.Breaker.Enabled {
		t.Error("Breaker.Enabled should be false by default")
	}
	if cfg.Breaker.MinRequests != 10 {
		t.Errorf("Breaker.MinRequests = %d, want 10", cfg.Breaker.MinRequests)
	}
	if cfg.Breaker.FailureRatio != 0.6 {
		t.Errorf("Breaker.FailureRatio = %v, want 0.6", cfg.Breaker.FailureRatio)
	}
	if cfg.RateLimit.Burst != 5 {
		t.Errorf("RateLimit.Burst = %d, want 5", cfg.RateLimit.Burst)
	}
	if !cfg.TokenCache.Enabled {
		t.Error("TokenCache.Enabled should be true by default")
	}
	if cfg.TokenCache.Path == "" {
		t.Error("TokenCache.Path should have a default")
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env  string
		want string
	}{
		{"GEOCORE_BASE_URL", "geocore.base_url"},
		{"GEOCORE_PROJECT_ID", "geocore.project_id"},
		{"GEOCORE_TIMEOUT", "geocore.timeout"},
		{"GEOCORE_BREAKER_FAILURE_RATIO", "breaker.failure_ratio"},
		{"GEOCORE_RATE_LIMIT_RPS", "rate_limit.requests_per_second"},
		{"GEOCORE_TOKEN_CACHE_DIR", "token_cache.path"},
		{"LOG_LEVEL", "logging.level"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Parallel()
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "geocore.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfigFile(t, `
geocore:
  base_url: https://api.example.com
  project_id: PRO-TEST-1
  user_id: USE-TEST-1-alice
  timeout: 5s
breaker:
  enabled: true
  min_requests: 4
rate_limit:
  enabled: true
  requests_per_second: 2.5
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Geocore.BaseURL != "https://api.example.com" {
		t.Errorf("BaseURL = %q", cfg.Geocore.BaseURL)
	}
	if cfg.Geocore.ProjectID != "PRO-TEST-1" {
		t.Errorf("ProjectID = %q", cfg.Geocore.ProjectID)
	}
	if cfg.Geocore.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Geocore.Timeout)
	}
	if !cfg.Breaker.Enabled || cfg.Breaker.MinRequests != 4 {
		t.Errorf("Breaker = %+v", cfg.Breaker)
	}
	// untouched keys keep their defaults
	if cfg.Breaker.FailureRatio != 0.6 {
		t.Errorf("Breaker.FailureRatio = %v, want default 0.6", cfg.Breaker.FailureRatio)
	}
	if cfg.RateLimit.RequestsPerSecond != 2.5 {
		t.Errorf("RateLimit.RequestsPerSecond = %v, want 2.5", cfg.RateLimit.RequestsPerSecond)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
geocore:
  base_url: https://file.example.com
  project_id: PRO-FILE-1
`)

	t.Setenv("GEOCORE_BASE_URL", "https://env.example.com")
	t.Setenv("GEOCORE_TIMEOUT", "90s")
	t.Setenv("GEOCORE_STRICT_LISTS", "true")
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Geocore.BaseURL != "https://env.example.com" {
		t.Errorf("BaseURL = %q, want env value", cfg.Geocore.BaseURL)
	}
	if cfg.Geocore.ProjectID != "PRO-FILE-1" {
		t.Errorf("ProjectID = %q, want file value", cfg.Geocore.ProjectID)
	}
	if cfg.Geocore.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v, want 90s", cfg.Geocore.Timeout)
	}
	if !cfg.Geocore.StrictLists {
		t.Error("StrictLists should be true from env")
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want error", cfg.Logging.Level)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "bad project id",
			content: "geocore:\n  project_id: not-an-id\n",
			wantErr: "ProjectID",
		},
		{
			name:    "non http url",
			content: "geocore:\n  base_url: ftp://example.com\n",
			wantErr: "http or https",
		},
		{
			name:    "failure ratio above one",
			content: "breaker:\n  failure_ratio: 1.5\n",
			wantErr: "FailureRatio",
		},
		{
			name:    "unknown log format",
			content: "logging:\n  format: xml\n",
			wantErr: "Format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfigFile(t, tt.content))
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Load() expected error for missing explicit file")
	}
}

func TestFindConfigFile(t *testing.T) {
	path := writeConfigFile(t, "geocore:\n  project_id: PRO-ENV-1\n")

	t.Setenv(ConfigPathEnvVar, path)
	if got := findConfigFile(); got != path {
		t.Errorf("findConfigFile() = %q, want %q", got, path)
	}

	t.Setenv(ConfigPathEnvVar, "/non/existent/geocore.yaml")
	if got := findConfigFile(); got == "/non/existent/geocore.yaml" {
		t.Error("findConfigFile() should skip a missing GEOCORE_CONFIG path")
	}
}

func TestRequireConnection(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	err := cfg.RequireConnection()
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("RequireConnection() = %v, want ErrNotConfigured", err)
	}
	if !strings.Contains(err.Error(), "GEOCORE_BASE_URL and GEOCORE_PROJECT_ID") {
		t.Errorf("error should list both variables, got %q", err.Error())
	}

	cfg.Geocore.BaseURL = "https://api.example.com"
	cfg.Geocore.ProjectID = "PRO-TEST-1"
	if err := cfg.RequireConnection(); err != nil {
		t.Errorf("RequireConnection() = %v, want nil", err)
	}
}
