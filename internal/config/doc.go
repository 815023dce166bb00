// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

/*
Package config loads geocore settings with Koanf v2.

Sources are layered with clear precedence: ENV > file > defaults. The file
is YAML and is looked up at GEOCORE_CONFIG, ./geocore.yaml, ./geocore.yml
and finally <user config dir>/geocore/config.yaml.

Example geocore.yaml:

	geocore:
	  base_url: https://api.geocore.jp
	  project_id: PRO-EXAMPLE-1
	  user_id: USE-EXAMPLE-1-alice
	  timeout: 15s
	breaker:
	  enabled: true
	rate_limit:
	  enabled: true
	  requests_per_second: 5
	logging:
	  level: debug

Environment variables:
  - GEOCORE_BASE_URL, GEOCORE_PROJECT_ID, GEOCORE_USER_ID, GEOCORE_PASSWORD
  - GEOCORE_TIMEOUT, GEOCORE_USER_AGENT, GEOCORE_STRICT_LISTS
  - GEOCORE_BREAKER_ENABLED, GEOCORE_BREAKER_MAX_REQUESTS, GEOCORE_BREAKER_INTERVAL,
    GEOCORE_BREAKER_TIMEOUT, GEOCORE_BREAKER_MIN_REQUESTS, GEOCORE_BREAKER_FAILURE_RATIO
  - GEOCORE_RATE_LIMIT_ENABLED, GEOCORE_RATE_LIMIT_RPS, GEOCORE_RATE_LIMIT_BURST
  - GEOCORE_TOKEN_CACHE, GEOCORE_TOKEN_CACHE_DIR, GEOCORE_TOKEN_CACHE_TTL
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
*/
package config
