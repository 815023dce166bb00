// Geocore Go - Client Library and CLI for the Geocore Geospatial API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocore-go

package geocore

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/geocore-go/internal/config"
	"github.com/tomtom215/geocore-go/internal/logging"
)

// AccessTokenHeader carries the token returned by Login on every request.
const AccessTokenHeader = "Geocore-Access-Token"

const defaultUserAgent = "geocore-go"

// Client holds the connection configuration and the current access token.
// It is safe for concurrent use; Login and SetToken take the write lock and
// every request takes the read lock.
type Client struct {
	mu        sync.RWMutex
	baseURL   string
	projectID string
	token     string
	userID    string

	httpClient  *http.Client
	userAgent   string
	logger      zerolog.Logger
	strictLists bool
	breaker     *circuitBreaker
	limiter     *rate.Limiter

	// timeout is applied once every option has run, so it holds whichever
	// HTTP client ends up installed.
	timeout *time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the HTTP client timeout. It applies to the client given
// to WithHTTPClient as well, in either order, without modifying it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = &d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger for request tracing.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithStrictLists makes list terminals fail with InvalidServerResponse when
// the result is not a JSON array. By default such results become an empty list.
func WithStrictLists(strict bool) Option {
	return func(c *Client) {
		c.strictLists = strict
	}
}

// WithCircuitBreaker wraps every HTTP exchange in a circuit breaker.
func WithCircuitBreaker(settings BreakerSettings) Option {
	return func(c *Client) {
		c.breaker = newCircuitBreaker(settings)
	}
}

// WithRateLimit limits outgoing requests to rps with the given burst.
// Waiting honours the request context.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps > 0 {
			if burst < 1 {
				burst = 1
			}
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// New creates an unconfigured Client. Call Setup before issuing requests.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  defaultUserAgent,
		logger:     logging.WithComponent("geocore"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout != nil {
		hc := *c.httpClient
		hc.Timeout = *c.timeout
		c.httpClient = &hc
	}
	return c
}

// NewFromConfig builds a configured Client from loaded settings.
func NewFromConfig(cfg *config.Config, opts ...Option) *Client {
	base := []Option{
		WithTimeout(cfg.Geocore.Timeout),
		WithUserAgent(cfg.Geocore.UserAgent),
		WithStrictLists(cfg.Geocore.StrictLists),
	}
	if cfg.Breaker.Enabled {
		base = append(base, WithCircuitBreaker(BreakerSettings{
			Name:         "geocore-api",
			MaxRequests:  cfg.Breaker.MaxRequests,
			Interval:     cfg.Breaker.Interval,
			Timeout:      cfg.Breaker.Timeout,
			MinRequests:  cfg.Breaker.MinRequests,
			FailureRatio: cfg.Breaker.FailureRatio,
		}))
	}
	if cfg.RateLimit.Enabled {
		base = append(base, WithRateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	}
	c := New(append(base, opts...)...)
	return c.Setup(cfg.Geocore.BaseURL, cfg.Geocore.ProjectID)
}

// Setup stores the API base URL and project id and returns c for chaining.
// It performs no network I/O.
func (c *Client) Setup(baseURL, projectID string) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseURL = strings.TrimRight(baseURL, "/")
	c.projectID = projectID
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// ProjectID returns the configured project id.
func (c *Client) ProjectID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.projectID
}

// Token returns the current access token, or "" before login.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// UserID returns the id of the user that logged in.
func (c *Client) UserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID
}

// SetToken installs a previously obtained token, e.g. one restored from a
// cache, without calling Login.
func (c *Client) SetToken(userID, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userID = userID
	c.token = token
}

// ClearToken drops the current token; later requests are unauthenticated.
func (c *Client) ClearToken() {
	c.SetToken("", "")
}

// ResolvePath joins a service path onto the base URL.
func (c *Client) ResolvePath(relative string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.baseURL == "" {
		return "", invalidState("base URL is not set, call Setup first")
	}
	return c.baseURL + "/" + strings.TrimLeft(relative, "/"), nil
}

type loginResult struct {
	Token string `json:"token"`
}

// Login authenticates against POST /auth and stores the returned token.
func (c *Client) Login(ctx context.Context, userID, password string) (string, error) {
	c.mu.RLock()
	baseURL, projectID := c.baseURL, c.projectID
	c.mu.RUnlock()

	if baseURL == "" {
		return "", invalidState("base URL is not set, call Setup first")
	}
	if projectID == "" {
		return "", invalidState("project id is not set, call Setup first")
	}

	// Login always goes out without a token, even when re-authenticating.
	res, err := fetchOne[loginResult](ctx, c, request{
		method: http.MethodPost,
		path:   "/auth",
		params: Params{"id": userID, "password": password, "project_id": projectID},
		noAuth: true,
	})
	if err != nil {
		return "", err
	}
	if res.Token == "" {
		return "", invalidResponse(http.StatusOK, "auth result has no token", nil)
	}

	c.SetToken(userID, res.Token)
	c.logger.Info().Str("user_id", userID).Str("project_id", projectID).Msg("Logged in to Geocore")
	return res.Token, nil
}
