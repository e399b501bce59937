// Package googlebooks provides access to the Google Books volumes API
// for catalog search.
package googlebooks

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://www.googleapis.com/books/v1/volumes"

// Client is a rate-limited Google Books search client.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	baseURL     string
	maxResults  int
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the volumes endpoint. Used by tests and for
// proxies.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithMaxResults bounds the number of results per search.
func WithMaxResults(n int) Option {
	return func(c *Client) { c.maxResults = n }
}

// WithRPS sets the outbound requests-per-second throttle.
func WithRPS(rps float64) Option {
	return func(c *Client) { c.rateLimiter = rate.NewLimiter(rate.Limit(rps), 2) }
}

// NewClient creates a Google Books client. Defaults: 12 results per
// search, 5 requests per second.
func NewClient(logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(5), 2),
		logger:      logger,
		baseURL:     defaultBaseURL,
		maxResults:  12,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// wait blocks until the rate limiter allows a request.
func (c *Client) wait(ctx context.Context) error {
	return c.rateLimiter.Wait(ctx)
}
