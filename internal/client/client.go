// Package client talks to the user creation endpoint over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/JonMunkholm/userimport/internal/core"
)

// DefaultTimeout bounds one request when Config.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// Config configures a Client.
type Config struct {
	// Endpoint is the full URL records are POSTed to.
	Endpoint string

	// Timeout for one request including reading the body.
	Timeout time.Duration

	// RateLimit caps requests per second. Zero means no limit.
	RateLimit float64

	// Transport allows injecting a custom HTTP transport (for tests/stubs).
	Transport http.RoundTripper
}

// Client submits records as JSON and reports whatever the endpoint answered.
type Client struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ core.UserClient = (*Client)(nil)

// New creates a Client.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Client{
		endpoint: cfg.Endpoint,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	return c
}

// CreateUser POSTs record to the endpoint. Any HTTP status is a response, not
// an error; an error means no complete response was obtained.
func (c *Client) CreateUser(ctx context.Context, record core.Record) (core.CreateResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return core.CreateResponse{}, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return core.CreateResponse{}, fmt.Errorf("encode record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return core.CreateResponse{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return core.CreateResponse{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.CreateResponse{}, fmt.Errorf("read response: %w", err)
	}

	return core.CreateResponse{StatusCode: resp.StatusCode, Body: string(body)}, nil
}
