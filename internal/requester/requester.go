// Package requester provides a flexible HTTP client for making requests.
package requester

import (
	"context"
	"net/http"
	"time"
)

// HTTPClient is a thin wrapper around the standard http.Client that stamps a
// fixed User-Agent on every request and enforces a bounded timeout.
type HTTPClient struct {
	client    *http.Client
	userAgent string
}

// NewHTTPClient creates a new HTTPClient with the specified timeout and
// User-Agent string.
func NewHTTPClient(timeout time.Duration, userAgent string) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

// Do sends an HTTP request, setting the client's User-Agent.
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.client.Do(req)
}

// Get sends a GET request to the specified URL.
func (c *HTTPClient) Get(ctx context.Context, urlStr string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// Head sends a HEAD request to the specified URL.
func (c *HTTPClient) Head(ctx context.Context, urlStr string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, urlStr, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}
