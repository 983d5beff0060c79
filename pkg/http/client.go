package http

import (
	"net/http"
	"time"
)

type Client struct {
	httpClient *http.Client
}

// NewClient returns a client with the given overall timeout. A zero timeout
// leaves requests bounded only by their context.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// HTTPClient exposes the underlying client for SDKs that accept one.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}
