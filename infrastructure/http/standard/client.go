// ABOUTME: Standard library implementation of the core HTTPClient interface
// ABOUTME: Plain net/http client with a configurable timeout

package standard

import (
	"context"
	"io"
	"net/http"
	"time"

	"plugindex-api/core/interfaces"
)

// Client implements the HTTPClient interface using net/http.
type Client struct {
	client *http.Client
}

// NewClient creates an HTTP client with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		client: &http.Client{Timeout: timeout},
	}
}

// Get performs an HTTP GET request to the specified URL.
func (c *Client) Get(ctx context.Context, url string) (interfaces.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	return &response{resp: resp}, nil
}

// Post performs an HTTP POST request to the specified URL with the given body.
func (c *Client) Post(ctx context.Context, url string, body io.Reader) (interfaces.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	return &response{resp: resp}, nil
}

// response adapts *http.Response to the Response interface.
type response struct {
	resp *http.Response
}

func (r *response) StatusCode() int {
	return r.resp.StatusCode
}

func (r *response) Body() io.ReadCloser {
	return r.resp.Body
}

func (r *response) Header(key string) string {
	return r.resp.Header.Get(key)
}

var _ interfaces.HTTPClient = (*Client)(nil)
