package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/giantswarm/authsession/internal/headers"
)

// HeaderSource resolves request URLs and supplies the outgoing headers.
// *headers.Manager implements it.
type HeaderSource interface {
	GetURL(path string) string
	BuildQuery(params map[string]any) url.Values
	Headers(ctx context.Context) (*headers.HeaderSet, error)
}

// Client sends requests through a Requester with the session headers
// applied. Each request waits for any running header rebuild, so it carries
// one consistent HeaderSet.
type Client struct {
	requester Requester
	headers   HeaderSource
}

// New creates a Client.
func New(requester Requester, headers HeaderSource) *Client {
	return &Client{requester: requester, headers: headers}
}

// Get sends a GET request. Falsy query parameters are dropped.
func (c *Client) Get(ctx context.Context, path string, query map[string]any) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, URL: path, Query: c.headers.BuildQuery(query)})
}

// Post sends a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, URL: path, Body: body})
}

// Put sends a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, URL: path, Body: body})
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, query map[string]any) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, URL: path, Query: c.headers.BuildQuery(query)})
}

// Do resolves req.URL, applies the session headers and sends req. Headers
// already set on req take precedence over the session headers.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	set, err := c.headers.Headers(ctx)
	if err != nil {
		return nil, &StatusError{Method: req.Method, URL: req.URL, Err: fmt.Errorf("failed to wait for headers: %w", err)}
	}

	out := *req
	out.URL = c.headers.GetURL(req.URL)
	out.Header = make(http.Header)
	set.Apply(out.Header)
	for name, values := range req.Header {
		out.Header[http.CanonicalHeaderKey(name)] = values
	}

	return c.requester.Do(ctx, &out)
}
