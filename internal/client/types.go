package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, DELETE).
	Method string
	// URL is absolute, or rooted ("/auth/login") and resolved against the
	// requester's base URL.
	URL string
	// Body is the request body. Accepts []byte, string, io.Reader or any
	// value that will be JSON-encoded. nil sends no body.
	Body any
	// Header holds request headers.
	Header http.Header
	// Query holds URL query parameters, merged with any already in URL.
	Query url.Values
}

// Response is the result of a successful (2xx/3xx) request.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Header holds the response headers.
	Header http.Header
	// Body is the raw response body.
	Body []byte
}

// RawBody returns the undecoded body.
func (r *Response) RawBody() []byte {
	if r == nil {
		return nil
	}
	return r.Body
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if r == nil || len(r.Body) == 0 {
		return fmt.Errorf("failed to decode response: empty body")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// JSON decodes the body as a JSON object.
func (r *Response) JSON() (map[string]any, error) {
	var out map[string]any
	if err := r.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Requester performs HTTP requests. Failures, including non-2xx statuses,
// are returned as *StatusError.
type Requester interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// RequesterFunc adapts a function to Requester.
type RequesterFunc func(ctx context.Context, req *Request) (*Response, error)

// Do calls f.
func (f RequesterFunc) Do(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}
