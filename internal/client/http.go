package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/giantswarm/authsession/internal/config"
	"github.com/giantswarm/authsession/pkg/logging"
)

// maxResponseBody bounds how much of a response body is read.
const maxResponseBody = 10 << 20

// HTTPRequester is the production Requester, built on go-retryablehttp.
// Retries only happen when http.retryMax is above zero.
type HTTPRequester struct {
	client *retryablehttp.Client
	origin *url.URL
}

// NewHTTPRequester creates a requester from the http configuration section.
func NewHTTPRequester(cfg config.HTTPConfig) (*HTTPRequester, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = cleanhttp.DefaultPooledClient()
	rc.HTTPClient.Timeout = timeout
	rc.RetryMax = cfg.RetryMax
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = logging.Logger()
	// Hand the final response back instead of a generic "giving up" error.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	r := &HTTPRequester{client: rc}
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse base URL: %w", err)
		}
		r.origin = &url.URL{Scheme: u.Scheme, Host: u.Host}
	}
	return r, nil
}

// Do sends req. Rooted URLs are resolved against the origin of the base
// URL. Responses with status 400 and above become *StatusError.
func (r *HTTPRequester) Do(ctx context.Context, req *Request) (*Response, error) {
	target, err := r.resolve(req)
	if err != nil {
		return nil, &StatusError{Method: req.Method, URL: req.URL, Err: err}
	}

	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, &StatusError{Method: req.Method, URL: target, Err: err}
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, &StatusError{Method: req.Method, URL: target, Err: err}
	}
	for name, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(name, v)
		}
	}
	if body != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	logging.Debug("HTTPClient", "%s %s", req.Method, target)

	// With the passthrough handler a response may come back together with
	// the retry policy's error; the response wins.
	resp, err := r.client.Do(httpReq)
	if resp == nil {
		if err == nil {
			err = fmt.Errorf("no response")
		}
		return nil, &StatusError{Method: req.Method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, &StatusError{Method: req.Method, URL: target, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode >= 400 {
		logging.Debug("HTTPClient", "%s %s returned %d", req.Method, target, resp.StatusCode)
		return nil, &StatusError{StatusCode: resp.StatusCode, Method: req.Method, URL: target, Body: data}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

func (r *HTTPRequester) resolve(req *Request) (string, error) {
	raw := req.URL
	if strings.HasPrefix(raw, "/") && r.origin != nil {
		raw = r.origin.String() + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid request URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("request URL %q is not absolute and no http.baseUrl is configured", req.URL)
	}

	if len(req.Query) > 0 {
		q := u.Query()
		for k, values := range req.Query {
			for _, v := range values {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func encodeBody(body any) (any, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	case io.Reader:
		return b, nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return bytes.NewReader(data), nil
}
