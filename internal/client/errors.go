package client

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is a failed request. StatusCode is 0 for transport-level
// failures (connection refused, DNS, timeout).
type StatusError struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Method and URL identify the request.
	Method string
	URL    string
	// Body is the response body (may be nil).
	Body []byte
	// Err is the underlying error for transport failures.
	Err error
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s: HTTP %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("%s %s: request failed", e.Method, e.URL)
}

// Unwrap returns the underlying error.
func (e *StatusError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not a
// *StatusError or is a transport failure.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

// IsUnauthorized checks if the error is a 401.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsAuth checks if the error is a 401/403 authentication error.
func IsAuth(err error) bool {
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// IsTransport checks if the request never got an HTTP response.
func IsTransport(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == 0
}
