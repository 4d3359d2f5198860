package token

import "errors"

var (
	// ErrNotFound is returned when no token is stored under the resolved key.
	ErrNotFound = errors.New("token not found")

	// ErrEmptyToken is returned when asked to store an empty token.
	ErrEmptyToken = errors.New("token is empty")

	// ErrTokenNotInResponse is returned when a structured value has no token
	// at the configured read path.
	ErrTokenNotInResponse = errors.New("token not present in response")
)
