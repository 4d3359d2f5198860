package authentication

import "errors"

var (
	// ErrNoLoginDetails is returned by LoginDetails when none are stored.
	ErrNoLoginDetails = errors.New("no login details stored")

	// ErrSessionChanged is returned by Verify when a login or logout
	// completed while the user was being fetched.
	ErrSessionChanged = errors.New("session changed during check")
)
