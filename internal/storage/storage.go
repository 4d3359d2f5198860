package storage

import (
	"context"
	"errors"
)

// ErrEmptyKey is returned when an operation is called without a key.
var ErrEmptyKey = errors.New("storage key cannot be empty")

// Storage is a string key/value store used to persist the session token and
// related values across process restarts.
//
// Implementations must be safe for concurrent use.
type Storage interface {
	// Get returns the value stored under key. The boolean is false when no
	// value exists; that is not an error.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key and reports whether a value was present.
	Remove(ctx context.Context, key string) (bool, error)
}

// Driver names accepted by New.
const (
	DriverFile   = "file"
	DriverMemory = "memory"
)

// New creates a Storage for the named driver. dir is only used by the file
// driver; an empty dir selects the default location.
func New(driver, dir string) (Storage, error) {
	switch driver {
	case "", DriverFile:
		return NewFile(FileConfig{Dir: dir})
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, &UnknownDriverError{Driver: driver}
	}
}

// UnknownDriverError is returned by New for unsupported driver names.
type UnknownDriverError struct {
	Driver string
}

func (e *UnknownDriverError) Error() string {
	return "unknown storage driver: " + e.Driver
}
