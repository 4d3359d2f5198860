package token

import (
	"context"
	"fmt"
	"sync"

	"github.com/giantswarm/authsession/internal/config"
	"github.com/giantswarm/authsession/internal/storage"
	"github.com/giantswarm/authsession/pkg/logging"
)

// Store reads and writes the session token through a storage.Storage.
//
// SECURITY: token values are never logged. Set and Remove emit
// SECURITY_AUDIT lines carrying only the storage key and the outcome.
//
// Thread-safety: reads and writes are serialized by a read/write lock, so a
// Get never observes a partially applied Set.
type Store struct {
	mu      sync.RWMutex
	storage storage.Storage
	readAs  string
	storeAs string
}

// NewStore creates a Store on top of s using the token settings in cfg.
func NewStore(s storage.Storage, cfg config.TokenConfig) *Store {
	return &Store{
		storage: s,
		readAs:  config.Resolve(cfg.ReadAs, config.DefaultTokenKey),
		storeAs: config.Resolve(cfg.StoreAs, config.DefaultTokenKey),
	}
}

// Key resolves the storage key: key when set, else the configured storeAs.
func (s *Store) Key(key string) string {
	return config.Resolve(key, s.storeAs)
}

// Get returns the token stored under key. It returns ErrNotFound when
// nothing is stored.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	key = s.Key(key)

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok, err := s.storage.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to read token %s: %w", key, err)
	}
	if !ok || value == "" {
		return "", ErrNotFound
	}
	return value, nil
}

// Has reports whether a token is stored under key. Storage errors count
// as absent.
func (s *Store) Has(ctx context.Context, key string) bool {
	_, err := s.Get(ctx, key)
	return err == nil
}

// Set extracts the token from v with the configured read path (see Read),
// persists it under key and returns it.
func (s *Store) Set(ctx context.Context, v any, key string) (string, error) {
	key = s.Key(key)

	tok, err := Read(v, s.readAs)
	if err != nil {
		logging.Audit(logging.AuditEvent{Action: "token_store_failed", Outcome: "failure", Key: key, Err: err})
		return "", err
	}
	if tok == "" {
		logging.Audit(logging.AuditEvent{Action: "token_store_failed", Outcome: "failure", Key: key, Err: ErrEmptyToken})
		return "", ErrEmptyToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Set(ctx, key, tok); err != nil {
		logging.Audit(logging.AuditEvent{Action: "token_store_failed", Outcome: "failure", Key: key, Err: err})
		return "", fmt.Errorf("failed to store token %s: %w", key, err)
	}

	logging.Audit(logging.AuditEvent{Action: "token_stored", Outcome: "success", Key: key})
	return tok, nil
}

// Remove deletes the token under key and reports whether one was present.
func (s *Store) Remove(ctx context.Context, key string) (bool, error) {
	key = s.Key(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.storage.Remove(ctx, key)
	if err != nil {
		logging.Audit(logging.AuditEvent{Action: "token_delete_failed", Outcome: "failure", Key: key, Err: err})
		return false, fmt.Errorf("failed to remove token %s: %w", key, err)
	}
	if removed {
		logging.Audit(logging.AuditEvent{Action: "token_deleted", Outcome: "success", Key: key})
	} else {
		logging.Debug("TokenStore", "No token stored under %s", key)
	}
	return removed, nil
}
