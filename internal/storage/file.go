package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/giantswarm/authsession/pkg/logging"
)

// DefaultStorageDir is the storage directory relative to the user's home.
const DefaultStorageDir = ".config/authsession/storage"

// File is a Storage that persists each key as a JSON document in a directory.
// An in-memory cache fronts the directory.
//
// SECURITY: values stored here include bearer tokens.
//   - The directory is created with 0700 permissions (owner only)
//   - Files are written with 0600 permissions (owner read/write only)
//   - File names are hashes of the key, never the key itself
//   - Values are NEVER logged
type File struct {
	mu    sync.RWMutex
	dir   string
	cache map[string]*entry
}

// FileConfig configures a File store.
type FileConfig struct {
	// Dir is the storage directory. Defaults to ~/.config/authsession/storage
	Dir string
}

type entry struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewFile creates a file-backed store, creating the directory if needed.
func NewFile(cfg FileConfig) (*File, error) {
	dir := cfg.Dir
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, DefaultStorageDir)
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &File{
		dir:   dir,
		cache: make(map[string]*entry),
	}, nil
}

// Dir returns the storage directory.
func (f *File) Dir() string {
	return f.dir
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}

	// Fast path with read lock
	f.mu.RLock()
	if e, ok := f.cache[key]; ok {
		f.mu.RUnlock()
		return e.Value, true, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()

	// Double-check in case another goroutine populated it
	if e, ok := f.cache[key]; ok {
		return e.Value, true, nil
	}

	e, err := f.readFile(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	f.cache[key] = e
	return e.Value, true, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	e := &entry{Key: key, Value: value, UpdatedAt: time.Now()}
	if err := f.writeFile(e); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	f.cache[key] = e
	logging.Debug("Storage", "Stored value for key %s", key)
	return nil
}

func (f *File) Remove(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	_, cached := f.cache[key]
	delete(f.cache, key)

	err := os.Remove(f.path(key))
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return cached, nil
	default:
		return cached, fmt.Errorf("failed to remove %s: %w", key, err)
	}
}

// Path returns the file that holds key.
func (f *File) Path(key string) string {
	return f.path(key)
}

// Invalidate drops keys from the in-memory cache so the next Get reads the
// file again. Without keys the whole cache is dropped. Used when another
// process may have changed the directory.
func (f *File) Invalidate(keys ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(keys) == 0 {
		f.cache = make(map[string]*entry)
		return
	}
	for _, key := range keys {
		delete(f.cache, key)
	}
}

// fileName derives a filesystem-safe name from key.
func fileName(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:16]) + ".json"
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, fileName(key))
}

func (f *File) writeFile(e *entry) error {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}
	return writeFileAtomic(f.path(e.Key), data)
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers in other processes never see a partial entry.
// CreateTemp opens the file with mode 0600.
func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move entry into place: %w", err)
	}
	return nil
}

func (f *File) readFile(key string) (*entry, error) {
	// #nosec G304 -- path is derived from a hash of the key
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		return nil, err
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entry: %w", err)
	}
	if e.Key != key {
		return nil, fmt.Errorf("entry key mismatch for %s", key)
	}
	return &e, nil
}
