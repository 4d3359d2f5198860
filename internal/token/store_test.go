package token

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/authsession/internal/config"
	"github.com/giantswarm/authsession/internal/storage"
)

type failingStorage struct {
	err error
}

func (f failingStorage) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingStorage) Set(context.Context, string, string) error        { return f.err }
func (f failingStorage) Remove(context.Context, string) (bool, error)     { return false, f.err }

func newTestStore() (*Store, *storage.Memory) {
	mem := storage.NewMemory()
	return NewStore(mem, config.TokenConfig{ReadAs: "token", StoreAs: "auth_token"}), mem
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestStore()

	stored, err := store.Set(ctx, "abc123", "")
	require.NoError(t, err)
	assert.Equal(t, "abc123", stored)

	got, err := store.Get(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "abc123", got)

	raw, ok, _ := mem.Get(ctx, "auth_token")
	assert.True(t, ok, "empty key resolves to token.storeAs")
	assert.Equal(t, "abc123", raw)
}

func TestStore_GetMissing(t *testing.T) {
	store, _ := newTestStore()

	_, err := store.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, store.Has(context.Background(), ""))
}

func TestStore_RemoveTwice(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	_, err := store.Set(ctx, "abc123", "")
	require.NoError(t, err)

	removed, err := store.Remove(ctx, "")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Remove(ctx, "")
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = store.Get(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_PerCallKey(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	_, err := store.Set(ctx, "refresh", "refresh_token")
	require.NoError(t, err)

	assert.True(t, store.Has(ctx, "refresh_token"))
	assert.False(t, store.Has(ctx, ""))
}

func TestStore_SetFromResponse(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	stored, err := store.Set(ctx, map[string]any{"token": "tok1"}, "")
	require.NoError(t, err)
	assert.Equal(t, "tok1", stored)
}

func TestStore_SetRejectsEmpty(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	_, err := store.Set(ctx, "", "")
	assert.ErrorIs(t, err, ErrEmptyToken)

	_, err = store.Set(ctx, map[string]any{"token": ""}, "")
	assert.ErrorIs(t, err, ErrEmptyToken)

	assert.False(t, store.Has(ctx, ""))
}

func TestStore_SetMissingField(t *testing.T) {
	store, _ := newTestStore()

	_, err := store.Set(context.Background(), map[string]any{"access": "x"}, "")
	assert.ErrorIs(t, err, ErrTokenNotInResponse)
}

func TestStore_StorageFailure(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	store := NewStore(failingStorage{err: boom}, config.TokenConfig{})

	_, err := store.Get(ctx, "")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)

	_, err = store.Set(ctx, "abc", "")
	assert.ErrorIs(t, err, boom)

	removed, err := store.Remove(ctx, "")
	assert.ErrorIs(t, err, boom)
	assert.False(t, removed)
}

func TestStore_DefaultKey(t *testing.T) {
	store := NewStore(storage.NewMemory(), config.TokenConfig{})
	assert.Equal(t, config.DefaultTokenKey, store.Key(""))
	assert.Equal(t, "other", store.Key("other"))
}

func TestStore_DefaultReadPath(t *testing.T) {
	ctx := context.Background()
	store := NewStore(storage.NewMemory(), config.TokenConfig{})

	stored, err := store.Set(ctx, map[string]any{"token": "tok1"}, "")
	require.NoError(t, err)
	assert.Equal(t, "tok1", stored)

	tok, err := store.Get(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "tok1", tok)
}
