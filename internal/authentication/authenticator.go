package authentication

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/giantswarm/authsession/internal/client"
	"github.com/giantswarm/authsession/internal/config"
	"github.com/giantswarm/authsession/internal/events"
	"github.com/giantswarm/authsession/internal/storage"
	"github.com/giantswarm/authsession/internal/token"
	"github.com/giantswarm/authsession/pkg/logging"
)

// HTTPClient sends requests with the session headers applied.
// *client.Client implements it.
type HTTPClient interface {
	Get(ctx context.Context, path string, query map[string]any) (*client.Response, error)
	Post(ctx context.Context, path string, body any) (*client.Response, error)
}

// TokenStore persists the session token. *token.Store implements it.
type TokenStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, v any, key string) (string, error)
	Remove(ctx context.Context, key string) (bool, error)
}

// Authenticator sequences login, logout, registration, password reset and
// session checks against the server, the token store and the event bus.
type Authenticator struct {
	bus       *events.Bus
	http      HTTPClient
	tokens    TokenStore
	storage   storage.Storage
	endpoints config.EndpointsConfig

	timeout   time.Duration

	mu   sync.RWMutex
	user User
	// generation changes on every login and logout. A check only caches
	// its user when the generation it started under is still current.
	generation uint64

	loggingIn atomic.Int32

	// checkGroup deduplicates concurrent user fetches per generation and
	// endpoint
	checkGroup singleflight.Group
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithRequestTimeout bounds the shared user fetch behind Check. Non-positive
// values keep the default.
func WithRequestTimeout(d time.Duration) Option {
	return func(a *Authenticator) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// New creates an Authenticator. store holds auxiliary values such as the
// login details; the token itself goes through tokens.
func New(bus *events.Bus, http HTTPClient, tokens TokenStore, store storage.Storage, cfg config.AuthenticationConfig, opts ...Option) *Authenticator {
	bus.SetChannels(events.SessionChannels...)

	a := &Authenticator{
		bus:       bus,
		http:      http,
		tokens:    tokens,
		storage:   store,
		endpoints: cfg.Endpoints,
		timeout:   config.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Login posts credentials to the login endpoint (endpoint, else
// authentication.endpoints.login). On success it stores the token found in
// the response, publishes auth:loggedIn with the response and returns it.
// Request errors are returned unchanged.
func (a *Authenticator) Login(ctx context.Context, credentials any, endpoint string) (*client.Response, error) {
	endpoint = config.Resolve(endpoint, a.endpoints.Login)

	a.loggingIn.Add(1)
	defer a.loggingIn.Add(-1)

	resp, err := a.http.Post(ctx, endpoint, credentials)
	if err != nil {
		logging.Debug("Authentication", "Login request to %s failed: %v", endpoint, err)
		return nil, err
	}

	if _, err := a.tokens.Set(ctx, resp, ""); err != nil {
		logging.Error("Authentication", err, "Login succeeded but the token could not be stored")
		return nil, fmt.Errorf("failed to store token: %w", err)
	}
	a.advance(nil)

	logging.Info("Authentication", "Logged in via %s", endpoint)
	a.bus.Publish(events.ChannelLoggedIn, resp)
	return resp, nil
}

// Logout removes the token, clears the cached user and publishes
// auth:loggedOut. It reports whether a token was removed. No request is
// sent.
func (a *Authenticator) Logout(ctx context.Context) bool {
	removed, err := a.tokens.Remove(ctx, "")
	if err != nil {
		logging.Error("Authentication", err, "Failed to remove token on logout")
		removed = false
	}

	a.advance(nil)
	a.bus.Publish(events.ChannelLoggedOut, removed)

	logging.Info("Authentication", "Logged out (token removed: %t)", removed)
	return removed
}

// ForgotPassword posts data to the forgot-password endpoint.
func (a *Authenticator) ForgotPassword(ctx context.Context, data any, endpoint string) (*client.Response, error) {
	return a.http.Post(ctx, config.Resolve(endpoint, a.endpoints.ForgotPassword), data)
}

// Register posts data to the register endpoint. It does not log in.
func (a *Authenticator) Register(ctx context.Context, data any, endpoint string) (*client.Response, error) {
	return a.http.Post(ctx, config.Resolve(endpoint, a.endpoints.Register), data)
}

// Check reports whether the stored token is still accepted by fetching the
// current user. Without a token it returns false without a request.
// Otherwise it publishes auth:check, fetches the user from endpoint, else
// authentication.endpoints.check, else authentication.endpoints.getUser,
// caches the user and returns true. Any failure returns false.
func (a *Authenticator) Check(ctx context.Context, endpoint string) bool {
	return a.Verify(ctx, endpoint) == nil
}

// Verify is Check with the failure reason: token.ErrNotFound without a
// token, ErrSessionChanged when a login or logout completed while the user
// was being fetched, the caller's context error, or the request error
// unchanged.
//
// Concurrent calls against the same endpoint share one request. The shared
// request is detached from the callers' contexts and bounded by the request
// timeout, so a caller giving up does not fail the others.
func (a *Authenticator) Verify(ctx context.Context, endpoint string) error {
	a.mu.RLock()
	generation := a.generation
	a.mu.RUnlock()

	if _, err := a.tokens.Get(ctx, ""); err != nil {
		if !errors.Is(err, token.ErrNotFound) {
			logging.Warn("Authentication", "Session check could not read the token: %v", err)
		}
		return err
	}

	a.bus.Publish(events.ChannelCheck, nil)

	endpoint = config.Resolve(endpoint, a.endpoints.Check)
	fetchCtx := context.WithoutCancel(ctx)
	ch := a.checkGroup.DoChan(fmt.Sprintf("%d|%s", generation, endpoint), func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(fetchCtx, a.timeout)
		defer cancel()

		resp, err := a.GetUser(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		return userFromResponse(resp)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		logging.Debug("Authentication", "Session check abandoned: %v", ctx.Err())
		return ctx.Err()
	}
	if res.Err != nil {
		logging.Debug("Authentication", "Session check failed: %v", res.Err)
		return res.Err
	}
	if res.Shared {
		logging.Debug("Authentication", "Session check shared an in-flight request")
	}

	user, _ := res.Val.(User)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.generation != generation {
		logging.Debug("Authentication", "Session changed during check, discarding user")
		return ErrSessionChanged
	}
	a.user = user.Clone()
	return nil
}

// GetUser fetches the current user from endpoint, else
// authentication.endpoints.getUser. Request errors are returned unchanged.
func (a *Authenticator) GetUser(ctx context.Context, endpoint string) (*client.Response, error) {
	return a.http.Get(ctx, config.Resolve(endpoint, a.endpoints.GetUser), nil)
}

// User returns a copy of the cached user, or nil.
func (a *Authenticator) User() User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.user.Clone()
}

// SetUser replaces the cached user.
func (a *Authenticator) SetUser(user User) {
	a.mu.Lock()
	a.user = user.Clone()
	a.mu.Unlock()
}

// advance starts a new session generation with user cached.
func (a *Authenticator) advance(user User) {
	a.mu.Lock()
	a.generation++
	a.user = user.Clone()
	a.mu.Unlock()
}

// HandleUnauthorized logs the session out when err is a 401 response and
// reports whether it did.
func (a *Authenticator) HandleUnauthorized(ctx context.Context, err error) bool {
	if !client.IsUnauthorized(err) {
		return false
	}
	logging.Info("Authentication", "Server rejected the session, logging out")
	a.Logout(ctx)
	return true
}
