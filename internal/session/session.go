package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/giantswarm/authsession/internal/authentication"
	"github.com/giantswarm/authsession/internal/client"
	"github.com/giantswarm/authsession/internal/config"
	"github.com/giantswarm/authsession/internal/events"
	"github.com/giantswarm/authsession/internal/headers"
	"github.com/giantswarm/authsession/internal/storage"
	"github.com/giantswarm/authsession/internal/token"
	"github.com/giantswarm/authsession/internal/watcher"
	"github.com/giantswarm/authsession/pkg/logging"
)

// ErrWatchUnsupported is returned by Watch when the storage driver keeps
// nothing on disk.
var ErrWatchUnsupported = errors.New("token watching requires the file storage driver")

// Session wires the event bus, token store, header manager, HTTP client and
// authenticator together. It owns every component it creates.
type Session struct {
	Config   config.Config
	Bus      *events.Bus
	Storage  storage.Storage
	Tokens   *token.Store
	Headers  *headers.Manager
	Client   *client.Client
	Auth     *authentication.Authenticator
	Messages *events.MessageTemplateEngine

	mu        sync.Mutex
	watcher   *watcher.Watcher
	closeOnce sync.Once
}

type options struct {
	storage   storage.Storage
	requester client.Requester
	bus       *events.Bus
}

// Option customizes New.
type Option func(*options)

// WithStorage replaces the storage selected by storage.driver.
func WithStorage(s storage.Storage) Option {
	return func(o *options) { o.storage = s }
}

// WithRequester replaces the HTTP requester.
func WithRequester(r client.Requester) Option {
	return func(o *options) { o.requester = r }
}

// WithBus shares an existing event bus.
func WithBus(b *events.Bus) Option {
	return func(o *options) { o.bus = b }
}

// New builds a session from cfg and rebuilds the headers once so a token
// persisted by an earlier run is used straight away.
func New(ctx context.Context, cfg config.Config, opts ...Option) (*Session, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.bus == nil {
		o.bus = events.NewBus()
	}
	if o.storage == nil {
		s, err := storage.New(cfg.Storage.Driver, cfg.Storage.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage: %w", err)
		}
		o.storage = s
	}
	if o.requester == nil {
		r, err := client.NewHTTPRequester(cfg.HTTP)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP requester: %w", err)
		}
		o.requester = r
	}

	tokens := token.NewStore(o.storage, cfg.Token)
	manager := headers.New(o.bus, tokens, cfg)
	httpClient := client.New(o.requester, manager)

	s := &Session{
		Config:   cfg,
		Bus:      o.bus,
		Storage:  o.storage,
		Tokens:   tokens,
		Headers:  manager,
		Client:   httpClient,
		Auth:     authentication.New(o.bus, httpClient, tokens, o.storage, cfg.Authentication, authentication.WithRequestTimeout(cfg.HTTP.Timeout)),
		Messages: events.NewMessageTemplateEngine(),
	}

	if err := manager.Rebuild(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to build initial headers: %w", err)
	}

	logging.Debug("Session", "Session ready (storage=%T)", o.storage)
	return s, nil
}

// Watch starts watching the token file for changes made by other
// processes. On a change the storage cache is dropped and auth:check is
// published. Calling Watch again is a no-op.
func (s *Session) Watch() error {
	file, ok := s.Storage.(*storage.File)
	if !ok {
		return ErrWatchUnsupported
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watcher != nil {
		return nil
	}

	tokenKey := s.Tokens.Key("")
	w := watcher.New(watcher.Config{
		Dir:   file.Dir(),
		Files: []string{filepath.Base(file.Path(tokenKey))},
		OnChange: func() {
			file.Invalidate(tokenKey)
			s.Bus.Publish(events.ChannelCheck, "token file changed")
		},
	})
	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to start token watcher: %w", err)
	}
	s.watcher = w
	return nil
}

// Close stops the watcher and detaches the header manager from the bus.
// Close is idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		if s.watcher != nil {
			_ = s.watcher.Stop()
			s.watcher = nil
		}
		s.mu.Unlock()

		s.Headers.Close()
	})
}
