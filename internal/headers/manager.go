package headers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/giantswarm/authsession/internal/config"
	"github.com/giantswarm/authsession/internal/events"
	"github.com/giantswarm/authsession/internal/token"
	"github.com/giantswarm/authsession/pkg/logging"
)

// TokenSource supplies the current token. *token.Store implements it.
type TokenSource interface {
	Get(ctx context.Context, key string) (string, error)
}

// RefreshState reports whether a rebuild is running.
type RefreshState int

const (
	Idle RefreshState = iota
	Refreshing
)

func (s RefreshState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Refreshing:
		return "refreshing"
	default:
		return "unknown"
	}
}

// TriggerChannels are the bus channels that cause a rebuild.
var TriggerChannels = []string{
	events.ChannelLoggingIn,
	events.ChannelLoggedIn,
	events.ChannelLoggedOut,
	events.ChannelCheck,
}

// Stats are cumulative counters for a Manager.
type Stats struct {
	// Triggers is the number of rebuild requests, from events or Rebuild.
	Triggers uint64
	// Passes is the number of completed header builds.
	Passes uint64
	// Coalesced is the number of triggers that joined a running rebuild.
	Coalesced uint64
	// Version is the version of the current HeaderSet.
	Version uint64
}

// Manager owns the outgoing HeaderSet and keeps its Authorization header in
// step with the token store.
//
// Rebuilds are single-flight: while one runs, further triggers join it
// instead of starting another. A trigger that arrives after the running
// rebuild has read the token marks it dirty, and the same goroutine makes
// one more pass before going idle. Readers always see a whole HeaderSet
// because each pass publishes through an atomic pointer swap.
type Manager struct {
	cfg     config.Config
	tokens  TokenSource
	timeout time.Duration

	urlMu   sync.RWMutex
	baseURL string

	current atomic.Pointer[HeaderSet]
	version atomic.Uint64

	mu        sync.Mutex
	state     RefreshState
	done      chan struct{}
	tokenRead bool
	dirty     bool

	triggers  atomic.Uint64
	passes    atomic.Uint64
	coalesced atomic.Uint64

	subs      []*events.Subscription
	closeOnce sync.Once
}

// New creates a Manager and subscribes it to the session channels on bus.
// The initial HeaderSet holds the static headers only; call Rebuild to pick
// up a persisted token.
func New(bus *events.Bus, tokens TokenSource, cfg config.Config) *Manager {
	timeout := cfg.HTTP.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}

	m := &Manager{
		cfg:     cfg,
		tokens:  tokens,
		timeout: timeout,
	}
	m.current.Store(newHeaderSet(0, m.staticHeaders()))

	if bus != nil {
		for _, channel := range TriggerChannels {
			m.subs = append(m.subs, bus.Subscribe(channel, m.onEvent))
		}
	}

	return m
}

func (m *Manager) onEvent(e events.Event) {
	logging.Debug("HeaderManager", "Rebuilding headers on %s", e.Channel)
	m.trigger()
}

// Rebuild requests a rebuild and waits for it, or for ctx, to finish.
// If a rebuild is already running the call joins it.
// Rebuild failures never surface here: a missing token or storage error
// leaves the HeaderSet without Authorization.
func (m *Manager) Rebuild(ctx context.Context) error {
	done := m.trigger()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Headers waits for any running rebuild and returns the resulting
// HeaderSet.
func (m *Manager) Headers(ctx context.Context) (*HeaderSet, error) {
	m.mu.Lock()
	done := m.done
	m.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return m.current.Load(), nil
}

// Current returns the latest HeaderSet without waiting.
func (m *Manager) Current() *HeaderSet {
	return m.current.Load()
}

// State returns the current RefreshState.
func (m *Manager) State() RefreshState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Stats returns the cumulative counters.
func (m *Manager) Stats() Stats {
	return Stats{
		Triggers:  m.triggers.Load(),
		Passes:    m.passes.Load(),
		Coalesced: m.coalesced.Load(),
		Version:   m.current.Load().Version(),
	}
}

// Close cancels the event subscriptions. A running rebuild completes.
// Close is idempotent.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		for _, sub := range m.subs {
			sub.Cancel()
		}
		logging.Debug("HeaderManager", "Closed")
	})
}

// trigger starts a rebuild unless one is running and returns the channel
// closed when the rebuild, including any trailing pass, finishes.
func (m *Manager) trigger() <-chan struct{} {
	m.triggers.Add(1)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == Refreshing {
		m.coalesced.Add(1)
		if m.tokenRead {
			m.dirty = true
		}
		return m.done
	}

	done := make(chan struct{})
	m.state = Refreshing
	m.done = done
	m.tokenRead = false
	m.dirty = false

	go m.run(done)
	return done
}

func (m *Manager) run(done chan struct{}) {
	for {
		m.pass()

		m.mu.Lock()
		if m.dirty {
			m.dirty = false
			m.tokenRead = false
			m.mu.Unlock()
			continue
		}
		m.state = Idle
		m.done = nil
		m.mu.Unlock()

		close(done)
		return
	}
}

// pass builds and publishes one HeaderSet.
func (m *Manager) pass() {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	values := m.staticHeaders()

	m.mu.Lock()
	m.tokenRead = true
	m.mu.Unlock()

	tok, err := m.tokens.Get(ctx, "")
	switch {
	case err == nil && tok != "":
		values[AuthorizationHeader] = m.authorization(tok)
	case err == nil, errors.Is(err, token.ErrNotFound):
		delete(values, AuthorizationHeader)
	default:
		delete(values, AuthorizationHeader)
		logging.Warn("HeaderManager", "Failed to read token, Authorization removed: %v", err)
	}

	set := newHeaderSet(m.version.Add(1), values)
	m.current.Store(set)
	m.passes.Add(1)

	_, hasAuth := set.Authorization()
	logging.Debug("HeaderManager", "Published header set v%d (authorization=%t)", set.Version(), hasAuth)
}

func (m *Manager) authorization(tok string) string {
	if m.cfg.Token.Scheme == "" {
		return tok
	}
	return m.cfg.Token.Scheme + " " + tok
}

func (m *Manager) staticHeaders() map[string]string {
	values := make(map[string]string, len(m.cfg.HTTP.Headers)+1)
	for k, v := range m.cfg.HTTP.Headers {
		values[http.CanonicalHeaderKey(k)] = v
	}
	return values
}
