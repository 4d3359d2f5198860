package events

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/giantswarm/authsession/pkg/logging"
)

// Bus is a named-channel publish/subscribe registry.
//
// A Bus is constructed by the composition root and shared by reference.
// Each channel name maps to exactly one Stream for the lifetime of the Bus.
//
// Thread-safety: all methods are safe for concurrent use.
type Bus struct {
	mu       sync.Mutex
	channels map[string]*Stream
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		channels: make(map[string]*Stream),
	}
}

// Channel returns the stream for name, creating it on first use.
// Repeated calls with the same name return the same *Stream.
func (b *Bus) Channel(name string) *Stream {
	b.mu.Lock()
	defer b.mu.Unlock()

	stream, ok := b.channels[name]
	if !ok {
		stream = &Stream{name: name}
		b.channels[name] = stream
		logging.Debug("EventBus", "Created channel %s", name)
	}
	return stream
}

// SetChannels pre-creates the named channels.
func (b *Bus) SetChannels(names ...string) {
	for _, name := range names {
		b.Channel(name)
	}
}

// Channels returns the names of all channels created so far, sorted.
func (b *Bus) Channels() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	names := make([]string, 0, len(b.channels))
	for name := range b.channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Publish delivers payload to every current subscriber of name.
// Publishing to a channel without subscribers is a no-op.
func (b *Bus) Publish(name string, payload any) {
	b.Channel(name).Publish(payload)
}

// Subscribe registers handler on the channel called name.
func (b *Bus) Subscribe(name string, handler Handler) *Subscription {
	return b.Channel(name).Subscribe(handler)
}

// Stream is the broadcast stream behind one channel name.
type Stream struct {
	name string

	mu   sync.RWMutex
	subs []*Subscription
}

// Name returns the channel name.
func (s *Stream) Name() string {
	return s.name
}

// Len returns the number of active subscriptions.
func (s *Stream) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// Subscribe registers handler and returns a handle whose Cancel removes it.
// Handlers are invoked in registration order.
func (s *Stream) Subscribe(handler Handler) *Subscription {
	sub := &Subscription{
		id:      uuid.NewString(),
		stream:  s,
		handler: handler,
	}
	sub.active.Store(true)

	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()

	return sub
}

// Publish delivers payload to the subscribers registered at the time of the
// call, in registration order. Subscribers added while delivery is running do
// not receive it; subscribers cancelled before their turn are skipped.
//
// No lock is held while handlers run, so a handler may publish or subscribe.
func (s *Stream) Publish(payload any) {
	s.mu.RLock()
	snapshot := make([]*Subscription, len(s.subs))
	copy(snapshot, s.subs)
	s.mu.RUnlock()

	if len(snapshot) == 0 {
		return
	}

	event := Event{
		ID:          uuid.NewString(),
		Channel:     s.name,
		Payload:     payload,
		PublishedAt: time.Now(),
	}

	for _, sub := range snapshot {
		sub.deliver(event)
	}
}

func (s *Stream) remove(target *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subs {
		if sub == target {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

// Subscription is a registered handler on a Stream.
type Subscription struct {
	id      string
	stream  *Stream
	handler Handler
	active  atomic.Bool
	once    sync.Once
}

// ID returns the unique subscription identifier.
func (s *Subscription) ID() string {
	return s.id
}

// Channel returns the channel name this subscription listens on.
func (s *Subscription) Channel() string {
	return s.stream.name
}

// Active reports whether Cancel has not been called yet.
func (s *Subscription) Active() bool {
	return s.active.Load()
}

// Cancel removes the handler. It is safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.active.Store(false)
		s.stream.remove(s)
	})
}

func (s *Subscription) deliver(event Event) {
	if !s.active.Load() || s.handler == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			logging.Warn("EventBus", "Handler %s on channel %s panicked: %v", s.id, event.Channel, r)
		}
	}()

	s.handler(event)
}
