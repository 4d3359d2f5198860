package events

import (
	"time"
)

// Session channels. Every component that reacts to authentication state
// changes subscribes to one or more of these names.
const (
	// ChannelLoggingIn is published by callers that are about to authenticate
	// and want outgoing headers reconciled first.
	ChannelLoggingIn = "auth:loggingIn"

	// ChannelLoggedIn is published after a login response has been stored.
	// The payload is the login response.
	ChannelLoggedIn = "auth:loggedIn"

	// ChannelLoggedOut is published after the stored token has been removed.
	ChannelLoggedOut = "auth:loggedOut"

	// ChannelCheck is published when a session check needs the stored token
	// reflected in outgoing headers, or when the token changed out-of-process.
	ChannelCheck = "auth:check"
)

// SessionChannels lists the channels the authentication subsystem uses.
var SessionChannels = []string{
	ChannelLoggingIn,
	ChannelLoggedIn,
	ChannelLoggedOut,
	ChannelCheck,
}

// Event is a single delivery on a channel.
type Event struct {
	// ID uniquely identifies one Publish call. Every subscriber of that
	// call receives the same ID.
	ID string

	// Channel is the name of the channel the event was published on.
	Channel string

	// Payload is the opaque value passed to Publish. It may be nil.
	Payload any

	// PublishedAt is when Publish was called.
	PublishedAt time.Time
}

// Handler receives events. Handlers run on the publisher's goroutine and
// must not block; long work belongs in a goroutine the handler starts.
type Handler func(Event)
