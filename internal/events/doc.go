// Package events provides the named-channel publish/subscribe bus that
// decouples session-state transitions from the components reacting to them.
//
// A Bus maps channel names to Streams. Streams are created lazily the first
// time a name is published to or subscribed on, and the same name always
// resolves to the same Stream for the lifetime of the Bus:
//
//	bus := events.NewBus()
//
//	sub := bus.Subscribe(events.ChannelLoggedIn, func(e events.Event) {
//		logging.Info("App", "logged in (event %s)", e.ID)
//	})
//	defer sub.Cancel()
//
//	bus.Publish(events.ChannelLoggedIn, response)
//
// Delivery semantics:
//
//   - Every subscriber registered when Publish is called receives the payload
//     exactly once; subscribers registered later do not.
//   - Subscribers of one channel are called in registration order on the
//     publisher's goroutine. There is no ordering across channels.
//   - A cancelled subscription receives nothing published after Cancel.
//   - A panicking handler is logged and does not prevent delivery to the
//     remaining subscribers.
//
// There is no package-level registry: the composition root owns the Bus and
// passes it to every component that needs it.
package events
