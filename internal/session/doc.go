// Package session is the composition root.
//
// New builds one instance of every component and shares a single event
// bus between them:
//
//	storage ─► token.Store ─► headers.Manager ─► client.Client ─► authentication.Authenticator
//	                               ▲                                        │
//	                               └──────────── events.Bus ◄───────────────┘
//
// Tests and embedders replace the storage, the HTTP requester or the bus
// with options.
package session
