// Package authentication orchestrates the session lifecycle.
//
// The Authenticator is the only component that changes session state:
//
//	Login   POST credentials, store the token, publish auth:loggedIn
//	Logout  remove the token, clear the user, publish auth:loggedOut
//	Check   with a token: publish auth:check, GET the user, cache it
//
// The header manager reacts to those events, so a request issued after
// Login returns carries the new Authorization header.
//
// Direct user actions (Login, Register, ForgotPassword, GetUser) return
// request errors unchanged. Check never returns an error: a missing token
// or a failed request both mean false.
package authentication
