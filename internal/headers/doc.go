// Package headers maintains the headers attached to every outgoing request.
//
// The Manager listens on the event bus for session changes (auth:loggingIn,
// auth:loggedIn, auth:loggedOut, auth:check) and rebuilds its HeaderSet:
// static http.headers first, then Authorization from the token store
// ("<scheme> <token>", or the raw token without a scheme). Without a token
// the Authorization header is absent, never empty.
//
// At most one rebuild runs at a time. Requests call Headers, which waits
// for a running rebuild, so they see either the previous or the new set and
// never a mix of both.
//
// The package also resolves request URLs against the base URL (GetURL) and
// builds query strings that skip falsy parameters (BuildQuery).
package headers
