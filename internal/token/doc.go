// Package token persists the session credential.
//
// A Store holds at most one token per storage key. Absence is reported as
// ErrNotFound rather than an empty string, and empty tokens are refused on
// write. Login responses are accepted directly: Store.Set pulls the token
// out of JSON bodies, decoded maps or *oauth2.Token values using the
// configured token.readAs path.
package token
