// Package client is the request collaborator of the session core.
//
// Requester is the transport abstraction; HTTPRequester implements it on
// go-retryablehttp. Client layers the session on top: it resolves paths
// through the header manager, drops falsy query parameters and attaches
// the current HeaderSet, including Authorization, to every request.
//
// Every failure is a *StatusError. StatusCode is the HTTP status, or 0 when
// no response was received.
package client
