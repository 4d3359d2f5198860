// Package storage provides the key/value persistence layer behind the token
// store.
//
// Two drivers are available. Memory keeps values for the lifetime of the
// process and is what tests use. File writes one 0600 JSON document per key
// into a 0700 directory (by default ~/.config/authsession/storage), so a
// session survives CLI invocations.
package storage
