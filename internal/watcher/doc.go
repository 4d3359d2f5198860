// Package watcher notices token changes made by other processes.
//
// The file storage driver keeps one file per key. When another authsession
// process logs in or out, the token file is written or removed; the
// Watcher sees that through fsnotify (or by polling modification times)
// and calls OnChange after a short debounce. The session wires OnChange to
// drop the storage cache and publish auth:check, so the header manager
// picks up the new state.
package watcher
