// Package logging provides the subsystem-tagged logging facade used across
// authsession.
//
// It is a thin layer over log/slog. Every entry carries a "subsystem"
// attribute so output can be filtered per component:
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Session", "Loaded configuration from %s", dir)
//	logging.Debug("HeaderManager", "Rebuild %d published", version)
//	logging.Error("TokenStore", err, "Failed to persist token under %s", key)
//
// # Subsystems
//
//   - Config: configuration loading and validation
//   - EventBus: channel creation and subscription lifecycle
//   - TokenStore: credential persistence
//   - HeaderManager: header rebuilds and single-flight coalescing
//   - Authentication: login, logout and session checks
//   - HTTPClient: outgoing requests
//   - TokenWatcher: storage change detection
//
// # Audit Logging
//
// Credential lifecycle operations are recorded with Audit. The line is prefixed
// with SECURITY_AUDIT and never contains token values:
//
//	logging.Audit(logging.AuditEvent{
//	    Action:  "token_stored",
//	    Outcome: "success",
//	    Key:     "token",
//	})
//
// # Third-party Libraries
//
// Logger returns the configured *slog.Logger. It satisfies the leveled logger
// interfaces of libraries such as go-retryablehttp, so their output goes
// through the same handler and level filter.
package logging
