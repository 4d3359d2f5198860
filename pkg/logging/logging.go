package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LogLevel defines the severity of the log entry.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String makes LogLevel satisfy the fmt.Stringer interface.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo // Default to INFO for unknown
	}
}

// ParseLevel converts a configuration string such as "debug" or "WARN" into a LogLevel.
// Unknown values fall back to LevelInfo and report ok=false.
func ParseLevel(s string) (level LogLevel, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, true
	case "info", "":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}

var (
	mu            sync.RWMutex
	defaultLogger *slog.Logger
)

// InitForCLI initializes the logging system with a text handler writing to output.
// It may be called more than once; the last call wins.
func InitForCLI(filterLevel LogLevel, output io.Writer) {
	opts := &slog.HandlerOptions{
		Level: filterLevel.SlogLevel(),
	}

	logger := slog.New(slog.NewTextHandler(output, opts))

	mu.Lock()
	defaultLogger = logger
	mu.Unlock()

	slog.SetDefault(logger)
}

// Logger returns the configured *slog.Logger so that third-party libraries
// accepting a structured logger log through the same handler.
// Before InitForCLI is called it returns slog.Default().
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if defaultLogger == nil {
		return slog.Default()
	}
	return defaultLogger
}

func logInternal(level LogLevel, subsystem string, err error, messageFmt string, args ...interface{}) {
	logger := Logger()
	if !logger.Enabled(context.Background(), level.SlogLevel()) {
		return
	}

	msg := messageFmt
	if len(args) > 0 {
		msg = fmt.Sprintf(messageFmt, args...)
	}

	attrs := []slog.Attr{slog.String("subsystem", subsystem)}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	logger.LogAttrs(context.Background(), level.SlogLevel(), msg, attrs...)
}

// Debug logs a debug message.
func Debug(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelDebug, subsystem, nil, messageFmt, args...)
}

// Info logs an informational message.
func Info(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelInfo, subsystem, nil, messageFmt, args...)
}

// Warn logs a warning message.
func Warn(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelWarn, subsystem, nil, messageFmt, args...)
}

// Error logs an error message.
func Error(subsystem string, err error, messageFmt string, args ...interface{}) {
	logInternal(LevelError, subsystem, err, messageFmt, args...)
}

// AuditEvent describes a security-relevant credential operation.
// Token values must never be placed in any field.
type AuditEvent struct {
	// Action is a machine-readable name such as "token_stored".
	Action string
	// Outcome is "success" or "failure".
	Outcome string
	// Key is the storage key the operation touched.
	Key string
	// Err is set when Outcome is "failure".
	Err error
}

// Audit logs a SECURITY_AUDIT line at INFO level (WARN on failure) so log
// aggregation can filter credential lifecycle events.
func Audit(event AuditEvent) {
	level := slog.LevelInfo
	if event.Err != nil {
		level = slog.LevelWarn
	}

	args := []any{
		"event", event.Action,
		"outcome", event.Outcome,
	}
	if event.Key != "" {
		args = append(args, "key", event.Key)
	}
	if event.Err != nil {
		args = append(args, "error", event.Err.Error())
	}

	Logger().Log(context.Background(), level, "SECURITY_AUDIT: "+event.Action, args...)
}

// Discard silences all logging. Used by tests and by the CLI in quiet mode.
func Discard() {
	InitForCLI(LevelError+1, io.Discard)
}

// InitFromString is a convenience wrapper used by the CLI: it parses level and
// writes to stderr, warning once when the level string is not recognised.
func InitFromString(level string) {
	parsed, ok := ParseLevel(level)
	InitForCLI(parsed, os.Stderr)
	if !ok {
		Warn("Logging", "Unknown log level %q, using %s", level, parsed)
	}
}
