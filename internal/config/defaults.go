package config

import "time"

const (
	// DefaultTimeout is the default per-request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultTokenKey is the default field and storage key for the token.
	DefaultTokenKey = "token"

	// DefaultScheme is the default Authorization scheme.
	DefaultScheme = "Bearer"

	// DefaultStorageDriver is the default persistence driver.
	DefaultStorageDriver = "file"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"
)

// GetDefaultConfig returns the default configuration. Every call returns a
// fresh value, so callers may mutate the result.
func GetDefaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			Headers: map[string]string{
				"Accept":       "application/json",
				"Content-Type": "application/json",
			},
			Timeout: DefaultTimeout,
		},
		Token: TokenConfig{
			ReadAs:  DefaultTokenKey,
			StoreAs: DefaultTokenKey,
			Scheme:  DefaultScheme,
		},
		Storage: StorageConfig{
			Driver: DefaultStorageDriver,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}
