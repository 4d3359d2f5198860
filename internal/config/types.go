package config

import "time"

// Config is the top-level configuration structure for authsession.
type Config struct {
	HTTP           HTTPConfig           `yaml:"http"`
	Token          TokenConfig          `yaml:"token"`
	Authentication AuthenticationConfig `yaml:"authentication"`
	Storage        StorageConfig        `yaml:"storage"`
	Log            LogConfig            `yaml:"log"`
}

// HTTPConfig configures the outgoing request collaborator.
type HTTPConfig struct {
	BaseURL  string            `yaml:"baseUrl,omitempty"`  // Base URL prefixed to relative request paths
	Headers  map[string]string `yaml:"headers,omitempty"`  // Static headers applied before Authorization
	Timeout  time.Duration     `yaml:"timeout,omitempty"`  // Per-request timeout (default: 30s)
	RetryMax int               `yaml:"retryMax,omitempty"` // Transport-level retries (default: 0)
}

// TokenConfig configures how the session token is read and stored.
type TokenConfig struct {
	ReadAs  string `yaml:"readAs,omitempty"`  // Field, possibly dotted, holding the token in a login response
	StoreAs string `yaml:"storeAs,omitempty"` // Storage key for the token
	Scheme  string `yaml:"scheme"`            // Authorization prefix; empty sends the raw token
}

// AuthenticationConfig groups the authentication endpoints.
type AuthenticationConfig struct {
	Endpoints EndpointsConfig `yaml:"endpoints"`
}

// EndpointsConfig lists the server endpoints used by the authenticator.
// Values may be absolute URLs or paths relative to http.baseUrl.
type EndpointsConfig struct {
	Login          string `yaml:"login,omitempty"`
	Register       string `yaml:"register,omitempty"`
	Check          string `yaml:"check,omitempty"`
	GetUser        string `yaml:"getUser,omitempty"`
	ForgotPassword string `yaml:"forgotPassword,omitempty"`
}

// StorageConfig selects the persistence driver for the token.
type StorageConfig struct {
	Driver string `yaml:"driver,omitempty"` // "file" or "memory" (default: file)
	Dir    string `yaml:"dir,omitempty"`    // Directory for the file driver
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level,omitempty"` // debug, info, warn or error (default: info)
}
