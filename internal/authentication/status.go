package authentication

import "context"

// Status is the session status, derived on demand.
type Status int

const (
	// Anonymous means no token is stored.
	Anonymous Status = iota
	// Authenticating means a login request is in flight.
	Authenticating
	// Authenticated means a token is stored.
	Authenticated
)

func (s Status) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Status reports the session status. A login in flight takes precedence
// over a stored token.
func (a *Authenticator) Status(ctx context.Context) Status {
	if a.loggingIn.Load() > 0 {
		return Authenticating
	}
	if _, err := a.tokens.Get(ctx, ""); err == nil {
		return Authenticated
	}
	return Anonymous
}
