package authentication

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/giantswarm/authsession/internal/client"
)

// User is the authenticated user as returned by the server.
type User map[string]any

// Clone returns a copy of u. Nested values are shared.
func (u User) Clone() User {
	if u == nil {
		return nil
	}
	return maps.Clone(u)
}

// ID returns the "id" field formatted as a string, or "".
func (u User) ID() string {
	v, ok := u["id"]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// userFromResponse reads the "data" field of a user response. A missing or
// null field yields a nil user; a non-object is an error.
func userFromResponse(resp *client.Response) (User, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := resp.Decode(&envelope); err != nil {
		return nil, err
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil, nil
	}

	var user User
	if err := json.Unmarshal(envelope.Data, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	return user, nil
}
