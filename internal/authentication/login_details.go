package authentication

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
)

// LoginDetailsKey is the storage key for remembered login details.
const LoginDetailsKey = "login_details"

// LoginDetails returns the remembered login details (for example the last
// username). It returns ErrNoLoginDetails when nothing is stored.
func (a *Authenticator) LoginDetails(ctx context.Context) (map[string]any, error) {
	raw, ok, err := a.storage.Get(ctx, LoginDetailsKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read login details: %w", err)
	}
	if !ok || raw == "" {
		return nil, ErrNoLoginDetails
	}

	var details map[string]any
	if err := json.Unmarshal([]byte(raw), &details); err != nil {
		return nil, fmt.Errorf("failed to decode login details: %w", err)
	}
	if details == nil {
		return nil, ErrNoLoginDetails
	}
	return details, nil
}

// UpdateLoginDetails merges details into the stored login details.
// Keys in details replace stored keys; other stored keys are kept.
func (a *Authenticator) UpdateLoginDetails(ctx context.Context, details map[string]any) error {
	merged, err := a.LoginDetails(ctx)
	if err != nil {
		// Unreadable details are replaced rather than blocking the update.
		merged = make(map[string]any, len(details))
	}
	maps.Copy(merged, details)

	data, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("failed to encode login details: %w", err)
	}
	if err := a.storage.Set(ctx, LoginDetailsKey, string(data)); err != nil {
		return fmt.Errorf("failed to store login details: %w", err)
	}
	return nil
}
