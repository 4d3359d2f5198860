package headers

import (
	"math"
	"net/url"
	"testing"

	"github.com/giantswarm/authsession/internal/config"
)

func TestManager_GetURL(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		override   string
		path       string
		expected   string
	}{
		{name: "rooted path unchanged", configured: "https://api.example.com", path: "/auth/login", expected: "/auth/login"},
		{name: "absolute url unchanged", configured: "https://api.example.com", path: "https://other.example.com/x", expected: "https://other.example.com/x"},
		{name: "joined to configured base", configured: "https://api.example.com", path: "users", expected: "https://api.example.com/users"},
		{name: "single separator", configured: "https://api.example.com/", path: "users", expected: "https://api.example.com/users"},
		{name: "override wins", configured: "https://api.example.com", override: "https://staging.example.com", path: "users", expected: "https://staging.example.com/users"},
		{name: "no base", path: "users", expected: "users"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.GetDefaultConfig()
			cfg.HTTP.BaseURL = tt.configured
			m := New(nil, nil, cfg)
			m.SetBaseURL(tt.override)

			if got := m.GetURL(tt.path); got != tt.expected {
				t.Errorf("GetURL(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestManager_SetBaseURLReset(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.HTTP.BaseURL = "https://api.example.com"
	m := New(nil, nil, cfg)

	m.SetBaseURL("https://staging.example.com")
	if m.BaseURL() != "https://staging.example.com" {
		t.Errorf("Expected override, got %q", m.BaseURL())
	}
	m.SetBaseURL("")
	if m.BaseURL() != "https://api.example.com" {
		t.Errorf("Expected configured base, got %q", m.BaseURL())
	}
}

func TestBuildQuery(t *testing.T) {
	params := map[string]any{
		"page":    2,
		"q":       "name",
		"active":  true,
		"ratio":   0.5,
		"tags":    []string{"a", "b"},
		"empty":   "",
		"zero":    0,
		"zeroF":   0.0,
		"no":      false,
		"nothing": nil,
		"nan":     math.NaN(),
	}

	got := BuildQuery(params)
	expected := url.Values{
		"page":   {"2"},
		"q":      {"name"},
		"active": {"true"},
		"ratio":  {"0.5"},
		"tags":   {"a", "b"},
	}

	if got.Encode() != expected.Encode() {
		t.Errorf("BuildQuery() = %q, want %q", got.Encode(), expected.Encode())
	}

	if len(BuildQuery(nil)) != 0 {
		t.Error("Expected empty query for nil params")
	}
}
