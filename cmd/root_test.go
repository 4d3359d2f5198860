package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
)

func TestSetVersion(t *testing.T) {
	originalVersion := rootCmd.Version
	defer func() { rootCmd.Version = originalVersion }()

	SetVersion("1.2.3-test")
	if GetVersion() != "1.2.3-test" {
		t.Errorf("Expected version to be 1.2.3-test, got %s", GetVersion())
	}
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "authsession" {
		t.Errorf("Expected Use to be 'authsession', got %s", rootCmd.Use)
	}
	if rootCmd.Short == "" {
		t.Error("Expected Short description to be set")
	}
	if !rootCmd.SilenceUsage {
		t.Error("Expected SilenceUsage to be true")
	}
	for _, name := range []string{"config", "log-level", "quiet"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Expected persistent flag --%s", name)
		}
	}
}

func TestVersionTemplate(t *testing.T) {
	testCmd := &cobra.Command{
		Use:     "test",
		Version: "1.0.0",
	}
	testCmd.SetVersionTemplate(`{{printf "authsession version %s\n" .Version}}`)

	var buf bytes.Buffer
	testCmd.SetOut(&buf)
	testCmd.SetArgs([]string{"--version"})
	if err := testCmd.Execute(); err != nil {
		t.Fatalf("Error executing version command: %v", err)
	}

	if buf.String() != "authsession version 1.0.0\n" {
		t.Errorf("Unexpected version output %q", buf.String())
	}
}

func TestSubcommands(t *testing.T) {
	found := make(map[string]*cobra.Command)
	for _, c := range rootCmd.Commands() {
		found[c.Name()] = c
	}

	expected := []string{"version", "login", "logout", "check", "whoami", "register", "forgot-password", "headers", "watch", "status", "config"}
	for _, name := range expected {
		c, ok := found[name]
		if !ok {
			t.Errorf("Expected subcommand %s to be registered", name)
			continue
		}
		if c.Short == "" {
			t.Errorf("Expected %s to have a Short description", name)
		}
	}
}

func TestOutputFlagsRegistered(t *testing.T) {
	for _, c := range []*cobra.Command{whoamiCmd, headersCmd, registerCmd, forgotPasswordCmd, configCmd} {
		for _, name := range []string{"output", "no-headers", "template"} {
			if c.Flags().Lookup(name) == nil {
				t.Errorf("Expected %s to have --%s", c.Name(), name)
			}
		}
	}
}

func TestRedactAuthorization(t *testing.T) {
	tests := []struct {
		in, expected string
	}{
		{"Bearer abc123", "Bearer [REDACTED]"},
		{"abc123", "[REDACTED]"},
	}
	for _, tt := range tests {
		if got := redactAuthorization(tt.in); got != tt.expected {
			t.Errorf("redactAuthorization(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}
