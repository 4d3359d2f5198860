package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/authsession/internal/cli"
	"github.com/giantswarm/authsession/internal/session"
)

// newFakeAPI serves the endpoints written by writeConfig.
func newFakeAPI(t *testing.T) *httptest.Server {
	t.Helper()

	writeJSON := func(w http.ResponseWriter, status int, body string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "jane" || body["password"] != "secret" {
			writeJSON(w, http.StatusUnauthorized, `{"message":"invalid credentials"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"token":"tok1"}`)
	})
	mux.HandleFunc("GET /auth/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok1" {
			writeJSON(w, http.StatusUnauthorized, `{"message":"unauthenticated"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"data":{"id":1,"name":"jane"}}`)
	})
	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, `{"created":true}`)
	})
	mux.HandleFunc("POST /auth/forgot", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"sent":true}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T, baseURL, driver string) string {
	t.Helper()

	dir := t.TempDir()
	content := fmt.Sprintf(`http:
  baseUrl: %s
authentication:
  endpoints:
    login: auth/login
    register: auth/register
    getUser: auth/user
    forgotPassword: auth/forgot
storage:
  driver: %s
  dir: %s
log:
  level: error
`, baseURL, driver, filepath.Join(dir, "storage"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600))
	return dir
}

// resetCommands restores flag defaults and drops contexts left over from
// earlier executions of the shared command tree.
func resetCommands(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	c.SetContext(nil)
	for _, sub := range c.Commands() {
		resetCommands(sub)
	}
}

func executeCLI(ctx context.Context, t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetCommands(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestCLI_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	srv := newFakeAPI(t)
	cfgDir := writeConfig(t, srv.URL, "file")
	run := func(args ...string) (string, error) {
		return executeCLI(ctx, t, append([]string{"--config", cfgDir, "--quiet"}, args...)...)
	}

	out, err := run("check")
	assert.Equal(t, cli.ExitAuthRequired, cli.ExitCode(err))
	assert.Contains(t, out, "anonymous")

	_, err = run("login", "--username", "jane", "--password", "wrong", "--no-prompt")
	assert.Equal(t, cli.ExitAuthFailed, cli.ExitCode(err))

	_, err = run("login", "--username", "jane", "--no-prompt")
	assert.Equal(t, cli.ExitError, cli.ExitCode(err), "missing password without a prompt")

	out, err = run("login", "--username", "jane", "--password", "secret", "--no-prompt")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in")

	out, err = run("check")
	require.NoError(t, err)
	assert.Contains(t, out, "authenticated")

	out, err = run("whoami", "-o", "json")
	require.NoError(t, err)
	var user map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &user))
	assert.Equal(t, map[string]any{"id": float64(1), "name": "jane"}, user)

	out, err = run("whoami", "--template", "{{ .name | upper }}")
	require.NoError(t, err)
	assert.Equal(t, "JANE\n", out)

	out, err = run("headers", "-o", "json")
	require.NoError(t, err)
	var hdrs headerOutput
	require.NoError(t, json.Unmarshal([]byte(out), &hdrs))
	assert.Equal(t, "Bearer [REDACTED]", hdrs.Headers["Authorization"])
	assert.Equal(t, "application/json", hdrs.Headers["Accept"])
	assert.NotZero(t, hdrs.Version)

	out, err = run("logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	out, err = run("logout")
	require.NoError(t, err)
	assert.Contains(t, out, "No stored session")

	_, err = run("whoami")
	assert.Equal(t, cli.ExitAuthRequired, cli.ExitCode(err))
}

func TestCLI_RegisterAndForgotPassword(t *testing.T) {
	ctx := context.Background()
	srv := newFakeAPI(t)
	cfgDir := writeConfig(t, srv.URL, "memory")

	out, err := executeCLI(ctx, t, "--config", cfgDir, "-q", "register", "-d", "email=jane@example.com", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"created":true}`, out)

	out, err = executeCLI(ctx, t, "--config", cfgDir, "-q", "forgot-password", "-d", "email=jane@example.com", "-o", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "sent: true\n", out)

	_, err = executeCLI(ctx, t, "--config", cfgDir, "-q", "register", "-d", "broken")
	assert.Error(t, err)
}

func TestCLI_LoginConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()
	cfgDir := writeConfig(t, baseURL, "memory")

	_, err := executeCLI(context.Background(), t, "--config", cfgDir, "-q",
		"login", "-u", "jane", "-p", "secret", "--no-prompt")

	var connErr *cli.ConnectionError
	require.True(t, errors.As(err, &connErr), "expected ConnectionError, got %v", err)
	assert.Equal(t, cli.ExitError, cli.ExitCode(err))
}

func TestCLI_InvalidOutputFormat(t *testing.T) {
	cfgDir := writeConfig(t, "https://api.example.com", "memory")

	_, err := executeCLI(context.Background(), t, "--config", cfgDir, "headers", "-o", "xml")
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestCLI_WatchRequiresFileStorage(t *testing.T) {
	cfgDir := writeConfig(t, "https://api.example.com", "memory")

	_, err := executeCLI(context.Background(), t, "--config", cfgDir, "watch")
	assert.ErrorIs(t, err, session.ErrWatchUnsupported)
}

func TestCLI_WatchStopsOnCancel(t *testing.T) {
	cfgDir := writeConfig(t, "https://api.example.com", "file")

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	out, err := executeCLI(ctx, t, "--config", cfgDir, "watch")
	require.NoError(t, err)
	assert.Contains(t, out, "Watching for session changes")
}

func TestCLI_RejectedTokenEndsSession(t *testing.T) {
	ctx := context.Background()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"revoked"}`))
	})
	unauthorized := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"token revoked"}`))
	}
	mux.HandleFunc("GET /auth/user", unauthorized)
	mux.HandleFunc("POST /auth/register", unauthorized)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfgDir := writeConfig(t, srv.URL, "file")
	run := func(args ...string) (string, error) {
		return executeCLI(ctx, t, append([]string{"--config", cfgDir, "-q"}, args...)...)
	}
	login := func() {
		t.Helper()
		_, err := run("login", "-u", "jane", "-p", "secret", "--no-prompt")
		require.NoError(t, err)
		out, err := run("status")
		require.NoError(t, err)
		require.Contains(t, out, "authenticated")
	}

	login()
	_, err := run("check")
	assert.Equal(t, cli.ExitAuthRequired, cli.ExitCode(err))
	out, err := run("status")
	require.NoError(t, err)
	assert.Contains(t, out, "anonymous", "a 401 on check removes the token")

	login()
	_, err = run("register", "-d", "email=jane@example.com")
	assert.Equal(t, cli.ExitAuthFailed, cli.ExitCode(err))
	out, err = run("status")
	require.NoError(t, err)
	assert.Contains(t, out, "anonymous", "a 401 on register removes the token")
}

func TestCLI_CheckKeepsTokenWhenServerUnreachable(t *testing.T) {
	ctx := context.Background()
	srv := newFakeAPI(t)
	cfgDir := writeConfig(t, srv.URL, "file")

	_, err := executeCLI(ctx, t, "--config", cfgDir, "-q", "login", "-u", "jane", "-p", "secret", "--no-prompt")
	require.NoError(t, err)
	srv.Close()

	_, err = executeCLI(ctx, t, "--config", cfgDir, "-q", "check")
	assert.Equal(t, cli.ExitAuthRequired, cli.ExitCode(err))

	out, err := executeCLI(ctx, t, "--config", cfgDir, "-q", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "authenticated")
}

func TestCLI_LoginRemembersUsername(t *testing.T) {
	ctx := context.Background()
	srv := newFakeAPI(t)
	cfgDir := writeConfig(t, srv.URL, "file")
	run := func(args ...string) (string, error) {
		return executeCLI(ctx, t, append([]string{"--config", cfgDir, "-q"}, args...)...)
	}

	_, err := run("login", "-p", "secret", "--no-prompt")
	assert.ErrorContains(t, err, "username is required")

	_, err = run("login", "-u", "jane", "-p", "secret", "--no-prompt")
	require.NoError(t, err)
	_, err = run("logout")
	require.NoError(t, err)

	out, err := run("login", "-p", "secret", "--no-prompt")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in")

	// A failed login does not replace the remembered username.
	_, err = run("login", "-u", "john", "-p", "secret", "--no-prompt")
	assert.Equal(t, cli.ExitAuthFailed, cli.ExitCode(err))
	_, err = run("login", "-p", "secret", "--no-prompt")
	require.NoError(t, err)
}

func TestCLI_Config(t *testing.T) {
	ctx := context.Background()
	cfgDir := writeConfig(t, "https://api.example.com", "memory")

	out, err := executeCLI(ctx, t, "--config", cfgDir, "config", "-o", "json")
	require.NoError(t, err)
	var values map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &values))
	assert.Equal(t, "https://api.example.com", values["http.baseUrl"])
	assert.Equal(t, "auth/login", values["authentication.endpoints.login"])
	assert.Equal(t, "30s", values["http.timeout"])
	assert.NotContains(t, values, "authentication.endpoints.check", "unset keys are omitted")

	out, err = executeCLI(ctx, t, "--config", cfgDir, "config", "storage.driver", "-o", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "storage.driver: memory\n", out)

	_, err = executeCLI(ctx, t, "--config", cfgDir, "config", "no.such.key")
	assert.ErrorContains(t, err, `unknown configuration key "no.such.key"`)
}
