package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/giantswarm/authsession/internal/authentication"
	"github.com/giantswarm/authsession/internal/cli"
	"github.com/giantswarm/authsession/internal/config"
	"github.com/giantswarm/authsession/internal/events"
	"github.com/giantswarm/authsession/internal/session"
	"github.com/giantswarm/authsession/pkg/logging"
)

// Login-specific flags
var (
	loginUsername string
	loginPassword string
	loginData     []string
	loginEndpoint string
	loginNoPrompt bool
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	Long: `Post credentials to the login endpoint and store the token from the response.

The password is read from the terminal without echo when --password is not
given. Extra fields for the login body are passed with --data. Without
--username the username of the last successful login is reused.

Examples:
  authsession login --username jane
  authsession login --data email=jane@example.com
  authsession login --username jane --password "$PASS" --no-prompt
  authsession login --endpoint /v2/sessions --username jane`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session token",
	Long: `Remove the stored token and end the session locally.

No request is sent to the server.`,
	Args: cobra.NoArgs,
	RunE: runLogout,
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username to log in with")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted for when omitted)")
	loginCmd.Flags().StringArrayVarP(&loginData, "data", "d", nil, "Extra login body field as key=value (repeatable)")
	loginCmd.Flags().StringVar(&loginEndpoint, "endpoint", "", "Login endpoint (default from authentication.endpoints.login)")
	loginCmd.Flags().BoolVar(&loginNoPrompt, "no-prompt", false, "Fail instead of prompting for missing credentials")
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	data, err := cli.ParseKeyValues(loginData)
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	username := loginUsername
	if username == "" && data["username"] == nil && data["email"] == nil {
		username = rememberedUsername(ctx, s)
	}

	var prompter cli.Prompter
	if !loginNoPrompt {
		prompter = cli.NewReadlinePrompter()
	}
	creds, err := cli.CollectCredentials(prompter, username, loginPassword, data)
	if err != nil {
		return err
	}

	endpoint := s.Headers.GetURL(config.Resolve(loginEndpoint, s.Config.Authentication.Endpoints.Login))
	s.Bus.Publish(events.ChannelLoggingIn, endpoint)

	err = cli.RunWithSpinner(cmd.ErrOrStderr(), quiet, "Logging in...", func() error {
		_, err := s.Auth.Login(ctx, creds, loginEndpoint)
		return err
	})
	if err != nil {
		classified := cli.ClassifyRequestError(err, endpoint)
		var connErr *cli.ConnectionError
		if errors.As(classified, &connErr) || errors.Is(classified, &cli.AuthFailedError{}) {
			return classified
		}
		return &cli.AuthFailedError{Endpoint: endpoint, Reason: err}
	}

	if name, ok := creds["username"].(string); ok && name != "" {
		if err := s.Auth.UpdateLoginDetails(ctx, map[string]any{"username": name}); err != nil {
			logging.Warn("CLI", "Could not remember the username: %v", err)
		}
	}

	printf(cmd, "%s\n", cli.FormatSuccess("Logged in"))
	return nil
}

// rememberedUsername returns the username of the last successful login, or
// "".
func rememberedUsername(ctx context.Context, s *session.Session) string {
	details, err := s.Auth.LoginDetails(ctx)
	if err != nil {
		if !errors.Is(err, authentication.ErrNoLoginDetails) {
			logging.Debug("CLI", "Ignoring login details: %v", err)
		}
		return ""
	}
	name, _ := details["username"].(string)
	return name
}

func runLogout(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.Auth.Logout(cmd.Context()) {
		printf(cmd, "%s\n", cli.FormatSuccess("Logged out"))
	} else {
		printf(cmd, "%s\n", cli.FormatWarning("No stored session"))
	}
	return nil
}
