package cmd

import (
	"github.com/spf13/cobra"

	"github.com/giantswarm/authsession/internal/authentication"
	"github.com/giantswarm/authsession/internal/cli"
	"github.com/giantswarm/authsession/internal/config"
	"github.com/giantswarm/authsession/internal/session"
)

var (
	checkEndpoint string
	whoamiFlags   cli.OutputFlags
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether the stored session is still valid",
	Long: `Fetch the current user with the stored token.

Prints "authenticated" and exits 0 when the server accepts the token, or
prints "anonymous" and exits 2 otherwise.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

// whoamiCmd represents the whoami command
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the user of the current session",
	Long: `Check the session and print the user returned by the server.

Examples:
  authsession whoami
  authsession whoami -o yaml
  authsession whoami --template '{{ .email }}'`,
	Args: cobra.NoArgs,
	RunE: runWhoami,
}

func init() {
	for _, c := range []*cobra.Command{checkCmd, whoamiCmd} {
		c.Flags().StringVar(&checkEndpoint, "endpoint", "", "User endpoint (default from authentication.endpoints.check, then getUser)")
	}
	cli.RegisterOutputFlags(whoamiCmd, &whoamiFlags)
}

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the local session status",
	Long: `Print the session status from local state without contacting the server.

Prints "authenticated" when a token is stored and "anonymous" otherwise. Use
check to ask the server whether the token is still accepted.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

// checkSession runs a session check and returns AuthRequiredError when it
// fails. A 401 from the server also ends the stored session.
func checkSession(cmd *cobra.Command, s *session.Session) error {
	ctx := cmd.Context()
	err := cli.RunWithSpinner(cmd.ErrOrStderr(), quiet, "Checking session...", func() error {
		return s.Auth.Verify(ctx, checkEndpoint)
	})
	if err == nil {
		return nil
	}
	if s.Auth.HandleUnauthorized(ctx, err) {
		warnSessionRemoved(cmd)
	}

	endpoints := s.Config.Authentication.Endpoints
	path := config.Resolve(checkEndpoint, config.Resolve(endpoints.Check, endpoints.GetUser))
	return &cli.AuthRequiredError{Endpoint: s.Headers.GetURL(path)}
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := checkSession(cmd, s); err != nil {
		printf(cmd, "%s\n", cli.FormatWarning("anonymous"))
		return err
	}
	printf(cmd, "%s\n", cli.FormatSuccess("authenticated"))
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	status := s.Auth.Status(cmd.Context())
	if status == authentication.Authenticated {
		printf(cmd, "%s\n", cli.FormatSuccess(status.String()))
	} else {
		printf(cmd, "%s\n", cli.FormatWarning(status.String()))
	}
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	printer, err := whoamiFlags.Printer(cmd)
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := checkSession(cmd, s); err != nil {
		return err
	}

	user := s.Auth.User()
	if user == nil {
		printf(cmd, "%s\n", cli.FormatWarning("Authenticated, but the server returned no user"))
		return nil
	}
	return printer.PrintKeyValues(user)
}
