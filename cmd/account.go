package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/giantswarm/authsession/internal/cli"
	"github.com/giantswarm/authsession/internal/client"
	"github.com/giantswarm/authsession/internal/config"
	"github.com/giantswarm/authsession/internal/session"
)

var (
	accountData     []string
	accountEndpoint string
	accountFlags    cli.OutputFlags
)

// registerCmd represents the register command
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Long: `Post the given fields to the register endpoint and print the response.

Registering does not log in.

Examples:
  authsession register --data email=jane@example.com --data password=secret`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAccountRequest(cmd, "Registering...",
			func(c config.EndpointsConfig) string { return c.Register },
			func(ctx context.Context, s *session.Session, body map[string]any) (*client.Response, error) {
				return s.Auth.Register(ctx, body, accountEndpoint)
			})
	},
}

// forgotPasswordCmd represents the forgot-password command
var forgotPasswordCmd = &cobra.Command{
	Use:   "forgot-password",
	Short: "Request a password reset",
	Long: `Post the given fields to the forgot-password endpoint and print the response.

Examples:
  authsession forgot-password --data email=jane@example.com`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAccountRequest(cmd, "Requesting password reset...",
			func(c config.EndpointsConfig) string { return c.ForgotPassword },
			func(ctx context.Context, s *session.Session, body map[string]any) (*client.Response, error) {
				return s.Auth.ForgotPassword(ctx, body, accountEndpoint)
			})
	},
}

func init() {
	for _, c := range []*cobra.Command{registerCmd, forgotPasswordCmd} {
		c.Flags().StringArrayVarP(&accountData, "data", "d", nil, "Body field as key=value (repeatable)")
		c.Flags().StringVar(&accountEndpoint, "endpoint", "", "Endpoint override")
		cli.RegisterOutputFlags(c, &accountFlags)
	}
}

type accountCall func(ctx context.Context, s *session.Session, body map[string]any) (*client.Response, error)

func runAccountRequest(cmd *cobra.Command, message string, configured func(config.EndpointsConfig) string, call accountCall) error {
	printer, err := accountFlags.Printer(cmd)
	if err != nil {
		return err
	}
	body, err := cli.ParseKeyValues(accountData)
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	var resp *client.Response
	err = cli.RunWithSpinner(cmd.ErrOrStderr(), quiet, message, func() error {
		var err error
		resp, err = call(cmd.Context(), s, body)
		return err
	})
	if err != nil {
		if s.Auth.HandleUnauthorized(cmd.Context(), err) {
			warnSessionRemoved(cmd)
		}
		endpoint := s.Headers.GetURL(config.Resolve(accountEndpoint, configured(s.Config.Authentication.Endpoints)))
		return cli.ClassifyRequestError(err, endpoint)
	}

	return printResponse(cmd, printer, resp)
}

// printResponse prints a JSON object body through printer and anything
// else verbatim.
func printResponse(cmd *cobra.Command, printer *cli.Printer, resp *client.Response) error {
	if resp == nil || len(resp.Body) == 0 {
		printf(cmd, "%s\n", cli.FormatSuccess("Done"))
		return nil
	}

	var obj map[string]any
	if err := resp.Decode(&obj); err != nil || obj == nil {
		printf(cmd, "%s\n", resp.Body)
		return nil
	}
	return printer.PrintKeyValues(obj)
}
