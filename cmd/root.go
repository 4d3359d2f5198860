package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/giantswarm/authsession/internal/cli"
	"github.com/giantswarm/authsession/pkg/logging"
)

// Global flags
var (
	configDir string
	logLevel  string
	quiet     bool
)

// rootCmd represents the base command for the authsession application.
var rootCmd = &cobra.Command{
	Use:   "authsession",
	Short: "Manage an authenticated API session from the command line",
	Long: `authsession logs in against a JSON API, stores the returned token and
keeps the Authorization header of every later request in step with it.

The API and its endpoints are configured in ~/.config/authsession/config.yaml
(see --config). Tokens are kept in the configured storage so separate
invocations share one session.

Exit codes:
  0  success
  1  error
  2  authentication required
  3  authentication failed`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogging(cmd, logLevel)
	},
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute runs the root command and exits with the code matching the
// returned error. SIGINT and SIGTERM cancel the command context.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "authsession version %s\n" .Version}}`)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		os.Exit(cli.ExitCode(err))
	}
}

// initLogging points the logger at cmd's error stream. Quiet mode keeps
// errors only.
func initLogging(cmd *cobra.Command, level string) {
	if level == "" {
		level = "warn"
	}
	parsed, ok := logging.ParseLevel(level)
	if quiet {
		parsed = logging.LevelError
	}
	logging.InitForCLI(parsed, cmd.ErrOrStderr())
	if !ok {
		logging.Warn("CLI", "Unknown log level %q, using %s", level, parsed)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "Configuration directory (default is $HOME/.config/authsession)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error (default from config, else warn)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress spinners and non-error logs")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(forgotPasswordCmd)
	rootCmd.AddCommand(headersCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
}

// printf writes to cmd's output stream, ignoring write errors.
func printf(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}

// warnSessionRemoved tells the user on stderr that a 401 ended the session.
func warnSessionRemoved(cmd *cobra.Command) {
	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning("Server rejected the stored token, session removed"))
}
