package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/giantswarm/authsession/internal/cli"
	"github.com/giantswarm/authsession/internal/headers"
	"github.com/giantswarm/authsession/internal/token"
)

var headersFlags cli.OutputFlags

// headersCmd represents the headers command
var headersCmd = &cobra.Command{
	Use:   "headers",
	Short: "Show the headers sent with every request",
	Long: `Rebuild and print the current header set.

The Authorization value is redacted; only its scheme is shown.`,
	Args: cobra.NoArgs,
	RunE: runHeaders,
}

func init() {
	cli.RegisterOutputFlags(headersCmd, &headersFlags)
}

// headerOutput is the json/yaml/template shape of a header set.
type headerOutput struct {
	Version uint64            `json:"version"`
	Headers map[string]string `json:"headers"`
}

func runHeaders(cmd *cobra.Command, args []string) error {
	printer, err := headersFlags.Printer(cmd)
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	set, err := s.Headers.Headers(cmd.Context())
	if err != nil {
		return err
	}

	out := headerOutput{Version: set.Version(), Headers: redactHeaders(set)}
	rows := make([][]any, 0, set.Len())
	for _, name := range set.Names() {
		rows = append(rows, []any{name, out.Headers[name]})
	}
	return printer.PrintObject(out, []string{"HEADER", "VALUE"}, rows)
}

// redactHeaders copies set with the Authorization credential hidden.
func redactHeaders(set *headers.HeaderSet) map[string]string {
	values := set.Map()
	if auth, ok := values[headers.AuthorizationHeader]; ok {
		values[headers.AuthorizationHeader] = redactAuthorization(auth)
	}
	return values
}

func redactAuthorization(value string) string {
	if scheme, credential, ok := strings.Cut(value, " "); ok {
		return scheme + " " + token.NewRedacted(credential).String()
	}
	return token.NewRedacted(value).String()
}
