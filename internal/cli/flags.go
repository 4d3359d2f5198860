package cli

import (
	"github.com/spf13/cobra"
)

// OutputFlags holds the output flag values shared by commands that print
// structured results.
type OutputFlags struct {
	// OutputFormat specifies the desired output format (table, json, yaml)
	OutputFormat string
	// NoHeaders suppresses the header row in table output
	NoHeaders bool
	// Template is a Go template used instead of OutputFormat
	Template string
}

// RegisterOutputFlags registers --output, --no-headers and --template on cmd.
func RegisterOutputFlags(cmd *cobra.Command, flags *OutputFlags) {
	cmd.Flags().StringVarP(&flags.OutputFormat, "output", "o", string(OutputFormatTable), "Output format (table, json, yaml)")
	cmd.Flags().BoolVar(&flags.NoHeaders, "no-headers", false, "Suppress header row in table output")
	cmd.Flags().StringVar(&flags.Template, "template", "", "Go template for the output (sprig functions available)")
}

// Printer validates the flags and returns a printer writing to cmd's
// output stream.
func (f *OutputFlags) Printer(cmd *cobra.Command) (*Printer, error) {
	if err := ValidateOutputFormat(f.OutputFormat); err != nil {
		return nil, err
	}
	return NewPrinter(cmd.OutOrStdout(), OutputFormat(f.OutputFormat), f.NoHeaders).WithTemplate(f.Template), nil
}
