package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/giantswarm/authsession/internal/cli"
	"github.com/giantswarm/authsession/internal/config"
)

var configFlags cli.OutputFlags

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config [key...]",
	Short: "Show the effective configuration",
	Long: `Print configuration values by dotted key, defaults included.

Without arguments every key with a value is printed. Unset keys are omitted.

Examples:
  authsession config
  authsession config http.baseUrl authentication.endpoints.login
  authsession config -o yaml`,
	RunE: runConfig,
}

func init() {
	cli.RegisterOutputFlags(configCmd, &configFlags)
}

func runConfig(cmd *cobra.Command, args []string) error {
	printer, err := configFlags.Printer(cmd)
	if err != nil {
		return err
	}

	keys := args
	if len(keys) == 0 {
		keys = config.Keys()
	}
	for _, key := range keys {
		if !config.IsKey(key) {
			return fmt.Errorf("unknown configuration key %q", key)
		}
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	values := make(map[string]any, len(keys))
	for _, key := range keys {
		v := cfg.Lookup(key, nil)
		if v == nil {
			continue
		}
		if d, ok := v.(time.Duration); ok {
			v = d.String()
		}
		values[key] = v
	}
	return printer.PrintKeyValues(values)
}
