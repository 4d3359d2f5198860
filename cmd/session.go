package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giantswarm/authsession/internal/config"
	"github.com/giantswarm/authsession/internal/session"
)

// loadConfig reads the configuration from --config or the default
// directory. log.level applies unless --log-level was given.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	dir := configDir
	if dir == "" {
		var err error
		dir, err = config.GetDefaultConfigPath()
		if err != nil {
			return config.Config{}, err
		}
	}

	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return config.Config{}, err
	}

	if logLevel == "" && cfg.Log.Level != "" {
		initLogging(cmd, cfg.Log.Level)
	}
	return cfg, nil
}

// openSession builds a session from the configuration. Callers must Close it.
func openSession(cmd *cobra.Command, opts ...session.Option) (*session.Session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	s, err := session.New(cmd.Context(), cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	return s, nil
}
