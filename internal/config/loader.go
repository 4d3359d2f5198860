package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/giantswarm/authsession/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/authsession"
	configFileName = "config.yaml"
)

// osUserHomeDir is swapped in tests.
var osUserHomeDir = os.UserHomeDir

// GetDefaultConfigPath returns ~/.config/authsession.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// LoadConfig loads config.yaml from configPath over the defaults.
// A missing file is not an error. The result is validated.
func LoadConfig(configPath string) (Config, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
			return config, nil
		}
		return Config{}, NewConfigurationError(configFilePath, "io", err.Error())
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, NewConfigurationError(configFilePath, "parse", err.Error())
	}

	if err := config.expandPaths(); err != nil {
		return Config{}, err
	}

	if errs := Validate(config); errs.HasErrors() {
		return Config{}, NewConfigurationError(configFilePath, "validation", errs.Error())
	}

	logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	return config, nil
}

// expandPaths resolves a leading ~ in storage.dir.
func (c *Config) expandPaths() error {
	if c.Storage.Dir == "~" || strings.HasPrefix(c.Storage.Dir, "~/") {
		homeDir, err := osUserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to expand storage.dir: %w", err)
		}
		c.Storage.Dir = filepath.Join(homeDir, strings.TrimPrefix(c.Storage.Dir, "~"))
	}
	return nil
}
