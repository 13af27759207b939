package userconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	configDirName  = "portald"
	configFileName = "config.yaml"
)

// UserConfig represents the user's local configuration stored in ~/.config/portald/config.yaml
type UserConfig struct {
	APIBaseURL string `yaml:"api_base_url,omitempty"`
	Store      string `yaml:"store,omitempty"`
}

// pathOverride is set by tests to keep them out of the real home directory
var pathOverride string

// GetConfigPath returns the path to the user config file
func GetConfigPath() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", configDirName, configFileName), nil
}

// SetPathForTesting redirects the config file and returns a restore func
func SetPathForTesting(path string) func() {
	prev := pathOverride
	pathOverride = path
	return func() { pathOverride = prev }
}

// Load reads the user configuration file. A missing file yields an empty config.
func Load() (*UserConfig, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &UserConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read user config file: %w", err)
	}

	var cfg UserConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the user configuration to a file
func Save(cfg *UserConfig) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write user config file: %w", err)
	}

	return nil
}

// SetAPIBaseURL updates the remembered API base URL and saves the config
func SetAPIBaseURL(baseURL string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	cfg.APIBaseURL = baseURL
	return Save(cfg)
}
