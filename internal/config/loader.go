package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"rollcall/pkg/logging"
)

const (
	userConfigDir  = ".config/rollcall"
	configFileName = "config.yaml"

	// EnvConfigPath overrides the configuration directory.
	EnvConfigPath = "ROLLCALL_CONFIG_PATH"

	// EnvServer overrides server.baseURL.
	EnvServer = "ROLLCALL_SERVER"
)

// GetDefaultConfigPath returns ~/.config/rollcall.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// ResolveConfigPath picks the configuration directory: the flag value, then
// ROLLCALL_CONFIG_PATH, then the default.
func ResolveConfigPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env, nil
	}
	return GetDefaultConfigPath()
}

// ConfigFile returns the config.yaml path inside configPath.
func ConfigFile(configPath string) string {
	return filepath.Join(configPath, configFileName)
}

// LoadConfig loads config.yaml from configPath over the defaults, applies
// environment overrides and validates the result.
func LoadConfig(configPath string) (Config, error) {
	configFilePath := ConfigFile(configPath)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Debug("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
	case err != nil:
		return Config{}, &ConfigurationError{
			FilePath:  configFilePath,
			ErrorType: "io",
			Message:   err.Error(),
		}
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return Config{}, &ConfigurationError{
				FilePath:  configFilePath,
				ErrorType: "parse",
				Message:   err.Error(),
				Suggestions: []string{
					"Check the YAML syntax",
					"Durations use Go syntax such as 30s or 2m",
				},
			}
		}
		logging.Debug("ConfigLoader", "Loaded configuration from %s", configFilePath)
	}

	ApplyEnvironment(&config)

	if err := Validate(config); err != nil {
		return Config{}, &ConfigurationError{
			FilePath:  configFilePath,
			ErrorType: "validation",
			Message:   err.Error(),
		}
	}
	return config, nil
}

// ApplyEnvironment applies environment variable overrides to cfg.
func ApplyEnvironment(cfg *Config) {
	if server := os.Getenv(EnvServer); server != "" {
		logging.Debug("ConfigLoader", "Using server from %s: %s", EnvServer, server)
		cfg.Server.BaseURL = server
	}
}

// SaveConfig writes cfg to config.yaml in configPath.
func SaveConfig(configPath string, cfg Config) error {
	if err := os.MkdirAll(configPath, 0700); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", configPath, err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	path := ConfigFile(configPath)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logging.Info("ConfigLoader", "Wrote configuration to %s", path)
	return nil
}

// ExpandHome replaces a leading "~" in path with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~")), nil
}
