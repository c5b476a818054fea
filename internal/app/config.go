package app

import (
	"io"

	"github.com/jonboulle/clockwork"

	"rollcall/internal/config"
	"rollcall/internal/session"
	"rollcall/pkg/logging"
)

// Config holds the application configuration
type Config struct {
	// LogLevel filters pipeline log lines written to LogOutput.
	LogLevel logging.LogLevel

	// Custom configuration directory (optional). Falls back to
	// ROLLCALL_CONFIG_PATH, then ~/.config/rollcall.
	ConfigPath string

	// Server overrides server.baseURL from the configuration file.
	Server string

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer

	// Navigator is told where to go when the session ends.
	Navigator session.Navigator

	// Clock is used for credential expiry checks. Defaults to the real clock.
	Clock clockwork.Clock

	// Settings is set once loaded; tests may preset it to skip loading.
	Settings *config.Config
}

// NewConfig creates a new application configuration
func NewConfig(level logging.LogLevel, configPath, server string) *Config {
	return &Config{
		LogLevel:   level,
		ConfigPath: configPath,
		Server:     server,
	}
}
