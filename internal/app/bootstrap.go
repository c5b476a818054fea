package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jonboulle/clockwork"

	"rollcall/internal/api"
	"rollcall/internal/config"
	"rollcall/internal/credentials"
	"rollcall/pkg/logging"
)

// Application wires configuration, credential storage and the authenticated
// request pipeline for one CLI invocation.
//
// Example usage:
//
//	cfg := app.NewConfig(logging.LevelWarn, "", "")
//	cfg.Navigator = cli.NewTerminalNavigator(os.Stderr, true)
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    return fmt.Errorf("failed to create application: %w", err)
//	}
//	subjects, err := application.Client().ListSubjects(ctx)
type Application struct {
	config     *Config
	configPath string
	services   *Services
}

// NewApplication performs the bootstrap sequence:
//
//  1. Configures logging at cfg.LogLevel
//  2. Loads config.yaml (or uses cfg.Settings when preset)
//  3. Applies the --server override
//  4. Builds the credential store and request pipeline
func NewApplication(cfg *Config) (*Application, error) {
	var logOutput io.Writer = os.Stderr
	if cfg.LogOutput != nil {
		logOutput = cfg.LogOutput
	}
	logging.InitForCLI(cfg.LogLevel, logOutput)

	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}

	configPath, err := config.ResolveConfigPath(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}

	if cfg.Settings == nil {
		settings, err := config.LoadConfig(configPath)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load configuration from %s", configPath)
			return nil, err
		}
		cfg.Settings = &settings
	}

	if cfg.Server != "" {
		cfg.Settings.Server.BaseURL = cfg.Server
		if err := config.Validate(*cfg.Settings); err != nil {
			return nil, fmt.Errorf("invalid --server: %w", err)
		}
	}

	services, err := InitializeServices(*cfg.Settings, cfg.Navigator)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:     cfg,
		configPath: configPath,
		services:   services,
	}, nil
}

// Settings returns the effective configuration.
func (a *Application) Settings() config.Config {
	return *a.config.Settings
}

// ConfigPath returns the configuration directory in use.
func (a *Application) ConfigPath() string {
	return a.configPath
}

// Services returns the wired components.
func (a *Application) Services() *Services {
	return a.services
}

// Client returns the API client routed through the session pipeline.
func (a *Application) Client() *api.Client {
	return a.services.Client
}

// Server returns the backend base URL.
func (a *Application) Server() string {
	return a.services.Client.BaseURL()
}

// CredentialStatus inspects the stored credential pair locally.
func (a *Application) CredentialStatus() credentials.Status {
	pair, ok := a.services.Store.Get()
	return credentials.Inspect(pair, ok, a.config.Clock)
}

// Clock returns the clock used for expiry checks.
func (a *Application) Clock() clockwork.Clock {
	return a.config.Clock
}

// WatchCredentials calls onChange whenever another process rewrites or
// removes the credential file, until ctx is cancelled.
func (a *Application) WatchCredentials(ctx context.Context, onChange func()) error {
	return a.services.Store.Watch(ctx, onChange)
}
