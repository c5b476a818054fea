package config

import (
	"time"

	"rollcall/internal/session"
)

const (
	// DefaultBaseURL is the backend's development address.
	DefaultBaseURL = "http://127.0.0.1:8000/"

	// DefaultTimeout bounds a single API request.
	DefaultTimeout = 30 * time.Second

	// DefaultRenewalTimeout bounds a single credential renewal call.
	DefaultRenewalTimeout = 30 * time.Second

	// DefaultStorageDir is relative to the home directory.
	DefaultStorageDir = "~/.config/rollcall/credentials"

	// DefaultStorageKey names the credential record.
	DefaultStorageKey = "tokens"

	// DefaultLanding is where a terminated session is sent.
	DefaultLanding = session.DefaultLandingTarget

	// DefaultLogoutPath blacklists a refresh credential server side.
	DefaultLogoutPath = "/api/v1/accounts/logout/"
)

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeout,
		},
		Session: SessionConfig{
			StorageDir:     DefaultStorageDir,
			StorageKey:     DefaultStorageKey,
			RenewalTimeout: DefaultRenewalTimeout,
			Landing:        DefaultLanding,
		},
		Endpoints: EndpointsConfig{
			Register: session.DefaultRegisterPath,
			Token:    session.DefaultTokenPath,
			Refresh:  session.DefaultRenewalPath,
			Logout:   DefaultLogoutPath,
		},
	}
}
