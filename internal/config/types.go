package config

import "time"

// Config is the top-level configuration structure for rollcall.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Session   SessionConfig   `yaml:"session"`
	Endpoints EndpointsConfig `yaml:"endpoints"`
}

// ServerConfig locates the backend.
type ServerConfig struct {
	BaseURL string        `yaml:"baseURL"`           // Backend root URL
	Timeout time.Duration `yaml:"timeout"`           // Per request timeout, 0 disables
}

// SessionConfig controls credential storage and the renewal pipeline.
type SessionConfig struct {
	StorageDir     string        `yaml:"storageDir,omitempty"` // Credential directory; "~" expands to the home directory
	StorageKey     string        `yaml:"storageKey,omitempty"` // Record name inside StorageDir
	RenewalTimeout time.Duration `yaml:"renewalTimeout"`       // Bound on one renewal call, 0 disables
	Landing        string        `yaml:"landing,omitempty"`    // Target after a session ends
}

// EndpointsConfig holds the account endpoint paths. The first three are
// public: no credential is attached and a 401 from them never triggers
// renewal.
type EndpointsConfig struct {
	Register string `yaml:"register,omitempty"`
	Token    string `yaml:"token,omitempty"`
	Refresh  string `yaml:"refresh,omitempty"`
	Logout   string `yaml:"logout,omitempty"`
}

// PublicPaths returns the paths reachable without a credential.
func (e EndpointsConfig) PublicPaths() []string {
	return []string{e.Register, e.Token, e.Refresh}
}
