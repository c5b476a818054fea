package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// Validate checks cfg and returns ValidationErrors listing every problem.
func Validate(cfg Config) error {
	var errs ValidationErrors

	validateBaseURL(&errs, cfg.Server.BaseURL)

	if cfg.Server.Timeout < 0 {
		errs.Add("server.timeout", "must not be negative", cfg.Server.Timeout)
	}
	if cfg.Session.RenewalTimeout < 0 {
		errs.Add("session.renewalTimeout", "must not be negative", cfg.Session.RenewalTimeout)
	}

	key := cfg.Session.StorageKey
	if strings.TrimSpace(key) == "" {
		errs.Add("session.storageKey", "is required")
	} else if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		errs.Add("session.storageKey", "must be a plain file name", key)
	}
	if strings.TrimSpace(cfg.Session.StorageDir) == "" {
		errs.Add("session.storageDir", "is required")
	}

	endpoints := map[string]string{
		"endpoints.register": cfg.Endpoints.Register,
		"endpoints.token":    cfg.Endpoints.Token,
		"endpoints.refresh":  cfg.Endpoints.Refresh,
		"endpoints.logout":   cfg.Endpoints.Logout,
	}
	for _, field := range []string{"endpoints.register", "endpoints.token", "endpoints.refresh", "endpoints.logout"} {
		if p := endpoints[field]; !strings.HasPrefix(p, "/") || strings.Trim(p, "/") == "" {
			errs.Add(field, "must be an absolute path below /", p)
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func validateBaseURL(errs *ValidationErrors, raw string) {
	if strings.TrimSpace(raw) == "" {
		errs.Add("server.baseURL", "is required")
		return
	}
	u, err := url.Parse(raw)
	if err != nil {
		errs.Add("server.baseURL", fmt.Sprintf("is not a valid URL: %v", err), raw)
		return
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		errs.Add("server.baseURL", "must use http or https", raw)
		return
	}
	if u.Host == "" {
		errs.Add("server.baseURL", "must include a host", raw)
	}
}
