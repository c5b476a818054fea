package cli

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"rollcall/internal/api"
	"rollcall/internal/session"
)

// ConnectionErrorType categorizes the type of connection error.
type ConnectionErrorType int

const (
	// ConnectionErrorUnknown indicates an unclassified connection error.
	ConnectionErrorUnknown ConnectionErrorType = iota
	// ConnectionErrorTLS indicates a TLS/certificate verification error.
	ConnectionErrorTLS
	// ConnectionErrorNetwork indicates a network connectivity error (e.g., refused, unreachable).
	ConnectionErrorNetwork
	// ConnectionErrorTimeout indicates a connection timeout.
	ConnectionErrorTimeout
	// ConnectionErrorDNS indicates a DNS resolution failure.
	ConnectionErrorDNS
)

// String returns a human-readable name for the connection error type.
func (t ConnectionErrorType) String() string {
	switch t {
	case ConnectionErrorTLS:
		return "TLS certificate error"
	case ConnectionErrorNetwork:
		return "Network error"
	case ConnectionErrorTimeout:
		return "Connection timeout"
	case ConnectionErrorDNS:
		return "DNS resolution error"
	default:
		return "Connection error"
	}
}

// ConnectionError indicates the backend could not be reached.
type ConnectionError struct {
	// Server is the base URL that could not be reached.
	Server string
	// Type categorizes the connection error.
	Type ConnectionErrorType
	// Reason is the underlying error.
	Reason error
}

// Error returns the failure with a hint matching its type.
func (e *ConnectionError) Error() string {
	hint := "Check that the server is running and --server points at it."
	switch e.Type {
	case ConnectionErrorTLS:
		hint = "The server certificate could not be verified."
	case ConnectionErrorDNS:
		hint = "The server host name could not be resolved."
	case ConnectionErrorTimeout:
		hint = "The server did not answer in time; raise server.timeout if it is slow."
	}
	return fmt.Sprintf("%s: cannot reach %s: %v\n\n%s", e.Type, e.Server, e.Reason, hint)
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error {
	return e.Reason
}

// ClassifyConnectionError analyzes an error and returns a ConnectionError with the appropriate type.
// If the error is nil, returns nil.
func ClassifyConnectionError(err error, server string) *ConnectionError {
	if err == nil {
		return nil
	}

	ce := &ConnectionError{Server: server, Type: ConnectionErrorUnknown, Reason: err}

	var dnsErr *net.DNSError
	switch {
	case isTLSError(err):
		ce.Type = ConnectionErrorTLS
	case errors.As(err, &dnsErr):
		ce.Type = ConnectionErrorDNS
	case isTimeoutError(err):
		ce.Type = ConnectionErrorTimeout
	case isNetworkError(err.Error()):
		ce.Type = ConnectionErrorNetwork
	}
	return ce
}

// isTLSError checks if the error is related to TLS/certificate issues.
func isTLSError(err error) bool {
	var certErr *x509.CertificateInvalidError
	var hostErr *x509.HostnameError
	var unknownAuthErr *x509.UnknownAuthorityError
	var systemRootsErr *x509.SystemRootsError

	if errors.As(err, &certErr) || errors.As(err, &hostErr) ||
		errors.As(err, &unknownAuthErr) || errors.As(err, &systemRootsErr) {
		return true
	}

	errStr := err.Error()
	for _, keyword := range []string{"x509:", "certificate", "tls:", "TLS handshake"} {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}

// isTimeoutError checks if the error is a timeout.
func isTimeoutError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}

	errStr := err.Error()
	return strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded")
}

// isNetworkError checks if the error string indicates a network connectivity issue.
func isNetworkError(errStr string) bool {
	networkKeywords := []string{
		"connection refused",
		"connection reset",
		"network is unreachable",
		"no route to host",
		"dial tcp",
		"connect:",
	}

	for _, keyword := range networkKeywords {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}

// isTransportFailure reports whether err came from the network rather than
// from a server response.
func isTransportFailure(err error) bool {
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// AuthRequiredError indicates no credential is stored for the server.
type AuthRequiredError struct {
	// Server is the backend that requires authentication.
	Server string
}

// Error returns a user-friendly error message with actionable guidance.
func (e *AuthRequiredError) Error() string {
	return fmt.Sprintf(`Authentication required for %s

To authenticate, run:
  rollcall auth login

To check current authentication status:
  rollcall auth status`, e.Server)
}

// Is allows errors.Is() to work with wrapped errors.
func (e *AuthRequiredError) Is(target error) bool {
	_, ok := target.(*AuthRequiredError)
	return ok
}

// SessionEndedError indicates the pipeline terminated the session: renewal
// failed, or the server rejected a freshly renewed credential.
type SessionEndedError struct {
	// Server is the backend whose session ended.
	Server string
	// Reason is the underlying *session.AuthError.
	Reason error
}

// Error returns a user-friendly error message with actionable guidance.
func (e *SessionEndedError) Error() string {
	return fmt.Sprintf(`Session for %s has ended: %v

To start a new session, run:
  rollcall auth login`, e.Server, e.Reason)
}

// Unwrap returns the underlying error.
func (e *SessionEndedError) Unwrap() error {
	return e.Reason
}

// AuthFailedError indicates the server rejected the login credentials.
type AuthFailedError struct {
	// Server is the backend where authentication failed.
	Server string
	// Reason is the underlying error.
	Reason error
}

// Error returns a user-friendly error message with actionable guidance.
func (e *AuthFailedError) Error() string {
	return fmt.Sprintf(`Authentication failed for %s: %v

Check the ID card number and password, then retry:
  rollcall auth login`, e.Server, e.Reason)
}

// Unwrap returns the underlying error.
func (e *AuthFailedError) Unwrap() error {
	return e.Reason
}

// Is allows errors.Is() to work with wrapped errors.
func (e *AuthFailedError) Is(target error) bool {
	_, ok := target.(*AuthFailedError)
	return ok
}

// Describe converts an error returned by the API client into the CLI error
// that best explains it. Errors it does not recognise are returned unchanged.
func Describe(err error, server string) error {
	if err == nil {
		return nil
	}

	var (
		authErr   *session.AuthError
		ended     *SessionEndedError
		required  *AuthRequiredError
		failed    *AuthFailedError
		connected *ConnectionError
		status    *api.StatusError
	)
	switch {
	case errors.As(err, &ended), errors.As(err, &required), errors.As(err, &failed), errors.As(err, &connected):
		return err
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, session.ErrNoCredentials):
		return &AuthRequiredError{Server: server}
	case errors.As(err, &authErr):
		return &SessionEndedError{Server: server, Reason: err}
	case errors.As(err, &status):
		return err
	case isTransportFailure(err):
		return ClassifyConnectionError(err, server)
	}
	return err
}

// DescribeLogin is Describe for the login call, where a 401 means the
// submitted credentials were wrong.
func DescribeLogin(err error, server string) error {
	if api.IsStatus(err, http.StatusUnauthorized) {
		return &AuthFailedError{Server: server, Reason: err}
	}
	return Describe(err, server)
}
