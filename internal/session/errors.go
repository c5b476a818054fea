package session

import (
	"errors"
	"fmt"
)

var (
	// ErrRenewalFailed means the refresh call failed and the session was ended.
	ErrRenewalFailed = errors.New("credential renewal failed")

	// ErrRepeatedAuthorizationFailure means a request replayed with a freshly
	// renewed credential was rejected again.
	ErrRepeatedAuthorizationFailure = errors.New("authorization failed after credential renewal")

	// ErrNoCredentials means renewal was needed but no credential pair is stored.
	ErrNoCredentials = errors.New("no stored credentials")
)

// ErrorKind classifies terminal authorization failures.
type ErrorKind int

const (
	// KindRenewalFailed wraps ErrRenewalFailed.
	KindRenewalFailed ErrorKind = iota + 1

	// KindRepeatedAuthorizationFailure wraps ErrRepeatedAuthorizationFailure.
	KindRepeatedAuthorizationFailure
)

// String returns the string representation of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindRenewalFailed:
		return "renewal_failed"
	case KindRepeatedAuthorizationFailure:
		return "repeated_authorization_failure"
	default:
		return "unknown"
	}
}

// AuthError is returned by Transport when an authorization failure could not be
// recovered. It carries the original 401 response's status and body.
type AuthError struct {
	Kind       ErrorKind
	Method     string
	URL        string
	StatusCode int
	Body       string

	// Err is the underlying cause: the coordinator's renewal error, or
	// ErrRepeatedAuthorizationFailure.
	Err error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chain inspection.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel belonging to the error's kind.
func (e *AuthError) Is(target error) bool {
	switch target {
	case ErrRenewalFailed:
		return e.Kind == KindRenewalFailed
	case ErrRepeatedAuthorizationFailure:
		return e.Kind == KindRepeatedAuthorizationFailure
	}
	return false
}
