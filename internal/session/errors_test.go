package session

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthError_Is(t *testing.T) {
	renewal := &AuthError{Kind: KindRenewalFailed, Err: fmt.Errorf("%w: boom", ErrRenewalFailed)}
	assert.ErrorIs(t, renewal, ErrRenewalFailed)
	assert.NotErrorIs(t, renewal, ErrRepeatedAuthorizationFailure)

	repeated := &AuthError{Kind: KindRepeatedAuthorizationFailure, Err: ErrRepeatedAuthorizationFailure}
	assert.ErrorIs(t, repeated, ErrRepeatedAuthorizationFailure)
	assert.NotErrorIs(t, repeated, ErrRenewalFailed)

	wrapped := fmt.Errorf("get subjects: %w", renewal)
	var authErr *AuthError
	assert.True(t, errors.As(wrapped, &authErr))
	assert.Equal(t, KindRenewalFailed, authErr.Kind)
}

func TestAuthError_Error(t *testing.T) {
	err := &AuthError{
		Kind:       KindRepeatedAuthorizationFailure,
		Method:     "GET",
		URL:        "http://localhost/api/v1/subjects/",
		StatusCode: 401,
		Err:        ErrRepeatedAuthorizationFailure,
	}
	assert.Equal(t, "GET http://localhost/api/v1/subjects/: status 401: authorization failed after credential renewal", err.Error())

	bare := &AuthError{Method: "GET", URL: "/x", StatusCode: 401}
	assert.Equal(t, "GET /x: status 401", bare.Error())
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "renewal_failed", KindRenewalFailed.String())
	assert.Equal(t, "repeated_authorization_failure", KindRepeatedAuthorizationFailure.String())
	assert.Equal(t, "unknown", ErrorKind(0).String())
}
