package cli

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollcall/internal/api"
	"rollcall/internal/session"
)

const testServer = "http://127.0.0.1:8000/"

func TestClassifyConnectionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ConnectionErrorType
	}{
		{
			name: "unknown authority",
			err:  &url.Error{Op: "Get", URL: testServer, Err: x509.UnknownAuthorityError{}},
			want: ConnectionErrorTLS,
		},
		{
			name: "tls message",
			err:  errors.New("tls: handshake failure"),
			want: ConnectionErrorTLS,
		},
		{
			name: "dns",
			err:  &url.Error{Op: "Get", URL: testServer, Err: &net.DNSError{Err: "no such host", Name: "nowhere.invalid"}},
			want: ConnectionErrorDNS,
		},
		{
			name: "deadline",
			err:  fmt.Errorf("GET /api/v1/subjects/: %w", context.DeadlineExceeded),
			want: ConnectionErrorTimeout,
		},
		{
			name: "refused",
			err:  errors.New("dial tcp 127.0.0.1:8000: connect: connection refused"),
			want: ConnectionErrorNetwork,
		},
		{
			name: "other",
			err:  errors.New("unexpected EOF"),
			want: ConnectionErrorUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ce := ClassifyConnectionError(tt.err, testServer)
			require.NotNil(t, ce)
			assert.Equal(t, tt.want, ce.Type)
			assert.ErrorIs(t, ce, tt.err)
			assert.Contains(t, ce.Error(), testServer)
		})
	}

	assert.Nil(t, ClassifyConnectionError(nil, testServer))
}

func TestConnectionErrorType_String(t *testing.T) {
	assert.Equal(t, "TLS certificate error", ConnectionErrorTLS.String())
	assert.Equal(t, "Network error", ConnectionErrorNetwork.String())
	assert.Equal(t, "Connection timeout", ConnectionErrorTimeout.String())
	assert.Equal(t, "DNS resolution error", ConnectionErrorDNS.String())
	assert.Equal(t, "Connection error", ConnectionErrorUnknown.String())
}

func TestAuthErrors_Messages(t *testing.T) {
	required := &AuthRequiredError{Server: testServer}
	assert.Contains(t, required.Error(), testServer)
	assert.Contains(t, required.Error(), "rollcall auth login")
	assert.True(t, errors.Is(fmt.Errorf("wrapped: %w", required), &AuthRequiredError{}))

	cause := errors.New("No active account found with the given credentials")
	failed := &AuthFailedError{Server: testServer, Reason: cause}
	assert.Contains(t, failed.Error(), cause.Error())
	assert.ErrorIs(t, failed, cause)
	assert.True(t, errors.Is(failed, &AuthFailedError{}))

	ended := &SessionEndedError{Server: testServer, Reason: session.ErrRenewalFailed}
	assert.Contains(t, ended.Error(), "rollcall auth login")
	assert.ErrorIs(t, ended, session.ErrRenewalFailed)
}

func TestDescribe(t *testing.T) {
	authErr := &session.AuthError{
		Kind:       session.KindRenewalFailed,
		Method:     http.MethodGet,
		URL:        testServer + "api/v1/subjects/",
		StatusCode: http.StatusUnauthorized,
		Err:        errors.New("refresh rejected"),
	}
	statusErr := &api.StatusError{Method: http.MethodGet, Path: "/api/v1/subjects/9/", StatusCode: http.StatusNotFound}

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, Describe(nil, testServer))
	})

	t.Run("session ended through url.Error", func(t *testing.T) {
		err := Describe(&url.Error{Op: "Get", URL: authErr.URL, Err: authErr}, testServer)
		var ended *SessionEndedError
		require.ErrorAs(t, err, &ended)
		assert.ErrorIs(t, err, session.ErrRenewalFailed)
	})

	t.Run("no credentials", func(t *testing.T) {
		err := Describe(fmt.Errorf("renew: %w", session.ErrNoCredentials), testServer)
		assert.ErrorIs(t, err, &AuthRequiredError{})
	})

	t.Run("status error unchanged", func(t *testing.T) {
		err := Describe(statusErr, testServer)
		assert.Same(t, statusErr, err)
	})

	t.Run("transport failure classified", func(t *testing.T) {
		err := Describe(&url.Error{Op: "Get", URL: testServer, Err: errors.New("dial tcp: connect: connection refused")}, testServer)
		var ce *ConnectionError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, ConnectionErrorNetwork, ce.Type)
	})

	t.Run("cancellation unchanged", func(t *testing.T) {
		err := &url.Error{Op: "Get", URL: testServer, Err: context.Canceled}
		assert.Same(t, err, Describe(err, testServer))
	})

	t.Run("already described", func(t *testing.T) {
		err := &AuthRequiredError{Server: testServer}
		assert.Same(t, err, Describe(err, testServer))
	})

	t.Run("other errors unchanged", func(t *testing.T) {
		err := errors.New("boom")
		assert.Same(t, err, Describe(err, testServer))
	})
}

func TestDescribeLogin(t *testing.T) {
	unauthorized := &api.StatusError{Method: http.MethodPost, Path: "/api/v1/accounts/token/", StatusCode: http.StatusUnauthorized, Detail: "No active account"}
	err := DescribeLogin(unauthorized, testServer)
	assert.ErrorIs(t, err, &AuthFailedError{})
	assert.True(t, api.IsStatus(err, http.StatusUnauthorized))

	badRequest := &api.StatusError{Method: http.MethodPost, Path: "/api/v1/accounts/token/", StatusCode: http.StatusBadRequest}
	assert.Same(t, badRequest, DescribeLogin(badRequest, testServer))
}
