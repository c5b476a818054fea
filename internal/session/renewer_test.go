package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPRenewer(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantAccess string
		wantErr    bool
		wantStatus int
	}{
		{name: "success", status: http.StatusOK, body: `{"access":"A2"}`, wantAccess: "A2"},
		{name: "rejected refresh", status: http.StatusUnauthorized, body: `{"detail":"Token is blacklisted"}`, wantErr: true, wantStatus: 401},
		{name: "server error", status: http.StatusBadGateway, body: ``, wantErr: true, wantStatus: 502},
		{name: "malformed body", status: http.StatusOK, body: `not json`, wantErr: true},
		{name: "empty access", status: http.StatusOK, body: `{"access":""}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotRefresh string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.Empty(t, r.Header.Get("Authorization"))

				var req map[string]string
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				gotRefresh = req["refresh"]

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			r := NewHTTPRenewer(server.URL+DefaultRenewalPath, WithRenewerHTTPClient(server.Client()))
			access, err := r.Renew(context.Background(), "R1")

			assert.Equal(t, "R1", gotRefresh)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.wantAccess, access)
				return
			}

			require.Error(t, err)
			assert.Empty(t, access)
			if tt.wantStatus != 0 {
				var statusErr *RenewalStatusError
				require.True(t, errors.As(err, &statusErr))
				assert.Equal(t, tt.wantStatus, statusErr.StatusCode)
			}
		})
	}
}

func TestHTTPRenewer_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL + DefaultRenewalPath
	server.Close()

	_, err := NewHTTPRenewer(endpoint).Renew(context.Background(), "R1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "renewal request failed")
}

func TestRenewerFunc(t *testing.T) {
	var r Renewer = RenewerFunc(func(_ context.Context, refresh string) (string, error) {
		return "new-" + refresh, nil
	})

	access, err := r.Renew(context.Background(), "R1")
	require.NoError(t, err)
	assert.Equal(t, "new-R1", access)
}
