package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultRenewalTimeout bounds a single renewal call.
const DefaultRenewalTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response body is kept.
const maxErrorBody = 64 << 10

// Renewer exchanges a refresh credential for a new access credential.
type Renewer interface {
	Renew(ctx context.Context, refresh string) (string, error)
}

// RenewerFunc adapts a function to the Renewer interface.
type RenewerFunc func(ctx context.Context, refresh string) (string, error)

// Renew implements Renewer.
func (f RenewerFunc) Renew(ctx context.Context, refresh string) (string, error) {
	return f(ctx, refresh)
}

// RenewalStatusError is returned when the renewal endpoint answers with a
// non-2xx status.
type RenewalStatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *RenewalStatusError) Error() string {
	return fmt.Sprintf("renewal request failed with status %d", e.StatusCode)
}

type renewalRequest struct {
	Refresh string `json:"refresh"`
}

type renewalResponse struct {
	Access string `json:"access"`
}

// HTTPRenewer calls the renewal endpoint: POST {"refresh": ...} -> {"access": ...}.
//
// Its HTTP client must not route through Transport; the renewal endpoint is
// public anyway, but keeping it off the pipeline makes recursion impossible.
type HTTPRenewer struct {
	endpoint   string
	httpClient *http.Client
}

// RenewerOption configures an HTTPRenewer.
type RenewerOption func(*HTTPRenewer)

// WithRenewerHTTPClient sets the HTTP client used for the renewal call.
func WithRenewerHTTPClient(httpClient *http.Client) RenewerOption {
	return func(r *HTTPRenewer) {
		r.httpClient = httpClient
	}
}

// NewHTTPRenewer creates a renewer for the given absolute endpoint URL.
func NewHTTPRenewer(endpoint string, opts ...RenewerOption) *HTTPRenewer {
	r := &HTTPRenewer{
		endpoint:   endpoint,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Renew implements Renewer.
func (r *HTTPRenewer) Renew(ctx context.Context, refresh string) (string, error) {
	payload, err := json.Marshal(renewalRequest{Refresh: refresh})
	if err != nil {
		return "", fmt.Errorf("failed to encode renewal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create renewal request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("renewal request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return "", fmt.Errorf("failed to read renewal response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &RenewalStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out renewalResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to parse renewal response: %w", err)
	}
	if out.Access == "" {
		return "", errors.New("renewal response carries no access credential")
	}

	return out.Access, nil
}

var _ Renewer = (*HTTPRenewer)(nil)
