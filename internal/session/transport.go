package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"rollcall/internal/credentials"
	"rollcall/pkg/logging"
)

// RequestIDHeader carries a per request correlation id. Replays keep the id of
// the request they replay.
const RequestIDHeader = "X-Request-ID"

type retriedKey struct{}

// IsRetried reports whether ctx belongs to a request replayed after a
// credential renewal.
func IsRetried(ctx context.Context) bool {
	retried, _ := ctx.Value(retriedKey{}).(bool)
	return retried
}

// attempt is the retry marker threaded through send.
type attempt struct {
	retried bool
	// access is the credential to attach; empty means read the store.
	access string
}

// TransportConfig configures a Transport.
type TransportConfig struct {
	// Base sends the requests. Defaults to http.DefaultTransport.
	Base http.RoundTripper

	Store       credentials.Store
	Classifier  *Classifier
	Coordinator *Coordinator
	Terminator  *Terminator
	Metrics     *Metrics
}

// Transport is the authenticated request pipeline.
type Transport struct {
	base        http.RoundTripper
	store       credentials.Store
	classifier  *Classifier
	coordinator *Coordinator
	terminator  *Terminator
	metrics     *Metrics
}

// NewTransport validates cfg and creates a Transport.
func NewTransport(cfg TransportConfig) (*Transport, error) {
	if cfg.Store == nil {
		return nil, errors.New("credential store is required")
	}
	if cfg.Coordinator == nil {
		return nil, errors.New("renewal coordinator is required")
	}
	if cfg.Terminator == nil {
		return nil, errors.New("session terminator is required")
	}

	t := &Transport{
		base:        cfg.Base,
		store:       cfg.Store,
		classifier:  cfg.Classifier,
		coordinator: cfg.Coordinator,
		terminator:  cfg.Terminator,
		metrics:     cfg.Metrics,
	}
	if t.base == nil {
		t.base = http.DefaultTransport
	}
	if t.classifier == nil {
		t.classifier = NewClassifier(DefaultPublicPaths...)
	}
	return t, nil
}

// RoundTrip implements http.RoundTripper.
//
// Public endpoints are sent unmodified and their responses, 401 included, are
// returned unchanged. Requests to protected endpoints carry the stored access
// credential and recover from a 401 by renewing once and replaying once.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.classifier.IsPublic(req.URL.Path) {
		return t.base.RoundTrip(req)
	}

	prepared, err := prepare(req)
	if err != nil {
		return nil, err
	}
	return t.send(prepared, attempt{})
}

// prepare clones req, assigns a request id and makes the body replayable.
func prepare(req *http.Request) (*http.Request, error) {
	out := req.Clone(req.Context())
	if out.Header.Get(RequestIDHeader) == "" {
		out.Header.Set(RequestIDHeader, uuid.NewString())
	}

	if req.Body == nil || req.Body == http.NoBody || req.GetBody != nil {
		return out, nil
	}

	data, err := io.ReadAll(req.Body)
	closeErr := req.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to buffer request body: %w", err)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("failed to close request body: %w", closeErr)
	}

	out.Body = io.NopCloser(bytes.NewReader(data))
	out.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	out.ContentLength = int64(len(data))
	return out, nil
}

func (t *Transport) send(req *http.Request, a attempt) (*http.Response, error) {
	ctx := req.Context()
	requestID := req.Header.Get(RequestIDHeader)

	outgoing := req.Clone(ctx)
	if a.retried && req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("failed to rewind request body: %w", err)
		}
		outgoing.Body = body
	}

	access := a.access
	if access == "" {
		if pair, ok := t.store.Get(); ok {
			access = pair.Access
		}
	}
	if access != "" {
		(&oauth2.Token{AccessToken: access, TokenType: "Bearer"}).SetAuthHeader(outgoing)
	}

	resp, err := t.base.RoundTrip(outgoing)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()

	authErr := &AuthError{
		Method:     req.Method,
		URL:        req.URL.Redacted(),
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}

	if a.retried {
		logging.Warn("Transport", "Request %s rejected again after renewal (request_id=%s)", req.URL.Path, requestID)
		t.terminator.Terminate(ctx, ReasonRepeatedAuthorizationFailure)
		authErr.Kind = KindRepeatedAuthorizationFailure
		authErr.Err = ErrRepeatedAuthorizationFailure
		return nil, authErr
	}

	logging.Debug("Transport", "Request %s unauthorized, renewing credential (request_id=%s)", req.URL.Path, requestID)
	renewed, err := t.coordinator.RenewAfterRejection(ctx, access)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, fmt.Errorf("waiting for credential renewal: %w", err)
		}
		authErr.Kind = KindRenewalFailed
		authErr.Err = err
		return nil, authErr
	}

	t.metrics.replayed()
	logging.Debug("Transport", "Replaying %s with renewed credential (request_id=%s)", req.URL.Path, requestID)
	replay := req.WithContext(context.WithValue(ctx, retriedKey{}, true))
	return t.send(replay, attempt{retried: true, access: renewed})
}

var _ http.RoundTripper = (*Transport)(nil)
