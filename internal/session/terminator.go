package session

import (
	"context"
	"log/slog"
	"sync"

	"rollcall/internal/credentials"
	"rollcall/pkg/logging"
)

// DefaultLandingTarget is where a terminated session is sent.
const DefaultLandingTarget = "/"

// Reason says why a session was terminated.
type Reason string

const (
	// ReasonRenewalFailed is used when the renewal call failed.
	ReasonRenewalFailed Reason = "renewal_failed"
	// ReasonRepeatedAuthorizationFailure is used when a replayed request was
	// rejected again.
	ReasonRepeatedAuthorizationFailure Reason = "repeated_authorization_failure"
	// ReasonLogout is used for a user initiated logout.
	ReasonLogout Reason = "logout"
)

// Navigator moves the user to the unauthenticated entry point.
type Navigator interface {
	Navigate(ctx context.Context, target string, reason Reason)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(ctx context.Context, target string, reason Reason)

// Navigate implements Navigator.
func (f NavigatorFunc) Navigate(ctx context.Context, target string, reason Reason) {
	f(ctx, target, reason)
}

// Terminator ends a session: it clears stored credentials and then navigates
// to the landing target. Repeated and concurrent calls are safe; each one
// leaves the store empty and navigates again.
type Terminator struct {
	store     credentials.Store
	navigator Navigator
	landing   string
	metrics   *Metrics

	// mu serializes clear+navigate so observers never see a navigation
	// before the store is empty.
	mu sync.Mutex
}

// TerminatorOption configures a Terminator.
type TerminatorOption func(*Terminator)

// WithLandingTarget overrides DefaultLandingTarget.
func WithLandingTarget(target string) TerminatorOption {
	return func(t *Terminator) {
		if target != "" {
			t.landing = target
		}
	}
}

// WithTerminatorMetrics records terminations on m.
func WithTerminatorMetrics(m *Metrics) TerminatorOption {
	return func(t *Terminator) {
		t.metrics = m
	}
}

// NewTerminator creates a terminator. A nil navigator only clears the store.
func NewTerminator(store credentials.Store, navigator Navigator, opts ...TerminatorOption) *Terminator {
	t := &Terminator{
		store:     store,
		navigator: navigator,
		landing:   DefaultLandingTarget,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Landing returns the configured landing target.
func (t *Terminator) Landing() string {
	return t.landing
}

// Terminate clears the credential store and navigates to the landing target.
// Clearing errors are logged, never returned.
func (t *Terminator) Terminate(ctx context.Context, reason Reason) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.Clear(); err != nil {
		logging.Error("Terminator", err, "Failed to clear stored credentials")
	}

	logging.Audit("Terminator", "session_terminated", "Session terminated",
		slog.String("reason", string(reason)),
		slog.String("landing", t.landing),
	)
	t.metrics.terminated(reason)

	if t.navigator != nil {
		t.navigator.Navigate(ctx, t.landing, reason)
	}
}
