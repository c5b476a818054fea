package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rollcall/internal/credentials"
	"rollcall/pkg/logging"
)

// RenewalState is the coordinator's state.
type RenewalState int

const (
	// StateIdle means no renewal is in flight.
	StateIdle RenewalState = iota
	// StateRenewing means one renewal call is in flight and callers queue
	// behind it.
	StateRenewing
)

// String returns the string representation of the state.
func (s RenewalState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRenewing:
		return "renewing"
	default:
		return "unknown"
	}
}

type renewalResult struct {
	access string
	err    error
}

// waiter is a caller queued behind the in-flight renewal. The channel is
// buffered so the coordinator can release it without blocking even when the
// caller stopped listening.
type waiter struct {
	result chan renewalResult
}

// Coordinator ensures at most one credential renewal is in flight. Callers
// arriving while a renewal runs are queued and released in arrival order
// with the outcome of that renewal.
type Coordinator struct {
	mu      sync.Mutex
	state   RenewalState
	waiters []*waiter

	store      credentials.Store
	renewer    Renewer
	terminator *Terminator
	timeout    time.Duration
	metrics    *Metrics
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithRenewalTimeout bounds each renewal call. Zero disables the bound.
func WithRenewalTimeout(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		c.timeout = d
	}
}

// WithCoordinatorMetrics records renewals on m.
func WithCoordinatorMetrics(m *Metrics) CoordinatorOption {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

// NewCoordinator creates an idle coordinator.
func NewCoordinator(store credentials.Store, renewer Renewer, terminator *Terminator, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		state:      StateIdle,
		store:      store,
		renewer:    renewer,
		terminator: terminator,
		timeout:    DefaultRenewalTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Coordinator) State() RenewalState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// InProgress reports whether a renewal is in flight.
func (c *Coordinator) InProgress() bool {
	return c.State() == StateRenewing
}

// Renew returns a fresh access credential, starting a renewal or joining the
// one already in flight.
//
// On failure the session has been terminated and the error matches
// ErrRenewalFailed. A queued caller whose ctx ends first returns ctx.Err();
// the renewal itself keeps running for the other callers.
func (c *Coordinator) Renew(ctx context.Context) (string, error) {
	return c.RenewAfterRejection(ctx, "")
}

// RenewAfterRejection is Renew for a caller whose request was rejected while
// carrying the access credential rejected. If the store already holds a
// different access credential, a renewal completed after that request was
// sent and the stored credential is returned without a new renewal call.
func (c *Coordinator) RenewAfterRejection(ctx context.Context, rejected string) (string, error) {
	c.mu.Lock()
	if c.state == StateRenewing {
		w := &waiter{result: make(chan renewalResult, 1)}
		c.waiters = append(c.waiters, w)
		c.mu.Unlock()

		c.metrics.waiterJoined()
		logging.Debug("Coordinator", "Renewal in flight, queued as waiter")

		select {
		case res := <-w.result:
			return res.access, res.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if rejected != "" {
		if pair, ok := c.store.Get(); ok && pair.Access != rejected {
			c.mu.Unlock()
			logging.Debug("Coordinator", "Stored credential already renewed, skipping renewal")
			return pair.Access, nil
		}
	}

	c.state = StateRenewing
	c.mu.Unlock()

	return c.lead(ctx)
}

// lead runs the renewal as the cycle's originator. The deferred settle runs
// even when the renewer panics, so the coordinator always returns to idle.
func (c *Coordinator) lead(ctx context.Context) (string, error) {
	res := renewalResult{err: fmt.Errorf("%w: renewal aborted", ErrRenewalFailed)}
	start := time.Now()
	c.metrics.renewalStarted()

	defer func() {
		c.metrics.renewalFinished(start, res.err)
		c.settle(res)
	}()

	res = c.perform(ctx)
	return res.access, res.err
}

func (c *Coordinator) perform(ctx context.Context) renewalResult {
	// The renewal outlives the caller that started it: other callers are
	// queued on its outcome.
	rctx := context.WithoutCancel(ctx)
	if c.timeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(rctx, c.timeout)
		defer cancel()
	}

	pair, ok := c.store.Get()
	if !ok {
		return c.fail(rctx, ErrNoCredentials)
	}

	logging.Info("Coordinator", "Renewing access credential")
	access, err := c.renewer.Renew(rctx, pair.Refresh)
	if err != nil {
		return c.fail(rctx, err)
	}

	if err := c.store.Set(pair.WithAccess(access)); err != nil {
		logging.Error("Coordinator", err, "Failed to persist renewed credential")
	}

	logging.Info("Coordinator", "Access credential renewed")
	return renewalResult{access: access}
}

func (c *Coordinator) fail(ctx context.Context, cause error) renewalResult {
	logging.Warn("Coordinator", "Credential renewal failed: %v", cause)
	if c.terminator != nil {
		c.terminator.Terminate(ctx, ReasonRenewalFailed)
	}
	return renewalResult{err: fmt.Errorf("%w: %w", ErrRenewalFailed, cause)}
}

// settle returns the coordinator to idle and releases every queued caller,
// in arrival order, with res.
func (c *Coordinator) settle(res renewalResult) {
	c.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.state = StateIdle
	c.mu.Unlock()

	for _, w := range waiters {
		w.result <- res
	}
}

// queued returns the number of queued callers.
func (c *Coordinator) queued() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}
