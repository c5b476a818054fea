package session

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"rollcall/internal/credentials"
)

// fakeBackend accepts a single access credential on protected endpoints and
// exchanges refresh credentials for new access credentials.
type fakeBackend struct {
	t      *testing.T
	server *httptest.Server

	mu        sync.Mutex
	valid     string
	issue     map[string]string
	seenAuth  []string
	seenBody  []string
	seenIDs   []string
	protected atomic.Int32
	renewals  atomic.Int32

	// renewGate, when set, blocks the renewal handler until closed.
	renewGate chan struct{}
	// renewStatus overrides the renewal response status when non-zero.
	renewStatus int
}

func newFakeBackend(t *testing.T, valid string) *fakeBackend {
	t.Helper()
	b := &fakeBackend{
		t:     t,
		valid: valid,
		issue: map[string]string{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc(DefaultRenewalPath, b.handleRenew)
	mux.HandleFunc(DefaultTokenPath, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"No active account found with the given credentials"}`))
	})
	mux.HandleFunc("/api/v1/", b.handleProtected)

	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBackend) url(path string) string {
	return b.server.URL + path
}

func (b *fakeBackend) handleRenew(w http.ResponseWriter, r *http.Request) {
	b.renewals.Add(1)
	if b.renewGate != nil {
		<-b.renewGate
	}
	if b.renewStatus != 0 {
		w.WriteHeader(b.renewStatus)
		_, _ = w.Write([]byte(`{"detail":"Token is invalid or expired"}`))
		return
	}

	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	access, ok := b.issue[req.Refresh]
	b.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"access": access})
}

func (b *fakeBackend) handleProtected(w http.ResponseWriter, r *http.Request) {
	b.protected.Add(1)
	auth := r.Header.Get("Authorization")

	body, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	b.seenAuth = append(b.seenAuth, auth)
	b.seenBody = append(b.seenBody, string(body))
	b.seenIDs = append(b.seenIDs, r.Header.Get(RequestIDHeader))
	valid := b.valid
	b.mu.Unlock()

	if valid == "" || auth != "Bearer "+valid {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Given token not valid for any token type"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"ok":true}`))
}

func (b *fakeBackend) auths() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.seenAuth...)
}

// recordingNavigator records every navigation.
type recordingNavigator struct {
	mu      sync.Mutex
	targets []string
	reasons []Reason
}

func (n *recordingNavigator) Navigate(_ context.Context, target string, reason Reason) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.targets = append(n.targets, target)
	n.reasons = append(n.reasons, reason)
}

func (n *recordingNavigator) calls() ([]string, []Reason) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.targets...), append([]Reason(nil), n.reasons...)
}

type pipeline struct {
	store       *credentials.MemoryStore
	navigator   *recordingNavigator
	terminator  *Terminator
	coordinator *Coordinator
	transport   *Transport
	client      *http.Client
}

func newPipeline(t *testing.T, backend *fakeBackend, renewer Renewer, initial credentials.Pair) *pipeline {
	t.Helper()
	store := credentials.NewMemoryStore()
	if initial.Complete() {
		require.NoError(t, store.Set(initial))
	}
	if renewer == nil {
		renewer = NewHTTPRenewer(backend.url(DefaultRenewalPath))
	}

	nav := &recordingNavigator{}
	term := NewTerminator(store, nav)
	coord := NewCoordinator(store, renewer, term)
	tr, err := NewTransport(TransportConfig{
		Store:       store,
		Classifier:  NewClassifier(DefaultPublicPaths...),
		Coordinator: coord,
		Terminator:  term,
	})
	require.NoError(t, err)

	return &pipeline{
		store:       store,
		navigator:   nav,
		terminator:  term,
		coordinator: coord,
		transport:   tr,
		client:      &http.Client{Transport: tr},
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
