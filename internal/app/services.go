package app

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/prometheus/client_golang/prometheus"

	"rollcall/internal/api"
	"rollcall/internal/config"
	"rollcall/internal/credentials"
	"rollcall/internal/session"
	"rollcall/pkg/logging"
)

// Services holds the components of the authenticated request pipeline.
//
// They are initialized leaves first:
//  1. Credential store and metrics registry
//  2. Terminator and renewer
//  3. Coordinator and transport
//  4. API client
type Services struct {
	// Store persists the credential pair under session.storageDir.
	Store *credentials.FileStore

	// Registry collects the pipeline metrics of this process.
	Registry *prometheus.Registry
	Metrics  *session.Metrics

	Terminator  *session.Terminator
	Renewer     *session.HTTPRenewer
	Coordinator *session.Coordinator
	Transport   *session.Transport

	// HTTPClient routes every request through Transport.
	HTTPClient *http.Client

	Client *api.Client
}

// InitializeServices builds the pipeline described by settings. navigator
// may be nil, in which case an ended session only clears the store.
func InitializeServices(settings config.Config, navigator session.Navigator) (*Services, error) {
	base, err := url.Parse(settings.Server.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", settings.Server.BaseURL, err)
	}

	storageDir, err := config.ExpandHome(settings.Session.StorageDir)
	if err != nil {
		return nil, err
	}
	store, err := credentials.NewFileStore(credentials.FileStoreConfig{
		StorageDir: storageDir,
		Key:        settings.Session.StorageKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics := session.NewMetrics(registry)

	terminator := session.NewTerminator(store, navigator,
		session.WithLandingTarget(settings.Session.Landing),
		session.WithTerminatorMetrics(metrics),
	)

	// The renewal call bypasses the pipeline.
	renewer := session.NewHTTPRenewer(
		base.JoinPath(settings.Endpoints.Refresh).String(),
		session.WithRenewerHTTPClient(&http.Client{Timeout: settings.Server.Timeout}),
	)

	coordinator := session.NewCoordinator(store, renewer, terminator,
		session.WithRenewalTimeout(settings.Session.RenewalTimeout),
		session.WithCoordinatorMetrics(metrics),
	)

	transport, err := session.NewTransport(session.TransportConfig{
		Store:       store,
		Classifier:  session.NewClassifier(settings.Endpoints.PublicPaths()...),
		Coordinator: coordinator,
		Terminator:  terminator,
		Metrics:     metrics,
	})
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Transport: transport, Timeout: settings.Server.Timeout}

	client, err := api.NewClient(api.ClientConfig{
		BaseURL:    base.String(),
		HTTPClient: httpClient,
		Store:      store,
		Terminator: terminator,
		Endpoints: api.Endpoints{
			Register: settings.Endpoints.Register,
			Token:    settings.Endpoints.Token,
			Refresh:  settings.Endpoints.Refresh,
			Logout:   settings.Endpoints.Logout,
		},
	})
	if err != nil {
		return nil, err
	}

	logging.Debug("Bootstrap", "Request pipeline ready for %s (credentials in %s)", base, store.Path())

	return &Services{
		Store:       store,
		Registry:    registry,
		Metrics:     metrics,
		Terminator:  terminator,
		Renewer:     renewer,
		Coordinator: coordinator,
		Transport:   transport,
		HTTPClient:  httpClient,
		Client:      client,
	}, nil
}
