package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"rollcall/internal/credentials"
	"rollcall/internal/session"
	"rollcall/pkg/logging"
)

// Resource paths below the base URL.
const (
	subjectsPath         = "/api/v1/subjects/"
	markPath             = "/api/v1/attendance/mark/"
	overallStatsPath     = "/api/v1/attendance/overall-stats/"
	subjectAttendanceFmt = "/api/v1/attendance/subject/%d/%s/"
	todayPath            = "/api/v1/timetable/today/"
	subjectTimetableFmt  = "/api/v1/timetable/subject/%d/"

	// DefaultLogoutPath blacklists a refresh credential server side.
	DefaultLogoutPath = "/api/v1/accounts/logout/"
)

// maxResponseBody caps decoded response bodies.
const maxResponseBody = 10 << 20

// Endpoints are the account endpoint paths.
type Endpoints struct {
	Register string
	Token    string
	Refresh  string
	Logout   string
}

// DefaultEndpoints returns the backend's account endpoint paths.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Register: session.DefaultRegisterPath,
		Token:    session.DefaultTokenPath,
		Refresh:  session.DefaultRenewalPath,
		Logout:   DefaultLogoutPath,
	}
}

// withDefaults fills empty paths from DefaultEndpoints.
func (e Endpoints) withDefaults() Endpoints {
	d := DefaultEndpoints()
	if e.Register == "" {
		e.Register = d.Register
	}
	if e.Token == "" {
		e.Token = d.Token
	}
	if e.Refresh == "" {
		e.Refresh = d.Refresh
	}
	if e.Logout == "" {
		e.Logout = d.Logout
	}
	return e
}

// ClientConfig configures a Client.
type ClientConfig struct {
	// BaseURL is the backend root, e.g. "http://127.0.0.1:8000/".
	BaseURL string

	// HTTPClient must route through a *session.Transport for protected
	// calls to be authenticated.
	HTTPClient *http.Client

	// Store receives the credential pair on login.
	Store credentials.Store

	// Terminator ends the session on logout. When nil, logout only clears
	// Store.
	Terminator *session.Terminator

	Endpoints Endpoints
}

// Client calls the backend API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	store      credentials.Store
	terminator *session.Terminator
	endpoints  Endpoints
}

// NewClient validates cfg and creates a Client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", cfg.BaseURL)
	}
	if cfg.Store == nil {
		return nil, errors.New("credential store is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		store:      cfg.Store,
		terminator: cfg.Terminator,
		endpoints:  cfg.Endpoints.withDefaults(),
	}, nil
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Endpoints returns the account endpoint paths in use.
func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// resolve joins path onto the base URL, keeping any base path prefix.
func (c *Client) resolve(path string) string {
	return c.baseURL.JoinPath(path).String()
}

// do sends a JSON request and decodes a JSON response into out. A nil in
// sends no body; a nil out discards the response body.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), body)
	if err != nil {
		return fmt.Errorf("failed to create %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logging.Debug("API", "%s %s", method, path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("failed to read %s %s response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Detail:     parseDetail(data),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func subjectAttendancePath(subjectID int, leaf string) string {
	return fmt.Sprintf(subjectAttendanceFmt, subjectID, strings.Trim(leaf, "/"))
}
