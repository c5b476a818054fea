package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollcall/internal/credentials"
	"rollcall/internal/session"
)

// backend is a fake attendance API that accepts one access credential.
type backend struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	valid    string
	renewTo  string
	bodies   map[string][]byte
	requests []string

	renewals atomic.Int32
}

func newBackend(t *testing.T, valid string) *backend {
	t.Helper()
	b := &backend{t: t, valid: valid, bodies: map[string][]byte{}}

	mux := http.NewServeMux()
	mux.HandleFunc(session.DefaultTokenPath, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			IDCardNumber string `json:"id_card_number"`
			Password     string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.IDCardNumber != "4242" || req.Password != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"No active account found with the given credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access":"` + valid + `","refresh":"R1"}`))
	})
	mux.HandleFunc(session.DefaultRenewalPath, func(w http.ResponseWriter, r *http.Request) {
		b.renewals.Add(1)
		b.mu.Lock()
		next := b.renewTo
		if next != "" {
			b.valid = next
		}
		b.mu.Unlock()
		if next == "" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Token is blacklisted"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access":"` + next + `"}`))
	})
	mux.HandleFunc("/", b.protected)

	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

func (b *backend) protected(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	valid := b.valid
	b.requests = append(b.requests, r.Method+" "+r.URL.Path)
	b.bodies[r.Method+" "+r.URL.Path] = body
	b.mu.Unlock()

	if r.Header.Get("Authorization") != "Bearer "+valid {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Given token not valid for any token type"}`))
		return
	}

	switch r.Method + " " + r.URL.Path {
	case "GET /api/v1/subjects/":
		_, _ = w.Write([]byte(`[{"id":3,"subject_name":"Linear Algebra","subject_code":"MA201"}]`))
	case "GET /api/v1/attendance/overall-stats/":
		_, _ = w.Write([]byte(`{"present":8,"absent":2,"total":10,"percentage":80.0}`))
	case "GET /api/v1/timetable/today/":
		_, _ = w.Write([]byte(`[{"id":1,"subject":3,"day_of_week":"MON","day_label":"Monday","start_time":"09:00:00","end_time":null}]`))
	case "POST /api/v1/attendance/mark/":
		_, _ = w.Write([]byte(`{"id":7,"subject":3,"date":"2025-03-14","status":"PRESENT"}`))
	case "POST /api/v1/timetable/subject/3/add/", "POST /api/v1/accounts/logout/":
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Not found."}`))
	}
}

func (b *backend) body(key string) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bodies[key]
}

func (b *backend) requestCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

// cliEnv runs command trees against a backend with isolated configuration
// and credential directories.
type cliEnv struct {
	t          *testing.T
	backend    *backend
	configDir  string
	storageDir string
	stdin      string
}

func newCLIEnv(t *testing.T, b *backend) *cliEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ROLLCALL_SERVER", "")
	t.Setenv("ROLLCALL_CONFIG_PATH", "")

	e := &cliEnv{t: t, backend: b, configDir: t.TempDir(), storageDir: t.TempDir()}
	content := "session:\n  storageDir: " + e.storageDir + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, "config.yaml"), []byte(content), 0600))
	return e
}

type result struct {
	stdout string
	stderr string
	err    error
}

func (e *cliEnv) run(args ...string) result {
	e.t.Helper()
	rt := &runtime{}
	root := newRootCmd(rt)

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(e.stdin))

	base := []string{"--config-path", e.configDir, "--no-color", "-q"}
	if e.backend != nil {
		base = append(base, "--server", e.backend.server.URL+"/")
	}
	root.SetArgs(append(base, args...))

	err := execute(context.Background(), root, rt)
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func (e *cliEnv) store() *credentials.FileStore {
	e.t.Helper()
	store, err := credentials.NewFileStore(credentials.FileStoreConfig{StorageDir: e.storageDir})
	require.NoError(e.t, err)
	return store
}

func (e *cliEnv) login(pair credentials.Pair) {
	e.t.Helper()
	require.NoError(e.t, e.store().Set(pair))
}

func TestAuthLogin(t *testing.T) {
	b := newBackend(t, "A1")
	env := newCLIEnv(t, b)
	env.stdin = "hunter2\n"

	res := env.run("auth", "login", "--id-card", "4242", "--password-stdin")
	require.NoError(t, res.err)

	pair, ok := env.store().Get()
	require.True(t, ok)
	assert.Equal(t, credentials.Pair{Access: "A1", Refresh: "R1"}, pair)
}

func TestAuthLogin_Rejected(t *testing.T) {
	b := newBackend(t, "A1")
	env := newCLIEnv(t, b)
	env.stdin = "wrong\n"

	res := env.run("auth", "login", "--id-card", "4242", "--password-stdin")
	require.Error(t, res.err)
	assert.Equal(t, ExitCodeAuthFailed, getExitCode(res.err))
	assert.Contains(t, res.err.Error(), "No active account found")

	_, ok := env.store().Get()
	assert.False(t, ok)
}

func TestAuthLogin_MissingInputWithoutPrompter(t *testing.T) {
	env := newCLIEnv(t, newBackend(t, "A1"))

	res := env.run("auth", "login", "--id-card", "4242")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "Password is required")
}

func TestProtectedCommand_RequiresSession(t *testing.T) {
	b := newBackend(t, "A1")
	env := newCLIEnv(t, b)

	res := env.run("subjects", "list")
	require.Error(t, res.err)
	assert.Equal(t, ExitCodeAuthRequired, getExitCode(res.err))
	assert.Contains(t, res.err.Error(), "rollcall auth login")
	assert.Zero(t, b.requestCount())
}

func TestDashboard_RenewsOnceAndReplays(t *testing.T) {
	b := newBackend(t, "A2")
	b.renewTo = "A2"
	env := newCLIEnv(t, b)
	env.login(credentials.Pair{Access: "A1", Refresh: "R1"})

	res := env.run("dashboard", "-o", "json")
	require.NoError(t, res.err, res.stderr)

	assert.EqualValues(t, 1, b.renewals.Load())
	assert.Contains(t, res.stdout, `"subject_name": "Linear Algebra"`)
	assert.Contains(t, res.stdout, `"percentage": 80`)
	assert.NotContains(t, res.stderr, "session ended")

	pair, ok := env.store().Get()
	require.True(t, ok)
	assert.Equal(t, credentials.Pair{Access: "A2", Refresh: "R1"}, pair)
}

func TestSessionEnded_WhenRenewalFails(t *testing.T) {
	b := newBackend(t, "A2")
	env := newCLIEnv(t, b)
	env.login(credentials.Pair{Access: "A1", Refresh: "R1"})

	res := env.run("subjects", "list")
	require.Error(t, res.err)
	assert.Equal(t, ExitCodeAuthRequired, getExitCode(res.err))
	assert.Equal(t, 1, strings.Count(res.stderr, "session ended (renewal_failed): run 'rollcall auth login'"))

	_, ok := env.store().Get()
	assert.False(t, ok)
}

func TestAuthRefresh(t *testing.T) {
	b := newBackend(t, "A1")
	b.renewTo = "A9"
	env := newCLIEnv(t, b)
	env.login(credentials.Pair{Access: "A1", Refresh: "R1"})

	require.NoError(t, env.run("auth", "refresh").err)
	pair, _ := env.store().Get()
	assert.Equal(t, "A9", pair.Access)

	b.mu.Lock()
	b.renewTo = ""
	b.mu.Unlock()
	res := env.run("auth", "refresh")
	assert.Equal(t, ExitCodeAuthRequired, getExitCode(res.err))
	_, ok := env.store().Get()
	assert.False(t, ok)
}

func TestAuthLogout(t *testing.T) {
	b := newBackend(t, "A1")
	env := newCLIEnv(t, b)
	env.login(credentials.Pair{Access: "A1", Refresh: "R1"})

	res := env.run("auth", "logout")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Logged out")
	assert.NotContains(t, res.stderr, "session ended")
	assert.JSONEq(t, `{"refresh":"R1"}`, string(b.body("POST /api/v1/accounts/logout/")))

	_, ok := env.store().Get()
	assert.False(t, ok)

	res = env.run("auth", "logout")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Not logged in")
}

func TestAuthStatus(t *testing.T) {
	env := newCLIEnv(t, newBackend(t, "A1"))

	res := env.run("auth", "status", "-o", "json")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `"authenticated": false`)

	env.login(credentials.Pair{Access: "opaque", Refresh: "R1"})
	res = env.run("auth", "status", "-o", "json")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `"authenticated": true`)
	assert.Contains(t, res.stdout, `"opaque": true`)
}

func TestAttendanceMark(t *testing.T) {
	b := newBackend(t, "A1")
	env := newCLIEnv(t, b)
	env.login(credentials.Pair{Access: "A1", Refresh: "R1"})

	res := env.run("attendance", "mark", "3", "--status", "present", "--date", "2025-03-14")
	require.NoError(t, res.err)
	assert.JSONEq(t, `{"subject":3,"date":"2025-03-14","status":"PRESENT"}`, string(b.body("POST /api/v1/attendance/mark/")))

	res = env.run("attendance", "mark", "3", "--status", "late")
	require.Error(t, res.err)
	assert.Equal(t, ExitCodeError, getExitCode(res.err))

	res = env.run("attendance", "mark", "3", "--status", "absent", "--date", "14/03/2025")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "YYYY-MM-DD")
}

func TestTimetableAdd(t *testing.T) {
	b := newBackend(t, "A1")
	env := newCLIEnv(t, b)
	env.login(credentials.Pair{Access: "A1", Refresh: "R1"})

	res := env.run("timetable", "add", "3", "--day", "tuesday", "--start", "9:00")
	require.NoError(t, res.err)
	assert.JSONEq(t, `{"subject":3,"day_of_week":"TUE","start_time":"09:00:00","end_time":null}`,
		string(b.body("POST /api/v1/timetable/subject/3/add/")))
}

func TestNotFoundIsGeneralError(t *testing.T) {
	b := newBackend(t, "A1")
	env := newCLIEnv(t, b)
	env.login(credentials.Pair{Access: "A1", Refresh: "R1"})

	res := env.run("attendance", "records", "99")
	require.Error(t, res.err)
	assert.Equal(t, ExitCodeError, getExitCode(res.err))
	assert.Contains(t, res.err.Error(), "Not found.")
}

func TestMetricsFlag(t *testing.T) {
	b := newBackend(t, "A2")
	b.renewTo = "A2"
	env := newCLIEnv(t, b)
	env.login(credentials.Pair{Access: "A1", Refresh: "R1"})

	res := env.run("--metrics", "subjects", "list")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "rollcall_session_renewals_total")
	assert.Contains(t, res.stderr, "rollcall_session_replays_total 1")
}

func TestConfigInitAndShow(t *testing.T) {
	env := newCLIEnv(t, nil)
	require.NoError(t, os.Remove(filepath.Join(env.configDir, "config.yaml")))

	res := env.run("--server", "https://attendance.example.edu/", "config", "init")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, filepath.Join(env.configDir, "config.yaml"))

	res = env.run("config", "init")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "--force")

	res = env.run("config", "show")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "baseURL: https://attendance.example.edu/")
	assert.Contains(t, res.stdout, "renewalTimeout: 30s")

	res = env.run("config", "path")
	require.NoError(t, res.err)
	assert.Equal(t, filepath.Join(env.configDir, "config.yaml")+"\n", res.stdout)
}

func TestClockTime(t *testing.T) {
	v, err := clockTime("start", "9:05")
	require.NoError(t, err)
	assert.Equal(t, "09:05:00", *v)

	v, err = clockTime("start", "")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = clockTime("end", "25:00")
	assert.Error(t, err)
	_, err = clockTime("end", "noon")
	assert.Error(t, err)
}

func TestParseID(t *testing.T) {
	id, err := parseID("subject", "12")
	require.NoError(t, err)
	assert.Equal(t, 12, id)

	for _, bad := range []string{"0", "-1", "abc"} {
		_, err := parseID("subject", bad)
		assert.Error(t, err, bad)
	}
}
