package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clirepo "MedMonitor/internal/cli/repo"
	"MedMonitor/internal/cli/repo/fs"
	"MedMonitor/internal/config"
)

// captureOut перенаправляет вывод CLI в буфер на время теста.
func captureOut(t *testing.T) *bytes.Buffer {
	t.Helper()
	old := Out
	buf := &bytes.Buffer{}
	Out = buf
	t.Cleanup(func() { Out = old })
	return buf
}

func testConfig(t *testing.T, serverURL string) *config.Config {
	t.Helper()
	return &config.Config{
		ServerURL: serverURL,
		TokenDir:  t.TempDir(),
	}
}

func TestDispatch_UnknownCommand(t *testing.T) {
	buf := captureOut(t)
	cfg := testConfig(t, "http://localhost:0")

	code := Dispatch(context.Background(), cfg, []string{"frobnicate"})

	assert.Equal(t, 2, code)
	assert.Contains(t, buf.String(), "Unknown command: frobnicate")
	assert.Contains(t, buf.String(), "MedMonitor CLI")
}

func TestDispatch_HelpListsCommands(t *testing.T) {
	buf := captureOut(t)
	cfg := testConfig(t, "http://localhost:0")

	code := Dispatch(context.Background(), cfg, []string{"help"})

	assert.Equal(t, 0, code)
	for _, name := range []string{"login", "logout", "status", "vitals", "devices", "watch"} {
		assert.Contains(t, buf.String(), name)
	}
}

func TestDispatch_UsageOnBadArgs(t *testing.T) {
	buf := captureOut(t)
	cfg := testConfig(t, "http://localhost:0")

	code := Dispatch(context.Background(), cfg, []string{"login", "only-email"})

	assert.Equal(t, 2, code)
	assert.Contains(t, buf.String(), "Usage: login <email> <password>")
}

func TestLoginCommand_StoresTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "a1",
			"refresh_token": "r1",
			"user":          map[string]any{"id": 7, "email": "kate@example.com", "full_name": "Kate K"},
		})
	}))
	defer srv.Close()

	buf := captureOut(t)
	cfg := testConfig(t, srv.URL)

	code := Dispatch(context.Background(), cfg, []string{"login", "kate@example.com", "secret"})

	assert.Equal(t, 0, code)
	assert.Contains(t, buf.String(), "Logged in as Kate K")

	store := fs.AuthFSStore{Dir: cfg.TokenDir}
	pair, err := store.LoadTokens()
	require.NoError(t, err)
	assert.Equal(t, "a1", pair.Access)
	assert.Equal(t, "r1", pair.Refresh)
}

func TestStatusCommand_NotLoggedIn(t *testing.T) {
	buf := captureOut(t)
	cfg := testConfig(t, "http://localhost:0")

	code := Dispatch(context.Background(), cfg, []string{"status"})

	assert.Equal(t, 0, code)
	assert.Contains(t, buf.String(), "Not logged in")
}

func TestLogoutCommand_DropsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "logged out"})
	}))
	defer srv.Close()

	buf := captureOut(t)
	cfg := testConfig(t, srv.URL)
	store := fs.AuthFSStore{Dir: cfg.TokenDir}
	require.NoError(t, store.SaveTokens(clirepo.TokenPair{Access: "a1", Refresh: "r1"}))

	code := Dispatch(context.Background(), cfg, []string{"logout"})

	assert.Equal(t, 0, code)
	assert.Contains(t, buf.String(), "Logged out")
	assert.Empty(t, store.AccessToken())
}

func TestVitalsCommand_PrintsLatest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer a1", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"latest": map[string]any{
				"heart_rate":  72.0,
				"spo2":        98.0,
				"recorded_at": "2026-08-29T10:00:00Z",
			},
		})
	}))
	defer srv.Close()

	buf := captureOut(t)
	cfg := testConfig(t, srv.URL)
	store := fs.AuthFSStore{Dir: cfg.TokenDir}
	require.NoError(t, store.SaveTokens(clirepo.TokenPair{Access: "a1", Refresh: "r1"}))

	code := Dispatch(context.Background(), cfg, []string{"vitals"})

	assert.Equal(t, 0, code)
	assert.Contains(t, buf.String(), "heart_rate")
	assert.Contains(t, buf.String(), "72.0 bpm")
	assert.Contains(t, buf.String(), "recorded at 2026-08-29T10:00:00Z")
}

func TestVitalsCommand_AddRejectsMalformedPair(t *testing.T) {
	captureOut(t)
	cfg := testConfig(t, "http://localhost:0")

	code := Dispatch(context.Background(), cfg, []string{"vitals", "add", "heart_rate"})

	assert.Equal(t, 2, code)
}
