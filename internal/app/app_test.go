package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ecoexplorer/core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg, err := config.Parse([]byte(`
env: production
records:
  driver: memory
images:
  driver: memory
`))
	require.NoError(t, err)

	a, err := New(nil, cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		a.Shutdown()
		_ = a.Close()
	})
	return a
}

func TestPublicRoutes(t *testing.T) {
	a := newTestApp(t)

	for path, want := range map[string]int{
		"/api/ping":          http.StatusOK,
		"/api/uptime":        http.StatusOK,
		"/api/locations":     http.StatusOK,
		"/api/locations/abc": http.StatusNotFound,
		"/api/auth/verify":   http.StatusUnauthorized,
		"/nope":              http.StatusNotFound,
	} {
		w := httptest.NewRecorder()
		a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code, path)
	}
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	a := newTestApp(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/locations"},
		{http.MethodDelete, "/api/locations/abc"},
		{http.MethodPost, "/api/adminupload"},
		{http.MethodDelete, "/api/delete-location"},
		{http.MethodPost, "/api/update-location"},
		{http.MethodGet, "/api/tasks"},
	} {
		w := httptest.NewRecorder()
		a.Router().ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.path)
	}
}

func TestMatchOriginPattern(t *testing.T) {
	assert.True(t, matchOriginPattern("*.ecoexplorer.lk", "admin.ecoexplorer.lk"))
	assert.True(t, matchOriginPattern("localhost:*", "localhost:3000"))
	assert.False(t, matchOriginPattern("ecoexplorer.lk", "evil.lk"))
	assert.Equal(t, "ecoexplorer.lk:8443", extractOriginHost("https://ecoexplorer.lk:8443"))
}
