package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/ecoexplorer/core/internal/config"
	"github.com/ecoexplorer/core/internal/middleware"
	"github.com/ecoexplorer/core/internal/pkg/redis"
	"github.com/ecoexplorer/core/internal/pkg/session"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret!"), bcrypt.MinCost)
	require.NoError(t, err)
	mr := miniredis.RunT(t)
	sessions := session.NewStore(redis.New(goredis.NewClient(&goredis.Options{Addr: mr.Addr()})))

	svc := NewService(config.AdminConfig{Email: "admin@eco.lk", PasswordHash: string(hash)}, sessions)
	r := gin.New()
	NewHandler(svc, sessions, false, nil).RegisterRoutes(r.Group("/api"), middleware.Auth(sessions))
	return r
}

func post(r *gin.Engine, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r *gin.Engine, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func authCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == middleware.AuthCookie {
			return ck
		}
	}
	t.Fatal("auth cookie not set")
	return nil
}

func TestLoginVerifyLogout(t *testing.T) {
	r := newRouter(t)

	w := post(r, "/api/auth/login", `{"email":"Admin@eco.lk","password":"s3cret!"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	ck := authCookie(t, w)
	assert.Equal(t, 24*60*60, ck.MaxAge)
	assert.True(t, ck.HttpOnly)

	w = get(r, "/api/auth/verify", ck)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin@eco.lk")

	w = get(r, "/api/auth/session", ck)
	assert.Equal(t, http.StatusOK, w.Code)

	w = post(r, "/api/auth/logout", "", ck)
	assert.Equal(t, http.StatusOK, w.Code)

	// the revoked session no longer verifies even with the old cookie
	w = get(r, "/api/auth/verify", ck)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRememberMe(t *testing.T) {
	r := newRouter(t)
	w := post(r, "/api/auth/login", `{"email":"admin@eco.lk","password":"s3cret!","rememberMe":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 30*24*60*60, authCookie(t, w).MaxAge)
}

func TestLoginRejections(t *testing.T) {
	r := newRouter(t)

	w := post(r, "/api/auth/login", `{"email":"admin@eco.lk"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email and password are required")

	w = post(r, "/api/auth/login", `{"email":"admin@eco.lk","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())

	w = post(r, "/api/auth/login", `{"email":"other@eco.lk","password":"s3cret!"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, "/api/auth/verify")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "No token found")
}
