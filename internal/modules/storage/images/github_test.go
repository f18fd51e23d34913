package images

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ecoexplorer/core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeContentsAPI implements the slice of the GitHub contents API the store uses.
type fakeContentsAPI struct {
	mu    sync.Mutex
	files map[string][]byte
	calls []string
}

func (f *fakeContentsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const prefix = "/repos/owner/repo/contents/"
	w.Header().Set("Content-Type", "application/json")
	if r.Header.Get("Authorization") != "Bearer tok" {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
		return
	}
	if !strings.HasPrefix(r.URL.Path, prefix) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
		return
	}
	path := strings.TrimPrefix(r.URL.Path, prefix)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+path)

	switch r.Method {
	case http.MethodGet:
		if _, ok := f.files[path]; !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"type": "file", "path": path, "sha": "sha-" + path})
	case http.MethodPut:
		var body struct {
			Message string `json:"message"`
			Content string `json:"content"`
			Branch  string `json:"branch"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if _, ok := f.files[path]; ok {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"Invalid request.\n\n\"sha\" wasn't supplied."}`))
			return
		}
		data, _ := base64.StdEncoding.DecodeString(body.Content)
		f.files[path] = data
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"content": map[string]string{"path": path, "sha": "sha-" + path}})
	case http.MethodDelete:
		var body struct {
			SHA string `json:"sha"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.SHA != "sha-"+path {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"message":"sha mismatch"}`))
			return
		}
		delete(f.files, path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"commit": map[string]string{"sha": "c1"}})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestGitHubStore(t *testing.T, token string) (*GitHubStore, *fakeContentsAPI) {
	t.Helper()
	api := &fakeContentsAPI{files: make(map[string][]byte)}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	store, err := NewGitHubStore(config.GitHubConfig{
		Token: token, Owner: "owner", Repo: "repo", Branch: "main", Path: "images",
	}, srv.Client()).WithBaseURL(srv.URL)
	require.NoError(t, err)
	return store, api
}

func TestGitHubStorePutExistsDelete(t *testing.T) {
	ctx := context.Background()
	store, api := newTestGitHubStore(t, "tok")

	url, err := store.Put(ctx, "a.jpg", []byte("jpegdata"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://raw.githubusercontent.com/owner/repo/main/images/a.jpg", url)
	assert.Equal(t, []byte("jpegdata"), api.files["images/a.jpg"])

	ok, err := store.Exists(ctx, "a.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Delete(ctx, "a.jpg"))
	assert.NotContains(t, api.files, "images/a.jpg")

	// absent blob: lookup 404s and no DELETE is sent
	require.NoError(t, store.Delete(ctx, "a.jpg"))
	assert.Equal(t, "GET images/a.jpg", api.calls[len(api.calls)-1])

	ok, err = store.Exists(ctx, "a.jpg")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGitHubStoreSurfacesAPIMessage(t *testing.T) {
	store, _ := newTestGitHubStore(t, "wrong")

	_, err := store.Put(context.Background(), "a.jpg", []byte("x"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bad credentials")
}
