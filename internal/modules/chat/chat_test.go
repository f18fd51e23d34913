package chat

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ecoexplorer/core/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	reply  string
	err    error
	block  bool
	system string
	prompt string
}

func (f *fakeCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	f.system, f.prompt = system, prompt
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func serve(h *Handler, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r.Group("/api"), func(c *gin.Context) { c.Next() })
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestChatReplies(t *testing.T) {
	fc := &fakeCompleter{reply: "Visit Sinharaja at dawn."}
	w := serve(NewHandler(fc, Options{SystemPrompt: "be brief"}, nil), `{"text":"rainforest?"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"reply":"Visit Sinharaja at dawn."}`, w.Body.String())
	assert.Equal(t, "be brief", fc.system)
	assert.Equal(t, "User message: rainforest?", fc.prompt)
}

func TestChatFallsBackToGreeting(t *testing.T) {
	w := serve(NewHandler(&fakeCompleter{err: errEmptyResponse}, Options{}, nil), `{"text":"hi"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Eco Tourism")
}

func TestChatRejectsMissingText(t *testing.T) {
	fc := &fakeCompleter{reply: "x"}
	w := serve(NewHandler(fc, Options{}, nil), `{"text":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, fc.prompt)

	w = serve(NewHandler(fc, Options{}, nil), `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatTimesOut(t *testing.T) {
	w := serve(NewHandler(&fakeCompleter{block: true}, Options{Timeout: 20 * time.Millisecond}, nil), `{"text":"hi"}`)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Contains(t, w.Body.String(), "timed out")
}

func TestChatProviderFailure(t *testing.T) {
	w := serve(NewHandler(&fakeCompleter{err: errors.New("401 invalid key")}, Options{}, nil), `{"text":"hi"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "invalid key")
}

func TestChatWithoutCompleter(t *testing.T) {
	w := serve(NewHandler(nil, Options{}, nil), `{"text":"hi"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "API key missing")
}

func TestNewCompleterRequiresKey(t *testing.T) {
	_, err := NewCompleter(config.ChatConfig{Provider: "openai"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	c, err := NewCompleter(config.ChatConfig{Provider: "anthropic", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, defaultMaxTokens, c.maxTokens)
}

func TestNormalizeOpenAIBaseURL(t *testing.T) {
	assert.Empty(t, normalizeOpenAIBaseURL(""))
	assert.Equal(t, "https://gw.example.com/v1", normalizeOpenAIBaseURL("https://gw.example.com/"))
	assert.Equal(t, "https://gw.example.com/openai/v1", normalizeOpenAIBaseURL("https://gw.example.com/openai/v1/"))
}
