package contact

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ecoexplorer/core/internal/pkg/mail"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRelay struct {
	err  error
	sent []mail.ContactData
}

func (f *fakeRelay) SendContact(_ context.Context, data mail.ContactData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

func submit(relay Relay, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(relay, nil).RegisterRoutes(r.Group("/api"), func(c *gin.Context) { c.Next() })
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestContactRelaysMessage(t *testing.T) {
	relay := &fakeRelay{}
	w := submit(relay, `{"name":" Kamal ","email":"kamal@example.lk","message":"Is Horton Plains open in May?"}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, relay.sent, 1)
	assert.Equal(t, "Kamal", relay.sent[0].Name)
	assert.Equal(t, "kamal@example.lk", relay.sent[0].Email)
}

func TestContactValidation(t *testing.T) {
	relay := &fakeRelay{}
	for _, body := range []string{
		`{"name":"","email":"a@b.lk","message":"hi"}`,
		`{"name":"A","email":"not-an-email","message":"hi"}`,
		`{"name":"A","email":"Kamal <a@b.lk>","message":"hi"}`,
		`{"name":"A","email":"a@b.lk","message":"` + strings.Repeat("x", maxMessageRunes+1) + `"}`,
		`[]`,
	} {
		w := submit(relay, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	assert.Empty(t, relay.sent)
}

func TestContactRelayErrors(t *testing.T) {
	body := `{"name":"A","email":"a@b.lk","message":"hi"}`

	w := submit(&fakeRelay{err: mail.ErrDisabled}, body)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = submit(&fakeRelay{err: errors.New("smtp: 535")}, body)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.NotContains(t, w.Body.String(), "535")
}
