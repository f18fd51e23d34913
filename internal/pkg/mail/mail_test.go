package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderContactEscapes(t *testing.T) {
	html, err := RenderContact(ContactData{Name: "<b>Ann</b>", Email: "ann@example.com", Message: "hi"})
	require.NoError(t, err)
	assert.Contains(t, html, "&lt;b&gt;Ann&lt;/b&gt;")
	assert.NotContains(t, html, "<b>Ann</b>")
}

func TestSendDisabled(t *testing.T) {
	s := New(Config{})
	assert.ErrorIs(t, s.SendContact(context.Background(), ContactData{Name: "a"}), ErrDisabled)
}

func TestSendContactViaResend(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := New(Config{Enable: true, From: "site@example.com", To: "owner@example.com", ResendKey: "re_test"})
	s.resendURL = srv.URL

	err := s.SendContact(context.Background(), ContactData{Name: "Ann", Email: "ann@example.com", Message: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "site@example.com", got["from"])
	assert.Equal(t, []interface{}{"owner@example.com"}, got["to"])
	assert.Equal(t, "ann@example.com", got["reply_to"])
}

func TestSendResendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"bad from"}`))
	}))
	defer srv.Close()

	s := New(Config{Enable: true, ResendKey: "re_test"})
	s.resendURL = srv.URL
	err := s.Send(context.Background(), Message{To: []string{"x@example.com"}})
	assert.EqualError(t, err, "resend error 422: bad from")
}
