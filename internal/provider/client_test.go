package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConversation(t *testing.T) {
	const payload = `{"conversation_id":"conv_123","agent_id":"agent_abc","status":"done"}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/convai/conversations/conv_123", r.URL.Path)
		assert.Equal(t, "secret-key", r.Header.Get("xi-api-key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-key")
	raw, err := c.GetConversation(context.Background(), "conv_123")
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(raw))
}

func TestGetConversation_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"detail":"not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "secret-key").GetConversation(context.Background(), "conv_missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conv_missing not found")
}

func TestGetConversation_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "secret-key").GetConversation(context.Background(), "conv_1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=429")
}

func TestGetConversation_InputValidation(t *testing.T) {
	_, err := NewClient("", "").GetConversation(context.Background(), "conv_1")
	assert.ErrorContains(t, err, "API key")

	_, err = NewClient("", "key").GetConversation(context.Background(), "  ")
	assert.ErrorContains(t, err, "conversation id")
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	c := NewClient("  ", "key")
	assert.Equal(t, DefaultBaseURL, c.baseURL)

	c = NewClient("https://example.org/", "key")
	assert.Equal(t, "https://example.org", c.baseURL)
}
