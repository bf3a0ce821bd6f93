package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakhurst-health/intake-ai-platform/internal/http/handlers"
	"github.com/oakhurst-health/intake-ai-platform/internal/submissions"
	"github.com/oakhurst-health/intake-ai-platform/internal/webhook"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	repo := submissions.NewInMemoryRepository()
	return New(&Config{
		WebhookHandler: webhook.NewHandler(webhook.HandlerConfig{
			Secret: "webhook-secret",
			Repo:   repo,
		}),
		AdminSubmissions: handlers.NewAdminSubmissionsHandler(handlers.AdminSubmissionsConfig{
			Repo: repo,
		}),
		AdminAuthSecret: "admin-secret",
	})
}

func TestRouter_Health(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRouter_WebhookRequiresSignature(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/voice-agent/post-call",
		strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_AdminRequiresAuth(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/submissions", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_AdminWithToken(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "staff@example.org",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("admin-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/submissions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
