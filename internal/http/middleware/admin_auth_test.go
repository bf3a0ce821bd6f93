package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const authTestSecret = "admin-test-secret"

func signAdminToken(t *testing.T, secret string, expiry time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "staff@example.org",
		ExpiresAt: jwt.NewNumericDate(expiry),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func adminProtected(t *testing.T) http.Handler {
	t.Helper()
	return AdminJWT(authTestSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := AdminClaimsFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, "staff@example.org", claims.Subject)
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAdminJWT_ValidToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin/submissions", nil)
	req.Header.Set("Authorization", "Bearer "+signAdminToken(t, authTestSecret, time.Now().Add(time.Hour)))
	w := httptest.NewRecorder()

	adminProtected(t).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminJWT_MissingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin/submissions", nil)
	w := httptest.NewRecorder()

	adminProtected(t).ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminJWT_WrongSecret(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin/submissions", nil)
	req.Header.Set("Authorization", "Bearer "+signAdminToken(t, "other-secret", time.Now().Add(time.Hour)))
	w := httptest.NewRecorder()

	adminProtected(t).ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminJWT_ExpiredToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin/submissions", nil)
	req.Header.Set("Authorization", "Bearer "+signAdminToken(t, authTestSecret, time.Now().Add(-time.Hour)))
	w := httptest.NewRecorder()

	adminProtected(t).ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminJWT_EmptySecretDisablesAccess(t *testing.T) {
	handler := AdminJWT("")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/admin/submissions", nil)
	req.Header.Set("Authorization", "Bearer "+signAdminToken(t, authTestSecret, time.Now().Add(time.Hour)))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
