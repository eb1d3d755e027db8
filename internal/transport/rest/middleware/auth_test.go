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

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func adminProbe(t *testing.T, authHeader string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	var gotUserID string
	handler := NewAuthMiddleware(testSecret).RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest("GET", "/v1/admin/questions/x", nil)
	if authHeader != "" {
		r.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	return w, gotUserID
}

func TestRequireAdminValidToken(t *testing.T) {
	token := signToken(t, testSecret, Claims{
		UserID: "admin-42",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	w, userID := adminProbe(t, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin-42", userID)
}

func TestRequireAdminMissingHeader(t *testing.T) {
	w, _ := adminProbe(t, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdminWrongSecret(t *testing.T) {
	token := signToken(t, "other-secret", Claims{UserID: "admin-42"})

	w, _ := adminProbe(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdminExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, Claims{
		UserID: "admin-42",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	w, _ := adminProbe(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdminTokenWithoutSubject(t *testing.T) {
	token := signToken(t, testSecret, Claims{})

	w, _ := adminProbe(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdminMalformedHeader(t *testing.T) {
	w, _ := adminProbe(t, "Token abc123")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExtractBearerTokenCaseInsensitive(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "bearer abc123")
	assert.Equal(t, "abc123", extractBearerToken(r))
}
