package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/potluckapp/potluck/pkg/auth"
	"github.com/potluckapp/potluck/pkg/storage/storagetest"
)

func newAuthFixture(t *testing.T) (*auth.TokenManager, string, int64) {
	t.Helper()

	db := storagetest.NewDB(t)
	tm := auth.NewTokenManager(db)
	userID := storagetest.CreateUser(t, db, "alice")

	_, rawToken, err := tm.CreateToken(context.Background(), userID, "test token", nil)
	require.NoError(t, err)
	return tm, rawToken, userID
}

func okHandler(sawUser *int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if authCtx := GetAuthContext(r); authCtx != nil {
			*sawUser = authCtx.UserID()
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	tm, rawToken, userID := newAuthFixture(t)
	mw := NewAuthMiddleware(tm, false)

	var sawUser int64
	handler := mw.Handler(okHandler(&sawUser))

	r := httptest.NewRequest(http.MethodGet, "/recipes", nil)
	r.Header.Set("Authorization", "Bearer "+rawToken)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, sawUser)
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	tm, _, _ := newAuthFixture(t)
	mw := NewAuthMiddleware(tm, false)

	var sawUser int64
	handler := mw.Handler(okHandler(&sawUser))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/recipes", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, sawUser)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	tm, rawToken, _ := newAuthFixture(t)
	mw := NewAuthMiddleware(tm, false)

	var sawUser int64
	handler := mw.Handler(okHandler(&sawUser))

	r := httptest.NewRequest(http.MethodGet, "/recipes", nil)
	r.Header.Set("Authorization", "Token "+rawToken)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	tm, _, _ := newAuthFixture(t)
	mw := NewAuthMiddleware(tm, false)

	var sawUser int64
	handler := mw.Handler(okHandler(&sawUser))

	r := httptest.NewRequest(http.MethodGet, "/recipes", nil)
	r.Header.Set("Authorization", "Bearer potluck_bogus")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareOptional(t *testing.T) {
	tm, _, _ := newAuthFixture(t)
	mw := NewAuthMiddleware(tm, true)

	var sawUser int64
	handler := mw.Handler(okHandler(&sawUser))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/recipes", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, sawUser)
}
