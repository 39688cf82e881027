package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/potluckapp/potluck/pkg/observability"
	"github.com/potluckapp/potluck/pkg/storage/storagetest"
)

func TestRequestIDHeader(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(http.MethodGet, "/groups", "", nil)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestRateLimitHeadersOnAuthedRequests(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup("alice")

	rr := env.do(http.MethodGet, "/groups", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, rr.Header().Get("X-RateLimit-Remaining"))
}

func TestUnknownRouteIs404(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup("alice")

	rr := env.do(http.MethodGet, "/no-such-route", token, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestWrongContentTypeRejected(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup("alice")

	req := httptest.NewRequest(http.MethodPost, "/groups", strings.NewReader("name=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	env.server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCORSPreflight(t *testing.T) {
	db := storagetest.NewDB(t)
	server := NewServer(db, Options{CORSOrigins: []string{"https://app.example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/groups", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "https://app.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsRecordedWhenConfigured(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)
	db := storagetest.NewDB(t)
	env := &testEnv{t: t, server: NewServer(db, Options{Metrics: metrics})}

	_, token := env.signup("alice")
	rr := env.do(http.MethodGet, "/groups", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	families, err := registry.Gather()
	require.NoError(t, err)
	found := false
	for _, mf := range families {
		if mf.GetName() == "potluck_http_requests_total" {
			found = true
		}
	}
	assert.True(t, found, "expected potluck_http_requests_total to be recorded")
}
