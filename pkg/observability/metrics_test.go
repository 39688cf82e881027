package observability

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegisters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	require.NotNil(t, m)

	m.ImportsTotal.WithLabelValues("success").Inc()
	m.UpdateBusinessStats(BusinessStats{Groups: 3, PublishedRecipes: 12})

	assert.Equal(t, float64(1), testutil.ToFloat64(m.ImportsTotal.WithLabelValues("success")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.GroupsTotal))
	assert.Equal(t, float64(12), testutil.ToFloat64(m.RecipesTotal.WithLabelValues("published")))
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	handler := HTTPMetricsMiddleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":1}`))
	}))

	r := httptest.NewRequest(http.MethodPost, "/recipes", strings.NewReader(`{"title":"Pancakes"}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/recipes", "201")))
}

func TestHTTPMetricsMiddlewareDefaultStatus(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	handler := HTTPMetricsMiddleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	// Implicit WriteHeader counts as 200.
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/health", "200")))
}

func TestRegisterMetricsEndpoint(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	m.GroupsTotal.Set(3)

	mux := http.NewServeMux()
	RegisterMetricsEndpoint(mux, registry)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "potluck_groups_total 3")
}

func dbStatsFixture() sql.DBStats {
	return sql.DBStats{
		InUse:        4,
		Idle:         2,
		WaitCount:    1,
		WaitDuration: 250 * time.Millisecond,
	}
}

func TestUpdateDBStats(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	m.DBConnectionsActive.Set(0)
	m.UpdateDBStats(dbStatsFixture())

	assert.Equal(t, float64(4), testutil.ToFloat64(m.DBConnectionsActive))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.DBConnectionsIdle))
}
