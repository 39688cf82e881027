package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/potluckapp/potluck/pkg/groups"
	"github.com/potluckapp/potluck/pkg/storage/storagetest"
)

func TestGroupContextMiddleware(t *testing.T) {
	db := storagetest.NewDB(t)
	svc := groups.NewPostgresService(db)

	group := &groups.Group{Name: "Dinner Club"}
	require.NoError(t, svc.CreateGroup(context.Background(), group))

	var resolved *groups.Group
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resolved = GetGroup(r)
		w.WriteHeader(http.StatusOK)
	})

	router := mux.NewRouter()
	router.Use(GroupContextMiddleware(svc))
	router.Handle("/groups/{group_id}/recipes", handler)
	router.Handle("/g/{group_slug}", handler)
	router.Handle("/me", handler)

	t.Run("by id", func(t *testing.T) {
		resolved = nil
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/groups/1/recipes", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, resolved)
		assert.Equal(t, group.ID, resolved.ID)
	})

	t.Run("by slug", func(t *testing.T) {
		resolved = nil
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/g/"+group.Slug, nil))
		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, resolved)
		assert.Equal(t, group.ID, resolved.ID)
	})

	t.Run("unknown group", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/groups/999/recipes", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/groups/abc/recipes", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not group scoped", func(t *testing.T) {
		resolved = nil
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, resolved)
	})
}
