package httputil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/potluckapp/potluck/pkg/authz"
	"github.com/potluckapp/potluck/pkg/groups"
	"github.com/potluckapp/potluck/pkg/importer"
	"github.com/potluckapp/potluck/pkg/recipes"
)

func TestWriteDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"unauthorized", authz.ErrUnauthorized, http.StatusUnauthorized, "authentication required"},
		{"authz not found", &authz.NotFoundError{Resource: "recipe"}, http.StatusNotFound, "recipe not found"},
		{"authz forbidden", &authz.ForbiddenError{Reason: "requires recipe:delete"}, http.StatusForbidden, "recipe:delete"},
		{"last admin remove", &groups.LastAdminError{Action: groups.ActionRemove}, http.StatusBadRequest, "cannot remove the last admin from the group"},
		{"last admin demote", &groups.LastAdminError{Action: groups.ActionDemote}, http.StatusBadRequest, "cannot demote the last admin from the group"},
		{"missing recipe", recipes.ErrRecipeNotFound, http.StatusNotFound, "recipe not found"},
		{"slug conflict", recipes.ErrSlugTaken, http.StatusConflict, "slug"},
		{"already member", groups.ErrAlreadyMember, http.StatusConflict, "already a member"},
		{"invalid transition", recipes.ErrInvalidTransition, http.StatusBadRequest, ""},
		{"import rate limited", importer.ErrRateLimited, http.StatusTooManyRequests, "rate limit"},
		{"blocked domain", importer.ErrBlockedDomain, http.StatusBadRequest, "not allowed"},
		{"unknown error", errors.New("pq: connection refused"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteDomainError(w, tt.err)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestWriteDomainErrorNeverLeaksInternals(t *testing.T) {
	w := httptest.NewRecorder()
	WriteDomainError(w, errors.New("dial tcp 10.0.0.5:5432: connect: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}
