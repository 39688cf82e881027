package httputil

import (
	"errors"
	"net/http"

	"github.com/potluckapp/potluck/pkg/authz"
	"github.com/potluckapp/potluck/pkg/comments"
	"github.com/potluckapp/potluck/pkg/groups"
	"github.com/potluckapp/potluck/pkg/importer"
	"github.com/potluckapp/potluck/pkg/recipes"
)

// WriteDomainError translates domain errors into HTTP responses. The mapping
// is the single place the error policy is encoded: authorization NotFound and
// genuine missing resources share a 404, same-tenant rights failures are 403,
// and the admin-invariant violation is a 400 carrying its specific message.
// Anything unrecognized becomes a 500 with a generic body so internals never
// leak to the client.
func WriteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authz.ErrUnauthorized):
		WriteUnauthorized(w, "authentication required")
	case authz.IsNotFound(err):
		WriteNotFoundError(w, err.Error())
	case authz.IsForbidden(err):
		WriteForbidden(w, err.Error())
	case groups.IsLastAdmin(err):
		WriteBadRequest(w, err.Error())
	case errors.Is(err, groups.ErrGroupNotFound),
		errors.Is(err, groups.ErrMemberNotFound),
		errors.Is(err, groups.ErrInvitationNotFound),
		errors.Is(err, recipes.ErrRecipeNotFound),
		errors.Is(err, recipes.ErrCategoryNotFound),
		errors.Is(err, recipes.ErrTagNotFound),
		errors.Is(err, comments.ErrCommentNotFound):
		WriteNotFoundError(w, err.Error())
	case errors.Is(err, groups.ErrAlreadyMember),
		errors.Is(err, recipes.ErrSlugTaken):
		WriteConflict(w, err.Error())
	case errors.Is(err, groups.ErrInvitationExpired),
		errors.Is(err, recipes.ErrInvalidTransition),
		errors.Is(err, recipes.ErrNotDiscardable),
		errors.Is(err, importer.ErrBlockedDomain),
		errors.Is(err, importer.ErrExtractionFailed):
		WriteBadRequest(w, err.Error())
	case errors.Is(err, importer.ErrRateLimited):
		WriteTooManyRequests(w, err.Error())
	default:
		WriteErrorMessage(w, http.StatusInternalServerError, "internal server error")
	}
}
