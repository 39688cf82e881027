package middleware

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/potluckapp/potluck/pkg/contextkeys"
	"github.com/potluckapp/potluck/pkg/groups"
	"github.com/potluckapp/potluck/pkg/httputil"
)

// GroupContextMiddleware resolves the group addressed by the route (by
// {group_id} or {group_slug}) and attaches it to the request context. It
// does not check membership; that stays with pkg/authz in the handlers so
// the error policy is applied in one place.
func GroupContextMiddleware(groupService groups.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			vars := mux.Vars(r)

			if groupIDStr, ok := vars["group_id"]; ok {
				groupID, err := strconv.ParseInt(groupIDStr, 10, 64)
				if err != nil {
					httputil.WriteBadRequest(w, "invalid group ID")
					return
				}
				group, err := groupService.GetGroup(r.Context(), groupID)
				if err != nil {
					httputil.WriteNotFoundError(w, "group not found")
					return
				}
				ctx := contextkeys.WithGroup(r.Context(), group)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if groupSlug, ok := vars["group_slug"]; ok {
				group, err := groupService.GetGroupBySlug(r.Context(), groupSlug)
				if err != nil {
					httputil.WriteNotFoundError(w, "group not found")
					return
				}
				ctx := contextkeys.WithGroup(r.Context(), group)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			// Route is not group-scoped.
			next.ServeHTTP(w, r)
		})
	}
}

// GetGroup extracts the resolved group from the request context.
func GetGroup(r *http.Request) *groups.Group {
	g := r.Context().Value(contextkeys.GroupKey)
	if g == nil {
		return nil
	}
	group, ok := g.(*groups.Group)
	if !ok {
		return nil
	}
	return group
}
