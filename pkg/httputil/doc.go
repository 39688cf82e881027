// Package httputil provides HTTP utilities for standardized request/response handling.
//
// # Response Helpers
//
// JSON responses:
//
//	httputil.WriteJSON(w, http.StatusOK, data)
//	httputil.WriteCreated(w, resource)
//	httputil.WriteNoContent(w)
//
// Error responses:
//
//	httputil.WriteBadRequest(w, "invalid input")
//	httputil.WriteUnauthorized(w, "token expired")
//	httputil.WriteDomainError(w, err) // maps domain errors to status codes
//
// WriteDomainError is the single place the error policy is encoded; handlers
// should prefer it over hand-picking status codes.
//
// # Request Parsing
//
//	var req CreateRecipeRequest
//	if !httputil.ParseJSONOrError(w, r, &req) {
//		return // error response already written
//	}
//	id, ok := httputil.ParsePathInt64OrError(w, r, "recipe_id")
//	limit, err := httputil.ParseQueryInt(r, "limit", 20)
//
// # Middleware
//
//	httputil.Chain(
//		httputil.RequestIDMiddleware,
//		httputil.ContentTypeMiddleware,
//		httputil.MaxBytesMiddleware(1<<20),
//	)
//
// # Related Packages
//
//   - pkg/middleware: authentication and group-context middleware
package httputil
