// Package middleware provides HTTP middleware for authentication, group
// context, and rate limiting.
//
// # Middleware Components
//
// AuthMiddleware: token-based authentication
//
//	authMW := middleware.NewAuthMiddleware(tokenManager, false)
//	router.Use(authMW.Handler)
//	// Extracts the Bearer token, validates it, adds *auth.AuthContext to the request
//
// GroupContextMiddleware: resolves {group_id}/{group_slug} routes
//
//	router.Use(middleware.GroupContextMiddleware(groupService))
//	// Attaches *groups.Group; membership is checked by pkg/authz in handlers
//
// RateLimitMiddleware: in-memory token bucket limiting
//
//	router.Use(middleware.NewRateLimitMiddleware().Handler)
//
// CredentialRateLimitMiddleware: tight per-IP limit for login/signup
//
//	loginRoute.Handler(middleware.CredentialRateLimitMiddleware()(handler))
//
// # Ordering
//
// AuthMiddleware must run before RateLimitMiddleware (which keys on the
// authenticated user) and before any handler using pkg/authz.
//
// # Related Packages
//
//   - pkg/auth: token validation
//   - pkg/authz: membership and capability checks
//   - pkg/importer: Redis-backed import quota (cross-instance)
package middleware
