// Package api provides the HTTP REST API for the Potluck recipe-sharing
// service.
//
// # Architecture
//
// The API is built on gorilla/mux. Requests flow through a middleware chain
// (request ID, panic recovery, request logging, metrics, body size limit,
// content type, token auth, per-user rate limiting, group resolution)
// before reaching domain handlers. Every authorization decision
// is delegated to pkg/authz so the error policy lives in one place:
//
//   - Addressing a group you are not a member of is a 403.
//   - Addressing a recipe, comment, category, or tag in a foreign group, or
//     a draft you did not create, is a 404 indistinguishable from a missing
//     resource.
//   - A removal or demotion that would leave a group without an admin is a
//     400 naming the invariant.
//
// # Endpoints
//
// Authentication:
//
//	POST   /auth/signup                    - Register an account
//	POST   /auth/login                     - Log in, returns an API token
//	GET    /auth/me                        - Current user
//	POST   /auth/tokens                    - Mint a named API token
//	GET    /auth/tokens                    - List live tokens
//	DELETE /auth/tokens/{token_id}         - Revoke a token
//
// Groups, members, invitations:
//
//	POST   /groups                                      - Create group (creator becomes admin)
//	GET    /groups                                      - List the caller's groups
//	GET    /groups/{group_id}                           - Group details
//	PATCH  /groups/{group_id}                           - Update settings, including the power-user edit flag
//	GET    /groups/{group_id}/members                   - List members
//	POST   /groups/{group_id}/members                   - Add member
//	PATCH  /groups/{group_id}/members/{user_id}         - Change role
//	DELETE /groups/{group_id}/members/{user_id}         - Remove member (or leave)
//	POST   /groups/{group_id}/invitations               - Invite by email
//	GET    /groups/{group_id}/invitations               - List invitations
//	DELETE /groups/{group_id}/invitations/{invitation_id} - Revoke invitation
//	POST   /invitations/{token}/accept                  - Accept an invitation
//
// Recipes, favorites, comments, taxonomy:
//
//	POST   /groups/{group_id}/recipes      - Create recipe
//	GET    /groups/{group_id}/recipes      - List visible recipes
//	POST   /groups/{group_id}/import       - Import a recipe from a URL as a draft
//	GET    /recipes/{recipe_id}            - Recipe details
//	PATCH  /recipes/{recipe_id}            - Update recipe
//	DELETE /recipes/{recipe_id}            - Delete (admin) or discard own draft
//	POST   /recipes/{recipe_id}/publish    - Publish a draft
//	PUT    /recipes/{recipe_id}/favorite   - Favorite
//	DELETE /recipes/{recipe_id}/favorite   - Unfavorite
//	GET    /favorites                      - The caller's favorite recipe IDs
//	POST   /recipes/{recipe_id}/comments   - Comment
//	GET    /recipes/{recipe_id}/comments   - List comments
//	PATCH  /comments/{comment_id}          - Edit own comment (admins: any)
//	DELETE /comments/{comment_id}          - Delete own comment (admins: any)
//	POST   /groups/{group_id}/categories   - Create category (tags mirror this)
//	GET    /groups/{group_id}/categories   - List categories
//	PATCH  /categories/{category_id}       - Rename category
//	DELETE /categories/{category_id}       - Delete category
//
// # Usage
//
//	db, _ := sql.Open("postgres", url)
//	server := api.NewServer(db, api.Options{})
//	http.ListenAndServe(":8080", server)
package api
