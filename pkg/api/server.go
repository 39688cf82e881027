package api

import (
	"database/sql"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/potluckapp/potluck/pkg/audit"
	"github.com/potluckapp/potluck/pkg/auth"
	"github.com/potluckapp/potluck/pkg/authz"
	"github.com/potluckapp/potluck/pkg/comments"
	"github.com/potluckapp/potluck/pkg/groups"
	"github.com/potluckapp/potluck/pkg/httputil"
	"github.com/potluckapp/potluck/pkg/importer"
	"github.com/potluckapp/potluck/pkg/middleware"
	"github.com/potluckapp/potluck/pkg/observability"
	"github.com/potluckapp/potluck/pkg/recipes"
)

// maxRequestBytes caps request bodies. Recipe payloads are text; anything
// larger than this is not a legitimate request.
const maxRequestBytes = 1 << 20

// Options carries the optional server collaborators. Zero values are safe:
// no importer disables the import endpoint, no audit logger means entries
// are discarded, no metrics skips instrumentation, no CORS origins means
// no CORS headers.
type Options struct {
	Importer    *importer.Service
	Audit       audit.Logger
	Logger      *observability.Logger
	Metrics     *observability.Metrics
	CORSOrigins []string
}

// Server is the HTTP API. It owns the stores, the authorization checker,
// and the router; authorization decisions go through pkg/authz so the
// error policy is applied in exactly one place.
type Server struct {
	router  *mux.Router
	handler http.Handler

	users       *auth.UserStore
	tokens      *auth.TokenManager
	groups      *groups.PostgresService
	recipes     *recipes.PostgresService
	comments    *comments.PostgresService
	checker     *authz.Checker
	importer    *importer.Service
	audit       audit.Logger
	logger      *observability.Logger
	metrics     *observability.Metrics
	corsOrigins []string
}

// NewServer creates the API server over the given database.
func NewServer(db *sql.DB, opts Options) *Server {
	groupService := groups.NewPostgresService(db)
	recipeService := recipes.NewPostgresService(db)
	commentService := comments.NewPostgresService(db)

	s := &Server{
		users:       auth.NewUserStore(db),
		tokens:      auth.NewTokenManager(db),
		groups:      groupService,
		recipes:     recipeService,
		comments:    commentService,
		checker:     authz.NewChecker(groupService, recipeService, commentService),
		importer:    opts.Importer,
		audit:       opts.Audit,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
		corsOrigins: opts.CORSOrigins,
	}
	if s.audit == nil {
		s.audit = audit.NopLogger{}
	}
	if s.logger == nil {
		s.logger = observability.NewLogger(observability.InfoLevel, io.Discard)
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := mux.NewRouter()
	r.Use(httputil.RequestIDMiddleware)
	r.Use(httputil.RecoveryMiddleware)
	r.Use(observability.RequestLogMiddleware(s.logger))
	if s.metrics != nil {
		r.Use(observability.HTTPMetricsMiddleware(s.metrics))
	}
	r.Use(httputil.MaxBytesMiddleware(maxRequestBytes))
	r.Use(httputil.ContentTypeMiddleware)

	// Credential endpoints run unauthenticated behind a tight per-IP limit.
	credLimit := middleware.CredentialRateLimitMiddleware()
	r.Handle("/auth/signup", credLimit(http.HandlerFunc(s.handleSignup))).Methods(http.MethodPost)
	r.Handle("/auth/login", credLimit(http.HandlerFunc(s.handleLogin))).Methods(http.MethodPost)

	// Everything else requires a token. Rate limiting keys off the
	// authenticated user, so it sits behind auth.
	authed := r.NewRoute().Subrouter()
	authed.Use(middleware.NewAuthMiddleware(s.tokens, false).Handler)
	authed.Use(middleware.NewRateLimitMiddleware().Handler)
	authed.Use(middleware.GroupContextMiddleware(s.groups))

	authed.HandleFunc("/auth/me", s.handleMe).Methods(http.MethodGet)
	authed.HandleFunc("/auth/tokens", s.handleCreateToken).Methods(http.MethodPost)
	authed.HandleFunc("/auth/tokens", s.handleListTokens).Methods(http.MethodGet)
	authed.HandleFunc("/auth/tokens/{token_id}", s.handleRevokeToken).Methods(http.MethodDelete)

	authed.HandleFunc("/groups", s.handleCreateGroup).Methods(http.MethodPost)
	authed.HandleFunc("/groups", s.handleListGroups).Methods(http.MethodGet)
	authed.HandleFunc("/groups/{group_id}", s.handleGetGroup).Methods(http.MethodGet)
	authed.HandleFunc("/groups/{group_id}", s.handleUpdateGroup).Methods(http.MethodPatch)

	authed.HandleFunc("/groups/{group_id}/members", s.handleListMembers).Methods(http.MethodGet)
	authed.HandleFunc("/groups/{group_id}/members", s.handleAddMember).Methods(http.MethodPost)
	authed.HandleFunc("/groups/{group_id}/members/{user_id}", s.handleUpdateMemberRole).Methods(http.MethodPatch)
	authed.HandleFunc("/groups/{group_id}/members/{user_id}", s.handleRemoveMember).Methods(http.MethodDelete)

	authed.HandleFunc("/groups/{group_id}/invitations", s.handleCreateInvitation).Methods(http.MethodPost)
	authed.HandleFunc("/groups/{group_id}/invitations", s.handleListInvitations).Methods(http.MethodGet)
	authed.HandleFunc("/groups/{group_id}/invitations/{invitation_id}", s.handleRevokeInvitation).Methods(http.MethodDelete)
	authed.HandleFunc("/invitations/{token}/accept", s.handleAcceptInvitation).Methods(http.MethodPost)

	authed.HandleFunc("/groups/{group_id}/recipes", s.handleCreateRecipe).Methods(http.MethodPost)
	authed.HandleFunc("/groups/{group_id}/recipes", s.handleListRecipes).Methods(http.MethodGet)
	authed.HandleFunc("/groups/{group_id}/import", s.handleImportRecipe).Methods(http.MethodPost)
	authed.HandleFunc("/recipes/{recipe_id}", s.handleGetRecipe).Methods(http.MethodGet)
	authed.HandleFunc("/recipes/{recipe_id}", s.handleUpdateRecipe).Methods(http.MethodPatch)
	authed.HandleFunc("/recipes/{recipe_id}", s.handleDeleteRecipe).Methods(http.MethodDelete)
	authed.HandleFunc("/recipes/{recipe_id}/publish", s.handlePublishRecipe).Methods(http.MethodPost)

	authed.HandleFunc("/recipes/{recipe_id}/favorite", s.handleAddFavorite).Methods(http.MethodPut)
	authed.HandleFunc("/recipes/{recipe_id}/favorite", s.handleRemoveFavorite).Methods(http.MethodDelete)
	authed.HandleFunc("/favorites", s.handleListFavorites).Methods(http.MethodGet)

	authed.HandleFunc("/recipes/{recipe_id}/comments", s.handleCreateComment).Methods(http.MethodPost)
	authed.HandleFunc("/recipes/{recipe_id}/comments", s.handleListComments).Methods(http.MethodGet)
	authed.HandleFunc("/comments/{comment_id}", s.handleUpdateComment).Methods(http.MethodPatch)
	authed.HandleFunc("/comments/{comment_id}", s.handleDeleteComment).Methods(http.MethodDelete)

	authed.HandleFunc("/groups/{group_id}/categories", s.handleCreateCategory).Methods(http.MethodPost)
	authed.HandleFunc("/groups/{group_id}/categories", s.handleListCategories).Methods(http.MethodGet)
	authed.HandleFunc("/categories/{category_id}", s.handleUpdateCategory).Methods(http.MethodPatch)
	authed.HandleFunc("/categories/{category_id}", s.handleDeleteCategory).Methods(http.MethodDelete)

	authed.HandleFunc("/groups/{group_id}/tags", s.handleCreateTag).Methods(http.MethodPost)
	authed.HandleFunc("/groups/{group_id}/tags", s.handleListTags).Methods(http.MethodGet)
	authed.HandleFunc("/tags/{tag_id}", s.handleUpdateTag).Methods(http.MethodPatch)
	authed.HandleFunc("/tags/{tag_id}", s.handleDeleteTag).Methods(http.MethodDelete)

	s.router = r

	// CORS wraps the router itself so preflight OPTIONS requests are
	// answered before method matching can 405 them.
	s.handler = s.router
	if len(s.corsOrigins) > 0 {
		s.handler = httputil.CORSMiddleware(s.corsOrigins)(s.router)
	}
}

// requireUser extracts the authenticated user, writing a 401 when absent.
// The auth middleware normally guarantees presence; this guards direct
// handler invocation in tests.
func requireUser(w http.ResponseWriter, r *http.Request) (*auth.User, bool) {
	authCtx := middleware.GetAuthContext(r)
	if authCtx == nil || authCtx.User == nil {
		httputil.WriteUnauthorized(w, "authentication required")
		return nil, false
	}
	return authCtx.User, true
}

// requireGroup extracts the group resolved by the route middleware.
func requireGroup(w http.ResponseWriter, r *http.Request) (*groups.Group, bool) {
	group := middleware.GetGroup(r)
	if group == nil {
		httputil.WriteNotFoundError(w, "group not found")
		return nil, false
	}
	return group, true
}

// recordAudit writes an audit entry, filling in request metadata. Audit is
// best effort; failures are logged and the request proceeds.
func (s *Server) recordAudit(r *http.Request, entry *audit.Entry) {
	entry.IPAddress = requestIP(r)
	entry.UserAgent = r.UserAgent()
	if err := s.audit.Record(r.Context(), entry); err != nil {
		s.logger.WithError(err).Warn("audit write failed")
	}
}

func requestIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	return r.RemoteAddr
}
