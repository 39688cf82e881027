package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/potluckapp/potluck/pkg/audit"
	"github.com/potluckapp/potluck/pkg/auth"
	"github.com/potluckapp/potluck/pkg/httputil"
)

// loginTokenTTL bounds the lifetime of tokens minted by the login endpoint.
// Tokens created explicitly through /auth/tokens choose their own expiry.
const loginTokenTTL = 30 * 24 * time.Hour

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	User      *auth.User `json:"user"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Username, "username") ||
		!httputil.RequireNonEmpty(w, req.Email, "email") ||
		!httputil.RequireNonEmpty(w, req.Password, "password") {
		return
	}
	if len(req.Password) < 8 {
		httputil.WriteValidationError(w, "password must be at least 8 characters")
		return
	}

	user, err := s.users.CreateUser(r.Context(), req.Username, req.Email, req.Password)
	if errors.Is(err, auth.ErrUsernameTaken) {
		httputil.WriteConflict(w, err.Error())
		return
	}
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	s.recordAudit(r, &audit.Entry{
		UserID:       &user.ID,
		Action:       audit.ActionSignup,
		ResourceType: audit.ResourceUser,
		ResourceID:   strconv.FormatInt(user.ID, 10),
		Status:       audit.StatusSuccess,
	})
	httputil.WriteCreated(w, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Username, "username") ||
		!httputil.RequireNonEmpty(w, req.Password, "password") {
		return
	}

	user, err := s.users.Authenticate(r.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		s.recordAudit(r, &audit.Entry{
			Action:       audit.ActionLoginFailed,
			ResourceType: audit.ResourceUser,
			ResourceID:   req.Username,
			Status:       audit.StatusFailure,
			ErrorMessage: err.Error(),
		})
		httputil.WriteUnauthorized(w, err.Error())
		return
	}
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	expiresAt := time.Now().Add(loginTokenTTL)
	_, token, err := s.tokens.CreateToken(r.Context(), user.ID, "login", &expiresAt)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	s.recordAudit(r, &audit.Entry{
		UserID:       &user.ID,
		Action:       audit.ActionLogin,
		ResourceType: audit.ResourceUser,
		ResourceID:   strconv.FormatInt(user.ID, 10),
		Status:       audit.StatusSuccess,
	})
	httputil.WriteSuccess(w, loginResponse{Token: token, ExpiresAt: &expiresAt, User: user})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	httputil.WriteSuccess(w, user)
}

type createTokenRequest struct {
	Name string `json:"name"`
	// ExpiresInHours of zero means the token never expires.
	ExpiresInHours int `json:"expires_in_hours"`
}

type createTokenResponse struct {
	Token    string         `json:"token"`
	APIToken *auth.APIToken `json:"api_token"`
}

func (s *Server) handleCreateToken(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req createTokenRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Name, "name") {
		return
	}
	if req.ExpiresInHours < 0 {
		httputil.WriteValidationError(w, "expires_in_hours must not be negative")
		return
	}

	var expiresAt *time.Time
	if req.ExpiresInHours > 0 {
		t := time.Now().Add(time.Duration(req.ExpiresInHours) * time.Hour)
		expiresAt = &t
	}

	apiToken, token, err := s.tokens.CreateToken(r.Context(), user.ID, req.Name, expiresAt)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	s.recordAudit(r, &audit.Entry{
		UserID:       &user.ID,
		Action:       audit.ActionTokenCreate,
		ResourceType: audit.ResourceToken,
		ResourceID:   strconv.FormatInt(apiToken.ID, 10),
		Status:       audit.StatusSuccess,
	})
	httputil.WriteCreated(w, createTokenResponse{Token: token, APIToken: apiToken})
}

func (s *Server) handleListTokens(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	tokens, err := s.tokens.ListTokens(r.Context(), user.ID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, tokens)
}

func (s *Server) handleRevokeToken(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	tokenID, ok := httputil.ParsePathInt64OrError(w, r, "token_id")
	if !ok {
		return
	}

	// RevokeToken only touches rows owned by the caller, so the sole
	// caller-visible failure is a miss.
	if err := s.tokens.RevokeToken(r.Context(), tokenID, user.ID); err != nil {
		httputil.WriteNotFoundError(w, "token not found")
		return
	}

	s.recordAudit(r, &audit.Entry{
		UserID:       &user.ID,
		Action:       audit.ActionTokenRevoke,
		ResourceType: audit.ResourceToken,
		ResourceID:   strconv.FormatInt(tokenID, 10),
		Status:       audit.StatusSuccess,
	})
	httputil.WriteNoContent(w)
}
