package api

import (
	"net/http"

	"github.com/potluckapp/potluck/pkg/auth"
	"github.com/potluckapp/potluck/pkg/comments"
	"github.com/potluckapp/potluck/pkg/httputil"
)

type commentRequest struct {
	Body string `json:"body"`
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	recipeID, ok := httputil.ParsePathInt64OrError(w, r, "recipe_id")
	if !ok {
		return
	}
	_, member, err := s.checker.RequireRecipeAccess(r.Context(), user.ID, recipeID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	if err := s.checker.RequireCapability(member, auth.CapabilityCommentCreate); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	var req commentRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Body, "body") {
		return
	}

	comment := &comments.Comment{RecipeID: recipeID, UserID: user.ID, Body: req.Body}
	if err := s.comments.CreateComment(r.Context(), comment); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteCreated(w, comment)
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	recipeID, ok := httputil.ParsePathInt64OrError(w, r, "recipe_id")
	if !ok {
		return
	}
	// Comments inherit the recipe's visibility: no access, no comments.
	if _, _, err := s.checker.RequireRecipeAccess(r.Context(), user.ID, recipeID); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	list, err := s.comments.ListComments(r.Context(), recipeID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, list)
}

func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	commentID, ok := httputil.ParsePathInt64OrError(w, r, "comment_id")
	if !ok {
		return
	}
	if _, err := s.checker.AuthorizeCommentModify(r.Context(), user.ID, commentID); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	var req commentRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Body, "body") {
		return
	}
	if err := s.comments.UpdateComment(r.Context(), commentID, req.Body); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	updated, err := s.comments.GetComment(r.Context(), commentID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, updated)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	commentID, ok := httputil.ParsePathInt64OrError(w, r, "comment_id")
	if !ok {
		return
	}
	if _, err := s.checker.AuthorizeCommentModify(r.Context(), user.ID, commentID); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	if err := s.comments.DeleteComment(r.Context(), commentID); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}
