package api

import (
	"net/http"

	"github.com/potluckapp/potluck/pkg/auth"
	"github.com/potluckapp/potluck/pkg/httputil"
	"github.com/potluckapp/potluck/pkg/recipes"
)

type taxonomyRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	group, ok := requireGroup(w, r)
	if !ok {
		return
	}
	member, err := s.checker.RequireMember(r.Context(), user.ID, group.ID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	if err := s.checker.RequireCapability(member, auth.CapabilityCategoryCreate); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	var req taxonomyRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Name, "name") {
		return
	}

	category := &recipes.Category{GroupID: group.ID, Name: req.Name}
	if err := s.recipes.CreateCategory(r.Context(), category); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteCreated(w, category)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	group, ok := requireGroup(w, r)
	if !ok {
		return
	}
	if _, err := s.checker.RequireMember(r.Context(), user.ID, group.ID); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	list, err := s.recipes.ListCategories(r.Context(), group.ID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, list)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	categoryID, ok := httputil.ParsePathInt64OrError(w, r, "category_id")
	if !ok {
		return
	}
	_, member, err := s.checker.RequireCategoryAccess(r.Context(), user.ID, categoryID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	if err := s.checker.RequireCapability(member, auth.CapabilityCategoryUpdate); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	var req taxonomyRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Name, "name") {
		return
	}
	if err := s.recipes.UpdateCategory(r.Context(), categoryID, req.Name); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	updated, err := s.recipes.GetCategory(r.Context(), categoryID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, updated)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	categoryID, ok := httputil.ParsePathInt64OrError(w, r, "category_id")
	if !ok {
		return
	}
	_, member, err := s.checker.RequireCategoryAccess(r.Context(), user.ID, categoryID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	if err := s.checker.RequireCapability(member, auth.CapabilityCategoryDelete); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	if err := s.recipes.DeleteCategory(r.Context(), categoryID); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	group, ok := requireGroup(w, r)
	if !ok {
		return
	}
	member, err := s.checker.RequireMember(r.Context(), user.ID, group.ID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	if err := s.checker.RequireCapability(member, auth.CapabilityTagCreate); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	var req taxonomyRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Name, "name") {
		return
	}

	tag := &recipes.Tag{GroupID: group.ID, Name: req.Name}
	if err := s.recipes.CreateTag(r.Context(), tag); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteCreated(w, tag)
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	group, ok := requireGroup(w, r)
	if !ok {
		return
	}
	if _, err := s.checker.RequireMember(r.Context(), user.ID, group.ID); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	list, err := s.recipes.ListTags(r.Context(), group.ID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, list)
}

func (s *Server) handleUpdateTag(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	tagID, ok := httputil.ParsePathInt64OrError(w, r, "tag_id")
	if !ok {
		return
	}
	_, member, err := s.checker.RequireTagAccess(r.Context(), user.ID, tagID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	if err := s.checker.RequireCapability(member, auth.CapabilityTagUpdate); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	var req taxonomyRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Name, "name") {
		return
	}
	if err := s.recipes.UpdateTag(r.Context(), tagID, req.Name); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	updated, err := s.recipes.GetTag(r.Context(), tagID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, updated)
}

func (s *Server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	tagID, ok := httputil.ParsePathInt64OrError(w, r, "tag_id")
	if !ok {
		return
	}
	_, member, err := s.checker.RequireTagAccess(r.Context(), user.ID, tagID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	if err := s.checker.RequireCapability(member, auth.CapabilityTagDelete); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	if err := s.recipes.DeleteTag(r.Context(), tagID); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}
