package api

import (
	"net/http"
	"strconv"

	"github.com/potluckapp/potluck/pkg/audit"
	"github.com/potluckapp/potluck/pkg/auth"
	"github.com/potluckapp/potluck/pkg/httputil"
	"github.com/potluckapp/potluck/pkg/recipes"
)

type createRecipeRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	CategoryIDs  []int64  `json:"category_ids"`
	TagIDs       []int64  `json:"tag_ids"`
}

func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
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
	// Creation is governed by the static capability alone; the group's
	// edit-restriction flag only applies to existing recipes.
	if err := s.checker.RequireCapability(member, auth.CapabilityRecipeCreate); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	var req createRecipeRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Title, "title") {
		return
	}

	// Manual authoring always produces a published recipe; drafts only
	// enter through the import pipeline.
	recipe := &recipes.Recipe{
		GroupID:      group.ID,
		CreatedBy:    user.ID,
		Title:        req.Title,
		Description:  req.Description,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		Status:       recipes.StatusPublished,
		CategoryIDs:  req.CategoryIDs,
		TagIDs:       req.TagIDs,
	}
	if err := s.recipes.CreateRecipe(r.Context(), recipe); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	s.recordAudit(r, &audit.Entry{
		UserID:       &user.ID,
		GroupID:      &group.ID,
		Action:       audit.ActionRecipeCreate,
		ResourceType: audit.ResourceRecipe,
		ResourceID:   strconv.FormatInt(recipe.ID, 10),
		Status:       audit.StatusSuccess,
	})
	httputil.WriteCreated(w, recipe)
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
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
	list, err := s.recipes.ListRecipes(r.Context(), group.ID, user.ID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, list)
}

func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	recipeID, ok := httputil.ParsePathInt64OrError(w, r, "recipe_id")
	if !ok {
		return
	}
	recipe, _, err := s.checker.RequireRecipeAccess(r.Context(), user.ID, recipeID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, recipe)
}

func (s *Server) handleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	recipeID, ok := httputil.ParsePathInt64OrError(w, r, "recipe_id")
	if !ok {
		return
	}
	if _, err := s.checker.AuthorizeRecipeEdit(r.Context(), user.ID, recipeID); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	var updates recipes.UpdateRecipeRequest
	if !httputil.ParseJSONOrError(w, r, &updates) {
		return
	}
	if err := s.recipes.UpdateRecipe(r.Context(), recipeID, &updates); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	s.recordAudit(r, &audit.Entry{
		UserID:       &user.ID,
		Action:       audit.ActionRecipeUpdate,
		ResourceType: audit.ResourceRecipe,
		ResourceID:   strconv.FormatInt(recipeID, 10),
		Status:       audit.StatusSuccess,
	})

	updated, err := s.recipes.GetRecipe(r.Context(), recipeID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, updated)
}

func (s *Server) handlePublishRecipe(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	recipeID, ok := httputil.ParsePathInt64OrError(w, r, "recipe_id")
	if !ok {
		return
	}
	// Foreign drafts are invisible even to admins, so only the creator can
	// reach a draft here. Publishing an already published recipe is a no-op.
	recipe, err := s.checker.AuthorizeRecipeEdit(r.Context(), user.ID, recipeID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	if recipe.Status == recipes.StatusDraft {
		published := recipes.StatusPublished
		if err := s.recipes.UpdateRecipe(r.Context(), recipeID, &recipes.UpdateRecipeRequest{Status: &published}); err != nil {
			httputil.WriteDomainError(w, err)
			return
		}
		s.recordAudit(r, &audit.Entry{
			UserID:       &user.ID,
			GroupID:      &recipe.GroupID,
			Action:       audit.ActionRecipePublish,
			ResourceType: audit.ResourceRecipe,
			ResourceID:   strconv.FormatInt(recipeID, 10),
			Status:       audit.StatusSuccess,
		})
	}

	updated, err := s.recipes.GetRecipe(r.Context(), recipeID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteSuccess(w, updated)
}

func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	recipeID, ok := httputil.ParsePathInt64OrError(w, r, "recipe_id")
	if !ok {
		return
	}
	recipe, err := s.checker.AuthorizeRecipeDelete(r.Context(), user.ID, recipeID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	action := audit.ActionRecipeDelete
	if recipe.Status == recipes.StatusDraft && recipe.CreatedBy == user.ID {
		action = audit.ActionRecipeDiscard
		err = s.recipes.DiscardDraft(r.Context(), recipeID, user.ID)
	} else {
		err = s.recipes.DeleteRecipe(r.Context(), recipeID)
	}
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	s.recordAudit(r, &audit.Entry{
		UserID:       &user.ID,
		GroupID:      &recipe.GroupID,
		Action:       action,
		ResourceType: audit.ResourceRecipe,
		ResourceID:   strconv.FormatInt(recipeID, 10),
		Status:       audit.StatusSuccess,
	})
	httputil.WriteNoContent(w)
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
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
	if err := s.checker.RequireCapability(member, auth.CapabilityFavoriteManage); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	if err := s.recipes.AddFavorite(r.Context(), user.ID, recipeID); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	recipeID, ok := httputil.ParsePathInt64OrError(w, r, "recipe_id")
	if !ok {
		return
	}
	// No access check here, unlike adding: this only deletes the caller's
	// own row, and a member who left the group must still be able to drop
	// favorites pointing into it.
	if err := s.recipes.RemoveFavorite(r.Context(), user.ID, recipeID); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

type favoritesResponse struct {
	RecipeIDs []int64 `json:"recipe_ids"`
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	ids, err := s.recipes.ListFavorites(r.Context(), user.ID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	httputil.WriteSuccess(w, favoritesResponse{RecipeIDs: ids})
}
