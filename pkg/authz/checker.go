package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/potluckapp/potluck/pkg/auth"
	"github.com/potluckapp/potluck/pkg/comments"
	"github.com/potluckapp/potluck/pkg/groups"
	"github.com/potluckapp/potluck/pkg/recipes"
)

// MembershipStore is the slice of the group service the checker needs.
// Satisfied by *groups.PostgresService.
type MembershipStore interface {
	GetGroup(ctx context.Context, id int64) (*groups.Group, error)
	GetMember(ctx context.Context, groupID, userID int64) (*groups.Member, error)
	AdminCount(ctx context.Context, groupID int64) (int, error)
}

// RecipeStore is the slice of the recipe service the checker needs.
// Satisfied by *recipes.PostgresService.
type RecipeStore interface {
	GetRecipe(ctx context.Context, id int64) (*recipes.Recipe, error)
	GetCategory(ctx context.Context, id int64) (*recipes.Category, error)
	GetTag(ctx context.Context, id int64) (*recipes.Tag, error)
}

// CommentStore is the slice of the comment service the checker needs.
// Satisfied by *comments.PostgresService.
type CommentStore interface {
	GetComment(ctx context.Context, id int64) (*comments.Comment, error)
}

// Checker evaluates authorization decisions against the store. It is
// stateless; every decision reads current membership and group settings.
type Checker struct {
	memberships MembershipStore
	recipes     RecipeStore
	comments    CommentStore
}

// NewChecker creates a new Checker
func NewChecker(memberships MembershipStore, recipeStore RecipeStore, commentStore CommentStore) *Checker {
	return &Checker{
		memberships: memberships,
		recipes:     recipeStore,
		comments:    commentStore,
	}
}

// RequireMember resolves the caller's membership in a group. Callers address
// the group directly here, so a missing membership is reported as Forbidden
// rather than hidden behind NotFound.
func (c *Checker) RequireMember(ctx context.Context, userID, groupID int64) (*groups.Member, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	member, err := c.memberships.GetMember(ctx, groupID, userID)
	if errors.Is(err, groups.ErrMemberNotFound) {
		return nil, forbidden("not a member of this group")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve membership: %w", err)
	}
	return member, nil
}

// RequireCapability checks the static permission table for the member's role.
func (c *Checker) RequireCapability(member *groups.Member, capability auth.Capability) error {
	if !auth.HasPermission(member.Role, capability) {
		return forbidden(fmt.Sprintf("requires %s", capability))
	}
	return nil
}

// RequireRecipeAccess resolves a recipe and verifies the caller may see it.
// A recipe in a foreign group, and a draft created by someone else, are both
// reported as NotFound, indistinguishable from a missing recipe. The draft
// rule holds even for group admins.
func (c *Checker) RequireRecipeAccess(ctx context.Context, userID, recipeID int64) (*recipes.Recipe, *groups.Member, error) {
	if userID == 0 {
		return nil, nil, ErrUnauthorized
	}
	recipe, err := c.recipes.GetRecipe(ctx, recipeID)
	if errors.Is(err, recipes.ErrRecipeNotFound) {
		return nil, nil, notFound("recipe")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve recipe: %w", err)
	}

	member, err := c.memberships.GetMember(ctx, recipe.GroupID, userID)
	if errors.Is(err, groups.ErrMemberNotFound) {
		return nil, nil, notFound("recipe")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve membership: %w", err)
	}

	if recipe.Status == recipes.StatusDraft && recipe.CreatedBy != userID {
		return nil, nil, notFound("recipe")
	}
	return recipe, member, nil
}

// RequireCommentAccess resolves a comment and verifies the caller may see the
// recipe it belongs to. Comments on invisible recipes are invisible too.
func (c *Checker) RequireCommentAccess(ctx context.Context, userID, commentID int64) (*comments.Comment, *groups.Member, error) {
	if userID == 0 {
		return nil, nil, ErrUnauthorized
	}
	comment, err := c.comments.GetComment(ctx, commentID)
	if errors.Is(err, comments.ErrCommentNotFound) {
		return nil, nil, notFound("comment")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve comment: %w", err)
	}

	_, member, err := c.RequireRecipeAccess(ctx, userID, comment.RecipeID)
	if IsNotFound(err) {
		return nil, nil, notFound("comment")
	}
	if err != nil {
		return nil, nil, err
	}
	return comment, member, nil
}

// RequireCategoryAccess resolves a category and the caller's membership in
// its owning group.
func (c *Checker) RequireCategoryAccess(ctx context.Context, userID, categoryID int64) (*recipes.Category, *groups.Member, error) {
	if userID == 0 {
		return nil, nil, ErrUnauthorized
	}
	category, err := c.recipes.GetCategory(ctx, categoryID)
	if errors.Is(err, recipes.ErrCategoryNotFound) {
		return nil, nil, notFound("category")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve category: %w", err)
	}

	member, err := c.memberships.GetMember(ctx, category.GroupID, userID)
	if errors.Is(err, groups.ErrMemberNotFound) {
		return nil, nil, notFound("category")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve membership: %w", err)
	}
	return category, member, nil
}

// RequireTagAccess resolves a tag and the caller's membership in its owning
// group.
func (c *Checker) RequireTagAccess(ctx context.Context, userID, tagID int64) (*recipes.Tag, *groups.Member, error) {
	if userID == 0 {
		return nil, nil, ErrUnauthorized
	}
	tag, err := c.recipes.GetTag(ctx, tagID)
	if errors.Is(err, recipes.ErrTagNotFound) {
		return nil, nil, notFound("tag")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve tag: %w", err)
	}

	member, err := c.memberships.GetMember(ctx, tag.GroupID, userID)
	if errors.Is(err, groups.ErrMemberNotFound) {
		return nil, nil, notFound("tag")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve membership: %w", err)
	}
	return tag, member, nil
}

// CanEditRecipe reports whether the user may edit existing recipes in the
// group. Admins always can, power users only while the group's
// AllowPowerUserEdit flag is set, read-only members and non-members never.
// Recipe creation is not subject to this policy; it is governed by the
// static permission table alone.
func (c *Checker) CanEditRecipe(ctx context.Context, userID, groupID int64) (bool, error) {
	member, err := c.memberships.GetMember(ctx, groupID, userID)
	if errors.Is(err, groups.ErrMemberNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to resolve membership: %w", err)
	}

	switch member.Role {
	case auth.RoleAdmin:
		return true, nil
	case auth.RolePowerUser:
		group, err := c.memberships.GetGroup(ctx, groupID)
		if err != nil {
			return false, fmt.Errorf("failed to resolve group: %w", err)
		}
		return group.AllowPowerUserEdit, nil
	default:
		return false, nil
	}
}

// CanDeleteRecipe reports whether the user may delete recipes in the group.
// Admin only; the governance flag has no effect on deletes.
func (c *Checker) CanDeleteRecipe(ctx context.Context, userID, groupID int64) (bool, error) {
	member, err := c.memberships.GetMember(ctx, groupID, userID)
	if errors.Is(err, groups.ErrMemberNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to resolve membership: %w", err)
	}
	return member.Role == auth.RoleAdmin, nil
}

// AuthorizeRecipeEdit combines visibility, ownership, and governance for an
// edit of an existing recipe. Drafts are editable only by their creator no
// matter what the governance policy says; for published recipes the static
// capability check runs first, then the governance flag.
func (c *Checker) AuthorizeRecipeEdit(ctx context.Context, userID, recipeID int64) (*recipes.Recipe, error) {
	recipe, member, err := c.RequireRecipeAccess(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	// RequireRecipeAccess already hid foreign drafts, so a visible draft
	// belongs to the caller.
	if recipe.Status == recipes.StatusDraft {
		return recipe, nil
	}

	if err := c.RequireCapability(member, auth.CapabilityRecipeUpdate); err != nil {
		return nil, err
	}
	allowed, err := c.CanEditRecipe(ctx, userID, recipe.GroupID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, forbidden("recipe editing is restricted in this group")
	}
	return recipe, nil
}

// AuthorizeRecipeDelete permits a full delete (admin) or a draft discard by
// the creator. The returned recipe tells the caller which path applies.
func (c *Checker) AuthorizeRecipeDelete(ctx context.Context, userID, recipeID int64) (*recipes.Recipe, error) {
	recipe, member, err := c.RequireRecipeAccess(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.Status == recipes.StatusDraft && recipe.CreatedBy == userID {
		return recipe, nil
	}
	if member.Role != auth.RoleAdmin {
		return nil, forbidden("only group admins can delete recipes")
	}
	return recipe, nil
}

// WouldLeaveNoAdmins reports whether removing or demoting the given member
// would leave the group without an admin. This is advisory; the membership
// mutations in pkg/groups enforce the invariant atomically against the
// store, so a stale answer here can never corrupt the group.
func (c *Checker) WouldLeaveNoAdmins(ctx context.Context, groupID, userID int64, action groups.MemberAction) (bool, error) {
	member, err := c.memberships.GetMember(ctx, groupID, userID)
	if errors.Is(err, groups.ErrMemberNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to resolve membership: %w", err)
	}
	if member.Role != auth.RoleAdmin {
		return false, nil
	}
	count, err := c.memberships.AdminCount(ctx, groupID)
	if err != nil {
		return false, fmt.Errorf("failed to count admins: %w", err)
	}
	return count <= 1, nil
}

// CanModifyComment reports whether a requester may edit or delete a comment.
// Authors may always act on their own comments, admins on anyone's. Pure.
func CanModifyComment(requesterID, ownerID int64, role auth.Role) bool {
	return requesterID == ownerID || role == auth.RoleAdmin
}

// AuthorizeCommentModify resolves a comment and checks the ownership rule
// for an edit or delete.
func (c *Checker) AuthorizeCommentModify(ctx context.Context, userID, commentID int64) (*comments.Comment, error) {
	comment, member, err := c.RequireCommentAccess(ctx, userID, commentID)
	if err != nil {
		return nil, err
	}
	if !CanModifyComment(userID, comment.UserID, member.Role) {
		return nil, forbidden("you can only modify your own comments")
	}
	return comment, nil
}
