package recipes

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/potluckapp/potluck/pkg/htmlsanitize"
)

// PostgresService implements recipe storage using PostgreSQL
type PostgresService struct {
	db *sql.DB
}

// NewPostgresService creates a new PostgresService
func NewPostgresService(db *sql.DB) *PostgresService {
	return &PostgresService{db: db}
}

// CreateRecipe creates a new recipe. Status defaults to published (manual
// authoring); the import pipeline passes StatusDraft explicitly.
func (s *PostgresService) CreateRecipe(ctx context.Context, r *Recipe) error {
	if r.Status == "" {
		r.Status = StatusPublished
	}
	if !r.Status.Valid() {
		return fmt.Errorf("invalid status: %q", r.Status)
	}
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}

	r.Title = htmlsanitize.PlainText(r.Title)
	r.Description = htmlsanitize.Sanitize(r.Description)

	slug, err := s.uniqueSlug(ctx, r.GroupID, r.Title)
	if err != nil {
		return err
	}
	r.Slug = slug

	ingredients, err := json.Marshal(emptyIfNil(r.Ingredients))
	if err != nil {
		return fmt.Errorf("failed to marshal ingredients: %w", err)
	}
	instructions, err := json.Marshal(emptyIfNil(r.Instructions))
	if err != nil {
		return fmt.Errorf("failed to marshal instructions: %w", err)
	}

	query := `
		INSERT INTO recipes (group_id, created_by, slug, title, description, ingredients, instructions, status, source_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		RETURNING id
	`
	now := time.Now()
	var sourceURL sql.NullString
	if r.SourceURL != "" {
		sourceURL = sql.NullString{String: r.SourceURL, Valid: true}
	}
	err = s.db.QueryRowContext(ctx, query, r.GroupID, r.CreatedBy, r.Slug, r.Title,
		r.Description, string(ingredients), string(instructions), r.Status, sourceURL, now,
	).Scan(&r.ID)
	if err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	r.CreatedAt = now
	r.UpdatedAt = now

	if len(r.CategoryIDs) > 0 {
		if err := s.assignCategories(ctx, r.ID, r.GroupID, r.CategoryIDs); err != nil {
			return err
		}
	}
	if len(r.TagIDs) > 0 {
		if err := s.assignTags(ctx, r.ID, r.GroupID, r.TagIDs); err != nil {
			return err
		}
	}
	return nil
}

// GetRecipe retrieves a recipe by ID, including taxonomy assignments.
// Draft visibility is not applied here; callers go through
// authz.Checker.RequireRecipeAccess first.
func (s *PostgresService) GetRecipe(ctx context.Context, id int64) (*Recipe, error) {
	query := `
		SELECT id, group_id, created_by, slug, title, description, ingredients, instructions, status, source_url, created_at, updated_at
		FROM recipes
		WHERE id = $1
	`
	r := &Recipe{}
	var ingredients, instructions string
	var sourceURL sql.NullString
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&r.ID, &r.GroupID, &r.CreatedBy, &r.Slug, &r.Title, &r.Description,
		&ingredients, &instructions, &r.Status, &sourceURL, &r.CreatedAt, &r.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	if err := json.Unmarshal([]byte(ingredients), &r.Ingredients); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ingredients: %w", err)
	}
	if err := json.Unmarshal([]byte(instructions), &r.Instructions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal instructions: %w", err)
	}
	if sourceURL.Valid {
		r.SourceURL = sourceURL.String
	}

	if r.CategoryIDs, err = s.assignedIDs(ctx, `recipe_category_assignments`, `category_id`, id); err != nil {
		return nil, err
	}
	if r.TagIDs, err = s.assignedIDs(ctx, `recipe_tag_assignments`, `tag_id`, id); err != nil {
		return nil, err
	}
	return r, nil
}

// ListRecipes returns the recipes in a group visible to the viewer:
// everything published, plus the viewer's own drafts.
func (s *PostgresService) ListRecipes(ctx context.Context, groupID, viewerID int64) ([]*Recipe, error) {
	query := `
		SELECT id, group_id, created_by, slug, title, description, ingredients, instructions, status, source_url, created_at, updated_at
		FROM recipes
		WHERE group_id = $1 AND (status = 'published' OR created_by = $2)
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, groupID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var out []*Recipe
	for rows.Next() {
		r := &Recipe{}
		var ingredients, instructions string
		var sourceURL sql.NullString
		if err := rows.Scan(&r.ID, &r.GroupID, &r.CreatedBy, &r.Slug, &r.Title,
			&r.Description, &ingredients, &instructions, &r.Status, &sourceURL,
			&r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		if err := json.Unmarshal([]byte(ingredients), &r.Ingredients); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ingredients: %w", err)
		}
		if err := json.Unmarshal([]byte(instructions), &r.Instructions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal instructions: %w", err)
		}
		if sourceURL.Valid {
			r.SourceURL = sourceURL.String
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpdateRecipe applies a partial update. The only legal status change is
// draft -> published; anything else fails with ErrInvalidTransition.
func (s *PostgresService) UpdateRecipe(ctx context.Context, id int64, updates *UpdateRecipeRequest) error {
	current, err := s.GetRecipe(ctx, id)
	if err != nil {
		return err
	}

	if updates.Status != nil {
		if !updates.Status.Valid() {
			return fmt.Errorf("invalid status: %q", *updates.Status)
		}
		if current.Status == StatusPublished && *updates.Status == StatusDraft {
			return ErrInvalidTransition
		}
	}

	sets := []string{}
	args := []interface{}{}
	i := 1
	add := func(col string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}

	if updates.Title != nil {
		add("title", htmlsanitize.PlainText(*updates.Title))
	}
	if updates.Description != nil {
		add("description", htmlsanitize.Sanitize(*updates.Description))
	}
	if updates.Ingredients != nil {
		b, err := json.Marshal(*updates.Ingredients)
		if err != nil {
			return fmt.Errorf("failed to marshal ingredients: %w", err)
		}
		add("ingredients", string(b))
	}
	if updates.Instructions != nil {
		b, err := json.Marshal(*updates.Instructions)
		if err != nil {
			return fmt.Errorf("failed to marshal instructions: %w", err)
		}
		add("instructions", string(b))
	}
	if updates.Status != nil {
		add("status", *updates.Status)
	}

	if len(sets) > 0 {
		add("updated_at", time.Now())
		args = append(args, id)
		query := fmt.Sprintf(`UPDATE recipes SET %s WHERE id = $%d`, strings.Join(sets, ", "), i)
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}
	}

	if updates.CategoryIDs != nil {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM recipe_category_assignments WHERE recipe_id = $1`, id); err != nil {
			return fmt.Errorf("failed to clear categories: %w", err)
		}
		if err := s.assignCategories(ctx, id, current.GroupID, *updates.CategoryIDs); err != nil {
			return err
		}
	}
	if updates.TagIDs != nil {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM recipe_tag_assignments WHERE recipe_id = $1`, id); err != nil {
			return fmt.Errorf("failed to clear tags: %w", err)
		}
		if err := s.assignTags(ctx, id, current.GroupID, *updates.TagIDs); err != nil {
			return err
		}
	}
	return nil
}

// DeleteRecipe hard-deletes a recipe and its dependents. Reserved for group
// admins; authorization happens in pkg/authz.
func (s *PostgresService) DeleteRecipe(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrRecipeNotFound
	}
	return s.deleteDependents(ctx, id)
}

// DiscardDraft hard-deletes a draft owned by userID. The ownership and
// status conditions are part of the DELETE itself: a concurrently published
// recipe cannot be discarded.
func (s *PostgresService) DiscardDraft(ctx context.Context, id, userID int64) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM recipes WHERE id = $1 AND created_by = $2 AND status = 'draft'`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to discard draft: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		if _, err := s.GetRecipe(ctx, id); err != nil {
			return err // ErrRecipeNotFound
		}
		return ErrNotDiscardable
	}
	return s.deleteDependents(ctx, id)
}

func (s *PostgresService) deleteDependents(ctx context.Context, recipeID int64) error {
	for _, q := range []string{
		`DELETE FROM recipe_category_assignments WHERE recipe_id = $1`,
		`DELETE FROM recipe_tag_assignments WHERE recipe_id = $1`,
		`DELETE FROM favorites WHERE recipe_id = $1`,
		`DELETE FROM comments WHERE recipe_id = $1`,
	} {
		if _, err := s.db.ExecContext(ctx, q, recipeID); err != nil {
			return fmt.Errorf("failed to delete recipe dependents: %w", err)
		}
	}
	return nil
}

// assignCategories links categories to a recipe. The group match is part of
// the INSERT, so categories from a foreign group are silently skipped rather
// than linked across tenants.
func (s *PostgresService) assignCategories(ctx context.Context, recipeID, groupID int64, categoryIDs []int64) error {
	for _, cid := range categoryIDs {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO recipe_category_assignments (recipe_id, category_id)
			SELECT $1, id FROM recipe_categories WHERE id = $2 AND group_id = $3
			ON CONFLICT (recipe_id, category_id) DO NOTHING
		`, recipeID, cid, groupID)
		if err != nil {
			return fmt.Errorf("failed to assign category %d: %w", cid, err)
		}
	}
	return nil
}

func (s *PostgresService) assignTags(ctx context.Context, recipeID, groupID int64, tagIDs []int64) error {
	for _, tid := range tagIDs {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO recipe_tag_assignments (recipe_id, tag_id)
			SELECT $1, id FROM recipe_tags WHERE id = $2 AND group_id = $3
			ON CONFLICT (recipe_id, tag_id) DO NOTHING
		`, recipeID, tid, groupID)
		if err != nil {
			return fmt.Errorf("failed to assign tag %d: %w", tid, err)
		}
	}
	return nil
}

func (s *PostgresService) assignedIDs(ctx context.Context, table, column string, recipeID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE recipe_id = $1 ORDER BY %s`, column, table, column), recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// uniqueSlug generates a slug from the title, appending a numeric suffix on
// collision within the group.
func (s *PostgresService) uniqueSlug(ctx context.Context, groupID int64, title string) (string, error) {
	base := slugify(title)
	if base == "" {
		base = "recipe"
	}

	slug := base
	for attempt := 2; attempt < 100; attempt++ {
		var exists bool
		err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM recipes WHERE group_id = $1 AND slug = $2)`,
			groupID, slug,
		).Scan(&exists)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, attempt)
	}
	return "", ErrSlugTaken
}

func slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")

	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-")
}

func emptyIfNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
