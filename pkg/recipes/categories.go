package recipes

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/potluckapp/potluck/pkg/htmlsanitize"
)

// CreateCategory creates a group-scoped category. Slug uniqueness is per
// (group, category): the same slug may exist in other groups, and in this
// group's tags.
func (s *PostgresService) CreateCategory(ctx context.Context, c *Category) error {
	c.Name = htmlsanitize.PlainText(c.Name)
	if c.Name == "" {
		return fmt.Errorf("category name is required")
	}
	c.Slug = slugify(c.Name)

	query := `
		INSERT INTO recipe_categories (group_id, name, slug, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (group_id, slug) DO NOTHING
		RETURNING id
	`
	now := time.Now()
	err := s.db.QueryRowContext(ctx, query, c.GroupID, c.Name, c.Slug, now).Scan(&c.ID)
	if err == sql.ErrNoRows {
		return ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	c.CreatedAt = now
	return nil
}

// GetCategory retrieves a category by ID
func (s *PostgresService) GetCategory(ctx context.Context, id int64) (*Category, error) {
	c := &Category{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, name, slug, created_at FROM recipe_categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.GroupID, &c.Name, &c.Slug, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

// ListCategories returns all categories in a group
func (s *PostgresService) ListCategories(ctx context.Context, groupID int64) ([]*Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, name, slug, created_at FROM recipe_categories WHERE group_id = $1 ORDER BY name ASC`,
		groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var out []*Category
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.GroupID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateCategory renames a category, regenerating its slug
func (s *PostgresService) UpdateCategory(ctx context.Context, id int64, name string) error {
	name = htmlsanitize.PlainText(name)
	if name == "" {
		return fmt.Errorf("category name is required")
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE recipe_categories SET name = $1, slug = $2 WHERE id = $3`,
		name, slugify(name), id)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// DeleteCategory removes a category and its recipe assignments
func (s *PostgresService) DeleteCategory(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM recipe_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM recipe_category_assignments WHERE category_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category assignments: %w", err)
	}
	return nil
}
