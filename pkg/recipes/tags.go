package recipes

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/potluckapp/potluck/pkg/htmlsanitize"
)

// CreateTag creates a group-scoped tag
func (s *PostgresService) CreateTag(ctx context.Context, tag *Tag) error {
	tag.Name = htmlsanitize.PlainText(tag.Name)
	if tag.Name == "" {
		return fmt.Errorf("tag name is required")
	}
	tag.Slug = slugify(tag.Name)

	query := `
		INSERT INTO recipe_tags (group_id, name, slug, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (group_id, slug) DO NOTHING
		RETURNING id
	`
	now := time.Now()
	err := s.db.QueryRowContext(ctx, query, tag.GroupID, tag.Name, tag.Slug, now).Scan(&tag.ID)
	if err == sql.ErrNoRows {
		return ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("failed to create tag: %w", err)
	}
	tag.CreatedAt = now
	return nil
}

// GetTag retrieves a tag by ID
func (s *PostgresService) GetTag(ctx context.Context, id int64) (*Tag, error) {
	tag := &Tag{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, name, slug, created_at FROM recipe_tags WHERE id = $1`, id,
	).Scan(&tag.ID, &tag.GroupID, &tag.Name, &tag.Slug, &tag.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	return tag, nil
}

// ListTags returns all tags in a group
func (s *PostgresService) ListTags(ctx context.Context, groupID int64) ([]*Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, name, slug, created_at FROM recipe_tags WHERE group_id = $1 ORDER BY name ASC`,
		groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	var out []*Tag
	for rows.Next() {
		tag := &Tag{}
		if err := rows.Scan(&tag.ID, &tag.GroupID, &tag.Name, &tag.Slug, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		out = append(out, tag)
	}
	return out, rows.Err()
}

// UpdateTag renames a tag, regenerating its slug
func (s *PostgresService) UpdateTag(ctx context.Context, id int64, name string) error {
	name = htmlsanitize.PlainText(name)
	if name == "" {
		return fmt.Errorf("tag name is required")
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE recipe_tags SET name = $1, slug = $2 WHERE id = $3`,
		name, slugify(name), id)
	if err != nil {
		return fmt.Errorf("failed to update tag: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrTagNotFound
	}
	return nil
}

// DeleteTag removes a tag and its recipe assignments
func (s *PostgresService) DeleteTag(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM recipe_tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrTagNotFound
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM recipe_tag_assignments WHERE tag_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tag assignments: %w", err)
	}
	return nil
}
