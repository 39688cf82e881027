package comments

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/potluckapp/potluck/pkg/htmlsanitize"
)

// PostgresService implements comment storage using PostgreSQL
type PostgresService struct {
	db *sql.DB
}

// NewPostgresService creates a new PostgresService
func NewPostgresService(db *sql.DB) *PostgresService {
	return &PostgresService{db: db}
}

// CreateComment stores a new comment. The body is sanitized before storage.
func (s *PostgresService) CreateComment(ctx context.Context, c *Comment) error {
	c.Body = htmlsanitize.Sanitize(c.Body)
	if c.Body == "" {
		return fmt.Errorf("comment body is required")
	}

	query := `
		INSERT INTO comments (recipe_id, user_id, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id
	`
	now := time.Now()
	err := s.db.QueryRowContext(ctx, query, c.RecipeID, c.UserID, c.Body, now).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

// GetComment retrieves a comment by ID
func (s *PostgresService) GetComment(ctx context.Context, id int64) (*Comment, error) {
	c := &Comment{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, recipe_id, user_id, body, created_at, updated_at FROM comments WHERE id = $1`, id,
	).Scan(&c.ID, &c.RecipeID, &c.UserID, &c.Body, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return c, nil
}

// ListComments returns a recipe's comments, oldest first
func (s *PostgresService) ListComments(ctx context.Context, recipeID int64) ([]*Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, recipe_id, user_id, body, created_at, updated_at
		FROM comments
		WHERE recipe_id = $1
		ORDER BY created_at ASC, id ASC
	`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var out []*Comment
	for rows.Next() {
		c := &Comment{}
		if err := rows.Scan(&c.ID, &c.RecipeID, &c.UserID, &c.Body, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateComment replaces a comment's body
func (s *PostgresService) UpdateComment(ctx context.Context, id int64, body string) error {
	body = htmlsanitize.Sanitize(body)
	if body == "" {
		return fmt.Errorf("comment body is required")
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE comments SET body = $1, updated_at = $2 WHERE id = $3`,
		body, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// DeleteComment removes a comment
func (s *PostgresService) DeleteComment(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrCommentNotFound
	}
	return nil
}
