package recipes

import (
	"context"
	"fmt"
)

// AddFavorite marks a recipe as a favorite for the user. Idempotent.
func (s *PostgresService) AddFavorite(ctx context.Context, userID, recipeID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO favorites (user_id, recipe_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, recipe_id) DO NOTHING
	`, userID, recipeID)
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite clears a favorite. Idempotent.
func (s *PostgresService) RemoveFavorite(ctx context.Context, userID, recipeID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND recipe_id = $2`, userID, recipeID)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// IsFavorite reports whether the user has favorited the recipe
func (s *PostgresService) IsFavorite(ctx context.Context, userID, recipeID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND recipe_id = $2)`,
		userID, recipeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return exists, nil
}

// ListFavorites returns the IDs of a user's favorite recipes, newest first
func (s *PostgresService) ListFavorites(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT recipe_id FROM favorites WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
