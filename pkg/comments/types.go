// Package comments stores recipe comments. Ownership rules (who may edit or
// delete a comment) live in pkg/authz; this package is plain storage.
package comments

import (
	"context"
	"errors"
	"time"
)

// Comment is a remark left on a recipe by a group member.
type Comment struct {
	ID        int64     `json:"id"`
	RecipeID  int64     `json:"recipe_id"`
	UserID    int64     `json:"user_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ErrCommentNotFound is returned when a comment does not exist.
var ErrCommentNotFound = errors.New("comment not found")

// Service defines comment storage operations.
type Service interface {
	CreateComment(ctx context.Context, c *Comment) error
	GetComment(ctx context.Context, id int64) (*Comment, error)
	ListComments(ctx context.Context, recipeID int64) ([]*Comment, error)
	UpdateComment(ctx context.Context, id int64, body string) error
	DeleteComment(ctx context.Context, id int64) error
}
