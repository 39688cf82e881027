package recipes

import (
	"errors"
	"time"
)

// Status represents the recipe lifecycle state
type Status string

const (
	StatusDraft     Status = "draft"     // Visible only to the creator
	StatusPublished Status = "published" // Visible to all group members
)

// Valid reports whether s is a defined status.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// Recipe represents a recipe belonging to exactly one group
type Recipe struct {
	ID           int64     `json:"id"`
	GroupID      int64     `json:"group_id"`
	CreatedBy    int64     `json:"created_by"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Ingredients  []string  `json:"ingredients"`
	Instructions []string  `json:"instructions"`
	Status       Status    `json:"status"`
	SourceURL    string    `json:"source_url,omitempty"`
	CategoryIDs  []int64   `json:"category_ids,omitempty"`
	TagIDs       []int64   `json:"tag_ids,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Category represents a group-scoped recipe category
type Category struct {
	ID        int64     `json:"id"`
	GroupID   int64     `json:"group_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// Tag represents a group-scoped recipe tag
type Tag struct {
	ID        int64     `json:"id"`
	GroupID   int64     `json:"group_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdateRecipeRequest represents a partial recipe update; nil fields are
// unchanged. Status may only move draft -> published.
type UpdateRecipeRequest struct {
	Title        *string   `json:"title,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Ingredients  *[]string `json:"ingredients,omitempty"`
	Instructions *[]string `json:"instructions,omitempty"`
	Status       *Status   `json:"status,omitempty"`
	CategoryIDs  *[]int64  `json:"category_ids,omitempty"`
	TagIDs       *[]int64  `json:"tag_ids,omitempty"`
}

// Sentinel errors.
var (
	ErrRecipeNotFound   = errors.New("recipe not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrTagNotFound      = errors.New("tag not found")
	ErrSlugTaken        = errors.New("slug already in use in this group")
	// ErrInvalidTransition rejects published -> draft; unpublishing is not a
	// supported transition.
	ErrInvalidTransition = errors.New("published recipes cannot return to draft")
	// ErrNotDiscardable rejects discarding anything but one's own draft.
	ErrNotDiscardable = errors.New("only the creator may discard a draft recipe")
)
