// Package importer runs the recipe import pipeline: a URL is checked against
// the domain blocklist and the per-user quota, extracted into a candidate
// payload, and stored as a draft recipe owned by the importing user. Drafts
// stay invisible to the rest of the group until the importer publishes them.
package importer

import (
	"context"
	"errors"
)

// ExtractedRecipe is the candidate payload produced by an extractor.
type ExtractedRecipe struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
}

// Extractor turns a URL into a candidate recipe. Implementations are
// external services; the pipeline treats them as black boxes.
type Extractor interface {
	Extract(ctx context.Context, url string) (*ExtractedRecipe, error)
}

// Pipeline failure modes, surfaced to the caller verbatim.
var (
	ErrRateLimited      = errors.New("import rate limit exceeded")
	ErrBlockedDomain    = errors.New("domain is not allowed for import")
	ErrExtractionFailed = errors.New("failed to extract a recipe from the page")
)
