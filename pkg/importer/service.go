package importer

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"

	"github.com/potluckapp/potluck/pkg/recipes"
)

// RecipeCreator is the slice of the recipe service the pipeline needs.
// Satisfied by *recipes.PostgresService.
type RecipeCreator interface {
	CreateRecipe(ctx context.Context, r *recipes.Recipe) error
}

// Service runs the import pipeline. Extraction results are cached per URL so
// repeated imports of the same page (common when several members import the
// same viral recipe) skip the extractor.
type Service struct {
	extractor Extractor
	quota     *Quota
	blocklist *Blocklist
	recipes   RecipeCreator
	cache     *lru.LRU[string, *ExtractedRecipe]
	logger    *logrus.Entry
}

// NewService creates a new import Service
func NewService(extractor Extractor, quota *Quota, blocklist *Blocklist, recipeStore RecipeCreator) *Service {
	return &Service{
		extractor: extractor,
		quota:     quota,
		blocklist: blocklist,
		recipes:   recipeStore,
		cache:     lru.NewLRU[string, *ExtractedRecipe](256, nil, 15*time.Minute),
		logger:    logrus.WithField("component", "importer"),
	}
}

// Import extracts a recipe from the URL and stores it as a draft owned by
// the importing user. Authorization (membership plus the recipe:import
// capability) is the caller's job; quota and blocklist are enforced here.
func (s *Service) Import(ctx context.Context, userID, groupID int64, url string) (*recipes.Recipe, error) {
	if s.blocklist != nil && s.blocklist.IsBlocked(url) {
		return nil, ErrBlockedDomain
	}

	allowed, err := s.quota.Allow(ctx, userID)
	if err != nil {
		s.logger.WithError(err).Warn("Import quota check degraded, allowing request")
	}
	if !allowed {
		return nil, ErrRateLimited
	}

	payload, ok := s.cache.Get(url)
	if !ok {
		payload, err = s.extractor.Extract(ctx, url)
		if err != nil {
			s.logger.WithError(err).WithField("url", url).Info("Extraction failed")
			return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
		}
		s.cache.Add(url, payload)
	}

	recipe := &recipes.Recipe{
		GroupID:      groupID,
		CreatedBy:    userID,
		Title:        payload.Title,
		Description:  payload.Description,
		Ingredients:  payload.Ingredients,
		Instructions: payload.Instructions,
		Status:       recipes.StatusDraft,
		SourceURL:    url,
	}
	if err := s.recipes.CreateRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to store imported recipe: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"recipe_id": recipe.ID,
		"group_id":  groupID,
		"user_id":   userID,
	}).Info("Imported recipe draft")
	return recipe, nil
}
