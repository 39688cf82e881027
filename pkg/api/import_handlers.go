package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/potluckapp/potluck/pkg/audit"
	"github.com/potluckapp/potluck/pkg/auth"
	"github.com/potluckapp/potluck/pkg/httputil"
	"github.com/potluckapp/potluck/pkg/importer"
)

type importRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleImportRecipe(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	group, ok := requireGroup(w, r)
	if !ok {
		return
	}
	member, err := s.checker.RequireMember(r.Context(), user.ID, group.ID)
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	if err := s.checker.RequireCapability(member, auth.CapabilityRecipeImport); err != nil {
		httputil.WriteDomainError(w, err)
		return
	}
	if s.importer == nil {
		httputil.WriteErrorMessage(w, http.StatusServiceUnavailable, "recipe import is not configured")
		return
	}

	var req importRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.URL, "url") {
		return
	}

	start := time.Now()
	recipe, err := s.importer.Import(r.Context(), user.ID, group.ID, req.URL)
	s.recordImport(err, time.Since(start))
	if err != nil {
		httputil.WriteDomainError(w, err)
		return
	}

	s.recordAudit(r, &audit.Entry{
		UserID:       &user.ID,
		GroupID:      &group.ID,
		Action:       audit.ActionRecipeImport,
		ResourceType: audit.ResourceRecipe,
		ResourceID:   strconv.FormatInt(recipe.ID, 10),
		Status:       audit.StatusSuccess,
	})
	httputil.WriteCreated(w, recipe)
}

func (s *Server) recordImport(err error, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	status := "success"
	switch {
	case errors.Is(err, importer.ErrBlockedDomain):
		status = "blocked"
	case errors.Is(err, importer.ErrRateLimited):
		status = "rate_limited"
	case err != nil:
		status = "failed"
	}
	s.metrics.ImportsTotal.WithLabelValues(status).Inc()
	s.metrics.ImportDuration.WithLabelValues(status).Observe(elapsed.Seconds())
}
