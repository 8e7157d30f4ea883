package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"legal-literacy-portal/internal/domain/services"
	"legal-literacy-portal/pkg/logger"
)

// RightsHandler serves the rights education catalog. The selected category lives in the URL.
type RightsHandler struct {
	catalog *services.RightsCatalog
	logger  *logger.Logger
}

// NewRightsHandler creates a new rights handler
func NewRightsHandler(catalog *services.RightsCatalog, log *logger.Logger) *RightsHandler {
	return &RightsHandler{
		catalog: catalog,
		logger:  log.WithComponent("rights-handler"),
	}
}

// List handles GET /api/v1/rights
func (h *RightsHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"categories": h.catalog.Categories(),
	})
}

// Get handles GET /api/v1/rights/{category}
func (h *RightsHandler) Get(w http.ResponseWriter, r *http.Request) {
	cat, err := h.catalog.Category(chi.URLParam(r, "category"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, cat)
}
