package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"legal-literacy-portal/internal/domain/models"
	"legal-literacy-portal/internal/domain/services"
	"legal-literacy-portal/pkg/logger"
)

// AdminHandler handles the staff-only query endpoints
type AdminHandler struct {
	queries *services.QueryService
	logger  *logger.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(queries *services.QueryService, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		queries: queries,
		logger:  log.WithComponent("admin-handler"),
	}
}

// StatusRequest is the body of a status change
type StatusRequest struct {
	Status models.QueryStatus `json:"status"`
}

// ListQueries handles GET /api/v1/admin/queries
func (h *AdminHandler) ListQueries(w http.ResponseWriter, r *http.Request) {
	all, err := h.queries.List(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"queries": all,
		"count":   len(all),
	})
}

// GetQuery handles GET /api/v1/admin/queries/{queryID}
func (h *AdminHandler) GetQuery(w http.ResponseWriter, r *http.Request) {
	q, err := h.queries.Get(r.Context(), chi.URLParam(r, "queryID"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, q)
}

// UpdateStatus handles PATCH /api/v1/admin/queries/{queryID}/status
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	queryID := chi.URLParam(r, "queryID")
	if err := h.queries.UpdateStatus(r.Context(), queryID, req.Status); err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"query_id": queryID,
		"status":   string(req.Status),
	})
}
