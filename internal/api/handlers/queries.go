package handlers

import (
	"net/http"
	"strings"

	"legal-literacy-portal/internal/domain/models"
	"legal-literacy-portal/internal/domain/services"
	"legal-literacy-portal/internal/metrics"
	"legal-literacy-portal/pkg/logger"
)

// maxQueryFiles bounds the number of attachments read from one submission
const maxQueryFiles = 5

// QueriesHandler handles property query submission
type QueriesHandler struct {
	service *services.QueryService
	uploads *uploadReader
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewQueriesHandler creates a new queries handler
func NewQueriesHandler(service *services.QueryService, uploads *uploadReader, m *metrics.Metrics, log *logger.Logger) *QueriesHandler {
	return &QueriesHandler{
		service: service,
		uploads: uploads,
		metrics: m,
		logger:  log.WithComponent("queries-handler"),
	}
}

// Submit handles POST /api/v1/queries as json or multipart (fields plus "files")
func (h *QueriesHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var (
		in          models.QueryInput
		attachments []models.Attachment
	)

	if isMultipart(r) {
		if err := h.uploads.parse(w, r, maxQueryFiles); err != nil {
			respondError(w, h.logger, err)
			return
		}
		in = models.QueryInput{
			Name:             r.FormValue("name"),
			Email:            r.FormValue("email"),
			Phone:            r.FormValue("phone"),
			QueryType:        r.FormValue("query_type"),
			Urgency:          r.FormValue("urgency"),
			Description:      r.FormValue("description"),
			MarketingConsent: truthy(r.FormValue("marketing_consent")),
		}
		if n := len(r.MultipartForm.File["files"]); n > maxQueryFiles {
			respondError(w, h.logger, models.NewValidationFailed([]string{"at most 5 files may be attached"}))
			return
		}
		var err error
		if attachments, err = h.uploads.attachments(r, "files"); err != nil {
			respondError(w, h.logger, err)
			return
		}
	} else if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, h.logger, err)
		return
	}

	q, err := h.service.Submit(r.Context(), in, attachments)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.metrics.RecordQuerySubmitted()
	respondJSON(w, http.StatusCreated, q)
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
