package handlers

import (
	"net/http"
	"strings"

	"legal-literacy-portal/internal/domain/models"
	"legal-literacy-portal/internal/domain/services"
	"legal-literacy-portal/pkg/logger"
)

// DocumentsHandler handles document summarization endpoints
type DocumentsHandler struct {
	summarizer *services.Summarizer
	uploads    *uploadReader
	logger     *logger.Logger
}

// NewDocumentsHandler creates a new documents handler
func NewDocumentsHandler(s *services.Summarizer, uploads *uploadReader, log *logger.Logger) *DocumentsHandler {
	return &DocumentsHandler{
		summarizer: s,
		uploads:    uploads,
		logger:     log.WithComponent("documents-handler"),
	}
}

// Summarize handles POST /api/v1/documents/summarize
func (h *DocumentsHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(w, h.logger, models.NewValidationFailed([]string{"text is required"}))
		return
	}
	respondJSON(w, http.StatusOK, h.summarizer.Summarize(r.Context(), req.Text))
}

// SummarizeUpload handles POST /api/v1/documents/summarize/upload
func (h *DocumentsHandler) SummarizeUpload(w http.ResponseWriter, r *http.Request) {
	if err := h.uploads.parse(w, r, 1); err != nil {
		respondError(w, h.logger, err)
		return
	}
	text, filename, err := h.uploads.text(r.Context(), r)
	if err != nil {
		h.logger.Info().Str("filename", filename).Str("kind", string(models.KindOf(err))).Msg("upload rejected")
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, h.summarizer.Summarize(r.Context(), text))
}
