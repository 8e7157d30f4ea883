package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"legal-literacy-portal/internal/domain/models"
	"legal-literacy-portal/internal/domain/services"
	"legal-literacy-portal/internal/domain/services/will"
	"legal-literacy-portal/internal/metrics"
	"legal-literacy-portal/pkg/logger"
)

// SessionHeader carries the will wizard session id in both directions
const SessionHeader = "X-Session-ID"

// WillHandler handles will generation and the will wizard
type WillHandler struct {
	wizard  *services.WizardService
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewWillHandler creates a new will handler
func NewWillHandler(wizard *services.WizardService, m *metrics.Metrics, log *logger.Logger) *WillHandler {
	return &WillHandler{
		wizard:  wizard,
		metrics: m,
		logger:  log.WithComponent("will-handler"),
	}
}

// Generate handles POST /api/v1/will/generate. The will is rendered and never stored.
func (h *WillHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var doc models.WillDocument
	if err := decodeJSON(w, r, &doc); err != nil {
		respondError(w, h.logger, err)
		return
	}
	if missing := will.Validate(doc); len(missing) > 0 {
		respondError(w, h.logger, models.NewValidationFailed(missing))
		return
	}
	h.render(w, r, doc)
}

// Wizard handles GET /api/v1/will/wizard
func (h *WillHandler) Wizard(w http.ResponseWriter, r *http.Request) {
	state, err := h.wizard.Current(r.Context(), h.sessionID(r))
	h.respondState(w, state, err)
}

// Step handles POST /api/v1/will/wizard/step
func (h *WillHandler) Step(w http.ResponseWriter, r *http.Request) {
	var in models.WizardStepInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, h.logger, err)
		return
	}
	sessionID := h.sessionID(r)
	w.Header().Set(SessionHeader, sessionID)
	state, err := h.wizard.Submit(r.Context(), sessionID, in)
	h.respondState(w, state, err)
}

// Back handles POST /api/v1/will/wizard/back
func (h *WillHandler) Back(w http.ResponseWriter, r *http.Request) {
	state, err := h.wizard.Back(r.Context(), h.sessionID(r))
	h.respondState(w, state, err)
}

// Reset handles POST /api/v1/will/wizard/reset
func (h *WillHandler) Reset(w http.ResponseWriter, r *http.Request) {
	state, err := h.wizard.Reset(r.Context(), h.sessionID(r))
	h.respondState(w, state, err)
}

// WizardGenerate handles POST /api/v1/will/wizard/generate
func (h *WillHandler) WizardGenerate(w http.ResponseWriter, r *http.Request) {
	sessionID := h.sessionID(r)
	w.Header().Set(SessionHeader, sessionID)
	doc, err := h.wizard.Complete(r.Context(), sessionID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	h.render(w, r, doc)
}

func (h *WillHandler) render(w http.ResponseWriter, r *http.Request, doc models.WillDocument) {
	sections := will.Layout(doc)

	if strings.EqualFold(r.URL.Query().Get("format"), "text") {
		h.metrics.RecordWillGenerated("text")
		respondAttachment(w, "text/plain; charset=utf-8", "last_will_and_testament.txt", []byte(will.RenderText(sections)))
		return
	}

	var buf bytes.Buffer
	if err := will.RenderPDF(&buf, sections); err != nil {
		h.logger.Error().Err(err).Msg("failed to render will PDF")
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "The will could not be rendered"})
		return
	}
	h.metrics.RecordWillGenerated("pdf")
	h.logger.Info().Int("beneficiaries", len(doc.Beneficiaries)).Int("bytes", buf.Len()).Msg("will generated")
	respondAttachment(w, "application/pdf", "last_will_and_testament.pdf", buf.Bytes())
}

func (h *WillHandler) respondState(w http.ResponseWriter, state *models.WizardState, err error) {
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.Header().Set(SessionHeader, state.SessionID)
	respondJSON(w, http.StatusOK, state)
}

// sessionID returns the caller's session or a new one
func (h *WillHandler) sessionID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(SessionHeader)); id != "" {
		return id
	}
	return uuid.NewString()
}
