package handlers

import (
	"net/http"
	"time"

	"legal-literacy-portal/internal/domain/models"
	"legal-literacy-portal/internal/domain/services"
	"legal-literacy-portal/internal/domain/services/report"
	"legal-literacy-portal/internal/metrics"
	"legal-literacy-portal/pkg/logger"
)

// FraudHandler handles document fraud check endpoints
type FraudHandler struct {
	checker *services.FraudChecker
	uploads *uploadReader
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewFraudHandler creates a new fraud handler
func NewFraudHandler(checker *services.FraudChecker, uploads *uploadReader, m *metrics.Metrics, log *logger.Logger) *FraudHandler {
	return &FraudHandler{
		checker: checker,
		uploads: uploads,
		metrics: m,
		logger:  log.WithComponent("fraud-handler"),
	}
}

// TextRequest is the body of a pasted-text analysis
type TextRequest struct {
	Text string `json:"text"`
}

// Analyze handles POST /api/v1/fraud/analyze
func (h *FraudHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, h.analyze(req.Text))
}

// AnalyzeUpload handles POST /api/v1/fraud/analyze/upload
func (h *FraudHandler) AnalyzeUpload(w http.ResponseWriter, r *http.Request) {
	text, err := h.textFromUpload(w, r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, h.analyze(text))
}

// Report handles POST /api/v1/fraud/report. It accepts the same json or multipart input as the analyze routes.
func (h *FraudHandler) Report(w http.ResponseWriter, r *http.Request) {
	var text string
	if isMultipart(r) {
		t, err := h.textFromUpload(w, r)
		if err != nil {
			respondError(w, h.logger, err)
			return
		}
		text = t
	} else {
		var req TextRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, h.logger, err)
			return
		}
		text = req.Text
	}

	res := h.analyze(text)
	generated := time.Now()
	respondAttachment(w, "text/plain; charset=utf-8",
		report.Filename(models.AnalyzerFraud, generated),
		[]byte(report.Render(res, generated)))
}

func (h *FraudHandler) textFromUpload(w http.ResponseWriter, r *http.Request) (string, error) {
	if err := h.uploads.parse(w, r, 1); err != nil {
		return "", err
	}
	text, filename, err := h.uploads.text(r.Context(), r)
	if err != nil {
		h.logger.Info().Str("filename", filename).Str("kind", string(models.KindOf(err))).Msg("upload rejected")
		return "", err
	}
	return text, nil
}

func (h *FraudHandler) analyze(text string) models.AnalysisResult {
	res := h.checker.Analyze(text)
	h.metrics.RecordAnalysis(string(models.AnalyzerFraud), string(res.RiskLevel))
	return res
}
