package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"legal-literacy-portal/internal/domain/models"
	"legal-literacy-portal/internal/domain/services"
	"legal-literacy-portal/internal/domain/services/report"
	"legal-literacy-portal/internal/infrastructure/lenders"
	"legal-literacy-portal/internal/metrics"
	"legal-literacy-portal/pkg/logger"
)

// LoansHandler handles SASSA loan analysis endpoints
type LoansHandler struct {
	analyzer *services.LoanAnalyzer
	registry *lenders.Registry
	uploads  *uploadReader
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

// NewLoansHandler creates a new loans handler
func NewLoansHandler(analyzer *services.LoanAnalyzer, registry *lenders.Registry, uploads *uploadReader, m *metrics.Metrics, log *logger.Logger) *LoansHandler {
	return &LoansHandler{
		analyzer: analyzer,
		registry: registry,
		uploads:  uploads,
		metrics:  m,
		logger:   log.WithComponent("loans-handler"),
	}
}

// LoanRequest is the body of a loan analysis
type LoanRequest struct {
	Text           string          `json:"text"`
	GrantAmount    decimal.Decimal `json:"grant_amount"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	LenderName     string          `json:"lender_name,omitempty"`
}

// LoanResponse is the analysis plus the registered lender it was matched to, if any
type LoanResponse struct {
	models.AnalysisResult
	Lender *models.Lender `json:"lender,omitempty"`
}

// Analyze handles POST /api/v1/loans/analyze
func (h *LoansHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	req, err := h.decode(w, r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, h.analyze(req))
}

// AnalyzeUpload handles POST /api/v1/loans/analyze/upload
func (h *LoansHandler) AnalyzeUpload(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeMultipart(w, r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, h.analyze(req))
}

// Report handles POST /api/v1/loans/report with json or multipart input
func (h *LoansHandler) Report(w http.ResponseWriter, r *http.Request) {
	var (
		req LoanRequest
		err error
	)
	if isMultipart(r) {
		req, err = h.decodeMultipart(w, r)
	} else {
		req, err = h.decode(w, r)
	}
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	res := h.analyze(req)
	generated := time.Now()
	respondAttachment(w, "text/plain; charset=utf-8",
		report.Filename(models.AnalyzerLoan, generated),
		[]byte(report.Render(res.AnalysisResult, generated)))
}

// Lenders handles GET /api/v1/loans/lenders
func (h *LoansHandler) Lenders(w http.ResponseWriter, r *http.Request) {
	all := h.registry.All()
	respondJSON(w, http.StatusOK, map[string]any{
		"lenders": all,
		"count":   len(all),
	})
}

// Alternatives handles GET /api/v1/loans/alternatives
func (h *LoansHandler) Alternatives(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"alternatives": h.registry.Alternatives(),
	})
}

func (h *LoansHandler) decode(w http.ResponseWriter, r *http.Request) (LoanRequest, error) {
	var req LoanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return req, err
	}
	return req, checkAmounts(req)
}

func (h *LoansHandler) decodeMultipart(w http.ResponseWriter, r *http.Request) (LoanRequest, error) {
	var req LoanRequest
	if err := h.uploads.parse(w, r, 1); err != nil {
		return req, err
	}

	var problems []string
	var err error
	if req.GrantAmount, err = formDecimal(r, "grant_amount"); err != nil {
		problems = append(problems, err.Error())
	}
	if req.MonthlyPayment, err = formDecimal(r, "monthly_payment"); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return req, models.NewValidationFailed(problems)
	}
	req.LenderName = strings.TrimSpace(r.FormValue("lender_name"))

	text, filename, err := h.uploads.text(r.Context(), r)
	if err != nil {
		h.logger.Info().Str("filename", filename).Str("kind", string(models.KindOf(err))).Msg("upload rejected")
		return req, err
	}
	req.Text = text
	return req, checkAmounts(req)
}

func (h *LoansHandler) analyze(req LoanRequest) LoanResponse {
	res := h.analyzer.Analyze(req.Text, models.LoanInputs{
		GrantAmount:    req.GrantAmount,
		MonthlyPayment: req.MonthlyPayment,
		LenderName:     req.LenderName,
	})
	h.metrics.RecordAnalysis(string(models.AnalyzerLoan), string(res.RiskLevel))
	return LoanResponse{
		AnalysisResult: res,
		Lender:         h.analyzer.IdentifyLender(req.Text, req.LenderName),
	}
}

func formDecimal(r *http.Request, field string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be a number", field)
	}
	return d, nil
}

func checkAmounts(req LoanRequest) error {
	var problems []string
	if req.GrantAmount.IsNegative() {
		problems = append(problems, "grant_amount cannot be negative")
	}
	if req.MonthlyPayment.IsNegative() {
		problems = append(problems, "monthly_payment cannot be negative")
	}
	if len(problems) > 0 {
		return models.NewValidationFailed(problems)
	}
	return nil
}
