package handlers

import (
	"legal-literacy-portal/internal/domain/services"
	"legal-literacy-portal/internal/infrastructure/extract"
	"legal-literacy-portal/internal/infrastructure/lenders"
	"legal-literacy-portal/internal/metrics"
	"legal-literacy-portal/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health    *HealthHandler
	Fraud     *FraudHandler
	Loans     *LoansHandler
	Documents *DocumentsHandler
	Will      *WillHandler
	Queries   *QueriesHandler
	Rights    *RightsHandler
	Admin     *AdminHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	FraudChecker *services.FraudChecker
	LoanAnalyzer *services.LoanAnalyzer
	Lenders      *lenders.Registry
	Summarizer   *services.Summarizer
	Extractor    *extract.Extractor
	Wizard       *services.WizardService
	Queries      *services.QueryService
	Rights       *services.RightsCatalog
	Metrics      *metrics.Metrics
	Checks       map[string]Pinger
	Version      string
	Logger       *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	uploads := newUploadReader(deps.Extractor, deps.Metrics)
	return &Handlers{
		Health:    NewHealthHandler(deps.Checks, deps.Version, deps.Logger),
		Fraud:     NewFraudHandler(deps.FraudChecker, uploads, deps.Metrics, deps.Logger),
		Loans:     NewLoansHandler(deps.LoanAnalyzer, deps.Lenders, uploads, deps.Metrics, deps.Logger),
		Documents: NewDocumentsHandler(deps.Summarizer, uploads, deps.Logger),
		Will:      NewWillHandler(deps.Wizard, deps.Metrics, deps.Logger),
		Queries:   NewQueriesHandler(deps.Queries, uploads, deps.Metrics, deps.Logger),
		Rights:    NewRightsHandler(deps.Rights, deps.Logger),
		Admin:     NewAdminHandler(deps.Queries, deps.Logger),
	}
}
