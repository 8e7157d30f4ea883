package services

import (
	"fmt"

	"legal-literacy-portal/internal/domain/models"
	"legal-literacy-portal/internal/domain/services/rules"
	"legal-literacy-portal/pkg/logger"
)

// LenderDirectory is the registry the loan analyzer verifies lenders against
type LenderDirectory interface {
	Names() []string
	AlternativeLines() []string
	Lookup(name string) *models.Lender
	Find(text string) *models.Lender
}

// LoanAnalyzer scores loan offers aimed at social grant recipients
type LoanAnalyzer struct {
	engine    *rules.Engine
	directory LenderDirectory
	logger    *logger.Logger
}

// NewLoanAnalyzer builds the loan rules from the lender directory, then applies overrides.
// A nil directory falls back to the built-in lender names and lists no alternatives.
func NewLoanAnalyzer(directory LenderDirectory, overrides rules.Overrides, log *logger.Logger) (*LoanAnalyzer, error) {
	var alternatives []string
	if directory != nil {
		alternatives = directory.AlternativeLines()
	}
	set := rules.LoanRuleSet(alternatives)
	if directory != nil {
		if names := directory.Names(); len(names) > 0 {
			set = set.WithRegisteredLenders(rules.NewLexicon(names...))
		}
	}

	engine, err := rules.NewEngine(overrides.Apply(set), log)
	if err != nil {
		return nil, fmt.Errorf("failed to build loan rules: %w", err)
	}
	return &LoanAnalyzer{
		engine:    engine,
		directory: directory,
		logger:    log.WithComponent("loan-analyzer"),
	}, nil
}

// Analyze scores a loan document against the caller's grant and repayment figures
func (a *LoanAnalyzer) Analyze(text string, in models.LoanInputs) models.AnalysisResult {
	res := a.engine.Analyze(text, in)
	res.DocumentType = rules.ClassifyDocument(text)
	res.KeyFindings = rules.ExtractKeyFindings(text)

	a.logger.Info().
		Int("risk_score", res.RiskScore).
		Str("risk_level", string(res.RiskLevel)).
		Bool("grant_impact", res.GrantImpact != nil).
		Msg("loan analysis complete")

	return res
}

// IdentifyLender returns the registered lender named by the caller or mentioned in the text
func (a *LoanAnalyzer) IdentifyLender(text, name string) *models.Lender {
	if a.directory == nil {
		return nil
	}
	if name != "" {
		if l := a.directory.Lookup(name); l != nil {
			return l
		}
	}
	return a.directory.Find(text)
}
