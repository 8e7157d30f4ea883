package services

import (
	"fmt"

	"legal-literacy-portal/internal/domain/models"
	"legal-literacy-portal/internal/domain/services/rules"
	"legal-literacy-portal/pkg/logger"
)

// FraudChecker scores documents for signs of fraud and reports their formal structure
type FraudChecker struct {
	engine *rules.Engine
	logger *logger.Logger
}

// NewFraudChecker creates a fraud checker with the default lexicons and any overrides applied
func NewFraudChecker(overrides rules.Overrides, log *logger.Logger) (*FraudChecker, error) {
	engine, err := rules.NewEngine(overrides.Apply(rules.FraudRuleSet()), log)
	if err != nil {
		return nil, fmt.Errorf("failed to build fraud rules: %w", err)
	}
	return &FraudChecker{
		engine: engine,
		logger: log.WithComponent("fraud-checker"),
	}, nil
}

// Analyze scores text. Structure points are reported separately and never change the risk score.
func (c *FraudChecker) Analyze(text string) models.AnalysisResult {
	res := c.engine.Analyze(text, models.LoanInputs{})

	structure := rules.VerifyStructure(text)
	res.StructureScore = structure.Score
	res.StructureElements = structure.Elements
	res.DocumentType = rules.ClassifyDocument(text)
	res.KeyFindings = rules.ExtractKeyFindings(text)

	c.logger.Info().
		Int("risk_score", res.RiskScore).
		Str("risk_level", string(res.RiskLevel)).
		Int("structure_score", res.StructureScore).
		Str("document_type", string(res.DocumentType)).
		Msg("fraud check complete")

	return res
}
