package rules

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"legal-literacy-portal/internal/domain/models"
	"legal-literacy-portal/pkg/logger"
)

var hundred = decimal.NewFromInt(100)

// Engine evaluates text against one rule set. It holds no per-call state and is safe for concurrent use.
type Engine struct {
	set    RuleSet
	now    func() time.Time
	logger *logger.Logger
}

// NewEngine validates the rule set and builds an engine for it
func NewEngine(set RuleSet, log *logger.Logger) (*Engine, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		set:    set,
		now:    time.Now,
		logger: log.WithComponent("rules-" + string(set.Kind)),
	}, nil
}

// RuleSet returns the configuration backing the engine
func (e *Engine) RuleSet() RuleSet {
	return e.set
}

// Analyze scores text. Loan inputs are ignored by rule sets without measure rules.
func (e *Engine) Analyze(text string, in models.LoanInputs) models.AnalysisResult {
	res := models.AnalysisResult{
		Analyzer:                 e.set.Kind,
		MatchedSuspiciousPhrases: []string{},
		MatchedRedFlags:          []string{},
		MatchedUrgencyTerms:      []string{},
		MatchedFinancialClaims:   []string{},
		Violations:               []string{},
		Warnings:                 []string{},
		TextLength:               len(text),
		AnalyzedAt:               e.now().UTC(),
	}

	var score int
	record := func(kind FindingKind, msg string) {
		switch kind {
		case FindingViolation:
			res.Violations = append(res.Violations, msg)
		case FindingWarning:
			res.Warnings = append(res.Warnings, msg)
		}
	}

	lower := strings.ToLower(text)
	for _, c := range e.set.Lexicons {
		matches := c.Lexicon.matchLower(lower)
		res.SetMatches(c.Category, matches)
		if len(matches) == 0 {
			continue
		}
		if c.Once {
			score += c.Weight
			record(c.Finding, fmt.Sprintf("%s: %s", c.Label, strings.Join(matches, ", ")))
			continue
		}
		score += c.Weight * len(matches)
		for _, m := range matches {
			record(c.Finding, fmt.Sprintf("%s: %s", c.Label, m))
		}
	}

	for _, c := range e.set.Patterns {
		matches := MatchPatterns(text, c.Patterns)
		res.SetMatches(c.Category, matches)
		score += c.Weight * len(matches)
		for _, m := range matches {
			record(c.Finding, fmt.Sprintf("%s: %s", c.Label, m))
		}
	}

	var rateFound bool
	if e.set.InterestRate != nil {
		if rate, ok := ExtractInterestRate(text); ok {
			rateFound = true
			res.InterestRate = &rate
			if band, hit := e.set.InterestRate.apply(rate); hit {
				score += band.Points
				record(band.Finding, fmt.Sprintf(band.Message, strconv.FormatFloat(rate, 'f', -1, 64)))
			}
		}
	}

	if e.set.GrantImpact != nil {
		if impact := ComputeGrantImpact(in.GrantAmount, in.MonthlyPayment); impact != nil {
			res.GrantImpact = impact
			pct := in.MonthlyPayment.Div(in.GrantAmount).Mul(hundred).InexactFloat64()
			if band, hit := e.set.GrantImpact.apply(pct); hit {
				score += band.Points
				record(band.Finding, fmt.Sprintf(band.Message, impact.PercentageOfGrant.StringFixed(1)))
			}
		}
	}

	if e.set.Lender != nil {
		loanEvident := rateFound || in.MonthlyPayment.IsPositive() || strings.TrimSpace(in.LenderName) != ""
		if loanEvident {
			verified := e.set.Lender.Registered.Contains(text) ||
				e.set.Lender.Registered.Contains(in.LenderName) ||
				e.set.Lender.Markers.Contains(text)
			res.LenderVerified = &verified
			if !verified {
				score += e.set.Lender.Points
				record(FindingWarning, e.set.Lender.Message)
			}
		}
	}

	if score > e.set.MaxScore {
		score = e.set.MaxScore
	}
	res.RiskScore = score
	res.RiskLevel = e.set.Thresholds.Level(score)
	res.Recommendations = Recommend(e.set.Templates, res.RiskLevel, res.Violations, res.Warnings, res.GrantImpact)
	res.Summary = strings.Join(res.Recommendations, "\n")

	e.logger.Debug().
		Int("text_length", res.TextLength).
		Int("risk_score", res.RiskScore).
		Str("risk_level", string(res.RiskLevel)).
		Int("violations", len(res.Violations)).
		Int("warnings", len(res.Warnings)).
		Msg("text analyzed")

	return res
}

// ComputeGrantImpact relates a monthly repayment to a grant. It returns nil unless both amounts are positive.
func ComputeGrantImpact(grant, payment decimal.Decimal) *models.GrantImpact {
	if !grant.IsPositive() || !payment.IsPositive() {
		return nil
	}
	return &models.GrantImpact{
		MonthlyDeduction:  payment,
		PercentageOfGrant: payment.Div(grant).Mul(hundred).Round(1),
		RemainingAmount:   grant.Sub(payment),
	}
}
