package rules

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-literacy-portal/internal/domain/models"
	"legal-literacy-portal/pkg/logger"
)

func newFraudEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(FraudRuleSet(), logger.NewNop())
	require.NoError(t, err)
	return e
}

func newLoanEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(LoanRuleSet(nil), logger.NewNop())
	require.NoError(t, err)
	return e
}

func loanInputs(grant, payment string) models.LoanInputs {
	return models.LoanInputs{
		GrantAmount:    decimal.RequireFromString(grant),
		MonthlyPayment: decimal.RequireFromString(payment),
	}
}

func TestFraudEngine_ThreeSuspiciousPhrasesIsMedium(t *testing.T) {
	res := newFraudEngine(t).Analyze("guaranteed return, act now, wire transfer", models.LoanInputs{})

	assert.Equal(t, []string{"guaranteed return", "act now", "wire transfer"}, res.MatchedSuspiciousPhrases)
	assert.Empty(t, res.MatchedRedFlags)
	assert.Empty(t, res.MatchedUrgencyTerms)
	assert.Empty(t, res.MatchedFinancialClaims)
	assert.Equal(t, 45, res.RiskScore)
	assert.Equal(t, models.RiskLevelMedium, res.RiskLevel)
	assert.Len(t, res.Warnings, 3)
	assert.Empty(t, res.Violations)
}

func TestFraudEngine_Weights(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		score int
		level models.RiskLevel
	}{
		{"empty text", "", 0, models.RiskLevelLow},
		{"no findings", "This agreement is made between the parties named below.", 0, models.RiskLevelLow},
		{"one red flag", "You must waive your rights to a refund.", 25, models.RiskLevelLow},
		{"urgency match", "Reply immediately.", 10, models.RiskLevelLow},
		{"two urgency matches", "URGENT: reply immediately.", 20, models.RiskLevelLow},
		{"financial promise", "Earn 30% returns monthly.", 20, models.RiskLevelLow},
		{"red flag and suspicious", "Pay upfront by wire transfer, act now", 55, models.RiskLevelMedium},
		{"high", "Pay upfront, sign immediately, cash only", 85, models.RiskLevelHigh},
	}

	e := newFraudEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Analyze(tt.text, models.LoanInputs{})
			assert.Equal(t, tt.score, res.RiskScore)
			assert.Equal(t, tt.level, res.RiskLevel)
		})
	}
}

func TestFraudEngine_ScoreIsCapped(t *testing.T) {
	text := strings.Join(fraudRedFlags.Entries(), ". ") + ". " + strings.Join(fraudSuspiciousPhrases.Entries(), ". ")
	res := newFraudEngine(t).Analyze(text, models.LoanInputs{})

	assert.Equal(t, 100, res.RiskScore)
	assert.Equal(t, models.RiskLevelHigh, res.RiskLevel)
}

func TestFraudEngine_ScoreIsMonotonic(t *testing.T) {
	e := newFraudEngine(t)
	phrases := fraudRedFlags.Entries()

	prev := 0
	text := ""
	for _, p := range phrases {
		text += p + ". "
		score := e.Analyze(text, models.LoanInputs{}).RiskScore
		assert.GreaterOrEqual(t, score, prev)
		assert.LessOrEqual(t, score, 100)
		prev = score
	}
}

func TestFraudEngine_LexiconEntryMatchesOnce(t *testing.T) {
	res := newFraudEngine(t).Analyze("ACT NOW. act now. Act Now!", models.LoanInputs{})

	assert.Equal(t, []string{"act now"}, res.MatchedSuspiciousPhrases)
	assert.Equal(t, 15, res.RiskScore)
}

func TestFraudEngine_RegexCollectsDuplicates(t *testing.T) {
	res := newFraudEngine(t).Analyze("urgent urgent urgent", models.LoanInputs{})

	assert.Equal(t, []string{"urgent", "urgent", "urgent"}, res.MatchedUrgencyTerms)
	assert.Equal(t, 30, res.RiskScore)
}

func TestLoanEngine_WorkedExample(t *testing.T) {
	res := newLoanEngine(t).Analyze("24% interest, NCR registered", loanInputs("2080", "1200"))

	require.NotNil(t, res.GrantImpact)
	assert.Equal(t, "57.7", res.GrantImpact.PercentageOfGrant.StringFixed(1))
	assert.Equal(t, "880", res.GrantImpact.RemainingAmount.String())
	require.NotNil(t, res.InterestRate)
	assert.Equal(t, 24.0, *res.InterestRate)
	require.NotNil(t, res.LenderVerified)
	assert.True(t, *res.LenderVerified)

	assert.Equal(t, 30, res.RiskScore)
	assert.Equal(t, models.RiskLevelMedium, res.RiskLevel)
	assert.Len(t, res.Violations, 1)
	assert.Empty(t, res.Warnings)
}

func TestLoanEngine_InterestBands(t *testing.T) {
	tests := []struct {
		text       string
		score      int
		violations int
		warnings   int
	}{
		{"24% per annum, NCR registered", 0, 0, 0},
		{"24.5% per annum, NCR registered", 15, 0, 1},
		{"27.5% per annum, NCR registered", 15, 0, 1},
		{"28% per annum, NCR registered", 25, 1, 0},
		{"fee of 5% and interest of 60%, NCR registered", 25, 1, 0},
	}

	e := newLoanEngine(t)
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			res := e.Analyze(tt.text, models.LoanInputs{})
			assert.Equal(t, tt.score, res.RiskScore)
			assert.Len(t, res.Violations, tt.violations)
			assert.Len(t, res.Warnings, tt.warnings)
		})
	}
}

func TestLoanEngine_GrantImpactBands(t *testing.T) {
	tests := []struct {
		name    string
		payment string
		score   int
	}{
		{"under 30 percent", "500", 0},
		{"exactly 30 percent", "624", 0},
		{"between 30 and 50", "800", 20},
		{"exactly 50 percent", "1040", 20},
		{"over half", "1100", 30},
	}

	e := newLoanEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Analyze("ncr registered credit provider", loanInputs("2080", tt.payment))
			assert.Equal(t, tt.score, res.RiskScore)
		})
	}
}

func TestLoanEngine_GrantImpactAbsentWithoutBothAmounts(t *testing.T) {
	e := newLoanEngine(t)

	for _, in := range []models.LoanInputs{
		loanInputs("0", "1200"),
		loanInputs("2080", "0"),
		{},
	} {
		res := e.Analyze("ncr", in)
		assert.Nil(t, res.GrantImpact)
	}
}

func TestLoanEngine_UnverifiedLender(t *testing.T) {
	e := newLoanEngine(t)

	res := e.Analyze("Interest 10% per month", models.LoanInputs{})
	require.NotNil(t, res.LenderVerified)
	assert.False(t, *res.LenderVerified)
	assert.Equal(t, 20, res.RiskScore)

	res = e.Analyze("Interest 10% per month", models.LoanInputs{LenderName: "Capitec Bank"})
	require.NotNil(t, res.LenderVerified)
	assert.True(t, *res.LenderVerified)
	assert.Equal(t, 0, res.RiskScore)

	res = e.Analyze("A letter with no loan in it", models.LoanInputs{})
	assert.Nil(t, res.LenderVerified)
	assert.Equal(t, 0, res.RiskScore)
}

func TestLoanEngine_GrantTermsScoreOnce(t *testing.T) {
	res := newLoanEngine(t).Analyze("For SASSA grant and pension recipients", models.LoanInputs{})

	assert.Equal(t, []string{"sassa", "grant", "pension"}, res.MatchedGrantTerms)
	assert.Equal(t, 15, res.RiskScore)
	assert.Len(t, res.Warnings, 1)
}

func TestLoanEngine_SubstringMatchingIsKept(t *testing.T) {
	res := newLoanEngine(t).Analyze("Offer for every pensioner", models.LoanInputs{})

	assert.Equal(t, []string{"pension"}, res.MatchedGrantTerms)
}

func TestLoanEngine_HighRisk(t *testing.T) {
	text := "SASSA loans! No credit check, instant approval. Keep your SASSA card with us and give us your PIN. Interest 40% per month."
	res := newLoanEngine(t).Analyze(text, loanInputs("2080", "1500"))

	assert.Equal(t, 100, res.RiskScore)
	assert.Equal(t, models.RiskLevelHigh, res.RiskLevel)
	assert.Contains(t, res.Recommendations[0], "HIGH RISK")
}

func TestThresholdsDifferPerAnalyzer(t *testing.T) {
	assert.Equal(t, Thresholds{High: 70, Medium: 40}, FraudRuleSet().Thresholds)
	assert.Equal(t, Thresholds{High: 60, Medium: 30}, LoanRuleSet(nil).Thresholds)

	assert.Equal(t, models.RiskLevelLow, FraudRuleSet().Thresholds.Level(39))
	assert.Equal(t, models.RiskLevelMedium, LoanRuleSet(nil).Thresholds.Level(39))
	assert.Equal(t, models.RiskLevelMedium, FraudRuleSet().Thresholds.Level(69))
	assert.Equal(t, models.RiskLevelHigh, LoanRuleSet(nil).Thresholds.Level(60))
}

func TestNewEngine_RejectsInvalidRuleSet(t *testing.T) {
	set := FraudRuleSet()
	set.Thresholds = Thresholds{High: 30, Medium: 40}
	_, err := NewEngine(set, logger.NewNop())
	assert.Error(t, err)

	set = FraudRuleSet()
	set.Templates = map[models.RiskLevel][]string{models.RiskLevelLow: {"ok"}}
	_, err = NewEngine(set, logger.NewNop())
	assert.Error(t, err)
}

func TestLoanRuleSet_AlternativesOnlyInHighTemplate(t *testing.T) {
	set := LoanRuleSet([]string{"SASSA office: 0800 60 10 11"})

	assert.Contains(t, set.Templates[models.RiskLevelHigh], "- SASSA office: 0800 60 10 11")
	assert.NotContains(t, set.Templates[models.RiskLevelMedium], "- SASSA office: 0800 60 10 11")
	assert.NotContains(t, loanTemplates[models.RiskLevelHigh], "Safer alternatives:")
}
