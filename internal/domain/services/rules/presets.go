package rules

import (
	"regexp"

	"legal-literacy-portal/internal/domain/models"
)

var (
	urgencyPattern = regexp.MustCompile(`(?i)\b(?:urgent(?:ly)?|immediately|right away|within\s+\d+\s+(?:hours?|days?)|expires?\s+(?:today|tonight|soon)|last\s+chance|final\s+(?:notice|warning)|limited\s+time|don'?t\s+delay)\b`)

	financialPromisePattern = regexp.MustCompile(`(?i)\b(?:\d+(?:\.\d+)?\s?%\s*(?:guaranteed\s+)?(?:returns?|profits?|roi|gains?)|(?:double|triple)\s+your\s+(?:money|investment|income)|earn\s+(?:r|\$)\s?\d[\d,]*(?:\.\d{2})?\s*(?:per|a|every)\s+(?:day|week|month)|get\s+rich\s+quick|risk[- ]free\s+investment)\b`)
)

// Fraud checker lexicons
var (
	fraudSuspiciousPhrases = NewLexicon(
		"guaranteed return", "act now", "wire transfer", "send money", "processing fee",
		"advance fee", "gift card", "western union", "moneygram", "bitcoin",
		"you have won", "claim your prize", "lottery winner", "inheritance fund",
		"confidential transaction", "verify your account", "bank details", "click here",
		"no questions asked", "once in a lifetime", "offshore account",
	)

	fraudRedFlags = NewLexicon(
		"waive your rights", "waive all rights", "non-refundable deposit", "pay upfront",
		"upfront payment", "no cancellation", "cannot be cancelled", "sign immediately",
		"sign before reading", "do not tell anyone", "keep this confidential", "cash only",
		"no receipt", "sign the blank", "surrender your id",
	)
)

// Loan analyzer lexicons
var (
	loanRedFlags = NewLexicon(
		"keep your sassa card", "hand over your sassa card", "sassa card as security",
		"give us your pin", "share your pin", "id book as security", "id document as security",
		"sign a blank", "blank debit order", "no contract", "cash only",
		"deducted from your grant", "collect your grant", "not registered with the ncr",
	)

	loanHighRiskIndicators = NewLexicon(
		"no credit check", "instant approval", "guaranteed approval", "same day cash",
		"blacklisted welcome", "blacklisted clients welcome", "no payslip",
		"no documents required", "loan shark", "mashonisa", "upfront fee",
		"processing fee", "insurance fee", "weekly repayment", "daily interest",
	)

	loanGrantTerms = NewLexicon("sassa", "grant", "pension")

	ncrMarkers = NewLexicon("ncr", "national credit regulator")
)

// DefaultRegisteredLenders is used when no lender registry is supplied
var DefaultRegisteredLenders = NewLexicon(
	"african bank", "capitec", "absa", "standard bank", "fnb", "first national bank",
	"nedbank", "old mutual", "directaxis", "finchoice", "sanlam",
)

var fraudTemplates = map[models.RiskLevel][]string{
	models.RiskLevelHigh: {
		"HIGH RISK: This document shows strong signs of fraud.",
		"Do not sign, pay or share personal information.",
		"Report it to the SAPS or the Southern African Fraud Prevention Service.",
		"Ask a legal aid office to review it before taking any action.",
	},
	models.RiskLevelMedium: {
		"MEDIUM RISK: Several warning signs were found.",
		"Verify the sender and every claim independently before continuing.",
		"Have someone you trust or a legal adviser read it with you.",
	},
	models.RiskLevelLow: {
		"LOW RISK: No major warning signs were found.",
		"Still read every clause carefully and keep a copy for your records.",
	},
}

var loanTemplates = map[models.RiskLevel][]string{
	models.RiskLevelHigh: {
		"HIGH RISK: This loan could seriously harm your grant income.",
		"Do not hand over your SASSA card, ID document or PIN to any lender.",
		"Report the lender to the National Credit Regulator on 0860 627 627.",
	},
	models.RiskLevelMedium: {
		"MEDIUM RISK: Parts of this loan offer need checking.",
		"Confirm the lender's NCR registration number at www.ncr.org.za.",
		"Make sure repayments leave enough for food, rent and transport.",
	},
	models.RiskLevelLow: {
		"LOW RISK: The offer looks within normal limits.",
		"Keep copies of the agreement and every payment receipt.",
	},
}

// FraudRuleSet is the fraud checker configuration: 15/25/10/20 weights, MEDIUM at 40, HIGH at 70
func FraudRuleSet() RuleSet {
	return RuleSet{
		Kind: models.AnalyzerFraud,
		Lexicons: []LexiconCategory{
			{Category: models.CategorySuspiciousPhrases, Lexicon: fraudSuspiciousPhrases, Weight: 15, Finding: FindingWarning, Label: "Suspicious phrase"},
			{Category: models.CategoryRedFlags, Lexicon: fraudRedFlags, Weight: 25, Finding: FindingViolation, Label: "Legal red flag"},
		},
		Patterns: []PatternCategory{
			{Category: models.CategoryUrgencyTerms, Patterns: []*regexp.Regexp{urgencyPattern}, Weight: 10, Finding: FindingWarning, Label: "Pressure tactic"},
			{Category: models.CategoryFinancialClaims, Patterns: []*regexp.Regexp{financialPromisePattern}, Weight: 20, Finding: FindingWarning, Label: "Financial promise"},
		},
		Thresholds: Thresholds{High: 70, Medium: 40},
		Templates:  fraudTemplates,
		MaxScore:   100,
	}
}

// LoanRuleSet is the SASSA loan analyzer configuration: MEDIUM at 30, HIGH at 60.
// The alternatives are appended to the HIGH template.
func LoanRuleSet(alternatives []string) RuleSet {
	templates := make(map[models.RiskLevel][]string, len(loanTemplates))
	for level, lines := range loanTemplates {
		templates[level] = append([]string(nil), lines...)
	}
	if len(alternatives) > 0 {
		templates[models.RiskLevelHigh] = append(templates[models.RiskLevelHigh], "Safer alternatives:")
		for _, a := range alternatives {
			templates[models.RiskLevelHigh] = append(templates[models.RiskLevelHigh], "- "+a)
		}
	}

	return RuleSet{
		Kind: models.AnalyzerLoan,
		Lexicons: []LexiconCategory{
			{Category: models.CategoryRedFlags, Lexicon: loanRedFlags, Weight: 15, Finding: FindingViolation, Label: "Predatory lending red flag"},
			{Category: models.CategoryHighRiskIndicators, Lexicon: loanHighRiskIndicators, Weight: 10, Finding: FindingWarning, Label: "High-risk indicator"},
			{Category: models.CategoryGrantTerms, Lexicon: loanGrantTerms, Weight: 15, Once: true, Finding: FindingWarning, Label: "Offer targets social grant income"},
		},
		InterestRate: &MeasureRule{Bands: []Band{
			{Above: 27.5, Points: 25, Finding: FindingViolation, Message: "Interest rate of %s%% exceeds the 27.5%% legal maximum"},
			{Above: 24, Points: 15, Finding: FindingWarning, Message: "Interest rate of %s%% is close to the legal maximum"},
		}},
		GrantImpact: &MeasureRule{Bands: []Band{
			{Above: 50, Points: 30, Finding: FindingViolation, Message: "Repayment takes %s%% of the grant, more than half of it"},
			{Above: 30, Points: 20, Finding: FindingWarning, Message: "Repayment takes %s%% of the grant"},
		}},
		Lender: &LenderRule{
			Registered: DefaultRegisteredLenders,
			Markers:    ncrMarkers,
			Points:     20,
			Message:    "Lender could not be matched to an NCR registration",
		},
		Thresholds: Thresholds{High: 60, Medium: 30},
		Templates:  templates,
		MaxScore:   100,
	}
}
