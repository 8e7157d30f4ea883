package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RiskLevel is the user facing risk bucket
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "LOW"
	RiskLevelMedium RiskLevel = "MEDIUM"
	RiskLevelHigh   RiskLevel = "HIGH"
)

// AnalyzerKind identifies which rule set produced a result
type AnalyzerKind string

const (
	AnalyzerFraud AnalyzerKind = "fraud"
	AnalyzerLoan  AnalyzerKind = "loan"
)

// Category names a group of matches inside a rule set
type Category string

const (
	CategorySuspiciousPhrases  Category = "suspicious_phrases"
	CategoryRedFlags           Category = "red_flags"
	CategoryUrgencyTerms       Category = "urgency_terms"
	CategoryFinancialClaims    Category = "financial_claims"
	CategoryHighRiskIndicators Category = "high_risk_indicators"
	CategoryGrantTerms         Category = "grant_terms"
)

// DocumentType is the coarse category assigned by the document classifier
type DocumentType string

const (
	DocumentTypeRental     DocumentType = "rental"
	DocumentTypeEmployment DocumentType = "employment"
	DocumentTypeFinancial  DocumentType = "financial"
	DocumentTypeInsurance  DocumentType = "insurance"
	DocumentTypePurchase   DocumentType = "purchase"
	DocumentTypeService    DocumentType = "service"
	DocumentTypeGeneral    DocumentType = "general"
)

// AnalysisResult is produced fresh by every analyzer call and never mutated afterwards
type AnalysisResult struct {
	Analyzer AnalyzerKind `json:"analyzer"`

	MatchedSuspiciousPhrases []string `json:"matched_suspicious_phrases"`
	MatchedRedFlags          []string `json:"matched_red_flags"`
	MatchedUrgencyTerms      []string `json:"matched_urgency_terms"`
	MatchedFinancialClaims   []string `json:"matched_financial_claims"`
	MatchedRiskIndicators    []string `json:"matched_high_risk_indicators,omitempty"`
	MatchedGrantTerms        []string `json:"matched_grant_terms,omitempty"`

	RiskScore int       `json:"risk_score"`
	RiskLevel RiskLevel `json:"risk_level"`

	Violations      []string `json:"violations"`
	Warnings        []string `json:"warnings"`
	Recommendations []string `json:"recommendations"`
	Summary         string   `json:"summary"`

	// Loan analyzer only
	InterestRate   *float64     `json:"interest_rate,omitempty"`
	GrantImpact    *GrantImpact `json:"grant_impact,omitempty"`
	LenderVerified *bool        `json:"lender_verified,omitempty"`

	// Fraud checker only
	StructureScore    int      `json:"structure_score"`
	StructureElements []string `json:"structure_elements,omitempty"`

	DocumentType DocumentType `json:"document_type"`
	KeyFindings  KeyFindings  `json:"key_findings"`
	TextLength   int          `json:"text_length"`
	AnalyzedAt   time.Time    `json:"analyzed_at"`
}

// MatchesFor returns the matches recorded for a category
func (r *AnalysisResult) MatchesFor(c Category) []string {
	switch c {
	case CategorySuspiciousPhrases:
		return r.MatchedSuspiciousPhrases
	case CategoryRedFlags:
		return r.MatchedRedFlags
	case CategoryUrgencyTerms:
		return r.MatchedUrgencyTerms
	case CategoryFinancialClaims:
		return r.MatchedFinancialClaims
	case CategoryHighRiskIndicators:
		return r.MatchedRiskIndicators
	case CategoryGrantTerms:
		return r.MatchedGrantTerms
	}
	return nil
}

// SetMatches stores matches for a category
func (r *AnalysisResult) SetMatches(c Category, matches []string) {
	switch c {
	case CategorySuspiciousPhrases:
		r.MatchedSuspiciousPhrases = matches
	case CategoryRedFlags:
		r.MatchedRedFlags = matches
	case CategoryUrgencyTerms:
		r.MatchedUrgencyTerms = matches
	case CategoryFinancialClaims:
		r.MatchedFinancialClaims = matches
	case CategoryHighRiskIndicators:
		r.MatchedRiskIndicators = matches
	case CategoryGrantTerms:
		r.MatchedGrantTerms = matches
	}
}

// GrantImpact relates a proposed loan repayment to a social grant income
type GrantImpact struct {
	MonthlyDeduction  decimal.Decimal `json:"monthly_deduction"`
	PercentageOfGrant decimal.Decimal `json:"percentage_of_grant"`
	RemainingAmount   decimal.Decimal `json:"remaining_amount"`
}

// KeyFindings holds every regex hit for the informational categories
type KeyFindings struct {
	Dates        []string `json:"dates"`
	Emails       []string `json:"emails"`
	PhoneNumbers []string `json:"phone_numbers"`
	Amounts      []string `json:"amounts"`
	Percentages  []string `json:"percentages"`
}

// Empty reports whether no key findings were extracted
func (k KeyFindings) Empty() bool {
	return len(k.Dates) == 0 && len(k.Emails) == 0 && len(k.PhoneNumbers) == 0 &&
		len(k.Amounts) == 0 && len(k.Percentages) == 0
}

// LoanInputs are the caller supplied figures for a loan analysis
type LoanInputs struct {
	GrantAmount    decimal.Decimal `json:"grant_amount"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	LenderName     string          `json:"lender_name,omitempty"`
}
