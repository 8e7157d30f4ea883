package report

import (
	"fmt"
	"strings"
	"time"

	"legal-literacy-portal/internal/domain/models"
)

const rule = "============================================================"

const disclaimer = `DISCLAIMER
This report was produced by automated keyword checks. It is not legal advice
and may miss problems or flag harmless wording. Before you sign or pay anything,
ask Legal Aid South Africa (0800 110 110) or an attorney to review the document.`

var titles = map[models.AnalyzerKind]string{
	models.AnalyzerFraud: "LEGAL DOCUMENT FRAUD ANALYSIS REPORT",
	models.AnalyzerLoan:  "SASSA LOAN ANALYSIS REPORT",
}

// Render writes the plain text report for an analysis result
func Render(res models.AnalysisResult, generatedAt time.Time) string {
	var sb strings.Builder

	title, ok := titles[res.Analyzer]
	if !ok {
		title = "DOCUMENT ANALYSIS REPORT"
	}
	sb.WriteString(rule + "\n")
	sb.WriteString(title + "\n")
	sb.WriteString("Generated: " + generatedAt.Format("2006-01-02 15:04:05") + "\n")
	sb.WriteString(rule + "\n\n")

	fmt.Fprintf(&sb, "Risk level: %s\n", res.RiskLevel)
	fmt.Fprintf(&sb, "Risk score: %d/100\n", res.RiskScore)
	if res.DocumentType != "" {
		fmt.Fprintf(&sb, "Document type: %s\n", res.DocumentType)
	}
	if res.Analyzer == models.AnalyzerFraud {
		fmt.Fprintf(&sb, "Structure score: %d/100\n", res.StructureScore)
	}
	if res.InterestRate != nil {
		fmt.Fprintf(&sb, "Interest rate found: %g%%\n", *res.InterestRate)
	}
	if res.LenderVerified != nil {
		fmt.Fprintf(&sb, "Lender verified: %s\n", yesNo(*res.LenderVerified))
	}

	section(&sb, "SUSPICIOUS PHRASES", res.MatchedSuspiciousPhrases)
	section(&sb, "RED FLAGS", res.MatchedRedFlags)
	section(&sb, "URGENCY TERMS", res.MatchedUrgencyTerms)
	section(&sb, "FINANCIAL CLAIMS", res.MatchedFinancialClaims)
	section(&sb, "HIGH RISK INDICATORS", res.MatchedRiskIndicators)
	section(&sb, "GRANT TERMS", res.MatchedGrantTerms)
	section(&sb, "VIOLATIONS", res.Violations)
	section(&sb, "WARNINGS", res.Warnings)

	if gi := res.GrantImpact; gi != nil {
		sb.WriteString("\nGRANT IMPACT\n")
		fmt.Fprintf(&sb, "  Monthly deduction: R%s\n", gi.MonthlyDeduction.StringFixed(2))
		fmt.Fprintf(&sb, "  Share of grant:    %s%%\n", gi.PercentageOfGrant.StringFixed(1))
		fmt.Fprintf(&sb, "  Remaining amount:  R%s\n", gi.RemainingAmount.StringFixed(2))
	}

	section(&sb, "RECOMMENDATIONS", res.Recommendations)

	sb.WriteString("\n" + rule + "\n")
	sb.WriteString(disclaimer + "\n")
	sb.WriteString(rule + "\n")
	return sb.String()
}

// Filename is the download name offered for a report
func Filename(kind models.AnalyzerKind, generatedAt time.Time) string {
	return fmt.Sprintf("%s_analysis_report_%s.txt", kind, generatedAt.Format("20060102_150405"))
}

func section(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString("\n" + heading + "\n")
	for _, it := range items {
		sb.WriteString("  - " + it + "\n")
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
