package rules

import (
	"fmt"

	"legal-literacy-portal/internal/domain/models"
)

// Recommend builds the user facing advice for a result: the template for the level,
// a grant impact line when present, every violation itemized, and a warning count.
// It is a pure function of its inputs.
func Recommend(templates map[models.RiskLevel][]string, level models.RiskLevel, violations, warnings []string, impact *models.GrantImpact) []string {
	tmpl := templates[level]
	lines := make([]string, 0, len(tmpl)+len(violations)+2)
	lines = append(lines, tmpl...)

	if impact != nil {
		lines = append(lines, fmt.Sprintf(
			"The monthly deduction of R%s is %s%% of the grant, leaving R%s.",
			impact.MonthlyDeduction.StringFixed(2),
			impact.PercentageOfGrant.StringFixed(1),
			impact.RemainingAmount.StringFixed(2),
		))
	}

	for _, v := range violations {
		lines = append(lines, "Violation: "+v)
	}

	switch n := len(warnings); {
	case n == 1:
		lines = append(lines, "1 warning noted. Review it before you sign.")
	case n > 1:
		lines = append(lines, fmt.Sprintf("%d warnings noted. Review them before you sign.", n))
	}

	return lines
}
