package rules

import "strings"

// StructurePoints is added for every structural element present
const StructurePoints = 25

// StructureReport is the structure verifier output. It never feeds the risk score.
type StructureReport struct {
	Score    int      `json:"score"`
	Elements []string `json:"elements"`
}

var structureElements = []struct {
	name     string
	keywords Lexicon
	dated    bool
}{
	{name: "numbered sections", keywords: NewLexicon("section", "article", "clause")},
	{name: "signature block", keywords: NewLexicon("signature", "signed", "sign here")},
	{name: "dated", dated: true},
	{name: "named parties", keywords: NewLexicon("between", "party", "parties")},
}

// VerifyStructure awards fixed points for the formal elements a genuine legal document usually carries
func VerifyStructure(text string) StructureReport {
	report := StructureReport{Elements: []string{}}
	lower := strings.ToLower(text)
	for _, el := range structureElements {
		present := false
		if el.dated {
			present = HasDate(text)
		} else {
			present = len(el.keywords.matchLower(lower)) > 0
		}
		if present {
			report.Score += StructurePoints
			report.Elements = append(report.Elements, el.name)
		}
	}
	if report.Score > 100 {
		report.Score = 100
	}
	return report
}
