package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"legal-literacy-portal/internal/domain/models"
)

// Overrides replaces lexicons from a yaml file, keyed by analyzer then category:
//
//	fraud:
//	  suspicious_phrases: ["act now", ...]
//	loan:
//	  registered_lenders: ["capitec", ...]
type Overrides map[models.AnalyzerKind]map[string][]string

const registeredLendersKey = "registered_lenders"

// LoadOverrides reads an overrides file. An empty path yields no overrides.
func LoadOverrides(path string) (Overrides, error) {
	if path == "" {
		return Overrides{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon file: %w", err)
	}
	return ParseOverrides(data)
}

// ParseOverrides decodes overrides and rejects unknown analyzers or categories
func ParseOverrides(data []byte) (Overrides, error) {
	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon file: %w", err)
	}
	for kind, cats := range o {
		if kind != models.AnalyzerFraud && kind != models.AnalyzerLoan {
			return nil, fmt.Errorf("unknown analyzer %q in lexicon file", kind)
		}
		for cat := range cats {
			if !knownCategory(cat) {
				return nil, fmt.Errorf("unknown category %q for analyzer %s", cat, kind)
			}
		}
	}
	return o, nil
}

// Apply returns the rule set with any overridden lexicons swapped in
func (o Overrides) Apply(set RuleSet) RuleSet {
	for cat, phrases := range o[set.Kind] {
		lex := NewLexicon(phrases...)
		if cat == registeredLendersKey {
			set = set.WithRegisteredLenders(lex)
			continue
		}
		set = set.WithLexicon(models.Category(cat), lex)
	}
	return set
}

func knownCategory(cat string) bool {
	switch models.Category(cat) {
	case models.CategorySuspiciousPhrases, models.CategoryRedFlags,
		models.CategoryHighRiskIndicators, models.CategoryGrantTerms:
		return true
	}
	return cat == registeredLendersKey
}
