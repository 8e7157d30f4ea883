package rules

import (
	"fmt"
	"regexp"

	"legal-literacy-portal/internal/domain/models"
)

// FindingKind says whether a hit is reported as a violation, a warning, or not at all
type FindingKind int

const (
	FindingNone FindingKind = iota
	FindingWarning
	FindingViolation
)

// LexiconCategory scores substring hits against a lexicon
type LexiconCategory struct {
	Category models.Category
	Lexicon  Lexicon
	Weight   int
	// Once scores Weight a single time when any entry matches, instead of per entry
	Once    bool
	Finding FindingKind
	Label   string
}

// PatternCategory scores every regex match
type PatternCategory struct {
	Category models.Category
	Patterns []*regexp.Regexp
	Weight   int
	Finding  FindingKind
	Label    string
}

// Band adds Points when a measured value is strictly greater than Above.
// Message is a format string receiving the value as %s.
type Band struct {
	Above   float64
	Points  int
	Finding FindingKind
	Message string
}

// MeasureRule holds bands ordered from the highest cut-off down. Only the first exceeded band applies.
type MeasureRule struct {
	Bands []Band
}

// apply returns the first band exceeded by value
func (m *MeasureRule) apply(value float64) (Band, bool) {
	for _, b := range m.Bands {
		if value > b.Above {
			return b, true
		}
	}
	return Band{}, false
}

// LenderRule penalises loan documents whose lender cannot be matched to a registration
type LenderRule struct {
	Registered Lexicon
	Markers    Lexicon
	Points     int
	Message    string
}

// Thresholds bucket a score into a risk level
type Thresholds struct {
	High   int
	Medium int
}

// Level maps a score to its bucket
func (t Thresholds) Level(score int) models.RiskLevel {
	switch {
	case score >= t.High:
		return models.RiskLevelHigh
	case score >= t.Medium:
		return models.RiskLevelMedium
	default:
		return models.RiskLevelLow
	}
}

// RuleSet is the full configuration of one analyzer instance
type RuleSet struct {
	Kind         models.AnalyzerKind
	Lexicons     []LexiconCategory
	Patterns     []PatternCategory
	InterestRate *MeasureRule
	GrantImpact  *MeasureRule
	Lender       *LenderRule
	Thresholds   Thresholds
	Templates    map[models.RiskLevel][]string
	MaxScore     int
}

// Validate checks a rule set before an engine is built from it
func (s RuleSet) Validate() error {
	if s.Kind == "" {
		return fmt.Errorf("rule set kind is required")
	}
	if s.MaxScore <= 0 {
		return fmt.Errorf("rule set %s: max score must be positive", s.Kind)
	}
	if s.Thresholds.Medium <= 0 || s.Thresholds.High <= s.Thresholds.Medium || s.Thresholds.High > s.MaxScore {
		return fmt.Errorf("rule set %s: invalid thresholds %d/%d", s.Kind, s.Thresholds.Medium, s.Thresholds.High)
	}
	for _, c := range s.Lexicons {
		if c.Weight < 0 {
			return fmt.Errorf("rule set %s: negative weight for %s", s.Kind, c.Category)
		}
	}
	for _, c := range s.Patterns {
		if c.Weight < 0 {
			return fmt.Errorf("rule set %s: negative weight for %s", s.Kind, c.Category)
		}
	}
	for _, level := range []models.RiskLevel{models.RiskLevelLow, models.RiskLevelMedium, models.RiskLevelHigh} {
		if len(s.Templates[level]) == 0 {
			return fmt.Errorf("rule set %s: missing %s template", s.Kind, level)
		}
	}
	return nil
}

// WithLexicon returns a copy of the rule set with the lexicon of one category replaced
func (s RuleSet) WithLexicon(c models.Category, lex Lexicon) RuleSet {
	lexicons := make([]LexiconCategory, len(s.Lexicons))
	copy(lexicons, s.Lexicons)
	for i := range lexicons {
		if lexicons[i].Category == c {
			lexicons[i].Lexicon = lex
		}
	}
	s.Lexicons = lexicons
	return s
}

// WithRegisteredLenders returns a copy of the rule set with the lender registry lexicon replaced
func (s RuleSet) WithRegisteredLenders(lex Lexicon) RuleSet {
	if s.Lender == nil {
		return s
	}
	lender := *s.Lender
	lender.Registered = lex
	s.Lender = &lender
	return s
}
