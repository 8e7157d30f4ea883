package rules

import "strings"

// Lexicon is an immutable ordered list of lowercase trigger phrases.
// The zero value is an empty lexicon.
type Lexicon struct {
	entries []string
}

// NewLexicon lowercases and trims the given phrases, dropping blanks and duplicates
// while keeping the first occurrence order.
func NewLexicon(phrases ...string) Lexicon {
	seen := make(map[string]struct{}, len(phrases))
	entries := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		entries = append(entries, p)
	}
	return Lexicon{entries: entries}
}

// Entries returns a copy of the phrases in order
func (l Lexicon) Entries() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of phrases
func (l Lexicon) Len() int {
	return len(l.entries)
}

// Match returns every entry occurring in text as a case-insensitive substring,
// in lexicon order. Each entry contributes at most one match.
func (l Lexicon) Match(text string) []string {
	return l.matchLower(strings.ToLower(text))
}

// Contains reports whether any entry occurs in text
func (l Lexicon) Contains(text string) bool {
	lower := strings.ToLower(text)
	for _, e := range l.entries {
		if strings.Contains(lower, e) {
			return true
		}
	}
	return false
}

func (l Lexicon) matchLower(lower string) []string {
	matches := []string{}
	if lower == "" {
		return matches
	}
	for _, e := range l.entries {
		if strings.Contains(lower, e) {
			matches = append(matches, e)
		}
	}
	return matches
}
