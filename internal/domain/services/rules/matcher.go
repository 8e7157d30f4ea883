package rules

import (
	"regexp"
	"strconv"

	"legal-literacy-portal/internal/domain/models"
)

var (
	datePattern = regexp.MustCompile(`(?i)\b(?:\d{4}-\d{2}-\d{2}|\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}|\d{1,2}(?:st|nd|rd|th)?\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?,?\s+\d{4}|(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4})\b`)
	emailPattern      = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern      = regexp.MustCompile(`(?:\+\d{1,3}[\s-]?)?(?:\(\d{2,4}\)|\b\d{2,4})[\s-]?\d{3}[\s-]?\d{4}\b`)
	amountPattern     = regexp.MustCompile(`(?:\bR|\$|\bZAR)\s?\d{1,3}(?:[ ,]\d{3})*(?:\.\d{2})?\b|\b\d[\d,]*(?:\.\d{2})?\s?(?:rand|dollars)\b`)
	percentagePattern = regexp.MustCompile(`\d+(?:\.\d+)?\s?%`)
	interestPattern   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
)

// MatchPatterns collects every non-overlapping match of each pattern, in pattern order.
// Duplicates are kept.
func MatchPatterns(text string, patterns []*regexp.Regexp) []string {
	matches := []string{}
	if text == "" {
		return matches
	}
	for _, p := range patterns {
		matches = append(matches, p.FindAllString(text, -1)...)
	}
	return matches
}

// ExtractInterestRate scans every "<number>%" occurrence and returns the largest
func ExtractInterestRate(text string) (float64, bool) {
	var (
		best  float64
		found bool
	)
	for _, m := range interestPattern.FindAllStringSubmatch(text, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if !found || v > best {
			best = v
			found = true
		}
	}
	return best, found
}

// ExtractKeyFindings runs the informational regex scans
func ExtractKeyFindings(text string) models.KeyFindings {
	return models.KeyFindings{
		Dates:        MatchPatterns(text, []*regexp.Regexp{datePattern}),
		Emails:       MatchPatterns(text, []*regexp.Regexp{emailPattern}),
		PhoneNumbers: MatchPatterns(text, []*regexp.Regexp{phonePattern}),
		Amounts:      MatchPatterns(text, []*regexp.Regexp{amountPattern}),
		Percentages:  MatchPatterns(text, []*regexp.Regexp{percentagePattern}),
	}
}

// HasDate reports whether text contains a recognisable date
func HasDate(text string) bool {
	return datePattern.MatchString(text)
}
