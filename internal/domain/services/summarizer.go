package services

import (
	"context"
	"regexp"
	"strings"

	"legal-literacy-portal/internal/domain/models"
	"legal-literacy-portal/internal/domain/services/rules"
	"legal-literacy-portal/pkg/logger"
)

// Completer produces a plain language summary with a language model
type Completer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

const (
	maxSampledSentences = 5
	wordsPerMinute      = 200
)

var sentencePattern = regexp.MustCompile(`[^.!?]+(?:[.!?]+|$)`)

var legalGlossary = []models.LegalTerm{
	{Term: "indemnify", Explanation: "You promise to cover the other party's losses or costs if something goes wrong."},
	{Term: "breach", Explanation: "Breaking a promise or term in the agreement."},
	{Term: "termination", Explanation: "How and when the agreement can be ended."},
	{Term: "jurisdiction", Explanation: "Which court or country's law applies to disputes."},
	{Term: "arbitration", Explanation: "Disputes are settled by a private arbitrator instead of a court."},
	{Term: "liability", Explanation: "Legal responsibility for loss, damage or debt."},
	{Term: "force majeure", Explanation: "Events outside anyone's control that excuse a party from performing."},
	{Term: "notice period", Explanation: "How far in advance you must warn the other party before acting."},
	{Term: "deposit", Explanation: "Money paid up front as security, often refundable under conditions."},
	{Term: "surety", Explanation: "Someone who promises to pay if the main debtor does not."},
	{Term: "cession", Explanation: "Transferring your rights, such as a claim to money, to someone else."},
	{Term: "garnishee", Explanation: "A court order letting a creditor take money straight from your salary."},
	{Term: "voetstoots", Explanation: "Sold as is. The seller is not responsible for defects you could have seen."},
	{Term: "executor", Explanation: "The person who carries out the instructions in a will."},
	{Term: "testator", Explanation: "The person whose will it is."},
	{Term: "beneficiary", Explanation: "A person who receives something under a will, policy or trust."},
	{Term: "in duplum", Explanation: "Interest on a debt may not grow beyond the amount still owed."},
	{Term: "confidentiality", Explanation: "Information you must not share with others."},
}

var legalTermPatterns = compileGlossary(legalGlossary)

func compileGlossary(terms []models.LegalTerm) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(terms))
	for i, t := range terms {
		out[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(t.Term) + `\b`)
	}
	return out
}

// Summarizer explains a document in plain language
type Summarizer struct {
	completer Completer
	logger    *logger.Logger
}

// NewSummarizer creates a summarizer. A nil completer always uses sentence sampling.
func NewSummarizer(completer Completer, log *logger.Logger) *Summarizer {
	return &Summarizer{
		completer: completer,
		logger:    log.WithComponent("summarizer"),
	}
}

// Summarize builds the summary. A model failure falls back to sentence sampling.
func (s *Summarizer) Summarize(ctx context.Context, text string) models.DocumentSummary {
	words := len(strings.Fields(text))
	out := models.DocumentSummary{
		DocumentType:       rules.ClassifyDocument(text),
		KeyFindings:        rules.ExtractKeyFindings(text),
		LegalTerms:         FindLegalTerms(text),
		WordCount:          words,
		ReadingTimeMinutes: readingTime(words),
	}

	if s.completer != nil {
		summary, err := s.completer.Summarize(ctx, text)
		if err == nil {
			out.Summary = summary
			out.Method = models.SummaryMethodModel
			return out
		}
		s.logger.Warn().Err(err).Int("text_length", len(text)).Msg("model summary failed, sampling sentences")
	}

	out.Summary = strings.Join(SampleSentences(text, maxSampledSentences), " ")
	out.Method = models.SummaryMethodSentenceSampling
	return out
}

// SampleSentences picks up to n evenly spaced sentences, always starting with the first
func SampleSentences(text string, n int) []string {
	var sentences []string
	for _, m := range sentencePattern.FindAllString(text, -1) {
		if s := strings.Join(strings.Fields(m), " "); s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) <= n {
		return sentences
	}

	picked := make([]string, 0, n)
	for i := 0; i < n; i++ {
		picked = append(picked, sentences[i*len(sentences)/n])
	}
	return picked
}

// FindLegalTerms returns the glossary entries that occur as whole words, in glossary order
func FindLegalTerms(text string) []models.LegalTerm {
	terms := []models.LegalTerm{}
	for i, p := range legalTermPatterns {
		if p.MatchString(text) {
			terms = append(terms, legalGlossary[i])
		}
	}
	return terms
}

func readingTime(words int) int {
	if words == 0 {
		return 0
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}
