package models

// SummaryMethod records how a summary was produced
type SummaryMethod string

const (
	SummaryMethodModel            SummaryMethod = "model"
	SummaryMethodSentenceSampling SummaryMethod = "sentence_sampling"
)

// LegalTerm is a legal term found in a document with a plain language explanation
type LegalTerm struct {
	Term        string `json:"term"`
	Explanation string `json:"explanation"`
}

// DocumentSummary is the summarizer output
type DocumentSummary struct {
	DocumentType       DocumentType  `json:"document_type"`
	Summary            string        `json:"summary"`
	Method             SummaryMethod `json:"method"`
	KeyFindings        KeyFindings   `json:"key_findings"`
	LegalTerms         []LegalTerm   `json:"legal_terms"`
	WordCount          int           `json:"word_count"`
	ReadingTimeMinutes int           `json:"reading_time_minutes"`
}
