package models

// Lender is an NCR registered credit provider known to the portal
type Lender struct {
	Name           string   `json:"name"`
	Aliases        []string `json:"aliases,omitempty"`
	NCRNumber      string   `json:"ncr_number"`
	Website        string   `json:"website,omitempty"`
	MaxInterestPct float64  `json:"max_interest_pct,omitempty"`
}

// AlternativeKind groups help services
type AlternativeKind string

const (
	AlternativeGovernment AlternativeKind = "government"
	AlternativeRegulator  AlternativeKind = "regulator"
	AlternativeAdvice     AlternativeKind = "advice"
	AlternativeCredit     AlternativeKind = "credit"
)

// Alternative is a legitimate place to get help instead of an informal loan
type Alternative struct {
	Name        string          `json:"name"`
	Kind        AlternativeKind `json:"kind"`
	Description string          `json:"description"`
	Contact     string          `json:"contact"`
}
