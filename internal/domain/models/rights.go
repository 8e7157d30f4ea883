package models

// RightsTopic is one explainer inside a rights category
type RightsTopic struct {
	Slug    string   `json:"slug"`
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Points  []string `json:"points"`
}

// RightsCategory groups rights topics for the education pages
type RightsCategory struct {
	Slug        string        `json:"slug"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Topics      []RightsTopic `json:"topics,omitempty"`
}
