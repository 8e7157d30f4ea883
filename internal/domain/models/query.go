package models

import "time"

// QueryStatus is the lifecycle state of a property query
type QueryStatus string

const (
	QueryStatusPending    QueryStatus = "Pending"
	QueryStatusInProgress QueryStatus = "In Progress"
	QueryStatusResolved   QueryStatus = "Resolved"
	QueryStatusClosed     QueryStatus = "Closed"
)

// Valid reports whether s is a known status
func (s QueryStatus) Valid() bool {
	switch s {
	case QueryStatusPending, QueryStatusInProgress, QueryStatusResolved, QueryStatusClosed:
		return true
	}
	return false
}

// QueryIDLayout is the timestamp layout used in query ids (QRY_<YYYYMMDDHHMMSS>)
const QueryIDLayout = "20060102150405"

// QueryTimestampLayout is how the timestamp column is written
const QueryTimestampLayout = "2006-01-02 15:04:05"

// PropertyQuery is one row of the property_queries table
type PropertyQuery struct {
	ID               int64       `json:"id"`
	QueryID          string      `json:"query_id"`
	Timestamp        string      `json:"timestamp"`
	Name             string      `json:"name"`
	Email            string      `json:"email"`
	Phone            string      `json:"phone"`
	QueryType        string      `json:"query_type"`
	Urgency          string      `json:"urgency"`
	Description      string      `json:"description"`
	Files            string      `json:"files"`
	MarketingConsent string      `json:"marketing_consent"`
	Status           QueryStatus `json:"status"`
}

// QueryInput is the submitted form before it becomes a PropertyQuery
type QueryInput struct {
	Name             string `json:"name" validate:"required,max=200"`
	Email            string `json:"email" validate:"required,email"`
	Phone            string `json:"phone" validate:"required,min=7,max=20"`
	QueryType        string `json:"query_type" validate:"required,oneof=purchase sale rental eviction title_deed inheritance dispute other"`
	Urgency          string `json:"urgency" validate:"required,oneof=low medium high urgent"`
	Description      string `json:"description" validate:"required,min=10,max=5000"`
	MarketingConsent bool   `json:"marketing_consent"`
}

// Attachment is an uploaded file accompanying a query
type Attachment struct {
	Filename string
	Data     []byte
}

// QuerySubmittedEvent is published after a query is stored
type QuerySubmittedEvent struct {
	QueryID     string    `json:"query_id"`
	QueryType   string    `json:"query_type"`
	Urgency     string    `json:"urgency"`
	FileCount   int       `json:"file_count"`
	SubmittedAt time.Time `json:"submitted_at"`
}
