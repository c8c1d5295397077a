package models

import (
	"fmt"
	"time"
)

// Sentiment labels assigned by the classifier
const (
	SentimentPositive = "Positive"
	SentimentNegative = "Negative"
	SentimentNeutral  = "Neutral"
	SentimentUnknown  = "Unknown"
)

// Issue type labels assigned by the classifier
const (
	IssueTypeBilling   = "Billing"
	IssueTypeTechnical = "Technical"
	IssueTypeLogin     = "Login"
	IssueTypeGeneral   = "General"
	IssueTypeOther     = "Other"
)

// KnownSentiments is the set of sentiment labels the classifier may assign
var KnownSentiments = []string{SentimentPositive, SentimentNegative, SentimentNeutral, SentimentUnknown}

// KnownIssueTypes is the set of issue type labels the classifier may assign
var KnownIssueTypes = []string{IssueTypeBilling, IssueTypeTechnical, IssueTypeLogin, IssueTypeGeneral, IssueTypeOther}

// TimestampLayout is the format used for ticket timestamps in the row store
const TimestampLayout = "2006-01-02 15:04:05"

// Ticket represents a customer support ticket
// @Description Customer support ticket
type Ticket struct {
	Row                int64     `json:"-"`                                                      // Opaque row handle, valid only until the next mutation
	CreatedAt          time.Time `json:"created_at,omitempty" example:"2024-01-01T00:00:00Z"`    // Submission (pending) or archival (processed) time
	Name               string    `json:"name" example:"Ana"`                                     // Customer name
	Email              string    `json:"email" example:"ana@example.com"`                        // Customer email address
	IssueTypeRequested string    `json:"issue_type" example:"Billing"`                           // Category chosen by the customer at submission
	Message            string    `json:"message" example:"I was charged twice"`                  // Free-text ticket body
	Sentiment          string    `json:"sentiment,omitempty" example:"Negative"`                 // Classifier-assigned sentiment, empty until classified
	IssueTypeLabel     string    `json:"issue_type_label,omitempty" example:"Billing"`           // Classifier-assigned category, empty until classified
	AutoReply          string    `json:"auto_reply,omitempty" example:"Hi Ana, ..."`             // Generated reply, empty until generated
}

// Classification is the (sentiment, issue type) pair produced by the classifier
type Classification struct {
	Sentiment string `json:"sentiment" example:"Negative"`
	IssueType string `json:"issue_type" example:"Billing"`
}

// IsPending reports whether the ticket still belongs in the pending queue.
// A ticket is pending until both sentiment and auto-reply are populated.
func (t Ticket) IsPending() bool {
	return t.Sentiment == "" || t.AutoReply == ""
}

// Key returns a row-position-independent identity for the ticket. Row
// handles shift when a lower row is deleted, so batch selection addresses
// tickets by key and re-resolves the row on every pass.
func (t Ticket) Key() string {
	created := ""
	if !t.CreatedAt.IsZero() {
		created = t.CreatedAt.Format(TimestampLayout)
	}
	return fmt.Sprintf("%s|%s|%s", t.Email, created, t.Message)
}
