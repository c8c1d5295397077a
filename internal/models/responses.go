package models

import "time"

// HealthResponse represents a basic health check response
// @Description Health check response
type HealthResponse struct {
	Status    string    `json:"status" example:"healthy"`                 // Health status
	Timestamp time.Time `json:"timestamp" example:"2023-01-01T00:00:00Z"` // Timestamp of the check
	Version   string    `json:"version" example:"1.0.0"`                  // Application version
}

// StoreHealthResponse represents a row-store health check response
// @Description Row store health check response
type StoreHealthResponse struct {
	Status    string        `json:"status" example:"healthy"`                   // Health status
	Timestamp time.Time     `json:"timestamp" example:"2023-01-01T00:00:00Z"`   // Timestamp of the check
	Connected bool          `json:"connected" example:"true"`                   // Store reachability
	Latency   time.Duration `json:"latency" swaggertype:"string" example:"1ms"` // Read latency
	Error     string        `json:"error,omitempty" example:""`                 // Error message if any
}

// SubmitTicketRequest represents the payload for submitting a new ticket
// @Description Ticket submission payload
type SubmitTicketRequest struct {
	Name      string `json:"name" example:"Ana"`                    // Customer name
	Email     string `json:"email" example:"ana@example.com"`       // Customer email address
	IssueType string `json:"issue_type" example:"Billing"`          // Customer-chosen category
	Message   string `json:"message" example:"I was charged twice"` // Free-text ticket body
}

// SubmitTicketResponse represents the response after submitting a ticket
// @Description Ticket submission response
type SubmitTicketResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty" example:"Ticket submitted successfully"`
	Error   string `json:"error,omitempty" example:""`
}

// TicketListResponse represents a queue listing
// @Description Queue listing response
type TicketListResponse struct {
	Tickets []Ticket `json:"tickets"`
	Count   int      `json:"count" example:"3"`
	Error   string   `json:"error,omitempty" example:""`
}

// ProcessRequest selects which pending tickets to process
// @Description Processing request payload
type ProcessRequest struct {
	Keys []string `json:"keys,omitempty"`                // Ticket keys to process
	All  bool     `json:"all,omitempty" example:"false"` // Process every eligible ticket
}

// TicketResult is the outcome of processing one ticket
// @Description Per-ticket processing outcome
type TicketResult struct {
	Key     string `json:"key"`
	Email   string `json:"email" example:"ana@example.com"`
	Success bool   `json:"success" example:"true"`
	Error   string `json:"error,omitempty" example:""`
}

// ProcessResponse summarizes a processing run
// @Description Processing run summary
type ProcessResponse struct {
	Succeeded int            `json:"succeeded" example:"2"`
	Failed    int            `json:"failed" example:"1"`
	Results   []TicketResult `json:"results"`
	Error     string         `json:"error,omitempty" example:""`
}
