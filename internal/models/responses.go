package models

import "time"

// HealthResponse represents a basic health check response
// @Description Health check response
type HealthResponse struct {
	Status    string    `json:"status" example:"healthy"`                 // Health status
	Timestamp time.Time `json:"timestamp" example:"2023-01-01T00:00:00Z"` // Timestamp of the check
	Version   string    `json:"version" example:"1.0.0"`                  // Application version
}

// DBHealthResponse represents a database health check response
// @Description Database health check response
type DBHealthResponse struct {
	Status    string        `json:"status" example:"healthy"`                   // Health status
	Timestamp time.Time     `json:"timestamp" example:"2023-01-01T00:00:00Z"`   // Timestamp of the check
	Connected bool          `json:"connected" example:"true"`                   // Database connection status
	Latency   time.Duration `json:"latency" swaggertype:"string" example:"1ms"` // Database ping latency
	Error     string        `json:"error,omitempty" example:""`                 // Error message if any
}

// WebhookResponse is returned to the inbound email provider
// @Description Inbound webhook acknowledgement
type WebhookResponse struct {
	OK    bool   `json:"ok" example:"true"`          // Whether the delivery was accepted
	Error string `json:"error,omitempty" example:""` // Error message if any
}

// ActionResponse is the generic success/error envelope for API actions
// @Description Generic action result
type ActionResponse struct {
	Success bool   `json:"success" example:"true"`     // Whether the action succeeded
	Message string `json:"message,omitempty"`          // Optional human-readable message
	Error   string `json:"error,omitempty" example:""` // Error message if any
}

// QuoteRespondRequest is the payload of the public quote-response webhook
// @Description Customer accept/reject callback
type QuoteRespondRequest struct {
	QuoteID string `json:"quoteId" example:"6f1e..."` // Quote identifier
	Action  string `json:"action" example:"accepted"` // One of accepted, rejected
}

// CreateCustomerRequest creates a customer in the caller's organization
type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
}

// CreateServiceRequest adds a catalog entry
type CreateServiceRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	BasePrice   float64 `json:"base_price"`
}

// GenerateQuoteRequest asks the AI to draft a quote from a customer request
type GenerateQuoteRequest struct {
	CustomerID string `json:"customer_id"`
	Request    string `json:"request"`
}

// UpdateQuoteStatusRequest changes a quote's lifecycle status
type UpdateQuoteStatusRequest struct {
	Status string `json:"status" example:"sent"`
}

// ThreadReplyRequest is a human-authored reply to a thread. Sending one is
// how an AI suggestion gets promoted: the UI reuses the suggested body.
type ThreadReplyRequest struct {
	Body string `json:"body"`
}

// UpdateOrganizationRequest updates the tenant's display data
type UpdateOrganizationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	LogoURL     string `json:"logo_url,omitempty"`
}

// UpdateEmailSettingsRequest upserts the tenant's sending identity
type UpdateEmailSettingsRequest struct {
	FromName  string `json:"from_name,omitempty"`
	FromEmail string `json:"from_email,omitempty"`
	ReplyTo   string `json:"reply_to,omitempty"`
	Signature string `json:"signature,omitempty"`
}

// QuoteDetail is a quote with its line items
type QuoteDetail struct {
	Quote Quote       `json:"quote"`
	Items []QuoteItem `json:"items"`
}

// ThreadDetail is a thread with its ordered message log
type ThreadDetail struct {
	Thread   EmailThread    `json:"thread"`
	Messages []EmailMessage `json:"messages"`
}
