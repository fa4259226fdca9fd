package models

import "time"

// Quote lifecycle states
const (
	QuoteStatusDraft    = "draft"
	QuoteStatusSent     = "sent"
	QuoteStatusAccepted = "accepted"
	QuoteStatusRejected = "rejected"
)

// Message directions within a thread
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// Thread states
const (
	ThreadStatusOpen   = "open"
	ThreadStatusClosed = "closed"
)

// Organization represents a tenant account; all data is partitioned by its id
type Organization struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	LogoURL     *string   `db:"logo_url" json:"logo_url,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// EmailSettings is the per-organization sending identity (one-to-one, optional)
type EmailSettings struct {
	ID             string  `db:"id" json:"id"`
	OrganizationID string  `db:"organization_id" json:"organization_id"`
	FromName       *string `db:"from_name" json:"from_name,omitempty"`
	FromEmail      *string `db:"from_email" json:"from_email,omitempty"`
	ReplyTo        *string `db:"reply_to" json:"reply_to,omitempty"`
	Signature      *string `db:"signature" json:"signature,omitempty"`
}

// Customer is a contact belonging to exactly one organization.
// Email is the lookup key and is unique per organization.
type Customer struct {
	ID             string    `db:"id" json:"id"`
	OrganizationID string    `db:"organization_id" json:"organization_id"`
	Name           string    `db:"name" json:"name"`
	Email          string    `db:"email" json:"email"`
	Company        *string   `db:"company" json:"company,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Service is one entry in an organization's catalog
type Service struct {
	ID             string    `db:"id" json:"id"`
	OrganizationID string    `db:"organization_id" json:"organization_id"`
	Name           string    `db:"name" json:"name"`
	Description    *string   `db:"description" json:"description,omitempty"`
	BasePrice      float64   `db:"base_price" json:"base_price"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Quote is a priced proposal for one customer
type Quote struct {
	ID             string    `db:"id" json:"id"`
	OrganizationID string    `db:"organization_id" json:"organization_id"`
	CustomerID     string    `db:"customer_id" json:"customer_id"`
	Title          string    `db:"title" json:"title"`
	Description    *string   `db:"description" json:"description,omitempty"`
	TotalPrice     float64   `db:"total_price" json:"total_price"`
	Status         string    `db:"status" json:"status"`
	PDFURL         *string   `db:"pdf_url" json:"pdf_url,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// QuoteItem is one priced line in a quote, mapped back to a catalog service
type QuoteItem struct {
	ID          string  `db:"id" json:"id"`
	QuoteID     string  `db:"quote_id" json:"quote_id"`
	ServiceID   string  `db:"service_id" json:"service_id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description,omitempty"`
	Price       float64 `db:"price" json:"price"`
}

// EmailThread is a conversation between an organization and a customer,
// optionally tied to a quote
type EmailThread struct {
	ID             string    `db:"id" json:"id"`
	OrganizationID string    `db:"organization_id" json:"organization_id"`
	CustomerID     string    `db:"customer_id" json:"customer_id"`
	QuoteID        *string   `db:"quote_id" json:"quote_id,omitempty"`
	Subject        string    `db:"subject" json:"subject"`
	Status         string    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// EmailMessage is one immutable entry in a thread's log, ordered by
// creation timestamp ascending. IsSuggested marks AI drafts awaiting
// human approval.
type EmailMessage struct {
	ID          string    `db:"id" json:"id"`
	ThreadID    string    `db:"thread_id" json:"thread_id"`
	Direction   string    `db:"direction" json:"direction"`
	Content     string    `db:"content" json:"content"`
	IsSuggested bool      `db:"is_suggested" json:"is_suggested"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
