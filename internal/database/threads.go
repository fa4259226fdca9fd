package database

import (
	"context"
	"fmt"

	"quoteai/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CreateThread opens a new conversation thread for a customer
func CreateThread(ctx context.Context, db *sqlx.DB, orgID, customerID string, quoteID *string, subject string) (*models.EmailThread, error) {
	thread := models.EmailThread{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		CustomerID:     customerID,
		QuoteID:        quoteID,
		Subject:        subject,
		Status:         models.ThreadStatusOpen,
	}
	query := `
		INSERT INTO email_threads (id, organization_id, customer_id, quote_id, subject, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := db.ExecContext(ctx, query, thread.ID, orgID, customerID, quoteID, subject, thread.Status); err != nil {
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}
	return &thread, nil
}

// GetThread fetches a thread by id, scoped to the organization. The
// inbound pipeline always re-fetches through this even when the thread id
// came from a trusted header, so a forged or stale id can never cross
// tenants.
func GetThread(ctx context.Context, db *sqlx.DB, orgID, threadID string) (*models.EmailThread, error) {
	var thread models.EmailThread
	query := `
		SELECT id, organization_id, customer_id, quote_id, subject, status, created_at
		FROM email_threads
		WHERE id = $1 AND organization_id = $2
	`
	if err := getSingle(ctx, db, &thread, query, threadID, orgID); err != nil {
		return nil, err
	}
	return &thread, nil
}

// GetLatestThreadID returns the most recently created thread for a
// customer, the fallback when an inbound message carries no thread header
func GetLatestThreadID(ctx context.Context, db *sqlx.DB, orgID, customerID string) (string, error) {
	var threadID string
	query := `
		SELECT id
		FROM email_threads
		WHERE customer_id = $1 AND organization_id = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	if err := getSingle(ctx, db, &threadID, query, customerID, orgID); err != nil {
		return "", err
	}
	return threadID, nil
}

// ListThreads returns the organization's threads, newest first
func ListThreads(ctx context.Context, db *sqlx.DB, orgID string) ([]models.EmailThread, error) {
	var threads []models.EmailThread
	query := `
		SELECT id, organization_id, customer_id, quote_id, subject, status, created_at
		FROM email_threads
		WHERE organization_id = $1
		ORDER BY created_at DESC
	`
	if err := db.SelectContext(ctx, &threads, query, orgID); err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	if threads == nil {
		threads = []models.EmailThread{}
	}
	return threads, nil
}

// InsertMessage appends one message to a thread's log. Messages are
// immutable after insertion; ordering is by created_at ascending.
func InsertMessage(ctx context.Context, db *sqlx.DB, threadID, direction, content string, isSuggested bool) (*models.EmailMessage, error) {
	message := models.EmailMessage{
		ID:          uuid.NewString(),
		ThreadID:    threadID,
		Direction:   direction,
		Content:     content,
		IsSuggested: isSuggested,
	}
	query := `
		INSERT INTO email_messages (id, thread_id, direction, content, is_suggested)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := db.ExecContext(ctx, query, message.ID, threadID, direction, content, isSuggested); err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}
	return &message, nil
}

// ListMessages returns a thread's messages in conversation order, joined
// through email_threads so the organization filter always applies
func ListMessages(ctx context.Context, db *sqlx.DB, orgID, threadID string) ([]models.EmailMessage, error) {
	var messages []models.EmailMessage
	query := `
		SELECT m.id, m.thread_id, m.direction, m.content, m.is_suggested, m.created_at
		FROM email_messages m
		JOIN email_threads t ON t.id = m.thread_id
		WHERE m.thread_id = $1 AND t.organization_id = $2
		ORDER BY m.created_at ASC
	`
	if err := db.SelectContext(ctx, &messages, query, threadID, orgID); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	if messages == nil {
		messages = []models.EmailMessage{}
	}
	return messages, nil
}

// ListRecentMessages returns up to limit of the thread's newest messages,
// reordered ascending so callers see them in conversation order
func ListRecentMessages(ctx context.Context, db *sqlx.DB, orgID, threadID string, limit int) ([]models.EmailMessage, error) {
	var messages []models.EmailMessage
	query := `
		SELECT m.id, m.thread_id, m.direction, m.content, m.is_suggested, m.created_at
		FROM email_messages m
		JOIN email_threads t ON t.id = m.thread_id
		WHERE m.thread_id = $1 AND t.organization_id = $2
		ORDER BY m.created_at DESC
		LIMIT $3
	`
	if err := db.SelectContext(ctx, &messages, query, threadID, orgID, limit); err != nil {
		return nil, fmt.Errorf("failed to list recent messages: %w", err)
	}

	// Flip newest-first into chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	if messages == nil {
		messages = []models.EmailMessage{}
	}
	return messages, nil
}
