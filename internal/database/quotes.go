package database

import (
	"context"
	"fmt"

	"quoteai/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CreateQuote inserts a draft quote together with its line items
func CreateQuote(ctx context.Context, db *sqlx.DB, orgID, customerID, title string, description *string, totalPrice float64, items []models.QuoteItem) (*models.Quote, error) {
	quote := models.Quote{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		CustomerID:     customerID,
		Title:          title,
		Description:    description,
		TotalPrice:     totalPrice,
		Status:         models.QuoteStatusDraft,
	}

	query := `
		INSERT INTO quotes (id, organization_id, customer_id, title, description, total_price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := db.ExecContext(ctx, query, quote.ID, orgID, customerID, title, description, totalPrice, quote.Status); err != nil {
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}

	itemQuery := `
		INSERT INTO quote_items (id, quote_id, service_id, name, description, price)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, item := range items {
		if _, err := db.ExecContext(ctx, itemQuery, uuid.NewString(), quote.ID, item.ServiceID, item.Name, item.Description, item.Price); err != nil {
			return nil, fmt.Errorf("failed to create quote item: %w", err)
		}
	}

	return &quote, nil
}

// GetQuote fetches a quote by id, scoped to the organization
func GetQuote(ctx context.Context, db *sqlx.DB, orgID, quoteID string) (*models.Quote, error) {
	var quote models.Quote
	query := `
		SELECT id, organization_id, customer_id, title, description, total_price, status, pdf_url, created_at
		FROM quotes
		WHERE id = $1 AND organization_id = $2
	`
	if err := getSingle(ctx, db, &quote, query, quoteID, orgID); err != nil {
		return nil, err
	}
	return &quote, nil
}

// GetQuoteAnyOrg fetches a quote by id alone. Only the public
// quote-response webhook uses this; the caller has no tenant context and
// the quote row itself carries the organization id.
func GetQuoteAnyOrg(ctx context.Context, db *sqlx.DB, quoteID string) (*models.Quote, error) {
	var quote models.Quote
	query := `
		SELECT id, organization_id, customer_id, title, description, total_price, status, pdf_url, created_at
		FROM quotes
		WHERE id = $1
	`
	if err := getSingle(ctx, db, &quote, query, quoteID); err != nil {
		return nil, err
	}
	return &quote, nil
}

// ListQuotes returns all quotes of an organization, newest first
func ListQuotes(ctx context.Context, db *sqlx.DB, orgID string) ([]models.Quote, error) {
	var quotes []models.Quote
	query := `
		SELECT id, organization_id, customer_id, title, description, total_price, status, pdf_url, created_at
		FROM quotes
		WHERE organization_id = $1
		ORDER BY created_at DESC
	`
	if err := db.SelectContext(ctx, &quotes, query, orgID); err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	if quotes == nil {
		quotes = []models.Quote{}
	}
	return quotes, nil
}

// ListQuoteItems returns a quote's line items
func ListQuoteItems(ctx context.Context, db *sqlx.DB, quoteID string) ([]models.QuoteItem, error) {
	var items []models.QuoteItem
	query := `
		SELECT id, quote_id, service_id, name, description, price
		FROM quote_items
		WHERE quote_id = $1
	`
	if err := db.SelectContext(ctx, &items, query, quoteID); err != nil {
		return nil, fmt.Errorf("failed to list quote items: %w", err)
	}
	if items == nil {
		items = []models.QuoteItem{}
	}
	return items, nil
}

// UpdateQuoteStatus changes a quote's lifecycle status
func UpdateQuoteStatus(ctx context.Context, db *sqlx.DB, orgID, quoteID, status string) error {
	query := `UPDATE quotes SET status = $1 WHERE id = $2 AND organization_id = $3`
	if _, err := db.ExecContext(ctx, query, status, quoteID, orgID); err != nil {
		return fmt.Errorf("failed to update quote status: %w", err)
	}
	return nil
}

// UpdateQuotePDF records where the generated PDF is served from
func UpdateQuotePDF(ctx context.Context, db *sqlx.DB, orgID, quoteID, pdfURL string) error {
	query := `UPDATE quotes SET pdf_url = $1 WHERE id = $2 AND organization_id = $3`
	if _, err := db.ExecContext(ctx, query, pdfURL, quoteID, orgID); err != nil {
		return fmt.Errorf("failed to update quote pdf url: %w", err)
	}
	return nil
}

// DeleteQuote removes a quote and, via cascade, its items
func DeleteQuote(ctx context.Context, db *sqlx.DB, orgID, quoteID string) error {
	query := `DELETE FROM quotes WHERE id = $1 AND organization_id = $2`
	if _, err := db.ExecContext(ctx, query, quoteID, orgID); err != nil {
		return fmt.Errorf("failed to delete quote: %w", err)
	}
	return nil
}
