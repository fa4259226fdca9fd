package database

import (
	"context"
	"fmt"

	"quoteai/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// GetOrganization fetches a tenant's display data
func GetOrganization(ctx context.Context, db *sqlx.DB, orgID string) (*models.Organization, error) {
	var org models.Organization
	query := `SELECT id, name, description, logo_url, created_at FROM organizations WHERE id = $1`
	if err := getSingle(ctx, db, &org, query, orgID); err != nil {
		return nil, err
	}
	return &org, nil
}

// GetOrganizationIDByAPIKey resolves an API key to its organization
func GetOrganizationIDByAPIKey(ctx context.Context, db *sqlx.DB, apiKey string) (string, error) {
	var orgID string
	query := `SELECT id FROM organizations WHERE api_key = $1`
	if err := getSingle(ctx, db, &orgID, query, apiKey); err != nil {
		return "", err
	}
	return orgID, nil
}

// UpdateOrganization updates the tenant's display data
func UpdateOrganization(ctx context.Context, db *sqlx.DB, orgID, name string, description, logoURL *string) error {
	query := `UPDATE organizations SET name = $1, description = $2, logo_url = $3 WHERE id = $4`
	if _, err := db.ExecContext(ctx, query, name, description, logoURL, orgID); err != nil {
		return fmt.Errorf("failed to update organization: %w", err)
	}
	return nil
}

// GetEmailSettings fetches the sending identity for an organization.
// Returns ErrNotFound when the organization never configured one.
func GetEmailSettings(ctx context.Context, db *sqlx.DB, orgID string) (*models.EmailSettings, error) {
	var settings models.EmailSettings
	query := `
		SELECT id, organization_id, from_name, from_email, reply_to, signature
		FROM email_settings
		WHERE organization_id = $1
	`
	if err := getSingle(ctx, db, &settings, query, orgID); err != nil {
		return nil, err
	}
	return &settings, nil
}

// GetOrganizationIDByAddress maps an inbound destination address to the
// tenant whose sending identity (from_email or reply_to) matches it.
func GetOrganizationIDByAddress(ctx context.Context, db *sqlx.DB, address string) (string, error) {
	var orgID string
	query := `
		SELECT organization_id
		FROM email_settings
		WHERE from_email = $1 OR reply_to = $1
		LIMIT 1
	`
	if err := getSingle(ctx, db, &orgID, query, address); err != nil {
		return "", err
	}
	return orgID, nil
}

// UpsertEmailSettings creates or updates the sending identity
func UpsertEmailSettings(ctx context.Context, db *sqlx.DB, orgID string, fromName, fromEmail, replyTo, signature *string) error {
	query := `
		INSERT INTO email_settings (id, organization_id, from_name, from_email, reply_to, signature)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (organization_id) DO UPDATE SET
			from_name = EXCLUDED.from_name,
			from_email = EXCLUDED.from_email,
			reply_to = EXCLUDED.reply_to,
			signature = EXCLUDED.signature
	`
	if _, err := db.ExecContext(ctx, query, uuid.NewString(), orgID, fromName, fromEmail, replyTo, signature); err != nil {
		return fmt.Errorf("failed to upsert email settings: %w", err)
	}
	return nil
}
