package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CreateTables creates the application tables if they don't exist
func CreateTables(db *sqlx.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS organizations (
			id VARCHAR(36) PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			logo_url TEXT,
			api_key VARCHAR(64) UNIQUE NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS email_settings (
			id VARCHAR(36) PRIMARY KEY,
			organization_id VARCHAR(36) UNIQUE NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
			from_name TEXT,
			from_email TEXT,
			reply_to TEXT,
			signature TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id VARCHAR(36) PRIMARY KEY,
			organization_id VARCHAR(36) NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			company TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (organization_id, email)
		)`,
		`CREATE TABLE IF NOT EXISTS services (
			id VARCHAR(36) PRIMARY KEY,
			organization_id VARCHAR(36) NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			description TEXT,
			base_price NUMERIC(12,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS quotes (
			id VARCHAR(36) PRIMARY KEY,
			organization_id VARCHAR(36) NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
			customer_id VARCHAR(36) NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			description TEXT,
			total_price NUMERIC(12,2) NOT NULL DEFAULT 0,
			status VARCHAR(20) NOT NULL DEFAULT 'draft',
			pdf_url TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS quote_items (
			id VARCHAR(36) PRIMARY KEY,
			quote_id VARCHAR(36) NOT NULL REFERENCES quotes(id) ON DELETE CASCADE,
			service_id VARCHAR(36) NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			price NUMERIC(12,2) NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS email_threads (
			id VARCHAR(36) PRIMARY KEY,
			organization_id VARCHAR(36) NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
			customer_id VARCHAR(36) NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
			quote_id VARCHAR(36) REFERENCES quotes(id) ON DELETE SET NULL,
			subject TEXT NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'open',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_email_threads_customer ON email_threads(customer_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS email_messages (
			id VARCHAR(36) PRIMARY KEY,
			thread_id VARCHAR(36) NOT NULL REFERENCES email_threads(id) ON DELETE CASCADE,
			direction VARCHAR(10) NOT NULL,
			content TEXT NOT NULL,
			is_suggested BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_email_messages_thread ON email_messages(thread_id, created_at)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}

	return nil
}
