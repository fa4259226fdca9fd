package database

import (
	"context"
	"fmt"

	"quoteai/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CreateCustomer inserts a customer owned by the given organization
func CreateCustomer(ctx context.Context, db *sqlx.DB, orgID, name, email string, company *string) (*models.Customer, error) {
	customer := models.Customer{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		Name:           name,
		Email:          email,
		Company:        company,
	}
	query := `
		INSERT INTO customers (id, organization_id, name, email, company)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := db.ExecContext(ctx, query, customer.ID, orgID, name, email, company); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return &customer, nil
}

// ListCustomers returns all customers of an organization, newest first
func ListCustomers(ctx context.Context, db *sqlx.DB, orgID string) ([]models.Customer, error) {
	var customers []models.Customer
	query := `
		SELECT id, organization_id, name, email, company, created_at
		FROM customers
		WHERE organization_id = $1
		ORDER BY created_at DESC
	`
	if err := db.SelectContext(ctx, &customers, query, orgID); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	return customers, nil
}

// GetCustomer fetches a customer by id, scoped to the organization
func GetCustomer(ctx context.Context, db *sqlx.DB, orgID, customerID string) (*models.Customer, error) {
	var customer models.Customer
	query := `
		SELECT id, organization_id, name, email, company, created_at
		FROM customers
		WHERE id = $1 AND organization_id = $2
	`
	if err := getSingle(ctx, db, &customer, query, customerID, orgID); err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetCustomerByEmail looks up a customer by (email, organization). This is
// the sender-resolution step of the inbound pipeline: ErrNotFound means
// the sender is unknown and the delivery is dropped.
func GetCustomerByEmail(ctx context.Context, db *sqlx.DB, orgID, email string) (*models.Customer, error) {
	var customer models.Customer
	query := `
		SELECT id, organization_id, name, email, company, created_at
		FROM customers
		WHERE email = $1 AND organization_id = $2
	`
	if err := getSingle(ctx, db, &customer, query, email, orgID); err != nil {
		return nil, err
	}
	return &customer, nil
}
