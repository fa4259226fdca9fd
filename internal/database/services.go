package database

import (
	"context"
	"fmt"

	"quoteai/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CreateService adds a catalog entry for the organization
func CreateService(ctx context.Context, db *sqlx.DB, orgID, name string, description *string, basePrice float64) (*models.Service, error) {
	service := models.Service{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		Name:           name,
		Description:    description,
		BasePrice:      basePrice,
	}
	query := `
		INSERT INTO services (id, organization_id, name, description, base_price)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := db.ExecContext(ctx, query, service.ID, orgID, name, description, basePrice); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return &service, nil
}

// ListServices returns the organization's catalog
func ListServices(ctx context.Context, db *sqlx.DB, orgID string) ([]models.Service, error) {
	var services []models.Service
	query := `
		SELECT id, organization_id, name, description, base_price, created_at
		FROM services
		WHERE organization_id = $1
		ORDER BY created_at DESC
	`
	if err := db.SelectContext(ctx, &services, query, orgID); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	if services == nil {
		services = []models.Service{}
	}
	return services, nil
}
