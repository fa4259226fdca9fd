package handlers

import (
	"net/http"
	"strings"

	"quoteai/internal/auth"
	"quoteai/internal/cache"
	"quoteai/internal/database"
	"quoteai/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
)

// CreateServiceHandler adds an entry to the organization's catalog
// @Summary Create service
// @Tags Services
// @Accept json
// @Produce json
// @Param request body models.CreateServiceRequest true "Service"
// @Success 201 {object} models.Service
// @Failure 400 {object} models.ActionResponse
// @Router /api/services [post]
func CreateServiceHandler(db *sqlx.DB, lookupCache *cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.CreateServiceRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ActionResponse{Error: "Invalid request body"})
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			return c.JSON(http.StatusBadRequest, models.ActionResponse{Error: "Name is required"})
		}
		if req.BasePrice < 0 {
			return c.JSON(http.StatusBadRequest, models.ActionResponse{Error: "Base price cannot be negative"})
		}

		orgID := auth.OrganizationID(c)
		service, err := database.CreateService(c.Request().Context(), db, orgID, req.Name, optional(strings.TrimSpace(req.Description)), req.BasePrice)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		// Quote generation reads the catalog through the lookup cache
		lookupCache.Delete(catalogCacheKey + orgID)

		return c.JSON(http.StatusCreated, service)
	}
}

// ListServicesHandler lists the organization's catalog
// @Summary List services
// @Tags Services
// @Produce json
// @Success 200 {array} models.Service
// @Router /api/services [get]
func ListServicesHandler(db *sqlx.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		services, err := database.ListServices(c.Request().Context(), db, auth.OrganizationID(c))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusOK, services)
	}
}
