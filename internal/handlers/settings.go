package handlers

import (
	"errors"
	"net/http"
	"strings"

	"quoteai/internal/auth"
	"quoteai/internal/cache"
	"quoteai/internal/database"
	"quoteai/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
)

// GetOrganizationHandler returns the caller's organization
// @Summary Get organization settings
// @Tags Settings
// @Produce json
// @Success 200 {object} models.Organization
// @Router /api/settings/organization [get]
func GetOrganizationHandler(db *sqlx.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		org, err := database.GetOrganization(c.Request().Context(), db, auth.OrganizationID(c))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusOK, org)
	}
}

// UpdateOrganizationHandler updates the tenant's display data
// @Summary Update organization settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body models.UpdateOrganizationRequest true "Organization"
// @Success 200 {object} models.ActionResponse
// @Failure 400 {object} models.ActionResponse
// @Router /api/settings/organization [put]
func UpdateOrganizationHandler(db *sqlx.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.UpdateOrganizationRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ActionResponse{Error: "Invalid request body"})
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			return c.JSON(http.StatusBadRequest, models.ActionResponse{Error: "Name is required"})
		}

		err := database.UpdateOrganization(c.Request().Context(), db, auth.OrganizationID(c), req.Name,
			optional(strings.TrimSpace(req.Description)), optional(strings.TrimSpace(req.LogoURL)))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		return c.JSON(http.StatusOK, models.ActionResponse{Success: true})
	}
}

// GetEmailSettingsHandler returns the tenant's sending identity
// @Summary Get email settings
// @Tags Settings
// @Produce json
// @Success 200 {object} models.EmailSettings
// @Failure 404 {object} models.ActionResponse
// @Router /api/settings/email [get]
func GetEmailSettingsHandler(db *sqlx.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		settings, err := database.GetEmailSettings(c.Request().Context(), db, auth.OrganizationID(c))
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return c.JSON(http.StatusNotFound, models.ActionResponse{Error: "Email settings not configured"})
			}
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusOK, settings)
	}
}

// UpdateEmailSettingsHandler creates or updates the sending identity
// @Summary Update email settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body models.UpdateEmailSettingsRequest true "Email settings"
// @Success 200 {object} models.ActionResponse
// @Failure 400 {object} models.ActionResponse
// @Router /api/settings/email [put]
func UpdateEmailSettingsHandler(db *sqlx.DB, lookupCache *cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.UpdateEmailSettingsRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ActionResponse{Error: "Invalid request body"})
		}

		if req.FromEmail != "" && !emailRegex.MatchString(req.FromEmail) {
			return c.JSON(http.StatusBadRequest, models.ActionResponse{Error: "Invalid from email"})
		}
		if req.ReplyTo != "" && !emailRegex.MatchString(req.ReplyTo) {
			return c.JSON(http.StatusBadRequest, models.ActionResponse{Error: "Invalid reply-to email"})
		}

		ctx := c.Request().Context()
		orgID := auth.OrganizationID(c)

		existing, err := database.GetEmailSettings(ctx, db, orgID)
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		fromEmail := optional(strings.TrimSpace(req.FromEmail))
		replyTo := optional(strings.TrimSpace(req.ReplyTo))

		err = database.UpsertEmailSettings(ctx, db, orgID,
			optional(strings.TrimSpace(req.FromName)),
			fromEmail,
			replyTo,
			optional(strings.TrimSpace(req.Signature)))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		// Inbound routing caches address resolutions; drop entries for the
		// previous identity as well as the new one
		if existing != nil {
			invalidateAddress(lookupCache, existing.FromEmail)
			invalidateAddress(lookupCache, existing.ReplyTo)
		}
		invalidateAddress(lookupCache, fromEmail)
		invalidateAddress(lookupCache, replyTo)

		return c.JSON(http.StatusOK, models.ActionResponse{Success: true})
	}
}

// invalidateAddress removes a cached destination-address resolution
func invalidateAddress(lookupCache *cache.Cache, address *string) {
	if address != nil && *address != "" {
		lookupCache.Delete(orgAddressCacheKey + *address)
	}
}
