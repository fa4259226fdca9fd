package handlers

import (
	"errors"
	"net/http"

	"quoteai/internal/ai"
	"quoteai/internal/config"
	"quoteai/internal/database"
	"quoteai/internal/email"
	"quoteai/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// QuoteRespondHandler handles the public accept/reject callback a
// customer triggers from the quote page. The quote must currently be
// "sent"; any other status rejects the transition. On success the
// organization's configured address is notified by email.
// @Summary Record a customer's quote response
// @Description Transitions a sent quote to accepted or rejected
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param request body models.QuoteRespondRequest true "Quote response"
// @Success 200 {object} models.ActionResponse
// @Failure 400 {object} models.ActionResponse
// @Failure 404 {object} models.ActionResponse
// @Router /api/quotes/respond [post]
func QuoteRespondHandler(db *sqlx.DB, cfg *config.Config, sender email.Sender, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.QuoteRespondRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ActionResponse{Error: "Invalid request"})
		}

		if req.QuoteID == "" || (req.Action != models.QuoteStatusAccepted && req.Action != models.QuoteStatusRejected) {
			return c.JSON(http.StatusBadRequest, models.ActionResponse{Error: "Invalid request"})
		}

		ctx := c.Request().Context()

		// The caller is the customer, not an authenticated tenant; the
		// quote row itself provides the organization scope from here on.
		quote, err := database.GetQuoteAnyOrg(ctx, db, req.QuoteID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return c.JSON(http.StatusNotFound, models.ActionResponse{Error: "Quote not found"})
			}
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		if quote.Status != models.QuoteStatusSent {
			return c.JSON(http.StatusBadRequest, models.ActionResponse{Error: "Quote already answered"})
		}

		if err := database.UpdateQuoteStatus(ctx, db, quote.OrganizationID, quote.ID, req.Action); err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		notifyQuoteResponse(c, db, cfg, sender, logger, quote, req.Action)

		return c.JSON(http.StatusOK, models.ActionResponse{Success: true})
	}
}

// notifyQuoteResponse emails the organization about the customer's
// decision. Notification failures don't undo the recorded transition.
func notifyQuoteResponse(c echo.Context, db *sqlx.DB, cfg *config.Config, sender email.Sender, logger zerolog.Logger, quote *models.Quote, action string) {
	ctx := c.Request().Context()

	settings, err := database.GetEmailSettings(ctx, db, quote.OrganizationID)
	if err != nil || settings == nil || settings.FromEmail == nil || *settings.FromEmail == "" {
		// No configured address, nothing to notify
		return
	}

	org, err := database.GetOrganization(ctx, db, quote.OrganizationID)
	if err != nil {
		logger.Warn().Err(err).Str("quote_id", quote.ID).Msg("Failed to load organization for response notification")
		return
	}

	customerName := "A customer"
	if customer, err := database.GetCustomer(ctx, db, quote.OrganizationID, quote.CustomerID); err == nil {
		customerName = customer.Name
	}

	actionLabel := "accepted"
	if action == models.QuoteStatusRejected {
		actionLabel = "rejected"
	}

	fromName, fromEmail, _, _ := senderIdentity(cfg, org, settings)
	msg := email.OutboundMessage{
		ToName:    fromName,
		ToEmail:   *settings.FromEmail,
		FromName:  fromName,
		FromEmail: fromEmail,
		Subject:   "Quote " + actionLabel + ": " + quote.Title,
		HTML:      email.ResponseNotificationHTML(customerName, quote.Title+" ("+ai.FormatPrice(quote.TotalPrice)+")", actionLabel),
	}
	if err := sender.Send(msg); err != nil {
		logger.Warn().Err(err).Str("quote_id", quote.ID).Msg("Failed to send quote response notification")
	}
}
