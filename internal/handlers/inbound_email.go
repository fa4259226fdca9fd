package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"quoteai/internal/ai"
	"quoteai/internal/cache"
	"quoteai/internal/config"
	"quoteai/internal/database"
	"quoteai/internal/models"
	"quoteai/internal/webhook"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// SignatureHeader carries the provider's timestamped HMAC signature
const SignatureHeader = "Resend-Signature"

// orgAddressCacheKey prefixes cached destination-address resolutions
const orgAddressCacheKey = "org_by_address:"

// InboundEmailHandler processes inbound email webhook deliveries. The
// pipeline is strictly linear: verify signature, resolve organization,
// resolve customer, resolve or create the thread, record the inbound
// message, then draft an AI reply suggestion. Each step either yields a
// value or terminates the request; nothing is retried.
//
// Deliveries carry no idempotency key, so a webhook delivered twice
// records two inbound messages.
// @Summary Inbound email webhook
// @Description Records an inbound customer email and drafts an AI reply suggestion
// @Tags Webhooks
// @Accept json
// @Produce json
// @Success 200 {object} models.WebhookResponse
// @Failure 400 {object} models.WebhookResponse
// @Failure 401 {object} models.WebhookResponse
// @Router /api/email/webhook [post]
func InboundEmailHandler(db *sqlx.DB, cfg *config.Config, lookupCache *cache.Cache, drafter ai.Drafter, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		rawBody, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.WebhookResponse{Error: "Unreadable body"})
		}

		if !webhook.VerifySignature(cfg.WebhookSecret, rawBody, c.Request().Header.Get(SignatureHeader)) {
			return c.JSON(http.StatusUnauthorized, models.WebhookResponse{Error: "Invalid signature"})
		}

		inbound, err := webhook.ParsePayload(rawBody)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.WebhookResponse{Error: "Invalid payload"})
		}

		if inbound.From == "" {
			return c.JSON(http.StatusBadRequest, models.WebhookResponse{Error: "Missing sender"})
		}
		if inbound.To == "" {
			return c.JSON(http.StatusBadRequest, models.WebhookResponse{Error: "Missing recipient"})
		}

		ctx := c.Request().Context()

		// Resolve the destination address to a tenant
		orgID, err := resolveOrganization(ctx, db, lookupCache, cfg, inbound.To)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return c.JSON(http.StatusBadRequest, models.WebhookResponse{Error: "Unknown organization"})
			}
			return c.JSON(http.StatusInternalServerError, models.WebhookResponse{Error: err.Error()})
		}

		// Resolve the sender within that tenant. Unknown senders are
		// dropped without side effects so strangers can't create data.
		customer, err := database.GetCustomerByEmail(ctx, db, orgID, inbound.From)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				logger.Info().Str("from", inbound.From).Msg("Dropping inbound email from unknown sender")
				return c.JSON(http.StatusOK, models.WebhookResponse{OK: true})
			}
			return c.JSON(http.StatusInternalServerError, models.WebhookResponse{Error: err.Error()})
		}

		thread, err := resolveThread(ctx, db, orgID, customer.ID, inbound)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.WebhookResponse{Error: "Thread missing"})
		}

		if _, err := database.InsertMessage(ctx, db, thread.ID, models.DirectionInbound, inbound.Content, false); err != nil {
			return c.JSON(http.StatusInternalServerError, models.WebhookResponse{Error: err.Error()})
		}

		// Draft the AI reply. A failure here leaves the recorded inbound
		// message in place; the delivery is still acknowledged.
		if err := draftReplySuggestion(ctx, db, cfg, drafter, orgID, *customer, thread.ID); err != nil {
			logger.Warn().Err(err).Str("thread_id", thread.ID).Msg("Failed to draft AI reply suggestion")
		}

		return c.JSON(http.StatusOK, models.WebhookResponse{OK: true})
	}
}

// resolveOrganization maps a destination address to a tenant, consulting
// the lookup cache first
func resolveOrganization(ctx context.Context, db *sqlx.DB, lookupCache *cache.Cache, cfg *config.Config, address string) (string, error) {
	cacheKey := orgAddressCacheKey + address
	if cached, found := lookupCache.Get(cacheKey); found {
		if orgID, ok := cached.(string); ok {
			return orgID, nil
		}
	}

	orgID, err := database.GetOrganizationIDByAddress(ctx, db, address)
	if err != nil {
		return "", err
	}

	lookupCache.Set(cacheKey, orgID, settingsCacheTTL(cfg))
	return orgID, nil
}

// resolveThread picks the thread for an inbound message:
//  1. an explicit thread id from the correlation header wins (the system
//     itself stamped it on a prior outbound send),
//  2. else the customer's most recently created thread,
//  3. else a new open thread with the payload subject.
//
// Whatever id wins is re-fetched scoped by organization id, so a forged
// or stale header can't reach another tenant's thread.
func resolveThread(ctx context.Context, db *sqlx.DB, orgID, customerID string, inbound *webhook.InboundEmail) (*models.EmailThread, error) {
	threadID := inbound.ThreadID

	if threadID == "" {
		latest, err := database.GetLatestThreadID(ctx, db, orgID, customerID)
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
		threadID = latest
	}

	if threadID == "" {
		created, err := database.CreateThread(ctx, db, orgID, customerID, nil, inbound.Subject)
		if err != nil {
			return nil, err
		}
		threadID = created.ID
	}

	return database.GetThread(ctx, db, orgID, threadID)
}

// draftReplySuggestion assembles the drafting context and stores the AI
// reply as a suggested outbound message awaiting human approval
func draftReplySuggestion(ctx context.Context, db *sqlx.DB, cfg *config.Config, drafter ai.Drafter, orgID string, customer models.Customer, threadID string) error {
	if drafter == nil {
		return errors.New("AI drafting is not configured")
	}

	org, err := database.GetOrganization(ctx, db, orgID)
	if err != nil {
		return err
	}

	thread, err := database.GetThread(ctx, db, orgID, threadID)
	if err != nil {
		return err
	}

	var quote *models.Quote
	quoteURL := ""
	if thread.QuoteID != nil {
		quote, err = database.GetQuote(ctx, db, orgID, *thread.QuoteID)
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			return err
		}
		if quote != nil {
			quoteURL = cfg.AppURL + "/q/" + quote.ID
		}
	}

	history, err := database.ListRecentMessages(ctx, db, orgID, threadID, cfg.HistoryMessageLimit)
	if err != nil {
		return err
	}

	draft, err := drafter.DraftReply(ctx, ai.ReplyInput{
		Organization:   *org,
		Customer:       customer,
		Quote:          quote,
		History:        history,
		QuotePublicURL: quoteURL,
	})
	if err != nil {
		return err
	}

	_, err = database.InsertMessage(ctx, db, threadID, models.DirectionOutbound, draft.Body, true)
	return err
}
