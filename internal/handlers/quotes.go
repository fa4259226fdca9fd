package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"quoteai/internal/ai"
	"quoteai/internal/auth"
	"quoteai/internal/cache"
	"quoteai/internal/config"
	"quoteai/internal/database"
	"quoteai/internal/email"
	"quoteai/internal/models"
	"quoteai/internal/pdf"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// catalogCacheKey prefixes cached per-organization service catalogs
const catalogCacheKey = "services:"

// quoteStorageDir is where rendered PDFs land; echo serves it statically
const quoteStorageDir = "static/quotes"

// GenerateQuoteHandler drafts a quote with the AI from a free-text
// customer request and the organization's catalog. Line items the model
// proposes are mapped back to real catalog services by id, then by name;
// anything unmapped is dropped, and the total is recomputed server-side
// so the model can never set prices outside the catalog mapping.
// @Summary Generate a quote with AI
// @Tags Quotes
// @Accept json
// @Produce json
// @Param request body models.GenerateQuoteRequest true "Quote request"
// @Success 201 {object} models.QuoteDetail
// @Failure 400 {object} models.ActionResponse
// @Router /api/quotes/generate [post]
func GenerateQuoteHandler(db *sqlx.DB, cfg *config.Config, lookupCache *cache.Cache, generator ai.QuoteGenerator) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.GenerateQuoteRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ActionResponse{Error: "Invalid request body"})
		}

		req.Request = strings.TrimSpace(req.Request)
		if req.CustomerID == "" || req.Request == "" {
			return c.JSON(http.StatusBadRequest, models.ActionResponse{Error: "Missing required fields"})
		}

		if generator == nil {
			return c.JSON(http.StatusServiceUnavailable, models.ActionResponse{Error: "AI quote generation is not configured"})
		}

		ctx := c.Request().Context()
		orgID := auth.OrganizationID(c)

		org, err := database.GetOrganization(ctx, db, orgID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		customer, err := database.GetCustomer(ctx, db, orgID, req.CustomerID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return c.JSON(http.StatusNotFound, models.ActionResponse{Error: "Customer not found"})
			}
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		services, err := listServicesCached(c, db, cfg, lookupCache, orgID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}
		if len(services) == 0 {
			return c.JSON(http.StatusBadRequest, models.ActionResponse{Error: "Catalog is empty; add services first"})
		}

		draft, err := generator.GenerateQuote(ctx, ai.QuoteInput{
			Organization: *org,
			Customer:     *customer,
			Services:     services,
			Request:      req.Request,
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		items := sanitizeLineItems(draft.LineItems, services)
		if len(items) == 0 {
			return c.JSON(http.StatusBadRequest, models.ActionResponse{Error: "AI could not map services to catalog"})
		}

		totalPrice := 0.0
		for _, item := range items {
			totalPrice += item.Price
		}

		quote, err := database.CreateQuote(ctx, db, orgID, customer.ID, draft.Title, draft.Description, totalPrice, items)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		saved, err := database.ListQuoteItems(ctx, db, quote.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		return c.JSON(http.StatusCreated, models.QuoteDetail{Quote: *quote, Items: saved})
	}
}

// sanitizeLineItems keeps only AI line items that map to a real catalog
// service, matching by service id first, then by case-insensitive name
func sanitizeLineItems(proposed []ai.QuoteLineItem, services []models.Service) []models.QuoteItem {
	byID := make(map[string]models.Service, len(services))
	byName := make(map[string]models.Service, len(services))
	for _, service := range services {
		byID[service.ID] = service
		byName[strings.ToLower(service.Name)] = service
	}

	var items []models.QuoteItem
	for _, item := range proposed {
		var match *models.Service
		if item.ServiceID != nil {
			if service, ok := byID[*item.ServiceID]; ok {
				match = &service
			}
		}
		if match == nil {
			if service, ok := byName[strings.ToLower(item.Name)]; ok {
				match = &service
			}
		}
		if match == nil {
			continue
		}

		description := item.Description
		if description == nil {
			description = match.Description
		}
		items = append(items, models.QuoteItem{
			ServiceID:   match.ID,
			Name:        match.Name,
			Description: description,
			Price:       item.Price,
		})
	}
	return items
}

// listServicesCached returns the organization's catalog through the
// lookup cache
func listServicesCached(c echo.Context, db *sqlx.DB, cfg *config.Config, lookupCache *cache.Cache, orgID string) ([]models.Service, error) {
	cacheKey := catalogCacheKey + orgID
	if cached, found := lookupCache.Get(cacheKey); found {
		if services, ok := cached.([]models.Service); ok {
			return services, nil
		}
	}

	services, err := database.ListServices(c.Request().Context(), db, orgID)
	if err != nil {
		return nil, err
	}

	lookupCache.Set(cacheKey, services, settingsCacheTTL(cfg))
	return services, nil
}

// ListQuotesHandler lists the organization's quotes
// @Summary List quotes
// @Tags Quotes
// @Produce json
// @Success 200 {array} models.Quote
// @Router /api/quotes [get]
func ListQuotesHandler(db *sqlx.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		quotes, err := database.ListQuotes(c.Request().Context(), db, auth.OrganizationID(c))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusOK, quotes)
	}
}

// GetQuoteHandler fetches one quote with its line items
// @Summary Get quote
// @Tags Quotes
// @Produce json
// @Param id path string true "Quote id"
// @Success 200 {object} models.QuoteDetail
// @Failure 404 {object} models.ActionResponse
// @Router /api/quotes/{id} [get]
func GetQuoteHandler(db *sqlx.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		orgID := auth.OrganizationID(c)

		quote, err := database.GetQuote(ctx, db, orgID, c.Param("id"))
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return c.JSON(http.StatusNotFound, models.ActionResponse{Error: "Quote not found"})
			}
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		items, err := database.ListQuoteItems(ctx, db, quote.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		return c.JSON(http.StatusOK, models.QuoteDetail{Quote: *quote, Items: items})
	}
}

// SendQuoteHandler delivers a quote to its customer: renders the PDF,
// marks the quote sent, opens a thread linked to it, and emails the
// customer with the PDF attached and the thread correlation header set
// so replies route back to the new thread.
// @Summary Send quote to customer
// @Tags Quotes
// @Produce json
// @Param id path string true "Quote id"
// @Success 200 {object} models.ActionResponse
// @Failure 404 {object} models.ActionResponse
// @Router /api/quotes/{id}/send [post]
func SendQuoteHandler(db *sqlx.DB, cfg *config.Config, renderer pdf.Renderer, sender email.Sender, logger zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		orgID := auth.OrganizationID(c)

		quote, err := database.GetQuote(ctx, db, orgID, c.Param("id"))
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return c.JSON(http.StatusNotFound, models.ActionResponse{Error: "Quote not found"})
			}
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		org, err := database.GetOrganization(ctx, db, orgID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		customer, err := database.GetCustomer(ctx, db, orgID, quote.CustomerID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		items, err := database.ListQuoteItems(ctx, db, quote.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		settings, err := database.GetEmailSettings(ctx, db, orgID)
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		quoteURL := cfg.AppURL + "/q/" + quote.ID
		pdfBytes, err := renderer.Render(ctx, pdf.Document{
			Organization: *org,
			Customer:     *customer,
			Quote:        *quote,
			Items:        items,
			PublicURL:    quoteURL,
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		pdfURL, err := storeQuotePDF(cfg, quote.ID, pdfBytes)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}
		if err := database.UpdateQuotePDF(ctx, db, orgID, quote.ID, pdfURL); err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		if err := database.UpdateQuoteStatus(ctx, db, orgID, quote.ID, models.QuoteStatusSent); err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		threadSubject := "Quote: " + quote.Title
		thread, err := database.CreateThread(ctx, db, orgID, customer.ID, &quote.ID, threadSubject)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		fromName, fromEmail, replyTo, signature := senderIdentity(cfg, org, settings)
		html := email.QuoteHTML(customer.Name, org.Name, quoteURL, signature)

		err = sender.Send(email.OutboundMessage{
			ToName:    customer.Name,
			ToEmail:   customer.Email,
			FromName:  fromName,
			FromEmail: fromEmail,
			ReplyTo:   replyTo,
			Subject:   threadSubject,
			HTML:      html,
			ThreadID:  thread.ID,
			Attachment: &email.Attachment{
				Filename: quote.Title + ".pdf",
				Content:  pdfBytes,
			},
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		if _, err := database.InsertMessage(ctx, db, thread.ID, models.DirectionOutbound, html, false); err != nil {
			logger.Warn().Err(err).Str("thread_id", thread.ID).Msg("Failed to record outbound quote message")
		}

		return c.JSON(http.StatusOK, models.ActionResponse{Success: true, Message: "Quote sent"})
	}
}

// storeQuotePDF writes the rendered PDF under the static directory and
// returns its public URL
func storeQuotePDF(cfg *config.Config, quoteID string, pdfBytes []byte) (string, error) {
	if err := os.MkdirAll(quoteStorageDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(quoteStorageDir, quoteID+".pdf")
	if err := os.WriteFile(path, pdfBytes, 0o644); err != nil {
		return "", err
	}
	return cfg.AppURL + "/quotes/" + quoteID + ".pdf", nil
}

// UpdateQuoteStatusHandler sets a quote's lifecycle status directly
// @Summary Update quote status
// @Tags Quotes
// @Accept json
// @Produce json
// @Param id path string true "Quote id"
// @Param request body models.UpdateQuoteStatusRequest true "New status"
// @Success 200 {object} models.ActionResponse
// @Failure 400 {object} models.ActionResponse
// @Router /api/quotes/{id}/status [put]
func UpdateQuoteStatusHandler(db *sqlx.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.UpdateQuoteStatusRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ActionResponse{Error: "Invalid request body"})
		}

		switch req.Status {
		case models.QuoteStatusDraft, models.QuoteStatusSent, models.QuoteStatusAccepted, models.QuoteStatusRejected:
		default:
			return c.JSON(http.StatusBadRequest, models.ActionResponse{Error: "Invalid status"})
		}

		ctx := c.Request().Context()
		orgID := auth.OrganizationID(c)

		// Scoped fetch first so a cross-tenant id reads as not found
		if _, err := database.GetQuote(ctx, db, orgID, c.Param("id")); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return c.JSON(http.StatusNotFound, models.ActionResponse{Error: "Quote not found"})
			}
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		if err := database.UpdateQuoteStatus(ctx, db, orgID, c.Param("id"), req.Status); err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		return c.JSON(http.StatusOK, models.ActionResponse{Success: true})
	}
}

// DeleteQuoteHandler removes a quote and its line items
// @Summary Delete quote
// @Tags Quotes
// @Produce json
// @Param id path string true "Quote id"
// @Success 200 {object} models.ActionResponse
// @Router /api/quotes/{id} [delete]
func DeleteQuoteHandler(db *sqlx.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := database.DeleteQuote(c.Request().Context(), db, auth.OrganizationID(c), c.Param("id")); err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusOK, models.ActionResponse{Success: true})
	}
}
