package handlers

import (
	"errors"
	"net/http"
	"strings"

	"quoteai/internal/auth"
	"quoteai/internal/config"
	"quoteai/internal/database"
	"quoteai/internal/email"
	"quoteai/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
)

// ListThreadsHandler lists the organization's email threads
// @Summary List email threads
// @Tags Threads
// @Produce json
// @Success 200 {array} models.EmailThread
// @Router /api/email-threads [get]
func ListThreadsHandler(db *sqlx.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		threads, err := database.ListThreads(c.Request().Context(), db, auth.OrganizationID(c))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusOK, threads)
	}
}

// GetThreadHandler fetches one thread with its ordered message log
// @Summary Get email thread
// @Tags Threads
// @Produce json
// @Param id path string true "Thread id"
// @Success 200 {object} models.ThreadDetail
// @Failure 404 {object} models.ActionResponse
// @Router /api/email-threads/{id} [get]
func GetThreadHandler(db *sqlx.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		orgID := auth.OrganizationID(c)

		thread, err := database.GetThread(ctx, db, orgID, c.Param("id"))
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return c.JSON(http.StatusNotFound, models.ActionResponse{Error: "Thread not found"})
			}
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		messages, err := database.ListMessages(ctx, db, orgID, thread.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		return c.JSON(http.StatusOK, models.ThreadDetail{Thread: *thread, Messages: messages})
	}
}

// ReplyThreadHandler sends a human-authored reply on a thread and records
// it as a non-suggested outbound message. Approving an AI suggestion is
// exactly this: the client reuses the suggested body, so the promotion is
// always an explicit human-triggered send.
// @Summary Reply on a thread
// @Tags Threads
// @Accept json
// @Produce json
// @Param id path string true "Thread id"
// @Param request body models.ThreadReplyRequest true "Reply body"
// @Success 200 {object} models.ActionResponse
// @Failure 400 {object} models.ActionResponse
// @Failure 404 {object} models.ActionResponse
// @Router /api/email-threads/{id}/reply [post]
func ReplyThreadHandler(db *sqlx.DB, cfg *config.Config, sender email.Sender) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.ThreadReplyRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ActionResponse{Error: "Invalid request body"})
		}

		req.Body = strings.TrimSpace(req.Body)
		if req.Body == "" {
			return c.JSON(http.StatusBadRequest, models.ActionResponse{Error: "Reply body cannot be empty"})
		}

		ctx := c.Request().Context()
		orgID := auth.OrganizationID(c)

		thread, err := database.GetThread(ctx, db, orgID, c.Param("id"))
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return c.JSON(http.StatusNotFound, models.ActionResponse{Error: "Thread not found"})
			}
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		org, err := database.GetOrganization(ctx, db, orgID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		customer, err := database.GetCustomer(ctx, db, orgID, thread.CustomerID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		settings, err := database.GetEmailSettings(ctx, db, orgID)
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		fromName, fromEmail, replyTo, signature := senderIdentity(cfg, org, settings)
		err = sender.Send(email.OutboundMessage{
			ToName:    customer.Name,
			ToEmail:   customer.Email,
			FromName:  fromName,
			FromEmail: fromEmail,
			ReplyTo:   replyTo,
			Subject:   thread.Subject,
			HTML:      email.ReplyHTML(customer.Name, req.Body, signature),
			ThreadID:  thread.ID,
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		if _, err := database.InsertMessage(ctx, db, thread.ID, models.DirectionOutbound, req.Body, false); err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}

		return c.JSON(http.StatusOK, models.ActionResponse{Success: true, Message: "Reply sent"})
	}
}
