package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"quoteai/internal/auth"
	"quoteai/internal/database"
	"quoteai/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// CreateCustomerHandler creates a customer in the caller's organization
// @Summary Create customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body models.CreateCustomerRequest true "Customer"
// @Success 201 {object} models.Customer
// @Failure 400 {object} models.ActionResponse
// @Router /api/customers [post]
func CreateCustomerHandler(db *sqlx.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.CreateCustomerRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ActionResponse{Error: "Invalid request body"})
		}

		req.Name = strings.TrimSpace(req.Name)
		req.Email = strings.TrimSpace(req.Email)
		if req.Name == "" || !emailRegex.MatchString(req.Email) {
			return c.JSON(http.StatusBadRequest, models.ActionResponse{Error: "Name and a valid email are required"})
		}

		customer, err := database.CreateCustomer(c.Request().Context(), db, auth.OrganizationID(c), req.Name, req.Email, optional(strings.TrimSpace(req.Company)))
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.ActionResponse{Error: err.Error()})
		}

		return c.JSON(http.StatusCreated, customer)
	}
}

// ListCustomersHandler lists the organization's customers
// @Summary List customers
// @Tags Customers
// @Produce json
// @Success 200 {array} models.Customer
// @Router /api/customers [get]
func ListCustomersHandler(db *sqlx.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		customers, err := database.ListCustomers(c.Request().Context(), db, auth.OrganizationID(c))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ActionResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusOK, customers)
	}
}
