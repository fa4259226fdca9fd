package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"quoteai/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
)

const dbProbeTimeout = 5 * time.Second

// HealthHandler reports process liveness
func HealthHandler(version string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, models.HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
			Version:   version,
		})
	}
}

// DBHealthHandler reports database readiness. Beyond the ping it runs a
// trivial SELECT, so a pool that dials but cannot serve queries still
// reads as unhealthy.
func DBHealthHandler(db *sqlx.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		unhealthy := func(latency time.Duration, reason string) error {
			return c.JSON(http.StatusServiceUnavailable, models.DBHealthResponse{
				Status:    "unhealthy",
				Timestamp: time.Now().UTC(),
				Latency:   latency,
				Error:     reason,
			})
		}

		if db == nil {
			return unhealthy(0, "Database connection not initialized")
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), dbProbeTimeout)
		defer cancel()

		start := time.Now()
		if err := db.PingContext(ctx); err != nil {
			return unhealthy(time.Since(start), err.Error())
		}

		var one int
		if err := db.GetContext(ctx, &one, "SELECT 1"); err != nil {
			return unhealthy(time.Since(start), fmt.Sprintf("Database query failed: %v", err))
		}

		return c.JSON(http.StatusOK, models.DBHealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
			Connected: true,
			Latency:   time.Since(start),
		})
	}
}

// RootHandler identifies the service
func RootHandler(version string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "QuoteAI API",
			"version": version,
			"status":  "running",
		})
	}
}
