// Package auth resolves the tenant for dashboard API requests. Each
// organization holds one API key; the middleware maps the bearer key to
// an organization id and handlers pass that id explicitly into every
// store call, so tenant isolation is visible at each call site.
package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"quoteai/internal/cache"
	"quoteai/internal/database"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
)

// contextKey is where the resolved organization id lives on the echo context
const contextKey = "organization_id"

// keyCacheTTL bounds how long a key->org mapping may be served stale
// after the key is rotated
const keyCacheTTL = 5 * time.Minute

// Manager validates API keys against the organizations table
type Manager struct {
	db    *sqlx.DB
	cache *cache.Cache
}

// NewManager creates a new authentication manager
func NewManager(db *sqlx.DB) *Manager {
	return &Manager{
		db:    db,
		cache: cache.New(),
	}
}

// Resolve maps an API key to its organization id
func (am *Manager) Resolve(c echo.Context, apiKey string) (string, error) {
	if cached, found := am.cache.Get(apiKey); found {
		if orgID, ok := cached.(string); ok {
			return orgID, nil
		}
	}

	orgID, err := database.GetOrganizationIDByAPIKey(c.Request().Context(), am.db, apiKey)
	if err != nil {
		return "", err
	}

	am.cache.Set(apiKey, orgID, keyCacheTTL)
	return orgID, nil
}

// Middleware authenticates dashboard routes and stores the resolved
// organization id on the request context
func Middleware(am *Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := c.Request().Header.Get("Authorization")
			if strings.HasPrefix(token, "Bearer ") {
				token = token[len("Bearer "):]
			}

			if token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "Missing API key",
				})
			}

			orgID, err := am.Resolve(c, token)
			if err != nil {
				if errors.Is(err, database.ErrNotFound) {
					return c.JSON(http.StatusUnauthorized, map[string]string{
						"error": "Invalid API key",
					})
				}
				return c.JSON(http.StatusInternalServerError, map[string]string{
					"error": "Failed to validate API key",
				})
			}

			c.Set(contextKey, orgID)
			return next(c)
		}
	}
}

// OrganizationID returns the tenant resolved by the middleware
func OrganizationID(c echo.Context) string {
	if orgID, ok := c.Get(contextKey).(string); ok {
		return orgID
	}
	return ""
}
