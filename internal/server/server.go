package server

import (
	"time"

	"quoteai/internal/ai"
	"quoteai/internal/auth"
	"quoteai/internal/cache"
	"quoteai/internal/config"
	"quoteai/internal/email"
	"quoteai/internal/handlers"
	"quoteai/internal/pdf"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Server represents the application server
type Server struct {
	echo     *echo.Echo
	db       *sqlx.DB
	config   *config.Config
	logger   zerolog.Logger
	cache    *cache.Cache
	drafter  ai.Drafter
	quoter   ai.QuoteGenerator
	sender   email.Sender
	renderer pdf.Renderer
}

// New creates a new server instance
func New(cfg *config.Config, db *sqlx.DB, logger zerolog.Logger) *Server {
	s := &Server{
		config:   cfg,
		db:       db,
		logger:   logger,
		cache:    cache.New(),
		sender:   email.NewService(cfg.SendGridAPIKey),
		renderer: pdf.NewChromeRenderer(),
	}

	aiClient, err := ai.NewClient(cfg)
	if err != nil {
		logger.Warn().Err(err).Msg("AI client not configured; reply drafting and quote generation disabled")
	} else {
		s.drafter = aiClient
		s.quoter = aiClient
	}

	return s
}

// zerologMiddleware creates a zerolog-based logging middleware for Echo
func (s *Server) zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			req := c.Request()
			res := c.Response()

			s.logger.Info().
				Str("method", req.Method).
				Str("uri", req.RequestURI).
				Str("remote_ip", c.RealIP()).
				Int("status", res.Status).
				Int64("latency_ms", time.Since(start).Milliseconds()).
				Str("user_agent", req.UserAgent()).
				Msg("HTTP request")

			return err
		}
	}
}

// Initialize sets up the Echo framework with middleware and routes
func (s *Server) Initialize() {
	s.echo = echo.New()

	// Middleware
	s.echo.Use(s.zerologMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORS())

	// Hide Echo banner
	s.echo.HideBanner = true

	// Setup routes
	s.setupRoutes()
}

// setupRoutes configures all the application routes
func (s *Server) setupRoutes() {
	// API group with /api prefix
	api := s.echo.Group("/api")

	// Swagger documentation
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	// Health endpoints (keep at root level for monitoring)
	s.echo.GET("/healthz", handlers.HealthHandler(s.config.Version))
	s.echo.GET("/healthz/db", handlers.DBHealthHandler(s.db))

	api.GET("/", handlers.RootHandler(s.config.Version))

	// Provider-facing webhooks, authenticated by signature / quote id
	api.POST("/email/webhook", handlers.InboundEmailHandler(s.db, s.config, s.cache, s.drafter, s.logger))
	api.POST("/quotes/respond", handlers.QuoteRespondHandler(s.db, s.config, s.sender, s.logger))

	// Dashboard API, authenticated by organization API key
	authManager := auth.NewManager(s.db)
	dashboard := api.Group("", auth.Middleware(authManager))

	dashboard.POST("/customers", handlers.CreateCustomerHandler(s.db))
	dashboard.GET("/customers", handlers.ListCustomersHandler(s.db))

	dashboard.POST("/services", handlers.CreateServiceHandler(s.db, s.cache))
	dashboard.GET("/services", handlers.ListServicesHandler(s.db))

	dashboard.POST("/quotes/generate", handlers.GenerateQuoteHandler(s.db, s.config, s.cache, s.quoter))
	dashboard.GET("/quotes", handlers.ListQuotesHandler(s.db))
	dashboard.GET("/quotes/:id", handlers.GetQuoteHandler(s.db))
	dashboard.POST("/quotes/:id/send", handlers.SendQuoteHandler(s.db, s.config, s.renderer, s.sender, s.logger))
	dashboard.PUT("/quotes/:id/status", handlers.UpdateQuoteStatusHandler(s.db))
	dashboard.DELETE("/quotes/:id", handlers.DeleteQuoteHandler(s.db))

	dashboard.GET("/email-threads", handlers.ListThreadsHandler(s.db))
	dashboard.GET("/email-threads/:id", handlers.GetThreadHandler(s.db))
	dashboard.POST("/email-threads/:id/reply", handlers.ReplyThreadHandler(s.db, s.config, s.sender))

	dashboard.GET("/settings/organization", handlers.GetOrganizationHandler(s.db))
	dashboard.PUT("/settings/organization", handlers.UpdateOrganizationHandler(s.db))
	dashboard.GET("/settings/email", handlers.GetEmailSettingsHandler(s.db))
	dashboard.PUT("/settings/email", handlers.UpdateEmailSettingsHandler(s.db, s.cache))

	// Serve static files (this should be last to avoid conflicts)
	s.echo.Static("/", "static")
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info().Str("port", s.config.Port).Msg("Server starting")
	return s.echo.Start(":" + s.config.Port)
}
