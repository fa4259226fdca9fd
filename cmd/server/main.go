package main

import (
	"quoteai/internal/config"
	"quoteai/internal/database"
	"quoteai/internal/server"
)

// @title QuoteAI API
// @description AI-assisted quoting and customer email service.
// @BasePath /
func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logger
	logger := cfg.SetupLogger()

	// Initialize database connection
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Warn().Err(err).Msg("Database connection failed")
		logger.Info().Msg("Starting server without database connection")
	} else {
		logger.Info().Msg("Database connection established successfully")

		if err := database.CreateTables(db); err != nil {
			logger.Warn().Err(err).Msg("Schema bootstrap failed")
		}
	}

	// Create and initialize server
	srv := server.New(cfg, db, logger)
	srv.Initialize()

	// Start server
	if err := srv.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Server failed to start")
	}
}
