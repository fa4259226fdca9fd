package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds all configuration for the application
type Config struct {
	Port                string
	DatabaseURL         string // Postgres connection string
	Version             string
	LogLevel            string
	AppURL              string // Public base URL for quote links (e.g. https://quoteai.app)
	OpenAIKey           string
	OpenAITimeout       int    // OpenAI API timeout in seconds
	SendGridAPIKey      string // SendGrid API key for outbound mail
	WebhookSecret       string // Shared secret for inbound email webhook signatures
	DefaultFromEmail    string // Fallback sender when an organization has no email settings
	SettingsCacheTTL    int    // Email settings / catalog cache TTL in minutes
	HistoryMessageLimit int    // How many thread messages to feed into reply drafting
}

// Load initializes and returns application configuration
func Load() *Config {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Port:                getEnv("PORT", "8080"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		Version:             getEnv("VERSION", "1.0.0"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		AppURL:              getEnv("APP_URL", "https://quoteai.app"),
		OpenAIKey:           os.Getenv("OPENAI_API_KEY"),
		OpenAITimeout:       getEnvInt("OPENAI_TIMEOUT", 60), // Default 60 seconds
		SendGridAPIKey:      os.Getenv("SENDGRID_API_KEY"),
		WebhookSecret:       os.Getenv("RESEND_WEBHOOK_SECRET"),
		DefaultFromEmail:    getEnv("DEFAULT_FROM_EMAIL", "quotes@quoteai.app"),
		SettingsCacheTTL:    getEnvInt("SETTINGS_CACHE_TTL_MINUTES", 5),
		HistoryMessageLimit: getEnvInt("HISTORY_MESSAGE_LIMIT", 12),
	}

	return config
}

// getEnv gets an environment variable with a default fallback
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as integer with a default fallback
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// SetupLogger configures zerolog with JSON output and single-line format
func (c *Config) SetupLogger() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "quoteai").
		Str("version", c.Version).
		Logger()

	// Set log level based on configuration
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger = logger.Level(level)

	return logger
}
