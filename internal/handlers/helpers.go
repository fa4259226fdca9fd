package handlers

import (
	"time"

	"quoteai/internal/config"
	"quoteai/internal/models"
)

// settingsCacheTTL converts the configured cache TTL into a duration
func settingsCacheTTL(cfg *config.Config) time.Duration {
	return time.Duration(cfg.SettingsCacheTTL) * time.Minute
}

// optional maps an empty string to nil for nullable columns
func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// stringOr dereferences a nullable column with a fallback
func stringOr(value *string, fallback string) string {
	if value != nil && *value != "" {
		return *value
	}
	return fallback
}

// senderIdentity picks the from-name/from-email/reply-to/signature for an
// organization, falling back to the organization name and the configured
// default sender when email settings are absent
func senderIdentity(cfg *config.Config, org *models.Organization, settings *models.EmailSettings) (fromName, fromEmail, replyTo, signature string) {
	fromName = org.Name
	fromEmail = cfg.DefaultFromEmail
	if settings != nil {
		fromName = stringOr(settings.FromName, fromName)
		fromEmail = stringOr(settings.FromEmail, fromEmail)
		replyTo = stringOr(settings.ReplyTo, "")
		signature = stringOr(settings.Signature, "")
	}
	return fromName, fromEmail, replyTo, signature
}
