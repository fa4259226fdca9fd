package ai

import (
	"fmt"
	"strings"

	"quoteai/internal/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders a money amount with locale-aware grouping, the way
// prices appear in prompts, PDFs and notification emails
func FormatPrice(amount float64) string {
	return pricePrinter.Sprintf("$%.2f", amount)
}

// ReplyInput is the context assembled for reply drafting
type ReplyInput struct {
	Organization   models.Organization
	Customer       models.Customer
	Quote          *models.Quote // nil when the thread has no quote
	History        []models.EmailMessage
	QuotePublicURL string // empty when there is no quote
}

// QuoteInput is the context assembled for quote generation
type QuoteInput struct {
	Organization models.Organization
	Customer     models.Customer
	Services     []models.Service
	Request      string
}

// emailReplyPrompt renders the reply-drafting prompt. History is expected
// in chronological order and rendered as "direction: content" lines.
func emailReplyPrompt(input ReplyInput) string {
	var b strings.Builder

	b.WriteString("You are QuoteAI, an assistant replying to a sales email.\n")
	b.WriteString("Write a helpful, professional reply draft.\n\n")

	b.WriteString("Organization:\n")
	b.WriteString(input.Organization.Name + "\n\n")

	b.WriteString("Customer:\n")
	b.WriteString(customerLine(input.Customer) + "\n\n")

	b.WriteString("Quote context:\n")
	if input.Quote != nil {
		fmt.Fprintf(&b, "%s - %s\n", input.Quote.Title, FormatPrice(input.Quote.TotalPrice))
	} else {
		b.WriteString("No quote yet\n")
	}
	if input.QuotePublicURL != "" {
		fmt.Fprintf(&b, "Public quote URL: %s\n", input.QuotePublicURL)
	}

	b.WriteString("\nEmail history (most recent last):\n")
	for _, msg := range input.History {
		fmt.Fprintf(&b, "%s: %s\n", msg.Direction, msg.Content)
	}

	b.WriteString("\nReturn JSON with keys: subject, body.\n")
	b.WriteString("Keep it short, confident, and clear about next steps.")

	return b.String()
}

// quoteGenerationPrompt renders the quote-generation prompt from the
// organization's catalog and the customer's free-text request
func quoteGenerationPrompt(input QuoteInput) string {
	var b strings.Builder

	b.WriteString("You are QuoteAI, an expert sales quoting agent.\n")
	b.WriteString("Generate a concise professional quote JSON.\n\n")

	b.WriteString("Organization:\n")
	b.WriteString(input.Organization.Name + "\n")
	if input.Organization.Description != nil {
		b.WriteString(*input.Organization.Description + "\n")
	}

	b.WriteString("\nCustomer:\n")
	b.WriteString(customerLine(input.Customer) + "\n\n")

	b.WriteString("Available services:\n")
	for _, service := range input.Services {
		description := ""
		if service.Description != nil {
			description = *service.Description
		}
		fmt.Fprintf(&b, "- %s | %s | Base: %s\n", service.Name, description, FormatPrice(service.BasePrice))
	}

	b.WriteString("\nCustomer request:\n")
	b.WriteString(input.Request + "\n\n")

	b.WriteString("Return JSON with keys: title, description, line_items (array of {name, description, price, service_id}), total_price.\n")
	b.WriteString("Only select services from the available services list. Never invent services.\n")
	b.WriteString("Ensure prices are numbers in USD and total_price is sum of line_items.")

	return b.String()
}

func customerLine(customer models.Customer) string {
	line := fmt.Sprintf("%s (%s)", customer.Name, customer.Email)
	if customer.Company != nil && *customer.Company != "" {
		line += " " + *customer.Company
	}
	return line
}
