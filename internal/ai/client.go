// Package ai wraps the OpenAI completion API for quote generation and
// email reply drafting. Both operations request a JSON object response
// and parse it against a fixed schema; any shape violation is a hard
// failure rather than a silent coercion.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"quoteai/internal/config"

	"github.com/sashabaranov/go-openai"
)

// EmailDraft is the strict two-field reply shape returned by the model
type EmailDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// QuoteLineItem is one priced line proposed by the model
type QuoteLineItem struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price"`
	ServiceID   *string `json:"service_id,omitempty"`
}

// QuoteDraft is the quote shape returned by the model
type QuoteDraft struct {
	Title       string          `json:"title"`
	Description *string         `json:"description,omitempty"`
	LineItems   []QuoteLineItem `json:"line_items"`
	TotalPrice  float64         `json:"total_price"`
}

// Drafter produces a suggested email reply from conversation context
type Drafter interface {
	DraftReply(ctx context.Context, input ReplyInput) (*EmailDraft, error)
}

// QuoteGenerator produces a quote draft from a customer request
type QuoteGenerator interface {
	GenerateQuote(ctx context.Context, input QuoteInput) (*QuoteDraft, error)
}

// Client wraps the OpenAI API for completion calls
type Client struct {
	api     *openai.Client
	timeout time.Duration
}

// NewClient creates a new AI client from configuration
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not configured")
	}
	return &Client{
		api:     openai.NewClient(cfg.OpenAIKey),
		timeout: time.Duration(cfg.OpenAITimeout) * time.Second,
	}, nil
}

// DraftReply asks the model for a reply to the given conversation and
// parses the strict {subject, body} response
func (c *Client) DraftReply(ctx context.Context, input ReplyInput) (*EmailDraft, error) {
	content, err := c.complete(ctx, emailReplyPrompt(input), 0.4)
	if err != nil {
		return nil, err
	}
	return parseEmailDraft(content)
}

// GenerateQuote asks the model for a quote draft and parses the strict
// quote response
func (c *Client) GenerateQuote(ctx context.Context, input QuoteInput) (*QuoteDraft, error) {
	content, err := c.complete(ctx, quoteGenerationPrompt(input), 0.3)
	if err != nil {
		return nil, err
	}
	return parseQuoteDraft(content)
}

// complete runs a single-message completion with JSON response format
func (c *Client) complete(ctx context.Context, prompt string, temperature float32) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}

// parseEmailDraft validates the reply against the two-field schema.
// Missing fields and wrong types fail; extra keys are ignored.
func parseEmailDraft(content string) (*EmailDraft, error) {
	var raw struct {
		Subject *string `json:"subject"`
		Body    *string `json:"body"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("reply is not valid JSON: %w", err)
	}
	if raw.Subject == nil || raw.Body == nil {
		return nil, fmt.Errorf("reply JSON missing required subject/body fields")
	}
	return &EmailDraft{Subject: *raw.Subject, Body: *raw.Body}, nil
}

// parseQuoteDraft validates the quote response shape
func parseQuoteDraft(content string) (*QuoteDraft, error) {
	var raw struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		LineItems   []struct {
			Name        *string  `json:"name"`
			Description *string  `json:"description"`
			Price       *float64 `json:"price"`
			ServiceID   *string  `json:"service_id"`
		} `json:"line_items"`
		TotalPrice *float64 `json:"total_price"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("quote is not valid JSON: %w", err)
	}
	if raw.Title == nil || raw.TotalPrice == nil || raw.LineItems == nil {
		return nil, fmt.Errorf("quote JSON missing required title/line_items/total_price fields")
	}

	draft := &QuoteDraft{
		Title:       *raw.Title,
		Description: raw.Description,
		TotalPrice:  *raw.TotalPrice,
	}
	for i, item := range raw.LineItems {
		if item.Name == nil || item.Price == nil {
			return nil, fmt.Errorf("quote line item %d missing required name/price fields", i)
		}
		draft.LineItems = append(draft.LineItems, QuoteLineItem{
			Name:        *item.Name,
			Description: item.Description,
			Price:       *item.Price,
			ServiceID:   item.ServiceID,
		})
	}

	return draft, nil
}
