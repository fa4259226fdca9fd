package webhook

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ThreadIDHeader is the custom header stamped on every outbound send tied
// to a thread. When it comes back on a reply, the pipeline can correlate
// the message to its thread without the most-recent-thread heuristic.
const ThreadIDHeader = "X-QuoteAI-Thread-Id"

// DefaultSubject is used when a payload carries no subject at all
const DefaultSubject = "Inbound reply"

// InboundEmail is the canonical form of an inbound delivery. All
// provider-specific field aliasing happens in ParsePayload; the pipeline
// only ever sees this shape.
type InboundEmail struct {
	From     string // sender address
	To       string // destination address (first recipient when a list)
	Subject  string
	Content  string // first non-empty of text, html, body
	ThreadID string // explicit thread correlation header, if present
}

// rawPayload mirrors the aliased provider payload. Fields that may arrive
// as either a string or an array stay raw until coercion.
type rawPayload struct {
	From      string          `json:"from"`
	Sender    struct {
		Email string `json:"email"`
	} `json:"sender"`
	Envelope struct {
		From string          `json:"from"`
		To   json.RawMessage `json:"to"`
	} `json:"envelope"`
	To        json.RawMessage            `json:"to"`
	Recipient json.RawMessage            `json:"recipient"`
	Subject   string                     `json:"subject"`
	Text      string                     `json:"text"`
	HTML      string                     `json:"html"`
	Body      string                     `json:"body"`
	Headers   map[string]json.RawMessage `json:"headers"`
}

// ParsePayload normalizes a raw webhook body into an InboundEmail. For
// each logical value the first matching alias wins. It only fails on
// undecodable JSON; missing fields are left empty for the pipeline to
// judge.
func ParsePayload(body []byte) (*InboundEmail, error) {
	var raw rawPayload
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode webhook payload: %w", err)
	}

	headers := lowercaseHeaders(raw.Headers)

	email := &InboundEmail{
		From:     firstNonEmpty(raw.From, raw.Sender.Email, raw.Envelope.From),
		To:       firstNonEmpty(firstAddress(raw.To), firstAddress(raw.Recipient), firstAddress(raw.Envelope.To), firstAddress(headers["to"])),
		Subject:  firstNonEmpty(raw.Subject, stringValue(headers["subject"]), DefaultSubject),
		Content:  firstNonEmpty(raw.Text, raw.HTML, raw.Body),
		ThreadID: stringValue(headers[strings.ToLower(ThreadIDHeader)]),
	}

	return email, nil
}

// lowercaseHeaders folds header keys so lookups are case-insensitive
func lowercaseHeaders(headers map[string]json.RawMessage) map[string]json.RawMessage {
	folded := make(map[string]json.RawMessage, len(headers))
	for key, value := range headers {
		folded[strings.ToLower(key)] = value
	}
	return folded
}

// firstAddress coerces a raw field that may be a string or an array of
// strings; for arrays the first entry wins
func firstAddress(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}

	return ""
}

// stringValue decodes a raw field expected to be a plain string
func stringValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return value
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
