// Package email delivers outbound mail through SendGrid.
package email

import (
	"encoding/base64"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// ThreadIDHeader is stamped on every outbound send associated with a
// thread so inbound replies can be correlated back to it
const ThreadIDHeader = "X-QuoteAI-Thread-Id"

// Attachment is a file attached to an outbound message
type Attachment struct {
	Filename string
	Content  []byte
}

// OutboundMessage describes one email to deliver
type OutboundMessage struct {
	ToName     string
	ToEmail    string
	FromName   string
	FromEmail  string
	ReplyTo    string // falls back to FromEmail when empty
	Subject    string
	HTML       string
	ThreadID   string // when set, stamped as the thread correlation header
	Attachment *Attachment
}

// Sender delivers outbound messages. Handlers depend on this interface so
// tests can capture sends without hitting SendGrid.
type Sender interface {
	Send(msg OutboundMessage) error
}

// Service sends email via the SendGrid API
type Service struct {
	apiKey string
}

// NewService creates a new email service instance
func NewService(apiKey string) *Service {
	return &Service{apiKey: apiKey}
}

// Send delivers one message via SendGrid
func (s *Service) Send(msg OutboundMessage) error {
	if s.apiKey == "" {
		return fmt.Errorf("SendGrid API key not configured")
	}

	from := mail.NewEmail(msg.FromName, msg.FromEmail)
	to := mail.NewEmail(msg.ToName, msg.ToEmail)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.HTML, msg.HTML)

	replyTo := msg.ReplyTo
	if replyTo == "" {
		replyTo = msg.FromEmail
	}
	message.SetReplyTo(mail.NewEmail(msg.FromName, replyTo))

	if msg.ThreadID != "" && len(message.Personalizations) > 0 {
		message.Personalizations[0].SetHeader(ThreadIDHeader, msg.ThreadID)
	}

	if msg.Attachment != nil {
		attachment := mail.NewAttachment()
		attachment.SetFilename(msg.Attachment.Filename)
		attachment.SetType("application/pdf")
		attachment.SetContent(base64.StdEncoding.EncodeToString(msg.Attachment.Content))
		attachment.SetDisposition("attachment")
		message.AddAttachment(attachment)
	}

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("SendGrid API error: status %d, body: %s", response.StatusCode, response.Body)
	}

	return nil
}
