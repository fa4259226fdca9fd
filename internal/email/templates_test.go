package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteHTML(t *testing.T) {
	html := QuoteHTML("Amit Levi", "Acme Plumbing", "https://quoteai.app/q/quote-1", "Thanks, Acme")

	assert.Contains(t, html, "Hi Amit Levi,")
	assert.Contains(t, html, "Acme Plumbing")
	assert.Contains(t, html, `href="https://quoteai.app/q/quote-1"`)
	assert.Contains(t, html, "Thanks, Acme")
}

func TestReplyHTML(t *testing.T) {
	t.Run("newlines become breaks", func(t *testing.T) {
		html := ReplyHTML("Amit Levi", "First line\nSecond line", "")
		assert.Contains(t, html, "First line<br />Second line")
	})

	t.Run("body is escaped", func(t *testing.T) {
		html := ReplyHTML("Amit Levi", "<script>alert(1)</script>", "")
		assert.NotContains(t, html, "<script>")
		assert.Contains(t, html, "&lt;script&gt;")
	})

	t.Run("customer name is escaped", func(t *testing.T) {
		html := ReplyHTML("<b>Amit</b>", "hello", "")
		assert.NotContains(t, html, "<b>Amit</b>")
	})
}

func TestResponseNotificationHTML(t *testing.T) {
	html := ResponseNotificationHTML("Amit Levi", "Bathroom renovation ($1,200.50)", "accepted")

	assert.Contains(t, html, "Amit Levi has accepted the quote.")
	assert.Contains(t, html, "Bathroom renovation ($1,200.50)")
	assert.Contains(t, html, "<strong>Status:</strong> accepted")
}

func TestService_SendWithoutKey(t *testing.T) {
	service := NewService("")
	err := service.Send(OutboundMessage{ToEmail: "amit@example.com"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "SendGrid API key not configured")
}
