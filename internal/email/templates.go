package email

import (
	"fmt"
	"html"
	"strings"
)

const htmlWrapper = `<div style="font-family: 'Helvetica Neue', Arial, sans-serif; color: #111827;">%s</div>`

// QuoteHTML builds the body for a quote delivery email
func QuoteHTML(customerName, orgName, quoteURL, signature string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hi %s,</p>", html.EscapeString(customerName))
	fmt.Fprintf(&b, "<p>Attached is your sales quote from %s. Let us know if you'd like adjustments.</p>", html.EscapeString(orgName))
	fmt.Fprintf(&b, `<p>View the quote here: <a href="%s">Open Quote</a></p>`, quoteURL)
	fmt.Fprintf(&b, "<p>%s</p>", signature)
	return fmt.Sprintf(htmlWrapper, b.String())
}

// ReplyHTML builds the body for a human-authored thread reply
func ReplyHTML(customerName, body, signature string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hi %s,</p>", html.EscapeString(customerName))
	fmt.Fprintf(&b, "<p>%s</p>", strings.ReplaceAll(html.EscapeString(body), "\n", "<br />"))
	fmt.Fprintf(&b, "<p>%s</p>", signature)
	return fmt.Sprintf(htmlWrapper, b.String())
}

// ResponseNotificationHTML builds the body of the email sent to the
// organization when a customer accepts or rejects a quote
func ResponseNotificationHTML(customerName, quoteTitle, actionLabel string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>%s has %s the quote.</p>", html.EscapeString(customerName), actionLabel)
	fmt.Fprintf(&b, "<p><strong>Quote:</strong> %s</p>", html.EscapeString(quoteTitle))
	fmt.Fprintf(&b, "<p><strong>Status:</strong> %s</p>", actionLabel)
	return fmt.Sprintf(htmlWrapper, b.String())
}
