package pdf

import (
	"fmt"
	"html/template"
	"strings"

	"quoteai/internal/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Document carries everything the quote PDF displays
type Document struct {
	Organization models.Organization
	Customer     models.Customer
	Quote        models.Quote
	Items        []models.QuoteItem
	PublicURL    string
}

var pricePrinter = message.NewPrinter(language.English)

var quoteTemplate = template.Must(template.New("quote").Funcs(template.FuncMap{
	"price": func(amount float64) string {
		return pricePrinter.Sprintf("$%.2f", amount)
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: 'Helvetica Neue', Arial, sans-serif; color: #111827; margin: 40px; }
  h1 { font-size: 22px; margin-bottom: 4px; }
  .muted { color: #6b7280; font-size: 13px; }
  .logo { max-height: 48px; margin-bottom: 12px; }
  table { width: 100%; border-collapse: collapse; margin-top: 24px; }
  th, td { text-align: left; padding: 8px 4px; border-bottom: 1px solid #e5e7eb; font-size: 14px; }
  th { color: #6b7280; font-weight: 600; }
  td.price, th.price { text-align: right; }
  .total { font-size: 16px; font-weight: 700; margin-top: 16px; text-align: right; }
  .link { margin-top: 24px; font-size: 13px; }
</style>
</head>
<body>
  {{if .Organization.LogoURL}}<img class="logo" src="{{.Organization.LogoURL}}" alt="">{{end}}
  <h1>{{.Quote.Title}}</h1>
  <div class="muted">{{.Organization.Name}}</div>
  <div class="muted">
    Prepared for {{.Customer.Name}}{{if .Customer.Company}} &mdash; {{.Customer.Company}}{{end}}
  </div>
  {{if .Quote.Description}}<p>{{.Quote.Description}}</p>{{end}}
  <table>
    <tr><th>Service</th><th>Description</th><th class="price">Price</th></tr>
    {{range .Items}}
    <tr>
      <td>{{.Name}}</td>
      <td>{{if .Description}}{{.Description}}{{end}}</td>
      <td class="price">{{price .Price}}</td>
    </tr>
    {{end}}
  </table>
  <div class="total">Total: {{price .Quote.TotalPrice}}</div>
  {{if .PublicURL}}<div class="link">View online: <a href="{{.PublicURL}}">{{.PublicURL}}</a></div>{{end}}
</body>
</html>`))

// renderHTML produces the printable HTML for a quote document
func renderHTML(doc Document) (string, error) {
	var b strings.Builder
	if err := quoteTemplate.Execute(&b, doc); err != nil {
		return "", fmt.Errorf("failed to render quote template: %w", err)
	}
	return b.String(), nil
}
