// Package pdf renders quote documents to PDF through headless Chrome.
package pdf

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Renderer produces the PDF bytes for a quote document. Handlers depend
// on this interface so tests can run without a browser.
type Renderer interface {
	Render(ctx context.Context, doc Document) ([]byte, error)
}

// ChromeRenderer renders documents with a headless Chrome instance
type ChromeRenderer struct {
	// Timeout bounds one render, browser startup included
	Timeout time.Duration
}

// NewChromeRenderer creates a renderer with a 30 second render timeout
func NewChromeRenderer() *ChromeRenderer {
	return &ChromeRenderer{Timeout: 30 * time.Second}
}

// Render builds the quote HTML and prints it to PDF
func (r *ChromeRenderer) Render(ctx context.Context, doc Document) ([]byte, error) {
	html, err := renderHTML(doc)
	if err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	defer tabCancel()

	tabCtx, timeoutCancel := context.WithTimeout(tabCtx, r.Timeout)
	defer timeoutCancel()

	var pdfBytes []byte
	err = chromedp.Run(tabCtx,
		chromedp.Navigate("data:text/html;base64,"+base64.StdEncoding.EncodeToString([]byte(html))),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBytes = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render quote PDF: %w", err)
	}

	return pdfBytes, nil
}
