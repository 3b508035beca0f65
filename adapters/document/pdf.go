// Package document turns rendered quote documents into PDF files.
package document

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"retreat-quote/internal/logging"
)

// Renderer converts an HTML document into a PDF
type Renderer interface {
	RenderPDF(ctx context.Context, html []byte) ([]byte, error)
}

// A4 in inches
const (
	paperWidth  = 8.27
	paperHeight = 11.69
)

// ChromeRenderer prints HTML to PDF with a headless Chrome
type ChromeRenderer struct {
	chromePath string
	timeout    time.Duration
}

// NewChromeRenderer creates a renderer. An empty chromePath falls back to
// CHROME_PATH and the usual install locations.
func NewChromeRenderer(chromePath string, timeout time.Duration) *ChromeRenderer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChromeRenderer{
		chromePath: chromePath,
		timeout:    timeout,
	}
}

// DetectChromePath returns the configured path when it exists, then checks
// CHROME_PATH and common installation paths. Empty when nothing is found.
func DetectChromePath(configured string) string {
	candidates := []string{configured, os.Getenv("CHROME_PATH"),
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// RenderPDF loads html into a blank page and prints it on A4 paper
func (r *ChromeRenderer) RenderPDF(ctx context.Context, html []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in containers
	)
	if path := DetectChromePath(r.chromePath); path != "" {
		opts = append(opts, chromedp.ExecPath(path))
	} else {
		logging.Warn("no chrome executable found, letting chromedp search PATH")
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	start := time.Now()
	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(0). // margins are in the document CSS
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	logging.Debug("pdf rendered",
		zap.Int("html_bytes", len(html)),
		zap.Int("pdf_bytes", len(pdf)),
		zap.Duration("duration", time.Since(start)))
	return pdf, nil
}
