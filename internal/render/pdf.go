package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/resume-builder/internal/types"
)

const renderTimeout = 60 * time.Second

// Renderer converts rendered HTML into a PDF document.
type Renderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

// ChromeRenderer prints HTML through headless Chrome.
type ChromeRenderer struct {
	// ChromePath overrides the browser binary; empty uses whatever
	// chromedp finds on PATH.
	ChromePath string
}

func NewChromeRenderer(chromePath string) *ChromeRenderer {
	return &ChromeRenderer{ChromePath: chromePath}
}

// RenderHTMLToPDF writes the HTML to a temp file and prints it with
// Chrome's PrintToPDF on A4 paper.
func (r *ChromeRenderer) RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.ChromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, renderTimeout)
	defer cancelRun()

	tmpDir, err := os.MkdirTemp("", "resume-export-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write HTML: %w", err)
	}

	var pdf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var printErr error
			// A4 in inches
			pdf, _, printErr = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return printErr
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to print PDF: %w", err)
	}
	return pdf, nil
}

// PDF renders a resume's template to HTML and prints it.
func PDF(ctx context.Context, renderer Renderer, resume *types.Resume) ([]byte, error) {
	html, err := HTML(resume)
	if err != nil {
		return nil, err
	}
	return renderer.RenderHTMLToPDF(ctx, html)
}
