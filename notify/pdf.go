package notify

import (
	"context"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// PDFRenderer renders HTML into a PDF through a short-lived headless
// browser process. Rendering failure is non-fatal: Render returns nil and
// callers fall back to sending without an attachment.
type PDFRenderer struct {
	timeout time.Duration
}

// NewPDFRenderer creates a renderer with the fixed page-load timeout.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{timeout: 10 * time.Second}
}

// Render produces a PDF from an HTML document, or nil if rendering fails.
func (r *PDFRenderer) Render(ctx context.Context, html string) []byte {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		log.Printf("Warning: PDF rendering failed: %v", err)
		return nil
	}

	return pdf
}
