package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/maheshdila/cv-gen-BE/internal/logging"
)

// MinContentLength is the shortest extracted text trusted from a plain HTTP fetch.
// Shorter text usually means the page renders its content with JavaScript.
const MinContentLength = 500

// ShouldUseBrowser reports whether extracted text is too short to be a real posting.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// Renderer returns the HTML of a page after client-side rendering.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// ChromeRenderer renders pages in headless Chrome. Chrome or Chromium must be installed.
type ChromeRenderer struct {
	Timeout time.Duration
	// Settle is how long to wait after the body is ready for scripts to fill the page
	Settle time.Duration
}

var _ Renderer = (*ChromeRenderer)(nil)

// NewChromeRenderer returns a renderer with a 30s timeout and a 3s settle delay.
func NewChromeRenderer() *ChromeRenderer {
	return &ChromeRenderer{Timeout: 30 * time.Second, Settle: 3 * time.Second}
}

func (r *ChromeRenderer) Render(ctx context.Context, url string) (string, error) {
	log := logging.FromContext(ctx)
	log.Debug("starting headless browser", "url", url)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	browserCtx, cancel := context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(r.Settle),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &Error{URL: url, Message: "browser rendering failed", Cause: err}
	}

	log.Debug("rendered page", "url", url, "bytes", len(html))
	return html, nil
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(ctx context.Context, url string) (string, error)

func (f RenderFunc) Render(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

func renderAndExtract(ctx context.Context, r Renderer, url string, platform Platform) (string, error) {
	html, err := r.Render(ctx, url)
	if err != nil {
		return "", err
	}
	text, err := ExtractMainText(html, ContentSelectors(platform), NoiseSelectors(platform)...)
	if err != nil {
		return "", fmt.Errorf("failed to extract rendered page: %w", err)
	}
	return text, nil
}
