package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"

	"signscraper/pkg/config"
)

// Session owns the browser process and its root chromedp context. The
// underlying browser is not safe to share across goroutines; all navigation
// happens sequentially on this one session.
type Session struct {
	ctx          context.Context
	cancelCtx    context.CancelFunc
	cancelAlloc  context.CancelFunc
}

// NewSession launches a browser according to the configuration. Headless is
// the default; SCRAPER_HEADLESS=0 (surfaced through cfg) shows the window.
func NewSession(cfg *config.BrowserConfig, userAgent string) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
		chromedp.UserAgent(userAgent),
		// The site serves an expired certificate
		chromedp.Flag("ignore-certificate-errors", true),
		// Reduce detection of automation
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if !cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelCtx := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so a missing Chrome binary fails here
	// rather than in the middle of the first page load.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &Session{
		ctx:         browserCtx,
		cancelCtx:   cancelCtx,
		cancelAlloc: cancelAlloc,
	}, nil
}

// Context returns the root browser context
func (s *Session) Context() context.Context {
	return s.ctx
}

// Close shuts down the browser process
func (s *Session) Close() {
	s.cancelCtx()
	s.cancelAlloc()
}
