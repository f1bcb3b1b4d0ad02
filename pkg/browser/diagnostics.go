package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"signscraper/pkg/logger"
)

// Diagnostics captures the rendered page when something goes wrong so the
// failure can be inspected offline. Capture never fails the caller; a
// diagnostic that cannot be written is logged and dropped.
type Diagnostics struct {
	dir string
	log logger.Logger
}

// NewDiagnostics creates a sink writing into dir, creating it on first use
func NewDiagnostics(dir string, log logger.Logger) *Diagnostics {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Diagnostics{dir: dir, log: log}
}

// Capture writes the current page HTML and a screenshot as
// <prefix>_<timestamp>.html and .png.
func (d *Diagnostics) Capture(ctx context.Context, prefix string) {
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		d.log.WarnWithFields("Could not create debug directory", map[string]interface{}{
			"dir":   d.dir,
			"error": err.Error(),
		})
		return
	}

	ts := time.Now().Unix()
	base := filepath.Join(d.dir, fmt.Sprintf("%s_%d", prefix, ts))

	var html string
	var shot []byte
	err := chromedp.Run(ctx,
		chromedp.OuterHTML("html", &html),
		chromedp.CaptureScreenshot(&shot),
	)
	if err != nil {
		d.log.WarnWithFields("Could not capture page state", map[string]interface{}{
			"prefix": prefix,
			"error":  err.Error(),
		})
		return
	}

	if err := os.WriteFile(base+".html", []byte(html), 0644); err != nil {
		d.log.WarnWithFields("Could not write debug HTML", map[string]interface{}{
			"path":  base + ".html",
			"error": err.Error(),
		})
	}
	if err := os.WriteFile(base+".png", shot, 0644); err != nil {
		d.log.WarnWithFields("Could not write debug screenshot", map[string]interface{}{
			"path":  base + ".png",
			"error": err.Error(),
		})
	}

	d.log.InfoWithFields("Captured debug snapshot", map[string]interface{}{
		"prefix": prefix,
		"dir":    d.dir,
	})
}
