package ui

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"

	"signscraper/pkg/scraper"
)

// Progress shows a terminal spinner while pages are being walked. All
// methods are called from the navigation goroutine only.
type Progress struct {
	spin    *spinner.Spinner
	enabled bool
}

// NewProgress creates a reporter. Disabled when stdout is not a terminal so
// piped output stays clean.
func NewProgress() *Progress {
	info, err := os.Stdout.Stat()
	enabled := err == nil && (info.Mode()&os.ModeCharDevice) != 0

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	_ = s.Color("cyan")

	return &Progress{spin: s, enabled: enabled}
}

// PageStarted updates the spinner for the page being processed
func (p *Progress) PageStarted(page, lastPage int) {
	if !p.enabled {
		return
	}
	p.spin.Suffix = fmt.Sprintf(" page %d/%d", page, lastPage)
	if !p.spin.Active() {
		p.spin.Start()
	}
}

// PageFinished notes the card count for the page just handled
func (p *Progress) PageFinished(page, cards int) {
	if !p.enabled {
		return
	}
	p.spin.Suffix = fmt.Sprintf(" page %d done, %d cards", page, cards)
}

// Done stops the spinner and prints the run summary
func (p *Progress) Done(stats scraper.Stats) {
	if p.enabled && p.spin.Active() {
		p.spin.Stop()
	}

	fmt.Printf("Pages visited:      %d\n", stats.PagesVisited)
	fmt.Printf("Cards seen:         %d\n", stats.CardsSeen)
	fmt.Printf("New entries:        %d\n", stats.EntriesAssigned)
	fmt.Printf("Duplicates:         %d\n", stats.Duplicates)
	fmt.Printf("Extraction failed:  %d\n", stats.ExtractionFailed)
	fmt.Printf("Videos downloaded:  %d (%s)\n", stats.Downloaded, formatBytes(stats.BytesDownloaded))
	fmt.Printf("Already on disk:    %d\n", stats.Skipped)
	if stats.DownloadFailed > 0 {
		fmt.Printf("Downloads failed:   %d (re-run to retry)\n", stats.DownloadFailed)
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
