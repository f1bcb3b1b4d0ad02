package scraper

import (
	"context"
	"fmt"
	"sync"

	"signscraper/internal/downloader"
	"signscraper/pkg/allocator"
	"signscraper/pkg/browser"
	"signscraper/pkg/config"
	"signscraper/pkg/errors"
	"signscraper/pkg/labels"
	"signscraper/pkg/logger"
	"signscraper/pkg/models"
)

// Navigator walks the paginated dictionary listing. The browser package
// provides the real implementation; tests supply a scripted one.
type Navigator interface {
	Start(ctx context.Context) (lastPage int, err error)
	Cards(ctx context.Context) ([]models.Card, error)
	GotoPage(ctx context.Context, page int) error
	ExtractViaModal(ctx context.Context, index int) (videoURL, label string, err error)
}

// DownloadQueue accepts download jobs and reports their outcomes
type DownloadQueue interface {
	Start()
	Stop()
	Submit(job downloader.Job) error
	Results() <-chan downloader.Result
}

// LabelSink persists assigned entries in discovery order
type LabelSink interface {
	Append(entry models.Entry) error
	Close() error
}

// DiagnosticSink captures the page state on failures, best effort
type DiagnosticSink interface {
	Capture(ctx context.Context, prefix string)
}

// ProgressReporter surfaces page progress to the terminal
type ProgressReporter interface {
	PageStarted(page, lastPage int)
	PageFinished(page, cards int)
	Done(stats Stats)
}

// Stats accumulates the outcome counts for one run
type Stats struct {
	PagesVisited     int
	CardsSeen        int
	EntriesAssigned  int
	Duplicates       int
	ExtractionFailed int
	Downloaded       int
	DownloadFailed   int
	Skipped          int
	BytesDownloaded  int64
}

// Scraper coordinates the run: it replays the recorded label file to seed the
// ID allocator and the duplicate index, walks every listing page assigning
// fresh IDs, and feeds the download queue as it goes. Downloads run behind
// the navigation; a label row is written the moment extraction succeeds,
// whatever later happens to its download.
type Scraper struct {
	cfg      *config.Config
	nav      Navigator
	queue    DownloadQueue
	labels   LabelSink
	diag     DiagnosticSink
	progress ProgressReporter
	log      logger.Logger

	alloc   *allocator.Allocator
	byURL   map[string]models.Entry
	stats   Stats
	statsMu sync.Mutex
}

// New assembles a scraper from its collaborators. diag and progress may be
// nil.
func New(
	cfg *config.Config,
	nav Navigator,
	queue DownloadQueue,
	labelSink LabelSink,
	diag DiagnosticSink,
	progress ProgressReporter,
	log logger.Logger,
) *Scraper {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Scraper{
		cfg:      cfg,
		nav:      nav,
		queue:    queue,
		labels:   labelSink,
		diag:     diag,
		progress: progress,
		log:      log,
		byURL:    make(map[string]models.Entry),
	}
}

// Seed replays previously recorded entries: the allocator continues past the
// highest recorded ID and every recorded URL becomes a known duplicate.
func (s *Scraper) Seed(existing []models.Entry) {
	ids := make([]string, 0, len(existing))
	for _, e := range existing {
		ids = append(ids, e.ID)
		s.byURL[e.VideoURL] = e
	}
	s.alloc = allocator.New(ids)

	s.log.InfoWithFields("Resuming from label file", map[string]interface{}{
		"recorded_entries": len(existing),
	})
}

// Run executes the whole scrape. The returned error is non-nil only for
// navigation failures; per-card and per-download failures are counted,
// logged and survived.
func (s *Scraper) Run(ctx context.Context) (Stats, error) {
	if s.alloc == nil {
		s.alloc = allocator.New(nil)
	}

	s.queue.Start()
	resultsDone := s.consumeResults()

	// Recorded entries whose video is missing get queued again before any
	// navigation. The queue skips the ones already on disk.
	for _, e := range s.byURL {
		if err := s.queue.Submit(downloader.Job{ID: e.ID, URL: e.VideoURL}); err != nil {
			break
		}
	}

	runErr := s.walk(ctx)

	s.queue.Stop()
	<-resultsDone

	if err := s.labels.Close(); err != nil {
		s.log.WarnWithFields("Failed to close label file", map[string]interface{}{
			"error": err.Error(),
		})
	}

	s.statsMu.Lock()
	stats := s.stats
	s.statsMu.Unlock()

	if s.progress != nil {
		s.progress.Done(stats)
	}
	s.logSummary(stats)

	return stats, runErr
}

// walk drives the page loop. Any navigation error aborts it.
func (s *Scraper) walk(ctx context.Context) error {
	lastPage, err := s.nav.Start(ctx)
	if err != nil {
		s.captureDiag(ctx, "start_failed")
		return err
	}

	for page := 1; ; page++ {
		select {
		case <-ctx.Done():
			s.log.Warn("Interrupted, finishing queued downloads")
			return nil
		default:
		}

		if s.progress != nil {
			s.progress.PageStarted(page, lastPage)
		}

		cards, err := s.nav.Cards(ctx)
		if err != nil {
			s.captureDiag(ctx, fmt.Sprintf("page_%d_cards_failed", page))
			return err
		}

		s.statsMu.Lock()
		s.stats.PagesVisited++
		s.stats.CardsSeen += len(cards)
		s.statsMu.Unlock()

		logger.LogPage(page, lastPage, len(cards))

		for i, card := range cards {
			select {
			case <-ctx.Done():
				s.log.Warn("Interrupted, finishing queued downloads")
				return nil
			default:
			}
			s.processCard(ctx, page, i, card)
		}

		if s.progress != nil {
			s.progress.PageFinished(page, len(cards))
		}

		if page >= lastPage {
			return nil
		}
		if err := s.nav.GotoPage(ctx, page+1); err != nil {
			s.captureDiag(ctx, fmt.Sprintf("page_%d_advance_failed", page+1))
			return err
		}
	}
}

// processCard extracts one card, records it and queues its download. Failures
// here never stop the run.
func (s *Scraper) processCard(ctx context.Context, page, index int, card models.Card) {
	videoURL, label, err := browser.ExtractFromCard(card)
	if err != nil {
		// The card markup did not carry the data; opening the modal is
		// the slow path of last resort.
		videoURL, label, err = s.nav.ExtractViaModal(ctx, index)
	}
	if err != nil {
		reason := err.Error()
		if e, ok := err.(*errors.Error); ok {
			reason = e.Message
		}
		logger.LogCardSkip(page, index, reason)
		s.captureDiag(ctx, fmt.Sprintf("card_p%d_i%d", page, index))

		s.statsMu.Lock()
		s.stats.ExtractionFailed++
		s.statsMu.Unlock()
		return
	}

	if prev, ok := s.byURL[videoURL]; ok {
		if prev.Label != label {
			s.log.WarnWithFields("Duplicate video with a different label, keeping the recorded one", map[string]interface{}{
				"id":             prev.ID,
				"url":            videoURL,
				"recorded_label": prev.Label,
				"new_label":      label,
			})
		}
		s.statsMu.Lock()
		s.stats.Duplicates++
		s.statsMu.Unlock()

		// Still queue it; the queue skips the download when the file is
		// already on disk.
		_ = s.queue.Submit(downloader.Job{ID: prev.ID, URL: videoURL})
		return
	}

	entry := models.Entry{
		ID:       s.alloc.NextID(),
		VideoURL: videoURL,
		Label:    label,
	}
	if err := s.labels.Append(entry); err != nil {
		// A label row that cannot be written must not consume the URL,
		// or a later run would silently skip this entry.
		s.log.ErrorWithFields("Failed to record entry", map[string]interface{}{
			"id":    entry.ID,
			"url":   entry.VideoURL,
			"error": err.Error(),
		})
		return
	}
	s.byURL[videoURL] = entry

	s.statsMu.Lock()
	s.stats.EntriesAssigned++
	s.statsMu.Unlock()

	_ = s.queue.Submit(downloader.Job{ID: entry.ID, URL: entry.VideoURL})
}

// consumeResults drains the download queue into the run stats
func (s *Scraper) consumeResults() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for result := range s.queue.Results() {
			logger.LogDownload(result.Job.ID, result.Job.URL, result.Success, result.Skipped, result.Error)

			s.statsMu.Lock()
			switch {
			case result.Skipped:
				s.stats.Skipped++
			case result.Success:
				s.stats.Downloaded++
				s.stats.BytesDownloaded += result.Size
			default:
				s.stats.DownloadFailed++
			}
			s.statsMu.Unlock()
		}
	}()
	return done
}

func (s *Scraper) captureDiag(ctx context.Context, prefix string) {
	if s.diag != nil {
		s.diag.Capture(ctx, prefix)
	}
}

func (s *Scraper) logSummary(stats Stats) {
	s.log.InfoWithFields("Run complete", map[string]interface{}{
		"pages":             stats.PagesVisited,
		"cards":             stats.CardsSeen,
		"new_entries":       stats.EntriesAssigned,
		"duplicates":        stats.Duplicates,
		"extraction_failed": stats.ExtractionFailed,
		"downloaded":        stats.Downloaded,
		"download_failed":   stats.DownloadFailed,
		"already_on_disk":   stats.Skipped,
		"bytes":             stats.BytesDownloaded,
	})
}

// LoadRecorded reads the label file for seeding, tolerating a missing file
func LoadRecorded(path string) ([]models.Entry, error) {
	return labels.Load(path)
}
