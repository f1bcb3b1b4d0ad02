package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"signscraper/internal/downloader"
	"signscraper/pkg/browser"
	"signscraper/pkg/config"
	"signscraper/pkg/dictionary"
	"signscraper/pkg/errors"
	"signscraper/pkg/labels"
	"signscraper/pkg/logger"
	"signscraper/pkg/ratelimit"
	"signscraper/pkg/scraper"
	"signscraper/pkg/storage"
	"signscraper/pkg/ui"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file")
		baseURL    = flag.String("base-url", "", "dictionary listing URL")
		videoDir   = flag.String("video-dir", "", "directory for downloaded videos")
		labelPath  = flag.String("label-path", "", "path of the CSV label file")
		workers    = flag.Int("workers", 0, "number of concurrent download workers")
		wait       = flag.Int("wait", 0, "page render timeout in seconds")
		logLevel   = flag.String("log-level", "", "log level (debug, info, warn, error)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath, map[string]interface{}{
		"base-url":   *baseURL,
		"video-dir":  *videoDir,
		"label-path": *labelPath,
		"workers":    *workers,
		"wait":       *wait,
		"log-level":  *logLevel,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	log := logger.GetLogger()

	if err := run(cfg, log); err != nil {
		if errors.IsFatal(err) {
			log.WithError(err).Error("Navigation failed, aborting")
			os.Exit(1)
		}
		log.WithError(err).Error("Run failed")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	// Ctrl-C stops submitting new work; queued downloads still finish
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	session, err := browser.NewSession(&cfg.Browser, cfg.Site.UserAgent)
	if err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer session.Close()

	store, err := storage.NewManager(cfg.Output.VideoDir)
	if err != nil {
		return fmt.Errorf("failed to prepare video directory: %w", err)
	}
	log.InfoWithFields("Video directory ready", map[string]interface{}{
		"dir":             store.VideoDir(),
		"already_present": store.DownloadedCount(),
	})

	sink, err := labels.NewWriter(cfg.Output.LabelPath)
	if err != nil {
		return fmt.Errorf("failed to open label file: %w", err)
	}

	existing, err := scraper.LoadRecorded(cfg.Output.LabelPath)
	if err != nil {
		sink.Close()
		return fmt.Errorf("failed to read label file: %w", err)
	}

	client := dictionary.NewClient(cfg.Download.DownloadTimeout, cfg.Site.UserAgent, log)
	limiter := ratelimit.NewTokenBucket(cfg.Download.RequestsPerMinute, time.Minute)
	pool := downloader.NewPool(cfg.Download.Workers, client, store, limiter, log)

	nav := browser.NewNavigator(session, cfg, log)
	diag := browser.NewDiagnostics(cfg.Output.DebugDir, log)
	progress := ui.NewProgress()

	s := scraper.New(cfg, nav, pool, sink, diag, progress, log)
	s.Seed(existing)

	_, err = s.Run(ctx)
	return err
}
