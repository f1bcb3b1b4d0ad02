package downloader

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"signscraper/pkg/logger"
	"signscraper/pkg/ratelimit"
)

// Job represents a single video download task
type Job struct {
	ID  string
	URL string
}

// Result represents the outcome of a download job
type Result struct {
	Job      Job
	Success  bool
	Skipped  bool
	Error    error
	Duration time.Duration
	Size     int64
}

// VideoFetcher streams a video body from the site
type VideoFetcher interface {
	DownloadVideo(url string) (io.ReadCloser, error)
}

// VideoStorage persists videos and answers duplicate checks
type VideoStorage interface {
	IsDownloaded(id string) bool
	SaveVideo(r io.Reader, id string) (int64, error)
}

// Pool manages concurrent download workers. The buffered job queue bounds
// how far the navigation loop can run ahead of the workers.
type Pool struct {
	numWorkers  int
	jobQueue    chan Job
	resultQueue chan Result
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	client      VideoFetcher
	storage     VideoStorage
	rateLimiter ratelimit.Limiter
	logger      logger.Logger
}

// NewPool creates a new download worker pool
func NewPool(
	numWorkers int,
	client VideoFetcher,
	storage VideoStorage,
	rateLimiter ratelimit.Limiter,
	log logger.Logger,
) *Pool {
	ctx, cancel := context.WithCancel(context.Background())

	if log == nil {
		log = logger.GetLogger()
	}

	return &Pool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan Job, numWorkers*2), // Buffer size = 2x workers
		resultQueue: make(chan Result, numWorkers),
		ctx:         ctx,
		cancel:      cancel,
		client:      client,
		storage:     storage,
		rateLimiter: rateLimiter,
		logger:      log,
	}
}

// Start initializes and starts all workers
func (p *Pool) Start() {
	p.logger.InfoWithFields("Starting download pool", map[string]interface{}{
		"num_workers": p.numWorkers,
	})

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop closes the queue, waits for in-flight jobs to finish and closes the
// result channel.
func (p *Pool) Stop() {
	p.logger.Info("Stopping download pool...")

	close(p.jobQueue)
	p.wg.Wait()
	close(p.resultQueue)
	p.cancel()

	p.logger.Info("Download pool stopped")
}

// Submit adds a new download job to the queue, blocking when the queue is
// full. That backpressure is what keeps the navigator from racing ahead of
// the downloads.
func (p *Pool) Submit(job Job) error {
	// The job queue is closed once the pool stops; sending would panic
	select {
	case <-p.ctx.Done():
		return fmt.Errorf("download pool is shutting down")
	default:
	}

	select {
	case p.jobQueue <- job:
		p.logger.DebugWithFields("Job submitted to queue", map[string]interface{}{
			"id":  job.ID,
			"url": job.URL,
		})
		return nil
	case <-p.ctx.Done():
		return fmt.Errorf("download pool is shutting down")
	}
}

// Results returns the result channel for consuming download outcomes
func (p *Pool) Results() <-chan Result {
	return p.resultQueue
}

// worker is the main worker routine
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for job := range p.jobQueue {
		select {
		case <-p.ctx.Done():
			p.logger.DebugWithFields("Worker stopping - context cancelled", map[string]interface{}{
				"worker_id": id,
			})
			return
		default:
		}

		result := p.processJob(job, id)

		select {
		case p.resultQueue <- result:
		case <-p.ctx.Done():
			return
		}
	}
}

// processJob handles a single download job
func (p *Pool) processJob(job Job, workerID int) Result {
	start := time.Now()
	result := Result{Job: job}

	// Already on disk and non-empty: nothing to do, idempotent re-run
	if p.storage.IsDownloaded(job.ID) {
		p.logger.DebugWithFields("Video already downloaded", map[string]interface{}{
			"worker_id": workerID,
			"id":        job.ID,
		})
		result.Success = true
		result.Skipped = true
		result.Duration = time.Since(start)
		return result
	}

	if p.rateLimiter != nil && !p.rateLimiter.Allow() {
		p.logger.DebugWithFields("Worker waiting for rate limit", map[string]interface{}{
			"worker_id": workerID,
			"id":        job.ID,
		})
		p.rateLimiter.Wait()
	}

	body, err := p.client.DownloadVideo(job.URL)
	if err != nil {
		result.Error = fmt.Errorf("download failed: %w", err)
		result.Duration = time.Since(start)

		p.logger.ErrorWithFields("Worker failed to download video", map[string]interface{}{
			"worker_id": workerID,
			"id":        job.ID,
			"url":       job.URL,
			"error":     err.Error(),
		})

		return result
	}

	size, err := p.storage.SaveVideo(body, job.ID)
	body.Close()
	if err != nil {
		result.Error = fmt.Errorf("save failed: %w", err)
		result.Duration = time.Since(start)

		p.logger.ErrorWithFields("Worker failed to save video", map[string]interface{}{
			"worker_id": workerID,
			"id":        job.ID,
			"error":     err.Error(),
		})

		return result
	}

	result.Success = true
	result.Size = size
	result.Duration = time.Since(start)

	p.logger.DebugWithFields("Worker completed job", map[string]interface{}{
		"worker_id": workerID,
		"id":        job.ID,
		"size":      size,
		"duration":  result.Duration,
	})

	return result
}

// QueueSize returns the current number of jobs waiting in the queue
func (p *Pool) QueueSize() int {
	return len(p.jobQueue)
}

// NumWorkers returns the configured worker count
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}
