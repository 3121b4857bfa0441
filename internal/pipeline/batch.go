package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// BatchProcessor handles concurrent harvesting of multiple domains.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: A separate BatchProcessor rather than batch support
// inside Pipeline keeps the Pipeline focused on single-domain execution
// and leaves room for batch strategies like retries.
type BatchProcessor struct {
	// pipelineFactory creates a fresh pipeline and job for each domain.
	// A factory ensures no pipeline state leaks between domains and
	// lets the caller wire per-site configuration into the job.
	pipelineFactory func(domain string) (*Pipeline, *Job)

	// concurrency is the maximum number of domains in flight.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed jobs. Access is synchronized via mutex.
	results []*Job
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent domains.
// Default is 10 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory func(domain string) (*Pipeline, *Job), opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     10,
		results:         make([]*Job, 0),
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessBatch harvests multiple domains concurrently.
//
// Design decision: errgroup.SetLimit rather than a worker pool because
// it is simpler and handles the concurrency limit correctly. Each domain
// gets its own goroutine, but only 'concurrency' run simultaneously.
//
// Every job is returned, including failed ones with Err set; the error
// return is non-nil only when the context was cancelled.
func (b *BatchProcessor) ProcessBatch(ctx context.Context, domains []string) ([]*Job, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for _, domain := range domains {
		domain := domain
		g.Go(func() error {
			p, job := b.pipelineFactory(domain)
			if job.Site.Skip {
				b.logger.Debug("domain skipped by config", "domain", domain)
				return nil
			}

			if err := p.Execute(gctx, job); err != nil {
				job.Err = err
				b.logger.Warn("domain failed", "domain", domain, "error", err)
				// The failure is recorded on the job; returning an
				// error here would cancel the remaining domains.
				if gctx.Err() != nil {
					return gctx.Err()
				}
			}

			b.mu.Lock()
			b.results = append(b.results, job)
			b.mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	return b.results, err
}
