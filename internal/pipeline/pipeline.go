package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"logoscan/internal/config"
	"logoscan/internal/model"
	"logoscan/internal/phash"
)

// Job carries one domain's state through the pipeline steps. Each step
// reads what earlier steps produced and fills in its own fields.
type Job struct {
	// Domain is the site being harvested (e.g. "acme.com").
	Domain string

	// Site holds per-site configuration overrides.
	Site config.SiteConfig

	// PageHTML is the fetched home page markup.
	PageHTML string

	// BaseURL is the final page URL after redirects; candidate URLs
	// resolve against it.
	BaseURL string

	// Candidates is the full ranking produced by the scorer.
	Candidates []model.RankedCandidate

	// Selected is the candidate chosen for download, nil until the
	// selection step runs.
	Selected *model.RankedCandidate

	// Logo describes the staged download.
	Logo model.StagedLogo

	// Hash is the logo's perceptual hash; valid only when Hashed.
	Hash   phash.Hash
	Hashed bool

	// Err records why the domain failed, set by the batch processor.
	Err error
}

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, each receiving the accumulated job.
//
// Design decision: We use an interface rather than function types
// because it allows steps to carry configuration state and provides a
// Name() method for logging.
type Step interface {
	// Do executes the pipeline step, modifying the job in place.
	Do(ctx context.Context, job *Job) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes steps in order for a single domain.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddSteps after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{steps: make([]Step, 0)}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddSteps appends steps to the pipeline in execution order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence for the job's domain.
// The pipeline stops at the first failing step: every later step depends
// on its predecessor's output, so continuing would only cascade errors.
//
// Design decision: We check context.Done() before each step rather than
// during, because steps handle their own timeouts via the HTTP client.
func (p *Pipeline) Execute(ctx context.Context, job *Job) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"domain", job.Domain,
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		start := time.Now()
		if err := step.Do(ctx, job); err != nil {
			p.logger.Debug("pipeline step failed",
				"domain", job.Domain,
				"step", step.Name(),
				"duration", time.Since(start),
				"error", err,
			)
			return fmt.Errorf("%s: %w", step.Name(), err)
		}
		p.logger.Debug("pipeline step completed",
			"domain", job.Domain,
			"step", step.Name(),
			"duration", time.Since(start),
		)
	}
	return nil
}
