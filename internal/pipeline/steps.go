package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"logoscan/internal/config"
	"logoscan/internal/fetch"
	"logoscan/internal/imaging"
	"logoscan/internal/model"
	"logoscan/internal/phash"
	"logoscan/internal/scorer"
)

// ErrNoCandidate is returned by the selection step when no candidate
// reaches the minimum score.
var ErrNoCandidate = errors.New("no logo candidate above minimum score")

// FetchPageStep downloads the domain's home page for scoring.
type FetchPageStep struct {
	// client is the shared HTTP client.
	client *http.Client

	// cfg supplies politeness settings.
	cfg *config.Config
}

// NewFetchPageStep creates the page-fetching step.
func NewFetchPageStep(client *http.Client, cfg *config.Config) *FetchPageStep {
	return &FetchPageStep{client: client, cfg: cfg}
}

// Name returns the step name.
func (s *FetchPageStep) Name() string {
	return "fetch_page"
}

// Do fetches the home page and records the post-redirect base URL.
func (s *FetchPageStep) Do(ctx context.Context, job *Job) error {
	fetcher := s.fetcher(job)

	pageURL := job.Domain
	if !strings.Contains(pageURL, "://") {
		pageURL = "https://" + pageURL
	}

	body, finalURL, err := fetcher.FetchPage(ctx, pageURL)
	if err != nil {
		return err
	}
	job.PageHTML = body
	job.BaseURL = finalURL
	return nil
}

// fetcher builds a per-job fetcher so site-specific headers apply.
func (s *FetchPageStep) fetcher(job *Job) *fetch.Fetcher {
	return fetch.New(s.client,
		fetch.WithUserAgent(s.cfg.UserAgent),
		fetch.WithMaxBodySize(s.cfg.MaxBodySize),
		fetch.WithDelay(s.cfg.FetchDelay),
		fetch.WithHeaders(job.Site.RequestHeaders()),
	)
}

// ScoreStep runs the candidate scorer over the fetched page.
type ScoreStep struct{}

// NewScoreStep creates the scoring step.
func NewScoreStep() *ScoreStep {
	return &ScoreStep{}
}

// Name returns the step name.
func (s *ScoreStep) Name() string {
	return "score_candidates"
}

// Do ranks the page's logo candidates.
func (s *ScoreStep) Do(_ context.Context, job *Job) error {
	sc, err := scorer.New(job.BaseURL)
	if err != nil {
		return err
	}
	candidates, err := sc.Analyze(strings.NewReader(job.PageHTML))
	if err != nil {
		return err
	}
	job.Candidates = model.Rank(candidates)
	return nil
}

// SelectStep picks the candidate to download: a configured override URL
// wins outright, otherwise the top-ranked candidate at or above the
// minimum score.
type SelectStep struct {
	// minScore is the lowest acceptable winning score.
	minScore int
}

// NewSelectStep creates the selection step.
func NewSelectStep(minScore int) *SelectStep {
	return &SelectStep{minScore: minScore}
}

// Name returns the step name.
func (s *SelectStep) Name() string {
	return "select_candidate"
}

// Do chooses the winning candidate.
func (s *SelectStep) Do(_ context.Context, job *Job) error {
	if job.Site.LogoURL != "" {
		job.Selected = &model.RankedCandidate{
			Rank:      0,
			Candidate: model.Candidate{URL: job.Site.LogoURL, Signals: []string{"Configured override"}},
		}
		return nil
	}

	if len(job.Candidates) == 0 {
		return fmt.Errorf("%s: %w", job.Domain, ErrNoCandidate)
	}
	top := job.Candidates[0]
	if top.Score < s.minScore {
		return fmt.Errorf("%s: top score %d below %d: %w", job.Domain, top.Score, s.minScore, ErrNoCandidate)
	}
	job.Selected = &top
	return nil
}

// DownloadStep stages the selected logo on local disk.
type DownloadStep struct {
	client *http.Client
	cfg    *config.Config
}

// NewDownloadStep creates the download step.
func NewDownloadStep(client *http.Client, cfg *config.Config) *DownloadStep {
	return &DownloadStep{client: client, cfg: cfg}
}

// Name returns the step name.
func (s *DownloadStep) Name() string {
	return "download_logo"
}

// Do downloads the selected image into the staging directory.
func (s *DownloadStep) Do(ctx context.Context, job *Job) error {
	fetcher := fetch.New(s.client,
		fetch.WithUserAgent(s.cfg.UserAgent),
		fetch.WithMaxBodySize(s.cfg.MaxBodySize),
		fetch.WithDelay(s.cfg.FetchDelay),
		fetch.WithHeaders(job.Site.RequestHeaders()),
	)

	localPath, contentHash, err := fetcher.Download(ctx, job.Selected.URL, s.cfg.StagingDir())
	if err != nil {
		return err
	}
	job.Logo = model.StagedLogo{
		Domain:      job.Domain,
		SourceURL:   job.Selected.URL,
		LocalPath:   localPath,
		ContentHash: contentHash,
		FetchedAt:   time.Now().UTC(),
	}
	return nil
}

// HashStep computes the perceptual hash of the staged logo. A logo that
// cannot be decoded (e.g. SVG) leaves the job unhashed without failing
// it; the domain still reaches the manifest, it just never enters
// clustering input.
type HashStep struct{}

// NewHashStep creates the hashing step.
func NewHashStep() *HashStep {
	return &HashStep{}
}

// Name returns the step name.
func (s *HashStep) Name() string {
	return "hash_logo"
}

// Do decodes the staged file and records its hash.
func (s *HashStep) Do(_ context.Context, job *Job) error {
	img, err := imaging.Load(job.Logo.LocalPath)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			return nil
		}
		return err
	}
	job.Hash = phash.FromImage(img)
	job.Hashed = true
	job.Logo.PerceptualHash = job.Hash.String()
	return nil
}
