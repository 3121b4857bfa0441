package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"logoscan/internal/config"
	"logoscan/internal/model"
)

// rankedFixture builds a ranked candidate list with the given scores,
// best first.
func rankedFixture(scores ...int) []model.RankedCandidate {
	candidates := make([]model.Candidate, 0, len(scores))
	for i, score := range scores {
		candidates = append(candidates, model.Candidate{
			URL:   fmt.Sprintf("https://acme.com/c%d.png", i),
			Score: score,
		})
	}
	return model.Rank(candidates)
}

// pngBytes encodes a small opaque image as PNG.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 0, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// testConfig returns a Config pointed at a temp data directory with no
// politeness delay, suitable for httptest-backed steps.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewConfig()
	cfg.DataDir = t.TempDir()
	cfg.FetchDelay = 0
	return cfg
}

func TestFetchPageStep(t *testing.T) {
	t.Parallel()

	t.Run("fetches and records base URL", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html><body></body></html>"))
		}))
		defer srv.Close()

		job := &Job{Domain: srv.URL}
		step := NewFetchPageStep(srv.Client(), testConfig(t))
		if err := step.Do(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(job.PageHTML, "<html>") {
			t.Errorf("PageHTML = %q", job.PageHTML)
		}
		if job.BaseURL != srv.URL+"/" && job.BaseURL != srv.URL {
			t.Errorf("BaseURL = %q", job.BaseURL)
		}
	})

	t.Run("site headers reach the server", func(t *testing.T) {
		t.Parallel()
		var gotCookie string
		srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			gotCookie = r.Header.Get("Cookie")
		}))
		defer srv.Close()

		job := &Job{
			Domain: srv.URL,
			Site:   config.SiteConfig{Cookie: "session=abc"},
		}
		if err := NewFetchPageStep(srv.Client(), testConfig(t)).Do(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotCookie != "session=abc" {
			t.Errorf("Cookie = %q", gotCookie)
		}
	})

	t.Run("unreachable site fails the step", func(t *testing.T) {
		t.Parallel()
		job := &Job{Domain: "http://127.0.0.1:1"}
		if err := NewFetchPageStep(http.DefaultClient, testConfig(t)).Do(context.Background(), job); err == nil {
			t.Error("expected error for unreachable site")
		}
	})
}

func TestScoreStep(t *testing.T) {
	t.Parallel()

	job := &Job{
		Domain:  "acme.com",
		BaseURL: "https://acme.com/",
		PageHTML: `<html><head><link rel="icon" href="/favicon.ico"></head>
			<body><a href="/"><img src="/acme-logo.png" alt="Acme logo"></a></body></html>`,
	}
	if err := NewScoreStep().Do(context.Background(), job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(job.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %+v", job.Candidates)
	}
	if job.Candidates[0].URL != "https://acme.com/acme-logo.png" {
		t.Errorf("top candidate = %+v", job.Candidates[0])
	}
	if job.Candidates[0].Rank != 1 {
		t.Errorf("top rank = %d", job.Candidates[0].Rank)
	}
}

func TestDownloadStep(t *testing.T) {
	t.Parallel()

	payload := []byte("image-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/logo.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(payload)
	}))
	t.Cleanup(srv.Close)

	t.Run("stages the selected logo", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig(t)
		job := &Job{
			Domain:   "acme.com",
			Selected: &model.RankedCandidate{Rank: 1, Candidate: model.Candidate{URL: srv.URL + "/logo.png"}},
		}
		if err := NewDownloadStep(srv.Client(), cfg).Do(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if job.Logo.Domain != "acme.com" || job.Logo.SourceURL != srv.URL+"/logo.png" {
			t.Errorf("Logo = %+v", job.Logo)
		}
		if job.Logo.ContentHash == "" {
			t.Error("ContentHash not recorded")
		}
		if job.Logo.FetchedAt.IsZero() {
			t.Error("FetchedAt not recorded")
		}
		data, err := os.ReadFile(job.Logo.LocalPath) //nolint:gosec // Test-owned path
		if err != nil {
			t.Fatalf("staged file unreadable: %v", err)
		}
		if !bytes.Equal(data, payload) {
			t.Error("staged bytes differ")
		}
		if filepath.Dir(job.Logo.LocalPath) != cfg.StagingDir() {
			t.Errorf("staged outside staging dir: %q", job.Logo.LocalPath)
		}
	})

	t.Run("missing image fails the step", func(t *testing.T) {
		t.Parallel()
		job := &Job{
			Domain:   "acme.com",
			Selected: &model.RankedCandidate{Candidate: model.Candidate{URL: srv.URL + "/absent.png"}},
		}
		if err := NewDownloadStep(srv.Client(), testConfig(t)).Do(context.Background(), job); err == nil {
			t.Error("expected error for 404 image")
		}
	})
}

func TestHashStep(t *testing.T) {
	t.Parallel()

	t.Run("hashes a decodable image", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "logo.png")
		if err := os.WriteFile(path, pngBytes(t), 0600); err != nil {
			t.Fatal(err)
		}

		job := &Job{Domain: "acme.com", Logo: model.StagedLogo{LocalPath: path}}
		if err := NewHashStep().Do(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !job.Hashed {
			t.Fatal("job not marked hashed")
		}
		if job.Logo.PerceptualHash != job.Hash.String() {
			t.Errorf("PerceptualHash = %q, hash = %q", job.Logo.PerceptualHash, job.Hash.String())
		}
	})

	t.Run("unsupported format leaves the job unhashed without error", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "logo.svg")
		if err := os.WriteFile(path, []byte("<svg/>"), 0600); err != nil {
			t.Fatal(err)
		}

		job := &Job{Domain: "acme.com", Logo: model.StagedLogo{LocalPath: path}}
		if err := NewHashStep().Do(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if job.Hashed || job.Logo.PerceptualHash != "" {
			t.Errorf("SVG should stay unhashed: %+v", job)
		}
	})

	t.Run("missing file fails the step", func(t *testing.T) {
		t.Parallel()
		job := &Job{Domain: "acme.com", Logo: model.StagedLogo{LocalPath: filepath.Join(t.TempDir(), "gone.png")}}
		if err := NewHashStep().Do(context.Background(), job); err == nil {
			t.Error("expected error for missing staged file")
		}
	})
}

func TestBatchProcessor(t *testing.T) {
	t.Parallel()

	t.Run("all domains processed", func(t *testing.T) {
		t.Parallel()
		var trace []string
		factory := func(domain string) (*Pipeline, *Job) {
			p := New()
			p.AddSteps(&recordStep{name: domain, trace: &trace})
			return p, &Job{Domain: domain}
		}

		// Concurrency 1 keeps the shared trace race-free.
		bp := NewBatchProcessor(factory, WithConcurrency(1))
		jobs, err := bp.ProcessBatch(context.Background(), []string{"a.com", "b.com", "c.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(jobs) != 3 || len(trace) != 3 {
			t.Errorf("jobs = %d, trace = %v", len(jobs), trace)
		}
	})

	t.Run("failures recorded without stopping the batch", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		factory := func(domain string) (*Pipeline, *Job) {
			p := New()
			var sink []string
			step := &recordStep{name: domain, trace: &sink}
			if domain == "bad.com" {
				step.fail = boom
			}
			p.AddSteps(step)
			return p, &Job{Domain: domain}
		}

		bp := NewBatchProcessor(factory, WithConcurrency(2))
		jobs, err := bp.ProcessBatch(context.Background(), []string{"good.com", "bad.com"})
		if err != nil {
			t.Fatalf("unexpected batch error: %v", err)
		}
		if len(jobs) != 2 {
			t.Fatalf("expected 2 jobs, got %d", len(jobs))
		}

		var failed, ok int
		for _, job := range jobs {
			if job.Err != nil {
				failed++
				if !errors.Is(job.Err, boom) {
					t.Errorf("job.Err = %v", job.Err)
				}
			} else {
				ok++
			}
		}
		if failed != 1 || ok != 1 {
			t.Errorf("failed = %d, ok = %d", failed, ok)
		}
	})

	t.Run("skip flag excludes the domain", func(t *testing.T) {
		t.Parallel()
		factory := func(domain string) (*Pipeline, *Job) {
			p := New()
			job := &Job{Domain: domain}
			if domain == "skipped.example" {
				job.Site = config.SiteConfig{Skip: true}
			}
			return p, job
		}

		bp := NewBatchProcessor(factory)
		jobs, err := bp.ProcessBatch(context.Background(), []string{"a.com", "skipped.example"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, job := range jobs {
			if job.Domain == "skipped.example" {
				t.Error("skipped domain appeared in results")
			}
		}
	})

	t.Run("cancelled context aborts the batch", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		factory := func(domain string) (*Pipeline, *Job) {
			p := New()
			var sink []string
			p.AddSteps(&recordStep{name: domain, trace: &sink})
			return p, &Job{Domain: domain}
		}

		bp := NewBatchProcessor(factory)
		_, err := bp.ProcessBatch(ctx, []string{"a.com", "b.com"})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})
}
