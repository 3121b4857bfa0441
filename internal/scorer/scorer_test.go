package scorer

import (
	"reflect"
	"strings"
	"testing"

	"logoscan/internal/model"
)

// analyze is a test helper that runs Analyze over a markup string.
func analyze(t *testing.T, baseURL, markup string) []model.Candidate {
	t.Helper()
	s, err := New(baseURL)
	if err != nil {
		t.Fatalf("New(%q) returned error: %v", baseURL, err)
	}
	candidates, err := s.Analyze(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	return candidates
}

// findCandidate returns the candidate with the given URL, failing the
// test when it is absent.
func findCandidate(t *testing.T, candidates []model.Candidate, url string) model.Candidate {
	t.Helper()
	for _, c := range candidates {
		if c.URL == url {
			return c
		}
	}
	t.Fatalf("candidate %q not found in %v", url, candidates)
	return model.Candidate{}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("bare domain defaults to https", func(t *testing.T) {
		t.Parallel()
		s, err := New("acme.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.base.Scheme != "https" {
			t.Errorf("expected scheme https, got %s", s.base.Scheme)
		}
		if s.base.Host != "acme.com" {
			t.Errorf("expected host acme.com, got %s", s.base.Host)
		}
	})

	t.Run("explicit http scheme is kept", func(t *testing.T) {
		t.Parallel()
		s, err := New("http://acme.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.base.Scheme != "http" {
			t.Errorf("expected scheme http, got %s", s.base.Scheme)
		}
	})

	t.Run("stem strips www and TLD", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			baseURL string
			want    string
		}{
			{"https://www.acme.com", "acme"},
			{"https://acme.co.uk", "acme"},
			{"GLOBEX.example", "globex"},
			{"https://www.Initech.com/about", "initech"},
		}
		for _, tt := range tests {
			tt := tt
			s, err := New(tt.baseURL)
			if err != nil {
				t.Fatalf("New(%q) returned error: %v", tt.baseURL, err)
			}
			if got := s.Stem(); got != tt.want {
				t.Errorf("Stem() for %q = %q, want %q", tt.baseURL, got, tt.want)
			}
		}
	})
}

func TestAnalyzeHeuristics(t *testing.T) {
	t.Parallel()

	t.Run("structured data logo scores 60", func(t *testing.T) {
		t.Parallel()
		markup := `<html><head><script type="application/ld+json">
			{"@type": "Organization", "logo": "https://acme.com/brandmark.png"}
		</script></head></html>`
		candidates := analyze(t, "acme.com", markup)
		c := findCandidate(t, candidates, "https://acme.com/brandmark.png")
		if c.Score != 60 {
			t.Errorf("expected score 60, got %d", c.Score)
		}
		if !reflect.DeepEqual(c.Signals, []string{SignalStructuredData}) {
			t.Errorf("unexpected signals: %v", c.Signals)
		}
	})

	t.Run("favicon link scores 10", func(t *testing.T) {
		t.Parallel()
		markup := `<html><head>
			<link rel="icon" href="/favicon.ico">
			<link rel="apple-touch-icon" href="/touch.png">
			<link rel="stylesheet" href="/style.css">
		</head></html>`
		candidates := analyze(t, "acme.com", markup)
		c := findCandidate(t, candidates, "https://acme.com/favicon.ico")
		if c.Score != 10 {
			t.Errorf("expected score 10, got %d", c.Score)
		}
		findCandidate(t, candidates, "https://acme.com/touch.png")
		for _, cand := range candidates {
			if strings.HasSuffix(cand.URL, "style.css") {
				t.Errorf("stylesheet link must not become a candidate: %v", cand)
			}
		}
	})

	t.Run("only first og:image counts", func(t *testing.T) {
		t.Parallel()
		markup := `<html><head>
			<meta property="og:image" content="/social.png">
			<meta property="og:image" content="/second.png">
		</head></html>`
		candidates := analyze(t, "acme.com", markup)
		c := findCandidate(t, candidates, "https://acme.com/social.png")
		if c.Score != 5 {
			t.Errorf("expected score 5, got %d", c.Score)
		}
		if len(candidates) != 1 {
			t.Errorf("expected 1 candidate, got %d: %v", len(candidates), candidates)
		}
	})

	t.Run("home-linked stem image accumulates rule scores", func(t *testing.T) {
		t.Parallel()
		markup := `<html><body>
			<a href="/"><img src="/acme-logo.png" alt="Acme logo"></a>
		</body></html>`
		candidates := analyze(t, "acme.com", markup)
		c := findCandidate(t, candidates, "https://acme.com/acme-logo.png")
		if c.Score != 100 {
			t.Errorf("expected score 100 (50+20+20+10), got %d", c.Score)
		}
		want := []string{
			SignalHomeLink,
			SignalKeyword,
			"Filename matches domain 'acme'",
			SignalAltText,
		}
		if !reflect.DeepEqual(c.Signals, want) {
			t.Errorf("signals = %v, want %v", c.Signals, want)
		}
	})

	t.Run("generic on-site filename earns the stem bonus", func(t *testing.T) {
		t.Parallel()
		markup := `<html><body>
			<a href="/"><img src="/logo.png" alt="Acme logo"></a>
		</body></html>`
		candidates := analyze(t, "https://acme.com", markup)
		c := findCandidate(t, candidates, "https://acme.com/logo.png")
		if c.Score != 100 {
			t.Errorf("expected score 100 (50+20+20+10), got %d", c.Score)
		}
		want := []string{
			SignalHomeLink,
			SignalKeyword,
			"Filename matches domain 'acme'",
			SignalAltText,
		}
		if !reflect.DeepEqual(c.Signals, want) {
			t.Errorf("signals = %v, want %v", c.Signals, want)
		}
	})

	// The placement and negative-keyword cases below host their images
	// off-site so the domain-stem rule stays quiet and each heuristic is
	// observed in isolation.

	t.Run("header placement adds 10", func(t *testing.T) {
		t.Parallel()
		markup := `<html><body><header><img src="https://cdn.example/mark.png"></header></body></html>`
		candidates := analyze(t, "acme.com", markup)
		c := findCandidate(t, candidates, "https://cdn.example/mark.png")
		if c.Score != 10 {
			t.Errorf("expected score 10, got %d", c.Score)
		}
	})

	t.Run("footer placement can go negative", func(t *testing.T) {
		t.Parallel()
		markup := `<html><body><footer><img src="https://cdn.example/badge.png"></footer></body></html>`
		candidates := analyze(t, "acme.com", markup)
		c := findCandidate(t, candidates, "https://cdn.example/badge.png")
		if c.Score != -30 {
			t.Errorf("expected score -30, got %d", c.Score)
		}
		if !reflect.DeepEqual(c.Signals, []string{SignalFooter}) {
			t.Errorf("unexpected signals: %v", c.Signals)
		}
	})

	t.Run("partner image is penalized", func(t *testing.T) {
		t.Parallel()
		markup := `<html><body>
			<div class="partner-strip"><img src="https://cdn.example/visa.png"></div>
		</body></html>`
		candidates := analyze(t, "acme.com", markup)
		c := findCandidate(t, candidates, "https://cdn.example/visa.png")
		if c.Score != -50 {
			t.Errorf("expected score -50, got %d", c.Score)
		}
	})

	t.Run("negative keyword on the image outweighs alt logo", func(t *testing.T) {
		t.Parallel()
		markup := `<html><body>
			<img src="https://cdn.example/sponsor-logo.png" alt="sponsor logo">
		</body></html>`
		candidates := analyze(t, "acme.com", markup)
		// keyword +20, alt +10, negative -50
		c := findCandidate(t, candidates, "https://cdn.example/sponsor-logo.png")
		if c.Score != -20 {
			t.Errorf("expected score -20, got %d", c.Score)
		}
	})
}

func TestAnalyzeMerging(t *testing.T) {
	t.Parallel()

	t.Run("same URL across heuristics keeps max score and all signals", func(t *testing.T) {
		t.Parallel()
		markup := `<html><head>
			<link rel="icon" href="/logo.png">
			<meta property="og:image" content="/logo.png">
		</head></html>`
		candidates := analyze(t, "acme.com", markup)
		if len(candidates) != 1 {
			t.Fatalf("expected 1 merged candidate, got %d", len(candidates))
		}
		c := candidates[0]
		if c.Score != 10 {
			t.Errorf("expected max-merged score 10, got %d", c.Score)
		}
		want := []string{SignalFavicon, SignalOpenGraph}
		if !reflect.DeepEqual(c.Signals, want) {
			t.Errorf("signals = %v, want %v", c.Signals, want)
		}
	})

	t.Run("lower later score does not reduce", func(t *testing.T) {
		t.Parallel()
		markup := `<html><head>
			<script type="application/ld+json">{"@type":"Organization","logo":"/logo.png"}</script>
			<meta property="og:image" content="/logo.png">
		</head></html>`
		candidates := analyze(t, "acme.com", markup)
		c := findCandidate(t, candidates, "https://acme.com/logo.png")
		if c.Score != 60 {
			t.Errorf("expected score to stay at 60, got %d", c.Score)
		}
	})

	t.Run("duplicate signal labels are not repeated", func(t *testing.T) {
		t.Parallel()
		markup := `<html><head>
			<link rel="icon" href="/favicon.ico">
			<link rel="shortcut icon" href="/favicon.ico">
		</head></html>`
		candidates := analyze(t, "acme.com", markup)
		c := findCandidate(t, candidates, "https://acme.com/favicon.ico")
		if !reflect.DeepEqual(c.Signals, []string{SignalFavicon}) {
			t.Errorf("signals = %v, want single favicon label", c.Signals)
		}
	})
}

func TestAnalyzeNormalization(t *testing.T) {
	t.Parallel()

	t.Run("relative URLs resolve against the base", func(t *testing.T) {
		t.Parallel()
		markup := `<html><head><link rel="icon" href="assets/icon.png"></head></html>`
		candidates := analyze(t, "https://acme.com/about/", markup)
		findCandidate(t, candidates, "https://acme.com/about/assets/icon.png")
	})

	t.Run("data and javascript URLs are dropped", func(t *testing.T) {
		t.Parallel()
		markup := `<html><body>
			<img src="data:image/png;base64,iVBORw0KGgo=">
			<a href="/"><img src="javascript:void(0)"></a>
		</body></html>`
		candidates := analyze(t, "acme.com", markup)
		if len(candidates) != 0 {
			t.Errorf("expected no candidates, got %v", candidates)
		}
	})

	t.Run("protocol-relative URL inherits base scheme", func(t *testing.T) {
		t.Parallel()
		markup := `<html><head><link rel="icon" href="//cdn.acme.com/icon.png"></head></html>`
		candidates := analyze(t, "acme.com", markup)
		findCandidate(t, candidates, "https://cdn.acme.com/icon.png")
	})
}

func TestAnalyzeOrdering(t *testing.T) {
	t.Parallel()

	t.Run("candidates sort by descending score", func(t *testing.T) {
		t.Parallel()
		markup := `<html><head>
			<meta property="og:image" content="/social.png">
			<link rel="icon" href="/favicon.ico">
			<script type="application/ld+json">{"@type":"Organization","logo":"/brand.png"}</script>
		</head></html>`
		candidates := analyze(t, "acme.com", markup)
		want := []string{
			"https://acme.com/brand.png",
			"https://acme.com/favicon.ico",
			"https://acme.com/social.png",
		}
		if len(candidates) != len(want) {
			t.Fatalf("expected %d candidates, got %d", len(want), len(candidates))
		}
		for i, u := range want {
			if candidates[i].URL != u {
				t.Errorf("rank %d = %s, want %s", i, candidates[i].URL, u)
			}
		}
	})

	t.Run("equal scores keep discovery order", func(t *testing.T) {
		t.Parallel()
		markup := `<html><head>
			<link rel="icon" href="/first.ico">
			<link rel="icon" href="/second.ico">
		</head></html>`
		for i := 0; i < 10; i++ {
			candidates := analyze(t, "acme.com", markup)
			if candidates[0].URL != "https://acme.com/first.ico" {
				t.Fatalf("tie-break order changed: %v", candidates)
			}
		}
	})
}

func TestIsHomeLink(t *testing.T) {
	t.Parallel()

	s, err := New("https://acme.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		href string
		want bool
	}{
		{"/", true},
		{"", false}, // empty href never normalizes
		{"/index.html", true},
		{"/index.php", true},
		{"https://acme.com", true},
		{"https://acme.com/", true},
		{"https://ACME.com/", true},
		{"/about", false},
		{"https://other.com/", false},
		{"mailto:info@acme.com", false},
	}
	for _, tt := range tests {
		tt := tt
		if got := s.isHomeLink(tt.href); got != tt.want {
			t.Errorf("isHomeLink(%q) = %v, want %v", tt.href, got, tt.want)
		}
	}
}

func TestAnalyzeMalformedInput(t *testing.T) {
	t.Parallel()

	t.Run("truncated markup still yields candidates", func(t *testing.T) {
		t.Parallel()
		markup := `<html><head><link rel="icon" href="/favicon.ico"><body><div><img src=`
		candidates := analyze(t, "acme.com", markup)
		findCandidate(t, candidates, "https://acme.com/favicon.ico")
	})

	t.Run("empty document yields no candidates", func(t *testing.T) {
		t.Parallel()
		candidates := analyze(t, "acme.com", "")
		if len(candidates) != 0 {
			t.Errorf("expected no candidates, got %v", candidates)
		}
	})
}
