package scorer

import (
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"logoscan/internal/model"
)

// Heuristic scores. Values for the same candidate URL merge by maximum
// across heuristics; the image-element rules below combine additively
// within one element's evaluation before that merge.
const (
	scoreStructuredData  = 60
	scoreHomeLink        = 50
	scoreFavicon         = 10
	scoreOpenGraph       = 5
	scoreHeaderPlacement = 10
	scoreFooterPlacement = -30
	scoreKeywordMatch    = 20
	scoreDomainStem      = 20
	scoreAltText         = 10
	scoreNegativeKeyword = -50
)

// Signal labels attached to candidates. These strings appear verbatim in
// reports, so downstream consumers treat them as stable identifiers.
const (
	SignalStructuredData = "Schema.org Organization"
	SignalFavicon        = "Favicon/Touch Icon"
	SignalOpenGraph      = "OpenGraph Image"
	SignalHomeLink       = "Linked to Home"
	SignalHeader         = "In Header"
	SignalFooter         = "In Footer"
	SignalKeyword        = "Keyword Match (logo/brand)"
	SignalAltText        = "Alt text contains 'logo'"
	SignalNegative       = "Negative Keyword (partner/client)"
)

// Scorer ranks logo candidates for one site. It holds only the parsed
// base URL and the derived domain stem; all per-document state lives in
// the candidate set created by Analyze, so one Scorer may serve many
// documents sequentially.
type Scorer struct {
	base *url.URL
	stem string
}

// New creates a Scorer for the given base URL. A missing scheme defaults
// to https, matching how harvest lists name sites by bare domain.
func New(baseURL string) (*Scorer, error) {
	raw := strings.TrimSpace(baseURL)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		u, err = url.Parse("https://" + raw)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
		}
	}
	return &Scorer{base: u, stem: domainStem(u)}, nil
}

// Stem returns the domain stem used for filename matching, e.g. "acme"
// for https://www.acme.com.
func (s *Scorer) Stem() string {
	return s.stem
}

// Analyze scans the HTML document and returns candidates sorted by
// descending score. Ties keep first-discovery order so the ranking is
// deterministic across runs on identical input.
func (s *Scorer) Analyze(r io.Reader) ([]model.Candidate, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	set := newCandidateSet()

	// ogSeen limits the OpenGraph rule to the first og:image meta tag,
	// the one social previews actually use.
	ogSeen := false

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script":
				if getAttr(n, "type") == "application/ld+json" {
					for _, logo := range structuredDataLogos(textContent(n)) {
						s.upsert(set, logo, scoreStructuredData, SignalStructuredData)
					}
				}
			case "link":
				rel := strings.ToLower(getAttr(n, "rel"))
				if strings.Contains(rel, "icon") || strings.Contains(rel, "apple-touch-icon") {
					if href := getAttr(n, "href"); href != "" {
						s.upsert(set, href, scoreFavicon, SignalFavicon)
					}
				}
			case "meta":
				if !ogSeen && getAttr(n, "property") == "og:image" {
					if content := getAttr(n, "content"); content != "" {
						s.upsert(set, content, scoreOpenGraph, SignalOpenGraph)
						ogSeen = true
					}
				}
			case "img":
				s.scoreImage(set, n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	candidates := set.ordered()
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates, nil
}

// scoreImage evaluates one image element against the ordered rule list.
// Rule deltas are additive within the element; the combined score is then
// upserted with max-merge like any other heuristic result.
func (s *Scorer) scoreImage(set *candidateSet, n *html.Node) {
	src := getAttr(n, "src")
	if src == "" {
		return
	}
	normalized, ok := s.normalize(src)
	if !ok {
		return
	}

	img := newImageContext(n, src)
	img.resolvedURL = strings.ToLower(normalized)

	score := 0
	labels := make([]string, 0, len(imageRules))
	for _, rule := range imageRules {
		if delta, label, ok := rule(s, img); ok {
			score += delta
			labels = append(labels, label)
		}
	}

	set.add(normalized, score, labels)
}

// upsert normalizes the URL and records the detection. Unresolvable and
// non-http(s) URLs are silently dropped. An existing candidate keeps the
// maximum of the contributing scores and accumulates every label.
func (s *Scorer) upsert(set *candidateSet, rawURL string, score int, labels ...string) {
	normalized, ok := s.normalize(rawURL)
	if !ok {
		return
	}
	set.add(normalized, score, labels)
}

// normalize resolves a discovered URL against the base URL and reports
// whether the result is an http or https URL worth keeping.
func (s *Scorer) normalize(rawURL string) (string, bool) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", false
	}
	ref, err := url.Parse(trimmed)
	if err != nil {
		return "", false
	}
	resolved := s.base.ResolveReference(ref)
	scheme := strings.ToLower(resolved.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", false
	}
	return resolved.String(), true
}

// isHomeLink reports whether href points to the site root of the base
// URL: same network location and an empty, "/", or index path.
func (s *Scorer) isHomeLink(href string) bool {
	resolved, ok := s.normalize(href)
	if !ok {
		return false
	}
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	if !strings.EqualFold(u.Host, s.base.Host) {
		return false
	}
	switch u.Path {
	case "", "/", "/index.html", "/index.php":
		return true
	}
	return false
}

// domainStem extracts the first dot-separated label of the host after
// stripping a leading "www.", lowercased. "https://www.acme.com" -> "acme".
func domainStem(u *url.URL) string {
	host := strings.TrimPrefix(u.Host, "www.")
	return strings.ToLower(strings.Split(host, ".")[0])
}

// candidateSet accumulates candidates during one scoring pass, keyed by
// normalized URL and remembering first-discovery order.
type candidateSet struct {
	byURL map[string]*model.Candidate
	order []string
}

func newCandidateSet() *candidateSet {
	return &candidateSet{byURL: make(map[string]*model.Candidate)}
}

// add records a detection of the URL. The first detection sets the score
// directly (it may be negative); later detections raise it only if larger.
// Labels are deduplicated in insertion order.
func (cs *candidateSet) add(normalizedURL string, score int, labels []string) {
	c, exists := cs.byURL[normalizedURL]
	if !exists {
		c = &model.Candidate{URL: normalizedURL, Score: score}
		cs.byURL[normalizedURL] = c
		cs.order = append(cs.order, normalizedURL)
	} else if score > c.Score {
		c.Score = score
	}

	for _, label := range labels {
		if label == "" || contains(c.Signals, label) {
			continue
		}
		c.Signals = append(c.Signals, label)
	}
}

// ordered returns the candidates in first-discovery order.
func (cs *candidateSet) ordered() []model.Candidate {
	out := make([]model.Candidate, 0, len(cs.order))
	for _, u := range cs.order {
		out = append(out, *cs.byURL[u])
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val
		}
	}
	return ""
}

// textContent concatenates the text children of a node. Used for script
// bodies, which the parser stores as text nodes.
func textContent(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}
