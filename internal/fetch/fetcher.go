// Package fetch retrieves pages for scoring and stages selected logo
// images on local disk.
//
// All network I/O of the harvest lives here; the scorer and the
// clustering engine never touch the network themselves.
package fetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/sha3"
)

// Fetcher downloads pages and images with politeness settings applied.
//
// Design decision: We require an external http.Client rather than
// creating one internally because timeout and transport configuration
// belong to the caller, and tests can inject an httptest client.
type Fetcher struct {
	// client is the HTTP client used for all requests.
	client *http.Client

	// userAgent identifies logoscan in request headers. Site operators
	// should be able to spot harvester traffic in their logs.
	userAgent string

	// maxBodySize limits how much of a response body is read.
	maxBodySize int64

	// delay is the pause before each request to the same site.
	delay time.Duration

	// headers are extra request headers, e.g. from a per-site config.
	headers map[string]string

	// lastRequest tracks when the previous request finished, for delay.
	lastRequest time.Time
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size in bytes.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// WithDelay sets the politeness delay between requests.
func WithDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.delay = d
	}
}

// WithHeaders sets extra request headers sent with every request, such
// as a cookie for sites that gate their pages.
func WithHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		f.headers = headers
	}
}

// New creates a Fetcher using the given HTTP client.
func New(client *http.Client, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      client,
		userAgent:   "logoscan/1.0 (+logo harvest; contact site owner via repo)",
		maxBodySize: 5 * 1024 * 1024, // 5MB
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchPage downloads the page at pageURL and returns its body together
// with the final URL after redirects, which becomes the base URL for
// candidate scoring.
func (f *Fetcher) FetchPage(ctx context.Context, pageURL string) (body string, finalURL string, err error) {
	resp, err := f.get(ctx, pageURL)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close() //nolint:errcheck // Body already fully read

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("fetch %s: unexpected status %d", pageURL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", pageURL, err)
	}
	return string(data), resp.Request.URL.String(), nil
}

// Download retrieves the image at imageURL into destDir and returns the
// staged file path with the hex SHA3-256 digest of its contents. Files
// are named by digest, so byte-identical logos downloaded from different
// domains collapse to a single staged file.
func (f *Fetcher) Download(ctx context.Context, imageURL, destDir string) (localPath, contentHash string, err error) {
	resp, err := f.get(ctx, imageURL)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close() //nolint:errcheck // Body already fully read

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("download %s: unexpected status %d", imageURL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", imageURL, err)
	}
	if len(data) == 0 {
		return "", "", fmt.Errorf("download %s: empty body", imageURL)
	}

	digest := fmt.Sprintf("%x", sha3.Sum256(data))
	name := digest + fileExtension(imageURL, resp.Header.Get("Content-Type"))
	localPath = filepath.Join(destDir, name)

	// An existing file with the same digest is the same bytes.
	if _, statErr := os.Stat(localPath); statErr == nil {
		return localPath, digest, nil
	}

	if err := os.MkdirAll(destDir, 0750); err != nil {
		return "", "", fmt.Errorf("create staging directory: %w", err)
	}
	if err := os.WriteFile(localPath, data, 0600); err != nil {
		return "", "", fmt.Errorf("stage %s: %w", imageURL, err)
	}
	return localPath, digest, nil
}

// get performs one GET request with politeness delay and headers applied.
func (f *Fetcher) get(ctx context.Context, rawURL string) (*http.Response, error) {
	if f.delay > 0 {
		if wait := f.delay - time.Since(f.lastRequest); wait > 0 {
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	f.lastRequest = time.Now()
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	return resp, nil
}

// fileExtension picks a file extension for the staged image, preferring
// the URL path and falling back to the Content-Type header.
func fileExtension(imageURL, contentType string) string {
	if ext := strings.ToLower(path.Ext(strings.SplitN(imageURL, "?", 2)[0])); ext != "" && len(ext) <= 5 {
		return ext
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mediaType {
		case "image/png":
			return ".png"
		case "image/jpeg":
			return ".jpg"
		case "image/gif":
			return ".gif"
		case "image/webp":
			return ".webp"
		case "image/bmp":
			return ".bmp"
		case "image/svg+xml":
			return ".svg"
		case "image/x-icon", "image/vnd.microsoft.icon":
			return ".ico"
		}
	}
	return ".img"
}
