package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. These are chosen for polite harvesting
// of ordinary company websites.
const (
	// DefaultTimeout is the per-request connection timeout. Company
	// sites behind slow CDNs still answer well inside 30 seconds.
	DefaultTimeout = 30 * time.Second

	// DefaultFetchDelay is the politeness pause between requests to the
	// same site. One second keeps the harvester well below any rate
	// limit a brochure site would notice.
	DefaultFetchDelay = 1 * time.Second

	// DefaultConcurrency is the number of domains fetched in parallel.
	// Each domain gets at most two requests (page + image), so ten
	// parallel domains stays gentle on the local network.
	DefaultConcurrency = 10

	// DefaultMaxBodySize limits response bodies to 5MB. That covers any
	// reasonable page or logo while bounding memory per download.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// DefaultThreshold is the inclusive Hamming distance bound for
	// clustering, in bits out of 64.
	DefaultThreshold = 8

	// DefaultMinScore is the minimum candidate score required before a
	// logo is downloaded. Zero accepts any non-negative ranking winner;
	// candidates that only collected penalties are never staged.
	DefaultMinScore = 0

	// DefaultUserAgent identifies logoscan in HTTP requests so site
	// operators can recognize harvester traffic in their logs.
	DefaultUserAgent = "logoscan/1.0 (brand logo harvester)"

	// DefaultPreviewAddr is the listen address of the preview gallery.
	DefaultPreviewAddr = "127.0.0.1:8480"

	// DefaultThumbnailSize is the pixel bound of preview thumbnails.
	DefaultThumbnailSize = 64

	// AppName is the application name used for XDG directory paths.
	AppName = "logoscan"
)

// Config holds all configuration options for logoscan.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is manageable, and nesting would
// add complexity without significant benefit.
type Config struct {
	// Targets is the list of domains to harvest logos from.
	Targets []string

	// Timeout is the connection timeout for each HTTP request.
	Timeout time.Duration

	// FetchDelay is the delay between requests to one site.
	FetchDelay time.Duration

	// Concurrency is the number of domains processed in parallel.
	Concurrency int

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// Threshold is the inclusive Hamming distance bound for clustering.
	// Valid range is 0 through 64 bits.
	Threshold int

	// MinScore is the minimum score the top candidate must reach before
	// its image is downloaded.
	MinScore int

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// DataDir is where staged logos, the manifest, and the database
	// live. Defaults to the XDG data directory.
	DataDir string

	// SaveToDB enables the SQLite stage database alongside the CSV
	// manifest.
	SaveToDB bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONReport enables JSON report output instead of text.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of text.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report. When set, the
	// report is written to this file instead of stdout.
	ReportFile string

	// ConfigFilePath is the path to the configuration file. If empty,
	// the tool searches for .logoscan in the current directory and then
	// in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds per-site overrides loaded from the config file.
	SiteConfigs *File
}

// NewConfig creates a new Config with default values.
//
// Design decision: A constructor function instead of relying on zero
// values because many defaults are non-zero, and this documents them.
func NewConfig() *Config {
	return &Config{
		Timeout:     DefaultTimeout,
		FetchDelay:  DefaultFetchDelay,
		Concurrency: DefaultConcurrency,
		MaxBodySize: DefaultMaxBodySize,
		Threshold:   DefaultThreshold,
		MinScore:    DefaultMinScore,
		UserAgent:   DefaultUserAgent,
		DataDir:     XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for logoscan.
// On Linux: ~/.local/share/logoscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for logoscan.
// On Linux: ~/.config/logoscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// StagingDir returns the directory staged logo images are written to.
func (c *Config) StagingDir() string {
	return filepath.Join(c.DataDir, "staged")
}

// ManifestPath returns the path of the staged-logo manifest.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.DataDir, "staged-logos.csv")
}

// Validate checks if the configuration is valid. It returns a specific
// sentinel error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// The first error found is returned; fixing one error often makes
// others irrelevant.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.Threshold < 0 || c.Threshold > 64 {
		return ErrInvalidThreshold
	}
	if c.FetchDelay < 0 {
		return ErrInvalidFetchDelay
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
