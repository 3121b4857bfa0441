package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"logoscan/internal/config"
	"logoscan/internal/fetch"
	"logoscan/internal/model"
	"logoscan/internal/scorer"
)

// NewExtractCmd creates the extract command.
func NewExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <url-or-domain>",
		Short: "Rank logo candidates found in a page's markup",
		Long: `Extract scans one page's HTML and ranks candidate logo URLs by how
likely each is to be the real brand mark, using structured data, icon
links, the OpenGraph image, and per-image placement and keyword signals.

By default the page is fetched over HTTP. With --input the HTML is read
from a file (or stdin with "-") and the positional argument serves only
as the base URL for resolving relative links.

Examples:
  # Fetch and rank
  logoscan extract acme.com

  # Rank saved markup offline
  logoscan extract acme.com --input page.html

  # JSON output for tooling
  logoscan extract --json acme.com

  # Pipe markup through stdin
  curl -s https://acme.com | logoscan extract acme.com --input -`,
		Args: cobra.ExactArgs(1),
		RunE: runExtractCmd,
	}

	cmd.Flags().StringP("input", "i", "",
		"Read HTML from this file instead of fetching (\"-\" for stdin)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Connection timeout for the page fetch")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runExtractCmd executes the extract command.
func runExtractCmd(cmd *cobra.Command, args []string) error {
	jsonFormat, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownFormat, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonFormat && markdownFormat {
		return config.ErrConflictingReportFormats
	}

	logger := setupLogger(getVerboseFlag(cmd))

	site := args[0]
	sc, err := scorer.New(site)
	if err != nil {
		return err
	}

	htmlText, baseURL, err := pageSource(cmd, site)
	if err != nil {
		return err
	}
	if baseURL != site {
		// Redirects can move the harvest to another host; rescore
		// against the URL the content actually came from.
		if sc, err = scorer.New(baseURL); err != nil {
			return err
		}
	}

	candidates, err := sc.Analyze(strings.NewReader(htmlText))
	if err != nil {
		return err
	}
	ranked := model.Rank(candidates)
	logger.Debug("scoring complete", "site", site, "candidates", len(ranked))

	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	output, closeOutput, err := openReportOutput(outputPath)
	if err != nil {
		return err
	}

	writer := newReportWriter(output, jsonFormat, markdownFormat)
	if _, err := writer.WriteCandidates(site, ranked); err != nil {
		_ = closeOutput()
		return fmt.Errorf("write report: %w", err)
	}
	return closeOutput()
}

// pageSource obtains the HTML to score: a local file, stdin, or a fetch
// of the site's page. It returns the markup and the base URL candidates
// should resolve against.
func pageSource(cmd *cobra.Command, site string) (htmlText, baseURL string, err error) {
	inputPath, err := cmd.Flags().GetString("input")
	if err != nil {
		return "", "", err
	}

	if inputPath != "" {
		var data []byte
		if inputPath == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(inputPath) //nolint:gosec // User-provided input path is intentional
		}
		if err != nil {
			return "", "", fmt.Errorf("read HTML input: %w", err)
		}
		return string(data), site, nil
	}

	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return "", "", err
	}

	pageURL := site
	if !strings.Contains(pageURL, "://") {
		pageURL = "https://" + pageURL
	}

	fetcher := fetch.New(&http.Client{Timeout: timeout},
		fetch.WithUserAgent(config.DefaultUserAgent),
		fetch.WithMaxBodySize(config.DefaultMaxBodySize),
	)
	return fetcher.FetchPage(cmd.Context(), pageURL)
}
