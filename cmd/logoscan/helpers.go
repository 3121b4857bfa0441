package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"logoscan/internal/log"
	"logoscan/internal/report"
)

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the redacting structured logger.
func setupLogger(verbose bool) *slog.Logger {
	return log.NewLogger(os.Stderr, verbose)
}

// openReportOutput returns the report destination: the given file (with
// parent directories created) or stdout when path is empty. The returned
// closer is a no-op for stdout.
func openReportOutput(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("create report directory: %w", err)
		}
	}
	f, err := os.Create(path) //nolint:gosec // User-provided report path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("create report file: %w", err)
	}
	return f, f.Close, nil
}

// newReportWriter selects the output format from the json/markdown flags.
func newReportWriter(output io.Writer, jsonFormat, markdownFormat bool) report.Writer {
	switch {
	case jsonFormat:
		return report.NewJSONWriter(output)
	case markdownFormat:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewTextWriter(output)
	}
}

// readTargetList reads one domain per line from a file, skipping blank
// lines and "#" comments.
func readTargetList(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided list path is intentional
	if err != nil {
		return nil, fmt.Errorf("read target list: %w", err)
	}

	var targets []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	return targets, nil
}
