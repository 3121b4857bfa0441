// Package manifest reads and writes the staged-logo manifest.
//
// The manifest is a CSV file with a "domain,url,local_path,phash"
// header, one row per staged logo. It is the hand-off format between the
// fetch stage and the clustering stage and is kept deliberately dumb so
// shell tooling can produce or consume it. The phash column carries the
// perceptual hash when the fetch stage computed one; hand-written
// manifests may omit the column entirely and clustering hashes the
// images from disk.
//
// Design decision: encoding/csv from the standard library is used
// directly. The format is a few plain columns with a fixed header; none
// of the reference stacks carry a CSV layer, and the stdlib reader
// already handles quoting and ragged rows.
package manifest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"

	"logoscan/internal/model"
)

// Column order of the manifest file.
var header = []string{"domain", "url", "local_path", "phash"}

// Read loads staged-logo records from the manifest at path. Rows with an
// empty domain or local path are skipped rather than failing the read;
// a half-written row must not abort clustering of everything else.
func Read(path string) ([]model.StagedLogo, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided manifest path is intentional
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close() //nolint:errcheck // Read-only file

	return Parse(f)
}

// Parse reads manifest rows from r. The first row must be the header;
// column positions are taken from it so extra columns are tolerated.
func Parse(r io.Reader) ([]model.StagedLogo, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		cols[name] = i
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	entries := make([]model.StagedLogo, 0, len(rows)-1)
	for _, row := range rows[1:] {
		entry := model.StagedLogo{
			Domain:         field(row, "domain"),
			SourceURL:      field(row, "url"),
			LocalPath:      field(row, "local_path"),
			PerceptualHash: field(row, "phash"),
		}
		if entry.Domain == "" || entry.LocalPath == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Write saves the staged-logo records to path, sorted by domain so the
// manifest is reproducible regardless of fetch completion order.
func Write(path string, entries []model.StagedLogo) error {
	sorted := make([]model.StagedLogo, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Domain < sorted[j].Domain })

	f, err := os.Create(path) //nolint:gosec // User-provided manifest path is intentional
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		_ = f.Close()
		return fmt.Errorf("write manifest header: %w", err)
	}
	for _, e := range sorted {
		if err := writer.Write([]string{e.Domain, e.SourceURL, e.LocalPath, e.PerceptualHash}); err != nil {
			_ = f.Close()
			return fmt.Errorf("write manifest row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush manifest: %w", err)
	}
	return f.Close()
}
