package report

import (
	"io"

	"logoscan/internal/model"
)

// Writer defines the interface for report output. Implementations write
// candidate rankings and cluster partitions in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// WriteCandidates outputs the ranked logo candidates for one site.
	// Returns the number of bytes written and any error encountered.
	WriteCandidates(site string, ranked []model.RankedCandidate) (int, error)

	// WritePartition outputs the clustering result.
	WritePartition(partition model.Partition) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously. This is useful
// for outputting to both terminal and file.
//
// Design decision: A separate type rather than io.MultiWriter because our
// Writer interface writes reports, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteCandidates outputs the ranking to all configured Writers.
// Stops on first error encountered.
func (m *MultiWriter) WriteCandidates(site string, ranked []model.RankedCandidate) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteCandidates(site, ranked)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WritePartition outputs the partition to all configured Writers.
func (m *MultiWriter) WritePartition(partition model.Partition) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WritePartition(partition)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
