package report

import (
	"fmt"
	"io"
	"strings"

	"logoscan/internal/model"
)

// TextWriter outputs line-oriented text reports.
//
// The cluster report layout is a compatibility contract: downstream
// parsers (including the preview server) split on the
// "=== Cluster N (k logos) ===" and "=== Singletons ===" markers and
// treat "# " lines as comments. Changing a single byte of the framing
// breaks them.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{baseWriter: newBaseWriter(output)}
}

// WriteCandidates outputs one line per candidate: rank, score, URL, and
// the signal list in parentheses.
func (w *TextWriter) WriteCandidates(site string, ranked []model.RankedCandidate) (int, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Logo candidates for %s\n", site))
	if len(ranked) == 0 {
		sb.WriteString("# No candidates found\n")
	}
	for _, c := range ranked {
		sb.WriteString(fmt.Sprintf("%d. [%d] %s", c.Rank, c.Score, c.URL))
		if len(c.Signals) > 0 {
			sb.WriteString(" (" + strings.Join(c.Signals, ", ") + ")")
		}
		sb.WriteString("\n")
	}

	return w.output.Write([]byte(sb.String()))
}

// WritePartition outputs the cluster report in the fixed text convention.
func (w *TextWriter) WritePartition(partition model.Partition) (int, error) {
	var sb strings.Builder

	sb.WriteString("# Logo Clustering Report (Perceptual Hash)\n")
	sb.WriteString(fmt.Sprintf("# Threshold: Hamming distance <= %d\n", partition.Threshold))
	sb.WriteString(fmt.Sprintf("# Total logos: %d\n", partition.Total))
	sb.WriteString(fmt.Sprintf("# Clusters (2+ logos): %d\n", len(partition.Clusters)))
	sb.WriteString(fmt.Sprintf("# Singletons: %d\n", len(partition.Singletons)))
	sb.WriteString("\n")

	for i, cluster := range partition.Clusters {
		sb.WriteString(fmt.Sprintf("=== Cluster %d (%d logos) ===\n", i+1, cluster.Size()))
		for _, domain := range cluster.Members {
			sb.WriteString("  " + domain + "\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("=== Singletons ===\n")
	for _, domain := range partition.Singletons {
		sb.WriteString("  " + domain + "\n")
	}

	return w.output.Write([]byte(sb.String()))
}
