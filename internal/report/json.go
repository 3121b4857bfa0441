package report

import (
	"encoding/json"
	"fmt"
	"io"

	"logoscan/internal/model"
)

// JSONWriter outputs reports as indented JSON for tool integration.
// Candidates serialize as an array of {rank, score, url, signals}
// objects; the partition serializes as the model.Partition structure.
type JSONWriter struct {
	baseWriter
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer) *JSONWriter {
	return &JSONWriter{baseWriter: newBaseWriter(output)}
}

// WriteCandidates outputs the ranked candidates as a JSON array.
// The site label is not part of the JSON contract; callers that need it
// in the payload wrap the array themselves.
func (w *JSONWriter) WriteCandidates(_ string, ranked []model.RankedCandidate) (int, error) {
	if ranked == nil {
		ranked = []model.RankedCandidate{}
	}
	return w.marshal(ranked)
}

// WritePartition outputs the clustering result as a JSON object.
func (w *JSONWriter) WritePartition(partition model.Partition) (int, error) {
	if partition.Clusters == nil {
		partition.Clusters = []model.Cluster{}
	}
	if partition.Singletons == nil {
		partition.Singletons = []string{}
	}
	return w.marshal(partition)
}

func (w *JSONWriter) marshal(v any) (int, error) {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return 0, fmt.Errorf("encode JSON report: %w", err)
	}
	return w.output.Write(append(data, '\n'))
}
