package model

// Candidate is a unique absolute URL considered as a possible logo image.
// Candidates are produced by the scorer during a single pass over one HTML
// document and are immutable once the pass completes.
type Candidate struct {
	// URL is the fully resolved absolute URL (http or https).
	// Two URLs that normalize to the same absolute string are the
	// same candidate.
	URL string `json:"url"`

	// Score is the cumulative heuristic score. It may be negative:
	// negative-keyword and footer placement rules subtract points.
	Score int `json:"score"`

	// Signals holds the human-readable reason labels of every heuristic
	// that fired for this URL. The slice is deduplicated and keeps
	// insertion order so report output is byte-stable across runs.
	Signals []string `json:"signals"`
}

// RankedCandidate is a Candidate with its final 1-based rank after sorting
// by descending score. This is the shape serialized into reports.
type RankedCandidate struct {
	Rank int `json:"rank"`
	Candidate
}

// Rank assigns 1-based ranks to an already sorted candidate list.
func Rank(candidates []Candidate) []RankedCandidate {
	ranked := make([]RankedCandidate, 0, len(candidates))
	for i, c := range candidates {
		ranked = append(ranked, RankedCandidate{Rank: i + 1, Candidate: c})
	}
	return ranked
}
