package model

import "time"

// StagedLogo is a logo image that has been selected for a domain and
// downloaded to local disk. The manifest and the stage database both
// store sequences of these records.
type StagedLogo struct {
	// Domain is the site the logo was harvested from (e.g. "acme.com").
	// Exactly one staged logo exists per domain.
	Domain string `json:"domain"`

	// SourceURL is the absolute URL the image was downloaded from.
	SourceURL string `json:"url"`

	// LocalPath is the path of the staged file on disk.
	LocalPath string `json:"local_path"`

	// ContentHash is the SHA3-256 digest of the file contents in hex.
	// Byte-identical downloads share one staged file.
	ContentHash string `json:"content_hash,omitempty"`

	// PerceptualHash is the 64-bit pHash in hex, empty until computed.
	PerceptualHash string `json:"perceptual_hash,omitempty"`

	// FetchedAt records when the download completed.
	FetchedAt time.Time `json:"fetched_at,omitempty"`
}
