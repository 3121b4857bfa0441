// Package preview serves a local HTML gallery of clustered logos.
//
// The server reads a cluster report and the staged-logo manifest, renders
// each cluster as a row of thumbnails, and serves one self-contained page:
// thumbnails are embedded as base64 PNG data URIs so the page needs no
// asset routes and can be saved as a single file.
package preview
