// Package database provides SQLite-based storage for staged logos and
// ranked candidates.
//
// The stage database is optional: the CSV manifest alone is enough to run
// clustering. When enabled it caches perceptual hashes so reruns skip
// image decoding, and keeps the full candidate ranking per domain for
// later inspection.
package database
