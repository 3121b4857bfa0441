// Package model defines the core data structures used throughout logoscan.
//
// This package contains the following main types:
//   - Candidate: A possible logo URL with an accumulated score and signals
//   - StagedLogo: A downloaded logo on local disk, keyed by domain
//   - Partition: The result of clustering staged logos by visual similarity
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (scorer, cluster, report, database) need to
// use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
