// Package pipeline orchestrates the logo harvest for each domain.
//
// A pipeline runs ordered steps over one domain's job: fetch the home
// page, score candidates, select the winner, download it, and compute its
// perceptual hash. The batch processor runs many domain pipelines
// concurrently with a bounded errgroup; one domain's failure never stops
// the others.
package pipeline
