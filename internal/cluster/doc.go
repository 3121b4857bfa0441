// Package cluster partitions domains into groups of visually identical
// logos using perceptual-hash distances and a union-find structure.
//
// Clustering is connectivity-based, not clique-based: two domains land in
// the same cluster if a chain of pairwise similar hashes connects them,
// even when the endpoints themselves are farther apart than the threshold.
//
// The dominant cost is the O(n^2) pairwise Hamming comparison over all
// domains; union and find are near-constant amortized thanks to path
// compression and union by rank. Quadratic growth in logo count is the
// scaling limit of this package.
package cluster
