package cluster

import (
	"sort"
	"strings"

	"logoscan/internal/model"
	"logoscan/internal/phash"
)

// DefaultThreshold is the inclusive Hamming distance bound under which
// two logos are considered the same image. 8 bits out of 64 tolerates
// recompression and minor resizing artifacts without merging genuinely
// different marks.
const DefaultThreshold = 8

// Partition groups domains whose perceptual hashes are within threshold
// bits of each other, transitively. A distance exactly equal to the
// threshold unions.
//
// The result is fully deterministic regardless of map iteration order:
// cluster members are sorted lexicographically, clusters by descending
// size with ties broken by the lexicographic order of their sorted
// member lists, and singletons lexicographically.
//
// A domain with no hash never appears in the input map, so it never
// appears in the output either; that is the caller's contract.
func Partition(hashes map[string]phash.Hash, threshold int) model.Partition {
	domains := make([]string, 0, len(hashes))
	for d := range hashes {
		domains = append(domains, d)
	}
	sort.Strings(domains)

	uf := NewUnionFind(domains)
	for i, d1 := range domains {
		for _, d2 := range domains[i+1:] {
			if hashes[d1].Distance(hashes[d2]) <= threshold {
				uf.Union(d1, d2)
			}
		}
	}

	groups := make(map[string][]string)
	for _, d := range domains {
		root := uf.Find(d)
		groups[root] = append(groups[root], d)
	}

	partition := model.Partition{
		Threshold: threshold,
		Total:     len(domains),
	}
	for _, members := range groups {
		// Members were appended in sorted domain order, so each
		// group is already lexicographically sorted.
		if len(members) == 1 {
			partition.Singletons = append(partition.Singletons, members[0])
			continue
		}
		partition.Clusters = append(partition.Clusters, model.Cluster{Members: members})
	}

	sort.Strings(partition.Singletons)
	sort.Slice(partition.Clusters, func(i, j int) bool {
		a, b := partition.Clusters[i], partition.Clusters[j]
		if a.Size() != b.Size() {
			return a.Size() > b.Size()
		}
		return strings.Join(a.Members, "\x00") < strings.Join(b.Members, "\x00")
	})

	return partition
}
