package model

// Cluster is a maximal group of domains transitively connected by pairwise
// hash similarity within the clustering threshold. Members are sorted
// lexicographically. A cluster always has at least two members; groups of
// one are reported as singletons instead.
type Cluster struct {
	// Members lists the domains in this cluster, sorted lexicographically.
	Members []string `json:"members"`
}

// Size returns the number of domains in the cluster.
func (c Cluster) Size() int {
	return len(c.Members)
}

// Partition is the complete result of one clustering invocation. Every
// domain that had a hash appears in exactly one cluster or in Singletons;
// domains without a hash never reach the clustering engine at all.
type Partition struct {
	// Clusters holds all groups with two or more members, sorted by
	// descending member count, ties broken by the lexicographic order
	// of each cluster's sorted member list.
	Clusters []Cluster `json:"clusters"`

	// Singletons are domains whose logo matched nothing else, sorted
	// lexicographically.
	Singletons []string `json:"singletons"`

	// Threshold is the inclusive Hamming distance bound used.
	Threshold int `json:"threshold"`

	// Total is the number of domains that entered the clustering run.
	Total int `json:"total"`
}
