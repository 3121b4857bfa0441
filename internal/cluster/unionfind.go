package cluster

// UnionFind is a disjoint-set structure over string elements with path
// compression on Find and union by rank on Union.
//
// Design decision: The structure is an owned value instantiated per
// clustering call rather than package-level maps. Independent clustering
// runs (e.g. the same hashes at different thresholds) then never share
// state and may run concurrently without synchronization. A single
// UnionFind value is not safe for concurrent use.
type UnionFind struct {
	parent map[string]string
	rank   map[string]int
}

// NewUnionFind creates a UnionFind where every element starts in its
// own singleton set.
func NewUnionFind(elements []string) *UnionFind {
	uf := &UnionFind{
		parent: make(map[string]string, len(elements)),
		rank:   make(map[string]int, len(elements)),
	}
	for _, e := range elements {
		uf.parent[e] = e
		uf.rank[e] = 0
	}
	return uf
}

// Find returns the representative of x's set, compressing the path so
// later lookups are near-constant. Elements not added at construction
// are treated as their own representative.
func (uf *UnionFind) Find(x string) string {
	root, ok := uf.parent[x]
	if !ok {
		return x
	}
	if root != x {
		root = uf.Find(root)
		uf.parent[x] = root
	}
	return root
}

// Union merges the sets containing x and y. The shallower tree is
// attached under the deeper one to keep find paths short.
func (uf *UnionFind) Union(x, y string) {
	rootX := uf.Find(x)
	rootY := uf.Find(y)
	if rootX == rootY {
		return
	}

	switch {
	case uf.rank[rootX] < uf.rank[rootY]:
		uf.parent[rootX] = rootY
	case uf.rank[rootX] > uf.rank[rootY]:
		uf.parent[rootY] = rootX
	default:
		uf.parent[rootY] = rootX
		uf.rank[rootX]++
	}
}
