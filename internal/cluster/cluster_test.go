package cluster

import (
	"reflect"
	"testing"

	"logoscan/internal/model"
	"logoscan/internal/phash"
)

// hashWithBits returns a hash with exactly the given bit positions set,
// so test distances are easy to read off.
func hashWithBits(positions ...int) phash.Hash {
	var h phash.Hash
	for _, p := range positions {
		h |= 1 << p
	}
	return h
}

func TestPartition(t *testing.T) {
	t.Parallel()

	t.Run("identical hashes cluster", func(t *testing.T) {
		t.Parallel()
		hashes := map[string]phash.Hash{
			"a.com": hashWithBits(0, 1, 2),
			"b.com": hashWithBits(0, 1, 2),
			"c.com": hashWithBits(40, 41, 42, 43, 44, 45, 46, 47, 48, 49),
		}
		p := Partition(hashes, DefaultThreshold)

		if len(p.Clusters) != 1 {
			t.Fatalf("expected 1 cluster, got %d", len(p.Clusters))
		}
		if !reflect.DeepEqual(p.Clusters[0].Members, []string{"a.com", "b.com"}) {
			t.Errorf("cluster members = %v", p.Clusters[0].Members)
		}
		if !reflect.DeepEqual(p.Singletons, []string{"c.com"}) {
			t.Errorf("singletons = %v", p.Singletons)
		}
		if p.Total != 3 {
			t.Errorf("total = %d, want 3", p.Total)
		}
	})

	t.Run("threshold is inclusive", func(t *testing.T) {
		t.Parallel()
		// Exactly 8 bits apart.
		hashes := map[string]phash.Hash{
			"a.com": hashWithBits(0, 1, 2, 3, 4, 5, 6, 7),
			"b.com": 0,
		}
		p := Partition(hashes, 8)
		if len(p.Clusters) != 1 || len(p.Singletons) != 0 {
			t.Errorf("distance 8 at threshold 8 must cluster: %+v", p)
		}

		p = Partition(hashes, 7)
		if len(p.Clusters) != 0 || len(p.Singletons) != 2 {
			t.Errorf("distance 8 at threshold 7 must not cluster: %+v", p)
		}
	})

	t.Run("clustering is transitive", func(t *testing.T) {
		t.Parallel()
		// a-b and b-c are within threshold, a-c is not; the chain
		// still forms one cluster.
		hashes := map[string]phash.Hash{
			"a.com": hashWithBits(0, 1, 2, 3, 4),
			"b.com": 0,
			"c.com": hashWithBits(10, 11, 12, 13, 14, 15),
		}
		p := Partition(hashes, 6)
		if d := hashes["a.com"].Distance(hashes["c.com"]); d <= 6 {
			t.Fatalf("test setup broken: a-c distance %d", d)
		}
		if len(p.Clusters) != 1 {
			t.Fatalf("expected 1 transitive cluster, got %+v", p)
		}
		want := []string{"a.com", "b.com", "c.com"}
		if !reflect.DeepEqual(p.Clusters[0].Members, want) {
			t.Errorf("members = %v, want %v", p.Clusters[0].Members, want)
		}
	})

	t.Run("threshold zero groups only exact matches", func(t *testing.T) {
		t.Parallel()
		hashes := map[string]phash.Hash{
			"a.com": hashWithBits(5),
			"b.com": hashWithBits(5),
			"c.com": hashWithBits(6),
		}
		p := Partition(hashes, 0)
		if len(p.Clusters) != 1 || p.Clusters[0].Size() != 2 {
			t.Errorf("expected one exact-match pair, got %+v", p)
		}
	})

	t.Run("empty input yields empty partition", func(t *testing.T) {
		t.Parallel()
		p := Partition(map[string]phash.Hash{}, DefaultThreshold)
		if len(p.Clusters) != 0 || len(p.Singletons) != 0 || p.Total != 0 {
			t.Errorf("unexpected partition: %+v", p)
		}
	})

	t.Run("every domain appears exactly once", func(t *testing.T) {
		t.Parallel()
		hashes := map[string]phash.Hash{
			"a.com": 0,
			"b.com": hashWithBits(1),
			"c.com": hashWithBits(30, 31, 32, 33, 34, 35, 36, 37, 38),
			"d.com": hashWithBits(30, 31, 32, 33, 34, 35, 36, 37, 38),
			"e.com": ^phash.Hash(0),
		}
		p := Partition(hashes, DefaultThreshold)

		seen := make(map[string]int)
		for _, c := range p.Clusters {
			for _, m := range c.Members {
				seen[m]++
			}
		}
		for _, s := range p.Singletons {
			seen[s]++
		}
		for d := range hashes {
			if seen[d] != 1 {
				t.Errorf("domain %s appears %d times", d, seen[d])
			}
		}
	})
}

// TestPartitionDeterministic verifies the output ordering contract:
// big clusters first, lexicographic tie-breaks, sorted members.
func TestPartitionDeterministic(t *testing.T) {
	t.Parallel()

	hashes := map[string]phash.Hash{
		// Three-member cluster around bit pattern A.
		"m1.com": hashWithBits(0),
		"m2.com": hashWithBits(0, 1),
		"m3.com": hashWithBits(0, 2),
		// Two two-member clusters, tie-broken by member order.
		"x1.com": hashWithBits(20, 21, 22, 23, 24, 25, 26, 27, 28, 29),
		"x2.com": hashWithBits(20, 21, 22, 23, 24, 25, 26, 27, 28, 29),
		"k1.com": hashWithBits(40, 41, 42, 43, 44, 45, 46, 47, 48, 49),
		"k2.com": hashWithBits(40, 41, 42, 43, 44, 45, 46, 47, 48, 49),
		// Singletons.
		"z.com": ^phash.Hash(0),
	}

	var first model.Partition
	for i := 0; i < 20; i++ {
		p := Partition(hashes, 4)
		if i == 0 {
			first = p
			continue
		}
		if !reflect.DeepEqual(p, first) {
			t.Fatalf("partition changed between runs:\n%+v\nvs\n%+v", p, first)
		}
	}

	if len(first.Clusters) != 3 {
		t.Fatalf("expected 3 clusters, got %+v", first.Clusters)
	}
	if !reflect.DeepEqual(first.Clusters[0].Members, []string{"m1.com", "m2.com", "m3.com"}) {
		t.Errorf("largest cluster first: %v", first.Clusters[0].Members)
	}
	if !reflect.DeepEqual(first.Clusters[1].Members, []string{"k1.com", "k2.com"}) {
		t.Errorf("size ties break lexicographically: %v", first.Clusters[1].Members)
	}
	if !reflect.DeepEqual(first.Clusters[2].Members, []string{"x1.com", "x2.com"}) {
		t.Errorf("size ties break lexicographically: %v", first.Clusters[2].Members)
	}
	if !reflect.DeepEqual(first.Singletons, []string{"z.com"}) {
		t.Errorf("singletons = %v", first.Singletons)
	}
}
