package cluster

import "testing"

func TestUnionFind(t *testing.T) {
	t.Parallel()

	t.Run("elements start disjoint", func(t *testing.T) {
		t.Parallel()
		uf := NewUnionFind([]string{"a", "b", "c"})
		if uf.Find("a") == uf.Find("b") {
			t.Error("a and b share a representative before any union")
		}
	})

	t.Run("union merges representatives", func(t *testing.T) {
		t.Parallel()
		uf := NewUnionFind([]string{"a", "b", "c"})
		uf.Union("a", "b")
		if uf.Find("a") != uf.Find("b") {
			t.Error("a and b not merged")
		}
		if uf.Find("a") == uf.Find("c") {
			t.Error("c merged without a union")
		}
	})

	t.Run("unions are transitive", func(t *testing.T) {
		t.Parallel()
		uf := NewUnionFind([]string{"a", "b", "c", "d"})
		uf.Union("a", "b")
		uf.Union("c", "d")
		uf.Union("b", "c")
		root := uf.Find("a")
		for _, e := range []string{"b", "c", "d"} {
			if uf.Find(e) != root {
				t.Errorf("element %s not in a's set", e)
			}
		}
	})

	t.Run("repeated union is a no-op", func(t *testing.T) {
		t.Parallel()
		uf := NewUnionFind([]string{"a", "b"})
		uf.Union("a", "b")
		uf.Union("a", "b")
		uf.Union("b", "a")
		if uf.Find("a") != uf.Find("b") {
			t.Error("set broken by repeated union")
		}
	})

	t.Run("unknown element is its own representative", func(t *testing.T) {
		t.Parallel()
		uf := NewUnionFind([]string{"a"})
		if got := uf.Find("ghost"); got != "ghost" {
			t.Errorf("Find(ghost) = %q", got)
		}
	})

	t.Run("representative is always a member", func(t *testing.T) {
		t.Parallel()
		elements := []string{"e1", "e2", "e3", "e4", "e5"}
		uf := NewUnionFind(elements)
		uf.Union("e1", "e2")
		uf.Union("e3", "e4")
		uf.Union("e2", "e5")

		members := make(map[string]bool, len(elements))
		for _, e := range elements {
			members[e] = true
		}
		for _, e := range elements {
			if !members[uf.Find(e)] {
				t.Errorf("representative %q of %q is not an element", uf.Find(e), e)
			}
		}
	})
}
