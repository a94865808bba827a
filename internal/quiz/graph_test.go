package quiz

import (
	"math/rand"
	"strings"
	"testing"
)

func TestBuild_AllCategoriesVerify(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for _, length := range []int{3, 4, 8, 16, 64} {
		for _, cat := range Categories() {
			g, err := Build(length, cat, rng)
			if err != nil {
				t.Fatalf("Build(%d, %s): %v", length, cat, err)
			}
			if len(g.Names) != length {
				t.Fatalf("names: got %d want %d", len(g.Names), length)
			}
			if len(g.Edges) != length-1 {
				t.Fatalf("edges: got %d want %d", len(g.Edges), length-1)
			}
			if g.Subject != 0 || g.Object != length-1 {
				t.Fatalf("query pair: got (%d, %d) want (0, %d)", g.Subject, g.Object, length-1)
			}
			if got := Classify(g.Edges, length, g.Subject, g.Object); got != cat {
				t.Fatalf("Classify: got %s want %s", got, cat)
			}
		}
	}
}

func TestBuild_UniqueNames(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g, err := Build(32, Ancestor, rng)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	seen := make(map[string]bool)
	for _, name := range g.Names {
		if name == "" {
			t.Fatalf("empty name in graph")
		}
		if seen[name] {
			t.Fatalf("duplicate name %q", name)
		}
		seen[name] = true
	}
}

func TestBuild_LengthBelowMinimum(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, length := range []int{-1, 0, 1, 2} {
		if _, err := Build(length, Ancestor, rng); err == nil {
			t.Fatalf("Build(%d): expected error", length)
		}
	}
}

func TestBuild_LengthExceedsNamePool(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, err := Build(NamePoolSize+1, Ancestor, rng); err == nil {
		t.Fatalf("expected error")
	}
}

func TestBuild_RejectsNoneCategory(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := Build(8, None, rng)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "cannot build") {
		t.Fatalf("error: got %q", err)
	}
}

func TestBuild_RejectsUnknownCategory(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, err := Build(8, Category("COUSIN"), rng); err == nil {
		t.Fatalf("expected error")
	}
}

func TestBuild_NilRand(t *testing.T) {
	if _, err := Build(8, Ancestor, nil); err == nil {
		t.Fatalf("expected error")
	}
}

func TestClassify_Chain(t *testing.T) {
	// P0 -> P1 -> P2
	edges := []Edge{{0, 1}, {1, 2}}

	if got := Classify(edges, 3, 0, 2); got != Ancestor {
		t.Fatalf("forward: got %s want %s", got, Ancestor)
	}
	if got := Classify(edges, 3, 2, 0); got != Descendant {
		t.Fatalf("reverse: got %s want %s", got, Descendant)
	}
}

func TestClassify_CommonAncestor(t *testing.T) {
	// P1 -> P0, P1 -> P2: the ends share P1 as their ancestor.
	edges := []Edge{{1, 0}, {1, 2}}
	if got := Classify(edges, 3, 0, 2); got != CommonAncestor {
		t.Fatalf("got %s want %s", got, CommonAncestor)
	}
}

func TestClassify_CommonDescendant(t *testing.T) {
	// P0 -> P1, P2 -> P1: the ends share P1 as their descendant.
	edges := []Edge{{0, 1}, {2, 1}}
	if got := Classify(edges, 3, 0, 2); got != CommonDescendant {
		t.Fatalf("got %s want %s", got, CommonDescendant)
	}
}

func TestClassify_Disconnected(t *testing.T) {
	edges := []Edge{{0, 1}, {2, 3}}
	if got := Classify(edges, 4, 0, 3); got != None {
		t.Fatalf("got %s want %s", got, None)
	}
}

func TestClassify_DirectLineageWinsOverSharedKin(t *testing.T) {
	// P0 -> P1 -> P2 plus P0 -> P2: direct lineage, even though both
	// endpoints trivially share relatives.
	edges := []Edge{{0, 1}, {1, 2}, {0, 2}}
	if got := Classify(edges, 3, 0, 2); got != Ancestor {
		t.Fatalf("got %s want %s", got, Ancestor)
	}
}

func TestClassify_SelfPairNoEdges(t *testing.T) {
	// A person is not their own ancestor.
	if got := Classify(nil, 1, 0, 0); got != None {
		t.Fatalf("got %s want %s", got, None)
	}
}

func TestReachable_Reverse(t *testing.T) {
	// P0 -> P1 -> P2
	edges := []Edge{{0, 1}, {1, 2}}

	anc := reachable(edges, 3, 2, true)
	if !anc[0] || !anc[1] {
		t.Fatalf("ancestors of P2: got %v", anc)
	}
	if anc[2] {
		t.Fatalf("start node must be excluded from its own set")
	}
}

func TestBuildEdges_PivotBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 50; i++ {
		for _, cat := range []Category{CommonAncestor, CommonDescendant} {
			edges := buildEdges(5, cat, rng)
			if len(edges) != 4 {
				t.Fatalf("edges: got %d want %d", len(edges), 4)
			}
			// The endpoints must never be directly connected to each
			// other and direction must flip exactly once.
			flips := 0
			forward := func(e Edge) bool { return e.Ancestor < e.Descendant }
			for j := 1; j < len(edges); j++ {
				if forward(edges[j]) != forward(edges[j-1]) {
					flips++
				}
			}
			if flips != 1 {
				t.Fatalf("%s: direction flips %d times, want 1 (%v)", cat, flips, edges)
			}
		}
	}
}
