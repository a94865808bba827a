package quiz

import (
	"errors"
	"fmt"
	"math/rand"
)

// MinLength is the smallest problem size that supports every substantive
// category: common-ancestor and common-descendant graphs need a branching
// node, and direct lineage questions need at least one intermediate node so
// the answer is never a single stated edge.
const MinLength = 3

// maxBuildAttempts bounds the construction retry loop. Construction is
// deterministic enough that a single draw should verify; the bound exists so
// a defect surfaces as an error instead of an infinite loop.
const maxBuildAttempts = 8

// Edge is one directed lineage relationship: Names[Ancestor] is an ancestor
// of Names[Descendant].
type Edge struct {
	Ancestor   int
	Descendant int
}

// Graph is a directed acyclic lineage graph over a set of named people,
// with a designated (subject, object) query pair.
type Graph struct {
	Names   []string
	Edges   []Edge
	Subject int
	Object  int
}

// Build constructs a random lineage graph of the given size whose designated
// pair satisfies exactly the requested category. The graph is verified
// against the classifier before it is returned; a graph that satisfies any
// other substantive category is discarded and redrawn.
//
// Randomness is consumed in a fixed order: the name sample first, then the
// branch pivot (common-ancestor/descendant only). Reproducibility of quiz
// batches depends on that order.
func Build(length int, category Category, rng *rand.Rand) (*Graph, error) {
	if rng == nil {
		return nil, errors.New("quiz: nil random source")
	}
	if length < MinLength {
		return nil, fmt.Errorf("quiz: length %d below minimum %d for category %s", length, MinLength, category)
	}
	if length > NamePoolSize {
		return nil, fmt.Errorf("quiz: length %d exceeds name pool size %d", length, NamePoolSize)
	}
	switch category {
	case Ancestor, Descendant, CommonAncestor, CommonDescendant:
	default:
		return nil, fmt.Errorf("quiz: cannot build graph for category %q", category)
	}

	names := sampleNames(length, rng)

	for attempt := 0; attempt < maxBuildAttempts; attempt++ {
		g := &Graph{
			Names:   names,
			Edges:   buildEdges(length, category, rng),
			Subject: 0,
			Object:  length - 1,
		}
		if verify(g, category) {
			return g, nil
		}
	}
	return nil, fmt.Errorf("quiz: could not construct %s graph of length %d in %d attempts", category, length, maxBuildAttempts)
}

// buildEdges lays the people P0..Pn-1 out on a line and orients each of the
// n-1 adjacent edges. A chain gives direct lineage; flipping direction at a
// pivot gives two branches that share their top (common ancestor) or bottom
// (common descendant) at the pivot.
func buildEdges(length int, category Category, rng *rand.Rand) []Edge {
	edges := make([]Edge, 0, length-1)
	switch category {
	case Ancestor:
		for i := 0; i < length-1; i++ {
			edges = append(edges, Edge{Ancestor: i, Descendant: i + 1})
		}
	case Descendant:
		for i := 0; i < length-1; i++ {
			edges = append(edges, Edge{Ancestor: i + 1, Descendant: i})
		}
	case CommonAncestor:
		pivot := 1 + rng.Intn(length-2)
		for i := 0; i < length-1; i++ {
			if i+1 <= pivot {
				edges = append(edges, Edge{Ancestor: i + 1, Descendant: i})
			} else {
				edges = append(edges, Edge{Ancestor: i, Descendant: i + 1})
			}
		}
	case CommonDescendant:
		pivot := 1 + rng.Intn(length-2)
		for i := 0; i < length-1; i++ {
			if i+1 <= pivot {
				edges = append(edges, Edge{Ancestor: i, Descendant: i + 1})
			} else {
				edges = append(edges, Edge{Ancestor: i + 1, Descendant: i})
			}
		}
	}
	return edges
}

// Classify computes the relationship between subject and object from the
// edge set alone. Checks run in priority order; the builder guarantees the
// categories are mutually exclusive, so the order only matters as a
// defensive measure.
func Classify(edges []Edge, n int, subject, object int) Category {
	subjDesc := reachable(edges, n, subject, false)
	if subjDesc[object] {
		return Ancestor
	}
	objDesc := reachable(edges, n, object, false)
	if objDesc[subject] {
		return Descendant
	}

	subjAnc := reachable(edges, n, subject, true)
	objAnc := reachable(edges, n, object, true)
	if intersects(subjAnc, objAnc) {
		return CommonAncestor
	}
	if intersects(subjDesc, objDesc) {
		return CommonDescendant
	}
	return None
}

// verify re-derives the pair's relationship from the transitive closure and
// confirms that the requested category holds exclusively. The classifier's
// priority order already makes its answer unique, so a single classification
// is a sufficient exclusivity check.
func verify(g *Graph, want Category) bool {
	if g == nil {
		return false
	}
	return Classify(g.Edges, len(g.Names), g.Subject, g.Object) == want
}

// reachable returns the set of nodes reachable from start. With reverse set,
// edges are followed descendant-to-ancestor, yielding the ancestor set.
func reachable(edges []Edge, n int, start int, reverse bool) []bool {
	adj := make([][]int, n)
	for _, e := range edges {
		from, to := e.Ancestor, e.Descendant
		if reverse {
			from, to = to, from
		}
		adj[from] = append(adj[from], to)
	}

	seen := make([]bool, n)
	stack := []int{start}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, w := range adj[v] {
			if !seen[w] {
				seen[w] = true
				stack = append(stack, w)
			}
		}
	}
	seen[start] = false // a person is not their own ancestor or descendant
	return seen
}

func intersects(a, b []bool) bool {
	for i := range a {
		if a[i] && b[i] {
			return true
		}
	}
	return false
}
