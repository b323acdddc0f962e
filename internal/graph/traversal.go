package graph

import "github.com/specialistvlad/propgraph/internal/graphnode"

// SkipFunc hides matching nodes from a walk's output. The walk still passes
// through them to reach their neighbours.
type SkipFunc func(graphnode.Node) bool

type direction int

const (
	forward direction = iota
	backward
)

func (g *Graph) adjacency(dir direction) [][]int {
	if dir == forward {
		return g.fwd
	}
	return g.rev
}

// DescendantsQuick returns every node reachable from root along forward
// edges, excluding root. The order is unspecified and nodes shared by
// several paths may appear more than once.
func (g *Graph) DescendantsQuick(root graphnode.Node) []graphnode.Node {
	return g.quick(root, forward)
}

// AncestorsQuick is DescendantsQuick along reverse edges.
func (g *Graph) AncestorsQuick(root graphnode.Node) []graphnode.Node {
	return g.quick(root, backward)
}

func (g *Graph) quick(root graphnode.Node, dir direction) []graphnode.Node {
	adj := g.adjacency(dir)
	stack := append([]int(nil), adj[g.mustSlot(root)]...)
	var out []graphnode.Node
	expanded := make(map[int]struct{})
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, g.nodes[s])
		// Revisits are allowed, expansion is not: it keeps the walk linear
		// in the number of edges.
		if _, done := expanded[s]; done {
			continue
		}
		expanded[s] = struct{}{}
		stack = append(stack, adj[s]...)
	}
	return out
}

// DescendantsTopological walks forward edges from roots and returns the
// reached nodes, roots included, so that every node comes after all reached
// nodes with an edge into it. It panics with *CycleError on a cycle.
func (g *Graph) DescendantsTopological(roots []graphnode.Node, skip SkipFunc) []graphnode.Node {
	return g.filter(g.topological(roots, forward), skip)
}

// DescendantsReverseTopological is DescendantsTopological reversed: every
// node comes before the reached nodes with an edge into it.
func (g *Graph) DescendantsReverseTopological(roots []graphnode.Node, skip SkipFunc) []graphnode.Node {
	return g.filter(reverse(g.topological(roots, forward)), skip)
}

// AncestorsTopological walks reverse edges from roots. Every node comes after
// all reached nodes it has an edge to, so dependencies precede dependents.
func (g *Graph) AncestorsTopological(roots []graphnode.Node, skip SkipFunc) []graphnode.Node {
	return g.filter(g.topological(roots, backward), skip)
}

// AncestorsReverseTopological is AncestorsTopological reversed.
func (g *Graph) AncestorsReverseTopological(roots []graphnode.Node, skip SkipFunc) []graphnode.Node {
	return g.filter(reverse(g.topological(roots, backward)), skip)
}

// DescendantTopological is DescendantsTopological for a single root.
func (g *Graph) DescendantTopological(root graphnode.Node) []graphnode.Node {
	return g.DescendantsTopological([]graphnode.Node{root}, nil)
}

// AncestorTopological is AncestorsTopological for a single root.
func (g *Graph) AncestorTopological(root graphnode.Node) []graphnode.Node {
	return g.AncestorsTopological([]graphnode.Node{root}, nil)
}

// topological runs Kahn's algorithm over the subgraph reachable from roots.
func (g *Graph) topological(roots []graphnode.Node, dir direction) []graphnode.Node {
	adj := g.adjacency(dir)

	// Reach, breadth first, so ties resolve in roots-then-edge order.
	reached := make([]int, 0, len(roots))
	inReach := make(map[int]struct{})
	for _, r := range roots {
		s := g.mustSlot(r)
		if _, ok := inReach[s]; !ok {
			inReach[s] = struct{}{}
			reached = append(reached, s)
		}
	}
	for i := 0; i < len(reached); i++ {
		for _, next := range adj[reached[i]] {
			if _, ok := inReach[next]; !ok {
				inReach[next] = struct{}{}
				reached = append(reached, next)
			}
		}
	}

	indegree := make(map[int]int, len(reached))
	for _, s := range reached {
		for _, next := range adj[s] {
			indegree[next]++
		}
	}

	queue := make([]int, 0, len(reached))
	for _, s := range reached {
		if indegree[s] == 0 {
			queue = append(queue, s)
		}
	}

	out := make([]graphnode.Node, 0, len(reached))
	for i := 0; i < len(queue); i++ {
		s := queue[i]
		out = append(out, g.nodes[s])
		for _, next := range adj[s] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(out) < len(reached) {
		var stuck []graphnode.Node
		for _, s := range reached {
			if indegree[s] > 0 {
				stuck = append(stuck, g.nodes[s])
			}
		}
		panic(&CycleError{Nodes: stuck})
	}
	return out
}

func (g *Graph) filter(nodes []graphnode.Node, skip SkipFunc) []graphnode.Node {
	if skip == nil {
		return nodes
	}
	out := nodes[:0]
	for _, n := range nodes {
		if !skip(n) {
			out = append(out, n)
		}
	}
	return out
}

func reverse(nodes []graphnode.Node) []graphnode.Node {
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	return nodes
}
