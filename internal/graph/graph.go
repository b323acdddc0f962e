package graph

import (
	"fmt"

	"github.com/specialistvlad/propgraph/internal/graphnode"
)

// Graph is a directed graph over graphnode.Node identities. It is not safe
// for concurrent use; the document model that owns it is single threaded.
type Graph struct {
	nodes []graphnode.Node
	// slots maps (kind, index) to the node's dense slot plus one. Zero
	// means the node is absent.
	slots [graphnode.NumKinds][]int
	fwd   [][]int
	rev   [][]int
	edges map[[2]int]struct{}
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		edges: make(map[[2]int]struct{}),
	}
}

// AddNode adds n to the graph. Adding an existing node does nothing.
func (g *Graph) AddNode(n graphnode.Node) {
	if _, ok := g.slot(n); ok {
		return
	}
	if n.Index < 0 {
		panic(fmt.Sprintf("graph: negative node index %s", n))
	}

	table := g.slots[n.Kind]
	if n.Index >= len(table) {
		grown := make([]int, n.Index+1, 2*(n.Index+1))
		copy(grown, table)
		table = grown
	}
	table[n.Index] = len(g.nodes) + 1
	g.slots[n.Kind] = table

	g.nodes = append(g.nodes, n)
	g.fwd = append(g.fwd, nil)
	g.rev = append(g.rev, nil)
}

// Has reports whether n has been added.
func (g *Graph) Has(n graphnode.Node) bool {
	_, ok := g.slot(n)
	return ok
}

// AddEdge creates the edge from -> to. Both nodes must already exist.
// Adding an existing edge does nothing.
func (g *Graph) AddEdge(from, to graphnode.Node) {
	f := g.mustSlot(from)
	t := g.mustSlot(to)

	key := [2]int{f, t}
	if _, exists := g.edges[key]; exists {
		return
	}
	g.edges[key] = struct{}{}
	g.fwd[f] = append(g.fwd[f], t)
	g.rev[t] = append(g.rev[t], f)
}

// HasEdge reports whether the edge from -> to exists.
func (g *Graph) HasEdge(from, to graphnode.Node) bool {
	f, ok := g.slot(from)
	if !ok {
		return false
	}
	t, ok := g.slot(to)
	if !ok {
		return false
	}
	_, exists := g.edges[[2]int{f, t}]
	return exists
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Nodes returns every node in insertion order.
func (g *Graph) Nodes() []graphnode.Node {
	out := make([]graphnode.Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// ChildrenOf returns the targets of n's outgoing edges in insertion order.
func (g *Graph) ChildrenOf(n graphnode.Node) []graphnode.Node {
	return g.toNodes(g.fwd[g.mustSlot(n)])
}

// ParentsOf returns the sources of n's incoming edges in insertion order.
func (g *Graph) ParentsOf(n graphnode.Node) []graphnode.Node {
	return g.toNodes(g.rev[g.mustSlot(n)])
}

func (g *Graph) slot(n graphnode.Node) (int, bool) {
	if int(n.Kind) >= graphnode.NumKinds || n.Index < 0 {
		return 0, false
	}
	table := g.slots[n.Kind]
	if n.Index >= len(table) || table[n.Index] == 0 {
		return 0, false
	}
	return table[n.Index] - 1, true
}

// mustSlot panics when n is absent: callers only ever ask about nodes they
// created, so a miss means the owner's bookkeeping is broken.
func (g *Graph) mustSlot(n graphnode.Node) int {
	s, ok := g.slot(n)
	if !ok {
		panic(fmt.Sprintf("graph: node %s not found", n))
	}
	return s
}

func (g *Graph) toNodes(slots []int) []graphnode.Node {
	out := make([]graphnode.Node, len(slots))
	for i, s := range slots {
		out[i] = g.nodes[s]
	}
	return out
}
