package graph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/propgraph/internal/graphnode"
)

var (
	c0 = graphnode.Component(0)
	p0 = graphnode.Prop(0)
	p1 = graphnode.Prop(1)
	p2 = graphnode.Prop(2)
	p3 = graphnode.Prop(3)
	q0 = graphnode.Query(0)
	s0 = graphnode.State(0)
)

func newGraph(nodes ...graphnode.Node) *Graph {
	g := New()
	for _, n := range nodes {
		g.AddNode(n)
	}
	return g
}

// diamond builds p0 -> p1, p0 -> p2, p1 -> p3, p2 -> p3.
func diamond() *Graph {
	g := newGraph(p0, p1, p2, p3)
	g.AddEdge(p0, p1)
	g.AddEdge(p0, p2)
	g.AddEdge(p1, p3)
	g.AddEdge(p2, p3)
	return g
}

func TestAddNode(t *testing.T) {
	g := New()
	require.NotNil(t, g)
	assert.Equal(t, 0, g.Len())

	g.AddNode(p3)
	g.AddNode(p3) // idempotent
	g.AddNode(s0)
	assert.Equal(t, 2, g.Len())
	assert.True(t, g.Has(p3))
	assert.True(t, g.Has(s0))
	assert.False(t, g.Has(p0), "lower index of the same kind was never added")
	assert.False(t, g.Has(graphnode.State(9)))
	assert.Equal(t, []graphnode.Node{p3, s0}, g.Nodes())
}

func TestAddEdge(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		g := newGraph(p0, q0, s0)
		g.AddEdge(p0, q0)
		g.AddEdge(q0, s0)
		g.AddEdge(p0, q0) // idempotent

		assert.True(t, g.HasEdge(p0, q0))
		assert.False(t, g.HasEdge(q0, p0))
		assert.Equal(t, []graphnode.Node{q0}, g.ChildrenOf(p0))
		assert.Equal(t, []graphnode.Node{q0}, g.ParentsOf(s0))
		assert.Empty(t, g.ParentsOf(p0))
	})

	t.Run("missing endpoint panics", func(t *testing.T) {
		g := newGraph(p0)
		assert.PanicsWithValue(t, "graph: node prop[1] not found", func() { g.AddEdge(p0, p1) })
		assert.Panics(t, func() { g.AddEdge(c0, p0) })
	})

	t.Run("children keep insertion order", func(t *testing.T) {
		g := newGraph(p0, p1, p2, p3)
		g.AddEdge(p0, p3)
		g.AddEdge(p0, p1)
		g.AddEdge(p0, p2)
		assert.Equal(t, []graphnode.Node{p3, p1, p2}, g.ChildrenOf(p0))
	})
}

func TestQuickWalks(t *testing.T) {
	g := diamond()

	desc := g.DescendantsQuick(p0)
	assert.ElementsMatch(t, []graphnode.Node{p1, p2, p3}, dedupe(desc))
	assert.NotContains(t, desc, p0)

	anc := g.AncestorsQuick(p3)
	assert.ElementsMatch(t, []graphnode.Node{p0, p1, p2}, dedupe(anc))

	assert.Empty(t, g.DescendantsQuick(p3))
}

func TestTopologicalWalks(t *testing.T) {
	g := diamond()

	tests := []struct {
		name string
		walk func() []graphnode.Node
		want []graphnode.Node
	}{
		{
			name: "descendants",
			walk: func() []graphnode.Node { return g.DescendantsTopological([]graphnode.Node{p0}, nil) },
			want: []graphnode.Node{p0, p1, p2, p3},
		},
		{
			name: "descendants reversed",
			walk: func() []graphnode.Node { return g.DescendantsReverseTopological([]graphnode.Node{p0}, nil) },
			want: []graphnode.Node{p3, p2, p1, p0},
		},
		{
			name: "ancestors",
			walk: func() []graphnode.Node { return g.AncestorsTopological([]graphnode.Node{p3}, nil) },
			want: []graphnode.Node{p3, p1, p2, p0},
		},
		{
			name: "ancestors reversed",
			walk: func() []graphnode.Node { return g.AncestorsReverseTopological([]graphnode.Node{p3}, nil) },
			want: []graphnode.Node{p0, p2, p1, p3},
		},
		{
			name: "inner root only reaches its subgraph",
			walk: func() []graphnode.Node { return g.DescendantTopological(p1) },
			want: []graphnode.Node{p1, p3},
		},
		{
			name: "skip hides but walks through",
			walk: func() []graphnode.Node {
				return g.DescendantsTopological([]graphnode.Node{p0}, func(n graphnode.Node) bool { return n == p1 || n == p0 })
			},
			want: []graphnode.Node{p2, p3},
		},
		{
			name: "duplicate roots are visited once",
			walk: func() []graphnode.Node { return g.AncestorsTopological([]graphnode.Node{p1, p2, p1}, nil) },
			want: []graphnode.Node{p1, p2, p0},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.walk()
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("walk order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTopological_RespectsEveryEdge(t *testing.T) {
	// A denser graph where breadth-first discovery alone would be wrong:
	// p3 is discovered from p0 before p1 -> p3 is seen.
	g := newGraph(p0, p1, p2, p3)
	g.AddEdge(p0, p3)
	g.AddEdge(p0, p1)
	g.AddEdge(p1, p2)
	g.AddEdge(p2, p3)

	order := g.DescendantTopological(p0)
	require.Len(t, order, 4)
	pos := make(map[graphnode.Node]int)
	for i, n := range order {
		pos[n] = i
	}
	for _, from := range order {
		for _, to := range g.ChildrenOf(from) {
			assert.Less(t, pos[from], pos[to], "%s must come before %s", from, to)
		}
	}
}

func TestTopological_Deterministic(t *testing.T) {
	first := diamond().DescendantTopological(p0)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, diamond().DescendantTopological(p0))
	}
}

func TestTopological_CyclePanics(t *testing.T) {
	g := newGraph(p0, p1, p2)
	g.AddEdge(p0, p1)
	g.AddEdge(p1, p2)
	g.AddEdge(p2, p1)

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		cycleErr, ok := r.(*CycleError)
		require.True(t, ok, "panic value should be *CycleError, got %T", r)
		assert.ElementsMatch(t, []graphnode.Node{p1, p2}, cycleErr.Nodes)
		assert.Contains(t, cycleErr.Error(), "prop[1]")
		assert.Same(t, cycleErr, AsCycleError(cycleErr))
	}()
	g.DescendantTopological(p0)
}

func TestTopological_CycleOutsideWalkIsIgnored(t *testing.T) {
	g := newGraph(p0, p1, p2, p3)
	g.AddEdge(p0, p1)
	g.AddEdge(p2, p3)
	g.AddEdge(p3, p2)

	assert.NotPanics(t, func() {
		assert.Equal(t, []graphnode.Node{p0, p1}, g.DescendantTopological(p0))
	})
}

func dedupe(nodes []graphnode.Node) []graphnode.Node {
	seen := make(map[graphnode.Node]bool)
	var out []graphnode.Node
	for _, n := range nodes {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
