// Package graph is the directed graph substrate under the document model.
//
// # Why Graph Package Exists
//
// Both the structural view of a document (components and their content) and
// the dependency view (props, queries and the leaves they read) are plain
// directed graphs over graphnode.Node identities. This package owns the
// adjacency storage and every traversal order the engine needs, so the
// orchestration code only ever asks "in which order do I visit these
// nodes" and never walks edges by hand.
//
// # Storage
//
// Node identities are dense per kind, so the node to slot table is a set of
// slices indexed by kind and index. Forward and reverse adjacency lists keep
// insertion order, which makes every walk deterministic: roots in the order
// given, then edges in the order they were added.
//
// # Traversals
//
//   - Quick walks (DescendantsQuick, AncestorsQuick) are unordered and may
//     repeat nodes reachable along several paths.
//   - Topological walks visit a node only after every node that reaches it
//     inside the walked subgraph. Reverse topological walks are the mirror.
//   - Every walk exists in the descendant direction (forward edges) and the
//     ancestor direction (reverse edges).
//
// Acyclicity is not checked on insertion. An ordered walk that meets a cycle
// panics with a *CycleError, since a cycle means the graph itself is
// inconsistent.
package graph
