// Package docmodel is the orchestration layer of the engine: it owns the
// graphs, the caches and every prop instance of one document.
//
// # Why Document Model Exists
//
// Each concern below it is deliberately ignorant of the others: the graph
// knows nothing about values, the cache knows nothing about edges, and
// updaters only see the values handed to them. DocumentModel is the one
// place where they meet.
//
// # Two Graphs
//
//   - structure: Component nodes with edges to their content children
//     (components and literal String leaves), in document order.
//   - deps: Prop → Query → answer edges, created lazily when a prop is
//     first resolved. Answers are props, State/String leaves, Component
//     nodes (self references) or Virtual nodes that bundle several answers
//     per child.
//
// # Lifecycle of a Prop
//
//	Unresolved --resolve--> Resolved --freshen--> Fresh <--stale-- ...
//
// resolve runs the updater's data queries once and wires the edges.
// freshen recursively freshens dependencies, calls Calculate and stores the
// result. An action inverts requested values down the deps graph to the
// leaves, writes them, and marks every resolved prop above them Stale in a
// single sweep.
//
// A DocumentModel is single threaded. Callers serialize access.
package docmodel
