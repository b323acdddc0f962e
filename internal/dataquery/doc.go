// Package dataquery is the declarative vocabulary props use to say what they
// depend on.
//
// A Query is a value, not a graph node. The document model stores each of a
// prop's queries behind a Query node and resolves it against the structural
// graph into edges from that Query node to the answer nodes: props, state
// leaves, literal text leaves, the component itself, or Virtual groupings.
//
// Answers are always ordered by document order and "first match" wins
// wherever a query picks a single prop out of several candidates.
package dataquery
