// internal/graphnode/doc.go

/*
Package graphnode provides the tagged identity used for every vertex of the
document's dependency graph.

A node is a kind plus a dense, per-kind index, e.g. `prop[12]` or
`state[0]`. Indices are allocated by the owner of each kind and are never
reused or renumbered within a session, which lets the graph and the caches
use slices instead of maps for their lookup tables.

The canonical text form is `kind[index]`. It is used for logging, error
messages and on the wire, and round-trips through Parse.
*/
package graphnode
