// Package propcache stores computed prop values and the independent leaves
// they are computed from.
//
// # Why Prop Cache Exists
//
// Computed values, freshness and change tracking are kept apart from the
// dependency graph, the same split as structure versus mutable state: the
// graph says what depends on what, this package remembers what the last
// answer was and who has already seen it.
//
// # Change Tracking
//
// Every stored node carries a version that is bumped only when the value
// or its came-from-default flag actually changes. Readers (any graph node
// acting as a consumer, usually a Query node or the renderer's Virtual
// node) record the version they last observed. A read is reported as
// changed iff the node's version differs from the reader's recorded one,
// so a reader's first read is always changed and any number of unrelated
// readers track the same node independently without copies of the value.
//
// # Freshness
//
// PropCache also tracks the Status of every prop:
//
//	Unresolved → Resolved → Fresh ⇄ Stale
//
// Status is stored independently of the value so the document model can
// decide whether a recompute is needed without forcing one.
package propcache
