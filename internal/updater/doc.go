// Package updater defines the calculate/invert protocol every prop follows
// and the reusable updaters the component catalog is assembled from.
//
// An updater declares its data queries once, computes its value from the
// ordered results of those queries, and may translate a requested value
// back into requests on its own dependencies. Calculate must be a pure
// function of its input; the prop cache relies on that to skip work.
package updater
