// Package components is the built-in component catalog.
//
// Each file registers one family of component types with a
// component.Registry. The catalog is small on purpose: it exists to give
// the engine realistic documents to run, with every reusable updater in
// use somewhere.
package components
