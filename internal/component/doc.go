// Package component defines the contract between the document model and
// the component catalog: per-type definitions of props, actions and
// rendered children, held in a registry populated once at startup.
//
// Definitions are shared by every instance of a type and never mutated
// after registration. Instances only differ in the updaters their prop
// factories build, which can depend on what the instance extends.
package component
