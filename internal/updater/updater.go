package updater

import (
	"errors"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/propgraph/internal/dataquery"
	"github.com/specialistvlad/propgraph/internal/propvalue"
)

var (
	// ErrInvertNotImplemented is returned by props that are pure derivations.
	ErrInvertNotImplemented = errors.New("invert not implemented")
	// ErrCouldNotUpdate is returned when the current dependencies admit no
	// consistent backward assignment.
	ErrCouldNotUpdate = errors.New("could not update")
)

// DataQueryResult holds the values one data query resolved to, in answer
// order.
type DataQueryResult struct {
	Values []propvalue.PropWithMeta
}

// Updater is the behavior attached to a single prop instance.
type Updater interface {
	// DataQueries lists what the prop depends on. The document model calls
	// it once, when the prop is resolved.
	DataQueries() []dataquery.Query
	// Calculate computes the prop from one result per data query.
	Calculate(data []DataQueryResult) propvalue.CalcResult
	// Invert returns data with the entries that should receive a new value
	// marked via PropWithMeta.Request. isDirect is true when an action
	// targeted this prop rather than another prop's invert cascading into
	// it.
	Invert(data []DataQueryResult, requested cty.Value, isDirect bool) ([]DataQueryResult, error)
	// Default is the value used in the absence of real input.
	Default() cty.Value
}

// Extend describes the component an instance extends.
type Extend struct {
	Component int
	// Prop is set when a single prop of the component is extended.
	Prop string
	// SameType is true when both components have the same type, in which
	// case state is shared with the origin instead of aliased.
	SameType bool
}

// Context is what a factory knows about the prop instance it builds for.
type Context struct {
	Component int
	Extend    *Extend
}

// Factory builds the updater for one prop instance.
type Factory func(Context) Updater

// noInvert provides Invert for pure derivations.
type noInvert struct{}

func (noInvert) Invert([]DataQueryResult, cty.Value, bool) ([]DataQueryResult, error) {
	return nil, ErrInvertNotImplemented
}

// first returns the first value of query i.
func first(data []DataQueryResult, i int) (*propvalue.PropWithMeta, bool) {
	if i >= len(data) || len(data[i].Values) == 0 {
		return nil, false
	}
	return &data[i].Values[0], true
}
