package updater

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/propgraph/internal/dataquery"
	"github.com/specialistvlad/propgraph/internal/propvalue"
)

type independentState struct {
	def cty.Value
}

// IndependentState is a prop backed by its own state leaf.
func IndependentState(def cty.Value) Factory {
	return func(Context) Updater { return &independentState{def: def} }
}

func (u *independentState) DataQueries() []dataquery.Query {
	return []dataquery.Query{dataquery.State{}}
}

func (u *independentState) Calculate(data []DataQueryResult) propvalue.CalcResult {
	state, ok := first(data, 0)
	if !ok {
		return propvalue.FromDefault(u.def)
	}
	return propvalue.PassThrough(*state)
}

func (u *independentState) Invert(data []DataQueryResult, requested cty.Value, _ bool) ([]DataQueryResult, error) {
	state, ok := first(data, 0)
	if !ok {
		return nil, ErrCouldNotUpdate
	}
	v, err := propvalue.Coerce(requested, u.def.Type())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCouldNotUpdate, err)
	}
	state.Request(v)
	return data, nil
}

func (u *independentState) Default() cty.Value { return u.def }

type propAlias struct {
	query dataquery.Prop
	def   cty.Value
}

// PropAlias forwards another prop, both ways.
func PropAlias(source dataquery.Source, spec dataquery.Specifier, def cty.Value) Factory {
	return func(Context) Updater {
		return &propAlias{query: dataquery.Prop{Source: source, Specifier: spec}, def: def}
	}
}

func (u *propAlias) DataQueries() []dataquery.Query {
	return []dataquery.Query{u.query}
}

func (u *propAlias) Calculate(data []DataQueryResult) propvalue.CalcResult {
	target, ok := first(data, 0)
	if !ok {
		return propvalue.FromDefault(u.def)
	}
	return propvalue.PassThrough(*target)
}

func (u *propAlias) Invert(data []DataQueryResult, requested cty.Value, _ bool) ([]DataQueryResult, error) {
	target, ok := first(data, 0)
	if !ok {
		return nil, ErrCouldNotUpdate
	}
	target.Request(requested)
	return data, nil
}

func (u *propAlias) Default() cty.Value { return u.def }

// OrExtend builds an alias when the instance extends a prop, or a component
// of another type (matched by profiles), and falls back to otherwise.
func OrExtend(def cty.Value, profiles []dataquery.Profile, otherwise Factory) Factory {
	return func(ctx Context) Updater {
		ext := ctx.Extend
		switch {
		case ext == nil:
			return otherwise(ctx)
		case ext.Prop != "":
			return PropAlias(dataquery.Component(ext.Component), dataquery.Name(ext.Prop), def)(ctx)
		case !ext.SameType:
			return PropAlias(dataquery.Component(ext.Component), dataquery.Profiles(profiles...), def)(ctx)
		default:
			return otherwise(ctx)
		}
	}
}

// StateOrExtend is IndependentState unless the instance extends something
// it has to alias.
func StateOrExtend(def cty.Value, profiles ...dataquery.Profile) Factory {
	return OrExtend(def, profiles, IndependentState(def))
}

type constant struct {
	noInvert
	v cty.Value
}

// Constant always yields v.
func Constant(v cty.Value) Factory {
	return func(Context) Updater { return &constant{v: v} }
}

func (u *constant) DataQueries() []dataquery.Query { return nil }

func (u *constant) Calculate([]DataQueryResult) propvalue.CalcResult {
	return propvalue.Calculated(u.v)
}

func (u *constant) Default() cty.Value { return u.v }
