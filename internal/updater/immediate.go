package updater

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/propgraph/internal/dataquery"
	"github.com/specialistvlad/propgraph/internal/propvalue"
)

// Prop names ImmediateValue reads on its own component.
const (
	ValueProp = "value"
	SyncProp  = "syncImmediateValue"
)

type immediateValue struct{}

// ImmediateValue follows the value prop while synced and its own state
// otherwise. A direct edit writes the state and detaches from value; a
// cascaded request writes both.
func ImmediateValue() Factory {
	return func(Context) Updater { return immediateValue{} }
}

func (immediateValue) DataQueries() []dataquery.Query {
	return []dataquery.Query{
		dataquery.State{},
		dataquery.Prop{Source: dataquery.Me(), Specifier: dataquery.Name(ValueProp)},
		dataquery.Prop{Source: dataquery.Me(), Specifier: dataquery.Name(SyncProp)},
	}
}

func (immediateValue) Calculate(data []DataQueryResult) propvalue.CalcResult {
	state, hasState := first(data, 0)
	value, hasValue := first(data, 1)
	sync, hasSync := first(data, 2)

	if hasValue && hasSync {
		if synced, _ := propvalue.ToBool(sync.Value); synced {
			return propvalue.PassThrough(*value)
		}
	}
	if !hasState {
		return propvalue.FromDefault(cty.StringVal(""))
	}
	return propvalue.PassThrough(*state)
}

func (immediateValue) Invert(data []DataQueryResult, requested cty.Value, isDirect bool) ([]DataQueryResult, error) {
	state, ok := first(data, 0)
	if !ok {
		return nil, ErrCouldNotUpdate
	}
	text := cty.StringVal(propvalue.ToString(requested))
	state.Request(text)

	if isDirect {
		if sync, ok := first(data, 2); ok {
			sync.Request(cty.False)
		}
		return data, nil
	}
	if value, ok := first(data, 1); ok {
		value.Request(text)
	}
	return data, nil
}

func (immediateValue) Default() cty.Value { return cty.StringVal("") }
