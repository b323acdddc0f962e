package updater

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/propgraph/internal/dataquery"
	"github.com/specialistvlad/propgraph/internal/propvalue"
)

// contentOrState reads a typed value from content (children or an
// attribute) and falls back to its own state leaf when there is none.
type contentOrState struct {
	content dataquery.Query
	ty      cty.Type
	def     cty.Value
	// check, when set, vets requested values after coercion.
	check func(cty.Value) error
}

var textProfiles = []dataquery.Profile{dataquery.ProfileString, dataquery.ProfileLiteralString}

// BooleanFromChildrenOrState parses the children as a boolean, ignoring
// case, or uses state when there are no children.
func BooleanFromChildrenOrState(def bool) Factory {
	return func(Context) Updater {
		return &contentOrState{
			content: dataquery.ChildPropProfile{MatchProfiles: append([]dataquery.Profile{dataquery.ProfileBoolean}, textProfiles...)},
			ty:      cty.Bool,
			def:     cty.BoolVal(def),
		}
	}
}

// NumberFromChildrenOrState parses the children as a number or uses state
// when there are no children.
func NumberFromChildrenOrState(def int64) Factory {
	return func(Context) Updater {
		return &contentOrState{
			content: dataquery.ChildPropProfile{MatchProfiles: append([]dataquery.Profile{dataquery.ProfileNumber}, textProfiles...)},
			ty:      cty.Number,
			def:     cty.NumberIntVal(def),
		}
	}
}

// NumberFromAttributeOrState parses the named attribute as a number or uses
// state when the attribute is absent.
func NumberFromAttributeOrState(attr string, def int64) Factory {
	return func(Context) Updater {
		return &contentOrState{
			content: dataquery.Attribute{Name: attr, MatchProfiles: append([]dataquery.Profile{dataquery.ProfileNumber}, textProfiles...)},
			ty:      cty.Number,
			def:     cty.NumberIntVal(def),
		}
	}
}

// SequenceBound is NumberFromAttributeOrState restricted to whole numbers
// within MaxSequenceBound when driven backward.
func SequenceBound(attr string, def int64) Factory {
	number := NumberFromAttributeOrState(attr, def)
	return func(ctx Context) Updater {
		u := number(ctx).(*contentOrState)
		u.check = checkSequenceBound
		return u
	}
}

func (u *contentOrState) DataQueries() []dataquery.Query {
	return []dataquery.Query{u.content, dataquery.State{}}
}

func (u *contentOrState) Calculate(data []DataQueryResult) propvalue.CalcResult {
	content := data[0].Values
	if len(content) == 0 {
		state, ok := first(data, 1)
		if !ok {
			return propvalue.FromDefault(u.def)
		}
		return propvalue.PassThrough(*state)
	}
	if len(content) == 1 && content[0].Value.Type().Equals(u.ty) {
		return propvalue.PassThrough(content[0])
	}
	v, err := propvalue.Coerce(cty.StringVal(joinText(content)), u.ty)
	if err != nil {
		return propvalue.FromDefault(u.def)
	}
	return propvalue.Calculated(v)
}

func (u *contentOrState) Invert(data []DataQueryResult, requested cty.Value, _ bool) ([]DataQueryResult, error) {
	v, err := propvalue.Coerce(requested, u.ty)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCouldNotUpdate, err)
	}
	if u.check != nil {
		if err := u.check(v); err != nil {
			return nil, err
		}
	}
	content := data[0].Values
	switch len(content) {
	case 0:
		state, ok := first(data, 1)
		if !ok {
			return nil, ErrCouldNotUpdate
		}
		state.Request(v)
	case 1:
		if content[0].Value.Type().Equals(u.ty) {
			content[0].Request(v)
		} else {
			content[0].Request(cty.StringVal(propvalue.ToString(v)))
		}
	default:
		return nil, fmt.Errorf("%w: value is spread over %d children", ErrCouldNotUpdate, len(content))
	}
	return data, nil
}

func (u *contentOrState) Default() cty.Value { return u.def }

func joinText(values []propvalue.PropWithMeta) string {
	var b strings.Builder
	for _, v := range values {
		b.WriteString(propvalue.ToString(v.Value))
	}
	return b.String()
}
