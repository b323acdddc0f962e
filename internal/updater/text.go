package updater

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/propgraph/internal/dataquery"
	"github.com/specialistvlad/propgraph/internal/propvalue"
)

type stringFromChildren struct{}

// StringFromChildren concatenates the text of the children. A single child
// can be driven backward.
func StringFromChildren() Factory {
	return func(Context) Updater { return stringFromChildren{} }
}

func (stringFromChildren) DataQueries() []dataquery.Query {
	return []dataquery.Query{dataquery.ChildPropProfile{MatchProfiles: textProfiles}}
}

func (stringFromChildren) Calculate(data []DataQueryResult) propvalue.CalcResult {
	children := data[0].Values
	switch len(children) {
	case 0:
		return propvalue.FromDefault(cty.StringVal(""))
	case 1:
		only := children[0]
		only.Value = cty.StringVal(propvalue.ToString(only.Value))
		return propvalue.PassThrough(only)
	default:
		return propvalue.Calculated(cty.StringVal(joinText(children)))
	}
}

func (stringFromChildren) Invert(data []DataQueryResult, requested cty.Value, _ bool) ([]DataQueryResult, error) {
	if len(data[0].Values) != 1 {
		return nil, ErrCouldNotUpdate
	}
	data[0].Values[0].Request(cty.StringVal(propvalue.ToString(requested)))
	return data, nil
}

func (stringFromChildren) Default() cty.Value { return cty.StringVal("") }

// stringFrom renders a typed prop of the same component as text.
type stringFrom struct {
	profile dataquery.Profile
	ty      cty.Type
	def     cty.Value
}

// StringFromBool renders the component's boolean prop as "true" or "false".
// Requests are parsed ignoring case.
func StringFromBool() Factory {
	return func(Context) Updater {
		return &stringFrom{profile: dataquery.ProfileBoolean, ty: cty.Bool, def: cty.StringVal("false")}
	}
}

// StringFromNumber renders the component's number prop as text.
func StringFromNumber() Factory {
	return func(Context) Updater {
		return &stringFrom{profile: dataquery.ProfileNumber, ty: cty.Number, def: cty.StringVal("0")}
	}
}

func (u *stringFrom) DataQueries() []dataquery.Query {
	return []dataquery.Query{dataquery.Prop{Source: dataquery.Me(), Specifier: dataquery.Profiles(u.profile)}}
}

func (u *stringFrom) Calculate(data []DataQueryResult) propvalue.CalcResult {
	src, ok := first(data, 0)
	if !ok {
		return propvalue.FromDefault(u.def)
	}
	out := *src
	out.Value = cty.StringVal(propvalue.ToString(src.Value))
	return propvalue.PassThrough(out)
}

func (u *stringFrom) Invert(data []DataQueryResult, requested cty.Value, _ bool) ([]DataQueryResult, error) {
	target, ok := first(data, 0)
	if !ok {
		return nil, ErrCouldNotUpdate
	}
	v, err := propvalue.Coerce(requested, u.ty)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCouldNotUpdate, err)
	}
	target.Request(v)
	return data, nil
}

func (u *stringFrom) Default() cty.Value { return u.def }

type visibleStrings struct {
	noInvert
}

// VisibleStrings joins, with single spaces, the text of every child that is
// not hidden.
func VisibleStrings() Factory {
	return func(Context) Updater { return visibleStrings{} }
}

func (visibleStrings) DataQueries() []dataquery.Query {
	return []dataquery.Query{dataquery.PickProp{
		Source: dataquery.Me(),
		Groups: [][]dataquery.Profile{textProfiles, {dataquery.ProfileHidden}},
	}}
}

func (visibleStrings) Calculate(data []DataQueryResult) propvalue.CalcResult {
	values := data[0].Values
	var parts []string
	for i := 0; i+1 < len(values); i += 2 {
		text, hidden := values[i], values[i+1]
		if h, ok := propvalue.ToBool(hidden.Value); ok && h {
			continue
		}
		if s := strings.TrimSpace(propvalue.ToString(text.Value)); s != "" {
			parts = append(parts, s)
		}
	}
	return propvalue.Calculated(cty.StringVal(strings.Join(parts, " ")))
}

func (visibleStrings) Default() cty.Value { return cty.StringVal("") }
