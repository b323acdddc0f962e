package updater

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/propgraph/internal/dataquery"
	"github.com/specialistvlad/propgraph/internal/propvalue"
)

// HideAttribute is the attribute that hides a component.
const HideAttribute = "hide"

type hidden struct {
	noInvert
}

// Hidden is true when the parent is hidden or the hide attribute is true.
func Hidden() Factory {
	return func(Context) Updater { return hidden{} }
}

func (hidden) DataQueries() []dataquery.Query {
	return []dataquery.Query{
		dataquery.Prop{Source: dataquery.Parent(), Specifier: dataquery.Profiles(dataquery.ProfileHidden)},
		dataquery.Attribute{Name: HideAttribute, MatchProfiles: append([]dataquery.Profile{dataquery.ProfileBoolean}, textProfiles...)},
	}
}

func (hidden) Calculate(data []DataQueryResult) propvalue.CalcResult {
	parent, hasParent := first(data, 0)
	attr := data[1].Values
	if !hasParent && len(attr) == 0 {
		return propvalue.FromDefault(cty.False)
	}
	if hasParent {
		if h, _ := propvalue.ToBool(parent.Value); h {
			return propvalue.Calculated(cty.True)
		}
	}
	if len(attr) == 1 {
		h, _ := propvalue.ToBool(attr[0].Value)
		return propvalue.Calculated(cty.BoolVal(h))
	}
	h, _ := propvalue.ParseBool(joinText(attr))
	return propvalue.Calculated(cty.BoolVal(h))
}

func (hidden) Default() cty.Value { return cty.False }

const (
	// MaxSequenceLength caps how many values a sequence produces.
	MaxSequenceLength = 10_000
	// MaxSequenceBound caps the magnitude of either end of a sequence.
	MaxSequenceBound = 1_000_000_000
)

// CheckSequenceRange reports whether from..to is a range a sequence can
// produce. Empty ranges are fine.
func CheckSequenceRange(from, to int64) error {
	for _, b := range []int64{from, to} {
		if b < -MaxSequenceBound || b > MaxSequenceBound {
			return fmt.Errorf("%w: sequence bound %d is outside ±%d", ErrCouldNotUpdate, b, MaxSequenceBound)
		}
	}
	if to-from+1 > MaxSequenceLength {
		return fmt.Errorf("%w: sequence %d..%d is longer than %d", ErrCouldNotUpdate, from, to, MaxSequenceLength)
	}
	return nil
}

// checkSequenceBound accepts whole numbers within MaxSequenceBound.
func checkSequenceBound(v cty.Value) error {
	i, ok := propvalue.ToInt(v)
	if !ok {
		return fmt.Errorf("%w: sequence bound %s is not a whole number", ErrCouldNotUpdate, propvalue.ToString(v))
	}
	if i < -MaxSequenceBound || i > MaxSequenceBound {
		return fmt.Errorf("%w: sequence bound %d is outside ±%d", ErrCouldNotUpdate, i, MaxSequenceBound)
	}
	return nil
}

type sequenceBounds struct {
	noInvert
	values bool
}

var sequenceQueries = []dataquery.Query{
	dataquery.Prop{Source: dataquery.Me(), Specifier: dataquery.Name("from")},
	dataquery.Prop{Source: dataquery.Me(), Specifier: dataquery.Name("to")},
}

// SequenceLength is max(to-from+1, 0) over the component's from and to
// props.
func SequenceLength() Factory {
	return func(Context) Updater { return &sequenceBounds{} }
}

// SequenceValues lists the whole numbers from..to.
func SequenceValues() Factory {
	return func(Context) Updater { return &sequenceBounds{values: true} }
}

func (u *sequenceBounds) DataQueries() []dataquery.Query {
	return sequenceQueries
}

func (u *sequenceBounds) Calculate(data []DataQueryResult) propvalue.CalcResult {
	from, to, ok := u.bounds(data)
	if !ok || CheckSequenceRange(from, to) != nil {
		return propvalue.FromDefault(u.Default())
	}
	if !u.values {
		return propvalue.Calculated(cty.NumberIntVal(max(to-from+1, 0)))
	}
	if to < from {
		return propvalue.Calculated(cty.ListValEmpty(cty.Number))
	}
	out := make([]cty.Value, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, cty.NumberIntVal(i))
	}
	return propvalue.Calculated(cty.ListVal(out))
}

func (u *sequenceBounds) bounds(data []DataQueryResult) (int64, int64, bool) {
	fromV, ok := first(data, 0)
	if !ok {
		return 0, 0, false
	}
	toV, ok := first(data, 1)
	if !ok {
		return 0, 0, false
	}
	from, ok := propvalue.ToInt(fromV.Value)
	if !ok {
		return 0, 0, false
	}
	to, ok := propvalue.ToInt(toV.Value)
	if !ok {
		return 0, 0, false
	}
	return from, to, true
}

func (u *sequenceBounds) Default() cty.Value {
	if u.values {
		return cty.ListValEmpty(cty.Number)
	}
	return cty.NumberIntVal(0)
}

type countValues struct {
	noInvert
	query dataquery.Query
}

// CountValues counts the answers of query.
func CountValues(query dataquery.Query) Factory {
	return func(Context) Updater { return &countValues{query: query} }
}

func (u *countValues) DataQueries() []dataquery.Query {
	return []dataquery.Query{u.query}
}

func (u *countValues) Calculate(data []DataQueryResult) propvalue.CalcResult {
	return propvalue.Calculated(cty.NumberIntVal(int64(len(data[0].Values))))
}

func (u *countValues) Default() cty.Value { return cty.NumberIntVal(0) }

type componentIndex struct {
	noInvert
}

// ComponentIndex is the index of the owning component.
func ComponentIndex() Factory {
	return func(Context) Updater { return componentIndex{} }
}

func (componentIndex) DataQueries() []dataquery.Query {
	return []dataquery.Query{dataquery.SelfRef{}}
}

func (componentIndex) Calculate(data []DataQueryResult) propvalue.CalcResult {
	self, ok := first(data, 0)
	if !ok {
		return propvalue.FromDefault(cty.NumberIntVal(-1))
	}
	return propvalue.Calculated(self.Value)
}

func (componentIndex) Default() cty.Value { return cty.NumberIntVal(-1) }
