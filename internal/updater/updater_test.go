package updater

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/propgraph/internal/dataquery"
	"github.com/specialistvlad/propgraph/internal/graphnode"
	"github.com/specialistvlad/propgraph/internal/propvalue"
)

func val(v cty.Value, origin graphnode.Node) propvalue.PropWithMeta {
	return propvalue.PropWithMeta{Value: v, Origin: origin}
}

func defaulted(v cty.Value, origin graphnode.Node) propvalue.PropWithMeta {
	return propvalue.PropWithMeta{Value: v, CameFromDefault: true, Origin: origin}
}

func results(groups ...[]propvalue.PropWithMeta) []DataQueryResult {
	out := make([]DataQueryResult, len(groups))
	for i, g := range groups {
		out[i] = DataQueryResult{Values: g}
	}
	return out
}

func TestCalculate_Deterministic(t *testing.T) {
	factories := map[string]Factory{
		"state":      IndependentState(cty.StringVal("")),
		"children":   StringFromChildren(),
		"bool":       BooleanFromChildrenOrState(false),
		"stringBool": StringFromBool(),
		"immediate":  ImmediateValue(),
		"length":     SequenceLength(),
		"values":     SequenceValues(),
	}
	inputs := map[string][]DataQueryResult{
		"state":      results([]propvalue.PropWithMeta{val(cty.StringVal("a"), graphnode.State(0))}),
		"children":   results([]propvalue.PropWithMeta{val(cty.StringVal("a"), graphnode.String(0)), val(cty.StringVal("b"), graphnode.Prop(1))}),
		"bool":       results([]propvalue.PropWithMeta{val(cty.StringVal("TRUE"), graphnode.String(0))}, []propvalue.PropWithMeta{defaulted(cty.False, graphnode.State(0))}),
		"stringBool": results([]propvalue.PropWithMeta{val(cty.True, graphnode.Prop(0))}),
		"immediate": results(
			[]propvalue.PropWithMeta{val(cty.StringVal("typed"), graphnode.State(0))},
			[]propvalue.PropWithMeta{val(cty.StringVal("committed"), graphnode.Prop(0))},
			[]propvalue.PropWithMeta{val(cty.False, graphnode.Prop(1))},
		),
		"length": results([]propvalue.PropWithMeta{val(cty.NumberIntVal(3), graphnode.Prop(0))}, []propvalue.PropWithMeta{val(cty.NumberIntVal(6), graphnode.Prop(1))}),
		"values": results([]propvalue.PropWithMeta{val(cty.NumberIntVal(3), graphnode.Prop(0))}, []propvalue.PropWithMeta{val(cty.NumberIntVal(6), graphnode.Prop(1))}),
	}

	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			u := factory(Context{})
			first := u.Calculate(inputs[name])
			second := u.Calculate(inputs[name])
			assert.Equal(t, first.Kind, second.Kind)
			assert.True(t, propvalue.Equal(first.Value, second.Value))
		})
	}
}

func TestIndependentState(t *testing.T) {
	u := IndependentState(cty.False)(Context{})
	assert.Equal(t, []dataquery.Query{dataquery.State{}}, u.DataQueries())
	assert.Equal(t, cty.False, u.Default())

	data := results([]propvalue.PropWithMeta{defaulted(cty.False, graphnode.State(2))})
	assert.Equal(t, propvalue.FromDefault(cty.False), u.Calculate(data))

	out, err := u.Invert(data, cty.StringVal("True"), true)
	require.NoError(t, err)
	assert.True(t, out[0].Values[0].Changed)
	assert.Equal(t, cty.True, out[0].Values[0].Value)

	_, err = u.Invert(data, cty.StringVal("nope"), true)
	assert.ErrorIs(t, err, ErrCouldNotUpdate)
}

func TestPropAlias(t *testing.T) {
	u := PropAlias(dataquery.Me(), dataquery.Name("b"), cty.StringVal(""))(Context{})

	res := u.Calculate(results([]propvalue.PropWithMeta{defaulted(cty.StringVal("hello"), graphnode.Prop(1))}))
	assert.Equal(t, propvalue.FromDefault(cty.StringVal("hello")), res)

	res = u.Calculate(results([]propvalue.PropWithMeta{val(cty.StringVal("bye"), graphnode.Prop(1))}))
	assert.Equal(t, propvalue.Calculated(cty.StringVal("bye")), res)

	res = u.Calculate(results(nil))
	assert.Equal(t, propvalue.KindFromDefault, res.Kind, "missing target falls back to the default")

	_, err := u.Invert(results(nil), cty.StringVal("x"), true)
	assert.ErrorIs(t, err, ErrCouldNotUpdate)
}

func TestOrExtend(t *testing.T) {
	f := StateOrExtend(cty.StringVal(""), dataquery.ProfileString)

	assert.Equal(t, []dataquery.Query{dataquery.State{}}, f(Context{}).DataQueries())

	sameType := f(Context{Extend: &Extend{Component: 1, SameType: true}})
	assert.Equal(t, []dataquery.Query{dataquery.State{}}, sameType.DataQueries(), "same type shares state")

	byProp := f(Context{Extend: &Extend{Component: 1, Prop: "value"}})
	assert.Equal(t, []dataquery.Query{dataquery.Prop{Source: dataquery.Component(1), Specifier: dataquery.Name("value")}}, byProp.DataQueries())

	otherType := f(Context{Extend: &Extend{Component: 4}})
	assert.Equal(t,
		[]dataquery.Query{dataquery.Prop{Source: dataquery.Component(4), Specifier: dataquery.Profiles(dataquery.ProfileString)}},
		otherType.DataQueries())
}

func TestStringFromBool_CaseInsensitiveInvert(t *testing.T) {
	u := StringFromBool()(Context{})
	data := results([]propvalue.PropWithMeta{val(cty.False, graphnode.Prop(0))})
	assert.Equal(t, propvalue.Calculated(cty.StringVal("false")), u.Calculate(data))

	out, err := u.Invert(data, cty.StringVal("TrUE"), true)
	require.NoError(t, err)
	assert.Equal(t, cty.True, out[0].Values[0].Value)
	assert.True(t, out[0].Values[0].Changed)

	_, err = u.Invert(results([]propvalue.PropWithMeta{val(cty.False, graphnode.Prop(0))}), cty.StringVal("maybe"), true)
	assert.ErrorIs(t, err, ErrCouldNotUpdate)
}

func TestContentOrState(t *testing.T) {
	u := BooleanFromChildrenOrState(false)(Context{})

	t.Run("children win over state", func(t *testing.T) {
		data := results(
			[]propvalue.PropWithMeta{val(cty.StringVal("tr"), graphnode.String(0)), val(cty.StringVal("UE"), graphnode.String(1))},
			[]propvalue.PropWithMeta{defaulted(cty.False, graphnode.State(0))},
		)
		assert.Equal(t, propvalue.Calculated(cty.True), u.Calculate(data))
		_, err := u.Invert(data, cty.False, true)
		assert.ErrorIs(t, err, ErrCouldNotUpdate, "value spread over two children")
	})

	t.Run("single text child is written as text", func(t *testing.T) {
		data := results(
			[]propvalue.PropWithMeta{val(cty.StringVal("false"), graphnode.String(0))},
			[]propvalue.PropWithMeta{defaulted(cty.False, graphnode.State(0))},
		)
		out, err := u.Invert(data, cty.True, true)
		require.NoError(t, err)
		assert.Equal(t, cty.StringVal("true"), out[0].Values[0].Value)
		assert.False(t, out[1].Values[0].Changed)
	})

	t.Run("no children uses state", func(t *testing.T) {
		data := results(nil, []propvalue.PropWithMeta{defaulted(cty.False, graphnode.State(0))})
		assert.Equal(t, propvalue.FromDefault(cty.False), u.Calculate(data))
		out, err := u.Invert(data, cty.StringVal("TRUE"), true)
		require.NoError(t, err)
		assert.Equal(t, cty.True, out[1].Values[0].Value)
	})

	t.Run("unparsable content falls back to default", func(t *testing.T) {
		n := NumberFromChildrenOrState(7)(Context{})
		data := results([]propvalue.PropWithMeta{val(cty.StringVal("seven"), graphnode.String(0))}, nil)
		assert.Equal(t, propvalue.FromDefault(cty.NumberIntVal(7)), n.Calculate(data))
	})
}

func TestImmediateValue(t *testing.T) {
	u := ImmediateValue()(Context{})
	data := func(synced bool) []DataQueryResult {
		return results(
			[]propvalue.PropWithMeta{val(cty.StringVal("typed"), graphnode.State(0))},
			[]propvalue.PropWithMeta{val(cty.StringVal("committed"), graphnode.Prop(0))},
			[]propvalue.PropWithMeta{val(cty.BoolVal(synced), graphnode.Prop(1))},
		)
	}

	assert.Equal(t, cty.StringVal("committed"), u.Calculate(data(true)).Value)
	assert.Equal(t, cty.StringVal("typed"), u.Calculate(data(false)).Value)

	t.Run("direct edit detaches", func(t *testing.T) {
		out, err := u.Invert(data(true), cty.StringVal("abc"), true)
		require.NoError(t, err)
		assert.Equal(t, cty.StringVal("abc"), out[0].Values[0].Value)
		assert.False(t, out[1].Values[0].Changed, "value is left alone")
		assert.True(t, out[2].Values[0].Changed)
		assert.Equal(t, cty.False, out[2].Values[0].Value)
	})

	t.Run("cascaded request drives value", func(t *testing.T) {
		out, err := u.Invert(data(true), cty.StringVal("abc"), false)
		require.NoError(t, err)
		assert.True(t, out[1].Values[0].Changed)
		assert.Equal(t, cty.StringVal("abc"), out[1].Values[0].Value)
		assert.False(t, out[2].Values[0].Changed)
	})
}

func TestSequence(t *testing.T) {
	bounds := func(from, to int64) []DataQueryResult {
		return results(
			[]propvalue.PropWithMeta{val(cty.NumberIntVal(from), graphnode.Prop(0))},
			[]propvalue.PropWithMeta{val(cty.NumberIntVal(to), graphnode.Prop(1))},
		)
	}
	length := SequenceLength()(Context{})
	values := SequenceValues()(Context{})

	assert.True(t, propvalue.Equal(cty.NumberIntVal(4), length.Calculate(bounds(3, 6)).Value))
	assert.True(t, propvalue.Equal(cty.NumberIntVal(0), length.Calculate(bounds(6, 3)).Value))
	assert.Equal(t, []any{int64(3), int64(4), int64(5), int64(6)}, propvalue.Native(values.Calculate(bounds(3, 6)).Value))
	assert.Equal(t, []any{}, propvalue.Native(values.Calculate(bounds(6, 3)).Value))

	_, err := length.Invert(bounds(1, 2), cty.NumberIntVal(9), true)
	assert.ErrorIs(t, err, ErrInvertNotImplemented)

	t.Run("oversized ranges fall back to default", func(t *testing.T) {
		assert.Equal(t, propvalue.FromDefault(cty.ListValEmpty(cty.Number)), values.Calculate(bounds(1, 1<<62)))
		assert.Equal(t, propvalue.FromDefault(cty.NumberIntVal(0)), length.Calculate(bounds(0, MaxSequenceLength)))
		assert.Len(t, propvalue.Native(values.Calculate(bounds(1, MaxSequenceLength)).Value), MaxSequenceLength)
	})
}

func TestCheckSequenceRange(t *testing.T) {
	assert.NoError(t, CheckSequenceRange(1, 0))
	assert.NoError(t, CheckSequenceRange(5, -MaxSequenceBound))
	assert.NoError(t, CheckSequenceRange(1, MaxSequenceLength))
	assert.ErrorIs(t, CheckSequenceRange(0, MaxSequenceLength), ErrCouldNotUpdate)
	assert.ErrorIs(t, CheckSequenceRange(1, MaxSequenceBound+1), ErrCouldNotUpdate)
	assert.ErrorIs(t, CheckSequenceRange(-MaxSequenceBound-1, -MaxSequenceBound), ErrCouldNotUpdate)
}

func TestSequenceBound(t *testing.T) {
	u := SequenceBound("to", 0)(Context{})
	data := results(nil, []propvalue.PropWithMeta{defaulted(cty.NumberIntVal(0), graphnode.State(0))})

	out, err := u.Invert(data, cty.StringVal("12"), true)
	require.NoError(t, err)
	assert.True(t, propvalue.Equal(cty.NumberIntVal(12), out[1].Values[0].Value))

	for _, bad := range []cty.Value{cty.NumberIntVal(1 << 62), cty.NumberFloatVal(2.5), cty.NumberIntVal(-MaxSequenceBound - 1)} {
		_, err := u.Invert(data, bad, true)
		assert.ErrorIs(t, err, ErrCouldNotUpdate, bad.GoString())
	}
}

func TestHidden(t *testing.T) {
	u := Hidden()(Context{})
	parent := func(h bool) []propvalue.PropWithMeta {
		return []propvalue.PropWithMeta{val(cty.BoolVal(h), graphnode.Prop(0))}
	}
	attr := func(s string) []propvalue.PropWithMeta {
		return []propvalue.PropWithMeta{val(cty.StringVal(s), graphnode.String(0))}
	}

	assert.Equal(t, propvalue.FromDefault(cty.False), u.Calculate(results(nil, nil)))
	assert.Equal(t, cty.True, u.Calculate(results(parent(true), nil)).Value)
	assert.Equal(t, cty.True, u.Calculate(results(parent(false), attr("True"))).Value)
	assert.Equal(t, cty.False, u.Calculate(results(parent(false), attr("false"))).Value)
}

func TestVisibleStrings(t *testing.T) {
	u := VisibleStrings()(Context{})
	data := results([]propvalue.PropWithMeta{
		val(cty.StringVal("one"), graphnode.String(0)), defaulted(propvalue.Null, graphnode.Virtual(1)),
		val(cty.StringVal("two"), graphnode.Prop(2)), val(cty.True, graphnode.Prop(3)),
		val(cty.StringVal("three"), graphnode.Prop(4)), val(cty.False, graphnode.Prop(5)),
	})
	assert.Equal(t, propvalue.Calculated(cty.StringVal("one three")), u.Calculate(data))
}

func TestStringFromNumber(t *testing.T) {
	u := StringFromNumber()(Context{})
	data := results([]propvalue.PropWithMeta{val(cty.NumberIntVal(12), graphnode.Prop(0))})
	assert.Equal(t, propvalue.Calculated(cty.StringVal("12")), u.Calculate(data))

	out, err := u.Invert(data, cty.StringVal(" 5 "), false)
	require.NoError(t, err)
	assert.True(t, propvalue.Equal(cty.NumberIntVal(5), out[0].Values[0].Value))

	_, err = u.Invert(data, cty.StringVal("five"), false)
	assert.ErrorIs(t, err, ErrCouldNotUpdate)
}
