package propvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/propgraph/internal/graphnode"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b cty.Value
		want bool
	}{
		{"same strings", cty.StringVal("a"), cty.StringVal("a"), true},
		{"different strings", cty.StringVal("a"), cty.StringVal("b"), false},
		{"int and float forms of one number", cty.NumberIntVal(3), cty.NumberFloatVal(3), true},
		{"string vs number", cty.StringVal("3"), cty.NumberIntVal(3), false},
		{"nil vs typed null", cty.NilVal, cty.NullVal(cty.String), true},
		{"null vs value", Null, cty.False, false},
		{"lists", cty.ListVal([]cty.Value{cty.NumberIntVal(1)}), cty.ListVal([]cty.Value{cty.NumberIntVal(1)}), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Equal(tc.a, tc.b))
		})
	}
}

func TestToBool(t *testing.T) {
	tests := []struct {
		in     cty.Value
		want   bool
		wantOK bool
	}{
		{cty.True, true, true},
		{cty.StringVal("TrUE"), true, true},
		{cty.StringVal(" false "), false, true},
		{cty.StringVal("yes"), false, false},
		{cty.NumberIntVal(1), false, false},
		{Null, false, false},
	}
	for _, tc := range tests {
		got, ok := ToBool(tc.in)
		assert.Equal(t, tc.wantOK, ok, "ok for %#v", tc.in)
		assert.Equal(t, tc.want, got, "value for %#v", tc.in)
	}
}

func TestNumbers(t *testing.T) {
	n, ok := ToNumber(cty.StringVal(" 6 "))
	require.True(t, ok)
	assert.True(t, Equal(cty.NumberIntVal(6), n))

	_, ok = ToNumber(cty.StringVal("six"))
	assert.False(t, ok)

	i, ok := ToInt(cty.StringVal("3"))
	require.True(t, ok)
	assert.Equal(t, int64(3), i)

	_, ok = ToInt(cty.NumberFloatVal(2.5))
	assert.False(t, ok, "fractional numbers are not ints")
}

func TestToString(t *testing.T) {
	assert.Equal(t, "false", ToString(cty.False))
	assert.Equal(t, "42", ToString(cty.NumberIntVal(42)))
	assert.Equal(t, "2.5", ToString(cty.NumberFloatVal(2.5)))
	assert.Equal(t, "", ToString(Null))
	assert.Equal(t, "3, 4", ToString(cty.ListVal([]cty.Value{cty.NumberIntVal(3), cty.NumberIntVal(4)})))
}

func TestCoerce(t *testing.T) {
	v, err := Coerce(cty.StringVal("TrUE"), cty.Bool)
	require.NoError(t, err)
	assert.Equal(t, cty.True, v)

	_, err = Coerce(cty.StringVal("maybe"), cty.Bool)
	assert.ErrorContains(t, err, "boolean")

	v, err = Coerce(cty.True, cty.String)
	require.NoError(t, err)
	assert.Equal(t, cty.StringVal("true"), v)

	v, err = Coerce(cty.StringVal("7"), cty.Number)
	require.NoError(t, err)
	assert.True(t, Equal(cty.NumberIntVal(7), v))
}

func TestNative(t *testing.T) {
	assert.Equal(t, int64(4), Native(cty.NumberIntVal(4)))
	assert.Equal(t, 0.5, Native(cty.NumberFloatVal(0.5)))
	assert.Equal(t, "x", Native(cty.StringVal("x")))
	assert.Equal(t, true, Native(cty.True))
	assert.Nil(t, Native(Null))
	assert.Equal(t, []any{int64(3), int64(4)}, Native(cty.ListVal([]cty.Value{cty.NumberIntVal(3), cty.NumberIntVal(4)})))
}

func TestRequestAndPassThrough(t *testing.T) {
	p := PropWithMeta{Value: cty.StringVal("old"), CameFromDefault: true, Origin: graphnode.State(0)}
	p.Request(cty.StringVal("new"))
	assert.True(t, p.Changed)
	assert.Equal(t, cty.StringVal("new"), p.Value)

	assert.Equal(t, KindFromDefault, PassThrough(p).Kind)
	p.CameFromDefault = false
	assert.Equal(t, Calculated(cty.StringVal("new")), PassThrough(p))
	assert.Equal(t, KindNoChange, NoChange().Kind)
}
