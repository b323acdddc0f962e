package propcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/propgraph/internal/graphnode"
	"github.com/specialistvlad/propgraph/internal/propvalue"
)

var (
	readerA = graphnode.Query(1)
	readerB = graphnode.Query(2)
)

func TestPropCache_ChangeTracking(t *testing.T) {
	c := NewPropCache()
	p := graphnode.Prop(0)
	c.Set(p, propvalue.Calculated(cty.StringVal("x")))

	t.Run("first read per reader is changed", func(t *testing.T) {
		assert.True(t, c.Get(p, readerA).Changed)
		assert.False(t, c.Get(p, readerA).Changed, "second read without a write")
		assert.True(t, c.Get(p, readerB).Changed, "independent of the other reader")
		assert.False(t, c.Get(p, readerB).Changed)
	})

	t.Run("equal write does not bump the version", func(t *testing.T) {
		before := c.Version(p)
		assert.False(t, c.Set(p, propvalue.Calculated(cty.StringVal("x"))))
		assert.Equal(t, before, c.Version(p))
		assert.False(t, c.Get(p, readerA).Changed)
	})

	t.Run("real write is seen once by every reader", func(t *testing.T) {
		assert.True(t, c.Set(p, propvalue.Calculated(cty.StringVal("y"))))
		assert.True(t, c.Get(p, readerB).Changed)
		assert.True(t, c.Get(p, readerA).Changed)
		assert.False(t, c.Get(p, readerA).Changed)
		assert.False(t, c.Get(p, readerB).Changed)
	})

	t.Run("default flag flip is a change", func(t *testing.T) {
		assert.True(t, c.Set(p, propvalue.FromDefault(cty.StringVal("y"))))
		got := c.Get(p, readerA)
		assert.True(t, got.Changed)
		assert.True(t, got.CameFromDefault)
	})

	t.Run("peek records nothing", func(t *testing.T) {
		c.Set(p, propvalue.Calculated(cty.StringVal("z")))
		peeked := c.Peek(p)
		assert.Equal(t, cty.StringVal("z"), peeked.Value)
		assert.False(t, peeked.Changed)
		assert.True(t, c.Get(p, readerA).Changed)
	})
}

func TestPropCache_NoChange(t *testing.T) {
	c := NewPropCache()
	p := graphnode.Prop(3)

	assert.Panics(t, func() { c.Set(p, propvalue.NoChange()) })

	c.Set(p, propvalue.FromDefault(cty.NumberIntVal(1)))
	c.SetStatus(p, StatusStale)
	assert.False(t, c.Set(p, propvalue.NoChange()))
	assert.Equal(t, StatusFresh, c.Status(p), "NoChange still marks the prop fresh")
	got := c.Peek(p)
	assert.True(t, propvalue.Equal(cty.NumberIntVal(1), got.Value))
	assert.True(t, got.CameFromDefault)
}

func TestPropCache_Status(t *testing.T) {
	c := NewPropCache()
	p := graphnode.Prop(5)
	assert.Equal(t, StatusUnresolved, c.Status(p))
	assert.False(t, c.Has(p))

	c.SetStatus(p, StatusResolved)
	assert.Equal(t, StatusResolved, c.Status(p))
	assert.Equal(t, StatusUnresolved, c.Status(graphnode.Prop(2)))

	assert.Panics(t, func() { c.Status(graphnode.State(0)) }, "wrong kind")
	assert.Panics(t, func() { c.Peek(p) }, "no value yet")
}

func TestLeafCaches(t *testing.T) {
	states := NewStateCache()
	s0 := states.NewNode(cty.False)
	s1 := states.NewNode(cty.StringVal(""))
	assert.Equal(t, graphnode.State(0), s0)
	assert.Equal(t, graphnode.State(1), s1)
	assert.Equal(t, 2, states.Len())

	got := states.Get(s0, readerA)
	assert.True(t, got.CameFromDefault)
	assert.True(t, got.Changed)
	assert.Equal(t, s0, got.Origin)

	require.True(t, states.Write(s0, cty.True))
	got = states.Get(s0, readerA)
	assert.False(t, got.CameFromDefault)
	assert.True(t, got.Changed)
	assert.False(t, states.Write(s0, cty.True))

	texts := NewStringCache()
	t0 := texts.NewNode("hello")
	assert.Equal(t, graphnode.String(0), t0)
	assert.Equal(t, cty.StringVal("hello"), texts.Peek(t0).Value)
	assert.True(t, texts.Write(t0, "bye"))
	assert.Equal(t, cty.StringVal("bye"), texts.Get(t0, readerB).Value)
}
