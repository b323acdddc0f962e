package propcache

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/propgraph/internal/graphnode"
	"github.com/specialistvlad/propgraph/internal/propvalue"
)

// PropCache holds computed prop values and their freshness.
type PropCache struct {
	store    store
	statuses []Status
}

// NewPropCache creates an empty prop cache.
func NewPropCache() *PropCache {
	return &PropCache{store: newStore(graphnode.KindProp)}
}

// Get returns the value of prop n with Changed computed for reader.
func (c *PropCache) Get(n, reader graphnode.Node) propvalue.PropWithMeta {
	return c.store.get(n, reader)
}

// Peek returns the value of prop n without touching any reader's record.
func (c *PropCache) Peek(n graphnode.Node) propvalue.PropWithMeta {
	return c.store.peek(n)
}

// Has reports whether prop n has ever been given a value.
func (c *PropCache) Has(n graphnode.Node) bool {
	return c.store.has(n)
}

// Set stores a calculation result for prop n and marks it Fresh. It reports
// whether the stored value changed.
func (c *PropCache) Set(n graphnode.Node, res propvalue.CalcResult) bool {
	changed := c.store.set(n, res)
	c.SetStatus(n, StatusFresh)
	return changed
}

// Version returns the change counter of prop n.
func (c *PropCache) Version(n graphnode.Node) uint64 {
	return c.store.version(n)
}

// Status returns the freshness of prop n. Unknown props are Unresolved.
func (c *PropCache) Status(n graphnode.Node) Status {
	c.store.check(n)
	if n.Index >= len(c.statuses) {
		return StatusUnresolved
	}
	return c.statuses[n.Index]
}

// SetStatus moves prop n to status s.
func (c *PropCache) SetStatus(n graphnode.Node, s Status) {
	c.store.check(n)
	for n.Index >= len(c.statuses) {
		c.statuses = append(c.statuses, StatusUnresolved)
	}
	c.statuses[n.Index] = s
}

// leafCache is the shared implementation of StateCache and StringCache.
type leafCache struct {
	store store
	next  int
}

func (c *leafCache) alloc(res propvalue.CalcResult) graphnode.Node {
	n := graphnode.Node{Kind: c.store.kind, Index: c.next}
	c.next++
	c.store.set(n, res)
	return n
}

// Get returns the value of leaf n with Changed computed for reader.
func (c *leafCache) Get(n, reader graphnode.Node) propvalue.PropWithMeta {
	return c.store.get(n, reader)
}

// Peek returns the value of leaf n without recording a read.
func (c *leafCache) Peek(n graphnode.Node) propvalue.PropWithMeta {
	return c.store.peek(n)
}

// Len returns the number of allocated leaves.
func (c *leafCache) Len() int {
	return c.next
}

// StateCache holds independent state leaves.
type StateCache struct {
	leafCache
}

// NewStateCache creates an empty state cache.
func NewStateCache() *StateCache {
	return &StateCache{leafCache{store: newStore(graphnode.KindState)}}
}

// NewNode allocates a state leaf seeded with a default value.
func (c *StateCache) NewNode(initial cty.Value) graphnode.Node {
	return c.alloc(propvalue.FromDefault(initial))
}

// Write stores an explicitly requested value. It reports whether the leaf
// changed.
func (c *StateCache) Write(n graphnode.Node, v cty.Value) bool {
	return c.store.set(n, propvalue.Calculated(v))
}

// StringCache holds literal text leaves.
type StringCache struct {
	leafCache
}

// NewStringCache creates an empty string cache.
func NewStringCache() *StringCache {
	return &StringCache{leafCache{store: newStore(graphnode.KindString)}}
}

// NewNode allocates a literal text leaf.
func (c *StringCache) NewNode(text string) graphnode.Node {
	return c.alloc(propvalue.Calculated(cty.StringVal(text)))
}

// Write replaces the text of leaf n. It reports whether the leaf changed.
func (c *StringCache) Write(n graphnode.Node, text string) bool {
	return c.store.set(n, propvalue.Calculated(cty.StringVal(text)))
}
