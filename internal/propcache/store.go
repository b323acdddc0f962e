package propcache

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/propgraph/internal/graphnode"
	"github.com/specialistvlad/propgraph/internal/propvalue"
)

type entry struct {
	value           cty.Value
	cameFromDefault bool
	version         uint64
	set             bool
}

type readerKey struct {
	index  int
	reader graphnode.Node
}

// store is the versioned storage shared by the prop and leaf caches. It
// holds nodes of a single kind, indexed densely.
type store struct {
	kind    graphnode.Kind
	entries []entry
	seen    map[readerKey]uint64
}

func newStore(kind graphnode.Kind) store {
	return store{
		kind: kind,
		seen: make(map[readerKey]uint64),
	}
}

func (s *store) check(n graphnode.Node) {
	if n.Kind != s.kind {
		panic(fmt.Sprintf("propcache: %s stored in the %s cache", n, s.kind))
	}
}

func (s *store) ensure(idx int) *entry {
	for idx >= len(s.entries) {
		s.entries = append(s.entries, entry{})
	}
	return &s.entries[idx]
}

func (s *store) mustEntry(n graphnode.Node) *entry {
	s.check(n)
	if n.Index >= len(s.entries) || !s.entries[n.Index].set {
		panic(fmt.Sprintf("propcache: %s has no value", n))
	}
	return &s.entries[n.Index]
}

func (s *store) has(n graphnode.Node) bool {
	s.check(n)
	return n.Index < len(s.entries) && s.entries[n.Index].set
}

// get reads n on behalf of reader and records the observed version.
func (s *store) get(n, reader graphnode.Node) propvalue.PropWithMeta {
	e := s.mustEntry(n)
	key := readerKey{index: n.Index, reader: reader}
	last, seen := s.seen[key]
	s.seen[key] = e.version
	return propvalue.PropWithMeta{
		Value:           e.value,
		CameFromDefault: e.cameFromDefault,
		Changed:         !seen || last != e.version,
		Origin:          n,
	}
}

// peek reads n without recording anything.
func (s *store) peek(n graphnode.Node) propvalue.PropWithMeta {
	e := s.mustEntry(n)
	return propvalue.PropWithMeta{
		Value:           e.value,
		CameFromDefault: e.cameFromDefault,
		Origin:          n,
	}
}

// set stores res and reports whether the version moved.
func (s *store) set(n graphnode.Node, res propvalue.CalcResult) bool {
	s.check(n)
	e := s.ensure(n.Index)

	var cfd bool
	switch res.Kind {
	case propvalue.KindNoChange:
		if !e.set {
			panic(fmt.Sprintf("propcache: %s kept unchanged before it ever had a value", n))
		}
		return false
	case propvalue.KindFromDefault:
		cfd = true
	case propvalue.KindCalculated:
		cfd = false
	default:
		panic(fmt.Sprintf("propcache: unknown calculation kind %d", res.Kind))
	}

	if e.set && e.cameFromDefault == cfd && propvalue.Equal(e.value, res.Value) {
		return false
	}
	e.value = res.Value
	e.cameFromDefault = cfd
	e.set = true
	e.version++
	return true
}

func (s *store) version(n graphnode.Node) uint64 {
	return s.mustEntry(n).version
}
