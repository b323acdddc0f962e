// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the value records exchanged between the cache, the
// updaters and the document model.
//
// Why cty for prop values?
//
// Prop values form a small closed set (string, number, bool and lists of
// those). cty already models exactly that set with semantic equality,
// conversions and JSON encoding, and it is the value system the HCL loader
// produces, so attribute literals flow into props without a translation
// layer.
package propvalue

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/propgraph/internal/graphnode"
)

// PropWithMeta is a value as seen by one reader.
type PropWithMeta struct {
	Value cty.Value
	// CameFromDefault is true when no real dependency or override produced
	// the value. It propagates through chains of default-taking props.
	CameFromDefault bool
	// Changed is relative to the reader that fetched the value. During an
	// invert it instead marks entries that carry a requested update.
	Changed bool
	// Origin is the graph node the value was read from.
	Origin graphnode.Node
}

// Request marks the entry as carrying a requested new value.
func (p *PropWithMeta) Request(v cty.Value) {
	p.Value = v
	p.Changed = true
}

// CalcKind tells the cache how a calculation result should be stored.
type CalcKind uint8

const (
	// KindCalculated is a value derived from real dependencies.
	KindCalculated CalcKind = iota
	// KindFromDefault is a value produced in the absence of real input.
	KindFromDefault
	// KindNoChange keeps whatever is stored.
	KindNoChange
)

func (k CalcKind) String() string {
	switch k {
	case KindCalculated:
		return "calculated"
	case KindFromDefault:
		return "from_default"
	case KindNoChange:
		return "no_change"
	default:
		return "unknown"
	}
}

// CalcResult is the output of an updater's Calculate.
type CalcResult struct {
	Kind  CalcKind
	Value cty.Value
}

// Calculated wraps a value derived from real dependencies.
func Calculated(v cty.Value) CalcResult {
	return CalcResult{Kind: KindCalculated, Value: v}
}

// FromDefault wraps a value produced because no real input was present.
func FromDefault(v cty.Value) CalcResult {
	return CalcResult{Kind: KindFromDefault, Value: v}
}

// NoChange keeps the stored value.
func NoChange() CalcResult {
	return CalcResult{Kind: KindNoChange}
}

// PassThrough forwards a dependency's value, keeping its default flag.
func PassThrough(p PropWithMeta) CalcResult {
	if p.CameFromDefault {
		return FromDefault(p.Value)
	}
	return Calculated(p.Value)
}
