package docmodel

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/propgraph/internal/component"
	"github.com/specialistvlad/propgraph/internal/ctxlog"
	"github.com/specialistvlad/propgraph/internal/graphnode"
	"github.com/specialistvlad/propgraph/internal/propcache"
	"github.com/specialistvlad/propgraph/internal/propvalue"
)

var (
	// ErrUnknownComponent is returned for actions on a missing component.
	ErrUnknownComponent = errors.New("unknown component")
	// ErrUnknownAction is returned for actions a component does not define.
	ErrUnknownAction = errors.New("unknown action")
)

// DispatchAction lets the target component translate action into prop
// requests and runs them through RequestUpdates.
func (dm *DocumentModel) DispatchAction(ctx context.Context, action component.Action) (res *ActionResult, err error) {
	defer recoverCycle(&err)

	if action.Component < 0 || action.Component >= len(dm.components) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownComponent, action.Component)
	}
	c := dm.components[action.Component]
	fn, ok := c.def.Actions[action.Name]
	if !ok || fn == nil {
		return nil, fmt.Errorf("%w: component %s of type %q has no action %q", ErrUnknownAction, graphnode.Component(c.index), c.def.Type, action.Name)
	}

	updates, err := fn(action, propReader{dm: dm, comp: c})
	if err != nil {
		return nil, fmt.Errorf("action %q on %s: %w", action.Name, graphnode.Component(c.index), err)
	}

	requests := make([]Request, 0, len(updates))
	for _, u := range updates {
		local, ok := c.def.PropIndex(u.Prop)
		if !ok {
			return nil, fmt.Errorf("action %q on %s requested unknown prop %q", action.Name, graphnode.Component(c.index), u.Prop)
		}
		requests = append(requests, Request{Prop: graphnode.Prop(c.props[local]), Value: u.Value})
	}

	ctxlog.FromContext(ctx).Debug("Dispatching action.", "component", c.index, "type", c.def.Type, "action", action.Name, "requests", len(requests))
	return dm.RequestUpdates(ctx, requests)
}

// RequestUpdates inverts the requested values down to the leaves, writes
// the leaves that change and marks every resolved prop above them stale.
// Branches whose invert fails are dropped. Nothing is written when the
// walk hits a cycle.
func (dm *DocumentModel) RequestUpdates(ctx context.Context, requests []Request) (res *ActionResult, err error) {
	defer recoverCycle(&err)
	logger := ctxlog.FromContext(ctx)

	pending := make(map[graphnode.Node]cty.Value, len(requests))
	direct := make(map[graphnode.Node]bool, len(requests))
	roots := make([]graphnode.Node, 0, len(requests))
	for _, r := range requests {
		if r.Prop.Kind != graphnode.KindProp || r.Prop.Index < 0 || r.Prop.Index >= len(dm.props) {
			return nil, fmt.Errorf("%s is not a prop of this document", r.Prop)
		}
		dm.freshen(r.Prop.Index)
		pending[r.Prop] = r.Value
		direct[r.Prop] = true
		roots = append(roots, r.Prop)
	}

	var leaves []graphnode.Node
	writes := make(map[graphnode.Node]cty.Value)
	for _, n := range dm.deps.DescendantsTopological(roots, nil) {
		v, ok := pending[n]
		if !ok {
			continue
		}
		switch n.Kind {
		case graphnode.KindProp:
			dm.invert(ctx, n, v, direct[n], pending)
		case graphnode.KindState, graphnode.KindString:
			if dm.leafWouldChange(n, v) {
				if _, dup := writes[n]; !dup {
					leaves = append(leaves, n)
				}
				writes[n] = v
			}
		}
	}

	// Ordering the sweep first keeps a cycle above the leaves from leaving
	// half-applied writes behind.
	var sweep []graphnode.Node
	if len(leaves) > 0 {
		sweep = dm.deps.AncestorsTopological(leaves, func(n graphnode.Node) bool {
			return n.Kind != graphnode.KindProp || dm.propCache.Status(n) == propcache.StatusUnresolved
		})
	}

	for _, leaf := range leaves {
		if leaf.Kind == graphnode.KindState {
			dm.states.Write(leaf, writes[leaf])
		} else {
			dm.strings.Write(leaf, propvalue.ToString(writes[leaf]))
		}
		logger.Debug("Wrote leaf.", "node", leaf, "value", propvalue.ToString(writes[leaf]))
	}
	dm.observer.LeavesWritten(len(leaves))

	touched := make(map[int]struct{})
	for _, n := range sweep {
		if dm.propCache.Status(n) == propcache.StatusFresh {
			dm.propCache.SetStatus(n, propcache.StatusStale)
		}
		if def := dm.props[n.Index]; def.forRender {
			touched[def.component] = struct{}{}
		}
	}

	content := dm.contentOwners(leaves)
	for _, comp := range content {
		touched[comp] = struct{}{}
	}

	res = &ActionResult{Written: leaves, Touched: make([]int, 0, len(touched)), ContentChanged: content}
	for comp := range touched {
		res.Touched = append(res.Touched, comp)
	}
	sort.Ints(res.Touched)
	return res, nil
}

// contentOwners lists, in index order, the components that render one of
// the written text leaves as a child.
func (dm *DocumentModel) contentOwners(leaves []graphnode.Node) []int {
	owners := make(map[int]struct{})
	for _, leaf := range leaves {
		if leaf.Kind != graphnode.KindString || !dm.structure.Has(leaf) {
			continue
		}
		for _, p := range dm.structure.ParentsOf(leaf) {
			if p.Kind == graphnode.KindComponent && dm.components[p.Index].def.Children == component.ChildrenContent {
				owners[p.Index] = struct{}{}
			}
		}
	}
	out := make([]int, 0, len(owners))
	for comp := range owners {
		out = append(out, comp)
	}
	sort.Ints(out)
	return out
}

// invert asks prop n's updater to translate v into requests on its
// dependencies and queues those requests.
func (dm *DocumentModel) invert(ctx context.Context, n graphnode.Node, v cty.Value, isDirect bool, pending map[graphnode.Node]cty.Value) {
	def := dm.props[n.Index]
	dm.freshen(n.Index)

	patched, err := def.updater.Invert(dm.gather(n.Index, true), v, isDirect)
	if err != nil {
		typ := dm.components[def.component].def.Type
		dm.observer.InvertFailed(typ, def.name, err)
		ctxlog.FromContext(ctx).Debug("Invert branch dropped.", "node", n, "prop", def.name, "component", def.component, "error", err)
		return
	}
	for _, result := range patched {
		for _, entry := range result.Values {
			if !entry.Changed {
				continue
			}
			switch entry.Origin.Kind {
			case graphnode.KindProp, graphnode.KindState, graphnode.KindString:
				pending[entry.Origin] = entry.Value
			}
		}
	}
}

// leafWouldChange mirrors the cache's versioning rule: an explicit write
// changes a leaf whose value differs or that still holds its default.
func (dm *DocumentModel) leafWouldChange(n graphnode.Node, v cty.Value) bool {
	var cur propvalue.PropWithMeta
	if n.Kind == graphnode.KindState {
		cur = dm.states.Peek(n)
	} else {
		cur = dm.strings.Peek(n)
		v = cty.StringVal(propvalue.ToString(v))
	}
	return cur.CameFromDefault || !propvalue.Equal(cur.Value, v)
}

// propReader exposes an action's own component props to its ActionFunc.
type propReader struct {
	dm   *DocumentModel
	comp *componentInstance
}

func (r propReader) Prop(name string) (cty.Value, error) {
	local, ok := r.comp.def.PropIndex(name)
	if !ok {
		return cty.NilVal, fmt.Errorf("component %q has no prop %q", r.comp.def.Type, name)
	}
	p := r.comp.props[local]
	r.dm.freshen(p)
	return r.dm.propCache.Peek(graphnode.Prop(p)).Value, nil
}
