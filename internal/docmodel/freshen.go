package docmodel

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/propgraph/internal/graph"
	"github.com/specialistvlad/propgraph/internal/graphnode"
	"github.com/specialistvlad/propgraph/internal/propcache"
	"github.com/specialistvlad/propgraph/internal/propvalue"
	"github.com/specialistvlad/propgraph/internal/updater"
)

// FreshenProp makes sure prop n holds an up to date value.
func (dm *DocumentModel) FreshenProp(n graphnode.Node) (err error) {
	defer recoverCycle(&err)
	dm.mustProp(n)
	dm.freshen(n.Index)
	return nil
}

// GetProp freshens prop n and reads it on behalf of reader.
func (dm *DocumentModel) GetProp(n, reader graphnode.Node) (v propvalue.PropWithMeta, err error) {
	defer recoverCycle(&err)
	dm.mustProp(n)
	dm.freshen(n.Index)
	return dm.propCache.Get(n, reader), nil
}

func (dm *DocumentModel) freshen(p int) {
	node := graphnode.Prop(p)
	if dm.propCache.Status(node) == propcache.StatusFresh {
		return
	}
	if _, busy := dm.freshening[p]; busy {
		panic(&graph.CycleError{Nodes: dm.cycleFrom(node)})
	}

	dm.resolve(p)
	dm.freshening[p] = struct{}{}
	dm.stack = append(dm.stack, node)
	defer func() {
		delete(dm.freshening, p)
		dm.stack = dm.stack[:len(dm.stack)-1]
	}()

	def := dm.props[p]
	res := def.updater.Calculate(dm.gather(p, false))
	if res.Kind == propvalue.KindNoChange && !dm.propCache.Has(node) {
		res = propvalue.FromDefault(def.updater.Default())
	}
	changed := dm.propCache.Set(node, res)

	typ := dm.components[def.component].def.Type
	dm.observer.PropCalculated(typ, def.name, changed)
	dm.logger.Debug("Freshened prop.", "node", node, "prop", def.name, "component", def.component, "result", res.Kind, "changed", changed)
}

// cycleFrom returns the part of the freshen stack that loops back to n.
func (dm *DocumentModel) cycleFrom(n graphnode.Node) []graphnode.Node {
	for i, s := range dm.stack {
		if s == n {
			return append([]graphnode.Node(nil), dm.stack[i:]...)
		}
	}
	return []graphnode.Node{n}
}

// gather collects the values of every data query of prop p, freshening
// dependencies first. Peeking reads without recording p's queries as
// readers; the invert cascade uses it so it does not hide changes from the
// next Calculate.
func (dm *DocumentModel) gather(p int, peek bool) []updater.DataQueryResult {
	def := dm.props[p]
	out := make([]updater.DataQueryResult, len(def.queries))
	for i, qn := range def.queries {
		var values []propvalue.PropWithMeta
		for _, answer := range dm.deps.ChildrenOf(qn) {
			values = dm.collect(values, answer, qn, peek)
		}
		out[i] = updater.DataQueryResult{Values: values}
	}
	return out
}

func (dm *DocumentModel) collect(values []propvalue.PropWithMeta, n, reader graphnode.Node, peek bool) []propvalue.PropWithMeta {
	switch n.Kind {
	case graphnode.KindProp:
		dm.freshen(n.Index)
		if peek {
			return append(values, dm.propCache.Peek(n))
		}
		return append(values, dm.propCache.Get(n, reader))

	case graphnode.KindState:
		if peek {
			return append(values, dm.states.Peek(n))
		}
		return append(values, dm.states.Get(n, reader))

	case graphnode.KindString:
		if peek {
			return append(values, dm.strings.Peek(n))
		}
		return append(values, dm.strings.Get(n, reader))

	case graphnode.KindComponent:
		return append(values, propvalue.PropWithMeta{
			Value:  cty.NumberIntVal(int64(n.Index)),
			Origin: n,
		})

	case graphnode.KindVirtual:
		return dm.collectVirtual(values, n, reader, peek)

	default:
		panic(fmt.Sprintf("docmodel: %s cannot answer a query", n))
	}
}

func (dm *DocumentModel) collectVirtual(values []propvalue.PropWithMeta, n, reader graphnode.Node, peek bool) []propvalue.PropWithMeta {
	info := dm.virtuals[n.Index]
	switch info.kind {
	case virtualPlaceholder:
		return append(values, propvalue.PropWithMeta{
			Value:           propvalue.Null,
			CameFromDefault: true,
			Origin:          n,
		})

	case virtualGroup:
		for _, child := range dm.deps.ChildrenOf(n) {
			values = dm.collect(values, child, reader, peek)
		}
		return values

	case virtualCondition:
		cond := dm.collect(nil, info.cond, reader, peek)
		if len(cond) != 1 || !propvalue.Equal(cond[0].Value, info.want) {
			return values
		}
		if info.picked == info.cond {
			return append(values, cond[0])
		}
		return dm.collect(values, info.picked, reader, peek)

	default:
		panic(fmt.Sprintf("docmodel: %s is not part of the dependency graph", n))
	}
}

// recoverCycle turns a cycle panic into an error. Any other panic is an
// invariant violation and keeps unwinding.
func recoverCycle(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if cycleErr, ok := r.(*graph.CycleError); ok {
		*err = fmt.Errorf("dependency cycle: %w", cycleErr)
		return
	}
	panic(r)
}
