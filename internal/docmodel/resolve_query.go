package docmodel

import (
	"fmt"

	"github.com/specialistvlad/propgraph/internal/dataquery"
	"github.com/specialistvlad/propgraph/internal/graphnode"
)

// resolveQuery computes the answer nodes of q asked by prop p, in document
// order. Virtual nodes it creates are wired before they are returned.
func (dm *DocumentModel) resolveQuery(p int, q dataquery.Query) []graphnode.Node {
	owner := dm.props[p]

	switch q := q.(type) {
	case dataquery.State:
		return []graphnode.Node{dm.stateNode(p)}

	case dataquery.Prop:
		target, ok := dm.sourceComponent(owner.component, q.Source)
		if !ok {
			return nil
		}
		if n, ok := dm.specifiedProp(target, q.Specifier); ok {
			return []graphnode.Node{n}
		}
		return nil

	case dataquery.Attribute:
		var out []graphnode.Node
		for _, content := range dm.components[owner.component].attributes[q.Name] {
			if n, ok := dm.contentAnswer(content, q.MatchProfiles); ok {
				out = append(out, n)
			}
		}
		return out

	case dataquery.ChildPropProfile:
		var out []graphnode.Node
		for _, content := range dm.contentOf(owner.component) {
			if n, ok := dm.contentAnswer(content, q.MatchProfiles); ok {
				out = append(out, n)
			}
		}
		return out

	case dataquery.FilteredChildren:
		return dm.resolveFiltered(owner.component, q)

	case dataquery.PickProp:
		return dm.resolvePick(owner.component, q)

	case dataquery.SelfRef:
		return []graphnode.Node{graphnode.Component(owner.component)}

	case dataquery.Null:
		return nil

	default:
		panic(fmt.Sprintf("docmodel: unsupported data query %T", q))
	}
}

// stateNode returns the State leaf for prop p, shared along same-type
// extends and seeded with the updater's default on first use.
func (dm *DocumentModel) stateNode(p int) graphnode.Node {
	def := dm.props[p]
	key := stateKey{component: dm.originOf(def.component), local: def.local}
	if n, ok := dm.stateOf[key]; ok {
		return n
	}
	n := dm.states.NewNode(def.updater.Default())
	dm.stateOf[key] = n
	return n
}

func (dm *DocumentModel) sourceComponent(self int, src dataquery.Source) (int, bool) {
	switch src.Kind {
	case dataquery.SourceMe:
		return self, true
	case dataquery.SourceParent:
		parent := dm.components[self].parent
		return parent, parent >= 0
	case dataquery.SourceComponent:
		dm.mustComponent(src.Component)
		return src.Component, true
	default:
		panic(fmt.Sprintf("docmodel: unknown source kind %d", src.Kind))
	}
}

func (dm *DocumentModel) specifiedProp(comp int, spec dataquery.Specifier) (graphnode.Node, bool) {
	c := dm.components[comp]
	switch spec.Kind {
	case dataquery.SpecifierIndex:
		if spec.Index < 0 || spec.Index >= len(c.props) {
			panic(fmt.Sprintf("docmodel: %s has no prop #%d", graphnode.Component(comp), spec.Index))
		}
		return graphnode.Prop(c.props[spec.Index]), true
	case dataquery.SpecifierName:
		local, ok := c.def.PropIndex(spec.Name)
		if !ok {
			return graphnode.Node{}, false
		}
		return graphnode.Prop(c.props[local]), true
	default:
		return dm.matchingProp(comp, spec.Profiles)
	}
}

// matchingProp is the first prop of comp matching profiles, by profile
// priority.
func (dm *DocumentModel) matchingProp(comp int, profiles []dataquery.Profile) (graphnode.Node, bool) {
	c := dm.components[comp]
	local, ok := c.def.FirstWithProfile(profiles)
	if !ok {
		return graphnode.Node{}, false
	}
	return graphnode.Prop(c.props[local]), true
}

// contentAnswer links literal text directly and components through their
// first matching prop.
func (dm *DocumentModel) contentAnswer(content graphnode.Node, profiles []dataquery.Profile) (graphnode.Node, bool) {
	if content.Kind == graphnode.KindString {
		return content, dataquery.MatchesText(profiles)
	}
	return dm.matchingProp(content.Index, profiles)
}

func (dm *DocumentModel) contentOf(comp int) []graphnode.Node {
	return dm.structure.ChildrenOf(graphnode.Component(comp))
}

func (dm *DocumentModel) resolveFiltered(self int, q dataquery.FilteredChildren) []graphnode.Node {
	parent, ok := dm.sourceComponent(self, q.Parent)
	if !ok {
		return nil
	}

	var out []graphnode.Node
	for _, content := range dm.contentOf(parent) {
		if !dm.passesFilters(content, q.Filters) {
			continue
		}
		if q.Condition == nil {
			if n, ok := dm.contentAnswer(content, q.MatchProfiles); ok {
				out = append(out, n)
			}
			continue
		}
		// Literal text has no props to test the condition against.
		if content.Kind == graphnode.KindString {
			continue
		}
		cond, ok := dm.matchingProp(content.Index, []dataquery.Profile{q.Condition.Profile})
		if !ok {
			continue
		}
		picked, ok := dm.matchingProp(content.Index, q.MatchProfiles)
		if !ok {
			continue
		}
		v := dm.newVirtual(virtualInfo{kind: virtualCondition, want: q.Condition.Want, cond: cond, picked: picked})
		dm.deps.AddNode(v)
		dm.deps.AddEdge(v, cond)
		dm.deps.AddEdge(v, picked)
		out = append(out, v)
	}
	return out
}

func (dm *DocumentModel) passesFilters(content graphnode.Node, filters []dataquery.ContentFilter) bool {
	for _, f := range filters {
		if content.Kind == graphnode.KindString {
			if f.Kind != dataquery.FilterLacksProfile {
				return false
			}
			continue
		}
		def := dm.components[content.Index].def
		switch f.Kind {
		case dataquery.FilterComponentType:
			if def.Type != f.ComponentType {
				return false
			}
		case dataquery.FilterHasProfile:
			if !def.HasProfile(f.Profile) {
				return false
			}
		case dataquery.FilterLacksProfile:
			if def.HasProfile(f.Profile) {
				return false
			}
		}
	}
	return true
}

// resolvePick links one answer per profile group for every child with at
// least one match. With several groups the answers of a child are bundled
// under a Virtual node and absent ones replaced by placeholders.
func (dm *DocumentModel) resolvePick(self int, q dataquery.PickProp) []graphnode.Node {
	source, ok := dm.sourceComponent(self, q.Source)
	if !ok || len(q.Groups) == 0 {
		return nil
	}

	var out []graphnode.Node
	for _, content := range dm.contentOf(source) {
		answers := make([]graphnode.Node, len(q.Groups))
		found := make([]bool, len(q.Groups))
		matched := false
		for i, group := range q.Groups {
			answers[i], found[i] = dm.contentAnswer(content, group)
			matched = matched || found[i]
		}
		if !matched {
			continue
		}
		if len(q.Groups) == 1 {
			out = append(out, answers[0])
			continue
		}

		v := dm.newVirtual(virtualInfo{kind: virtualGroup})
		dm.deps.AddNode(v)
		for i := range answers {
			target := answers[i]
			if !found[i] {
				target = dm.newVirtual(virtualInfo{kind: virtualPlaceholder})
			}
			// Literal text answers only exist in the structure graph so far.
			dm.deps.AddNode(target)
			dm.deps.AddEdge(v, target)
		}
		out = append(out, v)
	}
	return out
}
