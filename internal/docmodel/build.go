package docmodel

import (
	"context"
	"fmt"

	"github.com/specialistvlad/propgraph/internal/component"
	"github.com/specialistvlad/propgraph/internal/ctxlog"
	"github.com/specialistvlad/propgraph/internal/document"
	"github.com/specialistvlad/propgraph/internal/graph"
	"github.com/specialistvlad/propgraph/internal/graphnode"
	"github.com/specialistvlad/propgraph/internal/propcache"
	"github.com/specialistvlad/propgraph/internal/updater"
)

// New instantiates every element of tree as a component. Component i is
// tree node i. Unknown types, broken extends and tree errors become
// components of component.ErrorType.
func New(ctx context.Context, tree *document.Tree, reg *component.Registry, opts ...Option) (*DocumentModel, error) {
	if err := tree.Validate(); err != nil {
		return nil, fmt.Errorf("invalid document tree: %w", err)
	}
	errDef, ok := reg.Lookup(component.ErrorType)
	if !ok {
		return nil, fmt.Errorf("component type '%s' is not registered", component.ErrorType)
	}

	dm := &DocumentModel{
		logger:     ctxlog.FromContext(ctx),
		observer:   noopObserver{},
		structure:  graph.New(),
		deps:       graph.New(),
		byName:     make(map[string]int),
		propCache:  propcache.NewPropCache(),
		states:     propcache.NewStateCache(),
		strings:    propcache.NewStringCache(),
		stateOf:    make(map[stateKey]graphnode.Node),
		freshening: make(map[int]struct{}),
	}
	for _, opt := range opts {
		opt(dm)
	}

	dm.components = make([]*componentInstance, len(tree.Nodes))
	for i, n := range tree.Nodes {
		c := &componentInstance{
			index:    i,
			name:     n.Name,
			parent:   n.Parent,
			position: n.Position,
			errMsg:   n.Error,
		}
		if !c.isError() {
			def, found := reg.Lookup(n.Type)
			if found {
				c.def = def
			} else {
				c.errMsg = fmt.Sprintf("unknown component type %q", n.Type)
			}
		}
		dm.components[i] = c
		if c.name != "" {
			if _, taken := dm.byName[c.name]; !taken {
				dm.byName[c.name] = i
			}
		}
		dm.structure.AddNode(graphnode.Component(i))
	}

	dm.linkExtends(tree)

	for i, n := range tree.Nodes {
		c := dm.components[i]
		if c.isError() {
			c.def = errDef
			c.extend = nil
		}
		node := graphnode.Component(i)
		for _, child := range n.Children {
			dm.structure.AddEdge(node, dm.contentNode(child))
		}
		if len(n.Attributes) > 0 {
			c.attributes = make(map[string][]graphnode.Node, len(n.Attributes))
			for _, a := range n.Attributes {
				content := make([]graphnode.Node, 0, len(a.Children))
				for _, child := range a.Children {
					content = append(content, dm.contentNode(child))
				}
				c.attributes[a.Name] = content
			}
		}
	}

	for _, c := range dm.components {
		dm.instantiateProps(c)
	}

	dm.logger.Debug("Document model built.",
		"components", len(dm.components),
		"props", len(dm.props),
		"strings", dm.strings.Len(),
	)
	return dm, nil
}

// contentNode turns a tree child into a structure node, allocating a
// String leaf for literal text.
func (dm *DocumentModel) contentNode(child document.Child) graphnode.Node {
	if child.Kind == document.ChildText {
		n := dm.strings.NewNode(child.Text)
		dm.structure.AddNode(n)
		return n
	}
	return graphnode.Component(child.Node)
}

// linkExtends validates extend pointers and records them on instances.
// Instances whose extend cannot be honored become errors, which may in
// turn invalidate instances extending them, so it iterates to a fixed
// point.
func (dm *DocumentModel) linkExtends(tree *document.Tree) {
	for i, n := range tree.Nodes {
		if n.Extend != nil && extendsInCycle(tree, i) {
			dm.components[i].errMsg = "circular extend"
		}
	}

	for changed := true; changed; {
		changed = false
		for i, n := range tree.Nodes {
			c := dm.components[i]
			if c.isError() || n.Extend == nil {
				continue
			}
			if msg := dm.extendProblem(n.Extend); msg != "" {
				c.errMsg = msg
				changed = true
			}
		}
	}

	for i, n := range tree.Nodes {
		c := dm.components[i]
		if c.isError() || n.Extend == nil {
			continue
		}
		target := dm.components[n.Extend.Node]
		c.extend = &updater.Extend{
			Component: target.index,
			Prop:      n.Extend.Prop,
			SameType:  n.Extend.Prop == "" && target.def == c.def,
		}
	}
}

func (dm *DocumentModel) extendProblem(ext *document.Extend) string {
	target := dm.components[ext.Node]
	if target.isError() {
		return fmt.Sprintf("cannot extend %s: %s", graphnode.Component(ext.Node), target.errMsg)
	}
	if ext.Prop == "" {
		return ""
	}
	local, ok := target.def.PropIndex(ext.Prop)
	if !ok || !target.def.Props[local].Public {
		return fmt.Sprintf("component %q has no public prop %q", target.def.Type, ext.Prop)
	}
	return ""
}

func extendsInCycle(tree *document.Tree, start int) bool {
	seen := make(map[int]struct{})
	for cur := start; tree.Nodes[cur].Extend != nil; {
		cur = tree.Nodes[cur].Extend.Node
		if cur == start {
			return true
		}
		if _, dup := seen[cur]; dup {
			return false
		}
		seen[cur] = struct{}{}
	}
	return false
}

func (dm *DocumentModel) instantiateProps(c *componentInstance) {
	ctx := updater.Context{Component: c.index, Extend: c.extend}
	c.props = make([]int, len(c.def.Props))
	for local, spec := range c.def.Props {
		idx := len(dm.props)
		dm.props = append(dm.props, &propDefinition{
			name:      spec.Name,
			component: c.index,
			local:     local,
			profile:   spec.Profile,
			forRender: spec.ForRender,
			public:    spec.Public,
			updater:   spec.New(ctx),
		})
		c.props[local] = idx
		dm.deps.AddNode(graphnode.Prop(idx))
	}
}

// originOf follows same-type extends to the instance owning shared state.
func (dm *DocumentModel) originOf(comp int) int {
	for {
		ext := dm.components[comp].extend
		if ext == nil || !ext.SameType {
			return comp
		}
		comp = ext.Component
	}
}
