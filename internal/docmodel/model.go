package docmodel

import (
	"log/slog"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/propgraph/internal/component"
	"github.com/specialistvlad/propgraph/internal/dataquery"
	"github.com/specialistvlad/propgraph/internal/document"
	"github.com/specialistvlad/propgraph/internal/graph"
	"github.com/specialistvlad/propgraph/internal/graphnode"
	"github.com/specialistvlad/propgraph/internal/propcache"
	"github.com/specialistvlad/propgraph/internal/updater"
)

// DocumentModel holds one instantiated document.
type DocumentModel struct {
	logger   *slog.Logger
	observer Observer

	structure *graph.Graph
	deps      *graph.Graph

	components []*componentInstance
	byName     map[string]int
	props      []*propDefinition
	queries    []queryInfo
	virtuals   []virtualInfo

	propCache *propcache.PropCache
	states    *propcache.StateCache
	strings   *propcache.StringCache
	stateOf   map[stateKey]graphnode.Node

	// freshening holds the props on the current freshen call stack.
	freshening map[int]struct{}
	stack      []graphnode.Node
}

type componentInstance struct {
	index      int
	def        *component.Definition
	name       string
	parent     int
	attributes map[string][]graphnode.Node
	extend     *updater.Extend
	props      []int
	position   document.Position
	errMsg     string
}

func (c *componentInstance) isError() bool {
	return c.errMsg != ""
}

// propDefinition is one prop of one component instance.
type propDefinition struct {
	name      string
	component int
	local     int
	profile   dataquery.Profile
	forRender bool
	public    bool
	updater   updater.Updater
	queries   []graphnode.Node
}

type queryInfo struct {
	prop  int
	query dataquery.Query
}

type virtualKind uint8

const (
	// virtualGroup bundles several answers for one child.
	virtualGroup virtualKind = iota
	// virtualPlaceholder stands in for an absent prop.
	virtualPlaceholder
	// virtualCondition yields picked only while cond equals want.
	virtualCondition
	// virtualReader identifies an external reader. It has no edges.
	virtualReader
)

type virtualInfo struct {
	kind virtualKind
	want cty.Value
	// cond and picked are set for conditions. They may be the same node.
	cond, picked graphnode.Node
}

type stateKey struct {
	component int
	local     int
}

// ComponentInfo describes a component instance.
type ComponentInfo struct {
	Index    int
	Type     string
	Name     string
	Parent   int
	Error    string
	Position document.Position
	// ChildrenProp is the prop whose elements are rendered as children, if
	// any.
	ChildrenProp string
}

// PropInfo describes a prop instance.
type PropInfo struct {
	Name      string
	Component int
	Local     int
	Profile   dataquery.Profile
	ForRender bool
	Public    bool
}

// Request asks for a new value on a prop.
type Request struct {
	Prop  graphnode.Node
	Value cty.Value
}

// ActionResult is the outcome of a settled action.
type ActionResult struct {
	// Touched lists, in index order, the components with a for-render prop
	// that was marked stale.
	Touched []int
	// Written lists the leaves whose value changed.
	Written []graphnode.Node
	// ContentChanged lists, in index order, the components whose rendered
	// text children were rewritten. They are also in Touched.
	ContentChanged []int
}

// NumComponents returns the number of component instances.
func (dm *DocumentModel) NumComponents() int {
	return len(dm.components)
}

// Root returns the root component index.
func (dm *DocumentModel) Root() int {
	for _, c := range dm.components {
		if c.parent == -1 {
			return c.index
		}
	}
	panic("docmodel: document has no root")
}

// Component describes component idx.
func (dm *DocumentModel) Component(idx int) (ComponentInfo, bool) {
	if idx < 0 || idx >= len(dm.components) {
		return ComponentInfo{}, false
	}
	c := dm.components[idx]
	info := ComponentInfo{
		Index:    c.index,
		Type:     c.def.Type,
		Name:     c.name,
		Parent:   c.parent,
		Error:    c.errMsg,
		Position: c.position,
	}
	if c.def.Children == component.ChildrenFromProp {
		info.ChildrenProp = c.def.ChildrenProp
	}
	return info, true
}

// ComponentByName returns the first component with the given name.
func (dm *DocumentModel) ComponentByName(name string) (int, bool) {
	idx, ok := dm.byName[name]
	return idx, ok
}

// PropNode returns the node of the named prop of a component.
func (dm *DocumentModel) PropNode(comp int, name string) (graphnode.Node, bool) {
	c := dm.mustComponent(comp)
	local, ok := c.def.PropIndex(name)
	if !ok {
		return graphnode.Node{}, false
	}
	return graphnode.Prop(c.props[local]), true
}

// PropInfo describes prop node n.
func (dm *DocumentModel) PropInfo(n graphnode.Node) PropInfo {
	p := dm.mustProp(n)
	return PropInfo{
		Name:      p.name,
		Component: p.component,
		Local:     p.local,
		Profile:   p.profile,
		ForRender: p.forRender,
		Public:    p.public,
	}
}

// ForRenderProps returns the for-render props of a component in
// declaration order.
func (dm *DocumentModel) ForRenderProps(comp int) []graphnode.Node {
	c := dm.mustComponent(comp)
	var out []graphnode.Node
	for _, p := range c.props {
		if dm.props[p].forRender {
			out = append(out, graphnode.Prop(p))
		}
	}
	return out
}

// PropStatus returns the freshness of prop n.
func (dm *DocumentModel) PropStatus(n graphnode.Node) propcache.Status {
	dm.mustProp(n)
	return dm.propCache.Status(n)
}

// NewReader allocates an identity for an external reader, such as a
// renderer, to track changes with.
func (dm *DocumentModel) NewReader() graphnode.Node {
	return dm.newVirtual(virtualInfo{kind: virtualReader})
}

func (dm *DocumentModel) newVirtual(info virtualInfo) graphnode.Node {
	n := graphnode.Virtual(len(dm.virtuals))
	dm.virtuals = append(dm.virtuals, info)
	return n
}

func (dm *DocumentModel) mustComponent(idx int) *componentInstance {
	if idx < 0 || idx >= len(dm.components) {
		panic(graphnode.Component(idx).String() + " does not exist")
	}
	return dm.components[idx]
}

func (dm *DocumentModel) mustProp(n graphnode.Node) *propDefinition {
	if n.Kind != graphnode.KindProp || n.Index < 0 || n.Index >= len(dm.props) {
		panic(n.String() + " is not a prop of this document")
	}
	return dm.props[n.Index]
}
