package docmodel

import (
	"fmt"

	"github.com/specialistvlad/propgraph/internal/component"
	"github.com/specialistvlad/propgraph/internal/graphnode"
	"github.com/specialistvlad/propgraph/internal/propvalue"
)

// Child is one rendered child: a component or a piece of text.
type Child struct {
	// Component is -1 for text.
	Component int
	Text      string
}

// IsText reports whether the child is literal text.
func (c Child) IsText() bool {
	return c.Component < 0
}

// Children returns what a component renders as its children. Literal text
// reflects the current value of its leaf, so writes to text show up.
func (dm *DocumentModel) Children(comp int) (children []Child, err error) {
	defer recoverCycle(&err)
	c := dm.mustComponent(comp)

	switch c.def.Children {
	case component.ChildrenNone:
		return nil, nil

	case component.ChildrenFromProp:
		local, ok := c.def.PropIndex(c.def.ChildrenProp)
		if !ok {
			panic(fmt.Sprintf("docmodel: %q renders children from missing prop %q", c.def.Type, c.def.ChildrenProp))
		}
		n := graphnode.Prop(c.props[local])
		dm.freshen(n.Index)
		v := dm.propCache.Peek(n).Value
		if propvalue.IsNull(v) || !v.CanIterateElements() {
			return nil, nil
		}
		for it := v.ElementIterator(); it.Next(); {
			_, el := it.Element()
			children = append(children, Child{Component: -1, Text: propvalue.ToString(el)})
		}
		return children, nil

	default:
		for _, n := range dm.contentOf(comp) {
			if n.Kind == graphnode.KindString {
				children = append(children, Child{Component: -1, Text: propvalue.ToString(dm.strings.Peek(n).Value)})
				continue
			}
			children = append(children, Child{Component: n.Index})
		}
		return children, nil
	}
}
