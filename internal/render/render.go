package render

import (
	"context"
	"fmt"

	"github.com/specialistvlad/propgraph/internal/ctxlog"
	"github.com/specialistvlad/propgraph/internal/docmodel"
	"github.com/specialistvlad/propgraph/internal/document"
	"github.com/specialistvlad/propgraph/internal/graphnode"
	"github.com/specialistvlad/propgraph/internal/propvalue"
)

// Document is a full render. Components are listed in pre-order starting
// with the root.
type Document struct {
	Root       int         `json:"root" yaml:"root"`
	Components []Component `json:"components" yaml:"components"`
}

// Component is one rendered component.
type Component struct {
	Index    int               `json:"index" yaml:"index"`
	Type     string            `json:"type" yaml:"type"`
	Name     string            `json:"name,omitempty" yaml:"name,omitempty"`
	Error    string            `json:"error,omitempty" yaml:"error,omitempty"`
	Children []Child           `json:"children,omitempty" yaml:"children,omitempty"`
	Props    map[string]any    `json:"props,omitempty" yaml:"props,omitempty"`
	Position document.Position `json:"position" yaml:"position"`
}

// Child is a reference to a child component or a piece of text.
type Child struct {
	Component *int   `json:"component,omitempty" yaml:"component,omitempty"`
	Text      string `json:"text,omitempty" yaml:"text,omitempty"`
}

// Update carries the for-render props of a component that changed for the
// reader. Children is set when they are derived from a changed prop.
type Update struct {
	Index    int            `json:"index" yaml:"index"`
	Props    map[string]any `json:"props" yaml:"props"`
	Children []Child        `json:"children,omitempty" yaml:"children,omitempty"`
}

// Full renders every component reachable from the root through rendered
// children. Reading marks the values as seen by reader.
func Full(ctx context.Context, dm *docmodel.DocumentModel, reader graphnode.Node) (*Document, error) {
	doc := &Document{Root: dm.Root()}
	stack := []int{doc.Root}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		c, err := renderComponent(dm, reader, idx)
		if err != nil {
			return nil, err
		}
		doc.Components = append(doc.Components, *c)

		for i := len(c.Children) - 1; i >= 0; i-- {
			if child := c.Children[i].Component; child != nil {
				stack = append(stack, *child)
			}
		}
	}
	ctxlog.FromContext(ctx).Debug("Rendered document.", "components", len(doc.Components))
	return doc, nil
}

func renderComponent(dm *docmodel.DocumentModel, reader graphnode.Node, idx int) (*Component, error) {
	info, ok := dm.Component(idx)
	if !ok {
		panic(fmt.Sprintf("render: component %d does not exist", idx))
	}
	c := &Component{
		Index:    info.Index,
		Type:     info.Type,
		Name:     info.Name,
		Error:    info.Error,
		Position: info.Position,
	}

	props, err := forRender(dm, reader, idx, false)
	if err != nil {
		return nil, err
	}
	if len(props) > 0 {
		c.Props = props
	}

	c.Children, err = children(dm, idx)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Updates renders, for each component res touched, the for-render props
// whose value changed since reader last saw them. Children are included
// when they derive from a changed prop or when their text was rewritten.
// Components with nothing new are left out.
func Updates(ctx context.Context, dm *docmodel.DocumentModel, reader graphnode.Node, res *docmodel.ActionResult) ([]Update, error) {
	content := make(map[int]bool, len(res.ContentChanged))
	for _, idx := range res.ContentChanged {
		content[idx] = true
	}

	updates := make([]Update, 0, len(res.Touched))
	for _, idx := range res.Touched {
		props, err := forRender(dm, reader, idx, true)
		if err != nil {
			return nil, err
		}
		info, _ := dm.Component(idx)
		_, propChanged := props[info.ChildrenProp]
		withChildren := content[idx] || (propChanged && info.ChildrenProp != "")
		if len(props) == 0 && !withChildren {
			continue
		}
		u := Update{Index: idx, Props: props}
		if withChildren {
			if u.Children, err = children(dm, idx); err != nil {
				return nil, err
			}
		}
		updates = append(updates, u)
	}
	ctxlog.FromContext(ctx).Debug("Rendered updates.", "touched", len(res.Touched), "updated", len(updates))
	return updates, nil
}

func forRender(dm *docmodel.DocumentModel, reader graphnode.Node, idx int, onlyChanged bool) (map[string]any, error) {
	out := make(map[string]any)
	for _, n := range dm.ForRenderProps(idx) {
		v, err := dm.GetProp(n, reader)
		if err != nil {
			return nil, fmt.Errorf("rendering %s: %w", graphnode.Component(idx), err)
		}
		if onlyChanged && !v.Changed {
			continue
		}
		out[dm.PropInfo(n).Name] = propvalue.Native(v.Value)
	}
	return out, nil
}

func children(dm *docmodel.DocumentModel, idx int) ([]Child, error) {
	list, err := dm.Children(idx)
	if err != nil {
		return nil, fmt.Errorf("rendering children of %s: %w", graphnode.Component(idx), err)
	}
	if len(list) == 0 {
		return nil, nil
	}
	out := make([]Child, len(list))
	for i, c := range list {
		if c.IsText() {
			out[i] = Child{Text: c.Text}
			continue
		}
		comp := c.Component
		out[i] = Child{Component: &comp}
	}
	return out, nil
}
