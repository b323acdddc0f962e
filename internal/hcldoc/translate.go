package hcldoc

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/specialistvlad/propgraph/internal/document"
)

type rawExtend struct {
	target string
	prop   string
}

// translator turns element blocks into tree nodes. Extend references are
// collected on the way and linked once every name is known.
type translator struct {
	b       *document.Builder
	names   map[string]int
	extends map[int]rawExtend
	order   []int
	diags   hcl.Diagnostics
}

func translate(blocks hcl.Blocks) (*document.Tree, error) {
	if len(blocks) == 0 {
		return nil, errors.New("no element blocks found")
	}
	t := &translator{
		b:       document.NewBuilder(),
		names:   make(map[string]int),
		extends: make(map[int]rawExtend),
	}

	if len(blocks) == 1 {
		t.element(t.b.Root(blocks[0].Labels[0], blocks[0].Labels[1]), blocks[0])
	} else {
		root := t.b.Root(ImplicitRootType, "")
		for _, block := range blocks {
			t.element(t.b.Element(root, block.Labels[0], block.Labels[1]), block)
		}
	}
	if t.diags.HasErrors() {
		return nil, fmt.Errorf("invalid document: %w", t.diags)
	}

	t.linkExtends()
	return t.b.Build(), nil
}

// element fills node idx from the body of block.
func (t *translator) element(idx int, block *hcl.Block) {
	t.b.Position(idx, document.Position{
		File:   block.DefRange.Filename,
		Line:   block.DefRange.Start.Line,
		Column: block.DefRange.Start.Column,
	})
	t.register(idx, block)

	content, diags := block.Body.Content(elementSchema)
	t.diags = append(t.diags, diags...)
	if diags.HasErrors() {
		return
	}

	if attr, ok := content.Attributes[attrExtend]; ok {
		if ref, ok := t.stringValue(attr.Expr, "extend"); ok {
			target, prop, _ := strings.Cut(ref, ".")
			t.extends[idx] = rawExtend{target: target, prop: prop}
			t.order = append(t.order, idx)
		}
	}

	for _, child := range content.Blocks {
		switch child.Type {
		case blockElement:
			t.element(t.b.Element(idx, child.Labels[0], child.Labels[1]), child)
		case blockText:
			if text, ok := t.text(child); ok {
				t.b.Text(idx, text)
			}
		case blockAttributes:
			t.shorthandAttributes(idx, child)
		case blockAttribute:
			t.attribute(idx, child)
		}
	}
}

func (t *translator) register(idx int, block *hcl.Block) {
	name := block.Labels[1]
	if name == "" {
		return
	}
	if first, dup := t.names[name]; dup {
		t.b.Node(idx).Error = fmt.Sprintf("duplicate name %q, first defined at %s", name, t.b.Node(first).Position)
		return
	}
	t.names[name] = idx
}

func (t *translator) text(block *hcl.Block) (string, bool) {
	content, diags := block.Body.Content(textSchema)
	t.diags = append(t.diags, diags...)
	if diags.HasErrors() {
		return "", false
	}
	return t.stringValue(content.Attributes[attrValue].Expr, "text value")
}

// shorthandAttributes handles `attributes { name = value ... }` in source
// order.
func (t *translator) shorthandAttributes(idx int, block *hcl.Block) {
	attrs, diags := block.Body.JustAttributes()
	t.diags = append(t.diags, diags...)

	sorted := make([]*hcl.Attribute, 0, len(attrs))
	for _, a := range attrs {
		sorted = append(sorted, a)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Range.Start.Byte < sorted[j].Range.Start.Byte
	})
	for _, a := range sorted {
		if text, ok := t.stringValue(a.Expr, "attribute "+a.Name); ok {
			t.b.AttributeText(idx, a.Name, text)
		}
	}
}

func (t *translator) attribute(idx int, block *hcl.Block) {
	name := block.Labels[0]
	content, diags := block.Body.Content(attributeSchema)
	t.diags = append(t.diags, diags...)
	if diags.HasErrors() {
		return
	}
	for _, child := range content.Blocks {
		switch child.Type {
		case blockElement:
			t.element(t.b.AttributeElement(idx, name, child.Labels[0], child.Labels[1]), child)
		case blockText:
			if text, ok := t.text(child); ok {
				t.b.AttributeAddText(idx, name, text)
			}
		}
	}
}

// stringValue evaluates a constant expression and renders it as text.
func (t *translator) stringValue(expr hcl.Expression, what string) (string, bool) {
	v, diags := expr.Value(nil)
	t.diags = append(t.diags, diags...)
	if diags.HasErrors() {
		return "", false
	}
	if v.IsNull() || !v.Type().IsPrimitiveType() {
		t.diags = append(t.diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid " + what,
			Detail:   "Expected a string, number or bool.",
			Subject:  expr.Range().Ptr(),
		})
		return "", false
	}
	s, err := convert.Convert(v, cty.String)
	if err != nil {
		t.diags = append(t.diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid " + what,
			Detail:   err.Error(),
			Subject:  expr.Range().Ptr(),
		})
		return "", false
	}
	return s.AsString(), true
}

// linkExtends resolves extend references by name. Elements whose target is
// missing or broken become error nodes, repeatedly, so chains of broken
// extends all fail.
func (t *translator) linkExtends() {
	for _, idx := range t.order {
		n := t.b.Node(idx)
		if n.IsError() {
			continue
		}
		raw := t.extends[idx]
		target, ok := t.names[raw.target]
		if !ok {
			n.Error = fmt.Sprintf("extend target %q not found", raw.target)
			continue
		}
		n.Extend = &document.Extend{Node: target, Prop: raw.prop}
	}

	for changed := true; changed; {
		changed = false
		for _, idx := range t.order {
			n := t.b.Node(idx)
			if n.Extend == nil {
				continue
			}
			target := t.b.Node(n.Extend.Node)
			if target.IsError() {
				n.Error = fmt.Sprintf("cannot extend %q: %s", target.Name, target.Error)
				n.Extend = nil
				changed = true
			}
		}
	}
}
