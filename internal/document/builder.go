// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package document

// Builder assembles a Tree node by node. The first element added becomes
// the root.
type Builder struct {
	tree *Tree
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{tree: &Tree{Root: -1}}
}

// Root adds the root element and returns its index.
func (b *Builder) Root(typ, name string) int {
	idx := b.add(&Node{Type: typ, Name: name, Parent: -1})
	b.tree.Root = idx
	return idx
}

// Element appends an element to parent's children and returns its index.
func (b *Builder) Element(parent int, typ, name string) int {
	idx := b.add(&Node{Type: typ, Name: name, Parent: parent})
	p := b.tree.Nodes[parent]
	p.Children = append(p.Children, ElementChild(idx))
	return idx
}

// Error appends an error placeholder to parent's children.
func (b *Builder) Error(parent int, msg string) int {
	idx := b.add(&Node{Error: msg, Parent: parent})
	p := b.tree.Nodes[parent]
	p.Children = append(p.Children, ElementChild(idx))
	return idx
}

// Text appends literal text to node's children.
func (b *Builder) Text(node int, text string) {
	n := b.tree.Nodes[node]
	n.Children = append(n.Children, TextChild(text))
}

// AttributeText sets attribute name of node to a single piece of text.
func (b *Builder) AttributeText(node int, name, text string) {
	b.attribute(node, name).Children = []Child{TextChild(text)}
}

// AttributeAddText appends text to attribute name of node.
func (b *Builder) AttributeAddText(node int, name, text string) {
	a := b.attribute(node, name)
	a.Children = append(a.Children, TextChild(text))
}

// AttributeElement adds an element inside attribute name of node and
// returns its index.
func (b *Builder) AttributeElement(node int, name, typ, elemName string) int {
	idx := b.add(&Node{Type: typ, Name: elemName, Parent: node})
	a := b.attribute(node, name)
	a.Children = append(a.Children, ElementChild(idx))
	return idx
}

// Extend makes node extend target, or target's prop when prop is set.
func (b *Builder) Extend(node, target int, prop string) {
	b.tree.Nodes[node].Extend = &Extend{Node: target, Prop: prop}
}

// Position sets the source position of node.
func (b *Builder) Position(node int, pos Position) {
	b.tree.Nodes[node].Position = pos
}

// Node gives access to a node that is still being built.
func (b *Builder) Node(idx int) *Node {
	return b.tree.Nodes[idx]
}

// Len returns the number of nodes added so far.
func (b *Builder) Len() int {
	return len(b.tree.Nodes)
}

// Build returns the tree. The builder must not be used afterwards.
func (b *Builder) Build() *Tree {
	t := b.tree
	b.tree = nil
	return t
}

func (b *Builder) add(n *Node) int {
	b.tree.Nodes = append(b.tree.Nodes, n)
	return len(b.tree.Nodes) - 1
}

func (b *Builder) attribute(node int, name string) *Attribute {
	n := b.tree.Nodes[node]
	if a, ok := n.Attribute(name); ok {
		return a
	}
	n.Attributes = append(n.Attributes, Attribute{Name: name})
	return &n.Attributes[len(n.Attributes)-1]
}
