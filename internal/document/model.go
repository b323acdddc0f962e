// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package document

import (
	"context"
	"fmt"
)

// Loader is the interface for a format-specific document loader.
type Loader interface {
	// Load reads the document from the given paths and normalizes it.
	Load(ctx context.Context, paths ...string) (*Tree, error)
}

// Tree is a normalized document. Nodes are addressed by index.
type Tree struct {
	Nodes []*Node
	Root  int
}

// Node is either an element or, when Error is set, an error placeholder.
type Node struct {
	Type       string
	Name       string
	Parent     int // -1 for the root
	Children   []Child
	Attributes []Attribute
	Extend     *Extend
	Position   Position
	Error      string
}

// IsError reports whether the node is an error placeholder.
func (n *Node) IsError() bool {
	return n.Error != ""
}

// Attribute returns the attribute with the given name.
func (n *Node) Attribute(name string) (*Attribute, bool) {
	for i := range n.Attributes {
		if n.Attributes[i].Name == name {
			return &n.Attributes[i], true
		}
	}
	return nil, false
}

// Attribute is named content attached to an element.
type Attribute struct {
	Name     string
	Children []Child
}

// ChildKind distinguishes element children from literal text.
type ChildKind uint8

const (
	ChildElement ChildKind = iota
	ChildText
)

// Child is an entry in an element's or attribute's ordered content.
type Child struct {
	Kind ChildKind
	Node int
	Text string
}

// ElementChild refers to the node at idx.
func ElementChild(idx int) Child { return Child{Kind: ChildElement, Node: idx} }

// TextChild is literal text.
func TextChild(text string) Child { return Child{Kind: ChildText, Text: text} }

// Extend points an element at another element or at one of its props.
type Extend struct {
	Node int
	Prop string
}

// Position locates a node in its source.
type Position struct {
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d,%d", p.File, p.Line, p.Column)
}

// Validate checks the structural consistency of the tree: a valid root,
// parent links matching content lists, and extends pointing at elements.
func (t *Tree) Validate() error {
	if t.Root < 0 || t.Root >= len(t.Nodes) {
		return fmt.Errorf("root index %d out of range", t.Root)
	}
	if t.Nodes[t.Root].Parent != -1 {
		return fmt.Errorf("root node %d has parent %d", t.Root, t.Nodes[t.Root].Parent)
	}
	for i, n := range t.Nodes {
		if n == nil {
			return fmt.Errorf("node %d is nil", i)
		}
		if !n.IsError() && n.Type == "" {
			return fmt.Errorf("node %d has no type", i)
		}
		contents := [][]Child{n.Children}
		for _, a := range n.Attributes {
			contents = append(contents, a.Children)
		}
		for _, content := range contents {
			for _, c := range content {
				if c.Kind != ChildElement {
					continue
				}
				if c.Node < 0 || c.Node >= len(t.Nodes) {
					return fmt.Errorf("node %d refers to missing child %d", i, c.Node)
				}
				if t.Nodes[c.Node].Parent != i {
					return fmt.Errorf("node %d lists child %d whose parent is %d", i, c.Node, t.Nodes[c.Node].Parent)
				}
			}
		}
		if n.Extend != nil {
			if n.Extend.Node < 0 || n.Extend.Node >= len(t.Nodes) || t.Nodes[n.Extend.Node].IsError() {
				return fmt.Errorf("node %d extends invalid node %d", i, n.Extend.Node)
			}
		}
	}
	return nil
}
