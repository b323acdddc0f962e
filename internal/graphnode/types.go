// internal/graphnode/types.go
package graphnode

import (
	"fmt"
	"strconv"
)

// Kind tags what a node stands for.
type Kind uint8

const (
	// KindComponent is a component instance from the input tree.
	KindComponent Kind = iota
	// KindProp is a computed prop of a component.
	KindProp
	// KindState is an independent state leaf owned by a prop.
	KindState
	// KindString is a literal text leaf.
	KindString
	// KindQuery joins a prop to the answers of one of its data queries.
	KindQuery
	// KindVirtual is an anonymous grouping or placeholder node.
	KindVirtual

	// NumKinds is the number of node kinds. Tables indexed by kind use it.
	NumKinds = int(KindVirtual) + 1
)

var kindNames = [NumKinds]string{
	KindComponent: "component",
	KindProp:      "prop",
	KindState:     "state",
	KindString:    "string",
	KindQuery:     "query",
	KindVirtual:   "virtual",
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if int(k) < NumKinds {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Node is the identity of a graph vertex.
type Node struct {
	Kind  Kind
	Index int
}

// Component returns the node for component idx.
func Component(idx int) Node { return Node{Kind: KindComponent, Index: idx} }

// Prop returns the node for prop idx.
func Prop(idx int) Node { return Node{Kind: KindProp, Index: idx} }

// State returns the node for state leaf idx.
func State(idx int) Node { return Node{Kind: KindState, Index: idx} }

// String returns the node for literal text leaf idx.
func String(idx int) Node { return Node{Kind: KindString, Index: idx} }

// Query returns the node for query idx.
func Query(idx int) Node { return Node{Kind: KindQuery, Index: idx} }

// Virtual returns the node for virtual idx.
func Virtual(idx int) Node { return Node{Kind: KindVirtual, Index: idx} }

// IsLeaf reports whether the node is a writable leaf (state or literal text).
func (n Node) IsLeaf() bool {
	return n.Kind == KindState || n.Kind == KindString
}

// String serializes the node into its canonical `kind[index]` form.
func (n Node) String() string {
	return fmt.Sprintf("%s[%d]", n.Kind, n.Index)
}

// MarshalText implements encoding.TextMarshaler.
func (n Node) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *Node) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
