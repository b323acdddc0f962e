// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	b := NewBuilder()
	root := b.Root("document", "doc")
	ti := b.Element(root, "textInput", "ti")
	mirror := b.Element(root, "text", "mirror")
	b.Extend(mirror, ti, "value")
	seq := b.Element(root, "sequence", "seq")
	b.AttributeText(seq, "from", "3")
	b.AttributeText(seq, "to", "6")
	b.Text(root, "tail")
	b.Error(root, "unknown component")
	tree := b.Build()

	require.NoError(t, tree.Validate())
	assert.Equal(t, 0, tree.Root)
	assert.Len(t, tree.Nodes, 5)
	assert.Equal(t, []Child{
		ElementChild(ti), ElementChild(mirror), ElementChild(seq), TextChild("tail"), ElementChild(4),
	}, tree.Nodes[root].Children)
	assert.Equal(t, &Extend{Node: ti, Prop: "value"}, tree.Nodes[mirror].Extend)

	from, ok := tree.Nodes[seq].Attribute("from")
	require.True(t, ok)
	assert.Equal(t, []Child{TextChild("3")}, from.Children)
	assert.True(t, tree.Nodes[4].IsError())
}

func TestTree_Validate(t *testing.T) {
	t.Run("bad root", func(t *testing.T) {
		assert.ErrorContains(t, (&Tree{Root: 0}).Validate(), "out of range")
	})

	t.Run("inconsistent parent", func(t *testing.T) {
		b := NewBuilder()
		root := b.Root("document", "")
		child := b.Element(root, "p", "")
		b.Node(child).Parent = 7
		assert.ErrorContains(t, b.Build().Validate(), "whose parent is 7")
	})

	t.Run("extend of an error node", func(t *testing.T) {
		b := NewBuilder()
		root := b.Root("document", "")
		bad := b.Error(root, "broken")
		txt := b.Element(root, "text", "")
		b.Extend(txt, bad, "")
		assert.ErrorContains(t, b.Build().Validate(), "extends invalid node")
	})

	t.Run("element in attribute", func(t *testing.T) {
		b := NewBuilder()
		root := b.Root("document", "")
		p := b.Element(root, "p", "")
		b.AttributeElement(p, "hide", "boolean", "")
		assert.NoError(t, b.Build().Validate())
	})
}
