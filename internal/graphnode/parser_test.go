// internal/graphnode/parser_test.go
package graphnode

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expectErr bool
		expected  Node
	}{
		{name: "prop", raw: "prop[3]", expected: Prop(3)},
		{name: "component zero", raw: "component[0]", expected: Component(0)},
		{name: "virtual", raw: "virtual[120]", expected: Virtual(120)},
		{name: "error - empty", raw: "", expectErr: true},
		{name: "error - missing index", raw: "prop", expectErr: true},
		{name: "error - unknown kind", raw: "widget[1]", expectErr: true},
		{name: "error - negative index", raw: "state[-1]", expectErr: true},
		{name: "error - uppercase kind", raw: "Prop[1]", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n, err := Parse(tc.raw)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, n)
		})
	}
}

func TestNode_RoundTrip(t *testing.T) {
	nodes := []Node{Component(1), Prop(2), State(3), String(4), Query(5), Virtual(6)}
	for _, n := range nodes {
		t.Run(n.String(), func(t *testing.T) {
			parsed, err := Parse(n.String())
			require.NoError(t, err)
			assert.Equal(t, n, parsed)
		})
	}
}

func TestNode_JSON(t *testing.T) {
	b, err := json.Marshal(map[string]Node{"target": State(7)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"target":"state[7]"}`, string(b))

	var decoded map[string]Node
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, State(7), decoded["target"])
}

func TestNode_IsLeaf(t *testing.T) {
	assert.True(t, State(0).IsLeaf())
	assert.True(t, String(0).IsLeaf())
	assert.False(t, Prop(0).IsLeaf())
	assert.False(t, Virtual(0).IsLeaf())
}
