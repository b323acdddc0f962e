package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/propgraph/internal/render"
	"github.com/specialistvlad/propgraph/internal/testutil"
)

// Test for: a sequence reads its range from attributes and renders its
// values as text children; setRange writes back through the attributes.
func TestHCLFeatures_SequenceFromAttributes(t *testing.T) {
	// --- Arrange ---
	h := testutil.NewDocumentHarness(t, `
element "document" "doc" {
  element "sequence" "seq" {
    attributes {
      from = 3
      to   = 6
    }
  }
}
`)
	seq := testutil.Component(t, h.Initial, "seq")
	assert.Equal(t, int64(4), seq.Props["length"])
	assert.Equal(t, []any{int64(3), int64(4), int64(5), int64(6)}, seq.Props["values"])
	assert.Equal(t, []render.Child{{Text: "3"}, {Text: "4"}, {Text: "5"}, {Text: "6"}}, seq.Children)

	// --- Act ---
	updates := h.Apply("seq", "setRange", map[string]any{"from": 1, "to": "2"})

	// --- Assert ---
	require.Len(t, updates, 1)
	assert.Equal(t, int64(2), updates[0].Props["length"])
	assert.Equal(t, []render.Child{{Text: "1"}, {Text: "2"}}, updates[0].Children)
}
