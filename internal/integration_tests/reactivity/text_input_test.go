package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/specialistvlad/propgraph/internal/testutil"
)

// Test for: typing moves only the immediate value; committing pushes it into
// every component that extends the input's value.
func TestReactivity_TextInputMirror(t *testing.T) {
	// --- Arrange ---
	h := testutil.NewDocumentHarness(t, `
element "document" "doc" {
  element "textInput" "ti" {}
  element "text" "mirror" {
    extend = "ti.value"
  }
}
`)
	testutil.AssertProp(t, h.Initial, "mirror", "value", "")

	// --- Act: typing ---
	typing := h.Apply("ti", "updateImmediateValue", map[string]any{"text": "hel"})

	// --- Assert ---
	assert.Equal(t, map[string]any{"ti.immediateValue": "hel"}, testutil.UpdatedProps(h.Initial, typing))

	// --- Act: commit ---
	commit := h.Apply("ti", "updateValue", nil)

	// --- Assert ---
	assert.Equal(t, map[string]any{
		"ti.value":     "hel",
		"mirror.value": "hel",
	}, testutil.UpdatedProps(h.Initial, commit))

	doc := h.Render()
	testutil.AssertProp(t, doc, "ti", "value", "hel")
	testutil.AssertProp(t, doc, "mirror", "value", "hel")
}

// Test for: an update is reported once; repeating an action that changes
// nothing yields no updates.
func TestReactivity_UpdatesAreReportedOnce(t *testing.T) {
	h := testutil.NewDocumentHarness(t, `
element "document" "doc" {
  element "booleanInput" "flag" {}
}
`)

	first := h.Apply("flag", "updateBoolean", map[string]any{"boolean": true})
	assert.Equal(t, map[string]any{"flag.value": true}, testutil.UpdatedProps(h.Initial, first))

	again := h.Apply("flag", "updateBoolean", map[string]any{"boolean": true})
	assert.Empty(t, again)
}
