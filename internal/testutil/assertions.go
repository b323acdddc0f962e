package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/propgraph/internal/render"
)

// Component finds a rendered component by name.
func Component(t *testing.T, doc *render.Document, name string) render.Component {
	t.Helper()
	for _, c := range doc.Components {
		if c.Name == name {
			return c
		}
	}
	require.Failf(t, "component not rendered", "no rendered component named %q", name)
	return render.Component{}
}

// AssertProp checks one for-render prop of a named component.
func AssertProp(t *testing.T, doc *render.Document, name, prop string, want any) {
	t.Helper()
	c := Component(t, doc, name)
	got, ok := c.Props[prop]
	require.True(t, ok, "component %q has no rendered prop %q", name, prop)
	assert.Equal(t, want, got, "%s.%s", name, prop)
}

// UpdatedProps flattens updates into "name.prop" -> value.
func UpdatedProps(doc *render.Document, updates []render.Update) map[string]any {
	names := make(map[int]string, len(doc.Components))
	for _, c := range doc.Components {
		names[c.Index] = c.Name
	}
	out := map[string]any{}
	for _, u := range updates {
		for prop, v := range u.Props {
			out[names[u.Index]+"."+prop] = v
		}
	}
	return out
}
