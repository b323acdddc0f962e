package testutil

import (
	"encoding/json"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/propgraph/internal/render"
)

// Request builds an action request for the named component. args are
// encoded as JSON.
func (h *Harness) Request(name, action string, args map[string]any) render.ActionRequest {
	h.t.Helper()
	req := render.ActionRequest{Name: name, Action: action}
	if len(args) > 0 {
		req.Args = make(map[string]json.RawMessage, len(args))
		for k, v := range args {
			raw, err := json.Marshal(v)
			require.NoError(h.t, err)
			req.Args[k] = raw
		}
	}
	return req
}

// Apply dispatches an action that must succeed and returns its updates.
func (h *Harness) Apply(name, action string, args map[string]any) []render.Update {
	h.t.Helper()
	updates, err := h.Session.Apply(h.Ctx, h.Request(name, action, args))
	require.NoError(h.t, err, "action %s on %q", action, name)
	return updates
}

// ApplyErr dispatches an action expected to fail.
func (h *Harness) ApplyErr(name, action string, args map[string]any) error {
	h.t.Helper()
	updates, err := h.Session.Apply(h.Ctx, h.Request(name, action, args))
	require.Error(h.t, err, "action %s on %q", action, name)
	require.Empty(h.t, updates)
	return err
}

// Render renders the whole document.
func (h *Harness) Render() *render.Document {
	h.t.Helper()
	doc, err := h.Session.Render(h.Ctx)
	require.NoError(h.t, err)
	return doc
}
