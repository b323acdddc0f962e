package localsession

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/propgraph/internal/component"
	"github.com/specialistvlad/propgraph/internal/components"
	"github.com/specialistvlad/propgraph/internal/ctxlog"
	"github.com/specialistvlad/propgraph/internal/docmodel"
	"github.com/specialistvlad/propgraph/internal/document"
	"github.com/specialistvlad/propgraph/internal/metrics"
	"github.com/specialistvlad/propgraph/internal/render"
)

func newFactory(t *testing.T, m *metrics.Metrics) (context.Context, *SessionFactory) {
	t.Helper()
	ctx := ctxlog.Discard(context.Background())
	b := document.NewBuilder()
	root := b.Root("document", "doc")
	b.Element(root, "booleanInput", "bi")
	f, err := NewSessionFactory(ctx, b.Build(), components.NewRegistry(), m)
	require.NoError(t, err)
	return ctx, f
}

func toggle(value string) render.ActionRequest {
	return render.ActionRequest{
		Name:   "bi",
		Action: "updateBoolean",
		Args:   map[string]json.RawMessage{"boolean": json.RawMessage(value)},
	}
}

func TestSession_ApplyAndRender(t *testing.T) {
	ctx, f := newFactory(t, nil)
	s, err := f.NewSession(ctx)
	require.NoError(t, err)
	_, err = uuid.Parse(s.ID())
	require.NoError(t, err)

	doc, err := s.Render(ctx)
	require.NoError(t, err)
	require.Len(t, doc.Components, 2)
	assert.Equal(t, false, doc.Components[1].Props["value"])

	updates, err := s.Apply(ctx, toggle("true"))
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, map[string]any{"value": true}, updates[0].Props)

	updates, err = s.Apply(ctx, toggle("true"))
	require.NoError(t, err)
	assert.Empty(t, updates, "requesting the current value changes nothing")
}

func TestSession_Isolation(t *testing.T) {
	ctx, f := newFactory(t, nil)
	a, err := f.NewSession(ctx)
	require.NoError(t, err)
	b, err := f.NewSession(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())

	_, err = a.Apply(ctx, toggle("true"))
	require.NoError(t, err)

	doc, err := b.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, false, doc.Components[1].Props["value"])
}

func TestSession_Errors(t *testing.T) {
	ctx, f := newFactory(t, nil)
	s, err := f.NewSession(ctx)
	require.NoError(t, err)

	_, err = s.Apply(ctx, render.ActionRequest{Name: "bi", Action: "explode"})
	assert.ErrorIs(t, err, docmodel.ErrUnknownAction)

	require.NoError(t, s.Close(ctx))
	require.NoError(t, s.Close(ctx))
	_, err = s.Render(ctx)
	assert.ErrorContains(t, err, "is closed")
}

func TestSession_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	ctx, f := newFactory(t, m)

	s, err := f.NewSession(ctx)
	require.NoError(t, err)
	_, err = s.Apply(ctx, toggle("true"))
	require.NoError(t, err)
	_, err = s.Apply(ctx, toggle(`"maybe"`))
	require.Error(t, err)
	require.NoError(t, s.Close(ctx))

	out, err := testutil.GatherAndCount(reg, "propgraph_session_actions_total")
	require.NoError(t, err)
	assert.Equal(t, 2, out, "one ok and one error series")
}

func TestSession_PanicIsContained(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	reg := components.NewRegistry()
	reg.Register(&component.Definition{
		Type: "faulty",
		Actions: map[string]component.ActionFunc{
			"explode": func(component.Action, component.PropReader) ([]component.PropUpdate, error) {
				panic("boom")
			},
		},
		Children: component.ChildrenNone,
	})
	b := document.NewBuilder()
	root := b.Root("document", "doc")
	b.Element(root, "faulty", "f")
	b.Element(root, "booleanInput", "bi")

	promReg := prometheus.NewRegistry()
	f, err := NewSessionFactory(ctx, b.Build(), reg, metrics.New(promReg))
	require.NoError(t, err)
	s, err := f.NewSession(ctx)
	require.NoError(t, err)

	var updates []render.Update
	assert.NotPanics(t, func() {
		updates, err = s.Apply(ctx, render.ActionRequest{Name: "f", Action: "explode"})
	})
	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorContains(t, err, "boom")
	assert.Nil(t, updates)

	updates, err = s.Apply(ctx, toggle("true"))
	require.NoError(t, err, "the session survives")
	require.Len(t, updates, 1)
	_, err = s.Render(ctx)
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(promReg, "propgraph_session_actions_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "the panic is recorded as an error series")
}
