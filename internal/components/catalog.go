package components

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/propgraph/internal/component"
	"github.com/specialistvlad/propgraph/internal/dataquery"
	"github.com/specialistvlad/propgraph/internal/propvalue"
	"github.com/specialistvlad/propgraph/internal/updater"
)

// Module registers the whole catalog.
type Module struct{}

// Register implements component.Module.
func (Module) Register(r *component.Registry) {
	for _, def := range []*component.Definition{
		errorDefinition(),
		documentDefinition(),
		sectionDefinition(),
		paragraphDefinition(),
		textDefinition(),
		booleanDefinition(),
		booleanInputDefinition(),
		numberDefinition(),
		textInputDefinition(),
		sequenceDefinition(),
	} {
		r.Register(def)
	}
}

// NewRegistry returns a registry holding the whole catalog.
func NewRegistry() *component.Registry {
	r := component.NewRegistry()
	Module{}.Register(r)
	return r
}

func hiddenProp(forRender bool) component.PropSpec {
	return component.PropSpec{
		Name:      "hidden",
		Profile:   dataquery.ProfileHidden,
		ForRender: forRender,
		Public:    true,
		New:       updater.Hidden(),
	}
}

func errorDefinition() *component.Definition {
	return &component.Definition{
		Type:     component.ErrorType,
		Children: component.ChildrenNone,
	}
}

// argument fetches and converts a required action argument.
func argument(action component.Action, name string, ty cty.Type) (cty.Value, error) {
	v, ok := action.Args[name]
	if !ok || propvalue.IsNull(v) {
		return cty.NilVal, fmt.Errorf("missing argument %q", name)
	}
	out, err := propvalue.Coerce(v, ty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("argument %q: %w", name, err)
	}
	return out, nil
}
