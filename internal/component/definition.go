package component

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/propgraph/internal/dataquery"
	"github.com/specialistvlad/propgraph/internal/updater"
)

// ErrorType is the type every malformed or unknown element is instantiated
// as.
const ErrorType = "_error"

// PropSpec declares one prop of a component type.
type PropSpec struct {
	Name string
	// Profile is optional; queries match props by it.
	Profile dataquery.Profile
	// ForRender props are computed and emitted by the renderer.
	ForRender bool
	// Public props may be addressed from outside the component.
	Public bool
	New    updater.Factory
}

// Action is a request to a component instance.
type Action struct {
	Component int
	Name      string
	Args      map[string]cty.Value
}

// PropReader reads the current, freshened value of a prop of the
// component an action targets.
type PropReader interface {
	Prop(name string) (cty.Value, error)
}

// PropUpdate is a requested value for one local prop.
type PropUpdate struct {
	Prop  string
	Value cty.Value
}

// ActionFunc translates an action into prop requests.
type ActionFunc func(action Action, props PropReader) ([]PropUpdate, error)

// ChildrenMode says what the renderer emits as a component's children.
type ChildrenMode uint8

const (
	// ChildrenContent renders the component's own content children.
	ChildrenContent ChildrenMode = iota
	// ChildrenNone renders no children.
	ChildrenNone
	// ChildrenFromProp renders the elements of a list valued prop as text.
	ChildrenFromProp
)

// Definition is the per-type table of a component.
type Definition struct {
	Type     string
	Props    []PropSpec
	Actions  map[string]ActionFunc
	Children ChildrenMode
	// ChildrenProp names the prop rendered when Children is ChildrenFromProp.
	ChildrenProp string
}

// PropIndex returns the local index of the named prop.
func (d *Definition) PropIndex(name string) (int, bool) {
	for i, p := range d.Props {
		if p.Name == name {
			return i, true
		}
	}
	return -1, false
}

// FirstWithProfile returns the local index of the first prop matching one of
// profiles, trying profiles in order.
func (d *Definition) FirstWithProfile(profiles []dataquery.Profile) (int, bool) {
	for _, want := range profiles {
		for i, p := range d.Props {
			if p.Profile != "" && p.Profile == want {
				return i, true
			}
		}
	}
	return -1, false
}

// HasProfile reports whether any prop carries profile p.
func (d *Definition) HasProfile(p dataquery.Profile) bool {
	_, ok := d.FirstWithProfile([]dataquery.Profile{p})
	return ok
}
