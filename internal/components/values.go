package components

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/propgraph/internal/component"
	"github.com/specialistvlad/propgraph/internal/dataquery"
	"github.com/specialistvlad/propgraph/internal/updater"
)

func booleanDefinition() *component.Definition {
	return &component.Definition{
		Type: "boolean",
		Props: []component.PropSpec{
			{
				Name:      "value",
				Profile:   dataquery.ProfileBoolean,
				ForRender: true,
				Public:    true,
				New:       updater.OrExtend(cty.False, []dataquery.Profile{dataquery.ProfileBoolean}, updater.BooleanFromChildrenOrState(false)),
			},
			{Name: "text", Profile: dataquery.ProfileString, Public: true, New: updater.StringFromBool()},
			hiddenProp(true),
		},
		Children: component.ChildrenNone,
	}
}

func booleanInputDefinition() *component.Definition {
	return &component.Definition{
		Type: "booleanInput",
		Props: []component.PropSpec{
			{
				Name:      "value",
				Profile:   dataquery.ProfileBoolean,
				ForRender: true,
				Public:    true,
				New:       updater.StateOrExtend(cty.False, dataquery.ProfileBoolean),
			},
			{Name: "text", Profile: dataquery.ProfileString, Public: true, New: updater.StringFromBool()},
			hiddenProp(true),
		},
		Actions: map[string]component.ActionFunc{
			"updateBoolean": func(action component.Action, _ component.PropReader) ([]component.PropUpdate, error) {
				v, err := argument(action, "boolean", cty.Bool)
				if err != nil {
					return nil, err
				}
				return []component.PropUpdate{{Prop: "value", Value: v}}, nil
			},
		},
		Children: component.ChildrenContent,
	}
}

func numberDefinition() *component.Definition {
	return &component.Definition{
		Type: "number",
		Props: []component.PropSpec{
			{
				Name:      "value",
				Profile:   dataquery.ProfileNumber,
				ForRender: true,
				Public:    true,
				New:       updater.OrExtend(cty.NumberIntVal(0), []dataquery.Profile{dataquery.ProfileNumber}, updater.NumberFromChildrenOrState(0)),
			},
			{Name: "text", Profile: dataquery.ProfileString, Public: true, New: updater.StringFromNumber()},
			hiddenProp(true),
		},
		Children: component.ChildrenNone,
	}
}
