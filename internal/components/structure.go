package components

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/propgraph/internal/component"
	"github.com/specialistvlad/propgraph/internal/dataquery"
	"github.com/specialistvlad/propgraph/internal/updater"
)

func documentDefinition() *component.Definition {
	return &component.Definition{
		Type: "document",
		Props: []component.PropSpec{
			hiddenProp(false),
			{Name: "summary", Profile: dataquery.ProfileString, Public: true, New: updater.VisibleStrings()},
		},
		Children: component.ChildrenContent,
	}
}

func sectionDefinition() *component.Definition {
	visibleChildren := dataquery.FilteredChildren{
		Parent:        dataquery.Me(),
		Filters:       []dataquery.ContentFilter{dataquery.HasPropProfile(dataquery.ProfileHidden)},
		MatchProfiles: []dataquery.Profile{dataquery.ProfileHidden},
		Condition:     &dataquery.PropCondition{Profile: dataquery.ProfileHidden, Want: cty.False},
	}
	return &component.Definition{
		Type: "section",
		Props: []component.PropSpec{
			hiddenProp(true),
			{Name: "visibleChildCount", ForRender: true, Public: true, New: updater.CountValues(visibleChildren)},
			{Name: "summary", Profile: dataquery.ProfileString, ForRender: true, Public: true, New: updater.VisibleStrings()},
			{Name: "index", Public: true, New: updater.ComponentIndex()},
		},
		Children: component.ChildrenContent,
	}
}

func paragraphDefinition() *component.Definition {
	return &component.Definition{
		Type: "p",
		Props: []component.PropSpec{
			hiddenProp(true),
			{Name: "text", Profile: dataquery.ProfileString, Public: true, New: updater.StringFromChildren()},
		},
		Children: component.ChildrenContent,
	}
}

func textDefinition() *component.Definition {
	return &component.Definition{
		Type: "text",
		Props: []component.PropSpec{
			{
				Name:      "value",
				Profile:   dataquery.ProfileString,
				ForRender: true,
				Public:    true,
				New:       updater.OrExtend(cty.StringVal(""), []dataquery.Profile{dataquery.ProfileString}, updater.StringFromChildren()),
			},
			hiddenProp(true),
		},
		Children: component.ChildrenNone,
	}
}
