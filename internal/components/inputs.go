package components

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/propgraph/internal/component"
	"github.com/specialistvlad/propgraph/internal/dataquery"
	"github.com/specialistvlad/propgraph/internal/propvalue"
	"github.com/specialistvlad/propgraph/internal/updater"
)

func textInputDefinition() *component.Definition {
	return &component.Definition{
		Type: "textInput",
		Props: []component.PropSpec{
			{
				Name:      updater.ValueProp,
				Profile:   dataquery.ProfileString,
				ForRender: true,
				Public:    true,
				New:       updater.StateOrExtend(cty.StringVal(""), dataquery.ProfileString),
			},
			{Name: "immediateValue", ForRender: true, Public: true, New: updater.ImmediateValue()},
			{Name: updater.SyncProp, New: updater.IndependentState(cty.True)},
			hiddenProp(true),
		},
		Actions: map[string]component.ActionFunc{
			// Typing: only the immediate value moves.
			"updateImmediateValue": func(action component.Action, _ component.PropReader) ([]component.PropUpdate, error) {
				text, err := argument(action, "text", cty.String)
				if err != nil {
					return nil, err
				}
				return []component.PropUpdate{{Prop: "immediateValue", Value: text}}, nil
			},
			// Commit: copy the immediate value into value and resync.
			"updateValue": func(_ component.Action, props component.PropReader) ([]component.PropUpdate, error) {
				immediate, err := props.Prop("immediateValue")
				if err != nil {
					return nil, err
				}
				return []component.PropUpdate{
					{Prop: updater.ValueProp, Value: immediate},
					{Prop: updater.SyncProp, Value: cty.True},
				}, nil
			},
		},
		Children: component.ChildrenNone,
	}
}

func sequenceDefinition() *component.Definition {
	return &component.Definition{
		Type: "sequence",
		Props: []component.PropSpec{
			{Name: "from", Public: true, New: updater.SequenceBound("from", 1)},
			{Name: "to", Public: true, New: updater.SequenceBound("to", 0)},
			{Name: "length", Profile: dataquery.ProfileNumber, ForRender: true, Public: true, New: updater.SequenceLength()},
			{Name: "values", ForRender: true, Public: true, New: updater.SequenceValues()},
			hiddenProp(true),
		},
		Actions: map[string]component.ActionFunc{
			"setRange": setSequenceRange,
		},
		Children:     component.ChildrenFromProp,
		ChildrenProp: "values",
	}
}

// setSequenceRange moves either bound. A bound left out keeps its current
// value, and the resulting range must stay within the sequence limits.
func setSequenceRange(action component.Action, props component.PropReader) ([]component.PropUpdate, error) {
	var updates []component.PropUpdate
	var ends [2]int64
	for i, bound := range []string{"from", "to"} {
		if _, ok := action.Args[bound]; !ok {
			current, err := props.Prop(bound)
			if err != nil {
				return nil, err
			}
			n, ok := propvalue.ToInt(current)
			if !ok {
				return nil, fmt.Errorf("%w: current %s is not a whole number", updater.ErrCouldNotUpdate, bound)
			}
			ends[i] = n
			continue
		}
		v, err := argument(action, bound, cty.Number)
		if err != nil {
			return nil, err
		}
		n, ok := propvalue.ToInt(v)
		if !ok {
			return nil, fmt.Errorf("%w: argument %q must be a whole number", updater.ErrCouldNotUpdate, bound)
		}
		ends[i] = n
		updates = append(updates, component.PropUpdate{Prop: bound, Value: v})
	}
	if err := updater.CheckSequenceRange(ends[0], ends[1]); err != nil {
		return nil, err
	}
	return updates, nil
}
