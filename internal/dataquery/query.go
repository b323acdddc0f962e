package dataquery

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Query describes one dependency of a prop. The set of variants is closed.
type Query interface {
	fmt.Stringer
	isQuery()
}

// State asks for the independent state leaf owned by the prop. Components
// extending another component of the same type share the origin's leaf.
type State struct{}

// Prop asks for one prop of a chosen component.
type Prop struct {
	Source    Source
	Specifier Specifier
}

// Attribute asks for the content of a named attribute. Literal text is
// linked when a text profile is requested; components contribute their
// first prop matching MatchProfiles.
type Attribute struct {
	Name          string
	MatchProfiles []Profile
}

// ChildPropProfile asks for the first matching prop of every content child
// of the component, with literal text children linked directly.
type ChildPropProfile struct {
	MatchProfiles []Profile
}

// FilteredChildren is ChildPropProfile over a filtered set of children of
// Parent. With a Condition, each child contributes its matching prop only
// while the child's Condition prop equals Condition.Want.
type FilteredChildren struct {
	Parent        Source
	Filters       []ContentFilter
	MatchProfiles []Profile
	Condition     *PropCondition
}

// PickProp picks one prop per profile group from every content child of
// Source. Absent props are stood in for by placeholders, so every child
// contributes exactly len(Groups) values.
type PickProp struct {
	Source Source
	Groups [][]Profile
}

// SelfRef asks for the component itself. Its value is the component index.
type SelfRef struct{}

// Null has no answers.
type Null struct{}

func (State) isQuery()            {}
func (Prop) isQuery()             {}
func (Attribute) isQuery()        {}
func (ChildPropProfile) isQuery() {}
func (FilteredChildren) isQuery() {}
func (PickProp) isQuery()         {}
func (SelfRef) isQuery()          {}
func (Null) isQuery()             {}

func (State) String() string { return "state" }

func (q Prop) String() string { return fmt.Sprintf("prop(%s, %s)", q.Source, q.Specifier) }

func (q Attribute) String() string {
	return fmt.Sprintf("attribute(%s, %s)", q.Name, profileList(q.MatchProfiles))
}

func (q ChildPropProfile) String() string {
	return fmt.Sprintf("children(%s)", profileList(q.MatchProfiles))
}

func (q FilteredChildren) String() string {
	filters := make([]string, len(q.Filters))
	for i, f := range q.Filters {
		filters[i] = f.String()
	}
	s := fmt.Sprintf("filtered_children(%s, [%s], %s", q.Parent, strings.Join(filters, " "), profileList(q.MatchProfiles))
	if q.Condition != nil {
		s += ", if " + q.Condition.String()
	}
	return s + ")"
}

func (q PickProp) String() string {
	groups := make([]string, len(q.Groups))
	for i, g := range q.Groups {
		groups[i] = profileList(g)
	}
	return fmt.Sprintf("pick(%s, %s)", q.Source, strings.Join(groups, " "))
}

func (SelfRef) String() string { return "self" }

func (Null) String() string { return "null" }

// PropCondition gates a picked prop on another prop of the same child.
type PropCondition struct {
	Profile Profile
	Want    cty.Value
}

func (c PropCondition) String() string {
	return fmt.Sprintf("%s == %#v", c.Profile, c.Want)
}

func profileList(ps []Profile) string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = string(p)
	}
	return "[" + strings.Join(names, " ") + "]"
}
