package dataquery

import "fmt"

// SourceKind selects the component a query is evaluated against.
type SourceKind uint8

const (
	SourceMe SourceKind = iota
	SourceParent
	SourceComponent
)

// Source is the component a query looks at.
type Source struct {
	Kind SourceKind
	// Component is the explicit component index for SourceComponent.
	Component int
}

// Me is the component owning the prop.
func Me() Source { return Source{Kind: SourceMe} }

// Parent is the owning component's parent.
func Parent() Source { return Source{Kind: SourceParent} }

// Component is an explicit component by index.
func Component(idx int) Source { return Source{Kind: SourceComponent, Component: idx} }

func (s Source) String() string {
	switch s.Kind {
	case SourceMe:
		return "me"
	case SourceParent:
		return "parent"
	default:
		return fmt.Sprintf("component[%d]", s.Component)
	}
}

// SpecifierKind selects how a single prop is picked out of a component.
type SpecifierKind uint8

const (
	SpecifierIndex SpecifierKind = iota
	SpecifierName
	SpecifierProfiles
)

// Specifier picks one prop of a component.
type Specifier struct {
	Kind     SpecifierKind
	Index    int
	Name     string
	Profiles []Profile
}

// Index picks the prop at a local index.
func Index(i int) Specifier { return Specifier{Kind: SpecifierIndex, Index: i} }

// Name picks the prop with the given name.
func Name(n string) Specifier { return Specifier{Kind: SpecifierName, Name: n} }

// Profiles picks the first prop matching the profiles, tried in order.
func Profiles(p ...Profile) Specifier { return Specifier{Kind: SpecifierProfiles, Profiles: p} }

func (s Specifier) String() string {
	switch s.Kind {
	case SpecifierIndex:
		return fmt.Sprintf("#%d", s.Index)
	case SpecifierName:
		return s.Name
	default:
		return profileList(s.Profiles)
	}
}

// FilterKind is the structural test a ContentFilter applies.
type FilterKind uint8

const (
	FilterComponentType FilterKind = iota
	FilterHasProfile
	FilterLacksProfile
)

// ContentFilter narrows the children a FilteredChildren query walks.
// Literal text only passes LacksPropProfile filters.
type ContentFilter struct {
	Kind          FilterKind
	ComponentType string
	Profile       Profile
}

// ComponentTypeIs keeps children of the given component type.
func ComponentTypeIs(t string) ContentFilter {
	return ContentFilter{Kind: FilterComponentType, ComponentType: t}
}

// HasPropProfile keeps children having a prop with the profile.
func HasPropProfile(p Profile) ContentFilter {
	return ContentFilter{Kind: FilterHasProfile, Profile: p}
}

// LacksPropProfile keeps children without a prop with the profile.
func LacksPropProfile(p Profile) ContentFilter {
	return ContentFilter{Kind: FilterLacksProfile, Profile: p}
}

func (f ContentFilter) String() string {
	switch f.Kind {
	case FilterComponentType:
		return "type=" + f.ComponentType
	case FilterHasProfile:
		return "has=" + string(f.Profile)
	default:
		return "lacks=" + string(f.Profile)
	}
}
