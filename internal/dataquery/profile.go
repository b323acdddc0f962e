package dataquery

// Profile is a role tag that lets queries match props without naming them.
type Profile string

const (
	// ProfileString matches text valued props and literal text.
	ProfileString Profile = "string"
	// ProfileLiteralString matches literal text only.
	ProfileLiteralString Profile = "literal_string"
	// ProfileBoolean matches boolean valued props.
	ProfileBoolean Profile = "boolean"
	// ProfileNumber matches number valued props.
	ProfileNumber Profile = "number"
	// ProfileHidden matches the prop deciding whether a component is hidden.
	ProfileHidden Profile = "hidden"
)

// MatchesText reports whether literal text satisfies one of profiles.
func MatchesText(profiles []Profile) bool {
	for _, p := range profiles {
		if p == ProfileString || p == ProfileLiteralString {
			return true
		}
	}
	return false
}
