package propcache

// Status is the freshness of a prop's cached value.
type Status uint8

const (
	// StatusUnresolved means the prop's data queries have never run.
	StatusUnresolved Status = iota
	// StatusResolved means edges exist but no value has been computed.
	StatusResolved
	// StatusStale means the cached value is known to be outdated.
	StatusStale
	// StatusFresh means the cached value is valid.
	StatusFresh
)

func (s Status) String() string {
	switch s {
	case StatusUnresolved:
		return "unresolved"
	case StatusResolved:
		return "resolved"
	case StatusStale:
		return "stale"
	case StatusFresh:
		return "fresh"
	default:
		return "unknown"
	}
}
