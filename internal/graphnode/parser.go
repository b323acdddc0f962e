// internal/graphnode/parser.go
package graphnode

import (
	"fmt"
	"regexp"
	"strconv"
)

// nodeRegex parses the canonical form, e.g. `prop[3]`.
var nodeRegex = regexp.MustCompile(`^([a-z]+)\[(\d+)\]$`)

// Parse creates a Node from its canonical string representation.
func Parse(raw string) (Node, error) {
	if raw == "" {
		return Node{}, fmt.Errorf("node identifier cannot be empty")
	}

	matches := nodeRegex.FindStringSubmatch(raw)
	if matches == nil {
		return Node{}, fmt.Errorf("invalid node identifier format: %q", raw)
	}

	kind, ok := kindByName(matches[1])
	if !ok {
		return Node{}, fmt.Errorf("unknown node kind: %q", matches[1])
	}

	index, err := strconv.Atoi(matches[2])
	if err != nil {
		// Only reachable on overflow; the regex guarantees digits.
		return Node{}, fmt.Errorf("invalid node index in %q: %w", raw, err)
	}
	return Node{Kind: kind, Index: index}, nil
}

func kindByName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}
