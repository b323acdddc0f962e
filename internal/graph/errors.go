package graph

import (
	"errors"
	"strings"

	"github.com/specialistvlad/propgraph/internal/graphnode"
)

// CycleError is the panic value of an ordered walk that cannot order its
// nodes. Nodes lists the nodes left unordered, which include the cycle.
type CycleError struct {
	Nodes []graphnode.Node
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	names := make([]string, len(e.Nodes))
	for i, n := range e.Nodes {
		names[i] = n.String()
	}
	return "cycle detected involving nodes: " + strings.Join(names, ", ")
}

// AsCycleError returns the *CycleError in err's chain, or nil.
func AsCycleError(err error) *CycleError {
	var cycleErr *CycleError
	if errors.As(err, &cycleErr) {
		return cycleErr
	}
	return nil
}
