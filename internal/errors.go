package internal

import (
	"fmt"
	"strings"
)

// CyclicDependencyError is raised synchronously when a derivation is
// re-entered while already on the compute stack (spec.md §4.7). It is
// never routed through OnError handlers; it propagates straight to the
// caller that triggered the recomputation.
type CyclicDependencyError struct {
	Chain []string // identifiers of the nodes from the first re-entered node to itself
}

func (e *CyclicDependencyError) Error() string {
	if len(e.Chain) == 0 {
		return "cyclic dependency detected"
	}
	return fmt.Sprintf("cyclic dependency detected: %s", strings.Join(e.Chain, " -> "))
}

// coerceError turns an arbitrary recover() value into an error, the shape
// spec.md §7 requires handlers and fallbacks to receive.
func coerceError(v any) error {
	switch e := v.(type) {
	case nil:
		return nil
	case error:
		return e
	case string:
		return fmt.Errorf("%s", e)
	default:
		return fmt.Errorf("%v", e)
	}
}

func label(n *Node) string {
	if n.Label != "" {
		return n.Label
	}
	return fmt.Sprintf("#%d", n.ID)
}
