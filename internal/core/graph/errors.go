package graph

import (
	"errors"
	"strings"
)

// ErrCycle matches any *CycleError through errors.Is.
var ErrCycle = errors.New("dependency cycle")

// CycleError reports constraints that cannot be ordered.
type CycleError[K comparable] struct {
	// Nodes is every node that could not be placed, in insertion order. It
	// includes nodes that only depend on a cycle.
	Nodes []K
	// Path is one concrete cycle; the first node is repeated at the end.
	Path []K

	name func(K) string
}

func (e *CycleError[K]) Error() string {
	var b strings.Builder
	b.WriteString("dependency cycle: ")
	for i, k := range e.Path {
		if i > 0 {
			b.WriteString(" -> ")
		}
		b.WriteString(e.render(k))
	}
	b.WriteString(" (unresolved: ")
	for i, k := range e.Nodes {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.render(k))
	}
	b.WriteString(")")
	return b.String()
}

func (e *CycleError[K]) Is(target error) bool { return target == ErrCycle }

// Names renders Path with the graph's naming function.
func (e *CycleError[K]) Names() []string {
	out := make([]string, len(e.Path))
	for i, k := range e.Path {
		out[i] = e.render(k)
	}
	return out
}

func (e *CycleError[K]) render(k K) string {
	if e.name == nil {
		return "?"
	}
	return e.name(k)
}
