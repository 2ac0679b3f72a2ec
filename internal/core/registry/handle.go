package registry

import (
	"fmt"
	"reflect"

	"github.com/rgscene/viewer/internal/core/controller"
	"github.com/rgscene/viewer/internal/core/graph"
)

// Handle refers to one registered controller and is used to declare ordering
// constraints against other handles of the same registry.
type Handle struct {
	reg  *Registry
	typ  reflect.Type
	ctrl controller.Controller
	seq  int
}

func (h *Handle) Name() string                      { return h.ctrl.Name() }
func (h *Handle) Type() reflect.Type                { return h.typ }
func (h *Handle) Controller() controller.Controller { return h.ctrl }

// Seq is the zero-based registration position.
func (h *Handle) Seq() int { return h.seq }

// Before declares that h runs before other in every phase.
func (h *Handle) Before(other *Handle) error {
	return h.reg.constrain(h, other)
}

// After declares that h runs after other in every phase. It adds the same
// edge as other.Before(h).
func (h *Handle) After(other *Handle) error {
	if other == nil {
		return fmt.Errorf("%s after <nil>: %w", h.Name(), ErrNilHandle)
	}
	return h.reg.constrain(other, h)
}

func (r *Registry) constrain(from, to *Handle) error {
	if from == nil || to == nil {
		return fmt.Errorf("constraint: %w", ErrNilHandle)
	}
	if from.reg != r || to.reg != r {
		return fmt.Errorf("constraint %s -> %s: %w", from.Name(), to.Name(), ErrForeignHandle)
	}
	if r.frozen {
		return fmt.Errorf("constraint %s -> %s: %w", from.Name(), to.Name(), ErrFrozen)
	}
	if from == to {
		return fmt.Errorf("constraint on %s: %w", from.Name(), graph.ErrSelfEdge)
	}
	r.edges = append(r.edges, [2]*Handle{from, to})
	return nil
}
