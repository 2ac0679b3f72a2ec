// Package registry owns the controller instances of one application, keyed by
// their concrete type, together with the ordering constraints declared
// between them.
//
// Registration and constraint declaration happen during bootstrap only.
// Resolve sorts the constraints once and freezes the registry; after that it
// is read-only and lookups need no locking because every hook runs on the
// driver goroutine.
package registry

import (
	"fmt"
	"reflect"

	"github.com/rgscene/viewer/internal/core/controller"
	"github.com/rgscene/viewer/internal/core/graph"
	"go.uber.org/zap"
)

// Registry maps a controller type to its single instance.
type Registry struct {
	log     *zap.Logger
	entries map[reflect.Type]*Handle
	handles []*Handle // registration order
	edges   [][2]*Handle
	order   []controller.Controller
	frozen  bool
}

func New(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		log:     log,
		entries: make(map[reflect.Type]*Handle, 16),
		handles: make([]*Handle, 0, 16),
	}
}

// typeKey returns the registry key for T. Taking it from the type parameter
// rather than the value means Get[T] and Register[T] agree by construction.
func typeKey[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Register stores c under its concrete type T and returns the handle used to
// declare ordering constraints. Each type may be registered once.
func Register[T controller.Controller](r *Registry, c T) (*Handle, error) {
	t := typeKey[T]()
	if t.Kind() == reflect.Interface {
		return nil, fmt.Errorf("register %s: controller must be registered under its concrete type", t)
	}
	if isNil(c) {
		return nil, fmt.Errorf("register %s: %w", t, ErrNilController)
	}
	if r.frozen {
		return nil, fmt.Errorf("register %s: %w", c.Name(), ErrFrozen)
	}
	if prev, ok := r.entries[t]; ok {
		return nil, &DuplicateError{Type: t, Name: prev.Name()}
	}

	h := &Handle{reg: r, typ: t, ctrl: c, seq: len(r.handles)}
	r.entries[t] = h
	r.handles = append(r.handles, h)
	r.log.Debug("controller registered",
		zap.String("controller", c.Name()),
		zap.Int("seq", h.seq),
	)
	return h, nil
}

// Get returns the instance registered for T.
func Get[T controller.Controller](r *Registry) (T, error) {
	h, ok := r.entries[typeKey[T]()]
	if !ok {
		var zero T
		return zero, &LookupError{Type: typeKey[T]()}
	}
	return h.ctrl.(T), nil
}

// MustGet is Get for hook bodies, where a missing dependency is a wiring bug.
// It panics with a *LookupError.
func MustGet[T controller.Controller](r *Registry) T {
	c, err := Get[T](r)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup is Get for optional dependencies.
func Lookup[T controller.Controller](r *Registry) (T, bool) {
	c, err := Get[T](r)
	return c, err == nil
}

// HandleOf returns the handle of the controller registered for T.
func HandleOf[T controller.Controller](r *Registry) (*Handle, error) {
	h, ok := r.entries[typeKey[T]()]
	if !ok {
		return nil, &LookupError{Type: typeKey[T]()}
	}
	return h, nil
}

// Resolve computes the execution order from registration order and the
// declared constraints, then freezes the registry. Later calls return the
// same order.
func (r *Registry) Resolve() ([]controller.Controller, error) {
	if r.frozen {
		return r.Order(), nil
	}

	g := graph.New(graph.WithNames(func(h *Handle) string { return h.Name() }))
	for _, h := range r.handles {
		g.AddNode(h)
	}
	for _, e := range r.edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			return nil, fmt.Errorf("resolve controller order: %w", err)
		}
	}

	sorted, err := g.Sort()
	if err != nil {
		return nil, fmt.Errorf("resolve controller order: %w", err)
	}

	r.order = make([]controller.Controller, len(sorted))
	for i, h := range sorted {
		r.order[i] = h.ctrl
	}
	r.frozen = true

	r.log.Info("controller order resolved",
		zap.Strings("order", r.names(r.order)),
		zap.Int("constraints", len(g.Edges())),
	)
	return r.Order(), nil
}

// Order returns the resolved order, or nil before Resolve.
func (r *Registry) Order() []controller.Controller {
	if !r.frozen {
		return nil
	}
	out := make([]controller.Controller, len(r.order))
	copy(out, r.order)
	return out
}

// Frozen reports whether Resolve has succeeded.
func (r *Registry) Frozen() bool { return r.frozen }

// Len returns the number of registered controllers.
func (r *Registry) Len() int { return len(r.handles) }

// Names returns controller names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.handles))
	for i, h := range r.handles {
		out[i] = h.Name()
	}
	return out
}

func (r *Registry) names(cs []controller.Controller) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name()
	}
	return out
}

func isNil(c controller.Controller) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}
