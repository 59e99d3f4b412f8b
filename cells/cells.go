package cells

import (
	"fmt"
	"reflect"
)

// Cell is the common handle for every cell owned by a Reactor. Only types in
// this package satisfy it.
type Cell interface {
	node() *cell
}

type cell struct {
	id     uint32
	owner  *Reactor
	name   string
	value  any
	staged any
	dirty  bool
	deps   []*cell
	subs   []*cell
	fn     func(args []any) (any, error)
	sinks  []*Subscription
}

func (c *cell) node() *cell { return c }

func (c *cell) isInput() bool { return c.fn == nil }

// current is the value a downstream recompute reads: the staged value while a
// propagation is in flight, the committed value otherwise.
func (c *cell) current() any {
	if c.dirty {
		return c.staged
	}
	return c.value
}

func (c *cell) args() []any {
	args := make([]any, len(c.deps))
	for i, dep := range c.deps {
		args[i] = dep.current()
	}
	return args
}

func (c *cell) label() string {
	if c.name != "" {
		return c.name
	}
	return fmt.Sprintf("cell#%d", c.id)
}

func sameValue(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

func depsOf(cs ...Cell) []*cell {
	deps := make([]*cell, len(cs))
	for i, c := range cs {
		if c == nil {
			panic("cells: nil dependency")
		}
		deps[i] = c.node()
	}
	return deps
}

func (r *Reactor) compute(deps []*cell, fn func(args []any) any) *cell {
	c, _ := r.newCompute(deps, func(args []any) (any, error) {
		return fn(args), nil
	})
	return c
}

type InputCell[T comparable] struct {
	r *Reactor
	c *cell
}

func (s *InputCell[T]) node() *cell { return s.c }

func (s *InputCell[T]) Value() T {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	return s.c.value.(T)
}

// SetValue stages the new value and propagates it through every dependent
// cell. Writing the current value is a no-op. A compute failure downstream
// leaves every cell, this one included, at its previous value.
func (s *InputCell[T]) SetValue(v T) error {
	return s.r.set(s.c, v)
}

func Input[T comparable](r *Reactor, initial T) *InputCell[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &InputCell[T]{r: r, c: r.newCell(initial, nil, nil)}
}

type ComputeCell[T comparable] struct {
	r *Reactor
	c *cell
}

func (s *ComputeCell[T]) node() *cell { return s.c }

func (s *ComputeCell[T]) Value() T {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	return s.c.value.(T)
}

// OnChange registers fn to run after each propagation that changed this
// cell's committed value. The callback observes stabilized values only and
// fires at most once per update.
func (s *ComputeCell[T]) OnChange(fn func(T)) *Subscription {
	return s.r.subscribe(s.c, func(v any) { fn(v.(T)) })
}
