package dumbdumb

import (
	"reflect"
	"sync"
)

const (
	DefaultCellCacheSize = 4096
)

// Cell is either a signal (fn nil, written directly) or a computed cell.
type Cell struct {
	rs      *ReactiveSystem
	v       any
	deps    []*Cell
	fn      func(args []any) any
	changed bool
}

type effect struct {
	cell *Cell
	fn   func(v any)
}

// ReactiveSystem is the dumbest way to run a cell graph that still gets the
// observable semantics right: every write re-evaluates every computed cell
// in registration order, then runs effects for the cells whose value
// changed. Registration order is topological because dependencies must
// exist before their dependents.
type ReactiveSystem struct {
	mu      *sync.Mutex
	cells   []*Cell
	effects []*effect
}

func NewReactiveSystem() *ReactiveSystem {
	return &ReactiveSystem{
		mu:    &sync.Mutex{},
		cells: make([]*Cell, 0, DefaultCellCacheSize),
	}
}

func (rs *ReactiveSystem) Reset() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.cells = rs.cells[:0]
	rs.effects = rs.effects[:0]
}

func (rs *ReactiveSystem) Signal(v any) *Cell {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	c := &Cell{rs: rs, v: v}
	rs.cells = append(rs.cells, c)
	return c
}

func (rs *ReactiveSystem) Computed(fn func(args []any) any, deps ...*Cell) *Cell {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if len(deps) == 0 {
		panic("dumbdumb: computed needs at least one dependency")
	}
	args := make([]any, len(deps))
	for i, dep := range deps {
		args[i] = dep.v
	}
	c := &Cell{rs: rs, v: fn(args), deps: deps, fn: fn}
	rs.cells = append(rs.cells, c)
	return c
}

// Effect runs fn after each write that changed c's value. The returned stop
// function unregisters it.
func (rs *ReactiveSystem) Effect(c *Cell, fn func(v any)) (stop func()) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	e := &effect{cell: c, fn: fn}
	rs.effects = append(rs.effects, e)

	return func() {
		rs.mu.Lock()
		defer rs.mu.Unlock()
		rs.remove(e)
	}
}

func (rs *ReactiveSystem) remove(e *effect) {
	for i, cur := range rs.effects {
		if cur == e {
			// move the last element to the current position
			rs.effects[i] = rs.effects[len(rs.effects)-1]
			rs.effects = rs.effects[:len(rs.effects)-1]
			return
		}
	}
}

func (rs *ReactiveSystem) evalAll() {
	for _, c := range rs.cells {
		if c.fn == nil {
			continue
		}
		args := make([]any, len(c.deps))
		for i, dep := range c.deps {
			args[i] = dep.v
		}
		next := c.fn(args)
		c.changed = !reflect.DeepEqual(c.v, next)
		if c.changed {
			c.v = next
		}
	}
}

func (c *Cell) Value() any {
	c.rs.mu.Lock()
	defer c.rs.mu.Unlock()
	return c.v
}

func (c *Cell) SetValue(v any) {
	rs := c.rs
	rs.mu.Lock()
	if c.fn != nil {
		rs.mu.Unlock()
		panic("dumbdumb: not a signal")
	}
	if reflect.DeepEqual(c.v, v) {
		rs.mu.Unlock()
		return
	}
	for _, cur := range rs.cells {
		cur.changed = false
	}
	c.v = v
	c.changed = true
	rs.evalAll()

	fires := make([]*effect, 0, len(rs.effects))
	for _, e := range rs.effects {
		if e.cell.changed {
			fires = append(fires, e)
		}
	}
	values := make([]any, len(fires))
	for i, e := range fires {
		values[i] = e.cell.v
	}
	rs.mu.Unlock()

	for i, e := range fires {
		e.fn(values[i])
	}
}
