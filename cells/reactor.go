package cells

import (
	"fmt"
	"sort"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
)

type OnErrorFunc func(err error)

// Reactor owns a set of cells and serializes construction and propagation
// over them. Callbacks run with the lock released, so they may read values,
// write inputs and cancel subscriptions freely.
type Reactor struct {
	mu         sync.Mutex
	nextID     uint32
	updates    uint32
	batchDepth int
	batchRoots []*cell
	onError    OnErrorFunc
}

// NewReactor creates an empty reactor. onError may be nil; when set it
// observes every compute failure surfaced during propagation, in addition to
// the error returned from the write that triggered it.
func NewReactor(onError OnErrorFunc) *Reactor {
	return &Reactor{onError: onError}
}

// Updates reports how many propagations have run, committed or rolled back.
func (r *Reactor) Updates() uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updates
}

// newCell registers a cell. Caller holds r.mu.
func (r *Reactor) newCell(value any, deps []*cell, fn func(args []any) (any, error)) *cell {
	c := &cell{
		id:    r.nextID,
		owner: r,
		value: value,
		deps:  deps,
		fn:    fn,
	}
	r.nextID++
	for _, dep := range deps {
		dep.subs = append(dep.subs, c)
	}
	return c
}

// newCompute validates the upstream cells, runs the initial compute against
// their committed values and registers the new cell.
func (r *Reactor) newCompute(deps []*cell, fn func(args []any) (any, error)) (*cell, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, dep := range deps {
		if dep == nil {
			panic("cells: nil dependency")
		}
		if dep.owner != r {
			panic("cells: dependency owned by a different reactor")
		}
	}
	args := make([]any, len(deps))
	for i, dep := range deps {
		args[i] = dep.value
	}
	v, err := fn(args)
	if err != nil {
		return nil, computeError("initial compute", err)
	}
	return r.newCell(v, deps, fn), nil
}

func (r *Reactor) set(c *cell, v any) error {
	r.mu.Lock()
	if r.batchDepth > 0 {
		if sameValue(c.current(), v) {
			r.mu.Unlock()
			return nil
		}
		if !c.dirty {
			c.dirty = true
			r.batchRoots = append(r.batchRoots, c)
		}
		c.staged = v
		r.mu.Unlock()
		return nil
	}
	if sameValue(c.value, v) {
		r.mu.Unlock()
		return nil
	}
	c.staged = v
	c.dirty = true
	fires, err := r.propagate([]*cell{c})
	r.mu.Unlock()
	if err != nil {
		r.reportError(err)
		return err
	}
	r.fire(fires)
	return nil
}

type firing struct {
	value any
	sinks []*Subscription
}

// propagate recomputes every transitive dependent of roots exactly once and
// commits the staged values that actually changed. It returns the
// notifications to run once the lock is released. On a compute failure every
// staged value, roots included, is discarded. Caller holds r.mu.
func (r *Reactor) propagate(roots []*cell) ([]firing, error) {
	r.updates++

	affected := mapset.NewThreadUnsafeSet[*cell]()
	queue := make([]*cell, 0, len(roots)*2)
	for _, root := range roots {
		queue = append(queue, root.subs...)
	}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if !affected.Add(c) {
			continue
		}
		queue = append(queue, c.subs...)
	}

	// Ascending id is a topological order: a cell's dependencies always
	// exist before the cell itself.
	order := affected.ToSlice()
	sort.Slice(order, func(i, j int) bool { return order[i].id < order[j].id })

	for _, c := range order {
		v, err := c.recompute()
		if err != nil {
			for _, d := range roots {
				d.dirty = false
				d.staged = nil
			}
			for _, d := range order {
				d.dirty = false
				d.staged = nil
			}
			return nil, computeError(c.label(), err)
		}
		c.staged = v
		c.dirty = true
	}

	all := make([]*cell, 0, len(roots)+len(order))
	all = append(all, roots...)
	all = append(all, order...)
	sort.Slice(all, func(i, j int) bool { return all[i].id < all[j].id })

	var fires []firing
	for _, c := range all {
		if !sameValue(c.value, c.staged) {
			c.value = c.staged
			if len(c.sinks) > 0 {
				sinks := make([]*Subscription, len(c.sinks))
				copy(sinks, c.sinks)
				fires = append(fires, firing{value: c.value, sinks: sinks})
			}
		}
		c.dirty = false
		c.staged = nil
	}
	return fires, nil
}

func (c *cell) recompute() (any, error) {
	return safeCompute(c.fn, c.args())
}

func safeCompute(fn func(args []any) (any, error), args []any) (v any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return fn(args)
}

func (r *Reactor) fire(fires []firing) {
	for _, f := range fires {
		for _, sink := range f.sinks {
			if sink.canceled.Load() {
				continue
			}
			sink.fn(f.value)
		}
	}
}

func (r *Reactor) reportError(err error) {
	if r.onError != nil {
		r.onError(err)
	}
}

func (r *Reactor) StartBatch() {
	r.mu.Lock()
	r.batchDepth++
	r.mu.Unlock()
}

// EndBatch closes the innermost batch. The outermost EndBatch propagates the
// union of all staged writes in one pass: cells reachable from several
// written inputs recompute once, and callbacks observe only final values.
func (r *Reactor) EndBatch() error {
	r.mu.Lock()
	if r.batchDepth == 0 {
		r.mu.Unlock()
		panic("cells: EndBatch without StartBatch")
	}
	r.batchDepth--
	if r.batchDepth > 0 || len(r.batchRoots) == 0 {
		r.mu.Unlock()
		return nil
	}
	roots := r.batchRoots
	r.batchRoots = nil
	fires, err := r.propagate(roots)
	r.mu.Unlock()
	if err != nil {
		r.reportError(err)
		return err
	}
	r.fire(fires)
	return nil
}

func (r *Reactor) Batch(fn func()) error {
	r.StartBatch()
	fn()
	return r.EndBatch()
}
