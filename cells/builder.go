package cells

import (
	"container/heap"
	"sort"
)

// ComputeFunc is the untyped compute signature used by the Builder. Args
// arrive in the order the dependencies were declared.
type ComputeFunc func(args []any) (any, error)

type cellSpec struct {
	name    string
	initial any
	deps    []string
	fn      ComputeFunc
	compute bool
}

// Builder collects named cell declarations and compiles them into a Graph.
// Declaration order is free; references resolve at Build.
type Builder struct {
	specs   []cellSpec
	onError OnErrorFunc
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Input(name string, initial any) *Builder {
	b.specs = append(b.specs, cellSpec{name: name, initial: initial})
	return b
}

func (b *Builder) Compute(name string, deps []string, fn ComputeFunc) *Builder {
	b.specs = append(b.specs, cellSpec{name: name, deps: deps, fn: fn, compute: true})
	return b
}

func (b *Builder) OnError(fn OnErrorFunc) *Builder {
	b.onError = fn
	return b
}

// Build validates the declarations and constructs the graph. Validation is
// fail fast and rejects:
//   - empty or duplicate cell names
//   - a compute cell with no dependencies or a nil function
//   - dependencies on unknown cells
//   - duplicate dependency edges and self-loops
//   - any cycle, direct or indirect
//
// No reactor or cell exists unless Build returns a nil error.
func (b *Builder) Build() (*Graph, error) {
	if len(b.specs) == 0 {
		return nil, invalidf("no cells")
	}

	specByName := make(map[string]*cellSpec, len(b.specs))
	for i := range b.specs {
		spec := &b.specs[i]
		if spec.name == "" {
			return nil, invalidf("cell name is required")
		}
		if _, exists := specByName[spec.name]; exists {
			return nil, invalidf("duplicate cell name: %q", spec.name)
		}
		if spec.compute {
			if spec.fn == nil {
				return nil, invalidf("compute cell %q has a nil function", spec.name)
			}
			if len(spec.deps) == 0 {
				return nil, invalidf("compute cell %q has no dependencies", spec.name)
			}
		}
		specByName[spec.name] = spec
	}

	// Canonical order is sorted by name, so validation errors and cycle
	// witnesses come out the same regardless of declaration order.
	names := make([]string, 0, len(b.specs))
	for name := range specByName {
		names = append(names, name)
	}
	sort.Strings(names)
	index := make(map[string]int, len(names))
	for i, name := range names {
		index[name] = i
	}

	type edgeIndex struct {
		from int
		to   int
	}
	outgoing := make([][]int, len(names))
	indeg := make([]int, len(names))
	seen := make(map[edgeIndex]struct{})
	for _, name := range names {
		spec := specByName[name]
		for _, depName := range spec.deps {
			if _, ok := specByName[depName]; !ok {
				return nil, invalidf("cell %q depends on unknown cell %q", name, depName)
			}
			if depName == name {
				return nil, invalidf("self-loop: %q -> %q", name, name)
			}
			pair := edgeIndex{from: index[depName], to: index[name]}
			if _, exists := seen[pair]; exists {
				return nil, invalidf("duplicate dependency: %q -> %q", depName, name)
			}
			seen[pair] = struct{}{}
			outgoing[pair.from] = append(outgoing[pair.from], pair.to)
			indeg[pair.to]++
		}
	}
	for i := range outgoing {
		sort.Ints(outgoing[i])
	}

	order := topoOrder(outgoing, indeg)
	if len(order) != len(names) {
		return nil, cycleError(findCycle(names, outgoing))
	}

	r := NewReactor(b.onError)
	byName := make(map[string]*cell, len(names))
	inputs := make([]string, 0, len(names))

	r.mu.Lock()
	for _, idx := range order {
		name := names[idx]
		spec := specByName[name]
		if !spec.compute {
			c := r.newCell(spec.initial, nil, nil)
			c.name = name
			byName[name] = c
			inputs = append(inputs, name)
			continue
		}
		deps := make([]*cell, len(spec.deps))
		args := make([]any, len(spec.deps))
		for i, depName := range spec.deps {
			dep := byName[depName]
			deps[i] = dep
			args[i] = dep.value
		}
		v, err := safeCompute(spec.fn, args)
		if err != nil {
			r.mu.Unlock()
			return nil, computeError(name, err)
		}
		c := r.newCell(v, deps, spec.fn)
		c.name = name
		byName[name] = c
	}
	r.mu.Unlock()

	sort.Strings(inputs)
	return &Graph{
		r:      r,
		byName: byName,
		names:  names,
		inputs: inputs,
		fp:     fingerprint(byName),
	}, nil
}

type intMinHeap []int

func (h intMinHeap) Len() int           { return len(h) }
func (h intMinHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intMinHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intMinHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intMinHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// topoOrder runs Kahn's algorithm over canonical indices. The ready queue is
// a min-heap, so the ordering is deterministic. A short result means the
// leftover nodes sit on a cycle.
func topoOrder(outgoing [][]int, indeg []int) []int {
	remaining := make([]int, len(indeg))
	copy(remaining, indeg)

	ready := &intMinHeap{}
	heap.Init(ready)
	for i := range remaining {
		if remaining[i] == 0 {
			heap.Push(ready, i)
		}
	}

	out := make([]int, 0, len(remaining))
	for ready.Len() > 0 {
		n := heap.Pop(ready).(int)
		out = append(out, n)
		for _, m := range outgoing[n] {
			remaining[m]--
			if remaining[m] == 0 {
				heap.Push(ready, m)
			}
		}
	}
	return out
}

// findCycle extracts one stable cycle witness by DFS over canonical indices.
func findCycle(names []string, outgoing [][]int) []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make([]int, len(names))
	parent := make([]int, len(names))
	for i := range parent {
		parent[i] = -1
	}

	var cycle []int

	var dfs func(u int) bool
	dfs = func(u int) bool {
		color[u] = gray
		for _, v := range outgoing[u] {
			if color[v] == white {
				parent[v] = u
				if dfs(v) {
					return true
				}
				continue
			}
			if color[v] == gray {
				// Back-edge u -> v. Walk parents from u back to v.
				cycle = append(cycle, v)
				cur := u
				for cur != -1 && cur != v {
					cycle = append(cycle, cur)
					cur = parent[cur]
				}
				cycle = append(cycle, v)
				return true
			}
		}
		color[u] = black
		return false
	}

	for i := 0; i < len(names); i++ {
		if color[i] != white {
			continue
		}
		if dfs(i) {
			break
		}
	}

	if len(cycle) == 0 {
		return nil
	}

	out := make([]string, 0, len(cycle))
	for i := len(cycle) - 1; i >= 0; i-- {
		out = append(out, names[cycle[i]])
	}
	return out
}

// Graph is a compiled cell graph addressed by name. Values flow through the
// owning Reactor; Graph itself only resolves names, so it is safe to share.
type Graph struct {
	r      *Reactor
	byName map[string]*cell
	names  []string
	inputs []string
	fp     uint64
}

func (g *Graph) Reactor() *Reactor { return g.r }

// Fingerprint identifies the topology: sorted names, kinds and dependency
// edges. Values and compute functions do not participate.
func (g *Graph) Fingerprint() uint64 { return g.fp }

func (g *Graph) Names() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

func (g *Graph) Inputs() []string {
	out := make([]string, len(g.inputs))
	copy(out, g.inputs)
	return out
}

// Set writes an input cell and propagates. Writing a compute cell is
// rejected with ErrNotInput.
func (g *Graph) Set(name string, v any) error {
	c, ok := g.byName[name]
	if !ok {
		return &GraphError{Kind: ErrUnknownCell, Msg: name}
	}
	if !c.isInput() {
		return &GraphError{Kind: ErrNotInput, Msg: name}
	}
	return g.r.set(c, v)
}

func (g *Graph) Value(name string) (any, bool) {
	c, ok := g.byName[name]
	if !ok {
		return nil, false
	}
	g.r.mu.Lock()
	defer g.r.mu.Unlock()
	return c.value, true
}

// Snapshot reads every committed value under one lock hold, so the result
// is a single stabilized state even with concurrent writers.
func (g *Graph) Snapshot() map[string]any {
	g.r.mu.Lock()
	defer g.r.mu.Unlock()
	vals := make(map[string]any, len(g.byName))
	for name, c := range g.byName {
		vals[name] = c.value
	}
	return vals
}

func (g *Graph) OnChange(name string, fn func(v any)) (*Subscription, error) {
	c, ok := g.byName[name]
	if !ok {
		return nil, &GraphError{Kind: ErrUnknownCell, Msg: name}
	}
	return g.r.subscribe(c, fn), nil
}
