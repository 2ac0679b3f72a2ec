// Package graph holds the ordering constraints between controllers and turns
// them into a single execution order.
//
// Nodes remember the order they were added in. Sort is a Kahn topological
// sort that always picks the earliest-added ready node, so equal inputs give
// the same order on every run.
package graph

import (
	"container/heap"
	"errors"
	"fmt"
)

var (
	ErrSelfEdge    = errors.New("self-referential edge")
	ErrUnknownNode = errors.New("unknown node")
)

// Edge is a "From runs before To" constraint.
type Edge[K comparable] struct {
	From K
	To   K
}

// Graph is a set of nodes and "runs before" edges. Not safe for concurrent
// use; it is built once during bootstrap.
type Graph[K comparable] struct {
	index map[K]int
	nodes []K
	succ  [][]int
	pred  [][]int
	seen  map[[2]int]struct{}
	edges [][2]int
	name  func(K) string
}

// Option configures a Graph.
type Option[K comparable] func(*Graph[K])

// WithNames sets the function used to render nodes in diagnostics.
func WithNames[K comparable](fn func(K) string) Option[K] {
	return func(g *Graph[K]) {
		if fn != nil {
			g.name = fn
		}
	}
}

func New[K comparable](opts ...Option[K]) *Graph[K] {
	g := &Graph[K]{
		index: make(map[K]int),
		seen:  make(map[[2]int]struct{}),
		name:  func(k K) string { return fmt.Sprint(k) },
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// AddNode appends k to the graph. Returns false if k was already present.
func (g *Graph[K]) AddNode(k K) bool {
	if _, ok := g.index[k]; ok {
		return false
	}
	g.index[k] = len(g.nodes)
	g.nodes = append(g.nodes, k)
	g.succ = append(g.succ, nil)
	g.pred = append(g.pred, nil)
	return true
}

// AddEdge records that from must run before to. Both nodes must exist.
// Declaring the same edge twice is a no-op.
func (g *Graph[K]) AddEdge(from, to K) error {
	if from == to {
		return fmt.Errorf("%w: %s -> %s", ErrSelfEdge, g.name(from), g.name(to))
	}
	fi, ok := g.index[from]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, g.name(from))
	}
	ti, ok := g.index[to]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, g.name(to))
	}

	key := [2]int{fi, ti}
	if _, dup := g.seen[key]; dup {
		return nil
	}
	g.seen[key] = struct{}{}
	g.edges = append(g.edges, key)
	g.succ[fi] = append(g.succ[fi], ti)
	g.pred[ti] = append(g.pred[ti], fi)
	return nil
}

// Len returns the number of nodes.
func (g *Graph[K]) Len() int { return len(g.nodes) }

// Nodes returns the nodes in insertion order.
func (g *Graph[K]) Nodes() []K {
	out := make([]K, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns the distinct edges in declaration order.
func (g *Graph[K]) Edges() []Edge[K] {
	out := make([]Edge[K], 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, Edge[K]{From: g.nodes[e[0]], To: g.nodes[e[1]]})
	}
	return out
}

// Sort returns a topological order of all nodes. Among nodes whose
// predecessors are all placed, the earliest added goes first. If the edges
// contain a cycle no order is returned and the error is a *CycleError.
func (g *Graph[K]) Sort() ([]K, error) {
	n := len(g.nodes)
	indeg := make([]int, n)
	for i := range g.nodes {
		indeg[i] = len(g.pred[i])
	}

	ready := &minHeap{}
	for i := 0; i < n; i++ {
		if indeg[i] == 0 {
			heap.Push(ready, i)
		}
	}

	order := make([]K, 0, n)
	for ready.Len() > 0 {
		i := heap.Pop(ready).(int)
		order = append(order, g.nodes[i])
		for _, s := range g.succ[i] {
			indeg[s]--
			if indeg[s] == 0 {
				heap.Push(ready, s)
			}
		}
	}

	if len(order) == n {
		return order, nil
	}
	return nil, g.cycleError(indeg)
}

// cycleError collects every node left unplaced and extracts one concrete
// cycle by walking predecessors: each unplaced node has at least one unplaced
// predecessor, so the walk must revisit a node.
func (g *Graph[K]) cycleError(indeg []int) *CycleError[K] {
	var stuck []K
	start := -1
	for i, d := range indeg {
		if d > 0 {
			stuck = append(stuck, g.nodes[i])
			if start < 0 {
				start = i
			}
		}
	}

	pos := make(map[int]int)
	var walk []int
	cur := start
	for {
		if p, ok := pos[cur]; ok {
			walk = walk[p:]
			break
		}
		pos[cur] = len(walk)
		walk = append(walk, cur)
		next := -1
		for _, p := range g.pred[cur] {
			if indeg[p] > 0 && (next < 0 || p < next) {
				next = p
			}
		}
		cur = next
	}

	// walk follows edges backwards; flip it, start at the earliest-added
	// node and close the loop
	cyc := make([]int, 0, len(walk))
	for i := len(walk) - 1; i >= 0; i-- {
		cyc = append(cyc, walk[i])
	}
	first := 0
	for i, v := range cyc {
		if v < cyc[first] {
			first = i
		}
	}
	path := make([]K, 0, len(cyc)+1)
	for i := range cyc {
		path = append(path, g.nodes[cyc[(first+i)%len(cyc)]])
	}
	path = append(path, path[0])

	return &CycleError[K]{Nodes: stuck, Path: path, name: g.name}
}

type minHeap []int

func (h minHeap) Len() int           { return len(h) }
func (h minHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h minHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *minHeap) Pop() any {
	old := *h
	x := old[len(old)-1]
	*h = old[:len(old)-1]
	return x
}
