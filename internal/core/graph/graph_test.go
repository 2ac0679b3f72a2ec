package graph

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, nodes []string, edges [][2]string) *Graph[string] {
	t.Helper()
	g := New[string]()
	for _, n := range nodes {
		require.True(t, g.AddNode(n))
	}
	for _, e := range edges {
		require.NoError(t, g.AddEdge(e[0], e[1]))
	}
	return g
}

func indexOf(order []string) map[string]int {
	idx := make(map[string]int, len(order))
	for i, n := range order {
		idx[n] = i
	}
	return idx
}

func TestSort_NoEdgesKeepsInsertionOrder(t *testing.T) {
	g := build(t, []string{"c", "a", "b"}, nil)

	order, err := g.Sort()
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, order)
}

func TestSort_ViewerScenario(t *testing.T) {
	// Main after Platform, Main after Graphics, Main before Gui
	g := build(t,
		[]string{"Platform", "Graphics", "Main", "Gui"},
		[][2]string{
			{"Platform", "Main"},
			{"Graphics", "Main"},
			{"Main", "Gui"},
		})

	order, err := g.Sort()
	require.NoError(t, err)
	assert.Equal(t, []string{"Platform", "Graphics", "Main", "Gui"}, order)
}

func TestSort_TieBreakByInsertionNotByName(t *testing.T) {
	// gui registered before main but must run after it; the free node "z"
	// was added first and stays first.
	g := build(t,
		[]string{"z", "gui", "main"},
		[][2]string{{"main", "gui"}})

	order, err := g.Sort()
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "main", "gui"}, order)
}

func TestSort_ReadyNodeReleasedLaterStillOrderedByInsertion(t *testing.T) {
	// b becomes ready only after d is placed; a and c are ready at start.
	g := build(t,
		[]string{"a", "b", "c", "d"},
		[][2]string{{"d", "b"}})

	order, err := g.Sort()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "d", "b"}, order)
}

func TestSort_Deterministic(t *testing.T) {
	nodes := []string{"n0", "n1", "n2", "n3", "n4", "n5"}
	edges := [][2]string{{"n5", "n1"}, {"n3", "n1"}, {"n4", "n2"}}

	first, err := build(t, nodes, edges).Sort()
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := build(t, nodes, edges).Sort()
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSort_RandomDAGsRespectEveryEdge(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}

	for round := 0; round < 200; round++ {
		// a hidden permutation defines the only allowed edge direction
		perm := rng.Perm(len(names))
		rank := make(map[string]int, len(names))
		for i, p := range perm {
			rank[names[p]] = i
		}

		var edges [][2]string
		for i := 0; i < 15; i++ {
			x, y := names[rng.Intn(len(names))], names[rng.Intn(len(names))]
			if x == y {
				continue
			}
			if rank[x] > rank[y] {
				x, y = y, x
			}
			edges = append(edges, [2]string{x, y})
		}

		order, err := build(t, names, edges).Sort()
		require.NoError(t, err)
		require.Len(t, order, len(names))
		idx := indexOf(order)
		for _, e := range edges {
			assert.Less(t, idx[e[0]], idx[e[1]], "edge %s -> %s", e[0], e[1])
		}
	}
}

func TestSort_DirectCycle(t *testing.T) {
	g := build(t, []string{"A", "B"}, [][2]string{{"A", "B"}, {"B", "A"}})

	order, err := g.Sort()
	require.Error(t, err)
	assert.Nil(t, order)
	assert.True(t, errors.Is(err, ErrCycle))

	var ce *CycleError[string]
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, []string{"A", "B"}, ce.Nodes)
	assert.Equal(t, []string{"A", "B", "A"}, ce.Path)
	assert.Contains(t, err.Error(), "A -> B -> A")
}

func TestSort_TransitiveCycleWithBystanders(t *testing.T) {
	g := build(t,
		[]string{"free", "x", "y", "z", "downstream"},
		[][2]string{
			{"x", "y"},
			{"y", "z"},
			{"z", "x"},
			{"z", "downstream"},
		})

	_, err := g.Sort()
	var ce *CycleError[string]
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, []string{"x", "y", "z", "downstream"}, ce.Nodes)
	assert.Equal(t, []string{"x", "y", "z", "x"}, ce.Path)
	assert.NotContains(t, ce.Nodes, "free")
}

func TestAddEdge_Errors(t *testing.T) {
	g := build(t, []string{"a", "b"}, nil)

	err := g.AddEdge("a", "a")
	assert.ErrorIs(t, err, ErrSelfEdge)

	err = g.AddEdge("a", "missing")
	assert.ErrorIs(t, err, ErrUnknownNode)
	assert.Contains(t, err.Error(), "missing")

	err = g.AddEdge("missing", "b")
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestAddEdge_DuplicateStoredOnce(t *testing.T) {
	g := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}, {"a", "b"}})

	assert.Equal(t, []Edge[string]{{From: "a", To: "b"}}, g.Edges())
	order, err := g.Sort()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestAddNode_Duplicate(t *testing.T) {
	g := New[int]()
	assert.True(t, g.AddNode(1))
	assert.False(t, g.AddNode(1))
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, []int{1}, g.Nodes())
}

func TestWithNames_UsedInDiagnostics(t *testing.T) {
	names := map[int]string{0: "platform", 1: "main"}
	g := New(WithNames(func(k int) string { return names[k] }))
	g.AddNode(0)
	g.AddNode(1)
	require.NoError(t, g.AddEdge(0, 1))
	require.NoError(t, g.AddEdge(1, 0))

	_, err := g.Sort()
	require.Error(t, err)
	assert.Equal(t, "dependency cycle: platform -> main -> platform (unresolved: platform, main)", err.Error())

	var ce *CycleError[int]
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, []string{"platform", "main", "platform"}, ce.Names())
}
