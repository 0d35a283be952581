package dmst_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/brunokim/gdl-engine/dmst"
	"github.com/brunokim/gdl-engine/errors"
	"github.com/google/go-cmp/cmp"
)

func TestFind(t *testing.T) {
	tests := []struct {
		desc  string
		graph dmst.Graph
		root  int
		want  []int
	}{
		{
			"chain is cheaper than star",
			dmst.Graph{N: 3, Edges: []dmst.Edge{
				{From: 0, To: 1, Weight: 5},
				{From: 0, To: 2, Weight: 5},
				{From: 1, To: 2, Weight: 1},
			}},
			0,
			[]int{-1, 0, 1},
		},
		{
			"nested cycles",
			dmst.Graph{N: 4, Edges: []dmst.Edge{
				{From: 0, To: 1, Weight: 10},
				{From: 0, To: 2, Weight: 11},
				{From: 0, To: 3, Weight: 10},
				{From: 1, To: 2, Weight: 1},
				{From: 2, To: 1, Weight: 1},
				{From: 2, To: 3, Weight: 1},
				{From: 3, To: 1, Weight: 5},
			}},
			0,
			[]int{-1, 0, 1, 2},
		},
		{
			"ties prefer first edge",
			dmst.Graph{N: 3, Edges: []dmst.Edge{
				{From: 0, To: 1, Weight: 1},
				{From: 0, To: 2, Weight: 2},
				{From: 1, To: 2, Weight: 2},
			}},
			0,
			[]int{-1, 0, 0},
		},
		{
			"root is not node 0",
			dmst.Graph{N: 3, Edges: []dmst.Edge{
				{From: 2, To: 0, Weight: 3},
				{From: 2, To: 1, Weight: 3},
				{From: 0, To: 1, Weight: 1},
				{From: 1, To: 2, Weight: 0},
			}},
			2,
			[]int{2, 0, -1},
		},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			got, err := dmst.Find(test.graph, test.root)
			if err != nil {
				t.Fatalf("got err: %v", err)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("(-want, +got)%s", diff)
			}
		})
	}
}

func TestFind_IncompleteGraph(t *testing.T) {
	var g dmst.Graph
	g.N = 3
	g.AddEdge(0, 1, 1)
	g.AddEdge(2, 1, 0)
	_, err := dmst.Find(g, 0)
	if !errors.Is(err, errors.IncompleteGraph) {
		t.Errorf("got err %v, want %v", err, errors.IncompleteGraph)
	}
}

func cost(g dmst.Graph, parents []int) float64 {
	var total float64
	for v, p := range parents {
		if p < 0 {
			continue
		}
		w := math.Inf(1)
		for _, e := range g.Edges {
			if e.From == p && e.To == v && e.Weight < w {
				w = e.Weight
			}
		}
		total += w
	}
	return total
}

func isArborescence(parents []int, root int) bool {
	for v := range parents {
		seen := make(map[int]bool)
		for u := v; u != root; u = parents[u] {
			if seen[u] || parents[u] < 0 {
				return false
			}
			seen[u] = true
		}
	}
	return true
}

// bruteForce returns the cost of the cheapest arborescence of a complete graph.
func bruteForce(g dmst.Graph, root int) float64 {
	best := math.Inf(1)
	parents := make([]int, g.N)
	var rec func(v int)
	rec = func(v int) {
		if v == g.N {
			if isArborescence(parents, root) {
				best = math.Min(best, cost(g, parents))
			}
			return
		}
		if v == root {
			parents[v] = -1
			rec(v + 1)
			return
		}
		for p := 0; p < g.N; p++ {
			if p != v {
				parents[v] = p
				rec(v + 1)
			}
		}
	}
	rec(0)
	return best
}

func TestFind_BruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for iter := 0; iter < 200; iter++ {
		g := dmst.Graph{N: 2 + rng.Intn(4)}
		for u := 0; u < g.N; u++ {
			for v := 0; v < g.N; v++ {
				if u != v && v != 0 {
					g.AddEdge(u, v, float64(rng.Intn(10)))
				}
			}
		}
		got, err := dmst.Find(g, 0)
		if err != nil {
			t.Fatalf("%+v: got err %v", g, err)
		}
		if !isArborescence(got, 0) {
			t.Fatalf("%+v: %v is not an arborescence", g, got)
		}
		if c, want := cost(g, got), bruteForce(g, 0); math.Abs(c-want) > 1e-9 {
			t.Errorf("%+v: cost(%v) = %v, want %v", g, got, c, want)
		}
	}
}
