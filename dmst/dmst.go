// Package dmst finds directed minimum spanning trees, also known as minimum
// arborescences, with the Chu-Liu/Edmonds algorithm.
package dmst

import (
	"github.com/brunokim/gdl-engine/errors"
)

// Edge is a weighted directed edge between two nodes.
type Edge struct {
	From, To int
	Weight   float64
}

// Graph is a directed graph with nodes numbered from 0 to N-1.
type Graph struct {
	N     int
	Edges []Edge
}

// AddEdge appends an edge to the graph.
func (g *Graph) AddEdge(from, to int, weight float64) {
	g.Edges = append(g.Edges, Edge{From: from, To: to, Weight: weight})
}

// arc is an edge within one contraction level. Its source is the index of the
// edge it was derived from in the previous level.
type arc struct {
	from, to int
	weight   float64
	source   int
}

// Find returns the minimum-weight arborescence rooted at root, as the parent of
// each node. The root's parent is -1.
//
// Every non-root node must have an incoming edge, or IncompleteGraph is returned.
// Between edges of equal weight, the one added first is preferred.
func Find(g Graph, root int) ([]int, error) {
	if root < 0 || root >= g.N {
		return nil, errors.New("%v: root %d out of range [0, %d)", errors.IncompleteGraph, root, g.N)
	}
	arcs := make([]arc, 0, len(g.Edges))
	for i, e := range g.Edges {
		if e.From < 0 || e.From >= g.N || e.To < 0 || e.To >= g.N {
			return nil, errors.New("dmst.Find: edge #%d (%d->%d) out of range [0, %d)", i, e.From, e.To, g.N)
		}
		arcs = append(arcs, arc{from: e.From, to: e.To, weight: e.Weight, source: i})
	}
	live := make([]bool, g.N)
	for i := range live {
		live[i] = true
	}
	chosen, err := solve(live, arcs, root)
	if err != nil {
		return nil, err
	}
	parents := make([]int, g.N)
	for v := range parents {
		if v == root {
			parents[v] = -1
			continue
		}
		parents[v] = g.Edges[arcs[chosen[v]].source].From
	}
	return parents, nil
}

// solve returns the index of the arc entering each live non-root node.
func solve(live []bool, arcs []arc, root int) (map[int]int, error) {
	best := make(map[int]int)
	for i, a := range arcs {
		if a.to == root || a.from == a.to {
			continue
		}
		if j, ok := best[a.to]; !ok || a.weight < arcs[j].weight {
			best[a.to] = i
		}
	}
	for v, isLive := range live {
		if _, ok := best[v]; isLive && v != root && !ok {
			return nil, errors.New("%v: node %d has no incoming edge", errors.IncompleteGraph, v)
		}
	}
	cycle := findCycle(live, arcs, best, root)
	if cycle == nil {
		return best, nil
	}

	// Contract the cycle into a new node c.
	c := len(live)
	inCycle := make(map[int]bool)
	for _, v := range cycle {
		inCycle[v] = true
	}
	nextLive := make([]bool, c+1)
	copy(nextLive, live)
	for _, v := range cycle {
		nextLive[v] = false
	}
	nextLive[c] = true
	var next []arc
	for i, a := range arcs {
		switch {
		case inCycle[a.from] && inCycle[a.to]:
			continue
		case inCycle[a.to]:
			displaced := arcs[best[a.to]].weight
			next = append(next, arc{from: a.from, to: c, weight: a.weight - displaced, source: i})
		case inCycle[a.from]:
			next = append(next, arc{from: c, to: a.to, weight: a.weight, source: i})
		default:
			next = append(next, arc{from: a.from, to: a.to, weight: a.weight, source: i})
		}
	}
	contracted, err := solve(nextLive, next, root)
	if err != nil {
		return nil, err
	}

	// Expand the cycle, breaking it at the node reached by the entering arc.
	chosen := make(map[int]int)
	for v, j := range contracted {
		if v == c {
			continue
		}
		chosen[v] = next[j].source
	}
	entering := next[contracted[c]].source
	for _, v := range cycle {
		chosen[v] = best[v]
	}
	chosen[arcs[entering].to] = entering
	return chosen, nil
}

// findCycle returns the nodes of a cycle formed by the best incoming arcs, if any.
func findCycle(live []bool, arcs []arc, best map[int]int, root int) []int {
	const (
		unvisited = iota
		visiting
		visited
	)
	state := make([]int, len(live))
	for start, isLive := range live {
		if !isLive || start == root || state[start] != unvisited {
			continue
		}
		var path []int
		v := start
		for v != root && state[v] == unvisited {
			state[v] = visiting
			path = append(path, v)
			v = arcs[best[v]].from
		}
		if v != root && state[v] == visiting {
			for i, u := range path {
				if u == v {
					return path[i:]
				}
			}
		}
		for _, u := range path {
			state[u] = visited
		}
	}
	return nil
}
