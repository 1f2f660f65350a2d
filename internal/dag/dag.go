// SPDX-License-Identifier: MPL-2.0

// Package dag orders a small directed graph and reports cycles. The recipe
// table uses it at construction to prove that composite recipes never
// include themselves, directly or transitively.
package dag

import (
	"fmt"
	"strings"
)

type (
	// CycleError lists the nodes left over once every acyclic node has been
	// ordered. At least one cycle runs through them.
	CycleError struct {
		Nodes []string
	}

	// Graph is a directed graph keyed by name. An edge from A to B reads
	// "A includes B".
	Graph struct {
		edges map[string][]string
		order []string
		known map[string]struct{}
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("include cycle between: %s", strings.Join(e.Nodes, ", "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		edges: make(map[string][]string),
		known: make(map[string]struct{}),
	}
}

// AddNode registers a node. Re-adding is a no-op.
func (g *Graph) AddNode(name string) {
	if _, ok := g.known[name]; ok {
		return
	}
	g.known[name] = struct{}{}
	g.order = append(g.order, name)
}

// AddEdge registers from -> to, adding either node when missing.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	g.edges[from] = append(g.edges[from], to)
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// TopologicalSort orders nodes so every edge points forward, using Kahn's
// algorithm. Ties keep insertion order, so the output is deterministic.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.order) == 0 {
		return nil, nil
	}

	indegree := make(map[string]int, len(g.order))
	for _, targets := range g.edges {
		for _, to := range targets {
			indegree[to]++
		}
	}

	var ready []string
	for _, n := range g.order {
		if indegree[n] == 0 {
			ready = append(ready, n)
		}
	}

	sorted := make([]string, 0, len(g.order))
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		sorted = append(sorted, n)
		for _, to := range g.edges[n] {
			indegree[to]--
			if indegree[to] == 0 {
				ready = append(ready, to)
			}
		}
	}

	if len(sorted) == len(g.order) {
		return sorted, nil
	}

	var stuck []string
	for _, n := range g.order {
		if indegree[n] > 0 {
			stuck = append(stuck, n)
		}
	}
	return nil, &CycleError{Nodes: stuck}
}
