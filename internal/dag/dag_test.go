// SPDX-License-Identifier: MPL-2.0

package dag

import (
	"errors"
	"slices"
	"testing"
)

func TestTopologicalSort_EmptyGraph(t *testing.T) {
	t.Parallel()

	order, err := New().TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != nil {
		t.Errorf("expected nil, got %v", order)
	}
}

func TestTopologicalSort_CompositeRecipe(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddEdge("_test-all", "_test-features")
	g.AddEdge("_test-all", "_test-msrv")
	g.AddEdge("_test-all", "_test-constraints")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"_test-all", "_test-features", "_test-msrv", "_test-constraints"}
	if !slices.Equal(order, want) {
		t.Errorf("TopologicalSort() = %v, want %v", order, want)
	}
}

func TestTopologicalSort_SharedChild(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddEdge("check-verify", "_components")
	g.AddEdge("check-fix", "_components")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order[len(order)-1] != "_components" {
		t.Errorf("expected shared child last, got %v", order)
	}
	if g.Len() != 3 {
		t.Errorf("Len() = %d, want 3", g.Len())
	}
}

func TestTopologicalSort_IsolatedNodesKeepInsertionOrder(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddNode("b")
	g.AddNode("a")
	g.AddNode("b")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(order, []string{"b", "a"}) {
		t.Errorf("TopologicalSort() = %v, want [b a]", order)
	}
}

func TestTopologicalSort_Cycle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edges [][2]string
		want  []string
	}{
		{name: "self include", edges: [][2]string{{"a", "a"}}, want: []string{"a"}},
		{name: "two node", edges: [][2]string{{"a", "b"}, {"b", "a"}}, want: []string{"a", "b"}},
		{
			name:  "cycle below acyclic root",
			edges: [][2]string{{"root", "x"}, {"x", "y"}, {"y", "x"}},
			want:  []string{"x", "y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := New()
			for _, e := range tt.edges {
				g.AddEdge(e[0], e[1])
			}
			_, err := g.TopologicalSort()
			var cycleErr *CycleError
			if !errors.As(err, &cycleErr) {
				t.Fatalf("expected CycleError, got %v", err)
			}
			if !slices.Equal(cycleErr.Nodes, tt.want) {
				t.Errorf("cycle nodes = %v, want %v", cycleErr.Nodes, tt.want)
			}
		})
	}
}
