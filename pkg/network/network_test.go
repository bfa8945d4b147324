package network

import (
	"errors"
	"testing"

	"github.com/matzehuels/graphscope/pkg/graph"
)

func nodes(ids ...string) []graph.Node {
	out := make([]graph.Node, len(ids))
	for i, id := range ids {
		out[i] = graph.Node{ID: id}
	}
	return out
}

func TestBuildDropsDanglingEdges(t *testing.T) {
	g, err := Build(nodes("a", "b", "c"), []graph.Edge{
		{Source: "a", Target: "b", Weight: 2},
		{Source: "b", Target: "d", Weight: 1},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.NodeCount() != 3 {
		t.Errorf("NodeCount = %d, want 3", g.NodeCount())
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", g.EdgeCount())
	}
	if len(g.Dropped()) != 1 || g.Dropped()[0].Target != "d" {
		t.Errorf("Dropped = %+v, want the b-d edge", g.Dropped())
	}
}

func TestBuildNeverKeepsUnknownEndpoints(t *testing.T) {
	tests := []struct {
		name  string
		nodes []graph.Node
		edges []graph.Edge
	}{
		{"empty", nil, []graph.Edge{{Source: "x", Target: "y"}}},
		{"missing source", nodes("a"), []graph.Edge{{Source: "x", Target: "a"}}},
		{"missing target", nodes("a"), []graph.Edge{{Source: "a", Target: "x"}}},
		{"mixed", nodes("a", "b", "c"), []graph.Edge{
			{Source: "a", Target: "b"},
			{Source: "c", Target: "z"},
			{Source: "q", Target: "r"},
			{Source: "b", Target: "c"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(tt.nodes, tt.edges)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			for _, e := range g.Edges() {
				if !g.HasNode(e.Source) || !g.HasNode(e.Target) {
					t.Errorf("edge %s-%s references an unknown node", e.Source, e.Target)
				}
			}
			if g.EdgeCount()+len(g.Dropped()) != len(tt.edges) {
				t.Errorf("kept %d + dropped %d != %d", g.EdgeCount(), len(g.Dropped()), len(tt.edges))
			}
		})
	}
}

func TestBuildRejectsBadIDs(t *testing.T) {
	if _, err := Build(nodes("a", "a"), nil); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("duplicate: err = %v, want ErrDuplicateNodeID", err)
	}
	if _, err := Build(nodes("a", ""), nil); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("empty: err = %v, want ErrInvalidNodeID", err)
	}
}

func TestBuildDoesNotAliasInput(t *testing.T) {
	in := nodes("a")
	g, err := Build(in, nil)
	if err != nil {
		t.Fatal(err)
	}
	in[0].Label = "changed"
	n, _ := g.Node("a")
	if n.Label != "" {
		t.Error("Build should copy nodes, not alias the input slice")
	}
}

func TestNeighbors(t *testing.T) {
	g, err := Build(nodes("a", "b", "c", "d"), []graph.Edge{
		{Source: "a", Target: "b"},
		{Source: "b", Target: "a"}, // parallel edge, opposite direction
		{Source: "a", Target: "c"},
		{Source: "d", Target: "d"}, // self loop
	})
	if err != nil {
		t.Fatal(err)
	}

	got := g.Neighbors("a")
	if len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Errorf("Neighbors(a) = %v, want [b c]", got)
	}
	if !g.IsNeighbor("c", "a") {
		t.Error("IsNeighbor(c, a) = false")
	}
	if g.Degree("d") != 0 {
		t.Errorf("self loop should not count as neighbor, Degree(d) = %d", g.Degree("d"))
	}
	if len(g.IncidentEdges("d")) != 1 {
		t.Errorf("IncidentEdges(d) = %d, want 1", len(g.IncidentEdges("d")))
	}
	if len(g.IncidentEdges("a")) != 3 {
		t.Errorf("IncidentEdges(a) = %d, want 3", len(g.IncidentEdges("a")))
	}
	if g.Neighbors("missing") != nil {
		t.Error("Neighbors(missing) should be nil")
	}
}

func TestEdgeHelpers(t *testing.T) {
	e := Edge{Source: "a", Target: "b"}
	if !e.Touches("a") || !e.Touches("b") || e.Touches("c") {
		t.Error("Touches mismatch")
	}
	if e.Other("a") != "b" || e.Other("b") != "a" {
		t.Error("Other mismatch")
	}
}

func TestMaxMetricAndWeight(t *testing.T) {
	g, err := Build([]graph.Node{
		{ID: "a", Count: 1, Degree: 9},
		{ID: "b", Count: 10, Degree: 2},
	}, []graph.Edge{{Source: "a", Target: "b", Weight: 4}})
	if err != nil {
		t.Fatal(err)
	}
	if g.MaxMetric(graph.SizeByCount) != 10 {
		t.Errorf("MaxMetric(count) = %v", g.MaxMetric(graph.SizeByCount))
	}
	if g.MaxMetric(graph.SizeByDegree) != 9 {
		t.Errorf("MaxMetric(degree) = %v", g.MaxMetric(graph.SizeByDegree))
	}
	if g.MaxWeight() != 4 {
		t.Errorf("MaxWeight = %v", g.MaxWeight())
	}
}

func TestEgoNetwork(t *testing.T) {
	g, err := Build(nodes("c", "n1", "n2", "far"), []graph.Edge{
		{Source: "c", Target: "n1"},
		{Source: "c", Target: "n2"},
		{Source: "n1", Target: "n2"},
		{Source: "n2", Target: "far"},
	})
	if err != nil {
		t.Fatal(err)
	}

	ego, err := g.EgoNetwork("c")
	if err != nil {
		t.Fatalf("EgoNetwork: %v", err)
	}
	if ego.NodeCount() != 3 {
		t.Errorf("ego nodes = %d, want 3", ego.NodeCount())
	}
	if ego.HasNode("far") {
		t.Error("ego network should not contain second-degree nodes")
	}
	if ego.EdgeCount() != 3 {
		t.Errorf("ego edges = %d, want 3", ego.EdgeCount())
	}
	wantEdges := [][2]string{{"c", "n1"}, {"c", "n2"}, {"n1", "n2"}}
	for i, e := range ego.Edges() {
		if e.Source != wantEdges[i][0] || e.Target != wantEdges[i][1] {
			t.Errorf("ego edge %d = %s-%s, want input order %v", i, e.Source, e.Target, wantEdges)
		}
	}

	if _, err := g.EgoNetwork("missing"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("err = %v, want ErrUnknownNode", err)
	}
}

func TestSerialize(t *testing.T) {
	g, _ := Build(nodes("a", "b"), []graph.Edge{{Source: "a", Target: "b"}, {Source: "a", Target: "x"}})
	out := g.Serialize()
	if len(out.Nodes) != 2 || len(out.Edges) != 1 {
		t.Errorf("Serialize = %+v", out)
	}
}

func TestZeroValueGraph(t *testing.T) {
	var g Graph
	if g.NodeCount() != 0 || g.HasNode("a") || g.Neighbors("a") != nil {
		t.Error("zero Graph should behave as empty")
	}
}
