package network

import (
	"errors"
	"fmt"
	"slices"

	"github.com/matzehuels/graphscope/pkg/graph"
)

var (
	// ErrInvalidNodeID is returned by [Build] when a node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Build] when two nodes share an ID.
	// Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned by lookups for IDs not present in the graph.
	ErrUnknownNode = errors.New("unknown node")
)

// Edge is a validated edge. Index is its position among the kept edges and is
// stable for the lifetime of the Graph.
type Edge struct {
	Index      int
	Source     string
	Target     string
	Weight     float64
	WeightNorm float64
}

// Touches reports whether the edge has id as one of its endpoints.
func (e Edge) Touches(id string) bool { return e.Source == id || e.Target == id }

// Other returns the endpoint opposite to id.
func (e Edge) Other(id string) string {
	if e.Source == id {
		return e.Target
	}
	return e.Source
}

// Graph is an undirected, weighted network indexed for the engine.
//
// The zero value is an empty graph. Use Build to create a populated one.
type Graph struct {
	nodes     map[string]*graph.Node
	order     []string            // node IDs in input order
	edges     []Edge              // kept edges in input order
	neighbors map[string][]string // nodeID -> distinct neighbor IDs
	incident  map[string][]int    // nodeID -> indices into edges
	dropped   []graph.Edge
	maxWeight float64
}

// Build validates and indexes the given nodes and edges.
//
// Returns an error wrapping ErrInvalidNodeID or ErrDuplicateNodeID if the node
// list is malformed. Edges referencing missing nodes are skipped and listed by
// Dropped. Build never mutates its inputs.
func Build(nodes []graph.Node, edges []graph.Edge) (*Graph, error) {
	g := &Graph{
		nodes:     make(map[string]*graph.Node, len(nodes)),
		order:     make([]string, 0, len(nodes)),
		neighbors: make(map[string][]string, len(nodes)),
		incident:  make(map[string][]int, len(nodes)),
	}

	for i := range nodes {
		n := nodes[i]
		if n.ID == "" {
			return nil, fmt.Errorf("node %d: %w", i, ErrInvalidNodeID)
		}
		if _, exists := g.nodes[n.ID]; exists {
			return nil, fmt.Errorf("node %q: %w", n.ID, ErrDuplicateNodeID)
		}
		g.nodes[n.ID] = &n
		g.order = append(g.order, n.ID)
	}

	for _, e := range edges {
		_, okS := g.nodes[e.Source]
		_, okT := g.nodes[e.Target]
		if !okS || !okT {
			g.dropped = append(g.dropped, e)
			continue
		}
		g.addEdge(e)
	}

	return g, nil
}

func (g *Graph) addEdge(e graph.Edge) {
	idx := len(g.edges)
	g.edges = append(g.edges, Edge{
		Index:      idx,
		Source:     e.Source,
		Target:     e.Target,
		Weight:     e.Weight,
		WeightNorm: e.WeightNorm,
	})
	if e.Weight > g.maxWeight {
		g.maxWeight = e.Weight
	}

	g.incident[e.Source] = append(g.incident[e.Source], idx)
	if e.Target != e.Source {
		g.incident[e.Target] = append(g.incident[e.Target], idx)
		g.link(e.Source, e.Target)
		g.link(e.Target, e.Source)
	}
}

func (g *Graph) link(from, to string) {
	if !slices.Contains(g.neighbors[from], to) {
		g.neighbors[from] = append(g.neighbors[from], to)
	}
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of kept edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the node with the given ID and true, or nil and false.
// The returned node must be treated as read-only.
func (g *Graph) Node(id string) (*graph.Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// IDs returns node IDs in input order. The slice must not be modified.
func (g *Graph) IDs() []string { return g.order }

// Nodes returns the nodes in input order.
func (g *Graph) Nodes() []*graph.Node {
	out := make([]*graph.Node, len(g.order))
	for i, id := range g.order {
		out[i] = g.nodes[id]
	}
	return out
}

// Edges returns the kept edges in input order. The slice must not be modified.
func (g *Graph) Edges() []Edge { return g.edges }

// Dropped returns the input edges skipped because an endpoint was missing.
func (g *Graph) Dropped() []graph.Edge { return g.dropped }

// Neighbors returns the distinct neighbor IDs of a node in first-seen order.
// Returns nil for unknown or isolated nodes. The slice must not be modified.
func (g *Graph) Neighbors(id string) []string { return g.neighbors[id] }

// IsNeighbor reports whether a and b share at least one edge.
func (g *Graph) IsNeighbor(a, b string) bool {
	return slices.Contains(g.neighbors[a], b)
}

// Degree returns the number of distinct neighbors of a node.
func (g *Graph) Degree(id string) int { return len(g.neighbors[id]) }

// IncidentEdges returns the edges touching a node.
func (g *Graph) IncidentEdges(id string) []Edge {
	idx := g.incident[id]
	out := make([]Edge, len(idx))
	for i, j := range idx {
		out[i] = g.edges[j]
	}
	return out
}

// MaxWeight returns the largest edge weight, or 0 for an edgeless graph.
func (g *Graph) MaxWeight() float64 { return g.maxWeight }

// MaxMetric returns the largest value of the named sizing metric over all nodes.
func (g *Graph) MaxMetric(sizeBy string) float64 {
	var top float64
	for _, id := range g.order {
		if v := g.nodes[id].Metric(sizeBy); v > top {
			top = v
		}
	}
	return top
}

// EgoNetwork returns the subgraph made of id, its direct neighbors, and every
// edge whose endpoints are both in that set. Returns ErrUnknownNode if id is
// not in the graph.
func (g *Graph) EgoNetwork(id string) (*Graph, error) {
	if !g.HasNode(id) {
		return nil, fmt.Errorf("ego network of %q: %w", id, ErrUnknownNode)
	}

	keep := map[string]bool{id: true}
	for _, nb := range g.neighbors[id] {
		keep[nb] = true
	}

	var nodes []graph.Node
	for _, nid := range g.order {
		if keep[nid] {
			nodes = append(nodes, *g.nodes[nid])
		}
	}

	var idx []int
	seen := make(map[int]bool)
	for nid := range keep {
		for _, e := range g.IncidentEdges(nid) {
			if !seen[e.Index] && keep[e.Source] && keep[e.Target] {
				seen[e.Index] = true
				idx = append(idx, e.Index)
			}
		}
	}
	slices.Sort(idx)

	edges := make([]graph.Edge, len(idx))
	for i, j := range idx {
		e := g.edges[j]
		edges[i] = graph.Edge{
			Source:     e.Source,
			Target:     e.Target,
			Weight:     e.Weight,
			WeightNorm: e.WeightNorm,
		}
	}

	return Build(nodes, edges)
}

// Serialize converts the graph back to its wire format. Dropped edges are not
// included.
func (g *Graph) Serialize() graph.Graph {
	out := graph.Graph{
		Nodes: make([]graph.Node, len(g.order)),
		Edges: make([]graph.Edge, len(g.edges)),
	}
	for i, id := range g.order {
		out.Nodes[i] = *g.nodes[id]
	}
	for i, e := range g.edges {
		out.Edges[i] = graph.Edge{Source: e.Source, Target: e.Target, Weight: e.Weight, WeightNorm: e.WeightNorm}
	}
	return out
}
