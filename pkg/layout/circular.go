package layout

import (
	"math"

	"github.com/matzehuels/graphscope/pkg/graph"
	"github.com/matzehuels/graphscope/pkg/network"
	"github.com/matzehuels/graphscope/pkg/positions"
)

// MinCircleRadius is the smallest radius used by the circular layout.
const MinCircleRadius = 50.0

// CircleRadius returns max(50, 2n).
func CircleRadius(n int) float64 {
	return math.Max(MinCircleRadius, 2*float64(n))
}

// Circular places nodes evenly on a circle, grouped by entity type. Groups
// follow the order in which each type first appears in the input, and nodes
// keep input order within their group. The result depends only on the graph.
func Circular(g *network.Graph) Result {
	nodes := g.Nodes()
	n := len(nodes)
	out := make(map[string]positions.Position, n)
	if n == 0 {
		return Result{Positions: out, Strategy: StrategyTrivial}
	}

	ordered := groupByType(nodes)
	r := CircleRadius(n)
	step := 2 * math.Pi / float64(n)
	for i, id := range ordered {
		angle := step * float64(i)
		out[id] = positions.Position{X: r * math.Cos(angle), Y: r * math.Sin(angle)}
	}
	return Result{Positions: out, Strategy: StrategyCircular}
}

func groupByType(nodes []*graph.Node) []string {
	var types []graph.EntityType
	groups := make(map[graph.EntityType][]string)
	for _, nd := range nodes {
		if _, ok := groups[nd.Type]; !ok {
			types = append(types, nd.Type)
		}
		groups[nd.Type] = append(groups[nd.Type], nd.ID)
	}

	ordered := make([]string, 0, len(nodes))
	for _, t := range types {
		ordered = append(ordered, groups[t]...)
	}
	return ordered
}
