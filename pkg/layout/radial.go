package layout

import (
	"math"

	"github.com/matzehuels/graphscope/pkg/network"
	"github.com/matzehuels/graphscope/pkg/positions"
)

// RingSpacing is the distance between consecutive rings of the radial layout.
const RingSpacing = 60.0

// RingRadius returns the radius of ring i: 60, 120, 180.
func RingRadius(i int) float64 {
	return RingSpacing * float64(i+1)
}

// Radial places center at the origin and arranges the remaining nodes in
// rings: ring 0 holds direct neighbors, ring 1 second-degree neighbors and
// ring 2 everything else, including disconnected nodes. Nodes in a ring are
// spaced evenly at 2π/k. center must exist in g.
func Radial(g *network.Graph, center string) Result {
	rings := Rings(g, center)

	out := make(map[string]positions.Position, g.NodeCount())
	out[center] = positions.Position{}
	for i, ring := range rings {
		r := RingRadius(i)
		step := 2 * math.Pi / float64(len(ring))
		for j, id := range ring {
			angle := step * float64(j)
			out[id] = positions.Position{X: r * math.Cos(angle), Y: r * math.Sin(angle)}
		}
	}
	return Result{Positions: out, Strategy: StrategyRadial, Rings: rings}
}

// Rings returns the BFS ring membership around center. Empty rings are kept so
// ring indexes stay stable.
func Rings(g *network.Graph, center string) [][]string {
	seen := map[string]bool{center: true}

	var first []string
	for _, nb := range g.Neighbors(center) {
		if !seen[nb] {
			seen[nb] = true
			first = append(first, nb)
		}
	}

	var second []string
	for _, id := range first {
		for _, nb := range g.Neighbors(id) {
			if !seen[nb] {
				seen[nb] = true
				second = append(second, nb)
			}
		}
	}

	var rest []string
	for _, id := range g.IDs() {
		if !seen[id] {
			rest = append(rest, id)
		}
	}

	return [][]string{first, second, rest}
}
