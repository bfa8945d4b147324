package layout

import (
	"github.com/matzehuels/graphscope/pkg/network"
	"github.com/matzehuels/graphscope/pkg/positions"
)

// Cache hit thresholds for the tiered force policy.
const (
	ReuseThreshold = 0.8
	ShortThreshold = 0.5
)

// Iteration budgets.
const (
	ShortIterations   = 10
	MinFullIterations = 30
	MaxFullIterations = 80

	// shortSlowDown damps the short solve so seeded nodes barely move.
	shortSlowDown = 3.0
	// neighborJitter spreads uncached nodes placed at a neighbor centroid.
	neighborJitter = 5.0
)

// FullIterations returns the full solve budget for a graph of n nodes:
// clamp(120-n, 30, 80).
func FullIterations(n int) int {
	return max(MinFullIterations, min(MaxFullIterations, 120-n))
}

// Force lays out g with the force-directed strategy, applying the position
// cache policy, and commits the result to the cache.
func (e *Engine) Force(g *network.Graph) Result {
	ids := g.IDs()
	n := len(ids)

	switch n {
	case 0:
		return Result{Positions: map[string]positions.Position{}, Strategy: StrategyTrivial}
	case 1:
		ratio := e.cache.HitRatio(ids)
		out := map[string]positions.Position{ids[0]: {}}
		e.cache.SetAll(out)
		return Result{Positions: out, Strategy: StrategyTrivial, HitRatio: ratio}
	}

	ratio := e.cache.HitRatio(ids)

	var res Result
	switch {
	case ratio >= ReuseThreshold:
		res = Result{Positions: e.seed(g, true), Strategy: StrategyCache}

	case ratio >= ShortThreshold:
		s := DefaultForceSettings(n)
		s.Iterations = ShortIterations
		s.SlowDown = shortSlowDown
		res = Result{
			Positions:  e.solver.Solve(g, e.seed(g, true), s),
			Strategy:   StrategyShort,
			Iterations: s.Iterations,
		}

	default:
		s := DefaultForceSettings(n)
		s.Iterations = FullIterations(n)
		res = Result{
			Positions:  e.solver.Solve(g, e.seed(g, false), s),
			Strategy:   StrategyFull,
			Iterations: s.Iterations,
		}
	}

	res.HitRatio = ratio
	e.cache.SetAll(res.Positions)
	return res
}

// seed returns the starting coordinates for every node. Cached nodes keep
// their cached position. With nearNeighbors set, an uncached node starts next
// to the centroid of its cached neighbors; otherwise it starts at a random
// point in the initial square.
func (e *Engine) seed(g *network.Graph, nearNeighbors bool) map[string]positions.Position {
	out := make(map[string]positions.Position, g.NodeCount())
	var pending []string

	for _, id := range g.IDs() {
		if p, ok := e.cache.Get(id); ok {
			out[id] = p
			continue
		}
		pending = append(pending, id)
	}

	for _, id := range pending {
		if nearNeighbors {
			if p, ok := e.neighborCentroid(g, id); ok {
				out[id] = p
				continue
			}
		}
		out[id] = e.randomPosition()
	}
	return out
}

func (e *Engine) neighborCentroid(g *network.Graph, id string) (positions.Position, bool) {
	var sx, sy float64
	var k int
	for _, nb := range g.Neighbors(id) {
		if p, ok := e.cache.Get(nb); ok {
			sx += p.X
			sy += p.Y
			k++
		}
	}
	if k == 0 {
		return positions.Position{}, false
	}
	return positions.Position{
		X: sx/float64(k) + (e.rng.Float64()*2-1)*neighborJitter,
		Y: sy/float64(k) + (e.rng.Float64()*2-1)*neighborJitter,
	}, true
}
