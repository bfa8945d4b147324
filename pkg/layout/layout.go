package layout

import (
	"math/rand/v2"

	"github.com/matzehuels/graphscope/pkg/graph"
	"github.com/matzehuels/graphscope/pkg/network"
	"github.com/matzehuels/graphscope/pkg/positions"
)

// Strategy names which code path produced a Result.
type Strategy string

// Strategies reported in Result.Strategy.
const (
	StrategyTrivial   Strategy = "trivial"
	StrategyCache     Strategy = "cache"
	StrategyShort     Strategy = "short"
	StrategyFull      Strategy = "full"
	StrategyCircular  Strategy = "circular"
	StrategyRadial    Strategy = "radial"
	StrategyFallback  Strategy = "radial-fallback"
	defaultSquareSide          = 100.0
)

// Force reports whether the strategy ran the force-directed path and wrote
// the position cache.
func (s Strategy) Force() bool {
	switch s {
	case StrategyCache, StrategyShort, StrategyFull, StrategyFallback:
		return true
	}
	return false
}

// Result holds the coordinates of one layout pass.
type Result struct {
	// Positions maps every node ID of the input graph to its coordinate.
	Positions map[string]positions.Position

	// Strategy is the code path that produced the positions.
	Strategy Strategy

	// Iterations is the number of solver iterations run (0 for cache reuse and
	// structured layouts).
	Iterations int

	// HitRatio is the position cache hit ratio observed before a force pass.
	HitRatio float64

	// Rings holds the radial ring membership (ring index -> node IDs in
	// placement order). Nil for other layouts.
	Rings [][]string
}

// Engine computes layouts. It owns no graph state between calls; the position
// cache it writes to belongs to the caller.
type Engine struct {
	cache  *positions.Cache
	solver Solver
	rng    *rand.Rand
	side   float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithSolver replaces the force solver. Tests use this to count solver calls.
func WithSolver(s Solver) Option {
	return func(e *Engine) { e.solver = s }
}

// WithSeed makes initial placement reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithInitialSquare sets the side of the square uncached nodes are seeded in.
func WithInitialSquare(side float64) Option {
	return func(e *Engine) {
		if side > 0 {
			e.side = side
		}
	}
}

// New creates a layout engine writing force results into cache.
// A nil cache gets a private one.
func New(cache *positions.Cache, opts ...Option) *Engine {
	if cache == nil {
		cache = positions.NewCache()
	}
	e := &Engine{
		cache:  cache,
		solver: ForceAtlas2{},
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		side:   defaultSquareSide,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Cache returns the position cache the engine writes to.
func (e *Engine) Cache() *positions.Cache { return e.cache }

// Compute lays out g using the named layout type. Unknown types are treated as
// force. selectedID is only consulted by the radial layout.
func (e *Engine) Compute(g *network.Graph, layoutType, selectedID string) Result {
	switch layoutType {
	case graph.LayoutCircular:
		return Circular(g)
	case graph.LayoutRadial:
		if selectedID != "" && g.HasNode(selectedID) {
			return Radial(g, selectedID)
		}
		res := e.Force(g)
		if res.Strategy != StrategyTrivial {
			res.Strategy = StrategyFallback
		}
		return res
	default:
		return e.Force(g)
	}
}

// randomPosition returns a point uniformly inside the initial square centered
// on the origin.
func (e *Engine) randomPosition() positions.Position {
	half := e.side / 2
	return positions.Position{
		X: e.rng.Float64()*e.side - half,
		Y: e.rng.Float64()*e.side - half,
	}
}
