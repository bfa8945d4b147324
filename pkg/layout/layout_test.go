package layout

import (
	"fmt"
	"math"
	"testing"

	"github.com/matzehuels/graphscope/pkg/graph"
	"github.com/matzehuels/graphscope/pkg/network"
	"github.com/matzehuels/graphscope/pkg/positions"
)

// countingSolver records calls and delegates to ForceAtlas2.
type countingSolver struct {
	calls      int
	iterations int
	last       ForceSettings
}

func (c *countingSolver) Solve(g *network.Graph, init map[string]positions.Position, s ForceSettings) map[string]positions.Position {
	c.calls++
	c.iterations += s.Iterations
	c.last = s
	return ForceAtlas2{}.Solve(g, init, s)
}

func build(t *testing.T, nodes []graph.Node, edges []graph.Edge) *network.Graph {
	t.Helper()
	g, err := network.Build(nodes, edges)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func chain(t *testing.T, n int) *network.Graph {
	t.Helper()
	nodes := make([]graph.Node, n)
	var edges []graph.Edge
	for i := range n {
		nodes[i] = graph.Node{ID: fmt.Sprintf("n%d", i), Type: graph.EntityPerson}
		if i > 0 {
			edges = append(edges, graph.Edge{Source: fmt.Sprintf("n%d", i-1), Target: fmt.Sprintf("n%d", i), Weight: 1})
		}
	}
	return build(t, nodes, edges)
}

func star(t *testing.T, k int) *network.Graph {
	t.Helper()
	nodes := []graph.Node{{ID: "c"}}
	var edges []graph.Edge
	for i := range k {
		id := fmt.Sprintf("s%d", i)
		nodes = append(nodes, graph.Node{ID: id})
		edges = append(edges, graph.Edge{Source: "c", Target: id, Weight: 1})
	}
	return build(t, nodes, edges)
}

func TestFullIterations(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{2, 80},
		{40, 80},
		{60, 60},
		{90, 30},
		{500, 30},
	}
	for _, tt := range tests {
		if got := FullIterations(tt.n); got != tt.want {
			t.Errorf("FullIterations(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestDefaultForceSettings(t *testing.T) {
	tests := []struct {
		n         int
		scaling   float64
		barnesHut bool
	}{
		{10, 40, false},
		{31, 40, true},
		{101, 80, true},
	}
	for _, tt := range tests {
		s := DefaultForceSettings(tt.n)
		if s.ScalingRatio != tt.scaling || s.BarnesHut != tt.barnesHut {
			t.Errorf("n=%d: scaling=%v barnesHut=%v, want %v %v", tt.n, s.ScalingRatio, s.BarnesHut, tt.scaling, tt.barnesHut)
		}
		if s.Gravity != 0.3 || s.Theta != 0.6 || !s.LinLog || s.EdgeWeightInfluence != 0.5 {
			t.Errorf("n=%d: unexpected constants %+v", tt.n, s)
		}
	}
}

func TestForceFullSolveWritesCache(t *testing.T) {
	g := chain(t, 20)
	solver := &countingSolver{}
	cache := positions.NewCache()
	eng := New(cache, WithSeed(1), WithSolver(solver))

	res := eng.Force(g)
	if res.Strategy != StrategyFull {
		t.Fatalf("Strategy = %s, want full", res.Strategy)
	}
	if solver.calls != 1 || solver.iterations != 80 {
		t.Errorf("solver calls=%d iterations=%d, want 1 and 80", solver.calls, solver.iterations)
	}
	if cache.Len() != 20 {
		t.Errorf("cache.Len() = %d, want 20", cache.Len())
	}
	for _, id := range g.IDs() {
		p, ok := res.Positions[id]
		if !ok {
			t.Fatalf("missing position for %s", id)
		}
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			t.Errorf("position for %s is not finite: %+v", id, p)
		}
	}
}

func TestForceCacheReuseRunsZeroIterations(t *testing.T) {
	g := chain(t, 10)
	cache := positions.NewCache()
	for i := range 9 {
		cache.Set(fmt.Sprintf("n%d", i), positions.Position{X: float64(i), Y: 1})
	}
	solver := &countingSolver{}
	eng := New(cache, WithSeed(1), WithSolver(solver))

	res := eng.Force(g)
	if solver.calls != 0 {
		t.Errorf("solver calls = %d, want 0", solver.calls)
	}
	if res.Strategy != StrategyCache || res.Iterations != 0 {
		t.Errorf("Strategy=%s Iterations=%d, want cache and 0", res.Strategy, res.Iterations)
	}
	if got := res.Positions["n3"]; got != (positions.Position{X: 3, Y: 1}) {
		t.Errorf("n3 = %+v, want cached {3 1}", got)
	}
	// n9's only neighbor is n8 at (8, 1).
	p := res.Positions["n9"]
	if math.Abs(p.X-8) > neighborJitter || math.Abs(p.Y-1) > neighborJitter {
		t.Errorf("n9 = %+v, want near (8, 1)", p)
	}
	if _, ok := cache.Get("n9"); !ok {
		t.Error("n9 not committed to cache")
	}
}

func TestForceShortSolve(t *testing.T) {
	g := chain(t, 10)
	cache := positions.NewCache()
	for i := range 6 {
		cache.Set(fmt.Sprintf("n%d", i), positions.Position{X: float64(i * 10), Y: 0})
	}
	solver := &countingSolver{}
	eng := New(cache, WithSeed(1), WithSolver(solver))

	res := eng.Force(g)
	if res.Strategy != StrategyShort {
		t.Fatalf("Strategy = %s, want short", res.Strategy)
	}
	if solver.iterations > ShortIterations {
		t.Errorf("iterations = %d, want <= %d", solver.iterations, ShortIterations)
	}
	if solver.last.SlowDown <= 1 {
		t.Errorf("SlowDown = %v, want heavier damping than 1", solver.last.SlowDown)
	}
}

func TestForceDegenerate(t *testing.T) {
	eng := New(nil, WithSeed(1))

	empty := build(t, nil, nil)
	if res := eng.Force(empty); len(res.Positions) != 0 {
		t.Errorf("empty graph: %d positions, want 0", len(res.Positions))
	}

	single := build(t, []graph.Node{{ID: "only"}}, nil)
	res := eng.Force(single)
	if res.Positions["only"] != (positions.Position{}) {
		t.Errorf("single node at %+v, want origin", res.Positions["only"])
	}
}

func TestForceBarnesHutStaysFinite(t *testing.T) {
	g := chain(t, 60)
	eng := New(nil, WithSeed(7))
	res := eng.Force(g)
	for id, p := range res.Positions {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			t.Fatalf("%s is NaN", id)
		}
	}
}

func TestSeedIsReproducible(t *testing.T) {
	g := chain(t, 15)
	a := New(nil, WithSeed(3)).Force(g)
	b := New(nil, WithSeed(3)).Force(g)
	for _, id := range g.IDs() {
		if a.Positions[id] != b.Positions[id] {
			t.Errorf("%s: %+v != %+v", id, a.Positions[id], b.Positions[id])
		}
	}
}

func TestCircularDeterministic(t *testing.T) {
	nodes := []graph.Node{
		{ID: "p1", Type: graph.EntityPerson},
		{ID: "w1", Type: graph.EntityWork},
		{ID: "p2", Type: graph.EntityPerson},
		{ID: "x", Type: "unknown"},
	}
	g := build(t, nodes, []graph.Edge{{Source: "p1", Target: "w1", Weight: 1}})

	a, b := Circular(g), Circular(g)
	for id, p := range a.Positions {
		if b.Positions[id] != p {
			t.Errorf("%s: %+v != %+v", id, p, b.Positions[id])
		}
	}

	// Persons first (p1, p2), then works, then unknown.
	r := CircleRadius(4)
	if r != 50 {
		t.Fatalf("radius = %v, want 50", r)
	}
	want := map[string]float64{"p1": 0, "p2": math.Pi / 2, "w1": math.Pi, "x": 3 * math.Pi / 2}
	for id, angle := range want {
		p := a.Positions[id]
		if math.Abs(p.X-r*math.Cos(angle)) > 1e-9 || math.Abs(p.Y-r*math.Sin(angle)) > 1e-9 {
			t.Errorf("%s = %+v, want angle %v", id, p, angle)
		}
	}
}

func TestCircularDoesNotTouchCache(t *testing.T) {
	cache := positions.NewCache()
	eng := New(cache)
	eng.Compute(chain(t, 5), graph.LayoutCircular, "")
	if cache.Len() != 0 {
		t.Errorf("cache.Len() = %d, want 0", cache.Len())
	}
}

func TestCircleRadius(t *testing.T) {
	if CircleRadius(10) != 50 {
		t.Errorf("CircleRadius(10) = %v", CircleRadius(10))
	}
	if CircleRadius(100) != 200 {
		t.Errorf("CircleRadius(100) = %v", CircleRadius(100))
	}
}

func TestRadialStar(t *testing.T) {
	const k = 6
	g := star(t, k)
	res := Radial(g, "c")

	if res.Positions["c"] != (positions.Position{}) {
		t.Errorf("center at %+v, want origin", res.Positions["c"])
	}
	if len(res.Rings[0]) != k {
		t.Fatalf("ring 0 has %d nodes, want %d", len(res.Rings[0]), k)
	}
	for j, id := range res.Rings[0] {
		p := res.Positions[id]
		if d := math.Hypot(p.X, p.Y); math.Abs(d-60) > 1e-9 {
			t.Errorf("%s at distance %v, want 60", id, d)
		}
		want := 2 * math.Pi * float64(j) / k
		got := math.Atan2(p.Y, p.X)
		if got < 0 {
			got += 2 * math.Pi
		}
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("%s angle %v, want %v", id, got, want)
		}
	}
}

func TestRadialRings(t *testing.T) {
	g := build(t,
		[]graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}, {ID: "lonely"}},
		[]graph.Edge{
			{Source: "a", Target: "b", Weight: 1},
			{Source: "b", Target: "c", Weight: 1},
			{Source: "c", Target: "d", Weight: 1},
		})

	res := Radial(g, "a")
	wantRings := [][]string{{"b"}, {"c"}, {"d", "lonely"}}
	for i, want := range wantRings {
		if fmt.Sprint(res.Rings[i]) != fmt.Sprint(want) {
			t.Errorf("ring %d = %v, want %v", i, res.Rings[i], want)
		}
	}
	if d := math.Hypot(res.Positions["d"].X, res.Positions["d"].Y); math.Abs(d-180) > 1e-9 {
		t.Errorf("d at distance %v, want 180", d)
	}
}

func TestRingRadius(t *testing.T) {
	tests := []struct {
		i    int
		want float64
	}{
		{0, 60}, {1, 120}, {2, 180}, {3, 240},
	}
	for _, tt := range tests {
		if got := RingRadius(tt.i); got != tt.want {
			t.Errorf("RingRadius(%d) = %v, want %v", tt.i, got, tt.want)
		}
	}
}

func TestComputeRadialFallsBackToForce(t *testing.T) {
	g := chain(t, 5)
	cache := positions.NewCache()
	eng := New(cache, WithSeed(1))

	res := eng.Compute(g, graph.LayoutRadial, "")
	if res.Strategy != StrategyFallback {
		t.Errorf("Strategy = %s, want %s", res.Strategy, StrategyFallback)
	}
	if cache.Len() != 5 {
		t.Errorf("fallback force pass should commit the cache, Len() = %d", cache.Len())
	}

	res = eng.Compute(g, graph.LayoutRadial, "missing")
	if res.Strategy == StrategyRadial {
		t.Error("radial with unknown selection should fall back")
	}

	cache.Clear()
	res = eng.Compute(g, graph.LayoutRadial, "n2")
	if res.Strategy != StrategyRadial || cache.Len() != 0 {
		t.Errorf("Strategy=%s cache=%d, want radial and untouched cache", res.Strategy, cache.Len())
	}
}
