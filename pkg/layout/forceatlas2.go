package layout

import (
	"math"

	"github.com/matzehuels/graphscope/pkg/network"
	"github.com/matzehuels/graphscope/pkg/positions"
)

// ForceSettings configures a force-directed solve.
type ForceSettings struct {
	Gravity             float64
	ScalingRatio        float64
	BarnesHut           bool
	Theta               float64
	LinLog              bool
	EdgeWeightInfluence float64
	SlowDown            float64
	Iterations          int
}

// DefaultForceSettings returns the engine defaults for a graph of n nodes.
// Iterations is left at 0; the caller picks the budget.
func DefaultForceSettings(n int) ForceSettings {
	s := ForceSettings{
		Gravity:             0.3,
		ScalingRatio:        40,
		BarnesHut:           n > 30,
		Theta:               0.6,
		LinLog:              true,
		EdgeWeightInfluence: 0.5,
		SlowDown:            1,
	}
	if n > 100 {
		s.ScalingRatio = 80
	}
	return s
}

// Solver runs an iterative force simulation.
type Solver interface {
	// Solve returns new positions for every node of g, starting from init.
	// init must contain every node of g.
	Solve(g *network.Graph, init map[string]positions.Position, s ForceSettings) map[string]positions.Position
}

// ForceAtlas2 is the default Solver: a ForceAtlas2 simulation with adaptive
// global speed, optional Barnes-Hut repulsion and lin-log attraction.
type ForceAtlas2 struct{}

type body struct {
	x, y         float64
	dx, dy       float64
	oldDx, oldDy float64
	mass         float64
}

type spring struct {
	a, b   int
	weight float64
}

type speedState struct {
	speed           float64
	speedEfficiency float64
}

const (
	jitterTolerance    = 1.0
	maxJitterTolerance = 10.0
	minSpeedEfficiency = 0.05
	maxSpeedRise       = 0.5
)

// Solve implements Solver.
func (ForceAtlas2) Solve(g *network.Graph, init map[string]positions.Position, s ForceSettings) map[string]positions.Position {
	ids := g.IDs()
	index := make(map[string]int, len(ids))
	bodies := make([]body, len(ids))
	for i, id := range ids {
		index[id] = i
		p := init[id]
		bodies[i] = body{x: p.X, y: p.Y, mass: 1 + float64(g.Degree(id))}
	}

	var springs []spring
	for _, e := range g.Edges() {
		if e.Source == e.Target {
			continue
		}
		w := e.Weight
		if w <= 0 {
			w = 1
		}
		springs = append(springs, spring{
			a:      index[e.Source],
			b:      index[e.Target],
			weight: math.Pow(w, s.EdgeWeightInfluence),
		})
	}

	if s.SlowDown <= 0 {
		s.SlowDown = 1
	}
	st := speedState{speed: 1, speedEfficiency: 1}
	for range s.Iterations {
		step(bodies, springs, s, &st)
	}

	out := make(map[string]positions.Position, len(ids))
	for i, id := range ids {
		out[id] = positions.Position{X: bodies[i].x, Y: bodies[i].y}
	}
	return out
}

func step(b []body, springs []spring, s ForceSettings, st *speedState) {
	for i := range b {
		b[i].oldDx, b[i].oldDy = b[i].dx, b[i].dy
		b[i].dx, b[i].dy = 0, 0
	}

	if s.BarnesHut {
		tree := buildQuadTree(b)
		for i := range b {
			tree.repel(b, i, s.Theta, s.ScalingRatio)
		}
	} else {
		for i := range b {
			for j := i + 1; j < len(b); j++ {
				repelPair(&b[i], &b[j], s.ScalingRatio)
			}
		}
	}

	for i := range b {
		d := math.Hypot(b[i].x, b[i].y)
		if d > 0 {
			f := s.Gravity * b[i].mass / d
			b[i].dx -= b[i].x * f
			b[i].dy -= b[i].y * f
		}
	}

	for _, sp := range springs {
		a, c := &b[sp.a], &b[sp.b]
		dx, dy := a.x-c.x, a.y-c.y
		var f float64
		if s.LinLog {
			d := math.Hypot(dx, dy)
			if d > 0 {
				f = -sp.weight * math.Log(1+d) / d
			}
		} else {
			f = -sp.weight
		}
		a.dx += dx * f
		a.dy += dy * f
		c.dx -= dx * f
		c.dy -= dy * f
	}

	adjustSpeed(b, st)

	for i := range b {
		swinging := b[i].mass * math.Hypot(b[i].oldDx-b[i].dx, b[i].oldDy-b[i].dy)
		factor := st.speed / (1 + math.Sqrt(st.speed*swinging))
		b[i].x += b[i].dx * factor / s.SlowDown
		b[i].y += b[i].dy * factor / s.SlowDown
	}
}

func repelPair(a, c *body, k float64) {
	dx, dy := a.x-c.x, a.y-c.y
	d2 := dx*dx + dy*dy
	if d2 == 0 {
		return
	}
	f := k * a.mass * c.mass / d2
	a.dx += dx * f
	a.dy += dy * f
	c.dx -= dx * f
	c.dy -= dy * f
}

// adjustSpeed updates the global speed from swinging (oscillation) and
// traction (useful movement), following Gephi's ForceAtlas2.
func adjustSpeed(b []body, st *speedState) {
	var swinging, traction float64
	for i := range b {
		swinging += b[i].mass * math.Hypot(b[i].oldDx-b[i].dx, b[i].oldDy-b[i].dy)
		traction += 0.5 * b[i].mass * math.Hypot(b[i].oldDx+b[i].dx, b[i].oldDy+b[i].dy)
	}
	if swinging == 0 || math.IsNaN(swinging) {
		return
	}

	n := float64(len(b))
	estimated := 0.05 * math.Sqrt(n)
	minJT := math.Sqrt(estimated)
	jt := jitterTolerance * math.Max(minJT, math.Min(maxJitterTolerance, estimated*traction/(n*n)))

	if traction > 0 && swinging/traction > 2 {
		if st.speedEfficiency > minSpeedEfficiency {
			st.speedEfficiency *= 0.5
		}
		jt = math.Max(jt, jitterTolerance)
	}

	target := jt * st.speedEfficiency * traction / swinging

	if swinging > jt*traction {
		if st.speedEfficiency > minSpeedEfficiency {
			st.speedEfficiency *= 0.7
		}
	} else if st.speed < 1000 {
		st.speedEfficiency *= 1.3
	}

	st.speed += math.Min(target-st.speed, maxSpeedRise*st.speed)
}
