package camera

import (
	"fmt"
	"math"
	"time"

	"github.com/matzehuels/graphscope/pkg/network"
	"github.com/matzehuels/graphscope/pkg/positions"
)

// Zoom ratios.
const (
	FocusNodeRatio     = 0.3
	MinSelectionRatio  = 0.1
	MaxSelectionRatio  = 0.8
	FallbackRatio      = 0.15
	SelectionPadding   = 1.5
	ZoomFactor         = 1.5
	MinRatio           = 0.01
	MaxRatio           = 10.0
	degenerateBoxLimit = 1e-6
)

// Box is an axis-aligned bounding box in normalized coordinates.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the box width.
func (b Box) Width() float64 { return b.MaxX - b.MinX }

// Height returns the box height.
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// Center returns the box center.
func (b Box) Center() (float64, float64) {
	return (b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2
}

// Contains reports whether p lies inside the box (inclusive).
func (b Box) Contains(p positions.Position) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Controller computes camera moves for one graph. It is not safe for
// concurrent use; the engine serializes access.
type Controller struct {
	now      func() time.Time
	graph    *network.Graph
	norm     map[string]positions.Position
	current  Animation
	duration time.Duration
}

// New creates a controller in the Default state. A nil now uses time.Now.
func New(now func() time.Time) *Controller {
	if now == nil {
		now = time.Now
	}
	return &Controller{
		now:      now,
		current:  Animation{From: Default, To: Default},
		duration: Duration,
	}
}

// SetGraph replaces the graph and positions the controller works on.
// Positions are normalized to their bounding box.
func (c *Controller) SetGraph(g *network.Graph, pos map[string]positions.Position) {
	c.graph = g
	c.norm = Normalize(pos)
}

// Normalized returns the normalized position of id.
func (c *Controller) Normalized(id string) (positions.Position, bool) {
	p, ok := c.norm[id]
	return p, ok
}

// State returns the camera state at the current time.
func (c *Controller) State() State {
	return c.current.At(c.now())
}

// Target returns the state the camera is moving to.
func (c *Controller) Target() State { return c.current.To }

// Animation returns the active (or last) animation.
func (c *Controller) Animation() Animation { return c.current }

func (c *Controller) animateTo(to State) Animation {
	now := c.now()
	c.current = Animation{From: c.current.At(now), To: to, Start: now, Duration: c.duration}
	return c.current
}

// Reset animates to the fit-all view.
func (c *Controller) Reset() Animation {
	return c.animateTo(Default)
}

// Jump moves to s without animating.
func (c *Controller) Jump(s State) {
	c.current = Animation{From: s, To: s, Start: c.now()}
}

// ZoomIn divides the ratio by ZoomFactor.
func (c *Controller) ZoomIn() Animation {
	to := c.current.To
	to.Ratio = clampRatio(to.Ratio / ZoomFactor)
	return c.animateTo(to)
}

// ZoomOut multiplies the ratio by ZoomFactor.
func (c *Controller) ZoomOut() Animation {
	to := c.current.To
	to.Ratio = clampRatio(to.Ratio * ZoomFactor)
	return c.animateTo(to)
}

// FocusNode centers the camera on id at FocusNodeRatio.
func (c *Controller) FocusNode(id string) (Animation, error) {
	p, ok := c.norm[id]
	if !ok {
		return Animation{}, fmt.Errorf("focus %q: %w", id, network.ErrUnknownNode)
	}
	return c.animateTo(State{X: p.X, Y: p.Y, Ratio: FocusNodeRatio}), nil
}

// FocusOnSelection fits the camera to id and its neighbors. It returns the
// bounding box used for the fit.
func (c *Controller) FocusOnSelection(id string) (Animation, Box, error) {
	target, box, err := c.SelectionView(id)
	if err != nil {
		return Animation{}, Box{}, err
	}
	return c.animateTo(target), box, nil
}

// SelectionView computes the FocusOnSelection target without animating.
func (c *Controller) SelectionView(id string) (State, Box, error) {
	p, ok := c.norm[id]
	if !ok || c.graph == nil {
		return State{}, Box{}, fmt.Errorf("focus selection %q: %w", id, network.ErrUnknownNode)
	}

	box := Box{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
	for _, nb := range c.graph.Neighbors(id) {
		q, ok := c.norm[nb]
		if !ok {
			continue
		}
		box.MinX = math.Min(box.MinX, q.X)
		box.MinY = math.Min(box.MinY, q.Y)
		box.MaxX = math.Max(box.MaxX, q.X)
		box.MaxY = math.Max(box.MaxY, q.Y)
	}

	x, y := box.Center()
	return State{X: x, Y: y, Ratio: SelectionRatio(box)}, box, nil
}

// SelectionRatio returns clamp(max(w, h) * 1.5, 0.1, 0.8), or FallbackRatio
// when the box is degenerate.
func SelectionRatio(b Box) float64 {
	dim := math.Max(b.Width(), b.Height())
	if dim < degenerateBoxLimit {
		return FallbackRatio
	}
	return math.Max(MinSelectionRatio, math.Min(MaxSelectionRatio, dim*SelectionPadding))
}

// Normalize maps positions into the unit square: the bounding box is centered
// on (0.5, 0.5) and scaled by its larger side. A single point (or all points
// coincident) maps to the center.
func Normalize(pos map[string]positions.Position) map[string]positions.Position {
	out := make(map[string]positions.Position, len(pos))
	if len(pos) == 0 {
		return out
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pos {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	size := math.Max(maxX-minX, maxY-minY)
	if size == 0 {
		size = 1
	}
	for id, p := range pos {
		out[id] = positions.Position{
			X: 0.5 + (p.X-cx)/size,
			Y: 0.5 + (p.Y-cy)/size,
		}
	}
	return out
}

func clampRatio(r float64) float64 {
	return math.Max(MinRatio, math.Min(MaxRatio, r))
}
