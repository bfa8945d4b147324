package engine

import (
	"strconv"

	"github.com/matzehuels/graphscope/pkg/graph"
	"github.com/matzehuels/graphscope/pkg/interaction"
	"github.com/matzehuels/graphscope/pkg/layout"
	"github.com/matzehuels/graphscope/pkg/network"
	"github.com/matzehuels/graphscope/pkg/render"
)

// Stats summarizes the current build.
type Stats struct {
	Nodes      int
	Edges      int
	Dropped    int
	Layout     string
	Strategy   layout.Strategy
	Iterations int
	HitRatio   float64
	Rebuilds   int
	Mode       interaction.Mode
	Session    render.State
	Frames     int
	Cached     int
}

// Stats returns a summary of the current build.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Stats{
		Layout:     e.props.LayoutType,
		Strategy:   e.result.Strategy,
		Iterations: e.result.Iterations,
		HitRatio:   e.result.HitRatio,
		Rebuilds:   e.rebuilds,
		Mode:       e.machine.Mode(),
		Session:    e.session.State(),
		Frames:     e.session.Frames(),
		Cached:     e.cache.Len(),
	}
	if e.graph != nil {
		s.Nodes = e.graph.NodeCount()
		s.Edges = e.graph.EdgeCount()
		s.Dropped = len(e.graph.Dropped())
	}
	return s
}

// State returns the interaction state.
func (e *Engine) State() interaction.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.State()
}

// Graph returns the current graph model, nil before the first build.
func (e *Engine) Graph() *network.Graph {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph
}

// Camera returns the camera state at the current time.
func (e *Engine) Camera() render.Camera {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := e.camera.State()
	return render.Camera{X: c.X, Y: c.Y, Ratio: c.Ratio}
}

// Session returns the render session.
func (e *Engine) Session() *render.Session { return e.session }

// Frame computes the frame the engine would draw now. It reports false
// before the first build.
func (e *Engine) Frame() (render.Frame, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.graph == nil {
		return render.Frame{}, false
	}
	return e.frameLocked(), true
}

func (e *Engine) frameLocked() render.Frame {
	st := e.machine.State()
	nodes := interaction.ReduceNodes(st, e.graph, e.base)
	edges := interaction.ReduceEdges(st, e.graph, e.edges)

	f := render.Frame{
		Nodes: make([]render.FrameNode, 0, e.graph.NodeCount()),
		Edges: make([]render.FrameEdge, 0, len(edges)),
	}
	if e.container != nil {
		f.Width, f.Height = e.container.Width(), e.container.Height()
	}
	cs := e.camera.State()
	f.Camera = render.Camera{X: cs.X, Y: cs.Y, Ratio: cs.Ratio}

	for _, id := range e.graph.IDs() {
		a := nodes[id]
		p := e.result.Positions[id]
		f.Nodes = append(f.Nodes, render.FrameNode{
			ID:          id,
			Label:       a.Label,
			X:           p.X,
			Y:           p.Y,
			Size:        a.Size,
			Color:       a.Color,
			Alpha:       a.Alpha,
			BorderColor: a.BorderColor,
			BorderAlpha: a.BorderAlpha,
			ForceLabel:  a.ForceLabel,
			Hidden:      a.Hidden,
			ZIndex:      a.ZIndex,
		})
	}
	for i, ge := range e.graph.Edges() {
		a := edges[i]
		f.Edges = append(f.Edges, render.FrameEdge{
			Source:     ge.Source,
			Target:     ge.Target,
			Size:       a.Size,
			Color:      a.Color,
			Alpha:      a.Alpha,
			Hidden:     a.Hidden,
			ForceLabel: a.ForceLabel,
			Label:      strconv.FormatFloat(ge.Weight, 'g', -1, 64),
			ZIndex:     a.ZIndex,
		})
	}
	return f
}

// Layout exports the current frame in the layout serialization format.
func (e *Engine) Layout() graph.Layout {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := e.machine.State()
	l := graph.Layout{
		LayoutType: e.props.LayoutType,
		SelectedID: st.SelectedID,
		FocusMode:  st.Focused(),
		Nodes:      []graph.PlacedNode{},
	}
	if e.graph == nil {
		return l
	}

	f := e.frameLocked()
	l.Width, l.Height = extent(f)
	l.Camera = &graph.CameraState{X: f.Camera.X, Y: f.Camera.Y, Ratio: f.Camera.Ratio}
	for _, n := range f.Nodes {
		src, _ := e.graph.Node(n.ID)
		l.Nodes = append(l.Nodes, graph.PlacedNode{
			ID:         n.ID,
			Label:      n.Label,
			Type:       src.Type,
			X:          n.X,
			Y:          n.Y,
			Size:       n.Size,
			Color:      n.Color,
			Hidden:     n.Hidden,
			ForceLabel: n.ForceLabel,
			ZIndex:     n.ZIndex,
		})
	}
	for _, ed := range f.Edges {
		l.Edges = append(l.Edges, graph.StyledEdge{
			Source:     ed.Source,
			Target:     ed.Target,
			Size:       ed.Size,
			Color:      ed.Color,
			Hidden:     ed.Hidden,
			ForceLabel: ed.ForceLabel,
		})
	}
	l.Stats = map[string]int{
		"nodes":      e.graph.NodeCount(),
		"edges":      e.graph.EdgeCount(),
		"dropped":    len(e.graph.Dropped()),
		"iterations": e.result.Iterations,
		"rebuilds":   e.rebuilds,
	}
	return l
}

// extent returns the width and height of the node bounding box.
func extent(f render.Frame) (float64, float64) {
	if len(f.Nodes) == 0 {
		return 0, 0
	}
	minX, maxX := f.Nodes[0].X, f.Nodes[0].X
	minY, maxY := f.Nodes[0].Y, f.Nodes[0].Y
	for _, n := range f.Nodes[1:] {
		minX, maxX = min(minX, n.X), max(maxX, n.X)
		minY, maxY = min(minY, n.Y), max(maxY, n.Y)
	}
	return maxX - minX, maxY - minY
}
