package interaction

import (
	"github.com/matzehuels/graphscope/pkg/network"
)

// NodeAttrs are the visual attributes of one node.
type NodeAttrs struct {
	Label       string
	Size        float64
	Color       string
	Alpha       float64
	BorderColor string
	BorderAlpha float64
	ForceLabel  bool
	Hidden      bool
	ZIndex      int
}

// EdgeAttrs are the visual attributes of one edge.
type EdgeAttrs struct {
	Size       float64
	Color      string
	Alpha      float64
	Hidden     bool
	ForceLabel bool
	ZIndex     int
}

// Reducer scale factors and opacities.
const (
	HoverScale         = 1.3
	HoverNeighborScale = 1.1
	HoverDimAlpha      = 0.3
	HoverBorderAlpha   = 0.2

	SelectScale         = 1.5
	SelectNeighborScale = 1.05
	SelectOtherScale    = 0.75
	SelectDimAlpha      = 0.25

	EdgeHoverScale  = 2.0
	EdgeSelectScale = 2.5
)

// BaseNodes returns the un-reduced attributes of every node.
func BaseNodes(g *network.Graph, sizeBy string, p Palette) map[string]NodeAttrs {
	sizes := Sizes(g, sizeBy)
	out := make(map[string]NodeAttrs, g.NodeCount())
	for _, n := range g.Nodes() {
		out[n.ID] = NodeAttrs{
			Label:       n.DisplayLabel(),
			Size:        sizes[n.ID],
			Color:       p.Color(n.Type),
			Alpha:       1,
			BorderColor: BorderColor,
			BorderAlpha: 1,
		}
	}
	return out
}

// BaseEdges returns the un-reduced attributes of every edge, indexed like
// g.Edges(). Edges without a normalized weight are scaled by the graph's
// largest weight.
func BaseEdges(g *network.Graph) []EdgeAttrs {
	edges := g.Edges()
	top := g.MaxWeight()
	out := make([]EdgeAttrs, len(edges))
	for i, e := range edges {
		norm := e.WeightNorm
		if norm == 0 && e.Weight > 0 && top > 0 {
			norm = e.Weight / top
		}
		out[i] = EdgeAttrs{Size: EdgeSize(norm), Color: EdgeColor, Alpha: 1}
	}
	return out
}

// ReduceNode derives the attributes of node id under s.
func ReduceNode(s State, g *network.Graph, id string, base NodeAttrs) NodeAttrs {
	a := base
	switch s.Mode() {
	case Hovering:
		switch {
		case id == s.HoveredID:
			a.Size *= HoverScale
			a.ForceLabel = true
			a.ZIndex = 2
		case g.IsNeighbor(s.HoveredID, id):
			a.Size *= HoverNeighborScale
			a.ZIndex = 1
		default:
			a.Alpha = HoverDimAlpha
			a.BorderAlpha = HoverBorderAlpha
		}

	case Selected:
		switch {
		case id == s.SelectedID:
			a.Size *= SelectScale
			a.BorderColor = AccentColor
			a.ForceLabel = true
			a.ZIndex = 2
		case g.IsNeighbor(s.SelectedID, id):
			a.Size *= SelectNeighborScale
			a.ForceLabel = true
			a.ZIndex = 1
		default:
			a.Size *= SelectOtherScale
			a.Alpha = SelectDimAlpha
			a.BorderAlpha = SelectDimAlpha
		}

	case SelectedFocused:
		if id == s.SelectedID {
			a.Size *= SelectScale
			a.BorderColor = AccentColor
			a.ZIndex = 2
		}
		a.ForceLabel = true
	}
	return a
}

// ReduceNodes applies ReduceNode to every entry of base.
func ReduceNodes(s State, g *network.Graph, base map[string]NodeAttrs) map[string]NodeAttrs {
	out := make(map[string]NodeAttrs, len(base))
	for id, a := range base {
		out[id] = ReduceNode(s, g, id, a)
	}
	return out
}

// ReduceEdge derives the attributes of e under s. Edges touching the selected
// node win over edges touching the hovered node.
func ReduceEdge(s State, e network.Edge, base EdgeAttrs) EdgeAttrs {
	a := base
	switch mode := s.Mode(); {
	case mode == Selected || mode == SelectedFocused:
		switch {
		case e.Touches(s.SelectedID):
			a.Size *= EdgeSelectScale
			a.Color = AccentColor
			a.ForceLabel = true
			a.ZIndex = 1
		case mode == Selected:
			a.Hidden = true
		}

	case mode == Hovering:
		if e.Touches(s.HoveredID) {
			a.Size *= EdgeHoverScale
			a.Color = AccentColor
			a.ForceLabel = true
			a.ZIndex = 1
		} else {
			a.Alpha = HoverDimAlpha
		}
	}
	return a
}

// ReduceEdges applies ReduceEdge to every edge of g. base is indexed like
// g.Edges().
func ReduceEdges(s State, g *network.Graph, base []EdgeAttrs) []EdgeAttrs {
	edges := g.Edges()
	out := make([]EdgeAttrs, len(base))
	for i, a := range base {
		out[i] = ReduceEdge(s, edges[i], a)
	}
	return out
}
