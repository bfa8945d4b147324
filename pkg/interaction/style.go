package interaction

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/graphscope/pkg/graph"
	"github.com/matzehuels/graphscope/pkg/network"
)

// Node size range.
const (
	MinNodeSize   = 5.0
	NodeSizeRange = 19.0
)

// Colors used by the reducers.
const (
	AccentColor   = "#f59e0b"
	EdgeColor     = "#b8bcc6"
	FallbackColor = "#9ca3af"
	BorderColor   = "#ffffff"
)

// NodeSize maps value onto [5, 24] relative to max. A non-positive max yields 5.
func NodeSize(value, maxValue float64) float64 {
	if maxValue <= 0 {
		return MinNodeSize
	}
	return MinNodeSize + (value/maxValue)*NodeSizeRange
}

// Sizes returns the normalized size of every node of g for the given metric.
func Sizes(g *network.Graph, sizeBy string) map[string]float64 {
	top := g.MaxMetric(sizeBy)
	out := make(map[string]float64, g.NodeCount())
	for _, n := range g.Nodes() {
		out[n.ID] = NodeSize(n.Metric(sizeBy), top)
	}
	return out
}

// EdgeSize maps a normalized weight onto the base edge width.
func EdgeSize(weightNorm float64) float64 {
	return 1 + 3*math.Max(0, math.Min(1, weightNorm))
}

var defaultPalette = map[graph.EntityType]graph.TypeStyle{
	graph.EntityPerson:       {Color: "#4e79a7", Label: "Person"},
	graph.EntityPlace:        {Color: "#59a14f", Label: "Place"},
	graph.EntityOrganization: {Color: "#f28e2b", Label: "Organization"},
	graph.EntityWork:         {Color: "#e15759", Label: "Work"},
	graph.EntityEvent:        {Color: "#b07aa1", Label: "Event"},
	graph.EntityConcept:      {Color: "#76b7b2", Label: "Concept"},
}

// Palette resolves entity type colors: host overrides first, then the
// built-in palette, then FallbackColor.
type Palette struct {
	overrides map[graph.EntityType]graph.TypeStyle
}

// NewPalette creates a palette with optional overrides.
func NewPalette(overrides map[graph.EntityType]graph.TypeStyle) Palette {
	return Palette{overrides: overrides}
}

// Color returns the color for t.
func (p Palette) Color(t graph.EntityType) string {
	if s, ok := p.overrides[t]; ok && s.Color != "" {
		return s.Color
	}
	if s, ok := defaultPalette[t]; ok {
		return s.Color
	}
	return FallbackColor
}

// Label returns the legend label for t.
func (p Palette) Label(t graph.EntityType) string {
	if s, ok := p.overrides[t]; ok && s.Label != "" {
		return s.Label
	}
	if s, ok := defaultPalette[t]; ok {
		return s.Label
	}
	if t == "" {
		return "Other"
	}
	return string(t)
}

// WithAlpha sets the alpha channel of a #rgb, #rrggbb or #rrggbbaa color.
// An existing alpha channel is scaled by alpha. Other inputs are returned
// unchanged. Alpha 1 leaves the color as is.
func WithAlpha(color string, alpha float64) string {
	if alpha >= 1 || !strings.HasPrefix(color, "#") {
		return color
	}
	hex := color[1:]
	base := 1.0
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	case 8:
		aa, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return color
		}
		base = float64(aa) / 255
		hex = hex[:6]
	default:
		return color
	}
	a := int(math.Round(math.Max(0, alpha) * base * 255))
	return fmt.Sprintf("#%s%02x", hex, a)
}
