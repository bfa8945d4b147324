package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/graphscope/pkg/interaction"
)

// pointsPerUnit converts layout units into Graphviz points.
const pointsPerUnit = 4.0

// Sink receives rendered SVG documents.
type Sink func(svg []byte) error

// GraphvizBackend renders frames to SVG with Graphviz. Node positions are
// pinned so neato only routes edges and draws.
type GraphvizBackend struct {
	sink Sink
}

// NewGraphvizBackend returns a backend that hands every SVG to sink.
// A nil sink discards output.
func NewGraphvizBackend(sink Sink) *GraphvizBackend {
	if sink == nil {
		sink = func([]byte) error { return nil }
	}
	return &GraphvizBackend{sink: sink}
}

// Name implements Backend.
func (b *GraphvizBackend) Name() string { return "graphviz" }

// Probe implements Backend by instantiating and closing a Graphviz runtime.
func (b *GraphvizBackend) Probe(ctx context.Context) error {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("init graphviz: %w", err)
	}
	return gv.Close()
}

// Acquire implements Backend.
func (b *GraphvizBackend) Acquire(ctx context.Context, c Container) (Context, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	gv.SetLayout(graphviz.NEATO)
	return &graphvizContext{gv: gv, sink: b.sink}, nil
}

type graphvizContext struct {
	gv   *graphviz.Graphviz
	sink Sink
}

func (c *graphvizContext) Draw(ctx context.Context, f Frame) error {
	svg, err := renderDOT(ctx, c.gv, ToDOT(f))
	if err != nil {
		return err
	}
	return c.sink(svg)
}

func (c *graphvizContext) Release() error {
	return c.gv.Close()
}

// RenderSVG renders a single frame without a session.
func RenderSVG(ctx context.Context, f Frame) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)
	return renderDOT(ctx, gv, ToDOT(f))
}

func renderDOT(ctx context.Context, gv *graphviz.Graphviz, dot string) ([]byte, error) {
	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// ToDOT converts a frame to Graphviz DOT. Hidden nodes and edges are omitted,
// lower z-index elements are written first, and every node carries a pinned
// pos attribute. Labels are shown for force-labeled nodes only.
func ToDOT(f Frame) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, fontsize=10, fontname=\"Helvetica\", label=\"\"];\n")
	buf.WriteString("  edge [fontsize=8];\n")
	buf.WriteString("\n")

	visible := make(map[string]bool, len(f.Nodes))
	nodes := make([]FrameNode, 0, len(f.Nodes))
	for _, n := range f.Nodes {
		if !n.Hidden {
			nodes = append(nodes, n)
			visible[n.ID] = true
		}
	}
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].ZIndex < nodes[j].ZIndex })

	for _, n := range nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n), ", "))
	}

	buf.WriteString("\n")
	edges := make([]FrameEdge, 0, len(f.Edges))
	for _, e := range f.Edges {
		if !e.Hidden && visible[e.Source] && visible[e.Target] {
			edges = append(edges, e)
		}
	}
	sort.SliceStable(edges, func(i, j int) bool { return edges[i].ZIndex < edges[j].ZIndex })

	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", e.Source, e.Target, strings.Join(edgeAttrs(e), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n FrameNode) []string {
	// Node size is a radius in layout units; Graphviz widths are inches.
	diameter := 2 * n.Size * pointsPerUnit / 72
	attrs := []string{
		fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(n.X*pointsPerUnit), fmtFloat(n.Y*pointsPerUnit)),
		fmt.Sprintf("width=%s", fmtFloat(diameter)),
		fmt.Sprintf("fillcolor=%q", dotColor(n.Color, n.Alpha)),
		fmt.Sprintf("color=%q", dotColor(n.BorderColor, n.BorderAlpha)),
	}
	if n.ForceLabel {
		attrs = append(attrs, fmt.Sprintf("xlabel=%q", n.Label))
	}
	return attrs
}

func edgeAttrs(e FrameEdge) []string {
	attrs := []string{
		fmt.Sprintf("penwidth=%s", fmtFloat(e.Size)),
		fmt.Sprintf("color=%q", dotColor(e.Color, e.Alpha)),
	}
	if e.ForceLabel && e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	return attrs
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// dotColor applies alpha to color. An empty color is black; alpha 0 is
// treated as opaque so zero-valued frames still draw.
func dotColor(color string, alpha float64) string {
	if color == "" {
		color = "#000000"
	}
	if alpha <= 0 {
		return color
	}
	return interaction.WithAlpha(color, alpha)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
