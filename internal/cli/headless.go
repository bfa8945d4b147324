package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphscope/pkg/engine"
	"github.com/matzehuels/graphscope/pkg/graph"
	"github.com/matzehuels/graphscope/pkg/positions"
	"github.com/matzehuels/graphscope/pkg/render"
)

const (
	defaultWidth  = 800
	defaultHeight = 600
)

// viewFlags are the engine props shared by layout, render and explore.
// Empty values fall back to the [engine] section of the config.
type viewFlags struct {
	layout   string
	sizeBy   string
	selected string
	focus    bool
	width    float64
	height   float64
	dataset  string
	noCache  bool
}

func addViewFlags(cmd *cobra.Command, f *viewFlags) {
	cmd.Flags().StringVarP(&f.layout, "layout", "l", "", "layout type: force, circular, radial (default from config)")
	cmd.Flags().StringVar(&f.sizeBy, "size-by", "", "node size metric: count, degree, strength (default from config)")
	cmd.Flags().StringVar(&f.selected, "select", "", "node id to select")
	cmd.Flags().BoolVar(&f.focus, "focus", false, "show only the selection and its direct neighbors")
	cmd.Flags().Float64Var(&f.width, "width", defaultWidth, "frame width")
	cmd.Flags().Float64Var(&f.height, "height", defaultHeight, "frame height")
	cmd.Flags().StringVar(&f.dataset, "dataset", "", "snapshot key for cached positions (default: input file name)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "do not read or write position snapshots")
}

// props merges g, the flags and the config into engine props.
func (c *CLI) props(g graph.Graph, f viewFlags) engine.Props {
	p := engine.Props{
		Nodes:            g.Nodes,
		Edges:            g.Edges,
		SelectedNodeID:   f.selected,
		NodeSizeBy:       f.sizeBy,
		LayoutType:       f.layout,
		FocusMode:        f.focus,
		EntityTypeColors: c.config.EntityColors(),
	}
	if p.LayoutType == "" {
		p.LayoutType = c.config.Engine.Layout
	}
	if p.NodeSizeBy == "" {
		p.NodeSizeBy = c.config.Engine.NodeSizeBy
	}
	return p
}

// datasetName defaults the snapshot key to the input's base name.
func datasetName(input, flag string) string {
	if flag != "" {
		return flag
	}
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// =============================================================================
// Headless Engine
// =============================================================================

// headless is an engine mounted on a fixed-size container, plus the last SVG
// its backend drew. props holds the full graph; in focus mode the engine
// shows only the selection's ego network.
type headless struct {
	eng   *engine.Engine
	store positions.Store
	props engine.Props

	mu  sync.Mutex
	svg []byte
}

func (h *headless) setSVG(svg []byte) error {
	h.mu.Lock()
	h.svg = svg
	h.mu.Unlock()
	return nil
}

// SVG returns the last drawn frame, rendering the current one if the backend
// never reported any.
func (h *headless) SVG(ctx context.Context) ([]byte, error) {
	h.mu.Lock()
	svg := h.svg
	h.mu.Unlock()
	if svg != nil {
		return svg, nil
	}
	f, ok := h.eng.Frame()
	if !ok {
		return nil, fmt.Errorf("no frame to render")
	}
	return render.RenderSVG(ctx, f)
}

// refocus shows the selection's ego network while focus mode is on and the
// full graph otherwise.
func (h *headless) refocus() error {
	_, err := h.eng.ApplyFocus(h.props)
	return err
}

// Close unmounts the engine, which persists its snapshot, then closes the store.
func (h *headless) Close() error {
	h.eng.Unmount()
	return h.store.Close()
}

// mountHeadless reads input and builds it on a headless engine. hooks may
// add callbacks before the engine is created.
func (c *CLI) mountHeadless(ctx context.Context, input string, f viewFlags, hooks func(*engine.Options)) (*headless, error) {
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return nil, fmt.Errorf("load graph %s: %w", input, err)
	}

	store, err := c.openStore(ctx, f.noCache)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}

	h := &headless{store: store, props: c.props(g, f)}
	dataset := datasetName(input, f.dataset)
	opts := engine.Options{
		Backend:     c.newBackend(h.setSVG),
		Loader:      c.loader,
		Logger:      loggerFromContext(ctx),
		MaxNodes:    c.config.Engine.MaxNodes,
		Debounce:    c.config.Debounce(),
		Seed:        c.config.Engine.Seed,
		Store:       store,
		Dataset:     dataset,
		SnapshotTTL: c.config.TTL(),
	}
	if hooks != nil {
		hooks(&opts)
	}
	h.eng = engine.New(opts)

	view, err := engine.FocusView(h.props, f.selected, f.focus)
	if err != nil {
		h.Close()
		return nil, fmt.Errorf("focus on %q: %w", f.selected, err)
	}
	if err := h.eng.Update(view); err != nil {
		h.Close()
		return nil, err
	}
	if err := h.eng.Mount(ctx, &render.StaticContainer{Name: dataset, W: f.width, H: f.height}); err != nil {
		h.Close()
		return nil, err
	}
	if err := h.eng.Loader().Wait(ctx); err != nil {
		h.Close()
		return nil, err
	}
	if err := h.eng.Err(); err != nil {
		h.Close()
		return nil, err
	}
	return h, nil
}
