package engine

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphscope/pkg/clock"
	gserrors "github.com/matzehuels/graphscope/pkg/errors"
	"github.com/matzehuels/graphscope/pkg/graph"
	"github.com/matzehuels/graphscope/pkg/positions"
	"github.com/matzehuels/graphscope/pkg/render"
	"github.com/matzehuels/graphscope/pkg/scheduler"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultLayout is the layout used when props leave it empty.
	DefaultLayout = graph.LayoutForce

	// DefaultSizeBy is the sizing metric used when props leave it empty.
	DefaultSizeBy = graph.SizeByCount

	// DefaultDebounce is the rebuild debounce delay.
	DefaultDebounce = scheduler.DefaultDelay

	// DefaultSnapshotTTL is how long persisted position snapshots live.
	DefaultSnapshotTTL = positions.DefaultTTL
)

// =============================================================================
// Props - Host Input
// =============================================================================

// Props is the complete host input. Every Update replaces the previous props.
type Props struct {
	Nodes            []graph.Node
	Edges            []graph.Edge
	SelectedNodeID   string
	NodeSizeBy       string
	LayoutType       string
	FocusMode        bool
	EntityTypeColors map[graph.EntityType]graph.TypeStyle
}

// SetDefaults fills in empty layout type and sizing metric.
func (p *Props) SetDefaults() {
	if p.LayoutType == "" {
		p.LayoutType = DefaultLayout
	}
	if p.NodeSizeBy == "" {
		p.NodeSizeBy = DefaultSizeBy
	}
}

// Validate checks the props. maxNodes > 0 rejects larger node sets.
// Duplicate node IDs are reported when the graph is built.
func (p *Props) Validate(maxNodes int) error {
	if err := gserrors.ValidateLayoutType(p.LayoutType, graph.ValidLayouts); err != nil {
		return err
	}
	if err := gserrors.ValidateSizeBy(p.NodeSizeBy, graph.ValidSizeBy); err != nil {
		return err
	}
	if maxNodes > 0 && len(p.Nodes) > maxNodes {
		return gserrors.New(gserrors.ErrCodeTooManyNodes, "%d nodes exceed the limit of %d", len(p.Nodes), maxNodes)
	}
	for _, n := range p.Nodes {
		if err := gserrors.ValidateNodeID(n.ID); err != nil {
			return err
		}
	}
	for t, style := range p.EntityTypeColors {
		if style.Color == "" {
			continue
		}
		if err := gserrors.ValidateColor(style.Color); err != nil {
			return gserrors.Wrap(gserrors.ErrCodeInvalidColor, err, "color for type %q", t)
		}
	}
	return nil
}

// IDs returns the node IDs in input order.
func (p *Props) IDs() []string {
	ids := make([]string, len(p.Nodes))
	for i, n := range p.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// =============================================================================
// Options - Engine Configuration
// =============================================================================

// Options configures an Engine.
type Options struct {
	// Backend draws frames. Defaults to a memory backend.
	Backend render.Backend

	// Loader gates the first build on library initialization. Defaults to
	// a process-wide loader that succeeds immediately.
	Loader *Loader

	// Clock drives every timer. Defaults to the wall clock.
	Clock clock.Clock

	// Logger defaults to a discarding logger.
	Logger *log.Logger

	// Debounce is the rebuild debounce delay.
	Debounce time.Duration

	// RetryPolicy overrides the container readiness retry schedule.
	RetryPolicy *render.RetryPolicy

	// MaxNodes rejects props with more nodes when positive. Zero trusts the
	// caller.
	MaxNodes int

	// Seed makes force layouts reproducible when non-zero.
	Seed uint64

	// Store persists position snapshots under Dataset. Both must be set for
	// snapshots to be loaded and saved.
	Store       positions.Store
	Dataset     string
	SnapshotTTL time.Duration

	// OnNodeClick is called with the clicked node, or nil when a click
	// cleared the selection.
	OnNodeClick func(*graph.Node)

	// OnNodeHover is called with the hovered node, or nil on leave.
	OnNodeHover func(*graph.Node)
}

// SetDefaults fills in unset options.
func (o *Options) SetDefaults() {
	if o.Backend == nil {
		o.Backend = render.NewMemoryBackend()
	}
	if o.Loader == nil {
		o.Loader = defaultLoader
	}
	if o.Clock == nil {
		o.Clock = clock.Real{}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.RetryPolicy == nil {
		p := render.DefaultRetryPolicy()
		o.RetryPolicy = &p
	}
	if o.SnapshotTTL <= 0 {
		o.SnapshotTTL = DefaultSnapshotTTL
	}
}
