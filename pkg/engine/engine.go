package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphscope/pkg/camera"
	"github.com/matzehuels/graphscope/pkg/clock"
	gserrors "github.com/matzehuels/graphscope/pkg/errors"
	"github.com/matzehuels/graphscope/pkg/graph"
	"github.com/matzehuels/graphscope/pkg/interaction"
	"github.com/matzehuels/graphscope/pkg/layout"
	"github.com/matzehuels/graphscope/pkg/network"
	"github.com/matzehuels/graphscope/pkg/observability"
	"github.com/matzehuels/graphscope/pkg/positions"
	"github.com/matzehuels/graphscope/pkg/render"
	"github.com/matzehuels/graphscope/pkg/scheduler"
)

var (
	// ErrDestroyed is returned by calls made after Unmount.
	ErrDestroyed = gserrors.New(gserrors.ErrCodeDestroyed, "engine has been unmounted")

	// ErrMounted is returned by a second Mount.
	ErrMounted = gserrors.New(gserrors.ErrCodeInvalidInput, "engine is already mounted")
)

// Engine is one mounted visualization instance. All methods are safe for
// concurrent use.
type Engine struct {
	opts    Options
	logger  *log.Logger
	clock   clock.Clock
	cache   *positions.Cache
	layout  *layout.Engine
	session *render.Session
	machine *interaction.Machine
	camera  *camera.Controller
	sched   *scheduler.Scheduler[Props]

	mu        sync.Mutex
	ctx       context.Context
	container render.Container
	mounted   bool
	loaded    bool
	destroyed bool
	loadErr   error

	props    Props
	hasProps bool
	built    bool
	graph    *network.Graph
	result   layout.Result
	base     map[string]interaction.NodeAttrs
	edges    []interaction.EdgeAttrs
	rebuilds int

	sessionErr error
	animTimer  clock.Timer
}

// New creates an unmounted engine.
func New(opts Options) *Engine {
	opts.SetDefaults()

	e := &Engine{
		opts:    opts,
		logger:  opts.Logger,
		clock:   opts.Clock,
		cache:   positions.NewCache(),
		machine: interaction.NewMachine(),
		ctx:     context.Background(),
	}

	var lopts []layout.Option
	if opts.Seed != 0 {
		lopts = append(lopts, layout.WithSeed(opts.Seed))
	}
	e.layout = layout.New(e.cache, lopts...)
	e.camera = camera.New(e.clock.Now)
	e.session = render.NewSession(opts.Backend,
		render.WithClock(e.clock),
		render.WithRetryPolicy(*opts.RetryPolicy),
		render.WithLogger(e.logger),
	)
	e.sched = scheduler.New(e.clock, opts.Debounce, e.onDebounced)
	return e
}

// Mount binds the engine to c and waits for library initialization before
// the first build. Mount returns immediately; initialization and session
// readiness complete on timers.
func (e *Engine) Mount(ctx context.Context, c render.Container) error {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return ErrDestroyed
	}
	if e.mounted {
		e.mu.Unlock()
		return ErrMounted
	}
	e.mounted = true
	e.ctx = ctx
	e.container = c
	e.mu.Unlock()

	e.logger.Debug("mounting engine", "container", c.ID(), "backend", e.opts.Backend.Name())
	e.opts.Loader.Then(ctx, e.onLoaded)
	return nil
}

func (e *Engine) onLoaded(err error) {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return
	}
	if err != nil {
		e.loadErr = err
		e.mu.Unlock()
		e.logger.Error("library initialization failed", "err", err)
		return
	}
	ctx := e.ctx
	e.mu.Unlock()

	e.warmCache(ctx)

	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return
	}
	e.loaded = true
	var after func()
	if e.hasProps {
		after, err = e.buildInitialLocked()
	}
	e.mu.Unlock()

	if err != nil {
		e.logger.Error("initial build failed", "err", err)
	}
	if after != nil {
		after()
	}
}

// Update replaces the props. Before the first build the props are only
// stored. Afterwards an unchanged node set and layout applies attributes
// immediately; anything else schedules a debounced rebuild.
func (e *Engine) Update(p Props) error {
	p.SetDefaults()
	if err := p.Validate(e.opts.MaxNodes); err != nil {
		return err
	}
	g, err := buildGraph(p)
	if err != nil {
		return err
	}

	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return ErrDestroyed
	}
	prev := e.props
	e.props = p
	e.hasProps = true

	if !e.built {
		var after func()
		if e.loaded {
			after, err = e.buildInitialLocked()
		}
		e.mu.Unlock()
		if after != nil {
			after()
		}
		return err
	}
	e.mu.Unlock()

	decision := e.sched.Submit(keyOf(p), p)
	if decision == scheduler.Rebuild {
		e.logger.Debug("rebuild scheduled", "nodes", len(p.Nodes), "layout", p.LayoutType, "delay", e.sched.Delay())
		return nil
	}

	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return ErrDestroyed
	}
	after := e.applyLocked(prev, p, g)
	e.mu.Unlock()
	if after != nil {
		after()
	}
	return nil
}

// Flush runs a pending debounced rebuild immediately.
func (e *Engine) Flush() bool { return e.sched.Flush() }

// Pending reports whether a debounced rebuild is waiting.
func (e *Engine) Pending() bool { return e.sched.Pending() }

// Loader returns the initialization gate the engine waits on.
func (e *Engine) Loader() *Loader { return e.opts.Loader }

// Unmount cancels every pending timer, persists the position snapshot and
// releases the render context. It is idempotent.
func (e *Engine) Unmount() {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return
	}
	e.destroyed = true
	if e.animTimer != nil {
		e.animTimer.Stop()
		e.animTimer = nil
	}
	snap := e.snapshotLocked()
	ctx := context.WithoutCancel(e.ctx)
	e.mu.Unlock()

	e.sched.Cancel()
	if err := e.session.Teardown(); err != nil {
		e.logger.Warn("session teardown failed", "err", err)
	}
	e.saveSnapshot(ctx, snap)
	e.logger.Debug("engine unmounted")
}

// Destroyed reports whether Unmount was called.
func (e *Engine) Destroyed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.destroyed
}

// Err returns the library initialization error or the last session error.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loadErr != nil {
		return e.loadErr
	}
	return e.sessionErr
}

// =============================================================================
// Rebuild
// =============================================================================

func keyOf(p Props) scheduler.Key {
	lt := p.LayoutType
	if lt == graph.LayoutRadial {
		lt += ":" + p.SelectedNodeID
	}
	return scheduler.Key{Fingerprint: scheduler.FingerprintOf(p.IDs()), LayoutType: lt}
}

func buildGraph(p Props) (*network.Graph, error) {
	g, err := network.Build(p.Nodes, p.Edges)
	switch {
	case err == nil:
		return g, nil
	case errors.Is(err, network.ErrDuplicateNodeID):
		return nil, gserrors.Wrap(gserrors.ErrCodeDuplicateNode, err, "build graph")
	default:
		return nil, gserrors.Wrap(gserrors.ErrCodeInvalidInput, err, "build graph")
	}
}

func (e *Engine) buildInitialLocked() (func(), error) {
	after, err := e.rebuildLocked(e.props)
	if err != nil {
		return nil, err
	}
	e.built = true
	e.sched.MarkBuilt(keyOf(e.props))
	return after, nil
}

func (e *Engine) onDebounced(p Props) {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return
	}
	after, err := e.rebuildLocked(p)
	e.mu.Unlock()

	if err != nil {
		e.logger.Error("rebuild failed", "err", err)
		return
	}
	after()
}

// rebuildLocked recreates the graph model and layout for p. The returned
// function restarts the render session and must run without e.mu held.
func (e *Engine) rebuildLocked(p Props) (func(), error) {
	g, err := buildGraph(p)
	if err != nil {
		return nil, err
	}
	for _, d := range g.Dropped() {
		e.logger.Warn("dropping edge with unknown endpoint", "source", d.Source, "target", d.Target)
	}

	e.machine.Select(p.SelectedNodeID)
	e.machine.SetFocus(p.FocusMode)
	e.machine.Prune(g)

	hooks := observability.Engine()
	hooks.OnLayoutStart(e.ctx, p.LayoutType, g.NodeCount())
	start := e.clock.Now()
	res := e.layout.Compute(g, p.LayoutType, e.machine.State().SelectedID)
	hooks.OnLayoutComplete(e.ctx, p.LayoutType, string(res.Strategy), res.Iterations, e.clock.Now().Sub(start), nil)

	e.graph = g
	e.result = res
	e.camera.SetGraph(g, res.Positions)
	e.camera.Jump(camera.Default)
	e.restyleLocked(p)
	e.rebuilds++

	e.logger.Debug("graph rebuilt",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"dropped", len(g.Dropped()),
		"layout", p.LayoutType,
		"strategy", res.Strategy,
		"iterations", res.Iterations,
	)
	hooks.OnRebuild(e.ctx, scheduler.Rebuild.String(), g.NodeCount())

	var snap map[string]positions.Position
	if res.Strategy.Force() {
		snap = e.snapshotLocked()
	}
	ctx := e.ctx
	return func() {
		e.saveSnapshot(ctx, snap)
		e.restartSession()
	}, nil
}

// applyLocked refreshes attributes for props whose node set and layout are
// unchanged. Nodes the sampled fingerprint missed force a full rebuild.
func (e *Engine) applyLocked(prev, p Props, g *network.Graph) func() {
	for _, id := range g.IDs() {
		if _, ok := e.result.Positions[id]; !ok {
			e.logger.Debug("node set changed outside the fingerprint sample, rebuilding", "node", id)
			after, err := e.rebuildLocked(p)
			if err != nil {
				e.logger.Error("rebuild failed", "err", err)
				return nil
			}
			return after
		}
	}

	if p.SelectedNodeID != prev.SelectedNodeID {
		e.machine.Select(p.SelectedNodeID)
	}
	if p.FocusMode != prev.FocusMode {
		e.machine.SetFocus(p.FocusMode)
	}
	e.machine.Prune(g)

	e.graph = g
	e.camera.SetGraph(g, e.result.Positions)
	e.restyleLocked(p)
	observability.Engine().OnRebuild(e.ctx, scheduler.Update.String(), g.NodeCount())
	e.drawLocked()
	return nil
}

func (e *Engine) restyleLocked(p Props) {
	palette := interaction.NewPalette(p.EntityTypeColors)
	e.base = interaction.BaseNodes(e.graph, p.NodeSizeBy, palette)
	e.edges = interaction.BaseEdges(e.graph)
}

// =============================================================================
// Render Session
// =============================================================================

// restartSession releases the current context and initializes a fresh one.
// The release gate delays the new acquisition. Callers must not hold e.mu.
func (e *Engine) restartSession() {
	e.mu.Lock()
	if e.destroyed || e.container == nil {
		e.mu.Unlock()
		return
	}
	ctx, c := e.ctx, e.container
	e.mu.Unlock()

	if err := e.session.Teardown(); err != nil {
		e.logger.Warn("session teardown failed", "err", err)
	}
	e.session.Initialize(ctx, c, e.onSessionReady)
}

func (e *Engine) onSessionReady(err error) {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return
	}
	e.sessionErr = err
	e.mu.Unlock()

	switch {
	case err == nil:
	case errors.Is(err, render.ErrUnsupported):
		e.logger.Warn("rendering is not supported, leaving the container blank", "err", err)
		return
	case errors.Is(err, render.ErrContainerNotReady):
		e.logger.Debug("container never became ready, skipping render")
		return
	default:
		e.logger.Warn("render session failed", "err", err)
		return
	}

	// Unmount sets destroyed under e.mu before tearing the session down.
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	if !e.session.Listen(map[render.EventType]render.Listener{
		render.EventClickNode:  e.apply,
		render.EventClickStage: e.apply,
		render.EventEnterNode:  e.apply,
		render.EventLeaveNode:  e.apply,
	}) {
		e.logger.Debug("session torn down before listeners were registered")
		return
	}
	e.drawLocked()
}

func (e *Engine) drawLocked() {
	if e.graph == nil {
		return
	}
	f := e.frameLocked()
	if err := e.session.Draw(e.ctx, f); err != nil && !errors.Is(err, render.ErrNotActive) {
		e.logger.Warn("draw failed", "err", err)
	}
}
