package engine

import (
	"github.com/matzehuels/graphscope/pkg/camera"
	"github.com/matzehuels/graphscope/pkg/graph"
	"github.com/matzehuels/graphscope/pkg/interaction"
	"github.com/matzehuels/graphscope/pkg/observability"
	"github.com/matzehuels/graphscope/pkg/render"
)

// =============================================================================
// Interaction Inputs
// =============================================================================

// Hover marks id as hovered and reports it to OnNodeHover. Unknown ids are
// ignored.
func (e *Engine) Hover(id string) {
	e.mu.Lock()
	if e.destroyed || e.graph == nil {
		e.mu.Unlock()
		return
	}
	n, ok := e.graph.Node(id)
	if !ok {
		e.mu.Unlock()
		return
	}
	e.interactLocked(e.machine.Hover(id))
	cb := e.opts.OnNodeHover
	e.mu.Unlock()

	if cb != nil {
		cb(n)
	}
}

// Unhover clears the hovered node and reports nil to OnNodeHover.
func (e *Engine) Unhover() {
	e.mu.Lock()
	if e.destroyed || e.graph == nil || e.machine.State().HoveredID == "" {
		e.mu.Unlock()
		return
	}
	e.interactLocked(e.machine.Unhover())
	cb := e.opts.OnNodeHover
	e.mu.Unlock()

	if cb != nil {
		cb(nil)
	}
}

// Click selects id, or clears the selection when id is already selected.
// OnNodeClick receives the new selection, nil when it was cleared.
func (e *Engine) Click(id string) {
	e.mu.Lock()
	if e.destroyed || e.graph == nil || !e.graph.HasNode(id) {
		e.mu.Unlock()
		return
	}
	e.interactLocked(e.machine.Click(id))
	var selected *graph.Node
	if sel := e.machine.State().SelectedID; sel != "" {
		selected, _ = e.graph.Node(sel)
	}
	cb := e.opts.OnNodeClick
	e.mu.Unlock()

	if cb != nil {
		cb(selected)
	}
}

// ClickStage clears hover, selection and focus. OnNodeClick receives nil
// when a selection was cleared.
func (e *Engine) ClickStage() {
	e.mu.Lock()
	if e.destroyed || e.graph == nil {
		e.mu.Unlock()
		return
	}
	hadSelection := e.machine.State().SelectedID != ""
	e.interactLocked(e.machine.ClickStage())
	cb := e.opts.OnNodeClick
	e.mu.Unlock()

	if cb != nil && hadSelection {
		cb(nil)
	}
}

// SetFocus enters or leaves focus mode. Focus without a selection has no
// visible effect.
func (e *Engine) SetFocus(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed || e.graph == nil {
		return
	}
	e.interactLocked(e.machine.SetFocus(on))
}

// Dispatch forwards a backend input event to the session listeners. Between
// a teardown and the next activation no listener is registered and the event
// is applied directly.
func (e *Engine) Dispatch(ev render.Event) {
	if e.Destroyed() {
		return
	}
	if !e.session.Dispatch(ev) {
		e.apply(ev)
	}
}

// apply maps an input event onto the interaction API.
func (e *Engine) apply(ev render.Event) {
	switch ev.Type {
	case render.EventClickNode:
		e.Click(ev.NodeID)
	case render.EventClickStage:
		e.ClickStage()
	case render.EventEnterNode:
		e.Hover(ev.NodeID)
	case render.EventLeaveNode:
		e.Unhover()
	}
}

func (e *Engine) interactLocked(tr interaction.Transition) {
	observability.Engine().OnInteraction(e.ctx, tr.Event, tr.From.String(), tr.To.String())
	if tr.Changed() {
		e.logger.Debug("interaction", "event", tr.Event, "from", tr.From, "to", tr.To)
	}
	e.drawLocked()
}

// =============================================================================
// Imperative Camera API
// =============================================================================

// ResetCamera animates to the fit-all view.
func (e *Engine) ResetCamera() error {
	return e.moveCamera(func() (camera.Animation, error) { return e.camera.Reset(), nil })
}

// ZoomIn zooms in by one step.
func (e *Engine) ZoomIn() error {
	return e.moveCamera(func() (camera.Animation, error) { return e.camera.ZoomIn(), nil })
}

// ZoomOut zooms out by one step.
func (e *Engine) ZoomOut() error {
	return e.moveCamera(func() (camera.Animation, error) { return e.camera.ZoomOut(), nil })
}

// FocusNode centers the camera on id.
func (e *Engine) FocusNode(id string) error {
	return e.moveCamera(func() (camera.Animation, error) { return e.camera.FocusNode(id) })
}

// FocusOnSelection fits the camera to id and its neighbors.
func (e *Engine) FocusOnSelection(id string) error {
	return e.moveCamera(func() (camera.Animation, error) {
		a, _, err := e.camera.FocusOnSelection(id)
		return a, err
	})
}

// HasNode reports whether id is part of the current graph.
func (e *Engine) HasNode(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph != nil && e.graph.HasNode(id)
}

// moveCamera starts a camera animation, draws its first frame and schedules
// a frame at its end.
func (e *Engine) moveCamera(move func() (camera.Animation, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return ErrDestroyed
	}

	anim, err := move()
	if err != nil {
		return err
	}
	e.drawLocked()

	if e.animTimer != nil {
		e.animTimer.Stop()
	}
	e.animTimer = e.clock.AfterFunc(anim.Duration, e.onAnimationEnd)
	return nil
}

func (e *Engine) onAnimationEnd() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	e.animTimer = nil
	e.drawLocked()
}
