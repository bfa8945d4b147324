package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/graphscope/pkg/engine"
	gserrors "github.com/matzehuels/graphscope/pkg/errors"
	"github.com/matzehuels/graphscope/pkg/graph"
	"github.com/matzehuels/graphscope/pkg/interaction"
	"github.com/matzehuels/graphscope/pkg/network"
	"github.com/matzehuels/graphscope/pkg/render"
)

// graphRequest is the body of POST /api/graphs and PUT /api/graphs/{id}.
type graphRequest struct {
	graph.Graph
	Layout   string                               `json:"layout,omitempty"`
	SizeBy   string                               `json:"size_by,omitempty"`
	Selected string                               `json:"selected,omitempty"`
	Focus    bool                                 `json:"focus,omitempty"`
	Colors   map[graph.EntityType]graph.TypeStyle `json:"colors,omitempty"`
	Dataset  string                               `json:"dataset,omitempty"`
	Width    float64                              `json:"width,omitempty"`
	Height   float64                              `json:"height,omitempty"`
}

func (g graphRequest) props() engine.Props {
	return engine.Props{
		Nodes:            g.Nodes,
		Edges:            g.Edges,
		SelectedNodeID:   g.Selected,
		NodeSizeBy:       g.SizeBy,
		LayoutType:       g.Layout,
		FocusMode:        g.Focus,
		EntityTypeColors: g.Colors,
	}
}

type graphResponse struct {
	ID       string `json:"id"`
	Nodes    int    `json:"nodes"`
	Edges    int    `json:"edges"`
	Dropped  int    `json:"dropped"`
	Layout   string `json:"layout"`
	Strategy string `json:"strategy"`
	Session  string `json:"session"`
	Pending  bool   `json:"pending"`
}

func summarize(h *hosted) graphResponse {
	st := h.eng.Stats()
	return graphResponse{
		ID:       h.id,
		Nodes:    st.Nodes,
		Edges:    st.Edges,
		Dropped:  st.Dropped,
		Layout:   st.Layout,
		Strategy: string(st.Strategy),
		Session:  st.Session.String(),
		Pending:  h.eng.Pending(),
	}
}

type stateResponse struct {
	Mode     string `json:"mode"`
	Selected string `json:"selected,omitempty"`
	Hovered  string `json:"hovered,omitempty"`
	Focus    bool   `json:"focus"`
}

func stateOf(st interaction.State) stateResponse {
	return stateResponse{
		Mode:     st.Mode().String(),
		Selected: st.SelectedID,
		Hovered:  st.HoveredID,
		Focus:    st.Focused(),
	}
}

// =============================================================================
// Graph Lifecycle
// =============================================================================

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"graphs": s.ids()})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeGraph(w, r)
	if !ok {
		return
	}

	if !s.reserve() {
		writeError(w, http.StatusTooManyRequests, "TOO_MANY_GRAPHS", "graph limit reached")
		return
	}
	var mounted *hosted
	defer func() { s.release(mounted) }()

	id := uuid.NewString()
	h := &hosted{id: id, dataset: req.Dataset, created: time.Now(), props: req.props()}
	opts := engine.Options{
		Backend:     s.opts.NewBackend(h.setSVG),
		Loader:      s.opts.Loader,
		Logger:      loggerFrom(r.Context()).With("graph", id[:8]),
		MaxNodes:    s.opts.MaxNodes,
		Debounce:    s.opts.Debounce,
		Seed:        s.opts.Seed,
		SnapshotTTL: s.opts.SnapshotTTL,
	}
	if req.Dataset != "" {
		opts.Store = s.opts.Store
		opts.Dataset = req.Dataset
	}
	h.eng = engine.New(opts)

	view, err := engine.FocusView(h.props, req.Selected, req.Focus)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if err := h.eng.Update(view); err != nil {
		writeEngineError(w, err)
		return
	}
	width, height := req.Width, req.Height
	if width <= 0 || height <= 0 {
		width, height = DefaultWidth, DefaultHeight
	}
	// Hosted engines outlive the request that created them.
	mountCtx := context.WithoutCancel(r.Context())
	if err := h.eng.Mount(mountCtx, &render.StaticContainer{Name: id, W: width, H: height}); err != nil {
		writeEngineError(w, err)
		return
	}
	if err := h.eng.Loader().Wait(r.Context()); err != nil {
		h.eng.Unmount()
		writeError(w, http.StatusServiceUnavailable, "UNAVAILABLE", err.Error())
		return
	}

	mounted = h

	loggerFrom(r.Context()).Info("graph mounted", "graph", id, "nodes", len(req.Nodes), "edges", len(req.Edges))
	writeJSON(w, http.StatusCreated, summarize(h))
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	h := graphFrom(r)
	req, ok := decodeGraph(w, r)
	if !ok {
		return
	}
	full := req.props()
	view, err := engine.FocusView(full, req.Selected, req.Focus)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if err := h.eng.Update(view); err != nil {
		writeEngineError(w, err)
		return
	}
	h.setProps(full)
	writeJSON(w, http.StatusAccepted, summarize(h))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	h := graphFrom(r)
	s.mu.Lock()
	delete(s.graphs, h.id)
	s.mu.Unlock()

	h.eng.Unmount()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFlush(w http.ResponseWriter, r *http.Request) {
	h := graphFrom(r)
	flushed := h.eng.Flush()
	resp := summarize(h)
	writeJSON(w, http.StatusOK, map[string]any{"flushed": flushed, "graph": resp})
}

// =============================================================================
// Output
// =============================================================================

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, graphFrom(r).eng.Layout())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	h := graphFrom(r)
	st := h.eng.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"nodes":      st.Nodes,
		"edges":      st.Edges,
		"dropped":    st.Dropped,
		"layout":     st.Layout,
		"strategy":   st.Strategy,
		"iterations": st.Iterations,
		"hit_ratio":  st.HitRatio,
		"rebuilds":   st.Rebuilds,
		"mode":       st.Mode.String(),
		"session":    st.Session.String(),
		"frames":     st.Frames,
		"cached":     st.Cached,
	})
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	h := graphFrom(r)
	svg := h.lastSVG()
	if svg == nil {
		f, ok := h.eng.Frame()
		if !ok {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "no frame yet")
			return
		}
		var err error
		if svg, err = render.RenderSVG(r.Context(), f); err != nil {
			writeEngineError(w, err)
			return
		}
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(svg)
}

// =============================================================================
// Interaction
// =============================================================================

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	s.dispatchNode(w, r, render.EventClickNode)
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	s.dispatchNode(w, r, render.EventEnterNode)
}

func (s *Server) handleClickStage(w http.ResponseWriter, r *http.Request) {
	h := graphFrom(r)
	h.eng.Dispatch(render.Event{Type: render.EventClickStage})
	if err := h.refocus(); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stateOf(h.eng.State()))
}

func (s *Server) handleUnhover(w http.ResponseWriter, r *http.Request) {
	h := graphFrom(r)
	h.eng.Dispatch(render.Event{Type: render.EventLeaveNode})
	writeJSON(w, http.StatusOK, stateOf(h.eng.State()))
}

// dispatchNode feeds a node event through the session listeners, the same
// path a drawing surface's input would take.
func (s *Server) dispatchNode(w http.ResponseWriter, r *http.Request, t render.EventType) {
	h := graphFrom(r)
	id := chi.URLParam(r, "nodeID")
	if !h.eng.HasNode(id) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "unknown node: "+id)
		return
	}
	h.eng.Dispatch(render.Event{Type: t, NodeID: id})
	if t == render.EventClickNode {
		if err := h.refocus(); err != nil {
			writeEngineError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, stateOf(h.eng.State()))
}

func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	h := graphFrom(r)
	on := true
	if v := r.URL.Query().Get("on"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, string(gserrors.ErrCodeInvalidInput), "on must be a boolean")
			return
		}
		on = b
	}
	h.eng.SetFocus(on)
	if err := h.refocus(); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stateOf(h.eng.State()))
}

func (s *Server) handleCamera(w http.ResponseWriter, r *http.Request) {
	h := graphFrom(r)
	node := r.URL.Query().Get("node")

	var err error
	switch op := chi.URLParam(r, "op"); op {
	case "reset":
		err = h.eng.ResetCamera()
	case "zoom-in":
		err = h.eng.ZoomIn()
	case "zoom-out":
		err = h.eng.ZoomOut()
	case "focus-node":
		err = h.eng.FocusNode(node)
	case "focus-selection":
		if node == "" {
			node = h.eng.State().SelectedID
		}
		err = h.eng.FocusOnSelection(node)
	default:
		writeError(w, http.StatusBadRequest, string(gserrors.ErrCodeInvalidInput), "unknown camera operation: "+op)
		return
	}
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.eng.Camera())
}

// =============================================================================
// Helpers
// =============================================================================

func decodeGraph(w http.ResponseWriter, r *http.Request) (graphRequest, bool) {
	var req graphRequest
	r.Body = http.MaxBytesReader(w, r.Body, DefaultMaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, string(gserrors.ErrCodeInvalidInput), "invalid graph JSON: "+err.Error())
		return graphRequest{}, false
	}
	return req, true
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	if errors.Is(err, network.ErrUnknownNode) {
		return http.StatusNotFound
	}
	switch gserrors.GetCode(err) {
	case gserrors.ErrCodeInvalidInput, gserrors.ErrCodeInvalidLayout, gserrors.ErrCodeInvalidSizeBy,
		gserrors.ErrCodeInvalidColor, gserrors.ErrCodeDuplicateNode:
		return http.StatusBadRequest
	case gserrors.ErrCodeTooManyNodes:
		return http.StatusRequestEntityTooLarge
	case gserrors.ErrCodeNotFound, gserrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case gserrors.ErrCodeDestroyed:
		return http.StatusGone
	case gserrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeEngineError(w http.ResponseWriter, err error) {
	code := string(gserrors.GetCode(err))
	if code == "" {
		code = string(gserrors.ErrCodeInternal)
		if errors.Is(err, network.ErrUnknownNode) {
			code = string(gserrors.ErrCodeNotFound)
		}
	}
	writeError(w, statusFor(err), code, gserrors.UserMessage(err))
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"error": code, "message": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
