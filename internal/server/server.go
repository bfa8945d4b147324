// Package server hosts engines over HTTP.
//
// Every POST /api/graphs mounts a fresh engine on a headless container and
// returns its id. Interaction endpoints feed events through the engine's
// render session, and GET .../frame.svg returns the last drawn frame.
package server

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/graphscope/pkg/engine"
	"github.com/matzehuels/graphscope/pkg/observability"
	"github.com/matzehuels/graphscope/pkg/positions"
	"github.com/matzehuels/graphscope/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultAddr          = ":8080"
	DefaultWidth         = 800
	DefaultHeight        = 600
	DefaultMaxGraphs     = 64
	DefaultMaxBodyBytes  = 32 << 20
	DefaultShutdownGrace = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	Addr   string
	Logger *log.Logger

	// NewBackend creates the render backend for one hosted engine. sink
	// receives every SVG the backend draws. Defaults to graphviz.
	NewBackend func(sink render.Sink) render.Backend

	// Loader gates engine builds on backend initialization.
	Loader *engine.Loader

	// Engine defaults applied to every hosted engine.
	MaxNodes    int
	Debounce    time.Duration
	Seed        uint64
	Store       positions.Store
	SnapshotTTL time.Duration

	// MaxGraphs bounds the number of live engines.
	MaxGraphs int

	// Gatherer serves /metrics. Defaults to the prometheus default registry.
	Gatherer prometheus.Gatherer
}

// SetDefaults fills in unset options.
func (o *Options) SetDefaults() {
	if o.Addr == "" {
		o.Addr = DefaultAddr
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	if o.NewBackend == nil {
		o.NewBackend = func(sink render.Sink) render.Backend { return render.NewGraphvizBackend(sink) }
	}
	if o.MaxGraphs <= 0 {
		o.MaxGraphs = DefaultMaxGraphs
	}
	if o.Gatherer == nil {
		o.Gatherer = prometheus.DefaultGatherer
	}
}

// =============================================================================
// Server
// =============================================================================

// Server is the HTTP host.
type Server struct {
	opts   Options
	logger *log.Logger
	router chi.Router
	http   *http.Server

	mu       sync.Mutex
	graphs   map[string]*hosted
	reserved int // creates in flight, counted against MaxGraphs
}

// hosted is one mounted engine plus the last SVG its backend produced.
// props holds the full graph; in focus mode the engine shows only the
// selection's ego network.
type hosted struct {
	id      string
	dataset string
	eng     *engine.Engine
	created time.Time

	mu    sync.Mutex
	svg   []byte
	props engine.Props
}

func (h *hosted) setProps(p engine.Props) {
	h.mu.Lock()
	h.props = p
	h.mu.Unlock()
}

// refocus shows the selection's ego network while focus mode is on and the
// full graph otherwise.
func (h *hosted) refocus() error {
	h.mu.Lock()
	full := h.props
	h.mu.Unlock()
	_, err := h.eng.ApplyFocus(full)
	return err
}

func (h *hosted) setSVG(svg []byte) error {
	h.mu.Lock()
	h.svg = svg
	h.mu.Unlock()
	return nil
}

func (h *hosted) lastSVG() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.svg
}

// New creates a server. It does not listen until Start.
func New(opts Options) *Server {
	opts.SetDefaults()
	s := &Server{
		opts:   opts,
		logger: opts.Logger,
		graphs: make(map[string]*hosted),
	}
	s.router = s.routes()
	s.http = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.withLogging)

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/graphs", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Route("/{graphID}", func(r chi.Router) {
			r.Use(s.withGraph)
			r.Put("/", s.handleUpdate)
			r.Delete("/", s.handleDelete)
			r.Post("/flush", s.handleFlush)
			r.Get("/layout", s.handleLayout)
			r.Get("/stats", s.handleStats)
			r.Get("/frame.svg", s.handleFrame)
			r.Post("/click", s.handleClickStage)
			r.Post("/click/{nodeID}", s.handleClick)
			r.Post("/hover/{nodeID}", s.handleHover)
			r.Delete("/hover", s.handleUnhover)
			r.Post("/focus", s.handleFocus)
			r.Post("/camera/{op}", s.handleCamera)
		})
	})
	return r
}

// Start listens until the server is shut down.
func (s *Server) Start() error {
	s.logger.Info("listening", "addr", s.opts.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Run starts the server and shuts it down when ctx is done.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() { errc <- s.Start() }()

	select {
	case err := <-errc:
		s.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultShutdownGrace)
	defer cancel()
	err := s.http.Shutdown(shutdownCtx)
	s.Close()
	return err
}

// Close unmounts every hosted engine.
func (s *Server) Close() {
	s.mu.Lock()
	graphs := s.graphs
	s.graphs = make(map[string]*hosted)
	s.mu.Unlock()

	for _, h := range graphs {
		h.eng.Unmount()
	}
}

func (s *Server) lookup(id string) (*hosted, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.graphs[id]
	return h, ok
}

// reserve claims a slot for a new graph. It reports false when live and
// in-flight graphs already reach MaxGraphs.
func (s *Server) reserve() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.graphs)+s.reserved >= s.opts.MaxGraphs {
		return false
	}
	s.reserved++
	return true
}

// release returns a reserved slot, registering h in it when non-nil.
func (s *Server) release(h *hosted) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reserved--
	if h != nil {
		s.graphs[h.id] = h
	}
}

func (s *Server) ids() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.graphs))
	for id := range s.graphs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// =============================================================================
// Middleware
// =============================================================================

type ctxKey int

const (
	loggerKey ctxKey = iota
	graphKey
)

func loggerFrom(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// withLogging attaches a request-scoped logger and reports the request to
// the HTTP hooks under its route pattern.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := s.logger.With("req", middleware.GetReqID(r.Context()))
		ctx := context.WithValue(r.Context(), loggerKey, logger)
		r = r.WithContext(ctx)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(ctx); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks := observability.HTTP()
		hooks.OnRequest(ctx, r.Method, route)
		hooks.OnResponse(ctx, r.Method, route, status, time.Since(start))
		logger.Debug("request", "method", r.Method, "route", route, "status", status, "duration", time.Since(start))
	})
}

// withGraph resolves {graphID} or answers 404.
func (s *Server) withGraph(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := s.lookup(chi.URLParam(r, "graphID"))
		if !ok {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "unknown graph")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), graphKey, h)))
	})
}

func graphFrom(r *http.Request) *hosted {
	return r.Context().Value(graphKey).(*hosted)
}
