package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusHooks implements every hook interface on Prometheus collectors.
type PrometheusHooks struct {
	layoutTotal      *prometheus.CounterVec
	layoutSeconds    *prometheus.HistogramVec
	layoutIterations *prometheus.CounterVec
	rebuildTotal     *prometheus.CounterVec
	interactionTotal *prometheus.CounterVec
	sessionInitTotal *prometheus.CounterVec
	sessionRetries   *prometheus.CounterVec
	sessionActive    *prometheus.GaugeVec
	frameTotal       *prometheus.CounterVec
	frameSeconds     *prometheus.HistogramVec
	cacheTotal       *prometheus.CounterVec
	cacheSetSize     *prometheus.HistogramVec
	httpTotal        *prometheus.CounterVec
	httpSeconds      *prometheus.HistogramVec
}

// NewPrometheusHooks creates the collectors and registers them with reg.
// It panics if registration fails, like prometheus.MustRegister.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	h := &PrometheusHooks{
		layoutTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graphscope_layout_total",
				Help: "Total number of layout passes",
			},
			[]string{"layout_type", "strategy", "result"},
		),
		layoutSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "graphscope_layout_seconds",
				Help:    "Layout pass duration",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
			},
			[]string{"layout_type"},
		),
		layoutIterations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graphscope_layout_iterations_total",
				Help: "Total number of force solver iterations",
			},
			[]string{"strategy"},
		),
		rebuildTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graphscope_rebuild_total",
				Help: "Scheduler decisions by kind",
			},
			[]string{"decision"},
		),
		interactionTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graphscope_interaction_total",
				Help: "Interaction events by resulting state",
			},
			[]string{"event", "to"},
		),
		sessionInitTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graphscope_session_init_total",
				Help: "Render session initializations by result",
			},
			[]string{"backend", "result"},
		),
		sessionRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graphscope_session_retries_total",
				Help: "Container readiness retries",
			},
			[]string{"backend"},
		),
		sessionActive: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "graphscope_sessions_active",
				Help: "Render sessions currently holding a context",
			},
			[]string{"backend"},
		),
		frameTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graphscope_frames_total",
				Help: "Frames drawn by result",
			},
			[]string{"backend", "result"},
		),
		frameSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "graphscope_frame_seconds",
				Help:    "Frame draw duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"backend"},
		),
		cacheTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graphscope_snapshot_cache_total",
				Help: "Position snapshot lookups and writes",
			},
			[]string{"store", "op"},
		),
		cacheSetSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "graphscope_snapshot_positions",
				Help:    "Positions per saved snapshot",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"store"},
		),
		httpTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graphscope_http_requests_total",
				Help: "HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		httpSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "graphscope_http_request_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	reg.MustRegister(
		h.layoutTotal, h.layoutSeconds, h.layoutIterations,
		h.rebuildTotal, h.interactionTotal,
		h.sessionInitTotal, h.sessionRetries, h.sessionActive,
		h.frameTotal, h.frameSeconds,
		h.cacheTotal, h.cacheSetSize,
		h.httpTotal, h.httpSeconds,
	)
	return h
}

// Install registers h for every hook category.
func (h *PrometheusHooks) Install() {
	SetEngineHooks(h)
	SetSessionHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (h *PrometheusHooks) OnLayoutStart(context.Context, string, int) {}

func (h *PrometheusHooks) OnLayoutComplete(_ context.Context, layoutType, strategy string, iterations int, d time.Duration, err error) {
	h.layoutTotal.WithLabelValues(layoutType, strategy, result(err)).Inc()
	h.layoutSeconds.WithLabelValues(layoutType).Observe(d.Seconds())
	h.layoutIterations.WithLabelValues(strategy).Add(float64(iterations))
}

func (h *PrometheusHooks) OnRebuild(_ context.Context, decision string, _ int) {
	h.rebuildTotal.WithLabelValues(decision).Inc()
}

func (h *PrometheusHooks) OnInteraction(_ context.Context, event, _, to string) {
	h.interactionTotal.WithLabelValues(event, to).Inc()
}

func (h *PrometheusHooks) OnSessionInit(_ context.Context, backend string, retries int, err error) {
	h.sessionInitTotal.WithLabelValues(backend, result(err)).Inc()
	h.sessionRetries.WithLabelValues(backend).Add(float64(retries))
	if err == nil {
		h.sessionActive.WithLabelValues(backend).Inc()
	}
}

func (h *PrometheusHooks) OnSessionTeardown(_ context.Context, backend string) {
	h.sessionActive.WithLabelValues(backend).Dec()
}

func (h *PrometheusHooks) OnFrame(_ context.Context, backend string, d time.Duration, err error) {
	h.frameTotal.WithLabelValues(backend, result(err)).Inc()
	h.frameSeconds.WithLabelValues(backend).Observe(d.Seconds())
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, store string) {
	h.cacheTotal.WithLabelValues(store, "hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, store string) {
	h.cacheTotal.WithLabelValues(store, "miss").Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, store string, size int) {
	h.cacheTotal.WithLabelValues(store, "set").Inc()
	h.cacheSetSize.WithLabelValues(store).Observe(float64(size))
}

func (h *PrometheusHooks) OnRequest(context.Context, string, string) {}

func (h *PrometheusHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.httpTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.httpSeconds.WithLabelValues(method, route).Observe(d.Seconds())
}
