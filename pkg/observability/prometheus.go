package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusHooks implements every hook interface on top of Prometheus
// collectors registered with the given registerer.
type PrometheusHooks struct {
	PrepareTotal    *prometheus.CounterVec
	PrepareDuration prometheus.Histogram
	GraphNodes      prometheus.Histogram
	Components      prometheus.Histogram

	RenderTotal    *prometheus.CounterVec
	RenderDuration prometheus.Histogram

	CacheEvents   *prometheus.CounterVec
	CacheSetBytes *prometheus.CounterVec

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPErrors   *prometheus.CounterVec
}

// NewPrometheusHooks creates and registers the collectors. Pass a fresh
// prometheus.NewRegistry() in tests to avoid duplicate registration.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		PrepareTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "graphprep_prepare_total",
			Help: "Total number of preprocessing runs, labelled by status.",
		}, []string{"status"}),
		PrepareDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "graphprep_prepare_duration_ms",
			Help:    "Preprocessing latency in milliseconds.",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 25, 50, 100, 250, 1000},
		}),
		GraphNodes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "graphprep_graph_nodes",
			Help:    "Number of nodes per prepared graph.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		Components: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "graphprep_graph_components",
			Help:    "Number of connected components per prepared graph.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		RenderTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "graphprep_render_total",
			Help: "Total number of render runs, labelled by status.",
		}, []string{"status"}),
		RenderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "graphprep_render_duration_ms",
			Help:    "Render latency in milliseconds.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 10000},
		}),
		CacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "graphprep_cache_events_total",
			Help: "Cache lookups and writes, labelled by key type and event.",
		}, []string{"key_type", "event"}),
		CacheSetBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "graphprep_cache_set_bytes_total",
			Help: "Bytes written to the cache, labelled by key type.",
		}, []string{"key_type"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "graphprep_http_requests_total",
			Help: "HTTP responses, labelled by method, route and status code.",
		}, []string{"method", "route", "code"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "graphprep_http_request_duration_ms",
			Help:    "HTTP request latency in milliseconds.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"method", "route"}),
		HTTPErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "graphprep_http_errors_total",
			Help: "HTTP requests that failed with an error.",
		}, []string{"method", "route"}),
	}
}

// Register installs h as the pipeline, cache and HTTP hooks.
func (h *PrometheusHooks) Register() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *PrometheusHooks) OnPrepareStart(_ context.Context, nodeCount, _ int) {
	h.GraphNodes.Observe(float64(nodeCount))
}

func (h *PrometheusHooks) OnPrepareComplete(_ context.Context, componentCount int, d time.Duration, err error) {
	h.PrepareTotal.WithLabelValues(status(err)).Inc()
	h.PrepareDuration.Observe(ms(d))
	if err == nil {
		h.Components.Observe(float64(componentCount))
	}
}

func (h *PrometheusHooks) OnRenderStart(context.Context, []string) {}

func (h *PrometheusHooks) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	h.RenderTotal.WithLabelValues(status(err)).Inc()
	h.RenderDuration.Observe(ms(d))
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.CacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.CacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.CacheEvents.WithLabelValues(keyType, "set").Inc()
	h.CacheSetBytes.WithLabelValues(keyType).Add(float64(size))
}

func (h *PrometheusHooks) OnRequest(context.Context, string, string) {}

func (h *PrometheusHooks) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	h.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	h.HTTPDuration.WithLabelValues(method, route).Observe(ms(d))
}

func (h *PrometheusHooks) OnError(_ context.Context, method, route string, _ error) {
	h.HTTPErrors.WithLabelValues(method, route).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

var (
	_ PipelineHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
	_ HTTPHooks     = (*PrometheusHooks)(nil)
)
