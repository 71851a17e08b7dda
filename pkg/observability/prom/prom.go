// Package prom implements the observability hooks on Prometheus metrics.
//
// All metrics are registered under the "pedigree" namespace on the
// registerer passed to [New]:
//
//	reg := prometheus.NewRegistry()
//	hooks := prom.New(reg)
//	observability.SetPipelineHooks(hooks)
//	observability.SetCacheHooks(hooks)
//	observability.SetHTTPHooks(hooks)
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/pedigree/pkg/observability"
)

const namespace = "pedigree"

// Hooks records pipeline, cache and HTTP events as Prometheus metrics.
// It is safe for concurrent use.
type Hooks struct {
	loads          *prometheus.CounterVec
	loadDuration   prometheus.Histogram
	layouts        *prometheus.CounterVec
	layoutDuration prometheus.Histogram
	layoutMembers  prometheus.Histogram
	layoutDefects  *prometheus.CounterVec
	renders        *prometheus.CounterVec
	renderDuration prometheus.Histogram

	cacheOps   *prometheus.CounterVec
	cacheBytes *prometheus.CounterVec

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates the metrics and registers them with reg. It panics if a
// metric with the same name is already registered, like promauto does.
func New(reg prometheus.Registerer) *Hooks {
	f := promauto.With(reg)
	return &Hooks{
		loads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_loads_total",
			Help:      "Datasets loaded, by result.",
		}, []string{"result"}),
		loadDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_load_duration_seconds",
			Help:      "Time spent decoding datasets.",
			Buckets:   prometheus.DefBuckets,
		}),
		layouts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layout_passes_total",
			Help:      "Layout passes run, by result.",
		}, []string{"result"}),
		layoutDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_duration_seconds",
			Help:      "Time spent in layout passes.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		layoutMembers: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_members",
			Help:      "Members per laid-out tree.",
			Buckets:   prometheus.ExponentialBuckets(4, 2, 8),
		}),
		layoutDefects: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layout_defects_total",
			Help:      "Diagnostics reported by layout passes, by kind.",
		}, []string{"kind"}),
		renders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Render stages run, by result.",
		}, []string{"result"}),
		renderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering charts.",
			Buckets:   prometheus.DefBuckets,
		}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Cache lookups and writes, by key type and operation.",
		}, []string{"key_type", "op"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache, by key type.",
		}, []string{"key_type"}),
		httpInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Requests currently being served.",
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Requests served, by method, route and status code.",
		}, []string{"method", "route", "code"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Request latency, by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// =============================================================================
// Pipeline
// =============================================================================

func (h *Hooks) OnLoadStart(context.Context, string) {}

func (h *Hooks) OnLoadComplete(_ context.Context, _ string, _ int, d time.Duration, err error) {
	h.loads.WithLabelValues(result(err)).Inc()
	h.loadDuration.Observe(d.Seconds())
}

func (h *Hooks) OnLayoutStart(context.Context, string, int) {}

func (h *Hooks) OnLayoutComplete(_ context.Context, _ string, s observability.LayoutStats, d time.Duration, err error) {
	h.layouts.WithLabelValues(result(err)).Inc()
	h.layoutDuration.Observe(d.Seconds())
	h.layoutMembers.Observe(float64(s.Members))
	h.layoutDefects.WithLabelValues("unplaced").Add(float64(s.Unplaced))
	h.layoutDefects.WithLabelValues("overlap").Add(float64(s.Overlaps))
}

func (h *Hooks) OnRenderStart(context.Context, []string) {}

func (h *Hooks) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	h.renders.WithLabelValues(result(err)).Inc()
	h.renderDuration.Observe(d.Seconds())
}

// =============================================================================
// Cache
// =============================================================================

func (h *Hooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (h *Hooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (h *Hooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheOps.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// =============================================================================
// HTTP
// =============================================================================

func (h *Hooks) OnRequest(context.Context, string, string) {
	h.httpInFlight.Inc()
}

func (h *Hooks) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	h.httpInFlight.Dec()
	h.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	h.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Hooks)(nil)
	_ observability.CacheHooks    = (*Hooks)(nil)
	_ observability.HTTPHooks     = (*Hooks)(nil)
)
