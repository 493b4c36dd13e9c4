package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nerrad567/targetplatform/internal/relay"
	"github.com/nerrad567/targetplatform/internal/target"
)

// metricsNamespace prefixes every exported metric.
const metricsNamespace = "targetplatform"

// Metrics holds the service's Prometheus registry.
//
// Exported metrics:
//   - targetplatform_http_requests_total{method,route,status}
//   - targetplatform_http_request_duration_seconds{method,route}
//   - targetplatform_device_events_total{variant,kind}
//   - targetplatform_target_devices{variant}
//   - targetplatform_targets_created
//   - targetplatform_websocket_clients
//
// plus the Go runtime and process collectors.
type Metrics struct {
	registry     *prometheus.Registry
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	deviceEvents *prometheus.CounterVec
}

// NewMetrics creates a registry reporting on m's targets and hub's clients.
func NewMetrics(m *target.Module, hub *Hub) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		newModuleCollector(m),
	)

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "websocket_clients",
		Help:      "Number of connected WebSocket clients",
	}, func() float64 { return float64(hub.ClientCount()) })

	return &Metrics{
		registry: reg,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status",
		}, []string{"method", "route", "status"}),

		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		deviceEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "device_events_total",
			Help:      "Device discovered/lost events by variant",
		}, []string{"variant", "kind"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Deliver counts a relayed device event.
func (m *Metrics) Deliver(_ context.Context, ev relay.Event) error {
	m.deviceEvents.WithLabelValues(ev.Variant, string(ev.Kind)).Inc()
	return nil
}

// middleware records request counts and durations by chi route pattern,
// so /targets/LinuxServer and /targets/LinuxClient share one series.
func (m *Metrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := wrapWriter(w, r)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(statusOf(ww))).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// moduleCollector reports per-target device counts at scrape time.
type moduleCollector struct {
	module  *target.Module
	devices *prometheus.Desc
	created *prometheus.Desc
}

func newModuleCollector(m *target.Module) *moduleCollector {
	return &moduleCollector{
		module: m,
		devices: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "", "target_devices"),
			"Registered devices per target variant, excluding the local device",
			[]string{"variant"}, nil,
		),
		created: prometheus.NewDesc(
			prometheus.BuildFQName(metricsNamespace, "", "targets_created"),
			"Number of target variants instantiated so far",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *moduleCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.devices
	ch <- c.created
}

// Collect implements prometheus.Collector.
func (c *moduleCollector) Collect(ch chan<- prometheus.Metric) {
	targets := c.module.Targets()
	ch <- prometheus.MustNewConstMetric(c.created, prometheus.GaugeValue, float64(len(targets)))
	for _, t := range targets {
		ch <- prometheus.MustNewConstMetric(c.devices, prometheus.GaugeValue,
			float64(t.Registry().Count()), t.Name())
	}
}
