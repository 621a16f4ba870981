// Package metrics exposes timeline and notification metrics for Prometheus
// on a private registry.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heartmarshall/ntmanager-backend/internal/domain"
	"github.com/heartmarshall/ntmanager-backend/internal/service/timeline"
)

const namespace = "ntmanager"

// Metrics holds the collectors.
type Metrics struct {
	registry *prometheus.Registry

	entries       prometheus.Gauge
	delayed       prometheus.Gauge
	highlighted   prometheus.Gauge
	paidToday     prometheus.Gauge
	avgResolution prometheus.Gauge
	connected     prometheus.Gauge
	updates       prometheus.Counter
	notifications *prometheus.CounterVec
	notifiedItems *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// New creates the collectors and registers them, plus the Go and process
// collectors, on a fresh registry.
func New() *Metrics {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "timeline",
			Name:      name,
			Help:      help,
		})
	}

	m := &Metrics{
		registry:      prometheus.NewRegistry(),
		entries:       gauge("entries", "Completed items currently on the timeline."),
		delayed:       gauge("delayed_entries", "Timeline entries completed after their SLA."),
		highlighted:   gauge("highlighted_entries", "Timeline entries inside the highlight window."),
		paidToday:     gauge("paid_today", "Timeline entries completed on the current local day."),
		avgResolution: gauge("avg_resolution_seconds", "Mean resolution time of timeline entries."),
		connected:     gauge("connected", "1 when both live subscriptions are healthy."),
		updates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "timeline",
			Name:      "updates_total",
			Help:      "Timeline views published.",
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "notifications_total",
			Help:      "Notifications emitted, by kind.",
		}, []string{"kind"}),
		notifiedItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "notified_items_total",
			Help:      "Items covered by emitted notifications, by kind.",
		}, []string{"kind"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served, by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency, by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.entries, m.delayed, m.highlighted, m.paidToday, m.avgResolution, m.connected,
		m.updates, m.notifications, m.notifiedItems,
		m.httpRequests, m.httpDuration,
	)
	return m
}

// ObserveTimeline updates the timeline gauges from a view. Register it with
// Reconciler.OnChange.
func (m *Metrics) ObserveTimeline(v timeline.View) {
	m.updates.Inc()
	m.entries.Set(float64(len(v.Entries)))
	m.highlighted.Set(float64(len(v.Highlighted)))
	m.paidToday.Set(float64(v.Stats.PaidToday))
	m.connected.Set(boolFloat(v.Connected))

	var delayed, samples int
	var total float64
	for _, e := range v.Entries {
		if e.IsDelayed {
			delayed++
		}
		if e.HasResolution {
			samples++
			total += e.Resolution.Seconds()
		}
	}
	m.delayed.Set(float64(delayed))
	if samples > 0 {
		m.avgResolution.Set(total / float64(samples))
	} else {
		m.avgResolution.Set(0)
	}
}

// Notify implements batch.Sink by counting the notification.
func (m *Metrics) Notify(_ context.Context, n domain.Notification) error {
	m.notifications.WithLabelValues(string(n.Kind)).Inc()
	m.notifiedItems.WithLabelValues(string(n.Kind)).Add(float64(n.Count))
	return nil
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// GaugeFunc registers a gauge whose value is read from fn at scrape time.
func (m *Metrics) GaugeFunc(subsystem, name, help string, fn func() float64) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, fn))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
