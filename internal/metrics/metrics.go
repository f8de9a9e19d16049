// Package metrics exposes cache and render activity as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/specialistvlad/forestgrid/internal/flyweight"
)

const namespace = "forestgrid"

// Recorder implements flyweight.Observer on top of its own Prometheus
// registry, so several applications in one process do not collide.
type Recorder struct {
	registry *prometheus.Registry

	hits      *prometheus.CounterVec
	misses    *prometheus.CounterVec
	evictions *prometheus.CounterVec
	failures  *prometheus.CounterVec
	payloads  prometheus.Gauge
	rendered  prometheus.Counter
}

var _ flyweight.Observer = (*Recorder)(nil)

// NewRecorder creates a Recorder with every metric registered.
func NewRecorder() *Recorder {
	byCategory := []string{"category"}
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Count of payload requests served from the cache.",
		}, byCategory),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Count of payloads constructed because they were not cached.",
		}, byCategory),
		evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "evictions_total",
			Help:      "Count of payloads dropped by a bounded cache.",
		}, byCategory),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "construction_failures_total",
			Help:      "Count of failed payload constructions.",
		}, byCategory),
		payloads: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "payloads",
			Help:      "Number of distinct payloads currently cached.",
		}),
		rendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "placements_rendered_total",
			Help:      "Count of placements rendered across all passes.",
		}),
	}

	r.registry.MustRegister(
		r.hits,
		r.misses,
		r.evictions,
		r.failures,
		r.payloads,
		r.rendered,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// CacheHit implements flyweight.Observer.
func (r *Recorder) CacheHit(key flyweight.Key) {
	r.hits.WithLabelValues(key.Category).Inc()
}

// CacheMiss implements flyweight.Observer. Every miss that returns without
// error has stored a new payload.
func (r *Recorder) CacheMiss(key flyweight.Key) {
	r.misses.WithLabelValues(key.Category).Inc()
	r.payloads.Inc()
}

// PayloadEvicted implements flyweight.Observer.
func (r *Recorder) PayloadEvicted(key flyweight.Key) {
	r.evictions.WithLabelValues(key.Category).Inc()
	r.payloads.Dec()
}

// ConstructionFailed implements flyweight.Observer.
func (r *Recorder) ConstructionFailed(key flyweight.Key, _ error) {
	r.failures.WithLabelValues(key.Category).Inc()
}

// RecordRender adds n rendered placements.
func (r *Recorder) RecordRender(n int) {
	r.rendered.Add(float64(n))
}

// Registry returns the registry the metrics are registered with.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
