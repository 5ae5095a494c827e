// Package telemetry provides Prometheus metrics and tracing for the pinned navigation service.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "pinned-nav"

// Drop reasons recorded by the resolver.
const (
	DropNotFound   = "not_found"
	DropNotVisible = "not_visible"
	DropStoreError = "store_error"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	// Curation protocol
	CurationRequests *prometheus.CounterVec
	SavedItems       prometheus.Gauge
	SearchResults    prometheus.Histogram

	// Resolution
	ResolveDuration prometheus.Histogram
	DroppedRefs     *prometheus.CounterVec

	// Options cache
	CacheLookups *prometheus.CounterVec
}

// Provider wraps telemetry providers.
type Provider struct {
	Tracer   trace.Tracer
	Metrics  *Metrics
	gatherer prometheus.Gatherer
}

// NewProvider registers metrics with the default Prometheus registry.
func NewProvider() *Provider {
	return &Provider{
		Tracer:   otel.Tracer(serviceName),
		Metrics:  NewMetrics(prometheus.DefaultRegisterer),
		gatherer: prometheus.DefaultGatherer,
	}
}

// NewTestProvider registers metrics with a private registry.
func NewTestProvider() *Provider {
	reg := prometheus.NewRegistry()
	return &Provider{
		Tracer:   otel.Tracer(serviceName),
		Metrics:  NewMetrics(reg),
		gatherer: reg,
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}

// NewMetrics creates the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{}

	m.CurationRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "pinned_nav_curation_requests_total",
		Help: "Curation protocol requests by operation and outcome",
	}, []string{"operation", "outcome"})

	m.SavedItems = factory.NewGauge(prometheus.GaugeOpts{
		Name: "pinned_nav_saved_items",
		Help: "Number of references in the most recently saved list",
	})

	m.SearchResults = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "pinned_nav_search_results",
		Help:    "Candidates returned per search",
		Buckets: []float64{0, 1, 5, 10, 20, 50},
	})

	m.ResolveDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "pinned_nav_resolve_duration_seconds",
		Help:    "Time to resolve the pinned list into render entries",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	})

	m.DroppedRefs = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "pinned_nav_dropped_references_total",
		Help: "References skipped during resolution by reason",
	}, []string{"reason"})

	m.CacheLookups = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "pinned_nav_options_cache_lookups_total",
		Help: "Options cache lookups by result (hit, miss, error)",
	}, []string{"result"})

	return m
}

// The recording helpers below accept a nil Provider so that callers built
// without telemetry need no guards.

// StartSpan starts a span named name.
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if p == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// RecordCuration counts a curation request by operation and outcome.
func (p *Provider) RecordCuration(operation, outcome string) {
	if p == nil {
		return
	}
	p.Metrics.CurationRequests.WithLabelValues(operation, outcome).Inc()
}

// RecordSaved records the size of the list just saved.
func (p *Provider) RecordSaved(n int) {
	if p == nil {
		return
	}
	p.Metrics.SavedItems.Set(float64(n))
}

// RecordSearchResults records how many candidates a search returned.
func (p *Provider) RecordSearchResults(n int) {
	if p == nil {
		return
	}
	p.Metrics.SearchResults.Observe(float64(n))
}

// ObserveResolve records the duration of one resolution.
func (p *Provider) ObserveResolve(d time.Duration) {
	if p == nil {
		return
	}
	p.Metrics.ResolveDuration.Observe(d.Seconds())
}

// RecordDrop counts a reference skipped during resolution.
func (p *Provider) RecordDrop(reason string) {
	if p == nil {
		return
	}
	p.Metrics.DroppedRefs.WithLabelValues(reason).Inc()
}

// RecordCacheLookup counts an options cache lookup by result.
func (p *Provider) RecordCacheLookup(result string) {
	if p == nil {
		return
	}
	p.Metrics.CacheLookups.WithLabelValues(result).Inc()
}
