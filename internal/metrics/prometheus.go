package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rpggio/zotswipe/internal/domain/listing"
)

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	Registry        *prometheus.Registry
	ListingsCreated prometheus.Counter
	RequestLatency  *prometheus.HistogramVec
	RequestErrors   *prometheus.CounterVec
}

// New registers the listing, request and runtime collectors under namespace.
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		ListingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_created_total",
			Help:      "Total number of listings created.",
		}),
		RequestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RequestErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_request_errors_total",
			Help:      "Total number of HTTP responses with status 400 or above.",
		}, []string{"method", "route", "status"}),
	}

	registry.MustRegister(
		m.ListingsCreated,
		m.RequestLatency,
		m.RequestErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Middleware records latency and error responses per chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		m.RequestLatency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		if status >= http.StatusBadRequest {
			m.RequestErrors.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		}
	})
}

// Publisher counts created listings before handing them to next, which may
// be nil.
func (m *Metrics) Publisher(next listing.EventPublisher) listing.EventPublisher {
	return &countingPublisher{created: m.ListingsCreated, next: next}
}

type countingPublisher struct {
	created prometheus.Counter
	next    listing.EventPublisher
}

func (p *countingPublisher) PublishCreated(ctx context.Context, l listing.Listing) error {
	p.created.Inc()
	if p.next == nil {
		return nil
	}
	return p.next.PublishCreated(ctx, l)
}
