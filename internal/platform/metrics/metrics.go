// Package metrics exposes prometheus collectors for http, database and listing activity
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"eventcatalog/internal/platform/store/pg"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventcatalog_http_requests_total",
		Help: "HTTP requests processed.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eventcatalog_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	dbLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eventcatalog_db_latency_seconds",
		Help:    "Database statement latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "route"})

	listingQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventcatalog_listing_queries_total",
		Help: "Listing queries by view and whether a filter was active.",
	}, []string{"view", "filtered"})

	projections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventcatalog_series_projections_total",
		Help: "Series projection attempts by outcome.",
	}, []string{"outcome"})
)

// Middleware records request count and latency labelled by chi route pattern
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			// the pattern is only complete once routing finished
			route := routeFromContext(r.Context())
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// Handler serves the prometheus scrape endpoint
func Handler() http.Handler { return promhttp.Handler() }

// ObserveDBLatency records one database operation
func ObserveDBLatency(ctx context.Context, operation string, start time.Time) {
	dbLatency.WithLabelValues(operation, routeFromContext(ctx)).Observe(time.Since(start).Seconds())
}

// QueryTracer reports postgres statement latency, labelled by sql verb
func QueryTracer() pg.QueryTracer {
	return pg.TracerFunc(func(ctx context.Context, ev pg.QueryEvent) {
		dbLatency.WithLabelValues(Operation(ev.SQL), routeFromContext(ctx)).
			Observe(float64(ev.ElapsedUS) / 1e6)
	})
}

// CountListing counts a listing query for view
func CountListing(view string, filtered bool) {
	listingQueries.WithLabelValues(view, strconv.FormatBool(filtered)).Inc()
}

// CountProjection counts a projection outcome, e.g. "projected", "occupied", "none"
func CountProjection(outcome string) {
	projections.WithLabelValues(outcome).Inc()
}

// Operation is the lowercased leading sql keyword, "with" queries included
func Operation(sql string) string {
	f := strings.Fields(sql)
	if len(f) == 0 {
		return "unknown"
	}
	return strings.ToLower(f[0])
}

// routeFromContext reads chi's route pattern so labels stay low cardinality
func routeFromContext(ctx context.Context) string {
	if rctx := chi.RouteContext(ctx); rctx != nil {
		if p := strings.TrimSpace(rctx.RoutePattern()); p != "" {
			return p
		}
	}
	return "unmatched"
}
