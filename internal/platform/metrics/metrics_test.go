package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventcatalog/internal/platform/store/pg"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareLabelsByRoute(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/events/tag/{tag}", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/events/tag/{tag}", "200"))
	for _, tag := range []string{"house", "techno"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events/tag/"+tag, nil))
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/events/tag/{tag}", "200"))
	if after-before != 2 {
		t.Fatalf("expected 2 requests on one route label, got %v", after-before)
	}
}

func TestOperation(t *testing.T) {
	cases := map[string]string{
		"select 1":                 "select",
		"\n  INSERT INTO x":        "insert",
		"with t as (select 1) ...": "with",
		"":                         "unknown",
	}
	for in, want := range cases {
		if got := Operation(in); got != want {
			t.Errorf("%q: got %q want %q", in, got, want)
		}
	}
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(listingQueries.WithLabelValues("events.index", "true"))
	CountListing("events.index", true)
	if testutil.ToFloat64(listingQueries.WithLabelValues("events.index", "true"))-before != 1 {
		t.Fatal("listing counter")
	}

	before = testutil.ToFloat64(projections.WithLabelValues("occupied"))
	CountProjection("occupied")
	if testutil.ToFloat64(projections.WithLabelValues("occupied"))-before != 1 {
		t.Fatal("projection counter")
	}
}

func TestQueryTracerObserves(t *testing.T) {
	tr := QueryTracer()
	tr.OnQuery(context.Background(), pg.QueryEvent{SQL: "select 1", ElapsedUS: 1500})
	ObserveDBLatency(context.Background(), "select", time.Now())
	if n := testutil.CollectAndCount(dbLatency); n == 0 {
		t.Fatal("expected db latency series")
	}
}
