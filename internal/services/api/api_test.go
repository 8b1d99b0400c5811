package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"eventcatalog/internal/modkit/module"
	"eventcatalog/internal/platform/config"
	phttp "eventcatalog/internal/platform/net/http"
	"eventcatalog/internal/platform/store"
	"eventcatalog/internal/platform/store/storetest"
	"eventcatalog/internal/platform/testkit"
)

func mount(t *testing.T) (http.Handler, phttp.Router) {
	t.Helper()
	testkit.Serial(t)
	t.Cleanup(module.Reset)
	t.Setenv("CORE_SESSION_SECRET", "test-secret")

	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)
	Mount(r, Options{
		Config:        config.New(),
		Store:         &store.Store{PG: storetest.New()},
		EnableMetrics: true,
	})
	return mux, r
}

func TestMountRegistersModules(t *testing.T) {
	_, r := mount(t)
	names := strings.Join(module.Names(), ",")
	if names != "activity,events,series,session,threads" {
		t.Fatalf("registered %s", names)
	}
	routes := strings.Join(Routes(r), "\n")
	for _, want := range []string{
		"GET /api/v1/events/",
		"GET /api/v1/events/feed.ics",
		"POST /api/v1/series/filter",
		"GET /api/v1/activity/",
		"GET /api/v1/meta/ready",
		"GET /metrics",
	} {
		testkit.MustContain(t, routes, want)
	}
}

func TestListingIssuesSession(t *testing.T) {
	h, _ := mount(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	testkit.MustContain(t, rec.Header().Get("Set-Cookie"), "eventcatalog_session=")
	testkit.MustContain(t, rec.Body.String(), `"future"`)
}

func TestMetaListsModulesUncached(t *testing.T) {
	h, _ := mount(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/meta/modules", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	testkit.MustContain(t, rec.Body.String(), `"series"`)
	testkit.MustContain(t, rec.Header().Get("Cache-Control"), "no-cache")
}
