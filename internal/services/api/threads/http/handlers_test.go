package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"eventcatalog/internal/core/filters"
	"eventcatalog/internal/core/prefs"
	"eventcatalog/internal/modkit/httpkit"
	pnet "eventcatalog/internal/platform/net"
	phttp "eventcatalog/internal/platform/net/http"
	"eventcatalog/internal/platform/net/middleware"
	"eventcatalog/internal/services/api/threads/domain"
	svc "eventcatalog/internal/services/api/threads/service"
)

type fakeSvc struct{ last domain.Request }

func (f *fakeSvc) List(_ context.Context, req domain.Request) (domain.Listing, error) {
	f.last = req
	return domain.Listing{Filters: req.State.Filters, SortBy: req.State.SortBy}, nil
}

func newRouter(limiter *httpkit.RateLimiter, uid string) (http.Handler, *fakeSvc) {
	f := &fakeSvc{}
	mux := chi.NewRouter()
	mux.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := pnet.WithRequest(r.Context(), "", "s1")
			next.ServeHTTP(w, r.WithContext(pnet.WithUser(ctx, uid)))
		})
	})
	phttp.AdaptChi(mux).Route("/threads", func(rr httpkit.Router) {
		Register(rr, f, Options{
			Listing: httpkit.Listing{Prefs: prefs.NewMemory(), Namespace: prefs.Threads, Defaults: svc.Defaults()},
			Limiter: limiter,
		})
	})
	return mux, f
}

func do(h http.Handler, method, path, body string) int {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestListPassesIdentity(t *testing.T) {
	h, f := newRouter(nil, "12")
	if code := do(h, http.MethodGet, "/threads?filter_category=gigs", ""); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if uid, ok := f.last.Identity.ID(); !ok || uid != 12 {
		t.Fatalf("identity %+v", f.last.Identity)
	}
	if f.last.State.Filters.Get(filters.KeyCategory) != "gigs" {
		t.Fatalf("filters %+v", f.last.State.Filters)
	}
}

func TestFilterPopularThenReset(t *testing.T) {
	h, f := newRouter(nil, "")
	if code := do(h, http.MethodPost, "/threads/filter", `{"filter_popular":"1"}`); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if f.last.State.Filters.Get(filters.KeyPopular) == "" {
		t.Fatalf("popular not stored: %+v", f.last.State.Filters)
	}
	if code := do(h, http.MethodPost, "/threads/reset", ""); code != http.StatusOK {
		t.Fatalf("reset status %d", code)
	}
	if prefs.IsFiltered(f.last.State) {
		t.Fatalf("still filtered: %+v", f.last.State)
	}
}

func TestFilterIsRateLimited(t *testing.T) {
	h, _ := newRouter(middleware.NewRateLimiter(middleware.RateLimitOptions{RPS: 0.001, Burst: 1}), "")
	if code := do(h, http.MethodPost, "/threads/filter", `{}`); code != http.StatusOK {
		t.Fatalf("first status %d", code)
	}
	if code := do(h, http.MethodPost, "/threads/filter", `{}`); code != http.StatusTooManyRequests {
		t.Fatalf("second status %d", code)
	}
	if code := do(h, http.MethodGet, "/threads", ""); code != http.StatusOK {
		t.Fatalf("list should not be limited, got %d", code)
	}
}
