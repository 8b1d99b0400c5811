package httpkit

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventcatalog/internal/platform/net/http/bind"
)

// MountUnder mounts a subrouter at prefix and applies per-module middlewares
func MountUnder(r Router, prefix string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route(prefix, func(sub Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		mount(sub)
	})
}

// Param is a named path parameter, e.g. {tag}
func Param(r *http.Request, name string) string { return chi.URLParam(r, name) }

// Query flattens the URL query to its first value per key
func Query(r *http.Request) map[string]string { return bind.Query(r) }
