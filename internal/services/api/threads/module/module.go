// Package module wires forum threads into the API using modkit
package module

import (
	"eventcatalog/internal/core/prefs"
	modkit "eventcatalog/internal/modkit"
	"eventcatalog/internal/modkit/httpkit"
	str "eventcatalog/internal/platform/strings"
	threadshttp "eventcatalog/internal/services/api/threads/http"
	threadsrepo "eventcatalog/internal/services/api/threads/repo"
	threadssvc "eventcatalog/internal/services/api/threads/service"
)

// Module implements the threads module
type Module struct {
	deps modkit.Deps
	b    modkit.Built
	svc  threadssvc.Service
	http threadshttp.Options
}

// New constructs the threads module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("threads"),
		modkit.WithPrefix("/threads"),
		modkit.WithNamespace(prefs.Threads),
	}, opts...)...)

	defaults := threadssvc.Defaults()
	defaults.RPP = deps.Cfg.Prefix("CORE_LISTING_").MayPositiveInt("THREADS_RPP", defaults.RPP)
	svc := threadssvc.New(deps.PG, threadsrepo.NewPG(), deps.Policy, defaults)

	return &Module{
		deps: deps,
		b:    b,
		svc:  svc,
		http: threadshttp.Options{
			Listing: httpkit.Listing{Prefs: deps.Prefs, Namespace: b.Namespace, Defaults: defaults},
			Limiter: deps.Limiter,
		},
	}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { threadshttp.Register(rr, m.svc, m.http) })
}

// Ports returns the threads service port
func (m *Module) Ports() any { return m.svc }

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.b.Name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.b.Prefix) }
