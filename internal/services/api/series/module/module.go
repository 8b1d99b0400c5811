// Package module wires series into the API using modkit
package module

import (
	"eventcatalog/internal/core/prefs"
	modkit "eventcatalog/internal/modkit"
	"eventcatalog/internal/modkit/httpkit"
	str "eventcatalog/internal/platform/strings"
	serieshttp "eventcatalog/internal/services/api/series/http"
	seriesrepo "eventcatalog/internal/services/api/series/repo"
	seriessvc "eventcatalog/internal/services/api/series/service"
)

// Module implements the series module
type Module struct {
	deps  modkit.Deps
	b     modkit.Built
	svc   seriessvc.Service
	ports Ports
	http  serieshttp.Options
}

// New constructs the series module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	deps = deps.WithDefaults()
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("series"),
		modkit.WithPrefix("/series"),
		modkit.WithNamespace(prefs.Series),
	}, opts...)...)

	defaults := seriessvc.Defaults()
	defaults.RPP = deps.Cfg.Prefix("CORE_LISTING_").MayPositiveInt("SERIES_RPP", defaults.RPP)

	svc := seriessvc.New(deps.PG, seriesrepo.NewPG(), seriessvc.Config{
		Defaults:  defaults,
		Policy:    deps.Policy,
		Projector: deps.Projector,
		Now:       deps.Clock,
	})

	return &Module{
		deps:  deps,
		b:     b,
		svc:   svc,
		ports: Ports{Series: svc, Projections: Projections{Svc: svc}},
		http: serieshttp.Options{
			Listing: httpkit.Listing{Prefs: deps.Prefs, Namespace: b.Namespace, Defaults: defaults},
			Limiter: deps.Limiter,
		},
	}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { serieshttp.Register(rr, m.svc, m.http) })
}

// Ports returns the series ports
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.b.Name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.b.Prefix) }
