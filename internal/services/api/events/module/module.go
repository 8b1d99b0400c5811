// Package module wires events into the API using modkit
package module

import (
	"eventcatalog/internal/core/prefs"
	modkit "eventcatalog/internal/modkit"
	"eventcatalog/internal/modkit/httpkit"
	str "eventcatalog/internal/platform/strings"
	"eventcatalog/internal/services/api/events/domain"
	eventshttp "eventcatalog/internal/services/api/events/http"
	eventsrepo "eventcatalog/internal/services/api/events/repo"
	eventssvc "eventcatalog/internal/services/api/events/service"
)

// Module implements the events module
type Module struct {
	deps  modkit.Deps
	b     modkit.Built
	svc   eventssvc.Service
	ports any
	http  eventshttp.Options
}

// New constructs the events module
// series projections come in through WithPorts as a domain.Projections
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("events"),
		modkit.WithPrefix("/events"),
		modkit.WithNamespace(prefs.Events),
	}, opts...)...)

	lc := deps.Cfg.Prefix("CORE_LISTING_")
	defaults := eventssvc.Defaults()
	defaults.RPP = lc.MayPositiveInt("EVENTS_RPP", defaults.RPP)
	defaults.GridRPP = lc.MayPositiveInt("EVENTS_GRID_RPP", defaults.GridRPP)

	proj, _ := b.Ports.(domain.Projections)
	svc := eventssvc.New(deps.PG, eventsrepo.NewPG(), eventssvc.Config{
		Defaults: defaults,
		RPP: eventssvc.RPP{
			List: lc.MayPositiveInt("LIST_RPP", 10),
			Week: lc.MayPositiveInt("WEEK_RPP", 7),
			Feed: lc.MayPositiveInt("FEED_RPP", 10000),
		},
		Policy:      deps.Policy,
		Location:    deps.Loc(),
		Now:         deps.Clock,
		Projections: proj,
		FeedDays:    lc.MayPositiveInt("FEED_DAYS", 90),
	})

	return &Module{
		deps:  deps,
		b:     b,
		svc:   svc,
		ports: svc,
		http: eventshttp.Options{
			Listing:  httpkit.Listing{Prefs: deps.Prefs, Namespace: b.Namespace, Defaults: defaults},
			Limiter:  deps.Limiter,
			Location: deps.Loc(),
			Now:      deps.Clock,
			FeedName: lc.MayString("FEED_NAME", "Events"),
		},
	}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { eventshttp.Register(rr, m.svc, m.http) })
}

// Ports returns the events service port
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.b.Name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.b.Prefix) }
