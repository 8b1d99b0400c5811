// Package module wires the activity feed into the API using modkit
package module

import (
	"eventcatalog/internal/core/prefs"
	modkit "eventcatalog/internal/modkit"
	"eventcatalog/internal/modkit/httpkit"
	"eventcatalog/internal/modkit/repokit"
	str "eventcatalog/internal/platform/strings"
	activityhttp "eventcatalog/internal/services/api/activity/http"
	activityrepo "eventcatalog/internal/services/api/activity/repo"
	activitysvc "eventcatalog/internal/services/api/activity/service"
)

// Module implements the activity module
type Module struct {
	deps modkit.Deps
	b    modkit.Built
	svc  activitysvc.Service
	http activityhttp.Options
}

// New constructs the activity module; clickhouse serves the feed when configured
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("activity"),
		modkit.WithPrefix("/activity"),
		modkit.WithNamespace(prefs.Pages),
	}, opts...)...)

	defaults := activitysvc.Defaults()
	defaults.RPP = deps.Cfg.Prefix("CORE_LISTING_").MayPositiveInt("ACTIVITY_RPP", defaults.RPP)

	var r activityrepo.Repo
	switch source(deps) {
	case "ch":
		if deps.CH == nil {
			deps.Log.Panic().Msg("activity source ch needs clickhouse")
		}
		r = activityrepo.NewCH(deps.CH)
	default:
		r = repokit.MustBind(activityrepo.NewPG(), deps.PG)
	}
	svc := activitysvc.New(r, defaults)

	return &Module{
		deps: deps,
		b:    b,
		svc:  svc,
		http: activityhttp.Options{
			Listing: httpkit.Listing{Prefs: deps.Prefs, Namespace: b.Namespace, Defaults: defaults},
			Limiter: deps.Limiter,
		},
	}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { activityhttp.Register(rr, m.svc, m.http) })
}

// Ports returns the activity service port
func (m *Module) Ports() any { return m.svc }

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.b.Name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.b.Prefix) }

// source reads CORE_LISTING_ACTIVITY_SOURCE; auto picks clickhouse when it is open
func source(deps modkit.Deps) string {
	src := deps.Cfg.Prefix("CORE_LISTING_").MayEnum("ACTIVITY_SOURCE", "auto", "auto", "pg", "ch")
	if src != "auto" {
		return src
	}
	if deps.CH != nil {
		return "ch"
	}
	return "pg"
}
