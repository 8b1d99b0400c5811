// Package module wires visitor sessions into the API using modkit
package module

import (
	modkit "eventcatalog/internal/modkit"
	"eventcatalog/internal/modkit/httpkit"
	str "eventcatalog/internal/platform/strings"
	sesshttp "eventcatalog/internal/services/session/http"
	sessrepo "eventcatalog/internal/services/session/repo"
	sesssvc "eventcatalog/internal/services/session/service"
)

// Module implements the session module
type Module struct {
	deps  modkit.Deps
	b     modkit.Built
	ports Ports
	svc   *sesssvc.Manager
}

// New constructs the session module; without Postgres sessions live in process
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("session"), modkit.WithPrefix("/session")}, opts...)...)

	var repo sessrepo.Repo
	if deps.PG != nil {
		repo = sessrepo.NewPG().Bind(deps.PG)
	} else {
		repo = sessrepo.NewMemory()
	}

	opt := sesssvc.OptionsFromEnv(deps.Cfg.Prefix("CORE_SESSION_"))
	opt.Now = deps.Now
	svc := sesssvc.New(repo, opt)

	return &Module{
		deps:  deps,
		b:     b,
		svc:   svc,
		ports: Ports{Sessions: svc, Prefs: svc, Manager: svc},
	}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { sesshttp.Register(rr, m.svc) })
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.b.Name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.b.Prefix) }
