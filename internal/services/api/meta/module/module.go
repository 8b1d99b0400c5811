// Package module wires meta endpoints into the API
package module

import (
	modkit "eventcatalog/internal/modkit"
	"eventcatalog/internal/modkit/httpkit"
	str "eventcatalog/internal/platform/strings"
	metahttp "eventcatalog/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	b    modkit.Built
	deps metahttp.Deps
}

// New constructs a meta module; it owns no listing namespace
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	md := metahttp.Deps{
		ServiceName: deps.Cfg.MayString("SERVICE_NAME", "eventcatalog-api"),
		StartedAt:   deps.Clock(),
		Now:         deps.Clock,
		Projector:   deps.Projector,
	}
	// typed nils would read as present
	if deps.PG != nil {
		md.PG = deps.PG
	}
	if deps.CH != nil {
		md.CH = deps.CH
	}
	return &Module{b: b, deps: md}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.b.Name, "meta") }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return str.MustPrefix(m.b.Prefix) }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
