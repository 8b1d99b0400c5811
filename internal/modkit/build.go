package modkit

import (
	"net/http"

	"eventcatalog/internal/modkit/httpkit"
)

// Built is a plain struct with the fields modules care about
type Built struct {
	Name      string
	Prefix    string
	Namespace string
	Mw        []func(http.Handler) http.Handler
	Ports     any
	Register  func(httpkit.Router)
}

// Build applies Option funcs and returns a plain struct
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	if c.register == nil {
		c.register = func(httpkit.Router) {}
	}
	return Built{
		Name:      c.name,
		Prefix:    c.prefix,
		Namespace: c.namespace,
		Mw:        append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:     c.ports,
		Register:  c.register,
	}
}

// Mount is the shared MountRoutes body: prefix and middlewares,
// then the module's own routes and any external ones
func (b Built) Mount(r httpkit.Router, own func(httpkit.Router)) {
	httpkit.MountUnder(r, b.Prefix, b.Mw, func(rr httpkit.Router) {
		own(rr)
		b.Register(rr)
	})
}
