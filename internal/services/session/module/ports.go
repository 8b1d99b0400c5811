package module

import (
	"eventcatalog/internal/core/prefs"
	"eventcatalog/internal/platform/net/middleware"
	sesssvc "eventcatalog/internal/services/session/service"
)

// Ports is what other modules and the API stack get from sessions
type Ports struct {
	Sessions middleware.SessionPort
	Prefs    prefs.Backend
	Manager  *sesssvc.Manager
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
