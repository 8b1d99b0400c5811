// Package modkit provides module wiring and the shared listing collaborators
package modkit

import (
	"time"

	"eventcatalog/internal/core/prefs"
	"eventcatalog/internal/core/series"
	"eventcatalog/internal/core/visibility"
	"eventcatalog/internal/modkit/httpkit"
	"eventcatalog/internal/modkit/repokit"
	"eventcatalog/internal/platform/config"
	"eventcatalog/internal/platform/logger"
	"eventcatalog/internal/platform/store"
)

// Deps holds core dependencies passed to modules
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse

	// Prefs backs every session's listing preferences
	Prefs prefs.Backend
	// Policy decides what each identity may see
	Policy visibility.Policy
	// Projector fills series slots with synthetic occurrences
	Projector *series.Projector
	// Location is the calendar listings and projections use
	Location *time.Location
	// Now is swapped in tests
	Now func() time.Time
	// Limiter guards preference writes; nil disables limiting
	Limiter *httpkit.RateLimiter
}

// Clock returns the current time from Now, or time.Now
func (d Deps) Clock() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Loc returns Location, or UTC
func (d Deps) Loc() *time.Location {
	if d.Location != nil {
		return d.Location
	}
	return time.UTC
}

// WithDefaults fills unset collaborators with in memory prefs and the embedded rule table
// Policy is left alone since its zero value is a valid strict policy
func (d Deps) WithDefaults() Deps {
	if d.Prefs == nil {
		d.Prefs = prefs.NewMemory()
	}
	if d.Projector == nil {
		d.Projector = series.NewProjector(nil, d.Loc())
	}
	return d
}
