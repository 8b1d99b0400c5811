// Package api provides the HTTP API for the events catalog
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"eventcatalog/internal/core/series"
	"eventcatalog/internal/core/visibility"
	"eventcatalog/internal/modkit"
	"eventcatalog/internal/modkit/httpkit"
	"eventcatalog/internal/modkit/module"
	"eventcatalog/internal/modkit/repokit"
	"eventcatalog/internal/modkit/swaggerkit"
	"eventcatalog/internal/platform/config"
	"eventcatalog/internal/platform/logger"
	"eventcatalog/internal/platform/metrics"
	phttp "eventcatalog/internal/platform/net/http"
	"eventcatalog/internal/platform/net/middleware"
	"eventcatalog/internal/platform/store"

	activitymod "eventcatalog/internal/services/api/activity/module"
	eventsmod "eventcatalog/internal/services/api/events/module"
	metamod "eventcatalog/internal/services/api/meta/module"
	seriesmod "eventcatalog/internal/services/api/series/module"
	threadsmod "eventcatalog/internal/services/api/threads/module"
	sessionmod "eventcatalog/internal/services/session/module"
)

// Options are the API options
type Options struct {
	// Config is the root env config; modules pick their own prefixes
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	Projector      *series.Projector
	EnableSwagger  bool
	EnableProfiler bool
	EnableMetrics  bool
	// Now is swapped in tests
	Now func() time.Time
}

// Policy reads the visibility policy from CORE_LISTING_*
func Policy(c config.Conf) visibility.Policy {
	p := visibility.DefaultPolicy()
	p.UnlistedListed = c.Prefix("CORE_LISTING_").MayBool("UNLISTED_PUBLIC", p.UnlistedListed)
	return p
}

// Limiter reads the preference write limiter from CORE_API_*
func Limiter(c config.Conf) *httpkit.RateLimiter {
	api := c.Prefix("CORE_API_")
	if !api.MayBool("RATE_LIMIT", true) {
		return nil
	}
	return middleware.NewRateLimiter(middleware.RateLimitOptions{
		RPS:   api.MayFloat64("RATE_LIMIT_RPS", 5),
		Burst: api.MayPositiveInt("RATE_LIMIT_BURST", 10),
	})
}

// Mount mounts the API service onto the given router
// each module's ports land in the module registry under its name
func Mount(r phttp.Router, opt Options) {
	api := opt.Config.Prefix("CORE_API_")
	lc := opt.Config.Prefix("CORE_LISTING_")

	deps := modkit.Deps{
		Cfg:       opt.Config,
		Policy:    Policy(opt.Config),
		Projector: opt.Projector,
		Location:  lc.MayLocation("TZ", time.UTC),
		Now:       opt.Now,
		Limiter:   Limiter(opt.Config),
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}
	if opt.Store != nil {
		if opt.Store.PG != nil {
			deps.PG = repokit.WithBeginHooks(opt.Store.PG, repokit.StatementTimeout(api.MayDuration("STATEMENT_TIMEOUT", 5*time.Second)))
		}
		deps.CH = opt.Store.CH
	}

	// sessions first: every listing module reads prefs through them
	noCache := modkit.WithMiddlewares(middleware.NoCache())
	sessions := sessionmod.New(deps, noCache)
	sp := module.MustPortsOf[sessionmod.Ports](sessions)
	deps.Prefs = sp.Prefs
	deps = deps.WithDefaults()

	// series before events so the feed can project
	seriesMod := seriesmod.New(deps)
	projections := module.MustPortsOf[seriesmod.Ports](seriesMod).Projections

	mods := []module.Module{
		metamod.New(deps, noCache, modkit.WithRegister(func(rr httpkit.Router) {
			httpkit.Get(rr, "/modules", func(*http.Request) (any, error) { return module.Names(), nil })
		})),
		sessions,
		seriesMod,
		eventsmod.New(deps, modkit.WithPorts(projections)),
		activitymod.New(deps),
		threadsmod.New(deps),
	}

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	if opt.EnableMetrics {
		r.Handle("/metrics", metrics.Handler())
	}

	stack := httpkit.CommonStack(httpkit.StackOptions{
		Sessions: sp.Sessions,
		CORS: middleware.CORSOptions{
			AllowedOrigins:   api.MayCSV("CORS_ORIGINS", []string{"*"}),
			AllowCredentials: api.MayBool("CORS_CREDENTIALS", false),
		},
		Timeout: api.MayDuration("TIMEOUT", 30*time.Second),
		SlowLog: api.MayDuration("SLOW_LOG", time.Second),
		Metrics: opt.EnableMetrics,
	})
	httpkit.MountAPIV1(r, stack, func(v1 httpkit.Router) {
		for _, m := range mods {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(v1)
		}
	})
}

// Routes lists every mounted method and route, for startup logging
func Routes(r phttp.Router) []string {
	mux, ok := r.Mux().(chi.Routes)
	if !ok {
		return nil
	}
	var out []string
	_ = chi.Walk(mux, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		out = append(out, method+" "+route)
		return nil
	})
	return out
}
