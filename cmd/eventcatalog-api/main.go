// @title         Events Catalog API
// @version       0.1.0
// @description   Listing endpoints for events, series, activity and threads

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"eventcatalog/internal/core/series"
	"eventcatalog/internal/modkit/module"
	"eventcatalog/internal/modkit/repokit"
	"eventcatalog/internal/platform/config"
	"eventcatalog/internal/platform/logger"
	phttp "eventcatalog/internal/platform/net/http"
	"eventcatalog/internal/platform/store"
	"eventcatalog/internal/platform/store/schema"
	"eventcatalog/internal/services/api"
	sessionmod "eventcatalog/internal/services/session/module"
	sesssvc "eventcatalog/internal/services/session/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	lc := root.Prefix("CORE_LISTING_")
	l := logger.Get()

	st, err := store.Open(ctx, store.ConfigFromEnv(root, "eventcatalog", "api"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	repokit.MustGuard(ctx, st)

	if st.PG != nil && root.Prefix("SERVICE_PGSQL_").MayBool("MIGRATE", true) {
		if err := schema.Apply(ctx, st.PG); err != nil {
			l.Panic().Err(err).Msg("schema apply failed")
		}
	}

	rules, err := series.LoadRuleFile(lc.MayString("RULES", ""))
	if err != nil {
		l.Panic().Err(err).Msg("occurrence rules")
	}
	loc := lc.MayLocation("TZ", time.UTC)

	srv := phttp.NewServer(apiCfg)
	api.Mount(srv.Router(), api.Options{
		Config:         root,
		Store:          st,
		Logger:         l,
		Projector:      series.NewProjector(rules, loc),
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
		EnableMetrics:  apiCfg.MayBool("METRICS", true),
	})
	l.Info().Strs("modules", module.Names()).Msg("modules registered")
	l.Debug().Strs("routes", api.Routes(srv.Router())).Msg("routes mounted")

	sessions, ok := module.PortsAs[sessionmod.Ports]("session")
	if !ok {
		l.Panic().Msg("session module not registered")
	}
	sweeper, err := sesssvc.StartSweeper(ctx, sessions.Manager, sessions.Manager.Options().Sweep)
	if err != nil {
		l.Panic().Err(err).Msg("session sweeper")
	}
	defer sweeper.Stop()

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
