package service

import (
	"context"

	"github.com/robfig/cron/v3"

	"eventcatalog/internal/platform/logger"
)

// Sweeper runs Manager.Sweep on a cron schedule
type Sweeper struct {
	c *cron.Cron
}

// StartSweeper schedules sweeps with spec, e.g. "@every 1h" or "0 3 * * *"
func StartSweeper(ctx context.Context, m *Manager, spec string) (*Sweeper, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, sweepJob(ctx, m)); err != nil {
		return nil, err
	}
	c.Start()
	logger.Named("session").Info().Str("schedule", spec).Msg("session sweeper started")
	return &Sweeper{c: c}, nil
}

// Stop waits for a running sweep to finish
func (s *Sweeper) Stop() {
	if s == nil || s.c == nil {
		return
	}
	<-s.c.Stop().Done()
}

func sweepJob(ctx context.Context, m *Manager) func() {
	log := logger.Named("session")
	return func() {
		if ctx.Err() != nil {
			return
		}
		res, err := m.Sweep(ctx)
		if err != nil {
			log.Error().Err(err).Msg("session sweep failed")
			return
		}
		log.Info().Int64("removed", res.Removed).Time("before", res.Before).Msg("session sweep")
	}
}
