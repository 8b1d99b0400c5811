package module

import (
	"context"
	"time"

	"eventcatalog/internal/core/visibility"
	eventsdomain "eventcatalog/internal/services/api/events/domain"
	"eventcatalog/internal/services/api/series/domain"
)

// Ports is what the series module exposes to other modules
type Ports struct {
	Series      domain.ServicePort
	Projections Projections
}

// Projections adapts series occurrences to the events feed
type Projections struct {
	Svc domain.ServicePort
}

var _ eventsdomain.Projections = Projections{}

// Projected lists every visible series occurrence in [from, to)
func (p Projections) Projected(ctx context.Context, id visibility.Identity, from, to time.Time) ([]eventsdomain.Projection, error) {
	occ, err := p.Svc.Occurrences(ctx, id, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]eventsdomain.Projection, 0, len(occ))
	for _, o := range occ {
		out = append(out, eventsdomain.Projection{
			SeriesID:   o.Row.ID,
			Name:       o.Row.Name,
			Slug:       o.Row.Slug,
			StartAt:    o.StartAt,
			EndAt:      o.EndAt,
			VenueName:  o.Row.VenueName,
			EventType:  o.Row.EventType,
			Visibility: o.Row.Visibility,
			Tags:       o.Row.Tags,
			Entities:   o.Row.Entities,
		})
	}
	return out, nil
}
