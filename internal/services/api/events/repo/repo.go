// Package repo provides postgres access for events
package repo

import (
	"context"
	"time"

	"eventcatalog/internal/core/listing"
	"eventcatalog/internal/core/predicate"
	"eventcatalog/internal/modkit/repokit"
	"eventcatalog/internal/services/api/events/domain"
)

// Repo is the minimal persistence surface for events
type Repo interface {
	List(ctx context.Context, q listing.Query) ([]domain.Event, int, error)
}

// Schema maps event fields and associations to SQL
var Schema = predicate.Schema{
	Columns: map[string]string{
		"id":           "e.id",
		"name":         "e.name",
		"slug":         "e.slug",
		"start_at":     "e.start_at",
		"created_at":   "e.created_at",
		"visibility":   "e.visibility",
		"created_by":   "e.created_by",
		"venue_name":   "v.name",
		"event_type":   "ty.name",
		"series_slug":  "s.slug",
		"cancelled_at": "e.cancelled_at",
	},
	Assocs: map[string]string{
		"tags": `exists (select 1 from event_tags et join tags t on t.id = et.tag_id
where et.event_id = e.id and t.name = %s)`,
		"entities": `exists (select 1 from event_entities ee join entities en on en.id = ee.entity_id
where ee.event_id = e.id and en.name = %s)`,
	},
}

var source = repokit.Source{
	Select: `
select e.id, e.name, e.slug, e.description, e.start_at, e.end_at,
coalesce(v.name, ''), coalesce(ty.name, ''), coalesce(s.slug, ''),
e.visibility, coalesce(e.created_by, 0),
coalesce((select array_agg(t.name order by t.name) from event_tags et join tags t on t.id = et.tag_id where et.event_id = e.id), '{}'),
coalesce((select array_agg(en.name order by en.name) from event_entities ee join entities en on en.id = ee.entity_id where ee.event_id = e.id), '{}')`,
	From: `from events e
left join entities v on v.id = e.venue_id
left join event_types ty on ty.id = e.event_type_id
left join series s on s.id = e.series_id`,
	Schema:  Schema,
	Dialect: predicate.Postgres,
	Name:    "events.list",
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) List(ctx context.Context, q listing.Query) ([]domain.Event, int, error) {
	st, err := source.Render(q)
	if err != nil {
		return nil, 0, err
	}
	return repokit.FetchPage(ctx, r.q, st, scanEvent)
}

func scanEvent(row repokit.Row) (domain.Event, error) {
	var (
		e   domain.Event
		end *time.Time
	)
	err := row.Scan(
		&e.ID, &e.Name, &e.Slug, &e.Description, &e.StartAt, &end,
		&e.VenueName, &e.EventType, &e.SeriesSlug,
		&e.Visibility, &e.CreatedBy,
		&e.Tags, &e.Entities,
	)
	e.EndAt = end
	return e, err
}
