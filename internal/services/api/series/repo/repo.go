// Package repo provides postgres access for series
package repo

import (
	"context"
	"time"

	"eventcatalog/internal/core/listing"
	"eventcatalog/internal/core/predicate"
	"eventcatalog/internal/modkit/repokit"
	"eventcatalog/internal/platform/store"
	ptime "eventcatalog/internal/platform/time"
	"eventcatalog/internal/services/api/series/domain"
)

// Repo is the minimal persistence surface for series
type Repo interface {
	List(ctx context.Context, q listing.Query) ([]domain.Row, int, error)
	// Starts returns the start of every concrete event of each series from from on
	Starts(ctx context.Context, ids []int64, from time.Time) (map[int64][]time.Time, error)
}

// Schema maps series fields and associations to SQL
var Schema = predicate.Schema{
	Columns: map[string]string{
		"id":              "s.id",
		"name":            "s.name",
		"slug":            "s.slug",
		"visibility":      "s.visibility",
		"created_by":      "s.created_by",
		"created_at":      "s.created_at",
		"founded_at":      "s.founded_at",
		"cancelled_at":    "s.cancelled_at",
		"occurrence_type": "s.occurrence_type",
		"venue_name":      "v.name",
		"event_type":      "ty.name",
	},
	Assocs: map[string]string{
		"tags": `exists (select 1 from series_tags st join tags t on t.id = st.tag_id
where st.series_id = s.id and t.name = %s)`,
		"entities": `exists (select 1 from series_entities se join entities en on en.id = se.entity_id
where se.series_id = s.id and en.name = %s)`,
	},
}

var source = repokit.Source{
	Select: `
select s.id, s.name, s.slug, s.description,
s.occurrence_type, coalesce(s.occurrence_day, 0), coalesce(s.occurrence_week, 0),
coalesce(s.founded_at, s.created_at::date), s.cancelled_at,
coalesce(s.start_time::text, ''), coalesce(s.end_time::text, ''), coalesce(s.length_minutes, 0),
coalesce(v.name, ''), coalesce(ty.name, ''), s.visibility, coalesce(s.created_by, 0),
coalesce((select array_agg(t.name order by t.name) from series_tags st join tags t on t.id = st.tag_id where st.series_id = s.id), '{}'),
coalesce((select array_agg(en.name order by en.name) from series_entities se join entities en on en.id = se.entity_id where se.series_id = s.id), '{}')`,
	From: `from series s
left join entities v on v.id = s.venue_id
left join event_types ty on ty.id = s.event_type_id`,
	Schema:  Schema,
	Dialect: predicate.Postgres,
	Name:    "series.list",
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

func (r *queries) List(ctx context.Context, q listing.Query) ([]domain.Row, int, error) {
	st, err := source.Render(q)
	if err != nil {
		return nil, 0, err
	}
	return repokit.FetchPage(ctx, r.q, st, scanRow)
}

func scanRow(row repokit.Row) (domain.Row, error) {
	var (
		s           domain.Row
		day         int
		start, end  string
		lengthMin   int
		cancelledAt *time.Time
	)
	err := row.Scan(
		&s.ID, &s.Name, &s.Slug, &s.Description,
		&s.Rule.Type, &day, &s.Rule.Week,
		&s.FoundedAt, &cancelledAt,
		&start, &end, &lengthMin,
		&s.VenueName, &s.EventType, &s.Visibility, &s.CreatedBy,
		&s.Tags, &s.Entities,
	)
	if err != nil {
		return s, err
	}
	s.Rule.Day = time.Weekday(day)
	s.CancelledAt = cancelledAt
	// unparseable times leave midnight, which still projects the right day
	s.Start, _ = ptime.ParseClock(start)
	s.End, _ = ptime.ParseClock(end)
	s.Length = time.Duration(lengthMin) * time.Minute
	return s, nil
}

func (r *queries) Starts(ctx context.Context, ids []int64, from time.Time) (map[int64][]time.Time, error) {
	out := map[int64][]time.Time{}
	if len(ids) == 0 {
		return out, nil
	}
	const sql = `
select series_id, start_at
from events
where series_id = any($1) and start_at >= $2
order by series_id, start_at`
	starts, err := store.Many(ctx, r.q, scanStart, sql, ids, from)
	if err != nil {
		return nil, repokit.Classify(err, "series.starts")
	}
	for _, s := range starts {
		out[s.series] = append(out[s.series], s.at)
	}
	return out, nil
}

type start struct {
	series int64
	at     time.Time
}

func scanStart(row store.Row) (start, error) {
	var s start
	err := row.Scan(&s.series, &s.at)
	return s, err
}
