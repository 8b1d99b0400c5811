// Package service lists series and projects their occurrences
package service

import (
	"context"
	"errors"
	"time"

	"eventcatalog/internal/core/filters"
	"eventcatalog/internal/core/listing"
	"eventcatalog/internal/core/predicate"
	"eventcatalog/internal/core/prefs"
	"eventcatalog/internal/core/series"
	"eventcatalog/internal/core/visibility"
	"eventcatalog/internal/modkit/repokit"
	perr "eventcatalog/internal/platform/errors"
	"eventcatalog/internal/platform/metrics"
	ptime "eventcatalog/internal/platform/time"
	"eventcatalog/internal/services/api/series/domain"
	"eventcatalog/internal/services/api/series/repo"
)

// Sortable lists the filter_sort_by values series accept
var Sortable = []string{"name", "created_at", "founded_at", "venue_name", "occurrence_type"}

// Defaults are the compiled in series preferences
func Defaults() prefs.Defaults {
	return prefs.Defaults{
		RPP:       10,
		SortBy:    "name",
		SortOrder: "asc",
		Sortable:  Sortable,
		Keys:      filters.Events.Keys(),
	}
}

// maxProjected bounds the series a feed projection scans
const maxProjected = 1000

// Config carries the collaborators a Svc needs besides the database
type Config struct {
	Defaults  prefs.Defaults
	Policy    visibility.Policy
	Projector *series.Projector
	Now       func() time.Time
}

// Service defines the series service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the series service
type Svc struct {
	binder repokit.Binder[repo.Repo]
	tx     repokit.TxRunner
	cfg    Config
}

// New constructs a series service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], cfg Config) *Svc {
	if db == nil {
		panic("series.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("series.Service requires a non nil Repo binder")
	}
	if cfg.Projector == nil {
		cfg.Projector = series.NewProjector(nil, nil)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Defaults.RPP <= 0 {
		cfg.Defaults = Defaults()
	}
	return &Svc{binder: binder, tx: repokit.WithBeginHooks(db, repokit.ReadOnly()), cfg: cfg}
}

// read runs fn on one read only snapshot so rows and their concrete starts agree
func (s *Svc) read(ctx context.Context, fn func(repo.Repo) error) error {
	return repokit.WithTx(ctx, s.tx, func(q repokit.Queryer) error { return fn(s.binder.Bind(q)) })
}

func (s *Svc) sortKey(st prefs.State) predicate.SortKey {
	def := predicate.SortKey{Field: s.cfg.Defaults.SortBy, Desc: s.cfg.Defaults.SortOrder == "desc"}
	if def.Field == "" {
		def.Field = "name"
	}
	return predicate.ParseSort(st.SortBy, st.SortOrder, def, Sortable...)
}

// List renders a page of series, each with its next projected occurrence
func (s *Svc) List(ctx context.Context, req domain.Request) (domain.Listing, error) {
	sk := s.sortKey(req.State)
	out := domain.Listing{
		Filters:   filters.Sanitize(req.State.Filters),
		HasFilter: prefs.IsFiltered(req.State),
		SortBy:    sk.Field,
		SortOrder: sk.Direction(),
	}
	defer metrics.CountListing("series", out.HasFilter)

	q := listing.Query{
		Where:   s.cfg.Policy.Scope(filters.Events.Build(req.State.Filters), req.Identity),
		Order:   []predicate.SortKey{sk},
		Page:    req.State.Page,
		PerPage: req.State.PerPage(req.State.RPP),
	}
	err := s.read(ctx, func(r repo.Repo) error {
		rows, total, err := r.List(ctx, q)
		if err != nil {
			return err
		}
		items, err := s.project(ctx, r, rows)
		if err != nil {
			return err
		}
		out.Series = listing.NewPage(items, total, q.Page, q.Limit())
		return nil
	})
	return out, err
}

// Get returns one visible series by slug
func (s *Svc) Get(ctx context.Context, slug string, id visibility.Identity) (domain.Item, error) {
	q := listing.Query{
		Where:   s.cfg.Policy.Scope(predicate.Eq{Field: "slug", Value: slug}, id),
		Page:    1,
		PerPage: 1,
	}
	var item domain.Item
	err := s.read(ctx, func(r repo.Repo) error {
		rows, _, err := r.List(ctx, q)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return perr.NotFoundf("series %q not found", slug)
		}
		items, err := s.project(ctx, r, rows)
		if err != nil {
			return err
		}
		item = items[0]
		return nil
	})
	return item, err
}

// project fills Next and NextEnd, never over a day a concrete event already holds
func (s *Svc) project(ctx context.Context, rp repo.Repo, rows []domain.Row) ([]domain.Item, error) {
	now := s.cfg.Now()
	existing, err := rp.Starts(ctx, ids(rows), ptime.StartOfDay(now, s.loc()))
	if err != nil {
		return nil, err
	}
	items := make([]domain.Item, 0, len(rows))
	for _, r := range rows {
		it := ToItem(r)
		if next, ok := s.cfg.Projector.NextOccurrence(r.Series, now, existing[r.ID]); ok {
			end, _ := s.cfg.Projector.NextOccurrenceEnd(r.Series, now, existing[r.ID])
			it.Next, it.NextEnd = ptime.Ptr(next), ptime.Ptr(end)
			metrics.CountProjection("projected")
		} else {
			metrics.CountProjection("none")
		}
		items = append(items, it)
	}
	return items, nil
}

// Occurrences projects every visible series over [from, to), skipping days with concrete events
func (s *Svc) Occurrences(ctx context.Context, id visibility.Identity, from, to time.Time) ([]domain.Occurrence, error) {
	if !to.After(from) {
		return nil, errors.New("empty projection window")
	}
	active := predicate.AnyOf(
		predicate.IsNull{Field: "cancelled_at"},
		predicate.Cmp{Field: "cancelled_at", Op: predicate.GT, Value: from},
	)
	q := listing.Query{
		Where:   s.cfg.Policy.Scope(active, id),
		Order:   []predicate.SortKey{predicate.Asc("id")},
		Page:    1,
		PerPage: maxProjected,
	}
	var (
		rows     []domain.Row
		existing map[int64][]time.Time
	)
	err := s.read(ctx, func(r repo.Repo) (err error) {
		if rows, _, err = r.List(ctx, q); err != nil {
			return err
		}
		existing, err = r.Starts(ctx, ids(rows), from)
		return err
	})
	if err != nil {
		return nil, err
	}

	loc := s.loc()
	var out []domain.Occurrence
	for _, r := range rows {
	slots:
		for _, at := range s.cfg.Projector.Occurrences(r.Series, from, to) {
			for _, ex := range existing[r.ID] {
				if ptime.SameDay(ex, at, loc) {
					continue slots
				}
			}
			out = append(out, domain.Occurrence{Row: r, StartAt: at, EndAt: at.Add(r.Duration())})
		}
	}
	metrics.CountProjection("feed")
	return out, nil
}

func (s *Svc) loc() *time.Location {
	if l := s.cfg.Projector.Location; l != nil {
		return l
	}
	return time.UTC
}

func ids(rows []domain.Row) []int64 {
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

// ToItem is the transport shape of r without a projection
func ToItem(r domain.Row) domain.Item {
	it := domain.Item{
		ID:             r.ID,
		Name:           r.Name,
		Slug:           r.Slug,
		Description:    r.Description,
		OccurrenceType: r.Rule.Type,
		OccurrenceWeek: r.Rule.Week,
		StartTime:      r.Start.String(),
		FoundedAt:      ptime.Ptr(r.FoundedAt),
		CancelledAt:    r.CancelledAt,
		VenueName:      r.VenueName,
		EventType:      r.EventType,
		Visibility:     r.Visibility,
		Tags:           r.Tags,
		Entities:       r.Entities,
	}
	if r.Rule.Type != series.NoSchedule {
		it.OccurrenceDay = r.Rule.Day.String()
	}
	if it.Tags == nil {
		it.Tags = []string{}
	}
	if it.Entities == nil {
		it.Entities = []string{}
	}
	return it
}
