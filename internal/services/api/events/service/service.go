// Package service composes and runs events listings
package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"eventcatalog/internal/core/filters"
	"eventcatalog/internal/core/listing"
	"eventcatalog/internal/core/predicate"
	"eventcatalog/internal/core/prefs"
	"eventcatalog/internal/core/temporal"
	"eventcatalog/internal/core/visibility"
	"eventcatalog/internal/modkit/repokit"
	"eventcatalog/internal/platform/logger"
	"eventcatalog/internal/platform/metrics"
	ptime "eventcatalog/internal/platform/time"
	"eventcatalog/internal/services/api/events/domain"
	"eventcatalog/internal/services/api/events/repo"
)

// Sortable lists the filter_sort_by values events accept
var Sortable = []string{"name", "start_at", "venue_name", "event_type", "created_at"}

// Defaults are the compiled in events preferences
func Defaults() prefs.Defaults {
	return prefs.Defaults{
		RPP:       8,
		GridRPP:   24,
		SortBy:    "name",
		SortOrder: "asc",
		Sortable:  Sortable,
		Keys:      filters.Events.Keys(),
		Cursors:   []string{domain.CursorFuture, domain.CursorPast},
	}
}

// RPP holds the fixed page sizes of the non paginated views
type RPP struct {
	List int
	Week int
	Feed int
}

// Config carries the collaborators a Svc needs besides the database
type Config struct {
	Defaults    prefs.Defaults
	RPP         RPP
	Policy      visibility.Policy
	Location    *time.Location
	Now         func() time.Time
	Projections domain.Projections
	// FeedDays is how far ahead the calendar feed projects series
	FeedDays int
}

func (c Config) withDefaults() Config {
	if c.RPP.List <= 0 {
		c.RPP.List = 10
	}
	if c.RPP.Week <= 0 {
		c.RPP.Week = 7
	}
	if c.RPP.Feed <= 0 {
		c.RPP.Feed = 10000
	}
	if c.FeedDays <= 0 {
		c.FeedDays = 90
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Defaults.RPP <= 0 {
		c.Defaults = Defaults()
	}
	return c
}

// Service defines the events service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the events service
type Svc struct {
	Repo repo.Repo
	cfg  Config
}

// New constructs an events service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], cfg Config) *Svc {
	if db == nil {
		panic("events.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("events.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db), cfg: cfg.withDefaults()}
}

// base is the view's own restriction before filters and visibility
func base(req domain.Request) predicate.Expr {
	switch req.View {
	case domain.ViewTag:
		return predicate.Related{Assoc: "tags", Name: filters.Ucfirst(req.Arg)}
	case domain.ViewRelated:
		return predicate.Related{Assoc: "entities", Name: filters.Ucfirst(req.Arg)}
	case domain.ViewVenue:
		return predicate.Eq{Field: "venue_name", Value: req.Arg}
	case domain.ViewType:
		return predicate.Eq{Field: "event_type", Value: req.Arg}
	case domain.ViewSeries:
		return predicate.Eq{Field: "series_slug", Value: req.Arg}
	}
	return predicate.True
}

func (s *Svc) perPage(req domain.Request) int {
	switch req.View {
	case domain.ViewGrid:
		return req.State.PerPage(s.cfg.Defaults.GridRPP)
	case domain.ViewFuture, domain.ViewPast, domain.ViewToday, domain.ViewStarting:
		return req.State.PerPage(s.cfg.RPP.List)
	case domain.ViewWeek:
		return req.State.PerPage(s.cfg.RPP.Week)
	case domain.ViewFeed:
		return s.cfg.RPP.Feed
	}
	return req.State.PerPage(req.State.RPP)
}

func (s *Svc) sortKey(st prefs.State) predicate.SortKey {
	def := predicate.SortKey{Field: s.cfg.Defaults.SortBy, Desc: s.cfg.Defaults.SortOrder == "desc"}
	if def.Field == "" {
		def.Field = "name"
	}
	return predicate.ParseSort(st.SortBy, st.SortOrder, def, Sortable...)
}

// query composes the view, filter and visibility predicates into one page request
func (s *Svc) query(req domain.Request) listing.Query {
	where := listing.Compose(
		base(req),
		filters.Events.Build(req.State.Filters),
		s.cfg.Policy.ForContext(req.Identity),
	)
	return listing.Query{Where: where, Page: req.State.Page, PerPage: s.perPage(req)}
}

// thenBy keeps the temporal ordering first and the visitor's sort second
func thenBy(q listing.Query, k predicate.SortKey) listing.Query {
	if len(q.Order) > 0 && q.Order[0].Field == k.Field {
		return q
	}
	return q.OrderBy(append(q.Order, k)...)
}

// List renders one events view
func (s *Svc) List(ctx context.Context, req domain.Request) (domain.Listing, error) {
	now := s.cfg.Now()
	loc := s.cfg.Location
	q := s.query(req)
	sk := s.sortKey(req.State)

	out := domain.Listing{
		View:      req.View,
		Filters:   filters.Sanitize(req.State.Filters),
		HasFilter: prefs.IsFiltered(req.State),
		SortBy:    sk.Field,
		SortOrder: sk.Direction(),
	}
	defer metrics.CountListing(string(req.View), out.HasFilter)

	if req.View.Partitioned() {
		future, past := temporal.PartitionAt(q, now,
			req.State.Cursor(domain.CursorFuture), req.State.Cursor(domain.CursorPast))
		f, p, err := s.both(ctx, thenBy(future, sk), thenBy(past, sk))
		if err != nil {
			return out, err
		}
		out.Future, out.Past = &f, &p
		return out, nil
	}

	switch req.View {
	case domain.ViewPast:
		q = temporal.Past(q, now)
	case domain.ViewToday:
		q = temporal.Today(q, now, loc)
	case domain.ViewWeek:
		q = temporal.Week(q, now, loc)
	case domain.ViewStarting:
		q = temporal.Starting(q, req.Day, loc)
	default:
		q = temporal.Future(q, now)
	}
	page, err := s.page(ctx, thenBy(q, sk))
	if err != nil {
		return out, err
	}
	out.Events = &page
	return out, nil
}

// both fetches the future and past sides concurrently
func (s *Svc) both(ctx context.Context, future, past listing.Query) (listing.Page[domain.Event], listing.Page[domain.Event], error) {
	var f, p listing.Page[domain.Event]
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		f, err = s.page(gctx, future)
		return err
	})
	g.Go(func() (err error) {
		p, err = s.page(gctx, past)
		return err
	})
	err := g.Wait()
	return f, p, err
}

func (s *Svc) page(ctx context.Context, q listing.Query) (listing.Page[domain.Event], error) {
	items, total, err := s.Repo.List(ctx, q)
	if err != nil {
		return listing.Page[domain.Event]{}, err
	}
	return listing.NewPage(items, total, q.Page, q.Limit()), nil
}

// Feed returns upcoming events plus projected series occurrences, ordered by start
func (s *Svc) Feed(ctx context.Context, req domain.Request) ([]domain.Event, error) {
	now := s.cfg.Now()
	req.View = domain.ViewFeed
	q := temporal.Future(s.query(req).AtPage(1), now)
	events, _, err := s.Repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	if s.cfg.Projections == nil {
		return events, nil
	}

	from := ptime.StartOfDay(now, s.cfg.Location)
	to := from.AddDate(0, 0, s.cfg.FeedDays)
	projected, err := s.cfg.Projections.Projected(ctx, req.Identity, from, to)
	if err != nil {
		// the feed still works without projections
		logger.C(ctx).Warn().Err(err).Msg("series projections unavailable for feed")
		return events, nil
	}
	keep := listing.Compose(base(req), filters.Events.Build(req.State.Filters), predicate.Since(temporal.FieldStart, now))
	for _, p := range projected {
		if ev := FromProjection(p); predicate.Eval(keep, ev) {
			events = append(events, ev)
		}
	}
	predicate.SortRecords(events, []predicate.SortKey{predicate.Asc(temporal.FieldStart), predicate.Asc("name")})
	if len(events) > s.cfg.RPP.Feed {
		events = events[:s.cfg.RPP.Feed]
	}
	return events, nil
}

// FromProjection turns a series projection into a listed event
func FromProjection(p domain.Projection) domain.Event {
	end := p.EndAt
	ev := domain.Event{
		Name:       p.Name,
		Slug:       p.Slug,
		StartAt:    p.StartAt,
		VenueName:  p.VenueName,
		EventType:  p.EventType,
		SeriesSlug: p.Slug,
		Visibility: p.Visibility,
		Tags:       p.Tags,
		Entities:   p.Entities,
		Projected:  true,
	}
	if !end.IsZero() {
		ev.EndAt = &end
	}
	return ev
}
