// Package service pages through the activity feed
package service

import (
	"context"

	"eventcatalog/internal/core/filters"
	"eventcatalog/internal/core/listing"
	"eventcatalog/internal/core/predicate"
	"eventcatalog/internal/core/prefs"
	"eventcatalog/internal/platform/metrics"
	"eventcatalog/internal/services/api/activity/domain"
	"eventcatalog/internal/services/api/activity/repo"
)

// Sortable lists the filter_sort_by values the feed accepts
var Sortable = []string{"created_at", "user_name", "object_name", "action"}

// Defaults are the compiled in feed preferences
func Defaults() prefs.Defaults {
	return prefs.Defaults{
		RPP:       100,
		SortBy:    "created_at",
		SortOrder: "desc",
		Sortable:  Sortable,
		Keys:      filters.Activity.Keys(),
	}
}

// Service defines the activity service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the activity service over either backend
type Svc struct {
	Repo     repo.Repo
	defaults prefs.Defaults
}

// New constructs an activity service
func New(r repo.Repo, d prefs.Defaults) *Svc {
	if r == nil {
		panic("activity.Service requires a non nil Repo")
	}
	if d.RPP <= 0 {
		d = Defaults()
	}
	return &Svc{Repo: r, defaults: d}
}

// List renders one page of the feed, newest first unless the state says otherwise
func (s *Svc) List(ctx context.Context, st prefs.State) (domain.Listing, error) {
	def := predicate.SortKey{Field: s.defaults.SortBy, Desc: s.defaults.SortOrder == "desc"}
	sk := predicate.ParseSort(st.SortBy, st.SortOrder, def, Sortable...)
	out := domain.Listing{
		Filters:   filters.Sanitize(st.Filters),
		HasFilter: prefs.IsFiltered(st),
		SortBy:    sk.Field,
		SortOrder: sk.Direction(),
	}
	defer metrics.CountListing("activity", out.HasFilter)

	q := listing.Query{
		Where:   filters.Activity.Build(st.Filters),
		Order:   []predicate.SortKey{sk},
		Page:    st.Page,
		PerPage: st.PerPage(st.RPP),
	}
	items, total, err := s.Repo.List(ctx, q)
	if err != nil {
		return out, err
	}
	out.Activities = listing.NewPage(items, total, q.Page, q.Limit())
	return out, nil
}
