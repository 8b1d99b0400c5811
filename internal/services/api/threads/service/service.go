// Package service lists forum threads
package service

import (
	"context"

	"eventcatalog/internal/core/filters"
	"eventcatalog/internal/core/listing"
	"eventcatalog/internal/core/predicate"
	"eventcatalog/internal/core/prefs"
	"eventcatalog/internal/core/visibility"
	"eventcatalog/internal/modkit/repokit"
	"eventcatalog/internal/platform/metrics"
	"eventcatalog/internal/services/api/threads/domain"
	"eventcatalog/internal/services/api/threads/repo"
)

// Sortable lists the filter_sort_by values threads accept
var Sortable = []string{"name", "created_at", "last_post_at", "posts_count", "thread_category"}

// Defaults are the compiled in thread preferences
func Defaults() prefs.Defaults {
	return prefs.Defaults{
		RPP:       25,
		SortBy:    "created_at",
		SortOrder: "desc",
		Sortable:  Sortable,
		Keys:      filters.Threads.Keys(),
	}
}

// Service defines the threads service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the threads service
type Svc struct {
	Repo     repo.Repo
	policy   visibility.Policy
	defaults prefs.Defaults
}

// New constructs a threads service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], policy visibility.Policy, d prefs.Defaults) *Svc {
	if db == nil {
		panic("threads.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("threads.Service requires a non nil Repo binder")
	}
	if d.RPP <= 0 {
		d = Defaults()
	}
	return &Svc{Repo: binder.Bind(db), policy: policy, defaults: d}
}

// List renders one page of threads; filter_popular puts the busiest first
func (s *Svc) List(ctx context.Context, req domain.Request) (domain.Listing, error) {
	st := req.State
	def := predicate.SortKey{Field: s.defaults.SortBy, Desc: s.defaults.SortOrder == "desc"}
	order := filters.ThreadSort(st.Filters, []predicate.SortKey{predicate.ParseSort(st.SortBy, st.SortOrder, def, Sortable...)})
	out := domain.Listing{
		Filters:   filters.Sanitize(st.Filters),
		HasFilter: prefs.IsFiltered(st),
		SortBy:    order[0].Field,
		SortOrder: order[0].Direction(),
	}
	defer metrics.CountListing("threads", out.HasFilter)

	q := listing.Query{
		Where:   s.policy.Scope(filters.Threads.Build(st.Filters), req.Identity),
		Order:   order,
		Page:    st.Page,
		PerPage: st.PerPage(st.RPP),
	}
	items, total, err := s.Repo.List(ctx, q)
	if err != nil {
		return out, err
	}
	out.Threads = listing.NewPage(items, total, q.Page, q.Limit())
	return out, nil
}
