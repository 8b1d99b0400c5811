package service

import (
	"context"
	"testing"

	"eventcatalog/internal/core/filters"
	"eventcatalog/internal/core/listing"
	"eventcatalog/internal/core/listing/listingtest"
	"eventcatalog/internal/core/predicate"
	"eventcatalog/internal/core/prefs"
	"eventcatalog/internal/core/visibility"
	"eventcatalog/internal/modkit/repokit"
	"eventcatalog/internal/platform/store/storetest"
	"eventcatalog/internal/platform/testkit"
	"eventcatalog/internal/services/api/threads/domain"
	"eventcatalog/internal/services/api/threads/repo"
)

type memRepo struct{ threads []domain.Thread }

func (m *memRepo) List(_ context.Context, q listing.Query) ([]domain.Thread, int, error) {
	var hits []domain.Thread
	for _, t := range m.threads {
		if predicate.Eval(q.Where, t) {
			hits = append(hits, t)
		}
	}
	predicate.SortRecords(hits, q.Order)
	p := listingtest.Slice(hits, q.Page, q.Limit())
	return p.Items, p.Total, nil
}

func newSvc(m *memRepo) *Svc {
	bind := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return m })
	return New(storetest.New(), bind, visibility.DefaultPolicy(), Defaults())
}

func threads() *memRepo {
	return &memRepo{threads: []domain.Thread{
		{ID: 1, Name: "Welcome", Category: "General", PostsCount: 3, Visibility: 1, CreatedAt: testkit.Date(2024, 1, 1, 0, 0)},
		{ID: 2, Name: "Gear", Category: "Market", PostsCount: 40, Visibility: 1, CreatedAt: testkit.Date(2024, 2, 1, 0, 0)},
		{ID: 3, Name: "Mods", Category: "General", PostsCount: 9, Visibility: 3, CreatedBy: 5, CreatedAt: testkit.Date(2024, 3, 1, 0, 0)},
	}}
}

func state(f filters.Set) prefs.State {
	d := Defaults()
	if f == nil {
		f = filters.Set{}
	}
	return prefs.State{Paging: prefs.Paging{Page: 1, RPP: d.RPP, SortBy: d.SortBy, SortOrder: d.SortOrder}, Filters: f}
}

func ids(ts []domain.Thread) []int64 {
	out := make([]int64, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}

func TestList(t *testing.T) {
	cases := []struct {
		name  string
		f     filters.Set
		id    visibility.Identity
		want  []int64
		order string
	}{
		{"newest first", nil, visibility.Anonymous(), []int64{2, 1}, "created_at"},
		{"creator sees hidden", nil, visibility.As(5), []int64{3, 2, 1}, "created_at"},
		{"category", filters.Set{filters.KeyCategory: "General"}, visibility.As(5), []int64{3, 1}, "created_at"},
		{"popular", filters.Set{filters.KeyPopular: "1"}, visibility.As(5), []int64{2, 3, 1}, "posts_count"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := newSvc(threads()).List(context.Background(), domain.Request{State: state(tc.f), Identity: tc.id})
			if err != nil {
				t.Fatal(err)
			}
			if g := ids(got.Threads.Items); len(g) != len(tc.want) || g[0] != tc.want[0] || g[len(g)-1] != tc.want[len(tc.want)-1] {
				t.Fatalf("got %v want %v", g, tc.want)
			}
			if got.SortBy != tc.order || got.SortOrder != "desc" {
				t.Fatalf("sort %s %s", got.SortBy, got.SortOrder)
			}
		})
	}
}

func TestNewPanics(t *testing.T) {
	testkit.MustPanic(t, func() { New(nil, repo.NewPG(), visibility.Policy{}, Defaults()) })
	testkit.MustPanic(t, func() { New(storetest.New(), nil, visibility.Policy{}, Defaults()) })
}
