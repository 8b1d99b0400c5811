package service

import (
	"context"
	"testing"
	"time"

	"eventcatalog/internal/core/filters"
	"eventcatalog/internal/core/listing"
	"eventcatalog/internal/core/listing/listingtest"
	"eventcatalog/internal/core/predicate"
	"eventcatalog/internal/core/prefs"
	"eventcatalog/internal/platform/testkit"
	"eventcatalog/internal/services/api/activity/domain"
)

type memRepo struct {
	items []domain.Activity
	last  listing.Query
}

func (m *memRepo) List(_ context.Context, q listing.Query) ([]domain.Activity, int, error) {
	m.last = q
	var hits []domain.Activity
	for _, a := range m.items {
		if predicate.Eval(q.Where, a) {
			hits = append(hits, a)
		}
	}
	predicate.SortRecords(hits, q.Order)
	p := listingtest.Slice(hits, q.Page, q.Limit())
	return p.Items, p.Total, nil
}

func feed(n int) *memRepo {
	m := &memRepo{}
	start := testkit.Date(2024, 6, 1, 0, 0)
	for i := 0; i < n; i++ {
		action := "created"
		if i%2 == 1 {
			action = "updated"
		}
		m.items = append(m.items, domain.Activity{
			ID:          int64(i + 1),
			UserName:    "ana",
			ObjectTable: "events",
			ObjectName:  "Night",
			Action:      action,
			CreatedAt:   start.Add(time.Duration(i) * time.Minute),
		})
	}
	return m
}

func state(f filters.Set) prefs.State {
	d := Defaults()
	if f == nil {
		f = filters.Set{}
	}
	return prefs.State{Paging: prefs.Paging{Page: 1, RPP: d.RPP, SortBy: d.SortBy, SortOrder: d.SortOrder}, Filters: f}
}

func TestNewestFirstByDefault(t *testing.T) {
	m := feed(150)
	got, err := New(m, Defaults()).List(context.Background(), state(nil))
	if err != nil {
		t.Fatal(err)
	}
	if got.Activities.Total != 150 || len(got.Activities.Items) != 100 || got.Activities.LastPage != 2 {
		t.Fatalf("page: %+v", got.Activities)
	}
	if got.Activities.Items[0].ID != 150 || got.SortOrder != "desc" {
		t.Fatalf("first %d order %s", got.Activities.Items[0].ID, got.SortOrder)
	}
}

func TestActionFilter(t *testing.T) {
	got, err := New(feed(10), Defaults()).List(context.Background(), state(filters.Set{filters.KeyAction: "updated"}))
	if err != nil {
		t.Fatal(err)
	}
	if !got.HasFilter || got.Activities.Total != 5 {
		t.Fatalf("got %+v", got)
	}
}

func TestUnknownSortFallsBack(t *testing.T) {
	st := state(nil)
	st.SortBy = "message"
	got, _ := New(feed(1), Defaults()).List(context.Background(), st)
	if got.SortBy != "created_at" {
		t.Fatalf("sort %s", got.SortBy)
	}
}

func TestNewPanics(t *testing.T) {
	testkit.MustPanic(t, func() { New(nil, Defaults()) })
}
