package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"eventcatalog/internal/core/filters"
	"eventcatalog/internal/core/listing"
	"eventcatalog/internal/core/listing/listingtest"
	"eventcatalog/internal/core/predicate"
	"eventcatalog/internal/core/prefs"
	"eventcatalog/internal/core/series"
	"eventcatalog/internal/core/visibility"
	"eventcatalog/internal/modkit/repokit"
	perr "eventcatalog/internal/platform/errors"
	"eventcatalog/internal/platform/store/storetest"
	"eventcatalog/internal/platform/testkit"
	ptime "eventcatalog/internal/platform/time"
	"eventcatalog/internal/services/api/series/domain"
	"eventcatalog/internal/services/api/series/repo"
)

type memRepo struct {
	rows   []domain.Row
	starts map[int64][]time.Time
	err    error
}

func (m *memRepo) List(_ context.Context, q listing.Query) ([]domain.Row, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	var hits []domain.Row
	for _, r := range m.rows {
		if predicate.Eval(q.Where, r) {
			hits = append(hits, r)
		}
	}
	predicate.SortRecords(hits, q.Order)
	p := listingtest.Slice(hits, q.Page, q.Limit())
	return p.Items, p.Total, nil
}

func (m *memRepo) Starts(_ context.Context, ids []int64, from time.Time) (map[int64][]time.Time, error) {
	out := map[int64][]time.Time{}
	for _, id := range ids {
		for _, at := range m.starts[id] {
			if !at.Before(from) {
				out[id] = append(out[id], at)
			}
		}
	}
	return out, nil
}

// a Thursday afternoon
var now = testkit.Date(2024, 6, 13, 15, 0)

func newSvc(m *memRepo) *Svc {
	bind := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return m })
	return New(storetest.New(), bind, Config{
		Policy:    visibility.DefaultPolicy(),
		Projector: series.NewProjector(nil, time.UTC),
		Now:       func() time.Time { return now },
	})
}

func row(id int64, name string, day time.Weekday, tags ...string) domain.Row {
	return domain.Row{Series: series.Series{
		ID:         id,
		Name:       name,
		Slug:       name,
		Rule:       series.CycleRule{Type: "Weekly", Day: day},
		FoundedAt:  testkit.Date(2024, 1, 1, 0, 0),
		Start:      ptime.Clock{Hour: 20},
		End:        ptime.Clock{Hour: 23},
		Visibility: int(visibility.Public),
		Tags:       tags,
	}}
}

func state(f filters.Set) prefs.State {
	if f == nil {
		f = filters.Set{}
	}
	d := Defaults()
	return prefs.State{
		Paging:  prefs.Paging{Page: 1, RPP: d.RPP, SortBy: d.SortBy, SortOrder: d.SortOrder},
		Filters: f,
		Cursors: map[string]int{},
	}
}

func TestListProjectsNext(t *testing.T) {
	m := &memRepo{
		rows: []domain.Row{row(1, "dub", time.Tuesday, "Dub"), row(2, "jazz", time.Friday, "Jazz")},
		// jazz already has a concrete event on its next friday
		starts: map[int64][]time.Time{2: {testkit.Date(2024, 6, 14, 19, 0)}},
	}
	got, err := newSvc(m).List(context.Background(), domain.Request{State: state(nil)})
	if err != nil {
		t.Fatal(err)
	}
	items := got.Series.Items
	if len(items) != 2 || items[0].Name != "dub" {
		t.Fatalf("items: %+v", items)
	}
	if items[0].Next == nil || !items[0].Next.Equal(testkit.Date(2024, 6, 18, 20, 0)) || !items[0].NextEnd.Equal(testkit.Date(2024, 6, 18, 23, 0)) {
		t.Fatalf("dub next: %v %v", items[0].Next, items[0].NextEnd)
	}
	if items[1].Next != nil {
		t.Fatalf("occupied slot projected: %v", items[1].Next)
	}
	if items[0].OccurrenceDay != "Tuesday" || items[0].StartTime != "20:00:00" || items[0].Entities == nil {
		t.Fatalf("item: %+v", items[0])
	}
}

func TestListReadsOneSnapshot(t *testing.T) {
	db := storetest.New()
	m := &memRepo{rows: []domain.Row{row(1, "dub", time.Tuesday)}}
	bind := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return m })
	s := New(db, bind, Config{Policy: visibility.DefaultPolicy(), Now: func() time.Time { return now }})
	if _, err := s.List(context.Background(), domain.Request{State: state(nil)}); err != nil {
		t.Fatal(err)
	}
	calls := db.Calls()
	if len(calls) != 1 || !strings.Contains(calls[0].SQL, "read only") {
		t.Fatalf("calls = %+v", calls)
	}
}

func TestListFiltersAndSorts(t *testing.T) {
	m := &memRepo{rows: []domain.Row{
		row(1, "a", time.Monday, "Dub"),
		row(2, "b", time.Monday, "Jazz"),
		row(3, "c", time.Monday, "Dub"),
	}}
	st := state(filters.Set{filters.KeyTag: "dub"})
	st.SortOrder = "desc"
	got, err := newSvc(m).List(context.Background(), domain.Request{State: st})
	if err != nil {
		t.Fatal(err)
	}
	if !got.HasFilter || got.SortOrder != "desc" || got.Series.Total != 2 || got.Series.Items[0].Name != "c" {
		t.Fatalf("got %+v", got)
	}
}

func TestListVisibility(t *testing.T) {
	hidden := row(2, "hidden", time.Monday)
	hidden.Visibility = int(visibility.Hidden)
	mine := row(3, "mine", time.Monday)
	mine.Visibility, mine.CreatedBy = int(visibility.Hidden), 7
	m := &memRepo{rows: []domain.Row{row(1, "open", time.Monday), hidden, mine}}

	cases := []struct {
		name string
		id   visibility.Identity
		want int
	}{
		{"anonymous", visibility.Anonymous(), 1},
		{"creator", visibility.As(7), 2},
		{"stranger", visibility.As(8), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := newSvc(m).List(context.Background(), domain.Request{State: state(nil), Identity: tc.id})
			if err != nil {
				t.Fatal(err)
			}
			if got.Series.Total != tc.want {
				t.Fatalf("total %d want %d", got.Series.Total, tc.want)
			}
		})
	}
}

func TestGet(t *testing.T) {
	hidden := row(2, "hidden", time.Monday)
	hidden.Visibility = int(visibility.Hidden)
	s := newSvc(&memRepo{rows: []domain.Row{row(1, "dub", time.Tuesday), hidden}})

	it, err := s.Get(context.Background(), "dub", visibility.Anonymous())
	if err != nil || it.ID != 1 || it.Next == nil {
		t.Fatalf("got %+v %v", it, err)
	}
	_, err = s.Get(context.Background(), "hidden", visibility.Anonymous())
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestOccurrencesSkipsTakenDays(t *testing.T) {
	cancelled := row(2, "gone", time.Wednesday)
	cancelled.CancelledAt = ptime.Ptr(testkit.Date(2024, 5, 1, 0, 0))
	m := &memRepo{
		rows:   []domain.Row{row(1, "dub", time.Tuesday), cancelled},
		starts: map[int64][]time.Time{1: {testkit.Date(2024, 6, 18, 21, 0)}},
	}
	from := testkit.Date(2024, 6, 13, 0, 0)
	occ, err := newSvc(m).Occurrences(context.Background(), visibility.Anonymous(), from, from.AddDate(0, 0, 14))
	if err != nil {
		t.Fatal(err)
	}
	if len(occ) != 1 || !occ[0].StartAt.Equal(testkit.Date(2024, 6, 25, 20, 0)) || !occ[0].EndAt.Equal(testkit.Date(2024, 6, 25, 23, 0)) {
		t.Fatalf("occurrences: %+v", occ)
	}
	if _, err := newSvc(m).Occurrences(context.Background(), visibility.Anonymous(), from, from); err == nil {
		t.Fatal("empty window should fail")
	}
}

func TestRepoError(t *testing.T) {
	boom := errors.New("boom")
	if _, err := newSvc(&memRepo{err: boom}).List(context.Background(), domain.Request{State: state(nil)}); !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}
}

func TestNewPanics(t *testing.T) {
	testkit.MustPanic(t, func() { New(nil, repo.NewPG(), Config{}) })
	testkit.MustPanic(t, func() { New(storetest.New(), nil, Config{}) })
}
