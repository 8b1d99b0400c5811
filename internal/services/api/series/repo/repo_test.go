package repo

import (
	"context"
	"strings"
	"testing"
	"time"

	"eventcatalog/internal/core/filters"
	"eventcatalog/internal/core/listing"
	"eventcatalog/internal/core/predicate"
	"eventcatalog/internal/core/visibility"
	"eventcatalog/internal/platform/store/storetest"
	"eventcatalog/internal/platform/testkit"
	ptime "eventcatalog/internal/platform/time"
)

func TestListScansSeries(t *testing.T) {
	founded := testkit.Date(2024, 1, 2, 0, 0)
	where := visibility.DefaultPolicy().Scope(
		filters.Events.Build(filters.Set{filters.KeyVenue: "Hall"}),
		visibility.As(3),
	)
	q := listing.Query{Where: where, Order: []predicate.SortKey{predicate.Asc("name")}, Page: 1, PerPage: 10}

	db := storetest.New().Push([]any{int64(1)}).Push([]any{
		int64(4), "Dub Tuesdays", "dub-tuesdays", "bass",
		"Weekly", 2, 0,
		founded, nil,
		"20:00:00", "23:30:00", 0,
		"Hall", "Club", 1, int64(3),
		[]string{"Dub"}, []string{"Hall"},
	})
	rows, total, err := NewPG().Bind(db).List(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("got %d %v", total, rows)
	}
	r := rows[0]
	if r.Rule.Day != time.Tuesday || r.Start != (ptime.Clock{Hour: 20}) || r.Duration() != 210*time.Minute {
		t.Fatalf("schedule: %+v", r.Series)
	}
	if r.CancelledAt != nil || !r.FoundedAt.Equal(founded) || r.Description != "bass" || r.EventType != "Club" {
		t.Fatalf("row: %+v", r)
	}

	page := db.Calls()[1]
	for _, want := range []string{"v.name = $1", "s.created_by = $", "order by s.name asc, s.id asc"} {
		if !strings.Contains(page.SQL, want) {
			t.Fatalf("page sql missing %q:\n%s", want, page.SQL)
		}
	}
}

func TestListLengthOverridesEnd(t *testing.T) {
	db := storetest.New().Push([]any{int64(1)}).Push([]any{
		int64(1), "S", "s", "", "Monthly", 5, -1,
		testkit.Date(2024, 1, 1, 0, 0), testkit.Date(2024, 9, 1, 0, 0),
		"19:00:00", "", 90,
		"", "", 1, int64(0), []string{}, []string{},
	})
	rows, _, err := NewPG().Bind(db).List(context.Background(), listing.Query{Page: 1, PerPage: 1})
	if err != nil {
		t.Fatal(err)
	}
	if rows[0].Duration() != 90*time.Minute || rows[0].Rule.Week != -1 || rows[0].CancelledAt == nil {
		t.Fatalf("row: %+v", rows[0].Series)
	}
}

func TestStarts(t *testing.T) {
	from := testkit.Date(2024, 6, 1, 0, 0)
	a, b := testkit.Date(2024, 6, 4, 20, 0), testkit.Date(2024, 6, 11, 20, 0)
	db := storetest.New().Push([]any{int64(1), a}, []any{int64(1), b}, []any{int64(2), a})

	got, err := NewPG().Bind(db).Starts(context.Background(), []int64{1, 2}, from)
	if err != nil {
		t.Fatal(err)
	}
	if len(got[1]) != 2 || len(got[2]) != 1 || !got[1][1].Equal(b) {
		t.Fatalf("got %v", got)
	}
	if c := db.Last(); !strings.Contains(c.SQL, "series_id = any($1)") || c.Args[1] != from {
		t.Fatalf("call: %+v", c)
	}
}

func TestStartsWithoutIDs(t *testing.T) {
	db := storetest.New()
	got, err := NewPG().Bind(db).Starts(context.Background(), nil, time.Now())
	if err != nil || len(got) != 0 || len(db.Calls()) != 0 {
		t.Fatalf("got %v %v %d calls", got, err, len(db.Calls()))
	}
}
