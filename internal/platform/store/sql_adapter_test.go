package store

import (
	"context"
	"errors"
	"testing"

	"eventcatalog/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type stubPgx struct{ err error }

func (s stubPgx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag("UPDATE 3"), s.err
}

func (s stubPgx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, s.err
}

func (s stubPgx) QueryRow(context.Context, string, ...any) pgx.Row { return stubRow{s.err} }

type stubRow struct{ err error }

func (r stubRow) Scan(...any) error { return r.err }

func TestTracedEmits(t *testing.T) {
	var events []pg.QueryEvent
	tr := pg.TracerFunc(func(_ context.Context, ev pg.QueryEvent) { events = append(events, ev) })

	q := traced{q: stubPgx{}, tracer: tr, slowUS: 0}
	ct, err := q.Exec(context.Background(), "update events set name = $1", "x")
	if err != nil || ct.RowsAffected() != 3 {
		t.Fatalf("exec: %v %v", ct, err)
	}
	if err := q.QueryRow(context.Background(), "select 1").Scan(); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	q.q = stubPgx{err: boom}
	if _, err := q.Query(context.Background(), "select * from events"); !errors.Is(err, boom) {
		t.Fatalf("query err %v", err)
	}

	if len(events) != 3 {
		t.Fatalf("events %d", len(events))
	}
	if !events[0].Slow {
		t.Fatal("slowUS 0 marks everything slow")
	}
	if !errors.Is(events[2].Err, boom) {
		t.Fatal("error not traced")
	}
}

func TestTracedWithoutTracer(t *testing.T) {
	q := traced{q: stubPgx{}, slowUS: -1}
	if _, err := q.Exec(context.Background(), "select 1"); err != nil {
		t.Fatal(err)
	}
}
