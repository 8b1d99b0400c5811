package pg

import (
	"context"
	"errors"
	"testing"

	"eventcatalog/internal/platform/testkit"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestOpenAppliesConfig(t *testing.T) {
	var seen *pgxpool.Config
	testkit.Swap(t, &newPool, func(_ context.Context, c *pgxpool.Config) (*pgxpool.Pool, error) {
		seen = c
		return nil, errors.New("stop here")
	})

	_, err := Open(context.Background(), Config{
		URL:         "postgres://u:p@localhost:5432/events?sslmode=disable",
		MaxConns:    7,
		Application: "eventcatalog-api",
	}, nil, func(c *pgxpool.Config) { c.MinConns = 1 })
	if err == nil {
		t.Fatal("expected seam error")
	}
	if seen.MaxConns != 7 || seen.MinConns != 1 {
		t.Fatalf("pool cfg %d/%d", seen.MaxConns, seen.MinConns)
	}
	if seen.ConnConfig.RuntimeParams["application_name"] != "eventcatalog-api" {
		t.Fatalf("application_name %q", seen.ConnConfig.RuntimeParams["application_name"])
	}
}

func TestOpenBadURL(t *testing.T) {
	if _, err := Open(context.Background(), Config{URL: "postgres://u:p@localhost:5432/%zz"}, nil, nil); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestMultiTracer(t *testing.T) {
	if MultiTracer() != nil || MultiTracer(nil, nil) != nil {
		t.Fatal("empty should be nil")
	}
	var a, b int
	ta := TracerFunc(func(context.Context, QueryEvent) { a++ })
	tb := TracerFunc(func(context.Context, QueryEvent) { b++ })

	MultiTracer(ta).OnQuery(context.Background(), QueryEvent{})
	MultiTracer(ta, nil, tb).OnQuery(context.Background(), QueryEvent{})
	if a != 2 || b != 1 {
		t.Fatalf("a=%d b=%d", a, b)
	}
}

func TestCompact(t *testing.T) {
	in := "select id,\n\t  name\n from events\r\n where  true"
	if got := Compact(in); got != "select id, name from events where true" {
		t.Fatalf("got %q", got)
	}
}

func TestCloseNil(t *testing.T) {
	var p *PG
	p.Close()
	(&PG{}).Close()
}
