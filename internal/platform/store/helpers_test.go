package store

import (
	"context"
	"errors"
	"testing"

	perr "eventcatalog/internal/platform/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type slugRow struct {
	ID   int
	Slug string
}

func scanSlug(r Row) (slugRow, error) {
	var s slugRow
	err := r.Scan(&s.ID, &s.Slug)
	return s, err
}

func TestMany(t *testing.T) {
	q := &fakeQuerier{rows: &fakeRows{data: [][]any{{1, "house-night"}, {2, "techno-night"}}}}
	got, err := Many(context.Background(), q, scanSlug, "select id, slug from events")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1].Slug != "techno-night" {
		t.Fatalf("got %+v", got)
	}

	q = &fakeQuerier{err: errors.New("down")}
	if _, err := Many(context.Background(), q, scanSlug, "select"); err == nil {
		t.Fatal("expected query error")
	}
}

func TestOne(t *testing.T) {
	cases := []struct {
		name    string
		data    [][]any
		wantErr error
		more    bool
	}{
		{"one", [][]any{{1, "a"}}, nil, false},
		{"none", nil, perr.ErrNotFound, false},
		{"too many", [][]any{{1, "a"}, {2, "b"}}, nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := &fakeQuerier{rows: &fakeRows{data: tc.data}}
			_, err := One(context.Background(), q, scanSlug, "select")
			switch {
			case tc.wantErr != nil:
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("got %v", err)
				}
			case tc.more:
				if err == nil {
					t.Fatal("expected error for extra rows")
				}
			default:
				if err != nil {
					t.Fatal(err)
				}
			}
		})
	}
}

func TestRetry(t *testing.T) {
	serialization := &pgconn.PgError{Code: "40001"}

	cases := []struct {
		name     string
		errs     []error
		attempts int
		calls    int
		ok       bool
	}{
		{"first try", []error{nil}, 3, 1, true},
		{"retry then ok", []error{serialization, nil}, 3, 2, true},
		{"exhausted", []error{serialization, serialization, serialization}, 3, 3, false},
		{"not retryable", []error{errors.New("syntax")}, 3, 1, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), tc.attempts, func() error {
				e := tc.errs[calls]
				calls++
				return e
			})
			if calls != tc.calls || (err == nil) != tc.ok {
				t.Fatalf("calls=%d err=%v", calls, err)
			}
		})
	}
}

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type pingPG struct {
	*fakeQuerier
	pingFunc
}

func (pingPG) Tx(context.Context, func(RowQuerier) error) error { return nil }

func TestGuard(t *testing.T) {
	var nilStore *Store
	if err := nilStore.Guard(context.Background()); err == nil {
		t.Fatal("nil store should fail")
	}
	if err := (&Store{}).Guard(context.Background()); err != nil {
		t.Fatalf("no backends: %v", err)
	}
	s := &Store{PG: pingPG{fakeQuerier: &fakeQuerier{}, pingFunc: func(context.Context) error { return errors.New("refused") }}}
	if err := s.Guard(context.Background()); err == nil {
		t.Fatal("expected pg ping error")
	}
}
