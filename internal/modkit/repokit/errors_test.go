package repokit

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	perr "eventcatalog/internal/platform/errors"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	cause := errors.New("conn reset")
	cases := []struct {
		name    string
		err     error
		code    perr.ErrorCode
		wrapped bool
	}{
		{"foreign", cause, perr.ErrorCodeDB, true},
		{"coded", perr.ErrNotFound, perr.ErrorCodeNotFound, false},
		{"undefined table", &pgconn.PgError{Code: "42P01"}, perr.ErrorCodeUnavailable, true},
		{"read only", &pgconn.PgError{Code: "25006"}, perr.ErrorCodeUnavailable, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.err, "events.list")
			e, ok := perr.As(got)
			if !ok || e.Code() != tc.code || e.Op() != "events.list" {
				t.Fatalf("got %v", got)
			}
			if tc.wrapped && !errors.Is(got, tc.err) {
				t.Fatal("cause lost")
			}
		})
	}
	if Classify(nil, "x") != nil {
		t.Fatal("nil in, nil out")
	}
}
