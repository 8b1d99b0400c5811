package repokit

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventcatalog/internal/platform/store"
	"eventcatalog/internal/platform/store/storetest"
	"eventcatalog/internal/platform/testkit"
)

// noPing hides storetest's Ping so the passthrough has nothing to call
type noPing struct{ *storetest.DB }

func (noPing) Ping() {}

func TestWithBeginHooksOrder(t *testing.T) {
	t.Parallel()

	db := storetest.New()
	var seq []string
	hook := func(name string) BeginHook {
		return func(context.Context, Queryer) error {
			seq = append(seq, name)
			return nil
		}
	}

	tx := WithBeginHooks(db, hook("timeout"), hook("readonly"))
	err := WithTx(context.Background(), tx, func(Queryer) error {
		seq = append(seq, "fn")
		return nil
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}
	if len(seq) != 3 || seq[0] != "timeout" || seq[1] != "readonly" || seq[2] != "fn" {
		t.Fatalf("seq = %v", seq)
	}
}

func TestWithBeginHooksShortCircuits(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	ran := false
	tx := WithBeginHooks(storetest.New(), func(context.Context, Queryer) error { return boom })
	err := tx.Tx(context.Background(), func(Queryer) error {
		ran = true
		return nil
	})
	if !errors.Is(err, boom) || ran {
		t.Fatalf("err = %v ran = %v", err, ran)
	}
}

func TestWithBeginHooksNoneReturnsInner(t *testing.T) {
	t.Parallel()

	db := storetest.New()
	if got := WithBeginHooks(db); got != store.TxRunner(db) {
		t.Fatal("expected the inner runner back")
	}
}

func TestHookStatements(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		hook BeginHook
		want string
	}{
		{"timeout", StatementTimeout(5 * time.Second), "set local statement_timeout = 5000"},
		{"read only", ReadOnly(), "set transaction isolation level repeatable read, read only"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := storetest.New()
			tx := WithBeginHooks(db, tc.hook)
			if err := tx.Tx(context.Background(), func(q Queryer) error {
				_, err := q.Query(context.Background(), "select 1")
				return err
			}); err != nil {
				t.Fatalf("tx: %v", err)
			}
			calls := db.Calls()
			if len(calls) != 2 || calls[0].SQL != tc.want {
				t.Fatalf("calls = %+v", calls)
			}
		})
	}
}

func TestStatementTimeoutZeroIsNoop(t *testing.T) {
	t.Parallel()

	db := storetest.New()
	if err := StatementTimeout(0)(context.Background(), db); err != nil {
		t.Fatalf("hook: %v", err)
	}
	if len(db.Calls()) != 0 {
		t.Fatalf("calls = %+v", db.Calls())
	}
}

func TestHookedPassthrough(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := storetest.New()
	db.Push([]any{int64(3)})
	tx := WithBeginHooks(db, ReadOnly())

	var n int64
	if err := tx.QueryRow(ctx, "select count(*) from series where id = $1", 9).Scan(&n); err != nil || n != 3 {
		t.Fatalf("n = %d err = %v", n, err)
	}
	if _, err := tx.Exec(ctx, "delete from sessions"); err != nil {
		t.Fatalf("exec: %v", err)
	}
	if got := db.Last().SQL; got != "delete from sessions" {
		t.Fatalf("last = %q", got)
	}

	pinger, ok := tx.(store.Pinger)
	if !ok {
		t.Fatal("hooked runner should expose Ping")
	}
	if err := pinger.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	bare := WithBeginHooks(noPing{db}, ReadOnly()).(store.Pinger)
	if err := bare.Ping(ctx); err != nil {
		t.Fatalf("ping without inner pinger: %v", err)
	}
}

func TestMustBind(t *testing.T) {
	t.Parallel()

	b := BindFunc[string](func(q Queryer) string {
		if q == nil {
			return "nil"
		}
		return "bound"
	})
	if got := MustBind[string](b, storetest.New()); got != "bound" {
		t.Fatalf("got %q", got)
	}
	testkit.MustPanic(t, func() { MustBind[string](b, nil) })
}

type guardFunc func(context.Context) error

func (g guardFunc) Guard(ctx context.Context) error { return g(ctx) }

func TestMustGuard(t *testing.T) {
	t.Parallel()

	var hadDeadline bool
	MustGuard(context.Background(), guardFunc(func(ctx context.Context) error {
		_, hadDeadline = ctx.Deadline()
		return nil
	}))
	if !hadDeadline {
		t.Fatal("guard should get a deadline")
	}
	testkit.MustPanic(t, func() {
		MustGuard(context.Background(), guardFunc(func(context.Context) error { return errors.New("pg down") }))
	})
}
