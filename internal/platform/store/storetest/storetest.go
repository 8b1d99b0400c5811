// Package storetest is a scripted in memory store.TxRunner for repo tests
package storetest

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"

	"eventcatalog/internal/platform/store"
)

// Call is one recorded statement
type Call struct {
	SQL  string
	Args []any
}

// Result is what the next Query or QueryRow returns
type Result struct {
	Rows [][]any
	Err  error
}

// DB records statements and replays queued results in order
type DB struct {
	mu       sync.Mutex
	calls    []Call
	results  []Result
	ExecErr  error
	Affected int64
	TxErr    error
}

// New returns an empty DB where writes affect one row
func New() *DB { return &DB{Affected: 1} }

// Push queues a result set; each row must match the Scan destinations
func (d *DB) Push(rows ...[]any) *DB {
	d.mu.Lock()
	d.results = append(d.results, Result{Rows: rows})
	d.mu.Unlock()
	return d
}

// PushErr queues a failing query
func (d *DB) PushErr(err error) *DB {
	d.mu.Lock()
	d.results = append(d.results, Result{Err: err})
	d.mu.Unlock()
	return d
}

// Calls returns the recorded statements
func (d *DB) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Call(nil), d.calls...)
}

// Last is the most recent statement
func (d *DB) Last() Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.calls) == 0 {
		return Call{}
	}
	return d.calls[len(d.calls)-1]
}

// Find returns the first call whose SQL contains sub
func (d *DB) Find(sub string) (Call, bool) {
	for _, c := range d.Calls() {
		if strings.Contains(c.SQL, sub) {
			return c, true
		}
	}
	return Call{}, false
}

func (d *DB) record(sql string, args []any) {
	d.mu.Lock()
	d.calls = append(d.calls, Call{SQL: sql, Args: append([]any(nil), args...)})
	d.mu.Unlock()
}

func (d *DB) next() Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.results) == 0 {
		return Result{}
	}
	r := d.results[0]
	d.results = d.results[1:]
	return r
}

// Exec records the statement
func (d *DB) Exec(_ context.Context, sql string, args ...any) (store.CommandTag, error) {
	d.record(sql, args)
	if d.ExecErr != nil {
		return nil, d.ExecErr
	}
	return tag{n: d.Affected}, nil
}

// Query records the statement and returns the next queued result
func (d *DB) Query(_ context.Context, sql string, args ...any) (store.Rows, error) {
	d.record(sql, args)
	r := d.next()
	if r.Err != nil {
		return nil, r.Err
	}
	return &rows{data: r.Rows}, nil
}

// QueryRow scans the first row of the next queued result; none is pgx.ErrNoRows
func (d *DB) QueryRow(_ context.Context, sql string, args ...any) store.Row {
	d.record(sql, args)
	r := d.next()
	if r.Err != nil {
		return row{err: r.Err}
	}
	if len(r.Rows) == 0 {
		return row{err: pgx.ErrNoRows}
	}
	return row{vals: r.Rows[0]}
}

// Tx runs fn against d itself
func (d *DB) Tx(ctx context.Context, fn func(store.RowQuerier) error) error {
	if d.TxErr != nil {
		return d.TxErr
	}
	return fn(d)
}

// Ping always succeeds
func (d *DB) Ping(context.Context) error { return nil }

type tag struct{ n int64 }

func (t tag) String() string      { return fmt.Sprintf("OK %d", t.n) }
func (t tag) RowsAffected() int64 { return t.n }

type row struct {
	vals []any
	err  error
}

func (r row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(r.vals, dest)
}

type rows struct {
	data [][]any
	i    int
}

func (r *rows) Next() bool {
	if r.i >= len(r.data) {
		return false
	}
	r.i++
	return true
}

func (r *rows) Scan(dest ...any) error { return assign(r.data[r.i-1], dest) }
func (r *rows) Err() error             { return nil }
func (r *rows) Close()                 {}
func (r *rows) Columns() []string      { return nil }

// assign copies vals into pointer dests, converting where Go allows it
func assign(vals []any, dest []any) error {
	if len(vals) != len(dest) {
		return fmt.Errorf("storetest: scan %d values into %d dests", len(vals), len(dest))
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d)
		if dv.Kind() != reflect.Pointer || dv.IsNil() {
			return fmt.Errorf("storetest: dest %d is not a pointer", i)
		}
		target := dv.Elem()
		if vals[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		v := reflect.ValueOf(vals[i])
		if err := set(target, v); err != nil {
			return fmt.Errorf("storetest: dest %d: %w", i, err)
		}
	}
	return nil
}

func set(target, v reflect.Value) error {
	switch {
	case v.Type().AssignableTo(target.Type()):
		target.Set(v)
	case target.Kind() == reflect.Pointer:
		p := reflect.New(target.Type().Elem())
		if err := set(p.Elem(), v); err != nil {
			return err
		}
		target.Set(p)
	case v.Kind() == reflect.Pointer:
		if v.IsNil() {
			target.Set(reflect.Zero(target.Type()))
			return nil
		}
		return set(target, v.Elem())
	case v.Type().ConvertibleTo(target.Type()):
		target.Set(v.Convert(target.Type()))
	default:
		return fmt.Errorf("cannot assign %s to %s", v.Type(), target.Type())
	}
	return nil
}
