// Package repo stores visitor sessions and their preferences
package repo

import (
	"context"
	"strconv"
	"sync"
	"time"

	"eventcatalog/internal/core/prefs"
	"eventcatalog/internal/modkit/repokit"
	perr "eventcatalog/internal/platform/errors"
	"eventcatalog/internal/platform/store"
)

// Repo is the persistence surface for sessions
type Repo interface {
	prefs.Backend
	Touch(ctx context.Context, sid, uid string, at time.Time) error
	Forget(ctx context.Context, sid string) error
	Sweep(ctx context.Context, before time.Time) (int64, error)
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: repokit.RequireQueryer(q)} }

func (r *queries) Get(ctx context.Context, sid, key string) (string, bool, error) {
	v, err := store.One(ctx, r.q, scanValue, `select value from session_prefs where session_id = $1 and key = $2`, sid, key)
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func scanValue(row store.Row) (string, error) {
	var v string
	err := row.Scan(&v)
	return v, err
}

func (r *queries) Set(ctx context.Context, sid, key, value string) error {
	const sql = `
insert into session_prefs (session_id, key, value)
values ($1, $2, $3)
on conflict (session_id, key) do update
set value = excluded.value, updated_at = now()`
	// two tabs of one visitor can race on the same key
	return store.Retry(ctx, 3, func() error {
		// cookies outlive a swept or restored database, so the parent row is ensured here
		if _, err := r.q.Exec(ctx, `insert into sessions (id) values ($1) on conflict (id) do nothing`, sid); err != nil {
			return err
		}
		_, err := r.q.Exec(ctx, sql, sid, key, value)
		return err
	})
}

func (r *queries) Delete(ctx context.Context, sid string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx, `delete from session_prefs where session_id = $1 and key = any($2)`, sid, keys)
	return err
}

func (r *queries) Touch(ctx context.Context, sid, uid string, at time.Time) error {
	const sql = `
insert into sessions (id, user_id, seen_at)
values ($1, $2, $3)
on conflict (id) do update
set user_id = coalesce(excluded.user_id, sessions.user_id), seen_at = excluded.seen_at`
	_, err := r.q.Exec(ctx, sql, sid, userID(uid), at)
	return err
}

func (r *queries) Forget(ctx context.Context, sid string) error {
	_, err := r.q.Exec(ctx, `delete from sessions where id = $1`, sid)
	return err
}

func (r *queries) Sweep(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `delete from sessions where seen_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// userID is the bigint column value, nil when the visitor is anonymous
func userID(uid string) *int64 {
	id, err := strconv.ParseInt(uid, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

// Memory is a process local Repo for running without Postgres
type Memory struct {
	*prefs.Memory

	mu   sync.Mutex
	seen map[string]time.Time
}

// NewMemory returns an empty Memory repo
func NewMemory() *Memory { return &Memory{Memory: prefs.NewMemory(), seen: map[string]time.Time{}} }

func (m *Memory) Touch(_ context.Context, sid, _ string, at time.Time) error {
	m.mu.Lock()
	m.seen[sid] = at
	m.mu.Unlock()
	return nil
}

func (m *Memory) Forget(_ context.Context, sid string) error {
	m.mu.Lock()
	delete(m.seen, sid)
	m.mu.Unlock()
	m.Memory.Forget(sid)
	return nil
}

func (m *Memory) Sweep(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for sid, at := range m.seen {
		if at.Before(before) {
			delete(m.seen, sid)
			m.Memory.Forget(sid)
			n++
		}
	}
	return n, nil
}
