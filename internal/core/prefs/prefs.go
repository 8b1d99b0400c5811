// Package prefs keeps per session listing preferences under namespaced keys
package prefs

import (
	"context"
	"sync"
)

// Built in namespaces
const (
	Events  = "app.events."
	Series  = "app.series."
	Pages   = "app.pages."
	Threads = "app.threads."
)

// KV is one session's preference storage; last write wins
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Backend stores preferences for many sessions
type Backend interface {
	Get(ctx context.Context, session, key string) (string, bool, error)
	Set(ctx context.Context, session, key, value string) error
	Delete(ctx context.Context, session string, keys ...string) error
}

// ForSession binds a backend to one session
func ForSession(b Backend, session string) KV { return sessionKV{b: b, session: session} }

type sessionKV struct {
	b       Backend
	session string
}

func (s sessionKV) Get(ctx context.Context, key string) (string, bool, error) {
	return s.b.Get(ctx, s.session, key)
}

func (s sessionKV) Set(ctx context.Context, key, value string) error {
	return s.b.Set(ctx, s.session, key, value)
}

func (s sessionKV) Delete(ctx context.Context, keys ...string) error {
	return s.b.Delete(ctx, s.session, keys...)
}

// Namespace prefixes every key; reads never fail, they fall back to the default
type Namespace struct {
	kv     KV
	prefix string
}

// New returns the namespace prefix over kv
func New(kv KV, prefix string) Namespace { return Namespace{kv: kv, prefix: prefix} }

// Prefix of n
func (n Namespace) Prefix() string { return n.prefix }

// Key is the full storage key
func (n Namespace) Key(k string) string { return n.prefix + k }

// Get returns the stored value or def on a miss or a backend error
func (n Namespace) Get(ctx context.Context, key, def string) string {
	if n.kv == nil {
		return def
	}
	v, ok, err := n.kv.Get(ctx, n.Key(key))
	if err != nil || !ok {
		return def
	}
	return v
}

// Set stores value and returns it; backend errors are dropped
func (n Namespace) Set(ctx context.Context, key, value string) string {
	if n.kv != nil {
		_ = n.kv.Set(ctx, n.Key(key), value)
	}
	return value
}

// Delete removes keys from the namespace
func (n Namespace) Delete(ctx context.Context, keys ...string) {
	if n.kv == nil || len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = n.Key(k)
	}
	_ = n.kv.Delete(ctx, full...)
}

// Memory is an in process Backend
type Memory struct {
	mu sync.RWMutex
	m  map[string]map[string]string
}

// NewMemory returns an empty Memory backend
func NewMemory() *Memory { return &Memory{m: map[string]map[string]string{}} }

// NewMemoryKV is a single session in memory KV
func NewMemoryKV() KV { return ForSession(NewMemory(), "") }

func (m *Memory) Get(_ context.Context, session, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.m[session][key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, session, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.m[session]
	if !ok {
		s = map[string]string{}
		m.m[session] = s
	}
	s[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, session string, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.m[session], k)
	}
	return nil
}

// Forget drops a whole session
func (m *Memory) Forget(session string) {
	m.mu.Lock()
	delete(m.m, session)
	m.mu.Unlock()
}

// Sessions is the number of sessions holding any preference
func (m *Memory) Sessions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.m)
}
