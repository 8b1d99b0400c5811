package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventcatalog/internal/services/session/domain"
	"eventcatalog/internal/services/session/repo"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newManager(t *testing.T) (*Manager, *repo.Memory, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	mem := repo.NewMemory()
	m := New(mem, Options{Secret: "s3cret", Cookie: "sid", TTL: 24 * time.Hour, Now: c.now})
	return m, mem, c
}

// resolve runs Resolve with the given cookies and returns what it set
func resolve(t *testing.T, m *Manager, cookies ...*http.Cookie) (string, string, []*http.Cookie) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	sid, uid, err := m.Resolve(rec, req)
	if err != nil {
		t.Fatal(err)
	}
	return sid, uid, rec.Result().Cookies()
}

func TestResolveIssuesAndKeeps(t *testing.T) {
	m, _, _ := newManager(t)

	sid, uid, set := resolve(t, m)
	if sid == "" || uid != "" || len(set) != 1 {
		t.Fatalf("first visit: sid=%q uid=%q cookies=%d", sid, uid, len(set))
	}
	if !set[0].HttpOnly || set[0].SameSite != http.SameSiteLaxMode {
		t.Fatalf("cookie flags: %+v", set[0])
	}

	again, _, set2 := resolve(t, m, set[0])
	if again != sid {
		t.Fatalf("sid changed: %q -> %q", sid, again)
	}
	if len(set2) != 0 {
		t.Fatal("fresh cookie should not be reissued")
	}
}

func TestResolveRejectsTampered(t *testing.T) {
	m, _, _ := newManager(t)
	sid, _, set := resolve(t, m)
	bad := *set[0]
	bad.Value = "x" + bad.Value
	other, _, _ := resolve(t, m, &bad)
	if other == sid {
		t.Fatal("tampered cookie accepted")
	}

	foreign := New(repo.NewMemory(), Options{Secret: "other", Cookie: "sid", TTL: 24 * time.Hour, Now: m.opt.Now})
	if got, _, _ := resolve(t, foreign, set[0]); got == sid {
		t.Fatal("cookie signed with another secret accepted")
	}
}

func TestCookieKeys(t *testing.T) {
	hashKey, blockKey := cookieKeys("s3cret")
	if len(hashKey) != 32 || len(blockKey) != 32 {
		t.Fatalf("key sizes %d %d", len(hashKey), len(blockKey))
	}
	if bytes.Equal(hashKey, blockKey) {
		t.Fatal("signing and encryption keys must differ")
	}
	h2, b2 := cookieKeys("s3cret")
	if !bytes.Equal(hashKey, h2) || !bytes.Equal(blockKey, b2) {
		t.Fatal("keys should be stable for one secret")
	}

	// a restart with the same secret still reads the cookie
	m, _, _ := newManager(t)
	sid, _, set := resolve(t, m)
	restarted := New(repo.NewMemory(), Options{Secret: "s3cret", Cookie: "sid", TTL: 24 * time.Hour, Now: m.opt.Now})
	if got, _, _ := resolve(t, restarted, set[0]); got != sid {
		t.Fatalf("sid %q after restart, want %q", got, sid)
	}
}

func TestResolveReissuesPastHalfLife(t *testing.T) {
	m, _, c := newManager(t)
	sid, _, set := resolve(t, m)

	c.t = c.t.Add(13 * time.Hour)
	again, _, set2 := resolve(t, m, set[0])
	if again != sid || len(set2) != 1 {
		t.Fatalf("want reissue with same sid, got %q cookies=%d", again, len(set2))
	}
	if !set2[0].Expires.Equal(c.t.Add(24*time.Hour).Truncate(time.Second)) {
		t.Fatalf("expires: %v", set2[0].Expires)
	}

	// touched at the reissue, so a sweep a day after the first visit keeps it
	c.t = c.t.Add(12 * time.Hour)
	if res, _ := m.Sweep(context.Background()); res.Removed != 0 {
		t.Fatalf("removed %d", res.Removed)
	}
}

func TestResolveExpired(t *testing.T) {
	m, _, c := newManager(t)
	sid, _, set := resolve(t, m)
	c.t = c.t.Add(25 * time.Hour)
	if again, _, _ := resolve(t, m, set[0]); again == sid {
		t.Fatal("expired cookie accepted")
	}
}

func TestIssuedUserIsResolved(t *testing.T) {
	m, _, c := newManager(t)
	rec := httptest.NewRecorder()
	err := m.Issue(rec, domain.Claims{SID: "abc", UID: "42", Exp: c.t.Add(24 * time.Hour).Unix()})
	if err != nil {
		t.Fatal(err)
	}
	sid, uid, _ := resolve(t, m, rec.Result().Cookies()[0])
	if sid != "abc" || uid != "42" {
		t.Fatalf("got %q %q", sid, uid)
	}
}

func TestForgetClearsPrefsAndCookie(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newManager(t)
	sid, _, _ := resolve(t, m)
	_ = m.Set(ctx, sid, "app.events.rpp", "10")

	rec := httptest.NewRecorder()
	if err := m.Forget(ctx, rec, sid); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := m.Get(ctx, sid, "app.events.rpp"); ok {
		t.Fatal("prefs survived forget")
	}
	ck := rec.Result().Cookies()
	if len(ck) != 1 || ck[0].MaxAge >= 0 {
		t.Fatalf("cookie not cleared: %+v", ck)
	}
}

func TestSweepWindow(t *testing.T) {
	ctx := context.Background()
	m, _, c := newManager(t)
	resolve(t, m)
	c.t = c.t.Add(25 * time.Hour)
	resolve(t, m)

	res, err := m.Sweep(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if res.Removed != 1 || !res.Before.Equal(c.t.Add(-24*time.Hour)) {
		t.Fatalf("got %+v", res)
	}
}

type failingRepo struct{ *repo.Memory }

func (failingRepo) Sweep(context.Context, time.Time) (int64, error) { return 0, errors.New("down") }

func TestSweepError(t *testing.T) {
	m := New(failingRepo{repo.NewMemory()}, Options{Secret: "x"})
	if _, err := m.Sweep(context.Background()); err == nil {
		t.Fatal("want error")
	}
	sweepJob(context.Background(), m)()
}

func TestStartSweeper(t *testing.T) {
	m, _, _ := newManager(t)
	if _, err := StartSweeper(context.Background(), m, "not a schedule"); err == nil {
		t.Fatal("want a parse error")
	}
	s, err := StartSweeper(context.Background(), m, "@every 1h")
	if err != nil {
		t.Fatal(err)
	}
	s.Stop()
	(*Sweeper)(nil).Stop()
}

func TestNewDefaults(t *testing.T) {
	m := New(repo.NewMemory(), Options{})
	o := m.Options()
	if o.Secret == "" || o.Cookie == "" || o.TTL != 7*24*time.Hour || o.Now == nil {
		t.Fatalf("defaults: %+v", o)
	}
}
