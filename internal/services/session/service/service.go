// Package service issues and resolves signed visitor session cookies
package service

import (
	"context"
	"crypto/sha256"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"

	"eventcatalog/internal/platform/config"
	perr "eventcatalog/internal/platform/errors"
	"eventcatalog/internal/platform/logger"
	"eventcatalog/internal/services/session/domain"
	"eventcatalog/internal/services/session/repo"
)

// Options configure the session cookie and lifetime
type Options struct {
	Secret string
	Cookie string
	TTL    time.Duration
	Secure bool
	Sweep  string
	Now    func() time.Time
}

// OptionsFromEnv reads CORE_SESSION_* style keys from c
func OptionsFromEnv(c config.Conf) Options {
	return Options{
		Secret: c.MayString("SECRET", ""),
		Cookie: c.MayString("COOKIE", "eventcatalog_session"),
		TTL:    c.MayDuration("TTL", 7*24*time.Hour),
		Secure: c.MayBool("SECURE", false),
		Sweep:  c.MayString("SWEEP", "@every 1h"),
	}
}

// Service defines the session service contract
type Service interface {
	domain.ServicePort
	Get(ctx context.Context, session, key string) (string, bool, error)
	Set(ctx context.Context, session, key, value string) error
	Delete(ctx context.Context, session string, keys ...string) error
}

// Manager resolves sessions and stores their preferences
type Manager struct {
	repo  repo.Repo
	codec *securecookie.SecureCookie
	opt   Options
}

// New constructs a Manager over r
func New(r repo.Repo, opt Options) *Manager {
	if r == nil {
		panic("session.Service requires a non nil Repo")
	}
	if opt.Secret == "" {
		// cookies stop verifying across restarts; fine for local runs
		opt.Secret = uuid.NewString()
		logger.Named("session").Warn().Msg("no session secret configured, using a random one")
	}
	if opt.Cookie == "" {
		opt.Cookie = "eventcatalog_session"
	}
	if opt.TTL <= 0 {
		opt.TTL = 7 * 24 * time.Hour
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}

	hashKey, blockKey := cookieKeys(opt.Secret)
	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(int(opt.TTL / time.Second))
	sc.SetSerializer(securecookie.JSONEncoder{})

	return &Manager{repo: r, codec: sc, opt: opt}
}

// cookieKeys derives separate signing and encryption keys from one secret
func cookieKeys(secret string) (hashKey, blockKey []byte) {
	h := sha256.Sum256([]byte("hash:" + secret))
	b := sha256.Sum256([]byte("block:" + secret))
	return h[:], b[:]
}

// Options returns the effective options
func (m *Manager) Options() Options { return m.opt }

// Resolve returns the visitor's session, issuing a cookie for new or stale visitors
func (m *Manager) Resolve(w http.ResponseWriter, r *http.Request) (string, string, error) {
	now := m.opt.Now()
	claims, ok := m.decode(r, now)
	if ok && claims.Expires().Sub(now) > m.opt.TTL/2 {
		return claims.SID, claims.UID, nil
	}
	if !ok {
		claims = domain.Claims{SID: uuid.NewString()}
	}
	claims.Exp = now.Add(m.opt.TTL).Unix()
	if err := m.Issue(w, claims); err != nil {
		return "", "", perr.Wrap(err, perr.ErrorCodeUnknown, "issue session cookie")
	}
	if err := m.repo.Touch(r.Context(), claims.SID, claims.UID, now); err != nil {
		logger.C(r.Context()).Warn().Err(err).Str("session_id", claims.SID).Msg("session touch failed")
	}
	return claims.SID, claims.UID, nil
}

// Issue writes claims as the session cookie
func (m *Manager) Issue(w http.ResponseWriter, c domain.Claims) error {
	encoded, err := m.codec.Encode(m.opt.Cookie, c)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.opt.Cookie,
		Value:    encoded,
		Path:     "/",
		Expires:  c.Expires(),
		HttpOnly: true,
		Secure:   m.opt.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *Manager) decode(r *http.Request, now time.Time) (domain.Claims, bool) {
	var c domain.Claims
	ck, err := r.Cookie(m.opt.Cookie)
	if err != nil {
		return c, false
	}
	if err := m.codec.Decode(m.opt.Cookie, ck.Value, &c); err != nil {
		return c, false
	}
	if c.SID == "" || !c.Expires().After(now) {
		return c, false
	}
	return c, true
}

// Forget drops the session and its preferences and clears the cookie
func (m *Manager) Forget(ctx context.Context, w http.ResponseWriter, sessionID string) error {
	if sessionID != "" {
		if err := m.repo.Forget(ctx, sessionID); err != nil {
			return perr.FromPostgres(err, "forget session")
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.opt.Cookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.opt.Secure,
	})
	return nil
}

// Sweep removes sessions not seen within the ttl
func (m *Manager) Sweep(ctx context.Context) (domain.SweepResult, error) {
	before := m.opt.Now().Add(-m.opt.TTL)
	n, err := m.repo.Sweep(ctx, before)
	if err != nil {
		return domain.SweepResult{Before: before}, perr.FromPostgres(err, "sweep sessions")
	}
	return domain.SweepResult{Before: before, Removed: n}, nil
}

// Get reads one preference
func (m *Manager) Get(ctx context.Context, session, key string) (string, bool, error) {
	return m.repo.Get(ctx, session, key)
}

// Set writes one preference
func (m *Manager) Set(ctx context.Context, session, key, value string) error {
	return m.repo.Set(ctx, session, key, value)
}

// Delete removes preferences
func (m *Manager) Delete(ctx context.Context, session string, keys ...string) error {
	return m.repo.Delete(ctx, session, keys...)
}
