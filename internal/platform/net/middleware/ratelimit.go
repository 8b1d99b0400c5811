package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	perr "eventcatalog/internal/platform/errors"
	phttp "eventcatalog/internal/platform/net/http"

	"golang.org/x/time/rate"
)

// RateLimitOptions configures per client limiting
type RateLimitOptions struct {
	RPS        float64
	Burst      int
	IdleTTL    time.Duration // entries unseen this long are dropped
	MaxClients int
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client ip
type RateLimiter struct {
	mu      sync.Mutex
	opt     RateLimitOptions
	clients map[string]*limiterEntry
	now     func() time.Time
}

// NewRateLimiter returns a limiter; zero options get 5 rps, burst 10
func NewRateLimiter(opt RateLimitOptions) *RateLimiter {
	if opt.RPS <= 0 {
		opt.RPS = 5
	}
	if opt.Burst <= 0 {
		opt.Burst = 10
	}
	if opt.IdleTTL <= 0 {
		opt.IdleTTL = 10 * time.Minute
	}
	if opt.MaxClients <= 0 {
		opt.MaxClients = 10000
	}
	return &RateLimiter{opt: opt, clients: map[string]*limiterEntry{}, now: time.Now}
}

func (l *RateLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if e, ok := l.clients[key]; ok {
		e.lastSeen = now
		return e.lim
	}
	if len(l.clients) >= l.opt.MaxClients {
		l.sweepLocked(now)
	}
	e := &limiterEntry{lim: rate.NewLimiter(rate.Limit(l.opt.RPS), l.opt.Burst), lastSeen: now}
	l.clients[key] = e
	return e.lim
}

// sweepLocked drops idle entries, or the oldest one when nothing is idle
func (l *RateLimiter) sweepLocked(now time.Time) {
	var oldestKey string
	var oldest time.Time
	for k, e := range l.clients {
		if now.Sub(e.lastSeen) >= l.opt.IdleTTL {
			delete(l.clients, k)
			continue
		}
		if oldestKey == "" || e.lastSeen.Before(oldest) {
			oldestKey, oldest = k, e.lastSeen
		}
	}
	if len(l.clients) >= l.opt.MaxClients && oldestKey != "" {
		delete(l.clients, oldestKey)
	}
}

// Len reports tracked clients
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Middleware rejects requests over the limit with a 429 envelope
// RemoteAddr is expected to be resolved already (RealIP)
func (l *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.limiter(clientKey(r)).Allow() {
				phttp.RespondError(w, r, perr.TooManyRequestsf("rate limit exceeded"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
