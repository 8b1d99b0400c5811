package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"eventcatalog/internal/platform/metrics"
	"eventcatalog/internal/platform/net/middleware"
)

// RateLimiter is the per client limiter Limited takes
type RateLimiter = middleware.RateLimiter

// StackOptions tunes CommonStack
type StackOptions struct {
	// Sessions resolves the visitor session; nil serves everyone sessionless
	Sessions middleware.SessionPort
	CORS     middleware.CORSOptions
	// Timeout defaults to 30s
	Timeout time.Duration
	// SlowLog warns on requests slower than this; 0 disables
	SlowLog time.Duration
	// Metrics records prometheus request metrics
	Metrics bool
}

// CommonStack returns the baseline API middleware slice
// order: correlation, safety, session, log context, access log
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	stack := []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.CORS(o.CORS),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(timeout),
		middleware.Session(o.Sessions),
		middleware.LogContext,
		middleware.AccessLog(middleware.AccessLogOptions{Slow: o.SlowLog}),
	}
	if o.Metrics {
		stack = append(stack, metrics.Middleware())
	}
	return stack
}

// Limited groups routes behind a per client rate limiter; a nil limiter adds nothing
func Limited(r Router, rl *middleware.RateLimiter, fn func(Router)) {
	r.Group(func(gr Router) {
		if rl != nil {
			gr.Use(rl.Middleware())
		}
		fn(gr)
	})
}
