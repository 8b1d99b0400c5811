package middleware

import (
	"net/http"

	pnet "eventcatalog/internal/platform/net"
	phttp "eventcatalog/internal/platform/net/http"
)

// SessionPort resolves the visitor session for a request
// it may set a cookie on w when issuing a new session
type SessionPort interface {
	Resolve(w http.ResponseWriter, r *http.Request) (sessionID, userID string, err error)
}

// Session puts the session id and the signed in user id (if any) on the context
// a nil port leaves requests anonymous and sessionless
func Session(p SessionPort) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			sid, uid, err := p.Resolve(w, r)
			if err != nil {
				phttp.RespondError(w, r, err)
				return
			}
			ctx := pnet.WithRequest(r.Context(), "", sid)
			ctx = pnet.WithUser(ctx, uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
