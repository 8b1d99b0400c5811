package httpkit

import (
	"net/http"
	"strconv"

	"eventcatalog/internal/core/prefs"
	"eventcatalog/internal/core/visibility"
	perr "eventcatalog/internal/platform/errors"
	pnet "eventcatalog/internal/platform/net"
)

// Identity is the acting identity for visibility; anything that is not a
// numeric user id is anonymous
func Identity(r *http.Request) visibility.Identity {
	uid := pnet.UserID(r.Context())
	if uid == "" {
		return visibility.Anonymous()
	}
	id, err := strconv.ParseInt(uid, 10, 64)
	if err != nil {
		return visibility.Anonymous()
	}
	return visibility.As(id)
}

// User returns the signed in user id or an unauthorized error
func User(r *http.Request) (string, error) {
	uid := pnet.UserID(r.Context())
	if uid == "" {
		return "", perr.Unauthorizedf("not signed in")
	}
	return uid, nil
}

// Prefs returns the request's preference namespace
// without a session the namespace is scratch space that lives for this request only
func Prefs(r *http.Request, b prefs.Backend, ns string) prefs.Namespace {
	sid := pnet.SessionID(r.Context())
	if sid == "" || b == nil {
		return prefs.New(prefs.NewMemoryKV(), ns)
	}
	return prefs.New(prefs.ForSession(b, sid), ns)
}

// Listing bundles what a listing handler needs to reconcile preferences
type Listing struct {
	Prefs     prefs.Backend
	Namespace string
	Defaults  prefs.Defaults
}

// State applies the request's query values to the visitor's namespace and returns the result
func (l Listing) State(r *http.Request) prefs.State {
	return prefs.Apply(r.Context(), Prefs(r, l.Prefs, l.Namespace), Query(r), l.Defaults)
}

// Apply stores values, e.g. a decoded filter body, and returns the result
func (l Listing) Apply(r *http.Request, values map[string]string) prefs.State {
	return prefs.Apply(r.Context(), Prefs(r, l.Prefs, l.Namespace), values, l.Defaults)
}

// Reset restores the namespace defaults
func (l Listing) Reset(r *http.Request) prefs.State {
	return prefs.Reset(r.Context(), Prefs(r, l.Prefs, l.Namespace), l.Defaults)
}
