// Package http provides http transport for visitor sessions
package http

import (
	stdhttp "net/http"
	"strconv"

	"eventcatalog/internal/modkit/httpkit"
	pnet "eventcatalog/internal/platform/net"
	svc "eventcatalog/internal/services/session/service"
)

// Current is the visitor's session as seen by the server
type Current struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id,omitempty"`
	SignedIn  bool   `json:"signed_in"`
}

// Register mounts session endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/", h.current)

	// drops stored preferences and the cookie
	r.Post("/forget", h.forget)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /session Session sessionCurrent
// @Summary Current visitor session
// @Tags Session
// @Produce json
// @Success 200 {object} Current "ok"
// @Router /session [get]
func (h *handlers) current(r *stdhttp.Request) (any, error) {
	id := httpkit.Identity(r)
	out := Current{SessionID: pnet.SessionID(r.Context()), SignedIn: id.Present()}
	if uid, ok := id.ID(); ok {
		out.UserID = strconv.FormatInt(uid, 10)
	}
	return out, nil
}

// swagger:route POST /session/forget Session sessionForget
// @Summary Forget the visitor session and its preferences
// @Tags Session
// @Success 204 "forgotten"
// @Router /session/forget [post]
func (h *handlers) forget(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	// the cookie has to go on w before the envelope is written
	err := h.svc.Forget(r.Context(), w, pnet.SessionID(r.Context()))
	httpkit.Handle(func(*stdhttp.Request) httpkit.Response {
		if err != nil {
			return httpkit.Error(err)
		}
		return httpkit.NoContent()
	})(w, r)
}
