// Package http provides http transport for forum threads
package http

import (
	stdhttp "net/http"

	"eventcatalog/internal/modkit/httpkit"
	"eventcatalog/internal/services/api/threads/domain"
	svc "eventcatalog/internal/services/api/threads/service"
)

// Options carries what the handlers need besides the service
type Options struct {
	Listing httpkit.Listing
	Limiter *httpkit.RateLimiter
}

// Register mounts thread endpoints on the given router
func Register(r httpkit.Router, s svc.Service, o Options) {
	h := &handlers{svc: s, o: o}

	httpkit.Get(r, "/", h.list)
	httpkit.Limited(r, o.Limiter, func(lr httpkit.Router) {
		httpkit.PostJSON[domain.FilterInput](lr, "/filter", h.filter)
		httpkit.Post(lr, "/reset", h.reset)
	})
}

type handlers struct {
	svc svc.Service
	o   Options
}

// swagger:route GET /threads Threads threadsList
// @Summary Forum threads
// @Description filter_popular orders by post count; query values are stored in the visitor's preferences
// @Tags Threads
// @Produce json
// @Success 200 {object} domain.Listing "ok"
// @Router /threads [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.svc.List(r.Context(), domain.Request{State: h.o.Listing.State(r), Identity: httpkit.Identity(r)})
}

// swagger:route POST /threads/filter Threads threadsFilter
// @Summary Store filters and paging, then list
// @Tags Threads
// @Accept json
// @Produce json
// @Param payload body domain.FilterInput true "Filters"
// @Success 200 {object} domain.Listing "ok"
// @Failure 400 {object} httpkit.Envelope "validation"
// @Router /threads/filter [post]
func (h *handlers) filter(r *stdhttp.Request, in domain.FilterInput) (any, error) {
	return h.svc.List(r.Context(), domain.Request{State: h.o.Listing.Apply(r, in.Values()), Identity: httpkit.Identity(r)})
}

// swagger:route POST /threads/reset Threads threadsReset
// @Summary Restore default filters and paging, then list
// @Tags Threads
// @Produce json
// @Success 200 {object} domain.Listing "ok"
// @Router /threads/reset [post]
func (h *handlers) reset(r *stdhttp.Request) (any, error) {
	return h.svc.List(r.Context(), domain.Request{State: h.o.Listing.Reset(r), Identity: httpkit.Identity(r)})
}
