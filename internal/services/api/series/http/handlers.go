// Package http provides http transport for series
package http

import (
	stdhttp "net/http"

	"eventcatalog/internal/modkit/httpkit"
	"eventcatalog/internal/services/api/series/domain"
	svc "eventcatalog/internal/services/api/series/service"
)

// Options carries what the handlers need besides the service
type Options struct {
	Listing httpkit.Listing
	Limiter *httpkit.RateLimiter
}

// Register mounts series endpoints on the given router
func Register(r httpkit.Router, s svc.Service, o Options) {
	h := &handlers{svc: s, o: o}

	httpkit.Get(r, "/", h.list)

	httpkit.Limited(r, o.Limiter, func(lr httpkit.Router) {
		httpkit.PostJSON[domain.FilterInput](lr, "/filter", h.filter)
		httpkit.Post(lr, "/reset", h.reset)
	})

	httpkit.Get(r, "/{slug}", h.get)
}

type handlers struct {
	svc svc.Service
	o   Options
}

// swagger:route GET /series Series seriesList
// @Summary Series with their next occurrence
// @Description Query values (filter_*, page, filter_rpp, filter_sort_by, filter_sort_order) are stored in the visitor's preferences
// @Tags Series
// @Produce json
// @Success 200 {object} domain.Listing "ok"
// @Router /series [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.svc.List(r.Context(), domain.Request{State: h.o.Listing.State(r), Identity: httpkit.Identity(r)})
}

// swagger:route GET /series/{slug} Series seriesGet
// @Summary One series
// @Tags Series
// @Produce json
// @Param slug path string true "series slug"
// @Success 200 {object} domain.Item "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /series/{slug} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), httpkit.Param(r, "slug"), httpkit.Identity(r))
}

// swagger:route POST /series/filter Series seriesFilter
// @Summary Store filters and paging, then list
// @Tags Series
// @Accept json
// @Produce json
// @Param payload body domain.FilterInput true "Filters"
// @Success 200 {object} domain.Listing "ok"
// @Failure 400 {object} httpkit.Envelope "validation"
// @Failure 429 {object} httpkit.Envelope "rate limited"
// @Router /series/filter [post]
func (h *handlers) filter(r *stdhttp.Request, in domain.FilterInput) (any, error) {
	return h.svc.List(r.Context(), domain.Request{State: h.o.Listing.Apply(r, in.Values()), Identity: httpkit.Identity(r)})
}

// swagger:route POST /series/reset Series seriesReset
// @Summary Restore default filters and paging, then list
// @Tags Series
// @Produce json
// @Success 200 {object} domain.Listing "ok"
// @Router /series/reset [post]
func (h *handlers) reset(r *stdhttp.Request) (any, error) {
	return h.svc.List(r.Context(), domain.Request{State: h.o.Listing.Reset(r), Identity: httpkit.Identity(r)})
}
