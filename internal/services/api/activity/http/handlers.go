// Package http provides http transport for the activity feed
package http

import (
	stdhttp "net/http"

	"eventcatalog/internal/modkit/httpkit"
	"eventcatalog/internal/services/api/activity/domain"
	svc "eventcatalog/internal/services/api/activity/service"
)

// Options carries what the handlers need besides the service
type Options struct {
	Listing httpkit.Listing
	Limiter *httpkit.RateLimiter
}

// Register mounts activity endpoints on the given router
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

// swagger:route GET /activity Activity activityList
// @Summary Recent activity
// @Description Query values (filter_name, filter_type, filter_action, filter_user, page, filter_rpp) are stored in the visitor's preferences
// @Tags Activity
// @Produce json
// @Success 200 {object} domain.Listing "ok"
// @Router /activity [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.svc.List(r.Context(), h.o.Listing.State(r))
}

// swagger:route POST /activity/filter Activity activityFilter
// @Summary Store filters and paging, then list
// @Tags Activity
// @Accept json
// @Produce json
// @Param payload body domain.FilterInput true "Filters"
// @Success 200 {object} domain.Listing "ok"
// @Failure 400 {object} httpkit.Envelope "validation"
// @Router /activity/filter [post]
func (h *handlers) filter(r *stdhttp.Request, in domain.FilterInput) (any, error) {
	return h.svc.List(r.Context(), h.o.Listing.Apply(r, in.Values()))
}

// swagger:route POST /activity/reset Activity activityReset
// @Summary Restore default filters and paging, then list
// @Tags Activity
// @Produce json
// @Success 200 {object} domain.Listing "ok"
// @Router /activity/reset [post]
func (h *handlers) reset(r *stdhttp.Request) (any, error) {
	return h.svc.List(r.Context(), h.o.Listing.Reset(r))
}
