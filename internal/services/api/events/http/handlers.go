// Package http provides http transport for events
package http

import (
	stdhttp "net/http"
	"time"

	"eventcatalog/internal/modkit/httpkit"
	perr "eventcatalog/internal/platform/errors"
	"eventcatalog/internal/services/api/events/domain"
	svc "eventcatalog/internal/services/api/events/service"
)

// Options carries what the handlers need besides the service
type Options struct {
	Listing  httpkit.Listing
	Limiter  *httpkit.RateLimiter
	Location *time.Location
	Now      func() time.Time
	FeedName string
}

// Register mounts events endpoints on the given router
func Register(r httpkit.Router, s svc.Service, o Options) {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.FeedName == "" {
		o.FeedName = "Events"
	}
	h := &handlers{svc: s, o: o}

	// upcoming and past side by side
	httpkit.Get(r, "/", h.view(domain.ViewIndex, ""))
	httpkit.Get(r, "/grid", h.view(domain.ViewGrid, ""))
	httpkit.Get(r, "/future", h.view(domain.ViewFuture, ""))
	httpkit.Get(r, "/past", h.view(domain.ViewPast, ""))
	httpkit.Get(r, "/today", h.view(domain.ViewToday, ""))
	httpkit.Get(r, "/week", h.view(domain.ViewWeek, ""))

	httpkit.Get(r, "/tag/{tag}", h.view(domain.ViewTag, "tag"))
	httpkit.Get(r, "/venue/{venue}", h.view(domain.ViewVenue, "venue"))
	httpkit.Get(r, "/related/{entity}", h.view(domain.ViewRelated, "entity"))
	httpkit.Get(r, "/type/{type}", h.view(domain.ViewType, "type"))
	httpkit.Get(r, "/series/{slug}", h.view(domain.ViewSeries, "slug"))
	httpkit.Get(r, "/starting/{date}", h.starting)

	httpkit.GetResponse(r, "/feed.ics", h.ics)
	httpkit.GetResponse(r, "/feed.txt", h.text)

	httpkit.Limited(r, o.Limiter, func(lr httpkit.Router) {
		httpkit.PostJSON[domain.FilterInput](lr, "/filter", h.filter)
		httpkit.Post(lr, "/reset", h.reset)
	})
}

type handlers struct {
	svc svc.Service
	o   Options
}

func (h *handlers) request(r *stdhttp.Request, v domain.View, param string) domain.Request {
	req := domain.Request{View: v, State: h.o.Listing.State(r), Identity: httpkit.Identity(r)}
	if param != "" {
		req.Arg = httpkit.Param(r, param)
	}
	return req
}

// swagger:route GET /events Events eventsIndex
// @Summary Upcoming and past events
// @Description Query values (filter_*, page, future_page, past_page, filter_rpp, filter_sort_by, filter_sort_order) are stored in the visitor's preferences
// @Tags Events
// @Produce json
// @Success 200 {object} domain.Listing "ok"
// @Router /events [get]
func (h *handlers) view(v domain.View, param string) func(*stdhttp.Request) (any, error) {
	return func(r *stdhttp.Request) (any, error) {
		return h.svc.List(r.Context(), h.request(r, v, param))
	}
}

// swagger:route GET /events/starting/{date} Events eventsStarting
// @Summary Events starting on a calendar day
// @Tags Events
// @Produce json
// @Param date path string true "day as YYYY-MM-DD"
// @Success 200 {object} domain.Listing "ok"
// @Failure 422 {object} httpkit.Envelope "bad date"
// @Router /events/starting/{date} [get]
func (h *handlers) starting(r *stdhttp.Request) (any, error) {
	day, err := time.ParseInLocation("2006-01-02", httpkit.Param(r, "date"), h.o.Location)
	if err != nil {
		return nil, perr.WithField(perr.InvalidArgf("date must be YYYY-MM-DD"), "date")
	}
	req := h.request(r, domain.ViewStarting, "")
	req.Day = day
	return h.svc.List(r.Context(), req)
}

// swagger:route POST /events/filter Events eventsFilter
// @Summary Store filters and paging, then list
// @Tags Events
// @Accept json
// @Produce json
// @Param payload body domain.FilterInput true "Filters"
// @Success 200 {object} domain.Listing "ok"
// @Failure 400 {object} httpkit.Envelope "validation"
// @Failure 429 {object} httpkit.Envelope "rate limited"
// @Router /events/filter [post]
func (h *handlers) filter(r *stdhttp.Request, in domain.FilterInput) (any, error) {
	req := domain.Request{View: domain.ViewIndex, State: h.o.Listing.Apply(r, in.Values()), Identity: httpkit.Identity(r)}
	return h.svc.List(r.Context(), req)
}

// swagger:route POST /events/reset Events eventsReset
// @Summary Restore default filters and paging, then list
// @Tags Events
// @Produce json
// @Success 200 {object} domain.Listing "ok"
// @Router /events/reset [post]
func (h *handlers) reset(r *stdhttp.Request) (any, error) {
	req := domain.Request{View: domain.ViewIndex, State: h.o.Listing.Reset(r), Identity: httpkit.Identity(r)}
	return h.svc.List(r.Context(), req)
}

// swagger:route GET /events/feed.ics Events eventsFeedICS
// @Summary Upcoming events and projected series occurrences as iCalendar
// @Tags Events
// @Produce text/calendar
// @Success 200 {string} string "calendar"
// @Router /events/feed.ics [get]
func (h *handlers) ics(r *stdhttp.Request) httpkit.Response {
	events, err := h.svc.Feed(r.Context(), h.request(r, domain.ViewFeed, ""))
	if err != nil {
		return httpkit.Error(err)
	}
	body := svc.ICS(h.o.FeedName, events, h.o.Now())
	return httpkit.Raw("text/calendar; charset=utf-8", []byte(body))
}

// swagger:route GET /events/feed.txt Events eventsFeedText
// @Summary Upcoming events as plain text
// @Tags Events
// @Produce plain
// @Success 200 {string} string "feed"
// @Router /events/feed.txt [get]
func (h *handlers) text(r *stdhttp.Request) httpkit.Response {
	events, err := h.svc.Feed(r.Context(), h.request(r, domain.ViewFeed, ""))
	if err != nil {
		return httpkit.Error(err)
	}
	return httpkit.Raw("text/plain; charset=utf-8", []byte(svc.Text(events, h.o.Location)))
}
