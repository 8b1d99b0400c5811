// Package domain holds the events listing types
package domain

import (
	"time"

	"eventcatalog/internal/core/filters"
	"eventcatalog/internal/core/listing"
	"eventcatalog/internal/core/prefs"
	"eventcatalog/internal/core/visibility"
)

// Event is one listed event; Projected marks a synthetic series occurrence
type Event struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	StartAt     time.Time  `json:"start_at"`
	EndAt       *time.Time `json:"end_at,omitempty"`
	VenueName   string     `json:"venue_name,omitempty"`
	EventType   string     `json:"event_type,omitempty"`
	SeriesSlug  string     `json:"series_slug,omitempty"`
	Visibility  int        `json:"visibility"`
	CreatedBy   int64      `json:"-"`
	Tags        []string   `json:"tags"`
	Entities    []string   `json:"entities"`
	Projected   bool       `json:"projected,omitempty"`
}

// Value exposes event fields to predicates
func (e Event) Value(field string) (any, bool) {
	switch field {
	case "id":
		return e.ID, true
	case "name":
		return e.Name, true
	case "slug":
		return e.Slug, true
	case "start_at":
		return e.StartAt, true
	case "venue_name":
		return e.VenueName, e.VenueName != ""
	case "event_type":
		return e.EventType, e.EventType != ""
	case "series_slug":
		return e.SeriesSlug, e.SeriesSlug != ""
	case "visibility":
		return e.Visibility, true
	case "created_by":
		return e.CreatedBy, e.CreatedBy != 0
	}
	return nil, false
}

// Related exposes tags and entities
func (e Event) Related(assoc string) []string {
	switch assoc {
	case "tags":
		return e.Tags
	case "entities":
		return e.Entities
	}
	return nil
}

// View names one events listing
type View string

// Views
const (
	ViewIndex    View = "index"
	ViewGrid     View = "grid"
	ViewFuture   View = "future"
	ViewPast     View = "past"
	ViewToday    View = "today"
	ViewWeek     View = "week"
	ViewTag      View = "tag"
	ViewVenue    View = "venue"
	ViewRelated  View = "related"
	ViewType     View = "type"
	ViewSeries   View = "series"
	ViewStarting View = "starting"
	ViewFeed     View = "feed"
)

// Partitioned reports views that show upcoming and past side by side
func (v View) Partitioned() bool {
	switch v {
	case ViewIndex, ViewTag, ViewVenue, ViewRelated, ViewType, ViewSeries:
		return true
	}
	return false
}

// Request is one listing request after preferences were reconciled
type Request struct {
	View View
	// Arg is the path value of tag, venue, related, type and series views
	Arg string
	// Day is the calendar day of the starting view
	Day      time.Time
	State    prefs.State
	Identity visibility.Identity
}

// Listing is a rendered events view; partitioned views fill Future and Past, others Events
type Listing struct {
	View      View                 `json:"view"`
	Events    *listing.Page[Event] `json:"events,omitempty"`
	Future    *listing.Page[Event] `json:"future,omitempty"`
	Past      *listing.Page[Event] `json:"past,omitempty"`
	Filters   filters.Set          `json:"filters"`
	HasFilter bool                 `json:"has_filter"`
	SortBy    string               `json:"sort_by"`
	SortOrder string               `json:"sort_order"`
}

// FilterInput is the body of POST /events/filter
type FilterInput struct {
	prefs.Input
	Name       *string `json:"filter_name,omitempty" validate:"omitempty,max=255"`
	Tag        *string `json:"filter_tag,omitempty" validate:"omitempty,max=255"`
	Venue      *string `json:"filter_venue,omitempty" validate:"omitempty,max=255"`
	Related    *string `json:"filter_related,omitempty" validate:"omitempty,max=255"`
	FuturePage *int    `json:"future_page,omitempty"`
	PastPage   *int    `json:"past_page,omitempty"`
}

// Values is the request map prefs.Apply takes
func (in FilterInput) Values() map[string]string {
	out := in.Input.Values(map[string]*string{
		filters.KeyName:    in.Name,
		filters.KeyTag:     in.Tag,
		filters.KeyVenue:   in.Venue,
		filters.KeyRelated: in.Related,
	})
	if in.FuturePage != nil {
		out[CursorFuture] = itoa(*in.FuturePage)
	}
	if in.PastPage != nil {
		out[CursorPast] = itoa(*in.PastPage)
	}
	return out
}

// Page cursors of the partitioned views
const (
	CursorFuture = "future_page"
	CursorPast   = "past_page"
)
