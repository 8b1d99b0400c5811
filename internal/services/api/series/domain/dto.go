// Package domain holds the series listing types
package domain

import (
	"context"
	"time"

	"eventcatalog/internal/core/filters"
	"eventcatalog/internal/core/listing"
	"eventcatalog/internal/core/prefs"
	"eventcatalog/internal/core/series"
	"eventcatalog/internal/core/visibility"
)

// Row is a stored series as the repo reads it
type Row struct {
	series.Series
	Description string
	EventType   string
}

// Item is one listed series with its next projected occurrence
type Item struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Slug           string     `json:"slug"`
	Description    string     `json:"description,omitempty"`
	OccurrenceType string     `json:"occurrence_type"`
	OccurrenceDay  string     `json:"occurrence_day,omitempty"`
	OccurrenceWeek int        `json:"occurrence_week,omitempty"`
	StartTime      string     `json:"start_time"`
	FoundedAt      *time.Time `json:"founded_at,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
	VenueName      string     `json:"venue_name,omitempty"`
	EventType      string     `json:"event_type,omitempty"`
	Visibility     int        `json:"visibility"`
	Tags           []string   `json:"tags"`
	Entities       []string   `json:"entities"`
	Next           *time.Time `json:"next_at,omitempty"`
	NextEnd        *time.Time `json:"next_end_at,omitempty"`
}

// Occurrence is one projected slot of a series
type Occurrence struct {
	Row     Row
	StartAt time.Time
	EndAt   time.Time
}

// Request is one series listing after preferences were reconciled
type Request struct {
	State    prefs.State
	Identity visibility.Identity
}

// Listing is the rendered series index
type Listing struct {
	Series    listing.Page[Item] `json:"series"`
	Filters   filters.Set        `json:"filters"`
	HasFilter bool               `json:"has_filter"`
	SortBy    string             `json:"sort_by"`
	SortOrder string             `json:"sort_order"`
}

// FilterInput is the body of POST /series/filter
type FilterInput struct {
	prefs.Input
	Name    *string `json:"filter_name,omitempty" validate:"omitempty,max=255"`
	Tag     *string `json:"filter_tag,omitempty" validate:"omitempty,max=255"`
	Venue   *string `json:"filter_venue,omitempty" validate:"omitempty,max=255"`
	Related *string `json:"filter_related,omitempty" validate:"omitempty,max=255"`
}

// Values is the request map prefs.Apply takes
func (in FilterInput) Values() map[string]string {
	return in.Input.Values(map[string]*string{
		filters.KeyName:    in.Name,
		filters.KeyTag:     in.Tag,
		filters.KeyVenue:   in.Venue,
		filters.KeyRelated: in.Related,
	})
}

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	List(ctx context.Context, req Request) (Listing, error)
	Get(ctx context.Context, slug string, id visibility.Identity) (Item, error)
	Occurrences(ctx context.Context, id visibility.Identity, from, to time.Time) ([]Occurrence, error)
}
