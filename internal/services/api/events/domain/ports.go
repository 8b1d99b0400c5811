package domain

import (
	"context"
	"strconv"
	"time"

	"eventcatalog/internal/core/visibility"
)

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	List(ctx context.Context, req Request) (Listing, error)
	Feed(ctx context.Context, req Request) ([]Event, error)
}

// Projection is a synthetic series occurrence
type Projection struct {
	SeriesID   int64
	Name       string
	Slug       string
	StartAt    time.Time
	EndAt      time.Time
	VenueName  string
	EventType  string
	Visibility int
	Tags       []string
	Entities   []string
}

// Projections is what events needs from the series module
type Projections interface {
	Projected(ctx context.Context, id visibility.Identity, from, to time.Time) ([]Projection, error)
}

func itoa(n int) string { return strconv.Itoa(n) }
