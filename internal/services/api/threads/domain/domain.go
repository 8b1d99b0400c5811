// Package domain holds the forum thread listing types
package domain

import (
	"context"
	"time"

	"eventcatalog/internal/core/filters"
	"eventcatalog/internal/core/listing"
	"eventcatalog/internal/core/prefs"
	"eventcatalog/internal/core/visibility"
)

// Thread is one listed discussion
type Thread struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Slug       string     `json:"slug"`
	Category   string     `json:"thread_category"`
	PostsCount int        `json:"posts_count"`
	Visibility int        `json:"visibility"`
	CreatedBy  int64      `json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	LastPostAt *time.Time `json:"last_post_at,omitempty"`
}

// Value exposes thread fields to predicates
func (t Thread) Value(field string) (any, bool) {
	switch field {
	case "id":
		return t.ID, true
	case "name":
		return t.Name, true
	case "thread_category":
		return t.Category, true
	case "posts_count":
		return t.PostsCount, true
	case "visibility":
		return t.Visibility, true
	case "created_by":
		return t.CreatedBy, t.CreatedBy != 0
	case "created_at":
		return t.CreatedAt, true
	case "last_post_at":
		return t.LastPostAt, true
	}
	return nil, false
}

// Related is empty; threads carry no associations
func (Thread) Related(string) []string { return nil }

// Request is one threads listing after preferences were reconciled
type Request struct {
	State    prefs.State
	Identity visibility.Identity
}

// Listing is the rendered thread index
type Listing struct {
	Threads   listing.Page[Thread] `json:"threads"`
	Filters   filters.Set          `json:"filters"`
	HasFilter bool                 `json:"has_filter"`
	SortBy    string               `json:"sort_by"`
	SortOrder string               `json:"sort_order"`
}

// FilterInput is the body of POST /threads/filter
type FilterInput struct {
	prefs.Input
	Name     *string `json:"filter_name,omitempty" validate:"omitempty,max=255"`
	Category *string `json:"filter_category,omitempty" validate:"omitempty,max=64"`
	Popular  *string `json:"filter_popular,omitempty" validate:"omitempty,max=8"`
}

// Values is the request map prefs.Apply takes
func (in FilterInput) Values() map[string]string {
	return in.Input.Values(map[string]*string{
		filters.KeyName:     in.Name,
		filters.KeyCategory: in.Category,
		filters.KeyPopular:  in.Popular,
	})
}

// ServicePort is consumed by handlers
type ServicePort interface {
	List(ctx context.Context, req Request) (Listing, error)
}
