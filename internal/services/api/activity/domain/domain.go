// Package domain holds the activity feed types
package domain

import (
	"context"
	"time"

	"eventcatalog/internal/core/filters"
	"eventcatalog/internal/core/listing"
	"eventcatalog/internal/core/prefs"
)

// Activity is one feed entry: who did what to which object
type Activity struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id,omitempty"`
	UserName    string    `json:"user_name"`
	ObjectTable string    `json:"object_table"`
	ObjectID    int64     `json:"object_id,omitempty"`
	ObjectName  string    `json:"object_name"`
	Action      string    `json:"action"`
	Message     string    `json:"message,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Value exposes activity fields to predicates
func (a Activity) Value(field string) (any, bool) {
	switch field {
	case "id":
		return a.ID, true
	case "user_name":
		return a.UserName, true
	case "object_table":
		return a.ObjectTable, true
	case "object_name":
		return a.ObjectName, true
	case "action":
		return a.Action, true
	case "created_at":
		return a.CreatedAt, true
	}
	return nil, false
}

// Related is empty; activities carry no associations
func (Activity) Related(string) []string { return nil }

// Listing is the rendered activity feed
type Listing struct {
	Activities listing.Page[Activity] `json:"activities"`
	Filters    filters.Set            `json:"filters"`
	HasFilter  bool                   `json:"has_filter"`
	SortBy     string                 `json:"sort_by"`
	SortOrder  string                 `json:"sort_order"`
}

// FilterInput is the body of POST /activity/filter
type FilterInput struct {
	prefs.Input
	Name   *string `json:"filter_name,omitempty" validate:"omitempty,max=255"`
	Type   *string `json:"filter_type,omitempty" validate:"omitempty,max=64"`
	Action *string `json:"filter_action,omitempty" validate:"omitempty,max=64"`
	User   *string `json:"filter_user,omitempty" validate:"omitempty,max=255"`
}

// Values is the request map prefs.Apply takes
func (in FilterInput) Values() map[string]string {
	return in.Input.Values(map[string]*string{
		filters.KeyName:   in.Name,
		filters.KeyType:   in.Type,
		filters.KeyAction: in.Action,
		filters.KeyUser:   in.User,
	})
}

// ServicePort is consumed by handlers
type ServicePort interface {
	List(ctx context.Context, st prefs.State) (Listing, error)
}
