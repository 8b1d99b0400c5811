package prefs

import (
	"strconv"

	"eventcatalog/internal/core/filters"
)

// Input is the paging half of a filter request body; nil fields are left as stored
type Input struct {
	Page      *int    `json:"page,omitempty"`
	RPP       *int    `json:"filter_rpp,omitempty"`
	SortBy    *string `json:"filter_sort_by,omitempty" validate:"omitempty,max=64"`
	SortOrder *string `json:"filter_sort_order,omitempty" validate:"omitempty,sort_dir"`
}

// Values flattens in plus the view's filter fields into the map Apply takes
// a nil filter is untouched; an empty one clears the stored value
func (in Input) Values(fields map[string]*string) map[string]string {
	out := map[string]string{}
	if in.Page != nil {
		out[ReqPage] = strconv.Itoa(*in.Page)
	}
	if in.RPP != nil {
		out[filters.KeyRPP] = strconv.Itoa(*in.RPP)
	}
	if in.SortBy != nil {
		out[filters.KeySortBy] = *in.SortBy
	}
	if in.SortOrder != nil {
		out[filters.KeySortDir] = *in.SortOrder
	}
	for k, v := range fields {
		if v != nil {
			out[k] = *v
		}
	}
	return out
}
