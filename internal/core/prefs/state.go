package prefs

import (
	"context"
	"strconv"
	"strings"

	"eventcatalog/internal/core/filters"
)

// Storage keys inside a namespace
const (
	keyRPP       = "rpp"
	keyPage      = "page"
	keySortBy    = "sort_by"
	keySortOrder = "sort_order"
)

// Request keys Apply understands besides the view's filter keys
const (
	ReqPage = "page"
)

// MaxPage caps stored page numbers and cursors; a capped page is past the end and lists empty
const MaxPage = 1_000_000

// Defaults are a view's compiled in preferences
type Defaults struct {
	RPP       int
	GridRPP   int
	SortBy    string
	SortOrder string
	// Sortable whitelists filter_sort_by values
	Sortable []string
	// Keys are the recognized filter keys of the view
	Keys []string
	// Cursors are extra page keys, e.g. future_page and past_page
	Cursors []string
	Filters filters.Set
}

// Paging is the stored paging state of a namespace
type Paging struct {
	Page      int
	RPP       int
	SortBy    string
	SortOrder string
}

// State is everything a listing needs from the preference store
type State struct {
	Paging
	Filters filters.Set
	// Cursors holds page numbers keyed by cursor name
	Cursors map[string]int
}

// PerPage is filter_rpp when set, else base
func (s State) PerPage(base int) int {
	if n, ok := filters.RPP(s.Filters); ok {
		return n
	}
	return base
}

// Cursor returns a named page cursor, 1 when unset
func (s State) Cursor(name string) int {
	if n := s.Cursors[name]; n > 0 {
		return n
	}
	return 1
}

// Desc reports a descending sort
func (s State) Desc() bool { return s.SortOrder == "desc" }

// IsFiltered reports any filter value present; filter_rpp is paging, not a filter
func IsFiltered(s State) bool {
	for k, v := range s.Filters {
		if k != filters.KeyRPP && strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

func positive(s string, limit int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, false
	}
	return min(n, limit), true
}

func sortOrder(s string) (string, bool) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "asc", "desc":
		return v, true
	}
	return "", false
}

func (d Defaults) sortable(field string) bool {
	for _, f := range d.Sortable {
		if f == field {
			return true
		}
	}
	return false
}

func (d Defaults) rpp() int {
	if d.RPP > 0 {
		return d.RPP
	}
	return 1
}

// Load reads the state of ns, substituting defaults for anything missing or invalid
func Load(ctx context.Context, ns Namespace, d Defaults) State {
	st := State{
		Paging: Paging{
			Page:      1,
			RPP:       d.rpp(),
			SortBy:    d.SortBy,
			SortOrder: d.SortOrder,
		},
		Filters: filters.Set{},
		Cursors: map[string]int{},
	}
	if n, ok := positive(ns.Get(ctx, keyPage, ""), MaxPage); ok {
		st.Page = n
	}
	if n, ok := positive(ns.Get(ctx, keyRPP, ""), filters.MaxRPP); ok {
		st.RPP = n
	}
	if v := ns.Get(ctx, keySortBy, ""); d.sortable(v) {
		st.SortBy = v
	}
	if v, ok := sortOrder(ns.Get(ctx, keySortOrder, "")); ok {
		st.SortOrder = v
	}
	for _, c := range d.Cursors {
		if n, ok := positive(ns.Get(ctx, c, ""), MaxPage); ok {
			st.Cursors[c] = n
		}
	}
	for _, k := range d.Keys {
		def := d.Filters[k]
		if v := filters.Normalize(ns.Get(ctx, k, def)); v != "" {
			st.Filters[k] = v
		}
	}
	if n, ok := positive(ns.Get(ctx, filters.KeyRPP, ""), filters.MaxRPP); ok {
		st.Filters[filters.KeyRPP] = strconv.Itoa(n)
	}
	return st
}

// setter applies one request value; rejected values leave the store untouched or clear the key
type setter func(ctx context.Context, ns Namespace, d Defaults, v string)

// table maps every request key Apply accepts to its setter
func table(d Defaults) map[string]setter {
	t := map[string]setter{
		filters.KeySortBy: func(ctx context.Context, ns Namespace, d Defaults, v string) {
			if d.sortable(strings.TrimSpace(v)) {
				ns.Set(ctx, keySortBy, strings.TrimSpace(v))
			}
		},
		filters.KeySortDir: func(ctx context.Context, ns Namespace, d Defaults, v string) {
			if o, ok := sortOrder(v); ok {
				ns.Set(ctx, keySortOrder, o)
			}
		},
		filters.KeyRPP: func(ctx context.Context, ns Namespace, d Defaults, v string) {
			if n, ok := positive(v, filters.MaxRPP); ok {
				ns.Set(ctx, filters.KeyRPP, strconv.Itoa(n))
				return
			}
			ns.Delete(ctx, filters.KeyRPP)
		},
		ReqPage: pageSetter(keyPage),
	}
	for _, c := range d.Cursors {
		t[c] = pageSetter(c)
	}
	for _, k := range d.Keys {
		if _, taken := t[k]; taken {
			continue
		}
		t[k] = filterSetter(k)
	}
	return t
}

func pageSetter(key string) setter {
	return func(ctx context.Context, ns Namespace, _ Defaults, v string) {
		if n, ok := positive(v, MaxPage); ok {
			ns.Set(ctx, key, strconv.Itoa(n))
			return
		}
		ns.Delete(ctx, key)
	}
}

func filterSetter(key string) setter {
	return func(ctx context.Context, ns Namespace, _ Defaults, v string) {
		if v = filters.Normalize(v); v != "" {
			ns.Set(ctx, key, v)
			return
		}
		ns.Delete(ctx, key)
	}
}

// Apply stores every recognized request value and returns the resulting state;
// unrecognized keys are ignored
func Apply(ctx context.Context, ns Namespace, req map[string]string, d Defaults) State {
	t := table(d)
	for k, v := range req {
		if set, ok := t[k]; ok {
			set(ctx, ns, d, v)
		}
	}
	return Load(ctx, ns, d)
}

// Reset writes the compiled in defaults back and clears filters and cursors
func Reset(ctx context.Context, ns Namespace, d Defaults) State {
	ns.Set(ctx, keyPage, "1")
	ns.Set(ctx, keyRPP, strconv.Itoa(d.rpp()))
	ns.Set(ctx, keySortBy, d.SortBy)
	ns.Set(ctx, keySortOrder, d.SortOrder)
	drop := append([]string{filters.KeyRPP}, d.Cursors...)
	for _, k := range d.Keys {
		if v := filters.Normalize(d.Filters[k]); v != "" {
			ns.Set(ctx, k, v)
			continue
		}
		drop = append(drop, k)
	}
	ns.Delete(ctx, drop...)
	return Load(ctx, ns, d)
}
