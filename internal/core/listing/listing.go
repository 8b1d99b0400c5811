// Package listing is the query envelope handed to repos plus pagination math
package listing

import (
	"math"

	"eventcatalog/internal/core/predicate"
)

// Query is one page request against a listing
type Query struct {
	Where   predicate.Expr
	Order   []predicate.SortKey
	Page    int
	PerPage int
}

// Compose conjoins base, filter and visibility at the top level
func Compose(base, filter, vis predicate.Expr) predicate.Expr {
	return predicate.AllOf(base, filter, vis)
}

// Narrow returns a copy of q with extra ANDed onto its predicate
func (q Query) Narrow(extra ...predicate.Expr) Query {
	q.Where = predicate.AllOf(append([]predicate.Expr{q.Where}, extra...)...)
	return q
}

// OrderBy returns a copy of q with a new ordering
func (q Query) OrderBy(keys ...predicate.SortKey) Query {
	q.Order = append([]predicate.SortKey(nil), keys...)
	return q
}

// AtPage returns a copy of q on page n
func (q Query) AtPage(n int) Query {
	q.Page = n
	return q
}

// Limit is the row count to fetch; never below one
func (q Query) Limit() int {
	if q.PerPage < 1 {
		return 1
	}
	return q.PerPage
}

// Offset is the row offset of q's page
func (q Query) Offset() int { return Offset(q.Page, q.Limit()) }

// Pages is the page count for total rows, at least one
func Pages(total, rpp int) int {
	if rpp < 1 {
		rpp = 1
	}
	if total <= 0 {
		return 1
	}
	n := total / rpp
	if total%rpp != 0 {
		n++
	}
	return n
}

// Offset of a 1 based page; pages below one are page one and
// offsets past math.MaxInt saturate
func Offset(page, rpp int) int {
	if page < 1 {
		page = 1
	}
	if rpp < 1 {
		rpp = 1
	}
	if page-1 > math.MaxInt/rpp {
		return math.MaxInt
	}
	return (page - 1) * rpp
}

// Page is one page of results
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PerPage  int `json:"per_page"`
	LastPage int `json:"last_page"`
}

// NewPage fills in the derived fields
func NewPage[T any](items []T, total, page, rpp int) Page[T] {
	if items == nil {
		items = []T{}
	}
	if page < 1 {
		page = 1
	}
	return Page[T]{Items: items, Total: total, Page: page, PerPage: rpp, LastPage: Pages(total, rpp)}
}
