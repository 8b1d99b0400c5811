// Package listingtest pages fixtures in memory for repo fakes
package listingtest

import "eventcatalog/internal/core/listing"

// Slice paginates items in memory; out of range pages are empty
func Slice[T any](items []T, page, rpp int) listing.Page[T] {
	if rpp < 1 {
		rpp = 1
	}
	off := listing.Offset(page, rpp)
	if off >= len(items) {
		return listing.NewPage[T](nil, len(items), page, rpp)
	}
	end := min(off+rpp, len(items))
	return listing.NewPage(items[off:end], len(items), page, rpp)
}
