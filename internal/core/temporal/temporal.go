// Package temporal splits listings around the current instant
package temporal

import (
	"sort"
	"time"

	"eventcatalog/internal/core/listing"
	"eventcatalog/internal/core/predicate"
	ptime "eventcatalog/internal/platform/time"
)

// FieldStart is the field every partition works on
const FieldStart = "start_at"

// Partition splits base into upcoming (start >= now, ascending) and
// past (start < now, descending); both keep base's page and rpp
func Partition(base listing.Query, now time.Time) (future, past listing.Query) {
	return PartitionAt(base, now, base.Page, base.Page)
}

// PartitionAt is Partition with an independent page cursor per side
func PartitionAt(base listing.Query, now time.Time, futurePage, pastPage int) (future, past listing.Query) {
	future = base.Narrow(predicate.Since(FieldStart, now)).
		OrderBy(predicate.Asc(FieldStart)).
		AtPage(futurePage)
	past = base.Narrow(predicate.Before(FieldStart, now)).
		OrderBy(predicate.Desc(FieldStart)).
		AtPage(pastPage)
	return future, past
}

// Future is the upcoming side only
func Future(base listing.Query, now time.Time) listing.Query {
	f, _ := Partition(base, now)
	return f
}

// Past is the past side only
func Past(base listing.Query, now time.Time) listing.Query {
	_, p := Partition(base, now)
	return p
}

// Today is [start of day, next day) in loc, ascending
func Today(base listing.Query, now time.Time, loc *time.Location) listing.Query {
	return window(base, ptime.StartOfDay(now, loc), 1)
}

// Week is the seven days starting today in loc, ascending
func Week(base listing.Query, now time.Time, loc *time.Location) listing.Query {
	return window(base, ptime.StartOfDay(now, loc), 7)
}

// Starting lists events that start on day's calendar date in loc
func Starting(base listing.Query, day time.Time, loc *time.Location) listing.Query {
	return window(base, ptime.StartOfDay(day, loc), 1)
}

func window(base listing.Query, from time.Time, days int) listing.Query {
	return base.Narrow(predicate.Between(FieldStart, from, from.AddDate(0, 0, days))).
		OrderBy(predicate.Asc(FieldStart))
}

// Split is the in memory Partition: every record lands on exactly one side,
// future ascending and past descending by start
func Split[R any](recs []R, now time.Time, start func(R) time.Time) (future, past []R) {
	for _, r := range recs {
		if start(r).Before(now) {
			past = append(past, r)
		} else {
			future = append(future, r)
		}
	}
	sort.SliceStable(future, func(i, j int) bool { return start(future[i]).Before(start(future[j])) })
	sort.SliceStable(past, func(i, j int) bool { return start(past[i]).After(start(past[j])) })
	return future, past
}
