package service

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"eventcatalog/internal/services/api/events/domain"
)

// feedNS scopes calendar UIDs so they stay stable across renders
var feedNS = uuid.NewSHA1(uuid.NameSpaceURL, []byte("eventcatalog/events"))

// UID is the stable calendar identifier of an event or projected occurrence
func UID(e domain.Event) string {
	key := e.Slug
	if e.Projected {
		key = fmt.Sprintf("%s@%d", e.Slug, e.StartAt.Unix())
	}
	return uuid.NewSHA1(feedNS, []byte(key)).String()
}

// ICS renders events as an iCalendar document
func ICS(name string, events []domain.Event, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//eventcatalog//events feed//EN")
	cal.SetName(name)

	for _, e := range events {
		ve := cal.AddEvent(UID(e))
		ve.SetDtStampTime(stamp)
		ve.SetStartAt(e.StartAt)
		end := e.StartAt.Add(3 * time.Hour)
		if e.EndAt != nil {
			end = *e.EndAt
		}
		ve.SetEndAt(end)
		ve.SetSummary(e.Name)
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		if e.VenueName != "" {
			ve.SetLocation(e.VenueName)
		}
		if len(e.Tags) > 0 {
			ve.AddProperty(ical.ComponentPropertyCategories, strings.Join(e.Tags, ","))
		}
	}
	return cal.Serialize()
}

// Text renders events one per line in loc
func Text(events []domain.Event, loc *time.Location) string {
	var b strings.Builder
	for _, e := range events {
		b.WriteString(e.StartAt.In(loc).Format("Mon Jan 2 2006 15:04"))
		b.WriteString("  ")
		b.WriteString(e.Name)
		if e.VenueName != "" {
			b.WriteString(" @ ")
			b.WriteString(e.VenueName)
		}
		if e.Projected {
			b.WriteString(" (projected)")
		}
		b.WriteString("\n")
	}
	return b.String()
}
